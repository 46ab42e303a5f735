// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package icons resolves the visual shown next to a skill or technology.
//
// Resolution walks a fixed chain and the first step that produces something
// wins: an uploaded image, an explicit text or emoji glyph, an exact match in
// the name table, a partial match in the name table, the generic icon of the
// category, a coarse guess from words in the name, and finally a default.
package icons

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
	"unicode"

	"folio/internal/models"
)

//go:embed table.json
var embeddedTable []byte

// Kind says how a Ref should be rendered.
type Kind string

const (
	KindImage Kind = "image"
	KindText  Kind = "text"
	KindIcon  Kind = "icon"
)

// Source records which step of the chain produced a Ref.
type Source string

const (
	SourceImage     Source = "image"
	SourceText      Source = "text"
	SourceExact     Source = "exact"
	SourcePartial   Source = "partial"
	SourceCategory  Source = "category"
	SourceHeuristic Source = "heuristic"
	SourceDefault   Source = "default"
)

// Ref is a resolved icon. For KindImage the value is a URL, for KindText a
// literal glyph and for KindIcon an icon identifier of the front end's set.
type Ref struct {
	Kind   Kind   `json:"kind"`
	Value  string `json:"value"`
	Source Source `json:"source"`
}

// minPartial is the shortest name that may match as a substring of a
// table key. Shorter names only match exactly.
const minPartial = 3

// minSubstringKey is the shortest table key that may match inside a name.
// Shorter keys ("go", "ts", "git") must equal one whole word of the name.
const minSubstringKey = 5

// DefaultIcon is returned when nothing else matches.
const DefaultIcon = "FaTools"

var categoryIcons = map[models.SkillCategory]string{
	models.CategoryFrontend:       "FaLaptopCode",
	models.CategoryBackend:        "FaServer",
	models.CategoryDatabase:       "FaDatabase",
	models.CategoryDevOps:         "FaCogs",
	models.CategoryInfrastructure: "FaNetworkWired",
	models.CategoryMobile:         "FaMobileAlt",
	models.CategoryTools:          "FaWrench",
	models.CategoryDesign:         "FaPalette",
	models.CategoryOther:          "FaCode",
}

// heuristics are checked in order against the lowercased name.
var heuristics = []struct {
	tokens []string
	icon   string
}{
	{[]string{"js", "script"}, "FaCode"},
	{[]string{"db", "sql", "mongo"}, "FaDatabase"},
	{[]string{"cloud", "aws", "azure"}, "FaCloud"},
	{[]string{"design", "ui", "ux"}, "FaPalette"},
	{[]string{"mobile", "app"}, "FaMobileAlt"},
	{[]string{"web", "site"}, "FaGlobe"},
}

type entry struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Table is an ordered name to icon mapping. Order matters for partial
// matches: the first key found wins, so specific keys ("nextjs") must be
// listed before generic ones ("js").
type Table struct {
	entries []entry
	exact   map[string]string
}

// Parse builds a Table from its JSON form, an array of {name, icon}
// objects. Names are normalized; blank and repeated names are skipped.
func Parse(data []byte) (*Table, error) {
	var raw []entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing icon table: %w", err)
	}

	t := &Table{exact: make(map[string]string, len(raw))}
	for _, e := range raw {
		key := Normalize(e.Name)
		icon := strings.TrimSpace(e.Icon)
		if key == "" || icon == "" {
			continue
		}
		if _, dup := t.exact[key]; dup {
			continue
		}
		t.exact[key] = icon
		t.entries = append(t.entries, entry{Name: key, Icon: icon})
	}
	return t, nil
}

// Load reads a table from path, or returns the embedded table when path
// is empty.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading icon table: %w", err)
	}
	return Parse(data)
}

// Default returns the embedded table, parsed once.
var Default = sync.OnceValues(func() (*Table, error) {
	return Parse(embeddedTable)
})

// Len returns the number of entries in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

// Exact looks up a normalized name.
func (t *Table) Exact(name string) (string, bool) {
	icon, ok := t.exact[Normalize(name)]
	return icon, ok
}

// Partial returns the icon of the first entry whose key is contained in
// name, or which contains name.
func (t *Table) Partial(name string) (string, bool) {
	n := Normalize(name)
	if n == "" {
		return "", false
	}
	words := wordsOf(name)
	for _, e := range t.entries {
		if len(e.Name) >= minSubstringKey {
			if strings.Contains(n, e.Name) {
				return e.Icon, true
			}
		} else if slices.Contains(words, e.Name) {
			return e.Icon, true
		}
		if len(n) >= minPartial && strings.Contains(e.Name, n) {
			return e.Icon, true
		}
	}
	return "", false
}

// wordsOf splits name on spaces and punctuation other than the symbols
// that belong to technology names (c#, c++, .net) and normalizes each word.
func wordsOf(name string) []string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune("-_/,;:()[]&|", r)
	})
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if w := Normalize(f); w != "" {
			words = append(words, w)
		}
	}
	return words
}

// Normalize lowercases name and strips the separators people put in
// technology names, so "Node.js", "node js" and "NodeJS" are one key.
func Normalize(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch r {
		case ' ', '.', '-', '_', '/', '\t':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Resolver walks the resolution chain against a Table.
type Resolver struct {
	table *Table
}

// NewResolver creates a resolver over table. A nil table behaves as empty.
func NewResolver(table *Table) *Resolver {
	if table == nil {
		table = &Table{exact: map[string]string{}}
	}
	return &Resolver{table: table}
}

// Resolve returns the icon for name. image and text are the explicit
// overrides stored on the record; category is the record's category and
// may be empty. If an image later fails to load, the front end falls back
// to Resolve(name, "", text, category).
func (r *Resolver) Resolve(name, image, text, category string) Ref {
	if v := strings.TrimSpace(image); v != "" {
		return Ref{Kind: KindImage, Value: v, Source: SourceImage}
	}
	if v := strings.TrimSpace(text); v != "" {
		return Ref{Kind: KindText, Value: v, Source: SourceText}
	}
	if icon, ok := r.table.Exact(name); ok {
		return Ref{Kind: KindIcon, Value: icon, Source: SourceExact}
	}
	if icon, ok := r.table.Partial(name); ok {
		return Ref{Kind: KindIcon, Value: icon, Source: SourcePartial}
	}
	if c, ok := models.ParseCategory(category); ok {
		return Ref{Kind: KindIcon, Value: categoryIcons[c], Source: SourceCategory}
	}
	if icon, ok := guess(name); ok {
		return Ref{Kind: KindIcon, Value: icon, Source: SourceHeuristic}
	}
	return Ref{Kind: KindIcon, Value: DefaultIcon, Source: SourceDefault}
}

// ResolveSkill resolves the icon of a skill record.
func (r *Resolver) ResolveSkill(s models.Skill) Ref {
	return r.Resolve(s.Name, deref(s.IconURL), deref(s.Icon), string(s.Category))
}

// ResolveTechnology resolves the icon of a technology record.
func (r *Resolver) ResolveTechnology(t models.Technology) Ref {
	return r.Resolve(t.Name, deref(t.IconURL), deref(t.Icon), string(t.Category))
}

func guess(name string) (string, bool) {
	n := strings.ToLower(name)
	if strings.TrimSpace(n) == "" {
		return "", false
	}
	for _, h := range heuristics {
		for _, tok := range h.tokens {
			if strings.Contains(n, tok) {
				return h.icon, true
			}
		}
	}
	return "", false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
