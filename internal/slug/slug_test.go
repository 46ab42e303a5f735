package slug

import (
	"errors"
	"testing"
)

// TestGenerate covers the titles the admin editors typically produce:
// project names, post titles and service names.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Typical titles ---
		{name: "project name", input: "Portfolio Redesign", want: "portfolio-redesign"},
		{name: "title with year", input: "Checkout Rewrite 2026", want: "checkout-rewrite-2026"},
		{name: "single word", input: "GoLang", want: "golang"},
		{name: "post title with question", input: "Why Did I Pick Postgres?", want: "why-did-i-pick-postgres"},
		{name: "colon separated", input: "Case Study: Realtime Dashboards", want: "case-study-realtime-dashboards"},

		// --- Special characters ---
		{name: "tech names with dots", input: "Next.js + Node.js", want: "nextjs-nodejs"},
		{name: "ampersand", input: "Design & Build", want: "design-build"},
		{name: "slashes", input: "Frontend/Backend | Full Stack", want: "frontendbackend-full-stack"},
		{name: "brackets", input: "API Gateway (v2) [Beta]", want: "api-gateway-v2-beta"},
		{name: "non ascii stripped", input: "Café Menü", want: "caf-men"},

		// --- Whitespace and hyphens ---
		{name: "surrounding spaces", input: "  mobile app  ", want: "mobile-app"},
		{name: "repeated spaces", input: "mobile    app", want: "mobile-app"},
		{name: "existing hyphen kept", input: "real-time sync", want: "real-time-sync"},
		{name: "hyphen runs collapsed", input: "--real -- time--", want: "real-time"},

		// --- Edge cases ---
		{name: "empty", input: "", want: ""},
		{name: "only symbols", input: "!@#$%^&*()", want: ""},
		{name: "only hyphens", input: "-----", want: ""},
		{name: "numbers", input: "2026-02-25", want: "2026-02-25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.input)
			if got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestGenerate_Idempotent verifies that slugifying a slug is a no-op.
func TestGenerate_Idempotent(t *testing.T) {
	for _, s := range []string{"portfolio-redesign", "go", "web-app-2026", "a-b-c"} {
		t.Run(s, func(t *testing.T) {
			if got := Generate(s); got != s {
				t.Errorf("Generate(%q) = %q, want %q", s, got, s)
			}
		})
	}
}

func TestUnique(t *testing.T) {
	used := map[string]bool{"portfolio": true, "portfolio-2": true}
	taken := func(s string) (bool, error) { return used[s], nil }

	tests := []struct {
		base string
		want string
	}{
		{"portfolio", "portfolio-3"},
		{"dashboard", "dashboard"},
	}
	for _, tt := range tests {
		got, err := Unique(tt.base, taken)
		if err != nil {
			t.Fatalf("Unique(%q) error: %v", tt.base, err)
		}
		if got != tt.want {
			t.Errorf("Unique(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

func TestUniqueErrors(t *testing.T) {
	boom := errors.New("db down")
	if _, err := Unique("x", func(string) (bool, error) { return false, boom }); !errors.Is(err, boom) {
		t.Errorf("Unique() error = %v, want wrapped %v", err, boom)
	}

	if _, err := Unique("x", func(string) (bool, error) { return true, nil }); err == nil {
		t.Error("Unique() should fail when every candidate is taken")
	}
}
