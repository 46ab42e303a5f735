// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"folio/internal/cache"
	"folio/internal/derive"
	"folio/internal/editor"
	"folio/internal/middleware"
	"folio/internal/models"
)

// Projects lists every project including hidden ones. It accepts the
// public listing filters plus public and active flags.
func (a *Admin) Projects(w http.ResponseWriter, r *http.Request) {
	projects, err := a.Stores.Projects.List(r.Context())
	if err != nil {
		serverError(w, "list projects failed", err)
		return
	}
	preds := append(projectFilters(r),
		derive.Flag(queryBool(r, "public"), func(p models.Project) bool { return p.IsPublic }),
		derive.Flag(queryBool(r, "active"), func(p models.Project) bool { return p.IsActive }),
	)
	writeJSON(w, http.StatusOK, derive.Filter(projects, preds...))
}

// Project returns one project with its relations.
func (a *Admin) Project(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	p, err := a.Stores.Projects.FindByID(r.Context(), id)
	if !found(w, p, err, "find project failed", id) {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ProjectDelete removes a project, its parked drafts and its images.
func (a *Admin) ProjectDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	p, err := a.Stores.Projects.FindByID(ctx, id)
	if !found(w, p, err, "find project failed", id) {
		return
	}
	if err := a.Stores.Projects.Delete(ctx, id); err != nil {
		serverError(w, "delete project failed", err, "id", id)
		return
	}

	sess := middleware.SessionFromCtx(ctx)
	if err := a.Drafts.Delete(ctx, sess.UserID, cache.DraftKey(&id)); err != nil {
		slog.Warn("discard project draft failed", "error", err, "id", id)
	}
	a.deleteAsset(ctx, p.CoverImageURL)
	for _, img := range p.Gallery {
		a.deleteAsset(ctx, &img.URL)
	}
	a.invalidate(ctx, cache.SectionProjects)
	w.WriteHeader(http.StatusNoContent)
}

// ProjectTechnologies replaces only the technology associations of a
// saved project. The editor uses it to retry after a partial save.
func (a *Admin) ProjectTechnologies(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var refs []editor.TechnologyRef
	if !decodeJSON(w, r, &refs) {
		return
	}

	ctx := r.Context()
	p, err := a.Stores.Projects.FindByID(ctx, id)
	if !found(w, p, err, "find project failed", id) {
		return
	}
	d := editor.FromProject(p)
	d.Technologies = refs
	d, err = d.Validate()
	if err != nil {
		a.editorFailed(w, err)
		return
	}
	if err := a.Stores.Projects.ReplaceTechnologies(ctx, id, d.Associations(id)); err != nil {
		serverError(w, "replace project technologies failed", err, "id", id)
		return
	}

	updated, err := a.Stores.Projects.FindByID(ctx, id)
	if !found(w, updated, err, "reload project failed", id) {
		return
	}
	a.invalidate(ctx, cache.SectionProjects)
	writeJSON(w, http.StatusOK, updated)
}

// --- Drafts ---

// draftKey reads the {key} URL parameter: "new" or a project id.
func draftKey(w http.ResponseWriter, r *http.Request) (string, *uuid.UUID, bool) {
	key := chi.URLParam(r, "key")
	if key == cache.NewDraftKey {
		return key, nil, true
	}
	id, err := uuid.Parse(key)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid draft key")
		return "", nil, false
	}
	return cache.DraftKey(&id), &id, true
}

// loadDraft returns the parked draft, or a fresh one built from the stored
// project (or a blank form for "new").
func (a *Admin) loadDraft(w http.ResponseWriter, r *http.Request) (string, editor.ProjectDraft, bool) {
	key, id, ok := draftKey(w, r)
	if !ok {
		return "", editor.ProjectDraft{}, false
	}

	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)
	d, parked, err := a.Drafts.Load(ctx, sess.UserID, key)
	if err != nil {
		serverError(w, "load project draft failed", err, "key", key)
		return "", d, false
	}
	if parked {
		return key, d, true
	}
	if id == nil {
		return key, editor.NewDraft(), true
	}

	p, err := a.Stores.Projects.FindByID(ctx, *id)
	if !found(w, p, err, "find project failed", *id) {
		return "", d, false
	}
	return key, editor.FromProject(p), true
}

// storeDraft parks d and answers with it.
func (a *Admin) storeDraft(w http.ResponseWriter, r *http.Request, key string, d editor.ProjectDraft) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)
	if err := a.Drafts.Save(ctx, sess.UserID, key, d); err != nil {
		serverError(w, "save project draft failed", err, "key", key)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// editorFailed maps editor errors to responses: field errors and other
// invalid input become 422.
func (a *Admin) editorFailed(w http.ResponseWriter, err error) {
	var fe editor.FieldErrors
	switch {
	case errors.As(err, &fe):
		writeInvalid(w, fe)
	case errors.Is(err, editor.ErrInvalid):
		writeInvalid(w, map[string]string{"draft": err.Error()})
	default:
		serverError(w, "project editor failed", err)
	}
}

// Draft returns the current editor state of a project.
func (a *Admin) Draft(w http.ResponseWriter, r *http.Request) {
	_, d, ok := a.loadDraft(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// DraftReplace overwrites the whole editor state.
func (a *Admin) DraftReplace(w http.ResponseWriter, r *http.Request) {
	key, id, ok := draftKey(w, r)
	if !ok {
		return
	}
	var d editor.ProjectDraft
	if !decodeJSON(w, r, &d) {
		return
	}
	d.ID = id
	a.storeDraft(w, r, key, d)
}

type fieldRequest struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// DraftSetField changes one scalar field of the draft.
func (a *Admin) DraftSetField(w http.ResponseWriter, r *http.Request) {
	key, d, ok := a.loadDraft(w, r)
	if !ok {
		return
	}
	var req fieldRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	next, err := d.SetField(req.Key, req.Value)
	if err != nil {
		a.editorFailed(w, err)
		return
	}
	a.storeDraft(w, r, key, next)
}

type itemRequest struct {
	Field editor.ArrayField `json:"field"`
	Index int               `json:"index"`
	Key   string            `json:"key"`
	Value any               `json:"value"`
}

// DraftAddItem appends a blank entry to one of the repeated sections.
func (a *Admin) DraftAddItem(w http.ResponseWriter, r *http.Request) {
	key, d, ok := a.loadDraft(w, r)
	if !ok {
		return
	}
	var req itemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	next, err := d.AddItem(req.Field)
	if err != nil {
		a.editorFailed(w, err)
		return
	}
	a.storeDraft(w, r, key, next)
}

// DraftUpdateItem changes one key of one entry.
func (a *Admin) DraftUpdateItem(w http.ResponseWriter, r *http.Request) {
	key, d, ok := a.loadDraft(w, r)
	if !ok {
		return
	}
	var req itemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	next, err := d.UpdateItem(req.Field, req.Index, req.Key, req.Value)
	if err != nil {
		a.editorFailed(w, err)
		return
	}
	a.storeDraft(w, r, key, next)
}

// DraftRemoveItem drops the entry at /items/{field}/{index}.
func (a *Admin) DraftRemoveItem(w http.ResponseWriter, r *http.Request) {
	key, d, ok := a.loadDraft(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid index")
		return
	}
	next, err := d.RemoveItem(editor.ArrayField(chi.URLParam(r, "field")), index)
	if err != nil {
		a.editorFailed(w, err)
		return
	}
	a.storeDraft(w, r, key, next)
}

// DraftDiscard throws the parked draft away.
func (a *Admin) DraftDiscard(w http.ResponseWriter, r *http.Request) {
	key, _, ok := draftKey(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)
	if err := a.Drafts.Delete(ctx, sess.UserID, key); err != nil {
		serverError(w, "discard project draft failed", err, "key", key)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type partialSaveResponse struct {
	Project *models.Project `json:"project"`
	Error   string          `json:"error"`
}

// DraftCommit saves the draft as a project. A new project answers 201, an
// update 200. When the project was written but its technologies were not,
// the answer is 207 with the saved project so the editor can retry through
// ProjectTechnologies.
func (a *Admin) DraftCommit(w http.ResponseWriter, r *http.Request) {
	key, d, ok := a.loadDraft(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	saved, err := editor.Save(ctx, a.Stores.Projects, d)
	var partial *editor.PartialSaveError
	switch {
	case errors.As(err, &partial):
		a.invalidate(ctx, cache.SectionProjects)
		writeJSON(w, http.StatusMultiStatus, partialSaveResponse{
			Project: partial.Project,
			Error:   "project saved but its technologies were not; retry the technologies step",
		})
		slog.Error("save project technologies failed", "error", partial.Err, "project_id", partial.Project.ID)
		return
	case err != nil:
		a.editorFailed(w, err)
		return
	}

	sess := middleware.SessionFromCtx(ctx)
	if err := a.Drafts.Delete(ctx, sess.UserID, key); err != nil {
		slog.Warn("discard committed draft failed", "error", err, "key", key)
	}
	a.invalidate(ctx, cache.SectionProjects)

	// Save returns only what the draft carried; counters, timestamps and
	// relations come from the stored row.
	stored, err := a.Stores.Projects.FindByID(ctx, saved.ID)
	if err != nil || stored == nil {
		slog.Warn("reload saved project failed", "error", err, "project_id", saved.ID)
		stored = saved
	}

	status := http.StatusOK
	if d.IsNew() {
		status = http.StatusCreated
	}
	writeJSON(w, status, stored)
}
