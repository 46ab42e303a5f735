// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"folio/internal/dashboard"
	"folio/internal/models"
	"folio/internal/poller"
	"folio/internal/store"
)

// offlineAdmin returns an Admin whose stores are never reached.
func offlineAdmin(deps AdminDeps) *Admin {
	if deps.Stores == nil {
		deps.Stores = store.New(nil)
	}
	return NewAdmin(deps)
}

func TestUserCreate_Validation(t *testing.T) {
	tests := []struct {
		name      string
		req       userRequest
		wantField string
	}{
		{"missing email", userRequest{DisplayName: "A", Password: "long-enough", Role: models.RoleAdmin}, "email"},
		{"not an email", userRequest{Email: "admin", DisplayName: "A", Password: "long-enough", Role: models.RoleAdmin}, "email"},
		{"short password", userRequest{Email: "a@b.c", DisplayName: "A", Password: "short", Role: models.RoleAdmin}, "password"},
		{"missing name", userRequest{Email: "a@b.c", Password: "long-enough", Role: models.RoleViewer}, "display_name"},
		{"unknown role", userRequest{Email: "a@b.c", DisplayName: "A", Password: "long-enough", Role: "owner"}, "role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			offlineAdmin(AdminDeps{}).UserCreate(rec, jsonRequest(t, http.MethodPost, "/api/admin/users", tt.req))
			expectField(t, rec, tt.wantField)
		})
	}
}

func TestUserSelfServiceRefused(t *testing.T) {
	me := uuid.New()
	sess := testSession(me, "me@folio.test", models.RoleAdmin, true)
	a := offlineAdmin(AdminDeps{})

	tests := []struct {
		name    string
		handler http.HandlerFunc
		body    any
	}{
		{"set role", a.UserSetRole, roleRequest{Role: models.RoleViewer}},
		{"reset 2fa", a.UserResetTwoFA, nil},
		{"delete", a.UserDelete, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withURLParams(jsonRequest(t, http.MethodPut, "/", tt.body), "id", me.String())
			rec := httptest.NewRecorder()
			tt.handler(rec, asUser(req, sess))
			expectStatus(t, rec, http.StatusForbidden)
		})
	}
}

func TestCheckOrigin(t *testing.T) {
	a := offlineAdmin(AdminDeps{AllowedOrigins: []string{"https://admin.example.com/"}})

	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://api.example.com", true},
		{"https://admin.example.com", true},
		{"https://evil.example.com", false},
		{"::not a url", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "http://api.example.com/api/admin/live", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		if got := a.checkOrigin(req); got != tt.want {
			t.Errorf("checkOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

type refresherFunc func(string) error

func (f refresherFunc) Trigger(name string) error { return f(name) }

func TestRefresh(t *testing.T) {
	known := refresherFunc(func(name string) error {
		if name == dashboard.TaskActivity {
			return nil
		}
		return poller.ErrUnknownTask
	})

	tests := []struct {
		name      string
		refresher Refresher
		task      string
		want      int
	}{
		{"not running", nil, dashboard.TaskActivity, http.StatusServiceUnavailable},
		{"known task", known, dashboard.TaskActivity, http.StatusAccepted},
		{"unknown task", known, "weather", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := offlineAdmin(AdminDeps{Refresher: tt.refresher})
			req := withURLParams(httptest.NewRequest(http.MethodPost, "/", nil), "task", tt.task)
			rec := httptest.NewRecorder()
			a.Refresh(rec, req)
			expectStatus(t, rec, tt.want)
		})
	}
}

func TestLiveWithoutHub(t *testing.T) {
	rec := httptest.NewRecorder()
	offlineAdmin(AdminDeps{}).Live(rec, httptest.NewRequest(http.MethodGet, "/api/admin/live", nil))
	expectStatus(t, rec, http.StatusServiceUnavailable)
}

func TestMediaUploadWithoutStorage(t *testing.T) {
	rec := httptest.NewRecorder()
	offlineAdmin(AdminDeps{}).MediaUpload(rec, httptest.NewRequest(http.MethodPost, "/api/admin/media", nil))
	expectStatus(t, rec, http.StatusServiceUnavailable)
}

func TestDraftKey(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		param  string
		wantOK bool
		wantID *uuid.UUID
	}{
		{"new", true, nil},
		{id.String(), true, &id},
		{"draft-7", false, nil},
	}
	for _, tt := range tests {
		req := withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), "key", tt.param)
		rec := httptest.NewRecorder()
		_, gotID, ok := draftKey(rec, req)
		if ok != tt.wantOK {
			t.Errorf("draftKey(%q) ok = %v, want %v", tt.param, ok, tt.wantOK)
			continue
		}
		if !ok {
			expectStatus(t, rec, http.StatusBadRequest)
			continue
		}
		if (gotID == nil) != (tt.wantID == nil) || (gotID != nil && *gotID != *tt.wantID) {
			t.Errorf("draftKey(%q) id = %v, want %v", tt.param, gotID, tt.wantID)
		}
	}
}
