package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"folio/internal/models"
	"folio/internal/session"
)

// newTestSession creates a session.Data value suitable for testing.
func newTestSession(role models.Role, twoFADone bool) *session.Data {
	return &session.Data{
		UserID:      uuid.New(),
		Email:       "test@folio.local",
		DisplayName: "Test User",
		Role:        role,
		TwoFADone:   twoFADone,
	}
}

// okHandler is a simple handler that records whether it was invoked.
func okHandler() (http.Handler, *bool) {
	var called bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	return h, &called
}

type stubLoader struct {
	data *session.Data
	err  error
}

func (s stubLoader) Get(context.Context, *http.Request) (*session.Data, error) {
	return s.data, s.err
}

// stubChecker reports admin for the ids in admins.
type stubChecker struct {
	admins map[uuid.UUID]bool
	err    error
	calls  int
}

func (s *stubChecker) IsAdmin(_ context.Context, id uuid.UUID) (bool, error) {
	s.calls++
	return s.admins[id], s.err
}

func errorBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rr.Body.String(), err)
	}
	return body["error"]
}

func TestSessionFromCtx(t *testing.T) {
	t.Run("returns session when present", func(t *testing.T) {
		sess := newTestSession(models.RoleAdmin, true)
		got := SessionFromCtx(WithSession(context.Background(), sess))
		if got == nil {
			t.Fatal("expected non-nil session, got nil")
		}
		if got.Email != sess.Email || got.Role != sess.Role {
			t.Errorf("got %+v, want %+v", got, sess)
		}
	})

	t.Run("returns nil when not present", func(t *testing.T) {
		if got := SessionFromCtx(context.Background()); got != nil {
			t.Errorf("expected nil session, got %+v", got)
		}
	})

	t.Run("returns nil for wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), SessionKey, "not-a-session")
		if got := SessionFromCtx(ctx); got != nil {
			t.Errorf("expected nil for wrong type, got %+v", got)
		}
	})
}

func TestLoadSession(t *testing.T) {
	sess := newTestSession(models.RoleAdmin, true)

	tests := []struct {
		name   string
		loader stubLoader
		want   *session.Data
	}{
		{"loads session into context", stubLoader{data: sess}, sess},
		{"no session", stubLoader{}, nil},
		{"store error proceeds unauthenticated", stubLoader{err: errors.New("valkey down")}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *session.Data
			called := false
			handler := LoadSession(tt.loader)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				got = SessionFromCtx(r.Context())
			}))

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/admin/me", nil))

			if !called {
				t.Fatal("next handler should have been called")
			}
			if got != tt.want {
				t.Errorf("session = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	t.Run("401 when no session", func(t *testing.T) {
		inner, called := okHandler()
		rr := httptest.NewRecorder()
		RequireAuth(inner).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil))

		if *called {
			t.Error("next handler should NOT have been called")
		}
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
		}
		if msg := errorBody(t, rr); msg != "authentication required" {
			t.Errorf("error = %q", msg)
		}
	})

	t.Run("passes through when session exists", func(t *testing.T) {
		inner, called := okHandler()
		req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
		req = req.WithContext(WithSession(req.Context(), newTestSession(models.RoleViewer, true)))
		rr := httptest.NewRecorder()
		RequireAuth(inner).ServeHTTP(rr, req)

		if !*called {
			t.Error("next handler should have been called")
		}
		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rr.Code)
		}
	})
}

func TestRequire2FA(t *testing.T) {
	tests := []struct {
		name           string
		session        *session.Data
		wantCode       int
		wantNextCalled bool
	}{
		{"403 when TwoFADone is false", newTestSession(models.RoleAdmin, false), http.StatusForbidden, false},
		{"passes through when TwoFADone is true", newTestSession(models.RoleAdmin, true), http.StatusOK, true},
		{"passes through when session is nil", nil, http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner, called := okHandler()
			req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
			if tt.session != nil {
				req = req.WithContext(WithSession(req.Context(), tt.session))
			}
			rr := httptest.NewRecorder()
			Require2FA(inner).ServeHTTP(rr, req)

			if *called != tt.wantNextCalled {
				t.Errorf("next handler called: got %v, want %v", *called, tt.wantNextCalled)
			}
			if rr.Code != tt.wantCode {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantCode)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	admin := newTestSession(models.RoleAdmin, true)
	demoted := newTestSession(models.RoleAdmin, true) // role in session is stale
	viewer := newTestSession(models.RoleViewer, true)

	tests := []struct {
		name           string
		session        *session.Data
		checkErr       error
		wantCode       int
		wantNextCalled bool
	}{
		{"401 when session is nil", nil, nil, http.StatusUnauthorized, false},
		{"403 for viewer", viewer, nil, http.StatusForbidden, false},
		{"403 when the store no longer says admin", demoted, nil, http.StatusForbidden, false},
		{"500 when the role lookup fails", admin, errors.New("db down"), http.StatusInternalServerError, false},
		{"passes through for admin", admin, nil, http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := &stubChecker{admins: map[uuid.UUID]bool{admin.UserID: true}, err: tt.checkErr}
			inner, called := okHandler()

			req := httptest.NewRequest(http.MethodGet, "/api/admin/settings", nil)
			if tt.session != nil {
				req = req.WithContext(WithSession(req.Context(), tt.session))
			}
			rr := httptest.NewRecorder()
			RequireAdmin(checker)(inner).ServeHTTP(rr, req)

			if *called != tt.wantNextCalled {
				t.Errorf("next handler called: got %v, want %v", *called, tt.wantNextCalled)
			}
			if rr.Code != tt.wantCode {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantCode)
			}
			if tt.wantCode != http.StatusOK && errorBody(t, rr) == "" {
				t.Error("expected an error message")
			}
		})
	}
}
