// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"folio/internal/auth"
	"folio/internal/cache"
	"folio/internal/contact"
	"folio/internal/dashboard"
	"folio/internal/database"
	"folio/internal/icons"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/newsletter"
	"folio/internal/session"
	"folio/internal/storage"
	"folio/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "folio")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "folio")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})
	return client
}

// recordingRefresher remembers which feeds were asked to refresh.
type recordingRefresher struct {
	triggered []string
}

func (r *recordingRefresher) Trigger(name string) error {
	r.triggered = append(r.triggered, name)
	return nil
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB        *sql.DB
	Valkey    *redis.Client
	Stores    *store.Stores
	Sessions  *session.Store
	Refresher *recordingRefresher
	Admin     *Admin
	Auth      *Auth
	Public    *Public
}

// newTestEnv creates a complete test environment with all handler
// dependencies. Object storage is left unconfigured.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	table, err := icons.Default()
	if err != nil {
		t.Fatalf("icons.Default: %v", err)
	}
	resolver := icons.NewResolver(table)

	stores := store.New(db)
	sessions := session.NewStore(vk, false)
	assets := storage.NewAssets(nil, stores.Media)
	nl := newsletter.NewService(stores.Subscribers, stores.Campaigns, assets, newsletter.NewTokens("test-secret"))
	refresher := &recordingRefresher{}

	admin := NewAdmin(AdminDeps{
		Stores:     stores,
		Checker:    auth.NewChecker(stores.Users, 0),
		Cache:      cache.NewResponseCache(vk, 0),
		Drafts:     cache.NewDraftStore(vk, 0),
		Assets:     assets,
		Newsletter: nl,
		Fetcher: dashboard.NewFetcher(dashboard.Sources{
			Skills:      stores.Skills,
			Projects:    stores.Projects,
			Posts:       stores.Posts,
			Subscribers: stores.Subscribers,
			Campaigns:   stores.Campaigns,
			Messages:    stores.Messages,
			Views:       stores.Views,
		}),
		Resolver:  resolver,
		Refresher: refresher,
		BaseURL:   "https://folio.test",
	})

	return &testEnv{
		DB:        db,
		Valkey:    vk,
		Stores:    stores,
		Sessions:  sessions,
		Refresher: refresher,
		Admin:     admin,
		Auth:      NewAuth(sessions, stores.Users),
		Public:    NewPublic(stores, resolver, cache.NewViewDedupe(vk), nl, contact.NewVerifier("", ""), refresher),
	}
}

// testUser creates a user that is removed when the test ends.
func testUser(t *testing.T, env *testEnv, role models.Role) *models.User {
	t.Helper()
	email := "test-" + uuid.NewString()[:8] + "@folio.test"
	u, err := env.Stores.Users.Create(context.Background(), email, "correct-horse", "Test User", role)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() { env.Stores.Users.Delete(context.Background(), u.ID) })
	return u
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// testSession creates a session.Data for testing.
func testSession(userID uuid.UUID, email string, role models.Role, twoFADone bool) *session.Data {
	return &session.Data{
		UserID:      userID,
		Email:       email,
		DisplayName: "Test User",
		Role:        role,
		TwoFADone:   twoFADone,
	}
}

// jsonRequest builds a request with v encoded as the JSON body. A nil v
// sends no body.
func jsonRequest(t *testing.T, method, target string, v any) *http.Request {
	t.Helper()
	var body io.Reader
	if v != nil {
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withURLParams adds chi URL parameters (key, value pairs) to a request.
func withURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// asUser attaches sess to the request context.
func asUser(r *http.Request, sess *session.Data) *http.Request {
	return r.WithContext(ctxWithSession(r.Context(), sess))
}

// decodeBody unmarshals the recorded response into v.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// expectStatus fails the test when the recorded status differs.
func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status: got %d, want %d (body: %s)", rec.Code, want, rec.Body.String())
	}
}

// expectField fails the test unless the 422 body names field.
func expectField(t *testing.T, rec *httptest.ResponseRecorder, field string) {
	t.Helper()
	expectStatus(t, rec, http.StatusUnprocessableEntity)
	var body errorResponse
	decodeBody(t, rec, &body)
	if _, ok := body.Fields[field]; !ok {
		t.Errorf("fields = %v, want an error on %q", body.Fields, field)
	}
}
