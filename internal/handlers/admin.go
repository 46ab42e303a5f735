// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers of the folio JSON API.
// Handlers are grouped by concern (public, auth, admin) and receive
// their dependencies through the handler struct.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"folio/internal/auth"
	"folio/internal/cache"
	"folio/internal/dashboard"
	"folio/internal/icons"
	"folio/internal/live"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/newsletter"
	"folio/internal/storage"
	"folio/internal/store"
)

// AdminDeps lists what the admin handlers need. Cache, Drafts, Storage,
// Assets, Hub and Refresher may be nil; the matching features degrade.
type AdminDeps struct {
	Stores     *store.Stores
	Checker    *auth.Checker
	Cache      *cache.ResponseCache
	Drafts     *cache.DraftStore
	Storage    *storage.Client
	Assets     *storage.Assets
	Newsletter *newsletter.Service
	Fetcher    *dashboard.Fetcher
	Resolver   *icons.Resolver
	Hub        *live.Hub
	Refresher  Refresher

	// AllowedOrigins are checked on the live websocket handshake. Empty
	// means same origin only.
	AllowedOrigins []string
	// BaseURL prefixes the unsubscribe links handed out to the admin.
	BaseURL string
}

// Admin groups all admin API handlers and their dependencies.
type Admin struct {
	AdminDeps
	upgrader websocket.Upgrader
	now      func() time.Time
}

// NewAdmin creates a new Admin handler group with the given dependencies.
func NewAdmin(deps AdminDeps) *Admin {
	a := &Admin{AdminDeps: deps, now: time.Now}
	a.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     a.checkOrigin,
	}
	return a
}

// invalidate drops the cached public responses of the given sections.
func (a *Admin) invalidate(ctx context.Context, sections ...string) {
	if a.Cache == nil {
		return
	}
	a.Cache.Invalidate(ctx, sections...)
}

// --- Users ---

// Users lists the admin users.
func (a *Admin) Users(w http.ResponseWriter, r *http.Request) {
	users, err := a.Stores.Users.List(r.Context())
	if err != nil {
		serverError(w, "list users failed", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

type userRequest struct {
	Email       string      `json:"email"`
	DisplayName string      `json:"display_name"`
	Password    string      `json:"password"`
	Role        models.Role `json:"role"`
}

// UserCreate adds a user. New users enroll TOTP on first login.
func (a *Admin) UserCreate(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	fe := fieldErrors{}
	switch {
	case req.Email == "":
		fe["email"] = "Email is required"
	case !strings.Contains(req.Email, "@"):
		fe["email"] = "Must be an email address"
	}
	if req.DisplayName == "" {
		fe["display_name"] = "Display name is required"
	}
	if len(req.Password) < 8 {
		fe["password"] = "Password must be at least 8 characters"
	}
	if req.Role != models.RoleAdmin && req.Role != models.RoleViewer {
		fe["role"] = "Invalid role"
	}
	if !fe.empty() {
		writeInvalid(w, fe)
		return
	}

	ctx := r.Context()
	existing, err := a.Stores.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		serverError(w, "find user failed", err)
		return
	}
	if existing != nil {
		writeInvalid(w, map[string]string{"email": "A user with this email already exists"})
		return
	}

	user, err := a.Stores.Users.Create(ctx, req.Email, req.Password, req.DisplayName, req.Role)
	if err != nil {
		serverError(w, "create user failed", err)
		return
	}

	sess := middleware.SessionFromCtx(ctx)
	slog.Info("user created", "admin", sess.Email, "new_user", user.Email, "role", user.Role)
	writeJSON(w, http.StatusCreated, user)
}

type roleRequest struct {
	Role models.Role `json:"role"`
}

// UserSetRole changes a user's role and drops the cached role so the
// change applies on the next request.
func (a *Admin) UserSetRole(w http.ResponseWriter, r *http.Request) {
	targetID, ok := urlID(w, r)
	if !ok {
		return
	}
	var req roleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Role != models.RoleAdmin && req.Role != models.RoleViewer {
		writeInvalid(w, map[string]string{"role": "Invalid role"})
		return
	}

	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)
	if targetID == sess.UserID {
		writeError(w, http.StatusForbidden, "cannot change your own role")
		return
	}
	if !a.userExists(w, r, targetID) {
		return
	}
	if err := a.Stores.Users.SetRole(ctx, targetID, req.Role); err != nil {
		serverError(w, "set role failed", err, "user_id", targetID)
		return
	}
	a.Checker.Forget(targetID)

	slog.Info("role changed by admin", "admin", sess.Email, "target_user", targetID, "role", req.Role)
	w.WriteHeader(http.StatusNoContent)
}

// UserResetTwoFA resets another user's 2FA, forcing re-setup on next login.
func (a *Admin) UserResetTwoFA(w http.ResponseWriter, r *http.Request) {
	targetID, ok := urlID(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)
	if targetID == sess.UserID {
		writeError(w, http.StatusForbidden, "cannot reset your own 2FA")
		return
	}
	if !a.userExists(w, r, targetID) {
		return
	}
	if err := a.Stores.Users.ResetTOTP(ctx, targetID); err != nil {
		serverError(w, "reset 2fa failed", err, "user_id", targetID)
		return
	}

	slog.Info("2fa reset by admin", "admin", sess.Email, "target_user", targetID)
	w.WriteHeader(http.StatusNoContent)
}

// UserDelete removes another user.
func (a *Admin) UserDelete(w http.ResponseWriter, r *http.Request) {
	targetID, ok := urlID(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)
	if targetID == sess.UserID {
		writeError(w, http.StatusForbidden, "cannot delete yourself")
		return
	}
	if !a.userExists(w, r, targetID) {
		return
	}
	if err := a.Stores.Users.Delete(ctx, targetID); err != nil {
		serverError(w, "delete user failed", err, "user_id", targetID)
		return
	}
	a.Checker.Forget(targetID)

	slog.Info("user deleted", "admin", sess.Email, "target_user", targetID)
	w.WriteHeader(http.StatusNoContent)
}

func (a *Admin) userExists(w http.ResponseWriter, r *http.Request, id uuid.UUID) bool {
	user, err := a.Stores.Users.FindByID(r.Context(), id)
	if err != nil {
		serverError(w, "find user failed", err, "user_id", id)
		return false
	}
	if user == nil {
		notFound(w)
		return false
	}
	return true
}

// --- Settings ---

// About returns the editable about-me singleton.
func (a *Admin) About(w http.ResponseWriter, r *http.Request) {
	about, err := a.Stores.Settings.About(r.Context())
	if err != nil {
		serverError(w, "load about failed", err)
		return
	}
	writeJSON(w, http.StatusOK, about)
}

// UpdateAbout replaces the about-me singleton.
func (a *Admin) UpdateAbout(w http.ResponseWriter, r *http.Request) {
	var about models.About
	if !decodeJSON(w, r, &about) {
		return
	}
	if fe := validateAbout(&about); !fe.empty() {
		writeInvalid(w, fe)
		return
	}

	ctx := r.Context()
	if err := a.Stores.Settings.SetAbout(ctx, about); err != nil {
		serverError(w, "save about failed", err)
		return
	}
	a.invalidate(ctx, cache.SectionSettings)
	writeJSON(w, http.StatusOK, about)
}

// ContactInfo returns the editable contact details singleton.
func (a *Admin) ContactInfo(w http.ResponseWriter, r *http.Request) {
	info, err := a.Stores.Settings.Contact(r.Context())
	if err != nil {
		serverError(w, "load contact info failed", err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// UpdateContactInfo replaces the contact details singleton.
func (a *Admin) UpdateContactInfo(w http.ResponseWriter, r *http.Request) {
	var info models.ContactInfo
	if !decodeJSON(w, r, &info) {
		return
	}
	if fe := validateContactInfo(&info); !fe.empty() {
		writeInvalid(w, fe)
		return
	}

	ctx := r.Context()
	if err := a.Stores.Settings.SetContact(ctx, info); err != nil {
		serverError(w, "save contact info failed", err)
		return
	}
	a.invalidate(ctx, cache.SectionSettings)
	writeJSON(w, http.StatusOK, info)
}

// --- Messages ---

// Messages lists the contact form submissions, newest first.
func (a *Admin) Messages(w http.ResponseWriter, r *http.Request) {
	msgs, err := a.Stores.Messages.List(r.Context())
	if err != nil {
		serverError(w, "list messages failed", err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

// Message returns one submission and marks it read.
func (a *Admin) Message(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	msg, err := a.Stores.Messages.FindByID(ctx, id)
	if err != nil {
		serverError(w, "find message failed", err, "message_id", id)
		return
	}
	if msg == nil {
		notFound(w)
		return
	}
	if !msg.IsRead {
		if err := a.Stores.Messages.SetRead(ctx, id, true); err != nil {
			serverError(w, "mark message read failed", err, "message_id", id)
			return
		}
		msg.IsRead = true
	}
	writeJSON(w, http.StatusOK, msg)
}

type readRequest struct {
	Read bool `json:"read"`
}

// MessageSetRead flips the read flag of a submission.
func (a *Admin) MessageSetRead(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var req readRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx := r.Context()
	msg, err := a.Stores.Messages.FindByID(ctx, id)
	if err != nil {
		serverError(w, "find message failed", err, "message_id", id)
		return
	}
	if msg == nil {
		notFound(w)
		return
	}
	if err := a.Stores.Messages.SetRead(ctx, id, req.Read); err != nil {
		serverError(w, "set message read failed", err, "message_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MessageDelete removes a submission.
func (a *Admin) MessageDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	msg, err := a.Stores.Messages.FindByID(ctx, id)
	if err != nil {
		serverError(w, "find message failed", err, "message_id", id)
		return
	}
	if msg == nil {
		notFound(w)
		return
	}
	if err := a.Stores.Messages.Delete(ctx, id); err != nil {
		serverError(w, "delete message failed", err, "message_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Notifications ---

// Notifications lists recent notifications. ?unread=true limits the list
// to unread ones.
func (a *Admin) Notifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := queryInt(r, "limit", dashboard.DefaultFeedSize)

	var (
		items []models.Notification
		err   error
	)
	if unread := queryBool(r, "unread"); unread != nil && *unread {
		items, err = a.Stores.Notifications.Unread(ctx, limit)
	} else {
		items, err = a.Stores.Notifications.Recent(ctx, limit)
	}
	if err != nil {
		serverError(w, "list notifications failed", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// NotificationRead marks one notification read.
func (a *Admin) NotificationRead(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if err := a.Stores.Notifications.MarkRead(r.Context(), id); err != nil {
		serverError(w, "mark notification read failed", err, "notification_id", id)
		return
	}
	a.refreshNotifications()
	w.WriteHeader(http.StatusNoContent)
}

// NotificationsReadAll marks every notification read.
func (a *Admin) NotificationsReadAll(w http.ResponseWriter, r *http.Request) {
	if err := a.Stores.Notifications.MarkAllRead(r.Context()); err != nil {
		serverError(w, "mark all notifications read failed", err)
		return
	}
	a.refreshNotifications()
	w.WriteHeader(http.StatusNoContent)
}

func (a *Admin) refreshNotifications() {
	if a.Refresher == nil {
		return
	}
	if err := a.Refresher.Trigger(dashboard.TaskNotifications); err != nil {
		slog.Warn("notification refresh failed", "error", err)
	}
}
