// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/session"
	"folio/internal/store"
)

// totpIssuer labels the account in authenticator apps.
const totpIssuer = "Folio"

// Auth groups the login and two-factor endpoints of the admin API.
type Auth struct {
	sessions *session.Store
	users    *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, users *store.UserStore) *Auth {
	return &Auth{sessions: sessions, users: users}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type meResponse struct {
	User          *models.User `json:"user"`
	TwoFADone     bool         `json:"two_fa_done"`
	Needs2FASetup bool         `json:"needs_2fa_setup"`
	CSRFToken     string       `json:"csrf_token,omitempty"`
}

// CSRF hands the double-submit token to the front end before login.
func (a *Auth) CSRF(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"csrf_token": middleware.CSRFTokenFromCtx(r.Context())})
}

// Login checks the credentials and opens a session that still has to
// pass the TOTP step.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	user, err := a.users.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		serverError(w, "login lookup failed", err)
		return
	}
	if user == nil || !a.users.CheckPassword(user, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if _, err := a.sessions.Create(ctx, w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		TwoFADone:   false,
	}); err != nil {
		serverError(w, "session create failed", err)
		return
	}

	slog.Info("login", "user_id", user.ID)
	writeJSON(w, http.StatusOK, meResponse{
		User:          user,
		Needs2FASetup: user.Needs2FASetup(),
		CSRFToken:     middleware.CSRFTokenFromCtx(ctx),
	})
}

// TwoFASetup generates a new TOTP secret for a user who has not enrolled
// yet and returns it with a QR code as base64 PNG.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	ctx := r.Context()

	user, err := a.users.FindByID(ctx, sess.UserID)
	if err != nil {
		serverError(w, "user lookup for 2fa failed", err)
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if user.TOTPEnabled {
		writeError(w, http.StatusConflict, "two-factor authentication is already set up")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		serverError(w, "totp generate failed", err)
		return
	}
	if err := a.users.SetTOTPSecret(ctx, user.ID, key.Secret()); err != nil {
		serverError(w, "save totp secret failed", err)
		return
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		serverError(w, "qr code generation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"qr_code": base64.StdEncoding.EncodeToString(png),
		"secret":  key.Secret(),
	})
}

type verifyRequest struct {
	Code string `json:"code"`
}

// TwoFAVerify validates a TOTP code, enables TOTP on first use and marks
// the session as fully authenticated.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)
	user, err := a.users.FindByID(ctx, sess.UserID)
	if err != nil {
		serverError(w, "user lookup for 2fa failed", err)
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if user.TOTPSecret == nil {
		writeError(w, http.StatusConflict, "two-factor authentication is not set up")
		return
	}

	if !totp.Validate(strings.TrimSpace(req.Code), *user.TOTPSecret) {
		writeInvalid(w, map[string]string{"code": "Invalid code. Please try again."})
		return
	}

	if !user.TOTPEnabled {
		if err := a.users.EnableTOTP(ctx, user.ID); err != nil {
			serverError(w, "enable totp failed", err)
			return
		}
		user.TOTPEnabled = true
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(ctx, r, sess); err != nil {
		serverError(w, "session update failed", err)
		return
	}

	writeJSON(w, http.StatusOK, meResponse{
		User:      user,
		TwoFADone: true,
		CSRFToken: middleware.CSRFTokenFromCtx(ctx),
	})
}

// Me describes the signed-in user and how far the login has progressed.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)
	user, err := a.users.FindByID(ctx, sess.UserID)
	if err != nil {
		serverError(w, "user lookup failed", err)
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, meResponse{
		User:          user,
		TwoFADone:     sess.TwoFADone,
		Needs2FASetup: user.Needs2FASetup(),
		CSRFToken:     middleware.CSRFTokenFromCtx(ctx),
	})
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}
