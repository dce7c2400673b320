// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"toolstore/internal/api"
	"toolstore/internal/i18n"
	"toolstore/internal/middleware"
	"toolstore/internal/models"
)

// SessionStore creates and destroys admin sessions.
type SessionStore interface {
	Create(ctx context.Context, w http.ResponseWriter, auth *models.AuthSession) (string, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// Authenticator exchanges credentials with the backend.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*models.AuthSession, error)
	Logout(ctx context.Context, token string) error
}

// Auth handles login and logout.
type Auth struct {
	auth       Authenticator
	sessions   SessionStore
	translator *i18n.Translator
}

// NewAuth creates the auth handler group.
func NewAuth(auth Authenticator, sessions SessionStore, translator *i18n.Translator) *Auth {
	return &Auth{auth: auth, sessions: sessions, translator: translator}
}

// userView is the public part of an AuthSession; the token never leaves
// the server except in the session cookies.
type userView struct {
	ID    models.ID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

func viewOf(s *models.AuthSession) userView {
	return userView{ID: s.ID, Email: s.Email, Name: s.Name}
}

// LoginPage answers the login prompt: the CSRF token the form must echo
// and whether a session already exists.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	lang := middleware.LangFromCtx(r.Context())
	sess := middleware.SessionFromCtx(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"title":         a.translator.T(lang, "auth.login_title"),
		"csrfToken":     middleware.CSRFTokenFromCtx(r.Context()),
		"authenticated": sess != nil && sess.Authenticated(),
	})
}

// LoginSubmit exchanges credentials for a session. Rejected credentials
// are a 401; nothing else is revealed about why.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lang := middleware.LangFromCtx(ctx)

	var in loginInput
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	} else {
		in.Email = r.FormValue("email")
		in.Password = r.FormValue("password")
	}
	if err := check(&in); err != nil {
		writeValidationError(w, err)
		return
	}

	auth, err := a.auth.Login(ctx, in.Email, in.Password)
	if errors.Is(err, api.ErrUnauthorized) {
		slog.Info("login rejected", "email", in.Email, "request_id", middleware.RequestIDFromCtx(ctx))
		writeError(w, http.StatusUnauthorized, a.translator.T(lang, "auth.invalid_credentials"))
		return
	}
	if err != nil {
		fail(w, r, err)
		return
	}

	if _, err := a.sessions.Create(ctx, w, auth); err != nil {
		slog.Error("session create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	slog.Info("admin logged in", "user_id", auth.ID, "email", auth.Email)
	writeJSON(w, http.StatusOK, map[string]any{"user": viewOf(auth)})
}

// Logout revokes the backend token, clears the session and sends the
// client to the login page. Backend failures do not keep the session alive.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if token := middleware.TokenFromCtx(ctx); token != "" {
		if err := a.auth.Logout(ctx, token); err != nil && !errors.Is(err, api.ErrUnauthorized) {
			slog.Warn("backend logout failed", "error", err)
		}
	}
	if err := a.sessions.Destroy(ctx, w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}

// Me answers the logged-in user.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": viewOf(&sess.AuthSession)})
}

// writeValidationError answers a 400 listing the failing fields.
func writeValidationError(w http.ResponseWriter, err error) {
	var verr *validationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: verr.Error(), Fields: verr.fields})
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}
