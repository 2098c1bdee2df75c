package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/garagedesk/garagedesk/auth"
	"github.com/garagedesk/garagedesk/httpx"
	"github.com/garagedesk/garagedesk/internal/identity"
	"github.com/garagedesk/garagedesk/validation"
)

// AuthHandler bridges the identity gateway and the session cookie layer.
type AuthHandler struct {
	Gateway *identity.Gateway
	Local   *identity.LocalProvider // nil when sign-up is delegated to the external provider
	Log     zerolog.Logger
}

func NewAuthHandler(gw *identity.Gateway, local *identity.LocalProvider, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{Gateway: gw, Local: local, Log: log}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func decodeCredentials(r *http.Request) (credentials, error) {
	var c credentials
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return c, json.NewDecoder(r.Body).Decode(&c)
	}
	if err := r.ParseForm(); err != nil {
		return c, err
	}
	c.Email = r.FormValue("email")
	c.Password = r.FormValue("password")
	c.Name = r.FormValue("name")
	return c, nil
}

// Login: POST /login. A malformed email is rejected here, before any
// provider call is attempted.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	c, err := decodeCredentials(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_input", nil)
		return
	}
	c.Email = strings.TrimSpace(c.Email)
	v := validation.Violations{}
	validation.Email("email", c.Email, v)
	validation.MinLen("password", c.Password, 6, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	p, err := h.Gateway.SignIn(r.Context(), c.Email, c.Password)
	if err != nil {
		h.writeAuthFailure(w, err)
		return
	}
	auth.CreateSession(w, p.ID)
	if wantsHTML(r) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"principal": map[string]string{"id": p.ID, "email": p.Email}})
}

// Signup: POST /signup. Only available with the local provider.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if h.Local == nil {
		httpx.JSONError(w, http.StatusNotFound, "registration_disabled", nil)
		return
	}
	c, err := decodeCredentials(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_input", nil)
		return
	}
	c.Email = strings.TrimSpace(c.Email)
	v := validation.Violations{}
	validation.Email("email", c.Email, v)
	validation.MinLen("password", c.Password, 6, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if _, err := h.Local.Register(r.Context(), c.Email, c.Password, strings.TrimSpace(c.Name)); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") || strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			httpx.JSONError(w, http.StatusConflict, "email_already_registered", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "signup_failed", nil)
		return
	}
	p, err := h.Gateway.SignIn(r.Context(), c.Email, c.Password)
	if err != nil {
		h.writeAuthFailure(w, err)
		return
	}
	auth.CreateSession(w, p.ID)
	if wantsHTML(r) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"principal": map[string]string{"id": p.ID, "email": p.Email}})
}

// Logout: POST /logout. Provider failures never block the sign-out.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Gateway.SignOut(r.Context())
	auth.ClearSession(w)
	if wantsHTML(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// writeAuthFailure maps the gateway's error taxonomy to user-facing codes.
func (h *AuthHandler) writeAuthFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identity.ErrInvalidEmail):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_email", nil)
	case errors.Is(err, identity.ErrUserNotFound):
		httpx.JSONError(w, http.StatusUnauthorized, "user_not_found", nil)
	case errors.Is(err, identity.ErrInvalidCredentials):
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
	case errors.Is(err, identity.ErrUserDisabled):
		httpx.JSONError(w, http.StatusForbidden, "user_disabled", nil)
	default:
		var ae *identity.AuthError
		if errors.As(err, &ae) {
			h.Log.Warn().Str("code", ae.Code).Msg("provider auth failure")
			httpx.JSONError(w, http.StatusBadGateway, "auth_failed", map[string]string{"code": ae.Code})
			return
		}
		h.Log.Error().Err(err).Msg("sign-in failed")
		httpx.JSONError(w, http.StatusBadGateway, "auth_failed", nil)
	}
}

func wantsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}
