// Package auth issues and validates the signed session cookie carrying the
// authenticated principal id, and gates routes behind it.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

type ctxKey string

const (
	sessionCookieName = "session"
	principalCtxKey   = ctxKey("principalID")
)

// Verifier is an optional callback to validate that a session's principal
// still exists/is allowed. Set during app bootstrap via SetVerifier; if nil,
// no extra verification is performed.
type Verifier func(ctx context.Context, principalID string) bool

var verifier Verifier

// SetVerifier configures the global verifier used by RequireAuth.
func SetVerifier(v Verifier) { verifier = v }

// Secret returns SESSION_SECRET or a default dev value.
func Secret() string {
	if s := os.Getenv("SESSION_SECRET"); s != "" {
		return s
	}
	return "devsessionsecret"
}

func sign(principalID string) string {
	mac := hmac.New(sha256.New, []byte(Secret()))
	mac.Write([]byte(principalID))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// CreateSession sets a signed cookie with the principal id.
func CreateSession(w http.ResponseWriter, principalID string) {
	value := base64.RawURLEncoding.EncodeToString([]byte(principalID)) + "." + sign(principalID)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(14 * 24 * time.Hour),
	})
}

// ClearSession deletes the session cookie.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// ParseSession validates the cookie and returns the principal id.
func ParseSession(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	parts := strings.Split(c.Value, ".")
	if len(parts) != 2 {
		return "", false
	}
	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", false
	}
	principalID := string(raw)
	if !hmac.Equal([]byte(parts[1]), []byte(sign(principalID))) {
		return "", false
	}
	if principalID == "" {
		return "", false
	}
	return principalID, true
}

// WithPrincipalID stores the principal id in context.
func WithPrincipalID(ctx context.Context, principalID string) context.Context {
	return context.WithValue(ctx, principalCtxKey, principalID)
}

// PrincipalIDFromContext extracts the principal id.
func PrincipalIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(principalCtxKey).(string)
	return v, ok && v != ""
}

// Middleware attaches the principal id to the request context if present.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := ParseSession(r); ok {
			r = r.WithContext(WithPrincipalID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth redirects to /login (HTML) or returns 401 JSON for
// unauthenticated sessions.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := PrincipalIDFromContext(r.Context())
		if ok && verifier != nil && !verifier(r.Context(), id) {
			// Session refers to a removed/disabled principal: clear it.
			ClearSession(w)
			ok = false
		}
		if !ok {
			accept := r.Header.Get("Accept")
			if strings.Contains(accept, "text/html") {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":"unauthorized"}`)
			return
		}
		next.ServeHTTP(w, r)
	})
}
