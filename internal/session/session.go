// internal/session/session.go
//
// Flota – Session cookie and resolution middleware.
//
// Context
//   Tenant selection lives per browser session.  The session is identified
//   by a random UUID stored in the “flota_session” cookie; the cookie holds
//   nothing else.  Resolve wires the cookie to the tenant session cache: it
//   finds (or creates) the Session, lets it observe the caller and the
//   detected subdomain, and stores it in the request context.
//
// Style
//   Two-space sentence spacing, Oxford comma, terse inline notes.
//
//------------------------------------------------------------------------------

package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/yanizio/flota/internal/auth"
	"github.com/yanizio/flota/internal/tenant"
)

// CookieName is the session cookie.
const CookieName = "flota_session"

// MaxAge bounds the cookie lifetime.
const MaxAge = 14 * 24 * time.Hour

// ID returns the session id carried by r.
//
// ok == false when the cookie is missing or not a UUID.
func ID(r *http.Request) (id string, ok bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return "", false
	}
	return c.Value, true
}

// Ensure returns the request's session id, issuing a new cookie when absent.
func Ensure(w http.ResponseWriter, r *http.Request) string {
	if id, ok := ID(r); ok {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil, // only send over HTTPS
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(MaxAge / time.Second),
	})
	return id
}

// Clear expires the session cookie.
func Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// Detector maps a request to its subdomain token.
type Detector interface {
	FromRequest(r *http.Request) string
}

// Resolve returns middleware that attaches the caller's tenant Session.
// Run it after auth.Bearer so the user is already in the context.
func Resolve(cache *tenant.Cache, det Detector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := cache.Get(Ensure(w, r))
			// A client disconnect must not abort a resolution other
			// requests of the same session will read.
			s.Observe(context.WithoutCancel(r.Context()), auth.FromContext(r.Context()), det.FromRequest(r))
			next.ServeHTTP(w, r.WithContext(tenant.WithSession(r.Context(), s)))
		})
	}
}
