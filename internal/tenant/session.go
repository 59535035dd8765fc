// internal/tenant/session.go
//
// Per-browser resolution session.
//
// Context
// -------
// A Session is the owning scope of one Resolver: it records the inputs seen
// on the latest request (user and subdomain), owns the session's theme
// variables, and binds the preference store to the right owner.  Observe is
// called on every request; when either input changed the session
// re-initialises its Resolver.
//
// Notes
// -----
// • Preferences are keyed by the user's subject, or by the session id for
//   tokens without one.
// • Oxford commas, two spaces after periods.

package tenant

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/yanizio/flota/internal/auth"
	"github.com/yanizio/flota/internal/prefs"
	"github.com/yanizio/flota/internal/theme"
)

// SessionConfig carries what every new Session shares.
type SessionConfig struct {
	Source           Source
	Prefs            prefs.Backend
	ElevatedRole     string
	DefaultSubdomain string
	Log              *zap.SugaredLogger
}

// Session couples a Resolver with its inputs and theme variables.
type Session struct {
	ID       string
	Vars     *theme.Vars
	Resolver *Resolver

	mu       sync.RWMutex
	user     *auth.User
	sub      string
	observed bool
}

// NewSession builds an uninitialised Session.
func NewSession(id string, cfg SessionConfig) *Session {
	s := &Session{ID: id, Vars: theme.NewVars()}
	o := Options{
		Source:           cfg.Source,
		Inputs:           s,
		Theme:            s.Vars,
		ElevatedRole:     cfg.ElevatedRole,
		DefaultSubdomain: cfg.DefaultSubdomain,
	}
	if cfg.Log != nil {
		o.Log = cfg.Log.With("session", id)
	}
	if cfg.Prefs != nil {
		o.Prefs = prefs.Bind(cfg.Prefs, s.owner)
	}
	s.Resolver = NewResolver(o)
	return s
}

// User implements Inputs.
func (s *Session) User() *auth.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Subdomain implements Inputs.
func (s *Session) Subdomain() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sub
}

func (s *Session) owner() string {
	if u := s.User(); u != nil && u.Subject != "" {
		return u.Subject
	}
	return s.ID
}

// Observe records the request's inputs and re-initialises when they differ
// from the previous ones.  It reports whether a resolution ran.
func (s *Session) Observe(ctx context.Context, user *auth.User, sub string) bool {
	s.mu.Lock()
	if s.observed && s.user.Equal(user) && s.sub == sub {
		s.mu.Unlock()
		return false
	}
	if user != nil {
		cp := *user
		user = &cp
	}
	s.user, s.sub, s.observed = user, sub, true
	s.mu.Unlock()

	s.Resolver.Initialize(ctx)
	return true
}

// Factory returns a cache Factory producing Sessions from cfg.
func (cfg SessionConfig) Factory() Factory {
	return func(id string) *Session { return NewSession(id, cfg) }
}
