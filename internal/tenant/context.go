// context.go carries the request's Session through the context so
// components can reach the resolver without importing the cache.
package tenant

import "context"

type sessionKey struct{}

// WithSession returns a new context carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext extracts the Session, or nil when none is set.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
