// internal/tenant/meta/cached.go
//
// Caching decorator for tenant sources.
//
// Context
// -------
// Every session resolves on its own, so a busy dashboard would hit the
// empresa table or the REST backend once per login.  Cached keeps the last
// listing in a ristretto cache for TTL and collapses concurrent misses into
// one upstream call with singleflight.
//
// Notes
// -----
// • Errors are not cached.
// • Invalidate drops the listing; the next List goes upstream.

package meta

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/flota/internal/tenant"
)

const listKey = "empresas"

// Cached wraps a tenant.Source.
type Cached struct {
	next tenant.Source
	ttl  time.Duration
	c    *ristretto.Cache[string, []tenant.Tenant]
	sfg  singleflight.Group
}

// NewCached returns a decorator holding next's listing for ttl.
func NewCached(next tenant.Source, ttl time.Duration) (*Cached, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, []tenant.Tenant]{
		NumCounters:        100,
		MaxCost:            10,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &Cached{next: next, ttl: ttl, c: c}, nil
}

// List implements tenant.Source.
func (s *Cached) List(ctx context.Context) ([]tenant.Tenant, error) {
	if ts, ok := s.c.Get(listKey); ok {
		return append([]tenant.Tenant(nil), ts...), nil
	}
	v, err, _ := s.sfg.Do(listKey, func() (any, error) {
		ts, err := s.next.List(ctx)
		if err != nil {
			return nil, err
		}
		s.c.SetWithTTL(listKey, ts, 1, s.ttl)
		s.c.Wait()
		return ts, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]tenant.Tenant(nil), v.([]tenant.Tenant)...), nil
}

// Invalidate forgets the cached listing.
func (s *Cached) Invalidate() {
	s.c.Del(listKey)
}

// Close releases the cache's goroutines.
func (s *Cached) Close() {
	s.c.Close()
}
