// internal/tenant/cache.go
//
// Session cache.
//
// Context
// -------
// Each browser session owns one Session (resolver, theme variables, and
// observed inputs).  The Cache creates Sessions lazily on first sight of a
// session id, stores them in a sync.Map, and evicts them on idle TTL or LRU
// pressure.  Concurrent first requests for the same id share one creation
// through singleflight.
//
// Notes
// -----
// • Close stops the evictor.  Sessions already handed out stay usable.
// • Oxford commas, two spaces after periods.

package tenant

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/flota/internal/metrics"
)

// Defaults used when CacheOptions leaves a field zero.
const (
	IdleTTL       = 30 * time.Minute
	MaxEntries    = 10000
	EvictInterval = 5 * time.Minute
)

// CacheOptions tunes eviction.
type CacheOptions struct {
	IdleTTL       time.Duration
	MaxEntries    int
	EvictInterval time.Duration
	Log           *zap.SugaredLogger
}

// Factory builds a new Session for id.
type Factory func(id string) *Session

// Cache maps session ids to Sessions.
type Cache struct {
	factory    Factory
	sfg        singleflight.Group
	m          sync.Map
	idleTTL    time.Duration
	maxEntries int
	log        *zap.SugaredLogger

	ticker    *time.Ticker
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewCache constructs a Cache and starts the background evictor.
func NewCache(factory Factory, o CacheOptions) *Cache {
	if o.IdleTTL <= 0 {
		o.IdleTTL = IdleTTL
	}
	if o.MaxEntries <= 0 {
		o.MaxEntries = MaxEntries
	}
	if o.EvictInterval <= 0 {
		o.EvictInterval = EvictInterval
	}
	if o.Log == nil {
		o.Log = zap.S()
	}
	c := &Cache{
		factory:    factory,
		idleTTL:    o.IdleTTL,
		maxEntries: o.MaxEntries,
		log:        o.Log,
		ticker:     time.NewTicker(o.EvictInterval),
		done:       make(chan struct{}),
	}
	c.wg.Add(1)
	go c.evictLoop()
	return c
}

// Get returns the Session for id, creating it on demand.
func (c *Cache) Get(id string) *Session {
	now := time.Now().UnixNano()
	if v, ok := c.m.Load(id); ok {
		ent := v.(*entry)
		ent.touch(now)
		return ent.session
	}

	v, _, _ := c.sfg.Do(id, func() (any, error) {
		// Double-check after singleflight barrier.
		if v, ok := c.m.Load(id); ok {
			ent := v.(*entry)
			ent.touch(now)
			return ent.session, nil
		}
		ent := &entry{session: c.factory(id)}
		ent.touch(now)
		c.m.Store(id, ent)
		metrics.ActiveSessions.Inc()
		c.log.Debugw("session created", "session", id)
		return ent.session, nil
	})
	return v.(*Session)
}

// Len returns the number of cached sessions.
func (c *Cache) Len() int {
	n := 0
	c.m.Range(func(_, _ any) bool { n++; return true })
	return n
}

// Close stops the evictor and waits for it to exit.
func (c *Cache) Close() {
	c.closeOnce.Do(func() {
		c.ticker.Stop()
		close(c.done)
		c.wg.Wait()
	})
}
