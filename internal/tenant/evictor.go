// evictor.go houses the eviction loop for Cache.  Every EvictInterval it
// scans the map and removes:
//
//   - sessions idle longer than idleTTL
//   - least-recently-used sessions when map size exceeds maxEntries
//
// Each eviction event is logged and updates Prometheus counters.
package tenant

import (
	"sort"
	"time"

	"github.com/yanizio/flota/internal/metrics"
)

func (c *Cache) evictLoop() {
	defer c.wg.Done()
	for {
		select {
		case <-c.done:
			return
		case t := <-c.ticker.C:
			c.evict(t.UnixNano())
		}
	}
}

// evict runs one idle pass and one LRU pass against now (UnixNano).
func (c *Cache) evict(now int64) {
	var count int

	// ----------------------------------------------------------------
	// Idle eviction pass
	// ----------------------------------------------------------------
	c.m.Range(func(key, value any) bool {
		ent := value.(*entry)
		idle := time.Duration(now - ent.lastSeen.Load())
		if idle > c.idleTTL {
			c.remove(key.(string), "idle", idle)
			return true
		}
		count++
		return true
	})

	// ----------------------------------------------------------------
	// LRU eviction pass
	// ----------------------------------------------------------------
	if c.maxEntries > 0 && count > c.maxEntries {
		type kv struct {
			key string
			at  int64
		}
		all := make([]kv, 0, count)
		c.m.Range(func(key, value any) bool {
			all = append(all, kv{key: key.(string), at: value.(*entry).lastSeen.Load()})
			return true
		})
		sort.Slice(all, func(i, j int) bool { return all[i].at < all[j].at })
		for i := 0; i < len(all)-c.maxEntries; i++ {
			c.remove(all[i].key, "lru", 0)
		}
	}
}

func (c *Cache) remove(key, reason string, idle time.Duration) {
	if _, ok := c.m.LoadAndDelete(key); !ok {
		return
	}
	c.log.Debugw("session evicted", "session", key, "reason", reason, "idle", idle.Truncate(time.Second))
	metrics.SessionEvictTotal.Inc()
	metrics.ActiveSessions.Dec()
}
