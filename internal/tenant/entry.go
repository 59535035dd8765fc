// internal/tenant/entry.go
//
// Session cache entry.
//
// The cache stores a pointer to Session inside `entry`, along with a
// `lastSeen` UnixNano timestamp used by the evictor for idle and LRU
// eviction.

package tenant

import "sync/atomic"

type entry struct {
	session  *Session
	lastSeen atomic.Int64 // UnixNano
}

func (e *entry) touch(now int64) { e.lastSeen.Store(now) }
