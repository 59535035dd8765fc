// internal/prefs/prefs.go
//
// Persisted user preferences.
//
// Context
// -------
// The dashboard remembers a handful of per-user choices across sessions,
// the most important being the tenant an elevated user last selected
// (CurrentTenantKey).  Storage is split in two layers:
//
//   • Backend  – owner-keyed storage (Memory or SQL).
//   • Store    – the key/value view a single caller sees.  Bind produces a
//                Store whose owner is computed on every call, so a session
//                that changes user keeps writing to the right row.
//
// Notes
// -----
// • Values are opaque strings; callers parse their own formats.
// • Oxford commas, two spaces after periods.

package prefs

import (
	"context"
	"sync"
)

// CurrentTenantKey holds the last tenant id chosen by an elevated user.
const CurrentTenantKey = "currentTenantId"

// Store is the per-caller preference view.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Backend stores preferences for many owners.
type Backend interface {
	Load(ctx context.Context, owner, key string) (string, bool, error)
	Save(ctx context.Context, owner, key, value string) error
}

// Bind returns a Store over b whose owner is resolved by owner() per call.
func Bind(b Backend, owner func() string) Store {
	return bound{b: b, owner: owner}
}

type bound struct {
	b     Backend
	owner func() string
}

func (s bound) Get(ctx context.Context, key string) (string, bool, error) {
	return s.b.Load(ctx, s.owner(), key)
}

func (s bound) Set(ctx context.Context, key, value string) error {
	return s.b.Save(ctx, s.owner(), key, value)
}

// Memory is an in-process Backend.  Its contents die with the process.
type Memory struct {
	mu sync.RWMutex
	m  map[string]map[string]string
}

// NewMemory returns an empty Memory backend.
func NewMemory() *Memory {
	return &Memory{m: make(map[string]map[string]string)}
}

func (m *Memory) Load(_ context.Context, owner, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.m[owner][key]
	return v, ok, nil
}

func (m *Memory) Save(_ context.Context, owner, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kv, ok := m.m[owner]
	if !ok {
		kv = make(map[string]string)
		m.m[owner] = kv
	}
	kv[key] = value
	return nil
}
