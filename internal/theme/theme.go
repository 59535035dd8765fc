// Package theme holds the tenant colour variables exposed to the dashboard
// stylesheet.  A Vars value is the server-side stand-in for the document
// root style: the tenant resolver writes custom properties into it, and the
// /api/tenant/theme.css endpoint renders them as a `:root { … }` block.
//
//   - PrimaryVar    – `--tenant-primary`, from the tenant's colorPrimario.
//   - SecondaryVar  – `--tenant-secondary`, from colorSecundario.
//
// Setting a property is idempotent.  Properties are never removed; a tenant
// without colours leaves the previous values in place.
package theme

import (
	"sort"
	"strings"
	"sync"
)

// Custom property names.
const (
	PrimaryVar   = "--tenant-primary"
	SecondaryVar = "--tenant-secondary"
)

// Setter is the write side used by the tenant resolver.
type Setter interface {
	SetProperty(name, value string)
}

// Colors is the pair of tenant colours, either of which may be empty.
type Colors struct {
	Primary   string
	Secondary string
}

// Apply writes the non-empty colours to s.
func Apply(s Setter, c Colors) {
	if s == nil {
		return
	}
	if c.Primary != "" {
		s.SetProperty(PrimaryVar, c.Primary)
	}
	if c.Secondary != "" {
		s.SetProperty(SecondaryVar, c.Secondary)
	}
}

// Vars is a concurrency-safe custom property map.
type Vars struct {
	mu    sync.RWMutex
	props map[string]string
}

// NewVars returns an empty property map.
func NewVars() *Vars {
	return &Vars{props: make(map[string]string)}
}

// SetProperty records value under name.
func (v *Vars) SetProperty(name, value string) {
	v.mu.Lock()
	v.props[name] = value
	v.mu.Unlock()
}

// Property returns the value recorded under name.
func (v *Vars) Property(name string) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	val, ok := v.props[name]
	return val, ok
}

// CSS renders the properties as a :root block, sorted by name.  Values that
// could break out of the declaration are skipped.
func (v *Vars) CSS() string {
	v.mu.RLock()
	names := make([]string, 0, len(v.props))
	for n := range v.props {
		names = append(names, n)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, n := range names {
		val := v.props[n]
		if strings.ContainsAny(val, ";{}<>\\\n") {
			continue
		}
		b.WriteString("  ")
		b.WriteString(n)
		b.WriteString(": ")
		b.WriteString(val)
		b.WriteString(";\n")
	}
	v.mu.RUnlock()
	b.WriteString("}\n")
	return b.String()
}
