// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  The server mounts every
// component's Routes() under "/api/<name>" and, before mounting, invokes
// Init() when the component implements the Initializer interface.

package component

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/flota/internal/acl"
	"github.com/yanizio/flota/internal/gateway"
)

// Services exposes shared runtime resources to Components during Init
// without importing cmd/web.
type Services interface {
	Policy() acl.Policy
	Backend() *gateway.RESTClient
	Logger() *zap.SugaredLogger
}

// Initializer is optional.  If a Component implements it, Mount calls
// Init(svc) once before its routes are mounted.
type Initializer interface {
	Init(Services) error
}

// Component contract.
//
// Routes() returns endpoints relative to the component prefix, e.g. for
// "tenant":
//
//	r := chi.NewRouter()
//	r.Get("/", getState)          // GET /api/tenant
//	r.Post("/switch", postSwitch) // POST /api/tenant/switch
//	return r
type Component interface {
	Name() string
	Routes() chi.Router
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component sorted by name.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// AllNames returns the registered component names, sorted.
func AllNames() []string {
	all := All()
	names := make([]string, len(all))
	for i, c := range all {
		names[i] = c.Name()
	}
	return names
}

// Mount initialises every registered component and mounts its routes on r.
// Components whose name is in disabled are skipped.
func Mount(r chi.Router, svc Services, disabled ...string) error {
	skip := make(map[string]struct{}, len(disabled))
	for _, d := range disabled {
		skip[d] = struct{}{}
	}
	for _, c := range All() {
		if _, ok := skip[c.Name()]; ok {
			svc.Logger().Infow("component disabled", "component", c.Name())
			continue
		}
		if in, ok := c.(Initializer); ok {
			if err := in.Init(svc); err != nil {
				return fmt.Errorf("init component %s: %w", c.Name(), err)
			}
		}
		r.Mount(Prefix(c.Name()), c.Routes())
		svc.Logger().Debugw("component mounted", "component", c.Name())
	}
	return nil
}

// Prefix is the mount point for the named component.
func Prefix(name string) string { return "/api/" + name }
