// internal/tenant/resolver.go
//
// Tenant resolution.
//
// Context
// -------
// A Resolver decides which tenant a session is looking at.  Initialize
// runs the strategies below in strict priority order and then applies the
// winner's colours and, for elevated users, remembers the choice:
//
//  1. Load every record from the Source and keep the active ones.  That
//     filtered slice is the selectable collection.
//  2. Subdomain: a non-default token selects the first tenant whose
//     normalised name contains the normalised token.
//  3. User: a regular user gets the tenant matching EmpresaID.  An elevated
//     user gets the persisted preference when it names a selectable tenant,
//     otherwise the first selectable tenant.
//  4. On a hit: theme.Apply, then prefs.Set for elevated users (also after a
//     subdomain hit).
//
// Workflow
// --------
// Initialize may be called again before an earlier call finishes.  Each call
// takes a generation number; when it completes, results are committed only
// if no newer call has started since.  Stale completions are dropped without
// touching state, theme, or preferences, so the last *initiated* call wins.
//
// Notes
// -----
// • Failures are logged and counted, never returned.  A failed cycle leaves
//   the previous selection and collection untouched.
// • Oxford commas, two spaces after periods.

package tenant

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/yanizio/flota/internal/auth"
	"github.com/yanizio/flota/internal/metrics"
	"github.com/yanizio/flota/internal/prefs"
	"github.com/yanizio/flota/internal/subdomain"
	"github.com/yanizio/flota/internal/theme"
)

// Strategy names, also used as metric labels.
const (
	StrategySubdomain  = "subdomain"
	StrategyUser       = "user"
	StrategyPreference = "preference"
	StrategyFirst      = "first"
	StrategyNone       = "none"
)

// Options wires a Resolver to its collaborators.
type Options struct {
	Source Source
	Inputs Inputs
	Prefs  prefs.Store
	Theme  theme.Setter
	Log    *zap.SugaredLogger

	// ElevatedRole may view and switch between all tenants.  Defaults to
	// auth.RoleSuperAdmin.
	ElevatedRole string

	// DefaultSubdomain is the "no tenant subdomain" token.  Defaults to
	// subdomain.Default.
	DefaultSubdomain string
}

// Resolver holds one session's tenant selection.
type Resolver struct {
	source   Source
	inputs   Inputs
	prefs    prefs.Store
	theme    theme.Setter
	log      *zap.SugaredLogger
	elevated string
	noSub    string

	gen atomic.Uint64

	// commitMu orders commits so theme and preference writes from one
	// generation never interleave with another's.
	commitMu sync.Mutex

	mu      sync.RWMutex
	current *Tenant
	tenants []Tenant
	loading bool
}

// NewResolver returns an idle Resolver.  Source and Inputs are required.
func NewResolver(o Options) *Resolver {
	r := &Resolver{
		source:   o.Source,
		inputs:   o.Inputs,
		prefs:    o.Prefs,
		theme:    o.Theme,
		log:      o.Log,
		elevated: o.ElevatedRole,
		noSub:    o.DefaultSubdomain,
	}
	if r.log == nil {
		r.log = zap.S()
	}
	if r.elevated == "" {
		r.elevated = auth.RoleSuperAdmin
	}
	if r.noSub == "" {
		r.noSub = subdomain.Default
	}
	return r
}

// State returns a copy of the visible state.
func (r *Resolver) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := State{
		Tenants: append([]Tenant(nil), r.tenants...),
		Loading: r.loading,
	}
	if r.current != nil {
		c := *r.current
		s.Current = &c
	}
	return s
}

// Current returns the selected tenant, or nil.
func (r *Resolver) Current() *Tenant {
	return r.State().Current
}

// Loading reports whether a resolution is in progress.
func (r *Resolver) Loading() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loading
}

// Refresh re-runs Initialize in full, re-reading user and subdomain.
func (r *Resolver) Refresh(ctx context.Context) {
	r.Initialize(ctx)
}

// outcome is what one resolution cycle produced.
type outcome struct {
	tenants  []Tenant
	selected *Tenant
	strategy string
	elevated bool
	err      error
}

// Initialize resolves the tenant for the current inputs.
func (r *Resolver) Initialize(ctx context.Context) {
	gen := r.gen.Add(1)

	r.mu.Lock()
	r.loading = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		if r.gen.Load() == gen {
			r.loading = false
		}
		r.mu.Unlock()
	}()

	user := r.inputs.User()
	token := r.inputs.Subdomain()
	out := r.resolve(ctx, user, token)

	r.commitMu.Lock()
	defer r.commitMu.Unlock()

	if r.gen.Load() != gen {
		metrics.TenantResolveStaleTotal.Inc()
		r.log.Debugw("tenant resolution superseded", "generation", gen)
		return
	}

	if out.err != nil {
		metrics.TenantResolveErrorsTotal.Inc()
		r.log.Errorw("tenant resolution failed", "subdomain", token, "err", out.err)
		return
	}

	r.mu.Lock()
	r.tenants = out.tenants
	r.current = out.selected
	r.mu.Unlock()

	metrics.TenantResolveTotal.WithLabelValues(out.strategy).Inc()
	if out.selected == nil {
		r.log.Infow("no tenant resolved", "subdomain", token, "tenants", len(out.tenants))
		return
	}
	r.log.Debugw("tenant resolved",
		"tenant", out.selected.ID, "strategy", out.strategy, "generation", gen)

	r.apply(ctx, *out.selected, out.elevated)
}

// resolve runs the strategies.  A panic from a collaborator is turned into
// an error for this cycle.
func (r *Resolver) resolve(ctx context.Context, user *auth.User, token string) (out outcome) {
	defer func() {
		if p := recover(); p != nil {
			out = outcome{err: fmt.Errorf("tenant resolution panic: %v", p)}
		}
	}()

	all, err := r.source.List(ctx)
	if err != nil {
		return outcome{err: fmt.Errorf("load tenants: %w", err)}
	}

	out.tenants = filterActive(all)
	out.elevated = user.HasRole(r.elevated)
	out.strategy = StrategyNone

	pick := func(t Tenant, strategy string) outcome {
		out.selected = &t
		out.strategy = strategy
		return out
	}

	if token != "" && token != r.noSub {
		if t, ok := bySubdomain(out.tenants, token); ok {
			return pick(t, StrategySubdomain)
		}
	}

	switch {
	case user == nil:
		return out
	case !out.elevated:
		if t, ok := byID(out.tenants, user.EmpresaID); ok {
			return pick(t, StrategyUser)
		}
		return out
	}

	if id, ok := r.savedTenantID(ctx); ok {
		if t, ok := byID(out.tenants, id); ok {
			return pick(t, StrategyPreference)
		}
	}
	if len(out.tenants) > 0 {
		return pick(out.tenants[0], StrategyFirst)
	}
	return out
}

// savedTenantID reads the persisted preference.  Read errors and malformed
// values count as absent.
func (r *Resolver) savedTenantID(ctx context.Context) (int, bool) {
	if r.prefs == nil {
		return 0, false
	}
	raw, ok, err := r.prefs.Get(ctx, prefs.CurrentTenantKey)
	if err != nil {
		r.log.Warnw("read tenant preference", "err", err)
		return 0, false
	}
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		r.log.Warnw("ignoring malformed tenant preference", "value", raw)
		return 0, false
	}
	return id, true
}

// apply sets the theme and, for elevated users, persists the selection.
// Callers hold commitMu.
func (r *Resolver) apply(ctx context.Context, t Tenant, elevated bool) {
	theme.Apply(r.theme, theme.Colors{Primary: t.ColorPrimario, Secondary: t.ColorSecundario})

	if !elevated || r.prefs == nil {
		return
	}
	if err := r.prefs.Set(ctx, prefs.CurrentTenantKey, strconv.Itoa(t.ID)); err != nil {
		r.log.Warnw("persist tenant preference", "tenant", t.ID, "err", err)
	}
}

// SwitchTenant selects id for an elevated user and reports whether the
// switch was applied.  Non-elevated callers and ids outside the loaded
// collection are ignored.
func (r *Resolver) SwitchTenant(ctx context.Context, id int) bool {
	user := r.inputs.User()
	if !user.HasRole(r.elevated) {
		metrics.TenantSwitchTotal.WithLabelValues("denied").Inc()
		return false
	}

	r.commitMu.Lock()
	defer r.commitMu.Unlock()

	r.mu.Lock()
	t, ok := byID(r.tenants, id)
	if !ok {
		r.mu.Unlock()
		metrics.TenantSwitchTotal.WithLabelValues("unknown").Inc()
		r.log.Debugw("switch to unknown tenant ignored", "tenant", id)
		return false
	}
	r.current = &t
	r.mu.Unlock()

	metrics.TenantSwitchTotal.WithLabelValues("applied").Inc()
	r.log.Infow("tenant switched", "tenant", id)
	r.apply(ctx, t, true)
	return true
}
