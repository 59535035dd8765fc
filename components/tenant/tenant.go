// components/tenant/tenant.go
//
// Tenant Component – exposes the caller's resolution session.
//
// Routes (under /api/tenant):
//
//	GET  /           → current State
//	POST /switch     → {"id": n}; elevated users only, silently ignored otherwise
//	POST /refresh    → re-run resolution with the current inputs
//	GET  /theme.css  → :root block with the tenant colour variables
//
// Every route expects session.Resolve to have placed a tenant.Session in
// the request context.
package tenant

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/flota/internal/component"
	core "github.com/yanizio/flota/internal/tenant"
)

// compile-time assertions
var (
	_ component.Component   = (*Comp)(nil)
	_ component.Initializer = (*Comp)(nil)
)

// Comp implements component.Component.
type Comp struct {
	log *zap.SugaredLogger
}

func init() { component.Register(&Comp{}) }

func (c *Comp) Name() string { return "tenant" }

func (c *Comp) Init(svc component.Services) error {
	c.log = svc.Logger().With("component", c.Name())
	return nil
}

// switchResponse is State plus whether the switch was applied.
type switchResponse struct {
	core.State
	Switched bool `json:"switched"`
}

func (c *Comp) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requireSession)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, core.FromContext(r.Context()).Resolver.State())
	})

	r.Post("/switch", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ID int `json:"id"`
		}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&body); err != nil {
			http.Error(w, "body must be {\"id\": <number>}", http.StatusBadRequest)
			return
		}
		res := core.FromContext(r.Context()).Resolver
		ok := res.SwitchTenant(r.Context(), body.ID)
		writeJSON(w, http.StatusOK, switchResponse{State: res.State(), Switched: ok})
	})

	r.Post("/refresh", func(w http.ResponseWriter, r *http.Request) {
		res := core.FromContext(r.Context()).Resolver
		res.Refresh(r.Context())
		writeJSON(w, http.StatusOK, res.State())
	})

	r.Get("/theme.css", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte(core.FromContext(r.Context()).Vars.CSS()))
	})

	return r
}

func requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if core.FromContext(r.Context()) == nil {
			zap.S().Errorw("tenant session missing; is session.Resolve mounted?", "path", r.URL.Path)
			http.Error(w, "session not available", http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Warnw("encode response", "err", err)
	}
}
