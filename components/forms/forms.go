// components/forms/forms.go
//
// Forms Component – server-side validation for dashboard forms.
//
// Routes (under /api/forms):
//
//	GET  /               → {"forms": [ids…]}
//	GET  /{id}           → form definition
//	POST /{id}/validate  → {"isValid": bool, "errors": {field: message}}
//
// All routes require the forms.read permission.
package forms

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/flota/internal/acl"
	"github.com/yanizio/flota/internal/component"
	"github.com/yanizio/flota/internal/form"
)

// compile-time assertions
var (
	_ component.Component   = (*Comp)(nil)
	_ component.Initializer = (*Comp)(nil)
)

// Comp implements component.Component.
type Comp struct {
	policy acl.Policy
	log    *zap.SugaredLogger
}

func init() { component.Register(&Comp{}) }

func (c *Comp) Name() string { return "forms" }

func (c *Comp) Init(svc component.Services) error {
	c.policy = svc.Policy()
	c.log = svc.Logger().With("component", c.Name())
	return nil
}

func (c *Comp) Routes() chi.Router {
	if c.log == nil {
		c.log = zap.S()
	}
	r := chi.NewRouter()
	r.Use(acl.RequirePermission(c.policy, "forms", "read"))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string][]string{"forms": form.IDs()})
	})

	r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
		fd, ok := form.GetFormDef(chi.URLParam(r, "id"))
		if !ok {
			http.Error(w, form.ErrUnknownForm.Error(), http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, fd)
	})

	r.Post("/{id}/validate", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		_, res, err := form.HandleSubmit(id, r)
		switch {
		case errors.Is(err, form.ErrUnknownForm):
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		case err != nil:
			c.log.Debugw("form body rejected", "form", id, "err", err)
			http.Error(w, "body must be a JSON object", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, res)
	})

	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Warnw("encode response", "err", err)
	}
}
