// components/backend/backend.go
//
// Backend Component – REST pass-through via the request gateway.
//
// Routes (under /api/backend):
//
//	ANY /*  → forwards the verb, path, query, and JSON body to the REST
//	          backend and answers {"data": …, "error": {…}}
//
// Context
// -------
// Dashboard pages talk to the backend through this component so they get
// one normalised result shape and one place for error messages.  Each
// request gets its own Gateway, so loading and error state never leak
// between callers.  The caller's Authorization header is forwarded.
//
// When the query carries `form=<id>`, write requests are validated against
// that form first and rejected with 422 and the FormResult on failure.
//
// Notes
// -----
// • GET needs backend.read; every other verb needs backend.write.
// • Oxford commas, two spaces after periods.
package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/flota/internal/acl"
	"github.com/yanizio/flota/internal/component"
	"github.com/yanizio/flota/internal/form"
	"github.com/yanizio/flota/internal/gateway"
)

// compile-time assertions
var (
	_ component.Component   = (*Comp)(nil)
	_ component.Initializer = (*Comp)(nil)
)

// maxBody caps forwarded payloads.
const maxBody = 1 << 20

// Comp implements component.Component.
type Comp struct {
	client *gateway.RESTClient
	policy acl.Policy
	log    *zap.SugaredLogger
}

func init() { component.Register(&Comp{}) }

func (c *Comp) Name() string { return "backend" }

func (c *Comp) Init(svc component.Services) error {
	c.client = svc.Backend()
	if c.client == nil {
		return errors.New("backend client not configured")
	}
	c.policy = svc.Policy()
	c.log = svc.Logger().With("component", c.Name())
	return nil
}

func (c *Comp) Routes() chi.Router {
	if c.log == nil {
		c.log = zap.S()
	}
	r := chi.NewRouter()

	read := acl.RequirePermission(c.policy, "backend", "read")
	write := acl.RequirePermission(c.policy, "backend", "write")

	r.With(read).Get("/*", c.forward)
	r.With(write).Post("/*", c.forward)
	r.With(write).Put("/*", c.forward)
	r.With(write).Patch("/*", c.forward)
	r.With(write).Delete("/*", c.forward)

	return r
}

func (c *Comp) forward(w http.ResponseWriter, r *http.Request) {
	var data any
	if r.Body != nil && r.Method != http.MethodGet && r.Method != http.MethodDelete {
		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
		if err != nil {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		if len(bytes.TrimSpace(raw)) > 0 {
			if !json.Valid(raw) {
				http.Error(w, "body must be JSON", http.StatusBadRequest)
				return
			}
			data = json.RawMessage(raw)
		}
		if id := r.URL.Query().Get("form"); id != "" && !c.checkForm(w, id, raw) {
			return
		}
	}

	query := r.URL.Query()
	query.Del("form")
	cfg := &gateway.RequestConfig{Query: query}
	if auth := r.Header.Get("Authorization"); auth != "" {
		cfg.Headers = http.Header{"Authorization": {auth}}
	}

	gw := gateway.New(c.client)
	res := gw.Request(r.Context(), r.Method, chi.URLParam(r, "*"), data, cfg)

	code := http.StatusOK
	if res.Err != nil {
		code = http.StatusBadGateway
		if res.Err.Status >= 400 && res.Err.Status < 600 {
			code = res.Err.Status
		}
		c.log.Infow("backend call failed", "method", r.Method, "path", r.URL.Path, "status", res.Err.Status, "err", res.Err.Message)
	}
	writeJSON(w, code, res)
}

// checkForm validates raw against form id.  It writes the response and
// returns false when the request must stop here.
func (c *Comp) checkForm(w http.ResponseWriter, id string, raw []byte) bool {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	fields := make(map[string]any)
	if err := dec.Decode(&fields); err != nil {
		http.Error(w, "body must be a JSON object", http.StatusBadRequest)
		return false
	}
	res, err := form.Validate(id, fields)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return false
	}
	if !res.Valid {
		writeJSON(w, http.StatusUnprocessableEntity, res)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Warnw("encode response", "err", err)
	}
}
