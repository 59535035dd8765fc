package backend

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/yanizio/flota/internal/acl"
	"github.com/yanizio/flota/internal/auth"
	"github.com/yanizio/flota/internal/form"
	"github.com/yanizio/flota/internal/gateway"
)

type svc struct{ client *gateway.RESTClient }

func (s svc) Policy() acl.Policy           { return acl.Default }
func (s svc) Backend() *gateway.RESTClient { return s.client }
func (s svc) Logger() *zap.SugaredLogger   { return zap.NewNop().Sugar() }

func TestMain(m *testing.M) {
	if err := form.RegisterDefaults(); err != nil {
		panic(err)
	}
	m.Run()
}

func setup(t *testing.T) (http.Handler, *atomic.Int32) {
	t.Helper()
	hits := new(atomic.Int32)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/vehiculos":
			assert.Equal(t, "activo=true", r.URL.RawQuery)
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			_, _ = io.WriteString(w, `[{"id":1,"patente":"AB123CD"}]`)
		case r.Method == http.MethodPost && r.URL.Path == "/api/empresas":
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"nombre":"Nueva","cuit":"30-12345678-9","email":"a@b.co"}`, string(body))
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id":9}`)
		default:
			w.WriteHeader(http.StatusConflict)
			_, _ = io.WriteString(w, `{"message":"Registro duplicado"}`)
		}
	}))
	t.Cleanup(srv.Close)

	c := &Comp{}
	require.NoError(t, c.Init(svc{client: gateway.NewRESTClient(srv.URL+"/api", time.Second, nil)}))
	c.log = zaptest.NewLogger(t).Sugar()
	return c.Routes(), hits
}

func call(h http.Handler, method, target, body, role string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set("Authorization", "Bearer tok")
	if role != "" {
		r = r.WithContext(auth.WithUser(r.Context(), &auth.User{Rol: role}))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	return rr
}

type result struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Status  int    `json:"status"`
	} `json:"error"`
}

func parse(t *testing.T, rr *httptest.ResponseRecorder) result {
	t.Helper()
	var res result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	return res
}

func TestForwardGet(t *testing.T) {
	h, _ := setup(t)
	rr := call(h, http.MethodGet, "/vehiculos?activo=true", "", auth.RoleConductor)
	require.Equal(t, http.StatusOK, rr.Code)
	res := parse(t, rr)
	assert.Nil(t, res.Error)
	assert.JSONEq(t, `[{"id":1,"patente":"AB123CD"}]`, string(res.Data))
}

func TestForwardErrorCarriesBackendMessage(t *testing.T) {
	h, _ := setup(t)
	rr := call(h, http.MethodPut, "/vehiculos/1", `{"patente":"AB123CD"}`, auth.RoleAdmin)
	assert.Equal(t, http.StatusConflict, rr.Code)
	res := parse(t, rr)
	require.NotNil(t, res.Error)
	assert.Equal(t, "Registro duplicado", res.Error.Message)
	assert.Equal(t, "null", string(res.Data))
}

func TestWriteNeedsPermission(t *testing.T) {
	h, hits := setup(t)
	rr := call(h, http.MethodDelete, "/vehiculos/1", "", auth.RoleConductor)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Zero(t, hits.Load())
}

func TestFormGate(t *testing.T) {
	h, hits := setup(t)

	rr := call(h, http.MethodPost, "/empresas?form=empresa", `{"nombre":"","cuit":"abc"}`, auth.RoleAdmin)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), `"isValid":false`)
	assert.Zero(t, hits.Load(), "invalid payloads never reach the backend")

	rr = call(h, http.MethodPost, "/empresas?form=empresa",
		`{"nombre":"Nueva","cuit":"30-12345678-9","email":"a@b.co"}`, auth.RoleAdmin)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"id":9}`, string(parse(t, rr).Data))
}

func TestRejectsNonJSONBody(t *testing.T) {
	h, _ := setup(t)
	rr := call(h, http.MethodPost, "/empresas", `nombre=x`, auth.RoleAdmin)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestInitRequiresClient(t *testing.T) {
	assert.Error(t, (&Comp{}).Init(svc{}))
}
