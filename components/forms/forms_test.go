package forms

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/yanizio/flota/internal/acl"
	"github.com/yanizio/flota/internal/auth"
	"github.com/yanizio/flota/internal/form"
)

func TestMain(m *testing.M) {
	if err := form.RegisterDefaults(); err != nil {
		panic(err)
	}
	m.Run()
}

func handler(t *testing.T) http.Handler {
	return (&Comp{policy: acl.Default, log: zaptest.NewLogger(t).Sugar()}).Routes()
}

func request(method, target, body string, u *auth.User) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	if u != nil {
		r = r.WithContext(auth.WithUser(r.Context(), u))
	}
	return r
}

var admin = &auth.User{Rol: auth.RoleAdmin, EmpresaID: 1}

func TestListForms(t *testing.T) {
	rr := httptest.NewRecorder()
	handler(t).ServeHTTP(rr, request(http.MethodGet, "/", "", admin))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct{ Forms []string }
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Contains(t, body.Forms, "vehiculo")
	assert.Contains(t, body.Forms, "empresa")
}

func TestAnonymousRejected(t *testing.T) {
	rr := httptest.NewRecorder()
	handler(t).ServeHTTP(rr, request(http.MethodGet, "/", "", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetDefinition(t *testing.T) {
	rr := httptest.NewRecorder()
	handler(t).ServeHTTP(rr, request(http.MethodGet, "/vehiculo", "", admin))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"id":"vehiculo"`)

	rr = httptest.NewRecorder()
	handler(t).ServeHTTP(rr, request(http.MethodGet, "/nada", "", admin))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestValidate(t *testing.T) {
	rr := httptest.NewRecorder()
	handler(t).ServeHTTP(rr, request(http.MethodPost, "/empresa/validate",
		`{"nombre":"","cuit":"abc","email":"a@b.co"}`, admin))
	require.Equal(t, http.StatusOK, rr.Code)

	var res struct {
		IsValid bool              `json:"isValid"`
		Errors  map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Errors, "cuit")
	assert.NotContains(t, res.Errors, "email")
}

func TestValidateErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	handler(t).ServeHTTP(rr, request(http.MethodPost, "/nada/validate", `{}`, admin))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	handler(t).ServeHTTP(rr, request(http.MethodPost, "/empresa/validate", `[1,2]`, admin))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
