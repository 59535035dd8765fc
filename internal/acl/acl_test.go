// internal/acl/acl_test.go
//
// Unit-tests for the role policy and middleware.
//
// Run: go test ./internal/acl -v

package acl

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yanizio/flota/internal/auth"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

func serve(h http.Handler, u *auth.User) int {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if u != nil {
		r = r.WithContext(auth.WithUser(r.Context(), u))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	return rr.Code
}

func TestRequireRole(t *testing.T) {
	h := RequireRole(auth.RoleSuperAdmin, auth.RoleAdmin)(ok)

	cases := []struct {
		user *auth.User
		want int
	}{
		{nil, http.StatusUnauthorized},
		{&auth.User{Rol: auth.RoleConductor}, http.StatusForbidden},
		{&auth.User{Rol: auth.RoleAdmin}, http.StatusNoContent},
	}
	for _, tc := range cases {
		if got := serve(h, tc.user); got != tc.want {
			t.Errorf("user %+v: code = %d, want %d", tc.user, got, tc.want)
		}
	}
}

func TestRequireRolePanicsWithoutNames(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	RequireRole()
}

func TestRequirePermission(t *testing.T) {
	p := Default.Merge(map[string][]string{"backend.write": {auth.RoleAdmin}})
	h := RequirePermission(p, "backend", "write")(ok)

	if got := serve(h, &auth.User{Rol: auth.RoleOperador}); got != http.StatusForbidden {
		t.Fatalf("operador: code = %d", got)
	}
	if got := serve(h, &auth.User{Rol: auth.RoleAdmin}); got != http.StatusNoContent {
		t.Fatalf("admin: code = %d", got)
	}
	if Default.Allowed(auth.RoleAdmin, "backend", "write") != true {
		t.Fatal("Merge must not mutate Default")
	}
	if p.Allowed(auth.RoleSuperAdmin, "nope", "read") {
		t.Fatal("unknown pairs must be denied")
	}
}
