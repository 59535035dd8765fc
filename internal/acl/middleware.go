// internal/acl/middleware.go
//
// Chi middleware helpers that enforce RBAC.

package acl

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/yanizio/flota/internal/auth"
)

// RequireRole ensures the current user holds ANY of the supplied roles.
func RequireRole(names ...string) func(http.Handler) http.Handler {
	if len(names) == 0 {
		panic("acl.RequireRole: at least one role name must be supplied")
	}
	allowSet := make(map[string]struct{}, len(names))
	for _, n := range names {
		allowSet[n] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := auth.FromContext(r.Context())
			if u == nil {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			if _, ok := allowSet[u.Rol]; !ok {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission verifies that the user's role allows component/action
// under p.
func RequirePermission(p Policy, component, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := auth.FromContext(r.Context())
			if u == nil {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			if !p.Allowed(u.Rol, component, action) {
				zap.S().Debugw("acl denied", "rol", u.Rol, "component", component, "action", action)
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
