// internal/auth/context.go
//
// Authenticated-user helpers.
//
// Context
// -------
// Authentication itself lives in the REST backend.  This service only needs
// to know who is calling: the role, the assigned company (tenant), and a
// stable subject used to key persisted preferences.  The bearer middleware
// in jwt.go places a *User in the request context; everything downstream
// reads it back with FromContext.
//
// Usage
// -----
//     ctx = auth.WithUser(ctx, &auth.User{Rol: auth.RoleAdmin, EmpresaID: 3})
//     u := auth.FromContext(ctx) // nil when anonymous
//
// Notes
// -----
// • A nil *User is the absent-user state.
// • Oxford commas, two spaces after periods.

package auth

import "context"

// Role names issued by the backend.
const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
	RoleOperador   = "operador"
	RoleAuditor    = "auditor"
	RoleConductor  = "conductor"
)

// User is the read-only view of the authenticated caller.
type User struct {
	Subject   string `json:"sub,omitempty"`
	Rol       string `json:"rol"`
	EmpresaID int    `json:"empresaId"`
}

// HasRole reports whether u holds role.  A nil User holds no role.
func (u *User) HasRole(role string) bool {
	return u != nil && u.Rol == role
}

// Equal compares two users by value; two nil users are equal.
func (u *User) Equal(o *User) bool {
	if u == nil || o == nil {
		return u == o
	}
	return *u == *o
}

// userKey is unexported to avoid context-key collisions.
type userKey struct{}

// WithUser returns a new context carrying u.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// FromContext extracts the user from ctx, or nil when none is set.
func FromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userKey{}).(*User)
	return u
}
