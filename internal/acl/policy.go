// internal/acl/policy.go
//
// Role-based access policy.
//
// Context
// -------
// Roles arrive inside the bearer token, so the policy is a static table
// rather than a database lookup.  A Policy answers one question: is role R
// permitted to perform action A on component C?  The table is loaded from
// configuration (`acl.rules`) and falls back to Default.
//
//	component.action  → roles
//	tenant.switch     → superadmin
//	backend.write     → superadmin, admin, operador
//
// Notes
// -----
// • Unknown component/action pairs are denied.
// • Oxford commas, two spaces after periods.
package acl

import (
	"github.com/yanizio/flota/internal/auth"
)

// Policy maps "component.action" to the roles allowed to perform it.
type Policy map[string][]string

// Default is used when configuration supplies no rules.
var Default = Policy{
	"tenant.read":   {auth.RoleSuperAdmin, auth.RoleAdmin, auth.RoleOperador, auth.RoleAuditor, auth.RoleConductor},
	"tenant.switch": {auth.RoleSuperAdmin},
	"forms.read":    {auth.RoleSuperAdmin, auth.RoleAdmin, auth.RoleOperador, auth.RoleAuditor, auth.RoleConductor},
	"backend.read":  {auth.RoleSuperAdmin, auth.RoleAdmin, auth.RoleOperador, auth.RoleAuditor, auth.RoleConductor},
	"backend.write": {auth.RoleSuperAdmin, auth.RoleAdmin, auth.RoleOperador},
}

// Allowed reports whether role may perform action on component.
func (p Policy) Allowed(role, component, action string) bool {
	for _, r := range p[component+"."+action] {
		if r == role {
			return true
		}
	}
	return false
}

// Merge returns a copy of p with every key in over replacing p's entry.
func (p Policy) Merge(over map[string][]string) Policy {
	out := make(Policy, len(p)+len(over))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}
