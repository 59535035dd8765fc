// internal/tenant/tenant.go
//
// Tenant model and collaborator contracts.
//
// Context
// -------
// A tenant is a customer company (empresa) with its own branding.  Records
// come from a Source (static list, SQL table, or the REST backend; see
// internal/tenant/meta) and are only filtered and selected here, never
// created or destroyed.
//
// Notes
// -----
// • An empty colour string means the colour is absent.
// • Oxford commas, two spaces after periods.

package tenant

import (
	"context"
	"errors"

	"github.com/yanizio/flota/internal/auth"
)

// ErrNotFound is returned when an id is not in the selectable collection.
var ErrNotFound = errors.New("tenant not found")

// Tenant mirrors one company record.
type Tenant struct {
	ID              int    `json:"id"              yaml:"id"              db:"id"               validate:"gt=0"`
	Nombre          string `json:"nombre"          yaml:"nombre"          db:"nombre"           validate:"required"`
	Activo          bool   `json:"activo"          yaml:"activo"          db:"activo"`
	ColorPrimario   string `json:"colorPrimario,omitempty"   yaml:"colorPrimario"   db:"color_primario"   validate:"omitempty,iscolor"`
	ColorSecundario string `json:"colorSecundario,omitempty" yaml:"colorSecundario" db:"color_secundario" validate:"omitempty,iscolor"`
}

// Source lists every tenant record, active or not.
type Source interface {
	List(ctx context.Context) ([]Tenant, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]Tenant, error)

func (f SourceFunc) List(ctx context.Context) ([]Tenant, error) { return f(ctx) }

// Inputs supplies the current user and detected subdomain token.
type Inputs interface {
	User() *auth.User
	Subdomain() string
}

// State is a point-in-time copy of a resolver's visible state.
type State struct {
	Current *Tenant  `json:"currentTenant"`
	Tenants []Tenant `json:"tenants"`
	Loading bool     `json:"loading"`
}

// Lookup finds id among the selectable tenants.
func (s State) Lookup(id int) (Tenant, error) {
	if t, ok := byID(s.Tenants, id); ok {
		return t, nil
	}
	return Tenant{}, ErrNotFound
}
