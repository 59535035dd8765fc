// internal/tenant/meta/static.go
//
// Static tenant source.
//
// The embedded empresas.yaml is the demo fleet used in development and
// tests.  Deployments may point `tenant.static_file` at their own list.

package meta

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/yanizio/flota/internal/tenant"
)

//go:embed empresas.yaml
var defaultEmpresas []byte

// Static is an immutable in-memory tenant.Source.
type Static struct {
	tenants []tenant.Tenant
}

// NewStatic parses raw YAML (a list of tenant records).
func NewStatic(raw []byte, log *zap.SugaredLogger) (*Static, error) {
	var ts []tenant.Tenant
	if err := yaml.Unmarshal(raw, &ts); err != nil {
		return nil, fmt.Errorf("parse tenant list: %w", err)
	}
	return &Static{tenants: Check(ts, log)}, nil
}

// DefaultStatic returns the embedded demo fleet.
func DefaultStatic(log *zap.SugaredLogger) *Static {
	s, err := NewStatic(defaultEmpresas, log)
	if err != nil {
		panic(err) // embedded file is validated by tests
	}
	return s
}

// LoadStatic reads a YAML tenant list from path.
func LoadStatic(path string, log *zap.SugaredLogger) (*Static, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewStatic(raw, log)
}

// List implements tenant.Source.
func (s *Static) List(context.Context) ([]tenant.Tenant, error) {
	return append([]tenant.Tenant(nil), s.tenants...), nil
}
