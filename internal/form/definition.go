// internal/form/definition.go
//
// Flota – Forms subsystem: YAML definition loader.
//
// Context
//   Each dashboard form (vehículo, conductor, empresa, carga, tanque) is
//   declared in a YAML file that lists its fields and the validator rules of
//   every field.  Defaults ship embedded in the binary under forms/.  An
//   optional override directory, configured per deployment, may replace any
//   default by reusing its ID.  The parsed FormDef values live in an
//   in-memory registry so handlers fetch them by ID.
//
// Workflow
//   •  Structs mirror the YAML schema: FormDef → FieldDef → RuleDef.
//   •  LoadFormDef parses one YAML document and validates structural rules.
//   •  RegisterDefaults loads the embedded set; RegisterForms walks override
//      directories and replaces entries with the same ID.
//   •  GetFormDef offers read-only access to a parsed form by ID.
//
// Style
//   Comments use full sentences, two spaces after periods, and Oxford commas.
//
//------------------------------------------------------------------------------

package form

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed forms/*.yaml
var defaultForms embed.FS

// -----------------------------------------------------------------------------
// Data structures
// -----------------------------------------------------------------------------

// FormDef represents one form definition loaded from YAML.
type FormDef struct {
	ID     string     `yaml:"id"     json:"id"`
	Title  string     `yaml:"title"  json:"title"`
	Fields []FieldDef `yaml:"fields" json:"fields"`
}

// FieldDef describes a single input and its validator chain.
type FieldDef struct {
	Name  string    `yaml:"name"  json:"name"`
	Label string    `yaml:"label" json:"label"`
	Rules []RuleDef `yaml:"rules" json:"rules"`
}

// RuleDef names one validator plus its parameters.  Unused parameters are
// ignored by rules that do not need them.
type RuleDef struct {
	Rule  string  `yaml:"rule"  json:"rule"`
	N     float64 `yaml:"n"     json:"n,omitempty"`     // minLength, maxLength, min, max
	Lo    float64 `yaml:"lo"    json:"lo,omitempty"`    // range
	Hi    float64 `yaml:"hi"    json:"hi,omitempty"`    // range
	Label string  `yaml:"label" json:"label,omitempty"` // overrides FieldDef.Label
	When  string  `yaml:"when"  json:"when,omitempty"`  // requiredIf: sibling field
}

// -----------------------------------------------------------------------------
// Registry
// -----------------------------------------------------------------------------

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*FormDef)
)

// GetFormDef returns a parsed FormDef by ID.  The boolean is false when the
// ID is unknown.
func GetFormDef(id string) (*FormDef, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fd, ok := registry[id]
	return fd, ok
}

// IDs returns every registered form ID in lexical order.
func IDs() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for id := range registry {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// -----------------------------------------------------------------------------
// Loader API
// -----------------------------------------------------------------------------

// LoadFormDef parses one YAML document, validates its structure, and returns
// a populated FormDef.  It never mutates the registry.
func LoadFormDef(name string, raw []byte) (*FormDef, error) {
	var fd FormDef
	if err := yaml.Unmarshal(raw, &fd); err != nil {
		return nil, fmt.Errorf("parse YAML %s: %w", name, err)
	}
	if err := validateFormDef(&fd, name); err != nil {
		return nil, err
	}
	return &fd, nil
}

// RegisterDefaults loads the embedded form set.  Call once at startup before
// RegisterForms so overrides win.
func RegisterDefaults() error {
	return fs.WalkDir(defaultForms, "forms", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".yaml") {
			return nil
		}
		raw, err := defaultForms.ReadFile(path)
		if err != nil {
			return err
		}
		fd, err := LoadFormDef(path, raw)
		if err != nil {
			return err
		}
		register(fd)
		return nil
	})
}

// RegisterForms walks each directory and loads every “*.yaml” inside it.
// Later directories override earlier ones, and all of them override the
// embedded defaults.  Missing directories are skipped.
func RegisterForms(dirs []string) error {
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), ".yaml") {
				return nil
			}
			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read form file %s: %w", path, err)
			}
			fd, err := LoadFormDef(path, raw)
			if err != nil {
				return err // fail fast so issues surface loudly.
			}
			register(fd)
			return nil
		})
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func register(fd *FormDef) {
	registryMu.Lock()
	registry[fd.ID] = fd
	registryMu.Unlock()
}

// -----------------------------------------------------------------------------
// Validation helpers
// -----------------------------------------------------------------------------

// knownRules lists the rule names compile understands.
var knownRules = map[string]bool{
	"required": true, "requiredIf": true,
	"minLength": true, "maxLength": true,
	"number": true, "min": true, "max": true, "range": true,
	"email": true, "cuit": true, "dni": true, "whatsapp": true,
	"patente": true, "year": true,
}

// validateFormDef enforces structural rules that YAML tags cannot express.
func validateFormDef(fd *FormDef, name string) error {
	if fd.ID == "" {
		return fmt.Errorf("form definition %s: missing required 'id'", name)
	}
	if len(fd.Fields) == 0 {
		return fmt.Errorf("form definition %s: must have 'fields'", name)
	}

	seen := make(map[string]struct{}, len(fd.Fields))
	for i := range fd.Fields {
		f := &fd.Fields[i]
		if f.Name == "" {
			return fmt.Errorf("form %s: field missing 'name'", name)
		}
		if f.Label == "" {
			return fmt.Errorf("form %s: field '%s' missing 'label'", name, f.Name)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("form %s: duplicate field name '%s'", name, f.Name)
		}
		seen[f.Name] = struct{}{}

		for _, r := range f.Rules {
			if !knownRules[r.Rule] {
				return fmt.Errorf("form %s: field '%s' unknown rule '%s'", name, f.Name, r.Rule)
			}
			if r.Rule == "requiredIf" && r.When == "" {
				return fmt.Errorf("form %s: field '%s' requiredIf needs 'when'", name, f.Name)
			}
			if r.Rule == "range" && r.Lo > r.Hi {
				return fmt.Errorf("form %s: field '%s' range lo greater than hi", name, f.Name)
			}
			if (r.Rule == "minLength" || r.Rule == "maxLength") && r.N < 0 {
				return fmt.Errorf("form %s: field '%s' %s cannot be negative", name, f.Name, r.Rule)
			}
		}
	}
	return nil
}
