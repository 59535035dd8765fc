// internal/form/validate.go
//
// Flota – Forms subsystem: server-side validation.
//
// Context
//   A FormDef is data; the validator library works on rule chains.  This
//   file compiles the first into the second for a given submission and runs
//   validate.ValidateForm over it.  Compilation happens per submission
//   because requiredIf reads a sibling value from the same payload.
//
//------------------------------------------------------------------------------

package form

import (
	"encoding/json"
	"errors"

	"github.com/yanizio/flota/internal/validate"
)

// ErrUnknownForm is returned when a form ID has no registered definition.
var ErrUnknownForm = errors.New("unknown form")

// Validate checks data against the registered form formID.
func Validate(formID string, data map[string]any) (validate.FormResult, error) {
	fd, ok := GetFormDef(formID)
	if !ok {
		return validate.FormResult{}, ErrUnknownForm
	}
	return validate.ValidateForm(data, Compile(fd, data)), nil
}

// Compile turns fd into validator chains.  data supplies the sibling values
// consulted by requiredIf; it may be nil.
func Compile(fd *FormDef, data map[string]any) validate.Rules {
	rules := make(validate.Rules, len(fd.Fields))
	for _, f := range fd.Fields {
		chain := make([]validate.Rule, 0, len(f.Rules))
		for _, r := range f.Rules {
			chain = append(chain, compileRule(f, r, data))
		}
		rules[f.Name] = chain
	}
	return rules
}

func compileRule(f FieldDef, r RuleDef, data map[string]any) validate.Rule {
	label := f.Label
	if r.Label != "" {
		label = r.Label
	}

	switch r.Rule {
	case "required":
		return validate.Required(label)
	case "requiredIf":
		return validate.RequiredIf(truthy(data[r.When]), label)
	case "minLength":
		return validate.MinLength(int(r.N), label)
	case "maxLength":
		return validate.MaxLength(int(r.N), label)
	case "number":
		return validate.Number(label)
	case "min":
		return validate.Min(r.N, label)
	case "max":
		return validate.Max(r.N, label)
	case "range":
		return validate.Range(r.Lo, r.Hi, label)
	case "email":
		return validate.Email
	case "cuit":
		return validate.CUIT
	case "dni":
		return validate.DNI
	case "whatsapp":
		return validate.WhatsApp
	case "patente":
		return validate.Patente
	case "year":
		return validate.Year
	default:
		// validateFormDef rejects unknown names at load time.
		return func(any) validate.Result { return validate.Pass() }
	}
}

// truthy mirrors how the dashboard treats checkbox and toggle values.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != "" && x != "false" && x != "0"
	case json.Number:
		f, err := x.Float64()
		return err == nil && f != 0
	case float64:
		return x != 0
	case int:
		return x != 0
	}
	return true
}
