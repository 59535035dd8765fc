// internal/validate/result.go
//
// Flota – Validator library: result type and composition.
//
// Context
//   Every rule maps one field value to a Result.  A passing Result carries no
//   message; a failing Result carries the user-facing message shown next to
//   the field.  Validation failures are ordinary values, never errors, so
//   callers can branch on OK() without errors.Is ceremony.
//
// Workflow
//   •  Rules are plain funcs (Rule) built by the constructors in rules.go.
//   •  Validate runs a chain and stops at the first failure.
//   •  ValidateForm runs one chain per field and collects the first failure
//      of every field.
//
//------------------------------------------------------------------------------

package validate

// Result is the outcome of one rule.  The zero value is a failure with an
// empty message; use Pass and Fail to build results.
type Result struct {
	ok  bool
	msg string
}

// Pass returns a successful Result.
func Pass() Result { return Result{ok: true} }

// Fail returns a failed Result carrying msg.
func Fail(msg string) Result { return Result{msg: msg} }

// OK reports whether the rule passed.
func (r Result) OK() bool { return r.ok }

// Message returns the failure message, or "" for a passing Result.
func (r Result) Message() string { return r.msg }

// Rule validates a single field value.
type Rule func(v any) Result

// Validate runs rules in order and returns the first failure.  An empty chain
// passes.
func Validate(v any, rules ...Rule) Result {
	for _, rule := range rules {
		if res := rule(v); !res.OK() {
			return res
		}
	}
	return Pass()
}

// Rules maps a field name to its rule chain.
type Rules map[string][]Rule

// FormResult aggregates the outcome of ValidateForm.
type FormResult struct {
	Valid  bool              `json:"isValid"`
	Errors map[string]string `json:"errors"`
}

// ValidateForm validates every field named in rules against data[field].
// Fields present in data but absent from rules are ignored.  A missing key
// is validated as nil.
func ValidateForm(data map[string]any, rules Rules) FormResult {
	errs := make(map[string]string)
	for field, chain := range rules {
		if res := Validate(data[field], chain...); !res.OK() {
			errs[field] = res.Message()
		}
	}
	return FormResult{Valid: len(errs) == 0, Errors: errs}
}
