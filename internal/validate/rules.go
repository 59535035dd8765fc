// internal/validate/rules.go
//
// Flota – Validator library: field rules.
//
// Context
//   Domain rules (email, CUIT, DNI, WhatsApp, patente) are Rules themselves.
//   Generic rules (required, length, numeric bounds) are constructors taking
//   the field label used in the message.  Messages are Spanish because the
//   dashboard is.
//
// Notes
//   •  Empty means nil or "".  Required and RequiredIf also treat
//      whitespace-only strings as empty.
//   •  Numeric rules accept Go numbers, json.Number, and numeric strings.
//
//------------------------------------------------------------------------------

package validate

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	cuitRe    = regexp.MustCompile(`^\d{2}-?\d{8}-?\d$`)
	dniRe     = regexp.MustCompile(`^\d{7,8}$`)
	nonDigit  = regexp.MustCompile(`\D`)
	patenteRe = regexp.MustCompile(`(?i)^[A-Z]{2,3}\d{3}[A-Z]{0,2}$`)
)

// now is swapped in tests so Year does not depend on the wall clock.
var now = time.Now

// -----------------------------------------------------------------------------
// Domain rules
// -----------------------------------------------------------------------------

// Email requires a local@domain.tld shape without whitespace.
func Email(v any) Result {
	if isEmpty(v) {
		return Fail("El email es requerido")
	}
	if !emailRe.MatchString(toString(v)) {
		return Fail("Email inválido")
	}
	return Pass()
}

// CUIT requires 11 digits grouped 2-8-1, dashes optional.
func CUIT(v any) Result {
	if isEmpty(v) {
		return Fail("El CUIT es requerido")
	}
	if !cuitRe.MatchString(toString(v)) {
		return Fail("CUIT inválido (formato: XX-XXXXXXXX-X)")
	}
	return Pass()
}

// DNI requires 7 or 8 digits.
func DNI(v any) Result {
	if isEmpty(v) {
		return Fail("El DNI es requerido")
	}
	if !dniRe.MatchString(toString(v)) {
		return Fail("DNI inválido (7 u 8 dígitos)")
	}
	return Pass()
}

// WhatsApp requires 10 to 15 digits once every non-digit is removed.
func WhatsApp(v any) Result {
	if isEmpty(v) {
		return Fail("El WhatsApp es requerido")
	}
	digits := nonDigit.ReplaceAllString(toString(v), "")
	if len(digits) < 10 || len(digits) > 15 {
		return Fail("Número de WhatsApp inválido (10 a 15 dígitos)")
	}
	return Pass()
}

// Patente accepts the legacy LLLDDD plate and the Mercosur LLDDDLL shape.
func Patente(v any) Result {
	if isEmpty(v) {
		return Fail("La patente es requerida")
	}
	if !patenteRe.MatchString(toString(v)) {
		return Fail("Patente inválida (formato: ABC123 o AB123CD)")
	}
	return Pass()
}

// Year accepts years from 1900 through next year.
func Year(v any) Result {
	maxYear := now().Year() + 1
	if isEmpty(v) {
		return Fail("El año es requerido")
	}
	n, ok := toNumber(v)
	if !ok || n < 1900 || n > float64(maxYear) {
		return Fail(fmt.Sprintf("Año inválido (1900-%d)", maxYear))
	}
	return Pass()
}

// -----------------------------------------------------------------------------
// Generic rules
// -----------------------------------------------------------------------------

// Required fails on empty or whitespace-only values.
func Required(label string) Rule {
	return func(v any) Result {
		if isBlank(v) {
			return Fail(requiredMsg(label))
		}
		return Pass()
	}
}

// RequiredIf behaves like Required only when cond is true.
func RequiredIf(cond bool, label string) Rule {
	return func(v any) Result {
		if cond && isBlank(v) {
			return Fail(requiredMsg(label))
		}
		return Pass()
	}
}

// MinLength fails on empty values and values shorter than n characters.
func MinLength(n int, label string) Rule {
	return func(v any) Result {
		if isEmpty(v) || length(v) < n {
			return Fail(fmt.Sprintf("%s debe tener al menos %d caracteres", label, n))
		}
		return Pass()
	}
}

// MaxLength fails on values longer than n characters.  Empty passes.
func MaxLength(n int, label string) Rule {
	return func(v any) Result {
		if isEmpty(v) {
			return Pass()
		}
		if length(v) > n {
			return Fail(fmt.Sprintf("%s debe tener como máximo %d caracteres", label, n))
		}
		return Pass()
	}
}

// Number fails on empty or non-numeric values.
func Number(label string) Rule {
	return func(v any) Result {
		if isEmpty(v) {
			return Fail(requiredMsg(label))
		}
		if _, ok := toNumber(v); !ok {
			return Fail(fmt.Sprintf("%s debe ser un número", label))
		}
		return Pass()
	}
}

// Min fails on empty values and numbers below lo.
func Min(lo float64, label string) Rule {
	return func(v any) Result {
		if isEmpty(v) {
			return Fail(requiredMsg(label))
		}
		n, ok := toNumber(v)
		if !ok || n < lo {
			return Fail(fmt.Sprintf("%s debe ser mayor o igual a %s", label, fmtNum(lo)))
		}
		return Pass()
	}
}

// Max fails on empty values and numbers above hi.
func Max(hi float64, label string) Rule {
	return func(v any) Result {
		if isEmpty(v) {
			return Fail(requiredMsg(label))
		}
		n, ok := toNumber(v)
		if !ok || n > hi {
			return Fail(fmt.Sprintf("%s debe ser menor o igual a %s", label, fmtNum(hi)))
		}
		return Pass()
	}
}

// Range fails on empty values and numbers outside [lo, hi].
func Range(lo, hi float64, label string) Rule {
	return func(v any) Result {
		if isEmpty(v) {
			return Fail(requiredMsg(label))
		}
		n, ok := toNumber(v)
		if !ok || n < lo || n > hi {
			return Fail(fmt.Sprintf("%s debe estar entre %s y %s", label, fmtNum(lo), fmtNum(hi)))
		}
		return Pass()
	}
}

// -----------------------------------------------------------------------------
// Value helpers
// -----------------------------------------------------------------------------

func requiredMsg(label string) string { return label + " es requerido" }

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case json.Number:
		return x == ""
	}
	return false
}

func isBlank(v any) bool {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return isEmpty(v)
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func length(v any) int {
	switch x := v.(type) {
	case string:
		return utf8.RuneCountInString(x)
	case []any:
		return len(x)
	case []string:
		return len(x)
	}
	return utf8.RuneCountInString(toString(v))
}

// toNumber coerces v to float64.  Strings are trimmed first; blank strings
// are not numeric.
func toNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func fmtNum(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
