// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after it
// unmarshals the merged Koanf tree into a `Config` instance.  Any tag
// mismatch or validation error aborts startup, ensuring the binary never
// runs with partial, malformed, or missing configuration.
//
// Field tags cover single values.  The struct-level rule below covers the
// one cross-section constraint: a DSN is mandatory as soon as any component
// is configured to use SQL.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.
//   • Section dividers use the simple comment style requested.

package config

import "github.com/go-playground/validator/v10"

//
// validator instance (package-level singleton)
//

var v = func() *validator.Validate {
	val := validator.New()
	val.RegisterStructValidation(databaseRequired, Config{})
	return val
}()

func databaseRequired(sl validator.StructLevel) {
	c := sl.Current().Interface().(Config)
	if c.NeedsDatabase() && c.Database.DSN == "" {
		sl.ReportError(c.Database.DSN, "Database.DSN", "DSN", "required_with_sql", "")
	}
}

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
