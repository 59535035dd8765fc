// internal/tenant/meta/model.go
//
// `empresa` table row model.
//
// Context
// -------
// The `Record` struct mirrors one row in the **empresa** table.  Colour
// columns are nullable; Tenant() folds NULL into the empty string, which
// the resolver treats as "colour absent".
//
// Schema reference
//
//	CREATE TABLE empresa (
//	    id               INT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
//	    nombre           VARCHAR(128) NOT NULL,
//	    activo           TINYINT(1)   NOT NULL DEFAULT 1,
//	    color_primario   VARCHAR(32)  NULL,
//	    color_secundario VARCHAR(32)  NULL
//	);
//
// Notes
// -----
// • This struct contains no behaviour beyond the conversion.
// • Oxford commas, two spaces after periods.
package meta

import (
	"database/sql"

	"github.com/yanizio/flota/internal/tenant"
)

// Record mirrors one row in the `empresa` table.
type Record struct {
	ID              int            `db:"id"`
	Nombre          string         `db:"nombre"`
	Activo          bool           `db:"activo"`
	ColorPrimario   sql.NullString `db:"color_primario"`
	ColorSecundario sql.NullString `db:"color_secundario"`
}

// Tenant converts the row.
func (r Record) Tenant() tenant.Tenant {
	return tenant.Tenant{
		ID:              r.ID,
		Nombre:          r.Nombre,
		Activo:          r.Activo,
		ColorPrimario:   r.ColorPrimario.String,
		ColorSecundario: r.ColorSecundario.String,
	}
}
