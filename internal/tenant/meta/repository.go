// internal/tenant/meta/repository.go
//
// SQL tenant source.
//
// Context
// -------
// Reads the **empresa** table.  Queries are written with `?` placeholders
// and rebound for the pool's driver, so MySQL and PostgreSQL (pgx) share
// one code path.
//
// Workflow
// --------
//  1. List runs one ordered SELECT over every row, active or not.  The
//     resolver does the active filtering so its collection order matches
//     the table order.
//  2. Rows are scanned into Record, converted, and passed through Check.
//
// Notes
// -----
//   - Column list matches the fields in `Record`; update both together.
//   - Oxford commas, two spaces after periods, no m-dash.
package meta

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/flota/internal/tenant"
)

const listQuery = `
        SELECT id, nombre, activo, color_primario, color_secundario
        FROM   empresa
        ORDER  BY id`

// SQL is a tenant.Source over the empresa table.
type SQL struct {
	db   *sqlx.DB
	list string
	log  *zap.SugaredLogger
}

// NewSQL returns a source reading from db.
func NewSQL(db *sqlx.DB, log *zap.SugaredLogger) *SQL {
	if log == nil {
		log = zap.S()
	}
	return &SQL{db: db, list: db.Rebind(listQuery), log: log}
}

// List implements tenant.Source.
func (s *SQL) List(ctx context.Context) ([]tenant.Tenant, error) {
	var rows []Record
	if err := s.db.SelectContext(ctx, &rows, s.list); err != nil {
		return nil, fmt.Errorf("select empresa: %w", err)
	}
	out := make([]tenant.Tenant, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Tenant())
	}
	return Check(out, s.log), nil
}
