// internal/prefs/sql.go
//
// SQL-backed preference storage.
//
//	user_preference (owner VARCHAR, pref_key VARCHAR, pref_value TEXT,
//	                 PRIMARY KEY (owner, pref_key))
//
// Queries are written with `?` placeholders and rebound for the driver in
// use, so the same code serves MySQL and PostgreSQL (pgx).  The upsert
// syntax is the one place the dialects differ.

package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQL is a Backend over the user_preference table.
type SQL struct {
	db     *sqlx.DB
	load   string
	upsert string
}

// NewSQL prepares dialect-specific statements for db.
func NewSQL(db *sqlx.DB) *SQL {
	upsert := `INSERT INTO user_preference (owner, pref_key, pref_value) VALUES (?, ?, ?)
                ON DUPLICATE KEY UPDATE pref_value = VALUES(pref_value)`
	if sqlx.BindType(db.DriverName()) == sqlx.DOLLAR {
		upsert = `INSERT INTO user_preference (owner, pref_key, pref_value) VALUES (?, ?, ?)
                ON CONFLICT (owner, pref_key) DO UPDATE SET pref_value = EXCLUDED.pref_value`
	}
	return &SQL{
		db:     db,
		load:   db.Rebind(`SELECT pref_value FROM user_preference WHERE owner = ? AND pref_key = ?`),
		upsert: db.Rebind(upsert),
	}
}

func (s *SQL) Load(ctx context.Context, owner, key string) (string, bool, error) {
	var v string
	err := s.db.GetContext(ctx, &v, s.load, owner, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load preference %s: %w", key, err)
	}
	return v, true, nil
}

func (s *SQL) Save(ctx context.Context, owner, key, value string) error {
	if _, err := s.db.ExecContext(ctx, s.upsert, owner, key, value); err != nil {
		return fmt.Errorf("save preference %s: %w", key, err)
	}
	return nil
}
