// Package database centralises sqlx connection helpers.  Two drivers are
// supported: go-sql-driver/mysql (also MariaDB) and jackc/pgx through its
// database/sql adapter.  Queries elsewhere are written with `?` and passed
// through db.Rebind, so switching drivers is a configuration change.
//
// Public entry points:
//
//	Open(ctx, driver, dsn)                 – quick helper with conservative pool sizes.
//	OpenWithOptions(ctx, driver, dsn, opt) – fine-grained control.
//
// Both helpers Ping the database before returning so callers can fail fast
// during bootstrap.  Callers should Close() the returned *sqlx.DB when no
// longer needed.
package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// Options tunes one pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	PingTimeout     time.Duration
}

// DefaultOptions is used by Open: 15 max open, 5 idle, and a 30-minute
// connection lifetime.
var DefaultOptions = Options{
	MaxOpenConns:    15,
	MaxIdleConns:    5,
	ConnMaxLifetime: 30 * time.Minute,
	PingTimeout:     5 * time.Second,
}

// Open returns a *sqlx.DB with DefaultOptions.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	return OpenWithOptions(ctx, driver, dsn, DefaultOptions)
}

// OpenWithOptions opens driver ("mysql" or "pgx") with opt and pings it.
func OpenWithOptions(ctx context.Context, driver, dsn string, opt Options) (*sqlx.DB, error) {
	switch driver {
	case "mysql", "pgx":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(opt.MaxOpenConns)
	db.SetMaxIdleConns(opt.MaxIdleConns)
	db.SetConnMaxLifetime(opt.ConnMaxLifetime)

	if opt.PingTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opt.PingTimeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}
