package prefs

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func TestMemoryBindFollowsOwner(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	owner := "ana"
	s := Bind(mem, func() string { return owner })

	if _, ok, _ := s.Get(ctx, CurrentTenantKey); ok {
		t.Fatal("empty store returned a value")
	}
	if err := s.Set(ctx, CurrentTenantKey, "3"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	owner = "beto"
	if _, ok, _ := s.Get(ctx, CurrentTenantKey); ok {
		t.Fatal("value leaked across owners")
	}

	owner = "ana"
	if v, ok, _ := s.Get(ctx, CurrentTenantKey); !ok || v != "3" {
		t.Fatalf("Get = %q,%v", v, ok)
	}
}

func newMock(t *testing.T, driver string) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, driver), mock
}

func TestSQLLoad(t *testing.T) {
	db, mock := newMock(t, "mysql")
	s := NewSQL(db)
	q := regexp.QuoteMeta(`SELECT pref_value FROM user_preference WHERE owner = ? AND pref_key = ?`)

	mock.ExpectQuery(q).WithArgs("ana", CurrentTenantKey).
		WillReturnRows(sqlmock.NewRows([]string{"pref_value"}).AddRow("7"))
	v, ok, err := s.Load(context.Background(), "ana", CurrentTenantKey)
	if err != nil || !ok || v != "7" {
		t.Fatalf("Load = %q,%v,%v", v, ok, err)
	}

	mock.ExpectQuery(q).WithArgs("beto", CurrentTenantKey).
		WillReturnRows(sqlmock.NewRows([]string{"pref_value"}))
	if _, ok, err := s.Load(context.Background(), "beto", CurrentTenantKey); err != nil || ok {
		t.Fatalf("missing row: ok=%v err=%v", ok, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSQLSaveDialects(t *testing.T) {
	cases := map[string]string{
		"mysql": `ON DUPLICATE KEY UPDATE`,
		"pgx":   `VALUES ($1, $2, $3)`,
	}
	for driver, fragment := range cases {
		db, mock := newMock(t, driver)
		s := NewSQL(db)
		mock.ExpectExec(regexp.QuoteMeta(fragment)).
			WithArgs("ana", CurrentTenantKey, "2").
			WillReturnResult(sqlmock.NewResult(0, 1))
		if err := s.Save(context.Background(), "ana", CurrentTenantKey, "2"); err != nil {
			t.Fatalf("%s Save: %v", driver, err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("%s: %v", driver, err)
		}
	}
}

func TestSQLSaveError(t *testing.T) {
	db, mock := newMock(t, "mysql")
	mock.ExpectExec("INSERT INTO user_preference").WillReturnError(errors.New("read-only"))
	if err := NewSQL(db).Save(context.Background(), "ana", "k", "v"); err == nil {
		t.Fatal("expected error")
	}
}
