package meta

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/yanizio/flota/internal/gateway"
	"github.com/yanizio/flota/internal/tenant"
)

func TestDefaultStatic(t *testing.T) {
	s := DefaultStatic(zaptest.NewLogger(t).Sugar())
	ts, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, ts, 5)
	assert.Equal(t, "Transportes del Sur", ts[0].Nombre)
	assert.False(t, ts[3].Activo)

	// Callers get a copy.
	ts[0].Nombre = "changed"
	again, _ := s.List(context.Background())
	assert.Equal(t, "Transportes del Sur", again[0].Nombre)
}

func TestNewStaticRejectsGarbage(t *testing.T) {
	_, err := NewStatic([]byte("{not: [a list"), nil)
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	in := []tenant.Tenant{
		{ID: 1, Nombre: "Uno", Activo: true, ColorPrimario: "#fff"},
		{ID: 2, Nombre: "", Activo: true},
		{ID: 3, Nombre: "Tres", ColorPrimario: "red; background:url(x)"},
		{ID: 1, Nombre: "Uno bis", Activo: true},
		{ID: 0, Nombre: "Cero"},
		{ID: 4, Nombre: "Cuatro", ColorSecundario: "rgb(0,0,0)"},
	}
	out := Check(in, zaptest.NewLogger(t).Sugar())
	ids := make([]int, 0, len(out))
	for _, t := range out {
		ids = append(ids, t.ID)
	}
	assert.Equal(t, []int{1, 4}, ids)
}

func TestSQLList(t *testing.T) {
	for _, driver := range []string{"mysql", "pgx"} {
		t.Run(driver, func(t *testing.T) {
			mockDB, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer mockDB.Close()

			rows := sqlmock.NewRows([]string{"id", "nombre", "activo", "color_primario", "color_secundario"}).
				AddRow(1, "Transportes del Sur", true, "#1e40af", nil).
				AddRow(2, "Fletes Norte", false, nil, nil)
			mock.ExpectQuery(regexp.QuoteMeta("FROM   empresa")).WillReturnRows(rows)

			src := NewSQL(sqlx.NewDb(mockDB, driver), zaptest.NewLogger(t).Sugar())
			ts, err := src.List(context.Background())
			require.NoError(t, err)
			require.Len(t, ts, 2)
			assert.Equal(t, "#1e40af", ts[0].ColorPrimario)
			assert.Empty(t, ts[0].ColorSecundario)
			assert.False(t, ts[1].Activo)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLListError(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("gone"))

	_, err = NewSQL(sqlx.NewDb(mockDB, "mysql"), nil).List(context.Background())
	assert.ErrorContains(t, err, "select empresa")
}

func TestRemoteList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/empresas" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"no existe"}`)
			return
		}
		_, _ = io.WriteString(w, `[{"id":7,"nombre":"Siete","activo":true,"colorPrimario":"#123456"}]`)
	}))
	defer srv.Close()

	client := gateway.NewRESTClient(srv.URL+"/api", time.Second, nil)
	ts, err := NewRemote(client, "", zaptest.NewLogger(t).Sugar()).List(context.Background())
	require.NoError(t, err)
	require.Len(t, ts, 1)
	assert.Equal(t, tenant.Tenant{ID: 7, Nombre: "Siete", Activo: true, ColorPrimario: "#123456"}, ts[0])

	_, err = NewRemote(client, "/otra", nil).List(context.Background())
	var herr *gateway.HTTPError
	assert.ErrorAs(t, err, &herr)
}

func TestCachedCollapsesCalls(t *testing.T) {
	var calls atomic.Int32
	fail := atomic.Bool{}
	upstream := tenant.SourceFunc(func(ctx context.Context) ([]tenant.Tenant, error) {
		calls.Add(1)
		if fail.Load() {
			return nil, errors.New("down")
		}
		return []tenant.Tenant{{ID: 1, Nombre: "Uno", Activo: true}}, nil
	})

	c, err := NewCached(upstream, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	for i := 0; i < 3; i++ {
		ts, err := c.List(context.Background())
		require.NoError(t, err)
		require.Len(t, ts, 1)
	}
	assert.EqualValues(t, 1, calls.Load())

	c.Invalidate()
	fail.Store(true)
	_, err = c.List(context.Background())
	assert.Error(t, err)
	_, err = c.List(context.Background())
	assert.Error(t, err, "errors are not cached")
	assert.EqualValues(t, 3, calls.Load())
}
