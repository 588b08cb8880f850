package catalog

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeDriver implements database/sql/driver with canned rows for the two
// information_schema queries sqlsource.go issues, so the introspection
// path can be exercised without a real MySQL server.
type fakeDriver struct{}

type fakeConn struct{}

func (fakeDriver) Open(name string) (driver.Conn, error) { return fakeConn{}, nil }

func (fakeConn) Prepare(query string) (driver.Stmt, error) { return fakeStmt{query: query}, nil }
func (fakeConn) Close() error                              { return nil }
func (fakeConn) Begin() (driver.Tx, error)                 { return nil, fmt.Errorf("not supported") }

type fakeStmt struct{ query string }

func (s fakeStmt) Close() error  { return nil }
func (s fakeStmt) NumInput() int { return -1 }
func (s fakeStmt) Exec(args []driver.Value) (driver.Result, error) {
	return nil, fmt.Errorf("not supported")
}

func (s fakeStmt) Query(args []driver.Value) (driver.Rows, error) {
	switch {
	case contains(s.query, "information_schema.tables"):
		return &fakeRows{cols: []string{"table_name"}, data: [][]driver.Value{{"events"}}}, nil
	case contains(s.query, "information_schema.columns"):
		return &fakeRows{
			cols: []string{"column_name", "data_type"},
			data: [][]driver.Value{
				{"id", "bigint"},
				{"name", "varchar"},
				{"payload", "json"},
			},
		}, nil
	default:
		return nil, fmt.Errorf("unexpected query: %s", s.query)
	}
}

type fakeRows struct {
	cols []string
	data [][]driver.Value
	pos  int
}

func (r *fakeRows) Columns() []string { return r.cols }
func (r *fakeRows) Close() error      { return nil }
func (r *fakeRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.data) {
		return io.EOF
	}
	copy(dest, r.data[r.pos])
	r.pos++
	return nil
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

func init() {
	sql.Register("sqlsource-fake", fakeDriver{})
}

func TestSQLSourceIntrospectBuildsTablesAndColumns(t *testing.T) {
	db, err := sql.Open("sqlsource-fake", "")
	require.NoError(t, err)
	defer db.Close()

	src := NewSQLSource(db)
	snap, err := src.Introspect(context.Background(), "prodcluster", "proddb")
	require.NoError(t, err)

	table, ok := snap.DefaultDatabase().Table("events")
	require.True(t, ok)

	id, ok := table.Column("id")
	require.True(t, ok)
	require.Equal(t, "long", id.Type().Name())

	payload, ok := table.Column("payload")
	require.True(t, ok)
	require.Equal(t, "dynamic", payload.Type().Name())
}
