// sqlsource.go introspects a live MySQL information_schema into a
// catalog.Snapshot, for callers who want their KQL catalog derived from
// a real database's table/column layout instead of a static file.
// Grounded directly on internal/introspect/mysql/{tables,columns}.go:
// the same information_schema queries, adapted to build symbol.Table /
// symbol.Column values (mapped through a MySQL-type-name table) instead
// of core.Table / core.Column.
package catalog

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"kqlbind/internal/builtin"
	"kqlbind/internal/symbol"
)

// mysqlScalarMapping maps MySQL base type keywords to this binder's
// scalar types. Columns of an unrecognized MySQL type fall back to
// dynamic rather than failing the whole introspection.
var mysqlScalarMapping = map[string]*symbol.ScalarType{
	"tinyint": builtin.Int, "smallint": builtin.Int, "mediumint": builtin.Int,
	"int": builtin.Int, "integer": builtin.Int, "bigint": builtin.Long,
	"float": builtin.Real, "double": builtin.Real,
	"decimal": builtin.Decimal, "numeric": builtin.Decimal,
	"bool": builtin.Bool, "boolean": builtin.Bool,
	"date": builtin.DateTime, "datetime": builtin.DateTime, "timestamp": builtin.DateTime,
	"time": builtin.Timespan,
	"char": builtin.String, "varchar": builtin.String, "text": builtin.String,
	"tinytext": builtin.String, "mediumtext": builtin.String, "longtext": builtin.String,
	"json": builtin.Dynamic,
}

// SQLSource introspects one MySQL database (the connection's current
// schema) into a single-database Snapshot.
type SQLSource struct {
	db *sql.DB
}

// NewSQLSource wraps an already-open *sql.DB. The caller owns its
// lifecycle (this mirrors the teacher's `apply` package, which never
// closes a connection handed to it by its CLI caller).
func NewSQLSource(db *sql.DB) *SQLSource {
	return &SQLSource{db: db}
}

// Introspect builds a Snapshot named clusterName/databaseName from the
// connection's current schema.
func (s *SQLSource) Introspect(ctx context.Context, clusterName, databaseName string) (*Snapshot, error) {
	tables, err := s.introspectTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: introspect tables: %w", err)
	}
	db := symbol.NewDatabase(databaseName, tables, nil, nil, false)
	return SingleDatabase(clusterName, db, false), nil
}

func (s *SQLSource) introspectTables(ctx context.Context) ([]*symbol.Table, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []*symbol.Table
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		columns, err := s.introspectColumns(ctx, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, symbol.NewTable(name, columns, false))
	}
	return tables, rows.Err()
}

func (s *SQLSource) introspectColumns(ctx context.Context, tableName string) ([]*symbol.Column, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = DATABASE() AND table_name = ?
		ORDER BY ordinal_position
	`, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []*symbol.Column
	for rows.Next() {
		var name, dataType string
		if err := rows.Scan(&name, &dataType); err != nil {
			return nil, err
		}
		t, ok := mysqlScalarMapping[dataType]
		if !ok {
			t = builtin.Dynamic
		}
		columns = append(columns, symbol.NewColumn(name, t))
	}
	return columns, rows.Err()
}
