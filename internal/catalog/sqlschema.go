// sqlschema.go lets a declarative catalog file describe a table's
// columns as a `CREATE TABLE`-shaped SQL fragment instead of a
// [[tables.columns]] list, for catalog authors copying a schema
// straight out of a database dump. Grounded on the teacher's
// internal/parser/mysql package (Parser.Parse / parseColumns): the same
// TiDB parser invocation and column-option walk, mapping MySQL column
// types onto builtin scalars instead of core.Column's raw-type strings.
package catalog

import (
	"fmt"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"

	"kqlbind/internal/builtin"
	"kqlbind/internal/symbol"
)

// ParseCreateTableColumns parses a single `CREATE TABLE (...)` fragment
// and returns its columns as symbol.Columns, mapped through the same
// MySQL type-name table internal/catalog's SQLSource uses. The table
// name in the fragment is ignored; callers supply the catalog table's
// name separately (the fragment exists to describe columns, not to
// duplicate the document's own table-naming).
func ParseCreateTableColumns(sql string) ([]*symbol.Column, error) {
	p := parser.New()
	stmtNodes, _, err := p.Parse(sql, "", "")
	if err != nil {
		return nil, fmt.Errorf("catalog: parse schema_sql: %w", err)
	}

	for _, stmt := range stmtNodes {
		create, ok := stmt.(*ast.CreateTableStmt)
		if !ok {
			continue
		}
		return columnsFromCreateTable(create)
	}
	return nil, fmt.Errorf("catalog: schema_sql contains no CREATE TABLE statement")
}

func columnsFromCreateTable(stmt *ast.CreateTableStmt) ([]*symbol.Column, error) {
	columns := make([]*symbol.Column, 0, len(stmt.Cols))
	for _, def := range stmt.Cols {
		columns = append(columns, symbol.NewColumn(def.Name.Name.O, mapByTypeName(def.Tp.String())))
	}
	return columns, nil
}

// mapByTypeName maps the textual type name TiDB renders (e.g.
// "varchar(255)") through mysqlScalarMapping after trimming any
// length/precision suffix; a name not in the mapping becomes dynamic.
func mapByTypeName(rendered string) symbol.Type {
	name := rendered
	for i, r := range rendered {
		if r == '(' {
			name = rendered[:i]
			break
		}
	}
	if t, ok := mysqlScalarMapping[name]; ok {
		return t
	}
	return builtin.Dynamic
}
