package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"kqlbind/internal/builtin"
)

func TestParseCreateTableColumnsMapsMySQLTypes(t *testing.T) {
	columns, err := ParseCreateTableColumns(`CREATE TABLE events (
		id BIGINT,
		name VARCHAR(255),
		payload JSON
	)`)
	require.NoError(t, err)
	require.Len(t, columns, 3)

	require.Equal(t, "id", columns[0].Name())
	require.Equal(t, builtin.Long, columns[0].Type())

	require.Equal(t, "name", columns[1].Name())
	require.Equal(t, builtin.String, columns[1].Type())

	require.Equal(t, "payload", columns[2].Name())
	require.Equal(t, builtin.Dynamic, columns[2].Type())
}

func TestParseCreateTableColumnsRejectsNonCreateTable(t *testing.T) {
	_, err := ParseCreateTableColumns(`SELECT 1`)
	require.Error(t, err)
}
