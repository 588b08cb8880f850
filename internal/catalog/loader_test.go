package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"kqlbind/internal/builtin"
)

func writeTemp(t *testing.T, name, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

const sampleTOML = `
[cluster]
name = "help"
open = false

[[databases]]
name = "Samples"
default = true

[[databases.tables]]
name = "StormEvents"

[[databases.tables.columns]]
name = "StartTime"
type = "datetime"

[[databases.tables.columns]]
name = "State"
type = "string"

[[databases.functions]]
name = "GetEvents"
return_type = "string"
`

func TestLoaderLoadFileTOMLBuildsClusterAndDefaultDatabase(t *testing.T) {
	path := writeTemp(t, "catalog.toml", sampleTOML)
	l := NewLoader()

	cluster, db, err := l.LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, "help", cluster.Name())
	require.NotNil(t, db)
	require.Equal(t, "Samples", db.Name())

	table, ok := db.Table("StormEvents")
	require.True(t, ok)
	col, ok := table.Column("State")
	require.True(t, ok)
	require.Equal(t, builtin.String, col.Type())

	fn, ok := db.Function("GetEvents")
	require.True(t, ok)
	require.Len(t, fn.Signatures(), 1)
}

const sampleYAML = `
cluster:
  name: help
databases:
  - name: Samples
    default: true
    tables:
      - name: StormEvents
        columns:
          - name: State
            type: string
`

func TestLoaderLoadFileYAMLSniffsByExtension(t *testing.T) {
	path := writeTemp(t, "catalog.yaml", sampleYAML)
	l := NewLoader()

	cluster, db, err := l.LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, "help", cluster.Name())
	require.Equal(t, "Samples", db.Name())
}

func TestLoaderSnapshotSingleFileSetsDefaults(t *testing.T) {
	path := writeTemp(t, "catalog.toml", sampleTOML)
	l := NewLoader()

	snap, err := l.Snapshot(path)
	require.NoError(t, err)
	require.NotNil(t, snap.DefaultCluster())
	require.Equal(t, "Samples", snap.DefaultDatabase().Name())
}

func TestLoaderLoadGlobMergesFilesAndPreservesDefault(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.toml"), []byte(`
[cluster]
name = "help"

[[databases]]
name = "Samples"
default = true

[[databases.tables]]
name = "StormEvents"
`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.toml"), []byte(`
[cluster]
name = "help"

[[databases]]
name = "Archive"
`), 0o600))

	l := NewLoader()
	cluster, db, err := l.LoadGlob(filepath.Join(dir, "*.toml"))
	require.NoError(t, err)
	require.Len(t, cluster.Databases(), 2)
	require.Equal(t, "Samples", db.Name())
}

func TestLoaderLoadFileRejectsMissingClusterName(t *testing.T) {
	path := writeTemp(t, "catalog.toml", "[[databases]]\nname = \"Samples\"\n")
	l := NewLoader()
	_, _, err := l.LoadFile(path)
	require.Error(t, err)
}
