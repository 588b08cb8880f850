package catalog

import "kqlbind/internal/symbol"

// OpenRegistry lazily allocates open clusters, open databases, open
// tables, and inferred columns, memoizing every allocation for the
// lifetime of one binder instance (spec §4.3, §3.3: "live for one binder
// instance; not cached globally").
//
// Growth is expressed functionally: InferColumn returns a *new* Table
// value with the column appended rather than mutating the table in
// place (symbol values never mutate — invariant 1). The registry itself
// remembers the latest Table value for each (database, table-name) key
// so that a second reference to the same open table within the same
// binding session observes every column inferred so far, which is what
// gives invariant 2 ("inferred columns extend it monotonically within a
// binding session") its teeth: callers must fetch the current value
// through Table()/InferColumn(), never cache a Table pointer across an
// expression boundary where more inference could happen.
type OpenRegistry struct {
	clusters  map[string]*symbol.Cluster
	databases map[dbKey]*symbol.Database
	tables    map[tableKey]*symbol.Table
}

type dbKey struct{ cluster, database string }
type tableKey struct{ cluster, database, table string }

func NewOpenRegistry() *OpenRegistry {
	return &OpenRegistry{
		clusters:  map[string]*symbol.Cluster{},
		databases: map[dbKey]*symbol.Database{},
		tables:    map[tableKey]*symbol.Table{},
	}
}

// OpenCluster allocates (or returns the memoized) open cluster named
// name.
func (r *OpenRegistry) OpenCluster(name string) *symbol.Cluster {
	if c, ok := r.clusters[foldKey(name)]; ok {
		return c
	}
	c := symbol.NewCluster(name, nil, true)
	r.clusters[foldKey(name)] = c
	return c
}

// OpenDatabase allocates (or returns the memoized) open database named
// name under cluster.
func (r *OpenRegistry) OpenDatabase(cluster *symbol.Cluster, name string) *symbol.Database {
	key := dbKey{foldKey(cluster.Name()), foldKey(name)}
	if d, ok := r.databases[key]; ok {
		return d
	}
	d := symbol.NewDatabase(name, nil, nil, nil, true)
	r.databases[key] = d
	return d
}

// OpenTable allocates (or returns the current value of) the open table
// named name under (cluster, database).
func (r *OpenRegistry) OpenTable(clusterName, databaseName, name string) *symbol.Table {
	key := tableKey{foldKey(clusterName), foldKey(databaseName), foldKey(name)}
	if t, ok := r.tables[key]; ok {
		return t
	}
	t := symbol.NewTable(name, nil, true)
	r.tables[key] = t
	return t
}

// InferColumn synthesizes a dynamic-typed column named name on the open
// table identified by (clusterName, databaseName, tableName), returning
// the grown table and the new column. The registry's memoized value for
// that table is updated so subsequent OpenTable/InferColumn calls for
// the same key see the growth.
func (r *OpenRegistry) InferColumn(clusterName, databaseName, tableName, columnName string, dynamic symbol.Type) (*symbol.Table, *symbol.Column) {
	key := tableKey{foldKey(clusterName), foldKey(databaseName), foldKey(tableName)}
	cur, ok := r.tables[key]
	if !ok {
		cur = symbol.NewTable(tableName, nil, true)
	}
	if existing, ok := cur.Column(columnName); ok {
		return cur, existing
	}
	col := symbol.NewColumn(columnName, dynamic)
	grown := cur.WithColumn(col)
	r.tables[key] = grown
	return grown, col
}

// GrowTable replaces the registry's memoized value for an already-open
// table, used when a row-scope table is grown by something other than
// InferColumn (e.g. mv-expand materializing a declared column on an open
// upstream table). t.Name() identifies the table under (cluster, database).
func (r *OpenRegistry) GrowTable(clusterName, databaseName string, t *symbol.Table) {
	key := tableKey{foldKey(clusterName), foldKey(databaseName), foldKey(t.Name())}
	r.tables[key] = t
}

func foldKey(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
