// Package catalog implements the binder's view of the global catalog
// (spec §1: "treated as a queryable snapshot") and the open-entity
// synthesizer (spec §4.3) that makes the binder total over open schemas.
package catalog

import "kqlbind/internal/symbol"

// Catalog is the read-only snapshot the binder consumes. It is safe to
// share across concurrent bindings (spec §5): nothing in this interface
// is ever mutated after the snapshot is built.
type Catalog interface {
	Clusters() []*symbol.Cluster
	Cluster(name string) (*symbol.Cluster, bool)
	// DefaultCluster/DefaultDatabase are the cluster ("current cluster")
	// and database ("current database") a binding starts in absent an
	// explicit `cluster(...)`/`database(...)` path expression.
	DefaultCluster() *symbol.Cluster
	DefaultDatabase() *symbol.Database
}

// Snapshot is the default, immutable in-memory Catalog implementation.
type Snapshot struct {
	clusters        []*symbol.Cluster
	defaultCluster  *symbol.Cluster
	defaultDatabase *symbol.Database
}

// NewSnapshot builds a Catalog from a fixed cluster list. defaultCluster
// and defaultDatabase select what an unqualified binding sees; both must
// be reachable from clusters (or nil, for a binder with no ambient
// database at all — every reference must then be fully qualified).
func NewSnapshot(clusters []*symbol.Cluster, defaultCluster *symbol.Cluster, defaultDatabase *symbol.Database) *Snapshot {
	return &Snapshot{
		clusters:        append([]*symbol.Cluster(nil), clusters...),
		defaultCluster:  defaultCluster,
		defaultDatabase: defaultDatabase,
	}
}

func (s *Snapshot) Clusters() []*symbol.Cluster { return s.clusters }

func (s *Snapshot) Cluster(name string) (*symbol.Cluster, bool) {
	for _, c := range s.clusters {
		if symbol.EqualName(c.Name(), name) {
			return c, true
		}
	}
	return nil, false
}

func (s *Snapshot) DefaultCluster() *symbol.Cluster   { return s.defaultCluster }
func (s *Snapshot) DefaultDatabase() *symbol.Database { return s.defaultDatabase }

// SingleDatabase is a convenience constructor for the overwhelmingly
// common test/CLI shape: one cluster, one database.
func SingleDatabase(clusterName string, db *symbol.Database, isOpenCluster bool) *Snapshot {
	cluster := symbol.NewCluster(clusterName, []*symbol.Database{db}, isOpenCluster)
	return NewSnapshot([]*symbol.Cluster{cluster}, cluster, db)
}
