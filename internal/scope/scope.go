// Package scope implements the binder's name-resolution scope stack
// (spec §4.1): row scope, right-row scope (join/lookup's right side),
// path scope (cluster/database navigation), local scope (let bindings
// and function parameters), database scope, and cluster scope, searched
// in that order.
//
// Context is deliberately a mutable, thread-confined value rather than
// the immutable-by-convention types in internal/symbol: spec invariant 2
// requires that inferring a column on an open row table be visible to
// every later reference within the same binding, which means something
// has to hold the "current" row table and let it be replaced as
// inference grows it. Context.RowScope is that something; it is never
// shared across concurrently-running bindings (spec §5 confines one
// Context to one binder instance).
package scope

import (
	"kqlbind/internal/builtin"
	"kqlbind/internal/catalog"
	"kqlbind/internal/symbol"
)

// Layer identifies one level of the scope stack, in resolution order.
type Layer int

const (
	LayerLocal Layer = iota
	LayerRightRow
	LayerRow
	LayerPath
	LayerDatabase
	LayerCluster
)

func (l Layer) String() string {
	switch l {
	case LayerLocal:
		return "local"
	case LayerRightRow:
		return "rightRow"
	case LayerRow:
		return "row"
	case LayerPath:
		return "path"
	case LayerDatabase:
		return "database"
	case LayerCluster:
		return "cluster"
	default:
		return "unknown"
	}
}

// Resolved pairs a found symbol with the layer it was found in, so
// callers (completion, diagnostics) can explain where a name came from.
type Resolved struct {
	Symbol symbol.Symbol
	Layer  Layer
}

type localBinding struct {
	name string
	sym  symbol.Symbol
}

// Context is one node of the scope stack. A fresh Context is created at
// the start of a binding and for every nested scope a query pipeline
// introduces: a subquery, a summarize-by group, an inline function
// expansion's body (spec §4.8 runs the expanded body in a child Context
// seeded with the call's argument bindings as locals).
type Context struct {
	parent *Context

	cluster  *symbol.Cluster
	database *symbol.Database

	rowScope      *symbol.Table
	rightRowScope *symbol.Table

	locals []localBinding

	registry *catalog.OpenRegistry

	clusterName, databaseName, tableName string
}

// Root creates the outermost Context for a binding, seeded with the
// catalog's default cluster/database and an open-entity registry shared
// by every descendant Context in this binding.
func Root(cluster *symbol.Cluster, database *symbol.Database, registry *catalog.OpenRegistry) *Context {
	c := &Context{cluster: cluster, database: database, registry: registry}
	if cluster != nil {
		c.clusterName = cluster.Name()
	}
	if database != nil {
		c.databaseName = database.Name()
	}
	return c
}

// Child opens a nested scope that inherits the parent's row/rightRow
// scope and database/cluster, but starts with an empty local-binding
// list. Locals declared in the child shadow the parent's; the parent is
// left untouched.
func (c *Context) Child() *Context {
	return &Context{
		parent:        c,
		cluster:       c.cluster,
		database:      c.database,
		rowScope:      c.rowScope,
		rightRowScope: c.rightRowScope,
		registry:      c.registry,
		clusterName:   c.clusterName,
		databaseName:  c.databaseName,
		tableName:     c.tableName,
	}
}

// WithRowScope returns a child context whose row scope is t, for
// entering a new pipe stage that operates over a different table shape
// (e.g. after project or summarize rebuild the row schema).
func (c *Context) WithRowScope(t *symbol.Table) *Context {
	child := c.Child()
	child.rowScope = t
	child.tableName = t.Name()
	return child
}

// WithRightRowScope returns a child context with a right-hand row scope
// set, used while binding a join/lookup condition that can reference
// both $left and $right.
func (c *Context) WithRightRowScope(t *symbol.Table) *Context {
	child := c.Child()
	child.rightRowScope = t
	return child
}

// SetRowScope replaces this Context's row scope in place. This is the
// mutation path open-column inference uses (LookupColumn below): the
// table grows, and every holder of this same *Context must observe the
// grown value without having to re-enter the pipeline.
func (c *Context) SetRowScope(t *symbol.Table) {
	c.rowScope = t
	c.tableName = t.Name()
}

// OpenTable synthesizes (or returns the memoized) open table named name
// under this Context's current cluster/database, for a pipeline source
// that names a table the declared catalog doesn't know about (spec
// §4.3: only legal when the enclosing database is open — callers check
// Database().IsOpen() before calling in).
func (c *Context) OpenTable(name string) *symbol.Table {
	return c.registry.OpenTable(c.clusterName, c.databaseName, name)
}

// OpenDatabaseIn synthesizes (or returns the memoized) open database
// named name under an explicitly navigated cluster, for path
// expressions like cluster("x").database("y") where "y" isn't declared.
func (c *Context) OpenDatabaseIn(cluster *symbol.Cluster, name string) *symbol.Database {
	return c.registry.OpenDatabase(cluster, name)
}

// OpenTableIn synthesizes (or returns the memoized) open table under an
// explicitly navigated cluster/database pair, mirroring OpenTable for
// path navigation away from this Context's own current database.
func (c *Context) OpenTableIn(clusterName, databaseName, name string) *symbol.Table {
	return c.registry.OpenTable(clusterName, databaseName, name)
}

func (c *Context) RowScope() *symbol.Table      { return c.rowScope }
func (c *Context) RightRowScope() *symbol.Table { return c.rightRowScope }
func (c *Context) Cluster() *symbol.Cluster     { return c.cluster }
func (c *Context) Database() *symbol.Database   { return c.database }

// DeclareLocal binds name to sym in this Context's local layer,
// shadowing any outer binding or row column of the same name.
func (c *Context) DeclareLocal(name string, sym symbol.Symbol) {
	c.locals = append(c.locals, localBinding{name: name, sym: sym})
}

// Lookup resolves name through the scope stack in spec §4.1 order:
// local bindings (nearest Context first), right-row columns, row
// columns (synthesizing one if the row table is open), path entities,
// database tables/functions/patterns, then cluster databases. When a
// name matches more than one symbol at the database layer (a table and
// a function sharing a name, say), Resolved.Symbol is a *symbol.Group
// of every match rather than an arbitrary pick — callers report
// diag.AmbiguousName off of that (spec §4.1 Outcomes, §8 scenario 4).
func (c *Context) Lookup(name string) (Resolved, bool) {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		for i := len(ctx.locals) - 1; i >= 0; i-- {
			if symbol.EqualName(ctx.locals[i].name, name) {
				return Resolved{Symbol: ctx.locals[i].sym, Layer: LayerLocal}, true
			}
		}
	}

	if c.rightRowScope != nil {
		if col, ok := c.rightRowScope.Column(name); ok {
			return Resolved{Symbol: col, Layer: LayerRightRow}, true
		}
	}

	if c.rowScope != nil {
		if col, ok := c.LookupColumn(name); ok {
			return Resolved{Symbol: col, Layer: LayerRow}, true
		}
	}

	if c.database != nil {
		if hits := c.database.LookupAll(name); len(hits) > 0 {
			if len(hits) > 1 {
				return Resolved{Symbol: symbol.NewGroup(name, hits), Layer: LayerDatabase}, true
			}
			return Resolved{Symbol: hits[0], Layer: LayerDatabase}, true
		}
	}

	if c.cluster != nil {
		if d, ok := c.cluster.Database(name); ok {
			return Resolved{Symbol: d, Layer: LayerCluster}, true
		}
	}

	return Resolved{}, false
}

// LookupColumn resolves name against the current row scope, growing an
// open row table on demand via the open-entity registry and installing
// the grown table back into this Context (SetRowScope) so later lookups
// in the same Context see it without re-inferring.
func (c *Context) LookupColumn(name string) (*symbol.Column, bool) {
	if c.rowScope == nil {
		return nil, false
	}
	if col, ok := c.rowScope.Column(name); ok {
		return col, true
	}
	if !c.rowScope.IsOpen() {
		return nil, false
	}
	grown, col := c.registry.InferColumn(c.clusterName, c.databaseName, c.tableName, name, builtin.Dynamic)
	c.SetRowScope(grown)
	return col, true
}
