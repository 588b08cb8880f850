package binder

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"kqlbind/internal/ast"
	"kqlbind/internal/builtin"
	"kqlbind/internal/catalog"
	"kqlbind/internal/diag"
	"kqlbind/internal/expand"
	"kqlbind/internal/pool"
	"kqlbind/internal/scope"
	"kqlbind/internal/symbol"
)

// Binder is one long-lived binding session against a fixed catalog
// snapshot (spec §5: "a single mutex acquired at the top of
// Bind/GetComputedReturnType/..."). Bind, GetComputedReturnType,
// GetRowScope and GetSymbolsInScope take mu for their whole call
// (BindPipeline runs under the caller's lock; RegisterComputedBody
// relies on the Cache's own lock), which also protects the OpenRegistry's
// in-place map growth (spec §4.3) and the recursive descent into
// internal/expand for computed return types.
type Binder struct {
	mu       sync.Mutex
	snapshot catalog.Catalog
	registry *catalog.OpenRegistry
	cache    *expand.Cache
	expander *expand.Expander

	scopes map[ast.Node]*scope.Context
	info   *sideTable
}

// New builds a Binder over snapshot. cache is the process-wide inline-
// expansion cache (internal/expand.NewCache()); passing the same Cache
// to several Binders sharing a catalog lets an expansion computed once
// serve every one of them (spec §4.8, §5).
func New(snapshot catalog.Catalog, cache *expand.Cache) *Binder {
	b := &Binder{
		snapshot: snapshot,
		registry: catalog.NewOpenRegistry(),
		cache:    cache,
	}
	b.expander = expand.NewExpander(cache, b)
	return b
}

// Result is the outcome of a top-level Bind call.
type Result struct {
	RowScope *symbol.Table
	Diags    diag.Bag
	Info     InfoSetter
}

// Bind binds pipeline against the Binder's catalog and returns its
// final row scope plus every diagnostic raised along the way. Every
// call is tagged with a fresh correlation ID (grounded on the
// xaas-cloud-genai-toolbox request-tagging pattern) so its slog
// records, and any it triggers recursively in internal/expand, can be
// traced back to this one invocation.
func (b *Binder) Bind(pipeline *ast.Pipeline) (Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	bindID := uuid.NewString()
	log := slog.With("bind_id", bindID)
	log.Debug("binder: bind started")

	b.scopes = map[ast.Node]*scope.Context{}
	info := newSideTable()
	b.info = info

	ctx := scope.Root(b.snapshot.DefaultCluster(), b.snapshot.DefaultDatabase(), b.registry)
	var diags diag.Bag
	row, err := b.bindPipeline(ctx, pipeline, &diags)
	log.Debug("binder: bind finished", "diagnostics", len(diags.Items()), "error", err)
	return Result{RowScope: row, Diags: diags, Info: info}, err
}

// BindPipeline implements expand.Binder: it runs pipeline under a fresh
// root scope seeded with locals, reusing this Binder's registry and
// cache (spec §4.8: an expanded body binds "under a scope seeded with
// the call's argument bindings as locals"). Called while b.mu is
// already held by the Bind/GetComputedReturnType call that triggered the
// expansion, so it must not re-lock.
func (b *Binder) BindPipeline(pipeline *ast.Pipeline, locals map[string]symbol.Symbol) (*symbol.Table, error) {
	ctx := scope.Root(b.snapshot.DefaultCluster(), b.snapshot.DefaultDatabase(), b.registry)
	for name, sym := range locals {
		ctx.DeclareLocal(name, sym)
	}
	var diags diag.Bag
	row, err := b.bindPipeline(ctx, pipeline, &diags)
	if err != nil {
		return nil, err
	}
	if !diags.Empty() {
		return row, fmt.Errorf("expand: body has %d diagnostic(s): %s", len(diags.Items()), diags.Items()[0].Error())
	}
	return row, nil
}

// RegisterComputedBody attaches a parsed body to a Computed signature,
// delegating to this Binder's expansion Cache. A real front end would
// call this once per database-defined function while building its
// Database symbol; cmd/kqlbind's `rettype` subcommand calls it directly
// since there is no front end to call it for it.
func (b *Binder) RegisterComputedBody(sig *symbol.Signature, body *ast.Pipeline) {
	b.cache.RegisterBody(sig, body)
}

// GetComputedReturnType resolves sig's return type for a call whose
// arguments have already been matched, using this Binder's Expander as
// the BodyBinder for ReturnComputed signatures. constants carries the
// compile-time value of every constant argument (nil entries where an
// argument isn't constant), so calls differing only in literal argument
// value expand independently (spec invariant 5).
func (b *Binder) GetComputedReturnType(sig *symbol.Signature, argTypes []symbol.Type, constants []any) (symbol.Type, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.expander.BindBody(sig, argTypes, constants)
}

// GetRowScope returns the row scope in effect immediately after node,
// if node was bound by the most recent Bind call.
func (b *Binder) GetRowScope(node ast.Node) (*symbol.Table, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ctx, ok := b.scopes[node]
	if !ok {
		return nil, false
	}
	return ctx.RowScope(), true
}

// GetSymbolsInScope returns the symbols recorded for node: the row
// scope's columns, the current database's tables, functions and
// patterns, the current cluster's databases, and every built-in scalar
// function. Locals, right-row columns and built-in operators are not
// included, and no kind filter is applied.
func (b *Binder) GetSymbolsInScope(node ast.Node) ([]symbol.Symbol, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ctx, ok := b.scopes[node]
	if !ok {
		return nil, false
	}
	scratch := pool.GetSymbolSlice()
	defer pool.PutSymbolSlice(scratch)

	if ctx.RowScope() != nil {
		for _, c := range ctx.RowScope().Columns() {
			scratch = append(scratch, c)
		}
	}
	if ctx.Database() != nil {
		ctx.Database().Members("", symbol.MatchAny, &scratch)
	}
	if ctx.Cluster() != nil {
		ctx.Cluster().Members("", symbol.MatchAny, &scratch)
	}
	for _, f := range builtin.AllFunctions() {
		scratch = append(scratch, f)
	}

	out := make([]symbol.Symbol, len(scratch))
	copy(out, scratch)
	return out, true
}

func (b *Binder) rememberScope(node ast.Node, ctx *scope.Context) {
	if b.scopes == nil {
		b.scopes = map[ast.Node]*scope.Context{}
	}
	b.scopes[node] = ctx
}
