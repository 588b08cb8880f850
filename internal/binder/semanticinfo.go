// Package binder is the top-level driver (spec §6): it walks an
// internal/ast tree bottom-up, resolves names through internal/scope,
// picks overloads and return types through internal/signature, expands
// computed function bodies through internal/expand, and computes each
// pipe stage's row scope through internal/opbind. Binding results are
// attached out-of-band via a SemanticInfo side-table rather than by
// mutating the tree, matching internal/ast's documented immutability.
//
// Grounded on internal/apply/analyzer.go for the overall shape of a
// driver that owns a parser/binder pairing and exposes one Analyze-style
// entry point per caller, generalized from "walk one SQL statement" to
// "walk one query pipeline and every expression inside it."
package binder

import (
	"kqlbind/internal/ast"
	"kqlbind/internal/diag"
	"kqlbind/internal/symbol"
)

// SemanticInfo is everything the binder knows about one expression node
// once binding completes (spec §2's "ResultType, ReferencedSymbol,
// IsConstant, ConstantValue, Diagnostics" per node).
type SemanticInfo struct {
	ResultType       symbol.Type
	ReferencedSymbol symbol.Symbol
	IsConstant       bool
	ConstantValue    any
	Diagnostics      []*diag.Diagnostic
}

// InfoSetter receives one SemanticInfo per bound node. The default
// implementation, sideTable, is a plain map keyed by node identity; a
// caller that wants semantic info streamed elsewhere (a language-server
// protocol layer, a trace log) can supply its own (spec §9: "a pluggable
// setter abstraction").
type InfoSetter interface {
	Set(node ast.Node, info SemanticInfo)
}

// sideTable is the default InfoSetter: a map from node identity to its
// SemanticInfo, queryable after a Bind call completes.
type sideTable struct {
	entries map[ast.Node]SemanticInfo
}

func newSideTable() *sideTable {
	return &sideTable{entries: map[ast.Node]SemanticInfo{}}
}

func (t *sideTable) Set(node ast.Node, info SemanticInfo) {
	t.entries[node] = info
}

func (t *sideTable) Get(node ast.Node) (SemanticInfo, bool) {
	info, ok := t.entries[node]
	return info, ok
}
