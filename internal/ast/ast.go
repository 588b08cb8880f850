// Package ast defines the immutable syntax tree the binder consumes
// (spec §1's "Deliberately out of scope: the lexer and parser... the
// binder treats the tree as read-only input plus an annotation
// side-table"). The grammar itself is out of scope; this package only
// needs to carry enough shape for internal/binder to walk and annotate.
//
// Every node carries a diag.Location for attaching diagnostics. Nodes
// are built once by a (hypothetical, out-of-scope) parser and never
// mutated by the binder — semantic results are attached out-of-band via
// internal/binder's SemanticInfo side-table, matching spec §9's "keep
// the syntax tree purely immutable" option.
package ast

import "kqlbind/internal/diag"

// Node is the common capability of every tree node: its source span.
type Node interface {
	Location() diag.Location
}

// Expr is any expression node. Expression binding proceeds bottom-up:
// operands are bound before the operators/calls that contain them.
type Expr interface {
	Node
	exprNode()
}

type baseExpr struct{ Loc diag.Location }

func (b baseExpr) Location() diag.Location { return b.Loc }
func (baseExpr) exprNode()                 {}

// Literal is a constant value of a known scalar kind (spec's
// LiteralKind is left to the front end; the binder only needs the
// value and which builtin scalar it denotes, by name, to avoid this
// package depending on internal/builtin).
type Literal struct {
	baseExpr
	Value     any
	ScalarName string // e.g. "long", "string", "bool", "dynamic"
}

// NameRef is a bare identifier reference, resolved by scope.Lookup
// against whatever scope layer has it: a column, a local, a table, a
// function, or a database (spec §4.1).
type NameRef struct {
	baseExpr
	Name string
}

// Star is the `*` wildcard argument/column-list marker (spec's ArgStar
// and "a `*` re-emits every declared and inferred row-scope column").
type Star struct{ baseExpr }

// LeftRef and RightRef are the `$left`/`$right` special forms available
// while binding a join/lookup condition.
type LeftRef struct{ baseExpr }
type RightRef struct{ baseExpr }

// Path is a dotted access, `Left.Right` (cluster("x").database("y"),
// or a column's dynamic member access). Binding resolves Left first,
// then looks Right up in Left's resulting path scope.
type Path struct {
	baseExpr
	Left  Expr
	Right string
}

// Unary is a prefix operator application (UnaryPlus, UnaryMinus, Not).
type Unary struct {
	baseExpr
	Op      string
	Operand Expr
}

// Binary is an infix operator application, covering arithmetic,
// comparison, regex, string, set, and logical operators (spec §6's
// "Recognized operator kinds").
type Binary struct {
	baseExpr
	Op          string
	Left, Right Expr
}

// Call is a function/aggregate/plug-in invocation. Args may include a
// *Star element (ArgStar parameters) or *NamedArg (named-argument
// calls, when the signature allows them).
type Call struct {
	baseExpr
	Name string
	Args []Expr
}

// NamedArg wraps an argument passed as `name = expr` in a call that
// permits named arguments.
type NamedArg struct {
	baseExpr
	Name  string
	Value Expr
}

// TypeOf is a `typeof(name)` type-expression, used by `to typeof(...)`
// clauses (make-series, mv-expand) and by ParamDeclared column
// declarations in datatable literals.
type TypeOf struct {
	baseExpr
	ScalarName string
}

// DataTable is a `datatable (col:type, ...) [v1, v2, ...]` literal: an
// inline, fully declared closed table.
type DataTable struct {
	baseExpr
	Columns []ColumnDecl
	Values  []Expr
}

// ColumnDecl names a declared column and its type expression, used by
// DataTable and by any operator clause that declares a typed column
// (e.g. range's output column).
type ColumnDecl struct {
	Name       string
	ScalarName string
}
