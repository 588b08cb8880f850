// Package opbind implements the per-operator schema rules of spec §4.9:
// given an operator's already-bound pieces (assignment types, predicate
// type, sub-pipeline row scopes), compute the new row scope and any
// diagnostics. It does not walk the syntax tree or bind expressions
// itself — internal/binder does that and calls into opbind once each
// operator's operands are bound, the same separation the teacher draws
// between internal/apply (statement-level dispatch) and internal/diff
// /internal/migration (the pure rule for one concern).
//
// Grounded on internal/apply/analyzer.go's switch-on-node-kind dispatch
// style, generalized from "classify one SQL statement" to "compute one
// pipe stage's output schema."
package opbind

import (
	"errors"

	"kqlbind/internal/builtin"
	"kqlbind/internal/diag"
	"kqlbind/internal/projection"
	"kqlbind/internal/symbol"
	"kqlbind/internal/unify"
)

// Result is the outcome of binding one operator: its new row scope and
// any diagnostics raised while computing it. RowScope is nil only for
// operators that do not change row shape in a way worth re-describing
// (opbind always returns a usable table; callers needing "unchanged"
// semantics pass the input table through RowScope themselves before
// calling in, see Filter).
type Result struct {
	RowScope *symbol.Table
	Diags    diag.Bag
}

func ok(t *symbol.Table) Result { return Result{RowScope: t} }

func fail(in *symbol.Table, loc diag.Location, kind diag.Kind, format string, args ...any) Result {
	var b diag.Bag
	b.Add(diag.New(kind, loc, format, args...))
	return Result{RowScope: in, Diags: b}
}

// Filter validates a where/filter predicate's type and returns the
// input row scope unchanged (spec: "row scope unchanged").
func Filter(in *symbol.Table, loc diag.Location, predicateType symbol.Type) Result {
	if symbol.IsError(predicateType) {
		return ok(in)
	}
	boolType := predicateType
	if s, isScalar := predicateType.(*symbol.ScalarType); !isScalar || s != builtin.Bool {
		return fail(in, loc, diag.WrongArgumentType, "filter predicate must be bool, got %s", boolType.Name())
	}
	return ok(in)
}

// BoundAssignment pairs a (possibly empty, meaning "carry through")
// output name with the already-bound column it produces.
type BoundAssignment struct {
	Name   string
	Column *symbol.Column
}

// Extend appends or replaces columns on the input row scope (spec:
// "appends/replaces columns via the projection builder"); an assignment
// naming an existing column replaces it rather than colliding, and the
// replaced column moves to the end of the row scope.
func Extend(in *symbol.Table, loc diag.Location, assignments []BoundAssignment) Result {
	b := projection.NewBuilder()
	for _, c := range in.Columns() {
		b.Add(c, false, true)
	}
	for _, a := range assignments {
		b.Declare(loc, namedColumn(a), true)
	}
	table, diags := b.Build(in.Name())
	return Result{RowScope: table, Diags: diags}
}

func namedColumn(a BoundAssignment) *symbol.Column {
	if a.Name == "" {
		return a.Column
	}
	return a.Column.WithName(a.Name)
}

// ProjectSpec is one resolved entry of a project/project-keep column
// list: Wildcard expands to every column currently in the input (spec:
// "a `*` re-emits every declared and inferred row-scope column with
// replace=true").
type ProjectSpec struct {
	Wildcard bool
	Assign   BoundAssignment
}

// Project builds the new row scope project/project-keep declare: only
// the named columns survive, in the order given. A `*` re-emits every
// row-scope column (spec §4.5). Entries are applied in order with
// replace=true, so for a repeated name the later one wins: an explicit
// entry after the `*` replaces the re-emitted column, and one before the
// `*` is replaced by it.
func Project(in *symbol.Table, loc diag.Location, specs []ProjectSpec) Result {
	b := projection.NewBuilder()
	for _, s := range specs {
		if s.Wildcard {
			for _, c := range in.Columns() {
				b.Add(c, true, true)
			}
			continue
		}
		b.Declare(loc, namedColumn(s.Assign), true)
	}
	table, diags := b.Build(in.Name())
	return Result{RowScope: table, Diags: diags}
}

// ProjectAway removes the named columns, keeping everything else in
// its original order.
func ProjectAway(in *symbol.Table, loc diag.Location, names []string) Result {
	b := projection.NewBuilder()
	for _, c := range in.Columns() {
		b.Add(c, false, true)
	}
	for _, n := range names {
		b.DoNotAdd(n)
	}
	table, diags := b.Build(in.Name())
	return Result{RowScope: table, Diags: diags}
}

// ProjectRename renames columns in place, preserving position (project-
// rename, spec: "rename resolves name-to-name only").
func ProjectRename(in *symbol.Table, loc diag.Location, renames map[string]string) Result {
	b := projection.NewBuilder()
	for _, c := range in.Columns() {
		if newName, renamed := renames[foldKey(c.Name())]; renamed {
			b.Rename(newName, c)
			continue
		}
		b.Add(c, false, true)
	}
	var diags diag.Bag
	seen := map[string]bool{}
	for _, c := range in.Columns() {
		seen[foldKey(c.Name())] = true
	}
	for old := range renames {
		if !seen[old] {
			diags.Add(diag.New(diag.UndefinedName, loc, "project-rename: column %q not in row scope", old))
		}
	}
	table, buildDiags := b.Build(in.Name())
	diags.Extend(&buildDiags)
	return Result{RowScope: table, Diags: diags}
}

// ProjectReorder reorders named columns to the front, in the order
// given, leaving any remaining columns after them in their original
// order (ascending/descending tags affect row sort, not schema shape,
// so they carry no schema-level meaning here). Repeating a name in the
// reorder list is rejected outright (project-reorder's grammar has no
// "declare again" meaning the way extend/project do).
func ProjectReorder(in *symbol.Table, loc diag.Location, names []string) Result {
	var dup *projection.DuplicateNameError
	if err := projection.RequireUnique(names); errors.As(err, &dup) {
		return fail(in, loc, diag.DuplicateColumnDeclaration, "project-reorder: column %q listed more than once", dup.Name)
	}
	b := projection.NewBuilder()
	moved := map[string]bool{}
	for _, n := range names {
		if c, found := in.Column(n); found {
			b.Add(c, false, true)
			moved[foldKey(n)] = true
		}
	}
	for _, c := range in.Columns() {
		if !moved[foldKey(c.Name())] {
			b.Add(c, false, true)
		}
	}
	table, diags := b.Build(in.Name())
	return Result{RowScope: table, Diags: diags}
}

// Summarize computes the by-columns ∪ aggregate-columns row scope. Every
// output name must be unique within the summarize: a by-column and an
// aggregate (or two aggregates) landing on the same name is rejected
// rather than silently overwritten, matching Kusto summarize's own
// duplicate-output-name error.
func Summarize(name string, loc diag.Location, by []BoundAssignment, aggregates []BoundAssignment) Result {
	b := projection.NewBuilder()
	for _, g := range by {
		b.Declare(loc, namedColumn(g), false)
	}
	for _, a := range aggregates {
		b.Declare(loc, namedColumn(a), false)
	}
	table, diags := b.Build(name)
	return Result{RowScope: table, Diags: diags}
}

// PassThrough implements every operator whose schema is a straight
// copy of its input: top, top-hitters, top-nested, sort, sample,
// sample-distinct, take/limit, serialize.
func PassThrough(in *symbol.Table) Result { return ok(in) }

// Distinct restricts the row scope to the named columns (bare
// `distinct` with no columns keeps every column, matching "distinct *").
// Repeating a column name is rejected rather than silently collapsed.
func Distinct(in *symbol.Table, loc diag.Location, columns []string) Result {
	if len(columns) == 0 {
		return ok(in)
	}
	var dup *projection.DuplicateNameError
	if err := projection.RequireUnique(columns); errors.As(err, &dup) {
		return fail(in, loc, diag.DuplicateColumnDeclaration, "distinct: column %q listed more than once", dup.Name)
	}
	b := projection.NewBuilder()
	for _, n := range columns {
		if c, found := in.Column(n); found {
			b.Add(c, false, true)
		}
	}
	table, diags := b.Build(in.Name())
	return Result{RowScope: table, Diags: diags}
}

// JoinKind enumerates the validated `kind=` values for join/lookup
// (spec: "kind (inner, leftouter, rightsemi, fullouter, …)").
type JoinKind string

const (
	JoinInner      JoinKind = "inner"
	JoinLeftOuter  JoinKind = "leftouter"
	JoinRightOuter JoinKind = "rightouter"
	JoinFullOuter  JoinKind = "fullouter"
	JoinLeftSemi   JoinKind = "leftsemi"
	JoinRightSemi  JoinKind = "rightsemi"
	JoinLeftAnti   JoinKind = "leftanti"
	JoinRightAnti  JoinKind = "rightanti"
)

func ValidJoinKind(k string) (JoinKind, bool) {
	switch JoinKind(k) {
	case JoinInner, JoinLeftOuter, JoinRightOuter, JoinFullOuter,
		JoinLeftSemi, JoinRightSemi, JoinLeftAnti, JoinRightAnti:
		return JoinKind(k), true
	}
	return "", false
}

// Join merges the left and right row scopes, uniquifying any column
// name present on both sides with `_1`/`_2` suffixes (spec: "output row
// scope merges columns from both with _1/_2-style uniquification"). A
// left semi/anti join projects only the left side's columns, a right
// semi/anti join only the right side's.
func Join(left, right *symbol.Table, kind JoinKind, loc diag.Location) Result {
	switch kind {
	case JoinLeftSemi, JoinLeftAnti:
		return ok(left)
	case JoinRightSemi, JoinRightAnti:
		return ok(right)
	}

	b := projection.NewBuilder()
	rightByName := map[string]*symbol.Column{}
	for _, c := range right.Columns() {
		rightByName[foldKey(c.Name())] = c
	}
	for _, c := range left.Columns() {
		if _, collide := rightByName[foldKey(c.Name())]; collide {
			b.Declare(loc, c.WithName(c.Name()+"_1"), true)
			continue
		}
		b.Add(c, false, true)
	}
	leftByName := map[string]*symbol.Column{}
	for _, c := range left.Columns() {
		leftByName[foldKey(c.Name())] = c
	}
	for _, c := range right.Columns() {
		if _, collide := leftByName[foldKey(c.Name())]; collide {
			b.Declare(loc, c.WithName(c.Name()+"_2"), true)
			continue
		}
		b.Add(c, false, true)
	}
	table, diags := b.Build(left.Name() + "_" + right.Name())
	return Result{RowScope: table, Diags: diags}
}

// Lookup is Join with an enforced `on` clause (spec: "like join with an
// enforced on clause"); the enforcement itself is the caller's
// responsibility (it has the parsed `On` expressions), so Lookup is
// Join's leftouter form plus a required-clause diagnostic helper.
func Lookup(left, right *symbol.Table, hasOn bool, loc diag.Location) Result {
	if !hasOn {
		return fail(left, loc, diag.MissingJoinOn, "lookup requires an on clause")
	}
	return Join(left, right, JoinLeftOuter, loc)
}

// Union merges N input tables' columns by the chosen kind: "outer"
// unifies by name-and-type (kind=strict unification, widening where
// possible), "inner" keeps only columns common to every input.
func Union(name, kind string, tables []*symbol.Table) Result {
	var result unify.Result
	if kind == "inner" {
		result = unify.CommonColumns(tables...)
	} else {
		result = unify.UnifyByName(tables...)
	}
	return ok(unify.AsTable(name, result))
}

// Range produces a single-column table named by the declared name,
// typed by the step expression's type (spec: "row scope is a
// single-column table of the declared name and step type").
func Range(name string, stepType symbol.Type) Result {
	return ok(symbol.NewTable("range", []*symbol.Column{symbol.NewColumn(name, stepType)}, false))
}

// MakeSeries has Summarize's shape: the by-columns followed by the
// series columns.
func MakeSeries(name string, loc diag.Location, series []BoundAssignment, by []BoundAssignment) Result {
	return Summarize(name, loc, by, series)
}

// MvExpand re-types the expanded columns to their declared element type
// (or leaves them dynamic absent a `to typeof(...)` clause) and carries
// every other row-scope column through unchanged.
func MvExpand(in *symbol.Table, loc diag.Location, expanded map[string]symbol.Type) Result {
	b := projection.NewBuilder()
	for _, c := range in.Columns() {
		if elemType, isExpanded := expanded[foldKey(c.Name())]; isExpanded {
			b.Declare(loc, c.WithType(elemType), true)
			continue
		}
		b.Add(c, false, true)
	}
	table, diags := b.Build(in.Name())
	return Result{RowScope: table, Diags: diags}
}

// FindSearch unifies a set of candidate tables by name (find) — search
// uses the same rule per spec §4.4's mapping of "search" onto
// UnifyByName; unifying by name-and-type is reserved for the narrower
// "typed search" form this binder does not additionally expose.
func FindSearch(name string, candidates []*symbol.Table) Result {
	return ok(unify.AsTable(name, unify.UnifyByName(candidates...)))
}

// FixedSchema builds a fixed output table from the given columns,
// independent of the input's columns; the binder uses it for count and
// get-schema.
func FixedSchema(name string, columns ...*symbol.Column) Result {
	return ok(symbol.NewTable(name, columns, false))
}

// Count is FixedSchema's single-column `Count:long` case, the most
// common fixed-schema operator.
func Count() Result {
	return FixedSchema("count", symbol.NewColumn("Count", builtin.Long))
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
