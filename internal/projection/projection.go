// Package projection implements the output-schema builder query
// operators use while binding their argument list into a result row
// shape (spec §4.5): project/project-away/project-rename/extend/
// summarize all build their result table one column decision at a time,
// in source order, and need to detect a later decision overriding an
// earlier one for the same name.
//
// Grounded on the teacher's internal/migration package: Migration
// accumulates Operations one call at a time (AddStatement, AddBreaking,
// AddNote, ...) and only resolves the final list on demand (Plan,
// Dedupe). Builder here plays the same role for column decisions.
package projection

import (
	"fmt"

	"kqlbind/internal/diag"
	"kqlbind/internal/symbol"
)

type opKind int

const (
	opDeclare opKind = iota
	opAdd
	opRename
	opDoNotAdd
)

type op struct {
	kind        opKind
	name        string
	column      *symbol.Column
	from        string // opRename: source column name
	loc         diag.Location
	replace     bool
	doNotRepeat bool
}

// Builder accumulates column decisions in source order and resolves
// them into a result Table on Build, following the replace/doNotRepeat
// discipline of spec §4.5's Declare/Add primitives.
type Builder struct {
	ops     []op
	repeats map[string]bool
}

func NewBuilder() *Builder { return &Builder{repeats: map[string]bool{}} }

// Declare adds col as a brand-new output column (project, extend with a
// fresh name). If a column of this name was already produced earlier in
// this Builder: replace=true updates its type and position to col's
// (extend/project's ordinary overwrite rule, and `*`'s own re-emission,
// per spec §4.5); replace=false leaves the earlier column untouched and
// Build reports a DuplicateColumnDeclaration diagnostic at loc instead.
func (b *Builder) Declare(loc diag.Location, col *symbol.Column, replace bool) *Builder {
	b.ops = append(b.ops, op{kind: opDeclare, name: col.Name(), column: col, loc: loc, replace: replace})
	return b
}

// Add carries an existing input column through to the output (project's
// "keep this column" form, summarize's `by` columns, join's unchanged
// side). doNotRepeat skips this column outright if a column of the same
// name was already added by an earlier doNotRepeat Add (project `*`
// combined with an explicit column of the same name). Absent a skip,
// replace=true overwrites a same-named earlier column the way Declare
// does; replace=false assigns the incoming column a unique numeric-
// suffixed name instead of colliding with it.
func (b *Builder) Add(col *symbol.Column, doNotRepeat, replace bool) *Builder {
	key := foldKey(col.Name())
	if doNotRepeat && b.repeats[key] {
		return b
	}
	if doNotRepeat {
		b.repeats[key] = true
	}
	b.ops = append(b.ops, op{kind: opAdd, name: col.Name(), column: col, replace: replace})
	return b
}

// Rename adds col to the output under a new name, recording the
// original name it came from (project-rename). A rename always wins
// over an earlier column of the target name, matching project-rename's
// unconditional "the new name is now this column" semantics.
func (b *Builder) Rename(newName string, col *symbol.Column) *Builder {
	b.ops = append(b.ops, op{kind: opRename, name: newName, column: col.WithName(newName), from: col.Name(), replace: true})
	return b
}

// DoNotAdd removes a previously declared/added/renamed column of this
// name, if present (project-away). A DoNotAdd for a name never
// produced is a no-op, matching project-away's tolerance of a name not
// present in the input.
func (b *Builder) DoNotAdd(name string) *Builder {
	b.ops = append(b.ops, op{kind: opDoNotAdd, name: name})
	return b
}

// Build resolves the accumulated operations into an output Table named
// name, plus any DuplicateColumnDeclaration diagnostics raised by a
// replace=false Declare colliding with an earlier column (a replace=false
// Add is renamed with a numeric suffix instead). Column
// order is the order names were first introduced, shifted to the end if
// overwritten (matching project's documented left-to-right column
// reordering when a name repeats).
func (b *Builder) Build(name string) (*symbol.Table, diag.Bag) {
	order := make([]string, 0, len(b.ops))
	byName := make(map[string]*symbol.Column, len(b.ops))
	var diags diag.Bag

	for _, o := range b.ops {
		key := foldKey(o.name)
		switch o.kind {
		case opDoNotAdd:
			delete(byName, key)
			order = removeName(order, key)

		case opAdd:
			if _, exists := byName[key]; exists {
				if o.replace {
					order = removeName(order, key)
					byName[key] = o.column
					order = append(order, key)
					continue
				}
				uniqueKey, uniqueCol := uniquify(byName, o.column)
				byName[uniqueKey] = uniqueCol
				order = append(order, uniqueKey)
				continue
			}
			byName[key] = o.column
			order = append(order, key)

		default: // opDeclare, opRename
			if _, exists := byName[key]; exists {
				if !o.replace {
					diags.Addf(diag.DuplicateColumnDeclaration, o.loc, "column %q declared more than once", o.name)
					continue
				}
				order = removeName(order, key)
			}
			byName[key] = o.column
			order = append(order, key)
		}
	}

	columns := make([]*symbol.Column, 0, len(order))
	for _, key := range order {
		columns = append(columns, byName[key])
	}
	return symbol.NewTable(name, columns, false), diags
}

// uniquify appends a numeric suffix to col's name until it no longer
// collides with an entry already in byName.
func uniquify(byName map[string]*symbol.Column, col *symbol.Column) (string, *symbol.Column) {
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s%d", col.Name(), i)
		key := foldKey(candidate)
		if _, exists := byName[key]; !exists {
			return key, col.WithName(candidate)
		}
	}
}

// RenamedFrom reports the original column name a Rename introduced
// newName from, for diagnostics ("column 'x' renamed from 'y'"). Returns
// false if newName was never the target of a Rename.
func (b *Builder) RenamedFrom(newName string) (string, bool) {
	key := foldKey(newName)
	for i := len(b.ops) - 1; i >= 0; i-- {
		if b.ops[i].kind == opRename && foldKey(b.ops[i].name) == key {
			return b.ops[i].from, true
		}
	}
	return "", false
}

func removeName(order []string, key string) []string {
	out := order[:0]
	for _, k := range order {
		if k != key {
			out = append(out, k)
		}
	}
	return out
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

// DuplicateNameError is returned by RequireUnique for callers that want
// to reject repeated names outright, e.g. a project/distinct/reorder
// column list whose grammar forbids repeating a name rather than
// silently taking the last one.
type DuplicateNameError struct{ Name string }

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("projection: duplicate column name %q", e.Name)
}

// RequireUnique validates that names contains no case-insensitive
// duplicate.
func RequireUnique(names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		key := foldKey(n)
		if _, ok := seen[key]; ok {
			return &DuplicateNameError{Name: n}
		}
		seen[key] = struct{}{}
	}
	return nil
}
