// Package unify implements the column unifier the union and join
// operators use to combine several input schemas into one output schema
// (spec §4.4): UnifyByName, UnifyByNameAndType, and CommonColumns.
//
// Grounded on the teacher's internal/diff package: compareColumns there
// builds a case-insensitive name-keyed map of one side's columns (with
// collision tracking) and walks the other side against it. Unification
// reuses exactly that shape, except it is building a merged column list
// instead of a diff.
package unify

import (
	"fmt"

	"kqlbind/internal/builtin"
	"kqlbind/internal/pool"
	"kqlbind/internal/symbol"
	"kqlbind/internal/typesys"
)

// Warning records a non-fatal oddity discovered while unifying, such as
// a case-insensitive name collision within a single input's own columns
// (mirrors the teacher's TableDiff.Warnings).
type Warning struct {
	Message string
}

// Result is the outcome of a unification: the merged columns, in
// first-seen order, plus any warnings.
type Result struct {
	Columns  []*symbol.Column
	Warnings []Warning
}

// mapByName builds a case-insensitive name -> column map, recording a
// Warning for every later column whose name collides case-insensitively
// with an earlier one (teacher: diff/helpers.go's mapColumnsByName).
func mapByName(columns []*symbol.Column) (map[string]*symbol.Column, []Warning) {
	m := make(map[string]*symbol.Column, len(columns))
	original := make(map[string]string, len(columns))
	var warnings []Warning

	for _, c := range columns {
		key := foldKey(c.Name())
		if prev, ok := original[key]; ok {
			if prev != c.Name() {
				warnings = append(warnings, Warning{
					Message: fmt.Sprintf("case-insensitive name collision: %q vs %q", prev, c.Name()),
				})
			}
			continue
		}
		original[key] = c.Name()
		m[key] = c
	}
	return m, warnings
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

// UnifyByName merges columns across tables by name alone (union's
// default behavior and lookup's key-matching behavior): every distinct
// name across every input appears once in the result, typed as the
// common type across every input table that has it (widened, or
// dynamic if the inputs disagree and none is dynamic).
func UnifyByName(tables ...*symbol.Table) Result {
	return unify(tables, false)
}

// UnifyByNameAndType merges columns that agree on both name and type
// across every input; a name whose type differs between inputs at all
// (even where one type widens to the other) is dropped rather than
// coerced, with a Warning naming it (union's "kind=strict" behavior,
// spec §4.4).
func UnifyByNameAndType(tables ...*symbol.Table) Result {
	return unify(tables, true)
}

func unify(tables []*symbol.Table, strict bool) Result {
	out := pool.GetColumnSlice()
	defer pool.PutColumnSlice(out)

	seen := map[string]int{} // name(fold) -> index into out
	conflicted := map[string]bool{}
	var warnings []Warning
	var dropped []string

	for _, t := range tables {
		m, tableWarnings := mapByName(t.Columns())
		warnings = append(warnings, tableWarnings...)

		for _, c := range t.Columns() {
			key := foldKey(c.Name())
			col := m[key]
			if idx, ok := seen[key]; ok {
				if conflicted[key] {
					continue
				}
				merged, ok := mergeColumn(out[idx], col, strict)
				if !ok {
					conflicted[key] = true
					if !strict {
						out[idx] = out[idx].WithType(builtin.Dynamic)
						continue
					}
					dropped = append(dropped, out[idx].Name())
					continue
				}
				out[idx] = merged
				continue
			}
			seen[key] = len(out)
			out = append(out, col)
		}
	}

	for _, name := range dropped {
		warnings = append(warnings, Warning{
			Message: fmt.Sprintf("column %q dropped: inputs disagree on type under strict unification", name),
		})
	}

	columns := make([]*symbol.Column, 0, len(out))
	for _, c := range out {
		if !(strict && conflicted[foldKey(c.Name())]) {
			columns = append(columns, c)
		}
	}
	result := Result{Columns: columns, Warnings: warnings}
	return result
}

// mergeColumn combines two same-named columns' types. Under strict
// (UnifyByNameAndType) mode, disagreement drops the column entirely
// (reported by the caller as ok=false) rather than silently widening.
func mergeColumn(a, b *symbol.Column, strict bool) (*symbol.Column, bool) {
	if a.Type() == b.Type() {
		return a, true
	}
	if strict {
		return nil, false
	}
	common, ok := typesys.CommonType([]symbol.Type{a.Type(), b.Type()})
	if !ok {
		return nil, false
	}
	return a.WithType(common), true
}

// CommonColumns returns only the columns present, with an assignable
// type, in every input table — the schema a fork/partition or a
// union's "kind=inner" projects when it wants the guaranteed-common
// shape rather than every observed column.
func CommonColumns(tables ...*symbol.Table) Result {
	if len(tables) == 0 {
		return Result{}
	}

	out := pool.GetColumnSlice()
	defer pool.PutColumnSlice(out)

	base, warnings := mapByName(tables[0].Columns())
	for _, c := range tables[0].Columns() {
		key := foldKey(c.Name())
		col := base[key]
		present := true
		for _, t := range tables[1:] {
			other, ok := t.Column(col.Name())
			if !ok {
				present = false
				break
			}
			merged, ok := mergeColumn(col, other, false)
			if !ok {
				present = false
				break
			}
			col = merged
		}
		if present {
			out = append(out, col)
		}
	}

	return Result{Columns: append([]*symbol.Column(nil), out...), Warnings: warnings}
}

// AsTable builds a new, closed Table named name from a Result, as a
// union/join/lookup operator does once it has decided the output shape.
func AsTable(name string, r Result) *symbol.Table {
	return symbol.NewTable(name, r.Columns, false)
}
