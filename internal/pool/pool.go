// Package pool holds the scratch-allocation pools the binder's hot paths
// reuse instead of allocating fresh slices per call (spec §5: column
// unification and overload resolution run once per operator/call site
// and should not pressure the garbage collector on large pipelines).
//
// None of the example repos this binder is grounded on reach for
// sync.Pool anywhere in their source; this package is accordingly built
// directly on the standard library rather than adapted from a pack
// file; see DESIGN.md.
package pool

import (
	"sync"

	"kqlbind/internal/symbol"
)

// columnSlices pools []*symbol.Column scratch buffers used while
// building unified or projected column lists.
var columnSlices = sync.Pool{
	New: func() any { return make([]*symbol.Column, 0, 16) },
}

// GetColumnSlice returns a zero-length scratch slice. Callers must
// return it with PutColumnSlice once they are done with it (its
// contents, not a copy, may be reused by the next caller).
func GetColumnSlice() []*symbol.Column {
	return columnSlices.Get().([]*symbol.Column)[:0]
}

// PutColumnSlice returns s to the pool. The caller must not use s (or
// any slice derived from it) afterward.
func PutColumnSlice(s []*symbol.Column) {
	columnSlices.Put(s) //nolint:staticcheck // s is intentionally reused, not retained by the caller
}

// symbolSlices pools []symbol.Symbol scratch buffers used by the
// Members() fan-out (completion, scope listing).
var symbolSlices = sync.Pool{
	New: func() any { return make([]symbol.Symbol, 0, 32) },
}

func GetSymbolSlice() []symbol.Symbol {
	return symbolSlices.Get().([]symbol.Symbol)[:0]
}

func PutSymbolSlice(s []symbol.Symbol) {
	symbolSlices.Put(s)
}
