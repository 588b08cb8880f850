// Package expand implements inline expansion of user/database-defined
// function bodies for variable-return-type inference (spec §4.8): a
// Computed signature's result type is whatever type its body binds to
// once the call's argument types are substituted in as locals.
//
// Because the front-end grammar is out of scope (spec §1), a Computed
// signature's body text (internal/symbol.Signature.BodyText) is not
// re-parsed here — there is no grammar to parse it with. Instead, a
// caller that has already parsed a function body elsewhere (a real
// front end, or a test) registers the parsed ast.Pipeline against the
// Signature with RegisterBody. A Computed signature with no registered
// body behaves exactly like spec §4.8's "unrecoverable parser exception"
// case: the expansion is unavailable and is cached as absent.
//
// Grounded on internal/apply/analyzer.go for the overall shape (a
// small stateful type wrapping a parser/binder, offering one entry
// point per caller), generalized from SQL-statement analysis to
// expression-body binding.
package expand

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"kqlbind/internal/ast"
	"kqlbind/internal/symbol"
)

// BodyFacts is the bitmask spec §4.8 calls functionBodyFacts: a coarse
// summary of what a function body touches, cached per Signature so
// repeated probes (e.g. "is this body even worth expanding") don't
// re-walk the body.
type BodyFacts uint8

const (
	FactUsesCluster BodyFacts = 1 << iota
	FactUsesDatabase
	FactUsesQualifiedTable
	FactUsesUnqualifiedTable
	FactHasVariableReturn
)

// Binder is implemented by internal/binder: expand needs to recursively
// invoke the binder over a registered body, but binder depends on
// expand (for ResolveReturnType's ReturnComputed case via
// signature.BodyBinder), so this interface breaks the cycle.
type Binder interface {
	// BindPipeline binds pipeline under a scope seeded with locals and
	// returns the resulting row scope (nil if the pipeline yields no
	// tabular result, e.g. a scalar-valued body), or an error if binding
	// failed.
	BindPipeline(pipeline *ast.Pipeline, locals map[string]symbol.Symbol) (*symbol.Table, error)
}

type expansionKey struct {
	sig         *symbol.Signature
	fingerprint string
}

// Cache holds every expansion computed so far (spec §3.1/§5: "live for
// the process, guarded by a single mutex"), the per-signature BodyFacts,
// and the registered body pipelines. One Cache is shared by every
// binding in the process. Cache.mu is taken inside this package
// (RegisterBody, Facts, and around each cache access in
// Expander.BindBody); internal/binder holds its own Binder.mu, not
// Cache.mu, across its entry points.
type Cache struct {
	mu         sync.Mutex
	expansions map[expansionKey]symbol.Type
	facts      map[*symbol.Signature]BodyFacts
	bodies     map[*symbol.Signature]*ast.Pipeline
}

func NewCache() *Cache {
	return &Cache{
		expansions: map[expansionKey]symbol.Type{},
		facts:      map[*symbol.Signature]BodyFacts{},
		bodies:     map[*symbol.Signature]*ast.Pipeline{},
	}
}

// RegisterBody attaches a parsed body to a Computed signature so
// BindBody can expand calls to it. Must be called before any call to
// BindBody for sig; typically done once when the catalog loader that
// produced sig also has access to a parsed body (a real front end would
// call this as part of building the Database symbol).
func (c *Cache) RegisterBody(sig *symbol.Signature, body *ast.Pipeline) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bodies[sig] = body
}

// Expander binds Computed signatures' bodies, implementing
// signature.BodyBinder. currentlyExpanding is per-binding (spec §9:
// "maintain an explicit currently expanding set... checked under the
// same lock"), so each binder.Binder creates one Expander in New and
// reuses it for all of its calls; only the Cache it wraps is shared
// across Binders.
type Expander struct {
	cache              *Cache
	binder             Binder
	currentlyExpanding map[*symbol.Signature]struct{}
}

func NewExpander(cache *Cache, binder Binder) *Expander {
	return &Expander{cache: cache, binder: binder, currentlyExpanding: map[*symbol.Signature]struct{}{}}
}

// BindBody implements signature.BodyBinder. constants carries the
// compile-time value of every ArgConstant/ArgLiteral argument (nil
// where an argument isn't a compile-time constant), so that two calls
// with identical argument types but different literal values — e.g.
// two invocations of a pattern/function keyed on a literal path or
// mode argument — expand independently instead of colliding on a
// types-only cache key (spec invariant 5 / §4.8 point 1).
func (e *Expander) BindBody(sig *symbol.Signature, argTypes []symbol.Type, constants []any) (symbol.Type, error) {
	key := expansionKey{sig: sig, fingerprint: fingerprint(argTypes, constants)}

	e.cache.mu.Lock()
	if t, ok := e.cache.expansions[key]; ok {
		e.cache.mu.Unlock()
		if symbol.IsError(t) {
			return t, fmt.Errorf("expand: expansion of %s is cached as absent", sigName(sig))
		}
		return t, nil
	}
	if _, expanding := e.currentlyExpanding[sig]; expanding {
		e.cache.mu.Unlock()
		slog.Debug("expand: cycle detected", "function", sigName(sig))
		// Cycle: the inner call gets no expansion and returns an error.
		// The binder reports that error as a WrongArgumentType
		// diagnostic on the call and types it ErrorType; no
		// non-computed fallback type is substituted.
		return symbol.ErrorType, fmt.Errorf("expand: %s is self-referential", sigName(sig))
	}
	body, hasBody := e.cache.bodies[sig]
	if !hasBody {
		e.cache.expansions[key] = symbol.ErrorType
	}
	e.cache.mu.Unlock()

	if !hasBody {
		return symbol.ErrorType, fmt.Errorf("expand: no parsed body registered for %s; expansion unavailable", sigName(sig))
	}

	e.currentlyExpanding[sig] = struct{}{}
	defer delete(e.currentlyExpanding, sig)

	locals := bindArguments(sig, argTypes)
	rowScope, err := e.binder.BindPipeline(body, locals)

	e.cache.mu.Lock()
	defer e.cache.mu.Unlock()

	if err != nil {
		// Unrecoverable failure inside expansion: cache as absent
		// (spec §4.10) so repeated calls don't re-attempt the walk.
		e.cache.expansions[key] = symbol.ErrorType
		return symbol.ErrorType, err
	}

	var result symbol.Type = symbol.VoidType
	if rowScope != nil {
		result = rowScope
	}
	e.cache.expansions[key] = result
	e.recordFacts(sig, body)
	slog.Debug("expand: cached expansion", "function", sigName(sig), "cache_size", len(e.cache.expansions))
	return result, nil
}

// sigName names sig for diagnostics, tolerating a Signature built
// without NewFunction wiring its parent (unit tests construct bare
// Signatures this way).
func sigName(sig *symbol.Signature) string {
	if sig.Parent() == nil {
		return "<anonymous function>"
	}
	return sig.Parent().Name()
}

func bindArguments(sig *symbol.Signature, argTypes []symbol.Type) map[string]symbol.Symbol {
	locals := make(map[string]symbol.Symbol, len(sig.Parameters()))
	for i, p := range sig.Parameters() {
		if i >= len(argTypes) {
			break
		}
		locals[p.Name()] = symbol.NewVariable(p.Name(), argTypes[i])
	}
	return locals
}

// recordFacts walks body once, recording whether its source names a
// qualified or unqualified table, and marks it variable-return when it
// has at least one operator.
func (e *Expander) recordFacts(sig *symbol.Signature, body *ast.Pipeline) {
	e.cache.facts[sig] = facts(body)
}

func facts(body *ast.Pipeline) BodyFacts {
	var f BodyFacts
	if ref, ok := body.Source.(*ast.NameRef); ok {
		if strings.Contains(strings.ToLower(ref.Name), ".") {
			f |= FactUsesQualifiedTable
		} else {
			f |= FactUsesUnqualifiedTable
		}
	}
	if len(body.Operators) > 0 {
		f |= FactHasVariableReturn
	}
	return f
}

// Facts returns the cached BodyFacts for sig, if an expansion has run
// at least once.
func (c *Cache) Facts(sig *symbol.Signature) (BodyFacts, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.facts[sig]
	return f, ok
}

// fingerprint builds a stable string key from argument types and
// constant values, used to distinguish expansions of the same
// signature called with different shapes or different literal
// arguments (spec scenario 6: f(T) and f(T2) must produce distinct
// fingerprints when T and T2 differ; spec invariant 5: f("a") and
// f("b") must produce distinct fingerprints even though both are
// string-typed).
func fingerprint(argTypes []symbol.Type, constants []any) string {
	parts := make([]string, len(argTypes))
	for i, t := range argTypes {
		var typePart string
		if t == nil {
			typePart = "<nil>"
		} else {
			typePart = fmt.Sprintf("%s:%p", t.Name(), t)
		}
		if i < len(constants) && constants[i] != nil {
			parts[i] = fmt.Sprintf("%s=%v", typePart, constants[i])
		} else {
			parts[i] = typePart
		}
	}
	return strings.Join(parts, "|")
}
