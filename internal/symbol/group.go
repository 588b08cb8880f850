package symbol

// Group is an unordered set of symbols that share a name but resolved
// ambiguously. It carries no intrinsic type and, unlike every other
// symbol in this package, does not implement Type: a Group may only ever
// be a referencedSymbol, never a resultType (spec §3.1, invariant 4).
type Group struct {
	baseSymbol
	name    string
	symbols []Symbol
}

func NewGroup(name string, symbols []Symbol) *Group {
	return &Group{name: name, symbols: append([]Symbol(nil), symbols...)}
}

func (g *Group) Name() string      { return g.name }
func (g *Group) Kind() Kind        { return KindGroup }
func (g *Group) Symbols() []Symbol { return g.symbols }
