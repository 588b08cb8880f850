package symbol

// ScalarFlag marks a scalar type's category membership (spec §3.1).
type ScalarFlag uint8

const (
	FlagInteger ScalarFlag = 1 << iota
	FlagNumeric
	FlagSummable
	// FlagDynamic marks the dynamic scalar: the type system's "anything
	// goes" escape hatch used by open-column inference and by the Any
	// conversion. Exactly one builtin scalar should carry this flag.
	FlagDynamic
)

// ScalarType is a leaf, promotable type such as int, long, string, or
// dynamic. The widening lattice is encoded as a chain of single-step
// "wider" pointers rather than a general graph: every scalar in this
// binder widens to at most one immediately-wider scalar, matching the
// concrete promotions named in spec §4.2 (int -> long, decimal -> real).
type ScalarType struct {
	baseSymbol
	name  string
	flags ScalarFlag
	wider *ScalarType
}

// NewScalar constructs a scalar type. wider may be nil if the type does
// not widen to anything.
func NewScalar(name string, flags ScalarFlag, wider *ScalarType) *ScalarType {
	return &ScalarType{name: name, flags: flags, wider: wider}
}

func (s *ScalarType) Name() string { return s.name }
func (s *ScalarType) Kind() Kind   { return KindScalar }
func (*ScalarType) typeTag()       {}

// Is reports whether the type carries every flag in want.
func (s *ScalarType) Is(want ScalarFlag) bool { return s.flags&want == want }

// WidensTo returns the next-wider scalar in the lattice, or nil.
func (s *ScalarType) WidensTo() *ScalarType { return s.wider }

// WidensToEventually reports whether s can be reached from other by
// zero or more widening steps (other == s counts).
func (s *ScalarType) WidensToEventually(other *ScalarType) bool {
	for cur := s; cur != nil; cur = cur.wider {
		if cur == other {
			return true
		}
	}
	return false
}
