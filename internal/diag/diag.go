// Package diag defines the diagnostic records the binder attaches to
// expressions and operators instead of returning errors.
package diag

import "fmt"

// Kind enumerates the categories of semantic failure the binder can report.
type Kind int

const (
	UndefinedName Kind = iota
	AmbiguousName
	WrongArgumentCount
	WrongArgumentType
	LiteralRequired
	ConstantRequired
	ColumnRequired
	NotAFunction
	AggregateNotAllowed
	DuplicateColumnDeclaration
	NoPatternMatch
	MalformedTypeExpression
	StarNotAllowed
	StarMustBeLast
	CompoundNamedArgumentUnsupported
	MissingJoinOn
	MissingNamedParameter
	AmbiguousOverload
	FunctionRequiresArguments
	UnknownNamedArgument
	DuplicateNamedArgument
	NamedArgumentAfterUnnamed
)

func (k Kind) String() string {
	switch k {
	case UndefinedName:
		return "undefined-name"
	case AmbiguousName:
		return "ambiguous-name"
	case WrongArgumentCount:
		return "wrong-argument-count"
	case WrongArgumentType:
		return "wrong-argument-type"
	case LiteralRequired:
		return "literal-required"
	case ConstantRequired:
		return "constant-required"
	case ColumnRequired:
		return "column-required"
	case NotAFunction:
		return "not-a-function"
	case AggregateNotAllowed:
		return "aggregate-not-allowed"
	case DuplicateColumnDeclaration:
		return "duplicate-column-declaration"
	case NoPatternMatch:
		return "no-pattern-match"
	case MalformedTypeExpression:
		return "malformed-type-expression"
	case StarNotAllowed:
		return "star-not-allowed"
	case StarMustBeLast:
		return "star-must-be-last"
	case CompoundNamedArgumentUnsupported:
		return "compound-named-argument-unsupported"
	case MissingJoinOn:
		return "missing-join-on"
	case MissingNamedParameter:
		return "missing-named-parameter"
	case AmbiguousOverload:
		return "ambiguous-overload"
	case FunctionRequiresArguments:
		return "function-requires-arguments"
	case UnknownNamedArgument:
		return "unknown-named-argument"
	case DuplicateNamedArgument:
		return "duplicate-named-argument"
	case NamedArgumentAfterUnnamed:
		return "named-argument-after-unnamed"
	default:
		return "unknown-diagnostic"
	}
}

// Severity distinguishes hard errors from advisory notes. The binder only
// ever produces Error today but the field exists so a future warning-level
// check (e.g. a deprecated function) has somewhere to live.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Location is a span inside the original source text, in byte offsets.
type Location struct {
	Start int
	End   int
}

// Diagnostic is one semantic finding attached to an expression or operator.
type Diagnostic struct {
	Kind     Kind
	Location Location
	Message  string
	Severity Severity
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s at [%d,%d]: %s", d.Kind, d.Location.Start, d.Location.End, d.Message)
}

// New builds an error-severity diagnostic with a formatted message.
func New(kind Kind, loc Location, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Kind:     kind,
		Location: loc,
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityError,
	}
}

// Bag accumulates diagnostics the way apply.PreflightResult accumulates
// Warnings in the teacher repo: appended to, never thrown.
type Bag struct {
	items []*Diagnostic
}

func (b *Bag) Add(d *Diagnostic) {
	if d == nil {
		return
	}
	b.items = append(b.items, d)
}

func (b *Bag) Addf(kind Kind, loc Location, format string, args ...any) {
	b.Add(New(kind, loc, format, args...))
}

func (b *Bag) Items() []*Diagnostic {
	return b.items
}

func (b *Bag) Empty() bool {
	return len(b.items) == 0
}

// Extend appends another bag's diagnostics, used when merging an
// operator's or a projection build's diagnostics into an enclosing bag.
func (b *Bag) Extend(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
}
