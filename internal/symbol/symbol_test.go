package symbol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColumnImmutability(t *testing.T) {
	c := NewColumn("Foo", ErrorType)
	renamed := c.WithName("bar")
	require.Equal(t, "Foo", c.Name())
	require.Equal(t, "bar", renamed.Name())
	require.True(t, EqualName("Foo", "foo"))
}

func TestTableWithColumnAppendsOrReplaces(t *testing.T) {
	long := NewScalar("long", FlagInteger|FlagNumeric, nil)
	str := NewScalar("string", 0, nil)

	tbl := NewTable("T", []*Column{NewColumn("a", long)}, true)
	grown := tbl.WithColumn(NewColumn("b", str))
	require.Len(t, tbl.Columns(), 1, "original table must not mutate")
	require.Len(t, grown.Columns(), 2)

	replaced := grown.WithColumn(NewColumn("A", str))
	col, ok := replaced.Column("a")
	require.True(t, ok)
	require.Equal(t, Type(str), col.Type())
	require.Len(t, replaced.Columns(), 2, "same-name column replaces rather than duplicates")
}

func TestGroupIsNotAType(t *testing.T) {
	g := NewGroup("dup", []Symbol{NewVariable("dup", ErrorType)})
	var _ Symbol = g
	// The following would fail to compile if Group implemented Type,
	// which is exactly invariant 4 of spec §3.2: a Group is never a
	// legal resultType.
	_, isType := any(g).(Type)
	require.False(t, isType)
}

func TestScalarWideningChain(t *testing.T) {
	long := NewScalar("long", FlagInteger|FlagNumeric, nil)
	intT := NewScalar("int", FlagInteger|FlagNumeric, long)
	require.True(t, intT.WidensToEventually(long))
	require.True(t, intT.WidensToEventually(intT))
	require.False(t, long.WidensToEventually(intT))
}

func TestDatabaseMembersFiltersByMask(t *testing.T) {
	tbl := NewTable("Events", nil, true)
	fn := NewFunction("now", KindFunction, nil, FlagBuiltIn, "", ResultNameNone)
	db := NewDatabase("db", []*Table{tbl}, []*Function{fn}, nil, true)

	var out []Symbol
	db.Members("", MatchTable, &out)
	require.Len(t, out, 1)
	require.Equal(t, KindTable, out[0].Kind())

	out = nil
	db.Members("now", MatchFunction, &out)
	require.Len(t, out, 1)
}

func TestDatabaseMembersIncludesPatterns(t *testing.T) {
	pat := NewPattern("T", nil, []*PatternSignature{{Body: "x"}})
	db := NewDatabase("db", nil, nil, []*Pattern{pat}, false)

	var out []Symbol
	db.Members("", MatchPattern, &out)
	require.Len(t, out, 1)
	require.Equal(t, KindPattern, out[0].Kind())

	found, ok := db.Pattern("T")
	require.True(t, ok)
	require.Equal(t, pat, found)
	require.NotNil(t, found.Signatures()[0].Call, "NewPattern must wire a Call signature per row")
}
