package symbol

// Table is an ordered list of Columns. When isOpen is true, undeclared
// columns are permissible; the catalog layer (not this package) infers
// them on reference and grows the table monotonically within one binder
// instance (spec §3.1, invariant 2).
//
// Table values themselves stay immutable: WithColumn returns a new Table
// with the column appended or replacing an existing same-named column.
type Table struct {
	baseSymbol
	name    string
	columns []*Column
	isOpen  bool
}

func NewTable(name string, columns []*Column, isOpen bool) *Table {
	return &Table{name: name, columns: append([]*Column(nil), columns...), isOpen: isOpen}
}

func (t *Table) Name() string       { return t.name }
func (t *Table) Kind() Kind         { return KindTable }
func (*Table) typeTag()             {}
func (t *Table) IsOpen() bool       { return t.isOpen }
func (t *Table) Columns() []*Column { return t.columns }

func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.columns {
		if EqualName(c.Name(), name) {
			return c, true
		}
	}
	return nil, false
}

// WithColumn returns a new Table with col appended, or with the
// existing same-named column replaced in place if one exists.
func (t *Table) WithColumn(col *Column) *Table {
	cols := make([]*Column, 0, len(t.columns)+1)
	replaced := false
	for _, c := range t.columns {
		if EqualName(c.Name(), col.Name()) {
			cols = append(cols, col)
			replaced = true
			continue
		}
		cols = append(cols, c)
	}
	if !replaced {
		cols = append(cols, col)
	}
	return &Table{name: t.name, columns: cols, isOpen: t.isOpen}
}

// AsTuple projects this table's columns into an unnamed Tuple, used when
// a whole-row reference ($left/$right) needs a Type rather than a Table.
func (t *Table) AsTuple() *Tuple {
	return NewTuple(t.name, t.columns)
}

func (t *Table) Members(name string, match MatchMask, out *[]Symbol) {
	if !match.Any(MatchColumn) {
		return
	}
	for _, c := range t.columns {
		appendIfMatch(out, c, name, c.Name(), MatchColumn, match)
	}
}
