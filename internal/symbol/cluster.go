package symbol

// Cluster holds the Databases visible under one catalog cluster. Open
// clusters synthesize open databases for unresolved names; see
// internal/catalog.
type Cluster struct {
	baseSymbol
	name      string
	databases []*Database
	isOpen    bool
}

func NewCluster(name string, databases []*Database, isOpen bool) *Cluster {
	return &Cluster{name: name, databases: append([]*Database(nil), databases...), isOpen: isOpen}
}

func (c *Cluster) Name() string           { return c.name }
func (c *Cluster) Kind() Kind             { return KindCluster }
func (c *Cluster) IsOpen() bool           { return c.isOpen }
func (c *Cluster) Databases() []*Database { return c.databases }

func (c *Cluster) Database(name string) (*Database, bool) {
	for _, d := range c.databases {
		if EqualName(d.Name(), name) {
			return d, true
		}
	}
	return nil, false
}

func (c *Cluster) WithDatabase(d *Database) *Cluster {
	dbs := make([]*Database, 0, len(c.databases)+1)
	replaced := false
	for _, existing := range c.databases {
		if EqualName(existing.Name(), d.Name()) {
			dbs = append(dbs, d)
			replaced = true
			continue
		}
		dbs = append(dbs, existing)
	}
	if !replaced {
		dbs = append(dbs, d)
	}
	return &Cluster{name: c.name, databases: dbs, isOpen: c.isOpen}
}

func (c *Cluster) Members(name string, match MatchMask, out *[]Symbol) {
	for _, d := range c.databases {
		appendIfMatch(out, d, name, d.Name(), MatchDatabase, match)
	}
}
