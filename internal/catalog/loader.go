// loader.go reads a declarative catalog definition — the binder's
// analogue of a live database connection when no catalog process is
// available (CLI use, tests, fixtures). Grounded directly on the
// teacher's internal/parser/toml package: a tagged top-level document
// struct decoded with BurntSushi/toml, converted by a small converter
// type into the canonical symbol.* representation.
package catalog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"kqlbind/internal/builtin"
	"kqlbind/internal/symbol"
)

// document is the top-level catalog definition file. One document
// describes one cluster; [[databases]] and their nested [[tables]] and
// [[functions]] build the Database/Table/Column/Function symbols.
type document struct {
	Cluster   clusterDoc   `toml:"cluster" yaml:"cluster"`
	Databases []databaseDoc `toml:"databases" yaml:"databases"`
}

type clusterDoc struct {
	Name   string `toml:"name" yaml:"name"`
	IsOpen bool   `toml:"open" yaml:"open"`
}

type databaseDoc struct {
	Name      string        `toml:"name" yaml:"name"`
	IsOpen    bool          `toml:"open" yaml:"open"`
	Default   bool          `toml:"default" yaml:"default"`
	Tables    []tableDoc    `toml:"tables" yaml:"tables"`
	Functions []functionDoc `toml:"functions" yaml:"functions"`
	Patterns  []patternDoc  `toml:"patterns" yaml:"patterns"`
}

// patternDoc declares a named, table-driven macro (spec §3.1's Pattern
// kind): each entry in Signatures is one literal-argument-tuple row,
// matched exactly against a call's constant arguments.
type patternDoc struct {
	Name       string                `toml:"name" yaml:"name"`
	Parameters []paramDoc            `toml:"parameters" yaml:"parameters"`
	Signatures []patternSignatureDoc `toml:"signatures" yaml:"signatures"`
}

type patternSignatureDoc struct {
	ArgumentValues []string `toml:"args" yaml:"args"`
	PathValue      string   `toml:"path" yaml:"path"`
	HasPath        bool     `toml:"has_path" yaml:"has_path"`
	Body           string   `toml:"body" yaml:"body"`
}

type tableDoc struct {
	Name    string      `toml:"name" yaml:"name"`
	IsOpen  bool        `toml:"open" yaml:"open"`
	Columns []columnDoc `toml:"columns" yaml:"columns"`
	// SchemaSQL, when set, describes Columns as a CREATE TABLE fragment
	// instead (see sqlschema.go). Columns and SchemaSQL are mutually
	// exclusive; SchemaSQL wins if both are set.
	SchemaSQL string `toml:"schema_sql" yaml:"schema_sql"`
}

type columnDoc struct {
	Name string `toml:"name" yaml:"name"`
	Type string `toml:"type" yaml:"type"`
}

type functionDoc struct {
	Name       string `toml:"name" yaml:"name"`
	Parameters []paramDoc `toml:"parameters" yaml:"parameters"`
	ReturnType string `toml:"return_type" yaml:"return_type"`
	Body       string `toml:"body" yaml:"body"`
}

type paramDoc struct {
	Name string `toml:"name" yaml:"name"`
	Type string `toml:"type" yaml:"type"`
}

// Loader parses declarative catalog files in TOML or YAML.
type Loader struct{}

func NewLoader() *Loader { return &Loader{} }

// LoadFile loads one catalog document, sniffing the format from the file
// extension (.toml -> TOML, .yml/.yaml -> YAML), defaulting to TOML. The
// returned database is whichever one the document marked `default = true`
// (nil if none did), for building a Snapshot with Loader.Snapshot.
func (l *Loader) LoadFile(path string) (*symbol.Cluster, *symbol.Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("catalog: open file %q: %w", path, err)
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return l.parseYAML(f)
	default:
		return l.parseTOML(f)
	}
}

// LoadGlob loads every file matched by pattern (a doublestar glob, e.g.
// "clusters/*.toml") and merges their databases into a single cluster
// named by the first file's cluster name. Every matched file must
// declare the same cluster name; the default database is whichever file
// first marked one `default = true`.
func (l *Loader) LoadGlob(pattern string) (*symbol.Cluster, *symbol.Database, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("catalog: bad glob %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, nil, fmt.Errorf("catalog: glob %q matched no files", pattern)
	}

	var merged *symbol.Cluster
	var defaultDB *symbol.Database
	for _, path := range matches {
		c, db, err := l.LoadFile(path)
		if err != nil {
			return nil, nil, err
		}
		if defaultDB == nil {
			defaultDB = db
		}
		if merged == nil {
			merged = c
			continue
		}
		if !symbol.EqualName(merged.Name(), c.Name()) {
			return nil, nil, fmt.Errorf("catalog: %q declares cluster %q, expected %q", path, c.Name(), merged.Name())
		}
		for _, db := range c.Databases() {
			merged = merged.WithDatabase(db)
		}
	}
	if defaultDB != nil {
		if fresh, ok := merged.Database(defaultDB.Name()); ok {
			defaultDB = fresh
		}
	}
	return merged, defaultDB, nil
}

// Snapshot loads path (a single file or, if it contains a glob
// metacharacter, a doublestar pattern) into a ready-to-bind
// catalog.Catalog, its default cluster and database set from the
// document's `default = true` database.
func (l *Loader) Snapshot(path string) (*Snapshot, error) {
	var cluster *symbol.Cluster
	var defaultDB *symbol.Database
	var err error
	if containsGlobMeta(path) {
		cluster, defaultDB, err = l.LoadGlob(path)
	} else {
		cluster, defaultDB, err = l.LoadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return NewSnapshot([]*symbol.Cluster{cluster}, cluster, defaultDB), nil
}

func containsGlobMeta(pattern string) bool {
	for _, r := range pattern {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

func (l *Loader) parseTOML(r io.Reader) (*symbol.Cluster, *symbol.Database, error) {
	var doc document
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("catalog: decode toml: %w", err)
	}
	return convert(&doc)
}

func (l *Loader) parseYAML(r io.Reader) (*symbol.Cluster, *symbol.Database, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("catalog: decode yaml: %w", err)
	}
	return convert(&doc)
}

func convert(doc *document) (*symbol.Cluster, *symbol.Database, error) {
	if doc.Cluster.Name == "" {
		return nil, nil, fmt.Errorf("catalog: cluster name is required")
	}

	var databases []*symbol.Database
	var defaultDB *symbol.Database
	for _, dd := range doc.Databases {
		db, err := convertDatabase(dd)
		if err != nil {
			return nil, nil, fmt.Errorf("catalog: database %q: %w", dd.Name, err)
		}
		databases = append(databases, db)
		if dd.Default {
			defaultDB = db
		}
	}

	return symbol.NewCluster(doc.Cluster.Name, databases, doc.Cluster.IsOpen), defaultDB, nil
}

func convertDatabase(dd databaseDoc) (*symbol.Database, error) {
	var tables []*symbol.Table
	for _, td := range dd.Tables {
		t, err := convertTable(td)
		if err != nil {
			return nil, fmt.Errorf("table %q: %w", td.Name, err)
		}
		tables = append(tables, t)
	}

	var functions []*symbol.Function
	for _, fd := range dd.Functions {
		fn, err := convertFunction(fd)
		if err != nil {
			return nil, fmt.Errorf("function %q: %w", fd.Name, err)
		}
		functions = append(functions, fn)
	}

	var patterns []*symbol.Pattern
	for _, pd := range dd.Patterns {
		pat, err := convertPattern(pd)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pd.Name, err)
		}
		patterns = append(patterns, pat)
	}

	return symbol.NewDatabase(dd.Name, tables, functions, patterns, dd.IsOpen), nil
}

// convertPattern builds a Pattern symbol from its declarative rows. Each
// row's Body is a Computed-signature body, resolved the same way a
// database function's body is (internal/expand); a real front end that
// parses rows' Body text should call Cache.RegisterBody against the
// Pattern's PatternSignature.Call signatures.
func convertPattern(pd patternDoc) (*symbol.Pattern, error) {
	var params []*symbol.Parameter
	for _, p := range pd.Parameters {
		if p.Type == "" {
			params = append(params, symbol.NewParameter(p.Name, symbol.ParamScalar))
			continue
		}
		t, ok := builtin.LookupScalar(p.Type)
		if !ok {
			return nil, fmt.Errorf("parameter %q: unknown type %q", p.Name, p.Type)
		}
		params = append(params, symbol.NewDeclaredParameter(p.Name, []symbol.Type{t}))
	}

	signatures := make([]*symbol.PatternSignature, 0, len(pd.Signatures))
	for _, sd := range pd.Signatures {
		signatures = append(signatures, &symbol.PatternSignature{
			ArgumentValues: append([]string(nil), sd.ArgumentValues...),
			PathValue:      sd.PathValue,
			HasPath:        sd.HasPath,
			Body:           sd.Body,
		})
	}

	return symbol.NewPattern(pd.Name, params, signatures), nil
}

func convertTable(td tableDoc) (*symbol.Table, error) {
	if td.SchemaSQL != "" {
		columns, err := ParseCreateTableColumns(td.SchemaSQL)
		if err != nil {
			return nil, err
		}
		return symbol.NewTable(td.Name, columns, td.IsOpen), nil
	}

	var columns []*symbol.Column
	for _, cd := range td.Columns {
		t, ok := builtin.LookupScalar(cd.Type)
		if !ok {
			return nil, fmt.Errorf("column %q: unknown type %q", cd.Name, cd.Type)
		}
		columns = append(columns, symbol.NewColumn(cd.Name, t))
	}
	return symbol.NewTable(td.Name, columns, td.IsOpen), nil
}

// convertFunction builds a database-defined-function Signature whose
// return type is Computed: its body is re-parsed and re-bound at call
// sites by internal/expand (spec §4.8), unless a return_type is given
// explicitly, in which case it is Declared.
func convertFunction(fd functionDoc) (*symbol.Function, error) {
	var params []*symbol.Parameter
	for _, pd := range fd.Parameters {
		if pd.Type == "" {
			params = append(params, symbol.NewParameter(pd.Name, symbol.ParamTabular))
			continue
		}
		t, ok := builtin.LookupScalar(pd.Type)
		if !ok {
			return nil, fmt.Errorf("parameter %q: unknown type %q", pd.Name, pd.Type)
		}
		params = append(params, symbol.NewDeclaredParameter(pd.Name, []symbol.Type{t}))
	}

	var sig *symbol.Signature
	if fd.ReturnType != "" {
		t, ok := builtin.LookupScalar(fd.ReturnType)
		if !ok {
			return nil, fmt.Errorf("return_type %q is not a known scalar", fd.ReturnType)
		}
		sig = symbol.NewDeclaredSignature(params, t)
	} else {
		sig = symbol.NewComputedSignature(params, fd.Body)
	}

	return symbol.NewFunction(fd.Name, symbol.KindFunction, []*symbol.Signature{sig}, 0, "", symbol.ResultNameNone), nil
}
