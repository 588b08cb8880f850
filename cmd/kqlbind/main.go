// Package main contains the cli implementation of the tool. It uses cobra
// package for cli tool implementation.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"kqlbind/internal/ast"
	"kqlbind/internal/binder"
	"kqlbind/internal/builtin"
	"kqlbind/internal/catalog"
	"kqlbind/internal/config"
	"kqlbind/internal/expand"
	"kqlbind/internal/queryio"
	"kqlbind/internal/symbol"
)

type sessionFlags struct {
	configPath string
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "kqlbind",
		Short: "Semantic binder for a tabular query language",
	}

	rootCmd.AddCommand(bindCmd())
	rootCmd.AddCommand(scopeCmd())
	rootCmd.AddCommand(rowscopeCmd())
	rootCmd.AddCommand(rettypeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newSession loads flags.configPath and builds a Binder over the
// catalog it names. Every subcommand shares this setup: one
// configuration file, one catalog snapshot, one process-wide expansion
// cache (spec §5's "one Cache shared by every binding in the process").
func newSession(flags *sessionFlags) (*binder.Binder, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	configureLogging(cfg.LogLevel)

	snap, err := catalog.NewLoader().Snapshot(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("kqlbind: load catalog: %w", err)
	}

	return binder.New(snap, expand.NewCache()), nil
}

func configureLogging(level string) {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}

// readPipeline decodes the JSON pipeline document at path. The real
// lexer/parser is out of scope (spec §1); this is the CLI's stand-in
// for "a front end already parsed this" — see internal/queryio.
func readPipeline(path string) (*ast.Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("kqlbind: read query file %q: %w", path, err)
	}
	p, err := queryio.DecodePipeline(data)
	if err != nil {
		return nil, fmt.Errorf("kqlbind: parse query file %q: %w", path, err)
	}
	return p, nil
}

func addConfigFlag(cmd *cobra.Command, flags *sessionFlags) {
	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "kqlbind.toml", "Path to the process configuration file")
}

type diagnosticPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

type columnPayload struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type bindPayload struct {
	TableName   string              `json:"table_name"`
	IsOpen      bool                `json:"is_open"`
	Columns     []columnPayload     `json:"columns"`
	Diagnostics []diagnosticPayload `json:"diagnostics"`
}

func bindCmd() *cobra.Command {
	flags := &sessionFlags{}
	cmd := &cobra.Command{
		Use:   "bind <query.json>",
		Short: "Bind a query and report its final row scope and diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runBind(flags, args[0])
		},
	}
	addConfigFlag(cmd, flags)
	return cmd
}

func runBind(flags *sessionFlags, queryPath string) error {
	b, err := newSession(flags)
	if err != nil {
		return err
	}
	pipeline, err := readPipeline(queryPath)
	if err != nil {
		return err
	}

	result, err := b.Bind(pipeline)
	if err != nil {
		return fmt.Errorf("kqlbind: bind: %w", err)
	}

	payload := bindPayload{Diagnostics: []diagnosticPayload{}}
	if result.RowScope != nil {
		payload.TableName = result.RowScope.Name()
		payload.IsOpen = result.RowScope.IsOpen()
		for _, c := range result.RowScope.Columns() {
			payload.Columns = append(payload.Columns, columnPayload{Name: c.Name(), Type: c.Type().Name()})
		}
	}
	for _, d := range result.Diags.Items() {
		payload.Diagnostics = append(payload.Diagnostics, diagnosticPayload{
			Kind:    d.Kind.String(),
			Message: d.Error(),
			Start:   d.Location.Start,
			End:     d.Location.End,
		})
	}

	return printJSON(payload)
}

func rowscopeCmd() *cobra.Command {
	flags := &sessionFlags{}
	var stageIndex int
	cmd := &cobra.Command{
		Use:   "rowscope <query.json>",
		Short: "Report the row scope after the operator at index N (0 = the first operator)",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runRowScope(flags, args[0], stageIndex)
		},
	}
	addConfigFlag(cmd, flags)
	cmd.Flags().IntVarP(&stageIndex, "stage", "s", -1, "Operator index to inspect (-1 = final row scope)")
	return cmd
}

func runRowScope(flags *sessionFlags, queryPath string, stageIndex int) error {
	b, err := newSession(flags)
	if err != nil {
		return err
	}
	pipeline, err := readPipeline(queryPath)
	if err != nil {
		return err
	}

	result, err := b.Bind(pipeline)
	if err != nil {
		return fmt.Errorf("kqlbind: bind: %w", err)
	}

	table := result.RowScope
	if stageIndex >= 0 && stageIndex < len(pipeline.Operators) {
		row, ok := b.GetRowScope(pipeline.Operators[stageIndex])
		if !ok {
			return fmt.Errorf("kqlbind: no recorded row scope at operator %d", stageIndex)
		}
		table = row
	}

	payload := bindPayload{Diagnostics: []diagnosticPayload{}}
	if table != nil {
		payload.TableName = table.Name()
		payload.IsOpen = table.IsOpen()
		for _, c := range table.Columns() {
			payload.Columns = append(payload.Columns, columnPayload{Name: c.Name(), Type: c.Type().Name()})
		}
	}
	return printJSON(payload)
}

type symbolPayload struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

func scopeCmd() *cobra.Command {
	flags := &sessionFlags{}
	var stageIndex int
	cmd := &cobra.Command{
		Use:   "scope <query.json>",
		Short: "List every symbol resolvable by a bare name after the Nth operator",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runScope(flags, args[0], stageIndex)
		},
	}
	addConfigFlag(cmd, flags)
	cmd.Flags().IntVarP(&stageIndex, "stage", "s", 0, "Operator index to inspect (0 = the source)")
	return cmd
}

func runScope(flags *sessionFlags, queryPath string, stageIndex int) error {
	b, err := newSession(flags)
	if err != nil {
		return err
	}
	pipeline, err := readPipeline(queryPath)
	if err != nil {
		return err
	}
	if _, err := b.Bind(pipeline); err != nil {
		return fmt.Errorf("kqlbind: bind: %w", err)
	}

	var node ast.Node = pipeline.Source
	if stageIndex > 0 && stageIndex-1 < len(pipeline.Operators) {
		node = pipeline.Operators[stageIndex-1]
	}

	syms, ok := b.GetSymbolsInScope(node)
	if !ok {
		return fmt.Errorf("kqlbind: no recorded scope at operator %d", stageIndex)
	}

	payload := make([]symbolPayload, 0, len(syms))
	for _, s := range syms {
		payload = append(payload, symbolPayload{Name: s.Name(), Kind: symbolKindName(s)})
	}
	return printJSON(payload)
}

func symbolKindName(s symbol.Symbol) string {
	switch s.(type) {
	case *symbol.Column:
		return "column"
	case *symbol.Table:
		return "table"
	case *symbol.Function:
		return "function"
	case *symbol.Database:
		return "database"
	case *symbol.Cluster:
		return "cluster"
	case *symbol.Variable:
		return "local"
	default:
		return "unknown"
	}
}

type rettypePayload struct {
	ResultType string `json:"result_type"`
	Columns    []columnPayload `json:"columns,omitempty"`
}

// rettypeCmd exercises GetComputedReturnType directly, outside a full
// Bind: it registers body.json as a Computed signature's body, with one
// ParamDeclared parameter per scalar type name given on the command
// line, then reports the type the body binds to.
func rettypeCmd() *cobra.Command {
	flags := &sessionFlags{}
	var argTypeNames []string
	cmd := &cobra.Command{
		Use:   "rettype <body.json>",
		Short: "Resolve the return type of a computed function body against argument types",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runRettype(flags, args[0], argTypeNames)
		},
	}
	addConfigFlag(cmd, flags)
	cmd.Flags().StringSliceVarP(&argTypeNames, "arg-type", "t", nil, "Scalar type name of each body parameter, in order (repeatable)")
	return cmd
}

func runRettype(flags *sessionFlags, bodyPath string, argTypeNames []string) error {
	b, err := newSession(flags)
	if err != nil {
		return err
	}
	body, err := readPipeline(bodyPath)
	if err != nil {
		return err
	}

	params := make([]*symbol.Parameter, 0, len(argTypeNames))
	argTypes := make([]symbol.Type, 0, len(argTypeNames))
	for i, name := range argTypeNames {
		t, ok := builtin.LookupScalar(name)
		if !ok {
			return fmt.Errorf("kqlbind: unknown scalar type %q", name)
		}
		pname := fmt.Sprintf("arg%d", i)
		params = append(params, symbol.NewDeclaredParameter(pname, []symbol.Type{t}))
		argTypes = append(argTypes, t)
	}

	sig := symbol.NewComputedSignature(params, "")
	b.RegisterComputedBody(sig, body)

	result, err := b.GetComputedReturnType(sig, argTypes, nil)
	if err != nil {
		return fmt.Errorf("kqlbind: rettype: %w", err)
	}

	payload := rettypePayload{ResultType: result.Name()}
	if table, ok := result.(*symbol.Table); ok {
		for _, c := range table.Columns() {
			payload.Columns = append(payload.Columns, columnPayload{Name: c.Name(), Type: c.Type().Name()})
		}
	}
	return printJSON(payload)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("kqlbind: encode output: %w", err)
	}
	return nil
}
