// Package queryio decodes a JSON-encoded query tree into internal/ast
// nodes for cmd/kqlbind. The real lexer/parser is out of scope (spec
// §1); this is the CLI's stand-in for "a front end already parsed
// this", mirroring the teacher's jsonMigration decoding in
// internal/apply/apply.go — a small tagged struct per wire shape,
// decoded with encoding/json, converted into the package's real types.
package queryio

import (
	"encoding/json"
	"fmt"

	"kqlbind/internal/ast"
)

// wirePipeline is the top-level document a `kqlbind bind` input file
// holds: one source expression followed by zero or more piped stages.
type wirePipeline struct {
	Source    json.RawMessage `json:"source"`
	Operators []wireOperator  `json:"operators,omitempty"`
}

type wireExpr struct {
	Kind string `json:"kind"`

	// literal
	Value any    `json:"value,omitempty"`
	Type  string `json:"type,omitempty"`

	// name / path / named-arg
	Name string `json:"name,omitempty"`

	// path / unary / named-arg value
	Left  json.RawMessage `json:"left,omitempty"`
	Right json.RawMessage `json:"right,omitempty"`

	// unary/binary operator text
	Op string `json:"op,omitempty"`

	// call
	Args []json.RawMessage `json:"args,omitempty"`

	// datatable
	Columns []wireColumnDecl  `json:"columns,omitempty"`
	Values  []json.RawMessage `json:"values,omitempty"`
}

type wireColumnDecl struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type wireOperator struct {
	Kind        string            `json:"kind"`
	Predicate   json.RawMessage   `json:"predicate,omitempty"`
	Assignments []wireAssignment  `json:"assignments,omitempty"`
	Columns     []wireColumnSpec  `json:"columns,omitempty"`
	By          []wireAssignment  `json:"by,omitempty"`
	Limit       int               `json:"limit,omitempty"`
	Name        string            `json:"name,omitempty"`
	JoinKind    string            `json:"join_kind,omitempty"`
	Right       *wirePipeline     `json:"right,omitempty"`
	On          []json.RawMessage `json:"on,omitempty"`
	Sources     []json.RawMessage `json:"sources,omitempty"`
	ToType      string            `json:"to_type,omitempty"`
	From        json.RawMessage   `json:"from,omitempty"`
	To          json.RawMessage   `json:"to,omitempty"`
	Step        json.RawMessage   `json:"step,omitempty"`
	Inner       *wirePipeline     `json:"inner,omitempty"`
	Branches    []wirePipeline    `json:"branches,omitempty"`
	Call        json.RawMessage   `json:"call,omitempty"`
}

type wireAssignment struct {
	Name string          `json:"name,omitempty"`
	Expr json.RawMessage `json:"expr"`
}

type wireColumnSpec struct {
	Name       string `json:"name,omitempty"`
	Wildcard   bool   `json:"wildcard,omitempty"`
	Descending bool   `json:"descending,omitempty"`
}

// DecodePipeline decodes one JSON-encoded pipeline document.
func DecodePipeline(data []byte) (*ast.Pipeline, error) {
	var wp wirePipeline
	if err := json.Unmarshal(data, &wp); err != nil {
		return nil, fmt.Errorf("queryio: decode pipeline: %w", err)
	}
	return convertPipeline(&wp)
}

func convertPipeline(wp *wirePipeline) (*ast.Pipeline, error) {
	source, err := convertExpr(wp.Source)
	if err != nil {
		return nil, fmt.Errorf("queryio: source: %w", err)
	}
	ops := make([]*ast.Operator, 0, len(wp.Operators))
	for i, wo := range wp.Operators {
		op, err := convertOperator(&wo)
		if err != nil {
			return nil, fmt.Errorf("queryio: operator[%d]: %w", i, err)
		}
		ops = append(ops, op)
	}
	return &ast.Pipeline{Source: source, Operators: ops}, nil
}

func convertExpr(raw json.RawMessage) (ast.Expr, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var w wireExpr
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("decode expr: %w", err)
	}

	switch w.Kind {
	case "literal":
		return &ast.Literal{Value: w.Value, ScalarName: w.Type}, nil
	case "name":
		return &ast.NameRef{Name: w.Name}, nil
	case "star":
		return &ast.Star{}, nil
	case "left":
		return &ast.LeftRef{}, nil
	case "right":
		return &ast.RightRef{}, nil
	case "path":
		left, err := convertExpr(w.Left)
		if err != nil {
			return nil, err
		}
		return &ast.Path{Left: left, Right: w.Name}, nil
	case "unary":
		operand, err := convertExpr(w.Right)
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: w.Op, Operand: operand}, nil
	case "binary":
		left, err := convertExpr(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := convertExpr(w.Right)
		if err != nil {
			return nil, err
		}
		return &ast.Binary{Op: w.Op, Left: left, Right: right}, nil
	case "call":
		args := make([]ast.Expr, 0, len(w.Args))
		for _, a := range w.Args {
			e, err := convertExpr(a)
			if err != nil {
				return nil, err
			}
			args = append(args, e)
		}
		return &ast.Call{Name: w.Name, Args: args}, nil
	case "named_arg":
		value, err := convertExpr(w.Right)
		if err != nil {
			return nil, err
		}
		return &ast.NamedArg{Name: w.Name, Value: value}, nil
	case "typeof":
		return &ast.TypeOf{ScalarName: w.Type}, nil
	case "datatable":
		cols := make([]ast.ColumnDecl, 0, len(w.Columns))
		for _, c := range w.Columns {
			cols = append(cols, ast.ColumnDecl{Name: c.Name, ScalarName: c.Type})
		}
		values := make([]ast.Expr, 0, len(w.Values))
		for _, v := range w.Values {
			e, err := convertExpr(v)
			if err != nil {
				return nil, err
			}
			values = append(values, e)
		}
		return &ast.DataTable{Columns: cols, Values: values}, nil
	default:
		return nil, fmt.Errorf("unknown expr kind %q", w.Kind)
	}
}

func convertAssignments(in []wireAssignment) ([]ast.Assignment, error) {
	out := make([]ast.Assignment, 0, len(in))
	for _, a := range in {
		e, err := convertExpr(a.Expr)
		if err != nil {
			return nil, err
		}
		out = append(out, ast.Assignment{Name: a.Name, Expr: e})
	}
	return out, nil
}

func convertColumns(in []wireColumnSpec) []ast.ColumnSpec {
	out := make([]ast.ColumnSpec, 0, len(in))
	for _, c := range in {
		out = append(out, ast.ColumnSpec{Name: c.Name, Wildcard: c.Wildcard, Descending: c.Descending})
	}
	return out
}

func convertExprs(in []json.RawMessage) ([]ast.Expr, error) {
	out := make([]ast.Expr, 0, len(in))
	for _, raw := range in {
		e, err := convertExpr(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

var operatorKinds = map[string]ast.OperatorKind{
	"filter":             ast.OpFilter,
	"extend":             ast.OpExtend,
	"project":            ast.OpProject,
	"project_away":       ast.OpProjectAway,
	"project_rename":     ast.OpProjectRename,
	"project_reorder":    ast.OpProjectReorder,
	"project_keep":       ast.OpProjectKeep,
	"summarize":          ast.OpSummarize,
	"distinct":           ast.OpDistinct,
	"top":                ast.OpTop,
	"top_hitters":        ast.OpTopHitters,
	"top_nested":         ast.OpTopNested,
	"sort":               ast.OpSort,
	"sample":             ast.OpSample,
	"sample_distinct":    ast.OpSampleDistinct,
	"take":               ast.OpTake,
	"serialize":          ast.OpSerialize,
	"as":                 ast.OpAs,
	"join":               ast.OpJoin,
	"union":              ast.OpUnion,
	"lookup":             ast.OpLookup,
	"make_series":        ast.OpMakeSeries,
	"mv_expand":          ast.OpMvExpand,
	"mv_apply":           ast.OpMvApply,
	"fork":               ast.OpFork,
	"partition":          ast.OpPartition,
	"find":               ast.OpFind,
	"search":             ast.OpSearch,
	"range":              ast.OpRange,
	"evaluate":           ast.OpEvaluate,
	"invoke":             ast.OpInvoke,
	"render":             ast.OpRender,
	"count":              ast.OpCount,
	"get_schema":         ast.OpGetSchema,
	"print":              ast.OpPrint,
	"consume":            ast.OpConsume,
	"execute_and_cache":  ast.OpExecuteAndCache,
	"parse":              ast.OpParse,
	"reduce":             ast.OpReduce,
}

func convertOperator(w *wireOperator) (*ast.Operator, error) {
	kind, ok := operatorKinds[w.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown operator kind %q", w.Kind)
	}

	op := &ast.Operator{Kind: kind, Limit: w.Limit, Name: w.Name, JoinKind: w.JoinKind}

	var err error
	if op.Predicate, err = convertExpr(w.Predicate); err != nil {
		return nil, err
	}
	if op.Assignments, err = convertAssignments(w.Assignments); err != nil {
		return nil, err
	}
	op.Columns = convertColumns(w.Columns)
	if op.By, err = convertAssignments(w.By); err != nil {
		return nil, err
	}
	if op.On, err = convertExprs(w.On); err != nil {
		return nil, err
	}
	if op.Sources, err = convertExprs(w.Sources); err != nil {
		return nil, err
	}
	if op.From, err = convertExpr(w.From); err != nil {
		return nil, err
	}
	if op.To, err = convertExpr(w.To); err != nil {
		return nil, err
	}
	if op.Step, err = convertExpr(w.Step); err != nil {
		return nil, err
	}
	if w.ToType != "" {
		op.ToType = &ast.TypeOf{ScalarName: w.ToType}
	}
	if w.Right != nil {
		if op.Right, err = convertPipeline(w.Right); err != nil {
			return nil, err
		}
	}
	if w.Inner != nil {
		if op.Inner, err = convertPipeline(w.Inner); err != nil {
			return nil, err
		}
	}
	for i := range w.Branches {
		p, err := convertPipeline(&w.Branches[i])
		if err != nil {
			return nil, err
		}
		op.Branches = append(op.Branches, p)
	}
	if len(w.Call) > 0 {
		callExpr, err := convertExpr(w.Call)
		if err != nil {
			return nil, err
		}
		call, ok := callExpr.(*ast.Call)
		if !ok {
			return nil, fmt.Errorf("operator %q: call field must be a call expression", w.Kind)
		}
		op.Call = call
	}

	return op, nil
}
