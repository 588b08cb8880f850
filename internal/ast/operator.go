package ast

import "kqlbind/internal/diag"

// OperatorKind discriminates the ~35 pipe-chained query operators
// (spec §4.9). opbind switches on this the way the teacher's
// apply.StatementAnalyzer.analyzeNode switches on ast.StmtNode's
// concrete type.
type OperatorKind int

const (
	OpFilter OperatorKind = iota
	OpExtend
	OpProject
	OpProjectAway
	OpProjectRename
	OpProjectReorder
	OpProjectKeep
	OpSummarize
	OpDistinct
	OpTop
	OpTopHitters
	OpTopNested
	OpSort
	OpSample
	OpSampleDistinct
	OpTake
	OpSerialize
	OpAs
	OpJoin
	OpUnion
	OpLookup
	OpMakeSeries
	OpMvExpand
	OpMvApply
	OpFork
	OpPartition
	OpFind
	OpSearch
	OpRange
	OpEvaluate
	OpInvoke
	OpRender
	OpCount
	OpGetSchema
	OpPrint
	OpConsume
	OpExecuteAndCache
	OpParse
	OpReduce
)

// Assignment is a `name = expr` clause, used by extend, project,
// summarize's aggregate list, and summarize's `by` list. Name is empty
// when the expression is a bare column reference being carried through
// rather than renamed (`project a, b = c`).
type Assignment struct {
	Name string
	Expr Expr
}

// ColumnSpec is one entry of a project/project-away/project-reorder
// column list: either a bare name, a `*` wildcard, or (project-reorder
// only) a name tagged ascending/descending.
type ColumnSpec struct {
	Name       string
	Wildcard   bool
	Descending bool
}

// Pipeline is a query: a source table/function-call reference followed
// by zero or more piped operators, bound strictly left to right (spec
// §5's ordering guarantee).
type Pipeline struct {
	Source    Expr
	Operators []*Operator
}

// Operator is one pipe stage. Not every field is meaningful for every
// Kind; opbind documents, per Kind, which fields it reads:
//
//   - OpFilter:                     Predicate
//   - OpExtend:                     Assignments
//   - OpProject/OpProjectKeep:      Columns (wildcards expanded by opbind)
//   - OpProjectAway:                Columns
//   - OpProjectRename:              Assignments (Name = new, Expr = NameRef(old))
//   - OpProjectReorder:             Columns (Descending tags ignored beyond validation)
//   - OpSummarize:                  Assignments (aggregates), By
//   - OpDistinct:                   Columns
//   - OpTop/OpTake:                 Limit, By (Top's order-by)
//   - OpTopHitters/OpTopNested:     Limit, Assignments
//   - OpSort:                       By
//   - OpSample/OpSampleDistinct:    Limit
//   - OpSerialize:                  (no fields; marks row scope serialized)
//   - OpAs:                         Name
//   - OpJoin/OpLookup:              JoinKind, Right, On
//   - OpUnion:                      JoinKind ("outer"/"inner"), Sources
//   - OpMakeSeries:                 Assignments, By, ToType, Limit
//   - OpMvExpand/OpMvApply:         Assignments, ToType, Limit, Inner (mv-apply only)
//   - OpFork/OpPartition:           Branches, By (partition's grouping expr)
//   - OpFind/OpSearch:              Predicate, Sources
//   - OpRange:                      Name, From, To, Step
//   - OpEvaluate/OpInvoke:          Call
//   - OpRender/OpCount/OpGetSchema/OpPrint/OpConsume/OpExecuteAndCache/
//     OpParse/OpReduce:            Assignments/Columns as applicable; these have
//                                   small, fixed schema transforms (spec §4.9's
//                                   last bullet) and rarely need more than a name.
type Operator struct {
	Loc  diag.Location
	Kind OperatorKind

	Predicate   Expr
	Assignments []Assignment
	Columns     []ColumnSpec
	By          []Assignment

	Limit int
	Name  string

	JoinKind string
	Right    *Pipeline
	On       []Expr

	Sources []Expr
	ToType  *TypeOf

	From, To, Step Expr

	Inner    *Pipeline
	Branches []*Pipeline

	Call *Call
}

func (o *Operator) Location() diag.Location { return o.Loc }
