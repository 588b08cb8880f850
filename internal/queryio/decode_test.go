package queryio

import (
	"testing"

	"github.com/stretchr/testify/require"

	"kqlbind/internal/ast"
)

func TestDecodePipelineFilterAndProject(t *testing.T) {
	doc := `{
		"source": {"kind": "name", "name": "Events"},
		"operators": [
			{"kind": "filter", "predicate": {"kind": "binary", "op": "==", "left": {"kind": "name", "name": "State"}, "right": {"kind": "literal", "value": "OH", "type": "string"}}},
			{"kind": "project", "columns": [{"name": "State"}, {"name": "StartTime"}]}
		]
	}`

	p, err := DecodePipeline([]byte(doc))
	require.NoError(t, err)

	source, ok := p.Source.(*ast.NameRef)
	require.True(t, ok)
	require.Equal(t, "Events", source.Name)

	require.Len(t, p.Operators, 2)
	require.Equal(t, ast.OpFilter, p.Operators[0].Kind)
	pred, ok := p.Operators[0].Predicate.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, "==", pred.Op)

	require.Equal(t, ast.OpProject, p.Operators[1].Kind)
	require.Equal(t, []ast.ColumnSpec{{Name: "State"}, {Name: "StartTime"}}, p.Operators[1].Columns)
}

func TestDecodePipelineJoinWithRightSubpipeline(t *testing.T) {
	doc := `{
		"source": {"kind": "name", "name": "Left"},
		"operators": [
			{
				"kind": "join",
				"join_kind": "inner",
				"right": {"source": {"kind": "name", "name": "Right"}},
				"on": [{"kind": "binary", "op": "==", "left": {"kind": "name", "name": "Key"}, "right": {"kind": "name", "name": "Key"}}]
			}
		]
	}`

	p, err := DecodePipeline([]byte(doc))
	require.NoError(t, err)
	require.Len(t, p.Operators, 1)
	op := p.Operators[0]
	require.Equal(t, ast.OpJoin, op.Kind)
	require.Equal(t, "inner", op.JoinKind)
	require.NotNil(t, op.Right)
	right, ok := op.Right.Source.(*ast.NameRef)
	require.True(t, ok)
	require.Equal(t, "Right", right.Name)
	require.Len(t, op.On, 1)
}

func TestDecodePipelineUnknownOperatorKindReturnsError(t *testing.T) {
	doc := `{"source": {"kind": "name", "name": "Events"}, "operators": [{"kind": "bogus"}]}`
	_, err := DecodePipeline([]byte(doc))
	require.Error(t, err)
}

func TestDecodePipelineUnknownExprKindReturnsError(t *testing.T) {
	doc := `{"source": {"kind": "bogus"}}`
	_, err := DecodePipeline([]byte(doc))
	require.Error(t, err)
}

func TestDecodePipelineCallExpression(t *testing.T) {
	doc := `{"source": {"kind": "call", "name": "table", "args": [{"kind": "literal", "value": "Events", "type": "string"}]}}`
	p, err := DecodePipeline([]byte(doc))
	require.NoError(t, err)
	call, ok := p.Source.(*ast.Call)
	require.True(t, ok)
	require.Equal(t, "table", call.Name)
	require.Len(t, call.Args, 1)
}
