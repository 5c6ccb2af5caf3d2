package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramlens/ramlens/ram"
)

func testCatalog() ram.Catalog {
	return ram.Catalog{
		"R": {Name: "R", Attrs: []ram.Attribute{
			{Name: "a", Type: "number"},
			{Name: "b", Type: "symbol"},
			{Name: "c", Type: "number"},
		}},
		"S": {Name: "S", Attrs: []ram.Attribute{
			{Name: "k", Type: "unsigned"},
			{Name: "v", Type: "float"},
		}},
	}
}

func scan(boundVar, rel string, onIndex ram.Condition, inner ram.Operation) ram.Statement {
	return ram.Query{Op: ram.ForLoop{
		BoundVar: boundVar,
		Relation: ram.RelationRef{Name: rel},
		OnIndex:  onIndex,
		Inner:    inner,
	}}
}

func insertInto(rel string) ram.Operation {
	return ram.Insert{
		Tuple:    []ram.TupleElement{ram.Ref{Tuple: "t0", Column: 0}},
		Relation: ram.RelationRef{Name: rel},
	}
}

func prog(stmts ...ram.Statement) *ram.Program {
	return &ram.Program{Subroutines: []ram.Subroutine{
		{Name: "stratum_0_test", Statements: stmts},
	}}
}

func TestInferColumnsAscending(t *testing.T) {
	// Columns referenced out of order must come out in ascending column
	// order, not reference order.
	onIndex := ram.And{List: []ram.Condition{
		ram.Compare{LHS: ram.Ref{Tuple: "t0", Column: 2}, Op: ram.OpEQ, RHS: ram.Literal{Value: ram.IntVal(1)}},
		ram.Compare{LHS: ram.Ref{Tuple: "t0", Column: 0}, Op: ram.OpEQ, RHS: ram.Literal{Value: ram.IntVal(2)}},
	}}

	indexes, err := Infer(prog(scan("t0", "R", onIndex, insertInto("S"))), testCatalog())
	require.NoError(t, err)
	require.Len(t, indexes["R"], 1)

	idx := indexes["R"][0]
	assert.Equal(t, "BTREE(a:number, c:number)", idx.TypeString())
}

func TestInferIgnoresOtherTupleVars(t *testing.T) {
	// Only columns of this scan's bound variable belong in the index.
	onIndex := ram.Compare{
		LHS: ram.Ref{Tuple: "t1", Column: 0},
		Op:  ram.OpEQ,
		RHS: ram.Ref{Tuple: "t0", Column: 1},
	}
	inner := scan("t1", "S", onIndex, insertInto("R")).(ram.Query).Op

	indexes, err := Infer(prog(scan("t0", "R", nil, inner)), testCatalog())
	require.NoError(t, err)
	assert.Empty(t, indexes["R"])
	require.Len(t, indexes["S"], 1)
	assert.Equal(t, "BTREE(k:unsigned)", indexes["S"][0].TypeString())
}

func TestInferSiblingScansAreIndependent(t *testing.T) {
	onA := ram.Compare{LHS: ram.Ref{Tuple: "t0", Column: 0}, Op: ram.OpEQ, RHS: ram.Literal{Value: ram.IntVal(1)}}
	onC := ram.Compare{LHS: ram.Ref{Tuple: "t0", Column: 2}, Op: ram.OpEQ, RHS: ram.Literal{Value: ram.IntVal(2)}}

	indexes, err := Infer(prog(
		scan("t0", "R", onA, insertInto("S")),
		scan("t0", "R", onC, insertInto("S")),
	), testCatalog())
	require.NoError(t, err)
	require.Len(t, indexes["R"], 2)

	// No cross-contamination between the two accumulators.
	assert.Equal(t, "BTREE(a:number)", indexes["R"][0].TypeString())
	assert.Equal(t, "BTREE(c:number)", indexes["R"][1].TypeString())
}

func TestInferNestedScansAreIndependent(t *testing.T) {
	onInner := ram.Compare{LHS: ram.Ref{Tuple: "t1", Column: 1}, Op: ram.OpEQ, RHS: ram.Ref{Tuple: "t0", Column: 1}}
	inner := scan("t1", "S", onInner, insertInto("R")).(ram.Query).Op

	onOuter := ram.Compare{LHS: ram.Ref{Tuple: "t0", Column: 0}, Op: ram.OpEQ, RHS: ram.Literal{Value: ram.IntVal(5)}}

	indexes, err := Infer(prog(scan("t0", "R", onOuter, inner)), testCatalog())
	require.NoError(t, err)
	require.Len(t, indexes["R"], 1)
	require.Len(t, indexes["S"], 1)
	assert.Equal(t, "BTREE(a:number)", indexes["R"][0].TypeString())
	assert.Equal(t, "BTREE(v:float)", indexes["S"][0].TypeString())
}

func TestInferKeepsDuplicateDescriptors(t *testing.T) {
	// Value-equal descriptors from different scans stay separate entries.
	on := ram.Compare{LHS: ram.Ref{Tuple: "t0", Column: 0}, Op: ram.OpEQ, RHS: ram.Literal{Value: ram.IntVal(1)}}

	indexes, err := Infer(prog(
		scan("t0", "R", on, insertInto("S")),
		scan("t0", "R", on, insertInto("S")),
	), testCatalog())
	require.NoError(t, err)
	assert.Len(t, indexes["R"], 2)
}

func TestInferUnresolvedRelation(t *testing.T) {
	on := ram.Compare{LHS: ram.Ref{Tuple: "t0", Column: 0}, Op: ram.OpEQ, RHS: ram.Literal{Value: ram.IntVal(1)}}

	_, err := Infer(prog(scan("t0", "ghost", on, insertInto("S"))), testCatalog())
	require.Error(t, err)
	var unresolved *ram.UnresolvedRelationError
	assert.True(t, errors.As(err, &unresolved))
}

func TestInferDescendsStatements(t *testing.T) {
	on := ram.Compare{LHS: ram.Ref{Tuple: "t0", Column: 1}, Op: ram.OpEQ, RHS: ram.Literal{Value: ram.StringVal("x")}}
	wrapped := ram.Debug{
		Info:  ram.StringVal("rule"),
		Inner: ram.Loop{Body: []ram.Statement{scan("t0", "R", on, insertInto("S"))}},
	}

	indexes, err := Infer(prog(wrapped), testCatalog())
	require.NoError(t, err)
	require.Len(t, indexes["R"], 1)
	assert.Equal(t, "BTREE(b:symbol)", indexes["R"][0].TypeString())
}
