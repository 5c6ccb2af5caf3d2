package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramlens/ramlens/ram"
)

const transitiveClosure = `
PROGRAM
 SUBROUTINE stratum_0_path
  IO edge {"operation": "input", "filename": "edge.dl"}
  QUERY
   FOR t0 IN edge
    IF NOT (t0.0, t0.1) IN path
     INSERT (t0.0, t0.1) INTO path
  LOOP
   QUERY
    FOR t0 IN @delta_path
     FOR t1 IN edge ON INDEX t1.0 = t0.1
      IF NOT (t0.0, t1.1) IN path
       INSERT (t0.0, t1.1) INTO @new_path
   EXIT ISEMPTY(@new_path)
   SWAP (@delta_path, @new_path)
   CLEAR @new_path
  END LOOP
  IO path {"operation": "output", "filename": "path.csv", "delimiter": ","}
 END SUBROUTINE
END PROGRAM
`

func TestParseTransitiveClosure(t *testing.T) {
	prog, err := Parse(transitiveClosure)
	require.NoError(t, err)
	require.Len(t, prog.Subroutines, 1)

	sub := prog.Subroutines[0]
	assert.Equal(t, "stratum_0_path", sub.Name)
	assert.Equal(t, 0, sub.Stratum)
	require.Len(t, sub.Statements, 4)

	io, ok := sub.Statements[0].(ram.IO)
	require.True(t, ok, "first statement should be IO")
	assert.Equal(t, "edge", io.Relation.Name)
	assert.Equal(t, "input", io.Options["operation"].Text())

	query, ok := sub.Statements[1].(ram.Query)
	require.True(t, ok, "second statement should be Query")
	forLoop, ok := query.Op.(ram.ForLoop)
	require.True(t, ok)
	assert.Equal(t, "t0", forLoop.BoundVar)
	assert.Nil(t, forLoop.OnIndex)

	guard, ok := forLoop.Inner.(ram.If)
	require.True(t, ok)
	assert.False(t, guard.Breaks)
	not, ok := guard.Cond.(ram.Not)
	require.True(t, ok)
	in, ok := not.Cond.(ram.In)
	require.True(t, ok)
	assert.Equal(t, "path", in.Relation.Name)
	require.Len(t, in.Elems, 2)

	loop, ok := sub.Statements[2].(ram.Loop)
	require.True(t, ok, "third statement should be Loop")
	require.Len(t, loop.Body, 4)

	inner := loop.Body[0].(ram.Query).Op.(ram.ForLoop)
	assert.Equal(t, ram.TagCurrent, inner.Relation.Tag)
	assert.Equal(t, "path", inner.Relation.Name)

	seek := inner.Inner.(ram.ForLoop)
	require.NotNil(t, seek.OnIndex)
	cmp, ok := seek.OnIndex.(ram.Compare)
	require.True(t, ok)
	assert.Equal(t, ram.OpEQ, cmp.Op)
	assert.Equal(t, ram.Ref{Tuple: "t1", Column: 0}, cmp.LHS)
	assert.Equal(t, ram.Ref{Tuple: "t0", Column: 1}, cmp.RHS)

	exit, ok := loop.Body[1].(ram.Exit)
	require.True(t, ok)
	empty, ok := exit.Cond.(ram.IsEmpty)
	require.True(t, ok)
	assert.Equal(t, ram.TagNext, empty.Relation.Tag)

	swap := loop.Body[2].(ram.Swap)
	assert.Equal(t, ram.TagCurrent, swap.A.Tag)
	assert.Equal(t, ram.TagNext, swap.B.Tag)
}

func TestParseDebugStatement(t *testing.T) {
	src := `
PROGRAM
 SUBROUTINE stratum_1_a
  DEBUG "path(x,y) :- edge(x,y)."
   QUERY
    FOR t0 IN edge
     INSERT (t0.0) INTO path
 END SUBROUTINE
END PROGRAM
`
	prog, err := Parse(src)
	require.NoError(t, err)

	debug, ok := prog.Subroutines[0].Statements[0].(ram.Debug)
	require.True(t, ok)
	assert.Equal(t, "path(x,y) :- edge(x,y).", debug.Info.Text())
	_, ok = debug.Inner.(ram.Query)
	assert.True(t, ok, "debug must wrap the inner statement unchanged")
}

func TestParseDeclareAndUnpack(t *testing.T) {
	src := `
PROGRAM
 SUBROUTINE stratum_2_stats
  QUERY
   DECLARE t0.0 = COUNT t1 IN path
    INSERT (t0.0) INTO stats
  QUERY
   FOR t0 IN tree
    UNPACK v0 FROM t0.1
     IF v0.0 != 0 BREAK
      ERASE (t0.0) FROM tree
 END SUBROUTINE
END PROGRAM
`
	prog, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, prog.Subroutines[0].Statements, 2)

	declare, ok := prog.Subroutines[0].Statements[0].(ram.Query).Op.(ram.Declare)
	require.True(t, ok)
	assert.Equal(t, ram.AggCount, declare.Aggregator)
	assert.Equal(t, "t1", declare.BoundVar)
	assert.Equal(t, "path", declare.Source.Name)

	unpack, ok := prog.Subroutines[0].Statements[1].(ram.Query).Op.(ram.ForLoop).Inner.(ram.Unpack)
	require.True(t, ok)
	assert.Equal(t, "v0", unpack.Ident)

	breaker, ok := unpack.Inner.(ram.If)
	require.True(t, ok)
	assert.True(t, breaker.Breaks)
	_, ok = breaker.Inner.(ram.Erase)
	assert.True(t, ok)
}

func TestParseConditionPrecedence(t *testing.T) {
	src := `
PROGRAM
 SUBROUTINE stratum_0_a
  EXIT t0.0 = 1 AND t0.1 = 2 OR NOT ISEMPTY(path)
 END SUBROUTINE
END PROGRAM
`
	prog, err := Parse(src)
	require.NoError(t, err)

	exit := prog.Subroutines[0].Statements[0].(ram.Exit)
	or, ok := exit.Cond.(ram.Or)
	require.True(t, ok, "OR must bind loosest")
	require.Len(t, or.List, 2)

	and, ok := or.List[0].(ram.And)
	require.True(t, ok)
	assert.Len(t, and.List, 2)

	not, ok := or.List[1].(ram.Not)
	require.True(t, ok)
	_, ok = not.Cond.(ram.IsEmpty)
	assert.True(t, ok)
}

func TestParseParenDisambiguation(t *testing.T) {
	tests := []struct {
		name  string
		cond  string
		check func(t *testing.T, cond ram.Condition)
	}{
		{
			name: "tuple membership",
			cond: "(t0.0, t0.1) IN path",
			check: func(t *testing.T, cond ram.Condition) {
				in, ok := cond.(ram.In)
				require.True(t, ok)
				assert.Len(t, in.Elems, 2)
			},
		},
		{
			name: "bracketed condition",
			cond: "(t0.0 = 1 OR t0.1 = 2)",
			check: func(t *testing.T, cond ram.Condition) {
				br, ok := cond.(ram.BracketedCond)
				require.True(t, ok)
				_, ok = br.Cond.(ram.Or)
				assert.True(t, ok)
			},
		},
		{
			name: "bracketed comparison operand",
			cond: "(t0.0 + 1) = t0.1",
			check: func(t *testing.T, cond ram.Condition) {
				cmp, ok := cond.(ram.Compare)
				require.True(t, ok)
				br, ok := cmp.LHS.(ram.BracketedElem)
				require.True(t, ok)
				_, ok = br.Elem.(ram.Add)
				assert.True(t, ok)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "PROGRAM\n SUBROUTINE stratum_0_a\n  EXIT " + tt.cond + "\n END SUBROUTINE\nEND PROGRAM"
			prog, err := Parse(src)
			require.NoError(t, err)
			tt.check(t, prog.Subroutines[0].Statements[0].(ram.Exit).Cond)
		})
	}
}

func TestParseElements(t *testing.T) {
	src := `
PROGRAM
 SUBROUTINE stratum_0_a
  QUERY
   FOR t0 IN edge
    INSERT (t0.0 + 1 - 2, UNDEF, cat("a", t0.1), @myfun(t0.0), [1, t0.0], 3.5) INTO out
 END SUBROUTINE
END PROGRAM
`
	prog, err := Parse(src)
	require.NoError(t, err)

	insert := prog.Subroutines[0].Statements[0].(ram.Query).Op.(ram.ForLoop).Inner.(ram.Insert)
	require.Len(t, insert.Tuple, 6)

	// t0.0 + 1 - 2 nests the addition inside the subtraction chain.
	sub, ok := insert.Tuple[0].(ram.Sub)
	require.True(t, ok)
	_, ok = sub.List[0].(ram.Add)
	assert.True(t, ok)

	_, ok = insert.Tuple[1].(ram.Undefined)
	assert.True(t, ok)

	builtin, ok := insert.Tuple[2].(ram.FunctorCall)
	require.True(t, ok)
	assert.False(t, builtin.Functor.UserDefined)
	assert.Equal(t, "cat", builtin.Functor.Name)

	user, ok := insert.Tuple[3].(ram.FunctorCall)
	require.True(t, ok)
	assert.True(t, user.Functor.UserDefined)
	assert.Equal(t, "myfun", user.Functor.Name)

	record, ok := insert.Tuple[4].(ram.Record)
	require.True(t, ok)
	assert.Len(t, record.List, 2)

	lit, ok := insert.Tuple[5].(ram.Literal)
	require.True(t, ok)
	assert.Equal(t, ram.ValueFloat, lit.Value.Kind)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "unrecognized statement", input: "PROGRAM\n SUBROUTINE stratum_0_a\n  FROB x\n END SUBROUTINE\nEND PROGRAM"},
		{name: "missing stratum number", input: "PROGRAM\n SUBROUTINE main\n END SUBROUTINE\nEND PROGRAM"},
		{name: "trailing input", input: "PROGRAM\nEND PROGRAM\nEXTRA"},
		{name: "bad tag", input: "PROGRAM\n SUBROUTINE stratum_0_a\n  CLEAR @stale_path\n END SUBROUTINE\nEND PROGRAM"},
		{name: "unrecognized aggregator", input: "PROGRAM\n SUBROUTINE stratum_0_a\n  QUERY\n   DECLARE t0.0 = MEDIAN t1 IN path\n    INSERT (t0.0) INTO out\n END SUBROUTINE\nEND PROGRAM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			var parseErr *ParseError
			assert.True(t, errors.As(err, &parseErr), "expected *ParseError, got %T", err)
		})
	}
}
