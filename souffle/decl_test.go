package souffle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeclarations(t *testing.T) {
	src := `// transitive closure
.decl edge(x: number, y: number)
.decl path(x: number, y: number)
path(x, y) :- edge(x, y).
path(x, z) :- path(x, y), edge(y, z).
.output path
`
	catalog, err := ParseDeclarations(src)
	require.NoError(t, err)
	require.Len(t, catalog, 2)

	edge, ok := catalog.Lookup("edge")
	require.True(t, ok)
	require.Len(t, edge.Attrs, 2)
	assert.Equal(t, "x", edge.Attrs[0].Name)
	assert.Equal(t, "number", edge.Attrs[0].Type)

	assert.Equal(t, []string{"edge", "path"}, catalog.Names())
}

func TestParseDeclarationsKeepsNonPrimitiveTypes(t *testing.T) {
	catalog, err := ParseDeclarations(".decl events(who: symbol, when: Time, payload: Payload)")
	require.NoError(t, err)

	events, ok := catalog.Lookup("events")
	require.True(t, ok)
	assert.Equal(t, "Time", events.Attrs[1].Type)
	assert.Equal(t, "Payload", events.Attrs[2].Type)
}

func TestParseDeclarationsNullaryRelation(t *testing.T) {
	catalog, err := ParseDeclarations(".decl flag()")
	require.NoError(t, err)

	flag, ok := catalog.Lookup("flag")
	require.True(t, ok)
	assert.Empty(t, flag.Attrs)
}

func TestParseDeclarationsIgnoresIndentedAndBlankLines(t *testing.T) {
	src := "\n   .decl a(x: number)\n\n\t.decl b(y: symbol)\n"
	catalog, err := ParseDeclarations(src)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, catalog.Names())
}

func TestParseDeclarationsLastDeclWins(t *testing.T) {
	src := ".decl r(x: number)\n.decl r(x: number, y: number)"
	catalog, err := ParseDeclarations(src)
	require.NoError(t, err)

	r, ok := catalog.Lookup("r")
	require.True(t, ok)
	assert.Len(t, r.Attrs, 2)
}

func TestParseDeclarationsMalformed(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"missing paren", ".decl broken"},
		{"unclosed paren", ".decl broken(x: number"},
		{"empty name", ".decl (x: number)"},
		{"untyped attribute", ".decl broken(x)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDeclarations(tc.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 1")
		})
	}
}
