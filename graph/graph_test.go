package graph_test

import (
	"errors"
	"testing"

	"github.com/c360studio/nidmcheck/graph"
	"github.com/c360studio/nidmcheck/vocabulary/rdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ex = "http://example.org/"

func node(local string) graph.Term { return graph.NewNamedNode(ex + local) }

func mustStatement(t *testing.T, s, p, o graph.Term) graph.Statement {
	t.Helper()
	st, err := graph.NewStatement(s, p, o)
	require.NoError(t, err)
	return st
}

func TestTermString(t *testing.T) {
	tests := []struct {
		name string
		term graph.Term
		want string
	}{
		{"named node", node("a"), "<http://example.org/a>"},
		{"blank node", graph.NewBlankNode("_:b1"), "_:b1"},
		{"plain literal", graph.NewLiteral("x"), `"x"`},
		{"escaped literal", graph.NewLiteral("a \"q\"\n"), `"a \"q\"\n"`},
		{"typed literal", graph.NewTypedLiteral("1", rdf.XSDInteger), `"1"^^<http://www.w3.org/2001/XMLSchema#integer>`},
		{"lang literal", graph.NewLangLiteral("hi", "EN"), `"hi"@en`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.term.String())
		})
	}
}

func TestNewStatementValidatesPositions(t *testing.T) {
	_, err := graph.NewStatement(graph.NewLiteral("x"), node("p"), node("o"))
	assert.Error(t, err, "literal subject")

	_, err = graph.NewStatement(node("s"), graph.NewBlankNode("p"), node("o"))
	assert.Error(t, err, "blank predicate")

	_, err = graph.NewStatement(node("s"), node("p"), graph.Term{})
	assert.Error(t, err, "invalid object")

	st, err := graph.NewStatement(graph.NewBlankNode("b"), node("p"), graph.NewBlankNode("b"))
	require.NoError(t, err)
	assert.False(t, st.IsGround())
	assert.Len(t, st.BlankNodes(), 1)
}

func TestGraphAddCollapsesDuplicates(t *testing.T) {
	g := graph.New("dup")
	st := mustStatement(t, node("a"), node("p"), node("b"))
	require.NoError(t, g.Add(st))
	require.NoError(t, g.Add(st))
	assert.Equal(t, 1, g.Len())
	assert.True(t, g.Contains(st))
}

func TestGraphFreeze(t *testing.T) {
	g := graph.New("frozen").Freeze()
	err := g.Add(mustStatement(t, node("a"), node("p"), node("b")))
	assert.True(t, errors.Is(err, graph.ErrFrozen))
	assert.True(t, g.Frozen())
}

func TestGraphMatch(t *testing.T) {
	g := graph.New("match")
	a, b, c := node("a"), node("b"), node("c")
	p, q := node("p"), node("q")
	for _, st := range []graph.Statement{
		mustStatement(t, a, p, b),
		mustStatement(t, a, q, c),
		mustStatement(t, b, p, c),
		mustStatement(t, c, p, graph.NewLiteral("lit")),
	} {
		require.NoError(t, g.Add(st))
	}
	g.Freeze()

	assert.Equal(t, 4, g.Count(nil, nil, nil))
	assert.Equal(t, 2, g.Count(&a, nil, nil))
	assert.Equal(t, 3, g.Count(nil, &p, nil))
	assert.Equal(t, 1, g.Count(&a, &p, nil))
	assert.Equal(t, 2, g.Count(nil, nil, &c))
	assert.Equal(t, 0, g.Count(&c, &q, nil))

	var got []graph.Statement
	for st := range g.Match(nil, &p, nil) {
		got = append(got, st)
		break
	}
	assert.Len(t, got, 1, "early termination")
}

func TestGraphBlankNodesAndTypes(t *testing.T) {
	g := graph.New("blanks")
	b1, b2 := graph.NewBlankNode("b1"), graph.NewBlankNode("b2")
	typ := graph.NewNamedNode(rdf.Type)
	require.NoError(t, g.Add(mustStatement(t, b1, typ, node("C"))))
	require.NoError(t, g.Add(mustStatement(t, b1, node("p"), b2)))
	require.NoError(t, g.Add(mustStatement(t, b2, typ, node("D"))))

	assert.Equal(t, []graph.Term{b1, b2}, g.BlankNodes())
	assert.Equal(t, []graph.Term{node("C")}, g.TypesOf(b1))
	assert.Empty(t, g.TypesOf(node("C")))
}

func TestRelabel(t *testing.T) {
	g := graph.New("orig")
	b1, b2 := graph.NewBlankNode("b1"), graph.NewBlankNode("b2")
	require.NoError(t, g.Add(mustStatement(t, b1, node("p"), b2)))
	require.NoError(t, g.Add(mustStatement(t, node("a"), node("q"), node("b"))))
	g.Freeze()

	out, err := graph.Relabel(g, "renamed", func(b graph.Term) graph.Term {
		return graph.NewBlankNode("x" + b.Value)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len())
	assert.True(t, out.Contains(mustStatement(t, graph.NewBlankNode("xb1"), node("p"), graph.NewBlankNode("xb2"))))
	assert.True(t, out.Frozen())

	_, err = graph.Relabel(g, "collapsed", func(graph.Term) graph.Term {
		return graph.NewBlankNode("same")
	})
	assert.True(t, errors.Is(err, graph.ErrNotInjective))

	_, err = graph.Relabel(g, "named", func(graph.Term) graph.Term { return node("n") })
	assert.Error(t, err)
}
