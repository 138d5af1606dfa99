package graph_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/c360studio/nidmcheck/graph"
	"github.com/c360studio/nidmcheck/vocabulary/rdf"
	errs "github.com/c360studio/semstreams/pkg/errs"
	"github.com/c360studio/semstreams/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	provNS = "http://www.w3.org/ns/prov#"
	nidmNS = "http://www.incf.org/ns/nidash/nidm#"
)

func TestLoadFileTurtle(t *testing.T) {
	g, err := graph.LoadFile("testdata/small.ttl")
	require.NoError(t, err)

	assert.True(t, g.Frozen())
	assert.Equal(t, 7, g.Len())
	assert.Len(t, g.BlankNodes(), 2)

	tstat := graph.NewNamedNode("http://example.org/tstat")
	assert.Equal(t, []graph.Term{graph.NewNamedNode(nidmNS + "StatisticMap")}, g.TypesOf(tstat))

	dof := graph.NewNamedNode(nidmNS + "errorDegreesOfFreedom")
	var obj graph.Term
	for st := range g.Match(&tstat, &dof, nil) {
		obj = st.Object
	}
	assert.Equal(t, graph.NewTypedLiteral("72.0", rdf.XSDFloat), obj)
}

func TestLoadFileNTriples(t *testing.T) {
	g, err := graph.LoadFile("testdata/small.nt")
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())

	label := graph.NewNamedNode("http://example.org/label")
	for st := range g.Match(nil, &label, nil) {
		assert.Equal(t, "en", st.Object.Lang)
		assert.Equal(t, "A node", st.Object.Value)
	}
}

func TestLoadFileTriplesJSON(t *testing.T) {
	g, err := graph.LoadFile("testdata/entities.json")
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())

	subject := graph.NewNamedNode("https://nidmcheck.dev/entity/acme/nidm/example001/statistic_map/tstat")
	assert.Equal(t, []graph.Term{graph.NewNamedNode(nidmNS + "StatisticMap")}, g.TypesOf(subject))
	assert.Len(t, g.BlankNodes(), 1)
}

func TestLoadErrors(t *testing.T) {
	t.Run("malformed turtle", func(t *testing.T) {
		_, err := graph.Load(strings.NewReader("@prefix ex: <http://example.org/> .\nex:a ex:b"), graph.FormatTurtle, "broken")
		require.Error(t, err)

		var loadErr *graph.LoadError
		require.True(t, errors.As(err, &loadErr))
		assert.Equal(t, "broken", loadErr.Source)
		assert.True(t, errs.IsInvalid(err))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := graph.LoadFile("testdata/missing.ttl")
		var loadErr *graph.LoadError
		assert.True(t, errors.As(err, &loadErr))
	})

	t.Run("unknown extension", func(t *testing.T) {
		_, err := graph.LoadFile("testdata/small.csv")
		assert.Error(t, err)
	})
}

func TestLoadKeepsBlankNodesDistinct(t *testing.T) {
	// subjectOf returns the subject of the single statement whose object
	// has the given lexical value.
	subjectOf := func(t *testing.T, g *graph.Graph, value string) graph.Term {
		t.Helper()
		var subjects []graph.Term
		for st := range g.All() {
			if st.Object.IsLiteral() && st.Object.Value == value {
				subjects = append(subjects, st.Subject)
			}
		}
		require.Len(t, subjects, 1)
		return subjects[0]
	}

	t.Run("turtle", func(t *testing.T) {
		doc := `@prefix ex: <http://example.org/> .
_:b1 ex:p "labelled" .
ex:s ex:q [ ex:p "anonymous" ] .
ex:s ex:r "see _:b1" . # _:b2 in a comment
`
		g, err := graph.Load(strings.NewReader(doc), graph.FormatTurtle, "mixed")
		require.NoError(t, err)

		assert.Len(t, g.BlankNodes(), 2)
		labelled := subjectOf(t, g, "labelled")
		anonymous := subjectOf(t, g, "anonymous")
		assert.Equal(t, graph.NewBlankNode("b1"), labelled)
		assert.True(t, anonymous.IsBlank())
		assert.NotEqual(t, labelled, anonymous)
		assert.Equal(t, graph.NewNamedNode("http://example.org/s"), subjectOf(t, g, "see _:b1"))
	})

	t.Run("ntriples labels survive", func(t *testing.T) {
		doc := "_:node.1 <http://example.org/p> \"x\" .\n_:b2 <http://example.org/p> _:node.1 .\n"
		g, err := graph.Load(strings.NewReader(doc), graph.FormatNTriples, "labels")
		require.NoError(t, err)
		assert.ElementsMatch(t,
			[]graph.Term{graph.NewBlankNode("node.1"), graph.NewBlankNode("b2")},
			g.BlankNodes())
	})

	t.Run("rdfxml", func(t *testing.T) {
		doc := `<?xml version="1.0"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#" xmlns:ex="http://example.org/">
  <rdf:Description rdf:nodeID="b1">
    <ex:p>labelled</ex:p>
  </rdf:Description>
  <rdf:Description rdf:about="http://example.org/s">
    <ex:q>
      <rdf:Description>
        <ex:p>anonymous</ex:p>
      </rdf:Description>
    </ex:q>
  </rdf:Description>
</rdf:RDF>
`
		g, err := graph.Load(strings.NewReader(doc), graph.FormatRDFXML, "mixed")
		require.NoError(t, err)

		assert.Len(t, g.BlankNodes(), 2)
		assert.Equal(t, graph.NewBlankNode("b1"), subjectOf(t, g, "labelled"))
		assert.NotEqual(t, subjectOf(t, g, "labelled"), subjectOf(t, g, "anonymous"))
	})
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]graph.Format{
		"turtle": graph.FormatTurtle,
		"TTL":    graph.FormatTurtle,
		"nt":     graph.FormatNTriples,
		"owl":    graph.FormatRDFXML,
		"json":   graph.FormatTriplesJSON,
	} {
		got, err := graph.ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := graph.ParseFormat("csv")
	assert.Error(t, err)
}

func TestFromTriples(t *testing.T) {
	triples := []message.Triple{
		{Subject: "http://example.org/map", Predicate: rdf.Type, Object: nidmNS + "StatisticMap"},
		{Subject: "http://example.org/map", Predicate: nidmNS + "errorDegreesOfFreedom", Object: 72},
		{Subject: "http://example.org/map", Predicate: provNS + "wasGeneratedBy", Object: "_:act"},
		{Subject: "_:act", Predicate: nidmNS + "isMasked", Object: true},
		{Subject: "_:act", Predicate: "nidm.test.label", Object: "plain text"},
	}

	g, err := graph.FromTriples("pipeline", triples, graph.DefaultTripleOptions())
	require.NoError(t, err)
	assert.Equal(t, 5, g.Len())

	act := graph.NewBlankNode("act")
	masked := graph.NewNamedNode(nidmNS + "isMasked")
	assert.Equal(t, 1, g.Count(&act, &masked, nil))

	dof := graph.NewNamedNode(nidmNS + "errorDegreesOfFreedom")
	for st := range g.Match(nil, &dof, nil) {
		assert.Equal(t, graph.NewTypedLiteral("72", rdf.XSDInteger), st.Object)
	}

	unregistered := graph.NewNamedNode("https://nidmcheck.dev/ontology/nidm.test.label")
	assert.Equal(t, 1, g.Count(&act, &unregistered, nil))
}
