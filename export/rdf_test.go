package export_test

import (
	"strings"
	"testing"

	"github.com/c360studio/nidmcheck/export"
	"github.com/c360studio/nidmcheck/graph"
	"github.com/c360studio/nidmcheck/vocabulary/nidm"
	"github.com/c360studio/nidmcheck/vocabulary/rdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New("sample")
	tstat := graph.NewNamedNode("http://example.org/tstat")
	space := graph.NewBlankNode("space")
	add := func(s, p, o graph.Term) {
		st, err := graph.NewStatement(s, p, o)
		require.NoError(t, err)
		require.NoError(t, g.Add(st))
	}
	add(tstat, graph.NewNamedNode(nidm.PropErrorDegreesOfFreedom), graph.NewTypedLiteral("72.0", rdf.XSDFloat))
	add(tstat, graph.NewNamedNode(rdf.Type), graph.NewNamedNode(nidm.ClassStatisticMap))
	add(tstat, graph.NewNamedNode(rdf.Type), graph.NewNamedNode(nidm.ProvEntity))
	add(tstat, graph.NewNamedNode(nidm.PropInCoordinateSpace), space)
	add(space, graph.NewNamedNode(nidm.PropVoxelUnits), graph.NewLiteral("['mm', 'mm', 'mm']"))
	add(tstat, graph.NewNamedNode(rdf.RDFS+"label"), graph.NewLangLiteral("T map", "en"))
	return g.Freeze()
}

func TestExportNTriples(t *testing.T) {
	out, err := export.NewExporter().Export(sampleGraph(t), export.FormatNTriples)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	// Named subjects sort before blank ones.
	assert.True(t, strings.HasPrefix(lines[0], "<http://example.org/tstat>"))
	assert.True(t, strings.HasPrefix(lines[5], "_:space"))
	for _, l := range lines {
		assert.True(t, strings.HasSuffix(l, " ."), l)
	}
}

func TestExportTurtle(t *testing.T) {
	out, err := export.NewExporter().Export(sampleGraph(t), export.FormatTurtle)
	require.NoError(t, err)

	assert.Contains(t, out, "@prefix nidm: <"+nidm.Namespace+"> .")
	assert.Contains(t, out, "<http://example.org/tstat>\n    a nidm:StatisticMap ,\n        prov:Entity ;")
	assert.Contains(t, out, `nidm:errorDegreesOfFreedom "72.0"^^xsd:float`)
	assert.Contains(t, out, `rdfs:label "T map"@en`)
	assert.Contains(t, out, "_:space\n    nidm:voxelUnits")
}

func TestExportTurtleRoundTrip(t *testing.T) {
	g := sampleGraph(t)
	out, err := export.NewExporter().Export(g, export.FormatTurtle)
	require.NoError(t, err)

	back, err := graph.Load(strings.NewReader(out), graph.FormatTurtle, "roundtrip")
	require.NoError(t, err)
	assert.Equal(t, g.Len(), back.Len())
	for st := range back.All() {
		if st.IsGround() {
			assert.True(t, g.Contains(st), st.String())
		}
	}
}

func TestExportIsCanonical(t *testing.T) {
	g := sampleGraph(t)
	e := export.NewExporter()
	first, err := e.Export(g, export.FormatNTriples)
	require.NoError(t, err)
	second, err := e.Export(g, export.FormatNTriples)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExportCustomPrefix(t *testing.T) {
	e := export.NewExporter()
	e.SetPrefix("ex", "http://example.org/")
	out, err := e.Export(sampleGraph(t), export.FormatTurtle)
	require.NoError(t, err)
	assert.Contains(t, out, "\nex:tstat\n")
}

func TestExportUnsupportedFormat(t *testing.T) {
	_, err := export.NewExporter().Export(sampleGraph(t), export.Format("jsonld"))
	assert.Error(t, err)
}

func TestFormatForPath(t *testing.T) {
	f, err := export.FormatForPath("out/mapped.TTL")
	require.NoError(t, err)
	assert.Equal(t, export.FormatTurtle, f)

	f, err = export.FormatForPath("mapped.nt")
	require.NoError(t, err)
	assert.Equal(t, export.FormatNTriples, f)

	info, ok := export.GetFormatInfo(export.FormatNTriples)
	require.True(t, ok)
	assert.Equal(t, "application/n-triples", info.MIMEType)

	_, err = export.FormatForPath("mapped.csv")
	assert.Error(t, err)
}
