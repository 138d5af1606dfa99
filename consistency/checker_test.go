package consistency_test

import (
	"strings"
	"testing"

	"github.com/c360studio/nidmcheck/consistency"
	"github.com/c360studio/nidmcheck/finding"
	"github.com/c360studio/nidmcheck/graph"
	"github.com/c360studio/nidmcheck/ontology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const prefixes = `@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .
@prefix nidm: <http://www.incf.org/ns/nidash/nidm#> .
@prefix ex: <http://example.org/> .
`

func loadTurtle(t *testing.T, name, body string) *graph.Graph {
	t.Helper()
	g, err := graph.Load(strings.NewReader(prefixes+body), graph.FormatTurtle, name)
	require.NoError(t, err)
	return g
}

func rangeChecker(t *testing.T) *consistency.Checker {
	t.Helper()
	m, err := ontology.LoadFile("testdata/range-ontology.ttl")
	require.NoError(t, err)
	return consistency.NewChecker(m, consistency.Options{}, nil)
}

func TestVocabularyRoundTrip(t *testing.T) {
	m, err := ontology.Default()
	require.NoError(t, err)
	g, err := graph.LoadFile("testdata/valid.ttl")
	require.NoError(t, err)

	c := consistency.NewChecker(m, consistency.Options{}, nil)
	res := c.Check(g, "example001")

	assert.Zero(t, res.Len(), "findings: %v", res.Findings())
	assert.Empty(t, res.Findings())
}

func TestUnknownClass(t *testing.T) {
	g := loadTurtle(t, "example001", `ex:ExampleNode a ex:UnknownClass .`)

	agg := rangeChecker(t).CheckClasses(g, "example001")

	assert.Equal(t, map[string][]string{
		"http://example.org/UnknownClass": {"example001"},
	}, agg.AsMap())
	findings := agg.Findings()
	require.Len(t, findings, 1)
	assert.Equal(t, finding.UnrecognizedClass, findings[0].Kind)
}

func TestUnknownPredicate(t *testing.T) {
	g := loadTurtle(t, "example002", `
ex:a ex:hasMap ex:b ;
    ex:madeUp "x" .
ex:b a nidm:StatisticMap .
`)

	unrecognized, violations := rangeChecker(t).CheckAttributes(g, "example002")
	assert.Equal(t, []string{"http://example.org/madeUp"}, unrecognized.Keys())
	assert.Zero(t, violations.Len())
}

func TestRangeViolations(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "wrong class",
			body: `ex:a ex:hasStatisticMap ex:m .
ex:m a nidm:ContrastMap .`,
			want: "<http://example.org/hasStatisticMap> <http://example.org/m>: expected http://www.incf.org/ns/nidash/nidm#StatisticMap, found http://www.incf.org/ns/nidash/nidm#ContrastMap",
		},
		{
			name: "untyped object",
			body: `ex:a ex:hasStatisticMap ex:m .`,
			want: "<http://example.org/hasStatisticMap> <http://example.org/m>: expected http://www.incf.org/ns/nidash/nidm#StatisticMap, found untyped node",
		},
		{
			name: "literal for class range",
			body: `ex:a ex:hasMap "map" .`,
			want: `<http://example.org/hasMap> "map": expected http://www.incf.org/ns/nidash/nidm#Map, found literal http://www.w3.org/2001/XMLSchema#string`,
		},
		{
			name: "wrong datatype",
			body: `ex:a ex:threshold "0.05"^^xsd:double .`,
			want: `<http://example.org/threshold> "0.05"^^<http://www.w3.org/2001/XMLSchema#double>: expected http://www.w3.org/2001/XMLSchema#float, found http://www.w3.org/2001/XMLSchema#double`,
		},
		{
			name: "node for datatype range",
			body: `ex:a ex:threshold ex:b .`,
			want: `<http://example.org/threshold> <http://example.org/b>: expected http://www.w3.org/2001/XMLSchema#float, found named_node`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := loadTurtle(t, "example003", tt.body)
			_, violations := rangeChecker(t).CheckAttributes(g, "example003")
			require.Equal(t, 1, violations.Len(), violations.Keys())
			assert.Equal(t, tt.want, violations.Keys()[0])
			assert.Equal(t, []string{"example003"}, violations.Sources(tt.want))
		})
	}
}

func TestRangeSatisfied(t *testing.T) {
	g := loadTurtle(t, "ok", `
ex:a ex:hasMap ex:m ;
    ex:hasStatisticMap ex:m ;
    ex:count "12"^^xsd:int ;
    ex:threshold "0.05"^^xsd:float .
ex:m a nidm:StatisticMap .
ex:s a ex:Subject .
`)
	res := rangeChecker(t).Check(g, "ok")
	assert.Zero(t, res.Len(), res.Findings())
}

func TestExternalNamespaces(t *testing.T) {
	m, err := ontology.LoadFile("testdata/range-ontology.ttl")
	require.NoError(t, err)
	c := consistency.NewChecker(m, consistency.Options{
		ExternalNamespaces: []string{"http://purl.org/dc/terms/"},
	}, nil)

	g := loadTurtle(t, "ext", `
ex:a <http://purl.org/dc/terms/title> "T" ;
    a <http://purl.org/dc/terms/Agent> .
`)
	assert.Zero(t, c.Check(g, "ext").Len())
}

func TestResultMergeAcrossExamples(t *testing.T) {
	c := rangeChecker(t)
	total := consistency.NewResult()
	for _, src := range []string{"example001", "example002", "example001"} {
		g := loadTurtle(t, src, `ex:n a ex:UnknownClass ; ex:madeUp "x" .`)
		total.Merge(c.Check(g, src))
	}
	total.Merge(nil)

	assert.Equal(t, 2, total.Len())
	assert.Equal(t, []string{"example001", "example002"}, total.UnrecognizedClasses.Sources("http://example.org/UnknownClass"))
	assert.Len(t, total.Findings(), 4)
}
