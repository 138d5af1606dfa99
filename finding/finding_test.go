package finding_test

import (
	"encoding/json"
	"testing"

	"github.com/c360studio/nidmcheck/finding"
	"github.com/c360studio/nidmcheck/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateOrdersKeysAndSources(t *testing.T) {
	agg := finding.NewAggregate(finding.UnrecognizedClass)
	agg.Add("nidm:Foo", "example002")
	agg.Add("nidm:Bar", "example001")
	agg.Add("nidm:Foo", "example001")
	agg.Add("nidm:Foo", "example002")

	assert.Equal(t, 2, agg.Len())
	assert.Equal(t, []string{"nidm:Foo", "nidm:Bar"}, agg.Keys())
	assert.Equal(t, []string{"example002", "example001"}, agg.Sources("nidm:Foo"))
	assert.True(t, agg.Has("nidm:Bar"))
	assert.False(t, agg.Has("nidm:Baz"))
	assert.Len(t, agg.Findings(), 3)
}

func TestAggregateMerge(t *testing.T) {
	a := finding.NewAggregate(finding.RangeViolation)
	a.AddDetail("p o", "expected X", "example001")

	b := finding.NewAggregate(finding.RangeViolation)
	b.AddDetail("q o", "expected Y", "example002")
	b.AddDetail("p o", "ignored", "example002")

	a.Merge(b)
	a.Merge(nil)

	assert.Equal(t, []string{"p o", "q o"}, a.Keys())
	assert.Equal(t, []string{"example001", "example002"}, a.Sources("p o"))
	for _, f := range a.Findings() {
		if f.Key == "p o" {
			assert.Equal(t, "expected X", f.Detail)
		}
	}
}

func TestForStatement(t *testing.T) {
	st, err := graph.NewStatement(
		graph.NewNamedNode("http://example.org/a"),
		graph.NewNamedNode("http://example.org/p"),
		graph.NewLiteral("x"),
	)
	require.NoError(t, err)

	f := finding.ForStatement(finding.MissingStatement, st, "example001")
	assert.Equal(t, `<http://example.org/a> <http://example.org/p> "x" .`, f.Key)
	assert.True(t, f.Kind.Structural())
	assert.Equal(t, `missing_statement: <http://example.org/a> <http://example.org/p> "x" . [example001]`, f.String())
}

func TestKindText(t *testing.T) {
	data, err := json.Marshal(finding.Finding{Kind: finding.ComparisonTimeout, Key: "k", Source: "s"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"comparison_timeout","key":"k","source":"s"}`, string(data))

	var f finding.Finding
	require.NoError(t, json.Unmarshal(data, &f))
	assert.Equal(t, finding.ComparisonTimeout, f.Kind)

	var k finding.Kind
	assert.Error(t, k.UnmarshalText([]byte("bogus")))
	assert.False(t, finding.UnrecognizedPredicate.Structural())
}
