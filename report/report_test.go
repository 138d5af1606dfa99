package report_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/c360studio/nidmcheck/equivalence"
	"github.com/c360studio/nidmcheck/finding"
	"github.com/c360studio/nidmcheck/report"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *report.Report {
	r := report.New("nidm-results.ttl")
	r.Examples = []report.ExampleResult{
		{
			Name:      "example001",
			Reference: "example001/reference.ttl",
			Candidate: "example001/nidm.ttl",
			Verdict:   equivalence.Equivalent,
			Findings: []finding.Finding{
				{Kind: finding.UnrecognizedPredicate, Key: "http://example.org/madeUp", Source: "example001"},
			},
		},
		{
			Name:      "example002",
			Reference: "missing.ttl",
			Candidate: "example002/nidm.ttl",
			Error:     "load graph missing.ttl: read file",
		},
	}
	r.Finish()
	return r
}

func TestReportSummary(t *testing.T) {
	r := sampleReport()

	assert.NotEmpty(t, r.RunID)
	assert.False(t, r.Passed())
	assert.Equal(t, report.Summary{
		Examples: 2,
		Passed:   0,
		Failed:   2,
		ByKind:   map[string]int{"unrecognized_predicate": 1},
	}, r.Summary)
	assert.False(t, r.FinishedAt.Before(r.StartedAt))
	assert.Len(t, r.Findings(), 1)

	newGoldie(t).Assert(t, "run_report", []byte(r.Text()))
}

func TestReportPassed(t *testing.T) {
	r := report.New("ontology.ttl")
	r.Examples = []report.ExampleResult{{Name: "example001", Verdict: equivalence.Equivalent}}
	r.Finish()

	assert.True(t, r.Passed())
	assert.Equal(t, 1, r.Summary.Passed)
	assert.Nil(t, r.Summary.ByKind)
}

func TestRenderJSON(t *testing.T) {
	data, err := report.RenderJSON(sampleReport())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	examples := doc["examples"].([]any)
	require.Len(t, examples, 2)

	first := examples[0].(map[string]any)
	assert.Equal(t, "equivalent", first["verdict"])
	second := examples[1].(map[string]any)
	assert.NotContains(t, second, "verdict")
	assert.Equal(t, "load graph missing.ttl: read file", second["error"])
}

type fakeStream struct {
	subject string
	payload []byte
	err     error
}

func (f *fakeStream) Publish(_ context.Context, subject string, payload []byte, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.subject, f.payload = subject, payload
	return &jetstream.PubAck{Stream: "NIDMCHECK", Sequence: 1}, nil
}

func TestNATSPublisher(t *testing.T) {
	js := &fakeStream{}
	p := report.NewNATSPublisher(js, "", nil)
	assert.Equal(t, report.DefaultSubject, p.Subject())

	r := sampleReport()
	require.NoError(t, p.Publish(context.Background(), r))
	assert.Equal(t, report.DefaultSubject, js.subject)

	var got report.Report
	require.NoError(t, json.Unmarshal(js.payload, &got))
	assert.Equal(t, r.RunID, got.RunID)

	js.err = errors.New("no responders")
	err := p.Publish(context.Background(), r)
	assert.ErrorContains(t, err, r.RunID)
}
