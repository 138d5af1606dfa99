package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/c360studio/nidmcheck/equivalence"
	"github.com/c360studio/nidmcheck/finding"
	"github.com/google/uuid"
)

// ExampleResult is the outcome of validating one named example.
type ExampleResult struct {
	Name      string `json:"name"`
	Reference string `json:"reference"`
	Candidate string `json:"candidate"`

	// Verdict is empty when the example failed before comparison.
	Verdict equivalence.Verdict `json:"verdict,omitempty"`
	Steps   int                 `json:"steps"`

	// Error is a top-level failure such as a graph that could not be loaded.
	Error string `json:"error,omitempty"`

	Findings []finding.Finding `json:"findings,omitempty"`
	Duration time.Duration     `json:"duration_ns"`
}

// Passed reports whether the example produced neither findings nor an error.
func (e ExampleResult) Passed() bool {
	return e.Error == "" && len(e.Findings) == 0
}

// Summary totals a run.
type Summary struct {
	Examples int            `json:"examples"`
	Passed   int            `json:"passed"`
	Failed   int            `json:"failed"`
	ByKind   map[string]int `json:"findings_by_kind,omitempty"`
}

// Report is the structured result of a validation run.
type Report struct {
	RunID      string          `json:"run_id"`
	Ontology   string          `json:"ontology"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Examples   []ExampleResult `json:"examples"`
	Summary    Summary         `json:"summary"`
}

// New starts a report with a fresh run ID.
func New(ontology string) *Report {
	return &Report{
		RunID:     uuid.New().String(),
		Ontology:  ontology,
		StartedAt: time.Now().UTC(),
	}
}

// Finish stamps the end time and computes the summary.
func (r *Report) Finish() {
	r.FinishedAt = time.Now().UTC()
	r.Summary = Summary{Examples: len(r.Examples)}
	for _, ex := range r.Examples {
		if ex.Passed() {
			r.Summary.Passed++
		} else {
			r.Summary.Failed++
		}
		for _, f := range ex.Findings {
			if r.Summary.ByKind == nil {
				r.Summary.ByKind = make(map[string]int)
			}
			r.Summary.ByKind[f.Kind.String()]++
		}
	}
}

// Passed reports whether every example passed.
func (r *Report) Passed() bool {
	for _, ex := range r.Examples {
		if !ex.Passed() {
			return false
		}
	}
	return true
}

// Findings returns the findings of every example in example order.
func (r *Report) Findings() []finding.Finding {
	var out []finding.Finding
	for _, ex := range r.Examples {
		out = append(out, ex.Findings...)
	}
	return out
}

// Text renders the run for a terminal: failed examples first, then the
// aggregated findings.
func (r *Report) Text() string {
	var b strings.Builder
	for _, ex := range r.Examples {
		if ex.Error != "" {
			fmt.Fprintf(&b, "FAIL %s: %s\n", ex.Name, ex.Error)
		}
	}
	if b.Len() > 0 {
		b.WriteByte('\n')
	}
	b.WriteString(Render(r.Findings()))
	fmt.Fprintf(&b, "\n%d example(s): %d passed, %d failed\n", r.Summary.Examples, r.Summary.Passed, r.Summary.Failed)
	return b.String()
}

// RenderJSON encodes the report as indented JSON.
func RenderJSON(r *Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return data, nil
}
