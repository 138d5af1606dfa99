// Package equivalence decides whether two graphs are the same up to a
// renaming of their blank nodes.
//
// Ground statements (no blank node) are compared as sets first; a mismatch
// there is final. Blank nodes of both graphs are then coloured by iterated
// refinement of their statement neighbourhoods, which fixes the reference
// nodes each candidate node may pair with. A backtracking search over those
// domains looks for a bijection under which every statement has a
// counterpart, within a step and time budget.
package equivalence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/c360studio/nidmcheck/finding"
	"github.com/c360studio/nidmcheck/graph"
)

// Comparator compares graphs under one budget. It holds no mutable state and
// may be shared between goroutines.
type Comparator struct {
	opts   Options
	logger *slog.Logger
}

// New creates a comparator.
func New(opts Options, logger *slog.Logger) *Comparator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Comparator{opts: opts, logger: logger}
}

// Compare judges whether cand equals ref up to blank node renaming. source
// labels the findings.
//
// Mismatches are reported as findings with a nil error. When the budget runs
// out the result is Inconclusive, carries a single ComparisonTimeout finding,
// and the error wraps ErrComparisonTimeout.
func (c *Comparator) Compare(ctx context.Context, ref, cand *graph.Graph, source string) (*Result, error) {
	start := time.Now()
	res, err := c.compare(ctx, ref, cand, source, start)
	res.Duration = time.Since(start)

	c.logger.Debug("Compared graphs",
		"source", source,
		"reference", ref.Name(),
		"candidate", cand.Name(),
		"verdict", res.Verdict.String(),
		"findings", len(res.Findings),
		"steps", res.Steps,
		"duration", res.Duration)
	return res, err
}

func (c *Comparator) compare(ctx context.Context, ref, cand *graph.Graph, source string, start time.Time) (*Result, error) {
	if missing, unexpected := groundDiff(ref, cand); len(missing)+len(unexpected) > 0 {
		res := &Result{Verdict: NotEquivalent, GroundOnly: true}
		for _, st := range missing {
			res.Findings = append(res.Findings, finding.ForStatement(finding.MissingStatement, st, source))
		}
		for _, st := range unexpected {
			res.Findings = append(res.Findings, finding.ForStatement(finding.UnexpectedStatement, st, source))
		}
		return res, nil
	}

	refSide, candSide := newSide(ref), newSide(cand)
	if len(refSide.blanks) == 0 && len(candSide.blanks) == 0 {
		return &Result{Verdict: Equivalent, Mapping: map[graph.Term]graph.Term{}}, nil
	}

	refine(refSide, candSide)
	s := newSearch(ctx, refSide, candSide, c.opts, start)

	sameShape := len(refSide.blanks) == len(candSide.blanks) &&
		len(refSide.nonGround) == len(candSide.nonGround) &&
		balanced(refSide, candSide)

	var mapping map[graph.Term]graph.Term
	switch {
	case !sameShape:
		mapping = s.greedy(nil)
	case s.solve():
		mapping = s.fwd
	case s.err != nil:
		res := &Result{
			Verdict: Inconclusive,
			Mapping: s.best,
			Steps:   s.steps,
			Findings: []finding.Finding{{
				Kind:   finding.ComparisonTimeout,
				Key:    fmt.Sprintf("%s vs %s", ref.Name(), cand.Name()),
				Detail: s.err.Error(),
				Source: source,
			}},
		}
		return res, fmt.Errorf("compare %s: %w", source, s.err)
	default:
		mapping = s.greedy(s.best)
	}

	res := &Result{
		Mapping:  mapping,
		Steps:    s.steps,
		Findings: c.structuralFindings(refSide, candSide, mapping, source),
	}
	res.Verdict = NotEquivalent
	if len(res.Findings) == 0 && len(mapping) == len(candSide.blanks) && len(mapping) == len(refSide.blanks) {
		res.Verdict = Equivalent
	}
	return res, nil
}

// groundDiff returns the ground statements of ref missing from cand and the
// ground statements of cand absent from ref.
func groundDiff(ref, cand *graph.Graph) (missing, unexpected []graph.Statement) {
	for st := range ref.All() {
		if st.IsGround() && !cand.Contains(st) {
			missing = append(missing, st)
		}
	}
	for st := range cand.All() {
		if st.IsGround() && !ref.Contains(st) {
			unexpected = append(unexpected, st)
		}
	}
	return missing, unexpected
}

// structuralFindings reports the non-ground statements that have no
// counterpart under mapping, and optionally the blank nodes it leaves out.
func (c *Comparator) structuralFindings(ref, cand *side, mapping map[graph.Term]graph.Term, source string) []finding.Finding {
	inverse := make(map[graph.Term]graph.Term, len(mapping))
	for b, r := range mapping {
		inverse[r] = b
	}

	var out []finding.Finding
	for _, st := range ref.nonGround {
		if mapped, ok := mapStatement(st, inverse); !ok || !cand.g.Contains(mapped) {
			out = append(out, finding.ForStatement(finding.MissingStatement, st, source))
		}
	}
	for _, st := range cand.nonGround {
		if mapped, ok := mapStatement(st, mapping); !ok || !ref.g.Contains(mapped) {
			out = append(out, finding.ForStatement(finding.UnexpectedStatement, st, source))
		}
	}

	if !c.opts.StrictBlankNodes {
		return out
	}
	for _, b := range ref.blanks {
		if _, ok := inverse[b]; !ok {
			f := finding.ForTerm(finding.UnmappedBlankNode, b, source)
			f.Key, f.Detail = b.String(), "reference"
			out = append(out, f)
		}
	}
	for _, b := range cand.blanks {
		if _, ok := mapping[b]; !ok {
			f := finding.ForTerm(finding.UnmappedBlankNode, b, source)
			f.Key, f.Detail = b.String(), "candidate"
			out = append(out, f)
		}
	}
	return out
}

// mapStatement substitutes every blank node of st. It reports false when a
// blank node has no image.
func mapStatement(st graph.Statement, m map[graph.Term]graph.Term) (graph.Statement, bool) {
	for _, b := range st.BlankNodes() {
		if _, ok := m[b]; !ok {
			return st, false
		}
	}
	return graph.ApplyMapping(st, m), true
}

// IsTimeout reports whether err came from an exhausted comparison budget.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrComparisonTimeout)
}
