package consistency

import "github.com/c360studio/nidmcheck/finding"

// Result bundles the aggregates produced by Check.
type Result struct {
	UnrecognizedClasses    *finding.Aggregate
	UnrecognizedPredicates *finding.Aggregate
	RangeViolations        *finding.Aggregate
}

// NewResult returns an empty result, ready to merge per-example results into.
func NewResult() *Result {
	return &Result{
		UnrecognizedClasses:    finding.NewAggregate(finding.UnrecognizedClass),
		UnrecognizedPredicates: finding.NewAggregate(finding.UnrecognizedPredicate),
		RangeViolations:        finding.NewAggregate(finding.RangeViolation),
	}
}

// Merge folds other into r, keeping first-occurrence order.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	r.UnrecognizedClasses.Merge(other.UnrecognizedClasses)
	r.UnrecognizedPredicates.Merge(other.UnrecognizedPredicates)
	r.RangeViolations.Merge(other.RangeViolations)
}

// Len returns the number of distinct violations.
func (r *Result) Len() int {
	return r.UnrecognizedClasses.Len() + r.UnrecognizedPredicates.Len() + r.RangeViolations.Len()
}

// Findings flattens the aggregates into one finding per key and source.
func (r *Result) Findings() []finding.Finding {
	var out []finding.Finding
	out = append(out, r.UnrecognizedClasses.Findings()...)
	out = append(out, r.UnrecognizedPredicates.Findings()...)
	out = append(out, r.RangeViolations.Findings()...)
	return out
}
