package equivalence

import (
	"errors"
	"fmt"
	"time"

	"github.com/c360studio/nidmcheck/finding"
	"github.com/c360studio/nidmcheck/graph"
)

// ErrComparisonTimeout is returned when the search budget runs out before the
// comparison reaches a verdict.
var ErrComparisonTimeout = errors.New("comparison timeout")

// Verdict is the outcome of a comparison.
type Verdict int

const (
	// Equivalent means a blank node bijection makes both graphs identical.
	Equivalent Verdict = iota + 1
	// NotEquivalent means no such bijection exists.
	NotEquivalent
	// Inconclusive means the search budget ran out first.
	Inconclusive
)

func (v Verdict) String() string {
	switch v {
	case Equivalent:
		return "equivalent"
	case NotEquivalent:
		return "not_equivalent"
	case Inconclusive:
		return "inconclusive"
	default:
		return fmt.Sprintf("verdict(%d)", int(v))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Verdict) UnmarshalText(b []byte) error {
	for _, c := range []Verdict{Equivalent, NotEquivalent, Inconclusive} {
		if c.String() == string(b) {
			*v = c
			return nil
		}
	}
	return fmt.Errorf("unknown verdict %q", string(b))
}

// Options bounds the blank node search.
type Options struct {
	// MaxSteps caps the number of assignment attempts. Negative means
	// unlimited; zero allows no attempt at all.
	MaxSteps int `json:"max_steps" yaml:"max_steps"`

	// Timeout caps the wall-clock time of one comparison. Zero or negative
	// means no deadline.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// StrictBlankNodes reports every blank node left out of the final
	// mapping as its own finding, in addition to the unmatched statements.
	StrictBlankNodes bool `json:"strict_blank_nodes" yaml:"strict_blank_nodes"`
}

// DefaultOptions returns a budget generous enough for graphs with dozens of
// blank nodes.
func DefaultOptions() Options {
	return Options{
		MaxSteps:         1 << 20,
		Timeout:          30 * time.Second,
		StrictBlankNodes: true,
	}
}

// Result is the outcome of Compare.
type Result struct {
	Verdict Verdict

	// Mapping pairs candidate blank nodes with reference blank nodes. It is
	// total when the verdict is Equivalent and the best partial mapping
	// found otherwise.
	Mapping map[graph.Term]graph.Term

	// Findings is empty exactly when the verdict is Equivalent.
	Findings []finding.Finding

	// Steps counts assignment attempts made by the search.
	Steps int

	// GroundOnly is set when the ground statements already differed and the
	// blank node search was skipped.
	GroundOnly bool

	Duration time.Duration
}

// Equivalent reports whether the graphs were judged equivalent.
func (r *Result) Equivalent() bool { return r.Verdict == Equivalent }
