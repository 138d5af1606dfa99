// Package finding defines the records produced by the consistency checker and
// the equivalence comparator, and the ordered aggregates used to merge them
// across examples.
package finding

import (
	"fmt"

	"github.com/c360studio/nidmcheck/graph"
)

// Kind classifies a finding.
type Kind int

// Finding kinds in report order.
const (
	UnrecognizedClass Kind = iota + 1
	UnrecognizedPredicate
	RangeViolation
	MissingStatement
	UnexpectedStatement
	UnmappedBlankNode
	ComparisonTimeout
)

// Kinds returns every kind in report order.
func Kinds() []Kind {
	return []Kind{
		UnrecognizedClass,
		UnrecognizedPredicate,
		RangeViolation,
		MissingStatement,
		UnexpectedStatement,
		UnmappedBlankNode,
		ComparisonTimeout,
	}
}

func (k Kind) String() string {
	switch k {
	case UnrecognizedClass:
		return "unrecognized_class"
	case UnrecognizedPredicate:
		return "unrecognized_predicate"
	case RangeViolation:
		return "range_violation"
	case MissingStatement:
		return "missing_statement"
	case UnexpectedStatement:
		return "unexpected_statement"
	case UnmappedBlankNode:
		return "unmapped_blank_node"
	case ComparisonTimeout:
		return "comparison_timeout"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Title is the human-readable heading used by reports.
func (k Kind) Title() string {
	switch k {
	case UnrecognizedClass:
		return "Unrecognized classes"
	case UnrecognizedPredicate:
		return "Unrecognized predicates"
	case RangeViolation:
		return "Range violations"
	case MissingStatement:
		return "Missing statements"
	case UnexpectedStatement:
		return "Unexpected statements"
	case UnmappedBlankNode:
		return "Unmapped blank nodes"
	case ComparisonTimeout:
		return "Comparison timeouts"
	default:
		return k.String()
	}
}

// Structural reports whether the kind comes from graph comparison rather
// than vocabulary checking.
func (k Kind) Structural() bool {
	return k >= MissingStatement
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	for _, kind := range Kinds() {
		if kind.String() == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown finding kind %q", string(b))
}

// Finding is a single violation. Findings are values; nothing mutates them
// after construction.
type Finding struct {
	Kind Kind `json:"kind"`

	// Key identifies the offending term or statement. Findings with equal
	// Kind and Key are grouped together in reports.
	Key string `json:"key"`

	// Statement is set for statement-level findings.
	Statement *graph.Statement `json:"-"`

	// Term is set for term-level findings (classes, predicates, blank nodes).
	Term *graph.Term `json:"-"`

	// Detail carries extra context such as the expected range.
	Detail string `json:"detail,omitempty"`

	// Source names the example that produced the finding.
	Source string `json:"source"`
}

// ForTerm builds a term-level finding keyed by the term's value.
func ForTerm(kind Kind, term graph.Term, source string) Finding {
	return Finding{Kind: kind, Key: term.Value, Term: &term, Source: source}
}

// ForStatement builds a statement-level finding keyed by its N-Triples form.
func ForStatement(kind Kind, st graph.Statement, source string) Finding {
	return Finding{Kind: kind, Key: st.String(), Statement: &st, Source: source}
}

func (f Finding) String() string {
	if f.Detail != "" {
		return fmt.Sprintf("%s: %s (%s) [%s]", f.Kind, f.Key, f.Detail, f.Source)
	}
	return fmt.Sprintf("%s: %s [%s]", f.Kind, f.Key, f.Source)
}
