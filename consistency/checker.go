// Package consistency checks that the classes and predicates used by a graph
// are declared by an ontology, and that predicate objects satisfy the
// declared ranges.
//
// Checks never fail on a bad statement. Violations accumulate in aggregates
// keyed by the offending term, listing the example sources that produced
// them, and the caller decides what constitutes a failure.
package consistency

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/c360studio/nidmcheck/finding"
	"github.com/c360studio/nidmcheck/graph"
	"github.com/c360studio/nidmcheck/ontology"
	"github.com/c360studio/nidmcheck/vocabulary/rdf"
)

// Options configures a Checker.
type Options struct {
	// ExternalNamespaces lists IRI prefixes whose classes and predicates are
	// accepted without being declared in the ontology.
	ExternalNamespaces []string
}

// Checker validates graphs against one ontology model. It holds no mutable
// state and may be shared between goroutines.
type Checker struct {
	model  *ontology.Model
	opts   Options
	logger *slog.Logger
}

// NewChecker creates a checker for model.
func NewChecker(model *ontology.Model, opts Options, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{
		model:  model,
		opts:   opts,
		logger: logger,
	}
}

// CheckClasses reports every rdf:type object that is not a declared class,
// keyed by the class IRI.
func (c *Checker) CheckClasses(g *graph.Graph, source string) *finding.Aggregate {
	unrecognized := finding.NewAggregate(finding.UnrecognizedClass)
	typ := graph.NewNamedNode(rdf.Type)

	n := 0
	for st := range g.Match(nil, &typ, nil) {
		n++
		class := st.Object
		if c.model.IsKnownClass(class) || c.isExternal(class) {
			continue
		}
		unrecognized.Add(termKey(class), source)
	}

	c.logger.Debug("Checked classes",
		"source", source,
		"type_statements", n,
		"unrecognized", unrecognized.Len())
	return unrecognized
}

// CheckAttributes reports predicates that are not declared, and objects that
// do not satisfy the declared range of their predicate. rdf:type statements
// are left to CheckClasses.
func (c *Checker) CheckAttributes(g *graph.Graph, source string) (unrecognized, violations *finding.Aggregate) {
	unrecognized = finding.NewAggregate(finding.UnrecognizedPredicate)
	violations = finding.NewAggregate(finding.RangeViolation)

	for st := range g.All() {
		pred := st.Predicate
		if pred.Value == rdf.Type {
			continue
		}
		if !c.model.IsKnownProperty(pred) {
			if !c.isExternal(pred) {
				unrecognized.Add(pred.Value, source)
			}
			continue
		}

		rng := c.model.DeclaredRange(pred)
		if rng == nil {
			continue
		}
		if found, ok := c.satisfies(g, st.Object, rng); !ok {
			key := fmt.Sprintf("%s %s: expected %s, found %s", pred, st.Object, rng, found)
			violations.Add(key, source)
		}
	}

	c.logger.Debug("Checked attributes",
		"source", source,
		"statements", g.Len(),
		"unrecognized", unrecognized.Len(),
		"range_violations", violations.Len())
	return unrecognized, violations
}

// Check runs both checks.
func (c *Checker) Check(g *graph.Graph, source string) *Result {
	r := &Result{UnrecognizedClasses: c.CheckClasses(g, source)}
	r.UnrecognizedPredicates, r.RangeViolations = c.CheckAttributes(g, source)
	return r
}

// satisfies tests obj against rng. When it fails, found describes what the
// object actually is.
func (c *Checker) satisfies(g *graph.Graph, obj graph.Term, rng *ontology.RangeSpec) (found string, ok bool) {
	switch rng.Kind {
	case ontology.ExpectedClass:
		if obj.IsLiteral() {
			return "literal " + obj.Datatype, false
		}
		types := g.TypesOf(obj)
		if len(types) == 0 {
			return "untyped node", false
		}
		names := make([]string, 0, len(types))
		for _, t := range types {
			for _, target := range rng.Targets {
				if c.model.IsSubClassOf(t.Value, target) {
					return "", true
				}
			}
			names = append(names, t.Value)
		}
		return strings.Join(names, ", "), false

	case ontology.ExpectedLiteralType:
		if !obj.IsLiteral() {
			return obj.Kind.String(), false
		}
		for _, target := range rng.Targets {
			if ontology.DatatypeSatisfies(obj.Datatype, target) {
				return "", true
			}
		}
		return obj.Datatype, false
	}
	return "", true
}

func (c *Checker) isExternal(t graph.Term) bool {
	if !t.IsNamedNode() {
		return false
	}
	for _, ns := range c.opts.ExternalNamespaces {
		if ns != "" && strings.HasPrefix(t.Value, ns) {
			return true
		}
	}
	return false
}

// termKey is the IRI of a named node and the N-Triples form otherwise.
func termKey(t graph.Term) string {
	if t.IsNamedNode() {
		return t.Value
	}
	return t.String()
}
