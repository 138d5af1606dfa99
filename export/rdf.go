// Package export serializes graphs as Turtle or N-Triples.
//
// Output is canonical for a given graph: subjects, predicates and objects are
// sorted, so two graphs with the same statements and blank node labels
// serialize identically and can be diffed as text.
package export

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/c360studio/nidmcheck/graph"
	"github.com/c360studio/nidmcheck/vocabulary/nidm"
	"github.com/c360studio/nidmcheck/vocabulary/rdf"
)

// Exporter serializes graphs with a set of namespace prefixes.
type Exporter struct {
	prefixes map[string]string
}

// NewExporter creates an exporter with the default NIDM-Results prefixes.
func NewExporter() *Exporter {
	return &Exporter{prefixes: defaultPrefixes()}
}

// defaultPrefixes returns the standard namespace prefixes for RDF export.
func defaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":  rdf.RDF,
		"rdfs": rdf.RDFS,
		"owl":  rdf.OWL,
		"xsd":  rdf.XSD,
		"prov": nidm.ProvNamespace,
		"nidm": nidm.Namespace,
		"spm":  nidm.SPMNamespace,
	}
}

// SetPrefix sets a namespace prefix used by Turtle output.
func (e *Exporter) SetPrefix(prefix, iri string) {
	e.prefixes[prefix] = iri
}

// Export serializes g to the specified format.
func (e *Exporter) Export(g *graph.Graph, format Format) (string, error) {
	var sb strings.Builder
	if err := e.Write(&sb, g, format); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Write serializes g to w.
func (e *Exporter) Write(w io.Writer, g *graph.Graph, format Format) error {
	statements := sortedStatements(g)
	var out string
	switch format {
	case FormatTurtle:
		out = e.toTurtle(statements)
	case FormatNTriples:
		out = toNTriples(statements)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	_, err := io.WriteString(w, out)
	return err
}

func sortedStatements(g *graph.Graph) []graph.Statement {
	statements := g.Statements()
	slices.SortFunc(statements, func(a, b graph.Statement) int {
		return cmp.Or(
			compareTerms(a.Subject, b.Subject),
			compareTerms(a.Predicate, b.Predicate),
			compareTerms(a.Object, b.Object),
		)
	})
	return statements
}

// compareTerms orders named nodes before blank nodes before literals.
func compareTerms(a, b graph.Term) int {
	return cmp.Or(
		cmp.Compare(a.Kind, b.Kind),
		cmp.Compare(a.Value, b.Value),
		cmp.Compare(a.Datatype, b.Datatype),
		cmp.Compare(a.Lang, b.Lang),
	)
}

// toNTriples serializes to N-Triples format.
func toNTriples(statements []graph.Statement) string {
	var sb strings.Builder
	for _, st := range statements {
		sb.WriteString(st.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// toTurtle serializes to Turtle format, one block per subject.
func (e *Exporter) toTurtle(statements []graph.Statement) string {
	var sb strings.Builder

	// Sort prefixes for consistent output
	keys := make([]string, 0, len(e.prefixes))
	for k := range e.prefixes {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, prefix := range keys {
		fmt.Fprintf(&sb, "@prefix %s: <%s> .\n", prefix, e.prefixes[prefix])
	}

	for i := 0; i < len(statements); {
		subject := statements[i].Subject
		j := i
		for j < len(statements) && statements[j].Subject == subject {
			j++
		}
		sb.WriteString("\n")
		e.writeSubjectTurtle(&sb, statements[i:j])
		i = j
	}
	return sb.String()
}

// writeSubjectTurtle writes the statements of one subject, rdf:type first.
func (e *Exporter) writeSubjectTurtle(sb *strings.Builder, statements []graph.Statement) {
	slices.SortStableFunc(statements, func(a, b graph.Statement) int {
		return cmp.Compare(btoi(a.Predicate.Value != rdf.Type), btoi(b.Predicate.Value != rdf.Type))
	})

	sb.WriteString(e.formatTerm(statements[0].Subject))
	for i, st := range statements {
		if i > 0 && st.Predicate == statements[i-1].Predicate {
			fmt.Fprintf(sb, " ,\n        %s", e.formatTerm(st.Object))
			continue
		}
		if i > 0 {
			sb.WriteString(" ;")
		}
		predicate := e.formatTerm(st.Predicate)
		if st.Predicate.Value == rdf.Type {
			predicate = "a"
		}
		fmt.Fprintf(sb, "\n    %s %s", predicate, e.formatTerm(st.Object))
	}
	sb.WriteString(" .\n")
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

// formatTerm renders t in Turtle, compacting IRIs with a known prefix.
func (e *Exporter) formatTerm(t graph.Term) string {
	switch t.Kind {
	case graph.KindNamedNode:
		if curie, ok := e.compact(t.Value); ok {
			return curie
		}
	case graph.KindLiteral:
		if t.Lang == "" && t.Datatype != "" && t.Datatype != rdf.XSDString {
			if curie, ok := e.compact(t.Datatype); ok {
				return graph.NewLiteral(t.Value).String() + "^^" + curie
			}
		}
	}
	return t.String()
}

// compact returns prefix:local when iri starts with a declared namespace and
// the local part is a plain name.
func (e *Exporter) compact(iri string) (string, bool) {
	best := ""
	for prefix, ns := range e.prefixes {
		if strings.HasPrefix(iri, ns) && len(ns) > len(e.prefixes[best]) {
			best = prefix
		}
	}
	if best == "" {
		return "", false
	}
	local := strings.TrimPrefix(iri, e.prefixes[best])
	if !isPlainName(local) {
		return "", false
	}
	return best + ":" + local, true
}

func isPlainName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case i > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}
	return true
}
