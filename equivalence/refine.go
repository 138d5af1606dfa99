package equivalence

import (
	"slices"
	"strconv"
	"strings"

	"github.com/c360studio/nidmcheck/graph"
)

// side holds the non-ground part of one graph.
type side struct {
	g      *graph.Graph
	blanks []graph.Term
	// occ lists the non-ground statements each blank node occurs in.
	occ map[graph.Term][]graph.Statement
	// nonGround holds every statement with a blank node, in graph order.
	nonGround []graph.Statement
	colour    map[graph.Term]int
}

func newSide(g *graph.Graph) *side {
	s := &side{
		g:      g,
		blanks: g.BlankNodes(),
		occ:    make(map[graph.Term][]graph.Statement),
		colour: make(map[graph.Term]int),
	}
	for st := range g.All() {
		if st.IsGround() {
			continue
		}
		s.nonGround = append(s.nonGround, st)
		for _, b := range st.BlankNodes() {
			s.occ[b] = append(s.occ[b], st)
		}
	}
	return s
}

// signature describes b by its own colour and the shape of every statement
// it occurs in. Ground terms appear verbatim, b itself as "=", and other
// blank nodes by their current colour.
func (s *side) signature(b graph.Term) string {
	parts := make([]string, 0, len(s.occ[b])+1)
	for _, st := range s.occ[b] {
		parts = append(parts, s.position(b, st.Subject)+" "+st.Predicate.String()+" "+s.position(b, st.Object))
	}
	slices.Sort(parts)
	return strconv.Itoa(s.colour[b]) + "\n" + strings.Join(parts, "\n")
}

func (s *side) position(self, t graph.Term) string {
	switch {
	case t == self:
		return "="
	case t.IsBlank():
		return "_" + strconv.Itoa(s.colour[t])
	default:
		return t.String()
	}
}

// refine colours the blank nodes of both sides with one shared table until
// the joint partition stops splitting. Nodes that an isomorphism could pair
// always end with the same colour.
func refine(ref, cand *side) {
	classes := 0
	for round := 0; round <= len(ref.blanks)+len(cand.blanks); round++ {
		refSig := signatures(ref)
		candSig := signatures(cand)

		table := make(map[string]int)
		for _, sig := range append(slices.Clone(refSig), candSig...) {
			if _, ok := table[sig]; !ok {
				table[sig] = len(table)
			}
		}
		for i, b := range ref.blanks {
			ref.colour[b] = table[refSig[i]]
		}
		for i, b := range cand.blanks {
			cand.colour[b] = table[candSig[i]]
		}

		if len(table) == classes {
			return
		}
		classes = len(table)
	}
}

// signatures computes every signature before any colour changes.
func signatures(s *side) []string {
	out := make([]string, len(s.blanks))
	for i, b := range s.blanks {
		out[i] = s.signature(b)
	}
	return out
}

// balanced reports whether every colour class has the same size on both
// sides. If not, no bijection can exist.
func balanced(ref, cand *side) bool {
	counts := make(map[int]int)
	for _, c := range ref.colour {
		counts[c]++
	}
	for _, c := range cand.colour {
		counts[c]--
	}
	for _, n := range counts {
		if n != 0 {
			return false
		}
	}
	return true
}
