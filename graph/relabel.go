package graph

import (
	"errors"
	"fmt"
)

// ErrNotInjective is returned by Relabel when two blank nodes would receive
// the same label.
var ErrNotInjective = errors.New("blank node renaming is not injective")

// Relabel returns a frozen copy of g in which every blank node b is replaced
// by rename(b). Named nodes and literals are untouched. The renaming must
// map blank nodes to distinct blank nodes.
func Relabel(g *Graph, name string, rename func(Term) Term) (*Graph, error) {
	mapping := make(map[Term]Term)
	used := make(map[Term]Term)
	for _, b := range g.BlankNodes() {
		nb := rename(b)
		if !nb.IsBlank() {
			return nil, fmt.Errorf("rename %s: result %s is not a blank node", b, nb)
		}
		if prev, ok := used[nb]; ok {
			return nil, fmt.Errorf("%s and %s both map to %s: %w", prev, b, nb, ErrNotInjective)
		}
		used[nb] = b
		mapping[b] = nb
	}

	out := New(name)
	for st := range g.All() {
		if !st.IsGround() {
			st = ApplyMapping(st, mapping)
		}
		if err := out.Add(st); err != nil {
			return nil, err
		}
	}
	return out.Freeze(), nil
}

// ApplyMapping substitutes the blank nodes of st found in mapping. Blank
// nodes absent from mapping are left as they are.
func ApplyMapping(st Statement, mapping map[Term]Term) Statement {
	if st.Subject.IsBlank() {
		if m, ok := mapping[st.Subject]; ok {
			st.Subject = m
		}
	}
	if st.Object.IsBlank() {
		if m, ok := mapping[st.Object]; ok {
			st.Object = m
		}
	}
	return st
}
