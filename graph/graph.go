package graph

import (
	"errors"
	"fmt"
	"iter"

	"github.com/c360studio/nidmcheck/vocabulary/rdf"
)

// ErrFrozen is returned when adding to a graph that has been frozen.
var ErrFrozen = errors.New("graph is frozen")

// Graph is an unordered set of statements with subject, predicate and
// object indexes. Duplicate statements collapse.
//
// A Graph is built with Add and then frozen; loaders always return frozen
// graphs. A frozen graph is read-only and safe for concurrent readers.
// Building is not safe for concurrent use.
type Graph struct {
	name       string
	statements []Statement
	index      map[Statement]int

	bySubject   map[Term][]int
	byPredicate map[Term][]int
	byObject    map[Term][]int

	blanks []Term
	seen   map[Term]struct{}
	frozen bool
}

// New creates an empty, mutable graph. The name is used in log output and
// findings only.
func New(name string) *Graph {
	return &Graph{
		name:        name,
		index:       make(map[Statement]int),
		bySubject:   make(map[Term][]int),
		byPredicate: make(map[Term][]int),
		byObject:    make(map[Term][]int),
		seen:        make(map[Term]struct{}),
	}
}

// Name returns the graph name.
func (g *Graph) Name() string { return g.name }

// Add inserts a statement. Adding a statement already present is a no-op.
func (g *Graph) Add(st Statement) error {
	if g.frozen {
		return fmt.Errorf("add %s to %q: %w", st, g.name, ErrFrozen)
	}
	if err := st.Validate(); err != nil {
		return err
	}
	if _, ok := g.index[st]; ok {
		return nil
	}

	i := len(g.statements)
	g.statements = append(g.statements, st)
	g.index[st] = i
	g.bySubject[st.Subject] = append(g.bySubject[st.Subject], i)
	g.byPredicate[st.Predicate] = append(g.byPredicate[st.Predicate], i)
	g.byObject[st.Object] = append(g.byObject[st.Object], i)

	for _, b := range st.BlankNodes() {
		if _, ok := g.seen[b]; !ok {
			g.seen[b] = struct{}{}
			g.blanks = append(g.blanks, b)
		}
	}
	return nil
}

// Freeze makes the graph read-only and returns it.
func (g *Graph) Freeze() *Graph {
	g.frozen = true
	return g
}

// Frozen reports whether the graph is read-only.
func (g *Graph) Frozen() bool { return g.frozen }

// Len returns the number of distinct statements.
func (g *Graph) Len() int { return len(g.statements) }

// Contains reports whether the statement is in the graph.
func (g *Graph) Contains(st Statement) bool {
	_, ok := g.index[st]
	return ok
}

// Statements returns a copy of all statements in insertion order.
func (g *Graph) Statements() []Statement {
	out := make([]Statement, len(g.statements))
	copy(out, g.statements)
	return out
}

// All returns a sequence over every statement.
func (g *Graph) All() iter.Seq[Statement] {
	return func(yield func(Statement) bool) {
		for _, st := range g.statements {
			if !yield(st) {
				return
			}
		}
	}
}

// Match returns a lazy sequence of statements matching the pattern. A nil
// position matches anything.
func (g *Graph) Match(subject, predicate, object *Term) iter.Seq[Statement] {
	return func(yield func(Statement) bool) {
		candidates, all := g.candidates(subject, predicate, object)
		if all {
			for _, st := range g.statements {
				if !yield(st) {
					return
				}
			}
			return
		}
		for _, i := range candidates {
			st := g.statements[i]
			if subject != nil && st.Subject != *subject {
				continue
			}
			if predicate != nil && st.Predicate != *predicate {
				continue
			}
			if object != nil && st.Object != *object {
				continue
			}
			if !yield(st) {
				return
			}
		}
	}
}

// candidates picks the smallest index list among the bound positions.
// all is true when no position is bound.
func (g *Graph) candidates(subject, predicate, object *Term) (idx []int, all bool) {
	best := -1
	consider := func(list []int) {
		if best < 0 || len(list) < best {
			idx = list
			best = len(list)
		}
	}
	if subject != nil {
		consider(g.bySubject[*subject])
	}
	if predicate != nil {
		consider(g.byPredicate[*predicate])
	}
	if object != nil {
		consider(g.byObject[*object])
	}
	return idx, best < 0
}

// Count returns the number of statements matching the pattern.
func (g *Graph) Count(subject, predicate, object *Term) int {
	n := 0
	for range g.Match(subject, predicate, object) {
		n++
	}
	return n
}

// BlankNodes returns the distinct blank nodes in first-occurrence order.
func (g *Graph) BlankNodes() []Term {
	out := make([]Term, len(g.blanks))
	copy(out, g.blanks)
	return out
}

// TypesOf returns the objects of rdf:type statements about node.
func (g *Graph) TypesOf(node Term) []Term {
	typ := NewNamedNode(rdf.Type)
	var out []Term
	for st := range g.Match(&node, &typ, nil) {
		out = append(out, st.Object)
	}
	return out
}
