package equivalence

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/c360studio/nidmcheck/graph"
)

// checkEvery is how often, in steps, the search looks at the context and
// the clock.
const checkEvery = 64

// search pairs candidate blank nodes (variables) with reference blank nodes
// (values) by backtracking over colour-compatible domains.
type search struct {
	ctx      context.Context
	ref      *side
	cand     *side
	domains  map[graph.Term][]graph.Term
	maxSteps int
	deadline time.Time

	// fwd maps candidate to reference; inv is its inverse.
	fwd map[graph.Term]graph.Term
	inv map[graph.Term]graph.Term

	// relaxed disables colour checks for the greedy pass.
	relaxed bool

	steps int
	best  map[graph.Term]graph.Term
	err   error
}

func newSearch(ctx context.Context, ref, cand *side, opts Options, start time.Time) *search {
	s := &search{
		ctx:      ctx,
		ref:      ref,
		cand:     cand,
		domains:  make(map[graph.Term][]graph.Term, len(cand.blanks)),
		maxSteps: opts.MaxSteps,
		fwd:      make(map[graph.Term]graph.Term),
		inv:      make(map[graph.Term]graph.Term),
		best:     make(map[graph.Term]graph.Term),
	}
	if opts.Timeout > 0 {
		s.deadline = start.Add(opts.Timeout)
	}
	for _, b := range cand.blanks {
		for _, r := range ref.blanks {
			if ref.colour[r] == cand.colour[b] {
				s.domains[b] = append(s.domains[b], r)
			}
		}
	}
	return s
}

// tick charges one assignment attempt against the budget.
func (s *search) tick() error {
	s.steps++
	if s.maxSteps >= 0 && s.steps > s.maxSteps {
		return fmt.Errorf("%w: step budget of %d exhausted", ErrComparisonTimeout, s.maxSteps)
	}
	if s.steps%checkEvery == 1 {
		if err := s.ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrComparisonTimeout, err)
		}
		if !s.deadline.IsZero() && time.Now().After(s.deadline) {
			return fmt.Errorf("%w: deadline exceeded after %d steps", ErrComparisonTimeout, s.steps)
		}
	}
	return nil
}

// solve extends the current assignment to a total one. It returns false when
// the subtree is exhausted or the budget ran out (s.err is set).
func (s *search) solve() bool {
	if len(s.fwd) == len(s.cand.blanks) {
		return true
	}
	b, ok := s.pick()
	if !ok {
		return false
	}
	for _, r := range s.domains[b] {
		if _, used := s.inv[r]; used {
			continue
		}
		if err := s.tick(); err != nil {
			s.err = err
			return false
		}
		if !s.consistent(b, r) {
			continue
		}
		s.assign(b, r)
		if len(s.fwd) > len(s.best) {
			s.best = maps.Clone(s.fwd)
		}
		if s.solve() {
			return true
		}
		s.unassign(b, r)
		if s.err != nil {
			return false
		}
	}
	return false
}

// pick returns the unassigned variable with the fewest free values, breaking
// ties towards variables with more assigned neighbours. It reports false
// when some variable has no free value left.
func (s *search) pick() (graph.Term, bool) {
	var (
		best       graph.Term
		bestFree   = -1
		bestLinked = -1
	)
	for _, b := range s.cand.blanks {
		if _, done := s.fwd[b]; done {
			continue
		}
		free := 0
		for _, r := range s.domains[b] {
			if _, used := s.inv[r]; !used {
				free++
			}
		}
		if free == 0 {
			return graph.Term{}, false
		}
		linked := s.assignedNeighbours(b)
		if bestFree < 0 || free < bestFree || (free == bestFree && linked > bestLinked) {
			best, bestFree, bestLinked = b, free, linked
		}
	}
	return best, bestFree > 0
}

func (s *search) assignedNeighbours(b graph.Term) int {
	n := 0
	for _, st := range s.cand.occ[b] {
		for _, o := range st.BlankNodes() {
			if _, ok := s.fwd[o]; ok && o != b {
				n++
			}
		}
	}
	return n
}

func (s *search) assign(b, r graph.Term) {
	s.fwd[b] = r
	s.inv[r] = b
}

func (s *search) unassign(b, r graph.Term) {
	delete(s.fwd, b)
	delete(s.inv, r)
}

// consistent reports whether pairing b with r leaves every statement around
// either node satisfiable: fully mapped statements must exist on the other
// side, partially mapped ones must still have a possible counterpart.
func (s *search) consistent(b, r graph.Term) bool {
	s.assign(b, r)
	defer s.unassign(b, r)

	for _, st := range s.cand.occ[b] {
		if !s.matchable(st, s.fwd, s.inv, s.cand, s.ref) {
			return false
		}
	}
	for _, st := range s.ref.occ[r] {
		if !s.matchable(st, s.inv, s.fwd, s.ref, s.cand) {
			return false
		}
	}
	return true
}

// score counts the statements around b and r that remain satisfiable when
// they are paired.
func (s *search) score(b, r graph.Term) int {
	s.assign(b, r)
	defer s.unassign(b, r)

	n := 0
	for _, st := range s.cand.occ[b] {
		if s.matchable(st, s.fwd, s.inv, s.cand, s.ref) {
			n++
		}
	}
	for _, st := range s.ref.occ[r] {
		if s.matchable(st, s.inv, s.fwd, s.ref, s.cand) {
			n++
		}
	}
	return n
}

// matchable reports whether st from side from can still be matched in side
// to under mapping m. used holds the nodes of to that are already images.
// Unmapped blank nodes act as wildcards that must bind to distinct, unused
// blank nodes of the same colour.
func (s *search) matchable(st graph.Statement, m, used map[graph.Term]graph.Term, from, to *side) bool {
	subj, subjFree := bind(st.Subject, m)
	obj, objFree := bind(st.Object, m)

	if !subjFree && !objFree {
		return to.g.Contains(graph.Statement{Subject: subj, Predicate: st.Predicate, Object: obj})
	}

	var sp, op *graph.Term
	if !subjFree {
		sp = &subj
	}
	if !objFree {
		op = &obj
	}
	for cand := range to.g.Match(sp, &st.Predicate, op) {
		if subjFree && !s.wildcard(st.Subject, cand.Subject, used, from, to) {
			continue
		}
		if objFree && !s.wildcard(st.Object, cand.Object, used, from, to) {
			continue
		}
		if subjFree && objFree && (st.Subject == st.Object) != (cand.Subject == cand.Object) {
			continue
		}
		return true
	}
	return false
}

func (s *search) wildcard(src, target graph.Term, used map[graph.Term]graph.Term, from, to *side) bool {
	if !target.IsBlank() {
		return false
	}
	if _, taken := used[target]; taken {
		return false
	}
	return s.relaxed || from.colour[src] == to.colour[target]
}

// bind resolves t through m. It reports true when t is an unmapped blank
// node.
func bind(t graph.Term, m map[graph.Term]graph.Term) (graph.Term, bool) {
	if !t.IsBlank() {
		return t, false
	}
	if mapped, ok := m[t]; ok {
		return mapped, false
	}
	return t, true
}

// greedy extends mapping one candidate node at a time, pairing each with the
// free reference node that keeps the most statements satisfiable. It never
// backtracks and does not consume the step budget.
func (s *search) greedy(mapping map[graph.Term]graph.Term) map[graph.Term]graph.Term {
	s.fwd = make(map[graph.Term]graph.Term, len(mapping))
	maps.Copy(s.fwd, mapping)
	s.inv = make(map[graph.Term]graph.Term, len(mapping))
	for b, r := range s.fwd {
		s.inv[r] = b
	}
	s.relaxed = true

	for _, b := range s.cand.blanks {
		if _, done := s.fwd[b]; done {
			continue
		}
		var (
			best      graph.Term
			bestScore int
		)
		for _, r := range s.ref.blanks {
			if _, used := s.inv[r]; used {
				continue
			}
			score := s.score(b, r)
			if s.ref.colour[r] == s.cand.colour[b] {
				score++
			}
			if score > bestScore {
				best, bestScore = r, score
			}
		}
		if bestScore > 0 {
			s.assign(b, best)
		}
	}
	return s.fwd
}
