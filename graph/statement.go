package graph

import "fmt"

// Position identifies a slot of a statement.
type Position int

// Statement positions.
const (
	PosSubject Position = iota
	PosPredicate
	PosObject
)

// String returns the position name.
func (p Position) String() string {
	switch p {
	case PosSubject:
		return "subject"
	case PosPredicate:
		return "predicate"
	case PosObject:
		return "object"
	default:
		return "unknown"
	}
}

// Statement is an ordered (subject, predicate, object) triple.
type Statement struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// NewStatement builds a statement and checks that each term is allowed in
// its position: the subject is a named or blank node, the predicate is a
// named node, and the object is any valid term.
func NewStatement(subject, predicate, object Term) (Statement, error) {
	st := Statement{Subject: subject, Predicate: predicate, Object: object}
	if err := st.Validate(); err != nil {
		return Statement{}, err
	}
	return st, nil
}

// Validate checks term kinds per position.
func (s Statement) Validate() error {
	if !s.Subject.IsNamedNode() && !s.Subject.IsBlank() {
		return fmt.Errorf("invalid subject %s: must be a named or blank node", s.Subject)
	}
	if !s.Predicate.IsNamedNode() {
		return fmt.Errorf("invalid predicate %s: must be a named node", s.Predicate)
	}
	if !s.Object.IsValid() {
		return fmt.Errorf("invalid object %s", s.Object)
	}
	return nil
}

// Term returns the term at position p.
func (s Statement) Term(p Position) Term {
	switch p {
	case PosSubject:
		return s.Subject
	case PosPredicate:
		return s.Predicate
	default:
		return s.Object
	}
}

// IsGround reports whether the statement contains no blank node.
func (s Statement) IsGround() bool {
	return !s.Subject.IsBlank() && !s.Object.IsBlank()
}

// BlankNodes returns the distinct blank nodes of the statement.
func (s Statement) BlankNodes() []Term {
	var out []Term
	if s.Subject.IsBlank() {
		out = append(out, s.Subject)
	}
	if s.Object.IsBlank() && s.Object != s.Subject {
		out = append(out, s.Object)
	}
	return out
}

// String renders the statement as an N-Triples line without the newline.
func (s Statement) String() string {
	return s.Subject.String() + " " + s.Predicate.String() + " " + s.Object.String() + " ."
}
