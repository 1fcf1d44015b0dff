// Package term defines the closed set of RDF value types the rest of the
// module works with: IRI, BlankNode and Literal, the two node positions
// they can occupy (subject/object), and the Triple they combine into.
//
// Every concrete type is an immutable value. Equality is always structural
// (a Literal compares over lexical form, datatype and language together),
// so these types are safe to use as map keys directly.
package term

import (
	"fmt"
	"strings"
)

// Kind tags which branch of the Term sum type a value belongs to.
type Kind uint8

const (
	// KindIRI tags an IRI term.
	KindIRI Kind = iota
	// KindBlankNode tags a blank node term.
	KindBlankNode
	// KindLiteral tags a literal term.
	KindLiteral
)

func (k Kind) String() string {
	switch k {
	case KindIRI:
		return "IRI"
	case KindBlankNode:
		return "BlankNode"
	case KindLiteral:
		return "Literal"
	default:
		return "Unknown"
	}
}

// Term is any RDF value: an IRI, a BlankNode or a Literal. It is a closed
// sum type; Kind() identifies which concrete type a value holds so callers
// can switch exhaustively instead of relying on dynamic dispatch.
type Term interface {
	// Kind identifies the concrete branch of the sum type.
	Kind() Kind
	// String renders the term in a readable, NTriple-like form.
	String() string
	// Equal reports structural equality with another term.
	Equal(Term) bool
}

// Node is any term that can occupy a subject or object position. It is the
// same interface as Term; the name documents intent at call sites.
type Node = Term

// IRI is an absolute IRI. Equality is by value.
type IRI struct {
	Value string
}

// ErrWhitespaceInIRI is returned by NewIRI when the value contains
// whitespace, which is never valid in an IRI.
var ErrWhitespaceInIRI = fmt.Errorf("term: IRI must not contain whitespace")

// NewIRI validates and constructs an IRI term.
func NewIRI(value string) (IRI, error) {
	if strings.ContainsAny(value, " \t\n\r\v\f") {
		return IRI{}, fmt.Errorf("%w: %q", ErrWhitespaceInIRI, value)
	}
	return IRI{Value: value}, nil
}

// MustIRI is like NewIRI but panics on error. Intended for constructing
// the package-level well-known-IRI constants, never for untrusted input.
func MustIRI(value string) IRI {
	i, err := NewIRI(value)
	if err != nil {
		panic(err)
	}
	return i
}

// Kind returns KindIRI.
func (i IRI) Kind() Kind { return KindIRI }

// String renders the IRI in angle-bracket NTriple form.
func (i IRI) String() string { return "<" + i.Value + ">" }

// Equal reports whether other is an IRI with the same value.
func (i IRI) Equal(other Term) bool {
	o, ok := other.(IRI)
	return ok && i.Value == o.Value
}

// BlankNode is a locally-scoped node identifier. Two blank nodes are equal
// iff their identifiers are equal; blank-node graph isomorphism is not
// modeled.
type BlankNode struct {
	ID string
}

// NewBlankNode wraps an existing identifier (e.g. one parsed from a
// document) as a blank node term.
func NewBlankNode(id string) BlankNode {
	return BlankNode{ID: id}
}

// Kind returns KindBlankNode.
func (b BlankNode) Kind() Kind { return KindBlankNode }

// String renders the blank node in "_:id" NTriple form.
func (b BlankNode) String() string { return "_:" + b.ID }

// Equal reports whether other is a blank node with the same identifier.
func (b BlankNode) Equal(other Term) bool {
	o, ok := other.(BlankNode)
	return ok && b.ID == o.ID
}

// Literal is a lexical form paired with at most one of a datatype IRI or a
// language tag. A literal with neither is a plain literal; one with both
// is invalid and NewLiteral rejects it.
type Literal struct {
	Lexical  string
	Datatype string // IRI value, empty if unset
	Language string // lowercased, empty if unset
}

// ErrDatatypeAndLanguage is returned by NewLiteral when both a datatype and
// a language tag are supplied; a literal carries at most one of the two.
var ErrDatatypeAndLanguage = fmt.Errorf("term: literal cannot have both a datatype and a language tag")

// NewLiteral validates and constructs a literal term. An empty datatype
// and empty language together describe a plain literal.
func NewLiteral(lexical, datatype, language string) (Literal, error) {
	if datatype != "" && language != "" {
		return Literal{}, ErrDatatypeAndLanguage
	}
	return Literal{
		Lexical:  lexical,
		Datatype: datatype,
		Language: strings.ToLower(language),
	}, nil
}

// Kind returns KindLiteral.
func (l Literal) Kind() Kind { return KindLiteral }

// String renders the literal in double-quoted NTriple form, with an "@lang"
// or "^^<datatype>" suffix as applicable.
func (l Literal) String() string {
	s := fmt.Sprintf("%q", l.Lexical)
	if l.Language != "" {
		return s + "@" + l.Language
	}
	if l.Datatype != "" {
		return s + "^^<" + l.Datatype + ">"
	}
	return s
}

// Equal reports whether other is a literal with the same lexical form,
// datatype and language.
func (l Literal) Equal(other Term) bool {
	o, ok := other.(Literal)
	return ok && l.Lexical == o.Lexical && l.Datatype == o.Datatype && l.Language == o.Language
}

// Triple is a subject-predicate-object statement. The predicate is always
// an IRI and the subject is always an IRI or a BlankNode; a literal can
// only appear in object position.
type Triple struct {
	Subject   Node
	Predicate IRI
	Object    Node
}

// ErrInvalidSubject is returned when a triple is constructed with a
// literal in subject position.
var ErrInvalidSubject = fmt.Errorf("term: subject must be an IRI or a blank node")

// NewTriple validates and constructs a triple. Use the Triple struct
// literal directly when subject validity is already known (e.g. inside the
// store, where positions are typed by construction).
func NewTriple(subject Node, predicate IRI, object Node) (Triple, error) {
	switch subject.(type) {
	case IRI, BlankNode:
	default:
		return Triple{}, ErrInvalidSubject
	}
	return Triple{Subject: subject, Predicate: predicate, Object: object}, nil
}

// Equal reports structural equality between two triples.
func (t Triple) Equal(other Triple) bool {
	return t.Subject.Equal(other.Subject) && t.Predicate.Equal(other.Predicate) && t.Object.Equal(other.Object)
}

// String renders the triple as "subject predicate object .".
func (t Triple) String() string {
	return fmt.Sprintf("%s %s %s .", t.Subject.String(), t.Predicate.String(), t.Object.String())
}

// Order returns a value usable for term ordering: IRI < BlankNode <
// Literal, ties broken by string form (Value for IRI, ID for BlankNode,
// Lexical for Literal; language/datatype are never tiebreakers).
func Order(t Term) (rank int, tiebreak string) {
	switch v := t.(type) {
	case IRI:
		return 0, v.Value
	case BlankNode:
		return 1, v.ID
	case Literal:
		return 2, v.Lexical
	default:
		return 3, ""
	}
}

// Less reports whether a sorts before b per Order.
func Less(a, b Term) bool {
	ra, ta := Order(a)
	rb, tb := Order(b)
	if ra != rb {
		return ra < rb
	}
	return ta < tb
}
