// Package shacl implements a SHACL-Core shape validator over a triple
// store: node and property shapes, target resolution, constraint
// evaluation, and validation reports.
package shacl

import "github.com/kahefi/triplestore/term"

// Severity is the result severity a shape reports on violation. The zero
// value is Violation, matching a shape that never sets it explicitly.
type Severity int

const (
	SeverityViolation Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityViolation:
		return "Violation"
	case SeverityWarning:
		return "Warning"
	case SeverityInfo:
		return "Info"
	default:
		return "Violation"
	}
}

// NodeKind is the term-type tag used by the NodeKind constraint.
type NodeKind int

const (
	NodeKindIRI NodeKind = iota
	NodeKindBlankNode
	NodeKindLiteral
	NodeKindBlankNodeOrIRI
	NodeKindBlankNodeOrLiteral
	NodeKindIRIOrLiteral
)

// Target is the sum type over target-selection rules.
type Target interface{ isTarget() }

// TargetClass selects every subject of an (s, rdf:type, Class) triple.
type TargetClass struct{ Class term.IRI }

func (TargetClass) isTarget() {}

// TargetNode selects exactly Node.
type TargetNode struct{ Node term.Node }

func (TargetNode) isTarget() {}

// TargetSubjectsOf selects every subject of a triple with predicate Predicate.
type TargetSubjectsOf struct{ Predicate term.IRI }

func (TargetSubjectsOf) isTarget() {}

// TargetObjectsOf selects every object of a triple with predicate Predicate.
type TargetObjectsOf struct{ Predicate term.IRI }

func (TargetObjectsOf) isTarget() {}

// Shape is implemented by NodeShape. The logical constraints (And/Or/Not)
// hold NodeShape operands directly and validate them against the same
// focus node.
type Shape interface{ isShape() }

// NodeShape targets a set of focus nodes and validates constraints and
// nested property shapes against each.
type NodeShape struct {
	ID             string
	Targets        []Target
	Constraints    []Constraint
	PropertyShapes []PropertyShape
	Message        string
	Severity       Severity
	Deactivated    bool
}

func (NodeShape) isShape() {}

// PropertyShape validates constraints against the value set reached from a
// focus node by Path. ID is optional; when it is empty, Validate generates a
// fresh ID for the results of each focus node (the shape itself is not
// changed, so results for different focus nodes carry different IDs).
type PropertyShape struct {
	ID          string
	Path        term.IRI
	Constraints []Constraint
	Message     string
	Severity    Severity
	Name        string
}

// Constraint is the sum type over SHACL-Core constraint components.
// Dispatch in validator.go/constraint.go is a total match
// over this set; an unrecognized implementation falls through to a
// diagnostic warning rather than a panic.
type Constraint interface{ isConstraint() }

// --- Cardinality ---

type MinCount struct{ N int }

func (MinCount) isConstraint() {}

type MaxCount struct{ N int }

func (MaxCount) isConstraint() {}

// --- Value type ---

type Datatype struct{ IRI term.IRI }

func (Datatype) isConstraint() {}

// Class requires a direct rdf:type edge; subclass inference is not
// performed.
type Class struct{ IRI term.IRI }

func (Class) isConstraint() {}

type NodeKindConstraint struct{ Kind NodeKind }

func (NodeKindConstraint) isConstraint() {}

// --- String ---

type MinLength struct{ N int }

func (MinLength) isConstraint() {}

type MaxLength struct{ N int }

func (MaxLength) isConstraint() {}

// Pattern matches a literal's lexical form against Regex. An invalid Regex
// is a runtime skip (warning, no violation).
type Pattern struct{ Regex string }

func (Pattern) isConstraint() {}

type LanguageIn struct{ Langs []string }

func (LanguageIn) isConstraint() {}

// --- Set membership ---

// HasValue is evaluated once against the full value set.
type HasValue struct{ Value term.Node }

func (HasValue) isConstraint() {}

// In is evaluated per value: each value must be a member of Values.
type In struct{ Values []term.Node }

func (In) isConstraint() {}

// --- Numeric ---

type MinInclusive struct{ X float64 }

func (MinInclusive) isConstraint() {}

type MaxInclusive struct{ X float64 }

func (MaxInclusive) isConstraint() {}

type MinExclusive struct{ X float64 }

func (MinExclusive) isConstraint() {}

type MaxExclusive struct{ X float64 }

func (MaxExclusive) isConstraint() {}

// --- Property pair ---

type Equals struct{ Predicate term.IRI }

func (Equals) isConstraint() {}

type Disjoint struct{ Predicate term.IRI }

func (Disjoint) isConstraint() {}

// LessThan is reserved; not evaluated, like the executor's treatment of
// arithmetic expressions.
type LessThan struct{ Predicate term.IRI }

func (LessThan) isConstraint() {}

type LessThanOrEquals struct{ Predicate term.IRI }

func (LessThanOrEquals) isConstraint() {}

// --- Logical ---

type And struct{ Shapes []NodeShape }

func (And) isConstraint() {}

type Or struct{ Shapes []NodeShape }

func (Or) isConstraint() {}

type Not struct{ Shape NodeShape }

func (Not) isConstraint() {}

// Xone is reserved; not evaluated.
type Xone struct{ Shapes []NodeShape }

func (Xone) isConstraint() {}
