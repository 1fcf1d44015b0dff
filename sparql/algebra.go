// Package sparql implements a SPARQL 1.1 subset: SELECT, CONSTRUCT, ASK and
// DESCRIBE with FILTER, OPTIONAL, UNION and solution modifiers.
// This file defines the algebra: the query, graph-pattern and
// filter-expression sum types the hand-written parser in token.go/parser.go
// produces and the executor in executor.go consumes.
package sparql

import "github.com/kahefi/triplestore/term"

// PatternTerm is one position of a triple pattern: either a variable name
// or a bound term. Predicate variables are permitted, so this
// same type is used for all three positions.
type PatternTerm struct {
	Var   string    // non-empty iff this position is a variable
	Bound term.Node // set iff this position is bound
}

// IsVariable reports whether this position is a variable.
func (pt PatternTerm) IsVariable() bool { return pt.Var != "" }

// Var constructs a variable pattern term.
func Var(name string) PatternTerm { return PatternTerm{Var: name} }

// Bound constructs a bound pattern term.
func Bound(t term.Node) PatternTerm { return PatternTerm{Bound: t} }

// Query is the sum type over the four supported SPARQL forms.
type Query interface{ isQuery() }

// SelectQuery projects bound variables from WHERE, optionally de-duplicated
// and re-ordered/paged by Modifiers.
type SelectQuery struct {
	Vars      []string // projected variables; the executor projects only these
	Star      bool     // SELECT *: the parser then fills Vars with every variable in Where
	Where     []GraphPattern
	Modifiers Modifiers
	Distinct  bool
}

func (SelectQuery) isQuery() {}

// ConstructQuery instantiates Template once per solution of Where.
type ConstructQuery struct {
	Template  []TriplePattern
	Where     []GraphPattern
	Modifiers Modifiers
}

func (ConstructQuery) isQuery() {}

// AskQuery reports whether Where has any solution.
type AskQuery struct {
	Where []GraphPattern
}

func (AskQuery) isQuery() {}

// DescribeQuery collects every triple touching the given resources, either
// listed directly or bound via Where.
type DescribeQuery struct {
	Resources []PatternTerm
	Where     []GraphPattern // nil if DESCRIBE has no WHERE clause
}

func (DescribeQuery) isQuery() {}

// GraphPattern is the sum type over graph-pattern forms.
type GraphPattern interface{ isGraphPattern() }

// TriplePattern matches triples whose bound positions equal S/P/O.
type TriplePattern struct {
	S, P, O PatternTerm
}

func (TriplePattern) isGraphPattern() {}

// FilterPattern keeps only solutions for which Expr evaluates truthy.
type FilterPattern struct {
	Expr Expr
}

func (FilterPattern) isGraphPattern() {}

// OptionalPattern implements SPARQL's left outer join.
type OptionalPattern struct {
	Patterns []GraphPattern
}

func (OptionalPattern) isGraphPattern() {}

// UnionPattern evaluates Left and Right independently and unions the
// compatible results.
type UnionPattern struct {
	Left, Right []GraphPattern
}

func (UnionPattern) isGraphPattern() {}

// GroupPattern is an explicit "{ ... }" nesting, evaluated from a fresh
// seed and joined with the outer solutions by compatibility.
type GroupPattern struct {
	Patterns []GraphPattern
}

func (GroupPattern) isGraphPattern() {}

// CmpOp is a comparison operator.
type CmpOp int

const (
	CmpEq CmpOp = iota
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

// LogicOp is a boolean connective.
type LogicOp int

const (
	LogicAnd LogicOp = iota
	LogicOr
	LogicNot
)

// ArithOp is an arithmetic operator. The parser does not produce ArithExpr
// nodes, and the executor does not evaluate them: a filter depending on one
// always fails rather than panicking.
type ArithOp int

const (
	ArithAdd ArithOp = iota
	ArithSub
	ArithMul
	ArithDiv
)

// Expr is the sum type over filter expressions.
type Expr interface{ isExpr() }

// VarExpr references a solution variable.
type VarExpr struct{ Name string }

func (VarExpr) isExpr() {}

// ConstExpr is a literal term used directly in an expression.
type ConstExpr struct{ Value term.Node }

func (ConstExpr) isExpr() {}

// CmpExpr compares two sub-expressions.
type CmpExpr struct {
	Op       CmpOp
	LHS, RHS Expr
}

func (CmpExpr) isExpr() {}

// LogicExpr combines sub-expressions with AND/OR, or negates one with NOT.
type LogicExpr struct {
	Op   LogicOp
	Args []Expr
}

func (LogicExpr) isExpr() {}

// CallExpr is a built-in function call: bound, isIRI/isURI, isLiteral,
// isBlank. Unknown names evaluate to false with a diagnostic warning.
type CallExpr struct {
	Name string
	Args []Expr
}

func (CallExpr) isExpr() {}

// ArithExpr is a reserved arithmetic node; see ArithOp.
type ArithExpr struct {
	Op       ArithOp
	LHS, RHS Expr
}

func (ArithExpr) isExpr() {}

// OrderTerm is one key of an ORDER BY clause.
type OrderTerm struct {
	Var  string
	Desc bool
}

// Modifiers holds the optional LIMIT/OFFSET/ORDER BY solution modifiers.
type Modifiers struct {
	Limit   *int
	Offset  *int
	OrderBy []OrderTerm
}
