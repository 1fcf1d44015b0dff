package shacl

import (
	"regexp"

	"github.com/kahefi/triplestore/diag"
	"github.com/kahefi/triplestore/store"
	"github.com/kahefi/triplestore/term"
)

// evalSetConstraint evaluates a constraint once against the full value set
// (cardinality, HasValue). ok=false means the constraint
// failed and a violation should be reported; ok=true with handled=false
// means c is not a set-level constraint.
func evalSetConstraint(c Constraint, values []term.Node) (ok bool, handled bool, message string) {
	switch v := c.(type) {
	case MinCount:
		return len(values) >= v.N, true, "minimum count not met"
	case MaxCount:
		return len(values) <= v.N, true, "maximum count exceeded"
	case HasValue:
		for _, val := range values {
			if val.Equal(v.Value) {
				return true, true, ""
			}
		}
		return false, true, "required value is missing"
	default:
		return true, false, ""
	}
}

// evalPairConstraint evaluates a property-pair constraint by comparing
// values against the value set of another predicate at the same focus
// node. LessThan/LessThanOrEquals are reserved and always conform.
func evalPairConstraint(st *store.Store, focus term.Node, values []term.Node, c Constraint) (ok bool, handled bool, message string) {
	switch v := c.(type) {
	case Equals:
		other := valuesOf(st, focus, v.Predicate)
		return termSetEqual(values, other), true, "value sets are not equal"
	case Disjoint:
		other := valuesOf(st, focus, v.Predicate)
		return !termSetIntersects(values, other), true, "value sets are not disjoint"
	case LessThan, LessThanOrEquals:
		return true, true, ""
	default:
		return true, false, ""
	}
}

func termSetEqual(a, b []term.Node) bool {
	if len(a) != len(b) {
		return false
	}
	return termSetContainsAll(a, b) && termSetContainsAll(b, a)
}

func termSetContainsAll(a, b []term.Node) bool {
	for _, x := range a {
		found := false
		for _, y := range b {
			if x.Equal(y) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func termSetIntersects(a, b []term.Node) bool {
	for _, x := range a {
		for _, y := range b {
			if x.Equal(y) {
				return true
			}
		}
	}
	return false
}

// evalValueConstraint evaluates a per-value constraint (value-type,
// string, In, numeric). handled=false means c is not a
// per-value constraint (cardinality/HasValue/pair/logical are handled
// elsewhere).
func evalValueConstraint(st *store.Store, v term.Node, c Constraint, sink diag.Sink) (ok bool, handled bool, message string) {
	switch t := c.(type) {
	case Datatype:
		lit, isLit := v.(term.Literal)
		return isLit && lit.Datatype == t.IRI.Value, true, "value must have datatype " + t.IRI.Value
	case Class:
		return classCheck(st, v, t.IRI), true, "value must be a direct instance of " + t.IRI.Value
	case NodeKindConstraint:
		return nodeKindMatches(v, t.Kind), true, "value has the wrong node kind"
	case MinLength:
		lit, isLit := v.(term.Literal)
		if !isLit {
			return true, true, ""
		}
		return len([]rune(lit.Lexical)) >= t.N, true, "value is shorter than the minimum length"
	case MaxLength:
		lit, isLit := v.(term.Literal)
		if !isLit {
			return true, true, ""
		}
		return len([]rune(lit.Lexical)) <= t.N, true, "value is longer than the maximum length"
	case Pattern:
		lit, isLit := v.(term.Literal)
		if !isLit {
			return true, true, ""
		}
		re, err := regexp.Compile(t.Regex)
		if err != nil {
			diag.Warnf(sink, diag.KindInvalidPattern, t.Regex)
			return true, true, ""
		}
		return re.MatchString(lit.Lexical), true, "value does not match the required pattern"
	case LanguageIn:
		lit, isLit := v.(term.Literal)
		if !isLit || lit.Language == "" {
			return true, true, ""
		}
		for _, lang := range t.Langs {
			if lang == lit.Language {
				return true, true, ""
			}
		}
		return false, true, "language tag is not in the allowed set"
	case In:
		for _, allowed := range t.Values {
			if v.Equal(allowed) {
				return true, true, ""
			}
		}
		return false, true, "value is not in the allowed set"
	case MinInclusive:
		f, err := numericOf(v)
		return err != nil || f >= t.X, true, "value is below the minimum (inclusive)"
	case MaxInclusive:
		f, err := numericOf(v)
		return err != nil || f <= t.X, true, "value is above the maximum (inclusive)"
	case MinExclusive:
		f, err := numericOf(v)
		return err != nil || f > t.X, true, "value is below the minimum (exclusive)"
	case MaxExclusive:
		f, err := numericOf(v)
		return err != nil || f < t.X, true, "value is above the maximum (exclusive)"
	default:
		return true, false, ""
	}
}

// numericOf coerces a value the same way SPARQL FILTER does. A non-literal
// or non-numeric lexical form is treated as conforming rather than
// failing, since a numeric constraint simply does not apply to it.
func numericOf(v term.Node) (float64, error) {
	lit, ok := v.(term.Literal)
	if !ok {
		return 0, term.ErrNotNumeric
	}
	return lit.AsFloat()
}

func classCheck(st *store.Store, v term.Node, class term.IRI) bool {
	switch v.(type) {
	case term.IRI, term.BlankNode:
	default:
		return false
	}
	return st.Has(term.Triple{Subject: v, Predicate: rdfType, Object: class})
}

func nodeKindMatches(v term.Node, kind NodeKind) bool {
	switch kind {
	case NodeKindIRI:
		_, ok := v.(term.IRI)
		return ok
	case NodeKindBlankNode:
		_, ok := v.(term.BlankNode)
		return ok
	case NodeKindLiteral:
		_, ok := v.(term.Literal)
		return ok
	case NodeKindBlankNodeOrIRI:
		switch v.(type) {
		case term.IRI, term.BlankNode:
			return true
		default:
			return false
		}
	case NodeKindBlankNodeOrLiteral:
		switch v.(type) {
		case term.Literal, term.BlankNode:
			return true
		default:
			return false
		}
	case NodeKindIRIOrLiteral:
		switch v.(type) {
		case term.IRI, term.Literal:
			return true
		default:
			return false
		}
	default:
		return false
	}
}
