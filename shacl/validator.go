package shacl

import (
	"github.com/teris-io/shortid"

	"github.com/kahefi/triplestore/diag"
	"github.com/kahefi/triplestore/store"
	"github.com/kahefi/triplestore/term"
)

// ValidationResult is one constraint failure, carrying enough context to
// report without re-walking the shape.
type ValidationResult struct {
	FocusNode   term.Node
	ResultPath  *term.IRI // nil for a node-level constraint
	Value       term.Node // nil when the constraint is not per-value
	ShapeID     string
	Constraint  Constraint
	Message     string
	Severity    Severity
}

// ValidationReport is the outcome of Validate: the overall conformance
// flag and every individual result, Violation and otherwise.
type ValidationReport struct {
	Conforms bool
	Results  []ValidationResult
}

// Validate runs every shape's target resolution and constraint evaluation
// against s. A nil sink discards runtime-skip diagnostics
// (unknown constraint, invalid regex).
func Validate(s *store.Store, shapes []NodeShape, sink diag.Sink) *ValidationReport {
	var results []ValidationResult
	for _, shape := range shapes {
		if shape.Deactivated {
			continue
		}
		for _, focus := range resolveTargets(s, shape.Targets) {
			results = append(results, validateNodeShape(s, shape, focus, sink)...)
		}
	}
	conforms := true
	for _, r := range results {
		if r.Severity == SeverityViolation {
			conforms = false
			break
		}
	}
	return &ValidationReport{Conforms: conforms, Results: results}
}

// validateNodeShape evaluates shape's own constraints and every nested
// property shape against focus, ignoring Deactivated/Targets (the caller
// already resolved those); this lets it double as the sub-shape evaluator
// for And/Or/Not.
func validateNodeShape(s *store.Store, shape NodeShape, focus term.Node, sink diag.Sink) []ValidationResult {
	var out []ValidationResult
	for _, c := range shape.Constraints {
		out = append(out, evalNodeConstraint(s, shape, focus, c, sink)...)
	}
	for _, ps := range shape.PropertyShapes {
		out = append(out, validatePropertyShape(s, shape, ps, focus, sink)...)
	}
	return out
}

func evalNodeConstraint(s *store.Store, shape NodeShape, focus term.Node, c Constraint, sink diag.Sink) []ValidationResult {
	if viol := evalLogicalConstraint(s, focus, c, sink); viol != nil {
		return []ValidationResult{{
			FocusNode:  focus,
			ShapeID:    shape.ID,
			Constraint: c,
			Message:    pickMessage(shape.Message, defaultMessage(c)),
			Severity:   shape.Severity,
		}}
	}
	if ok, handled, msg := evalValueConstraint(s, focus, c, sink); handled {
		if ok {
			return nil
		}
		return []ValidationResult{{
			FocusNode:  focus,
			Value:      focus,
			ShapeID:    shape.ID,
			Constraint: c,
			Message:    pickMessage(shape.Message, msg),
			Severity:   shape.Severity,
		}}
	}
	// Node shapes don't carry a "value set" of their own distinct from the
	// focus node, so set/pair constraints attached directly to a NodeShape
	// (unusual, but not prohibited) are evaluated against the singleton
	// {focus}.
	if ok, handled, msg := evalSetConstraint(c, []term.Node{focus}); handled {
		if ok {
			return nil
		}
		return []ValidationResult{{
			FocusNode:  focus,
			ShapeID:    shape.ID,
			Constraint: c,
			Message:    pickMessage(shape.Message, msg),
			Severity:   shape.Severity,
		}}
	}
	if ok, handled, msg := evalPairConstraint(s, focus, []term.Node{focus}, c); handled {
		if ok {
			return nil
		}
		return []ValidationResult{{
			FocusNode:  focus,
			ShapeID:    shape.ID,
			Constraint: c,
			Message:    pickMessage(shape.Message, msg),
			Severity:   shape.Severity,
		}}
	}
	diag.Warnf(sink, diag.KindUnknownConstraint, defaultMessage(c))
	return nil
}

func validatePropertyShape(s *store.Store, shape NodeShape, ps PropertyShape, focus term.Node, sink diag.Sink) []ValidationResult {
	shapeID := ps.ID
	if shapeID == "" {
		if gen, err := shortid.Generate(); err == nil {
			shapeID = gen
		}
	}
	severity := ps.Severity
	message := ps.Message
	path := ps.Path

	values := valuesOf(s, focus, path)
	var out []ValidationResult

	emit := func(value term.Node, c Constraint, msg string) {
		out = append(out, ValidationResult{
			FocusNode:  focus,
			ResultPath: &path,
			Value:      value,
			ShapeID:    shapeID,
			Constraint: c,
			Message:    pickMessage(message, msg),
			Severity:   severity,
		})
	}

	for _, c := range ps.Constraints {
		if viol := evalLogicalConstraint(s, focus, c, sink); viol != nil {
			emit(nil, c, defaultMessage(c))
			continue
		}
		if ok, handled, msg := evalSetConstraint(c, values); handled {
			if !ok {
				emit(nil, c, msg)
			}
			continue
		}
		if ok, handled, msg := evalPairConstraint(s, focus, values, c); handled {
			if !ok {
				emit(nil, c, msg)
			}
			continue
		}
		handledAny := false
		for _, v := range values {
			if ok, handled, msg := evalValueConstraint(s, v, c, sink); handled {
				handledAny = true
				if !ok {
					emit(v, c, msg)
				}
			} else {
				break
			}
		}
		if !handledAny {
			// Either no value was handled because c is not a per-value kind,
			// or there were no values. In the latter case a recognized
			// per-value kind (e.g. Datatype on an empty value set) conforms
			// vacuously; only an unrecognized kind is reported.
			if _, handled, _ := evalValueConstraint(s, term.Literal{}, c, sink); !handled {
				diag.Warnf(sink, diag.KindUnknownConstraint, defaultMessage(c))
			}
		}
	}
	return out
}

// evalLogicalConstraint evaluates And/Or/Not against focus. It returns a
// non-nil (possibly empty) slice when c is a logical constraint that
// failed, or nil when c either conforms or is not a logical constraint.
// The caller only needs to know whether to emit one violation, so the
// slice contents are not otherwise consumed.
func evalLogicalConstraint(s *store.Store, focus term.Node, c Constraint, sink diag.Sink) []ValidationResult {
	switch v := c.(type) {
	case And:
		var viol []ValidationResult
		for _, sub := range v.Shapes {
			viol = append(viol, validateNodeShape(s, sub, focus, sink)...)
		}
		if len(viol) == 0 {
			return nil
		}
		return viol
	case Or:
		for _, sub := range v.Shapes {
			if len(validateNodeShape(s, sub, focus, sink)) == 0 {
				return nil // at least one sub-shape conforms
			}
		}
		return []ValidationResult{{}} // every sub-shape failed
	case Not:
		if len(validateNodeShape(s, v.Shape, focus, sink)) == 0 {
			return []ValidationResult{{}} // sub-shape conforms, so Not fails
		}
		return nil
	case Xone:
		return nil // reserved; not evaluated
	default:
		return nil
	}
}

func pickMessage(custom, fallback string) string {
	if custom != "" {
		return custom
	}
	return fallback
}

func defaultMessage(c Constraint) string {
	switch c.(type) {
	case MinCount:
		return "minimum count not met"
	case MaxCount:
		return "maximum count exceeded"
	case Datatype:
		return "value has the wrong datatype"
	case Class:
		return "value is not a direct instance of the required class"
	case NodeKindConstraint:
		return "value has the wrong node kind"
	case MinLength:
		return "value is shorter than the minimum length"
	case MaxLength:
		return "value is longer than the maximum length"
	case Pattern:
		return "value does not match the required pattern"
	case LanguageIn:
		return "language tag is not in the allowed set"
	case HasValue:
		return "required value is missing"
	case In:
		return "value is not in the allowed set"
	case MinInclusive, MaxInclusive, MinExclusive, MaxExclusive:
		return "value is out of range"
	case Equals:
		return "value sets are not equal"
	case Disjoint:
		return "value sets are not disjoint"
	case And:
		return "conjunction of shapes failed"
	case Or:
		return "no alternative shape conformed"
	case Not:
		return "negated shape conformed"
	default:
		return "constraint violated"
	}
}
