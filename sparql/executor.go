package sparql

import (
	"sort"

	"github.com/kahefi/triplestore/diag"
	"github.com/kahefi/triplestore/store"
	"github.com/kahefi/triplestore/term"
)

// Executor evaluates parsed queries against a store. It never mutates the
// store.
type Executor struct {
	Store *store.Store
	Diag  diag.Sink
}

// NewExecutor creates an Executor over s. A nil sink discards diagnostics.
func NewExecutor(s *store.Store, sink diag.Sink) *Executor {
	return &Executor{Store: s, Diag: sink}
}

// Execute dispatches on the query form and returns the corresponding
// result container: *SelectResult, *ConstructResult, *AskResult or
// *DescribeResult.
func (e *Executor) Execute(q Query) (interface{}, error) {
	switch v := q.(type) {
	case SelectQuery:
		return e.ExecuteSelect(v)
	case ConstructQuery:
		return e.ExecuteConstruct(v)
	case AskQuery:
		return e.ExecuteAsk(v)
	case DescribeQuery:
		return e.ExecuteDescribe(v)
	default:
		return nil, &ParseError{Expected: "a known query form", Got: Token{}}
	}
}

// ExecuteSelect evaluates a SELECT query: evaluate patterns, apply
// DISTINCT, ORDER BY, OFFSET, LIMIT, then project.
func (e *Executor) ExecuteSelect(q SelectQuery) (*SelectResult, error) {
	sols, err := e.evaluate(q.Where)
	if err != nil {
		return nil, err
	}
	sols = applyModifiers(sols, q.Modifiers, q.Distinct)
	return &SelectResult{Vars: q.Vars, Solutions: project(sols, q.Vars)}, nil
}

// ExecuteConstruct evaluates a CONSTRUCT query: evaluate patterns, apply
// modifiers, then instantiate the template once per solution, dropping
// duplicates and any instantiation with an invalid position.
func (e *Executor) ExecuteConstruct(q ConstructQuery) (*ConstructResult, error) {
	sols, err := e.evaluate(q.Where)
	if err != nil {
		return nil, err
	}
	sols = applyModifiers(sols, q.Modifiers, false)

	var triples []term.Triple
	seen := make(map[string]bool)
	for _, sigma := range sols {
		for _, tp := range q.Template {
			t, ok := instantiateTemplate(tp, sigma)
			if !ok {
				continue
			}
			key := t.String()
			if seen[key] {
				continue
			}
			seen[key] = true
			triples = append(triples, t)
		}
	}
	return &ConstructResult{Triples: triples}, nil
}

// ExecuteAsk evaluates an ASK query: true iff the pattern has any
// solution.
func (e *Executor) ExecuteAsk(q AskQuery) (*AskResult, error) {
	sols, err := e.evaluate(q.Where)
	if err != nil {
		return nil, err
	}
	return &AskResult{Value: len(sols) > 0}, nil
}

// ExecuteDescribe evaluates a DESCRIBE query: without a WHERE clause, the
// resources are exactly those listed; with one, they are the bindings of
// the listed variables/IRIs across every solution. Every triple touching
// any resource as subject or object is returned, de-duplicated.
func (e *Executor) ExecuteDescribe(q DescribeQuery) (*DescribeResult, error) {
	var resources []term.Node
	if q.Where == nil {
		for _, r := range q.Resources {
			resources = append(resources, r.Bound)
		}
	} else {
		sols, err := e.evaluate(q.Where)
		if err != nil {
			return nil, err
		}
		seenRes := make(map[string]term.Node)
		for _, sigma := range sols {
			for _, r := range q.Resources {
				if r.IsVariable() {
					if v, ok := sigma[r.Var]; ok {
						seenRes[v.String()] = v
					}
					continue
				}
				seenRes[r.Bound.String()] = r.Bound
			}
		}
		for _, v := range seenRes {
			resources = append(resources, v)
		}
	}

	var triples []term.Triple
	seen := make(map[string]bool)
	collect := func(matches []term.Triple) {
		for _, t := range matches {
			key := t.String()
			if !seen[key] {
				seen[key] = true
				triples = append(triples, t)
			}
		}
	}
	for _, res := range resources {
		collect(e.Store.Match(store.Pattern{Subject: res}))
		collect(e.Store.Match(store.Pattern{Object: res}))
	}
	return &DescribeResult{Triples: triples}, nil
}

// evaluate runs patterns left to right over the singleton seed solution.
func (e *Executor) evaluate(patterns []GraphPattern) ([]Solution, error) {
	sols := []Solution{{}}
	for _, pat := range patterns {
		next, err := e.step(pat, sols)
		if err != nil {
			return nil, err
		}
		sols = next
	}
	return sols, nil
}

func (e *Executor) step(pattern GraphPattern, sols []Solution) ([]Solution, error) {
	switch p := pattern.(type) {
	case TriplePattern:
		return e.stepTriple(p, sols)
	case FilterPattern:
		return e.stepFilter(p, sols), nil
	case OptionalPattern:
		return e.stepOptional(p, sols)
	case UnionPattern:
		return e.stepUnion(p, sols)
	case GroupPattern:
		return e.stepGroup(p, sols)
	default:
		return sols, nil
	}
}

func (e *Executor) stepTriple(tp TriplePattern, sols []Solution) ([]Solution, error) {
	var out []Solution
	for _, sigma := range sols {
		pat, ok := buildStorePattern(tp, sigma)
		if !ok {
			continue
		}
		for _, t := range e.Store.Match(pat) {
			if ext, ok := extend(sigma, tp, t); ok {
				out = append(out, ext)
			}
		}
	}
	return out, nil
}

func resolvePos(pt PatternTerm, sigma Solution) term.Node {
	if pt.IsVariable() {
		if v, ok := sigma[pt.Var]; ok {
			return v
		}
		return nil
	}
	return pt.Bound
}

// buildStorePattern pushes down any bindings already present in sigma as
// bound positions in a store.Pattern. It reports ok=false when a binding
// already rules out any match (e.g. a predicate variable bound to a
// non-IRI term), letting the caller skip the store lookup entirely.
func buildStorePattern(tp TriplePattern, sigma Solution) (store.Pattern, bool) {
	var sp store.Pattern
	sp.Subject = resolvePos(tp.S, sigma)
	sp.Object = resolvePos(tp.O, sigma)

	if tp.P.IsVariable() {
		if v, ok := sigma[tp.P.Var]; ok {
			iri, ok := v.(term.IRI)
			if !ok {
				return sp, false
			}
			sp.Predicate = &iri
		}
	} else {
		iri, ok := tp.P.Bound.(term.IRI)
		if !ok {
			return sp, false
		}
		sp.Predicate = &iri
	}
	return sp, true
}

// extend binds tp's variables against a matched triple, failing if a
// variable already bound in sigma (including one bound twice within the
// same triple pattern, e.g. "?x p ?x") would be rebound inconsistently.
func extend(sigma Solution, tp TriplePattern, t term.Triple) (Solution, bool) {
	out := sigma.Clone()
	bind := func(pt PatternTerm, val term.Node) bool {
		if !pt.IsVariable() {
			return true
		}
		if existing, ok := out[pt.Var]; ok {
			return existing.Equal(val)
		}
		out[pt.Var] = val
		return true
	}
	if !bind(tp.S, t.Subject) {
		return nil, false
	}
	if !bind(tp.P, t.Predicate) {
		return nil, false
	}
	if !bind(tp.O, t.Object) {
		return nil, false
	}
	return out, true
}

func (e *Executor) stepFilter(fp FilterPattern, sols []Solution) []Solution {
	var out []Solution
	for _, sigma := range sols {
		if e.evalBool(fp.Expr, sigma) {
			out = append(out, sigma)
		}
	}
	return out
}

// stepOptional implements left outer join. Since evaluate
// always starts the inner patterns from a fresh seed, the inner solution
// set T does not depend on sigma and is computed once.
func (e *Executor) stepOptional(op OptionalPattern, sols []Solution) ([]Solution, error) {
	inner, err := e.evaluate(op.Patterns)
	if err != nil {
		return nil, err
	}
	var out []Solution
	for _, sigma := range sols {
		matched := false
		for _, tau := range inner {
			if Compatible(sigma, tau) {
				out = append(out, Merge(sigma, tau))
				matched = true
			}
		}
		if !matched {
			out = append(out, sigma)
		}
	}
	return out, nil
}

func (e *Executor) stepUnion(up UnionPattern, sols []Solution) ([]Solution, error) {
	left, err := e.evaluate(up.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.evaluate(up.Right)
	if err != nil {
		return nil, err
	}

	var out []Solution
	join := func(branch []Solution) {
		for _, sigma := range sols {
			for _, tau := range branch {
				if Compatible(sigma, tau) {
					out = append(out, Merge(sigma, tau))
				}
			}
		}
	}
	join(left)
	join(right)
	return dedupeSolutions(out), nil
}

func (e *Executor) stepGroup(gp GroupPattern, sols []Solution) ([]Solution, error) {
	inner, err := e.evaluate(gp.Patterns)
	if err != nil {
		return nil, err
	}
	var out []Solution
	for _, sigma := range sols {
		for _, tau := range inner {
			if Compatible(sigma, tau) {
				out = append(out, Merge(sigma, tau))
			}
		}
	}
	return out, nil
}

func instantiateTemplate(tp TriplePattern, sigma Solution) (term.Triple, bool) {
	resolve := func(pt PatternTerm) (term.Node, bool) {
		if pt.IsVariable() {
			v, ok := sigma[pt.Var]
			return v, ok
		}
		return pt.Bound, true
	}
	s, ok := resolve(tp.S)
	if !ok {
		return term.Triple{}, false
	}
	switch s.(type) {
	case term.IRI, term.BlankNode:
	default:
		return term.Triple{}, false
	}
	pr, ok := resolve(tp.P)
	if !ok {
		return term.Triple{}, false
	}
	p, ok := pr.(term.IRI)
	if !ok {
		return term.Triple{}, false
	}
	o, ok := resolve(tp.O)
	if !ok {
		return term.Triple{}, false
	}
	return term.Triple{Subject: s, Predicate: p, Object: o}, true
}

func solutionKey(vars []string, sigma Solution) string {
	key := ""
	for _, v := range vars {
		if val, ok := sigma[v]; ok {
			key += v + "=" + val.String() + "|"
		} else {
			key += v + "=?|"
		}
	}
	return key
}

func allVarNames(sols []Solution) []string {
	seen := make(map[string]bool)
	var names []string
	for _, sigma := range sols {
		for v := range sigma {
			if !seen[v] {
				seen[v] = true
				names = append(names, v)
			}
		}
	}
	sort.Strings(names)
	return names
}

// dedupeSolutions removes duplicate solutions using variable-wise term
// equality, shared by DISTINCT and UNION.
func dedupeSolutions(sols []Solution) []Solution {
	vars := allVarNames(sols)
	seen := make(map[string]bool, len(sols))
	out := make([]Solution, 0, len(sols))
	for _, sigma := range sols {
		key := solutionKey(vars, sigma)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, sigma)
	}
	return out
}

// orderSolutions stable-sorts by each ORDER BY key in reverse, so the
// first key dominates. Unbound keys sort before any bound
// term, independent of ASC/DESC.
func orderSolutions(sols []Solution, keys []OrderTerm) []Solution {
	out := make([]Solution, len(sols))
	copy(out, sols)
	for i := len(keys) - 1; i >= 0; i-- {
		k := keys[i]
		sort.SliceStable(out, func(a, b int) bool {
			va, okA := out[a][k.Var]
			vb, okB := out[b][k.Var]
			switch {
			case !okA && !okB:
				return false
			case !okA:
				return true
			case !okB:
				return false
			}
			if k.Desc {
				return term.Less(vb, va)
			}
			return term.Less(va, vb)
		})
	}
	return out
}

func applyModifiers(sols []Solution, mod Modifiers, distinct bool) []Solution {
	if distinct {
		sols = dedupeSolutions(sols)
	}
	if len(mod.OrderBy) > 0 {
		sols = orderSolutions(sols, mod.OrderBy)
	}
	if mod.Offset != nil {
		off := *mod.Offset
		if off > len(sols) {
			off = len(sols)
		}
		sols = sols[off:]
	}
	if mod.Limit != nil {
		lim := *mod.Limit
		if lim < len(sols) {
			sols = sols[:lim]
		}
	}
	return sols
}

func project(sols []Solution, vars []string) []Solution {
	out := make([]Solution, len(sols))
	for i, sigma := range sols {
		proj := Solution{}
		for _, v := range vars {
			if val, ok := sigma[v]; ok {
				proj[v] = val
			}
		}
		out[i] = proj
	}
	return out
}

// ---- FILTER expression evaluation ----

func (e *Executor) evalBool(expr Expr, sigma Solution) bool {
	switch v := expr.(type) {
	case VarExpr:
		_, ok := sigma[v.Name]
		return ok
	case ConstExpr:
		return true
	case CmpExpr:
		return e.evalCmp(v, sigma)
	case LogicExpr:
		switch v.Op {
		case LogicAnd:
			for _, a := range v.Args {
				if !e.evalBool(a, sigma) {
					return false
				}
			}
			return true
		case LogicOr:
			for _, a := range v.Args {
				if e.evalBool(a, sigma) {
					return true
				}
			}
			return false
		case LogicNot:
			return !e.evalBool(v.Args[0], sigma)
		default:
			return false
		}
	case CallExpr:
		return e.evalCall(v, sigma)
	case ArithExpr:
		// Arithmetic is not evaluated; a filter depending on it always
		// fails rather than panicking.
		return false
	default:
		return false
	}
}

func (e *Executor) evalValue(expr Expr, sigma Solution) (term.Node, bool) {
	switch v := expr.(type) {
	case VarExpr:
		val, ok := sigma[v.Name]
		return val, ok
	case ConstExpr:
		return v.Value, true
	default:
		return nil, false
	}
}

func (e *Executor) evalCmp(c CmpExpr, sigma Solution) bool {
	lv, lok := e.evalValue(c.LHS, sigma)
	rv, rok := e.evalValue(c.RHS, sigma)
	if !lok || !rok {
		return false
	}
	if c.Op == CmpEq {
		return lv.Equal(rv)
	}
	if c.Op == CmpNe {
		return !lv.Equal(rv)
	}
	lf, lerr := numericOf(lv)
	rf, rerr := numericOf(rv)
	if lerr != nil || rerr != nil {
		return false
	}
	switch c.Op {
	case CmpLt:
		return lf < rf
	case CmpLe:
		return lf <= rf
	case CmpGt:
		return lf > rf
	case CmpGe:
		return lf >= rf
	default:
		return false
	}
}

func numericOf(t term.Node) (float64, error) {
	lit, ok := t.(term.Literal)
	if !ok {
		return 0, term.ErrNotNumeric
	}
	return lit.AsFloat()
}

func (e *Executor) evalCall(c CallExpr, sigma Solution) bool {
	switch c.Name {
	case "bound":
		if len(c.Args) != 1 {
			return false
		}
		ve, ok := c.Args[0].(VarExpr)
		if !ok {
			return false
		}
		_, bound := sigma[ve.Name]
		return bound
	case "isIRI", "isURI":
		v, ok := e.evalValue(firstArg(c), sigma)
		if !ok {
			return false
		}
		_, isIRI := v.(term.IRI)
		return isIRI
	case "isLiteral":
		v, ok := e.evalValue(firstArg(c), sigma)
		if !ok {
			return false
		}
		_, isLit := v.(term.Literal)
		return isLit
	case "isBlank":
		v, ok := e.evalValue(firstArg(c), sigma)
		if !ok {
			return false
		}
		_, isBlank := v.(term.BlankNode)
		return isBlank
	default:
		diag.Warnf(e.Diag, diag.KindUnknownFilterFunction, c.Name)
		return false
	}
}

func firstArg(c CallExpr) Expr {
	if len(c.Args) == 0 {
		return ConstExpr{}
	}
	return c.Args[0]
}
