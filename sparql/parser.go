package sparql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kahefi/triplestore/term"
	"github.com/kahefi/triplestore/vocab"
)

// ParseError carries the offending token and the kind of input that was
// expected in its place.
type ParseError struct {
	Expected string
	Got      Token
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("sparql: expected %s, got %s %q", e.Expected, e.Got.Kind, e.Got.Text)
}

// ErrUnknownPrefix is returned when a prefixed name uses a prefix that was
// never declared with PREFIX.
var ErrUnknownPrefix = fmt.Errorf("sparql: unknown prefix")

// ErrUnknownQueryForm is returned when the keyword following the PREFIX
// declarations is not SELECT/CONSTRUCT/ASK/DESCRIBE. A non-keyword token in
// that position yields a *ParseError instead.
var ErrUnknownQueryForm = fmt.Errorf("sparql: unknown query form")

var rdfType = term.MustIRI(vocab.RDFType)

// Parser is a hand-written recursive-descent parser over tokens from a
// Lexer.
type Parser struct {
	lex      *Lexer
	cur      Token
	prefixes map[string]string
}

// Parse tokenizes and parses a complete SPARQL query.
func Parse(text string) (Query, error) {
	p := &Parser{lex: NewLexer(text), prefixes: make(map[string]string)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.parsePrefixDecls(); err != nil {
		return nil, err
	}
	if p.cur.Kind != TokenKeyword {
		return nil, &ParseError{Expected: "a query form keyword", Got: p.cur}
	}
	switch p.cur.Text {
	case "SELECT":
		return p.parseSelect()
	case "CONSTRUCT":
		return p.parseConstruct()
	case "ASK":
		return p.parseAsk()
	case "DESCRIBE":
		return p.parseDescribe()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownQueryForm, p.cur.Text)
	}
}

func (p *Parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *Parser) expectKeyword(kw string) error {
	if p.cur.Kind != TokenKeyword || p.cur.Text != kw {
		return &ParseError{Expected: "keyword " + kw, Got: p.cur}
	}
	return p.advance()
}

func (p *Parser) expectSymbol(sym string) error {
	if p.cur.Kind != TokenSymbol || p.cur.Text != sym {
		return &ParseError{Expected: "symbol " + sym, Got: p.cur}
	}
	return p.advance()
}

func (p *Parser) atSymbol(sym string) bool {
	return p.cur.Kind == TokenSymbol && p.cur.Text == sym
}

func (p *Parser) atKeyword(kw string) bool {
	return p.cur.Kind == TokenKeyword && p.cur.Text == kw
}

func (p *Parser) parsePrefixDecls() error {
	for p.atKeyword("PREFIX") {
		if err := p.advance(); err != nil {
			return err
		}
		if p.cur.Kind != TokenIRI || p.cur.Angled || !strings.HasSuffix(p.cur.Text, ":") {
			return &ParseError{Expected: "prefix name ending in ':'", Got: p.cur}
		}
		prefix := strings.TrimSuffix(p.cur.Text, ":")
		if err := p.advance(); err != nil {
			return err
		}
		if p.cur.Kind != TokenIRI || !p.cur.Angled {
			return &ParseError{Expected: "absolute IRI namespace", Got: p.cur}
		}
		p.prefixes[prefix] = p.cur.Text
		if err := p.advance(); err != nil {
			return err
		}
	}
	return nil
}

// resolveIRIToken turns an IRI-kind token into a term.IRI, expanding a
// prefixed name through the declared PREFIX bindings.
func (p *Parser) resolveIRIToken(tok Token) (term.IRI, error) {
	if tok.Angled {
		return term.NewIRI(tok.Text)
	}
	if i := strings.IndexByte(tok.Text, ':'); i >= 0 {
		prefix, local := tok.Text[:i], tok.Text[i+1:]
		ns, ok := p.prefixes[prefix]
		if !ok {
			return term.IRI{}, fmt.Errorf("%w: %q", ErrUnknownPrefix, prefix)
		}
		return term.NewIRI(ns + local)
	}
	// A bare word with no colon used as a term (not a function-call name)
	// falls back to a literal IRI value.
	return term.NewIRI(tok.Text)
}

// ---- top-level forms ----

func (p *Parser) parseSelect() (Query, error) {
	if err := p.expectKeyword("SELECT"); err != nil {
		return nil, err
	}
	distinct := false
	if p.atKeyword("DISTINCT") {
		distinct = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	star := false
	var vars []string
	if p.atSymbol("*") {
		star = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	} else {
		for p.cur.Kind == TokenVariable {
			vars = append(vars, p.cur.Text)
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	where, err := p.parseWhereBlock()
	if err != nil {
		return nil, err
	}
	modifiers, err := p.parseModifiers()
	if err != nil {
		return nil, err
	}
	if star {
		vars = collectVariables(where)
	}
	return SelectQuery{Vars: vars, Star: star, Where: where, Modifiers: modifiers, Distinct: distinct}, nil
}

func (p *Parser) parseConstruct() (Query, error) {
	if err := p.expectKeyword("CONSTRUCT"); err != nil {
		return nil, err
	}
	if err := p.expectSymbol("{"); err != nil {
		return nil, err
	}
	template, err := p.parseTemplateTriples()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol("}"); err != nil {
		return nil, err
	}
	where, err := p.parseWhereBlock()
	if err != nil {
		return nil, err
	}
	modifiers, err := p.parseModifiers()
	if err != nil {
		return nil, err
	}
	return ConstructQuery{Template: template, Where: where, Modifiers: modifiers}, nil
}

func (p *Parser) parseAsk() (Query, error) {
	if err := p.expectKeyword("ASK"); err != nil {
		return nil, err
	}
	if p.atKeyword("WHERE") {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if err := p.expectSymbol("{"); err != nil {
		return nil, err
	}
	where, err := p.parseGroupPatterns()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol("}"); err != nil {
		return nil, err
	}
	return AskQuery{Where: where}, nil
}

func (p *Parser) parseDescribe() (Query, error) {
	if err := p.expectKeyword("DESCRIBE"); err != nil {
		return nil, err
	}
	var resources []PatternTerm
	for p.cur.Kind == TokenVariable || p.cur.Kind == TokenIRI {
		if p.cur.Kind == TokenVariable {
			resources = append(resources, Var(p.cur.Text))
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		iri, err := p.resolveIRIToken(p.cur)
		if err != nil {
			return nil, err
		}
		resources = append(resources, Bound(iri))
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	var where []GraphPattern
	if p.atKeyword("WHERE") {
		w, err := p.parseWhereBlock()
		if err != nil {
			return nil, err
		}
		where = w
	}
	return DescribeQuery{Resources: resources, Where: where}, nil
}

// parseWhereBlock parses "WHERE { patterns }".
func (p *Parser) parseWhereBlock() ([]GraphPattern, error) {
	if err := p.expectKeyword("WHERE"); err != nil {
		return nil, err
	}
	if err := p.expectSymbol("{"); err != nil {
		return nil, err
	}
	patterns, err := p.parseGroupPatterns()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol("}"); err != nil {
		return nil, err
	}
	return patterns, nil
}

// ---- group/pattern parsing ----

// parseGroupPatterns parses the contents of a "{ ... }" block, stopping at
// the matching "}".
func (p *Parser) parseGroupPatterns() ([]GraphPattern, error) {
	var out []GraphPattern
	for !p.atSymbol("}") && p.cur.Kind != TokenEOF {
		pat, err := p.parseOnePattern()
		if err != nil {
			return nil, err
		}
		out = append(out, pat)
		if p.atSymbol(".") {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func (p *Parser) parseOnePattern() (GraphPattern, error) {
	switch {
	case p.atSymbol("{"):
		return p.parseGroupOrUnion()
	case p.atKeyword("OPTIONAL"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectSymbol("{"); err != nil {
			return nil, err
		}
		inner, err := p.parseGroupPatterns()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol("}"); err != nil {
			return nil, err
		}
		return OptionalPattern{Patterns: inner}, nil
	case p.atKeyword("FILTER"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectSymbol("("); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(")"); err != nil {
			return nil, err
		}
		return FilterPattern{Expr: expr}, nil
	default:
		return p.parseTriplePattern()
	}
}

func (p *Parser) parseGroupBlock() ([]GraphPattern, error) {
	if err := p.expectSymbol("{"); err != nil {
		return nil, err
	}
	inner, err := p.parseGroupPatterns()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol("}"); err != nil {
		return nil, err
	}
	return inner, nil
}

func (p *Parser) parseGroupOrUnion() (GraphPattern, error) {
	left, err := p.parseGroupBlock()
	if err != nil {
		return nil, err
	}
	if !p.atKeyword("UNION") {
		return GroupPattern{Patterns: left}, nil
	}
	accum := left
	for p.atKeyword("UNION") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseGroupBlock()
		if err != nil {
			return nil, err
		}
		accum = []GraphPattern{UnionPattern{Left: accum, Right: right}}
	}
	return accum[0], nil
}

func (p *Parser) parseTriplePattern() (GraphPattern, error) {
	s, err := p.parseTermPosition()
	if err != nil {
		return nil, err
	}
	pr, err := p.parseTermPosition()
	if err != nil {
		return nil, err
	}
	o, err := p.parseTermPosition()
	if err != nil {
		return nil, err
	}
	return TriplePattern{S: s, P: pr, O: o}, nil
}

// parseTemplateTriples parses the CONSTRUCT template block: the same
// grammar as a triple pattern block, but patterns other than triples are
// not meaningful there.
func (p *Parser) parseTemplateTriples() ([]TriplePattern, error) {
	var out []TriplePattern
	for !p.atSymbol("}") && p.cur.Kind != TokenEOF {
		tp, err := p.parseTriplePattern()
		if err != nil {
			return nil, err
		}
		out = append(out, tp.(TriplePattern))
		if p.atSymbol(".") {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func (p *Parser) parseTermPosition() (PatternTerm, error) {
	switch p.cur.Kind {
	case TokenVariable:
		v := Var(p.cur.Text)
		return v, p.advance()
	case TokenKeyword:
		if p.cur.Text == "A" {
			if err := p.advance(); err != nil {
				return PatternTerm{}, err
			}
			return Bound(rdfType), nil
		}
		return PatternTerm{}, &ParseError{Expected: "term", Got: p.cur}
	case TokenIRI:
		iri, err := p.resolveIRIToken(p.cur)
		if err != nil {
			return PatternTerm{}, err
		}
		return Bound(iri), p.advance()
	case TokenLiteral:
		lit, err := p.parseLiteralToken()
		if err != nil {
			return PatternTerm{}, err
		}
		return Bound(lit), nil
	case TokenNumber:
		lit := numberLiteral(p.cur.Text)
		return Bound(lit), p.advance()
	default:
		return PatternTerm{}, &ParseError{Expected: "term", Got: p.cur}
	}
}

// parseLiteralToken consumes a literal string token and an optional
// "@lang" or "^^<datatype>" suffix.
func (p *Parser) parseLiteralToken() (term.Literal, error) {
	lexical := p.cur.Text
	if err := p.advance(); err != nil {
		return term.Literal{}, err
	}
	datatype, lang := "", ""
	switch {
	case p.atSymbol("@"):
		if err := p.advance(); err != nil {
			return term.Literal{}, err
		}
		if p.cur.Kind != TokenIRI {
			return term.Literal{}, &ParseError{Expected: "language tag", Got: p.cur}
		}
		lang = p.cur.Text
		if err := p.advance(); err != nil {
			return term.Literal{}, err
		}
	case p.atSymbol("^^"):
		if err := p.advance(); err != nil {
			return term.Literal{}, err
		}
		if p.cur.Kind != TokenIRI {
			return term.Literal{}, &ParseError{Expected: "datatype IRI", Got: p.cur}
		}
		dt, err := p.resolveIRIToken(p.cur)
		if err != nil {
			return term.Literal{}, err
		}
		datatype = dt.Value
		if err := p.advance(); err != nil {
			return term.Literal{}, err
		}
	}
	return term.NewLiteral(lexical, datatype, lang)
}

func numberLiteral(text string) term.Literal {
	lit, _ := term.NewLiteral(text, vocab.XSDInteger, "")
	return lit
}

// ---- modifiers ----

func (p *Parser) parseModifiers() (Modifiers, error) {
	var mod Modifiers
	for {
		switch {
		case p.atKeyword("LIMIT"):
			if err := p.advance(); err != nil {
				return mod, err
			}
			n, err := p.expectIntToken()
			if err != nil {
				return mod, err
			}
			mod.Limit = &n
		case p.atKeyword("OFFSET"):
			if err := p.advance(); err != nil {
				return mod, err
			}
			n, err := p.expectIntToken()
			if err != nil {
				return mod, err
			}
			mod.Offset = &n
		case p.atKeyword("ORDER"):
			if err := p.advance(); err != nil {
				return mod, err
			}
			if err := p.expectKeyword("BY"); err != nil {
				return mod, err
			}
			for p.cur.Kind == TokenVariable {
				name := p.cur.Text
				if err := p.advance(); err != nil {
					return mod, err
				}
				desc := false
				if p.atKeyword("ASC") {
					if err := p.advance(); err != nil {
						return mod, err
					}
				} else if p.atKeyword("DESC") {
					desc = true
					if err := p.advance(); err != nil {
						return mod, err
					}
				}
				mod.OrderBy = append(mod.OrderBy, OrderTerm{Var: name, Desc: desc})
			}
		default:
			return mod, nil
		}
	}
}

func (p *Parser) expectIntToken() (int, error) {
	if p.cur.Kind != TokenNumber {
		return 0, &ParseError{Expected: "a number", Got: p.cur}
	}
	n, err := strconv.Atoi(p.cur.Text)
	if err != nil {
		return 0, &ParseError{Expected: "a number", Got: p.cur}
	}
	return n, p.advance()
}

// ---- filter expressions ----

func (p *Parser) parseExpr() (Expr, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.atSymbol("||") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = LogicExpr{Op: LogicOr, Args: []Expr{left, right}}
	}
	return left, nil
}

func (p *Parser) parseAnd() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.atSymbol("&&") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = LogicExpr{Op: LogicAnd, Args: []Expr{left, right}}
	}
	return left, nil
}

func (p *Parser) parseUnary() (Expr, error) {
	if p.atSymbol("!") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return LogicExpr{Op: LogicNot, Args: []Expr{inner}}, nil
	}
	return p.parseComparison()
}

var cmpOps = map[string]CmpOp{
	"=": CmpEq, "!=": CmpNe, "<": CmpLt, "<=": CmpLe, ">": CmpGt, ">=": CmpGe,
}

func (p *Parser) parseComparison() (Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind == TokenSymbol {
		if op, ok := cmpOps[p.cur.Text]; ok {
			if err := p.advance(); err != nil {
				return nil, err
			}
			right, err := p.parsePrimary()
			if err != nil {
				return nil, err
			}
			return CmpExpr{Op: op, LHS: left, RHS: right}, nil
		}
	}
	return left, nil
}

func (p *Parser) parsePrimary() (Expr, error) {
	switch {
	case p.atSymbol("("):
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(")"); err != nil {
			return nil, err
		}
		return e, nil
	case p.cur.Kind == TokenVariable:
		v := VarExpr{Name: p.cur.Text}
		return v, p.advance()
	case p.cur.Kind == TokenNumber:
		lit := numberLiteral(p.cur.Text)
		return ConstExpr{Value: lit}, p.advance()
	case p.cur.Kind == TokenLiteral:
		lit, err := p.parseLiteralToken()
		if err != nil {
			return nil, err
		}
		return ConstExpr{Value: lit}, nil
	case p.cur.Kind == TokenKeyword && p.cur.Text == "A":
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ConstExpr{Value: rdfType}, nil
	case p.cur.Kind == TokenIRI:
		name := p.cur.Text
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.atSymbol("(") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			var args []Expr
			if !p.atSymbol(")") {
				for {
					arg, err := p.parseExpr()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if p.atSymbol(",") {
						if err := p.advance(); err != nil {
							return nil, err
						}
						continue
					}
					break
				}
			}
			if err := p.expectSymbol(")"); err != nil {
				return nil, err
			}
			return CallExpr{Name: name, Args: args}, nil
		}
		iri, err := p.resolveIRIToken(tok)
		if err != nil {
			return nil, err
		}
		return ConstExpr{Value: iri}, nil
	default:
		return nil, &ParseError{Expected: "expression", Got: p.cur}
	}
}

// collectVariables returns every distinct variable name appearing anywhere
// in patterns, in order of first appearance, backing SELECT *.
func collectVariables(patterns []GraphPattern) []string {
	var order []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}
	var walkTerm func(pt PatternTerm)
	walkTerm = func(pt PatternTerm) {
		if pt.IsVariable() {
			add(pt.Var)
		}
	}
	var walk func(pats []GraphPattern)
	walk = func(pats []GraphPattern) {
		for _, gp := range pats {
			switch v := gp.(type) {
			case TriplePattern:
				walkTerm(v.S)
				walkTerm(v.P)
				walkTerm(v.O)
			case OptionalPattern:
				walk(v.Patterns)
			case GroupPattern:
				walk(v.Patterns)
			case UnionPattern:
				walk(v.Left)
				walk(v.Right)
			case FilterPattern:
				// filters don't introduce bindings
			}
		}
	}
	walk(patterns)
	return order
}
