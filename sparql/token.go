package sparql

import (
	"fmt"
	"strings"
	"unicode"
)

// TokenKind tags the lexical category of a Token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenKeyword
	TokenVariable
	TokenIRI // absolute <...>, prefixed name, or a bare word (function name)
	TokenLiteral
	TokenSymbol
	TokenNumber
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"
	case TokenKeyword:
		return "keyword"
	case TokenVariable:
		return "variable"
	case TokenIRI:
		return "iri"
	case TokenLiteral:
		return "literal"
	case TokenSymbol:
		return "symbol"
	case TokenNumber:
		return "number"
	default:
		return "unknown"
	}
}

// Token is a single lexical unit produced by the tokenizer.
type Token struct {
	Kind TokenKind
	Text string
	// Angled is true when an IRI token was written in absolute <...> form,
	// which the parser must not resolve through the prefix map.
	Angled bool
}

// keywords are recognized case-insensitively and normalized to upper
// case, including the one-letter rdf:type shorthand "a".
var keywords = map[string]string{
	"SELECT":    "SELECT",
	"CONSTRUCT": "CONSTRUCT",
	"ASK":       "ASK",
	"DESCRIBE":  "DESCRIBE",
	"WHERE":     "WHERE",
	"FILTER":    "FILTER",
	"OPTIONAL":  "OPTIONAL",
	"UNION":     "UNION",
	"DISTINCT":  "DISTINCT",
	"LIMIT":     "LIMIT",
	"OFFSET":    "OFFSET",
	"ORDER":     "ORDER",
	"BY":        "BY",
	"ASC":       "ASC",
	"DESC":      "DESC",
	"PREFIX":    "PREFIX",
	"A":         "A",
}

// ErrUnterminatedLiteral is returned when a string literal is never closed.
var ErrUnterminatedLiteral = fmt.Errorf("sparql: unterminated string literal")

// ErrUnterminatedIRI is returned when an absolute <...> IRI is never closed.
var ErrUnterminatedIRI = fmt.Errorf("sparql: unterminated IRI")

// Lexer is a hand-written tokenizer over SPARQL query text.
type Lexer struct {
	input []rune
	pos   int
}

// NewLexer creates a tokenizer over the given query text.
func NewLexer(input string) *Lexer {
	return &Lexer{input: []rune(input)}
}

func (l *Lexer) peekByte() (rune, bool) {
	if l.pos >= len(l.input) {
		return 0, false
	}
	return l.input[l.pos], true
}

func (l *Lexer) at(offset int) (rune, bool) {
	p := l.pos + offset
	if p >= len(l.input) {
		return 0, false
	}
	return l.input[p], true
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		c, ok := l.peekByte()
		if !ok {
			return
		}
		if unicode.IsSpace(c) {
			l.pos++
			continue
		}
		if c == '#' {
			for {
				c, ok := l.peekByte()
				if !ok || c == '\n' {
					break
				}
				l.pos++
			}
			continue
		}
		return
	}
}

func isNameStart(c rune) bool {
	return unicode.IsLetter(c) || c == '_'
}

func isNameChar(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' || c == '-'
}

// Next returns the next token in the stream, or a TokenEOF token when the
// input is exhausted.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespaceAndComments()
	c, ok := l.peekByte()
	if !ok {
		return Token{Kind: TokenEOF}, nil
	}

	switch {
	case c == '?' || c == '$':
		return l.lexVariable()
	case c == '<':
		return l.lexAngledIRIOrOperator()
	case c == '"' || c == '\'':
		return l.lexString(c)
	case unicode.IsDigit(c) || ((c == '+' || c == '-') && l.nextIsDigit(1)):
		return l.lexNumber()
	case isNameStart(c):
		return l.lexNameOrKeyword()
	default:
		return l.lexSymbol()
	}
}

func (l *Lexer) nextIsDigit(offset int) bool {
	c, ok := l.at(offset)
	return ok && unicode.IsDigit(c)
}

func (l *Lexer) lexVariable() (Token, error) {
	l.pos++ // consume '?'/'$'
	start := l.pos
	for {
		c, ok := l.peekByte()
		if !ok || !isNameChar(c) {
			break
		}
		l.pos++
	}
	return Token{Kind: TokenVariable, Text: string(l.input[start:l.pos])}, nil
}

func (l *Lexer) lexAngledIRIOrOperator() (Token, error) {
	// '<=' operator
	if next, ok := l.at(1); ok && next == '=' {
		l.pos += 2
		return Token{Kind: TokenSymbol, Text: "<="}, nil
	}
	// Try to lex an IRIREF: <...> with no intervening control/space chars.
	save := l.pos
	l.pos++ // consume '<'
	start := l.pos
	for {
		c, ok := l.peekByte()
		if !ok {
			l.pos = save
			return Token{}, ErrUnterminatedIRI
		}
		if c == '>' {
			text := string(l.input[start:l.pos])
			l.pos++
			return Token{Kind: TokenIRI, Text: text, Angled: true}, nil
		}
		if unicode.IsSpace(c) || c == '<' {
			// Not a well-formed IRIREF; treat the original '<' as the
			// less-than operator instead.
			l.pos = save + 1
			return Token{Kind: TokenSymbol, Text: "<"}, nil
		}
		l.pos++
	}
}

func (l *Lexer) lexString(quote rune) (Token, error) {
	l.pos++ // consume opening quote
	var b strings.Builder
	for {
		c, ok := l.peekByte()
		if !ok {
			return Token{}, ErrUnterminatedLiteral
		}
		if c == quote {
			l.pos++
			return Token{Kind: TokenLiteral, Text: b.String()}, nil
		}
		if c == '\\' {
			l.pos++
			esc, ok := l.peekByte()
			if !ok {
				return Token{}, ErrUnterminatedLiteral
			}
			switch esc {
			case '"', '\'', '\\':
				b.WriteRune(esc)
			case 'n':
				b.WriteRune('\n')
			case 'r':
				b.WriteRune('\r')
			case 't':
				b.WriteRune('\t')
			default:
				b.WriteRune(esc)
			}
			l.pos++
			continue
		}
		b.WriteRune(c)
		l.pos++
	}
}

func (l *Lexer) lexNumber() (Token, error) {
	start := l.pos
	if c, ok := l.peekByte(); ok && (c == '+' || c == '-') {
		l.pos++
	}
	for {
		c, ok := l.peekByte()
		if !ok || !unicode.IsDigit(c) {
			break
		}
		l.pos++
	}
	if c, ok := l.peekByte(); ok && c == '.' {
		if next, ok := l.at(1); ok && unicode.IsDigit(next) {
			l.pos++
			for {
				c, ok := l.peekByte()
				if !ok || !unicode.IsDigit(c) {
					break
				}
				l.pos++
			}
		}
	}
	return Token{Kind: TokenNumber, Text: string(l.input[start:l.pos])}, nil
}

func (l *Lexer) lexNameOrKeyword() (Token, error) {
	start := l.pos
	for {
		c, ok := l.peekByte()
		if !ok || !isNameChar(c) {
			break
		}
		l.pos++
	}
	// Prefixed name: NAME ':' LOCAL, local part may itself contain name
	// characters and dots.
	if c, ok := l.peekByte(); ok && c == ':' {
		l.pos++
		for {
			c, ok := l.peekByte()
			if !ok || !(isNameChar(c) || c == '.') {
				break
			}
			l.pos++
		}
		return Token{Kind: TokenIRI, Text: string(l.input[start:l.pos])}, nil
	}

	word := string(l.input[start:l.pos])
	if kw, ok := keywords[strings.ToUpper(word)]; ok {
		return Token{Kind: TokenKeyword, Text: kw}, nil
	}
	return Token{Kind: TokenIRI, Text: word}, nil
}

func (l *Lexer) lexSymbol() (Token, error) {
	c, _ := l.peekByte()
	two := ""
	if next, ok := l.at(1); ok {
		two = string([]rune{c, next})
	}
	switch two {
	case "<=", ">=", "!=", "&&", "||", "^^":
		l.pos += 2
		return Token{Kind: TokenSymbol, Text: two}, nil
	}
	l.pos++
	return Token{Kind: TokenSymbol, Text: string(c)}, nil
}
