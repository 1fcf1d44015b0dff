package sparql_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kahefi/triplestore/sparql"
)

func lexAll(input string) ([]sparql.Token, error) {
	lex := sparql.NewLexer(input)
	var toks []sparql.Token
	for {
		tok, err := lex.Next()
		if err != nil {
			return toks, err
		}
		if tok.Kind == sparql.TokenEOF {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

var _ = Describe("Lexer", func() {
	It("tokenizes a variable", func() {
		toks, err := lexAll("?name")
		Expect(err).NotTo(HaveOccurred())
		Expect(toks).To(HaveLen(1))
		Expect(toks[0].Kind).To(Equal(sparql.TokenVariable))
		Expect(toks[0].Text).To(Equal("name"))
	})

	It("tokenizes an absolute IRI distinctly from a prefixed name", func() {
		toks, err := lexAll("<http://ex/alice> foaf:name")
		Expect(err).NotTo(HaveOccurred())
		Expect(toks).To(HaveLen(2))
		Expect(toks[0].Kind).To(Equal(sparql.TokenIRI))
		Expect(toks[0].Angled).To(BeTrue())
		Expect(toks[0].Text).To(Equal("http://ex/alice"))
		Expect(toks[1].Angled).To(BeFalse())
		Expect(toks[1].Text).To(Equal("foaf:name"))
	})

	It("recognizes keywords case-insensitively", func() {
		toks, err := lexAll("select Select SELECT")
		Expect(err).NotTo(HaveOccurred())
		for _, tok := range toks {
			Expect(tok.Kind).To(Equal(sparql.TokenKeyword))
			Expect(tok.Text).To(Equal("SELECT"))
		}
	})

	It("treats the rdf:type shorthand as a keyword in either case", func() {
		toks, err := lexAll("a A")
		Expect(err).NotTo(HaveOccurred())
		for _, tok := range toks {
			Expect(tok.Kind).To(Equal(sparql.TokenKeyword))
			Expect(tok.Text).To(Equal("A"))
		}
	})

	It("tokenizes string literals with escapes", func() {
		toks, err := lexAll(`"hello \"world\""`)
		Expect(err).NotTo(HaveOccurred())
		Expect(toks).To(HaveLen(1))
		Expect(toks[0].Kind).To(Equal(sparql.TokenLiteral))
		Expect(toks[0].Text).To(Equal(`hello "world"`))
	})

	It("fails on an unterminated string literal", func() {
		_, err := lexAll(`"hello`)
		Expect(err).To(MatchError(sparql.ErrUnterminatedLiteral))
	})

	It("fails on an unterminated angled IRI", func() {
		_, err := lexAll(`<http://ex/alice`)
		Expect(err).To(MatchError(sparql.ErrUnterminatedIRI))
	})

	It("distinguishes < as less-than from an IRIREF", func() {
		toks, err := lexAll("?x < ?y")
		Expect(err).NotTo(HaveOccurred())
		Expect(toks[1].Kind).To(Equal(sparql.TokenSymbol))
		Expect(toks[1].Text).To(Equal("<"))
	})

	It("tokenizes two-character operators greedily", func() {
		toks, err := lexAll("<= >= != && || ^^")
		Expect(err).NotTo(HaveOccurred())
		want := []string{"<=", ">=", "!=", "&&", "||", "^^"}
		Expect(toks).To(HaveLen(len(want)))
		for i, w := range want {
			Expect(toks[i].Text).To(Equal(w))
		}
	})

	It("tokenizes integers and decimals", func() {
		toks, err := lexAll("42 3.14 -7")
		Expect(err).NotTo(HaveOccurred())
		Expect(toks).To(HaveLen(3))
		for _, tok := range toks {
			Expect(tok.Kind).To(Equal(sparql.TokenNumber))
		}
		Expect(toks[1].Text).To(Equal("3.14"))
	})

	It("skips comments", func() {
		toks, err := lexAll("?x # a comment\n?y")
		Expect(err).NotTo(HaveOccurred())
		Expect(toks).To(HaveLen(2))
	})
})
