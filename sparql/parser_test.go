package sparql_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kahefi/triplestore/sparql"
)

var _ = Describe("Parser", func() {
	It("parses a simple SELECT with an explicit variable list", func() {
		q, err := sparql.Parse(`SELECT ?s WHERE { ?s <http://ex/knows> <http://ex/bob> }`)
		Expect(err).NotTo(HaveOccurred())
		sel, ok := q.(sparql.SelectQuery)
		Expect(ok).To(BeTrue())
		Expect(sel.Vars).To(Equal([]string{"s"}))
		Expect(sel.Star).To(BeFalse())
		Expect(sel.Where).To(HaveLen(1))
	})

	It("expands SELECT * to every variable in first-appearance order", func() {
		q, err := sparql.Parse(`SELECT * WHERE { ?s <http://ex/knows> ?o . ?o <http://ex/name> ?n }`)
		Expect(err).NotTo(HaveOccurred())
		sel := q.(sparql.SelectQuery)
		Expect(sel.Vars).To(Equal([]string{"s", "o", "n"}))
	})

	It("resolves a prefixed name through a PREFIX declaration", func() {
		q, err := sparql.Parse(`PREFIX foaf: <http://xmlns.com/foaf/0.1/>
			SELECT ?s WHERE { ?s foaf:knows ?o }`)
		Expect(err).NotTo(HaveOccurred())
		sel := q.(sparql.SelectQuery)
		tp := sel.Where[0].(sparql.TriplePattern)
		Expect(tp.P.Bound.String()).To(Equal("<http://xmlns.com/foaf/0.1/knows>"))
	})

	It("fails with ErrUnknownPrefix on an undeclared prefix", func() {
		_, err := sparql.Parse(`SELECT ?s WHERE { ?s foaf:knows ?o }`)
		Expect(err).To(MatchError(sparql.ErrUnknownPrefix))
	})

	It("resolves the 'a' shorthand to rdf:type", func() {
		q, err := sparql.Parse(`SELECT ?s WHERE { ?s a <http://ex/Person> }`)
		Expect(err).NotTo(HaveOccurred())
		sel := q.(sparql.SelectQuery)
		tp := sel.Where[0].(sparql.TriplePattern)
		Expect(tp.P.Bound.String()).To(Equal("<http://www.w3.org/1999/02/22-rdf-syntax-ns#type>"))
	})

	It("parses FILTER, OPTIONAL and UNION graph patterns", func() {
		q, err := sparql.Parse(`SELECT ?s WHERE {
			?s <http://ex/age> ?age .
			FILTER (?age > 18)
			OPTIONAL { ?s <http://ex/nick> ?nick }
			{ ?s <http://ex/city> <http://ex/Paris> } UNION { ?s <http://ex/city> <http://ex/London> }
		}`)
		Expect(err).NotTo(HaveOccurred())
		sel := q.(sparql.SelectQuery)
		Expect(sel.Where).To(HaveLen(4))
		Expect(sel.Where[1]).To(BeAssignableToTypeOf(sparql.FilterPattern{}))
		Expect(sel.Where[2]).To(BeAssignableToTypeOf(sparql.OptionalPattern{}))
		Expect(sel.Where[3]).To(BeAssignableToTypeOf(sparql.UnionPattern{}))
	})

	It("parses LIMIT, OFFSET and ORDER BY modifiers in any order", func() {
		q2, err2 := sparql.Parse(`SELECT ?s WHERE { ?s <http://ex/age> ?age } ORDER BY ?age DESC LIMIT 5 OFFSET 2`)
		Expect(err2).NotTo(HaveOccurred())
		sel := q2.(sparql.SelectQuery)
		Expect(*sel.Modifiers.Limit).To(Equal(5))
		Expect(*sel.Modifiers.Offset).To(Equal(2))
		Expect(sel.Modifiers.OrderBy).To(HaveLen(1))
		Expect(sel.Modifiers.OrderBy[0].Var).To(Equal("age"))
	})

	It("parses a CONSTRUCT query", func() {
		q, err := sparql.Parse(`CONSTRUCT { ?s <http://ex/name> ?n } WHERE { ?s <http://ex/label> ?n }`)
		Expect(err).NotTo(HaveOccurred())
		c := q.(sparql.ConstructQuery)
		Expect(c.Template).To(HaveLen(1))
		Expect(c.Where).To(HaveLen(1))
	})

	It("parses an ASK query without WHERE", func() {
		q, err := sparql.Parse(`ASK { <http://ex/alice> <http://ex/knows> <http://ex/bob> }`)
		Expect(err).NotTo(HaveOccurred())
		_, ok := q.(sparql.AskQuery)
		Expect(ok).To(BeTrue())
	})

	It("parses a DESCRIBE query with resources and no WHERE", func() {
		q, err := sparql.Parse(`DESCRIBE <http://ex/alice>`)
		Expect(err).NotTo(HaveOccurred())
		d := q.(sparql.DescribeQuery)
		Expect(d.Resources).To(HaveLen(1))
		Expect(d.Where).To(BeNil())
	})

	It("rejects unknown query forms", func() {
		_, err := sparql.Parse(`UPDATE {}`)
		Expect(err).To(HaveOccurred())
	})
})
