package sparql_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kahefi/triplestore/sparql"
	"github.com/kahefi/triplestore/store"
	"github.com/kahefi/triplestore/term"
)

func execIRI(v string) term.IRI {
	t, err := term.NewIRI(v)
	Expect(err).NotTo(HaveOccurred())
	return t
}

func execLit(v string) term.Literal {
	l, err := term.NewLiteral(v, "", "")
	Expect(err).NotTo(HaveOccurred())
	return l
}

func numLit(v, datatype string) term.Literal {
	l, err := term.NewLiteral(v, datatype, "")
	Expect(err).NotTo(HaveOccurred())
	return l
}

func parseAndRun(s *store.Store, query string) interface{} {
	q, err := sparql.Parse(query)
	Expect(err).NotTo(HaveOccurred())
	ex := sparql.NewExecutor(s, nil)
	res, err := ex.Execute(q)
	Expect(err).NotTo(HaveOccurred())
	return res
}

var _ = Describe("Executor: SELECT over a small social graph", func() {
	var s *store.Store

	BeforeEach(func() {
		s = store.New()
		s.Add(term.Triple{Subject: execIRI("http://ex/alice"), Predicate: execIRI("http://ex/knows"), Object: execIRI("http://ex/bob")})
		s.Add(term.Triple{Subject: execIRI("http://ex/bob"), Predicate: execIRI("http://ex/knows"), Object: execIRI("http://ex/carol")})
		s.Add(term.Triple{Subject: execIRI("http://ex/alice"), Predicate: execIRI("http://ex/age"), Object: numLit("30", "http://www.w3.org/2001/XMLSchema#integer")})
		s.Add(term.Triple{Subject: execIRI("http://ex/bob"), Predicate: execIRI("http://ex/age"), Object: numLit("17", "http://www.w3.org/2001/XMLSchema#integer")})
	})

	It("returns every knows-edge as a binding pair", func() {
		res := parseAndRun(s, `SELECT ?a ?b WHERE { ?a <http://ex/knows> ?b }`).(*sparql.SelectResult)
		Expect(res.Len()).To(Equal(2))
	})

	It("filters by a numeric comparison", func() {
		res := parseAndRun(s, `SELECT ?p WHERE { ?p <http://ex/age> ?age . FILTER (?age > 18) }`).(*sparql.SelectResult)
		Expect(res.Len()).To(Equal(1))
		Expect(res.At(0)["p"]).To(Equal(term.Node(execIRI("http://ex/alice"))))
	})

	It("keeps a solution under OPTIONAL even when the inner pattern has no match", func() {
		res := parseAndRun(s, `SELECT ?a ?nick WHERE { ?a <http://ex/knows> ?b . OPTIONAL { ?a <http://ex/nick> ?nick } }`).(*sparql.SelectResult)
		Expect(res.Len()).To(Equal(2))
		for _, sol := range res.Solutions {
			_, bound := sol["nick"]
			Expect(bound).To(BeFalse())
		}
	})

	It("merges bindings when OPTIONAL does match", func() {
		s.Add(term.Triple{Subject: execIRI("http://ex/alice"), Predicate: execIRI("http://ex/nick"), Object: execLit("Al")})
		res := parseAndRun(s, `SELECT ?a ?nick WHERE { ?a <http://ex/knows> ?b . OPTIONAL { ?a <http://ex/nick> ?nick } }`).(*sparql.SelectResult)
		found := false
		for _, sol := range res.Solutions {
			if sol["a"].Equal(execIRI("http://ex/alice")) {
				Expect(sol["nick"]).To(Equal(term.Node(execLit("Al"))))
				found = true
			}
		}
		Expect(found).To(BeTrue())
	})

	It("unions two alternative branches", func() {
		s.Add(term.Triple{Subject: execIRI("http://ex/carol"), Predicate: execIRI("http://ex/city"), Object: execIRI("http://ex/Paris")})
		s.Add(term.Triple{Subject: execIRI("http://ex/bob"), Predicate: execIRI("http://ex/city"), Object: execIRI("http://ex/London")})
		res := parseAndRun(s, `SELECT ?p WHERE {
			{ ?p <http://ex/city> <http://ex/Paris> } UNION { ?p <http://ex/city> <http://ex/London> }
		}`).(*sparql.SelectResult)
		Expect(res.Len()).To(Equal(2))
	})

	It("applies ORDER BY before LIMIT", func() {
		res := parseAndRun(s, `SELECT ?age WHERE { ?p <http://ex/age> ?age } ORDER BY ?age LIMIT 1`).(*sparql.SelectResult)
		Expect(res.Len()).To(Equal(1))
		Expect(res.At(0)["age"]).To(Equal(term.Node(numLit("17", "http://www.w3.org/2001/XMLSchema#integer"))))
	})
})

var _ = Describe("Executor: CONSTRUCT, ASK and DESCRIBE", func() {
	var s *store.Store

	BeforeEach(func() {
		s = store.New()
		s.Add(term.Triple{Subject: execIRI("http://ex/alice"), Predicate: execIRI("http://ex/label"), Object: execLit("Alice")})
		s.Add(term.Triple{Subject: execIRI("http://ex/alice"), Predicate: execIRI("http://ex/knows"), Object: execIRI("http://ex/bob")})
	})

	It("instantiates a CONSTRUCT template once per solution", func() {
		res := parseAndRun(s, `CONSTRUCT { ?s <http://ex/name> ?n } WHERE { ?s <http://ex/label> ?n }`).(*sparql.ConstructResult)
		Expect(res.Len()).To(Equal(1))
		Expect(res.Triples[0].Predicate).To(Equal(execIRI("http://ex/name")))
	})

	It("answers ASK true when a pattern has a solution", func() {
		res := parseAndRun(s, `ASK { <http://ex/alice> <http://ex/knows> <http://ex/bob> }`).(*sparql.AskResult)
		Expect(res.Value).To(BeTrue())
	})

	It("answers ASK false when a pattern has no solution", func() {
		res := parseAndRun(s, `ASK { <http://ex/alice> <http://ex/knows> <http://ex/carol> }`).(*sparql.AskResult)
		Expect(res.Value).To(BeFalse())
	})

	It("describes every triple touching the named resource", func() {
		res := parseAndRun(s, `DESCRIBE <http://ex/alice>`).(*sparql.DescribeResult)
		Expect(res.Len()).To(Equal(2))
	})

	It("describes resources bound via WHERE", func() {
		res := parseAndRun(s, `DESCRIBE ?b WHERE { <http://ex/alice> <http://ex/knows> ?b }`).(*sparql.DescribeResult)
		Expect(res.Len()).To(Equal(1))
		Expect(res.Triples[0].Object).To(Equal(term.Node(execIRI("http://ex/bob"))))
	})
})

var _ = Describe("Executor: FILTER built-in functions", func() {
	It("evaluates bound/isIRI/isLiteral/isBlank", func() {
		s := store.New()
		s.Add(term.Triple{Subject: execIRI("http://ex/alice"), Predicate: execIRI("http://ex/label"), Object: execLit("Alice")})
		res := parseAndRun(s, `SELECT ?s WHERE { ?s <http://ex/label> ?n . FILTER (bound(?n) && isLiteral(?n) && !isBlank(?n)) }`).(*sparql.SelectResult)
		Expect(res.Len()).To(Equal(1))
	})

	It("treats an unknown function call as false", func() {
		s := store.New()
		s.Add(term.Triple{Subject: execIRI("http://ex/alice"), Predicate: execIRI("http://ex/label"), Object: execLit("Alice")})
		res := parseAndRun(s, `SELECT ?s WHERE { ?s <http://ex/label> ?n . FILTER (madeUpFunc(?n)) }`).(*sparql.SelectResult)
		Expect(res.Len()).To(Equal(0))
	})
})
