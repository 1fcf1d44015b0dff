package shacl_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kahefi/triplestore/diag"
	"github.com/kahefi/triplestore/shacl"
	"github.com/kahefi/triplestore/store"
	"github.com/kahefi/triplestore/term"
)

func shIRI(v string) term.IRI {
	t, err := term.NewIRI(v)
	Expect(err).NotTo(HaveOccurred())
	return t
}

func shLit(v string) term.Literal {
	l, err := term.NewLiteral(v, "", "")
	Expect(err).NotTo(HaveOccurred())
	return l
}

var _ = Describe("SHACL MinCount validation", func() {
	var (
		s          *store.Store
		alice      term.IRI
		foafName   term.IRI
		foafPerson term.IRI
		shape      shacl.NodeShape
	)

	BeforeEach(func() {
		s = store.New()
		alice = shIRI("http://ex/alice")
		foafName = shIRI("http://ex/name")
		foafPerson = shIRI("http://ex/Person")
		s.Add(term.Triple{Subject: alice, Predicate: term.MustIRI("http://www.w3.org/1999/02/22-rdf-syntax-ns#type"), Object: foafPerson})

		shape = shacl.NodeShape{
			ID:      "person-shape",
			Targets: []shacl.Target{shacl.TargetClass{Class: foafPerson}},
			PropertyShapes: []shacl.PropertyShape{
				{ID: "name-prop", Path: foafName, Constraints: []shacl.Constraint{shacl.MinCount{N: 1}}},
			},
		}
	})

	It("reports a Violation when the required property is missing", func() {
		report := shacl.Validate(s, []shacl.NodeShape{shape}, nil)
		Expect(report.Conforms).To(BeFalse())
		Expect(report.Results).To(HaveLen(1))
		Expect(report.Results[0].Severity).To(Equal(shacl.SeverityViolation))
		Expect(report.Results[0].FocusNode).To(Equal(term.Node(alice)))
	})

	It("conforms once the property is present", func() {
		s.Add(term.Triple{Subject: alice, Predicate: foafName, Object: shLit("Alice")})
		report := shacl.Validate(s, []shacl.NodeShape{shape}, nil)
		Expect(report.Conforms).To(BeTrue())
		Expect(report.Results).To(BeEmpty())
	})
})

var _ = Describe("SHACL constraint evaluation", func() {
	var s *store.Store
	var alice term.IRI

	BeforeEach(func() {
		s = store.New()
		alice = shIRI("http://ex/alice")
	})

	It("evaluates Datatype per value", func() {
		age := shIRI("http://ex/age")
		s.Add(term.Triple{Subject: alice, Predicate: age, Object: shLit("thirty")})
		shape := shacl.NodeShape{
			Targets: []shacl.Target{shacl.TargetNode{Node: alice}},
			PropertyShapes: []shacl.PropertyShape{
				{Path: age, Constraints: []shacl.Constraint{shacl.Datatype{IRI: term.MustIRI("http://www.w3.org/2001/XMLSchema#integer")}}},
			},
		}
		report := shacl.Validate(s, []shacl.NodeShape{shape}, nil)
		Expect(report.Conforms).To(BeFalse())
		Expect(report.Results).To(HaveLen(1))
		Expect(report.Results[0].Value).To(Equal(term.Node(shLit("thirty"))))
	})

	It("skips an invalid Pattern regex with a diagnostic warning instead of a violation", func() {
		name := shIRI("http://ex/name")
		s.Add(term.Triple{Subject: alice, Predicate: name, Object: shLit("Alice")})
		shape := shacl.NodeShape{
			Targets: []shacl.Target{shacl.TargetNode{Node: alice}},
			PropertyShapes: []shacl.PropertyShape{
				{Path: name, Constraints: []shacl.Constraint{shacl.Pattern{Regex: "("}}},
			},
		}
		sink := &diag.CollectingSink{}
		report := shacl.Validate(s, []shacl.NodeShape{shape}, sink)
		Expect(report.Conforms).To(BeTrue())
		Expect(report.Results).To(BeEmpty())
		Expect(sink.Warnings).To(HaveLen(1))
		Expect(sink.Warnings[0].Kind).To(Equal(diag.KindInvalidPattern))
	})

	It("evaluates MinInclusive/MaxInclusive numeric bounds", func() {
		age := shIRI("http://ex/age")
		s.Add(term.Triple{Subject: alice, Predicate: age, Object: mustNumLit("17", "http://www.w3.org/2001/XMLSchema#integer")})
		shape := shacl.NodeShape{
			Targets: []shacl.Target{shacl.TargetNode{Node: alice}},
			PropertyShapes: []shacl.PropertyShape{
				{Path: age, Constraints: []shacl.Constraint{shacl.MinInclusive{X: 18}}},
			},
		}
		report := shacl.Validate(s, []shacl.NodeShape{shape}, nil)
		Expect(report.Conforms).To(BeFalse())
	})

	It("evaluates the Or logical constraint as conforming when any sub-shape conforms", func() {
		name := shIRI("http://ex/name")
		s.Add(term.Triple{Subject: alice, Predicate: name, Object: shLit("Alice")})
		emptyPropPath := shIRI("http://ex/neverSet")
		passing := shacl.NodeShape{PropertyShapes: []shacl.PropertyShape{
			{Path: name, Constraints: []shacl.Constraint{shacl.MinCount{N: 1}}},
		}}
		failing := shacl.NodeShape{PropertyShapes: []shacl.PropertyShape{
			{Path: emptyPropPath, Constraints: []shacl.Constraint{shacl.MinCount{N: 1}}},
		}}
		shape := shacl.NodeShape{
			Targets:     []shacl.Target{shacl.TargetNode{Node: alice}},
			Constraints: []shacl.Constraint{shacl.Or{Shapes: []shacl.NodeShape{failing, passing}}},
		}
		report := shacl.Validate(s, []shacl.NodeShape{shape}, nil)
		Expect(report.Conforms).To(BeTrue())
	})

	It("uses a custom shape message over the default when set", func() {
		name := shIRI("http://ex/name")
		shape := shacl.NodeShape{
			Targets: []shacl.Target{shacl.TargetNode{Node: alice}},
			PropertyShapes: []shacl.PropertyShape{
				{Path: name, Message: "alice must have a name", Constraints: []shacl.Constraint{shacl.MinCount{N: 1}}},
			},
		}
		report := shacl.Validate(s, []shacl.NodeShape{shape}, nil)
		Expect(report.Results[0].Message).To(Equal("alice must have a name"))
	})

	It("assigns an auto ID to a property shape left with an empty ID", func() {
		name := shIRI("http://ex/name")
		shape := shacl.NodeShape{
			Targets: []shacl.Target{shacl.TargetNode{Node: alice}},
			PropertyShapes: []shacl.PropertyShape{
				{Path: name, Constraints: []shacl.Constraint{shacl.MinCount{N: 1}}},
			},
		}
		report := shacl.Validate(s, []shacl.NodeShape{shape}, nil)
		Expect(report.Results[0].ShapeID).NotTo(BeEmpty())
	})
})

func mustNumLit(v, datatype string) term.Literal {
	l, err := term.NewLiteral(v, datatype, "")
	Expect(err).NotTo(HaveOccurred())
	return l
}
