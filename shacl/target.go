package shacl

import (
	"github.com/kahefi/triplestore/store"
	"github.com/kahefi/triplestore/term"
	"github.com/kahefi/triplestore/vocab"
)

var rdfType = term.MustIRI(vocab.RDFType)

// resolveTargets computes the de-duplicated union of focus nodes selected
// by targets.
func resolveTargets(s *store.Store, targets []Target) []term.Node {
	seen := make(map[string]bool)
	var out []term.Node
	add := func(n term.Node) {
		key := n.String()
		if !seen[key] {
			seen[key] = true
			out = append(out, n)
		}
	}
	for _, t := range targets {
		switch v := t.(type) {
		case TargetClass:
			for _, tr := range s.Match(store.Pattern{Predicate: &rdfType, Object: v.Class}) {
				add(tr.Subject)
			}
		case TargetNode:
			add(v.Node)
		case TargetSubjectsOf:
			for _, tr := range s.Match(store.Pattern{Predicate: &v.Predicate}) {
				add(tr.Subject)
			}
		case TargetObjectsOf:
			for _, tr := range s.Match(store.Pattern{Predicate: &v.Predicate}) {
				add(tr.Object)
			}
		}
	}
	return out
}

// valuesOf returns the objects of every (focus, predicate, ?) triple.
func valuesOf(s *store.Store, focus term.Node, predicate term.IRI) []term.Node {
	matches := s.Match(store.Pattern{Subject: focus, Predicate: &predicate})
	out := make([]term.Node, len(matches))
	for i, t := range matches {
		out[i] = t.Object
	}
	return out
}
