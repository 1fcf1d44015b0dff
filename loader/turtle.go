// Package loader provides Turtle ingestion into a store. It depends only
// on the store's public mutation API and never reaches into its indexes
// directly.
package loader

import (
	"fmt"
	"io"

	"github.com/deiu/rdf2go"

	"github.com/kahefi/triplestore/store"
	"github.com/kahefi/triplestore/term"
)

// LoadTurtle parses Turtle text from r and adds every resulting triple to
// s, one at a time, via the store's public mutation API.
func LoadTurtle(s *store.Store, r io.Reader) error {
	g := rdf2go.NewGraph("")
	if err := g.Parse(r, "text/turtle"); err != nil {
		return fmt.Errorf("loader: parsing turtle: %w", err)
	}
	for raw := range g.IterTriples() {
		t, err := convertTriple(raw)
		if err != nil {
			return fmt.Errorf("loader: converting parsed triple: %w", err)
		}
		s.Add(t)
	}
	return nil
}

func convertTriple(raw *rdf2go.Triple) (term.Triple, error) {
	subj, err := convertSubjectOrObject(raw.Subject)
	if err != nil {
		return term.Triple{}, err
	}
	predIRI, ok := raw.Predicate.(*rdf2go.Resource)
	if !ok {
		return term.Triple{}, fmt.Errorf("loader: predicate %q is not an IRI", raw.Predicate.String())
	}
	pred, err := term.NewIRI(predIRI.RawValue())
	if err != nil {
		return term.Triple{}, err
	}
	obj, err := convertSubjectOrObject(raw.Object)
	if err != nil {
		return term.Triple{}, err
	}
	return term.NewTriple(subj, pred, obj)
}

func convertSubjectOrObject(t rdf2go.Term) (term.Node, error) {
	switch v := t.(type) {
	case *rdf2go.Resource:
		return term.NewIRI(v.RawValue())
	case *rdf2go.BlankNode:
		return term.NewBlankNode(v.RawValue()), nil
	case *rdf2go.Literal:
		datatype := ""
		if v.Datatype != nil {
			if dt, ok := v.Datatype.(*rdf2go.Resource); ok {
				datatype = dt.RawValue()
			}
		}
		return term.NewLiteral(v.RawValue(), datatype, v.Language)
	default:
		return nil, fmt.Errorf("loader: unrecognized rdf2go term %q", t.String())
	}
}
