package store

import "github.com/kahefi/triplestore/term"

// Pattern is a match configuration with one optional field per triple
// position (nil means unbound), so index selection is a total match over
// which fields are set.
type Pattern struct {
	Subject   term.Node // nil: unbound
	Predicate *term.IRI // nil: unbound
	Object    term.Node // nil: unbound
}

// Match returns every stored triple whose bound positions equal the
// pattern's bound fields. Every case selects the index that makes the scan
// proportional to the matches returned (or, for the s?o? case, to the
// number of predicates at s).
func (s *Store) Match(p Pattern) []term.Triple {
	switch {
	case p.Subject != nil && p.Predicate != nil && p.Object != nil:
		return s.matchSPO(p)
	case p.Subject != nil && p.Predicate != nil:
		return s.matchSP(p)
	case p.Subject == nil && p.Predicate != nil && p.Object != nil:
		return s.matchPO(p)
	case p.Subject != nil && p.Object != nil:
		return s.matchSO(p)
	case p.Subject != nil:
		return s.matchS(p)
	case p.Predicate != nil:
		return s.matchP(p)
	case p.Object != nil:
		return s.matchO(p)
	default:
		return s.matchAll()
	}
}

// s● p● o●: SPO existence check, O(1).
func (s *Store) matchSPO(p Pattern) []term.Triple {
	t := term.Triple{Subject: p.Subject, Predicate: *p.Predicate, Object: p.Object}
	if s.Has(t) {
		return []term.Triple{t}
	}
	return nil
}

// s● p● o○: SPO[s][p], O(matches).
func (s *Store) matchSP(p Pattern) []term.Triple {
	var out []term.Triple
	for o := range s.spo[p.Subject][*p.Predicate] {
		out = append(out, term.Triple{Subject: p.Subject, Predicate: *p.Predicate, Object: o})
	}
	return out
}

// s○ p● o●: OPS[o][p], O(matches).
func (s *Store) matchPO(p Pattern) []term.Triple {
	var out []term.Triple
	for subj := range s.ops[p.Object][*p.Predicate] {
		out = append(out, term.Triple{Subject: subj, Predicate: *p.Predicate, Object: p.Object})
	}
	return out
}

// s● p○ o●: SPO[s] filtered by object equality, O(predicates at s).
func (s *Store) matchSO(p Pattern) []term.Triple {
	var out []term.Triple
	for pred, objs := range s.spo[p.Subject] {
		if _, ok := objs[p.Object]; ok {
			out = append(out, term.Triple{Subject: p.Subject, Predicate: pred, Object: p.Object})
		}
	}
	return out
}

// s● p○ o○: SPO[s], O(matches).
func (s *Store) matchS(p Pattern) []term.Triple {
	var out []term.Triple
	for pred, objs := range s.spo[p.Subject] {
		for o := range objs {
			out = append(out, term.Triple{Subject: p.Subject, Predicate: pred, Object: o})
		}
	}
	return out
}

// s○ p● o○: PSO[p], O(matches).
func (s *Store) matchP(p Pattern) []term.Triple {
	var out []term.Triple
	for subj, objs := range s.pso[*p.Predicate] {
		for o := range objs {
			out = append(out, term.Triple{Subject: subj, Predicate: *p.Predicate, Object: o})
		}
	}
	return out
}

// s○ p○ o●: OPS[o], O(matches).
func (s *Store) matchO(p Pattern) []term.Triple {
	var out []term.Triple
	for pred, subjs := range s.ops[p.Object] {
		for subj := range subjs {
			out = append(out, term.Triple{Subject: subj, Predicate: pred, Object: p.Object})
		}
	}
	return out
}

// s○ p○ o○: full iteration via SPO, O(triples).
func (s *Store) matchAll() []term.Triple {
	out := make([]term.Triple, 0, s.tripleCount)
	for subj, byPred := range s.spo {
		for pred, objs := range byPred {
			for o := range objs {
				out = append(out, term.Triple{Subject: subj, Predicate: pred, Object: o})
			}
		}
	}
	return out
}
