// Package store implements a hexastore-style triple store: three
// coordinated hash indexes (SPO, OPS, PSO) that together answer any
// bound/unbound subject-predicate-object pattern with at worst one index
// scan, plus a prefix registry and running statistics.
//
// The store is single-threaded and not safe for concurrent mutation from
// multiple goroutines; callers that share a Store across goroutines must
// synchronize externally.
package store

import "github.com/kahefi/triplestore/term"

type nodeSet map[term.Node]struct{}

// Store is the in-memory triple store. The zero value is not usable; use
// New.
type Store struct {
	spo map[term.Node]map[term.IRI]nodeSet
	ops map[term.Node]map[term.IRI]nodeSet
	pso map[term.IRI]map[term.Node]nodeSet

	tripleCount    int
	predicateCount map[term.IRI]int

	prefixes *prefixRegistry
}

// New creates an empty triple store.
func New() *Store {
	return &Store{
		spo:            make(map[term.Node]map[term.IRI]nodeSet),
		ops:            make(map[term.Node]map[term.IRI]nodeSet),
		pso:            make(map[term.IRI]map[term.Node]nodeSet),
		predicateCount: make(map[term.IRI]int),
		prefixes:       newPrefixRegistry(),
	}
}

// Add inserts t if it is not already present. It reports whether the
// triple was new; adding an existing triple is a no-op and returns false.
func (s *Store) Add(t term.Triple) bool {
	if s.Has(t) {
		return false
	}

	insertInto(s.spo, t.Subject, t.Predicate, t.Object)
	insertInto(s.ops, t.Object, t.Predicate, t.Subject)
	insertPSO(s.pso, t.Predicate, t.Subject, t.Object)

	s.tripleCount++
	s.predicateCount[t.Predicate]++
	return true
}

// Remove deletes t if present. It reports whether a triple was actually
// removed; removing an absent triple is a well-defined no-op.
func (s *Store) Remove(t term.Triple) bool {
	if !s.Has(t) {
		return false
	}

	removeFrom(s.spo, t.Subject, t.Predicate, t.Object)
	removeFrom(s.ops, t.Object, t.Predicate, t.Subject)
	removePSO(s.pso, t.Predicate, t.Subject, t.Object)

	s.tripleCount--
	s.predicateCount[t.Predicate]--
	if s.predicateCount[t.Predicate] == 0 {
		delete(s.predicateCount, t.Predicate)
	}
	return true
}

// Has reports whether t is present in the store, answered in O(1) from
// the SPO index.
func (s *Store) Has(t term.Triple) bool {
	byPred, ok := s.spo[t.Subject]
	if !ok {
		return false
	}
	objs, ok := byPred[t.Predicate]
	if !ok {
		return false
	}
	_, ok = objs[t.Object]
	return ok
}

// All returns every triple in the store exactly once. Order is unspecified
// but stable within a single call.
func (s *Store) All() []term.Triple {
	return s.Match(Pattern{})
}

// CountTriples returns the total number of distinct triples in the store.
func (s *Store) CountTriples() int { return s.tripleCount }

// CountSubjects returns the number of distinct subjects across all
// triples. Maintained implicitly: the SPO index is pruned whenever a
// subject's last triple is removed, so its length is exact.
func (s *Store) CountSubjects() int { return len(s.spo) }

// CountPredicates returns the number of distinct predicates across all
// triples.
func (s *Store) CountPredicates() int { return len(s.pso) }

// CountObjects returns the number of distinct objects across all triples.
func (s *Store) CountObjects() int { return len(s.ops) }

// CountByPredicate returns the number of triples with the given predicate.
func (s *Store) CountByPredicate(p term.IRI) int { return s.predicateCount[p] }

// CountBySubject returns the number of triples with the given subject.
func (s *Store) CountBySubject(subj term.Node) int {
	n := 0
	for _, objs := range s.spo[subj] {
		n += len(objs)
	}
	return n
}

// CountByObject returns the number of triples with the given object.
func (s *Store) CountByObject(obj term.Node) int {
	n := 0
	for _, subjs := range s.ops[obj] {
		n += len(subjs)
	}
	return n
}

func insertInto(idx map[term.Node]map[term.IRI]nodeSet, outer term.Node, mid term.IRI, inner term.Node) {
	byMid, ok := idx[outer]
	if !ok {
		byMid = make(map[term.IRI]nodeSet)
		idx[outer] = byMid
	}
	set, ok := byMid[mid]
	if !ok {
		set = make(nodeSet)
		byMid[mid] = set
	}
	set[inner] = struct{}{}
}

func removeFrom(idx map[term.Node]map[term.IRI]nodeSet, outer term.Node, mid term.IRI, inner term.Node) {
	byMid, ok := idx[outer]
	if !ok {
		return
	}
	set, ok := byMid[mid]
	if !ok {
		return
	}
	delete(set, inner)
	if len(set) == 0 {
		delete(byMid, mid)
	}
	if len(byMid) == 0 {
		delete(idx, outer)
	}
}

func insertPSO(pso map[term.IRI]map[term.Node]nodeSet, p term.IRI, s term.Node, o term.Node) {
	bySubj, ok := pso[p]
	if !ok {
		bySubj = make(map[term.Node]nodeSet)
		pso[p] = bySubj
	}
	set, ok := bySubj[s]
	if !ok {
		set = make(nodeSet)
		bySubj[s] = set
	}
	set[o] = struct{}{}
}

func removePSO(pso map[term.IRI]map[term.Node]nodeSet, p term.IRI, s term.Node, o term.Node) {
	bySubj, ok := pso[p]
	if !ok {
		return
	}
	set, ok := bySubj[s]
	if !ok {
		return
	}
	delete(set, o)
	if len(set) == 0 {
		delete(bySubj, s)
	}
	if len(bySubj) == 0 {
		delete(pso, p)
	}
}
