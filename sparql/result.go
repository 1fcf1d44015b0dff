package sparql

import "github.com/kahefi/triplestore/term"

// Solution is a partial mapping from variable name to term, produced by
// evaluating a graph pattern.
type Solution map[string]term.Node

// Clone returns a shallow copy of the solution, safe to extend without
// mutating the original.
func (s Solution) Clone() Solution {
	out := make(Solution, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Compatible reports whether a and b agree on every variable bound in
// both.
func Compatible(a, b Solution) bool {
	for k, v := range a {
		if ov, ok := b[k]; ok && !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Merge combines a and b, keeping a's value whenever both bind the same
// variable (this only happens for compatible solutions, where the shared
// values are equal anyway).
func Merge(a, b Solution) Solution {
	out := a.Clone()
	for k, v := range b {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}

// SelectResult is the result container for a SELECT query: an ordered
// solution list plus the projected variable list.
type SelectResult struct {
	Vars      []string
	Solutions []Solution
}

// Len returns the number of solutions.
func (r *SelectResult) Len() int { return len(r.Solutions) }

// At returns the solution at index i.
func (r *SelectResult) At(i int) Solution { return r.Solutions[i] }

// ConstructResult is the result container for a CONSTRUCT query: the
// de-duplicated set of instantiated triples.
type ConstructResult struct {
	Triples []term.Triple
}

// Len returns the number of triples.
func (r *ConstructResult) Len() int { return len(r.Triples) }

// AskResult is the result container for an ASK query.
type AskResult struct {
	Value bool
}

// DescribeResult is the result container for a DESCRIBE query: every
// triple touching any of the described resources.
type DescribeResult struct {
	Triples []term.Triple
}

// Len returns the number of triples.
func (r *DescribeResult) Len() int { return len(r.Triples) }
