// Package diag implements a pluggable diagnostic sink for "runtime skip"
// conditions: an unknown FILTER function, an
// unknown SHACL constraint kind, or an invalid SHACL Pattern regex. These
// are not errors (they produce no match and no violation), but a caller
// may want to know they happened. The core itself never writes to stdout;
// callers that want visibility plug in a Sink.
package diag

import "github.com/lithammer/shortuuid/v3"

// Kind categorizes a Warning by the runtime-skip condition that produced
// it.
type Kind string

const (
	// KindUnknownFilterFunction is emitted when a SPARQL FILTER calls an
	// unrecognized built-in function.
	KindUnknownFilterFunction Kind = "unknown_filter_function"
	// KindUnknownConstraint is emitted when a SHACL shape references a
	// constraint kind the validator does not implement.
	KindUnknownConstraint Kind = "unknown_constraint"
	// KindInvalidPattern is emitted when a SHACL sh:pattern constraint
	// carries a regular expression that fails to compile.
	KindInvalidPattern Kind = "invalid_pattern"
)

// Warning is a single non-fatal diagnostic event.
type Warning struct {
	// ID correlates this warning across log lines; generated fresh per
	// warning so a caller aggregating many warnings can dedupe or trace.
	ID      string
	Kind    Kind
	Message string
}

func newWarning(kind Kind, message string) Warning {
	return Warning{ID: shortuuid.New(), Kind: kind, Message: message}
}

// Sink receives warnings emitted by query evaluation and SHACL validation.
// Implementations must not block the caller; a Sink that needs to do I/O
// should buffer or run it asynchronously itself.
type Sink interface {
	Warn(Warning)
}

// Warnf constructs a Warning of the given kind and message and hands it to
// sink. A nil sink is treated as NoopSink so callers can pass an optional
// sink without a nil check at every call site.
func Warnf(sink Sink, kind Kind, message string) {
	if sink == nil {
		return
	}
	sink.Warn(newWarning(kind, message))
}

// NoopSink discards every warning. It is the default when a caller does
// not care about diagnostics.
type NoopSink struct{}

// Warn implements Sink by discarding w.
func (NoopSink) Warn(Warning) {}

// CollectingSink accumulates warnings in order, for use in tests that
// assert on what was emitted.
type CollectingSink struct {
	Warnings []Warning
}

// Warn implements Sink by appending w.
func (s *CollectingSink) Warn(w Warning) {
	s.Warnings = append(s.Warnings, w)
}
