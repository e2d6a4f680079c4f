// Package errors defines the typed error values produced while building
// a cascade dependency model: malformed or unsupported selectors, SMT
// backend failures, and internal cache-consistency breaches.
package errors

import (
	"errors"
	"fmt"
)

// ErrCacheInconsistency is wrapped by CacheError to signal an internal
// invariant breach in the overlap or automaton memoization tables.
var ErrCacheInconsistency = errors.New("cache inconsistency")

// SelectorError represents a malformed CSS selector, surfaced from the
// selector-grammar parser unchanged and propagated to the caller.
type SelectorError struct {
	// Selector is the original selector source string.
	Selector string

	// Position is the byte offset where the error was detected.
	Position int

	// Message describes the error.
	Message string
}

// Error implements the error interface.
func (e *SelectorError) Error() string {
	return fmt.Sprintf("invalid selector %q at position %d: %s", e.Selector, e.Position, e.Message)
}

// UnsupportedConstructError reports a selector feature recognized by the
// grammar but outside the normalizer/automaton builder's supported
// subset (e.g. a functional pseudo-class other than nth-* or not()).
type UnsupportedConstructError struct {
	Selector  string
	Construct string
}

// Error implements the error interface.
func (e *UnsupportedConstructError) Error() string {
	return fmt.Sprintf("unsupported selector construct %q in %q", e.Construct, e.Selector)
}

// BackendError wraps a failure from the SMT/Presburger backend: a
// timeout or an internal solver error. It is fatal to the emptiness
// query in progress and is never coerced to a SAT or UNSAT answer.
type BackendError struct {
	// Query is a short description of the formula that failed to solve,
	// useful for diagnosing which overlap check triggered the failure.
	Query string
	Err   error
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	return fmt.Sprintf("smt backend failed on %s: %v", e.Query, e.Err)
}

// Unwrap supports errors.Is/As against the underlying backend error.
func (e *BackendError) Unwrap() error {
	return e.Err
}

// CacheError reports an internal invariant breach in one of the
// process-local memoization caches (overlap results, selector
// automata). It wraps ErrCacheInconsistency so callers can detect the
// class of failure with errors.Is without depending on the message.
type CacheError struct {
	Detail string
}

// Error implements the error interface.
func (e *CacheError) Error() string {
	return fmt.Sprintf("%v: %s", ErrCacheInconsistency, e.Detail)
}

// Unwrap supports errors.Is(err, ErrCacheInconsistency).
func (e *CacheError) Unwrap() error {
	return ErrCacheInconsistency
}

// CSSParseError represents a malformed stylesheet, surfaced from the CSS
// file parser unchanged and propagated to the caller.
type CSSParseError struct {
	Line    int
	Message string
}

// Error implements the error interface.
func (e *CSSParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid stylesheet at line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("invalid stylesheet: %s", e.Message)
}
