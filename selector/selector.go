// Package selector implements CSS selector parsing: a tokenizer and
// recursive-descent parser that turn a selector string into the typed
// parse tree the normalizer, automaton builder, and overlap primitive
// operate on.
package selector

import "github.com/MeKo-Christian/cssdep/errors"

// AST is the marker interface for parsed selector nodes: either a single
// ComplexSelector or a comma-separated SelectorList.
type AST = selectorAST

// Parse parses a CSS selector string, which may be a comma-separated
// selector list.
func Parse(sel string) (AST, error) {
	tokens, err := newTokenizer(sel).tokenize()
	if err != nil {
		return nil, err
	}
	return newParser(tokens, sel).parse()
}

// ParseComplex parses a single (non-list) complex selector: the form
// consumed by the normalizer, automaton builder, and overlap primitive,
// each of which reasons about one selector at a time.
func ParseComplex(sel string) (ComplexSelector, error) {
	ast, err := Parse(sel)
	if err != nil {
		return ComplexSelector{}, err
	}
	switch v := ast.(type) {
	case ComplexSelector:
		return v, nil
	case SelectorList:
		return ComplexSelector{}, &errors.SelectorError{
			Selector: sel,
			Position: 0,
			Message:  "expected a single selector, got a comma-separated list",
		}
	default:
		return ComplexSelector{}, &errors.SelectorError{
			Selector: sel,
			Position: 0,
			Message:  "unrecognized selector AST",
		}
	}
}

// Subject returns the rightmost compound of a complex selector: the node
// a selector nominally matches.
func Subject(sel ComplexSelector) CompoundSelector {
	return sel.Parts[len(sel.Parts)-1].Compound
}
