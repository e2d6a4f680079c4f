// Package normalizer implements the Selector Normalizer: canonicalizing a
// single compound (no-combinator) selector by dropping always-satisfiable
// string constraints, dropping stateless pseudo-classes unless they
// collapse to the unsatisfiable bottom, and retaining the tree-position
// constraints (stateful pseudos, tag/namespace agreement) that the
// automaton and emptiness decider actually reason about.
package normalizer

import "github.com/MeKo-Christian/cssdep/selector"

// statelessPseudos are assumed to have a free witness in some document
// state and carry no tree-position meaning; they are dropped once any
// pairwise conflict among them has been checked. Preserved verbatim from
// the source rather than reasoning about UI/user-action semantics more
// precisely (see DESIGN.md's open-question notes).
var statelessPseudos = map[string]bool{
	"hover": true, "link": true, "visited": true, "active": true,
	"focus": true, "enabled": true, "disabled": true, "checked": true,
}

// incompatiblePairs lists stateless pseudo pairs that can never hold of
// the same element simultaneously.
var incompatiblePairs = [][2]string{
	{"link", "visited"},
	{"enabled", "disabled"},
}

// Compound is the result of normalizing a selector.CompoundSelector:
// either the distinguished bottom (unsatisfiable, ⊥) or a canonical list
// of retained constraints.
type Compound struct {
	Bottom    bool
	Selectors []selector.SimpleSelector
}

// Bot is the unsatisfiable compound.
var Bot = Compound{Bottom: true}

// Normalize canonicalizes a compound selector.
func Normalize(c selector.CompoundSelector) Compound {
	var tag *selector.SimpleSelector
	var universal *selector.SimpleSelector
	positive := map[string]bool{}
	negated := map[string]bool{}
	var retained []selector.SimpleSelector

	for i := range c.Selectors {
		s := c.Selectors[i]
		switch s.Kind {
		case selector.KindAttr, selector.KindClass, selector.KindID:
			// Open question (a): string-constraint consistency is not
			// reasoned about; these are always treated as satisfiable.
			continue

		case selector.KindTag:
			if tag != nil && !sameElement(*tag, s) {
				return Bot
			}
			t := s
			tag = &t

		case selector.KindUniversal:
			u := s
			universal = &u

		case selector.KindPseudo:
			if statelessPseudos[s.Name] {
				if s.Negated {
					negated[s.Name] = true
				} else {
					positive[s.Name] = true
				}
				continue
			}
			// Stateful or positional: retained verbatim, Negated included.
			retained = append(retained, s)

		default:
			retained = append(retained, s)
		}
	}

	for name := range positive {
		if negated[name] {
			return Bot // p ∧ ¬p
		}
	}
	for _, pair := range incompatiblePairs {
		if positive[pair[0]] && positive[pair[1]] {
			return Bot
		}
	}

	if tag != nil {
		retained = append([]selector.SimpleSelector{*tag}, retained...)
	} else if universal != nil {
		retained = append([]selector.SimpleSelector{*universal}, retained...)
	}

	return Compound{Selectors: retained}
}

// sameElement reports whether two tag simple selectors agree on both
// name and namespace.
func sameElement(a, b selector.SimpleSelector) bool {
	if a.Name != b.Name {
		return false
	}
	if a.NamespaceAny != b.NamespaceAny {
		return false
	}
	return a.NamespaceAny || a.Namespace == b.Namespace
}

// Union concatenates the simple-selector constraints of two raw compound
// selectors without normalizing, the structural conjunction automaton.Product
// folds through Normalize afterward.
func Union(a, b selector.CompoundSelector) selector.CompoundSelector {
	merged := make([]selector.SimpleSelector, 0, len(a.Selectors)+len(b.Selectors))
	merged = append(merged, a.Selectors...)
	merged = append(merged, b.Selectors...)
	return selector.CompoundSelector{Selectors: merged}
}
