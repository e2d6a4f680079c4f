// Package overlap decides whether two CSS selectors can ever match the
// same element, backed by the automaton/normalizer/emptiness pipeline
// and a small table of fast-path shortcuts (class/class, id/id, tag/tag,
// and classes with an optional trailing stateful pseudo) for the common
// simple-selector case.
package overlap

import (
	"sync"

	"github.com/MeKo-Christian/cssdep/automaton"
	"github.com/MeKo-Christian/cssdep/emptiness"
	"github.com/MeKo-Christian/cssdep/selector"
)

// Stats tracks how overlap queries were answered since the last
// ResetCaches, surfaced by the command line's -stats flag.
type Stats struct {
	Queries   int
	CacheHits int
	FastPath  int
	SlowPath  int
}

var (
	mu      sync.Mutex
	cache   = map[[2]string]bool{}
	stat    Stats
	decider = emptiness.New()
)

// ResetCaches clears the memoized overlap table, the automaton build
// cache, and the query counters.
func ResetCaches() {
	mu.Lock()
	cache = map[[2]string]bool{}
	stat = Stats{}
	mu.Unlock()
	automaton.ResetCache()
}

// CurrentStats returns a snapshot of the query counters since the last
// ResetCaches.
func CurrentStats() Stats {
	mu.Lock()
	defer mu.Unlock()
	return stat
}

// SelectorsOverlap reports whether two selector strings could ever both
// match the same element.
func SelectorsOverlap(sel1, sel2 string) (bool, error) {
	mu.Lock()
	stat.Queries++
	if v, ok := cache[[2]string{sel1, sel2}]; ok {
		stat.CacheHits++
		mu.Unlock()
		return v, nil
	}
	mu.Unlock()

	result, err := computeOverlap(sel1, sel2)
	if err != nil {
		return false, err
	}

	mu.Lock()
	cache[[2]string{sel1, sel2}] = result
	cache[[2]string{sel2, sel1}] = result
	mu.Unlock()
	return result, nil
}

func computeOverlap(sel1, sel2 string) (bool, error) {
	cs1, err := selector.ParseComplex(sel1)
	if err != nil {
		return false, err
	}
	cs2, err := selector.ParseComplex(sel2)
	if err != nil {
		return false, err
	}

	if result, handled := fastPathOverlap(cs1, cs2); handled {
		mu.Lock()
		stat.FastPath++
		mu.Unlock()
		return result, nil
	}

	mu.Lock()
	stat.SlowPath++
	mu.Unlock()

	p := automaton.Normalize(automaton.Product(automaton.BuildCached(cs1), automaton.BuildCached(cs2)))
	empty, err := decider.IsEmpty(p)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// incompatiblePseudoPairs mirrors the stateless-pseudo conflict table the
// normalizer collapses to ⊥, consulted directly here so the
// classes-plus-trailing-pseudo fast path doesn't need a full build.
var incompatiblePseudoPairs = [][2]string{
	{"link", "visited"},
	{"enabled", "disabled"},
}

// fastPathOverlap implements four shortcuts for the common single-compound
// case, each requiring both sides to be a single compound with no
// combinator: two classes always can coincide, two ids coincide only if
// equal, two tags coincide only if equal, and classes with an optional
// trailing stateful pseudo coincide unless the pseudos are a known
// mutually-exclusive pair.
func fastPathOverlap(a, b selector.ComplexSelector) (result bool, handled bool) {
	ca, ok1 := soleCompound(a)
	cb, ok2 := soleCompound(b)
	if !ok1 || !ok2 {
		return false, false
	}

	if na, ok := soleKind(ca, selector.KindClass); ok {
		if nb, ok := soleKind(cb, selector.KindClass); ok {
			_, _ = na, nb
			return true, true
		}
	}
	if ida, ok := soleKind(ca, selector.KindID); ok {
		if idb, ok := soleKind(cb, selector.KindID); ok {
			return ida.Name == idb.Name, true
		}
	}
	if ta, ok := soleKind(ca, selector.KindTag); ok {
		if tb, ok := soleKind(cb, selector.KindTag); ok {
			return sameTag(ta, tb), true
		}
	}

	classesA, pseudoA, okA := classesWithTrailingPseudo(ca)
	classesB, pseudoB, okB := classesWithTrailingPseudo(cb)
	if okA && okB {
		_, _ = classesA, classesB
		if pseudoA == nil || pseudoB == nil {
			return true, true
		}
		if pseudoIncompatible(pseudoA.Name, pseudoB.Name) {
			return false, true
		}
		return false, false // fall through to the full pipeline
	}

	return false, false
}

// soleCompound reports a's single compound if it has no combinators.
func soleCompound(cs selector.ComplexSelector) (selector.CompoundSelector, bool) {
	if len(cs.Parts) != 1 {
		return selector.CompoundSelector{}, false
	}
	return cs.Parts[0].Compound, true
}

// soleKind reports the compound's one simple selector if it has exactly
// one, of the given kind.
func soleKind(c selector.CompoundSelector, kind selector.SelectorKind) (selector.SimpleSelector, bool) {
	if len(c.Selectors) != 1 || c.Selectors[0].Kind != kind {
		return selector.SimpleSelector{}, false
	}
	return c.Selectors[0], true
}

// classesWithTrailingPseudo reports whether a compound is zero or more
// classes optionally followed by a single non-negated stateless pseudo.
func classesWithTrailingPseudo(c selector.CompoundSelector) (classes []string, pseudo *selector.SimpleSelector, ok bool) {
	for i, s := range c.Selectors {
		switch {
		case s.Kind == selector.KindClass:
			classes = append(classes, s.Name)
		case s.Kind == selector.KindPseudo && i == len(c.Selectors)-1 && !s.Negated:
			p := s
			pseudo = &p
		default:
			return nil, nil, false
		}
	}
	return classes, pseudo, true
}

func pseudoIncompatible(a, b string) bool {
	for _, pair := range incompatiblePseudoPairs {
		if (a == pair[0] && b == pair[1]) || (a == pair[1] && b == pair[0]) {
			return true
		}
	}
	return false
}

func sameTag(a, b selector.SimpleSelector) bool {
	if a.NamespaceAny != b.NamespaceAny {
		return false
	}
	if !a.NamespaceAny && a.Namespace != b.Namespace {
		return false
	}
	return a.Name == b.Name
}
