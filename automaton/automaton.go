// Package automaton builds, intersects, and normalizes the nondeterministic
// tree-walking automata that the emptiness decider reasons about: one
// automaton per selector, translated from the parsed selector chain by
// walking outward from the subject toward ancestors and preceding
// siblings.
package automaton

import (
	"sync"

	"github.com/MeKo-Christian/cssdep/internal/constants"
	"github.com/MeKo-Christian/cssdep/normalizer"
	"github.com/MeKo-Christian/cssdep/selector"
)

// Arrow is the step kind on a transition.
type Arrow int

const (
	ArrowChild     Arrow = iota // moves to the parent
	ArrowNoop                   // stays put, refines the current node-test
	ArrowNeighbour              // moves to the immediately preceding sibling
	ArrowSibling                // moves to some earlier sibling
)

func (a Arrow) String() string {
	switch a {
	case ArrowChild:
		return "child"
	case ArrowNoop:
		return "noop"
	case ArrowNeighbour:
		return "neighbour"
	case ArrowSibling:
		return "sibling"
	default:
		return "?"
	}
}

// State is an opaque state handle; only equality matters.
type State int

// Transition is (src, arrow, node-test, dst). Test is the raw compound
// selector collected at build/product time; Normalize folds it through
// the selector normalizer to collapse always-true or never-true tests.
type Transition struct {
	Src  State
	Arrow
	Test selector.CompoundSelector
	Dst  State
}

// Any is the node-test that matches any element: the universal selector
// with no constraints, used on the qinit self-loops and loop-state exits.
var Any = selector.CompoundSelector{
	Selectors: []selector.SimpleSelector{{Kind: selector.KindUniversal, Name: "*", NamespaceAny: true}},
}

// Automaton is the 5-tuple (Q, qinit, qfinal, δ) of a finite tree-walking
// automaton. Q is left implicit: it is whatever states appear in Init,
// Final, and Transitions.
type Automaton struct {
	Init        State
	Final       State
	Transitions []Transition
	numStates   int
}

func newAutomaton() *Automaton {
	return &Automaton{}
}

func (a *Automaton) newState() State {
	s := State(a.numStates)
	a.numStates++
	return s
}

// NumStates returns the number of distinct states allocated, used as the
// emptiness decider's search bound: no accepting run needs more steps
// than the automaton has states without repeating one.
func (a *Automaton) NumStates() int {
	return a.numStates
}

func (a *Automaton) addTran(src State, arrow Arrow, test selector.CompoundSelector, dst State) {
	a.Transitions = append(a.Transitions, Transition{Src: src, Arrow: arrow, Test: test, Dst: dst})
}

// Build translates a parsed complex selector into its automaton, walking
// the compound chain right to left and emitting one recipe of states and
// transitions per combinator: child and descendant steps move toward the
// parent, adjacent and general-sibling steps move toward a preceding
// sibling, each with a loop state absorbing the combinator's unbounded
// variant (descendant, general sibling) where needed.
func Build(cs selector.ComplexSelector) *Automaton {
	a := newAutomaton()
	a.Init = a.newState()
	a.Final = a.newState()
	a.addTran(a.Init, ArrowChild, Any, a.Init)
	a.addTran(a.Init, ArrowSibling, Any, a.Init)
	a.addTran(a.Init, ArrowNeighbour, Any, a.Init)

	anchor := a.Init
	n := len(cs.Parts)
	for i := 1; i < n; i++ {
		left := cs.Parts[i-1].Compound
		qmid := a.newState()

		switch cs.Parts[i].Combinator {
		case selector.CombinatorChild:
			a.addTran(anchor, ArrowChild, left, qmid)
			qloop := a.newState()
			a.addTran(anchor, ArrowChild, left, qloop)
			a.addTran(qloop, ArrowSibling, Any, qmid)

		case selector.CombinatorDescendant:
			a.addTran(anchor, ArrowChild, left, qmid)
			qloop := a.newState()
			a.addTran(anchor, ArrowChild, left, qloop)
			a.addTran(qloop, ArrowChild, Any, qloop)
			a.addTran(qloop, ArrowSibling, Any, qloop)
			a.addTran(qloop, ArrowChild, Any, qmid)
			a.addTran(qloop, ArrowNeighbour, Any, qmid)

		case selector.CombinatorAdjacent:
			a.addTran(anchor, ArrowNeighbour, left, qmid)

		case selector.CombinatorGeneral:
			a.addTran(anchor, ArrowNeighbour, left, qmid)
			qloop := a.newState()
			a.addTran(anchor, ArrowNeighbour, left, qloop)
			a.addTran(qloop, ArrowSibling, Any, qloop)
			a.addTran(qloop, ArrowNeighbour, Any, qmid)

		case selector.CombinatorNone:
			// Only the first part carries CombinatorNone; unreachable here
			// since the loop starts at i=1.
		}
		anchor = qmid
	}

	subject := cs.Parts[n-1].Compound
	a.addTran(anchor, ArrowNoop, subject, a.Final)
	return a
}

var (
	buildCacheMu sync.Mutex
	buildCache   = map[string]*Automaton{}
)

// BuildCached is Build, memoized on the selector's structural key.
// Equivalent parse trees from separate parses of the same text share one
// automaton instead of rebuilding it.
func BuildCached(cs selector.ComplexSelector) *Automaton {
	key := constants.StructuralKey(cs)

	buildCacheMu.Lock()
	if a, ok := buildCache[key]; ok {
		buildCacheMu.Unlock()
		return a
	}
	buildCacheMu.Unlock()

	a := Build(cs)

	buildCacheMu.Lock()
	buildCache[key] = a
	buildCacheMu.Unlock()
	return a
}

// ResetCache clears the automaton build cache.
func ResetCache() {
	buildCacheMu.Lock()
	buildCache = map[string]*Automaton{}
	buildCacheMu.Unlock()
}

// Product intersects two automata: states are pairs, transitions exist
// where both sides agree on arrow and the conjoined node-test is
// satisfiable. Every automaton carries a self-loop on every arrow at its
// initial state, so pairing never fails solely because one operand's
// shape lacks a transition on an arrow the other needs. Unreachable
// states are pruned afterward.
func Product(a1, a2 *Automaton) *Automaton {
	out := newAutomaton()

	type pairKey struct{ a, b State }
	states := map[pairKey]State{}
	getState := func(s1, s2 State) State {
		key := pairKey{s1, s2}
		if s, ok := states[key]; ok {
			return s
		}
		s := out.newState()
		states[key] = s
		return s
	}

	out.Init = getState(a1.Init, a2.Init)
	out.Final = getState(a1.Final, a2.Final)

	for _, t1 := range a1.Transitions {
		for _, t2 := range a2.Transitions {
			if t1.Arrow != t2.Arrow {
				continue
			}
			merged := normalizer.Union(t1.Test, t2.Test)
			if normalizer.Normalize(merged).Bottom {
				continue
			}
			src := getState(t1.Src, t2.Src)
			dst := getState(t1.Dst, t2.Dst)
			out.addTran(src, t1.Arrow, merged, dst)
		}
	}

	prune(out)
	return out
}

// Normalize applies the selector normalizer to every transition's
// node-test, drops transitions that normalize to ⊥, and re-prunes
// unreachable states.
func Normalize(a *Automaton) *Automaton {
	out := newAutomaton()
	out.Init = a.Init
	out.Final = a.Final
	out.numStates = a.numStates

	for _, t := range a.Transitions {
		norm := normalizer.Normalize(t.Test)
		if norm.Bottom {
			continue
		}
		out.Transitions = append(out.Transitions, Transition{
			Src:   t.Src,
			Arrow: t.Arrow,
			Test:  selector.CompoundSelector{Selectors: norm.Selectors},
			Dst:   t.Dst,
		})
	}

	prune(out)
	return out
}

// prune removes transitions whose endpoints are not reachable from Init
// or cannot reach Final, per the invariant that q_init has no incoming
// transitions and q_final no outgoing ones worth keeping.
func prune(a *Automaton) {
	fwd := map[State]bool{a.Init: true}
	changed := true
	for changed {
		changed = false
		for _, t := range a.Transitions {
			if fwd[t.Src] && !fwd[t.Dst] {
				fwd[t.Dst] = true
				changed = true
			}
		}
	}

	bwd := map[State]bool{a.Final: true}
	changed = true
	for changed {
		changed = false
		for _, t := range a.Transitions {
			if bwd[t.Dst] && !bwd[t.Src] {
				bwd[t.Src] = true
				changed = true
			}
		}
	}

	kept := a.Transitions[:0]
	for _, t := range a.Transitions {
		if fwd[t.Src] && fwd[t.Dst] && bwd[t.Src] && bwd[t.Dst] {
			kept = append(kept, t)
		}
	}
	a.Transitions = kept
}

// OutTransitions returns every transition starting at s, used by the
// emptiness decider's path search.
func (a *Automaton) OutTransitions(s State) []Transition {
	var out []Transition
	for _, t := range a.Transitions {
		if t.Src == s {
			out = append(out, t)
		}
	}
	return out
}
