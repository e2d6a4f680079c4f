// Package emptiness decides whether an automaton accepts anything at
// all: a bounded search over its candidate accepting runs, each encoded
// as an integer-arithmetic formula and handed to an smt.Backend.
package emptiness

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MeKo-Christian/cssdep/automaton"
	"github.com/MeKo-Christian/cssdep/normalizer"
	"github.com/MeKo-Christian/cssdep/selector"
	"github.com/MeKo-Christian/cssdep/smt"
)

// Decider searches an automaton's runs up to K_max = NumStates and asks
// its backend whether any is satisfiable.
type Decider struct {
	backend     smt.Backend
	domainBound int
}

// Option configures a Decider.
type Option func(*Decider)

// WithBackend overrides the default bounded backtracking backend.
func WithBackend(b smt.Backend) Option {
	return func(d *Decider) { d.backend = b }
}

// WithDomainBound overrides the search bound used for every position
// variable the encoder introduces (default 64, comfortably past the
// periods of the An+B formulas the test corpus exercises).
func WithDomainBound(n int) Option {
	return func(d *Decider) { d.domainBound = n }
}

// New returns a Decider using the default bounded backend.
func New(opts ...Option) *Decider {
	d := &Decider{backend: smt.NewBoundedBackend(), domainBound: 64}
	for _, o := range opts {
		o(d)
	}
	return d
}

// IsEmpty decides whether a has any accepting run: no document tree and
// distinguished node would ever be accepted.
func (d *Decider) IsEmpty(a *automaton.Automaton) (bool, error) {
	kmax := a.NumStates()
	if kmax == 0 {
		kmax = 1
	}

	empty := true
	err := d.walkPaths(a, kmax, func(path []automaton.Transition) (bool, error) {
		sat, err := d.pathSatisfiable(path)
		if err != nil {
			return false, err
		}
		if sat {
			empty = false
			return true, nil // stop early: found a witness
		}
		return false, nil
	})
	if err != nil {
		return false, err
	}
	return empty, nil
}

// walkPaths enumerates simple paths (no repeated state) from Init to
// Final up to kmax transitions, calling visit on each; visit returning
// true stops the search early.
func (d *Decider) walkPaths(a *automaton.Automaton, kmax int, visit func([]automaton.Transition) (bool, error)) error {
	visited := map[automaton.State]bool{}
	var cur []automaton.Transition
	var stopped bool
	var walkErr error

	var dfs func(s automaton.State)
	dfs = func(s automaton.State) {
		if stopped || walkErr != nil || len(cur) > kmax {
			return
		}
		if s == a.Final {
			stop, err := visit(append([]automaton.Transition{}, cur...))
			if err != nil {
				walkErr = err
				return
			}
			if stop {
				stopped = true
			}
			return
		}
		if visited[s] {
			return
		}
		visited[s] = true
		for _, t := range a.OutTransitions(s) {
			cur = append(cur, t)
			dfs(t.Dst)
			cur = cur[:len(cur)-1]
			if stopped || walkErr != nil {
				break
			}
		}
		visited[s] = false
	}
	dfs(a.Init)
	return walkErr
}

// pathSatisfiable encodes one Init→Final path (given in automaton/graph
// order) as the outward neighbourhood walk it represents and queries the
// decider's backend.
func (d *Decider) pathSatisfiable(path []automaton.Transition) (bool, error) {
	outward := make([]automaton.Transition, len(path))
	for i, t := range path {
		outward[len(path)-1-i] = t
	}

	tests := make([]normalizer.Compound, len(outward))
	for i, t := range outward {
		norm := normalizer.Normalize(t.Test)
		if norm.Bottom {
			return false, nil
		}
		tests[i] = norm
	}

	if !rootConsistent(outward, tests) {
		return false, nil
	}
	if !targetConsistent(tests) {
		return false, nil
	}
	if !emptyConsistent(tests) {
		return false, nil
	}

	f := smt.NewFormula()
	enc := &encoder{f: f, bound: d.domainBound, pos: map[int]bool{}, last: map[int]bool{}, tpos: map[int]bool{}, tlast: map[int]bool{}}
	for i, comp := range tests {
		enc.encodeStep(i, comp)
	}
	enc.encodeSiblingOrder(outward)

	return d.backend.Solve(f)
}

// rootConsistent enforces that a step asserting :root has no parent: it
// must be the outermost step in the run, and if it connects onward
// toward the subject at all that connection must be a Child descent
// (a root can have children, but never a sibling).
func rootConsistent(outward []automaton.Transition, tests []normalizer.Compound) bool {
	for i, comp := range tests {
		if !hasPositivePseudo(comp, "root") {
			continue
		}
		if i != len(tests)-1 {
			return false
		}
		if i >= 1 && outward[i].Arrow != automaton.ArrowChild {
			return false
		}
		for _, name := range childPositionalPseudos {
			if hasPositivePseudo(comp, name) {
				return false
			}
		}
	}
	return true
}

// childPositionalPseudos all presume the node has a parent to count
// siblings against, which :root rules out on the same compound.
var childPositionalPseudos = []string{
	"first-child", "last-child", "only-child", "nth-child", "nth-last-child",
}

// emptyConsistent rejects a step that asserts both :empty and
// :not(:empty) at once, the one self-contradiction involving :empty
// the pragmatic no-op encoding below can't otherwise catch.
func emptyConsistent(tests []normalizer.Compound) bool {
	for _, comp := range tests {
		pos, neg := false, false
		for _, s := range comp.Selectors {
			if s.Kind == selector.KindPseudo && s.Name == "empty" {
				if s.Negated {
					neg = true
				} else {
					pos = true
				}
			}
		}
		if pos && neg {
			return false
		}
	}
	return true
}

// targetConsistent enforces that at most one step in the run asserts
// :target, since it names a single document-wide element.
func targetConsistent(tests []normalizer.Compound) bool {
	count := 0
	for _, comp := range tests {
		if hasPositivePseudo(comp, "target") {
			count++
		}
	}
	return count <= 1
}

func hasPositivePseudo(comp normalizer.Compound, name string) bool {
	for _, s := range comp.Selectors {
		if s.Kind == selector.KindPseudo && s.Name == name && !s.Negated {
			return true
		}
	}
	return false
}

// encoder builds the smt.Formula for one candidate run, lazily
// declaring position/type variables as pseudos and sibling-order rules
// reference them.
type encoder struct {
	f     *smt.Formula
	bound int

	pos, last, tpos, tlast map[int]bool
}

func (e *encoder) posVar(i int) smt.Var   { return smt.Var(fmt.Sprintf("pos%d", i)) }
func (e *encoder) lastVar(i int) smt.Var  { return smt.Var(fmt.Sprintf("last%d", i)) }
func (e *encoder) tposVar(i int) smt.Var  { return smt.Var(fmt.Sprintf("tpos%d", i)) }
func (e *encoder) tlastVar(i int) smt.Var { return smt.Var(fmt.Sprintf("tlast%d", i)) }
func (e *encoder) auxVar(label string, i int) smt.Var {
	return smt.Var(fmt.Sprintf("%s%d", label, i))
}

func (e *encoder) declarePos(i int) smt.Var {
	v := e.posVar(i)
	if !e.pos[i] {
		e.f.Var(v, 1, e.bound)
		e.pos[i] = true
	}
	return v
}

func (e *encoder) declareLast(i int) smt.Var {
	pos := e.declarePos(i)
	v := e.lastVar(i)
	if !e.last[i] {
		e.f.Var(v, 1, e.bound)
		e.f.Assert(smt.VarCmp{X: pos, Y: v, Op: smt.Le})
		e.last[i] = true
	}
	return v
}

func (e *encoder) declareTpos(i int) smt.Var {
	v := e.tposVar(i)
	if !e.tpos[i] {
		e.f.Var(v, 1, e.bound)
		if e.pos[i] {
			e.f.Assert(smt.VarCmp{X: v, Y: e.posVar(i), Op: smt.Le})
		}
		e.tpos[i] = true
	}
	return v
}

func (e *encoder) declareTlast(i int) smt.Var {
	tpos := e.declareTpos(i)
	v := e.tlastVar(i)
	if !e.tlast[i] {
		e.f.Var(v, 1, e.bound)
		e.f.Assert(smt.VarCmp{X: tpos, Y: v, Op: smt.Le})
		e.tlast[i] = true
	}
	return v
}

// encodeStep translates every pseudo constraint on step i's node-test
// into formula assertions over that step's sibling/type position.
func (e *encoder) encodeStep(i int, comp normalizer.Compound) {
	named := hasNamedElement(comp)
	for _, s := range comp.Selectors {
		if s.Kind != selector.KindPseudo {
			continue
		}
		switch s.Name {
		case "first-child":
			pos := e.declarePos(i)
			e.assert(s.Negated, smt.ConstCmp{X: pos, Op: smt.Eq, Const: 1})

		case "last-child":
			pos, last := e.declarePos(i), e.declareLast(i)
			e.assert(s.Negated, smt.VarCmp{X: pos, Y: last, Op: smt.Eq})

		case "only-child":
			pos, last := e.declarePos(i), e.declareLast(i)
			e.assert(s.Negated, smt.And{
				smt.ConstCmp{X: pos, Op: smt.Eq, Const: 1},
				smt.VarCmp{X: pos, Y: last, Op: smt.Eq},
			})

		case "nth-child":
			a, b := parseAnB(s.Value)
			pos := e.declarePos(i)
			e.assert(s.Negated, smt.Congruence{X: pos, A: a, B: b})

		case "nth-last-child":
			a, b := parseAnB(s.Value)
			pos, last := e.declarePos(i), e.declareLast(i)
			rpos := e.auxVar("rpos", i)
			e.f.Var(rpos, 1, e.bound)
			e.f.Assert(smt.Affine{Result: rpos, X: last, Y: pos, Const: 1})
			e.assert(s.Negated, smt.Congruence{X: rpos, A: a, B: b})

		case "first-of-type":
			if !named {
				continue
			}
			tpos := e.declareTpos(i)
			e.assert(s.Negated, smt.ConstCmp{X: tpos, Op: smt.Eq, Const: 1})

		case "last-of-type":
			if !named {
				continue
			}
			tpos, tlast := e.declareTpos(i), e.declareTlast(i)
			e.assert(s.Negated, smt.VarCmp{X: tpos, Y: tlast, Op: smt.Eq})

		case "only-of-type":
			if !named {
				continue
			}
			tpos, tlast := e.declareTpos(i), e.declareTlast(i)
			e.assert(s.Negated, smt.And{
				smt.ConstCmp{X: tpos, Op: smt.Eq, Const: 1},
				smt.VarCmp{X: tpos, Y: tlast, Op: smt.Eq},
			})

		case "nth-of-type":
			if !named {
				continue
			}
			a, b := parseAnB(s.Value)
			tpos := e.declareTpos(i)
			e.assert(s.Negated, smt.Congruence{X: tpos, A: a, B: b})

		case "nth-last-of-type":
			if !named {
				continue
			}
			a, b := parseAnB(s.Value)
			tpos, tlast := e.declareTpos(i), e.declareTlast(i)
			rtpos := e.auxVar("rtpos", i)
			e.f.Var(rtpos, 1, e.bound)
			e.f.Assert(smt.Affine{Result: rtpos, X: tlast, Y: tpos, Const: 1})
			e.assert(s.Negated, smt.Congruence{X: rtpos, A: a, B: b})

		case "root", "target", "empty":
			// root/target are enforced structurally before formula
			// construction; empty never conflicts with this automaton's
			// outward-only arrows, since no inward subtree is ever forced.
		}
	}
}

func (e *encoder) assert(negated bool, c smt.Constraint) {
	if negated {
		e.f.Assert(smt.Negated{Inner: c})
		return
	}
	e.f.Assert(c)
}

// encodeSiblingOrder constrains consecutive steps' sibling positions.
// outward[i]'s arrow describes the walk from outward[i] to outward[i-1]
// (the node closer to the actual subject): a Neighbour (+) step pins the
// inner node to the very next sibling position, a Sibling (~) step only
// requires it to come later.
func (e *encoder) encodeSiblingOrder(outward []automaton.Transition) {
	for i := 1; i < len(outward); i++ {
		switch outward[i].Arrow {
		case automaton.ArrowNeighbour:
			outer := e.declarePos(i)
			inner := e.declarePos(i - 1)
			e.f.Assert(smt.Offset{Result: inner, Base: outer, Delta: 1})
		case automaton.ArrowSibling:
			outer := e.declarePos(i)
			inner := e.declarePos(i - 1)
			e.f.Assert(smt.VarCmp{X: inner, Y: outer, Op: smt.Gt})
		}
	}
}

func hasNamedElement(comp normalizer.Compound) bool {
	for _, s := range comp.Selectors {
		if s.Kind == selector.KindTag {
			return true
		}
	}
	return false
}

// parseAnB parses a CSS An+B micro-syntax value ("2n", "3n+1", "-n+6",
// "odd", "even", or a bare integer) into (a, b) for the congruence
// pos = a*k+b, k >= 0.
func parseAnB(s string) (a, b int) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "odd":
		return 2, 1
	case "even":
		return 2, 0
	}

	idx := strings.IndexByte(s, 'n')
	if idx < 0 {
		n, _ := strconv.Atoi(stripPlus(s))
		return 0, n
	}

	aPart := s[:idx]
	switch aPart {
	case "", "+":
		a = 1
	case "-":
		a = -1
	default:
		a, _ = strconv.Atoi(stripPlus(aPart))
	}

	rest := strings.TrimSpace(s[idx+1:])
	if rest == "" {
		return a, 0
	}
	b, _ = strconv.Atoi(stripPlus(rest))
	return a, b
}

func stripPlus(s string) string {
	if strings.HasPrefix(s, "+") {
		return s[1:]
	}
	return s
}
