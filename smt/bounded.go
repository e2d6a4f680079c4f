package smt

import (
	"context"
	"sort"

	"github.com/MeKo-Christian/cssdep/errors"
)

// BoundedBackend decides satisfiability by backtracking search over each
// variable's declared domain, pruning as soon as every variable a
// constraint mentions has been assigned. It is complete for the
// formulas the emptiness decider builds, since every domain is already
// bounded to the run length and the document sizes the decider cares
// about: the An+B congruences only ever need a witness within one period
// of their modulus, which the emptiness encoder sizes domains for.
type BoundedBackend struct{}

// NewBoundedBackend returns the default backend.
func NewBoundedBackend() *BoundedBackend {
	return &BoundedBackend{}
}

// Solve reports whether f is satisfiable, searching its declared
// variable domains in a fixed order for determinism.
func (b *BoundedBackend) Solve(f *Formula) (bool, error) {
	return b.SolveContext(context.Background(), f)
}

// SolveContext is Solve with cancellation, honored between assignments
// so a caller can bound wall-clock time on pathological formulas.
func (b *BoundedBackend) SolveContext(ctx context.Context, f *Formula) (bool, error) {
	vars := make([]Var, 0, len(f.Domains))
	for v := range f.Domains {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })

	assign := map[Var]int{}
	ok, err := backtrack(ctx, vars, f, assign)
	if err != nil {
		return false, &errors.BackendError{Query: "bounded search", Err: err}
	}
	return ok, nil
}

func backtrack(ctx context.Context, vars []Var, f *Formula, assign map[Var]int) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}

	if len(vars) == 0 {
		return evalAll(f.Constraints, assign), nil
	}

	v := vars[0]
	rest := vars[1:]
	dom := f.Domains[v]
	for val := dom.Min; val <= dom.Max; val++ {
		assign[v] = val
		if satisfiedSoFar(f.Constraints, assign) {
			ok, err := backtrack(ctx, rest, f, assign)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
	}
	delete(assign, v)
	return false, nil
}

// evalAll requires every constraint to hold under a complete assignment.
func evalAll(cs []Constraint, assign map[Var]int) bool {
	for _, c := range cs {
		if !c.Holds(assign) {
			return false
		}
	}
	return true
}

// satisfiedSoFar prunes the search as soon as a constraint's variables
// are all bound, without waiting for every variable to be assigned.
func satisfiedSoFar(cs []Constraint, assign map[Var]int) bool {
	for _, c := range cs {
		vs := varsOf(c)
		if !allAssigned(vs, assign) {
			continue
		}
		if !c.Holds(assign) {
			return false
		}
	}
	return true
}

func allAssigned(vs []Var, assign map[Var]int) bool {
	for _, v := range vs {
		if _, ok := assign[v]; !ok {
			return false
		}
	}
	return true
}

func varsOf(c Constraint) []Var {
	switch v := c.(type) {
	case Congruence:
		return []Var{v.X}
	case VarCmp:
		return []Var{v.X, v.Y}
	case ConstCmp:
		return []Var{v.X}
	case Offset:
		return []Var{v.Result, v.Base}
	case Affine:
		return []Var{v.Result, v.X, v.Y}
	case And:
		var vs []Var
		for _, inner := range v {
			vs = append(vs, varsOf(inner)...)
		}
		return vs
	case Negated:
		return varsOf(v.Inner)
	default:
		return nil
	}
}
