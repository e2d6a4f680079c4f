package smt_test

import (
	"testing"

	"github.com/MeKo-Christian/cssdep/smt"
)

func TestBoundedBackendSimpleCongruence(t *testing.T) {
	t.Parallel()

	f := smt.NewFormula()
	f.Var("pos", 1, 20)
	f.Assert(smt.Congruence{X: "pos", A: 3, B: 0})

	ok, err := smt.NewBoundedBackend().Solve(f)
	if err != nil {
		t.Fatalf("Solve error: %v", err)
	}
	if !ok {
		t.Error("expected pos = 3k to be satisfiable in [1,20]")
	}
}

func TestBoundedBackendUnsatCongruence(t *testing.T) {
	t.Parallel()

	f := smt.NewFormula()
	f.Var("pos", 1, 5)
	f.Assert(smt.Congruence{X: "pos", A: 10, B: 7})

	ok, err := smt.NewBoundedBackend().Solve(f)
	if err != nil {
		t.Fatalf("Solve error: %v", err)
	}
	if ok {
		t.Error("expected no witness for pos ≡ 7 (mod 10) within [1,5]")
	}
}

func TestBoundedBackendVarCmp(t *testing.T) {
	t.Parallel()

	f := smt.NewFormula()
	f.Var("a", 1, 10)
	f.Var("b", 1, 10)
	f.Assert(smt.VarCmp{X: "a", Y: "b", Op: smt.Lt})
	f.Assert(smt.ConstCmp{X: "a", Op: smt.Eq, Const: 9})

	ok, err := smt.NewBoundedBackend().Solve(f)
	if err != nil {
		t.Fatalf("Solve error: %v", err)
	}
	if !ok {
		t.Error("expected a=9 < b to be satisfiable for some b in [1,10]")
	}
}

func TestBoundedBackendNegatedCongruence(t *testing.T) {
	t.Parallel()

	f := smt.NewFormula()
	f.Var("pos", 1, 1)
	f.Assert(smt.Negated{Inner: smt.Congruence{X: "pos", A: 2, B: 0}})

	ok, err := smt.NewBoundedBackend().Solve(f)
	if err != nil {
		t.Fatalf("Solve error: %v", err)
	}
	if !ok {
		t.Error("expected pos=1 to satisfy not(pos ≡ 0 mod 2)")
	}
}

func TestBoundedBackendUnsatNoWitness(t *testing.T) {
	t.Parallel()

	f := smt.NewFormula()
	f.Var("a", 1, 3)
	f.Var("b", 1, 3)
	f.Assert(smt.VarCmp{X: "a", Y: "b", Op: smt.Gt})
	f.Assert(smt.VarCmp{X: "b", Y: "a", Op: smt.Gt})

	ok, err := smt.NewBoundedBackend().Solve(f)
	if err != nil {
		t.Fatalf("Solve error: %v", err)
	}
	if ok {
		t.Error("expected a>b and b>a to be jointly unsatisfiable")
	}
}
