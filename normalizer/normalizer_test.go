package normalizer_test

import (
	"testing"

	"github.com/MeKo-Christian/cssdep/normalizer"
	"github.com/MeKo-Christian/cssdep/selector"
)

func subject(t *testing.T, sel string) selector.CompoundSelector {
	t.Helper()
	cplx, err := selector.ParseComplex(sel)
	if err != nil {
		t.Fatalf("ParseComplex(%q) error: %v", sel, err)
	}
	return selector.Subject(cplx)
}

func names(c normalizer.Compound) []string {
	out := make([]string, 0, len(c.Selectors))
	for _, s := range c.Selectors {
		out = append(out, s.Name)
	}
	return out
}

func TestNormalizeDropsStringConstraints(t *testing.T) {
	t.Parallel()

	got := normalizer.Normalize(subject(t, "*.c"))
	if got.Bottom {
		t.Fatal("expected satisfiable, got bottom")
	}
	if len(got.Selectors) != 1 || got.Selectors[0].Kind != selector.KindUniversal {
		t.Errorf("got %+v, want just the universal selector", got.Selectors)
	}
}

func TestNormalizeDropsNegatedClass(t *testing.T) {
	t.Parallel()

	got := normalizer.Normalize(subject(t, "*.c:not(.d)"))
	if got.Bottom {
		t.Fatal("expected satisfiable, got bottom")
	}
	if len(got.Selectors) != 1 || got.Selectors[0].Kind != selector.KindUniversal {
		t.Errorf("got %+v, want just the universal selector", got.Selectors)
	}
}

func TestNormalizeDropsAttributesKeepsStatefulPseudo(t *testing.T) {
	t.Parallel()

	got := normalizer.Normalize(subject(t, "[class~='c'].d:target"))
	if got.Bottom {
		t.Fatal("expected satisfiable, got bottom")
	}
	if len(got.Selectors) != 1 || got.Selectors[0].Kind != selector.KindPseudo || got.Selectors[0].Name != "target" {
		t.Errorf("got %+v, want just :target", got.Selectors)
	}
}

func TestNormalizeDropsStatelessPseudo(t *testing.T) {
	t.Parallel()

	got := normalizer.Normalize(subject(t, "e:hover"))
	if got.Bottom {
		t.Fatal("expected satisfiable, got bottom")
	}
	if len(got.Selectors) != 1 || got.Selectors[0].Kind != selector.KindTag || got.Selectors[0].Name != "e" {
		t.Errorf("got %+v, want just tag e", got.Selectors)
	}
}

func TestNormalizeLinkVisitedConflict(t *testing.T) {
	t.Parallel()

	got := normalizer.Normalize(subject(t, "e:link:visited"))
	if !got.Bottom {
		t.Errorf("expected bottom for :link:visited, got %+v", got.Selectors)
	}
}

func TestNormalizeEnabledDisabledConflict(t *testing.T) {
	t.Parallel()

	got := normalizer.Normalize(subject(t, "e:enabled:disabled"))
	if !got.Bottom {
		t.Errorf("expected bottom for :enabled:disabled, got %+v", got.Selectors)
	}
}

func TestNormalizeMixedStatelessAndStateful(t *testing.T) {
	t.Parallel()

	got := normalizer.Normalize(subject(t, "e:visited:hover:active:target:focus:enabled:checked:nth-child(3)"))
	if got.Bottom {
		t.Fatal("expected satisfiable, got bottom")
	}
	want := []string{"e", "target", "nth-child"}
	gotNames := names(got)
	if len(gotNames) != len(want) {
		t.Fatalf("got %v, want %v", gotNames, want)
	}
	for i := range want {
		if gotNames[i] != want[i] {
			t.Errorf("got %v, want %v", gotNames, want)
		}
	}
}

func TestNormalizeNegatedPseudoDropped(t *testing.T) {
	t.Parallel()

	got := normalizer.Normalize(subject(t, "e:not(:visited):hover"))
	if got.Bottom {
		t.Fatal("expected satisfiable, got bottom")
	}
	if len(got.Selectors) != 1 || got.Selectors[0].Name != "e" {
		t.Errorf("got %+v, want just tag e", got.Selectors)
	}
}

func TestNormalizeNegatedPseudoConflict(t *testing.T) {
	t.Parallel()

	got := normalizer.Normalize(subject(t, "e:not(:visited):visited"))
	if !got.Bottom {
		t.Errorf("expected bottom for :not(:visited):visited, got %+v", got.Selectors)
	}
}

func TestNormalizeElementDisagreementIsBottom(t *testing.T) {
	t.Parallel()

	c := selector.CompoundSelector{Selectors: []selector.SimpleSelector{
		{Kind: selector.KindTag, Name: "div", NamespaceAny: true},
		{Kind: selector.KindTag, Name: "span", NamespaceAny: true},
	}}
	if got := normalizer.Normalize(c); !got.Bottom {
		t.Errorf("expected bottom for div+span compound, got %+v", got.Selectors)
	}
}

func TestUnionConcatenatesConstraints(t *testing.T) {
	t.Parallel()

	a := subject(t, "e:target")
	b := subject(t, "e:root")
	merged := normalizer.Union(a, b)
	if len(merged.Selectors) != 4 {
		t.Fatalf("got %d selectors, want 4", len(merged.Selectors))
	}
}
