package cssdep_test

import (
	"testing"

	"github.com/MeKo-Christian/cssdep"
	"github.com/MeKo-Christian/cssdep/selector"
)

func TestSelectorsOverlapStr(t *testing.T) {
	t.Parallel()
	cssdep.ResetCaches()

	got, err := cssdep.SelectorsOverlapStr(".c", ".d")
	if err != nil {
		t.Fatalf("SelectorsOverlapStr() error: %v", err)
	}
	if !got {
		t.Error("SelectorsOverlapStr(.c, .d) = false, want true")
	}

	got, err = cssdep.SelectorsOverlapStr("#a", "#b")
	if err != nil {
		t.Fatalf("SelectorsOverlapStr() error: %v", err)
	}
	if got {
		t.Error("SelectorsOverlapStr(#a, #b) = true, want false")
	}
}

func TestSelectorsOverlapStrPropagatesParseError(t *testing.T) {
	t.Parallel()
	if _, err := cssdep.SelectorsOverlapStr("[", "div"); err == nil {
		t.Error("expected an error for a malformed selector")
	}
}

func TestSelectorsOverlapOnParsedTrees(t *testing.T) {
	t.Parallel()
	cssdep.ResetCaches()

	s1, err := selector.ParseComplex("e1")
	if err != nil {
		t.Fatalf("ParseComplex() error: %v", err)
	}
	s2, err := selector.ParseComplex("e2")
	if err != nil {
		t.Fatalf("ParseComplex() error: %v", err)
	}
	got, err := cssdep.SelectorsOverlap(s1, s2)
	if err != nil {
		t.Fatalf("SelectorsOverlap() error: %v", err)
	}
	if got {
		t.Error("SelectorsOverlap(e1, e2) = true, want false")
	}
}

func TestBuildSimpleCSS(t *testing.T) {
	t.Parallel()
	cssdep.ResetCaches()

	model, err := cssdep.BuildSimpleCSS("img { margin:0; width:100% }")
	if err != nil {
		t.Fatalf("BuildSimpleCSS() error: %v", err)
	}
	if len(model.Edges) != 2 {
		t.Errorf("len(Edges) = %d, want 2", len(model.Edges))
	}
	if len(model.Order) != 0 {
		t.Errorf("len(Order) = %d, want 0", len(model.Order))
	}
}

func TestBuildSimpleCSSPropagatesParseError(t *testing.T) {
	t.Parallel()
	if _, err := cssdep.BuildSimpleCSS("a { color }"); err == nil {
		t.Error("expected an error for a malformed declaration")
	}
}
