package cssparse_test

import (
	"testing"

	"github.com/MeKo-Christian/cssdep/cssparse"
)

func TestParseStylesheetSingleRule(t *testing.T) {
	t.Parallel()
	sheet, err := cssparse.ParseStylesheet("div.foo { color: red; margin: 0 }")
	if err != nil {
		t.Fatalf("ParseStylesheet() error: %v", err)
	}
	if len(sheet.Rules) != 1 {
		t.Fatalf("len(Rules) = %d, want 1", len(sheet.Rules))
	}
	rule := sheet.Rules[0]
	if len(rule.Selectors) != 1 || rule.Selectors[0].Text != "div.foo" {
		t.Fatalf("Selectors = %+v", rule.Selectors)
	}
	if len(rule.Declarations) != 2 {
		t.Fatalf("len(Declarations) = %d, want 2", len(rule.Declarations))
	}
	if rule.Declarations[0].Property != "color" || rule.Declarations[0].Value != "red" {
		t.Errorf("Declarations[0] = %+v", rule.Declarations[0])
	}
}

func TestParseStylesheetSelectorList(t *testing.T) {
	t.Parallel()
	sheet, err := cssparse.ParseStylesheet("a, b.c { x: y }")
	if err != nil {
		t.Fatalf("ParseStylesheet() error: %v", err)
	}
	sels := sheet.Rules[0].Selectors
	if len(sels) != 2 {
		t.Fatalf("len(Selectors) = %d, want 2", len(sels))
	}
	if sels[0].Text != "a" || sels[1].Text != "b.c" {
		t.Errorf("Selectors = %+v", sels)
	}
}

func TestParseStylesheetTracksLineNumbers(t *testing.T) {
	t.Parallel()
	src := "a { x: y }\n\nb { x: y }\n"
	sheet, err := cssparse.ParseStylesheet(src)
	if err != nil {
		t.Fatalf("ParseStylesheet() error: %v", err)
	}
	if sheet.Rules[0].Line != 1 {
		t.Errorf("Rules[0].Line = %d, want 1", sheet.Rules[0].Line)
	}
	if sheet.Rules[1].Line != 3 {
		t.Errorf("Rules[1].Line = %d, want 3", sheet.Rules[1].Line)
	}
}

func TestParseStylesheetSkipsAtRules(t *testing.T) {
	t.Parallel()
	src := `@import "x.css";
@media screen {
  a { x: y }
}
b { x: y }`
	sheet, err := cssparse.ParseStylesheet(src)
	if err != nil {
		t.Fatalf("ParseStylesheet() error: %v", err)
	}
	if len(sheet.Rules) != 1 || sheet.Rules[0].Selectors[0].Text != "b" {
		t.Fatalf("Rules = %+v", sheet.Rules)
	}
}

func TestParseStylesheetSkipsComments(t *testing.T) {
	t.Parallel()
	src := "/* comment */ a /* inline */ { x: y } /* trailing */"
	sheet, err := cssparse.ParseStylesheet(src)
	if err != nil {
		t.Fatalf("ParseStylesheet() error: %v", err)
	}
	if len(sheet.Rules) != 1 || sheet.Rules[0].Selectors[0].Text != "a" {
		t.Fatalf("Rules = %+v", sheet.Rules)
	}
}

func TestParseStylesheetMalformedDeclarationErrors(t *testing.T) {
	t.Parallel()
	if _, err := cssparse.ParseStylesheet("a { color }"); err == nil {
		t.Error("expected an error for a declaration missing ':'")
	}
}

func TestParseStylesheetUnterminatedBlockErrors(t *testing.T) {
	t.Parallel()
	if _, err := cssparse.ParseStylesheet("a { color: red"); err == nil {
		t.Error("expected an error for an unterminated declaration block")
	}
}

func TestParseStylesheetInvalidSelectorPropagatesError(t *testing.T) {
	t.Parallel()
	if _, err := cssparse.ParseStylesheet("[ { x: y }"); err == nil {
		t.Error("expected an error for a malformed selector")
	}
}

func TestComputeSpecificityOrdering(t *testing.T) {
	t.Parallel()
	sheet, err := cssparse.ParseStylesheet("#id{x:y} .a.b{x:y} div{x:y} *{x:y}")
	if err != nil {
		t.Fatalf("ParseStylesheet() error: %v", err)
	}
	idSpec := sheet.Rules[0].Selectors[0].Specificity
	classSpec := sheet.Rules[1].Selectors[0].Specificity
	tagSpec := sheet.Rules[2].Selectors[0].Specificity
	universalSpec := sheet.Rules[3].Selectors[0].Specificity

	if !tagSpec.Less(classSpec) || !classSpec.Less(idSpec) {
		t.Errorf("expected universal < tag < class.class < id, got %+v, %+v, %+v, %+v",
			universalSpec, tagSpec, classSpec, idSpec)
	}
	if universalSpec != (cssparse.Specificity{}) {
		t.Errorf("universal specificity = %+v, want zero", universalSpec)
	}
	if classSpec.B != 2 {
		t.Errorf(".a.b specificity B = %d, want 2", classSpec.B)
	}
}

func TestFoldedValueJoinsSourceOrderedValues(t *testing.T) {
	t.Parallel()
	sheet, err := cssparse.ParseStylesheet(".a { margin: 0 } .a { margin: 1 }")
	if err != nil {
		t.Fatalf("ParseStylesheet() error: %v", err)
	}
	got := sheet.FoldedValue(".a", "margin")
	if got != "0;1" {
		t.Errorf("FoldedValue() = %q, want %q", got, "0;1")
	}
}

func TestFoldedValueEmptyWhenNoMatch(t *testing.T) {
	t.Parallel()
	sheet, err := cssparse.ParseStylesheet(".a { margin: 0 }")
	if err != nil {
		t.Fatalf("ParseStylesheet() error: %v", err)
	}
	if got := sheet.FoldedValue(".b", "margin"); got != "" {
		t.Errorf("FoldedValue() = %q, want empty", got)
	}
}
