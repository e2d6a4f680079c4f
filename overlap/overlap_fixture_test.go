package overlap_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/MeKo-Christian/cssdep/overlap"
)

// commonMatch reports whether some node in the fixture document matches
// both compiled selectors, the ground-truth oracle overlap verdicts are
// checked against: if a real DOM matcher finds a node satisfying both
// selectors, the overlap primitive must say TRUE.
func commonMatch(t *testing.T, fixtureHTML, sel1, sel2 string) bool {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(fixtureHTML))
	if err != nil {
		t.Fatalf("html.Parse() error: %v", err)
	}
	m1, err := cascadia.Compile(sel1)
	if err != nil {
		t.Fatalf("cascadia.Compile(%q) error: %v", sel1, err)
	}
	m2, err := cascadia.Compile(sel2)
	if err != nil {
		t.Fatalf("cascadia.Compile(%q) error: %v", sel2, err)
	}

	gq := goquery.NewDocumentFromNode(doc)
	found := false
	gq.Find("*").Each(func(_ int, sel *goquery.Selection) {
		node := sel.Get(0)
		if m1.Match(node) && m2.Match(node) {
			found = true
		}
	})
	return found
}

func checkAgainstFixture(t *testing.T, fixtureHTML, sel1, sel2 string) {
	t.Helper()
	overlap.ResetCaches()
	does, err := overlap.SelectorsOverlap(sel1, sel2)
	if err != nil {
		t.Fatalf("SelectorsOverlap(%q, %q) error: %v", sel1, sel2, err)
	}
	match := commonMatch(t, fixtureHTML, sel1, sel2)
	if match && !does {
		t.Errorf("cascadia found a node matching both %q and %q, but SelectorsOverlap said false", sel1, sel2)
	}
}

func TestOverlapAgreesWithDOMForSharedClass(t *testing.T) {
	t.Parallel()
	checkAgainstFixture(t, `<html><body><div class="c d">x</div></body></html>`, ".c", ".d")
}

func TestOverlapAgreesWithDOMForTagPlusClass(t *testing.T) {
	t.Parallel()
	checkAgainstFixture(t, `<html><body><div class="a">x</div></body></html>`, "div", "div.a")
}

func TestOverlapAgreesWithDOMForFirstChildAndNthChildOne(t *testing.T) {
	t.Parallel()
	fixture := `<html><body><ul><li>1</li><li>2</li><li>3</li></ul></body></html>`
	checkAgainstFixture(t, fixture, "li:first-child", "li:nth-child(1)")
}

func TestOverlapAgreesWithDOMForDisjointTags(t *testing.T) {
	t.Parallel()
	checkAgainstFixture(t, `<html><body><div>x</div></body></html>`, "div", "span")
}

func TestOverlapAgreesWithDOMForDisjointIDs(t *testing.T) {
	t.Parallel()
	checkAgainstFixture(t, `<html><body><div id="a">x</div><div id="b">y</div></body></html>`, "#a", "#b")
}
