// Package cssdep exposes the cascade dependency model's public API:
// overlap queries over parsed or raw selector text, and building a
// Simple-CSS edge/order model from a stylesheet source.
package cssdep

import (
	"github.com/MeKo-Christian/cssdep/cssparse"
	"github.com/MeKo-Christian/cssdep/overlap"
	"github.com/MeKo-Christian/cssdep/selector"
	"github.com/MeKo-Christian/cssdep/simplecss"
)

// SelectorsOverlap reports whether two parsed selectors could ever both
// match the same element.
func SelectorsOverlap(s1, s2 selector.ComplexSelector) (bool, error) {
	return overlap.SelectorsOverlap(selectorText(s1), selectorText(s2))
}

// SelectorsOverlapStr parses both selector strings, then delegates to
// the parsed-tree overlap check.
func SelectorsOverlapStr(text1, text2 string) (bool, error) {
	if _, err := selector.ParseComplex(text1); err != nil {
		return false, err
	}
	if _, err := selector.ParseComplex(text2); err != nil {
		return false, err
	}
	return overlap.SelectorsOverlap(text1, text2)
}

// BuildSimpleCSS parses a stylesheet source string and builds its
// Simple-CSS edge/order model.
func BuildSimpleCSS(src string) (*simplecss.SimpleCSS, error) {
	sheet, err := cssparse.ParseStylesheet(src)
	if err != nil {
		return nil, err
	}
	return simplecss.Build(sheet)
}

// ResetCaches clears every process-local memoization table: the overlap
// result cache and its query counters.
func ResetCaches() {
	overlap.ResetCaches()
}

// selectorText round-trips a parsed selector back to the canonical text
// overlap.SelectorsOverlap keys its cache on. The overlap primitive
// operates on selector strings rather than parse trees so its memoization
// key stays a plain comparable value, rather than requiring a canonical
// hash or equality check over parse trees.
func selectorText(cs selector.ComplexSelector) string {
	var b []byte
	for i, part := range cs.Parts {
		switch {
		case i == 0:
			// first part carries no combinator
		case part.Combinator == selector.CombinatorDescendant:
			b = append(b, ' ')
		default:
			b = append(b, ' ')
			b = append(b, part.Combinator.String()...)
			b = append(b, ' ')
		}
		b = append(b, compoundText(part.Compound)...)
	}
	return string(b)
}

func compoundText(c selector.CompoundSelector) string {
	var b []byte
	for _, s := range c.Selectors {
		b = append(b, simpleText(s)...)
	}
	return string(b)
}

func simpleText(s selector.SimpleSelector) string {
	prefix := ""
	if !s.NamespaceAny {
		prefix = s.Namespace + "|"
	}
	switch s.Kind {
	case selector.KindTag:
		return prefix + s.Name
	case selector.KindUniversal:
		return prefix + "*"
	case selector.KindID:
		return "#" + s.Name
	case selector.KindClass:
		return "." + s.Name
	case selector.KindAttr:
		if s.Operator == selector.AttrExists {
			return "[" + s.Name + "]"
		}
		return "[" + s.Name + s.Operator.String() + "\"" + s.Value + "\"]"
	case selector.KindPseudo:
		name := s.Name
		if s.Value != "" {
			name = name + "(" + s.Value + ")"
		}
		if s.Negated {
			return ":not(:" + name + ")"
		}
		return ":" + name
	default:
		return ""
	}
}
