// Package constants interns the small, highly repeated vocabulary of CSS
// simple-selector names (element and pseudo-class names) and builds a
// canonical structural key for a parsed selector: parse trees are used
// as cache keys, and object identity alone mis-caches structurally
// equivalent selectors produced by separate parses.
package constants

import (
	"strconv"
	"strings"

	"github.com/MeKo-Christian/cssdep/selector"
)

// CommonTagNames holds the most frequently selected HTML element names,
// pre-allocated so repeated selector parses reuse one string instead of
// allocating a fresh one per occurrence.
var CommonTagNames = map[string]string{
	"html": "html", "head": "head", "body": "body", "title": "title",
	"div": "div", "span": "span", "p": "p", "a": "a",
	"h1": "h1", "h2": "h2", "h3": "h3", "h4": "h4", "h5": "h5", "h6": "h6",
	"ul": "ul", "ol": "ol", "li": "li",
	"table": "table", "thead": "thead", "tbody": "tbody", "tr": "tr", "td": "td", "th": "th",
	"form": "form", "input": "input", "button": "button", "label": "label",
	"img": "img", "svg": "svg",
	"header": "header", "footer": "footer", "nav": "nav", "section": "section", "article": "article",
	"b": "b", "i": "i", "em": "em", "strong": "strong",
}

// CommonPseudoNames holds the stateless and stateful pseudo-class names
// the normalizer and emptiness decider recognize.
var CommonPseudoNames = map[string]string{
	"hover": "hover", "link": "link", "visited": "visited", "active": "active",
	"focus": "focus", "enabled": "enabled", "disabled": "disabled", "checked": "checked",
	"target": "target", "root": "root", "empty": "empty",
	"first-child": "first-child", "last-child": "last-child", "only-child": "only-child",
	"first-of-type": "first-of-type", "last-of-type": "last-of-type", "only-of-type": "only-of-type",
	"nth-child": "nth-child", "nth-last-child": "nth-last-child",
	"nth-of-type": "nth-of-type", "nth-last-of-type": "nth-last-of-type",
	"not": "not",
}

// InternTagName returns an interned version of name if it's a common
// element name, otherwise returns name unchanged.
func InternTagName(name string) string {
	if interned, ok := CommonTagNames[name]; ok {
		return interned
	}
	return name
}

// InternPseudoName returns an interned version of name if it's a common
// pseudo-class name, otherwise returns name unchanged.
func InternPseudoName(name string) string {
	if interned, ok := CommonPseudoNames[name]; ok {
		return interned
	}
	return name
}

// StructuralKey builds a canonical, comparable string for a parsed
// complex selector: two structurally equivalent parse trees (same
// combinators, same simple selectors in the same order) always produce
// the same key, regardless of whether they came from separate parses of
// equal source text. Callers use this as a map key instead of the parse
// tree's object identity.
func StructuralKey(cs selector.ComplexSelector) string {
	var b strings.Builder
	for i, part := range cs.Parts {
		if i > 0 {
			b.WriteByte('/')
			b.WriteString(strconv.Itoa(int(part.Combinator)))
			b.WriteByte('/')
		}
		writeCompoundKey(&b, part.Compound)
	}
	return b.String()
}

func writeCompoundKey(b *strings.Builder, c selector.CompoundSelector) {
	for i, s := range c.Selectors {
		if i > 0 {
			b.WriteByte('&')
		}
		writeSimpleKey(b, s)
	}
}

func writeSimpleKey(b *strings.Builder, s selector.SimpleSelector) {
	b.WriteString(strconv.Itoa(int(s.Kind)))
	b.WriteByte(':')
	if s.NamespaceAny {
		b.WriteString("*|")
	} else {
		b.WriteString(s.Namespace)
		b.WriteByte('|')
	}
	name := s.Name
	switch s.Kind {
	case selector.KindTag:
		name = InternTagName(name)
	case selector.KindPseudo:
		name = InternPseudoName(name)
	}
	b.WriteString(name)
	if s.Negated {
		b.WriteString(":not")
	}
	if s.Operator != selector.AttrExists {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(int(s.Operator)))
	}
	if s.Value != "" {
		b.WriteByte('=')
		b.WriteString(s.Value)
	}
}
