// Package cssparse implements a minimal, real tokenizer and parser for
// plain CSS stylesheets, turning a source string into rules of
// (selector text, declarations, specificity, source line). Selector
// text within a rule is handed to selector.Parse unchanged, keeping the
// stylesheet grammar and the selector grammar cleanly separated.
package cssparse

import (
	"strings"
	"unicode"

	"github.com/MeKo-Christian/cssdep/errors"
	"github.com/MeKo-Christian/cssdep/selector"
)

// Declaration is one "property: value" pair within a rule body.
type Declaration struct {
	Property string
	Value    string
	Line     int
}

// Specificity is CSS3's (a, b, c) triple: id count, class/attr/pseudo-class
// count, type/pseudo-element count.
type Specificity struct {
	A, B, C int
}

// Less reports whether s sorts before other under the standard
// lexicographic specificity comparison.
func (s Specificity) Less(other Specificity) bool {
	if s.A != other.A {
		return s.A < other.A
	}
	if s.B != other.B {
		return s.B < other.B
	}
	return s.C < other.C
}

// Equal reports whether two specificities are identical.
func (s Specificity) Equal(other Specificity) bool {
	return s == other
}

// SelectorEntry pairs a selector's source text with its parsed tree and
// computed specificity.
type SelectorEntry struct {
	Text        string
	Parsed      selector.ComplexSelector
	Specificity Specificity
}

// Rule is one parsed CSS rule: a comma-separated selector list sharing a
// declaration block, as they appear in source order.
type Rule struct {
	Selectors    []SelectorEntry
	Declarations []Declaration
	Line         int
}

// Stylesheet is the parsed form of a CSS file: its rules in source order.
type Stylesheet struct {
	Rules []Rule
}

// FoldedValue joins, in source order and separated by ";", every value
// declared for property on selectorText across the whole stylesheet.
// This is a display convenience only — the edge model itself keeps
// every declaration as a distinct entry.
func (s *Stylesheet) FoldedValue(selectorText, property string) string {
	var values []string
	for _, rule := range s.Rules {
		matchesSelector := false
		for _, se := range rule.Selectors {
			if se.Text == selectorText {
				matchesSelector = true
				break
			}
		}
		if !matchesSelector {
			continue
		}
		for _, d := range rule.Declarations {
			if d.Property == property {
				values = append(values, d.Value)
			}
		}
	}
	return strings.Join(values, ";")
}

// ParseStylesheet tokenizes and parses a plain CSS source string: rules
// of selector list / declaration block pairs. At-rules (@media, @font-face,
// etc.) are skipped wholesale rather than interpreted.
func ParseStylesheet(src string) (*Stylesheet, error) {
	p := &cssParser{src: src, length: len(src), line: 1}
	return p.parse()
}

type cssParser struct {
	src    string
	pos    int
	length int
	line   int
}

func (p *cssParser) parse() (*Stylesheet, error) {
	sheet := &Stylesheet{}
	for {
		p.skipSpaceAndComments()
		if p.pos >= p.length {
			break
		}
		if p.peek() == '@' {
			if err := p.skipAtRule(); err != nil {
				return nil, err
			}
			continue
		}
		rule, err := p.parseRule()
		if err != nil {
			return nil, err
		}
		sheet.Rules = append(sheet.Rules, rule)
	}
	return sheet, nil
}

func (p *cssParser) parseRule() (Rule, error) {
	line := p.line
	selText, err := p.consumeUntilAny("{")
	if err != nil {
		return Rule{}, err
	}
	if p.pos >= p.length {
		return Rule{}, &errors.CSSParseError{Line: line, Message: "unterminated selector list"}
	}
	p.pos++ // consume '{'

	entries, err := parseSelectorList(strings.TrimSpace(selText), line)
	if err != nil {
		return Rule{}, err
	}

	decls, err := p.parseDeclarations()
	if err != nil {
		return Rule{}, err
	}

	return Rule{Selectors: entries, Declarations: decls, Line: line}, nil
}

func parseSelectorList(text string, line int) ([]SelectorEntry, error) {
	if text == "" {
		return nil, &errors.CSSParseError{Line: line, Message: "empty selector list"}
	}
	parts := splitTopLevelComma(text)
	entries := make([]SelectorEntry, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, &errors.CSSParseError{Line: line, Message: "empty selector in list"}
		}
		parsed, err := selector.ParseComplex(part)
		if err != nil {
			return nil, err
		}
		entries = append(entries, SelectorEntry{
			Text:        part,
			Parsed:      parsed,
			Specificity: computeSpecificity(parsed),
		})
	}
	return entries, nil
}

func splitTopLevelComma(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func computeSpecificity(cs selector.ComplexSelector) Specificity {
	var spec Specificity
	for _, part := range cs.Parts {
		for _, s := range part.Compound.Selectors {
			switch s.Kind {
			case selector.KindID:
				spec.A++
			case selector.KindClass, selector.KindAttr:
				spec.B++
			case selector.KindPseudo:
				spec.B++
			case selector.KindTag:
				spec.C++
			case selector.KindUniversal:
				// contributes nothing
			}
		}
	}
	return spec
}

func (p *cssParser) parseDeclarations() ([]Declaration, error) {
	line := p.line
	body, err := p.consumeUntilAny("}")
	if err != nil {
		return nil, err
	}
	if p.pos >= p.length {
		return nil, &errors.CSSParseError{Line: p.line, Message: "unterminated declaration block"}
	}
	p.pos++ // consume '}'

	var decls []Declaration
	for _, stmt := range splitTopLevelSemicolon(body) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		idx := strings.IndexByte(stmt, ':')
		if idx < 0 {
			return nil, &errors.CSSParseError{Line: line, Message: "declaration missing ':' in " + stmt}
		}
		prop := strings.TrimSpace(stmt[:idx])
		val := strings.TrimSpace(stmt[idx+1:])
		if prop == "" || val == "" {
			return nil, &errors.CSSParseError{Line: line, Message: "malformed declaration " + stmt}
		}
		decls = append(decls, Declaration{Property: prop, Value: val, Line: line})
	}
	return decls, nil
}

func splitTopLevelSemicolon(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ';':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// consumeUntilAny returns the source up to (not including) the first
// occurrence of any byte in stops, advancing pos to that byte and
// tracking line numbers as it goes. Comments are stripped as encountered.
func (p *cssParser) consumeUntilAny(stops string) (string, error) {
	var b strings.Builder
	for p.pos < p.length {
		c := p.src[p.pos]
		if c == '/' && p.pos+1 < p.length && p.src[p.pos+1] == '*' {
			if err := p.skipComment(); err != nil {
				return "", err
			}
			continue
		}
		if strings.IndexByte(stops, c) >= 0 {
			return b.String(), nil
		}
		if c == '\n' {
			p.line++
		}
		b.WriteByte(c)
		p.pos++
	}
	return b.String(), nil
}

func (p *cssParser) skipSpaceAndComments() {
	for p.pos < p.length {
		c := p.src[p.pos]
		if c == '/' && p.pos+1 < p.length && p.src[p.pos+1] == '*' {
			_ = p.skipComment()
			continue
		}
		if unicode.IsSpace(rune(c)) {
			if c == '\n' {
				p.line++
			}
			p.pos++
			continue
		}
		break
	}
}

func (p *cssParser) skipComment() error {
	start := p.line
	p.pos += 2
	for p.pos < p.length {
		if p.src[p.pos] == '*' && p.pos+1 < p.length && p.src[p.pos+1] == '/' {
			p.pos += 2
			return nil
		}
		if p.src[p.pos] == '\n' {
			p.line++
		}
		p.pos++
	}
	return &errors.CSSParseError{Line: start, Message: "unterminated comment"}
}

// skipAtRule skips an at-rule wholesale: either a block (@media {...}) or
// a single statement terminated by ';' (@import "x.css";).
func (p *cssParser) skipAtRule() error {
	line := p.line
	for p.pos < p.length {
		c := p.src[p.pos]
		if c == '\n' {
			p.line++
		}
		if c == ';' {
			p.pos++
			return nil
		}
		if c == '{' {
			return p.skipBlock()
		}
		p.pos++
	}
	return &errors.CSSParseError{Line: line, Message: "unterminated at-rule"}
}

func (p *cssParser) skipBlock() error {
	line := p.line
	depth := 0
	for p.pos < p.length {
		c := p.src[p.pos]
		if c == '\n' {
			p.line++
		}
		if c == '{' {
			depth++
		}
		if c == '}' {
			depth--
			p.pos++
			if depth == 0 {
				return nil
			}
			continue
		}
		p.pos++
	}
	return &errors.CSSParseError{Line: line, Message: "unterminated block"}
}

func (p *cssParser) peek() byte {
	if p.pos >= p.length {
		return 0
	}
	return p.src[p.pos]
}
