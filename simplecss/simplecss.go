// Package simplecss implements the stylesheet model and its builder: it
// walks a parsed stylesheet and, for every pair of rules competing on
// the same property at the same specificity, consults the overlap
// primitive to emit a cascade-order edge only when the selectors can
// actually coincide on some element.
package simplecss

import (
	"fmt"
	"sort"

	"github.com/MeKo-Christian/cssdep/cssparse"
	"github.com/MeKo-Christian/cssdep/overlap"
)

// Edge is a (selector, "property:value") pair, compared by string
// identity.
type Edge struct {
	Selector string
	PropVal  string
}

// OrderPair records that Before must appear at an earlier source
// position than After wherever both could apply to the same element.
type OrderPair struct {
	Before Edge
	After  Edge
}

// SimpleCSS is the edge model a downstream clique-packing stage would
// consume (not implemented here): the edge set, the deduplicated partial
// order over them, the original source rules passed through unchanged,
// and a property-name map.
type SimpleCSS struct {
	Edges      []Edge
	Order      []OrderPair
	Rules      []cssparse.Rule
	PropertyOf map[string]string // "property:value" -> "property"
}

// entry is one (selector, property, value) occurrence in source order,
// the unit the builder buckets by property and specificity.
type entry struct {
	selector    string
	value       string
	line        int
	specificity cssparse.Specificity
}

// Build walks sheet and emits its edge/order model.
func Build(sheet *cssparse.Stylesheet) (*SimpleCSS, error) {
	byProperty := map[string][]entry{}

	for _, rule := range sheet.Rules {
		for _, sel := range rule.Selectors {
			for _, decl := range rule.Declarations {
				byProperty[decl.Property] = append(byProperty[decl.Property], entry{
					selector:    sel.Text,
					value:       decl.Value,
					line:        rule.Line,
					specificity: sel.Specificity,
				})
			}
		}
	}

	model := &SimpleCSS{
		Rules:      sheet.Rules,
		PropertyOf: map[string]string{},
	}
	edgeSeen := map[Edge]bool{}
	orderSeen := map[OrderPair]bool{}

	properties := make([]string, 0, len(byProperty))
	for p := range byProperty {
		properties = append(properties, p)
	}
	sort.Strings(properties)

	for _, prop := range properties {
		entries := byProperty[prop]
		for _, e := range entries {
			edge := Edge{Selector: e.selector, PropVal: fmt.Sprintf("%s:%s", prop, e.value)}
			if !edgeSeen[edge] {
				edgeSeen[edge] = true
				model.Edges = append(model.Edges, edge)
				model.PropertyOf[edge.PropVal] = prop
			}
		}

		for _, bucket := range bucketBySpecificity(entries) {
			pairs, err := orderWithinBucket(prop, bucket)
			if err != nil {
				return nil, err
			}
			for _, pair := range pairs {
				if !orderSeen[pair] {
					orderSeen[pair] = true
					model.Order = append(model.Order, pair)
				}
			}
		}
	}

	return model, nil
}

// bucketBySpecificity groups entries sharing one specificity, preserving
// source order within and across buckets.
func bucketBySpecificity(entries []entry) [][]entry {
	var buckets [][]entry
	for _, e := range entries {
		placed := false
		for i, b := range buckets {
			if b[0].specificity.Equal(e.specificity) {
				buckets[i] = append(buckets[i], e)
				placed = true
				break
			}
		}
		if !placed {
			buckets = append(buckets, []entry{e})
		}
	}
	return buckets
}

// orderWithinBucket: for every pair of distinct entries in one
// specificity bucket with differing values, an order edge is emitted
// (earlier source line first) exactly when their selectors overlap.
// Entries with equal values never conflict, since "last rule wins" is a
// no-op when both write the same value.
func orderWithinBucket(prop string, bucket []entry) ([]OrderPair, error) {
	var pairs []OrderPair
	for i := 0; i < len(bucket); i++ {
		for j := i + 1; j < len(bucket); j++ {
			a, b := bucket[i], bucket[j]
			if a.value == b.value {
				continue
			}
			does, err := overlap.SelectorsOverlap(a.selector, b.selector)
			if err != nil {
				return nil, err
			}
			if !does {
				continue
			}

			early, late := a, b
			if late.line < early.line {
				early, late = late, early
			}
			pairs = append(pairs, OrderPair{
				Before: Edge{Selector: early.selector, PropVal: fmt.Sprintf("%s:%s", prop, early.value)},
				After:  Edge{Selector: late.selector, PropVal: fmt.Sprintf("%s:%s", prop, late.value)},
			})
		}
	}
	return pairs, nil
}
