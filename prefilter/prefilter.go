// Package prefilter builds a cheap "could this possibly match" gate ahead
// of the backtracking matcher, from literals extracted by package literal.
// It never changes a match outcome — it only lets the caller skip running
// the matcher at all when none of the pattern's required literals occur in
// the subject (spec SPEC_FULL.md §10, "prefilter correctness").
package prefilter

import (
	"bytes"

	"github.com/coregx/ahocorasick"
	"github.com/coregx/qreg/internal/simd"
)

// TeddyThreshold mirrors the teacher's large-alternation cutover: at or
// above this many literals, build an Aho-Corasick automaton; below it, a
// direct multi-substring scan is cheaper to build and run once.
const TeddyThreshold = 8

// Filter reports whether a subject could possibly contain one of a
// pattern's required literals.
type Filter interface {
	MayMatch(subject []byte) bool
}

// New builds a Filter over prefixes. An empty prefixes list yields a Filter
// that always reports MayMatch == true (no usable literal requirement).
func New(prefixes []string) Filter {
	if len(prefixes) == 0 {
		return alwaysFilter{}
	}
	if len(prefixes) == 1 {
		return singleFilter{lit: []byte(prefixes[0])}
	}
	if len(prefixes) >= TeddyThreshold {
		builder := ahocorasick.NewBuilder()
		for _, p := range prefixes {
			builder.AddPattern([]byte(p))
		}
		auto, err := builder.Build()
		if err == nil {
			return ahoFilter{auto: auto}
		}
	}
	lits := make([][]byte, len(prefixes))
	for i, p := range prefixes {
		lits[i] = []byte(p)
	}
	return scanFilter{lits: lits}
}

type alwaysFilter struct{}

func (alwaysFilter) MayMatch([]byte) bool { return true }

type singleFilter struct{ lit []byte }

func (f singleFilter) MayMatch(subject []byte) bool {
	return bytes.Contains(subject, f.lit)
}

type scanFilter struct{ lits [][]byte }

func (f scanFilter) MayMatch(subject []byte) bool {
	return simd.ContainsAny(subject, f.lits)
}

type ahoFilter struct{ auto *ahocorasick.Automaton }

func (f ahoFilter) MayMatch(subject []byte) bool {
	return f.auto.IsMatch(subject)
}
