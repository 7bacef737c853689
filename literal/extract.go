// Package literal extracts mandatory literal substrings from a compiled
// pattern, for use as a prefilter (package prefilter) ahead of the
// backtracking matcher. Extraction is conservative: when a pattern's
// anatomy can't be reduced to a small set of required literals, it reports
// ok == false and the caller runs the matcher unfiltered.
package literal

import (
	"strings"

	"github.com/coregx/qreg/nfa"
	"github.com/coregx/qreg/syntax"
)

// MaxPrefixes bounds how many literal alternatives extraction will return;
// with more branches than this it gives up. It is independent of (and
// larger than) prefilter.TeddyThreshold.
const MaxPrefixes = 64

// Extract walks prog from its start state, following single-transition
// Character-singleton chains and top-level epsilon alternations, and
// returns the literal string(s) that must appear verbatim for prog to have
// any chance of matching. ok is false if no useful literal requirement
// could be derived (e.g. the pattern starts with ".", a multi-character
// class, or an unbounded quantifier such as * or +). An optional atom
// such as "a?" yields one branch with it and one without.
func Extract(prog *nfa.NFA) (prefixes []string, ok bool) {
	branches, ok := collectBranches(prog, prog.Start, map[nfa.StateID]bool{})
	if !ok || len(branches) == 0 || len(branches) > MaxPrefixes {
		return nil, false
	}
	for _, b := range branches {
		if b == "" {
			return nil, false // an empty-literal branch can match anywhere
		}
	}
	return branches, true
}

// collectBranches returns, for every path from id to a state without
// transitions, the literal text along that path. It reports ok == false as
// soon as any path meets a loop or a test that is not an epsilon or a
// singleton character.
func collectBranches(prog *nfa.NFA, id nfa.StateID, visiting map[nfa.StateID]bool) ([]string, bool) {
	if visiting[id] {
		return nil, false // loop in the mandatory prefix: not a fixed literal
	}
	visiting[id] = true
	defer delete(visiting, id)

	st := prog.State(id)
	if len(st.Transitions) == 0 {
		return []string{""}, true
	}

	// Every transition out of a state is followed as its own branch: the
	// epsilons of a "|" decision point, and also a Character edge next to
	// the skip epsilon of an optional atom (as in "a?b").
	var out []string
	for _, tr := range st.Transitions {
		switch tr.Test.Kind {
		case syntax.Epsilon:
			sub, ok := collectBranches(prog, tr.Target, visiting)
			if !ok {
				return nil, false
			}
			out = append(out, sub...)

		case syntax.Character:
			lit, ok := literalRune(tr.Test)
			if !ok {
				return nil, false
			}
			sub, ok := collectBranches(prog, tr.Target, visiting)
			if !ok {
				return nil, false
			}
			for _, s := range sub {
				out = append(out, string(lit)+s)
			}

		default:
			return nil, false
		}
	}
	return out, true
}

// literalRune reports the single code point a Character test requires,
// when it is an unambiguous ASCII singleton (no negation, exactly one char,
// no ranges, no subtraction/intersection). Non-ASCII code points are
// rejected: their bytes in the subject differ between UTF-8 and byte mode.
func literalRune(t *syntax.Test) (rune, bool) {
	if t.Neg || len(t.Ranges) != 0 || len(t.Subtractions) != 0 || len(t.Intersections) != 0 {
		return 0, false
	}
	if len(t.Chars) != 1 {
		return 0, false
	}
	for c := range t.Chars {
		if c > 0x7F {
			return 0, false
		}
		return c, true
	}
	return 0, false
}

// CommonPrefix returns the longest string every entry in prefixes starts
// with, or "" if prefixes is empty. Used to collapse a branch set down to
// a single required substring when every alternative shares a stem.
func CommonPrefix(prefixes []string) string {
	if len(prefixes) == 0 {
		return ""
	}
	prefix := prefixes[0]
	for _, p := range prefixes[1:] {
		for !strings.HasPrefix(p, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}
	return prefix
}
