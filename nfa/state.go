// Package nfa builds and owns the automaton a compiled pattern runs: states
// linked by labeled transitions (spec §3 "NFA state", §4.5 "NFA builder"),
// plus the recursive-descent grammar that turns a syntax.Token stream into
// one. States are arena-allocated and referenced by integer StateID — this
// sidesteps the original's shared_ptr-cycle teardown (spec §4.6, §9): a
// quantifier loop is just two indices pointing at each other inside a slice
// owned by the NFA, so it is reclaimed by the Go garbage collector like any
// other slice once the NFA itself is unreachable.
package nfa

import "github.com/coregx/qreg/syntax"

// StateID indexes into an NFA's state arena.
type StateID int32

// InvalidState marks an unset/sentinel state reference.
const InvalidState StateID = -1

// CaptureDescriptor names one active capture group (spec §3). Numeric ids
// are assigned only to unnamed captures; named captures carry Number == 0
// and live solely in the named result map (spec §9, Open Question 4).
type CaptureDescriptor struct {
	Named  bool
	Number int
	Name   string
}

// Transition is one labeled edge out of a State. A nil Test is never
// stored; epsilon edges carry a Test of Kind syntax.Epsilon.
type Transition struct {
	Test   *syntax.Test
	Target StateID
}

// State is one NFA node (spec §3 "NFA state"). Transitions are tried in
// order — this order is the backtracking priority.
type State struct {
	Transitions  []Transition
	BeginCapture bool
	Captures     []CaptureDescriptor
	Nonstop      bool
}

// Chain is a compiled sub-pattern with a single entry and single exit state
// (spec §3 "Chain").
type Chain struct {
	Begin, End StateID
}

// Valid reports whether both ends of the chain are set, mirroring the
// original's `operator bool()` on chain_t.
func (c Chain) Valid() bool {
	return c.Begin != InvalidState && c.End != InvalidState
}

var epsilonTest = &syntax.Test{Kind: syntax.Epsilon}
