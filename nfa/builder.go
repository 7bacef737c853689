package nfa

import "github.com/coregx/qreg/syntax"

// Builder accumulates states in an arena as the parser walks the token
// stream. It has no knowledge of the grammar; Parser drives it.
type Builder struct {
	states []State
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// NewState allocates a fresh, transition-less state and returns its ID.
func (b *Builder) NewState() StateID {
	b.states = append(b.states, State{})
	return StateID(len(b.states) - 1)
}

// State returns a pointer to the state for in-place mutation. Callers must
// not hold this pointer across a subsequent call to NewState, since that
// may grow (and reallocate) the backing array.
func (b *Builder) State(id StateID) *State {
	return &b.states[id]
}

// AddEpsilon appends an epsilon transition from a to b.
func (b *Builder) AddEpsilon(a, target StateID) {
	b.states[a].Transitions = append(b.states[a].Transitions, Transition{Test: epsilonTest, Target: target})
}

// AddTest appends a transition labeled with test from a to target.
func (b *Builder) AddTest(a StateID, test *syntax.Test, target StateID) {
	b.states[a].Transitions = append(b.states[a].Transitions, Transition{Test: test, Target: target})
}

// MergeState absorbs src's outgoing transitions and flags into dst. This
// mirrors the original's merge_state, simplified for the arena model: since
// a freshly built chain's interior states are never referenced from
// anywhere else before being merged, there are no back-pointers to rewrite
// (the original's merge_state asserts exactly this precondition).
func (b *Builder) MergeState(dst, src StateID) {
	s := &b.states[src]
	d := &b.states[dst]
	d.Transitions = append(d.Transitions, s.Transitions...)
	d.BeginCapture = d.BeginCapture || s.BeginCapture
	d.Nonstop = d.Nonstop || s.Nonstop
	d.Captures = append(d.Captures, s.Captures...)
}

// Clone performs a deep copy of a sub-chain, mapping each reachable state
// exactly once and preserving BeginCapture, Captures, Nonstop and
// transition order (spec §4.5 "clone").
func (b *Builder) Clone(chain Chain) Chain {
	visited := make(map[StateID]StateID)
	var walk func(id StateID) StateID
	walk = func(id StateID) StateID {
		if mapped, ok := visited[id]; ok {
			return mapped
		}
		newID := b.NewState()
		visited[id] = newID

		old := b.states[id]
		caps := append([]CaptureDescriptor(nil), old.Captures...)
		transitions := make([]Transition, len(old.Transitions))
		for i, t := range old.Transitions {
			transitions[i] = Transition{Test: t.Test, Target: walk(t.Target)}
		}

		st := &b.states[newID]
		st.BeginCapture = old.BeginCapture
		st.Nonstop = old.Nonstop
		st.Captures = caps
		st.Transitions = transitions
		return newID
	}
	newBegin := walk(chain.Begin)
	return Chain{Begin: newBegin, End: visited[chain.End]}
}

// NumStates reports the number of states allocated so far.
func (b *Builder) NumStates() int {
	return len(b.states)
}

// Finish freezes the builder's arena into the slice an NFA stores.
func (b *Builder) Finish() []State {
	return b.states
}
