// Package engine runs a compiled *nfa.NFA against a subject string using
// explicit-history backtracking (spec §5, grounded on original_source
// src/match.cpp's qre::operator()). No recursion is used: the search state
// is a stack of (state, position, transition-index) frames the matcher
// pushes on every successful transition and pops to try the next
// alternative.
package engine

import (
	"github.com/coregx/qreg/internal/codec"
	"github.com/coregx/qreg/nfa"
)

// Matcher runs one compiled pattern. It holds no per-call state, so a
// single Matcher is safe to reuse (and share) across concurrent Execute
// calls.
type Matcher struct {
	prog *nfa.NFA
}

// New wraps an NFA for matching.
func New(prog *nfa.NFA) *Matcher {
	return &Matcher{prog: prog}
}

type frame struct {
	state      nfa.StateID
	pos        int
	transition int
}

// Execute searches subject for the pattern, honoring flags, and reports the
// outcome.
func (m *Matcher) Execute(subject string, flags Flags) Match {
	buf := []byte(subject)
	dec := codec.Decoder{UTF8: flags.has(FlagUTF8)}
	multiline := flags.has(FlagMultiline)
	fixLeft := flags.has(FlagFixLeft)
	fixRight := flags.has(FlagFixRight)
	partial := flags.has(FlagPartial)
	longest := flags.has(FlagLongest)

	sub := map[int][]string{}
	namedSub := map[string][]string{}
	var matchStr []byte
	startPos := 0

	var partials []Match
	var best *Match

	current := frame{state: m.prog.Start}
	var history []frame

	for {
		accept := current.state == m.prog.Accept && (!fixRight || current.pos == len(buf))

		if accept && !longest {
			return Match{Type: Full, Pos: startPos, Str: string(matchStr), Sub: sub, NamedSub: namedSub}
		}

		st := m.prog.State(current.state)

		if accept && longest {
			if best == nil || len(matchStr) > len(best.Str) {
				best = &Match{Type: Full, Pos: startPos, Str: string(matchStr), Sub: cloneIntMap(sub), NamedSub: cloneStringMap(namedSub)}
			}
		} else if current.transition < len(st.Transitions) {
			newpos := current.pos

			if st.BeginCapture {
				cd := st.Captures[len(st.Captures)-1]
				if cd.Named {
					namedSub[cd.Name] = append(namedSub[cd.Name], "")
				} else {
					sub[cd.Number] = append(sub[cd.Number], "")
				}
			}

			tr := st.Transitions[current.transition]
			if check(tr.Test, buf, &newpos, multiline, dec, sub, namedSub, m.prog.CaptureCount) {
				piece := buf[current.pos:newpos]
				for _, c := range st.Captures {
					if c.Named {
						last := len(namedSub[c.Name]) - 1
						namedSub[c.Name][last] += string(piece)
					} else {
						last := len(sub[c.Number]) - 1
						sub[c.Number][last] += string(piece)
					}
				}
				matchStr = append(matchStr, piece...)

				history = append(history, current)
				current = frame{state: tr.Target, pos: newpos}
				continue
			}
			current.transition++
			continue
		}

		// No (more) transitions to try from here, or a longest-mode
		// accept forced a retreat to explore other branches.
		if partial && current.state != m.prog.Accept && current.pos == len(buf) {
			partials = append(partials, Match{
				Type: Partial, Pos: startPos, Str: string(matchStr),
				Sub: cloneIntMap(sub), NamedSub: cloneStringMap(namedSub),
			})
		}

		if len(history) > 0 {
			for {
				newpos := current.pos
				current = history[len(history)-1]
				history = history[:len(history)-1]
				current.transition++
				n := newpos - current.pos

				prev := m.prog.State(current.state)
				for _, c := range prev.Captures {
					if c.Named {
						s := namedSub[c.Name]
						last := len(s) - 1
						s[last] = s[last][:len(s[last])-n]
					} else {
						s := sub[c.Number]
						last := len(s) - 1
						s[last] = s[last][:len(s[last])-n]
					}
				}
				if prev.BeginCapture {
					cd := prev.Captures[len(prev.Captures)-1]
					if cd.Named {
						namedSub[cd.Name] = namedSub[cd.Name][:len(namedSub[cd.Name])-1]
					} else {
						sub[cd.Number] = sub[cd.Number][:len(sub[cd.Number])-1]
					}
				}
				matchStr = matchStr[:len(matchStr)-n]

				if !prev.Nonstop || len(history) == 0 {
					break
				}
			}
			continue
		}

		if !fixLeft && current.pos < len(buf) {
			current.transition = 0
			if flags.has(FlagUTF8) {
				if _, err := dec.Advance(buf, &current.pos); err != nil {
					// Advance leaves *pos untouched on a malformed
					// sequence; step past the bad byte by hand so the
					// slide still makes progress.
					current.pos++
				}
			} else {
				current.pos++
			}
			startPos = current.pos
			continue
		}

		if best != nil {
			return *best
		}
		if len(partials) > 0 {
			return partials[0]
		}
		return Match{Type: NoMatch, Pos: startPos}
	}
}
