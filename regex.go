package qreg

import (
	"github.com/coregx/qreg/engine"
	"github.com/coregx/qreg/literal"
	"github.com/coregx/qreg/nfa"
	"github.com/coregx/qreg/prefilter"
	"github.com/coregx/qreg/syntax"
)

// MatchFlags is a bitmask of match-time options (spec.md §5).
type MatchFlags = engine.Flags

// Match-time option bits.
const (
	FlagNone      = engine.FlagNone
	FlagPartial   = engine.FlagPartial
	FlagFixLeft   = engine.FlagFixLeft
	FlagFixRight  = engine.FlagFixRight
	FlagMultiline = engine.FlagMultiline
	FlagUTF8      = engine.FlagUTF8
	FlagLongest   = engine.FlagLongest
)

// Match is the result of a match attempt (spec.md §3 MatchResult).
type Match = engine.Match

// MatchType classifies a Match's outcome.
type MatchType = engine.Type

// MatchType values.
const (
	NoMatch = engine.NoMatch
	Full    = engine.Full
	Partial = engine.Partial
)

// SyntaxError reports a pattern compilation failure.
type SyntaxError = syntax.SyntaxError

// ErrKind classifies a SyntaxError.
type ErrKind = syntax.ErrKind

// ErrKind values, re-exported so callers never need to import the syntax
// package directly.
const (
	ErrUnbalancedConstruct  = syntax.ErrUnbalancedConstruct
	ErrInvalidEscape        = syntax.ErrInvalidEscape
	ErrInvalidClass         = syntax.ErrInvalidClass
	ErrInvalidBackreference = syntax.ErrInvalidBackreference
	ErrUnparsedTrailing     = syntax.ErrUnparsedTrailing
	ErrInvalidUTF8          = syntax.ErrInvalidUTF8
)

// PrefilterOptions tunes the literal prefilter built ahead of the matcher.
type PrefilterOptions struct {
	// Disabled skips prefilter construction entirely; every Match call
	// runs the backtracking matcher unfiltered. Useful for isolating the
	// matcher's own behavior in tests (see SPEC_FULL.md §10).
	Disabled bool
}

// Options configures CompileWithOptions.
type Options struct {
	Prefilter PrefilterOptions
}

// Regexp is a compiled pattern, safe for concurrent use by multiple
// goroutines (it holds no per-match mutable state; see SPEC_FULL.md §7).
type Regexp struct {
	pattern string
	prog    *nfa.NFA
	matcher *engine.Matcher
	prefilt prefilter.Filter
}

// Compile parses pattern and builds a matchable Regexp.
func Compile(pattern string) (*Regexp, error) {
	return CompileWithOptions(pattern, Options{})
}

// MustCompile is like Compile but panics on a syntax error.
func MustCompile(pattern string) *Regexp {
	re, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return re
}

// CompileWithOptions parses pattern with explicit prefilter tuning.
func CompileWithOptions(pattern string, opts Options) (*Regexp, error) {
	prog, err := nfa.Compile(pattern)
	if err != nil {
		return nil, err
	}

	re := &Regexp{
		pattern: pattern,
		prog:    prog,
		matcher: engine.New(prog),
	}

	if opts.Prefilter.Disabled {
		re.prefilt = nil
	} else if prefixes, ok := literal.Extract(prog); ok {
		re.prefilt = prefilter.New(prefixes)
	}

	return re, nil
}

// String returns the source pattern text.
func (re *Regexp) String() string {
	return re.pattern
}

// Clone returns a Regexp equivalent to re. Since Regexp carries no mutable
// per-match state, Clone returns re itself — kept as a method so callers
// migrating from engines that do mutate compiled state (the teacher's
// among them) don't need to special-case this one.
func (re *Regexp) Clone() *Regexp {
	return re
}

// NumSubexp reports the number of numbered (unnamed) capture groups.
func (re *Regexp) NumSubexp() int {
	return re.prog.CaptureCount
}

// SubexpNames lists the named capture groups, in the order they open.
func (re *Regexp) SubexpNames() []string {
	return append([]string(nil), re.prog.GroupNames...)
}

// MatchString runs the pattern against subject.
func (re *Regexp) MatchString(subject string, flags MatchFlags) Match {
	// A prefilter only rules out a Full match (the required literal is
	// simply absent); a Partial match can still exist on a subject that is
	// merely a prefix of every required literal, so the veto must not
	// apply when FlagPartial is set (SPEC_FULL.md §10).
	if re.prefilt != nil && flags&FlagPartial == 0 && !re.prefilt.MayMatch([]byte(subject)) {
		// Report the same Pos the matcher gives on a miss: the search
		// window slides to the end of the subject unless FlagFixLeft pins it.
		pos := 0
		if flags&FlagFixLeft == 0 {
			pos = len(subject)
		}
		return Match{Type: engine.NoMatch, Pos: pos}
	}
	return re.matcher.Execute(subject, flags)
}

// Match runs the pattern against subject.
func (re *Regexp) Match(subject []byte, flags MatchFlags) Match {
	return re.MatchString(string(subject), flags)
}
