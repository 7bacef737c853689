package engine

// Flags is a bitmask of match-time options (spec §5 "match flags").
type Flags uint16

// FlagNone requests default search semantics: the match may start and end
// anywhere in the subject.
const FlagNone Flags = 0

const (
	// FlagPartial asks for a partial match to be reported when no full
	// match exists but the subject is a prefix of one.
	FlagPartial Flags = 1 << iota
	// FlagFixLeft disables sliding the search window; the match must
	// begin at offset 0.
	FlagFixLeft
	// FlagFixRight requires the match to reach the end of the subject.
	FlagFixRight
	// FlagMultiline makes ^, $, . and the non-strict anchors line-aware
	// instead of string-bounds-aware.
	FlagMultiline
	// FlagUTF8 decodes the subject as UTF-8 instead of raw bytes.
	FlagUTF8
	// FlagLongest exhausts backtracking and keeps the longest full match
	// instead of returning the first one found.
	FlagLongest
)

func (f Flags) has(bit Flags) bool { return f&bit != 0 }
