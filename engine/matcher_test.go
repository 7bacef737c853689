package engine

import (
	"testing"

	"github.com/coregx/qreg/nfa"
)

func compileOrFail(t *testing.T, pattern string) *Matcher {
	t.Helper()
	prog, err := nfa.Compile(pattern)
	if err != nil {
		t.Fatalf("nfa.Compile(%q) error = %v", pattern, err)
	}
	return New(prog)
}

func TestExecuteSimpleCapture(t *testing.T) {
	m := compileOrFail(t, `a(.)c`)
	got := m.Execute("xxabcxx", FlagNone)
	if got.Type != Full {
		t.Fatalf("Type = %v, want Full", got.Type)
	}
	if got.Str != "abc" {
		t.Errorf("Str = %q, want %q", got.Str, "abc")
	}
	if len(got.Sub[1]) != 1 || got.Sub[1][0] != "b" {
		t.Errorf("Sub[1] = %v, want [b]", got.Sub[1])
	}
}

func TestExecuteMultiOccurrenceCapture(t *testing.T) {
	m := compileOrFail(t, `a(..)+z`)
	got := m.Execute("abcdefgz", FlagNone)
	if got.Type != Full {
		t.Fatalf("Type = %v, want Full", got.Type)
	}
	want := []string{"bc", "de", "fg"}
	if len(got.Sub[1]) != len(want) {
		t.Fatalf("Sub[1] = %v, want %v", got.Sub[1], want)
	}
	for i, w := range want {
		if got.Sub[1][i] != w {
			t.Errorf("Sub[1][%d] = %q, want %q", i, got.Sub[1][i], w)
		}
	}
}

func TestExecuteAtomicGroupCutsBacktracking(t *testing.T) {
	m := compileOrFail(t, `(?>bc|b)c`)
	got := m.Execute("bc", FlagFixLeft|FlagFixRight)
	if got.Matched() {
		t.Fatal("atomic group should forbid retrying 'b' after 'bc' consumed the whole input")
	}
}

func TestExecuteBackreference(t *testing.T) {
	m := compileOrFail(t, `(.)(.)\g<2>\g<1>`)
	got := m.Execute("abba", FlagFixLeft|FlagFixRight)
	if !got.Matched() {
		t.Fatal("expected match for palindrome-style backreference")
	}
	if got.Str != "abba" {
		t.Errorf("Str = %q, want abba", got.Str)
	}
}

func TestExecutePartialMatch(t *testing.T) {
	m := compileOrFail(t, `abc`)
	got := m.Execute("ab", FlagPartial|FlagFixLeft)
	if got.Type != Partial {
		t.Fatalf("Type = %v, want Partial", got.Type)
	}
}

func TestExecuteMultilineAnchors(t *testing.T) {
	m := compileOrFail(t, `^abc$`)
	got := m.Execute("123\nabc\n456", FlagMultiline)
	if !got.Matched() {
		t.Fatal("expected multiline ^...$ to match the middle line")
	}
	// A non-strict multiline $ consumes the newline it matches.
	if got.Str != "abc\n" {
		t.Errorf("Str = %q, want %q", got.Str, "abc\n")
	}
}

func TestExecuteLongestFlag(t *testing.T) {
	m := compileOrFail(t, `a|ab|abc`)
	got := m.Execute("abc", FlagFixLeft|FlagLongest)
	if got.Str != "abc" {
		t.Errorf("Str = %q, want abc (longest alternative)", got.Str)
	}

	noLongest := compileOrFail(t, `a|ab|abc`)
	got2 := noLongest.Execute("abc", FlagFixLeft)
	if got2.Str != "a" {
		t.Errorf("Str = %q, want a (first alternative without FlagLongest)", got2.Str)
	}
}

func TestExecuteUTF8Class(t *testing.T) {
	m := compileOrFail(t, `\u{20AC}+`)
	got := m.Execute("price: €€€ total", FlagUTF8)
	if !got.Matched() {
		t.Fatal("expected match on repeated euro signs")
	}
	if got.Str != "€€€" {
		t.Errorf("Str = %q, want €€€", got.Str)
	}
}

func TestExecuteNoMatch(t *testing.T) {
	m := compileOrFail(t, `xyz`)
	got := m.Execute("abc", FlagNone)
	if got.Matched() {
		t.Fatal("expected no match")
	}
}
