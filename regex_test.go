package qreg

import "testing"

func TestCompileAndMatchString(t *testing.T) {
	re, err := Compile(`a(.)c`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	got := re.MatchString("xxabcxx", FlagNone)
	if !got.Matched() || got.Str != "abc" {
		t.Fatalf("MatchString() = %+v, want Str=abc", got)
	}
}

func TestCompileSyntaxError(t *testing.T) {
	_, err := Compile("(a")
	if err == nil {
		t.Fatal("expected a syntax error for an unbalanced group")
	}
	var synErr *SyntaxError
	if !asSyntaxError(err, &synErr) {
		t.Fatalf("error = %v, want *SyntaxError", err)
	}
	if synErr.Kind != ErrUnbalancedConstruct {
		t.Errorf("Kind = %v, want ErrUnbalancedConstruct", synErr.Kind)
	}
}

func asSyntaxError(err error, target **SyntaxError) bool {
	se, ok := err.(*SyntaxError)
	if ok {
		*target = se
	}
	return ok
}

func TestMustCompilePanicsOnBadPattern(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected MustCompile to panic on a syntax error")
		}
	}()
	MustCompile("a(")
}

func TestNumSubexpAndSubexpNames(t *testing.T) {
	re, err := Compile(`(a)(b(?<x>c))`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if got := re.NumSubexp(); got != 2 {
		t.Errorf("NumSubexp() = %d, want 2", got)
	}
	names := re.SubexpNames()
	if len(names) != 1 || names[0] != "x" {
		t.Errorf("SubexpNames() = %v, want [x]", names)
	}
}

func TestPrefilterNeverChangesMatchResult(t *testing.T) {
	patterns := []string{"hello world", "cat|dog", "a(..)+z", "[0-9]+"}
	subjects := []string{"say hello world now", "I have a dog", "abcdefgz", "no digits here", "42 apples"}

	for _, pattern := range patterns {
		withFilter, err := Compile(pattern)
		if err != nil {
			t.Fatalf("Compile(%q) error = %v", pattern, err)
		}
		withoutFilter, err := CompileWithOptions(pattern, Options{Prefilter: PrefilterOptions{Disabled: true}})
		if err != nil {
			t.Fatalf("CompileWithOptions(%q) error = %v", pattern, err)
		}
		for _, subject := range subjects {
			a := withFilter.MatchString(subject, FlagNone)
			b := withoutFilter.MatchString(subject, FlagNone)
			if a.Matched() != b.Matched() || a.Str != b.Str {
				t.Errorf("pattern %q subject %q: prefilter=%+v no-prefilter=%+v", pattern, subject, a, b)
			}
		}
	}
}

func TestPrefilterDoesNotVetoPartialMatch(t *testing.T) {
	re, err := Compile("needle")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	got := re.MatchString("need", FlagPartial|FlagFixLeft)
	if got.Type != Partial {
		t.Fatalf("Type = %v, want Partial (prefilter must not veto a partial-match candidate)", got.Type)
	}
}

func TestMatchBytes(t *testing.T) {
	re := MustCompile(`[0-9]+`)
	got := re.Match([]byte("order 42 placed"), FlagNone)
	if !got.Matched() || got.Str != "42" {
		t.Fatalf("Match() = %+v, want Str=42", got)
	}
}

func TestStringReturnsSourcePattern(t *testing.T) {
	re := MustCompile(`a+b`)
	if re.String() != "a+b" {
		t.Errorf("String() = %q, want a+b", re.String())
	}
}

func TestCloneReturnsUsableRegexp(t *testing.T) {
	re := MustCompile(`xy`)
	clone := re.Clone()
	got := clone.MatchString("xy", FlagNone)
	if !got.Matched() {
		t.Fatal("expected clone to match like the original")
	}
}

func TestVerbatimQuotedLiteral(t *testing.T) {
	re := MustCompile(`\Q.*\E`)
	got := re.MatchString("a.*b", FlagNone)
	if !got.Matched() || got.Str != ".*" {
		t.Fatalf("MatchString() = %+v, want Str=.*", got)
	}
}

func TestSwappedBackreferences(t *testing.T) {
	re := MustCompile(`(.)(.)\g<2>\g<1>`)
	got := re.MatchString("abba", FlagFixLeft|FlagFixRight)
	if !got.Matched() {
		t.Fatal("expected abba to match the swapped-backreference pattern")
	}
}

func TestMultilineAnchorsAcrossLines(t *testing.T) {
	re := MustCompile(`^abc$`)
	got := re.MatchString("123\nabc\n456", FlagMultiline)
	if !got.Matched() || got.Str != "abc" {
		t.Fatalf("MatchString() = %+v, want Str=abc", got)
	}
}

func TestUTF8CodepointClass(t *testing.T) {
	re := MustCompile(`\u{20AC}+`)
	got := re.MatchString("price: €€€ total", FlagUTF8)
	if !got.Matched() || got.Str != "€€€" {
		t.Fatalf("MatchString() = %+v, want Str=€€€", got)
	}
}
