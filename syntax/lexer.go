package syntax

import (
	"strings"

	"github.com/coregx/qreg/internal/codec"
)

// Lex classifies pattern text into a flat token stream (spec §4.2). The
// pattern is always decoded as UTF-8 regardless of the match-time codec
// flags used later against the subject — only the compiled automaton's
// runtime matching respects the utf8/byte mode distinction.
func Lex(pattern string) ([]Token, error) {
	src, err := decodePattern(pattern)
	if err != nil {
		return nil, &SyntaxError{Kind: ErrInvalidUTF8, Pattern: pattern, Msg: err.Error()}
	}
	lx := &lexer{src: src, pattern: pattern}
	toks, err := lx.run()
	if se, ok := err.(*SyntaxError); ok {
		se.Pattern = pattern
		return nil, se
	}
	return toks, err
}

func decodePattern(pattern string) ([]rune, error) {
	buf := []byte(pattern)
	d := codec.Decoder{UTF8: true}
	var out []rune
	pos := 0
	for pos < len(buf) {
		cp, err := d.Advance(buf, &pos)
		if err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	return out, nil
}

type lexer struct {
	src     []rune
	pos     int
	pattern string
}

func (l *lexer) err(kind ErrKind, msg string) error {
	return newErr(kind, l.pos, msg)
}

func (l *lexer) eof() bool { return l.pos >= len(l.src) }

func (l *lexer) peek() rune {
	if l.eof() {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) peekAt(off int) rune {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *lexer) run() ([]Token, error) {
	var toks []Token
	depth := 0
	for !l.eof() {
		ch := l.peek()
		switch {
		case ch == '(':
			tok, err := l.lexLParen()
			if err != nil {
				return nil, err
			}
			depth++
			toks = append(toks, tok)
		case ch == ')':
			l.pos++
			depth--
			toks = append(toks, Token{Kind: TokRParen})
		case ch == '|':
			l.pos++
			toks = append(toks, Token{Kind: TokAlt})
		case ch == '.':
			l.pos++
			toks = append(toks, Token{Kind: TokTest, Test: &Test{Kind: Any}})
		case ch == '?':
			l.pos++
			toks = append(toks, Token{Kind: TokQMark})
		case ch == '*':
			l.pos++
			toks = append(toks, Token{Kind: TokStar})
		case ch == '+':
			l.pos++
			toks = append(toks, Token{Kind: TokPlus})
		case ch == '^':
			l.pos++
			toks = append(toks, Token{Kind: TokTest, Test: &Test{Kind: BeginOfLine}})
		case ch == '$':
			l.pos++
			toks = append(toks, Token{Kind: TokTest, Test: &Test{Kind: EndOfLine}})
		case ch == '{':
			tok, err := l.lexBrace()
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
		case ch == '[':
			test, err := l.readCharClass(true)
			if err != nil {
				return nil, err
			}
			toks = append(toks, Token{Kind: TokTest, Test: test})
		case ch == ']':
			return nil, l.err(ErrUnbalancedConstruct, "stray ']' outside a character class")
		case ch == '\\':
			extra, tok, err := l.lexEscape()
			if err != nil {
				return nil, err
			}
			toks = append(toks, extra...)
			if tok != nil {
				toks = append(toks, *tok)
			}
		default:
			l.pos++
			t := NewCharacterTest()
			t.AddChar(ch)
			toks = append(toks, Token{Kind: TokTest, Test: t})
		}
	}
	if depth > 0 {
		return nil, l.err(ErrUnbalancedConstruct, "missing ')'")
	}
	return toks, nil
}

func (l *lexer) lexLParen() (Token, error) {
	l.pos++ // consume '('
	attrs := GroupAttrs{Capture: true}
	if l.peek() == '?' {
		attrs.Capture = false
		switch l.peekAt(1) {
		case ':':
			l.pos += 2
		case '>':
			attrs.Atomic = true
			l.pos += 2
		case '<':
			name, err := l.readGroupName('<', '>')
			if err != nil {
				return Token{}, err
			}
			attrs.Named = true
			attrs.Capture = true
			attrs.Name = name
		case '\'':
			name, err := l.readGroupName('\'', '\'')
			if err != nil {
				return Token{}, err
			}
			attrs.Named = true
			attrs.Capture = true
			attrs.Name = name
		default:
			return Token{}, l.err(ErrUnbalancedConstruct, "unsupported group type")
		}
	}
	return Token{Kind: TokLParen, Group: attrs}, nil
}

// readGroupName consumes "?<open>name<close>"; it is called with l.pos
// pointing at the '?' that follows '('.
func (l *lexer) readGroupName(open, closeCh rune) (string, error) {
	l.pos += 2 // consume '?' and the opening delimiter
	var b strings.Builder
	hasNonDigit := false
	for {
		if l.eof() {
			return "", l.err(ErrUnbalancedConstruct, "unterminated group name")
		}
		ch := l.src[l.pos]
		l.pos++
		if ch == closeCh {
			break
		}
		if ch < '0' || ch > '9' {
			hasNonDigit = true
		}
		b.WriteRune(ch)
	}
	if b.Len() == 0 || !hasNonDigit {
		return "", l.err(ErrUnbalancedConstruct, "group name must contain a non-digit character")
	}
	return b.String(), nil
}

func (l *lexer) lexBrace() (Token, error) {
	save := l.pos
	if r, ok := l.readRange(); ok {
		return Token{Kind: TokRange, Range: r}, nil
	}
	l.pos = save
	l.pos++
	t := NewCharacterTest()
	t.AddChar('{')
	return Token{Kind: TokTest, Test: t}, nil
}

// lexEscape handles a '\' escape. It may return a batch of extra tokens
// (for \Q...\E, which expands to one token per code point) plus a single
// token, or just the batch with a nil token (for \Q...\E alone).
func (l *lexer) lexEscape() ([]Token, *Token, error) {
	start := l.pos
	l.pos++ // consume backslash
	if l.eof() {
		return nil, nil, l.err(ErrInvalidEscape, "trailing backslash")
	}
	ch := l.src[l.pos]
	l.pos++
	switch ch {
	case '`', 'A':
		return nil, &Token{Kind: TokTest, Test: &Test{Kind: BeginOfLine, Strict: true}}, nil
	case '\'', 'Z':
		return nil, &Token{Kind: TokTest, Test: &Test{Kind: EndOfLine, Strict: true}}, nil
	case 'N':
		return nil, &Token{Kind: TokTest, Test: &Test{Kind: Newline, Neg: true}}, nil
	case 'R':
		return nil, &Token{Kind: TokTest, Test: &Test{Kind: Newline}}, nil
	case 'Q':
		toks, err := l.lexVerbatim()
		return toks, nil, err
	case 'g', 'k':
		spec, err := l.readBackref()
		if err != nil {
			return nil, nil, err
		}
		return nil, &Token{Kind: TokTest, Test: &Test{Kind: Backref, Backref: spec}}, nil
	case '-':
		if l.eof() || l.peek() < '1' || l.peek() > '9' {
			return nil, nil, l.err(ErrInvalidBackreference, "invalid negative backreference number")
		}
		n := int(l.peek() - '0')
		l.pos++
		return nil, &Token{Kind: TokTest, Test: &Test{Kind: Backref, Backref: BackrefSpec{
			Group: GroupSpec{Number: -n}, Occurrence: -1,
		}}}, nil
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		n := int(ch - '0')
		return nil, &Token{Kind: TokTest, Test: &Test{Kind: Backref, Backref: BackrefSpec{
			Group: GroupSpec{Number: n}, Occurrence: -1,
		}}}, nil
	default:
		l.pos = start
		cp, err := l.readEscape()
		if err != nil {
			return nil, nil, err
		}
		t := NewCharacterTest()
		t.AddChar(cp)
		return nil, &Token{Kind: TokTest, Test: t}, nil
	}
}

func (l *lexer) lexVerbatim() ([]Token, error) {
	var toks []Token
	for {
		if l.eof() {
			return nil, l.err(ErrUnbalancedConstruct, "unterminated \\Q...\\E")
		}
		if l.peek() == '\\' && l.peekAt(1) == 'E' {
			l.pos += 2
			return toks, nil
		}
		t := NewCharacterTest()
		t.AddChar(l.src[l.pos])
		l.pos++
		toks = append(toks, Token{Kind: TokTest, Test: t})
	}
}

// readEscape decodes a single escaped code point starting at a '\' and
// returns it, per the table in spec §4.2. l.pos must point at the '\'.
func (l *lexer) readEscape() (rune, error) {
	start := l.pos
	l.pos++ // consume '\'
	if l.eof() {
		return 0, l.err(ErrInvalidEscape, "trailing backslash")
	}
	ch := l.src[l.pos]
	l.pos++
	switch ch {
	case '(', ')', '[', ']', '{', '}', '?', '*', '+', '.', '^', '$', '|', '\\':
		return ch, nil
	case 'B':
		return '\\', nil
	case '0':
		return 0, nil
	case 'a':
		return '\a', nil
	case 'b':
		return '\b', nil
	case 'e':
		return 0x1B, nil
	case 'f':
		return '\f', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'v':
		return '\v', nil
	case 'c':
		if l.eof() {
			return 0, l.err(ErrInvalidEscape, "truncated \\c escape")
		}
		c := l.src[l.pos]
		l.pos++
		return c & 0x1F, nil
	case 'o':
		return l.readDelimitedNumber(8, start)
	case 'u':
		return l.readDelimitedNumber(16, start)
	case 'x':
		return l.readHexFixedOrBraced(start)
	default:
		l.pos = start
		return 0, l.err(ErrInvalidEscape, "unrecognized escape sequence")
	}
}

// readDelimitedNumber reads "{digits}" in the given base, used by \o{...}
// and \u{...}.
func (l *lexer) readDelimitedNumber(base int, start int) (rune, error) {
	if l.eof() || l.peek() != '{' {
		l.pos = start
		return 0, l.err(ErrInvalidEscape, "expected '{'")
	}
	l.pos++
	var digits []rune
	for {
		if l.eof() {
			l.pos = start
			return 0, l.err(ErrInvalidEscape, "truncated numeric escape")
		}
		ch := l.src[l.pos]
		l.pos++
		if ch == '}' {
			break
		}
		digits = append(digits, ch)
	}
	n, ok := parseUint(digits, base)
	if !ok {
		l.pos = start
		return 0, l.err(ErrInvalidEscape, "invalid numeric escape")
	}
	return rune(n), nil
}

// readHexFixedOrBraced handles \xHH and \x{hex}.
func (l *lexer) readHexFixedOrBraced(start int) (rune, error) {
	if !l.eof() && l.peek() == '{' {
		return l.readDelimitedNumber(16, start)
	}
	var digits []rune
	for i := 0; i < 2; i++ {
		if l.eof() {
			l.pos = start
			return 0, l.err(ErrInvalidEscape, "truncated \\x escape")
		}
		digits = append(digits, l.src[l.pos])
		l.pos++
	}
	n, ok := parseUint(digits, 16)
	if !ok {
		l.pos = start
		return 0, l.err(ErrInvalidEscape, "invalid \\x escape")
	}
	return rune(n), nil
}

func parseUint(digits []rune, base int) (uint64, bool) {
	if len(digits) == 0 {
		return 0, false
	}
	var n uint64
	for _, ch := range digits {
		var d uint64
		switch {
		case ch >= '0' && ch <= '9':
			d = uint64(ch - '0')
		case base == 16 && ch >= 'a' && ch <= 'f':
			d = uint64(ch-'a') + 10
		case base == 16 && ch >= 'A' && ch <= 'F':
			d = uint64(ch-'A') + 10
		default:
			return 0, false
		}
		if base == 8 && d > 7 {
			return 0, false
		}
		n = n*uint64(base) + d
	}
	return n, true
}

// readBackref parses a \g<spec> \k<spec> \g'spec' \g{spec} backreference,
// l.pos positioned just after the 'g'/'k' letter.
func (l *lexer) readBackref() (BackrefSpec, error) {
	if l.eof() {
		return BackrefSpec{}, l.err(ErrInvalidBackreference, "unterminated backreference")
	}
	open := l.src[l.pos]
	var closeCh rune
	switch open {
	case '\'':
		closeCh = '\''
	case '<':
		closeCh = '>'
	case '{':
		closeCh = '}'
	default:
		return BackrefSpec{}, l.err(ErrInvalidBackreference, "expected delimiter after \\g or \\k")
	}
	l.pos++

	field, sawComma, err := l.readBackrefField(closeCh, true)
	if err != nil {
		return BackrefSpec{}, err
	}
	occurrence := -1
	if sawComma {
		occ, _, err := l.readSignedField(closeCh, false)
		if err != nil {
			return BackrefSpec{}, err
		}
		occurrence = int(occ)
		if occurrence == 0 {
			return BackrefSpec{}, l.err(ErrInvalidBackreference, "occurrence number must not be zero")
		}
	}
	spec := BackrefSpec{Occurrence: occurrence}
	if field.isName {
		spec.Group = GroupSpec{Name: field.name}
	} else {
		if field.number == 0 {
			return BackrefSpec{}, l.err(ErrInvalidBackreference, "group number must not be zero")
		}
		spec.Group = GroupSpec{Number: field.number}
	}
	return spec, nil
}

type backrefField struct {
	isName bool
	name   string
	number int
}

// readBackrefField reads the group-identifying field of a \g/\k backref: a
// signed number (numeric backreference) or a bare name (named backreference).
func (l *lexer) readBackrefField(closeCh rune, stopAtComma bool) (backrefField, bool, error) {
	var raw []rune
	sawComma := false
loop:
	for {
		if l.eof() {
			return backrefField{}, false, l.err(ErrInvalidBackreference, "unterminated backreference")
		}
		ch := l.src[l.pos]
		switch {
		case ch == closeCh:
			l.pos++
			break loop
		case stopAtComma && ch == ',':
			l.pos++
			sawComma = true
			break loop
		default:
			raw = append(raw, ch)
			l.pos++
		}
	}
	if len(raw) == 0 {
		return backrefField{}, false, l.err(ErrInvalidBackreference, "empty backreference field")
	}
	neg := raw[0] == '-'
	digitsOnly := true
	for _, ch := range raw {
		if ch == '-' {
			continue
		}
		if ch < '0' || ch > '9' {
			digitsOnly = false
			break
		}
	}
	if digitsOnly {
		n, ok := parseUint(raw[boolToInt(neg):], 10)
		if !ok {
			return backrefField{}, false, l.err(ErrInvalidBackreference, "invalid backreference number")
		}
		v := int(n)
		if neg {
			v = -v
		}
		return backrefField{number: v}, sawComma, nil
	}
	return backrefField{isName: true, name: string(raw)}, sawComma, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// readSignedField reads an optional '-' followed by digits, stopping at
// closeCh or ',' (only honored when stopAtComma is true). It returns the
// parsed value and whether a ',' terminated the field.
func (l *lexer) readSignedField(closeCh rune, stopAtComma bool) (int64, bool, error) {
	neg := false
	if !l.eof() && l.peek() == '-' {
		neg = true
		l.pos++
	}
	var digits []rune
	for {
		if l.eof() {
			return 0, false, l.err(ErrInvalidBackreference, "unterminated backreference")
		}
		ch := l.src[l.pos]
		if ch == closeCh {
			l.pos++
			break
		}
		if stopAtComma && ch == ',' {
			l.pos++
			n, ok := parseUint(digits, 10)
			if !ok {
				return 0, false, l.err(ErrInvalidBackreference, "invalid backreference number")
			}
			v := int64(n)
			if neg {
				v = -v
			}
			return v, true, nil
		}
		digits = append(digits, ch)
		l.pos++
	}
	n, ok := parseUint(digits, 10)
	if !ok {
		return 0, false, l.err(ErrInvalidBackreference, "invalid backreference number")
	}
	v := int64(n)
	if neg {
		v = -v
	}
	return v, false, nil
}
