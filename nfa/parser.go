package nfa

import "github.com/coregx/qreg/syntax"

// Parser drives Builder through the recursive-descent grammar of spec
// §4.5: expression := term ("|" term)* ; term := factor+ ; factor := atom
// (range|"?"|"*"|"+")? "?"? ; atom := "(" expression ")" | Test.
type Parser struct {
	toks    []syntax.Token
	pos     int
	b       *Builder
	nextNum int // next numeric capture id, starts at 1
	active  []CaptureDescriptor
	nonstop bool

	pattern    string
	groupNames []string
}

// Compile lexes and parses pattern into a fully built NFA.
func Compile(pattern string) (*NFA, error) {
	toks, err := syntax.Lex(pattern)
	if err != nil {
		return nil, err
	}
	p := &Parser{toks: toks, b: NewBuilder(), nextNum: 1, pattern: pattern}

	chain, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !chain.Valid() {
		return nil, p.errAt(syntax.ErrUnbalancedConstruct, "expected expression")
	}
	if p.pos < len(p.toks) {
		return nil, p.errAt(syntax.ErrUnparsedTrailing, "unparsed tokens remain after the top-level expression")
	}

	return &NFA{
		States:       p.b.Finish(),
		Start:        chain.Begin,
		Accept:       chain.End,
		CaptureCount: p.nextNum - 1,
		GroupNames:   p.groupNames,
	}, nil
}

// noChain is the "nothing parsed here" result; both ends are InvalidState
// so Valid reports false (a zero Chain would name state 0).
var noChain = Chain{Begin: InvalidState, End: InvalidState}

func (p *Parser) errAt(kind syntax.ErrKind, msg string) error {
	return &syntax.SyntaxError{Kind: kind, Pattern: p.pattern, Pos: p.pos, Msg: msg}
}

func (p *Parser) peek() (syntax.Token, bool) {
	if p.pos >= len(p.toks) {
		return syntax.Token{}, false
	}
	return p.toks[p.pos], true
}

// epsilon adds an epsilon edge a->target and stamps a's Nonstop with the
// parser's current ambient atomic-group context, mirroring the original's
// epsilon() helper (every epsilon edge's source records whether it was
// built while inside an atomic group).
func (p *Parser) epsilon(a, target StateID) {
	p.b.AddEpsilon(a, target)
	p.b.State(a).Nonstop = p.nonstop
}

func (p *Parser) parseAtom() (Chain, error) {
	tok, ok := p.peek()
	if !ok {
		return noChain, nil
	}

	switch tok.Kind {
	case syntax.TokTest:
		p.pos++
		begin := p.b.NewState()
		end := p.b.NewState()
		p.b.AddTest(begin, tok.Test, end)
		st := p.b.State(begin)
		st.Captures = append([]CaptureDescriptor(nil), p.active...)
		st.Nonstop = p.nonstop
		return Chain{Begin: begin, End: end}, nil

	case syntax.TokLParen:
		p.pos++
		attrs := tok.Group

		if attrs.Capture {
			if attrs.Named {
				p.active = append(p.active, CaptureDescriptor{Named: true, Name: attrs.Name})
				p.groupNames = append(p.groupNames, attrs.Name)
			} else {
				p.active = append(p.active, CaptureDescriptor{Number: p.nextNum})
				p.nextNum++
			}
		}

		oldNonstop := p.nonstop
		if attrs.Atomic {
			p.nonstop = true
		}

		inner, err := p.parseExpression()
		if err != nil {
			return Chain{}, err
		}
		if !inner.Valid() {
			return Chain{}, p.errAt(syntax.ErrUnbalancedConstruct, "expected expression after '('")
		}
		closeTok, ok := p.peek()
		if !ok || closeTok.Kind != syntax.TokRParen {
			return Chain{}, p.errAt(syntax.ErrUnbalancedConstruct, "expected ')'")
		}
		p.pos++

		if attrs.Atomic {
			p.nonstop = oldNonstop
		}

		pre := p.b.NewState()
		p.epsilon(pre, inner.Begin)
		inner.Begin = pre
		post := p.b.NewState()
		p.epsilon(inner.End, post)
		inner.End = post

		if attrs.Capture {
			st := p.b.State(inner.Begin)
			st.BeginCapture = true
			st.Captures = append([]CaptureDescriptor(nil), p.active...)
			p.active = p.active[:len(p.active)-1]
		}

		return inner, nil

	default:
		return noChain, nil
	}
}

func (p *Parser) parseFactor() (Chain, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return Chain{}, err
	}
	if !atom.Valid() {
		return noChain, nil
	}

	rng := syntax.QuantRange{Begin: 1, End: 1}
	if tok, ok := p.peek(); ok {
		switch tok.Kind {
		case syntax.TokRange:
			rng = tok.Range
			p.pos++
		case syntax.TokQMark:
			rng = syntax.QuantRange{Begin: 0, End: 1}
			p.pos++
		case syntax.TokStar:
			rng = syntax.QuantRange{Begin: 0, Infinite: true}
			p.pos++
		case syntax.TokPlus:
			rng = syntax.QuantRange{Begin: 1, Infinite: true}
			p.pos++
		}
	}
	lazy := false
	if tok, ok := p.peek(); ok && tok.Kind == syntax.TokQMark {
		lazy = true
		p.pos++
	}

	result := Chain{Begin: p.b.NewState()}
	pos := result.Begin

	for c := uint32(0); c < rng.Begin; c++ {
		tmp := p.b.Clone(atom)
		p.b.MergeState(pos, tmp.Begin)
		pos = tmp.End
	}

	if rng.Infinite {
		end := p.b.NewState()
		p.epsilon(pos, atom.Begin)
		if lazy {
			p.epsilon(atom.End, end)
			p.epsilon(atom.End, atom.Begin)
		} else {
			p.epsilon(atom.End, atom.Begin)
			p.epsilon(atom.End, end)
		}
		p.epsilon(pos, end)
		pos = end
	} else {
		for c := rng.Begin; c < rng.End; c++ {
			tmp := p.b.Clone(atom)
			if lazy {
				begin := p.b.NewState()
				p.epsilon(begin, tmp.End)
				p.b.MergeState(begin, tmp.Begin)
				tmp.Begin = begin
			} else {
				p.epsilon(tmp.Begin, tmp.End)
			}
			p.b.MergeState(pos, tmp.Begin)
			pos = tmp.End
		}
	}

	result.End = pos
	return result, nil
}

func (p *Parser) parseTerm() (Chain, error) {
	chain, err := p.parseFactor()
	if err != nil {
		return Chain{}, err
	}
	if !chain.Valid() {
		return noChain, nil
	}

	for {
		tmp, err := p.parseFactor()
		if err != nil {
			return Chain{}, err
		}
		if !tmp.Valid() {
			break
		}
		p.b.MergeState(chain.End, tmp.Begin)
		chain.End = tmp.End
	}
	return chain, nil
}

func (p *Parser) parseExpression() (Chain, error) {
	tmp, err := p.parseTerm()
	if err != nil {
		return Chain{}, err
	}
	if !tmp.Valid() {
		return noChain, nil
	}

	tok, ok := p.peek()
	if !ok || tok.Kind != syntax.TokAlt {
		return tmp, nil
	}

	result := Chain{Begin: p.b.NewState(), End: p.b.NewState()}
	p.epsilon(result.Begin, tmp.Begin)
	p.epsilon(tmp.End, result.End)

	for {
		tok, ok := p.peek()
		if !ok || tok.Kind != syntax.TokAlt {
			break
		}
		p.pos++
		tmp, err := p.parseTerm()
		if err != nil {
			return Chain{}, err
		}
		if !tmp.Valid() {
			return Chain{}, p.errAt(syntax.ErrUnbalancedConstruct, "expected expression after '|'")
		}
		p.epsilon(result.Begin, tmp.Begin)
		p.epsilon(tmp.End, result.End)
	}
	return result, nil
}
