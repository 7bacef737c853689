package engine

import (
	"github.com/coregx/qreg/internal/codec"
	"github.com/coregx/qreg/syntax"
)

// check evaluates test against buf at *pos, advancing *pos past whatever it
// consumed on success. It mirrors libqre's qre::check (original_source
// src/test.cpp) test by test.
func check(test *syntax.Test, buf []byte, pos *int, multiline bool, dec codec.Decoder, sub map[int][]string, namedSub map[string][]string, captureCount int) bool {
	switch test.Kind {
	case syntax.Epsilon:
		return true

	case syntax.BeginOfLine:
		if test.Strict {
			return *pos == 0
		}
		if !multiline {
			return *pos == 0
		}
		if *pos == 0 {
			return true
		}
		if *pos < len(buf) {
			prev, err := dec.PeekPrev(buf, *pos)
			return err == nil && prev == '\n'
		}
		return false

	case syntax.EndOfLine:
		if test.Strict {
			return *pos == len(buf)
		}
		if !multiline {
			return *pos == len(buf)
		}
		if *pos == len(buf) {
			return true
		}
		cp, err := dec.Peek(buf, *pos)
		if err == nil && cp == '\n' {
			dec.Advance(buf, pos)
			return true
		}
		return false

	case syntax.Any:
		if *pos == len(buf) {
			return false
		}
		if multiline {
			cp, err := dec.Peek(buf, *pos)
			if err != nil {
				return false
			}
			if cp == '\n' {
				return false
			}
		}
		_, err := dec.Advance(buf, pos)
		return err == nil

	case syntax.Newline:
		if *pos == len(buf) {
			return false
		}
		newpos := *pos
		cp, err := dec.Advance(buf, &newpos)
		if err != nil {
			return false
		}
		isNL := false
		if cp == '\r' {
			if newpos < len(buf) {
				if cp2, err2 := dec.Peek(buf, newpos); err2 == nil && cp2 == '\n' {
					dec.Advance(buf, &newpos)
				}
			}
			isNL = true
		} else if cp == '\n' {
			isNL = true
		}
		if test.Neg {
			if isNL {
				return false
			}
			_, err := dec.Advance(buf, pos)
			return err == nil
		}
		if isNL {
			*pos = newpos
			return true
		}
		return false

	case syntax.Character:
		if *pos == len(buf) {
			return false
		}
		newpos := *pos
		cp, err := dec.Advance(buf, &newpos)
		if err != nil {
			return false
		}
		if !test.Accept(cp) {
			return false
		}
		*pos = newpos
		return true

	case syntax.Backref:
		return checkBackref(test.Backref, buf, pos, sub, namedSub, captureCount)

	default:
		return false
	}
}

// checkBackref resolves a backreference spec against captures recorded so
// far and compares its text against buf at *pos byte for byte, per
// original_source src/test.cpp's backref case.
func checkBackref(spec syntax.BackrefSpec, buf []byte, pos *int, sub map[int][]string, namedSub map[string][]string, captureCount int) bool {
	var list []string
	if spec.Group.Name != "" {
		list = namedSub[spec.Group.Name]
	} else {
		num := spec.Group.Number
		if num < 0 {
			num = captureCount + num + 1
		}
		if num <= 0 {
			return false
		}
		list = sub[num]
	}
	if len(list) == 0 {
		return false
	}

	idx := spec.Occurrence - 1
	if spec.Occurrence < 0 {
		idx = len(list) + spec.Occurrence
	}
	if idx < 0 || idx >= len(list) {
		return false
	}

	want := list[idx]
	if *pos+len(want) > len(buf) {
		return false
	}
	if string(buf[*pos:*pos+len(want)]) != want {
		return false
	}
	*pos += len(want)
	return true
}
