package codec

import "testing"

func TestDecoderAdvanceUTF8(t *testing.T) {
	tests := []struct {
		name    string
		buf     string
		wantCp  rune
		wantPos int
	}{
		{"ascii", "a", 'a', 1},
		{"two byte", "é", 0xe9, 2},
		{"three byte", "€", 0x20ac, 3},
		{"four byte", "\U0001F600", 0x1F600, 4},
	}
	d := Decoder{UTF8: true}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := 0
			cp, err := d.Advance([]byte(tt.buf), &pos)
			if err != nil {
				t.Fatalf("Advance: %v", err)
			}
			if cp != tt.wantCp || pos != tt.wantPos {
				t.Errorf("got (%U, %d), want (%U, %d)", cp, pos, tt.wantCp, tt.wantPos)
			}
		})
	}
}

func TestDecoderAdvanceByteMode(t *testing.T) {
	d := Decoder{UTF8: false}
	buf := []byte{0xC3, 0xA9} // two raw bytes, each its own code point in byte mode
	pos := 0
	cp, err := d.Advance(buf, &pos)
	if err != nil || cp != 0xC3 || pos != 1 {
		t.Fatalf("got (%v, %v, %v), want (0xC3, 1, nil)", cp, pos, err)
	}
}

func TestDecoderInvalidUTF8(t *testing.T) {
	d := Decoder{UTF8: true}
	buf := []byte{0xC3} // truncated two-byte sequence
	pos := 0
	if _, err := d.Advance(buf, &pos); err != ErrInvalidUTF8 {
		t.Fatalf("got err=%v, want ErrInvalidUTF8", err)
	}
}

func TestDecoderPeekPrev(t *testing.T) {
	d := Decoder{UTF8: true}
	buf := []byte("a€b") // a, EURO SIGN (3 bytes), b
	cp, err := d.PeekPrev(buf, 4)
	if err != nil {
		t.Fatalf("PeekPrev: %v", err)
	}
	if cp != 0x20ac {
		t.Errorf("got %U, want EURO SIGN", cp)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	for _, cp := range []rune{'a', 0xe9, 0x20ac, 0x1F600} {
		buf := Encode(nil, cp)
		pos := 0
		got, err := (Decoder{UTF8: true}).Advance(buf, &pos)
		if err != nil || got != cp || pos != len(buf) {
			t.Errorf("round trip for %U failed: got (%U, %d, %v)", cp, got, pos, err)
		}
	}
}
