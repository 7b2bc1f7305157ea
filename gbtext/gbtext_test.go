package gbtext

import (
	"bytes"
	"testing"
)

func TestEncodeUppercase(t *testing.T) {
	got := Encode("HELLO")
	want := []byte{0x87, 0x84, 0x8B, 0x8B, 0x8E}
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode(HELLO) = % x, want % x", got, want)
	}
}

func TestEncodeClasses(t *testing.T) {
	cases := []struct {
		in   rune
		want byte
	}{
		{'A', 0x80},
		{'Z', 0x99},
		{'a', 0xA0},
		{'z', 0xB9},
		{'0', 0xF6},
		{'9', 0xFF},
		{' ', Space},
		{'\n', LineDown},
		{'?', 0xE6},
		{'!', 0xE7},
		{'.', 0xE8},
		{',', 0xF4},
	}
	for _, c := range cases {
		if got := EncodeChar(c.in); got != c.want {
			t.Errorf("EncodeChar(%q) = %#x, want %#x", c.in, got, c.want)
		}
	}
}

func TestEncodeInvalidCharacter(t *testing.T) {
	// Characters outside every class fall back to the '?' glyph.
	for _, r := range "@#%^&*\té" {
		if got := EncodeChar(r); got != Invalid {
			t.Errorf("EncodeChar(%q) = %#x, want %#x", r, got, Invalid)
		}
	}
}

func TestEncoderIsLazyAndFinite(t *testing.T) {
	enc := NewEncoder("Hi")
	b, ok := enc.Next()
	if !ok || b != 0x87 {
		t.Fatalf("first byte = %#x, %v", b, ok)
	}
	b, ok = enc.Next()
	if !ok || b != 0xA8 {
		t.Fatalf("second byte = %#x, %v", b, ok)
	}
	if _, ok = enc.Next(); ok {
		t.Fatal("encoder did not terminate")
	}
	// A fresh encoder restarts from the beginning.
	enc = NewEncoder("Hi")
	if b, _ := enc.Next(); b != 0x87 {
		t.Fatalf("restarted encoder first byte = %#x", b)
	}
}

func TestMessageBoxFraming(t *testing.T) {
	got := MessageBox("OK")
	want := []byte{TextStart, 0x8E, 0x8A, EndMsg, Terminator}
	if !bytes.Equal(got, want) {
		t.Fatalf("MessageBox(OK) = % x, want % x", got, want)
	}
}

func TestDecodeRoundTripsLettersAndDigits(t *testing.T) {
	const s = "RED fought BLUE 3 times"
	if got := Decode(Encode(s)); got != s {
		t.Fatalf("Decode(Encode(%q)) = %q", s, got)
	}
}
