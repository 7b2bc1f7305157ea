// Package gbtext converts printable text into the character set the target
// cartridge uses internally. The game stores text one byte per glyph in a
// layout of its own; these tables let us inject fabricated dialogue and read
// player names back out for display.
package gbtext

// Control codes understood by the game's text processor.
const (
	TextStart  byte = 0x00 // start a text section
	LineDown   byte = 0x4E // move down a line
	BottomLine byte = 0x4F // start writing to the bottom line
	Terminator byte = 0x50 // terminates the string
	Paragraph  byte = 0x51 // start a new paragraph
	ScrollLine byte = 0x55 // scroll to the next line
	EndMsg     byte = 0x57 // end the message box
	EndPrompt  byte = 0x58 // prompt player to close the text box
	Space      byte = 0x7F
)

// Invalid is the glyph substituted for characters the charset cannot
// represent. It renders as '?'.
const Invalid byte = 0xE6

var punctuation = map[rune]byte{
	'(':  0x8A,
	')':  0x8B,
	':':  0x8C,
	';':  0x8D,
	'[':  0x8E,
	']':  0x8F,
	'\'': 0xE0,
	'-':  0xE3,
	'?':  0xE6,
	'!':  0xE7,
	'.':  0xE8,
	'/':  0xF3,
	',':  0xF4,
}

// EncodeChar maps a single character to its in-game byte.
func EncodeChar(r rune) byte {
	switch {
	case r >= 'A' && r <= 'Z':
		return 0x80 + byte(r-'A')
	case r >= 'a' && r <= 'z':
		return 0xA0 + byte(r-'a')
	case r >= '0' && r <= '9':
		return 0xF6 + byte(r-'0')
	case r == ' ':
		return Space
	case r == '\n':
		return LineDown
	}
	if b, ok := punctuation[r]; ok {
		return b
	}
	return Invalid
}

// Encoder lazily yields the encoded form of a string, one byte per input
// character. A fresh Encoder restarts from the beginning of its text.
type Encoder struct {
	rest []rune
}

// NewEncoder returns an Encoder over text.
func NewEncoder(text string) *Encoder {
	return &Encoder{rest: []rune(text)}
}

// Next returns the next encoded byte, or false when the text is exhausted.
func (e *Encoder) Next() (byte, bool) {
	if len(e.rest) == 0 {
		return 0, false
	}
	b := EncodeChar(e.rest[0])
	e.rest = e.rest[1:]
	return b, true
}

// Encode converts an entire string at once.
func Encode(text string) []byte {
	out := make([]byte, 0, len(text))
	enc := NewEncoder(text)
	for b, ok := enc.Next(); ok; b, ok = enc.Next() {
		out = append(out, b)
	}
	return out
}

// MessageBox frames text the way the game's text engine expects a message
// box to arrive: TEXT_START, the glyphs, END_MSG, then the terminator.
func MessageBox(text string) []byte {
	out := make([]byte, 0, len(text)+3)
	out = append(out, TextStart)
	out = append(out, Encode(text)...)
	out = append(out, EndMsg, Terminator)
	return out
}

// Decode maps engine bytes back to printable text. The core never needs
// this direction; it exists so chat lines and names can be shown in the
// client UI. Unknown bytes become '?', control codes become spacing.
func Decode(data []byte) string {
	out := make([]rune, 0, len(data))
	for _, b := range data {
		switch {
		case b >= 0x80 && b <= 0x99:
			out = append(out, rune('A'+b-0x80))
		case b >= 0xA0 && b <= 0xB9:
			out = append(out, rune('a'+b-0xA0))
		case b >= 0xF6 && b <= 0xFF:
			out = append(out, rune('0'+b-0xF6))
		case b == Space:
			out = append(out, ' ')
		case b == LineDown || b == Paragraph || b == ScrollLine || b == BottomLine:
			out = append(out, '\n')
		case b == Terminator || b == TextStart || b == EndMsg || b == EndPrompt:
			// framing, nothing to show
		default:
			if r, ok := reversePunct(b); ok {
				out = append(out, r)
			} else {
				out = append(out, '?')
			}
		}
	}
	return string(out)
}

func reversePunct(b byte) (rune, bool) {
	for r, pb := range punctuation {
		if pb == b {
			return r, true
		}
	}
	return 0, false
}
