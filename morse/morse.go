// Package morse maps characters to Morse code and back, and builds the unit
// sequences the timeline encoder expands into frames.
package morse

import (
	"fmt"
	"strings"
)

// Placeholder is appended to decoded text when a run sequence matches no
// alphabet entry. It is deliberately outside the alphabet so it can never be
// mistaken for a correctly decoded character.
const Placeholder = '#'

var ErrUnsupportedCharacter = fmt.Errorf("unsupported character")
var ErrUnknownSymbol = fmt.Errorf("unknown morse symbol")

// Alphabet is the supported character set: letters, digits and a punctuation
// subset, ITU codes. Dots and dashes as '.' and '-'.
var Alphabet = map[rune]string{
	'A': ".-", 'B': "-...", 'C': "-.-.", 'D': "-..", 'E': ".", 'F': "..-.",
	'G': "--.", 'H': "....", 'I': "..", 'J': ".---", 'K': "-.-", 'L': ".-..",
	'M': "--", 'N': "-.", 'O': "---", 'P': ".--.", 'Q': "--.-", 'R': ".-.",
	'S': "...", 'T': "-", 'U': "..-", 'V': "...-", 'W': ".--", 'X': "-..-",
	'Y': "-.--", 'Z': "--..",
	'0': "-----", '1': ".----", '2': "..---", '3': "...--", '4': "....-",
	'5': ".....", '6': "-....", '7': "--...", '8': "---..", '9': "----.",
	'.': ".-.-.-", ',': "--..--", '?': "..--..", '\'': ".----.", '!': "-.-.--",
	'/': "-..-.", '(': "-.--.", ')': "-.--.-", ':': "---...", '=': "-...-",
	'+': ".-.-.", '-': "-....-", '"': ".-..-.", '@': ".--.-.",
}

var reverse = func() map[string]rune {
	m := make(map[string]rune, len(Alphabet))
	for r, code := range Alphabet {
		m[code] = r
	}
	return m
}()

// Encode returns the dot/dash code for a single character. Lowercase letters
// are folded to uppercase first.
func Encode(r rune) (string, error) {
	if r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}
	code, ok := Alphabet[r]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCharacter, r)
	}
	return code, nil
}

// Decode returns the character for a dot/dash code.
func Decode(code string) (rune, error) {
	r, ok := reverse[code]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSymbol, code)
	}
	return r, nil
}

// Unit is one element of a channel's Morse sequence. Dot and Dash carry their
// trailing intra-symbol gap when expanded to frames; SymbolGap exists as a
// classification category on the decode side and is never emitted by Units.
type Unit int8

const (
	unitNone Unit = iota
	Dot
	Dash
	SymbolGap
	LetterGap
	WordGap
)

func (u Unit) String() string {
	switch u {
	case Dot:
		return "dot"
	case Dash:
		return "dash"
	case SymbolGap:
		return "symbol-gap"
	case LetterGap:
		return "letter-gap"
	case WordGap:
		return "word-gap"
	}
	return "none"
}

// Units converts one channel's text into its unit sequence. Letters are
// separated by LetterGap, words by WordGap; runs of spaces collapse into one
// word boundary. Leading and trailing spaces emit an explicit WordGap so a
// channel's text survives the round trip even when the round-robin split
// lands a space at a channel edge. Returns ErrUnsupportedCharacter on the
// first character outside the alphabet.
func Units(text string) ([]Unit, error) {
	var units []Unit
	pending := unitNone
	for _, r := range strings.ToUpper(text) {
		if r == ' ' {
			pending = WordGap
			continue
		}
		code, err := Encode(r)
		if err != nil {
			return nil, err
		}
		if pending != unitNone {
			units = append(units, pending)
		}
		for _, c := range code {
			if c == '.' {
				units = append(units, Dot)
			} else {
				units = append(units, Dash)
			}
		}
		pending = LetterGap
	}
	if pending == WordGap {
		units = append(units, pending)
	}
	return units, nil
}

// Sanitize strips characters the alphabet cannot represent, returning the
// cleaned text and the characters that were dropped. Spaces are kept.
func Sanitize(text string) (string, []rune) {
	var b strings.Builder
	var dropped []rune
	for _, r := range text {
		if r == ' ' || r == '\n' || r == '\t' {
			b.WriteRune(' ')
			continue
		}
		if _, err := Encode(r); err != nil {
			dropped = append(dropped, r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String(), dropped
}
