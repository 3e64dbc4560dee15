package morse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlphabetBijection(t *testing.T) {
	for r := range Alphabet {
		code, err := Encode(r)
		require.NoError(t, err)
		back, err := Decode(code)
		require.NoError(t, err)
		assert.Equal(t, r, back, "round trip for %q", r)
	}
}

func TestEncodeFoldsLowercase(t *testing.T) {
	code, err := Encode('s')
	require.NoError(t, err)
	assert.Equal(t, "...", code)
}

func TestEncodeUnsupportedCharacter(t *testing.T) {
	_, err := Encode('~')
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedCharacter)
}

func TestDecodeUnknownSymbol(t *testing.T) {
	_, err := Decode("......")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestUnitsSingleLetter(t *testing.T) {
	units, err := Units("E")
	require.NoError(t, err)
	assert.Equal(t, []Unit{Dot}, units)
}

func TestUnitsLetterBoundary(t *testing.T) {
	units, err := Units("EE")
	require.NoError(t, err)
	assert.Equal(t, []Unit{Dot, LetterGap, Dot}, units)
}

func TestUnitsWordBoundary(t *testing.T) {
	units, err := Units("E E")
	require.NoError(t, err)
	assert.Equal(t, []Unit{Dot, WordGap, Dot}, units)
}

func TestUnitsCollapsesSpaces(t *testing.T) {
	units, err := Units("E   E")
	require.NoError(t, err)
	assert.Equal(t, []Unit{Dot, WordGap, Dot}, units)
}

func TestUnitsEdgeSpacesEncode(t *testing.T) {
	// Spaces at a channel's edges carry join position and must survive.
	units, err := Units(" E")
	require.NoError(t, err)
	assert.Equal(t, []Unit{WordGap, Dot}, units)

	units, err = Units("E ")
	require.NoError(t, err)
	assert.Equal(t, []Unit{Dot, WordGap}, units)

	units, err = Units("  E  E  ")
	require.NoError(t, err)
	assert.Equal(t, []Unit{WordGap, Dot, WordGap, Dot, WordGap}, units)
}

func TestUnitsBareSpaceChannel(t *testing.T) {
	units, err := Units(" ")
	require.NoError(t, err)
	assert.Equal(t, []Unit{WordGap}, units)

	units, err = Units("")
	require.NoError(t, err)
	assert.Empty(t, units)
}

func TestUnitsMixedSymbols(t *testing.T) {
	// A is dot dash
	units, err := Units("A")
	require.NoError(t, err)
	assert.Equal(t, []Unit{Dot, Dash}, units)
}

func TestUnitsUnsupported(t *testing.T) {
	_, err := Units("A~B")
	assert.ErrorIs(t, err, ErrUnsupportedCharacter)
}

func TestSanitize(t *testing.T) {
	clean, dropped := Sanitize("HELLO ~ WORLD%")
	assert.Equal(t, "HELLO  WORLD", clean)
	assert.Equal(t, []rune{'~', '%'}, dropped)
}

func TestSanitizeKeepsWhitespaceAsSpaces(t *testing.T) {
	clean, dropped := Sanitize("A\nB\tC")
	assert.Equal(t, "A B C", clean)
	assert.Empty(t, dropped)
}
