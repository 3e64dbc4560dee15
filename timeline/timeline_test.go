package timeline

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrwynneiii/morsecast/config"
	"github.com/jrwynneiii/morsecast/morse"
	"github.com/jrwynneiii/morsecast/mux"
)

func testTiming() config.TimingConf {
	return config.TimingConf{DotFrames: 3, DashFrames: 9, GapFrames: 3, FrameRate: 30}
}

func runLengths(frames []bool) []int {
	var runs []int
	for i, v := range frames {
		if i == 0 || v != frames[i-1] {
			runs = append(runs, 1)
			continue
		}
		runs[len(runs)-1]++
	}
	return runs
}

func TestExpandSingleDot(t *testing.T) {
	units, err := morse.Units("E")
	require.NoError(t, err)
	frames := Expand(units, testTiming())
	assert.Equal(t, []bool{true, true, true, false, false, false}, frames)
}

func TestExpandDashCarriesGap(t *testing.T) {
	units, err := morse.Units("T")
	require.NoError(t, err)
	frames := Expand(units, testTiming())
	assert.Equal(t, 12, len(frames))
	assert.Equal(t, []int{9, 3}, runLengths(frames))
}

func TestExpandLetterBoundaryIsThreeGapUnits(t *testing.T) {
	units, err := morse.Units("EE")
	require.NoError(t, err)
	frames := Expand(units, testTiming())
	// dot, 9-frame letter boundary run, dot, trailing gap
	assert.Equal(t, []int{3, 9, 3, 3}, runLengths(frames))
}

func TestExpandWordBoundaryIsSevenGapUnits(t *testing.T) {
	units, err := morse.Units("E E")
	require.NoError(t, err)
	frames := Expand(units, testTiming())
	assert.Equal(t, []int{3, 21, 3, 3}, runLengths(frames))
}

func TestExpandEdgeSpaces(t *testing.T) {
	units, err := morse.Units(" E ")
	require.NoError(t, err)
	frames := Expand(units, testTiming())
	// full 21-frame word run before the dot, 3+18 after it
	assert.False(t, frames[0])
	assert.Equal(t, []int{21, 3, 21}, runLengths(frames))
}

func TestExpandIntraLetterGap(t *testing.T) {
	units, err := morse.Units("I")
	require.NoError(t, err)
	frames := Expand(units, testTiming())
	// two dots separated by a single gap unit
	assert.Equal(t, []int{3, 3, 3, 3}, runLengths(frames))
}

func TestNewPlanPadsChannels(t *testing.T) {
	var channels [mux.NumChannels][]bool
	channels[0] = []bool{true, true}
	channels[1] = []bool{true, true, true, true, true}
	plan := NewPlan(channels)

	assert.Equal(t, 5, plan.Len())
	for i := range plan.Channels {
		assert.Len(t, plan.Channels[i], 5)
	}
	assert.Equal(t, [mux.NumChannels]bool{false, true, false, false}, plan.FrameAt(4))
}

func TestFrameAtOutOfRange(t *testing.T) {
	plan := NewPlan([mux.NumChannels][]bool{{true}})
	assert.Equal(t, [mux.NumChannels]bool{}, plan.FrameAt(-1))
	assert.Equal(t, [mux.NumChannels]bool{}, plan.FrameAt(99))
}

func TestEncodeSplitsAcrossChannels(t *testing.T) {
	plan, err := Encode("SOS", testTiming())
	require.NoError(t, err)

	// S on channels 0 and 2, O on channel 1, channel 3 empty padding.
	assert.Greater(t, plan.Len(), 0)
	for idx := 0; idx < plan.Len(); idx++ {
		assert.False(t, plan.FrameAt(idx)[3])
	}
	assert.True(t, plan.FrameAt(0)[0])
	assert.True(t, plan.FrameAt(0)[1])
	assert.True(t, plan.FrameAt(0)[2])
}

func TestEncodeUnsupportedCharacter(t *testing.T) {
	_, err := Encode("S~S", testTiming())
	assert.ErrorIs(t, err, morse.ErrUnsupportedCharacter)
}

func TestPlanWriteReadRoundTrip(t *testing.T) {
	plan, err := Encode("HELLO WORLD", testTiming())
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = plan.WriteTo(&buf)
	require.NoError(t, err)

	frames, err := ReadFrames(&buf)
	require.NoError(t, err)
	require.Len(t, frames, plan.Len())
	for idx, frame := range frames {
		assert.Equal(t, plan.FrameAt(idx), frame, "frame %d", idx)
	}
}

func TestReadFramesRejectsBadLines(t *testing.T) {
	_, err := ReadFrames(bytes.NewBufferString("10\n"))
	assert.Error(t, err)

	_, err = ReadFrames(bytes.NewBufferString("10x0\n"))
	assert.Error(t, err)
}

func TestReadFramesSkipsBlankLines(t *testing.T) {
	frames, err := ReadFrames(bytes.NewBufferString("1010\n\n0101\n"))
	require.NoError(t, err)
	assert.Len(t, frames, 2)
	assert.Equal(t, [mux.NumChannels]bool{true, false, true, false}, frames[0])
	assert.Equal(t, [mux.NumChannels]bool{false, true, false, true}, frames[1])
}

func TestSeconds(t *testing.T) {
	plan, err := Encode("E", testTiming())
	require.NoError(t, err)
	assert.InDelta(t, 0.2, plan.Seconds(testTiming()), 1e-9)
}
