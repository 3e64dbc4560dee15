package reconstruct

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrwynneiii/morsecast/mux"
)

func TestPumpDrainsAndFlushesOnClose(t *testing.T) {
	decoder := NewDecoder(testTiming(), [mux.NumChannels]RunObserver{})
	pump := NewPump(decoder, 256)
	go pump.Start()

	for _, f := range planFrames(t, "HELLO WORLD") {
		pump.DetectionsInput <- f
	}
	close(pump.DetectionsInput)

	select {
	case <-pump.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("pump did not stop after input close")
	}
	assert.Equal(t, "HELLO WORLD", decoder.Snapshot().Joined)
}

func TestPumpPauseHoldsFrames(t *testing.T) {
	decoder := NewDecoder(testTiming(), [mux.NumChannels]RunObserver{})
	pump := NewPump(decoder, 256)
	go pump.Start()

	frames := planFrames(t, "SOS")
	half := len(frames) / 2
	for _, f := range frames[:half] {
		pump.DetectionsInput <- f
	}

	pump.Pause()
	require.True(t, pump.Paused())

	// Frames sent while paused sit in the channel buffer.
	for _, f := range frames[half:] {
		pump.DetectionsInput <- f
	}
	deadline := time.Now().Add(2 * time.Second)
	for decoder.Snapshot().Frames != half && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	paused := decoder.Snapshot().Frames
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, paused, decoder.Snapshot().Frames)

	// Nothing is lost across the pause.
	pump.Resume()
	require.False(t, pump.Paused())
	close(pump.DetectionsInput)
	select {
	case <-pump.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("pump did not stop after input close")
	}
	assert.Equal(t, "SOS", decoder.Snapshot().Joined)
}

func TestPumpStopFlushes(t *testing.T) {
	decoder := NewDecoder(testTiming(), [mux.NumChannels]RunObserver{})
	pump := NewPump(decoder, 256)
	go pump.Start()

	for _, f := range planFrames(t, "E") {
		pump.DetectionsInput <- f
	}
	deadline := time.Now().Add(2 * time.Second)
	for decoder.Snapshot().Frames == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	pump.Stop()
	snap := decoder.Snapshot()
	assert.True(t, snap.Flushed)
	assert.Equal(t, "E", snap.Joined)
}
