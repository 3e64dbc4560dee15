package reconstruct

import (
	"strings"
	"sync"

	"github.com/jrwynneiii/morsecast/config"
	"github.com/jrwynneiii/morsecast/mux"
)

// Decoder steps all four channel reconstructors in lockstep, one call per
// incoming frame, and serves consistent snapshots to concurrent readers.
type Decoder struct {
	mu      sync.RWMutex
	chans   [mux.NumChannels]*Reconstructor
	frames  int
	last    [mux.NumChannels]bool
	flushed bool
}

func NewDecoder(timing config.TimingConf, obs [mux.NumChannels]RunObserver) *Decoder {
	d := &Decoder{}
	for i := range d.chans {
		d.chans[i] = NewReconstructor(timing, obs[i])
	}
	return d
}

// StepFrame advances every channel by one frame of detections.
func (d *Decoder) StepFrame(detections [mux.NumChannels]bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.flushed {
		return
	}
	for i, det := range detections {
		d.chans[i].Step(det)
	}
	d.frames++
	d.last = detections
}

// Flush ends the stream on every channel. Idempotent.
func (d *Decoder) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.flushed {
		return
	}
	for _, c := range d.chans {
		c.Flush()
	}
	d.flushed = true
}

type ChannelState struct {
	Text      string
	Trace     string
	Detecting bool
}

type Snapshot struct {
	Channels [mux.NumChannels]ChannelState
	Joined   string
	Frames   int
	Flushed  bool
}

// Snapshot reports the decode so far without disturbing state: per-channel
// text and raw trace, the last frame's detections, and the round-robin joined
// message. Callable at any time during a live decode.
func (d *Decoder) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var s Snapshot
	var texts [mux.NumChannels]string
	for i, c := range d.chans {
		texts[i] = c.Text()
		s.Channels[i] = ChannelState{
			Text:      texts[i],
			Trace:     c.Trace(),
			Detecting: d.last[i],
		}
	}
	// Channels shorter than the stream decode their padding as a trailing
	// word boundary. Those spaces all sort after the real characters in the
	// round-robin merge, so trimming the tail recovers the message while the
	// boundary spaces inside it survive.
	s.Joined = strings.TrimRight(mux.Join(texts), " ")
	s.Frames = d.frames
	s.Flushed = d.flushed
	return s
}
