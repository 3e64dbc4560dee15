// Package timeline expands Morse unit sequences into frame-indexed disc
// visibility signals and carries the renderer-facing frame plan.
package timeline

import (
	"bufio"
	"fmt"
	"io"

	"github.com/jrwynneiii/morsecast/config"
	"github.com/jrwynneiii/morsecast/morse"
	"github.com/jrwynneiii/morsecast/mux"
)

// Expand converts one channel's unit sequence into per-frame disc visibility.
// A dot or dash emits its configured count of true frames followed by one gap
// unit of false frames. Letter and word units emit the remainder of their
// boundary run on top of that trailing gap, so a letter boundary is a false
// run of exactly 3x the gap unit and a word boundary exactly 7x. A boundary
// unit at the start of the sequence (a leading space on the channel) has no
// trailing gap to ride on and emits its full run.
func Expand(units []morse.Unit, timing config.TimingConf) []bool {
	var frames []bool
	push := func(v bool, n int) {
		for i := 0; i < n; i++ {
			frames = append(frames, v)
		}
	}
	for _, u := range units {
		switch u {
		case morse.Dot:
			push(true, timing.DotFrames)
			push(false, timing.GapFrames)
		case morse.Dash:
			push(true, timing.DashFrames)
			push(false, timing.GapFrames)
		case morse.SymbolGap:
			push(false, timing.GapFrames)
		case morse.LetterGap:
			n := timing.LetterGapFrames()
			if len(frames) > 0 {
				n -= timing.GapFrames
			}
			push(false, n)
		case morse.WordGap:
			n := timing.WordGapFrames()
			if len(frames) > 0 {
				n -= timing.GapFrames
			}
			push(false, n)
		}
	}
	return frames
}

// Plan is the encoder's output: one timeline per channel, padded with
// trailing false frames to a common length. It is what the external video
// writer consumes, one frame index at a time.
type Plan struct {
	Channels [mux.NumChannels][]bool
	length   int
}

// NewPlan pads the channel timelines to the longest one. The channels are
// independent; padding only aligns them to a shared frame index.
func NewPlan(channels [mux.NumChannels][]bool) *Plan {
	p := &Plan{Channels: channels}
	for _, ch := range p.Channels {
		if len(ch) > p.length {
			p.length = len(ch)
		}
	}
	for i := range p.Channels {
		for len(p.Channels[i]) < p.length {
			p.Channels[i] = append(p.Channels[i], false)
		}
	}
	return p
}

// Encode builds the full 4-channel plan for a message: round-robin split,
// per-channel Morse units, per-channel expansion, then padding.
func Encode(message string, timing config.TimingConf) (*Plan, error) {
	var channels [mux.NumChannels][]bool
	for i, text := range mux.Split(message) {
		units, err := morse.Units(text)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", i, err)
		}
		channels[i] = Expand(units, timing)
	}
	return NewPlan(channels), nil
}

func (p *Plan) Len() int {
	return p.length
}

// FrameAt reports the disc visibility of each channel at one frame index.
// Indexes past the end of the plan read as all discs off.
func (p *Plan) FrameAt(idx int) [mux.NumChannels]bool {
	var states [mux.NumChannels]bool
	if idx < 0 || idx >= p.length {
		return states
	}
	for i := range p.Channels {
		states[i] = p.Channels[i][idx]
	}
	return states
}

// Seconds is the plan's play time at the configured frame rate.
func (p *Plan) Seconds(timing config.TimingConf) float64 {
	return float64(p.length) / float64(timing.FrameRate)
}

// WriteTo serializes the plan as one line per frame, one '0'/'1' per channel.
// The same format is read back as a detection stream, which keeps the
// renderer and detector boundaries testable without any video dependency.
func (p *Plan) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var written int64
	line := make([]byte, mux.NumChannels+1)
	line[mux.NumChannels] = '\n'
	for idx := 0; idx < p.length; idx++ {
		for ch, on := range p.FrameAt(idx) {
			if on {
				line[ch] = '1'
			} else {
				line[ch] = '0'
			}
		}
		n, err := bw.Write(line)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, bw.Flush()
}

// ReadFrames parses a per-frame detection stream in the plan text format.
// Blank lines are skipped; anything other than a 4-digit '0'/'1' line is an
// error.
func ReadFrames(r io.Reader) ([][mux.NumChannels]bool, error) {
	var frames [][mux.NumChannels]bool
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if line == "" {
			continue
		}
		if len(line) != mux.NumChannels {
			return nil, fmt.Errorf("line %d: want %d channel digits, got %q", lineNo, mux.NumChannels, line)
		}
		var states [mux.NumChannels]bool
		for i := 0; i < mux.NumChannels; i++ {
			switch line[i] {
			case '1':
				states[i] = true
			case '0':
			default:
				return nil, fmt.Errorf("line %d: bad channel digit %q", lineNo, line[i])
			}
		}
		frames = append(frames, states)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return frames, nil
}
