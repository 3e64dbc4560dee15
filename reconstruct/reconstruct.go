// Package reconstruct turns noisy per-frame disc detections back into text.
// One Reconstructor per channel debounces the boolean stream into runs,
// classifies each run against the shared timing bands and emits characters
// online as their terminating gap confirms.
package reconstruct

import (
	"github.com/jrwynneiii/morsecast/config"
	"github.com/jrwynneiii/morsecast/morse"
)

// RunObserver receives every committed run with its classification. Used for
// timing quality stats; may be nil.
type RunObserver interface {
	Observe(u morse.Unit, frames int)
}

// Reconstructor is the per-channel state machine. Not safe for concurrent
// use; the Decoder serializes access across channels.
type Reconstructor struct {
	timing config.TimingConf
	tol    int
	obs    RunObserver

	started  bool
	flushed  bool
	runValue bool
	runLen   int
	// pend1Len counts consecutive frames of the opposite value; only once it
	// exceeds the debounce tolerance is the current run committed. pend2Len
	// counts frames where the run value resumed while pend1 was still within
	// tolerance: the resumption must itself outlast the tolerance before the
	// blip is folded back into the run, otherwise a spurious single frame
	// inside a genuine gap would weld the runs on either side together.
	pend1Len int
	pend2Len int

	letter       []byte
	trace        []byte
	text         []rune
	pendingSpace bool
}

func NewReconstructor(timing config.TimingConf, obs RunObserver) *Reconstructor {
	timing.ApplyDefaults()
	return &Reconstructor{
		timing: timing,
		tol:    timing.Tolerance(),
		obs:    obs,
	}
}

// Step consumes one observed frame and returns any text emitted by it:
// usually empty, a decoded character once a letter boundary confirms, or a
// space plus character across a word boundary. O(1) per frame.
func (r *Reconstructor) Step(observed bool) string {
	if r.flushed {
		return ""
	}
	if !r.started {
		r.started = true
		r.runValue = observed
		r.runLen = 1
		return ""
	}
	if observed == r.runValue {
		if r.pend1Len > 0 {
			r.pend2Len++
			if r.pend2Len > r.tol {
				// The opposite frames were noise; credit them to this run.
				r.runLen += r.pend1Len + r.pend2Len
				r.pend1Len, r.pend2Len = 0, 0
			}
		} else {
			r.runLen++
		}
		return ""
	}
	if r.pend2Len > 0 {
		// The resumed frames were themselves a blip: the opposite run that
		// pend1 started is real and swallows both pends.
		out := r.commitRun()
		r.runValue = observed
		r.runLen = r.pend1Len + r.pend2Len + 1
		r.pend1Len, r.pend2Len = 0, 0
		return out
	}
	r.pend1Len++
	if r.pend1Len <= r.tol {
		return ""
	}
	out := r.commitRun()
	r.runValue = observed
	r.runLen = r.pend1Len
	r.pend1Len = 0
	return out
}

// Flush ends the stream: the in-progress run is committed and the
// accumulated letter is emitted, so partial messages survive early
// cancellation. A trailing off-run in the word-gap band or beyond ends the
// channel with a space: a trailing space on the channel's text and the
// padding that aligns it with a longer channel are the same all-off tail, so
// the boundary is kept and the join sheds the ones padding invented.
// Further Steps are no-ops.
func (r *Reconstructor) Flush() string {
	if r.flushed {
		return ""
	}
	r.flushed = true
	if !r.started {
		return ""
	}
	r.runLen += r.pend1Len + r.pend2Len
	r.pend1Len, r.pend2Len = 0, 0
	var out string
	trailingWord := false
	if r.runValue {
		out = r.commitRun()
	} else {
		trailingWord = r.classifyOff(r.runLen) == morse.WordGap
	}
	out += r.flushLetter(trailingWord)
	if trailingWord {
		r.text = append(r.text, ' ')
		out += " "
	}
	return out
}

// Text is the channel's decoded text so far.
func (r *Reconstructor) Text() string {
	return string(r.text)
}

// Trace is the raw dot/dash stream with letter and word separators, for
// display.
func (r *Reconstructor) Trace() string {
	return string(r.trace)
}

func (r *Reconstructor) commitRun() string {
	n := r.runLen
	if r.runValue {
		u := r.classifyOn(n)
		r.observe(u, n)
		if u == morse.Dot {
			r.letter = append(r.letter, '.')
			r.trace = append(r.trace, '.')
		} else {
			r.letter = append(r.letter, '-')
			r.trace = append(r.trace, '-')
		}
		return ""
	}
	u := r.classifyOff(n)
	r.observe(u, n)
	switch u {
	case morse.LetterGap:
		return r.flushLetter(false)
	case morse.WordGap:
		return r.flushLetter(true)
	}
	// Intra-symbol gap, absorbed.
	return ""
}

// classifyOn resolves a true run to the nearest of the dot and dash bands.
// The exact midpoint resolves to dot: a stretched dot is more likely than a
// short dash under single-frame noise.
func (r *Reconstructor) classifyOn(n int) morse.Unit {
	if dev(n, r.timing.DotFrames) <= dev(n, r.timing.DashFrames) {
		return morse.Dot
	}
	return morse.Dash
}

// classifyOff resolves a false run to the nearest gap band (1x, 3x, 7x the
// gap unit), ties to the shorter class. Out-of-band lengths still resolve to
// the nearest band: the stream never stalls on odd timing.
func (r *Reconstructor) classifyOff(n int) morse.Unit {
	symbol := dev(n, r.timing.GapFrames)
	letter := dev(n, r.timing.LetterGapFrames())
	word := dev(n, r.timing.WordGapFrames())
	if symbol <= letter && symbol <= word {
		return morse.SymbolGap
	}
	if letter <= word {
		return morse.LetterGap
	}
	return morse.WordGap
}

func (r *Reconstructor) flushLetter(word bool) string {
	var out []rune
	if len(r.letter) > 0 {
		ch, err := morse.Decode(string(r.letter))
		if err != nil {
			ch = morse.Placeholder
		}
		// A confirmed word gap before the first letter is a leading space
		// on the channel's text, so it materializes even at text start.
		if r.pendingSpace {
			r.text = append(r.text, ' ')
			out = append(out, ' ')
		}
		r.pendingSpace = false
		r.text = append(r.text, ch)
		out = append(out, ch)
		r.letter = r.letter[:0]
		r.trace = append(r.trace, ' ')
	}
	if word {
		// The space materializes when the next letter confirms; a trailing
		// word gap is handled by Flush instead.
		r.pendingSpace = true
		if len(r.trace) > 0 {
			r.trace = append(r.trace, '/', ' ')
		}
	}
	return string(out)
}

func (r *Reconstructor) observe(u morse.Unit, frames int) {
	if r.obs != nil {
		r.obs.Observe(u, frames)
	}
}

func dev(n, band int) int {
	if n > band {
		return n - band
	}
	return band - n
}
