// Package stats tracks classified run lengths per channel so the TUI can show
// how well the observed timing matches the shared config.
package stats

import (
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/jrwynneiii/morsecast/config"
	"github.com/jrwynneiii/morsecast/morse"
)

// Channel accumulates the classified runs of one disc channel.
type Channel struct {
	mu       sync.Mutex
	dotLens  []float64
	dashLens []float64
	gapLens  []float64
	onFrames int
	frames   int
	recent   []float64
}

const recentRuns = 128

// Observe records one committed run. Safe for concurrent use with the
// reporting methods.
func (c *Channel) Observe(u morse.Unit, frames int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.frames += frames
	switch u {
	case morse.Dot:
		c.onFrames += frames
		c.dotLens = append(c.dotLens, float64(frames))
	case morse.Dash:
		c.onFrames += frames
		c.dashLens = append(c.dashLens, float64(frames))
	default:
		c.gapLens = append(c.gapLens, float64(frames))
	}

	c.recent = append(c.recent, float64(frames))
	if len(c.recent) > recentRuns {
		c.recent = c.recent[len(c.recent)-recentRuns:]
	}
}

type Summary struct {
	DotMean    float64
	DotStdDev  float64
	DashMean   float64
	DashStdDev float64
	// Duty is the fraction of observed frames with the disc on.
	Duty float64
	Runs int
}

func meanStd(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	m := stat.Mean(xs, nil)
	if len(xs) < 2 {
		return m, 0
	}
	return m, stat.StdDev(xs, nil)
}

func (c *Channel) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Summary{Runs: len(c.dotLens) + len(c.dashLens) + len(c.gapLens)}
	s.DotMean, s.DotStdDev = meanStd(c.dotLens)
	s.DashMean, s.DashStdDev = meanStd(c.dashLens)
	if c.frames > 0 {
		s.Duty = float64(c.onFrames) / float64(c.frames)
	}
	return s
}

// Quality scores 0-100 how close observed dot and dash runs sit to their
// configured bands, normalized by half the dot/dash spacing (a run halfway
// between bands scores zero). No observed runs scores 100.
func (c *Channel) Quality(timing config.TimingConf) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	half := float64(timing.DashFrames-timing.DotFrames) / 2
	if half <= 0 {
		half = 1
	}

	var total float64
	n := 0
	for _, l := range c.dotLens {
		total += dev(l, float64(timing.DotFrames)) / half
		n++
	}
	for _, l := range c.dashLens {
		total += dev(l, float64(timing.DashFrames)) / half
		n++
	}
	if n == 0 {
		return 100
	}
	q := 100 * (1 - total/float64(n))
	if q < 0 {
		return 0
	}
	if q > 100 {
		return 100
	}
	return q
}

// Recent returns up to n most recent run lengths, oldest first, for plotting.
func (c *Channel) Recent(n int) []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n > len(c.recent) {
		n = len(c.recent)
	}
	out := make([]float64, n)
	copy(out, c.recent[len(c.recent)-n:])
	return out
}

func dev(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
