package reconstruct

import (
	"sync/atomic"
	"time"

	"github.com/jrwynneiii/morsecast/mux"
)

// Pump drives a Decoder from a buffered stream of per-frame detections. The
// loop does one decoder step per frame, so pausing simply stops consuming:
// queued frames wait, run counters keep their place, and resuming picks up
// exactly where the stream left off.
type Pump struct {
	DetectionsInput chan [mux.NumChannels]bool

	decoder  *Decoder
	paused   atomic.Bool
	stopping atomic.Bool
	done     chan struct{}
}

func NewPump(decoder *Decoder, bufsize uint) *Pump {
	return &Pump{
		DetectionsInput: make(chan [mux.NumChannels]bool, bufsize),
		decoder:         decoder,
		done:            make(chan struct{}),
	}
}

// Start consumes frames until the input channel closes or Stop is called.
// Run it in its own goroutine.
func (p *Pump) Start() {
	defer close(p.done)
	for {
		if p.stopping.Load() {
			return
		}
		if p.paused.Load() {
			time.Sleep(time.Millisecond)
			continue
		}
		select {
		case detections, ok := <-p.DetectionsInput:
			if !ok {
				p.decoder.Flush()
				return
			}
			p.decoder.StepFrame(detections)
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func (p *Pump) Pause()       { p.paused.Store(true) }
func (p *Pump) Resume()      { p.paused.Store(false) }
func (p *Pump) Paused() bool { return p.paused.Load() }

// Stop cancels the decode early, waits for the loop to exit and flushes the
// in-progress runs so the partial message is still recoverable.
func (p *Pump) Stop() {
	p.stopping.Store(true)
	<-p.done
	p.decoder.Flush()
}

// Done reports loop exit, either from Stop or input exhaustion.
func (p *Pump) Done() <-chan struct{} {
	return p.done
}
