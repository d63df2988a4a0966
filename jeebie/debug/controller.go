package debug

import (
	"errors"

	"github.com/valerio/jeebie/jeebie/cpu"
)

// ErrQuit is returned by a controller when the operator ends the session.
var ErrQuit = errors.New("quit requested by operator")

// Controller decides where a session breaks and blocks while it is paused.
type Controller interface {
	// ShouldBreak is consulted at the trace gate, before the instruction at
	// pc executes.
	ShouldBreak(pc uint16, d cpu.Descriptor) bool
	// Await blocks until the operator resumes. A non-nil error ends the
	// session.
	Await(p Pause) error
}

// Nop never breaks and never waits.
type Nop struct{}

func (Nop) ShouldBreak(uint16, cpu.Descriptor) bool { return false }
func (Nop) Await(Pause) error                       { return nil }

// Breakpoints is a set of PC breakpoints.
type Breakpoints map[uint16]struct{}

// NewBreakpoints returns a set holding the given addresses.
func NewBreakpoints(pcs ...uint16) Breakpoints {
	b := make(Breakpoints, len(pcs))
	for _, pc := range pcs {
		b.Add(pc)
	}
	return b
}

func (b Breakpoints) Add(pc uint16)    { b[pc] = struct{}{} }
func (b Breakpoints) Remove(pc uint16) { delete(b, pc) }

func (b Breakpoints) ShouldBreak(pc uint16, _ cpu.Descriptor) bool {
	_, ok := b[pc]
	return ok
}

// Recorder breaks on its breakpoints and records every pause without
// blocking. Records are copied, so they stay valid after the step.
type Recorder struct {
	Breakpoints Breakpoints
	// Quit makes Await fail once this many pauses were recorded, 0 never.
	Quit int

	Pauses []RecordedPause
}

// RecordedPause is a pause as seen by a Recorder.
type RecordedPause struct {
	Point  Point
	Record *Record
	Flags  Flags
}

func NewRecorder(pcs ...uint16) *Recorder {
	return &Recorder{Breakpoints: NewBreakpoints(pcs...)}
}

func (r *Recorder) ShouldBreak(pc uint16, d cpu.Descriptor) bool {
	return r.Breakpoints.ShouldBreak(pc, d)
}

func (r *Recorder) Await(p Pause) error {
	rp := RecordedPause{Point: p.Point}
	if p.Record != nil {
		rec := *p.Record
		rp.Record = &rec
	}
	if p.Flags != nil {
		rp.Flags = *p.Flags
	}
	r.Pauses = append(r.Pauses, rp)

	if r.Quit > 0 && len(r.Pauses) >= r.Quit {
		return ErrQuit
	}
	return nil
}

// Points returns the point of every recorded pause, in order.
func (r *Recorder) Points() []Point {
	points := make([]Point, len(r.Pauses))
	for i, p := range r.Pauses {
		points[i] = p.Point
	}
	return points
}
