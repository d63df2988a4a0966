package timing

import (
	"errors"
	"fmt"
	"time"
)

// Limiter paces the emulation to real time, one call per frame.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame.
	// Returns immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// Frame timing of the DMG, in machine cycles.
const (
	CyclesPerFrame = 154 * 114
	CPUFrequency   = 1048576
)

// Limiter kinds accepted by New.
const (
	KindNone     = "none"
	KindTicker   = "ticker"
	KindAdaptive = "adaptive"
)

var ErrUnknownLimiter = errors.New("unknown limiter")

// New returns the limiter with the given name, running at speed times the
// hardware frame rate.
func New(kind string, speed float64) (Limiter, error) {
	if speed <= 0 {
		return nil, fmt.Errorf("invalid speed %v: must be positive", speed)
	}

	switch kind {
	case KindNone, "":
		return NoOp{}, nil
	case KindTicker:
		return NewTickerLimiter(speed), nil
	case KindAdaptive:
		return NewAdaptiveLimiter(speed), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLimiter, kind)
}

// NoOp doesn't limit, for headless runs.
type NoOp struct{}

func (NoOp) WaitForNextFrame() {}
func (NoOp) Reset()            {}

// TargetFPS calculates the exact Game Boy frame rate.
func TargetFPS() float64 {
	return float64(CPUFrequency) / float64(CyclesPerFrame)
}

// FrameDuration returns the target duration of a single frame at the given
// speed multiplier.
func FrameDuration(speed float64) time.Duration {
	return time.Duration(float64(time.Second) / (TargetFPS() * speed))
}
