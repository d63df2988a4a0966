package timing

import (
	"log/slog"
	"time"
)

const (
	// sleeps shorter than this are replaced by spinning
	spinThreshold = 2 * time.Millisecond
	// falling further behind than this drops the backlog
	maxLag = 5 * time.Millisecond
)

// AdaptiveLimiter sleeps for most of the frame and spins for the rest,
// scheduling frames on absolute deadlines so errors don't accumulate.
type AdaptiveLimiter struct {
	frameTime time.Duration
	next      time.Time
	frames    int64
	now       func() time.Time
}

func NewAdaptiveLimiter(speed float64) *AdaptiveLimiter {
	return &AdaptiveLimiter{
		frameTime: FrameDuration(speed),
		next:      time.Now(),
		now:       time.Now,
	}
}

func (a *AdaptiveLimiter) WaitForNextFrame() {
	wait := a.next.Sub(a.now())

	switch {
	case wait >= spinThreshold:
		time.Sleep(wait - time.Millisecond)
		fallthrough
	case wait > 0:
		for a.now().Before(a.next) {
		}
	case wait < -maxLag:
		slog.Debug("Frame limiter behind schedule, resyncing", "lag", -wait, "frame", a.frames)
		a.next = a.now()
	}

	a.next = a.next.Add(a.frameTime)
	a.frames++
}

func (a *AdaptiveLimiter) Reset() {
	a.next = a.now()
	a.frames = 0
}
