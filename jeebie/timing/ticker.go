package timing

import "time"

// TickerLimiter uses time.Ticker for simple, consistent frame timing.
// Less accurate than AdaptiveLimiter but simpler and good enough for most cases.
type TickerLimiter struct {
	ticker   *time.Ticker
	duration time.Duration
}

func NewTickerLimiter(speed float64) *TickerLimiter {
	d := FrameDuration(speed)
	return &TickerLimiter{
		ticker:   time.NewTicker(d),
		duration: d,
	}
}

func (t *TickerLimiter) WaitForNextFrame() {
	<-t.ticker.C
}

func (t *TickerLimiter) Reset() {
	t.ticker.Reset(t.duration)
}

func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
