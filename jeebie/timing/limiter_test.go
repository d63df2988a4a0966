package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRate(t *testing.T) {
	assert.Equal(t, 17556, CyclesPerFrame)
	assert.InDelta(t, 59.73, TargetFPS(), 0.01)
	assert.InDelta(t, float64(16742*time.Microsecond), float64(FrameDuration(1)), float64(5*time.Microsecond))
	assert.InDelta(t, float64(FrameDuration(1)/2), float64(FrameDuration(2)), float64(time.Microsecond))
}

func TestNew(t *testing.T) {
	tests := []struct {
		kind string
		want any
	}{
		{"", NoOp{}},
		{KindNone, NoOp{}},
		{KindTicker, &TickerLimiter{}},
		{KindAdaptive, &AdaptiveLimiter{}},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			l, err := New(tt.kind, 1)
			require.NoError(t, err)
			assert.IsType(t, tt.want, l)
			if ticker, ok := l.(*TickerLimiter); ok {
				ticker.Stop()
			}
		})
	}

	t.Run("unknown kind", func(t *testing.T) {
		_, err := New("vsync", 1)
		assert.ErrorIs(t, err, ErrUnknownLimiter)
	})

	t.Run("invalid speed", func(t *testing.T) {
		_, err := New(KindAdaptive, 0)
		assert.Error(t, err)
	})
}

func TestAdaptiveLimiter(t *testing.T) {
	t.Run("resyncs when far behind", func(t *testing.T) {
		now := time.Unix(100, 0)
		a := NewAdaptiveLimiter(1)
		a.now = func() time.Time { return now }
		a.next = now.Add(-time.Second)

		a.WaitForNextFrame()

		assert.Equal(t, now.Add(a.frameTime), a.next)
		assert.Equal(t, int64(1), a.frames)
	})

	t.Run("keeps a small lag", func(t *testing.T) {
		now := time.Unix(100, 0)
		a := NewAdaptiveLimiter(1)
		a.now = func() time.Time { return now }
		behind := now.Add(-time.Millisecond)
		a.next = behind

		a.WaitForNextFrame()

		assert.Equal(t, behind.Add(a.frameTime), a.next)
	})

	t.Run("reset", func(t *testing.T) {
		now := time.Unix(100, 0)
		a := NewAdaptiveLimiter(1)
		a.now = func() time.Time { return now }
		a.frames = 10

		a.Reset()

		assert.Equal(t, now, a.next)
		assert.Zero(t, a.frames)
	})
}
