package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTickReportsOncePerInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithClock(clock.now), WithQuiet(true), WithInterval(time.Second))

	frames := []time.Duration{100 * time.Millisecond, 300 * time.Millisecond, 200 * time.Millisecond}
	for _, d := range frames {
		clock.advance(d)
		_, ok := p.Tick()
		assert.False(t, ok)
	}

	clock.advance(400 * time.Millisecond)
	stats, ok := p.Tick()
	require.True(t, ok)
	assert.InDelta(t, 4.0, stats.FPS, 1e-9)
	assert.Equal(t, 100*time.Millisecond, stats.FrameMin)
	assert.Equal(t, 400*time.Millisecond, stats.FrameMax)
	assert.Greater(t, stats.SysMB, 0.0)

	clock.advance(50 * time.Millisecond)
	_, ok = p.Tick()
	assert.False(t, ok, "window restarts after a report")
}

func TestOptionsIgnoreInvalidValues(t *testing.T) {
	p := NewProfiler(WithInterval(-1), WithClock(nil), WithLabel("ring"))
	assert.Equal(t, time.Second, p.updateInterval)
	assert.NotNil(t, p.now)
	assert.Equal(t, "ring", p.label)
}
