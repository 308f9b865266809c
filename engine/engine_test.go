package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepRunsPendingRequestsOnce(t *testing.T) {
	e := NewEngine()
	var got []float32
	h := e.RequestFrame(func(dt float32) { got = append(got, dt) })
	assert.NotZero(t, h)
	assert.Equal(t, 1, e.Pending())

	assert.Equal(t, 1, e.Step(0.016))
	assert.Equal(t, 0, e.Step(0.016))
	assert.Equal(t, []float32{0.016}, got)
}

func TestReRequestRunsOnNextStep(t *testing.T) {
	e := NewEngine()
	count := 0
	var loop func(float32)
	loop = func(float32) {
		count++
		e.RequestFrame(loop)
	}
	e.RequestFrame(loop)

	e.Step(0.01)
	assert.Equal(t, 1, count)
	e.Step(0.01)
	assert.Equal(t, 2, count)
	assert.Equal(t, 1, e.Pending())
}

func TestCancelFrame(t *testing.T) {
	e := NewEngine()
	ran := false
	keep := false
	h := e.RequestFrame(func(float32) { ran = true })
	e.RequestFrame(func(float32) { keep = true })
	e.CancelFrame(h)
	e.CancelFrame(h)
	e.CancelFrame(0)

	assert.Equal(t, 1, e.Step(0.01))
	assert.False(t, ran)
	assert.True(t, keep)
	assert.Zero(t, e.RequestFrame(nil))
}

func TestPostRunsBeforeFrames(t *testing.T) {
	e := NewEngine()
	var order []string
	e.RequestFrame(func(float32) { order = append(order, "frame") })
	e.Post(func() { order = append(order, "post") })
	e.Post(nil)

	e.Step(0.01)
	assert.Equal(t, []string{"post", "frame"}, order)
}

func TestRunHeadlessDrivesFramesUntilQuit(t *testing.T) {
	e := NewEngine(WithRenderFrameLimit(0), WithTickRate(1000))
	var frames atomic.Int32
	var ticks atomic.Int32
	e.SetTickCallback(func(float32) { ticks.Add(1) })

	var loop func(float32)
	loop = func(dt float32) {
		assert.Greater(t, dt, float32(0))
		if frames.Add(1) == 5 {
			e.Quit()
			return
		}
		e.RequestFrame(loop)
	}
	e.RequestFrame(loop)

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop")
	}
	assert.Equal(t, int32(5), frames.Load())
	select {
	case <-e.Done():
	default:
		t.Fatal("Done not closed")
	}
	e.Quit()
}

func TestFrameLimitAndTickRate(t *testing.T) {
	e := NewEngine(WithRenderFrameLimit(30), WithTickRate(-1)).(*engine)
	assert.Equal(t, time.Second/30, e.renderFrameLimit)
	assert.Equal(t, time.Second/60, e.engineTickRate)

	e.SetRenderFrameLimit(0)
	assert.Zero(t, e.renderFrameLimit)
	e.SetTickRate(120)
	assert.Equal(t, time.Second/120, e.engineTickRate)

	e.EnableProfiler()
	assert.True(t, e.profilingEnabled)
	e.DisableProfiler()
	assert.False(t, e.profilingEnabled)
	require.NotNil(t, e.profiler)
	assert.Nil(t, e.Window())
}
