package anim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/chatsurface/internal/geom"
)

var t0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestDisplayLink_ImmediateCompletesSynchronously(t *testing.T) {
	d := NewDisplayLink()
	n := NewNode(geom.Rect{W: 10, H: 2})

	done := false
	d.UpdateFrame(n, geom.Rect{Y: 5, W: 10, H: 2}, Immediate, func(finished bool) {
		done = finished
	})

	assert.True(t, done)
	assert.Equal(t, 5, n.Frame.Y)
	assert.False(t, d.Active())
}

func TestDisplayLink_AnimatedCompletesOnLaterTick(t *testing.T) {
	d := NewDisplayLink()
	n := NewNode(geom.Rect{Y: 0, W: 10, H: 2})
	tr := Animated(100*time.Millisecond, CurveEaseInOut)

	done := false
	d.UpdateFrame(n, geom.Rect{Y: 20, W: 10, H: 2}, tr, func(bool) { done = true })
	require.False(t, done)
	require.True(t, d.Active())

	d.Tick(t0)
	assert.Equal(t, 0, n.Frame.Y, "first tick starts the clock")

	d.Tick(t0.Add(50 * time.Millisecond))
	assert.Greater(t, n.Frame.Y, 0)
	assert.Less(t, n.Frame.Y, 20)
	assert.False(t, done)

	d.Tick(t0.Add(100 * time.Millisecond))
	assert.Equal(t, 20, n.Frame.Y)
	assert.True(t, done)
	assert.False(t, d.Active())
}

func TestDisplayLink_SpringReachesTarget(t *testing.T) {
	d := NewDisplayLink()
	n := NewNode(geom.Rect{W: 10, H: 2})
	tr := Animated(400*time.Millisecond, CurveSpring)

	d.UpdateAlpha(n, 0, tr, nil)
	for i := 0; i <= 25; i++ {
		d.Tick(t0.Add(time.Duration(i) * 16 * time.Millisecond))
	}
	assert.Equal(t, 0.0, n.Alpha)
	assert.False(t, n.Animating())
}

func TestDisplayLink_SupersededAnimationCompletesUnfinished(t *testing.T) {
	d := NewDisplayLink()
	n := NewNode(geom.Rect{W: 10, H: 2})
	tr := Animated(100*time.Millisecond, CurveEaseInOut)

	var first []bool
	d.UpdateFrame(n, geom.Rect{Y: 10, W: 10, H: 2}, tr, func(finished bool) { first = append(first, finished) })
	d.UpdateFrame(n, geom.Rect{Y: 3, W: 10, H: 2}, tr, nil)

	assert.Equal(t, []bool{false}, first)

	d.Tick(t0)
	d.Tick(t0.Add(time.Second))
	assert.Equal(t, 3, n.Frame.Y)
	assert.Equal(t, []bool{false}, first, "superseded completion must not fire twice")
}

func TestDisplayLink_ScheduledCallbacksRunOnNextTick(t *testing.T) {
	d := NewDisplayLink()
	var order []string
	d.Schedule(func() {
		order = append(order, "a")
		d.Schedule(func() { order = append(order, "c") })
	})
	d.Schedule(func() { order = append(order, "b") })

	d.Tick(t0)
	assert.Equal(t, []string{"a", "b"}, order)
	d.Tick(t0.Add(time.Millisecond))
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestJoin(t *testing.T) {
	calls := 0
	j := NewJoin(func() { calls++ })
	j.First(true)
	assert.Equal(t, 0, calls)
	j.Second(false)
	assert.Equal(t, 1, calls)
	j.First(true)
	assert.Equal(t, 1, calls, "join fires once")
	assert.True(t, j.Fired())

	cancelled := NewJoin(func() { calls++ })
	cancelled.First(true)
	cancelled.Cancel()
	cancelled.SecondDone()
	assert.Equal(t, 1, calls)
	assert.False(t, cancelled.Pending())
}
