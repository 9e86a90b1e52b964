package motion

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/skyflight/internal/waypoint"
)

const frame = 1.0 / 60

func started(wps *waypoint.Set) *Controller {
	c := New(wps)
	c.SetStarted(true)
	return c
}

func TestFrictionRange(t *testing.T) {
	const r = 42.0
	for d := 0.0; d <= r; d += 0.5 {
		f := Friction(d, r)
		assert.GreaterOrEqual(t, f, MinFriction, "d=%v", d)
		assert.LessOrEqual(t, f, 1.0, "d=%v", d)
	}
	assert.Equal(t, 1.0, Friction(r, r))
	assert.Equal(t, 1.0, Friction(r+0.01, r))
	assert.Equal(t, 1.0, Friction(1e6, r))
}

func TestFrictionFloorAtZeroDistance(t *testing.T) {
	assert.Equal(t, 0.1, Friction(0, 42))

	wps, err := waypoint.NewSet(42, []waypoint.Waypoint{{Position: mgl64.Vec3{0, 0, -5}}})
	require.NoError(t, err)
	c := started(wps)
	st := c.Advance(1, frame, mgl64.Vec3{0, 0, -5})
	assert.Equal(t, 0.1, st.Friction)
	assert.Equal(t, 0, st.Waypoint)
}

func TestNoWaypointMeansUnitFriction(t *testing.T) {
	wps, err := waypoint.NewSet(42, []waypoint.Waypoint{{Position: mgl64.Vec3{0, 0, -500}}})
	require.NoError(t, err)
	c := started(wps)
	st := c.Advance(0.5, frame, mgl64.Vec3{})
	assert.Equal(t, 1.0, st.Friction)
	assert.Equal(t, -1, st.Waypoint)
}

func TestLastMatchingWaypointWins(t *testing.T) {
	wps, err := waypoint.NewSet(42, []waypoint.Waypoint{
		{Position: mgl64.Vec3{0, 0, 0}},
		{Position: mgl64.Vec3{0, 0, -21}},
	})
	require.NoError(t, err)
	c := started(wps)
	// 1 unit from the first, 20 from the second: the second decides
	st := c.Advance(1, frame, mgl64.Vec3{0, 0, -1})
	assert.InDelta(t, 20.0/42, st.Friction, 1e-12)
	assert.Equal(t, 1, st.Waypoint)
}

func TestConvergesAtUnitFriction(t *testing.T) {
	c := started(nil)
	raw := 0.0
	for i := 0; i < 600; i++ {
		raw = math.Min(1, raw+0.002)
		c.Advance(raw, frame, mgl64.Vec3{})
	}
	for i := 0; i < 1200; i++ {
		c.Advance(raw, frame, mgl64.Vec3{})
	}
	assert.InDelta(t, raw, c.Progress(), 1e-6)
}

func TestJumpIsBoundedByRate(t *testing.T) {
	c := started(nil)
	c.Advance(0, 0.016, mgl64.Vec3{})
	st := c.Advance(1, 0.016, mgl64.Vec3{})
	assert.InDelta(t, 0.016, st.Progress, 1e-12)
	assert.Less(t, st.Progress, 0.05)
}

func TestRawIsClamped(t *testing.T) {
	c := started(nil)
	st := c.Advance(7, 0.5, mgl64.Vec3{})
	assert.Equal(t, 1.0, st.Raw)
	assert.InDelta(t, 0.5, st.Progress, 1e-12)

	st = c.Advance(math.NaN(), 0.5, mgl64.Vec3{})
	assert.Equal(t, 0.0, st.Raw)
	assert.InDelta(t, 0.25, st.Progress, 1e-12)

	// a huge frame cannot overshoot
	st = c.Advance(1, 10, mgl64.Vec3{})
	assert.Equal(t, 1.0, st.Progress)
}

func TestBadDeltaFreezes(t *testing.T) {
	c := started(nil)
	for _, dt := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		st := c.Advance(1, dt, mgl64.Vec3{})
		assert.Equal(t, 0.0, st.Progress, "dt=%v", dt)
	}
}

func TestStartGate(t *testing.T) {
	c := New(nil)
	for i := 0; i < 100; i++ {
		c.Advance(1, frame, mgl64.Vec3{})
	}
	assert.Equal(t, 0.0, c.Progress())
	c.SetStarted(true)
	c.Advance(1, frame, mgl64.Vec3{})
	assert.Greater(t, c.Progress(), 0.0)
}

func TestClosingGateHoldsProgress(t *testing.T) {
	c := started(nil)
	for i := 0; i < 600; i++ {
		c.Advance(0.5, frame, mgl64.Vec3{})
	}
	held := c.Progress()
	require.InDelta(t, 0.5, held, 1e-3)

	c.SetStarted(false)
	for i := 0; i < 600; i++ {
		c.Advance(0.5, frame, mgl64.Vec3{})
	}
	assert.Equal(t, held, c.Progress())
	// raw input moving while closed is ignored too
	c.Advance(1, frame, mgl64.Vec3{})
	assert.Equal(t, held, c.Progress())
}

func TestEndFiresOnce(t *testing.T) {
	c := started(nil)
	fired := 0
	for i := 0; i < 5000; i++ {
		if c.Advance(1, frame, mgl64.Vec3{}).EndedNow {
			fired++
		}
	}
	assert.Equal(t, 1, fired)
	assert.True(t, c.Ended())

	// going back below and above again does not re-fire
	for i := 0; i < 2000; i++ {
		if c.Advance(0, frame, mgl64.Vec3{}).EndedNow {
			fired++
		}
	}
	for i := 0; i < 2000; i++ {
		if c.Advance(1, frame, mgl64.Vec3{}).EndedNow {
			fired++
		}
	}
	assert.Equal(t, 1, fired)
}

func TestScrolledOnce(t *testing.T) {
	c := New(nil)
	st := c.Advance(0, frame, mgl64.Vec3{})
	assert.False(t, st.ScrolledNow)
	st = c.Advance(0.1, frame, mgl64.Vec3{})
	assert.True(t, st.ScrolledNow)
	st = c.Advance(0.2, frame, mgl64.Vec3{})
	assert.False(t, st.ScrolledNow)
	assert.True(t, c.Scrolled())

	c.Reset()
	assert.False(t, c.Scrolled())
	assert.Equal(t, 1.0, c.Friction())
}
