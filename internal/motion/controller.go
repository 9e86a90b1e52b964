// Package motion turns raw scroll progress into the smoothed, friction-weighted
// progress that the rest of the frame samples from.
package motion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/coreman2200/skyflight/internal/waypoint"
)

const (
	// MinFriction keeps progress creeping forward even on top of a waypoint.
	MinFriction = 0.1
	// EndThreshold is the smoothed progress that marks the journey as finished.
	EndThreshold = 0.95
)

// State is the per-frame output of the controller.
type State struct {
	Raw      float64 `json:"raw"`
	Progress float64 `json:"progress"`
	Friction float64 `json:"friction"`
	// Waypoint is the index of the waypoint that set Friction, -1 when none.
	Waypoint    int  `json:"waypoint"`
	EndedNow    bool `json:"-"`
	ScrolledNow bool `json:"-"`
}

// Controller owns the smoothed progress. It is not safe for concurrent use;
// one frame loop drives it.
type Controller struct {
	wps      *waypoint.Set
	progress float64
	friction float64
	started  bool
	scrolled bool
	ended    bool
}

// New returns a controller at progress 0. wps may be nil for a path with no
// waypoints.
func New(wps *waypoint.Set) *Controller {
	return &Controller{wps: wps, friction: 1}
}

// Friction maps a distance inside the activation radius onto [MinFriction, 1].
// Distances at or beyond the radius do not slow anything down.
func Friction(distance, radius float64) float64 {
	if !(distance < radius) {
		return 1
	}
	return math.Max(distance/radius, MinFriction)
}

// SetStarted opens or closes the start gate. While closed progress holds where
// it is, so it cannot leave 0 before the first start.
func (c *Controller) SetStarted(v bool) { c.started = v }

func (c *Controller) Started() bool { return c.started }

// Ended reports whether smoothed progress has ever crossed EndThreshold.
func (c *Controller) Ended() bool { return c.ended }

// Scrolled reports whether any scroll input has been seen while at the start.
func (c *Controller) Scrolled() bool { return c.scrolled }

func (c *Controller) Progress() float64 { return c.progress }

func (c *Controller) Friction() float64 { return c.friction }

// Reset returns to the initial state, keeping the start gate as is.
func (c *Controller) Reset() {
	c.progress = 0
	c.friction = 1
	c.scrolled = false
	c.ended = false
}

// Advance runs one frame. cameraPos must be the camera position from the
// previous frame; friction is measured from there.
func (c *Controller) Advance(raw, dt float64, cameraPos mgl64.Vec3) State {
	raw = clamp01(raw)
	if !(dt > 0) || math.IsInf(dt, 0) {
		dt = 0
	}
	st := State{Raw: raw, Friction: 1, Waypoint: -1}

	if !c.scrolled && c.progress <= 0 && raw > 0 {
		c.scrolled = true
		st.ScrolledNow = true
	}

	if c.wps != nil {
		if p, ok := c.wps.Last(cameraPos); ok {
			st.Friction = Friction(p.Distance, c.wps.Radius())
			st.Waypoint = p.Index
		}
	}

	target := raw
	if !c.started {
		target = c.progress
	}
	prev := c.progress
	next := clamp01(prev + (target-prev)*math.Min(dt*st.Friction, 1))
	c.progress = next
	c.friction = st.Friction

	if !c.ended && prev <= EndThreshold && next > EndThreshold {
		c.ended = true
		st.EndedNow = true
	}
	st.Progress = next
	return st
}

func clamp01(x float64) float64 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
