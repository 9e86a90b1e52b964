// Package camera follows the path with a smoothed camera group and a lateral
// rail that swings out near waypoints.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/coreman2200/skyflight/internal/motion"
	"github.com/coreman2200/skyflight/internal/path"
	"github.com/coreman2200/skyflight/internal/waypoint"
)

const (
	// FollowRate is the exponential rate at which position and look chase the path.
	FollowRate = 24.0
	// LookAhead is the progress offset of the look-at sample.
	LookAhead = 0.008
)

// Pose is the camera state published each frame. LookDirection is a unit
// vector; RailOffset is local to the camera group.
type Pose struct {
	Position      mgl64.Vec3 `json:"position"`
	LookDirection mgl64.Vec3 `json:"lookDirection"`
	LookTarget    mgl64.Vec3 `json:"lookTarget"`
	RailOffset    mgl64.Vec3 `json:"railOffset"`
	// Heading is the unsmoothed direction toward the look-ahead sample.
	Heading mgl64.Vec3 `json:"heading"`
}

type Rig struct {
	curve *path.Curve
	wps   *waypoint.Set
	pose  Pose
}

// NewRig places the camera at the start of the curve looking down its first chord.
func NewRig(curve *path.Curve, wps *waypoint.Set) *Rig {
	r := &Rig{curve: curve, wps: wps}
	r.Reset()
	return r
}

func (r *Rig) Reset() {
	start := r.curve.PointAt(0)
	look := r.curve.TangentAt(0)
	if d := r.curve.PointAt(LookAhead).Sub(start); d.Len() > 1e-9 {
		look = d.Normalize()
	}
	r.pose = Pose{
		Position:      start,
		LookDirection: look,
		LookTarget:    start.Add(look),
		Heading:       look,
	}
}

// Pose returns the pose computed by the last Update.
func (r *Rig) Pose() Pose { return r.pose }

// Position is the camera group position of the previous frame, which is where
// waypoint proximity is measured from.
func (r *Rig) Position() mgl64.Vec3 { return r.pose.Position }

// Update advances the rig one frame from the smoothed motion state.
func (r *Rig) Update(m motion.State, dt float64) Pose {
	if !(dt > 0) || math.IsInf(dt, 0) {
		dt = 0
	}
	prev := r.pose
	next := prev

	// rail is measured from where the camera was, before it moves this frame
	rail := mgl64.Vec3{}
	if r.wps != nil {
		if p, ok := r.wps.Last(prev.Position); ok {
			rail = mgl64.Vec3{p.Strength * p.Waypoint.RailOffset, 0, 0}
		}
	}
	next.RailOffset = lerpVec(prev.RailOffset, rail, math.Min(dt, 1))

	follow := math.Min(dt*FollowRate, 1)
	cur := r.curve.PointAt(m.Progress)
	next.Position = lerpVec(prev.Position, cur, follow)

	ahead := r.curve.PointAt(math.Min(m.Progress+LookAhead, 1))
	if h := ahead.Sub(cur); finiteVec(h) && h.Len() > 1e-9 {
		next.Heading = h.Normalize()
	}
	if look := lerpVec(prev.LookDirection, next.Heading, follow); finiteVec(look) && look.Len() > 1e-9 {
		next.LookDirection = look.Normalize()
	}
	next.LookTarget = next.Position.Add(next.LookDirection)

	if !finiteVec(next.Position) || !finiteVec(next.RailOffset) {
		return prev
	}
	r.pose = next
	return next
}

func lerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func finiteVec(v mgl64.Vec3) bool {
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
