// Package actor banks the airplane into upcoming turns of the path.
package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/coreman2200/skyflight/internal/motion"
	"github.com/coreman2200/skyflight/internal/path"
)

const (
	// LookAhead is larger than the camera's so the actor leans into turns first.
	LookAhead = 0.02
	// MaxBankDeg bounds the roll on either side.
	MaxBankDeg = 35.0
	// BankGain exaggerates the geometric turn rate.
	BankGain = 2.4
	// SlerpRate is slower than the camera follow so the roll feels heavy.
	SlerpRate = 2.0
)

// Pose is the actor's orientation after smoothing. Bank is the clamped target
// roll in radians that the orientation is chasing.
type Pose struct {
	Orientation mgl64.Quat
	Bank        float64
}

type Orientation struct {
	curve *path.Curve
	pose  Pose
}

func New(curve *path.Curve) *Orientation {
	return &Orientation{curve: curve, pose: Pose{Orientation: mgl64.QuatIdent()}}
}

func (o *Orientation) Pose() Pose { return o.pose }

func (o *Orientation) Reset() { o.pose = Pose{Orientation: mgl64.QuatIdent()} }

// Update slerps the orientation toward the bank implied by the path ahead.
// heading is the camera's unsmoothed travel direction for this frame.
func (o *Orientation) Update(m motion.State, dt float64, heading mgl64.Vec3) Pose {
	if !(dt > 0) || math.IsInf(dt, 0) {
		dt = 0
	}
	prev := o.pose

	tangent := o.curve.TangentAt(m.Progress + LookAhead)
	bank := BankAngle(tangent, Yaw(heading))
	if math.IsNaN(bank) || math.IsInf(bank, 0) {
		return prev
	}

	pitch, yaw, _ := EulerXYZ(prev.Orientation)
	target := mgl64.AnglesToQuat(pitch, yaw, bank, mgl64.XYZ)

	q := Slerp(prev.Orientation, target, math.Min(dt*SlerpRate, 1))
	if !finiteQuat(q) {
		return prev
	}
	o.pose = Pose{Orientation: q, Bank: bank}
	return o.pose
}

// Yaw is the rotation about +Y of a group whose +Z faces back along heading.
func Yaw(heading mgl64.Vec3) float64 {
	back := heading.Mul(-1)
	if l := back.Len(); l > 1e-12 {
		back = back.Mul(1 / l)
	}
	return math.Asin(clamp(back.X(), -1, 1))
}

// BankAngle returns the roll in radians for a path tangent once the given yaw
// has been removed from it.
func BankAngle(tangent mgl64.Vec3, yaw float64) float64 {
	t := mgl64.Rotate3DY(-yaw).Mul3x1(tangent)

	deg := (math.Atan2(-t.Z(), t.X()) - math.Pi/2) * 180 / math.Pi
	deg *= BankGain

	if deg < 0 {
		deg = math.Max(deg, -MaxBankDeg)
	}
	if deg > 0 {
		deg = math.Min(deg, MaxBankDeg)
	}
	return deg * math.Pi / 180
}

// Slerp interpolates along the shorter arc between a and b.
func Slerp(a, b mgl64.Quat, t float64) mgl64.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl64.QuatSlerp(a, b, clamp(t, 0, 1)).Normalize()
}

// EulerXYZ decomposes q into intrinsic X, Y, Z angles.
func EulerXYZ(q mgl64.Quat) (x, y, z float64) {
	m := q.Normalize().Mat4()
	m11, m12, m13 := m.At(0, 0), m.At(0, 1), m.At(0, 2)
	m22, m23 := m.At(1, 1), m.At(1, 2)
	m32, m33 := m.At(2, 1), m.At(2, 2)

	y = math.Asin(clamp(m13, -1, 1))
	if math.Abs(m13) < 0.9999999 {
		x = math.Atan2(-m23, m33)
		z = math.Atan2(-m12, m11)
	} else {
		x = math.Atan2(m32, m22)
	}
	return x, y, z
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func finiteQuat(q mgl64.Quat) bool {
	for _, f := range [4]float64{q.W, q.V[0], q.V[1], q.V[2]} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
