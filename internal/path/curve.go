// Package path samples the fixed flight path as an open Catmull-Rom spline.
package path

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type CurveType int

const (
	// CatmullRom is the uniform variant weighted by Tension.
	CatmullRom CurveType = iota
	// Centripetal parameterizes knots by distance^0.25.
	Centripetal
	// Chordal parameterizes knots by distance^0.5.
	Chordal
)

func (c CurveType) String() string {
	switch c {
	case CatmullRom:
		return "catmullrom"
	case Centripetal:
		return "centripetal"
	case Chordal:
		return "chordal"
	}
	return fmt.Sprintf("CurveType(%d)", int(c))
}

// ParseType reads a curve type name as written in config files. "" is CatmullRom.
func ParseType(name string) (CurveType, error) {
	switch name {
	case "", "catmullrom":
		return CatmullRom, nil
	case "centripetal":
		return Centripetal, nil
	case "chordal":
		return Chordal, nil
	}
	return CatmullRom, fmt.Errorf("path: unknown curve type %q", name)
}

// DefaultTension matches the usual open-curve authoring default.
const DefaultTension = 0.5

// tangentDelta is the parameter step used for central differences.
const tangentDelta = 1e-4

var ErrTooFewPoints = errors.New("path: need at least 2 control points")

type Option func(*Curve)

func WithType(t CurveType) Option { return func(c *Curve) { c.kind = t } }

func WithTension(tension float64) Option { return func(c *Curve) { c.tension = tension } }

// Curve is immutable once built and safe for concurrent reads.
type Curve struct {
	pts     []mgl64.Vec3
	kind    CurveType
	tension float64
}

func New(points []mgl64.Vec3, opts ...Option) (*Curve, error) {
	if len(points) < 2 {
		return nil, ErrTooFewPoints
	}
	c := &Curve{
		pts:     make([]mgl64.Vec3, len(points)),
		kind:    CatmullRom,
		tension: DefaultTension,
	}
	for i, p := range points {
		if !finiteVec(p) {
			return nil, fmt.Errorf("path: control point %d is not finite: %v", i, p)
		}
		c.pts[i] = p
	}
	for _, o := range opts {
		o(c)
	}
	if c.kind < CatmullRom || c.kind > Chordal {
		return nil, fmt.Errorf("path: unknown curve type %v", c.kind)
	}
	if !finite(c.tension) {
		return nil, fmt.Errorf("path: tension must be finite, got %v", c.tension)
	}
	return c, nil
}

func (c *Curve) Len() int { return len(c.pts) }

func (c *Curve) Type() CurveType { return c.kind }

func (c *Curve) Tension() float64 { return c.tension }

// Points returns a copy of the control points.
func (c *Curve) Points() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(c.pts))
	copy(out, c.pts)
	return out
}

// PointAt samples the curve at t, clamped to [0,1].
func (c *Curve) PointAt(t float64) mgl64.Vec3 {
	i, w := c.segment(Clamp01(t))
	p0, p1, p2, p3 := c.neighbours(i)

	var cx, cy, cz cubic
	switch c.kind {
	case Centripetal, Chordal:
		pow := 0.25
		if c.kind == Chordal {
			pow = 0.5
		}
		dt0 := math.Pow(p0.Sub(p1).LenSqr(), pow)
		dt1 := math.Pow(p1.Sub(p2).LenSqr(), pow)
		dt2 := math.Pow(p2.Sub(p3).LenSqr(), pow)
		// guard repeated points
		if dt1 < 1e-4 {
			dt1 = 1
		}
		if dt0 < 1e-4 {
			dt0 = dt1
		}
		if dt2 < 1e-4 {
			dt2 = dt1
		}
		cx = nonuniform(p0[0], p1[0], p2[0], p3[0], dt0, dt1, dt2)
		cy = nonuniform(p0[1], p1[1], p2[1], p3[1], dt0, dt1, dt2)
		cz = nonuniform(p0[2], p1[2], p2[2], p3[2], dt0, dt1, dt2)
	default:
		cx = uniform(p0[0], p1[0], p2[0], p3[0], c.tension)
		cy = uniform(p0[1], p1[1], p2[1], p3[1], c.tension)
		cz = uniform(p0[2], p1[2], p2[2], p3[2], c.tension)
	}
	return mgl64.Vec3{cx.at(w), cy.at(w), cz.at(w)}
}

// TangentAt returns the unit direction of travel at t.
func (c *Curve) TangentAt(t float64) mgl64.Vec3 {
	t = Clamp01(t)
	t1 := Clamp01(t - tangentDelta)
	t2 := Clamp01(t + tangentDelta)
	d := c.PointAt(t2).Sub(c.PointAt(t1))
	if l := d.Len(); l > 1e-12 && finite(l) {
		return d.Mul(1 / l)
	}
	// zero-speed sample: use the chord of the enclosing segment
	i, _ := c.segment(t)
	d = c.pts[i+1].Sub(c.pts[i])
	if l := d.Len(); l > 1e-12 && finite(l) {
		return d.Mul(1 / l)
	}
	return mgl64.Vec3{0, 0, -1}
}

// segment maps t in [0,1] onto a segment index and the local weight.
func (c *Curve) segment(t float64) (int, float64) {
	n := len(c.pts)
	p := float64(n-1) * t
	i := int(math.Floor(p))
	w := p - float64(i)
	if i >= n-1 {
		i, w = n-2, 1
	}
	return i, w
}

func (c *Curve) neighbours(i int) (p0, p1, p2, p3 mgl64.Vec3) {
	n := len(c.pts)
	p1, p2 = c.pts[i], c.pts[i+1]
	if i > 0 {
		p0 = c.pts[i-1]
	} else {
		p0 = p1.Mul(2).Sub(p2)
	}
	if i+2 < n {
		p3 = c.pts[i+2]
	} else {
		p3 = c.pts[n-1].Mul(2).Sub(c.pts[n-2])
	}
	return
}

// cubic holds c0 + c1*t + c2*t^2 + c3*t^3.
type cubic struct{ c0, c1, c2, c3 float64 }

func (p cubic) at(t float64) float64 {
	t2 := t * t
	return p.c0 + p.c1*t + p.c2*t2 + p.c3*t2*t
}

func hermite(x0, x1, t0, t1 float64) cubic {
	return cubic{
		c0: x0,
		c1: t0,
		c2: -3*x0 + 3*x1 - 2*t0 - t1,
		c3: 2*x0 - 2*x1 + t0 + t1,
	}
}

func uniform(x0, x1, x2, x3, tension float64) cubic {
	return hermite(x1, x2, tension*(x2-x0), tension*(x3-x1))
}

func nonuniform(x0, x1, x2, x3, dt0, dt1, dt2 float64) cubic {
	t1 := (x1-x0)/dt0 - (x2-x0)/(dt0+dt1) + (x2-x1)/dt1
	t2 := (x2-x1)/dt1 - (x3-x1)/(dt1+dt2) + (x3-x2)/dt2
	return hermite(x1, x2, t1*dt1, t2*dt1)
}

// Clamp01 clamps t to [0,1]; NaN maps to 0.
func Clamp01(t float64) float64 {
	if !(t > 0) {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func finiteVec(v mgl64.Vec3) bool { return finite(v[0]) && finite(v[1]) && finite(v[2]) }
