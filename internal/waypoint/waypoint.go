// Package waypoint holds the fixed points of interest along the path and the
// proximity queries that drive friction, the camera rail and text overlays.
package waypoint

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Waypoint is a point of interest. RailOffset is the lateral camera shift
// applied at full strength when the camera sits exactly on Position.
type Waypoint struct {
	Position   mgl64.Vec3 `json:"position"`
	RailOffset float64    `json:"railOffset"`
	Title      string     `json:"title,omitempty"`
	Subtitle   string     `json:"subtitle,omitempty"`
}

// Proximity describes one waypoint within range of a query position.
type Proximity struct {
	Index    int      `json:"index"`
	Waypoint Waypoint `json:"waypoint"`
	Distance float64  `json:"distance"`
	// Strength is 1 on the waypoint and falls to 0 at the radius.
	Strength float64 `json:"strength"`
}

// Set is an ordered, immutable collection sharing one activation radius.
type Set struct {
	radius float64
	wps    []Waypoint
}

func NewSet(radius float64, wps []Waypoint) (*Set, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("waypoint: activation radius must be positive and finite, got %v", radius)
	}
	s := &Set{radius: radius, wps: make([]Waypoint, len(wps))}
	copy(s.wps, wps)
	return s, nil
}

func (s *Set) Radius() float64 { return s.radius }

func (s *Set) Len() int { return len(s.wps) }

// At returns waypoint i.
func (s *Set) At(i int) Waypoint { return s.wps[i] }

// All returns a copy of the waypoints in order.
func (s *Set) All() []Waypoint {
	out := make([]Waypoint, len(s.wps))
	copy(out, s.wps)
	return out
}

// Active returns every waypoint strictly inside the radius of pos, in set order.
func (s *Set) Active(pos mgl64.Vec3) []Proximity {
	var out []Proximity
	for i, w := range s.wps {
		if p, ok := s.proximity(i, w, pos); ok {
			out = append(out, p)
		}
	}
	return out
}

// Last returns the last in-range waypoint in set order. Overlapping ranges
// are not combined: a later match replaces an earlier one.
func (s *Set) Last(pos mgl64.Vec3) (Proximity, bool) {
	var (
		last  Proximity
		found bool
	)
	for i, w := range s.wps {
		if p, ok := s.proximity(i, w, pos); ok {
			last, found = p, true
		}
	}
	return last, found
}

func (s *Set) proximity(i int, w Waypoint, pos mgl64.Vec3) (Proximity, bool) {
	d := pos.Sub(w.Position).Len()
	if !(d < s.radius) {
		return Proximity{}, false
	}
	return Proximity{Index: i, Waypoint: w, Distance: d, Strength: 1 - d/s.radius}, true
}
