// Package journey holds the authored flight: path, waypoints, sky keyframes
// and the intro animation.
package journey

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/coreman2200/skyflight/internal/path"
	"github.com/coreman2200/skyflight/internal/sequence"
	"github.com/coreman2200/skyflight/internal/sky"
	"github.com/coreman2200/skyflight/internal/waypoint"
)

const (
	// SegmentLength is the forward spacing of control points along -Z.
	SegmentLength = 250.0
	// ActivationRadius is shared by every waypoint.
	ActivationRadius = 42.0

	// Intro parameter names emitted by the intro program.
	ParamActorY = "actor.y"
	ParamActorZ = "actor.z"
)

type Journey struct {
	Curve     *path.Curve
	Waypoints *waypoint.Set
	Timeline  *sequence.Timeline
	Intro     sequence.Program
}

func ControlPoints() []mgl64.Vec3 {
	d := SegmentLength
	return []mgl64.Vec3{
		{0, 0, 0},
		{0, 0, -d},
		{100, 0, -2 * d},
		{-100, 0, -3 * d},
		{100, 0, -4 * d},
		{0, 0, -5 * d},
		{0, 0, -6 * d},
		{0, 0, -7 * d},
	}
}

// Waypoints sit just off the control points so the rail swings toward the text.
func Waypoints() []waypoint.Waypoint {
	cp := ControlPoints()
	return []waypoint.Waypoint{
		{
			Position:   cp[1].Add(mgl64.Vec3{-3, 0, 0}),
			RailOffset: -1,
			Subtitle:   "Welcome aboard. Fasten your seatbelt and prepare for a flight through the endless sky.",
		},
		{
			Position:   cp[2].Add(mgl64.Vec3{2, 0, 0}),
			RailOffset: 1.5,
			Title:      "Above the Clouds",
			Subtitle:   "Soaring through layers of light, where the horizon stretches beyond what eyes can reach.",
		},
		{
			Position:   cp[3].Add(mgl64.Vec3{-3, 0, 0}),
			RailOffset: -1,
			Title:      "Limitless Horizons",
			Subtitle:   "At cruising altitude, the world below fades away. Only the vast blue sky and silence remain.",
		},
		{
			Position:   cp[4].Add(mgl64.Vec3{3.5, 0, -12}),
			RailOffset: 1.5,
			Title:      "Final Approach",
			Subtitle:   "Every great journey leads to a new beginning. The sky remembers all who dared to fly.",
		},
	}
}

// InitialSky is the pre-dawn gradient shown before any scroll.
func InitialSky() sky.Colors {
	return sky.Colors{A: sky.MustHex("#1a2a4a"), B: sky.MustHex("#3b6b9e")}
}

func SkyTransitions() []sequence.Transition {
	return []sequence.Transition{
		{Name: "sunrise", Duration: 1, Target: sky.Colors{A: sky.MustHex("#e8836b"), B: sky.MustHex("#f5c77e")}},
		{Name: "day", Duration: 1, Target: sky.Colors{A: sky.MustHex("#4a9eed"), B: sky.MustHex("#b8ddf7")}},
		{Name: "dusk", Duration: 1, Target: sky.Colors{A: sky.MustHex("#1e3a5f"), B: sky.MustHex("#4a7fb5")}},
	}
}

// IntroProgram flies the actor in from below and behind over three seconds.
func IntroProgram() sequence.Program {
	return sequence.Program{
		Version: "seq.v1",
		Clips: []sequence.Clip{{
			Name:      "intro",
			DurationS: 3,
			Params: map[string]sequence.Envelope{
				ParamActorY: {Keys: []sequence.Keyframe{{T: 0, V: -2}, {T: 3, V: 0}}},
				ParamActorZ: {Keys: []sequence.Keyframe{{T: 0, V: 5}, {T: 3, V: 0}}},
			},
		}},
	}
}

// Build validates and assembles the authored journey. Curve options let the
// caller pick a different spline flavour for the same control points.
func Build(opts ...path.Option) (*Journey, error) {
	curve, err := path.New(ControlPoints(), opts...)
	if err != nil {
		return nil, fmt.Errorf("journey curve: %w", err)
	}
	wps, err := waypoint.NewSet(ActivationRadius, Waypoints())
	if err != nil {
		return nil, fmt.Errorf("journey waypoints: %w", err)
	}
	tl, err := sequence.NewTimeline(InitialSky(), SkyTransitions())
	if err != nil {
		return nil, fmt.Errorf("journey sky: %w", err)
	}
	return &Journey{Curve: curve, Waypoints: wps, Timeline: tl, Intro: IntroProgram()}, nil
}

// Default is Build with the authored uniform curve. The data is constant, so
// a failure here is a programming error.
func Default() *Journey {
	j, err := Build()
	if err != nil {
		panic(err)
	}
	return j
}
