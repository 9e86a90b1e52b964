package sequence

import "github.com/coreman2200/skyflight/internal/sky"

// Keyframe represents a value at time T (seconds) with an easing function
// that applies to the segment starting at this keyframe.
type Keyframe struct {
	T    float64 `json:"t"`
	V    float64 `json:"v"`
	Ease string  `json:"ease,omitempty"` // see Ease; empty means power1.out
}

// Envelope is a sorted list of keyframes; Eval(t) interpolates a value.
type Envelope struct {
	Keys []Keyframe `json:"keys"`
}

// Clip is one segment of a program with its own parameter automation.
type Clip struct {
	Name      string              `json:"name"`
	DurationS float64             `json:"durationS"`
	Params    map[string]Envelope `json:"params,omitempty"`
}

// Program is a full sequence of clips.
type Program struct {
	Version string `json:"version"` // e.g., "seq.v1"
	Loop    bool   `json:"loop,omitempty"`
	Clips   []Clip `json:"clips"`
}

// PlayerState enumerates sequencer states.
type PlayerState string

const (
	Idle    PlayerState = "idle"
	Running PlayerState = "running"
	Paused  PlayerState = "paused"
)

// Hooks are callbacks into whoever owns the animated values.
type Hooks struct {
	SetParam func(name string, v float64)
	// Clip is called when a clip becomes active.
	Clip func(name string)
	// Done is called once when a non-looping program runs off its end.
	Done func()
}

// Player owns the current Program and drives Hooks from elapsed time.
type Player struct {
	State PlayerState

	prog Program
	nowS float64 // position within program
	idx  int     // current clip index

	hooks Hooks
}

// Transition moves the sky from wherever the previous transition left it to
// Target over Duration timeline units.
type Transition struct {
	Name     string     `json:"name,omitempty"`
	Duration float64    `json:"duration"`
	Target   sky.Colors `json:"target"`
	Ease     string     `json:"ease,omitempty"`
}

// Timeline is a seek-only chain of sky transitions. It has no clock of its
// own; callers position it absolutely with Seek.
type Timeline struct {
	initial     sky.Colors
	transitions []Transition
	duration    float64
	pos         float64
}
