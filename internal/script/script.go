// Package script generates synthetic scroll input for demos and headless runs.
package script

import "fmt"

type Kind string

const (
	None  Kind = ""
	Sweep Kind = "sweep" // 0 -> 1 at constant speed
	Jump  Kind = "jump"  // 0 for the first half, then Target at once
	Hold  Kind = "hold"  // Target for the whole run
	YoYo  Kind = "yoyo"  // 0 -> 1 -> 0
)

type Plan struct {
	Kind      Kind     `json:"kind"`
	DurationS float64  `json:"durationS"`
	Target    *float64 `json:"target,omitempty"` // nil means 1
}

type Runner struct {
	plan   Plan
	target float64
	t      float64
}

// Parse accepts a runner name as sent over the control socket.
func Parse(name string) (Kind, error) {
	switch k := Kind(name); k {
	case Sweep, Jump, Hold, YoYo:
		return k, nil
	}
	return None, fmt.Errorf("unknown script %q", name)
}

func NewRunner(plan Plan) (*Runner, error) {
	if _, err := Parse(string(plan.Kind)); err != nil {
		return nil, err
	}
	if !(plan.DurationS > 0) {
		return nil, fmt.Errorf("script %s: duration must be positive", plan.Kind)
	}
	target := 1.0
	if plan.Target != nil {
		target = *plan.Target
	}
	return &Runner{plan: plan, target: target}, nil
}

func (r *Runner) Kind() Kind { return r.plan.Kind }

// Elapsed is the script time consumed so far.
func (r *Runner) Elapsed() float64 { return r.t }

// Step advances by dt and returns the raw progress for this frame; ok is false
// once the plan has run its full duration (the returned value is then final).
func (r *Runner) Step(dt float64) (raw float64, ok bool) {
	if dt > 0 {
		r.t += dt
	}
	d := r.plan.DurationS
	u := r.t / d
	if u > 1 {
		u = 1
	}
	switch r.plan.Kind {
	case Sweep:
		raw = u
	case Jump:
		if u >= 0.5 {
			raw = r.target
		}
	case Hold:
		raw = r.target
	case YoYo:
		if u <= 0.5 {
			raw = 2 * u
		} else {
			raw = 2 * (1 - u)
		}
	}
	return raw, r.t < d
}
