package sequence

import (
	"errors"
	"fmt"
	"math"

	"github.com/coreman2200/skyflight/internal/sky"
)

// NewTimeline chains transitions end to end starting from initial.
func NewTimeline(initial sky.Colors, transitions []Transition) (*Timeline, error) {
	if len(transitions) == 0 {
		return nil, errors.New("timeline has no transitions")
	}
	tl := &Timeline{initial: initial, transitions: make([]Transition, len(transitions))}
	for i, tr := range transitions {
		if !(tr.Duration > 0) || math.IsInf(tr.Duration, 0) {
			return nil, fmt.Errorf("transition %d (%s): duration must be positive, got %v", i, tr.Name, tr.Duration)
		}
		tl.transitions[i] = tr
		tl.duration += tr.Duration
	}
	return tl, nil
}

// Duration is the sum of all transition durations.
func (tl *Timeline) Duration() float64 { return tl.duration }

// Position is the last sought position.
func (tl *Timeline) Position() float64 { return tl.pos }

func (tl *Timeline) Initial() sky.Colors { return tl.initial }

// Transitions returns a copy of the chain.
func (tl *Timeline) Transitions() []Transition {
	out := make([]Transition, len(tl.transitions))
	copy(out, tl.transitions)
	return out
}

// Seek writes the colors at pos into dst. pos is clamped to [0, Duration].
// The result depends only on pos, so repeated seeks agree.
func (tl *Timeline) Seek(pos float64, dst *sky.Colors) {
	if !(pos > 0) {
		pos = 0
	}
	if pos > tl.duration {
		pos = tl.duration
	}
	tl.pos = pos
	*dst = tl.At(pos)
}

// At evaluates the chain at pos without moving the cursor.
func (tl *Timeline) At(pos float64) sky.Colors {
	cur := tl.initial
	start := 0.0
	for _, tr := range tl.transitions {
		end := start + tr.Duration
		if pos >= end {
			cur = tr.Target
			start = end
			continue
		}
		if pos > start {
			cur = sky.LerpColors(cur, tr.Target, Ease(tr.Ease, (pos-start)/tr.Duration))
		}
		break
	}
	return cur
}
