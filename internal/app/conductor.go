package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	diag "github.com/coreman2200/skyflight/internal/diagnostics"
	"github.com/coreman2200/skyflight/internal/render"
)

// Conductor owns the frame loop: it turns wall-clock ticks into engine frames.
type Conductor struct {
	Eng   *render.Engine
	Input *render.InputBox

	// Script, when set, may override the raw progress for a frame.
	Script func(dt float64) (float64, bool)
	// Reset, when set, is polled once per frame.
	Reset func() bool
	// Diag receives diagnostics raised by the loop.
	Diag func(diag.Diagnostic)

	lastSinkErr string
}

func NewConductor(eng *render.Engine, in *render.InputBox) *Conductor {
	return &Conductor{Eng: eng, Input: in}
}

// Step renders one frame of length dt seconds.
func (c *Conductor) Step(dt float64) (*render.Frame, error) {
	if c.Reset != nil && c.Reset() {
		c.Eng.Reset()
		log.Info().Msg("journey reset")
	}
	in := c.Input.Snapshot(dt)
	if c.Script != nil {
		if raw, ok := c.Script(dt); ok {
			in.Raw = raw
		}
	}
	f, err := c.Eng.RenderOnce(in)
	for _, ev := range f.Events {
		log.Info().Str("event", ev).Uint64("frame", f.ID).Float64("progress", f.Motion.Progress).Msg("journey")
		if d, ok := diag.ForEvent(ev, f.ID, f.Motion.Progress); ok {
			c.push(d)
		}
	}
	if err != nil {
		log.Debug().Err(err).Msg("sink write")
		if err.Error() != c.lastSinkErr {
			c.push(diag.SinkError(err))
		}
		c.lastSinkErr = err.Error()
	} else {
		c.lastSinkErr = ""
	}
	return f, err
}

// Run ticks at fps until ctx is cancelled. dt is measured, not assumed, so a
// slow frame advances the journey by the time it actually took.
func (c *Conductor) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = 60
	}
	budget := time.Second / time.Duration(fps)
	ticker := time.NewTicker(budget)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			start := time.Now()
			_, _ = c.Step(dt.Seconds())
			if took := time.Since(start); took > budget {
				c.push(diag.Overrun(took, budget))
			}
		}
	}
}

func (c *Conductor) push(d diag.Diagnostic) {
	if c.Diag != nil {
		c.Diag(d)
	}
}
