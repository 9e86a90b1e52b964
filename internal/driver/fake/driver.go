package fake

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/skyflight/internal/render"
)

// Driver logs a compact summary of every Every-th frame, useful for headless runs.
type Driver struct {
	Count int
	Every int
	Log   *zerolog.Logger
}

func (d *Driver) Write(f *render.Frame) error {
	d.Count++
	every := d.Every
	if every <= 0 {
		every = 1
	}
	if (d.Count-1)%every != 0 && len(f.Events) == 0 {
		return nil
	}
	l := d.Log
	if l == nil {
		l = &log.Logger
	}
	p := f.Camera.Position
	l.Info().
		Uint64("frame", f.ID).
		Float64("raw", f.Motion.Raw).
		Float64("progress", f.Motion.Progress).
		Float64("friction", f.Motion.Friction).
		Floats64("pos", []float64{p[0], p[1], p[2]}).
		Float64("bank", f.Actor.Bank).
		Str("sky", f.ColorA+"/"+f.ColorB).
		Float64("night", f.Visibility).
		Strs("events", f.Events).
		Msg("frame")
	return nil
}
