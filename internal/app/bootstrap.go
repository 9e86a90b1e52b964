package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/skyflight/internal/journey"
	"github.com/coreman2200/skyflight/internal/layout"
	"github.com/coreman2200/skyflight/internal/led"
	"github.com/coreman2200/skyflight/internal/render"
)

type Core struct {
	Eng   *render.Engine
	Input *render.InputBox
	Strip *led.Strip // nil without an LED driver
	Cond  *Conductor
}

type HWConfig struct {
	Drv    led.Driver // nil disables the strip
	Layout layout.Layout
	Strip  led.Options
}

// InitCore wires the engine, the optional LED strip and a conductor around j.
// Extra sinks (websocket, log) are attached by the caller.
func InitCore(j *journey.Journey, hw HWConfig, sinks ...render.Sink) (*Core, error) {
	eng, err := render.NewEngine(j, sinks...)
	if err != nil {
		return nil, err
	}
	c := &Core{Eng: eng, Input: render.NewInputBox()}
	if hw.Drv != nil {
		strip, err := led.NewStrip(hw.Drv, hw.Layout, hw.Strip)
		if err != nil {
			return nil, fmt.Errorf("led strip: %w", err)
		}
		eng.AddSink(strip)
		c.Strip = strip
	}
	c.Cond = NewConductor(eng, c.Input)
	return c, nil
}

// Run drives the frame loop until ctx is done, then blanks the strip.
func (c *Core) Run(ctx context.Context, fps int) error {
	err := c.Cond.Run(ctx, fps)
	if c.Strip != nil {
		if cerr := c.Strip.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("close strip")
		}
	}
	return err
}
