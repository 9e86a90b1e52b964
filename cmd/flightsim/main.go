// Command flightsim flies the journey headless under a scripted scroll and logs
// frame summaries, optionally painting a simulated LED strip.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/skyflight/internal/app"
	diag "github.com/coreman2200/skyflight/internal/diagnostics"
	"github.com/coreman2200/skyflight/internal/driver/fake"
	"github.com/coreman2200/skyflight/internal/journey"
	"github.com/coreman2200/skyflight/internal/layout"
	"github.com/coreman2200/skyflight/internal/led"
	"github.com/coreman2200/skyflight/internal/path"
	"github.com/coreman2200/skyflight/internal/script"
)

func main() {
	var (
		kind     = flag.String("script", "sweep", "script: sweep | jump | hold | yoyo")
		duration = flag.Float64("duration", 20, "script duration (s)")
		target   = flag.Float64("target", 1, "target progress for jump/hold")
		fps      = flag.Int("fps", 60, "simulation frames per second")
		settle   = flag.Float64("settle", 5, "extra seconds after the script ends")
		curve    = flag.String("curve", "catmullrom", "curve: catmullrom | centripetal | chordal")
		every    = flag.Int("every", 30, "log every N frames")
		pixels   = flag.Int("pixels", 0, "paint a simulated strip of N pixels (0 = off)")
		console  = flag.Bool("console", false, "draw the strip on the terminal instead of in memory")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	k, err := script.Parse(*kind)
	if err != nil {
		log.Fatal().Err(err).Msg("script")
	}
	runner, err := script.NewRunner(script.Plan{Kind: k, DurationS: *duration, Target: target})
	if err != nil {
		log.Fatal().Err(err).Msg("script")
	}
	ct, err := path.ParseType(*curve)
	if err != nil {
		log.Fatal().Err(err).Msg("curve")
	}
	j, err := journey.Build(path.WithType(ct))
	if err != nil {
		log.Fatal().Err(err).Msg("journey")
	}

	var hw app.HWConfig
	var sim *led.Sim
	if *pixels > 0 {
		hw = app.HWConfig{Layout: layout.Layout{Pixels: *pixels, Columns: 1}, Strip: led.Options{Brightness: 1, Limits: led.DefaultLimits()}}
		if *console {
			c, err := led.NewConsole(*pixels)
			if err != nil {
				log.Fatal().Err(err).Msg("console driver")
			}
			hw.Drv = c
		} else {
			sim = &led.Sim{}
			hw.Drv = sim
		}
	}
	core, err := app.InitCore(j, hw, &fake.Driver{Every: *every})
	if err != nil {
		log.Fatal().Err(err).Msg("init core")
	}
	core.Cond.Diag = func(d diag.Diagnostic) {
		log.Info().Str("code", d.Code).Str("severity", string(d.Severity)).Msg(d.Summary)
	}

	if *fps <= 0 {
		*fps = 60
	}
	dt := 1.0 / float64(*fps)
	done := false
	core.Cond.Script = func(float64) (float64, bool) {
		raw, more := runner.Step(dt)
		done = !more
		return raw, true
	}
	core.Input.SetStarted(true)

	frames := 0
	for !done {
		if _, err := core.Cond.Step(dt); err != nil {
			log.Warn().Err(err).Msg("frame")
		}
		frames++
	}
	for s := 0.0; s < *settle; s += dt {
		_, _ = core.Cond.Step(dt)
		frames++
	}

	active := core.Eng.ActiveWaypoints()
	ev := log.Info().Int("frames", frames).Float64("sim_s", float64(frames)*dt).Int("active_waypoints", len(active))
	if sim != nil {
		rgb, n := sim.Last()
		ev = ev.Int("strip_frames", n).Hex("strip", rgb)
	}
	ev.Msg("flight complete")
	if core.Strip != nil {
		_ = core.Strip.Close()
	}
}
