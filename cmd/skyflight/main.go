package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/skyflight/internal/app"
	"github.com/coreman2200/skyflight/internal/config"
	"github.com/coreman2200/skyflight/internal/driver/fake"
	"github.com/coreman2200/skyflight/internal/journey"
	"github.com/coreman2200/skyflight/internal/layout"
	"github.com/coreman2200/skyflight/internal/led"
	"github.com/coreman2200/skyflight/internal/path"
	"github.com/coreman2200/skyflight/internal/ws"
)

func main() {
	// ---- Flags (config.yaml overrides where it sets a value) ----
	var (
		addr       = flag.String("addr", ":8080", "HTTP listen address")
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		driver     = flag.String("driver", "sim", "driver: spi | sim | console | none")
		fps        = flag.Int("fps", 60, "target frames per second")
		brightness = flag.Float64("brightness", 0.6, "global brightness 0..1")
		pixels     = flag.Int("pixels", 60, "LED count")
		columns    = flag.Int("columns", 1, "LED columns")
		curve      = flag.String("curve", "catmullrom", "curve: catmullrom | centripetal | chordal")
		logEvery   = flag.Int("log-every", 0, "log a frame summary every N frames (0 = off)")
		debug      = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// ---- Effective config ----
	cfg := config.Default()
	cfg.Addr, cfg.Driver, cfg.FPS, cfg.Brightness, cfg.Curve = *addr, *driver, *fps, *brightness, *curve
	cfg.Strip.Pixels, cfg.Strip.Columns = *pixels, *columns
	if c, err := config.LoadOver(*configPath, cfg); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
	} else {
		cfg = c
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	kind, err := path.ParseType(cfg.Curve)
	if err != nil {
		log.Fatal().Err(err).Msg("curve")
	}
	j, err := journey.Build(path.WithType(kind))
	if err != nil {
		log.Fatal().Err(err).Msg("journey")
	}

	// ---- Driver selection ----
	hw := app.HWConfig{
		Layout: layout.Layout{Pixels: cfg.Strip.Pixels, Columns: cfg.Strip.Columns, Serpentine: cfg.Strip.Serpentine},
		Strip:  led.Options{Brightness: cfg.Brightness, Gamma: cfg.Strip.Gamma, Limits: cfg.Strip.Limits},
	}
	selected := cfg.Driver
	switch selected {
	case "sim":
		hw.Drv = &led.Sim{}
	case "spi":
		freq := led.DefaultFreq
		if cfg.Strip.SpeedHz > 0 {
			freq = physic.Frequency(cfg.Strip.SpeedHz) * physic.Hertz
		}
		drv, err := led.OpenSPI(cfg.Strip.Dev, hw.Layout.Count(), freq)
		if err != nil {
			log.Warn().Err(err).
				Str("driver", "spi").
				Str("dev", cfg.Strip.Dev).
				Int("speed_hz", cfg.Strip.SpeedHz).
				Msg("SPI init failed; falling back to SIM")
			hw.Drv = &led.Sim{}
			selected = "sim"
		} else {
			log.Info().Str("dev", drv.String()).Msg("SPI strip ready")
			hw.Drv = drv
		}
	case "console":
		drv, err := led.NewConsole(hw.Layout.Count())
		if err != nil {
			log.Fatal().Err(err).Msg("console driver")
		}
		hw.Drv = drv
	case "none":
	}

	// ---- Core ----
	core, err := app.InitCore(j, hw)
	if err != nil {
		log.Fatal().Err(err).Msg("init core")
	}

	state := ws.NewState(core.Input, cfg.FPS, cfg.Brightness)
	state.ConfigPath = *configPath
	state.Config = cfg
	state.CurrentDriver = selected
	if core.Strip != nil {
		state.OnBrightness = core.Strip.SetBrightness
	}
	core.Eng.AddSink(state)
	if *logEvery > 0 {
		core.Eng.AddSink(&fake.Driver{Every: *logEvery})
	}
	core.Cond.Script = state.ScriptStep
	core.Cond.Reset = state.TakeReset
	core.Cond.Diag = state.PushDiag

	// ---- HTTP routes ----
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/frames", state.HandleFramesWS)
	mux.HandleFunc("/ws/control", state.HandleControlWS)
	mux.HandleFunc("/ws/diag", state.HandleDiagWS)
	mux.HandleFunc("/health", state.HandleHealth)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      withCORS(mux),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ---- Run frame loop & server until a signal arrives ----
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return core.Run(ctx, cfg.FPS) })
	g.Go(func() error {
		log.Info().Str("addr", cfg.Addr).Str("driver", selected).Str("curve", kind.String()).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("exited with error")
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
