package led

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/coreman2200/skyflight/internal/layout"
	"github.com/coreman2200/skyflight/internal/render"
	"github.com/coreman2200/skyflight/internal/sky"
)

// moonTint is blended into the top of the strip as the night deepens.
var moonTint = sky.MustHex("#b0c4de")

// Options tune how the sky is painted onto the strip.
type Options struct {
	Brightness float64
	Gamma      float64
	Limits     Limits
}

// Strip is a frame sink that paints the sky gradient onto an LED strip: the
// horizon color at the bottom, the zenith color at the top, faded with the
// scene opacity.
type Strip struct {
	drv  Driver
	lut  []float64
	opts Options

	brightness atomic.Uint64 // float64 bits, written from control goroutines

	grad []sky.Color
	moon []sky.Color // grad fully tinted toward moonTint
	buf  []sky.Color
	rgb  []byte
}

func NewStrip(drv Driver, l layout.Layout, opts Options) (*Strip, error) {
	if drv == nil {
		return nil, fmt.Errorf("led: strip needs a driver")
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if opts.Brightness <= 0 {
		opts.Brightness = 1
	}
	n := l.Count()
	s := &Strip{
		drv:  drv,
		lut:  BuildLUT(l),
		opts: opts,
		grad: make([]sky.Color, n),
		moon: make([]sky.Color, n),
		buf:  make([]sky.Color, n),
		rgb:  make([]byte, n*3),
	}
	s.SetBrightness(opts.Brightness)
	return s, nil
}

// SetBrightness may be called from any goroutine; values are clamped to [0,1].
func (s *Strip) SetBrightness(v float64) {
	s.brightness.Store(math.Float64bits(clamp01(v)))
}

func (s *Strip) Brightness() float64 { return math.Float64frombits(s.brightness.Load()) }

// Paint fills the strip buffer for a frame without writing it.
func (s *Strip) Paint(f *render.Frame) []sky.Color {
	level := clamp01(f.SceneOpacity) * s.Brightness()
	for i, h := range s.lut {
		c := sky.Lerp(f.Sky.B, f.Sky.A, h)
		s.grad[i] = c
		s.moon[i] = sky.Lerp(c, moonTint, h*h)
	}
	sky.Mix(s.buf, s.grad, s.moon, f.Night.MoonGlow)
	for i := range s.buf {
		s.buf[i] = s.buf[i].Scale(level)
	}
	Limit(s.buf, s.opts.Limits)
	Gamma(s.buf, s.opts.Gamma)
	return s.buf
}

func (s *Strip) Write(f *render.Frame) error {
	s.Paint(f)
	for i, c := range s.buf {
		s.rgb[i*3], s.rgb[i*3+1], s.rgb[i*3+2] = c.RGB8()
	}
	return s.drv.Write(s.rgb)
}

func (s *Strip) Close() error { return s.drv.Close() }
