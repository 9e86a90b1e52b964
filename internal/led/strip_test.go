package led

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/spi/spitest"

	"github.com/coreman2200/skyflight/internal/layout"
	"github.com/coreman2200/skyflight/internal/render"
	"github.com/coreman2200/skyflight/internal/sky"
)

func dusk() *render.Frame {
	return &render.Frame{
		Sky:          sky.Colors{A: sky.Color{R: 0, G: 0, B: 1}, B: sky.Color{R: 1, G: 0, B: 0}},
		SceneOpacity: 1,
	}
}

func TestStripPaintsGradient(t *testing.T) {
	sim := &Sim{}
	s, err := NewStrip(sim, layout.Layout{Pixels: 6, Columns: 2, Serpentine: true}, Options{})
	require.NoError(t, err)
	require.NoError(t, s.Write(dusk()))

	rgb, frames := sim.Last()
	assert.Equal(t, 1, frames)
	require.Len(t, rgb, 18)
	// column 0 runs bottom->top: red to blue
	assert.Equal(t, []byte{255, 0, 0}, rgb[0:3])
	assert.Equal(t, []byte{0, 0, 255}, rgb[6:9])
	// column 1 runs top->bottom
	assert.Equal(t, []byte{0, 0, 255}, rgb[9:12])
	assert.Equal(t, []byte{255, 0, 0}, rgb[15:18])
}

func TestStripFollowsSceneOpacity(t *testing.T) {
	sim := &Sim{}
	s, err := NewStrip(sim, layout.Layout{Pixels: 2, Columns: 1}, Options{Brightness: 0.5})
	require.NoError(t, err)
	f := dusk()
	f.SceneOpacity = 0
	require.NoError(t, s.Write(f))
	rgb, _ := sim.Last()
	assert.Equal(t, make([]byte, 6), rgb)

	f.SceneOpacity = 1
	buf := s.Paint(f)
	assert.InDelta(t, 0.5, buf[0].R, 1e-12)
}

func TestStripMoonGlowTintsTop(t *testing.T) {
	sim := &Sim{}
	s, err := NewStrip(sim, layout.Layout{Pixels: 3, Columns: 1}, Options{})
	require.NoError(t, err)
	f := dusk()
	plain := append([]sky.Color(nil), s.Paint(f)...)
	f.Night = sky.NightFrom(0.9)
	glowing := s.Paint(f)
	assert.Equal(t, plain[0], glowing[0])
	assert.NotEqual(t, plain[2], glowing[2])
}

func TestStripMoonGlowGrowsWithHeight(t *testing.T) {
	s, err := NewStrip(&Sim{}, layout.Layout{Pixels: 3, Columns: 1}, Options{})
	require.NoError(t, err)
	f := dusk()
	f.Night = sky.NightFrom(0.9)
	glow := f.Night.MoonGlow
	buf := s.Paint(f)

	for i, h := range []float64{0, 0.5, 1} {
		want := sky.Lerp(sky.Lerp(f.Sky.B, f.Sky.A, h), moonTint, glow*h*h)
		assert.InDelta(t, want.R, buf[i].R, 1e-12, "pixel %d", i)
		assert.InDelta(t, want.G, buf[i].G, 1e-12, "pixel %d", i)
		assert.InDelta(t, want.B, buf[i].B, 1e-12, "pixel %d", i)
	}
}

func TestNewStripValidates(t *testing.T) {
	_, err := NewStrip(nil, layout.Layout{Pixels: 1, Columns: 1}, Options{})
	assert.Error(t, err)
	_, err = NewStrip(&Sim{}, layout.Layout{}, Options{})
	assert.Error(t, err)
}

func TestSimClosed(t *testing.T) {
	sim := &Sim{}
	require.NoError(t, sim.Close())
	assert.ErrorIs(t, sim.Write([]byte{1, 2, 3}), ErrClosed)
}

func TestNRZOverRecordedSPI(t *testing.T) {
	buf := bytes.Buffer{}
	n, err := NewNRZ(spitest.NewRecordRaw(&buf), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, "nrzled{recordraw}", n.String())

	assert.Error(t, n.Write([]byte{1, 2, 3}))
	require.NoError(t, n.Write([]byte{255, 0, 0, 0, 0, 255}))
	first := append([]byte(nil), buf.Bytes()...)
	assert.NotEmpty(t, first)

	buf.Reset()
	require.NoError(t, n.Write([]byte{0, 255, 0, 0, 255, 0}))
	assert.NotEqual(t, first, buf.Bytes())

	require.NoError(t, n.Close())
	assert.ErrorIs(t, n.Write([]byte{0, 0, 0, 0, 0, 0}), ErrClosed)
}

func TestNRZRejectsEmptyStrip(t *testing.T) {
	_, err := NewNRZ(spitest.NewRecordRaw(&bytes.Buffer{}), 0, DefaultFreq)
	assert.Error(t, err)
}

func TestStripBrightnessIsClamped(t *testing.T) {
	s, err := NewStrip(&Sim{}, layout.Layout{Pixels: 1, Columns: 1}, Options{Brightness: 0.3})
	require.NoError(t, err)
	assert.Equal(t, 0.3, s.Brightness())
	s.SetBrightness(4)
	assert.Equal(t, 1.0, s.Brightness())
	s.SetBrightness(-1)
	assert.Equal(t, 0.0, s.Brightness())
}

func TestConsoleGuardsInput(t *testing.T) {
	_, err := NewConsole(0)
	assert.Error(t, err)

	c, err := NewConsole(4)
	require.NoError(t, err)
	assert.Error(t, c.Write(make([]byte, 3)))
	require.NoError(t, c.Close())
	assert.ErrorIs(t, c.Write(make([]byte, 12)), ErrClosed)
	assert.NoError(t, c.Close())
}
