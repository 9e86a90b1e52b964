package sky

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#1a2a4a")
	require.NoError(t, err)
	assert.InDelta(t, 26.0/255.0, c.R, 1e-9)
	assert.InDelta(t, 42.0/255.0, c.G, 1e-9)
	assert.InDelta(t, 74.0/255.0, c.B, 1e-9)
	assert.Equal(t, "#1a2a4a", c.Hex())

	short, err := ParseHex("fff")
	require.NoError(t, err)
	assert.Equal(t, Color{1, 1, 1}, short)

	_, err = ParseHex("#12345")
	assert.Error(t, err)
	_, err = ParseHex("#zzzzzz")
	assert.Error(t, err)
}

func TestVisibilityRange(t *testing.T) {
	white := Colors{A: Color{1, 1, 1}}
	black := Colors{A: Color{0, 0, 0}}
	assert.Equal(t, 0.0, Visibility(white))
	assert.Equal(t, MaxVisibility, Visibility(black))

	// dawn sky from the journey: 1 - 2.5*L
	dawn := Colors{A: MustHex("#e8836b")}
	want := 1 - 2.5*Luminance(dawn.A)
	if want < 0 {
		want = 0
	}
	assert.InDelta(t, want, Visibility(dawn), 1e-12)
}

func TestVisibilityIsPureInColorA(t *testing.T) {
	a := Colors{A: MustHex("#1e3a5f"), B: MustHex("#4a7fb5")}
	b := Colors{A: MustHex("#1e3a5f"), B: MustHex("#ffffff")}
	assert.Equal(t, Visibility(a), Visibility(a))
	assert.Equal(t, Visibility(a), Visibility(b))
}

func TestVisibilityMonotonic(t *testing.T) {
	prev := Visibility(Colors{})
	for i := 1; i <= 100; i++ {
		g := float64(i) / 100
		v := Visibility(Colors{A: Color{g, g, g}})
		assert.LessOrEqual(t, v, prev, "grey %.2f", g)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, MaxVisibility)
		prev = v
	}
}

func TestNightFrom(t *testing.T) {
	n := NightFrom(0.5)
	assert.Equal(t, 0.5, n.Stars)
	assert.Equal(t, 0.5, n.Moon)
	assert.Equal(t, 1.0, n.MoonEmissive)
	assert.InDelta(t, 0.15, n.MoonGlow, 1e-12)
}

func TestMix(t *testing.T) {
	a := []Color{{1, 0, 0}, {1, 0, 0}}
	b := []Color{{0, 0, 1}, {0, 0, 1}}
	dst := make([]Color, 2)
	Mix(dst, a, b, 0.5)
	assert.InDelta(t, 0.5, dst[0].R, 1e-9)
	assert.InDelta(t, 0.5, dst[1].B, 1e-9)
	Mix(dst, a, b, 2)
	assert.Equal(t, b, dst)
}
