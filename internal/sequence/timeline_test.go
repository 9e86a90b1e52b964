package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/skyflight/internal/sky"
)

func skyTimeline(t *testing.T) *Timeline {
	t.Helper()
	tl, err := NewTimeline(
		sky.Colors{A: sky.MustHex("#1a2a4a"), B: sky.MustHex("#3b6b9e")},
		[]Transition{
			{Name: "sunrise", Duration: 1, Target: sky.Colors{A: sky.MustHex("#e8836b"), B: sky.MustHex("#f5c77e")}},
			{Name: "day", Duration: 1, Target: sky.Colors{A: sky.MustHex("#4a9eed"), B: sky.MustHex("#b8ddf7")}},
			{Name: "dusk", Duration: 1, Target: sky.Colors{A: sky.MustHex("#1e3a5f"), B: sky.MustHex("#4a7fb5")}},
		})
	require.NoError(t, err)
	return tl
}

func TestTimelineValidates(t *testing.T) {
	_, err := NewTimeline(sky.Colors{}, nil)
	assert.Error(t, err)
	_, err = NewTimeline(sky.Colors{}, []Transition{{Duration: 0}})
	assert.Error(t, err)
	_, err = NewTimeline(sky.Colors{}, []Transition{{Duration: 1}, {Duration: -1}})
	assert.Error(t, err)
}

func TestTimelineBoundaries(t *testing.T) {
	tl := skyTimeline(t)
	assert.Equal(t, 3.0, tl.Duration())

	var c sky.Colors
	tl.Seek(0, &c)
	assert.Equal(t, "#1a2a4a", c.A.Hex())
	assert.Equal(t, "#3b6b9e", c.B.Hex())

	tl.Seek(1, &c)
	assert.Equal(t, "#e8836b", c.A.Hex())
	tl.Seek(2, &c)
	assert.Equal(t, "#4a9eed", c.A.Hex())
	tl.Seek(3, &c)
	assert.Equal(t, "#1e3a5f", c.A.Hex())
	assert.Equal(t, "#4a7fb5", c.B.Hex())

	// clamped on both ends
	tl.Seek(99, &c)
	assert.Equal(t, "#1e3a5f", c.A.Hex())
	assert.Equal(t, 3.0, tl.Position())
	tl.Seek(-5, &c)
	assert.Equal(t, "#1a2a4a", c.A.Hex())
}

func TestTimelineSeekIsIdempotent(t *testing.T) {
	tl := skyTimeline(t)
	var a, b sky.Colors
	for _, p := range []float64{0.1, 0.5, 1.3, 2.9} {
		tl.Seek(p, &a)
		tl.Seek(p, &b)
		assert.Equal(t, a, b, "pos %v", p)
	}
	// scrubbing out of order lands on the same colors
	tl.Seek(2.9, &a)
	tl.Seek(0.2, &b)
	tl.Seek(1.7, &b)
	tl.Seek(2.9, &b)
	assert.Equal(t, a, b)
}

func TestTimelineDefaultEase(t *testing.T) {
	tl := skyTimeline(t)
	var c sky.Colors
	tl.Seek(0.5, &c)
	want := sky.Lerp(sky.MustHex("#1a2a4a"), sky.MustHex("#e8836b"), 0.75)
	assert.InDelta(t, want.R, c.A.R, 1e-12)
	assert.InDelta(t, want.G, c.A.G, 1e-12)
	assert.InDelta(t, want.B, c.A.B, 1e-12)
	assert.Equal(t, c, tl.At(0.5))
}
