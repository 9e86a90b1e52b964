package sky

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an sRGB-encoded color with channels in [0,1].
type Color struct{ R, G, B float64 }

// Colors is the two-stop sky gradient. A is the zenith stop and drives night visibility.
type Colors struct {
	A Color `json:"colorA"`
	B Color `json:"colorB"`
}

// ParseHex parses "#rrggbb", "rrggbb" or the short "#rgb" form.
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return Color{
		R: float64((v>>16)&0xff) / 255.0,
		G: float64((v>>8)&0xff) / 255.0,
		B: float64(v&0xff) / 255.0,
	}, nil
}

// MustHex is ParseHex for authored constants.
func MustHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", to8(c.R), to8(c.G), to8(c.B))
}

// RGB8 returns the color quantized to bytes.
func (c Color) RGB8() (r, g, b byte) { return to8(c.R), to8(c.G), to8(c.B) }

// Scale multiplies every channel by s.
func (c Color) Scale(s float64) Color { return Color{c.R * s, c.G * s, c.B * s} }

// Lerp blends a toward b; t is not clamped so callers can ease first.
func Lerp(a, b Color, t float64) Color {
	return Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
	}
}

// LerpColors blends both gradient stops.
func LerpColors(a, b Colors, t float64) Colors {
	return Colors{A: Lerp(a.A, b.A, t), B: Lerp(a.B, b.B, t)}
}

// Mix blends two buffers into dst using alpha (0..1).
// Channels are blended as stored; no gamma assumed.
func Mix(dst, a, b []Color, alpha float64) {
	if alpha <= 0 {
		copy(dst, a)
		return
	}
	if alpha >= 1 {
		copy(dst, b)
		return
	}
	for i := range dst {
		dst[i] = Lerp(a[i], b[i], alpha)
	}
}

func to8(x float64) byte {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 255
	}
	return byte(x*255.0 + 0.5)
}
