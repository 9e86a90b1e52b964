package sky

// MaxVisibility is the ceiling for night elements; they never become fully opaque.
const MaxVisibility = 0.9

// luminanceGain maps perceived brightness onto the visibility falloff.
const luminanceGain = 2.5

// Luminance is the weighted perceptual brightness of c (Rec. 601 weights).
func Luminance(c Color) float64 {
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}

// Visibility returns how visible stars and the moon are for the current sky.
// Bright skies push it to 0, dark ones up to MaxVisibility. Only colors.A matters.
func Visibility(colors Colors) float64 {
	v := 1 - Luminance(colors.A)*luminanceGain
	if v != v || v < 0 {
		return 0
	}
	if v > MaxVisibility {
		return MaxVisibility
	}
	return v
}

// Night holds the opacity-like scalars the scene layer applies to night elements.
// All of them derive from one visibility value.
type Night struct {
	Stars        float64 `json:"stars"`
	Moon         float64 `json:"moon"`
	MoonEmissive float64 `json:"moonEmissive"`
	MoonGlow     float64 `json:"moonGlow"`
}

func NightFrom(visibility float64) Night {
	return Night{
		Stars:        visibility,
		Moon:         visibility,
		MoonEmissive: visibility * 2,
		MoonGlow:     visibility * 0.3,
	}
}
