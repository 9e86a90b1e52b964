package sequence

import (
	"math"
	"strings"
)

// clamp01 clamps x in [0,1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// smootherstep (cubic-ish) for ease="cubic"
func smootherstep(x float64) float64 {
	// 6x^5 - 15x^4 + 10x^3
	return x * x * x * (x*(x*6-15) + 10)
}

// DefaultEase is used when a keyframe or transition names no easing.
const DefaultEase = "power1.out"

// Ease maps x in [0,1] through the named easing curve. Unknown names are linear.
// Power names follow the "powerN.in|out|inOut" convention with N in 1..4.
func Ease(kind string, x float64) float64 {
	x = clamp01(x)
	if kind == "" {
		kind = DefaultEase
	}
	switch kind {
	case "linear", "none":
		return x
	case "smooth":
		// classic smoothstep 3x^2 - 2x^3
		return x * x * (3 - 2*x)
	case "cubic":
		return smootherstep(x)
	}
	if n, dir, ok := parsePower(kind); ok {
		p := float64(n + 1)
		switch dir {
		case "in":
			return math.Pow(x, p)
		case "out":
			return 1 - math.Pow(1-x, p)
		case "inOut":
			if x < 0.5 {
				return math.Pow(2*x, p) / 2
			}
			return 1 - math.Pow(2*(1-x), p)/2
		}
	}
	return x
}

func parsePower(kind string) (int, string, bool) {
	if !strings.HasPrefix(kind, "power") || len(kind) < len("power1.in") {
		return 0, "", false
	}
	n := int(kind[5] - '0')
	if n < 1 || n > 4 || kind[6] != '.' {
		return 0, "", false
	}
	return n, kind[7:], true
}

// Eval returns the value of the envelope at time t (seconds).
// If there are no keys, returns 0; if one key, returns its value.
// Keys must be sorted by T ascending.
func (e Envelope) Eval(t float64) float64 {
	n := len(e.Keys)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return e.Keys[0].V
	}
	if t <= e.Keys[0].T {
		return e.Keys[0].V
	}
	if t >= e.Keys[n-1].T {
		return e.Keys[n-1].V
	}
	for i := 0; i < n-1; i++ {
		a := e.Keys[i]
		b := e.Keys[i+1]
		if t >= a.T && t <= b.T {
			den := b.T - a.T
			if den <= 0 {
				return b.V
			}
			u := Ease(a.Ease, (t-a.T)/den)
			return a.V + (b.V-a.V)*u
		}
	}
	return e.Keys[n-1].V
}

// End is the time of the last keyframe.
func (e Envelope) End() float64 {
	if len(e.Keys) == 0 {
		return 0
	}
	return e.Keys[len(e.Keys)-1].T
}
