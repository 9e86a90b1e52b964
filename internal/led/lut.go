package led

import "github.com/coreman2200/skyflight/internal/layout"

// BuildLUT bakes the vertical position of every LED index in strip order.
func BuildLUT(l layout.Layout) []float64 {
	out := make([]float64, l.Count())
	for i := range out {
		out[i] = l.Height(i)
	}
	return out
}
