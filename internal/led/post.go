package led

import (
	"math"

	"github.com/coreman2200/skyflight/internal/sky"
)

// Limits configures the two-stage limiter:
// 1) Per-LED "white cap": scales (R,G,B) so R+G+B <= WhiteCap (3.0 = no cap)
// 2) Global current budget: estimates current and scales the whole frame to stay under BudgetMA
type Limits struct {
	WhiteCap float64 `yaml:"white_cap"`
	ChanMA   float64 `yaml:"chan_ma"`   // mA per color channel at full scale; WS2812 ≈ 20
	BudgetMA float64 `yaml:"budget_ma"` // 0 disables the budget stage
	Knee     float64 `yaml:"knee"`      // fraction of budget where soft limiting begins
}

func DefaultLimits() Limits {
	return Limits{WhiteCap: 3.0, ChanMA: 20, Knee: 0.9}
}

// Limit applies the white cap then the current budget in place.
func Limit(buf []sky.Color, l Limits) {
	whiteCap := 3.0
	chanMA := 20.0
	knee := 0.9
	if l.WhiteCap > 0 {
		whiteCap = l.WhiteCap
	}
	if l.ChanMA > 0 {
		chanMA = l.ChanMA
	}
	if l.Knee > 0 && l.Knee < 1 {
		knee = l.Knee
	}

	for i := range buf {
		s := buf[i].R + buf[i].G + buf[i].B
		if s > whiteCap && s > 0 {
			buf[i] = buf[i].Scale(whiteCap / s)
		}
	}

	if l.BudgetMA <= 0 {
		return
	}
	total := EstimateMA(buf, chanMA)
	if total <= 0 {
		return
	}
	// Soft knee: start scaling gently after knee*budget, fully meet budget above budget
	ratio := total / l.BudgetMA
	if ratio <= 1.0 {
		if ratio <= knee {
			return
		}
		minS := l.BudgetMA / total
		t := (ratio - knee) / (1.0 - knee)
		applyGlobalScale(buf, 1.0-t*(1.0-minS))
		return
	}
	applyGlobalScale(buf, l.BudgetMA/total)
}

// EstimateMA is the current model used by Limit.
func EstimateMA(buf []sky.Color, chanMA float64) float64 {
	total := 0.0
	for i := range buf {
		total += (buf[i].R + buf[i].G + buf[i].B) * chanMA
	}
	return total
}

// Gamma raises every channel to g after clamping to [0,1]. g <= 0 or 1 is a no-op
// apart from the clamp.
func Gamma(buf []sky.Color, g float64) {
	for i := range buf {
		c := buf[i]
		c = sky.Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}
		if g > 0 && g != 1 {
			c = sky.Color{R: math.Pow(c.R, g), G: math.Pow(c.G, g), B: math.Pow(c.B, g)}
		}
		buf[i] = c
	}
}

func applyGlobalScale(buf []sky.Color, s float64) {
	if s >= 1.0 {
		return
	}
	for i := range buf {
		buf[i] = buf[i].Scale(s)
	}
}

func clamp01(x float64) float64 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
