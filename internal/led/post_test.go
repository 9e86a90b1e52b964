package led

import (
	"testing"

	"github.com/coreman2200/skyflight/internal/sky"
)

func TestLimiterBudgetClamp(t *testing.T) {
	// 10 LEDs all white
	n := 10
	buf := make([]sky.Color, n)
	for i := range buf {
		buf[i] = sky.Color{R: 1, G: 1, B: 1}
	}
	// pre-limit current would be 10 * 60 = 600 mA
	Limit(buf, Limits{ChanMA: 20, BudgetMA: 300, WhiteCap: 3.0, Knee: 0.9})
	cur := EstimateMA(buf, 20)
	if cur > 300.1 {
		t.Fatalf("expected <= 300mA after limit, got %.2f mA", cur)
	}
}

func TestWhiteCap(t *testing.T) {
	buf := []sky.Color{{R: 1, G: 1, B: 1}} // sum=3
	Limit(buf, Limits{WhiteCap: 1.5})
	sum := buf[0].R + buf[0].G + buf[0].B
	if sum > 1.5001 {
		t.Fatalf("expected sum <= 1.5, got %f", sum)
	}
}

func TestUnderKneeUntouched(t *testing.T) {
	buf := []sky.Color{{R: 0.1, G: 0.1, B: 0.1}}
	Limit(buf, Limits{BudgetMA: 1000})
	if buf[0].R != 0.1 {
		t.Fatalf("expected untouched pixel, got %#v", buf[0])
	}
}

func TestGammaClamps(t *testing.T) {
	buf := []sky.Color{{R: 2, G: -1, B: 0.5}}
	Gamma(buf, 2)
	if buf[0].R != 1 || buf[0].G != 0 || buf[0].B != 0.25 {
		t.Fatalf("unexpected gamma result %#v", buf[0])
	}
}
