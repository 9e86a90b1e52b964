package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeEval(t *testing.T) {
	env := Envelope{Keys: []Keyframe{
		{T: 0, V: 0, Ease: "linear"},
		{T: 10, V: 10, Ease: "linear"},
	}}
	if v := env.Eval(-1); v != 0 {
		t.Fatalf("expected 0 before start, got %v", v)
	}
	if v := env.Eval(0); v != 0 {
		t.Fatalf("expected 0 at t=0, got %v", v)
	}
	if v := env.Eval(5); v != 5 {
		t.Fatalf("expected 5 at t=5, got %v", v)
	}
	if v := env.Eval(10); v != 10 {
		t.Fatalf("expected 10 at t=10, got %v", v)
	}
	if v := env.Eval(11); v != 10 {
		t.Fatalf("expected 10 after end, got %v", v)
	}
	assert.Equal(t, 10.0, env.End())
}

func TestEaseCurves(t *testing.T) {
	for _, kind := range []string{"", "linear", "smooth", "cubic", "power1.in", "power1.out", "power2.inOut", "power4.out", "bogus"} {
		assert.Equal(t, 0.0, Ease(kind, 0), kind)
		assert.InDelta(t, 1.0, Ease(kind, 1), 1e-12, kind)
		prev := 0.0
		for i := 1; i <= 100; i++ {
			v := Ease(kind, float64(i)/100)
			assert.GreaterOrEqual(t, v, prev, "%s not monotonic at %d", kind, i)
			prev = v
		}
	}
	assert.Equal(t, 0.75, Ease("", 0.5))
	assert.Equal(t, 0.75, Ease("power1.out", 0.5))
	assert.Equal(t, 0.25, Ease("power1.in", 0.5))
	assert.Equal(t, 0.5, Ease("power2.inOut", 0.5))
	assert.Equal(t, 0.3, Ease("bogus", 0.3))
	assert.Equal(t, 1.0, Ease("linear", 4))
}

func TestPlayerDrivesParams(t *testing.T) {
	got := map[string]float64{}
	var clips []string
	done := 0
	p := NewPlayer(Hooks{
		SetParam: func(name string, v float64) { got[name] = v },
		Clip:     func(name string) { clips = append(clips, name) },
		Done:     func() { done++ },
	})
	prog := Program{
		Version: "seq.v1",
		Clips: []Clip{
			{Name: "in", DurationS: 2, Params: map[string]Envelope{
				"y": {Keys: []Keyframe{{T: 0, V: -2, Ease: "linear"}, {T: 2, V: 0}}},
			}},
			{Name: "hold", DurationS: 1},
		},
	}
	require.NoError(t, p.Load(prog))
	assert.Equal(t, Idle, p.State)

	p.Tick(1) // idle: nothing happens
	assert.Empty(t, got)

	p.Start()
	assert.Equal(t, Running, p.State)
	assert.Equal(t, -2.0, got["y"])

	p.Tick(1)
	assert.Equal(t, -1.0, got["y"])

	p.Pause()
	p.Tick(5)
	assert.Equal(t, -1.0, got["y"])
	p.Resume()

	p.Tick(1)
	assert.Equal(t, 0.0, got["y"])
	p.Tick(1.5)
	assert.Equal(t, Idle, p.State)
	assert.Equal(t, 1, done)
	assert.Equal(t, []string{"in", "hold"}, clips)
	assert.Equal(t, 3.0, p.Now())
}

func TestPlayerSeekAndStop(t *testing.T) {
	var last float64
	p := NewPlayer(Hooks{SetParam: func(_ string, v float64) { last = v }})
	require.NoError(t, p.Load(Program{Clips: []Clip{{Name: "a", DurationS: 4, Params: map[string]Envelope{
		"z": {Keys: []Keyframe{{T: 0, V: 0, Ease: "linear"}, {T: 4, V: 8}}},
	}}}}))
	p.Seek(2)
	assert.Equal(t, 4.0, last)
	p.Seek(100)
	assert.Less(t, p.Now(), 4.0)
	p.Stop()
	assert.Equal(t, 0.0, p.Now())
	assert.Equal(t, Idle, p.State)
}

func TestPlayerLoadValidates(t *testing.T) {
	p := NewPlayer(Hooks{})
	assert.Error(t, p.Load(Program{}))
	assert.Error(t, p.Load(Program{Clips: []Clip{{Name: "zero"}}}))
}

func TestPlayerLoops(t *testing.T) {
	var clips []string
	p := NewPlayer(Hooks{Clip: func(name string) { clips = append(clips, name) }})
	require.NoError(t, p.Load(Program{Loop: true, Clips: []Clip{{Name: "a", DurationS: 1}, {Name: "b", DurationS: 1}}}))
	p.Start()
	for i := 0; i < 4; i++ {
		p.Tick(1)
	}
	assert.Equal(t, Running, p.State)
	assert.Equal(t, []string{"a", "b", "a", "b", "a"}, clips)
}
