package sequence

import (
	"errors"
	"math"
)

// NewPlayer constructs a Player with provided hooks.
func NewPlayer(h Hooks) *Player {
	return &Player{State: Idle, hooks: h}
}

// Load replaces the current program. Resets time and state to Idle.
func (p *Player) Load(prog Program) error {
	if len(prog.Clips) == 0 {
		return errors.New("program has no clips")
	}
	for _, c := range prog.Clips {
		if !(c.DurationS > 0) {
			return errors.New("clip " + c.Name + " needs a positive duration")
		}
	}
	p.prog = prog
	p.nowS = 0
	p.idx = 0
	p.State = Idle
	return nil
}

// Start moves to Running and primes the first clip at its current time.
func (p *Player) Start() {
	if p.State == Running || len(p.prog.Clips) == 0 {
		return
	}
	p.State = Running
	p.enter()
	p.emit()
}

// Pause pauses playback.
func (p *Player) Pause() {
	if p.State == Running {
		p.State = Paused
	}
}

// Resume resumes playback.
func (p *Player) Resume() {
	if p.State == Paused {
		p.State = Running
	}
}

// Stop stops and resets to start.
func (p *Player) Stop() {
	p.State = Idle
	p.nowS = 0
	p.idx = 0
}

// Now is the position within the program in seconds.
func (p *Player) Now() float64 { return p.nowS }

// Seek jumps to absolute program time t. Clamps into [0, totalDur).
func (p *Player) Seek(t float64) {
	if len(p.prog.Clips) == 0 {
		return
	}
	if !(t > 0) {
		t = 0
	}
	total := p.Duration()
	if t >= total {
		t = math.Nextafter(total, -1)
	}
	acc := 0.0
	idx := 0
	for i, c := range p.prog.Clips {
		if t < acc+c.DurationS {
			idx = i
			break
		}
		acc += c.DurationS
	}
	p.idx = idx
	p.nowS = t
	p.enter()
	p.emit()
}

// Tick advances the sequencer by dt seconds and emits control hooks.
func (p *Player) Tick(dt float64) {
	if p.State != Running || len(p.prog.Clips) == 0 {
		return
	}
	if !(dt > 0) {
		return
	}
	p.nowS += dt
	clip, localT := p.current()
	p.emit()
	if localT >= clip.DurationS {
		p.advanceClip()
	}
}

// Duration is the summed length of all clips.
func (p *Player) Duration() float64 {
	total := 0.0
	for _, c := range p.prog.Clips {
		total += c.DurationS
	}
	return total
}

func (p *Player) current() (Clip, float64) {
	acc := 0.0
	for i := 0; i < p.idx; i++ {
		acc += p.prog.Clips[i].DurationS
	}
	return p.prog.Clips[p.idx], p.nowS - acc
}

func (p *Player) emit() {
	clip, localT := p.current()
	for name, env := range clip.Params {
		if p.hooks.SetParam != nil {
			p.hooks.SetParam(name, env.Eval(localT))
		}
	}
}

func (p *Player) enter() {
	if p.hooks.Clip != nil {
		p.hooks.Clip(p.prog.Clips[p.idx].Name)
	}
}

func (p *Player) advanceClip() {
	next := p.idx + 1
	if next >= len(p.prog.Clips) {
		if !p.prog.Loop {
			p.State = Idle
			p.nowS = p.Duration()
			p.idx = len(p.prog.Clips) - 1
			if p.hooks.Done != nil {
				p.hooks.Done()
			}
			return
		}
		next = 0
		p.nowS -= p.Duration()
	}
	p.idx = next
	p.enter()
}
