package render

import (
	"errors"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/coreman2200/skyflight/internal/actor"
	"github.com/coreman2200/skyflight/internal/camera"
	"github.com/coreman2200/skyflight/internal/journey"
	"github.com/coreman2200/skyflight/internal/motion"
	"github.com/coreman2200/skyflight/internal/sequence"
	"github.com/coreman2200/skyflight/internal/sky"
	"github.com/coreman2200/skyflight/internal/waypoint"
)

const (
	// fadeInRate and fadeOutRate drive scene opacity toward 1 while started
	// and toward 0 otherwise.
	fadeInRate  = 0.1
	fadeOutRate = 1.0
)

// Engine runs the per-frame pipeline: motion, camera, actor, sky timeline,
// night visibility, then sinks. It is driven by one goroutine.
type Engine struct {
	j      *journey.Journey
	motion *motion.Controller
	rig    *camera.Rig
	actor  *actor.Orientation
	intro  *sequence.Player

	colors      sky.Colors
	actorOffset mgl64.Vec3
	opacity     float64
	introArmed  bool
	events      []string

	sinks []Sink

	id    uint64
	clock float64
	prev  Frame

	// metrics (last durations in ms)
	Last struct {
		ComputeMS float64
		SinkMS    float64
		TotalMS   float64
	}
}

// NewEngine wires a fresh pipeline around j. Sinks may also be added later.
func NewEngine(j *journey.Journey, sinks ...Sink) (*Engine, error) {
	if j == nil || j.Curve == nil || j.Timeline == nil {
		return nil, errors.New("render: journey needs a curve and a timeline")
	}
	e := &Engine{
		j:      j,
		motion: motion.New(j.Waypoints),
		rig:    camera.NewRig(j.Curve, j.Waypoints),
		actor:  actor.New(j.Curve),
		sinks:  sinks,
	}
	e.intro = sequence.NewPlayer(sequence.Hooks{
		SetParam: e.setParam,
		Done:     func() { e.events = append(e.events, EventIntro) },
	})
	if len(j.Intro.Clips) > 0 {
		if err := e.intro.Load(j.Intro); err != nil {
			return nil, err
		}
		e.applyIntroStart()
	}
	j.Timeline.Seek(0, &e.colors)
	e.prev = e.snapshot(motion.State{Friction: 1, Waypoint: -1}, camera.Viewport(0))
	return e, nil
}

// AddSink registers another frame consumer.
func (e *Engine) AddSink(s Sink) { e.sinks = append(e.sinks, s) }

// Reset puts the journey back at its start without touching sinks.
func (e *Engine) Reset() {
	e.motion.Reset()
	e.rig.Reset()
	e.actor.Reset()
	e.intro.Stop()
	e.introArmed = false
	e.opacity = 0
	e.events = nil
	e.applyIntroStart()
	e.j.Timeline.Seek(0, &e.colors)
}

// ActiveWaypoints lists the waypoints in range of the current camera position.
func (e *Engine) ActiveWaypoints() []waypoint.Proximity {
	if e.j.Waypoints == nil {
		return nil
	}
	return e.j.Waypoints.Active(e.rig.Position())
}

func (e *Engine) Journey() *journey.Journey { return e.j }

// RenderOnce advances every component by one frame and publishes the result.
// The first sink error is returned after all sinks have run.
func (e *Engine) RenderOnce(in Input) (*Frame, error) {
	start := time.Now()

	dt := in.DT
	if !(dt > 0) || math.IsInf(dt, 0) {
		dt = 0
	}
	e.clock += dt

	e.motion.SetStarted(in.Started)
	if in.Started && !e.introArmed {
		e.introArmed = true
		e.intro.Start()
	}
	e.intro.Tick(dt)

	if in.Started {
		if e.opacity < 1 {
			e.opacity = lerp(e.opacity, 1, math.Min(dt*fadeInRate, 1))
		}
	} else if e.opacity > 0 {
		e.opacity = lerp(e.opacity, 0, math.Min(dt*fadeOutRate, 1))
	}

	lens := camera.Viewport(in.Aspect)

	st := e.motion.Advance(in.Raw, dt, e.rig.Position())
	cam := e.rig.Update(st, dt)
	e.actor.Update(st, dt, cam.Heading)
	e.j.Timeline.Seek(st.Progress*e.j.Timeline.Duration(), &e.colors)

	if st.ScrolledNow {
		e.events = append(e.events, EventScrolled)
	}
	if st.EndedNow {
		e.events = append(e.events, EventEnded)
	}

	e.id++
	f := e.snapshot(st, lens)
	f.DT = dt
	e.events = nil
	e.Last.ComputeMS = ms(time.Since(start))

	sinkStart := time.Now()
	var firstErr error
	for _, s := range e.sinks {
		if err := s.Write(&f); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	e.Last.SinkMS = ms(time.Since(sinkStart))
	e.Last.TotalMS = ms(time.Since(start))

	e.prev = f
	return &f, firstErr
}

// snapshot assembles the frame, falling back to the previous frame for any
// value that came out non-finite.
func (e *Engine) snapshot(st motion.State, lens camera.Lens) Frame {
	cam := e.rig.Pose()
	act := e.actor.Pose()
	q := act.Orientation
	f := Frame{
		ID:       e.id,
		T:        e.clock,
		Motion:   st,
		Camera:   cam,
		Lens:     lens,
		Sky:      e.colors,
		ColorA:   e.colors.A.Hex(),
		ColorB:   e.colors.B.Hex(),
		Started:  e.motion.Started(),
		Scrolled: e.motion.Scrolled(),
		Ended:    e.motion.Ended(),
		Actor: ActorFrame{
			Quaternion: [4]float64{q.V[0], q.V[1], q.V[2], q.W},
			Bank:       act.Bank,
			Offset:     e.actorOffset,
		},
		SceneOpacity: e.opacity,
	}
	if e.j.Waypoints != nil {
		f.Waypoints = e.j.Waypoints.Active(cam.Position)
	}
	if len(e.events) > 0 {
		f.Events = append([]string(nil), e.events...)
	}

	f.Visibility = sky.Visibility(e.colors)
	if !finite(f.SceneOpacity) {
		f.SceneOpacity = e.prev.SceneOpacity
		e.opacity = f.SceneOpacity
	}
	if !finite(f.Motion.Progress) {
		f.Motion = e.prev.Motion
	}
	f.Night = sky.NightFrom(f.Visibility)
	return f
}

func (e *Engine) setParam(name string, v float64) {
	if !finite(v) {
		return
	}
	switch name {
	case journey.ParamActorY:
		e.actorOffset[1] = v
	case journey.ParamActorZ:
		e.actorOffset[2] = v
	}
}

// applyIntroStart parks the actor at the first intro keyframe so it does not
// pop before the journey starts.
func (e *Engine) applyIntroStart() {
	e.actorOffset = mgl64.Vec3{}
	if len(e.j.Intro.Clips) == 0 {
		return
	}
	for name, env := range e.j.Intro.Clips[0].Params {
		e.setParam(name, env.Eval(0))
	}
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func ms(d time.Duration) float64 { return float64(d.Microseconds()) / 1000.0 }
