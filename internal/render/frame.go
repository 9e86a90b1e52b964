package render

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/coreman2200/skyflight/internal/camera"
	"github.com/coreman2200/skyflight/internal/motion"
	"github.com/coreman2200/skyflight/internal/sky"
	"github.com/coreman2200/skyflight/internal/waypoint"
)

// Input is everything the outside world feeds one frame.
type Input struct {
	Raw     float64 // scroll progress, clamped by the engine
	DT      float64 // seconds since the previous frame
	Aspect  float64 // viewport width / height
	Started bool
}

// Frame events.
const (
	EventEnded    = "journey.ended"
	EventScrolled = "journey.scrolled"
	EventIntro    = "intro.done"
)

// Frame is the plain-data result of one RenderOnce. Sinks that keep it past
// Write must copy it.
type Frame struct {
	ID uint64  `json:"id"`
	T  float64 `json:"t"`
	DT float64 `json:"dt"`

	Motion motion.State `json:"motion"`
	Camera camera.Pose  `json:"camera"`
	Lens   camera.Lens  `json:"lens"`
	Actor  ActorFrame   `json:"actor"`

	ColorA     string     `json:"colorA"`
	ColorB     string     `json:"colorB"`
	Sky        sky.Colors `json:"-"`
	Visibility float64    `json:"visibility"`
	Night      sky.Night  `json:"night"`

	SceneOpacity float64              `json:"sceneOpacity"`
	Waypoints    []waypoint.Proximity `json:"waypoints,omitempty"`

	Started  bool     `json:"started"`
	Scrolled bool     `json:"scrolled"`
	Ended    bool     `json:"ended"`
	Events   []string `json:"events,omitempty"`
}

// ActorFrame carries the actor orientation as x,y,z,w plus the intro offset
// applied to its local position.
type ActorFrame struct {
	Quaternion [4]float64 `json:"quaternion"`
	Bank       float64    `json:"bank"`
	Offset     mgl64.Vec3 `json:"offset"`
}

// Sink consumes frames. Write is called on the frame loop goroutine.
type Sink interface {
	Write(f *Frame) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(f *Frame) error

func (fn SinkFunc) Write(f *Frame) error { return fn(f) }

// InputBox holds the latest external input between frames. Transports write
// it from their own goroutines; the frame loop reads it once per frame.
type InputBox struct {
	mu      sync.Mutex
	raw     float64
	aspect  float64
	started bool
}

func NewInputBox() *InputBox { return &InputBox{aspect: 16.0 / 9.0} }

func (b *InputBox) SetProgress(p float64) {
	b.mu.Lock()
	b.raw = p
	b.mu.Unlock()
}

func (b *InputBox) SetAspect(a float64) {
	if !(a > 0) {
		return
	}
	b.mu.Lock()
	b.aspect = a
	b.mu.Unlock()
}

func (b *InputBox) SetStarted(v bool) {
	b.mu.Lock()
	b.started = v
	b.mu.Unlock()
}

// Snapshot returns the input for a frame of length dt.
func (b *InputBox) Snapshot(dt float64) Input {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Input{Raw: b.raw, DT: dt, Aspect: b.aspect, Started: b.started}
}
