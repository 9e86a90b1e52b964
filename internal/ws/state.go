package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/skyflight/internal/config"
	diag "github.com/coreman2200/skyflight/internal/diagnostics"
	"github.com/coreman2200/skyflight/internal/render"
	"github.com/coreman2200/skyflight/internal/script"
)

// writeWait bounds every websocket write so one slow client cannot stall the frame loop.
const writeWait = 200 * time.Millisecond

// State is the network face of the frame loop: it feeds control input into
// the InputBox, broadcasts frames and diagnostics, and answers health checks.
type State struct {
	mu         sync.RWMutex
	Input      *render.InputBox
	FPS        int
	Brightness float64

	ConfigPath    string
	Config        *config.Config
	CurrentDriver string
	// OnBrightness is called with the clamped value after a control change.
	OnBrightness func(float64)

	last        render.Frame
	startTime   time.Time
	clients     map[*websocket.Conn]bool
	diagClients map[*websocket.Conn]bool

	script   *script.Runner
	resetReq bool
}

func NewState(in *render.InputBox, fps int, brightness float64) *State {
	return &State{
		Input:       in,
		FPS:         fps,
		Brightness:  brightness,
		startTime:   time.Now(),
		clients:     map[*websocket.Conn]bool{},
		diagClients: map[*websocket.Conn]bool{},
	}
}

// control is the message accepted on /ws/control. Absent fields are left alone.
type control struct {
	Progress   *float64 `json:"progress"`
	Aspect     *float64 `json:"aspect"`
	Play       *bool    `json:"play"`
	Brightness *float64 `json:"brightness"`
	FPS        *int     `json:"fps"`
	RunScript  string   `json:"runScript"`
	DurationS  float64  `json:"durationS"`
	Reset      bool     `json:"reset"`
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func (s *State) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	// greet before joining the broadcast set so writes never overlap
	s.sendHello(conn)
	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()
	s.drain(conn, s.clients)
}

func (s *State) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.diagClients[conn] = true
	s.mu.Unlock()
	s.drain(conn, s.diagClients)
}

// drain reads until the peer goes away, then forgets the connection.
func (s *State) drain(conn *websocket.Conn, set map[*websocket.Conn]bool) {
	go func() {
		defer func() {
			s.mu.Lock()
			delete(set, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *State) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg control
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Debug().Err(err).Msg("bad control message")
			continue
		}
		s.applyControl(msg)
		s.sendStatus(conn)
	}
}

func (s *State) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.status())
}

func (s *State) status() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resp := map[string]any{
		"frame_id":   s.last.ID,
		"uptime_s":   time.Since(s.startTime).Seconds(),
		"fps":        s.FPS,
		"brightness": s.Brightness,
		"driver":     s.CurrentDriver,
		"progress":   s.last.Motion.Progress,
		"started":    s.last.Started,
		"ended":      s.last.Ended,
	}
	if s.script != nil {
		resp["script"] = s.script.Kind()
	}
	return resp
}

func (s *State) applyControl(msg control) {
	if msg.Progress != nil {
		s.Input.SetProgress(*msg.Progress)
	}
	if msg.Aspect != nil {
		s.Input.SetAspect(*msg.Aspect)
	}
	if msg.Play != nil {
		s.Input.SetStarted(*msg.Play)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	if msg.Brightness != nil {
		s.Brightness = clamp(*msg.Brightness, 0, 1)
		if s.OnBrightness != nil {
			s.OnBrightness(s.Brightness)
		}
		changed = true
	}
	if msg.FPS != nil && *msg.FPS > 0 {
		// takes effect on the next start
		s.FPS = *msg.FPS
		changed = true
	}
	if msg.Reset {
		s.resetReq = true
		s.script = nil
	}
	if msg.RunScript != "" {
		s.startScript(msg.RunScript, msg.DurationS)
	}
	if changed {
		s.saveConfig()
	}
}

func (s *State) startScript(name string, durationS float64) {
	if durationS <= 0 {
		durationS = 20
	}
	kind, err := script.Parse(name)
	if err == nil {
		var r *script.Runner
		if r, err = script.NewRunner(script.Plan{Kind: kind, DurationS: durationS}); err == nil {
			s.script = r
			s.pushDiag(diag.Diagnostic{Severity: diag.Info, Code: "SCRIPT.RUNNING", Summary: "Running script", Detail: name, At: time.Now()})
			return
		}
	}
	s.pushDiag(diag.Diagnostic{
		Severity: diag.Warn, Code: "SCRIPT.UNKNOWN", Summary: "Unknown script name",
		Evidence: map[string]any{"name": name}, At: time.Now(),
	})
}

// ScriptStep advances a running script by dt. ok is false when no script is
// running; the finishing frame still reports its final value.
func (s *State) ScriptStep(dt float64) (raw float64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.script == nil {
		return 0, false
	}
	raw, more := s.script.Step(dt)
	if !more {
		s.pushDiag(diag.Diagnostic{Severity: diag.Info, Code: diag.ScriptDone, Summary: "Script complete", Detail: string(s.script.Kind()), At: time.Now()})
		s.script = nil
		s.Input.SetProgress(raw)
	}
	return raw, true
}

// TakeReset reports and clears a pending reset request.
func (s *State) TakeReset() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.resetReq
	s.resetReq = false
	return r
}

func (s *State) saveConfig() {
	if s.ConfigPath == "" || s.Config == nil {
		return
	}
	s.Config.Brightness = s.Brightness
	s.Config.FPS = s.FPS
	if err := config.Save(s.ConfigPath, s.Config); err != nil {
		log.Warn().Err(err).Str("path", s.ConfigPath).Msg("save config")
	}
}

// sendHello tells a new frame client what it is connected to.
func (s *State) sendHello(conn *websocket.Conn) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, _ := json.Marshal(map[string]any{"type": "hello", "driver": s.CurrentDriver, "fps": s.FPS})
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteMessage(websocket.TextMessage, b)
}

func (s *State) sendStatus(conn *websocket.Conn) {
	b, _ := json.Marshal(s.status())
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteMessage(websocket.TextMessage, b)
}

// Write implements render.Sink by broadcasting the frame as JSON.
func (s *State) Write(f *render.Frame) error {
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.last = *f
	s.last.Waypoints = nil
	s.last.Events = nil
	s.mu.Unlock()

	var dead []*websocket.Conn
	s.mu.RLock()
	for c := range s.clients {
		c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("write frame; dropping client")
			dead = append(dead, c)
		}
	}
	s.mu.RUnlock()

	if len(dead) > 0 {
		s.mu.Lock()
		for _, c := range dead {
			delete(s.clients, c)
		}
		s.mu.Unlock()
		for _, c := range dead {
			c.Close()
		}
	}
	return nil
}

// PushDiag broadcasts d to every diagnostics client.
func (s *State) PushDiag(d diag.Diagnostic) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.pushDiag(d)
}

// pushDiag expects s.mu to be held.
func (s *State) pushDiag(d diag.Diagnostic) {
	b, _ := json.Marshal(d)
	for c := range s.diagClients {
		c.SetWriteDeadline(time.Now().Add(writeWait))
		_ = c.WriteMessage(websocket.TextMessage, b)
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
