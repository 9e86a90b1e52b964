package diagnostics

import (
	"time"

	"github.com/coreman2200/skyflight/internal/render"
)

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

// Codes raised by the frame loop and the transports.
const (
	JourneyEnded    = "JOURNEY.ENDED"
	JourneyScrolled = "JOURNEY.SCROLLED"
	IntroDone       = "INTRO.DONE"
	SinkFailed      = "SINK.WRITE_FAILED"
	FrameOverrun    = "LOOP.FRAME_OVERRUN"
	ScriptDone      = "SCRIPT.DONE"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
	At             time.Time      `json:"at"`
}

// ForEvent maps a frame event to its diagnostic. ok is false for unknown events.
func ForEvent(ev string, frameID uint64, progress float64) (Diagnostic, bool) {
	d := Diagnostic{
		Severity: Info,
		Evidence: map[string]any{"frame": frameID, "progress": progress},
		At:       time.Now(),
	}
	switch ev {
	case render.EventEnded:
		d.Code, d.Summary = JourneyEnded, "Journey reached its end"
	case render.EventScrolled:
		d.Code, d.Summary = JourneyScrolled, "First scroll input received"
	case render.EventIntro:
		d.Code, d.Summary = IntroDone, "Intro animation finished"
	default:
		return Diagnostic{}, false
	}
	return d, true
}

// SinkError describes a frame sink that failed to write.
func SinkError(err error) Diagnostic {
	return Diagnostic{
		Severity:       Warn,
		Code:           SinkFailed,
		Summary:        "A frame sink failed to write",
		Detail:         err.Error(),
		LikelyCauses:   []string{"LED strip unplugged or SPI port busy", "Websocket client went away mid-write"},
		SuggestedFixes: []string{"Check the strip wiring and the strip.dev setting", "Restart with driver: sim to rule out hardware"},
		At:             time.Now(),
	}
}

// Overrun describes a frame that took longer than its budget.
func Overrun(took, budget time.Duration) Diagnostic {
	return Diagnostic{
		Severity:       Warn,
		Code:           FrameOverrun,
		Summary:        "Frame took longer than the tick interval",
		Evidence:       map[string]any{"took_ms": took.Milliseconds(), "budget_ms": budget.Milliseconds()},
		SuggestedFixes: []string{"Lower fps", "Reduce strip.pixels"},
		At:             time.Now(),
	}
}
