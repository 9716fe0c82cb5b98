// Package notify delivers short user-facing notices ("Task added", "Task
// deleted", save warnings) to whatever is showing them: the TUI status line,
// the CLI's stderr, the log, or the desktop notification center.
package notify

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Level classifies a notice.
type Level int

const (
	Info Level = iota
	Success
	Warning
)

func (l Level) String() string {
	switch l {
	case Success:
		return "success"
	case Warning:
		return "warning"
	default:
		return "info"
	}
}

// ParseLevel maps "info", "success" or "warning" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info", "":
		return Info, nil
	case "success":
		return Success, nil
	case "warning", "warn":
		return Warning, nil
	}
	return Info, fmt.Errorf("unknown notice level %q", s)
}

// Notice is one user-facing message.
type Notice struct {
	Level   Level
	Message string
}

// Sink receives notices. Implementations must not block for long; the task
// store calls Notify inline.
type Sink interface {
	Notify(n Notice)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Notice)

// Notify implements Sink.
func (f SinkFunc) Notify(n Notice) { f(n) }

// Discard drops every notice.
var Discard Sink = SinkFunc(func(Notice) {})

type multi []Sink

func (m multi) Notify(n Notice) {
	for _, s := range m {
		s.Notify(n)
	}
}

// Multi fans a notice out to every non-nil sink.
func Multi(sinks ...Sink) Sink {
	var out multi
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// Recorder keeps every notice it receives.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

// Notify implements Sink.
func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
}

// Notices returns a copy of what has been recorded.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Last returns the most recent notice.
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.notices = nil
	r.mu.Unlock()
}

// Log writes notices to logger: warnings at warn level, the rest at info.
func Log(logger *log.Logger) Sink {
	return SinkFunc(func(n Notice) {
		if n.Level == Warning {
			logger.Warn(n.Message)
			return
		}
		logger.Info(n.Message, "notice", n.Level.String())
	})
}
