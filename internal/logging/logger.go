package logging

import (
	"context"
	"sync"

	"github.com/go-logr/logr"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/shadracnicholas/engine/internal/engineerr"
)

// Logger receives engine events.
type Logger interface {
	Log(event EngineEvent)
}

// LogrLogger writes engine events to a logr.Logger as structured records.
type LogrLogger struct {
	log       logr.Logger
	verbosity engineerr.Verbosity
}

// NewLogrLogger creates a Logger backed by l. Error events render the
// attached EngineError at the given verbosity.
func NewLogrLogger(l logr.Logger, verbosity engineerr.Verbosity) *LogrLogger {
	return &LogrLogger{log: l, verbosity: verbosity}
}

// IntoContext stores l in ctx for FromContext and controller-runtime helpers.
func IntoContext(ctx context.Context, l logr.Logger) context.Context {
	return log.IntoContext(ctx, l)
}

// FromContext returns a Logger backed by the logr.Logger stored in ctx.
func FromContext(ctx context.Context, verbosity engineerr.Verbosity) *LogrLogger {
	return NewLogrLogger(log.FromContext(ctx), verbosity)
}

// Log implements Logger.
func (l *LogrLogger) Log(event EngineEvent) {
	kv := event.Details.KeysAndValues()

	switch event.Type {
	case EventError:
		if event.Err == nil {
			l.log.Error(nil, event.Message, kv...)
			return
		}
		kv = append(kv, "tag", event.Err.Tag().String(), "details", event.Err.Message(l.verbosity))
		if hint := event.Err.Hint(); hint != "" {
			kv = append(kv, "hint", hint)
		}
		if link := event.Err.Link(); link != nil {
			kv = append(kv, "link", link.String())
		}
		l.log.Error(event.Err, event.Message, kv...)
	case EventWarning:
		l.log.Info(event.Message, append(kv, "level", "warning")...)
	default:
		l.log.Info(event.Message, kv...)
	}
}

// Recorder is a Logger keeping every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []EngineEvent
}

// Log implements Logger.
func (r *Recorder) Log(event EngineEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a snapshot of the recorded events.
func (r *Recorder) Events() []EngineEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EngineEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Messages returns the messages of the recorded events.
func (r *Recorder) Messages() []string {
	evts := r.Events()
	out := make([]string, 0, len(evts))
	for _, e := range evts {
		out = append(out, e.Message)
	}
	return out
}

// Multi fans events out to several loggers.
type Multi []Logger

// Log implements Logger.
func (m Multi) Log(event EngineEvent) {
	for _, l := range m {
		l.Log(event)
	}
}
