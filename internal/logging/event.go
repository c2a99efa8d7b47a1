package logging

import (
	"time"

	"github.com/shadracnicholas/engine/internal/engineerr"
	"github.com/shadracnicholas/engine/internal/events"
)

// EventType represents the severity of an engine event.
type EventType string

const (
	// EventInfo narrates normal progress.
	EventInfo EventType = "info"
	// EventWarning reports a non-fatal problem.
	EventWarning EventType = "warning"
	// EventError reports a failure.
	EventError EventType = "error"
)

// EngineEvent is a user-facing event emitted by the engine.
type EngineEvent struct {
	Type      EventType
	Details   events.EventDetails
	Message   string
	Err       *engineerr.EngineError
	Timestamp time.Time
}

// Info creates an informational event.
func Info(details events.EventDetails, message string) EngineEvent {
	return EngineEvent{Type: EventInfo, Details: details, Message: message, Timestamp: time.Now()}
}

// Warning creates a warning event.
func Warning(details events.EventDetails, message string) EngineEvent {
	return EngineEvent{Type: EventWarning, Details: details, Message: message, Timestamp: time.Now()}
}

// Error creates an error event. The event details are taken from the error.
func Error(err *engineerr.EngineError, message string) EngineEvent {
	if message == "" {
		message = err.UserLogMessage()
	}
	return EngineEvent{
		Type:      EventError,
		Details:   err.EventDetails(),
		Message:   message,
		Err:       err,
		Timestamp: time.Now(),
	}
}
