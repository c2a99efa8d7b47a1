package engineerr

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/shadracnicholas/engine/internal/events"
)

// DefaultHint is surfaced when no tag-specific hint exists.
const DefaultHint = "Need help? Check the engine documentation or open an issue with the execution id."

// EngineError is the error type crossing every engine boundary.
type EngineError struct {
	tag            Tag
	eventDetails   events.EventDetails
	userLogMessage string
	underlying     *CommandError
	link           *url.URL
	hint           string
}

// New creates an EngineError. The event details are moved to the cancel
// stage when tag is TaskCancellationRequested and to the error stage
// otherwise.
func New(tag Tag, details events.EventDetails, userLogMessage string, underlying *CommandError, link *url.URL, hint string) *EngineError {
	stage := details.Stage().ToError()
	if tag.IsCancel() {
		stage = details.Stage().ToCancel()
	}

	return &EngineError{
		tag:            tag,
		eventDetails:   details.CloneWithStage(stage),
		userLogMessage: userLogMessage,
		underlying:     underlying,
		link:           link,
		hint:           hint,
	}
}

// Tag returns the error classification.
func (e *EngineError) Tag() Tag { return e.tag }

// EventDetails returns the event context at the time of failure.
func (e *EngineError) EventDetails() events.EventDetails { return e.eventDetails }

// UserLogMessage returns the user-facing message.
func (e *EngineError) UserLogMessage() string { return e.userLogMessage }

// Underlying returns the wrapped command error, if any.
func (e *EngineError) Underlying() *CommandError { return e.underlying }

// Link returns the documentation link, if any.
func (e *EngineError) Link() *url.URL { return e.link }

// Hint returns the actionable hint, if any.
func (e *EngineError) Hint() string { return e.hint }

// Message renders the error at the given verbosity. When a command error is
// attached its rendering wins over the user log message.
func (e *EngineError) Message(verbosity Verbosity) string {
	if e.underlying != nil {
		return e.underlying.Message(verbosity)
	}
	return e.userLogMessage
}

// CloneWithStage returns a copy of e reported against another pipeline stage.
func (e *EngineError) CloneWithStage(stage events.Stage) *EngineError {
	clone := *e
	clone.eventDetails = e.eventDetails.CloneWithStage(stage)
	return &clone
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %s", e.tag, e.userLogMessage)
}

func (e *EngineError) Unwrap() error {
	if e.underlying == nil {
		return nil
	}
	return e.underlying
}

// As returns the EngineError in err's chain, if any.
func As(err error) (*EngineError, bool) {
	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		return engineErr, true
	}
	return nil, false
}

// HasTag reports whether err carries an EngineError with the given tag.
func HasTag(err error, tag Tag) bool {
	engineErr, ok := As(err)
	return ok && engineErr.tag == tag
}

// fromError keeps a raw error out of the safe tier: its text may carry
// secrets echoed by APIs or commands.
func fromError(safeMessage string, err error) *CommandError {
	if err == nil {
		return NewCommandErrorSafe(safeMessage)
	}
	raw := err.Error()
	return NewCommandError(safeMessage, &raw, nil)
}

func mustParseURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		panic(fmt.Sprintf("invalid documentation link %q: %v", raw, err))
	}
	return u
}
