package engineerr

import (
	"fmt"
	"strings"
)

// Verbosity selects how much of an error is rendered.
type Verbosity int

const (
	// SafeOnly renders only the message that is safe to show to anyone.
	SafeOnly Verbosity = iota
	// FullDetailsWithoutEnvVars adds the raw details (command output, API responses).
	FullDetailsWithoutEnvVars
	// FullDetails adds the raw details and the captured environment variables.
	FullDetails
)

func (v Verbosity) String() string {
	switch v {
	case SafeOnly:
		return "safe-only"
	case FullDetailsWithoutEnvVars:
		return "full-details-without-env-vars"
	case FullDetails:
		return "full-details"
	default:
		return fmt.Sprintf("Verbosity(%d)", int(v))
	}
}

// EnvVar is a captured environment variable.
type EnvVar struct {
	Key   string
	Value string
}

// CommandError describes the failure of an external command or API call.
//
// The safe message never contains secrets. The full details may carry
// command output, and env vars may carry credentials: both are only rendered
// when explicitly requested through Message.
type CommandError struct {
	safeMessage string
	fullDetails *string
	envVars     []EnvVar
}

// NewCommandError creates a CommandError. fullDetails and envVars are optional.
func NewCommandError(safeMessage string, fullDetails *string, envVars []EnvVar) *CommandError {
	return &CommandError{
		safeMessage: safeMessage,
		fullDetails: fullDetails,
		envVars:     envVars,
	}
}

// NewCommandErrorSafe creates a CommandError carrying only a safe message.
func NewCommandErrorSafe(safeMessage string) *CommandError {
	return NewCommandError(safeMessage, nil, nil)
}

// NewCommandErrorFromCommandLine creates a CommandError for a failed command line.
// The command, its arguments and its output are kept as full details.
func NewCommandErrorFromCommandLine(message, bin string, args []string, envVars []EnvVar, stdout, stderr *string) *CommandError {
	var b strings.Builder
	b.WriteString(message)
	b.WriteString("\ncommand: ")
	b.WriteString(bin)
	if len(args) > 0 {
		b.WriteString(" ")
		b.WriteString(strings.Join(args, " "))
	}
	if stdout != nil {
		b.WriteString("\nSTDOUT ")
		b.WriteString(*stdout)
	}
	if stderr != nil {
		b.WriteString("\nSTDERR ")
		b.WriteString(*stderr)
	}
	full := b.String()

	return NewCommandError(message, &full, envVars)
}

// SafeMessage returns the message that is always safe to display.
func (e *CommandError) SafeMessage() string {
	return e.safeMessage
}

// FullDetails returns the unsafe details, if any.
func (e *CommandError) FullDetails() (string, bool) {
	if e.fullDetails == nil {
		return "", false
	}
	return *e.fullDetails, true
}

// Message renders the error at the given verbosity.
func (e *CommandError) Message(verbosity Verbosity) string {
	switch verbosity {
	case FullDetails:
		if len(e.envVars) == 0 {
			return e.Message(FullDetailsWithoutEnvVars)
		}
		pairs := make([]string, 0, len(e.envVars))
		for _, env := range e.envVars {
			pairs = append(pairs, env.Key+"="+env.Value)
		}
		return fmt.Sprintf("%s / Env vars: %s", e.Message(FullDetailsWithoutEnvVars), strings.Join(pairs, " "))
	case FullDetailsWithoutEnvVars:
		if e.fullDetails == nil {
			return e.Message(SafeOnly)
		}
		return fmt.Sprintf("%s / Full details: %s", e.safeMessage, *e.fullDetails)
	default:
		return e.safeMessage
	}
}

func (e *CommandError) Error() string {
	return e.safeMessage
}

func (e *CommandError) String() string {
	return e.safeMessage
}

// GoString keeps env vars out of %#v output.
func (e *CommandError) GoString() string {
	return fmt.Sprintf("CommandError{safeMessage: %q, envVars: %d hidden}", e.safeMessage, len(e.envVars))
}

// Format keeps env vars and full details out of every fmt verb.
func (e *CommandError) Format(f fmt.State, verb rune) {
	if verb == 'v' && f.Flag('#') {
		_, _ = fmt.Fprint(f, e.GoString())
		return
	}
	_, _ = fmt.Fprint(f, e.safeMessage)
}
