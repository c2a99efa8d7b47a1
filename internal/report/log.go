package report

import (
	"fmt"
	"time"

	"github.com/shadracnicholas/engine/internal/deployment"
	"github.com/shadracnicholas/engine/internal/engineerr"
	"github.com/shadracnicholas/engine/internal/events"
	"github.com/shadracnicholas/engine/internal/logging"
)

// LogState is the state of a LogReporter deployment.
type LogState struct {
	Start time.Time
	Ticks int
}

// LogReporter narrates a deployment with elapsed time only.
type LogReporter[R any] struct {
	subject   string
	details   events.EventDetails
	logger    logging.Logger
	frequency time.Duration
	now       func() time.Time
}

// NewLogReporter creates a LogReporter for subject.
func NewLogReporter[R any](subject string, details events.EventDetails, logger logging.Logger) *LogReporter[R] {
	return &LogReporter[R]{
		subject:   subject,
		details:   details,
		logger:    logger,
		frequency: deployment.DefaultReportFrequency,
		now:       time.Now,
	}
}

// WithFrequency sets the progress cadence.
func (r *LogReporter[R]) WithFrequency(d time.Duration) *LogReporter[R] {
	r.frequency = d
	return r
}

// Logger implements deployment.Reporter.
func (r *LogReporter[R]) Logger() logging.Logger { return r.logger }

// ReportFrequency implements deployment.Reporter.
func (r *LogReporter[R]) ReportFrequency() time.Duration { return r.frequency }

// NewState implements deployment.Reporter.
func (r *LogReporter[R]) NewState() *LogState {
	return &LogState{}
}

// DeploymentBeforeStart implements deployment.Reporter.
func (r *LogReporter[R]) DeploymentBeforeStart(state *LogState) {
	state.Start = r.now()
	r.logger.Log(logging.Info(r.details, fmt.Sprintf("🚀 Deployment of %s is starting", r.subject)))
}

// DeploymentInProgress implements deployment.Reporter.
func (r *LogReporter[R]) DeploymentInProgress(state *LogState) {
	state.Ticks++
	elapsed := r.now().Sub(state.Start).Round(time.Second)
	r.logger.Log(logging.Info(r.details, fmt.Sprintf("⏳ Deployment of %s in progress (%s elapsed)", r.subject, elapsed)))
}

// DeploymentTerminated implements deployment.Reporter.
func (r *LogReporter[R]) DeploymentTerminated(_ R, err error, state *LogState) {
	elapsed := r.now().Sub(state.Start).Round(time.Second)
	logTermination(r.logger, r.details, r.subject, elapsed, err)
}

func logTermination(logger logging.Logger, details events.EventDetails, subject string, elapsed time.Duration, err error) {
	if err == nil {
		logger.Log(logging.Info(details, fmt.Sprintf("✅ Deployment of %s succeeded in %s", subject, elapsed)))
		return
	}

	engineErr, ok := engineerr.As(err)
	if !ok {
		engineErr = engineerr.NewUnknown(details, fmt.Sprintf("Deployment of %s failed.", subject), err)
	}
	msg := fmt.Sprintf("❌ Deployment of %s failed after %s: %s", subject, elapsed, engineErr.UserLogMessage())
	if hint := engineErr.Hint(); hint != "" {
		msg += " " + hint
	}
	logger.Log(logging.Error(engineErr, msg))
}
