package deployment

import (
	"context"
	"time"

	"github.com/shadracnicholas/engine/internal/logging"
)

// DefaultReportFrequency is the cadence of DeploymentInProgress calls.
const DefaultReportFrequency = 10 * time.Second

// Reporter narrates the progress of a long-running deployment.
//
// S is the reporter's state. It is created once per deployment by NewState
// and is only ever touched by one goroutine at a time: the monitor goroutine
// while the task runs, the caller once the monitor has been joined. S is
// usually a pointer so callbacks can mutate it.
type Reporter[R, S any] interface {
	Logger() logging.Logger
	NewState() S
	DeploymentBeforeStart(state S)
	DeploymentInProgress(state S)
	DeploymentTerminated(result R, err error, state S)
	ReportFrequency() time.Duration
}

// Task is a three-phase unit of work driven by ExecuteLongDeployment.
//
// PreRun is not reported. Run is the reported phase. PostRunSuccess only runs
// when Run succeeded and receives Run's result.
type Task[P, R any] interface {
	PreRun(ctx context.Context, logger logging.Logger) (P, error)
	Run(ctx context.Context, logger logging.Logger, pre P) (R, error)
	PostRunSuccess(ctx context.Context, logger logging.Logger, result R)
}

// ReportFrequencyDefault can be embedded by reporters that keep the default cadence.
type ReportFrequencyDefault struct{}

// ReportFrequency returns DefaultReportFrequency.
func (ReportFrequencyDefault) ReportFrequency() time.Duration {
	return DefaultReportFrequency
}
