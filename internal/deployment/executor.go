package deployment

import (
	"context"
	"sync"
	"time"

	"github.com/shadracnicholas/engine/internal/metrics"
)

// ExecuteLongDeployment runs task while reporter narrates its progress.
//
// PreRun executes on the calling goroutine without any reporting; its error is
// returned as is and no reporter callback is invoked. Run then executes on the
// calling goroutine while a single monitor goroutine calls
// DeploymentBeforeStart before Run starts and DeploymentInProgress every
// ReportFrequency until Run returns. Once the monitor has stopped,
// DeploymentTerminated is called exactly once with Run's outcome, followed by
// PostRunSuccess when Run succeeded. Run's error is returned unchanged.
func ExecuteLongDeployment[P, R, S any](ctx context.Context, reporter Reporter[R, S], task Task[P, R]) error {
	logger := reporter.Logger()
	state := reporter.NewState()

	pre, err := task.PreRun(ctx, logger)
	if err != nil {
		return err
	}

	frequency := reporter.ReportFrequency()
	if frequency <= 0 {
		frequency = DefaultReportFrequency
	}

	start := newBarrier(2)
	done := make(chan struct{}, 1)
	// A closed channel without a completion message means Run panicked.
	defer close(done)

	var monitor sync.WaitGroup
	monitor.Add(1)
	go func() {
		defer monitor.Done()

		reporter.DeploymentBeforeStart(state)
		start.Wait()

		timer := time.NewTimer(frequency)
		defer timer.Stop()
		for {
			select {
			case _, ok := <-done:
				if !ok {
					panic("deployment: worker exited without signaling completion")
				}
				return
			case <-timer.C:
				reporter.DeploymentInProgress(state)
				metrics.RecordProgressReport()
				timer.Reset(frequency)
			}
		}
	}()

	start.Wait()
	runStart := time.Now()
	result, runErr := task.Run(ctx, logger, pre)
	done <- struct{}{}
	monitor.Wait()

	metrics.RecordDeployment(runErr == nil, time.Since(runStart))
	reporter.DeploymentTerminated(result, runErr, state)

	if runErr != nil {
		return runErr
	}
	task.PostRunSuccess(ctx, logger, result)
	return nil
}

// barrier is a single-use rendezvous for a fixed number of goroutines.
type barrier struct {
	mu      sync.Mutex
	arrived int
	parties int
	release chan struct{}
}

func newBarrier(parties int) *barrier {
	return &barrier{parties: parties, release: make(chan struct{})}
}

// Wait blocks until every party has called Wait.
func (b *barrier) Wait() {
	b.mu.Lock()
	b.arrived++
	if b.arrived == b.parties {
		close(b.release)
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()
	<-b.release
}
