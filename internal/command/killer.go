// Package command supervises long-running external operations (helm
// upgrades, image builds) with a deadline and a polled cancellation predicate.
package command

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultPollInterval is how often the cancellation predicate is checked.
const DefaultPollInterval = time.Second

// AbortReason tells why an operation was killed.
type AbortReason int

const (
	// AbortTimeout means the deadline passed.
	AbortTimeout AbortReason = iota
	// AbortCanceled means the task was canceled by an operator.
	AbortCanceled
)

func (r AbortReason) String() string {
	if r == AbortCanceled {
		return "canceled"
	}
	return "timeout"
}

// AbortedError is returned when a supervised operation was killed.
type AbortedError struct {
	Reason  AbortReason
	Timeout time.Duration
	Err     error
}

func (e *AbortedError) Error() string {
	if e.Reason == AbortTimeout {
		return fmt.Sprintf("operation aborted: timeout after %s", e.Timeout)
	}
	return "operation aborted: task canceled"
}

func (e *AbortedError) Unwrap() error {
	return e.Err
}

// IsAborted reports whether err was produced by a Killer.
func IsAborted(err error) (*AbortedError, bool) {
	var aborted *AbortedError
	if errors.As(err, &aborted) {
		return aborted, true
	}
	return nil, false
}

// Killer decides when a supervised operation must stop.
// A zero timeout disables the deadline. A nil predicate never cancels.
type Killer struct {
	timeout      time.Duration
	isCanceled   func() bool
	pollInterval time.Duration
}

// NewKiller creates a Killer.
func NewKiller(timeout time.Duration, isCanceled func() bool) *Killer {
	return &Killer{timeout: timeout, isCanceled: isCanceled, pollInterval: DefaultPollInterval}
}

// WithPollInterval returns a copy of k polling the predicate at interval.
func (k *Killer) WithPollInterval(interval time.Duration) *Killer {
	clone := *k
	clone.pollInterval = interval
	return &clone
}

// Timeout returns the configured deadline.
func (k *Killer) Timeout() time.Duration {
	return k.timeout
}

// ShouldAbort reports whether the operation should already be stopped.
func (k *Killer) ShouldAbort() bool {
	return k.isCanceled != nil && k.isCanceled()
}

// Run executes op with a context that is cancelled when the deadline passes
// or the predicate turns true. op must honour its context.
func (k *Killer) Run(ctx context.Context, op func(ctx context.Context) error) error {
	if k.ShouldAbort() {
		return &AbortedError{Reason: AbortCanceled, Timeout: k.timeout}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if k.timeout > 0 {
		var timeoutCancel context.CancelFunc
		runCtx, timeoutCancel = context.WithTimeout(runCtx, k.timeout)
		defer timeoutCancel()
	}

	canceled := make(chan struct{})
	done := make(chan struct{})
	var wg sync.WaitGroup

	if k.isCanceled != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ticker := time.NewTicker(k.pollInterval)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-runCtx.Done():
					return
				case <-ticker.C:
					if k.isCanceled() {
						close(canceled)
						cancel()
						return
					}
				}
			}
		}()
	}

	err := op(runCtx)
	close(done)
	wg.Wait()

	select {
	case <-canceled:
		return &AbortedError{Reason: AbortCanceled, Timeout: k.timeout, Err: err}
	default:
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return &AbortedError{Reason: AbortTimeout, Timeout: k.timeout, Err: err}
	}
	return err
}
