// Package handlers executes the CLI commands.
//
// Each handler loads the request file, builds the platform clients it
// describes and runs the matching task. Client constructors are package
// variables so tests can replace them.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/mattn/go-isatty"

	"github.com/shadracnicholas/engine/internal/config"
	"github.com/shadracnicholas/engine/internal/engineerr"
	"github.com/shadracnicholas/engine/internal/logging"
	"github.com/shadracnicholas/engine/internal/metrics"
)

// Options are the flags shared by every handler.
type Options struct {
	RequestPath string
	Debug       bool
	Verbose     bool
	// Yes skips the confirmation of destructive actions.
	Yes         bool
	MetricsAddr string
}

func (o Options) verbosity() engineerr.Verbosity {
	if o.Verbose {
		return engineerr.FullDetailsWithoutEnvVars
	}
	return engineerr.SafeOnly
}

// runtime is what every handler sets up before running a task.
type runtime struct {
	req      *config.Request
	timeouts *config.Timeouts
	root     logr.Logger
	logger   logging.Logger
	opts     Options
}

var (
	// stderrIsTerminal selects the console log encoder.
	stderrIsTerminal = func() bool {
		return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	}

	// newRootLogger builds the process logger.
	newRootLogger = func(opts Options) logr.Logger {
		return logging.NewRoot(logging.Options{
			Development: opts.Debug || stderrIsTerminal(),
			Debug:       opts.Debug,
		})
	}
)

// setup loads the request and returns ctx carrying the execution logger.
func setup(ctx context.Context, opts Options, actionName string) (context.Context, *runtime, error) {
	req, err := config.LoadFile(opts.RequestPath)
	if err != nil {
		return ctx, nil, err
	}
	req.Action = actionName

	root := newRootLogger(opts).WithValues("execution_id", req.ExecutionID)
	ctx = logging.IntoContext(ctx, root)
	return ctx, &runtime{
		req:      req,
		timeouts: config.LoadTimeouts(),
		root:     root,
		logger:   logging.FromContext(ctx, opts.verbosity()),
		opts:     opts,
	}, nil
}

// serveMetrics serves the metrics endpoint until the returned function is
// called. It does nothing when addr is empty.
func serveMetrics(root logr.Logger, addr string) func() {
	if addr == "" {
		return func() {}
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			root.Error(err, "metrics server stopped", "addr", addr)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// renderError turns a task failure into the error printed by main.
func renderError(err error, verbosity engineerr.Verbosity) error {
	engineErr, ok := engineerr.As(err)
	if !ok {
		return err
	}

	msg := engineErr.Message(verbosity)
	if hint := engineErr.Hint(); hint != "" {
		msg = fmt.Sprintf("%s\n%s", msg, hint)
	}
	return errors.New(errorStyle.Render("✗ ") + msg)
}
