// Package logging wires the engine's structured logging: a logr.Logger backed
// by zap, and the engine event Logger written on top of it.
package logging

import (
	"io"

	"github.com/go-logr/logr"
	"go.uber.org/zap/zapcore"
	ctrllog "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// Options configures the root logger.
type Options struct {
	// Development switches to the human readable console encoder.
	Development bool
	// Debug lowers the level to debug.
	Debug bool
	// Output defaults to stderr.
	Output io.Writer
}

// NewRoot builds the root logr.Logger and installs it as the
// controller-runtime global so log.FromContext falls back to it.
func NewRoot(opts Options) logr.Logger {
	level := zapcore.InfoLevel
	if opts.Debug {
		level = zapcore.DebugLevel
	}

	zapOpts := []zap.Opts{
		zap.UseDevMode(opts.Development),
		zap.Level(level),
	}
	if opts.Output != nil {
		zapOpts = append(zapOpts, zap.WriteTo(opts.Output))
	}

	logger := zap.New(zapOpts...).WithName("engine")
	ctrllog.SetLogger(logger)
	return logger
}
