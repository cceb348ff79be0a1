// Package telemetry backs the core's minimal core.Logger seam with zap, so
// the render pipeline itself never imports a logging library directly.
package telemetry

import (
	"go.uber.org/zap"

	"github.com/ashwoolford/pathforge/pkg/core"
)

// zapLogger adapts a zap.SugaredLogger to core.Logger's single-method
// contract.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewLogger builds a zap logger from the development config (console-encoded,
// debug level, stack traces disabled) and wraps it as a core.Logger. Callers should defer Sync() via the returned
// *zap.Logger if they need to flush buffered entries before exit; raytrace's
// main does this.
func NewLogger() (core.Logger, *zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	z, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}
	return &zapLogger{sugar: z.Sugar()}, z, nil
}

func (l *zapLogger) Printf(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// noopLogger discards everything; used by tests and library callers that
// don't want progress output.
type noopLogger struct{}

// NewNoop returns a core.Logger that discards all output.
func NewNoop() core.Logger { return noopLogger{} }

func (noopLogger) Printf(string, ...interface{}) {}
