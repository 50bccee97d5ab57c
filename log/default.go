package log

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

var defaultLogger atomic.Pointer[Logger]

func init() {
	l := Make(os.Stderr)
	defaultLogger.Store(&l)
}

// Default returns the process-wide default logger.
func Default() Logger { return *defaultLogger.Load() }

// SetDefault replaces the process-wide default logger.
func SetDefault(l Logger) { defaultLogger.Store(&l) }

// Config reconfigures the default logger with opts and returns the result.
func Config(opts ...Option) Logger {
	l := Default().Wrap(opts...)
	SetDefault(l)

	return l
}

// Error logs msg at [LevelError] with the default logger.
func Error(msg string, attrs ...slog.Attr) {
	Default().logDepth(context.Background(), callerSkip, LevelError, msg, attrs...)
}

func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logDepth(ctx, callerSkip, LevelTrace, msg, attrs...)
}

func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logDepth(ctx, callerSkip, LevelDebug, msg, attrs...)
}
