// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Loggers are configured once at creation time with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
//	logger.Info("template compiled", slog.Int("keys", 3))
//
// All logging methods take [slog.Attr] values rather than alternating
// key/value arguments.
//
// # Default Logger
//
// Package-level functions such as [Info] and [DebugContext] write to a
// process-wide default logger. [Config] replaces the default logger with a
// copy reconfigured by the given options; it is safe to call concurrently
// with logging.
//
// # Levels
//
// Five levels are defined: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError].
//
// # Output Formats
//
// [FormatJSON] (default) and [FormatText]. With [WithPretty] enabled, both
// formats are rendered by a colorized handler whose styles come from
// lipgloss; colors are dropped automatically when the output is not a
// terminal.
package log
