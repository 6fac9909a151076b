// Package log provides an immutable, concurrency-safe logging interface
// based on [log/slog].
//
// Every logging call takes typed [slog.Attr] values rather than alternating
// key/value arguments:
//
//	logger := log.Make(os.Stderr)
//	logger.Info("read form", slog.String("kind", "list"), slog.Int("len", 3))
//
// # Configuration
//
// Loggers are configured with functional options at creation time, and
// derived loggers are created with [Logger.Wrap]:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
// # Zero value
//
// The zero [Logger] discards everything. Library code can accept a Logger
// through an option and call it unconditionally.
//
// # Levels
//
// In addition to the [slog] levels, [LevelTrace] sits below [LevelDebug]
// and is used for per-token reader diagnostics.
//
// # Pretty output
//
// With [WithPretty] enabled (the default), records are rendered with
// colour styles when the output is a terminal, and as plain text
// otherwise.
//
// # Package-level logger
//
// The package-level functions [Info], [Error], and friends write through a
// default logger on stderr that is reconfigured with [Config].
package log
