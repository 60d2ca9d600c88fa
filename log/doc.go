// Package log is a small leveled logging layer over [log/slog].
//
// A [Logger] is an immutable value: options passed to [Make] or
// [Logger.Wrap] produce a new Logger and never alter one already in use,
// so a Logger may be copied into any component and shared between
// goroutines. The zero Logger discards every record.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339Nano"))
//
//	logger.Info("script loaded", slog.String("path", path))
//
// Attributes are typed [slog.Attr] values. [Logger.With] returns a
// Logger that adds its attributes to every record:
//
//	eval := logger.With(slog.String("component", "eval"))
//	eval.Debug("call", slog.String("func", name), slog.Int("depth", depth))
//
// # Levels
//
// Five levels are defined, from [LevelTrace] to [LevelError]. Trace is
// finer than slog's Debug and is meant for per-node interpreter tracing.
// [Level] and [Format] implement [encoding.TextUnmarshaler] so they can be
// bound directly to command-line flags.
//
// # Pretty output
//
// [WithPretty] replaces the stock slog handlers with colorized ones. Color
// is only emitted when the output is a terminal.
//
// # Package-level logger
//
// Functions such as [Info] and [Debug] write through a package-level Logger
// that starts out writing text to standard error. [Config] reconfigures it.
// Logging calls without an explicit context use [DefaultContextProvider].
package log
