// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The package offers configurable time formatting, caller information,
// and output formats that are applied at logger creation time using
// functional options.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("document loaded", slog.String("source", "proof.sexp"))
//	logger.Error("conversion failed", slog.Any("error", err))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// A zero [Logger] discards everything. Library packages in this module take
// a Logger through their options and stay silent unless one is supplied.
//
// # Package-Level Logger
//
// [Config], [Debug], [Info], [Warn], [Error] and their Context variants
// operate on a package-level logger that writes to standard error, keeping
// standard output free for command results.
//
// # Levels
//
// [LevelTrace], [LevelDebug], [LevelInfo], [LevelWarn], and [LevelError].
// Messages below the configured level are discarded.
//
// # Output Formats
//
// [FormatJSON] (default) and [FormatText]. With [WithPretty] enabled, keys
// and values are colorized with lipgloss styles and JSON is indented.
package log
