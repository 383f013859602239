// Package cli contains the command line interface for sxview.
//
// # Usage
//
// Without a subcommand, sxview opens the interactive viewer on its sources:
//
//	sxview doc.sexp https://example.com/other.sexp
//	cat doc.sexp | sxview
//
// The fmt and query subcommands write to stdout instead:
//
//	sxview fmt json -i 4 doc.sexp
//	sxview query 'keyword && children > 1' doc.sexp
//
// Relative sources not found in the working directory are searched for in
// each --path directory, then in the directories listed in SXVIEW_PATH.
//
// # Bindings
//
// Each document is converted with its own binding environment. With
// --shared-bindings, one environment is used for all documents of the
// invocation in order, so a name bound by a let-proof form in one document
// resolves in the next.
//
// # Configuration
//
// Flag defaults are read from the file "config" in the user configuration
// directory. It is an S-expression document whose list named config pairs
// keywords with values:
//
//	(config
//	  :log-level debug
//	  :log-format text
//	  :path (/usr/share/sxview))
//
// The file is created from the current flag values by "sxview init". A
// "config.json" file alongside it is also honored.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// Logs are written to stderr.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag; see
// package profile.
package cli
