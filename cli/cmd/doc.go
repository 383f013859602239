// Package cmd implements the sxview subcommands.
//
// Every command that reads documents does so through a [Session] stored in
// its context with [WithSession]. The session loads each source, parses it
// and converts it under the binding policy chosen on the command line.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
