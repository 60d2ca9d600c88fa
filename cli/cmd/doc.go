// Package cmd implements the zyra subcommands: run, repl, lex and init.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"

	// HistoryIdentifier is the kong variable identifier containing the path
	// to the REPL history file.
	HistoryIdentifier = "history"

	// MaxDepthIdentifier is the kong variable identifier containing the
	// default call depth limit.
	MaxDepthIdentifier = "maxDepth"
)
