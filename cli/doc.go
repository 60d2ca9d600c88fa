// Package cli contains the command line interface for zyra.
//
// # Usage
//
//	zyra [flags] [run] <file|-> [args...]
//	zyra repl
//	zyra lex --format json script.zy
//	zyra init
//
// Running zyra without a file on an interactive terminal starts the shell.
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory (for example ~/.config/zyra/config.yaml). `zyra init` writes
// that file from the current flag values. Nested keys are joined with
// hyphens, and keys under a command name apply only to that command:
//
//	log:
//	  level: debug
//	  pretty: false
//	run:
//	  max-depth: 200
//
// # Imports
//
// Import statements search the importing script's directory, then each
// --path directory, then the directories listed in $ZYRA_PATH.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: text or json
//   - --log-time-layout: timestamp layout, or none
//   - --log-caller: include the source location of each record
//   - --log-pretty: colorize records on a terminal
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o zyra .
//
//   - --pprof-mode: allocs, block, clock, cpu, goroutine, heap, mem, mutex,
//     thread or trace
//   - --pprof-dir: output directory (default: ~/.cache/zyra/pprof)
package cli
