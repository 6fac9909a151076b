// Package cmd implements the quux subcommands.
//
//   - repl: interactive read-eval-print loop (the default)
//   - read: read, evaluate, and print each line of a source
//   - fmt: reformat sources as native syntax, JSON, YAML, a value tree, or
//     a token listing
//   - init: write a configuration file holding the current flag values
//
// Commands receive a [context.Context] carrying the parsed [kong.Context]
// ([WithContext]), the global source file names ([WithSourceFiles]), and the
// standard streams ([WithStreams]).
package cmd
