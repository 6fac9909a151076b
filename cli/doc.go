// Package cli builds the quux command line.
//
// Flag values may be set in $CONFIG/quux/config, written in quux syntax,
// or in $CONFIG/quux/config.json, where $CONFIG is the user configuration
// directory. Command-line flags override both. The quux syntax file holds a
// single hash-map from flag names to values:
//
//	{log-level "debug"
//	 log-format "text"
//	 log-pretty false
//	 max-depth 64}
//
// quux init writes this file from the current flag values.
//
// Relative --source names that do not exist in the working directory are
// searched for in the configuration directory and then in each directory
// listed in $QUUX_PATH.
package cli
