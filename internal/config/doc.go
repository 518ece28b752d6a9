// SPDX-License-Identifier: MPL-2.0

// Package config handles barexp configuration using Viper with CUE as the
// file format.
//
// Lookup order: an explicit --config file, then barexp.cue in the project
// directory, then config.cue in the user configuration directory
// ($XDG_CONFIG_HOME/barexp on Linux, ~/Library/Application Support/barexp on
// macOS, %APPDATA%\barexp on Windows). Missing files are not an error; the
// defaults apply. Environment variables prefixed with BAREXP_ override file
// values (BAREXP_PRUNE_STALE=true, BAREXP_WATCH_DEBOUNCE=1s).
//
// Files are validated against the embedded config_schema.cue before they
// are merged into Viper.
package config
