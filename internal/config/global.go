// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride replaces the user config directory in tests, where
// os.UserHomeDir does not reliably follow HOME.
var configDirOverride string

// Reset clears test overrides.
func Reset() {
	configDirOverride = ""
}

// SetConfigDirOverride sets a custom user config directory.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}
