// SPDX-License-Identifier: MPL-2.0

// Package config loads the pluginc configuration file: a CUE document
// validated against an embedded schema, merged into viper so defaults and
// PLUGINC_* environment overrides compose with file values. Configuration
// is optional; a missing file means defaults.
package config
