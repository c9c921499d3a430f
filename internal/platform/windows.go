// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform filesystem compatibility
// checks for generated artifact paths.
package platform

import "strings"

// windowsReservedNames are base filenames Windows refuses regardless of
// extension. Artifact paths derived from plugin namespaces must avoid
// them or the output tree becomes unportable.
var windowsReservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
	"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// IsReservedName reports whether name (with or without an extension) is a
// Windows reserved filename.
func IsReservedName(name string) bool {
	upper := strings.ToUpper(name)
	if idx := strings.LastIndex(upper, "."); idx != -1 {
		upper = upper[:idx]
	}
	return windowsReservedNames[upper]
}

// ReservedPathSegment returns the first slash-separated segment of relPath
// that is a Windows reserved name, or "" when the path is portable.
func ReservedPathSegment(relPath string) string {
	for _, seg := range strings.Split(relPath, "/") {
		if IsReservedName(seg) {
			return seg
		}
	}
	return ""
}
