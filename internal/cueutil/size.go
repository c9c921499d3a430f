// SPDX-License-Identifier: MPL-2.0

package cueutil

import "fmt"

// DefaultMaxFileSize bounds how large a CUE input may be before parsing
// is refused. Plugin scripts and config files are small; anything beyond
// this is almost certainly a mistake.
const DefaultMaxFileSize = 1 << 20 // 1 MiB

// CheckFileSize returns an error when data exceeds maxSize bytes.
func CheckFileSize(data []byte, maxSize int, filename string) error {
	if len(data) > maxSize {
		return fmt.Errorf("%s: file too large (%d bytes, limit %d)", filename, len(data), maxSize)
	}
	return nil
}
