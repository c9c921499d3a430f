// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared helpers for working with CUE files:
// size guards and user-facing formatting of CUE errors.
package cueutil
