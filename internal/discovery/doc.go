// SPDX-License-Identifier: MPL-2.0

// Package discovery finds candidate plugin source scripts under an input
// directory tree.
package discovery
