// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly
// messages: errors that say what operation failed, on which resource, and
// what the user can try next.
package issue
