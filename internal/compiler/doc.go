// SPDX-License-Identifier: MPL-2.0

// Package compiler drives a single plugin-script compilation end to end:
// per-source configuration, environment construction, toolchain invocation,
// artifact extraction, and persistence to the output tree.
//
// The toolchain itself is an external collaborator behind the Toolchain
// interface; this package owns the resource-scope discipline (every
// Environment is released on every exit path) and the error isolation
// policy (all failure modes surface as *CompilationError values, never
// as panics escaping Compile).
package compiler
