// SPDX-License-Identifier: MPL-2.0

// Package classpath assembles the ordered list of library search locations
// visible to the plugin toolchain. The process-introspection parts are
// behind the ExecutionContext capability so tests can substitute a fake
// instead of reading ambient global state.
package classpath
