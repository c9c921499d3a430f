// SPDX-License-Identifier: MPL-2.0

// Package batch orchestrates a whole compiler run: classpath assembly,
// source discovery, per-source compilation, and manifest emission. The
// batch is all-or-nothing with respect to the manifest: a single failing
// script aborts the run and leaves any existing manifest untouched.
package batch
