// SPDX-License-Identifier: MPL-2.0

package compiler

import "slices"

// Config is the per-source compilation configuration. Each compile call
// gets its own value so module-name and diagnostic state never leak
// between sources; only the classpath contents and the sink are shared,
// and both are read-only from the compiler's point of view.
type Config struct {
	// ClasspathEntries is the ordered list of library search locations.
	// Earlier entries shadow later ones for the same top-level symbol.
	ClasspathEntries []string
	// Template is the script-template schema source that plugin scripts
	// must satisfy.
	Template []byte
	// ModuleName identifies the compilation unit in diagnostics. It is the
	// source path's string form and carries no uniqueness guarantee.
	ModuleName string
	// Sink receives error-severity diagnostics produced during analysis.
	Sink *DiagnosticSink
}

// NewConfig builds the configuration for compiling one source file.
// The classpath slice is cloned so later caller mutations cannot reach
// an in-flight compilation.
func NewConfig(source string, classpath []string, template []byte, sink *DiagnosticSink) Config {
	return Config{
		ClasspathEntries: slices.Clone(classpath),
		Template:         template,
		ModuleName:       source,
		Sink:             sink,
	}
}
