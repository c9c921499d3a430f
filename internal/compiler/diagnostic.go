// SPDX-License-Identifier: MPL-2.0

package compiler

import (
	"fmt"
	"strings"
	"sync"
)

const (
	// SeverityWarning indicates a recoverable condition worth surfacing.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a condition that fails the compilation.
	SeverityError Severity = "error"
)

type (
	// Severity represents a diagnostic level.
	Severity string

	// Diagnostic is a positioned compiler message tied to a source file.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity
		// Path is the source file the diagnostic refers to.
		Path string
		// Line is the 1-based source line, 0 when unknown.
		Line int
		// Column is the 1-based source column, 0 when unknown.
		Column int
		// Message is the human-readable description.
		Message string
		// LineText is the text of the offending source line (optional).
		LineText string
	}
)

// String renders the diagnostic in the canonical path:line:col form,
// followed by the offending source line when available.
func (d Diagnostic) String() string {
	var b strings.Builder
	switch {
	case d.Line > 0:
		fmt.Fprintf(&b, "%s:%d:%d: %s: %s", d.Path, d.Line, d.Column, d.Severity, d.Message)
	case d.Path != "":
		fmt.Fprintf(&b, "%s: %s: %s", d.Path, d.Severity, d.Message)
	default:
		fmt.Fprintf(&b, "%s: %s", d.Severity, d.Message)
	}
	if d.LineText != "" {
		b.WriteString("\n    ")
		b.WriteString(d.LineText)
	}
	return b.String()
}

// DiagnosticSink collects error-severity diagnostics across compile calls.
// Diagnostics below error severity are discarded on arrival. The sink is
// safe for concurrent use so parallel batch runs can share one instance.
type DiagnosticSink struct {
	mu    sync.Mutex
	diags []Diagnostic
}

// NewDiagnosticSink creates an empty sink.
func NewDiagnosticSink() *DiagnosticSink {
	return &DiagnosticSink{}
}

// Report records d if it is error severity; anything else is dropped.
func (s *DiagnosticSink) Report(d Diagnostic) {
	if d.Severity != SeverityError {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diags = append(s.diags, d)
}

// Diagnostics returns a copy of the collected diagnostics in report order.
func (s *DiagnosticSink) Diagnostics() []Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Diagnostic, len(s.diags))
	copy(out, s.diags)
	return out
}
