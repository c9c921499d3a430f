// SPDX-License-Identifier: MPL-2.0

package compiler

import (
	"errors"
	"fmt"
)

const (
	// FailureGeneration means the toolchain returned no generation state
	// (analysis or code generation failed; details are in the sink).
	FailureGeneration FailureKind = "generation"
	// FailureEntryNotScript means the first resolved source unit did not
	// carry plugin-script metadata.
	FailureEntryNotScript FailureKind = "entry-not-script"
	// FailureEntryArtifactMissing means the expected entry artifact was
	// absent from the generated output.
	FailureEntryArtifactMissing FailureKind = "entry-artifact-missing"
	// FailureToolchain means the toolchain itself errored or panicked;
	// the original failure is attached as the cause.
	FailureToolchain FailureKind = "toolchain"
)

// ErrCompilationFailed is the sentinel wrapped by every *CompilationError
// for errors.Is() compatibility.
var ErrCompilationFailed = errors.New("compilation failed")

type (
	// FailureKind classifies why a compile call failed.
	FailureKind string

	// CompilationError is the tagged failure result of one compile call.
	// It carries the source path for context and, for toolchain-internal
	// failures, the original error as the cause.
	CompilationError struct {
		// Source is the plugin script that failed to compile.
		Source string
		// Kind classifies the failure.
		Kind FailureKind
		// Message describes the failure.
		Message string
		// Cause is the underlying toolchain error (optional).
		Cause error
	}
)

// Error implements the error interface.
func (e *CompilationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("compile %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("compile %s: %s", e.Source, e.Message)
}

// Unwrap exposes the cause chain plus the ErrCompilationFailed sentinel.
func (e *CompilationError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrCompilationFailed, e.Cause}
	}
	return []error{ErrCompilationFailed}
}
