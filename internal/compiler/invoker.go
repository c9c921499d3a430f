// SPDX-License-Identifier: MPL-2.0

package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pluginc-cli/internal/platform"
)

// Compile runs one plugin script through the toolchain and persists every
// generated artifact under outputDir. It returns the entry point of the
// compiled plugin, or a *CompilationError describing why the script could
// not be compiled (artifact I/O failures surface as plain errors).
//
// The per-compile environment is released on every exit path, including
// toolchain panics.
func Compile(tc Toolchain, source, outputDir string, classpath []string, sink *DiagnosticSink) (Result, error) {
	cfg := NewConfig(source, classpath, tc.TemplateSchema(), sink)
	env := NewEnvironment(cfg)
	defer env.Close() //nolint:errcheck // release is idempotent and cannot fail

	state, err := analyzeAndGenerate(tc, env)
	if err != nil {
		return Result{}, &CompilationError{
			Source:  source,
			Kind:    FailureToolchain,
			Message: "toolchain failure",
			Cause:   err,
		}
	}
	if state == nil {
		return Result{}, &CompilationError{
			Source:  source,
			Kind:    FailureGeneration,
			Message: "plugin object generation failed",
		}
	}

	units := env.Units()
	if len(units) == 0 || units[0].Script == nil {
		return Result{}, &CompilationError{
			Source:  source,
			Kind:    FailureEntryNotScript,
			Message: "entry unit is not a plugin script",
		}
	}

	qualifiedName := units[0].Script.QualifiedName()
	entryRel := strings.ReplaceAll(qualifiedName, ".", "/") + ArtifactExt
	if _, ok := state.Lookup(entryRel); !ok {
		return Result{}, &CompilationError{
			Source:  source,
			Kind:    FailureEntryArtifactMissing,
			Message: "entry artifact not found: " + entryRel,
		}
	}

	for _, artifact := range state.Artifacts() {
		if err := writeArtifact(outputDir, artifact); err != nil {
			return Result{}, err
		}
	}

	return Result{
		EntryQualifiedName: qualifiedName,
		EntryOutputPath:    filepath.Join(outputDir, filepath.FromSlash(entryRel)),
	}, nil
}

// analyzeAndGenerate shields the driver from toolchain panics: whatever
// escapes the collaborator is converted into an ordinary error so the
// deferred environment release still runs and the batch can fail cleanly.
func analyzeAndGenerate(tc Toolchain, env *Environment) (state *GenerationState, err error) {
	defer func() {
		if r := recover(); r != nil {
			state = nil
			err = fmt.Errorf("toolchain panic: %v", r)
		}
	}()
	return tc.AnalyzeAndGenerate(env)
}

// writeArtifact persists one artifact with create-or-truncate semantics,
// creating intermediate directories as needed.
func writeArtifact(outputDir string, a Artifact) error {
	if !filepath.IsLocal(filepath.FromSlash(a.RelativePath)) {
		return fmt.Errorf("artifact path %q escapes the output directory", a.RelativePath)
	}
	if seg := platform.ReservedPathSegment(a.RelativePath); seg != "" {
		return fmt.Errorf("artifact path %q contains reserved name %q", a.RelativePath, seg)
	}
	target := filepath.Join(outputDir, filepath.FromSlash(a.RelativePath))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create artifact directory for %s: %w", a.RelativePath, err)
	}
	if err := os.WriteFile(target, a.Bytes, 0o644); err != nil {
		return fmt.Errorf("write artifact %s: %w", a.RelativePath, err)
	}
	return nil
}
