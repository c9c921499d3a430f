// SPDX-License-Identifier: MPL-2.0

package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"pluginc-cli/internal/classpath"
	"pluginc-cli/internal/compiler"
	"pluginc-cli/internal/discovery"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Options configures one batch run.
type Options struct {
	// InputDir is the root of the plugin source tree.
	InputDir string
	// OutputDir receives the compiled artifact tree; it is created when
	// missing.
	OutputDir string
	// ManifestPath is where the entry-name manifest is written on full
	// success.
	ManifestPath string
	// Classpath holds caller-supplied extra entries, appended after the
	// tiers the execution context contributes.
	Classpath []string
	// Jobs is the number of sources compiled concurrently. Values below 1
	// mean strictly sequential compilation. Regardless of Jobs the manifest
	// order equals the discovery order and the first failure aborts the run.
	Jobs int
	// ExecContext supplies the boot and process classpath tiers;
	// classpath.ProcessContext is used when nil.
	ExecContext classpath.ExecutionContext
	// Toolchain performs analysis and code generation.
	Toolchain compiler.Toolchain
	// Stderr receives rendered diagnostics; defaults to os.Stderr.
	Stderr io.Writer
	// Logger receives progress events; a silent logger is used when nil.
	Logger *log.Logger
}

// Run executes the batch. On success the output tree holds every generated
// artifact and the manifest lists one entry qualified name per compiled
// source, in discovery order. On failure the manifest file is not created
// or modified, and remaining sources are not compiled.
//
// Error-severity diagnostics collected during compilation are rendered to
// Stderr whether or not the run succeeds.
func Run(ctx context.Context, opts Options) error {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	execCtx := opts.ExecContext
	if execCtx == nil {
		execCtx = classpath.ProcessContext{}
	}

	entries, warns, err := classpath.Assemble(execCtx, opts.Classpath)
	renderDiagnostics(stderr, warns)
	if err != nil {
		return err
	}
	logger.Debug("classpath assembled", "entries", len(entries))

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	sources, err := discovery.Sources(opts.InputDir)
	if err != nil {
		return fmt.Errorf("discover plugin sources: %w", err)
	}
	logger.Debug("sources discovered", "count", len(sources))

	sink := compiler.NewDiagnosticSink()
	names := make([]string, len(sources))

	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, source := range sources {
		g.Go(func() error {
			// An earlier failure cancels the group; remaining sources are
			// skipped rather than compiled into a doomed batch.
			if err := gctx.Err(); err != nil {
				return err
			}
			logger.Debug("compiling", "source", source)
			res, err := compiler.Compile(opts.Toolchain, source, opts.OutputDir, entries, sink)
			if err != nil {
				return err
			}
			names[i] = res.EntryQualifiedName
			return nil
		})
	}
	runErr := g.Wait()

	renderDiagnostics(stderr, sink.Diagnostics())
	if runErr != nil {
		return runErr
	}

	if err := writeManifest(opts.ManifestPath, names); err != nil {
		return err
	}
	logger.Debug("manifest written", "path", opts.ManifestPath, "plugins", len(names))
	return nil
}

// writeManifest persists the entry names, one per line, newline
// terminated, with create-or-truncate semantics.
func writeManifest(path string, names []string) error {
	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

func renderDiagnostics(w io.Writer, diags []compiler.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, d.String())
	}
}
