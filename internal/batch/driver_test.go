// SPDX-License-Identifier: MPL-2.0

package batch_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pluginc-cli/internal/batch"
	"pluginc-cli/internal/classpath"
	"pluginc-cli/internal/compiler"
	"pluginc-cli/internal/cuetoolchain"
	"pluginc-cli/internal/testutil"
)

// stubContext is an ExecutionContext that contributes no classpath tiers,
// keeping batch tests independent of the host environment.
type stubContext struct {
	bootErr   error
	loadedErr error
}

func (s stubContext) BootLibraryPaths() ([]string, error)  { return nil, s.bootErr }
func (s stubContext) LoadedBinaryPaths() ([]string, error) { return nil, s.loadedErr }

func script(name, namespace string) string {
	return "name:      \"" + name + "\"\nnamespace: \"" + namespace + "\"\n"
}

func baseOptions(t *testing.T, stderr *bytes.Buffer) batch.Options {
	t.Helper()
	dir := t.TempDir()
	return batch.Options{
		InputDir:     filepath.Join(dir, "src"),
		OutputDir:    filepath.Join(dir, "out"),
		ManifestPath: filepath.Join(dir, "manifest.txt"),
		ExecContext:  stubContext{},
		Toolchain:    cuetoolchain.New(),
		Stderr:       stderr,
	}
}

func TestRun_Success(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	opts := baseOptions(t, &stderr)
	testutil.MustWriteFile(t, filepath.Join(opts.InputDir, "alpha.plugin.cue"), script("Alpha", "acme.tools"))
	testutil.MustWriteFile(t, filepath.Join(opts.InputDir, "sub", "beta.plugin.cue"), script("Beta", "acme.web"))

	if err := batch.Run(context.Background(), opts); err != nil {
		t.Fatalf("Run() error = %v\nstderr:\n%s", err, stderr.String())
	}

	// One entry per compiled source, in discovery order (the walk is
	// lexical: files before the sub directory's contents).
	wantManifest := "acme.tools.Alpha\nacme.web.Beta\n"
	if got := testutil.MustReadFile(t, opts.ManifestPath); got != wantManifest {
		t.Errorf("manifest = %q, want %q", got, wantManifest)
	}

	// Artifacts land in distinct namespace subtrees of the output root.
	for _, rel := range []string{
		filepath.Join("acme", "tools", "Alpha"+compiler.ArtifactExt),
		filepath.Join("acme", "web", "Beta"+compiler.ArtifactExt),
	} {
		if _, err := os.Stat(filepath.Join(opts.OutputDir, rel)); err != nil {
			t.Errorf("artifact %s missing: %v", rel, err)
		}
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr not empty on a clean run:\n%s", stderr.String())
	}
}

func TestRun_FailureLeavesManifestUntouched(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	opts := baseOptions(t, &stderr)
	testutil.MustWriteFile(t, filepath.Join(opts.InputDir, "alpha.plugin.cue"), script("Alpha", "acme"))
	testutil.MustWriteFile(t, filepath.Join(opts.InputDir, "broken.plugin.cue"),
		"name: \"Broken\"\nnamespace: \"acme\"\nsettings: x: missingRef\n")
	testutil.MustWriteFile(t, opts.ManifestPath, "stale.Entry\n")

	err := batch.Run(context.Background(), opts)
	if err == nil {
		t.Fatal("Run() succeeded with a broken source in the batch")
	}
	if !errors.Is(err, compiler.ErrCompilationFailed) {
		t.Errorf("error does not wrap ErrCompilationFailed: %v", err)
	}

	// All-or-nothing: a pre-existing manifest survives a failed run intact.
	if got := testutil.MustReadFile(t, opts.ManifestPath); got != "stale.Entry\n" {
		t.Errorf("manifest rewritten on failure: %q", got)
	}
	if !strings.Contains(stderr.String(), "missingRef") {
		t.Errorf("stderr does not carry the compile diagnostic:\n%s", stderr.String())
	}
}

func TestRun_FailureWithoutPriorManifest(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	opts := baseOptions(t, &stderr)
	testutil.MustWriteFile(t, filepath.Join(opts.InputDir, "broken.plugin.cue"), "name: 42\n")

	if err := batch.Run(context.Background(), opts); err == nil {
		t.Fatal("Run() succeeded with a broken source")
	}
	if _, err := os.Stat(opts.ManifestPath); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("manifest created on failure (stat err = %v)", err)
	}
}

func TestRun_RerunIsIdempotent(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	opts := baseOptions(t, &stderr)
	testutil.MustWriteFile(t, filepath.Join(opts.InputDir, "alpha.plugin.cue"), script("Alpha", "acme"))

	if err := batch.Run(context.Background(), opts); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	artifact := filepath.Join(opts.OutputDir, "acme", "Alpha"+compiler.ArtifactExt)
	firstManifest := testutil.MustReadFile(t, opts.ManifestPath)
	firstArtifact := testutil.MustReadFile(t, artifact)

	if err := batch.Run(context.Background(), opts); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if got := testutil.MustReadFile(t, opts.ManifestPath); got != firstManifest {
		t.Errorf("manifest changed across identical runs: %q vs %q", got, firstManifest)
	}
	if got := testutil.MustReadFile(t, artifact); got != firstArtifact {
		t.Errorf("artifact changed across identical runs")
	}
}

func TestRun_BootWarningDoesNotFailTheBatch(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	opts := baseOptions(t, &stderr)
	opts.ExecContext = stubContext{bootErr: classpath.ErrBootUnsupported}
	testutil.MustWriteFile(t, filepath.Join(opts.InputDir, "alpha.plugin.cue"), script("Alpha", "acme"))

	if err := batch.Run(context.Background(), opts); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(stderr.String(), "boot library path unavailable") {
		t.Errorf("boot warning not rendered:\n%s", stderr.String())
	}
	if _, err := os.Stat(opts.ManifestPath); err != nil {
		t.Errorf("manifest missing after a degraded-but-successful run: %v", err)
	}
}

func TestRun_ClasspathResolutionFailureAbortsEarly(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	opts := baseOptions(t, &stderr)
	opts.ExecContext = stubContext{loadedErr: errors.New("executable moved")}
	testutil.MustWriteFile(t, filepath.Join(opts.InputDir, "alpha.plugin.cue"), script("Alpha", "acme"))

	err := batch.Run(context.Background(), opts)
	var resErr *classpath.ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("Run() error = %v, want *classpath.ResolutionError", err)
	}
	if _, err := os.Stat(opts.ManifestPath); !errors.Is(err, os.ErrNotExist) {
		t.Error("manifest written despite classpath resolution failure")
	}
}

func TestRun_SharedLibraryOnClasspath(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	opts := baseOptions(t, &stderr)
	lib := filepath.Join(t.TempDir(), "lib")
	testutil.MustWriteFile(t, filepath.Join(lib, "defaults.cue"), "defaultRetries: 7\n")
	opts.Classpath = []string{lib}
	testutil.MustWriteFile(t, filepath.Join(opts.InputDir, "alpha.plugin.cue"),
		"name: \"Alpha\"\nnamespace: \"acme\"\nsettings: retries: defaultRetries\n")

	if err := batch.Run(context.Background(), opts); err != nil {
		t.Fatalf("Run() error = %v\nstderr:\n%s", err, stderr.String())
	}
	raw := testutil.MustReadFile(t, filepath.Join(opts.OutputDir, "acme", "Alpha"+compiler.ArtifactExt))
	if !strings.Contains(raw, "\"retries\": 7") {
		t.Errorf("library symbol not resolved into the artifact:\n%s", raw)
	}
}

func TestRun_ParallelKeepsDiscoveryOrder(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	opts := baseOptions(t, &stderr)
	opts.Jobs = 4
	names := []string{"Apple", "Berry", "Cherry", "Damson", "Elder", "Fig"}
	for _, n := range names {
		testutil.MustWriteFile(t,
			filepath.Join(opts.InputDir, strings.ToLower(n)+".plugin.cue"),
			script(n, "acme"))
	}

	if err := batch.Run(context.Background(), opts); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	var want strings.Builder
	for _, n := range names {
		want.WriteString("acme." + n + "\n")
	}
	if got := testutil.MustReadFile(t, opts.ManifestPath); got != want.String() {
		t.Errorf("parallel manifest order = %q, want discovery order %q", got, want.String())
	}
}

func TestRun_EmptyTreeWritesEmptyManifest(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	opts := baseOptions(t, &stderr)
	testutil.MustMkdirAll(t, opts.InputDir)

	if err := batch.Run(context.Background(), opts); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := testutil.MustReadFile(t, opts.ManifestPath); got != "" {
		t.Errorf("manifest = %q, want empty", got)
	}
}

func TestRun_MissingInputDir(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	opts := baseOptions(t, &stderr)

	if err := batch.Run(context.Background(), opts); err == nil {
		t.Fatal("Run() succeeded with a missing input directory")
	}
	if _, err := os.Stat(opts.ManifestPath); !errors.Is(err, os.ErrNotExist) {
		t.Error("manifest written despite discovery failure")
	}
}
