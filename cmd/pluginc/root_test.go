// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pluginc-cli/internal/compiler"
	"pluginc-cli/internal/config"
	"pluginc-cli/internal/issue"
	"pluginc-cli/internal/testutil"
)

// execRoot runs the root command with args against an isolated config
// directory and restores the package globals afterwards. The command's
// globals force sequential tests.
func execRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	config.SetConfigDirOverride(t.TempDir())
	t.Cleanup(func() {
		config.Reset()
		verbose = false
		cfgFile = ""
		jobs = 0
		loadedCfg = config.DefaultConfig()
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	if args == nil {
		// A nil slice makes cobra fall back to os.Args.
		args = []string{}
	}
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCmd_RequiresFourArgs(t *testing.T) {
	for _, args := range [][]string{
		{},
		{"in"},
		{"in", "out", "manifest.txt"},
		{"in", "out", "manifest.txt", "", "extra"},
	} {
		if _, err := execRoot(t, args...); err == nil {
			t.Errorf("Execute(%v) succeeded, want an argument count error", args)
		}
	}
}

func TestRootCmd_CompilesTree(t *testing.T) {
	dir := t.TempDir()
	inputDir := filepath.Join(dir, "plugins")
	outputDir := filepath.Join(dir, "out")
	manifest := filepath.Join(dir, "manifest.txt")
	testutil.MustWriteFile(t, filepath.Join(inputDir, "alpha.plugin.cue"),
		"name: \"Alpha\"\nnamespace: \"acme.tools\"\n")

	output, err := execRoot(t, inputDir, outputDir, manifest, "")
	if err != nil {
		t.Fatalf("Execute() error = %v\noutput:\n%s", err, output)
	}
	if got := testutil.MustReadFile(t, manifest); got != "acme.tools.Alpha\n" {
		t.Errorf("manifest = %q", got)
	}
	artifact := filepath.Join(outputDir, "acme", "tools", "Alpha"+compiler.ArtifactExt)
	if _, err := os.Stat(artifact); err != nil {
		t.Errorf("entry artifact missing: %v", err)
	}
}

func TestRootCmd_FailureExitsNonZero(t *testing.T) {
	dir := t.TempDir()
	inputDir := filepath.Join(dir, "plugins")
	manifest := filepath.Join(dir, "manifest.txt")
	testutil.MustWriteFile(t, filepath.Join(inputDir, "broken.plugin.cue"),
		"name: \"Broken\"\nnamespace: \"acme\"\nsettings: x: missingRef\n")

	output, err := execRoot(t, inputDir, filepath.Join(dir, "out"), manifest, "")
	if err == nil {
		t.Fatal("Execute() succeeded with a broken script")
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error is not an *ExitError: %v", err)
	}
	if exitErr.Code != 1 {
		t.Errorf("exit code = %d, want 1", exitErr.Code)
	}
	if !strings.Contains(output, "missingRef") {
		t.Errorf("diagnostic not rendered to the command's stderr:\n%s", output)
	}
	if !strings.Contains(output, "Error:") {
		t.Errorf("failure summary not rendered to the command's stderr:\n%s", output)
	}
	if _, statErr := os.Stat(manifest); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("manifest written despite the failed run")
	}
}

func TestRootCmd_ClasspathArgument(t *testing.T) {
	dir := t.TempDir()
	inputDir := filepath.Join(dir, "plugins")
	outputDir := filepath.Join(dir, "out")
	lib := filepath.Join(dir, "lib")
	testutil.MustWriteFile(t, filepath.Join(lib, "defaults.cue"), "defaultRetries: 7\n")
	testutil.MustWriteFile(t, filepath.Join(inputDir, "alpha.plugin.cue"),
		"name: \"Alpha\"\nnamespace: \"acme\"\nsettings: retries: defaultRetries\n")

	output, err := execRoot(t, inputDir, outputDir, filepath.Join(dir, "manifest.txt"), lib)
	if err != nil {
		t.Fatalf("Execute() error = %v\noutput:\n%s", err, output)
	}
	raw := testutil.MustReadFile(t, filepath.Join(outputDir, "acme", "Alpha"+compiler.ArtifactExt))
	if !strings.Contains(raw, "\"retries\": 7") {
		t.Errorf("classpath library not applied:\n%s", raw)
	}
}

func TestRootCmd_JobsFlag(t *testing.T) {
	dir := t.TempDir()
	inputDir := filepath.Join(dir, "plugins")
	manifest := filepath.Join(dir, "manifest.txt")
	for _, n := range []string{"Apple", "Berry", "Cherry"} {
		testutil.MustWriteFile(t,
			filepath.Join(inputDir, strings.ToLower(n)+".plugin.cue"),
			"name: \""+n+"\"\nnamespace: \"acme\"\n")
	}

	output, err := execRoot(t, "--jobs", "3", inputDir, filepath.Join(dir, "out"), manifest, "")
	if err != nil {
		t.Fatalf("Execute() error = %v\noutput:\n%s", err, output)
	}
	if got := testutil.MustReadFile(t, manifest); got != "acme.Apple\nacme.Berry\nacme.Cherry\n" {
		t.Errorf("manifest = %q, want discovery order regardless of --jobs", got)
	}
}

func TestGetVersionString(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, BuildDate
	t.Cleanup(func() { Version, Commit, BuildDate = origVersion, origCommit, origDate })

	Version, Commit, BuildDate = "dev", "unknown", "unknown"
	if got := getVersionString(); got != "dev (built from source)" {
		t.Errorf("getVersionString() = %q", got)
	}

	Version, Commit, BuildDate = "1.2.3", "abc1234", "2026-08-26"
	want := "1.2.3 (commit: abc1234, built: 2026-08-26)"
	if got := getVersionString(); got != want {
		t.Errorf("getVersionString() = %q, want %q", got, want)
	}
}

func TestFormatErrorForDisplay(t *testing.T) {
	plain := errors.New("plain failure")
	if got := formatErrorForDisplay(plain, false); got != "plain failure" {
		t.Errorf("formatErrorForDisplay(plain) = %q", got)
	}

	ae := issue.NewErrorContext().
		WithOperation("load configuration").
		WithSuggestion("Check the file").
		BuildError()
	got := formatErrorForDisplay(ae, false)
	if !strings.Contains(got, "• Check the file") {
		t.Errorf("formatErrorForDisplay(actionable) missing suggestion:\n%s", got)
	}
}
