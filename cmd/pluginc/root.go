// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the pluginc CLI.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"pluginc-cli/internal/batch"
	"pluginc-cli/internal/config"
	"pluginc-cli/internal/cuetoolchain"
	"pluginc-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// jobs overrides the configured compile parallelism
	jobs int

	// loadedCfg is the configuration resolved during initialization.
	loadedCfg = config.DefaultConfig()

	// rootCmd is the batch compiler driver itself; pluginc has no
	// subcommand tree, the four positional arguments are the interface.
	rootCmd = &cobra.Command{
		Use:   "pluginc <input-dir> <output-dir> <manifest> <classpath>",
		Short: "A batch compiler for CUE plugin scripts",
		Long: TitleStyle.Render("pluginc") + SubtitleStyle.Render(" - a batch compiler for CUE plugin scripts") + `

pluginc walks <input-dir> for *.plugin.cue scripts, compiles each one
against the #Plugin template and the assembled classpath, writes the
compiled plugin objects under <output-dir>, and on full success writes
<manifest> with one entry qualified name per line for the host loader.

<classpath> is a single argument of list-separated library locations
(directories of .cue files, or single .cue files), appended after the
boot tier (` + SubtitleStyle.Render("$PLUGINC_BOOT_PATH") + `) and the running binary's own
directory. Earlier locations shadow later ones.

` + SubtitleStyle.Render("Examples:") + `
  pluginc ./plugins ./out ./out/manifest.txt ./lib
  pluginc --jobs 4 ./plugins ./out manifest.txt ./lib:./vendor/lib
  pluginc ./plugins ./out manifest.txt ""`,
		Args:         cobra.ExactArgs(4),
		SilenceUsage: true,
		RunE:         runBatch,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/pluginc/config.cue)")
	rootCmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "number of sources compiled concurrently (defaults to the configured value)")
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the driver. This is called by main.main().
func Execute() {
	// fang supplies styled help/usage/error output around cobra.
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig reads the config file and environment overrides.
func initRootConfig() {
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	cfg, err := config.Load()
	if err != nil {
		// Config problems must not silently change behavior; surface them
		// and fall back to defaults.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}
	if cfg != nil {
		loadedCfg = cfg
		if !verbose {
			verbose = cfg.UI.Verbose
		}
	}
}

// runBatch is the RunE handler: it turns the positional arguments and the
// resolved configuration into a batch.Options and executes the run.
func runBatch(cmd *cobra.Command, args []string) error {
	inputDir, outputDir, manifestPath, classpathArg := args[0], args[1], args[2], args[3]

	var extra []string
	for _, entry := range filepath.SplitList(classpathArg) {
		if entry != "" {
			extra = append(extra, entry)
		}
	}
	extra = append(extra, loadedCfg.Classpath...)

	effectiveJobs := jobs
	if effectiveJobs < 1 {
		effectiveJobs = loadedCfg.Jobs
	}

	logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		ReportTimestamp: false,
		Prefix:          "pluginc",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	err := batch.Run(cmd.Context(), batch.Options{
		InputDir:     inputDir,
		OutputDir:    outputDir,
		ManifestPath: manifestPath,
		Classpath:    extra,
		Jobs:         effectiveJobs,
		Toolchain:    cuetoolchain.New(),
		Stderr:       cmd.ErrOrStderr(),
		Logger:       logger,
	})
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
		return &ExitError{Code: 1, Err: err}
	}
	return nil
}

// formatErrorForDisplay formats an error for user display. ActionableError
// values render with their suggestions; verbose mode shows the full chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
