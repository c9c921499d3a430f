// SPDX-License-Identifier: MPL-2.0

package classpath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// BootPathEnv is the environment variable holding the boot library path,
// a list of locations separated by the platform list separator.
const BootPathEnv = "PLUGINC_BOOT_PATH"

// ErrBootUnsupported is returned by BootLibraryPaths when the execution
// environment does not expose a boot library path. Callers treat it as a
// degraded-but-successful outcome, not a failure.
var ErrBootUnsupported = errors.New("boot library path not exposed by execution environment")

type (
	// ExecutionContext exposes what the current process can introspect
	// about its own library locations.
	ExecutionContext interface {
		// BootLibraryPaths returns the platform's base library locations.
		// Implementations return ErrBootUnsupported when the environment
		// does not carry that information.
		BootLibraryPaths() ([]string, error)

		// LoadedBinaryPaths returns the binary locations the current
		// process loaded itself from. Any error is fatal for classpath
		// assembly.
		LoadedBinaryPaths() ([]string, error)
	}

	// ProcessContext is the production ExecutionContext: the boot tier
	// comes from BootPathEnv and the process tier from the location of
	// the running executable.
	ProcessContext struct{}

	// ResolutionError means the current execution environment could not be
	// introspected, or a discovered location could not be converted to a
	// filesystem path.
	ResolutionError struct {
		Reason string
		Cause  error
	}
)

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("classpath resolution: %s: %v", e.Reason, e.Cause)
	}
	return "classpath resolution: " + e.Reason
}

// Unwrap returns the underlying error, if any.
func (e *ResolutionError) Unwrap() error {
	return e.Cause
}

// BootLibraryPaths reads BootPathEnv. An unset variable means the
// environment does not support a boot tier; an empty value yields an
// empty tier.
func (ProcessContext) BootLibraryPaths() ([]string, error) {
	raw, ok := os.LookupEnv(BootPathEnv)
	if !ok {
		return nil, ErrBootUnsupported
	}
	var paths []string
	for _, p := range filepath.SplitList(raw) {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths, nil
}

// LoadedBinaryPaths resolves the directory of the running executable,
// following symlinks so the result is a real filesystem path.
func (ProcessContext) LoadedBinaryPaths() ([]string, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate current executable: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("resolve executable path %s: %w", exe, err)
	}
	return []string{filepath.Dir(resolved)}, nil
}
