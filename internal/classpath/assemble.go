// SPDX-License-Identifier: MPL-2.0

package classpath

import (
	"errors"

	"pluginc-cli/internal/compiler"
)

// Assemble builds the ordered classpath: the boot tier first, then the
// binary locations of the current process, then caller-supplied extras.
// Duplicates are kept; ordering is the only precedence mechanism (earlier
// entries shadow later ones for the same symbol).
//
// A missing boot tier degrades to a warning diagnostic. A process tier
// failure is fatal and surfaces as a *ResolutionError.
func Assemble(execCtx ExecutionContext, extra []string) ([]string, []compiler.Diagnostic, error) {
	var (
		entries []string
		warns   []compiler.Diagnostic
	)

	boot, err := execCtx.BootLibraryPaths()
	switch {
	case errors.Is(err, ErrBootUnsupported):
		warns = append(warns, compiler.Diagnostic{
			Severity: compiler.SeverityWarning,
			Message:  "boot library path unavailable, continuing without it (set " + BootPathEnv + " to provide one)",
		})
	case err != nil:
		return nil, warns, &ResolutionError{Reason: "read boot library path", Cause: err}
	default:
		entries = append(entries, boot...)
	}

	loaded, err := execCtx.LoadedBinaryPaths()
	if err != nil {
		var resErr *ResolutionError
		if errors.As(err, &resErr) {
			return nil, warns, err
		}
		return nil, warns, &ResolutionError{Reason: "introspect loaded binary locations", Cause: err}
	}
	entries = append(entries, loaded...)

	entries = append(entries, extra...)
	return entries, warns, nil
}
