// SPDX-License-Identifier: MPL-2.0

package compiler

import (
	"fmt"
	"os"
	"strings"
)

type (
	// ScriptMeta is the metadata a resolved source unit carries when it is a
	// plugin script.
	ScriptMeta struct {
		// Name is the plugin identifier declared by the script.
		Name string
		// Namespace is the dotted namespace the plugin lives in.
		Namespace string
	}

	// SourceUnit is one source file resolved by the toolchain during
	// analysis. Script is nil for units that are not plugin scripts.
	SourceUnit struct {
		Path   string
		Script *ScriptMeta
	}

	// Environment is the per-compile resource scope. The toolchain records
	// resolved source units and reads cached source lines through it; Close
	// releases everything and must run on every exit path of a compile call.
	Environment struct {
		cfg    Config
		units  []SourceUnit
		lines  map[string][]string
		closed bool
	}
)

// QualifiedName returns the fully namespaced plugin identifier.
func (m ScriptMeta) QualifiedName() string {
	if m.Namespace == "" {
		return m.Name
	}
	return m.Namespace + "." + m.Name
}

// NewEnvironment creates an environment bound to cfg.
func NewEnvironment(cfg Config) *Environment {
	return &Environment{
		cfg:   cfg,
		lines: make(map[string][]string),
	}
}

// Config returns the configuration this environment is bound to.
func (e *Environment) Config() Config {
	return e.cfg
}

// AddUnit records a source unit resolved during analysis. It returns an
// error if the environment has already been released.
func (e *Environment) AddUnit(u SourceUnit) error {
	if e.closed {
		return fmt.Errorf("environment for %s is closed", e.cfg.ModuleName)
	}
	e.units = append(e.units, u)
	return nil
}

// Units returns the resolved source units in resolution order.
func (e *Environment) Units() []SourceUnit {
	return e.units
}

// SourceLine returns the text of the 1-based line of path, reading and
// caching the file on first access. It returns "" when the line cannot
// be read; diagnostics simply omit the source excerpt in that case.
func (e *Environment) SourceLine(path string, line int) string {
	if e.closed || line < 1 {
		return ""
	}
	cached, ok := e.lines[path]
	if !ok {
		data, err := os.ReadFile(path)
		if err != nil {
			e.lines[path] = nil
			return ""
		}
		cached = strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
		e.lines[path] = cached
	}
	if line > len(cached) {
		return ""
	}
	return cached[line-1]
}

// Close releases the environment. It is idempotent; after Close the
// environment rejects new units and serves no cached lines.
func (e *Environment) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.units = nil
	e.lines = nil
	return nil
}

// Closed reports whether Close has run.
func (e *Environment) Closed() bool {
	return e.closed
}
