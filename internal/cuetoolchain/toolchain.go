// SPDX-License-Identifier: MPL-2.0

package cuetoolchain

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pluginc-cli/internal/compiler"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed plugin_schema.cue
var pluginSchema []byte

// templatePath is the root definition of the script template inside the
// embedded schema.
const templatePath = "#Plugin"

// Toolchain is the CUE-backed compiler service.
type Toolchain struct{}

// New creates a Toolchain.
func New() *Toolchain {
	return &Toolchain{}
}

// TemplateSchema returns the embedded #Plugin schema source.
func (t *Toolchain) TemplateSchema() []byte {
	return pluginSchema
}

// AnalyzeAndGenerate implements compiler.Toolchain. Script problems yield
// (nil, nil) with error diagnostics reported to the configuration's sink;
// only toolchain-internal failures return a non-nil error.
func (t *Toolchain) AnalyzeAndGenerate(env *compiler.Environment) (*compiler.GenerationState, error) {
	cfg := env.Config()
	source := cfg.ModuleName

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	ctx := cuecontext.New()

	scope, err := buildScope(ctx, cfg.ClasspathEntries)
	if err != nil {
		return nil, err
	}

	value := ctx.CompileBytes(data, cue.Filename(source), cue.Scope(scope))
	if value.Err() != nil {
		reportErrors(env, cfg.Sink, source, value.Err())
		return nil, nil
	}

	schema := ctx.CompileBytes(cfg.Template, cue.Filename("plugin_schema.cue"))
	if schema.Err() != nil {
		return nil, fmt.Errorf("compile template schema: %w", schema.Err())
	}
	template := schema.LookupPath(cue.ParsePath(templatePath))
	if template.Err() != nil {
		return nil, fmt.Errorf("template %s not found in schema: %w", templatePath, template.Err())
	}

	unified := template.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		reportErrors(env, cfg.Sink, source, err)
		return nil, nil
	}

	meta := extractMeta(unified)
	if err := env.AddUnit(compiler.SourceUnit{Path: source, Script: meta}); err != nil {
		return nil, err
	}
	if meta == nil {
		// Valid CUE that nonetheless carries no plugin identity; the
		// invoker rejects it as a non-script entry unit.
		return compiler.NewGenerationState(nil), nil
	}

	artifacts, err := generate(unified, *meta)
	if err != nil {
		return nil, err
	}
	return compiler.NewGenerationState(artifacts), nil
}

// buildScope compiles the classpath entries' library files into a single
// scope value. Entries are visited in list order and the first occurrence
// of a top-level symbol wins, so earlier entries shadow later ones.
// Missing or unreadable entries are skipped the way a compiler skips a
// dangling archive reference.
func buildScope(ctx *cue.Context, entries []string) (cue.Value, error) {
	scope := ctx.CompileString("{}")
	seen := make(map[string]bool)
	for _, entry := range entries {
		for _, file := range libraryFiles(entry) {
			data, err := os.ReadFile(file)
			if err != nil {
				continue
			}
			lib := ctx.CompileBytes(data, cue.Filename(file))
			if lib.Err() != nil {
				continue
			}
			iter, err := lib.Fields(cue.Definitions(true))
			if err != nil {
				continue
			}
			for iter.Next() {
				sel := iter.Selector()
				if seen[sel.String()] {
					continue
				}
				seen[sel.String()] = true
				scope = scope.FillPath(cue.MakePath(sel), iter.Value())
			}
		}
	}
	if scope.Err() != nil {
		return cue.Value{}, fmt.Errorf("assemble library scope: %w", scope.Err())
	}
	return scope, nil
}

// libraryFiles lists the CUE files a classpath entry contributes: the
// entry itself when it is a .cue file, or the entry directory's immediate
// .cue children in lexical order.
func libraryFiles(entry string) []string {
	info, err := os.Stat(entry)
	if err != nil {
		return nil
	}
	if !info.IsDir() {
		if strings.HasSuffix(entry, ".cue") {
			return []string{entry}
		}
		return nil
	}
	dirents, err := os.ReadDir(entry)
	if err != nil {
		return nil
	}
	var files []string
	for _, de := range dirents {
		if !de.IsDir() && strings.HasSuffix(de.Name(), ".cue") {
			files = append(files, filepath.Join(entry, de.Name()))
		}
	}
	return files
}

// extractMeta pulls the plugin identity out of the unified value. It
// returns nil when either field is missing or not a concrete string.
func extractMeta(v cue.Value) *compiler.ScriptMeta {
	name, err := v.LookupPath(cue.ParsePath("name")).String()
	if err != nil {
		return nil
	}
	namespace, err := v.LookupPath(cue.ParsePath("namespace")).String()
	if err != nil {
		return nil
	}
	if name == "" || namespace == "" {
		return nil
	}
	return &compiler.ScriptMeta{Name: name, Namespace: namespace}
}

// generate exports the unified plugin value and its components as
// in-memory artifacts. Component artifacts live next to the entry object
// under "<namespace path>/<Name>$<component>".
func generate(v cue.Value, meta compiler.ScriptMeta) ([]compiler.Artifact, error) {
	base := strings.ReplaceAll(meta.QualifiedName(), ".", "/")

	entry, err := exportObject(v)
	if err != nil {
		return nil, fmt.Errorf("export plugin object %s: %w", meta.QualifiedName(), err)
	}
	artifacts := []compiler.Artifact{{RelativePath: base + compiler.ArtifactExt, Bytes: entry}}

	components := v.LookupPath(cue.ParsePath("components"))
	if components.Exists() {
		iter, err := components.Fields()
		if err != nil {
			return nil, fmt.Errorf("enumerate components of %s: %w", meta.QualifiedName(), err)
		}
		for iter.Next() {
			name := iter.Selector().Unquoted()
			obj, err := exportObject(iter.Value())
			if err != nil {
				return nil, fmt.Errorf("export component %s of %s: %w", name, meta.QualifiedName(), err)
			}
			artifacts = append(artifacts, compiler.Artifact{
				RelativePath: base + "$" + name + compiler.ArtifactExt,
				Bytes:        obj,
			})
		}
	}
	return artifacts, nil
}

// exportObject renders a fully evaluated value as indented JSON with a
// trailing newline, the on-disk form of a compiled plugin object.
func exportObject(v cue.Value) ([]byte, error) {
	data, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// reportErrors converts a CUE error (possibly a list) into positioned
// error diagnostics on the sink. The source excerpt comes from the
// environment's line cache.
func reportErrors(env *compiler.Environment, sink *compiler.DiagnosticSink, fallbackPath string, err error) {
	for _, e := range cueerrors.Errors(err) {
		d := compiler.Diagnostic{
			Severity: compiler.SeverityError,
			Path:     fallbackPath,
			Message:  e.Error(),
		}
		if pos := e.Position(); pos.Line() > 0 {
			if pos.Filename() != "" {
				d.Path = pos.Filename()
			}
			d.Line = pos.Line()
			d.Column = pos.Column()
			d.LineText = env.SourceLine(d.Path, d.Line)
		}
		sink.Report(d)
	}
}
