// SPDX-License-Identifier: MPL-2.0

package compiler

// ArtifactExt is the file extension of compiled plugin objects.
const ArtifactExt = ".pvo"

type (
	// Artifact is one generated unit of compiler output. RelativePath is
	// slash-separated and mirrors the plugin's namespace path; Bytes is the
	// in-memory compiled plugin object.
	Artifact struct {
		RelativePath string
		Bytes        []byte
	}

	// Result identifies the directly loadable entry point of a successfully
	// compiled plugin script.
	Result struct {
		// EntryQualifiedName is the fully namespaced plugin identifier,
		// e.g. "acme.tools.Formatter".
		EntryQualifiedName string
		// EntryOutputPath is the absolute path of the persisted entry artifact.
		EntryOutputPath string
	}

	// GenerationState holds the artifacts produced by one analyze+generate
	// run, indexed by relative path.
	GenerationState struct {
		artifacts []Artifact
		byPath    map[string]int
	}
)

// NewGenerationState builds a GenerationState over artifacts. When several
// artifacts share a relative path the first one wins the index.
func NewGenerationState(artifacts []Artifact) *GenerationState {
	s := &GenerationState{
		artifacts: artifacts,
		byPath:    make(map[string]int, len(artifacts)),
	}
	for i, a := range artifacts {
		if _, exists := s.byPath[a.RelativePath]; !exists {
			s.byPath[a.RelativePath] = i
		}
	}
	return s
}

// Artifacts returns the produced artifacts in generation order.
func (s *GenerationState) Artifacts() []Artifact {
	return s.artifacts
}

// Lookup returns the artifact stored at the given slash-separated relative
// path, if any.
func (s *GenerationState) Lookup(relPath string) (Artifact, bool) {
	i, ok := s.byPath[relPath]
	if !ok {
		return Artifact{}, false
	}
	return s.artifacts[i], true
}
