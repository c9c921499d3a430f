// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// SourceSuffix is the filename suffix that marks a file as a plugin
// source script.
const SourceSuffix = ".plugin.cue"

// maxDepth bounds the recursive walk; directories nested deeper than this
// below the root are skipped, not errors.
const maxDepth = 1024

// Sources walks root recursively and returns the paths of all plugin
// source scripts, in whatever order the underlying directory walk yields.
// Callers must not depend on that order being sorted; the batch driver
// merely records it as the discovery order. Non-matching files are
// silently skipped.
func Sources(root string) ([]string, error) {
	var sources []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if depthBelow(root, path) >= maxDepth {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), SourceSuffix) {
			sources = append(sources, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sources, nil
}

// depthBelow returns how many levels path sits below root; the root
// itself is depth 0.
func depthBelow(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
