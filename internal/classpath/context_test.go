// SPDX-License-Identifier: MPL-2.0

package classpath_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"pluginc-cli/internal/classpath"
)

func TestProcessContext_BootLibraryPaths(t *testing.T) {
	sep := string(os.PathListSeparator)

	tests := []struct {
		name    string
		env     *string
		want    []string
		wantErr error
	}{
		{
			name:    "unset means unsupported",
			env:     nil,
			wantErr: classpath.ErrBootUnsupported,
		},
		{
			name: "empty value yields empty tier",
			env:  ptr(""),
		},
		{
			name: "list split on the platform separator",
			env:  ptr("/boot/a" + sep + "/boot/b"),
			want: []string{"/boot/a", "/boot/b"},
		},
		{
			name: "empty elements dropped",
			env:  ptr(sep + "/boot/a" + sep),
			want: []string{"/boot/a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.env == nil {
				// t.Setenv also restores an unset state on cleanup.
				t.Setenv(classpath.BootPathEnv, "")
				os.Unsetenv(classpath.BootPathEnv) //nolint:errcheck
			} else {
				t.Setenv(classpath.BootPathEnv, *tt.env)
			}

			got, err := classpath.ProcessContext{}.BootLibraryPaths()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("BootLibraryPaths() error = %v, want %v", err, tt.wantErr)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("BootLibraryPaths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProcessContext_LoadedBinaryPaths(t *testing.T) {
	t.Parallel()

	got, err := classpath.ProcessContext{}.LoadedBinaryPaths()
	if err != nil {
		t.Fatalf("LoadedBinaryPaths() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("LoadedBinaryPaths() = %v, want a single directory", got)
	}
	if !filepath.IsAbs(got[0]) {
		t.Errorf("LoadedBinaryPaths() = %q, want an absolute path", got[0])
	}
	if strings.HasSuffix(got[0], string(filepath.Separator)) {
		t.Errorf("LoadedBinaryPaths() = %q, want a clean directory path", got[0])
	}
	info, err := os.Stat(got[0])
	if err != nil || !info.IsDir() {
		t.Errorf("LoadedBinaryPaths() = %q, not an existing directory (err %v)", got[0], err)
	}
}

func ptr(s string) *string { return &s }
