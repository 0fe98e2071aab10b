package filesystem

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// UniqueName returns the first of name, name-1, name-2, ... for which no
// name+ext, for any of exts, exists in any of dirs.
func UniqueName(fs afero.Fs, dirs []string, name string, exts ...string) string {
	candidate := name
	for i := 1; taken(fs, dirs, candidate, exts); i++ {
		candidate = fmt.Sprintf("%s-%d", name, i)
	}
	return candidate
}

func taken(fs afero.Fs, dirs []string, name string, exts []string) bool {
	for _, dir := range dirs {
		for _, ext := range exts {
			if Exists(fs, filepath.Join(dir, name+ext)) {
				return true
			}
		}
	}
	return false
}
