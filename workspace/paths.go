package workspace

import "path/filepath"

// Ancestors returns dir followed by each of its parent directories up to the
// file system root. The sequence always terminates since every step strictly
// shortens the path.
func Ancestors(dir string) []string {
	dir = filepath.Clean(dir)
	dirs := []string{dir}
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return dirs
		}
		dirs = append(dirs, parent)
		dir = parent
	}
}

// FindUp walks from dir towards the root and returns the first path
// dir/<name> that exists, trying names in order at each level.
func FindUp(r FileReader, dir string, names ...string) (string, bool) {
	for _, d := range Ancestors(dir) {
		for _, name := range names {
			candidate := filepath.Join(d, name)
			if r.Exists(candidate) {
				return candidate, true
			}
		}
	}
	return "", false
}
