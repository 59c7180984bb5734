package solution

import (
	slashpath "path"
	"path/filepath"
	"strings"
)

// NormalizePath converts Windows-style separators to forward slashes and
// collapses repeated slashes.
func NormalizePath(p string) string {
	normalized := strings.ReplaceAll(p, "\\", "/")
	for strings.Contains(normalized, "//") {
		normalized = strings.ReplaceAll(normalized, "//", "/")
	}
	return normalized
}

// ResolveProjectPath resolves a project path from a solution file against
// the solution directory, returning an OS-native absolute path.
func ResolveProjectPath(solutionDir, projectPath string) string {
	if projectPath == "" {
		return ""
	}

	native := filepath.FromSlash(NormalizePath(projectPath))
	if filepath.IsAbs(native) {
		return filepath.Clean(native)
	}
	return filepath.Clean(filepath.Join(solutionDir, native))
}

// projectName is the file name of a slash-separated path without its extension.
func projectName(rel string) string {
	base := slashpath.Base(rel)
	return strings.TrimSuffix(base, slashpath.Ext(base))
}
