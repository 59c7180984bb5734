// Package workspace provides the file system collaborators used by the
// configuration resolvers: listing files under a workspace root and reading
// text files with encoding detection.
package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExcludes lists directory names skipped when listing files.
var DefaultExcludes = []string{"bin", "obj", "node_modules", ".git", ".vs"}

// FileLister finds files under a workspace root.
type FileLister interface {
	// FindFiles returns the paths under root whose base name matches pattern
	// (case-insensitive glob), skipping directories named in exclude.
	FindFiles(ctx context.Context, root, pattern string, exclude []string) ([]string, error)
}

// FileReader reads text files.
type FileReader interface {
	// ReadFile returns the file content decoded to UTF-8.
	ReadFile(path string) ([]byte, error)

	// Exists reports whether path names a regular file.
	Exists(path string) bool
}

// FileSystem combines listing and reading.
type FileSystem interface {
	FileLister
	FileReader
}

// OSFileSystem implements FileSystem on the local disk.
type OSFileSystem struct{}

// NewOSFileSystem creates a FileSystem backed by the operating system.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// FindFiles walks root and collects matching files in lexical order.
func (o *OSFileSystem) FindFiles(ctx context.Context, root, pattern string, exclude []string) ([]string, error) {
	if root == "" {
		return nil, fmt.Errorf("root cannot be empty")
	}
	pattern = strings.ToLower(pattern)
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[strings.ToLower(name)] = true
	}

	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable directories are skipped, not fatal
			if os.IsPermission(err) {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if d.IsDir() {
			if path != root && skip[strings.ToLower(d.Name())] {
				return filepath.SkipDir
			}
			return nil
		}

		if ok, _ := filepath.Match(pattern, strings.ToLower(d.Name())); ok {
			abs, err := filepath.Abs(path)
			if err != nil {
				abs = path
			}
			found = append(found, abs)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s under %s: %w", pattern, root, err)
	}

	sort.Strings(found)
	return found, nil
}

// ReadFile reads path and decodes it to UTF-8, honouring byte order marks.
func (o *OSFileSystem) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeText(data)
}

// Exists reports whether path is an existing regular file.
func (o *OSFileSystem) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
