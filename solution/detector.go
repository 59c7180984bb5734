package solution

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/willibrandon/slncfg/workspace"
)

const slnHeader = "Microsoft Visual Studio Solution File"

// Detected is a solution file found under a search root.
type Detected struct {
	Path   string `json:"path"`
	Name   string `json:"name"`
	Format Format `json:"format"`

	// Valid reports whether the content looks like a solution of its format.
	Valid bool `json:"valid"`
}

// Detector finds solution files below a directory.
type Detector struct {
	fsys    workspace.FileSystem
	root    string
	exclude []string
}

// NewDetector creates a detector rooted at searchDir ("." when empty).
func NewDetector(fsys workspace.FileSystem, searchDir string, exclude []string) *Detector {
	if searchDir == "" {
		searchDir = "."
	}
	return &Detector{fsys: fsys, root: searchDir, exclude: exclude}
}

// IsSolutionFile checks if a file path has a supported solution extension
func IsSolutionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sln", ".slnx":
		return true
	}
	return false
}

// FindSolutions lists .sln and .slnx files sorted by name, then path.
func (d *Detector) FindSolutions(ctx context.Context) ([]Detected, error) {
	var found []Detected
	for _, pattern := range []string{"*.sln", "*.slnx"} {
		paths, err := d.fsys.FindFiles(ctx, d.root, pattern, d.exclude)
		if err != nil {
			return nil, fmt.Errorf("error searching for solution files: %w", err)
		}
		for _, p := range paths {
			format := FormatSln
			if strings.EqualFold(filepath.Ext(p), ".slnx") {
				format = FormatSlnx
			}
			found = append(found, Detected{
				Path:   p,
				Name:   strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)),
				Format: format,
				Valid:  d.looksValid(p, format),
			})
		}
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].Name != found[j].Name {
			return found[i].Name < found[j].Name
		}
		return found[i].Path < found[j].Path
	})
	return found, nil
}

func (d *Detector) looksValid(path string, format Format) bool {
	data, err := d.fsys.ReadFile(path)
	if err != nil {
		return false
	}
	switch format {
	case FormatSln:
		return bytes.Contains(data, []byte(slnHeader))
	case FormatSlnx:
		_, err := NewSlnxParser().Parse(bytes.NewReader(data), path)
		return err == nil
	}
	return false
}
