package buildconfig

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/willibrandon/slncfg/observability"
	"github.com/willibrandon/slncfg/workspace"
)

// Hierarchy holds the discovered files of one resolution run. Files are
// indexed by path and by kind and directory; links between files are plain
// path strings. A Hierarchy is built per request and not shared.
type Hierarchy struct {
	files  []*ConfigFile
	byPath map[string]*ConfigFile
	byDir  map[Kind]map[string]*ConfigFile
}

// Discover lists every hierarchical property file under root and links them.
// Properties are not read; call Load for that.
func Discover(ctx context.Context, lister workspace.FileLister, root string, exclude []string) (*Hierarchy, error) {
	paths, err := listFiles(ctx, lister, root, exclude)
	if err != nil {
		return nil, err
	}
	return NewHierarchy(paths), nil
}

// DiscoverWithAncestors is Discover plus the files in directories above root
// on the way up from root and from each anchor directory. An anchor is
// typically a project directory; directories inside root are left to the
// listing so that excluded directories stay excluded.
func DiscoverWithAncestors(ctx context.Context, fsys workspace.FileSystem, root string, exclude []string, anchors []string) (*Hierarchy, error) {
	listed, err := listFiles(ctx, fsys, root, exclude)
	if err != nil {
		return nil, err
	}
	return NewHierarchy(append(AncestorFiles(fsys, root, anchors), listed...)), nil
}

func listFiles(ctx context.Context, lister workspace.FileLister, root string, exclude []string) ([]string, error) {
	var paths []string
	for _, kind := range Kinds {
		found, err := lister.FindFiles(ctx, root, kind.FileName(), exclude)
		if err != nil {
			return nil, fmt.Errorf("failed to discover %s files: %w", kind, err)
		}
		paths = append(paths, found...)
	}
	return paths, nil
}

// AncestorFiles returns the hierarchical property files that exist in the
// directories above root and above each anchor, skipping directories inside
// root. Paths are ordered from the file system root down.
func AncestorFiles(r workspace.FileReader, root string, anchors []string) []string {
	root = filepath.Clean(root)
	seen := make(map[string]bool)
	var found []string
	for _, start := range append([]string{root}, anchors...) {
		for _, dir := range workspace.Ancestors(start) {
			if seen[dir] || within(root, dir) {
				continue
			}
			seen[dir] = true
			for _, kind := range Kinds {
				if p := filepath.Join(dir, kind.FileName()); r.Exists(p) {
					found = append(found, p)
				}
			}
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return len(workspace.Ancestors(found[i])) < len(workspace.Ancestors(found[j]))
	})
	return found
}

// within reports whether dir is root or below it.
func within(root, dir string) bool {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// NewHierarchy indexes the given file paths and links each file to its
// nearest strict ancestor of the same kind. Paths that are not hierarchical
// property files are ignored. When two files of the same kind share a
// directory, the first one listed wins.
func NewHierarchy(paths []string) *Hierarchy {
	h := &Hierarchy{
		byPath: make(map[string]*ConfigFile),
		byDir:  make(map[Kind]map[string]*ConfigFile),
	}
	for _, kind := range Kinds {
		h.byDir[kind] = make(map[string]*ConfigFile)
	}

	for _, p := range paths {
		kind, ok := KindOf(p)
		if !ok {
			continue
		}
		p = filepath.Clean(p)
		dir := filepath.Dir(p)
		if _, taken := h.byDir[kind][dir]; taken {
			continue
		}

		f := &ConfigFile{
			Path:       p,
			Kind:       kind,
			Directory:  dir,
			Properties: NewProperties(),
		}
		h.files = append(h.files, f)
		h.byPath[p] = f
		h.byDir[kind][dir] = f
	}

	for _, f := range h.files {
		if parent := h.nearestAbove(f.Directory, f.Kind); parent != nil {
			f.ParentPath = parent.Path
			parent.ChildPaths = append(parent.ChildPaths, f.Path)
		}
	}

	return h
}

// nearestAbove finds the closest file of kind in a strict ancestor of dir.
func (h *Hierarchy) nearestAbove(dir string, kind Kind) *ConfigFile {
	ancestors := workspace.Ancestors(dir)
	for _, d := range ancestors[1:] {
		if f, ok := h.byDir[kind][d]; ok {
			return f
		}
	}
	return nil
}

// Load reads and parses every file. Unreadable or malformed files are logged
// and keep an empty property set; Load itself never fails.
func (h *Hierarchy) Load(r workspace.FileReader, logger observability.Logger) {
	if logger == nil {
		logger = observability.NewNullLogger()
	}

	for _, f := range h.files {
		data, err := r.ReadFile(f.Path)
		if err != nil {
			logger.Warn("Cannot read {Path}: {Error}", f.Path, err)
			observability.RecordFileParse(f.Kind.String(), observability.ResultReadError)
			continue
		}

		pf, err := ParsePropertyFile(bytes.NewReader(data))
		if err != nil {
			logger.Warn("Ignoring malformed {Path}: {Error}", f.Path, err)
			observability.RecordFileParse(f.Kind.String(), observability.ResultParseError)
			continue
		}

		f.Properties = pf.Properties
		f.ImportsParent = pf.ImportsParent
		observability.RecordFileParse(f.Kind.String(), observability.ResultParsed)
		logger.Debug("Parsed {Path} with {Count} properties", f.Path, pf.Properties.Len())
	}
}

// Files returns all files in discovery order.
func (h *Hierarchy) Files() []*ConfigFile {
	return h.files
}

// FilesOfKind returns the files of one kind in discovery order.
func (h *Hierarchy) FilesOfKind(kind Kind) []*ConfigFile {
	var out []*ConfigFile
	for _, f := range h.files {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// HasKind reports whether any file of kind was discovered.
func (h *Hierarchy) HasKind(kind Kind) bool {
	return len(h.byDir[kind]) > 0
}

// Lookup returns the file at path.
func (h *Hierarchy) Lookup(path string) (*ConfigFile, bool) {
	f, ok := h.byPath[filepath.Clean(path)]
	return f, ok
}

// Parent returns the nearest ancestor of the same kind, or nil.
func (h *Hierarchy) Parent(f *ConfigFile) *ConfigFile {
	if f == nil || f.ParentPath == "" {
		return nil
	}
	return h.byPath[f.ParentPath]
}

// Children returns the files directly linked below f.
func (h *Hierarchy) Children(f *ConfigFile) []*ConfigFile {
	out := make([]*ConfigFile, 0, len(f.ChildPaths))
	for _, p := range f.ChildPaths {
		out = append(out, h.byPath[p])
	}
	return out
}

// Roots returns files without a parent, in discovery order.
func (h *Hierarchy) Roots() []*ConfigFile {
	var out []*ConfigFile
	for _, f := range h.files {
		if !f.HasParent() {
			out = append(out, f)
		}
	}
	return out
}

// Depth returns the number of ancestors above f.
func (h *Hierarchy) Depth(f *ConfigFile) int {
	depth := 0
	for p := h.Parent(f); p != nil; p = h.Parent(p) {
		depth++
	}
	return depth
}

// Chain returns f and its ancestors ordered from the root down to f.
func (h *Hierarchy) Chain(f *ConfigFile) []*ConfigFile {
	var chain []*ConfigFile
	for cur := f; cur != nil; cur = h.Parent(cur) {
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// AllProperties merges the properties of f's ancestor chain from the root
// down, so values declared closer to f win.
func (h *Hierarchy) AllProperties(f *ConfigFile) *Properties {
	merged := NewProperties()
	if f == nil {
		return merged
	}
	for _, cur := range h.Chain(f) {
		merged.Merge(cur.Properties)
	}
	return merged
}

// Nearest returns the file of kind in the project's own directory or the
// closest ancestor directory, or nil when none exists.
func (h *Hierarchy) Nearest(projectPath string, kind Kind) *ConfigFile {
	return h.NearestFromDir(filepath.Dir(filepath.Clean(projectPath)), kind)
}

// NearestFromDir is Nearest starting at a directory.
func (h *Hierarchy) NearestFromDir(dir string, kind Kind) *ConfigFile {
	for _, d := range workspace.Ancestors(dir) {
		if f, ok := h.byDir[kind][d]; ok {
			return f
		}
	}
	return nil
}

// MapAffectedProjects records each project on its nearest file of every kind.
func (h *Hierarchy) MapAffectedProjects(projectPaths []string) {
	for _, p := range projectPaths {
		p = filepath.Clean(p)
		for _, kind := range Kinds {
			if f := h.Nearest(p, kind); f != nil {
				f.addAffected(p)
			}
		}
	}
}
