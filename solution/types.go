// Package solution parses .NET solution containers (.sln and .slnx) into a
// tree of solution folders and projects.
package solution

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Format identifies the solution container format.
type Format string

const (
	// FormatSln is the line-oriented Visual Studio solution format.
	FormatSln Format = "sln"
	// FormatSlnx is the XML solution format.
	FormatSlnx Format = "slnx"
)

// ProjectType GUIDs for common project types
const (
	ProjectTypeCSProject      = "{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}"
	ProjectTypeCSProjectSDK   = "{9A19103F-16F7-4668-BE54-9A1E7A4F7556}"
	ProjectTypeVBProject      = "{F184B08F-C81C-45F6-A57F-5ABD9991F28F}"
	ProjectTypeFSProject      = "{F2A71F9B-5D33-465A-A702-920D77279786}"
	ProjectTypeSolutionFolder = "{2150E333-8FDC-42A3-9474-1A3956D46DE8}"
)

// ItemID identifies a folder or project within one solution. Legacy
// solutions use GUIDs; XML solutions use paths. IDs compare by value.
type ItemID struct {
	value string
	guid  bool
}

// GUIDItemID builds an ID from a GUID in any common spelling. Valid GUIDs are
// canonicalised to upper case in braces; anything else is upper-cased as is.
func GUIDItemID(s string) ItemID {
	return ItemID{value: canonicalGUID(s), guid: true}
}

// PathItemID builds an ID from a solution-relative path.
func PathItemID(path string) ItemID {
	return ItemID{value: NormalizePath(path)}
}

func canonicalGUID(s string) string {
	trimmed := strings.TrimSpace(s)
	if u, err := uuid.Parse(strings.Trim(trimmed, "{}")); err == nil {
		return "{" + strings.ToUpper(u.String()) + "}"
	}
	return strings.ToUpper(trimmed)
}

// String returns the ID value.
func (id ItemID) String() string { return id.value }

// IsZero reports whether the ID is unset.
func (id ItemID) IsZero() bool { return id.value == "" }

// IsGUID reports whether the ID came from a legacy GUID.
func (id ItemID) IsGUID() bool { return id.guid }

// MarshalText renders the ID value.
func (id ItemID) MarshalText() ([]byte, error) {
	return []byte(id.value), nil
}

// ItemKind discriminates the variants of Item.
type ItemKind int

const (
	ItemFolder ItemKind = iota
	ItemProject
)

// Item is a node of the solution tree: exactly one of Folder or Project is
// set, as indicated by Kind.
type Item struct {
	Kind    ItemKind
	Folder  *Folder
	Project *Project
}

// FolderItem wraps a folder.
func FolderItem(f *Folder) Item { return Item{Kind: ItemFolder, Folder: f} }

// ProjectItem wraps a project.
func ProjectItem(p *Project) Item { return Item{Kind: ItemProject, Project: p} }

// ID returns the identity of the wrapped node.
func (i Item) ID() ItemID {
	switch i.Kind {
	case ItemFolder:
		return i.Folder.ID
	case ItemProject:
		return i.Project.ID
	default:
		panic(fmt.Sprintf("solution: unknown item kind %d", i.Kind))
	}
}

// Name returns the display name of the wrapped node.
func (i Item) Name() string {
	switch i.Kind {
	case ItemFolder:
		return i.Folder.Name
	case ItemProject:
		return i.Project.Name
	default:
		panic(fmt.Sprintf("solution: unknown item kind %d", i.Kind))
	}
}

// Folder is a virtual solution folder.
type Folder struct {
	ID       ItemID
	Name     string
	ParentID ItemID

	// Children holds nested folders followed by projects, each in declaration order.
	Children []Item

	// Files lists solution items attached to the folder.
	Files []string
}

// Project is a project entry of the solution.
type Project struct {
	ID   ItemID
	Name string

	// RelativePath is the path as written in the solution, with forward slashes.
	RelativePath string

	// Path is the absolute path of the project file.
	Path string

	// TypeID is the project type GUID (legacy) or Type attribute (XML), if any.
	TypeID string

	ParentID ItemID
}

// IsProjectFile reports whether the project points at an MSBuild project file.
func (p *Project) IsProjectFile() bool {
	switch strings.ToLower(filepath.Ext(p.RelativePath)) {
	case ".csproj", ".vbproj", ".fsproj":
		return true
	}
	return false
}

// Solution is a parsed solution container.
type Solution struct {
	// FilePath is the absolute path to the solution file
	FilePath string

	// Dir is the directory containing the solution file
	Dir string

	Name   string
	Format Format

	// FormatVersion, VisualStudioVersion and MinimumVisualStudioVersion come
	// from the legacy header.
	FormatVersion              string
	VisualStudioVersion        string
	MinimumVisualStudioVersion string

	// Projects and Folders list every node in declaration order.
	Projects []*Project
	Folders  []*Folder

	// Roots holds nodes without a parent: folders first, then projects.
	Roots []Item
}

// ProjectPaths returns absolute paths of the MSBuild project files in declaration order.
func (s *Solution) ProjectPaths() []string {
	paths := make([]string, 0, len(s.Projects))
	for _, p := range s.Projects {
		if p.IsProjectFile() {
			paths = append(paths, p.Path)
		}
	}
	return paths
}

// FindProject finds a project by name, ignoring case.
func (s *Solution) FindProject(name string) (*Project, bool) {
	for _, p := range s.Projects {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return nil, false
}

// Walk visits every node reachable from the roots, depth first, parents
// before children.
func (s *Solution) Walk(fn func(item Item, depth int)) {
	var visit func(items []Item, depth int)
	visit = func(items []Item, depth int) {
		for _, item := range items {
			fn(item, depth)
			switch item.Kind {
			case ItemFolder:
				visit(item.Folder.Children, depth+1)
			case ItemProject:
			}
		}
	}
	visit(s.Roots, 0)
}

// link attaches children to their parent folders and collects roots. A node
// whose parent is missing or is not a folder stays at the root.
func (s *Solution) link() {
	folders := make(map[ItemID]*Folder, len(s.Folders))
	for _, f := range s.Folders {
		folders[f.ID] = f
		f.Children = nil
	}

	var rootFolders, rootProjects []Item
	for _, f := range s.Folders {
		if parent, ok := folders[f.ParentID]; ok && !f.ParentID.IsZero() && parent != f {
			parent.Children = append(parent.Children, FolderItem(f))
			continue
		}
		rootFolders = append(rootFolders, FolderItem(f))
	}
	for _, p := range s.Projects {
		if parent, ok := folders[p.ParentID]; ok && !p.ParentID.IsZero() {
			parent.Children = append(parent.Children, ProjectItem(p))
			continue
		}
		rootProjects = append(rootProjects, ProjectItem(p))
	}

	s.Roots = append(rootFolders, rootProjects...)
}

// ParseError represents an error during solution file parsing
type ParseError struct {
	FilePath string
	Line     int
	Column   int
	Message  string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.FilePath, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// UnsupportedFormatError is returned for files that are not .sln or .slnx.
type UnsupportedFormatError struct {
	Path      string
	Extension string
}

// Error implements the error interface
func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported solution format: %q (supported: .sln, .slnx)", e.Extension)
}
