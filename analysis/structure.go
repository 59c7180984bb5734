package analysis

import "github.com/willibrandon/slncfg/solution"

// Node is a folder or project of the solution tree, flattened for output.
type Node struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Kind     string   `json:"kind"`
	Path     string   `json:"path,omitempty"`
	TypeID   string   `json:"typeId,omitempty"`
	Files    []string `json:"files,omitempty"`
	Children []Node   `json:"children,omitempty"`
}

// Structure is the shape of a solution.
type Structure struct {
	Path                string          `json:"path"`
	Name                string          `json:"name"`
	Format              solution.Format `json:"format"`
	VisualStudioVersion string          `json:"visualStudioVersion,omitempty"`
	ProjectCount        int             `json:"projectCount"`
	FolderCount         int             `json:"folderCount"`
	Roots               []Node          `json:"roots"`

	CentrallyManaged  bool                 `json:"centrallyManaged"`
	PackagesPropsPath string               `json:"packagesPropsPath,omitempty"`
	GlobalJSON        *solution.GlobalJSON `json:"globalJson,omitempty"`
}

func newStructure(sol *solution.Solution) *Structure {
	return &Structure{
		Path:                sol.FilePath,
		Name:                sol.Name,
		Format:              sol.Format,
		VisualStudioVersion: sol.VisualStudioVersion,
		ProjectCount:        len(sol.Projects),
		FolderCount:         len(sol.Folders),
		Roots:               toNodes(sol.Roots),
	}
}

func toNodes(items []solution.Item) []Node {
	nodes := make([]Node, 0, len(items))
	for _, item := range items {
		n := Node{ID: item.ID().String(), Name: item.Name()}
		switch item.Kind {
		case solution.ItemFolder:
			n.Kind = "folder"
			n.Files = item.Folder.Files
			if len(item.Folder.Children) > 0 {
				n.Children = toNodes(item.Folder.Children)
			}
		case solution.ItemProject:
			n.Kind = "project"
			n.Path = item.Project.Path
			n.TypeID = item.Project.TypeID
		}
		nodes = append(nodes, n)
	}
	return nodes
}
