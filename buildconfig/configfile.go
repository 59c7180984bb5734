package buildconfig

// ConfigFile is one discovered hierarchical property file. Parent and child
// links are paths resolved through the owning Hierarchy.
type ConfigFile struct {
	// Path is the cleaned absolute path of the file.
	Path string `json:"path"`

	// Kind is the role of the file.
	Kind Kind `json:"kind"`

	// Directory is the directory holding the file.
	Directory string `json:"directory"`

	// ParentPath is the nearest ancestor file of the same kind, or "".
	ParentPath string `json:"parent,omitempty"`

	// ChildPaths lists files of the same kind whose nearest ancestor is this file.
	ChildPaths []string `json:"children,omitempty"`

	// AffectedProjects lists projects for which this is the nearest file of its kind.
	AffectedProjects []string `json:"affectedProjects,omitempty"`

	// Properties holds the file's own properties (not inherited ones).
	Properties *Properties `json:"properties"`

	// ImportsParent reports whether the file explicitly imports its ancestor.
	ImportsParent bool `json:"importsParent"`

	affected map[string]bool
}

// HasParent reports whether an ancestor of the same kind exists.
func (f *ConfigFile) HasParent() bool {
	return f.ParentPath != ""
}

func (f *ConfigFile) addAffected(projectPath string) {
	if f.affected == nil {
		f.affected = make(map[string]bool)
	}
	if f.affected[projectPath] {
		return
	}
	f.affected[projectPath] = true
	f.AffectedProjects = append(f.AffectedProjects, projectPath)
}
