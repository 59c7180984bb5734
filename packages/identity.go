// Package packages models package references, central version declarations
// and legacy packages.config entries, and diagnoses how a solution manages
// package versions.
package packages

import "strings"

// Identity names a package and, optionally, a version.
type Identity struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// Equal compares name and version. Package names compare case-insensitively
// as NuGet package IDs do; versions compare exactly.
func (i Identity) Equal(other Identity) bool {
	return i.SameName(other) && i.Version == other.Version
}

// SameName compares names only.
func (i Identity) SameName(other Identity) bool {
	return strings.EqualFold(i.Name, other.Name)
}

// String renders "Name@Version" or just the name.
func (i Identity) String() string {
	if i.Version == "" {
		return i.Name
	}
	return i.Name + "@" + i.Version
}

// Reference is a PackageReference item of a project.
type Reference struct {
	Identity
	ProjectPath string `json:"projectPath"`

	// HasPinnedVersion reports an explicit Version on the reference.
	HasPinnedVersion bool `json:"hasPinnedVersion"`
}

// ProjectReferences groups the references of one project.
type ProjectReferences struct {
	ProjectPath string      `json:"projectPath"`
	References  []Reference `json:"references"`
}

// PinnedCount returns how many references carry an explicit version.
func (p ProjectReferences) PinnedCount() int {
	n := 0
	for _, ref := range p.References {
		if ref.HasPinnedVersion {
			n++
		}
	}
	return n
}

// Version is a PackageVersion declaration of a Directory.Packages.props file.
type Version struct {
	Identity
	DeclaringFile string `json:"declaringFile"`

	// AffectedProjects lists projects that consume the declaration through an
	// unpinned reference.
	AffectedProjects []string `json:"affectedProjects"`
}

// AddAffectedProject records a consuming project once.
func (v *Version) AddAffectedProject(projectPath string) {
	for _, p := range v.AffectedProjects {
		if p == projectPath {
			return
		}
	}
	v.AffectedProjects = append(v.AffectedProjects, projectPath)
}

// LegacyPackage is an entry of a packages.config manifest.
type LegacyPackage struct {
	Identity
	ProjectPath     string `json:"projectPath"`
	ManifestPath    string `json:"manifestPath"`
	TargetFramework string `json:"targetFramework,omitempty"`
}

// LegacyManifest is the packages.config of one project.
type LegacyManifest struct {
	ProjectPath  string          `json:"projectPath"`
	ManifestPath string          `json:"manifestPath"`
	Packages     []LegacyPackage `json:"packages"`
}
