package packages

import (
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/willibrandon/slncfg/workspace"
)

// LegacyManifestName is the file name of the legacy package manifest.
const LegacyManifestName = "packages.config"

type packagesConfigDocument struct {
	XMLName  xml.Name              `xml:"packages"`
	Packages []packagesConfigEntry `xml:"package"`
}

type packagesConfigEntry struct {
	ID              string `xml:"id,attr"`
	Version         string `xml:"version,attr"`
	TargetFramework string `xml:"targetFramework,attr"`
}

// ParsePackagesConfig reads a packages.config manifest. Entries without an id
// are skipped.
func ParsePackagesConfig(r io.Reader, manifestPath, projectPath string) ([]LegacyPackage, error) {
	var doc packagesConfigDocument
	if err := workspace.NewXMLDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", LegacyManifestName, err)
	}

	pkgs := make([]LegacyPackage, 0, len(doc.Packages))
	for _, entry := range doc.Packages {
		id := strings.TrimSpace(entry.ID)
		if id == "" {
			continue
		}
		pkgs = append(pkgs, LegacyPackage{
			Identity:        Identity{Name: id, Version: strings.TrimSpace(entry.Version)},
			ProjectPath:     projectPath,
			ManifestPath:    manifestPath,
			TargetFramework: strings.TrimSpace(entry.TargetFramework),
		})
	}
	return pkgs, nil
}

// FindPackagesConfig returns the packages.config next to the project file.
// Only the project's own directory is searched.
func FindPackagesConfig(r workspace.FileReader, projectPath string) (string, bool) {
	dir := filepath.Dir(projectPath)
	for _, name := range []string{LegacyManifestName, "Packages.config"} {
		candidate := filepath.Join(dir, name)
		if r.Exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

type centralDocument struct {
	XMLName    xml.Name           `xml:"Project"`
	ItemGroups []centralItemGroup `xml:"ItemGroup"`
}

type centralItemGroup struct {
	PackageVersions []centralPackageVersion `xml:"PackageVersion"`
}

type centralPackageVersion struct {
	Include        string  `xml:"Include,attr"`
	Version        string  `xml:"Version,attr"`
	VersionElement *string `xml:"Version"`
}

// ParseCentralVersions reads the PackageVersion items of a
// Directory.Packages.props file in document order.
func ParseCentralVersions(r io.Reader, declaringFile string) ([]*Version, error) {
	var doc centralDocument
	if err := workspace.NewXMLDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse Directory.Packages.props: %w", err)
	}

	var versions []*Version
	for _, group := range doc.ItemGroups {
		for _, pv := range group.PackageVersions {
			name := strings.TrimSpace(pv.Include)
			if name == "" {
				continue
			}
			version := strings.TrimSpace(pv.Version)
			if version == "" && pv.VersionElement != nil {
				version = strings.TrimSpace(*pv.VersionElement)
			}
			versions = append(versions, &Version{
				Identity:         Identity{Name: name, Version: version},
				DeclaringFile:    declaringFile,
				AffectedProjects: []string{},
			})
		}
	}
	return versions, nil
}
