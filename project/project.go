// Package project parses .NET project files (.csproj, .fsproj, .vbproj) and
// resolves the target frameworks that apply to them.
package project

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/willibrandon/slncfg/buildconfig"
	"github.com/willibrandon/slncfg/packages"
	"github.com/willibrandon/slncfg/workspace"
)

// SdkStyle classifies the format of a project file.
type SdkStyle string

const (
	// StyleSDK is a modern project with an Sdk attribute or <Sdk> element.
	StyleSDK SdkStyle = "SDK-Style"
	// StyleLegacy is a verbose .NET Framework project.
	StyleLegacy SdkStyle = "Legacy"
	// StyleUnknown is neither.
	StyleUnknown SdkStyle = "Unknown"
)

// File is a parsed project file.
type File struct {
	Path  string   `json:"path"`
	Sdk   string   `json:"sdk,omitempty"`
	Style SdkStyle `json:"style"`

	// Properties holds the children of every PropertyGroup in document order.
	// Conditions are not evaluated.
	Properties *buildconfig.Properties `json:"properties"`

	// TargetFramework and TargetFrameworks are the raw declarations, before
	// property substitution.
	TargetFramework  string `json:"targetFramework,omitempty"`
	TargetFrameworks string `json:"targetFrameworks,omitempty"`

	// TargetFrameworkVersion is the legacy framework version such as "v4.8".
	TargetFrameworkVersion string `json:"targetFrameworkVersion,omitempty"`

	PackageReferences []packages.Reference `json:"packageReferences"`
}

// Load reads and parses the project file at path.
func Load(r workspace.FileReader, path string) (*File, error) {
	data, err := r.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}
	return Parse(bytes.NewReader(data), path)
}

// Parse reads a project file from r. path is recorded on the result and on
// every package reference.
func Parse(r io.Reader, path string) (*File, error) {
	var root projectElement
	if err := workspace.NewXMLDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("failed to parse project XML: %w", err)
	}

	f := &File{
		Path:              path,
		Sdk:               strings.TrimSpace(root.Sdk),
		Properties:        buildconfig.NewProperties(),
		PackageReferences: []packages.Reference{},
	}
	if f.Sdk == "" && len(root.Sdks) > 0 {
		f.Sdk = strings.TrimSpace(root.Sdks[0].Name)
	}
	if f.Sdk == "" {
		for _, imp := range root.Imports {
			if imp.Sdk != "" {
				f.Sdk = strings.TrimSpace(imp.Sdk)
				break
			}
		}
	}
	f.Style = classify(f.Sdk, root)

	for _, pg := range root.PropertyGroups {
		for _, prop := range pg.Properties {
			f.Properties.Set(prop.XMLName.Local, strings.TrimSpace(prop.Value))
		}
	}
	f.TargetFramework, f.TargetFrameworks = frameworkDeclaration(root.PropertyGroups)
	f.TargetFrameworkVersion = f.Properties.Value("TargetFrameworkVersion")

	for _, ig := range root.ItemGroups {
		for _, ref := range ig.PackageReferences {
			name := strings.TrimSpace(ref.Include)
			if name == "" {
				continue
			}
			pinned := ref.Version != nil || ref.VersionElement != nil
			version := ""
			switch {
			case ref.Version != nil:
				version = strings.TrimSpace(*ref.Version)
			case ref.VersionElement != nil:
				version = strings.TrimSpace(*ref.VersionElement)
			}
			f.PackageReferences = append(f.PackageReferences, packages.Reference{
				Identity:         packages.Identity{Name: name, Version: version},
				ProjectPath:      path,
				HasPinnedVersion: pinned,
			})
		}
	}

	return f, nil
}

func classify(sdk string, root projectElement) SdkStyle {
	if sdk != "" {
		return StyleSDK
	}
	if root.ToolsVersion != "" || root.DefaultTargets != "" {
		return StyleLegacy
	}
	return StyleUnknown
}

// frameworkDeclaration prefers unconditional property groups, where the last
// declaration wins. Only when none declares a framework is the first
// conditional declaration taken.
func frameworkDeclaration(groups []propertyGroup) (single, multi string) {
	for _, pg := range groups {
		if strings.TrimSpace(pg.Condition) != "" {
			continue
		}
		for _, prop := range pg.Properties {
			switch frameworkProperty(prop.XMLName.Local) {
			case "TargetFramework":
				single = strings.TrimSpace(prop.Value)
			case "TargetFrameworks":
				multi = strings.TrimSpace(prop.Value)
			}
		}
	}
	if single != "" || multi != "" {
		return single, multi
	}

	for _, pg := range groups {
		if strings.TrimSpace(pg.Condition) == "" {
			continue
		}
		for _, prop := range pg.Properties {
			value := strings.TrimSpace(prop.Value)
			if value == "" {
				continue
			}
			switch frameworkProperty(prop.XMLName.Local) {
			case "TargetFrameworks":
				return "", value
			case "TargetFramework":
				return value, ""
			}
		}
	}
	return "", ""
}

// frameworkProperty returns the canonical spelling of a framework property
// name, which MSBuild matches case-insensitively, or "" for anything else.
func frameworkProperty(name string) string {
	for _, canonical := range []string{"TargetFramework", "TargetFrameworks"} {
		if strings.EqualFold(name, canonical) {
			return canonical
		}
	}
	return ""
}

// Name returns the project file name without its extension.
func (f *File) Name() string {
	base := filepath.Base(f.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// References groups the package references for central version analysis.
func (f *File) References() packages.ProjectReferences {
	return packages.ProjectReferences{ProjectPath: f.Path, References: f.PackageReferences}
}

// FindPackageReference returns the reference to id, compared case-insensitively.
func (f *File) FindPackageReference(id string) (packages.Reference, bool) {
	for _, ref := range f.PackageReferences {
		if strings.EqualFold(ref.Name, id) {
			return ref, true
		}
	}
	return packages.Reference{}, false
}

// DeclaredFrameworks returns the project's own framework list before
// substitution: TargetFrameworks, then TargetFramework, then the mapping of a
// legacy TargetFrameworkVersion.
func (f *File) DeclaredFrameworks() []string {
	if list := SplitFrameworks(f.TargetFrameworks); len(list) > 0 {
		return list
	}
	if f.TargetFramework != "" {
		return []string{f.TargetFramework}
	}
	if tfm, ok := FromFrameworkVersion(f.TargetFrameworkVersion); ok {
		return []string{tfm}
	}
	return nil
}

// SplitFrameworks splits a semicolon-delimited framework list, keeping order
// and dropping empty entries.
func SplitFrameworks(value string) []string {
	var list []string
	for _, part := range strings.Split(value, ";") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	return list
}
