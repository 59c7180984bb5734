// Package buildconfig discovers the hierarchical MSBuild property files of a
// workspace (Directory.Build.props, Directory.Build.targets and
// Directory.Packages.props), links each file to its nearest ancestor of the
// same kind and resolves inherited properties.
package buildconfig

import (
	"path/filepath"
	"strings"
)

// Kind identifies the role of a hierarchical property file.
type Kind int

const (
	// KindBuildProps is Directory.Build.props, imported before the project body.
	KindBuildProps Kind = iota
	// KindBuildTargets is Directory.Build.targets, imported after the project body.
	KindBuildTargets
	// KindPackagesProps is Directory.Packages.props, holding central package versions.
	KindPackagesProps
)

// Kinds lists every kind in discovery order.
var Kinds = []Kind{KindBuildProps, KindBuildTargets, KindPackagesProps}

// FileName returns the canonical file name for the kind.
func (k Kind) FileName() string {
	switch k {
	case KindBuildProps:
		return "Directory.Build.props"
	case KindBuildTargets:
		return "Directory.Build.targets"
	case KindPackagesProps:
		return "Directory.Packages.props"
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if name := k.FileName(); name != "" {
		return name
	}
	return "unknown"
}

// MarshalText renders the kind by file name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// KindOf classifies a path by its base name, ignoring case.
func KindOf(path string) (Kind, bool) {
	base := filepath.Base(path)
	for _, k := range Kinds {
		if strings.EqualFold(base, k.FileName()) {
			return k, true
		}
	}
	return 0, false
}
