package project

import (
	"github.com/willibrandon/slncfg/buildconfig"
	"github.com/willibrandon/slncfg/observability"
	"github.com/willibrandon/slncfg/workspace"
)

// Source names where the effective target frameworks were declared.
type Source string

const (
	SourceProjectFile  Source = "Project file"
	SourceBuildTargets Source = "Directory.Build.targets"
	SourceBuildProps   Source = "Directory.Build.props"
	SourceNotFound     Source = "Not Found"
)

// UnknownFramework is the primary framework reported when none was found.
const UnknownFramework = "unknown"

// Frameworks is the resolved target framework information of a project.
type Frameworks struct {
	ProjectPath      string   `json:"projectPath"`
	ProjectName      string   `json:"projectName"`
	TargetFrameworks []string `json:"targetFrameworks"`
	Primary          string   `json:"primaryTargetFramework"`
	MultiTargeting   bool     `json:"isMultiTargeting"`
	Source           Source   `json:"source"`

	// Monikers classifies each entry of TargetFrameworks.
	Monikers []Moniker `json:"monikers"`

	// NetFramework reports whether any target is a .NET Framework moniker.
	NetFramework bool `json:"targetsNetFramework"`

	// SourcePath is the file that declared the frameworks; empty for NotFound.
	SourcePath string   `json:"sourcePath,omitempty"`
	Style      SdkStyle `json:"sdkType"`
	Sdk        string   `json:"sdk,omitempty"`
}

// Resolver computes effective target frameworks with MSBuild's precedence:
// project file, then Directory.Build.targets, then Directory.Build.props.
type Resolver struct {
	hierarchy *buildconfig.Hierarchy
	reader    workspace.FileReader
	logger    observability.Logger
}

// NewResolver creates a resolver over a loaded hierarchy.
func NewResolver(h *buildconfig.Hierarchy, r workspace.FileReader, logger observability.Logger) *Resolver {
	if logger == nil {
		logger = observability.NewNullLogger()
	}
	return &Resolver{hierarchy: h, reader: r, logger: logger}
}

// Resolve loads the project file at projectPath and resolves its frameworks.
func (r *Resolver) Resolve(projectPath string) (*Frameworks, error) {
	f, err := Load(r.reader, projectPath)
	if err != nil {
		return nil, err
	}
	return r.ResolveFile(f), nil
}

// ResolveAll resolves every project. A project that cannot be read or parsed
// is logged and reported as NotFound with an unknown style.
func (r *Resolver) ResolveAll(projectPaths []string) []*Frameworks {
	results := make([]*Frameworks, 0, len(projectPaths))
	for _, path := range projectPaths {
		fw, err := r.Resolve(path)
		if err != nil {
			r.logger.Warn("Failed to resolve target frameworks for {Path}: {Error}", path, err)
			fw = NotFound(path)
		}
		results = append(results, fw)
	}
	return results
}

// NotFound returns the sentinel result for a project whose frameworks could
// not be determined.
func NotFound(projectPath string) *Frameworks {
	f := &File{Path: projectPath}
	fw := &Frameworks{
		ProjectPath:      projectPath,
		ProjectName:      f.Name(),
		TargetFrameworks: []string{},
		Monikers:         []Moniker{},
		Primary:          UnknownFramework,
		Source:           SourceNotFound,
		Style:            StyleUnknown,
	}
	return fw
}

// ResolveFile resolves the frameworks of an already parsed project. Every
// candidate value is expanded before it is accepted.
func (r *Resolver) ResolveFile(f *File) *Frameworks {
	fw := NotFound(f.Path)
	fw.Style = f.Style
	fw.Sdk = f.Sdk

	props := r.hierarchy.Nearest(f.Path, buildconfig.KindBuildProps)
	targets := r.hierarchy.Nearest(f.Path, buildconfig.KindBuildTargets)

	if declared := f.DeclaredFrameworks(); len(declared) > 0 {
		// Project scope: props chain, then the project itself, then targets chain.
		scope := r.hierarchy.AllProperties(props)
		scope.Merge(f.Properties)
		scope.Merge(r.hierarchy.AllProperties(targets))
		r.accept(fw, expandAll(declared, scope), SourceProjectFile, f.Path)
		return fw
	}

	for _, candidate := range []struct {
		file   *buildconfig.ConfigFile
		source Source
	}{
		{targets, SourceBuildTargets},
		{props, SourceBuildProps},
	} {
		if candidate.file == nil {
			continue
		}
		if list := r.fromConfigFile(candidate.file); len(list) > 0 {
			r.accept(fw, list, candidate.source, candidate.file.Path)
			return fw
		}
	}

	observability.RecordFrameworkResolution(string(SourceNotFound))
	r.logger.Debug("No target framework found for {Path}", f.Path)
	return fw
}

// fromConfigFile reads TargetFrameworks, then TargetFramework, from the
// merged properties of file and its ancestors.
func (r *Resolver) fromConfigFile(file *buildconfig.ConfigFile) []string {
	all := r.hierarchy.AllProperties(file)
	if list := SplitFrameworks(all.Value("TargetFrameworks")); len(list) > 0 {
		return expandAll(list, all)
	}
	if single := all.Value("TargetFramework"); single != "" {
		return expandAll([]string{single}, all)
	}
	return nil
}

func (r *Resolver) accept(fw *Frameworks, list []string, source Source, path string) {
	fw.TargetFrameworks = list
	fw.Primary = list[0]
	fw.MultiTargeting = len(list) > 1
	fw.Source = source
	fw.SourcePath = path
	fw.Monikers = make([]Moniker, 0, len(list))
	for _, tfm := range list {
		m, err := ParseMoniker(tfm)
		if err != nil {
			r.logger.Debug("Unrecognized target framework {Framework} in {Path}", tfm, path)
		}
		fw.Monikers = append(fw.Monikers, m)
		fw.NetFramework = fw.NetFramework || m.IsLegacy()
	}
	observability.RecordFrameworkResolution(string(source))
	r.logger.Debug("Resolved {Frameworks} for {Path} from {Source}", list, fw.ProjectPath, source)
}

// PrimaryFamily returns the framework family of the primary target, or
// FamilyUnknown when nothing was resolved.
func (fw *Frameworks) PrimaryFamily() string {
	if len(fw.Monikers) == 0 {
		return FamilyUnknown
	}
	return fw.Monikers[0].Family
}

// expandAll substitutes property references in each entry. A single entry
// that expands to a list (TargetFrameworks="$(Supported)") is split again.
func expandAll(list []string, props *buildconfig.Properties) []string {
	var out []string
	for _, tfm := range list {
		out = append(out, SplitFrameworks(buildconfig.ExpandProperties(tfm, props))...)
	}
	if len(out) == 0 {
		return list
	}
	return out
}
