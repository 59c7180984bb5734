package analysis

import (
	"bytes"
	"context"
	"path/filepath"

	"github.com/willibrandon/slncfg/buildconfig"
	"github.com/willibrandon/slncfg/observability"
	"github.com/willibrandon/slncfg/packages"
	"github.com/willibrandon/slncfg/project"
	"github.com/willibrandon/slncfg/solution"
	"github.com/willibrandon/slncfg/sources"
)

// FindSolutions lists the solution files below dir.
func (s *Service) FindSolutions(ctx context.Context, dir string) (found []solution.Detected, err error) {
	ctx, op := observability.StartOperation(ctx, "solutions", dir)
	defer func() { op.End(err) }()

	return solution.NewDetector(s.fsys, dir, s.opts.Exclude).FindSolutions(ctx)
}

// SolutionStructure returns the folder and project tree of a solution with
// its SDK pin and central package management status.
func (s *Service) SolutionStructure(ctx context.Context, solutionPath string) (st *Structure, err error) {
	ctx, op := observability.StartOperation(ctx, "structure", solutionPath)
	defer func() { op.End(err) }()

	m, err := s.load(ctx, solutionPath, false)
	if err != nil {
		return nil, err
	}

	st = newStructure(m.solution)
	if central := m.hierarchy.NearestFromDir(m.solution.Dir, buildconfig.KindPackagesProps); central != nil {
		st.CentrallyManaged = true
		st.PackagesPropsPath = central.Path
	}

	gj, err := solution.FindGlobalJSON(s.fsys, m.solution.Dir)
	if err != nil {
		s.logger.Warn("Ignoring global.json: {Error}", err)
	}
	st.GlobalJSON = gj
	return st, nil
}

// ProjectBuildFiles names the nearest build file of each kind for a project.
type ProjectBuildFiles struct {
	ProjectPath   string `json:"projectPath"`
	BuildProps    string `json:"buildProps,omitempty"`
	BuildTargets  string `json:"buildTargets,omitempty"`
	PackagesProps string `json:"packagesProps,omitempty"`
}

// BuildConfiguration describes the hierarchical build files of a workspace.
type BuildConfiguration struct {
	Root           string                    `json:"root"`
	Files          []*buildconfig.ConfigFile `json:"files"`
	Summary        buildconfig.Summary       `json:"summary"`
	CentralEnabled bool                      `json:"centralEnabled"`
	Projects       []ProjectBuildFiles       `json:"projects"`

	// Effective maps each file to its properties merged with its ancestors'.
	Effective map[string]*buildconfig.Properties `json:"effective"`
}

// BuildConfiguration discovers, links and parses the build files that
// affect the solution's projects.
func (s *Service) BuildConfiguration(ctx context.Context, solutionPath string) (bc *BuildConfiguration, err error) {
	ctx, op := observability.StartOperation(ctx, "build-config", solutionPath)
	defer func() { op.End(err) }()

	m, err := s.load(ctx, solutionPath, false)
	if err != nil {
		return nil, err
	}

	h := m.hierarchy
	bc = &BuildConfiguration{
		Root:           m.root,
		Files:          h.Files(),
		Summary:        h.Summary(),
		CentralEnabled: h.HasKind(buildconfig.KindPackagesProps),
		Projects:       make([]ProjectBuildFiles, 0, len(m.paths)),
		Effective:      make(map[string]*buildconfig.Properties, len(h.Files())),
	}
	for _, f := range h.Files() {
		bc.Effective[f.Path] = h.AllProperties(f)
	}
	for _, p := range m.paths {
		bc.Projects = append(bc.Projects, ProjectBuildFiles{
			ProjectPath:   p,
			BuildProps:    pathOf(h.Nearest(p, buildconfig.KindBuildProps)),
			BuildTargets:  pathOf(h.Nearest(p, buildconfig.KindBuildTargets)),
			PackagesProps: pathOf(h.Nearest(p, buildconfig.KindPackagesProps)),
		})
	}
	return bc, nil
}

func pathOf(f *buildconfig.ConfigFile) string {
	if f == nil {
		return ""
	}
	return f.Path
}

// ProjectFrameworks resolves the target frameworks of every project in the
// solution, in declaration order. Unreadable projects are reported NotFound.
func (s *Service) ProjectFrameworks(ctx context.Context, solutionPath string) (result []*project.Frameworks, err error) {
	ctx, op := observability.StartOperation(ctx, "frameworks", solutionPath)
	defer func() { op.End(err) }()

	m, err := s.load(ctx, solutionPath, true)
	if err != nil {
		return nil, err
	}

	resolver := project.NewResolver(m.hierarchy, s.fsys, s.logger)
	result = make([]*project.Frameworks, 0, len(m.paths))
	for i, path := range m.paths {
		if m.projects[i] == nil {
			result = append(result, project.NotFound(path))
			continue
		}
		result = append(result, resolver.ResolveFile(m.projects[i]))
	}
	return result, nil
}

// PackageManagement diagnoses how the solution manages package versions.
// A project with a packages.config next to it is legacy; every other
// readable project is treated as using PackageReference.
func (s *Service) PackageManagement(ctx context.Context, solutionPath string) (report *packages.Report, err error) {
	ctx, op := observability.StartOperation(ctx, "diagnose", solutionPath)
	defer func() { op.End(err) }()

	m, err := s.load(ctx, solutionPath, true)
	if err != nil {
		return nil, err
	}

	var modern []packages.ProjectReferences
	var legacy []packages.LegacyManifest
	for i, path := range m.paths {
		if manifest, ok := packages.FindPackagesConfig(s.fsys, path); ok {
			legacy = append(legacy, s.loadManifest(path, manifest))
			continue
		}
		if f := m.projects[i]; f != nil {
			modern = append(modern, f.References())
		}
	}

	central := packages.NewCentralAnalyzer(s.fsys, s.logger)
	report = packages.NewAggregator(central, s.logger).Aggregate(m.hierarchy, modern, legacy)
	observability.SetAttributes(ctx, observability.AttrDiagnostics.Int(len(report.Diagnostics)))
	return report, nil
}

func (s *Service) loadManifest(projectPath, manifestPath string) packages.LegacyManifest {
	lm := packages.LegacyManifest{
		ProjectPath:  projectPath,
		ManifestPath: manifestPath,
		Packages:     []packages.LegacyPackage{},
	}

	data, err := s.fsys.ReadFile(manifestPath)
	if err != nil {
		s.logger.Warn("Cannot read {Path}: {Error}", manifestPath, err)
		observability.RecordFileParse(packages.LegacyManifestName, observability.ResultReadError)
		return lm
	}
	pkgs, err := packages.ParsePackagesConfig(bytes.NewReader(data), manifestPath, projectPath)
	if err != nil {
		s.logger.Warn("Ignoring malformed {Path}: {Error}", manifestPath, err)
		observability.RecordFileParse(packages.LegacyManifestName, observability.ResultParseError)
		return lm
	}
	observability.RecordFileParse(packages.LegacyManifestName, observability.ResultParsed)
	lm.Packages = pkgs
	return lm
}

// PackageSources merges the NuGet.Config files that apply to the solution.
func (s *Service) PackageSources(ctx context.Context, solutionPath string) (res *sources.Resolution, err error) {
	_, op := observability.StartOperation(ctx, "sources", solutionPath)
	defer func() { op.End(err) }()

	sol, err := s.loadSolution(solutionPath)
	if err != nil {
		return nil, err
	}

	locations := sources.DefaultLocations()
	if s.opts.Locations != nil {
		locations = *s.opts.Locations
	}
	return sources.NewResolver(s.fsys, locations, s.logger).Resolve(filepath.Clean(sol.Dir)), nil
}
