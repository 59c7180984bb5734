package packages

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/willibrandon/slncfg/buildconfig"
	"github.com/willibrandon/slncfg/observability"
	"github.com/willibrandon/slncfg/workspace"
)

// CentralReport is the outcome of central package management analysis.
type CentralReport struct {
	// Enabled reports whether any Directory.Packages.props exists.
	Enabled bool `json:"enabled"`

	Mode ManagementMode `json:"mode"`

	// CentralFiles lists the Directory.Packages.props files in discovery order.
	CentralFiles []string `json:"centralFiles"`

	// Versions holds every PackageVersion declaration, file by file.
	Versions []*Version `json:"versions"`

	Diagnostics []Diagnostic `json:"diagnostics"`

	// GovernedProjects counts projects under a central file with no pinned reference.
	GovernedProjects int `json:"governedProjects"`
}

// CentralAnalyzer checks PackageReference items against the central
// Directory.Packages.props declarations that govern each project.
type CentralAnalyzer struct {
	reader workspace.FileReader
	logger observability.Logger
}

// NewCentralAnalyzer creates an analyzer reading central files through r.
func NewCentralAnalyzer(r workspace.FileReader, logger observability.Logger) *CentralAnalyzer {
	if logger == nil {
		logger = observability.NewNullLogger()
	}
	return &CentralAnalyzer{reader: r, logger: logger}
}

// declarations indexes the PackageVersion items of one central file by
// lower-cased name. The first declaration of a name wins.
type declarations struct {
	file   *buildconfig.ConfigFile
	byName map[string]*Version
}

// Analyze determines the management mode, maps unpinned references onto the
// declarations that govern them and reports conflicts. Malformed or
// unreadable central files count as empty; Analyze never fails.
func (a *CentralAnalyzer) Analyze(h *buildconfig.Hierarchy, projects []ProjectReferences) *CentralReport {
	report := &CentralReport{
		Enabled:      h.HasKind(buildconfig.KindPackagesProps),
		CentralFiles: []string{},
		Versions:     []*Version{},
		Diagnostics:  []Diagnostic{},
	}

	decls := make(map[string]*declarations)
	for _, f := range h.FilesOfKind(buildconfig.KindPackagesProps) {
		report.CentralFiles = append(report.CentralFiles, f.Path)
		d := &declarations{file: f, byName: make(map[string]*Version)}
		for _, v := range a.load(f.Path) {
			report.Versions = append(report.Versions, v)
			key := strings.ToLower(v.Name)
			if first, dup := d.byName[key]; dup {
				report.Diagnostics = append(report.Diagnostics, Diagnostic{
					Severity:    SeverityWarning,
					Message:     fmt.Sprintf("Package '%s' is declared more than once in '%s'; version '%s' is used.", v.Name, f.Path, first.Version),
					PackageName: v.Name,
					FilePath:    f.Path,
				})
				continue
			}
			d.byName[key] = v
		}
		decls[f.Path] = d
	}

	report.Mode = determineMode(report.Enabled, projects)

	for _, proj := range projects {
		nearest := h.Nearest(proj.ProjectPath, buildconfig.KindPackagesProps)
		if nearest == nil {
			continue
		}
		if proj.PinnedCount() == 0 {
			report.GovernedProjects++
		}

		for _, ref := range proj.References {
			declared, declFile := lookup(h, decls, nearest, ref.Name)
			switch {
			case ref.HasPinnedVersion && declared != nil:
				report.Diagnostics = append(report.Diagnostics, Diagnostic{
					Severity: SeverityWarning,
					Message: fmt.Sprintf(
						"Package '%s' has a pinned version '%s' in '%s' but is centrally managed with version '%s' in '%s'.%s Remove the Version attribute from the PackageReference.",
						ref.Name, ref.Version, proj.ProjectPath, declared.Version, declFile,
						versionRelation(ref.Version, declared.Version)),
					PackageName: ref.Name,
					ProjectPath: proj.ProjectPath,
					FilePath:    declFile,
				})
			case ref.HasPinnedVersion:
				report.Diagnostics = append(report.Diagnostics, Diagnostic{
					Severity: SeverityWarning,
					Message: fmt.Sprintf(
						"Package '%s' has a pinned version '%s' in '%s' while central package management is enabled by '%s'. Declare it with a PackageVersion item there and remove the Version attribute from the PackageReference.",
						ref.Name, ref.Version, proj.ProjectPath, nearest.Path),
					PackageName: ref.Name,
					ProjectPath: proj.ProjectPath,
					FilePath:    nearest.Path,
				})
			case declared != nil:
				declared.AddAffectedProject(proj.ProjectPath)
			default:
				report.Diagnostics = append(report.Diagnostics, Diagnostic{
					Severity: SeverityError,
					Message: fmt.Sprintf(
						"Package '%s' is referenced without a version in '%s' but no PackageVersion for it is declared in '%s'.",
						ref.Name, proj.ProjectPath, nearest.Path),
					PackageName: ref.Name,
					ProjectPath: proj.ProjectPath,
					FilePath:    nearest.Path,
				})
			}
		}
	}

	return report
}

// lookup finds name in the nearest central file, then in ancestors that the
// file explicitly imports. Closer declarations win.
func lookup(h *buildconfig.Hierarchy, decls map[string]*declarations, nearest *buildconfig.ConfigFile, name string) (*Version, string) {
	key := strings.ToLower(name)
	for f := nearest; f != nil; f = h.Parent(f) {
		if d, ok := decls[f.Path]; ok {
			if v, ok := d.byName[key]; ok {
				return v, f.Path
			}
		}
		if !f.ImportsParent {
			break
		}
	}
	return nil, ""
}

func determineMode(enabled bool, projects []ProjectReferences) ManagementMode {
	if !enabled {
		return ModeLocal
	}
	for _, proj := range projects {
		if proj.PinnedCount() > 0 {
			return ModeMixed
		}
	}
	return ModeCentral
}

func (a *CentralAnalyzer) load(path string) []*Version {
	data, err := a.reader.ReadFile(path)
	if err != nil {
		a.logger.Warn("Cannot read {Path}: {Error}", path, err)
		return nil
	}

	versions, err := ParseCentralVersions(bytes.NewReader(data), path)
	if err != nil {
		a.logger.Warn("Ignoring malformed {Path}: {Error}", path, err)
		return nil
	}

	a.logger.Debug("Loaded {Count} central package versions from {Path}", len(versions), path)
	return versions
}
