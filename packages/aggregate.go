package packages

import (
	"fmt"

	"github.com/willibrandon/slncfg/buildconfig"
	"github.com/willibrandon/slncfg/observability"
)

// Summary counts projects, declarations and diagnostics.
type Summary struct {
	TotalProjects            int `json:"totalProjects"`
	LegacyProjects           int `json:"legacyProjects"`
	ModernProjects           int `json:"modernProjects"`
	CentrallyManagedProjects int `json:"centrallyManagedProjects"`
	CentralPackages          int `json:"centralPackages"`
	Errors                   int `json:"errors"`
	Warnings                 int `json:"warnings"`
	Infos                    int `json:"infos"`
}

// Report is the package management picture of a solution.
type Report struct {
	Mode           ManagementMode `json:"mode"`
	CentralEnabled bool           `json:"centralEnabled"`

	// Transitional is set when packages.config projects and PackageReference
	// projects coexist.
	Transitional bool `json:"transitional"`

	CentralFiles    []string            `json:"centralFiles"`
	Versions        []*Version          `json:"versions"`
	References      []ProjectReferences `json:"references"`
	LegacyManifests []LegacyManifest    `json:"legacyManifests"`
	Diagnostics     []Diagnostic        `json:"diagnostics"`
	Summary         Summary             `json:"summary"`
}

// Aggregator combines central version analysis with legacy manifests.
type Aggregator struct {
	central *CentralAnalyzer
	logger  observability.Logger
}

// NewAggregator creates an aggregator on top of a central analyzer.
func NewAggregator(central *CentralAnalyzer, logger observability.Logger) *Aggregator {
	if logger == nil {
		logger = observability.NewNullLogger()
	}
	return &Aggregator{central: central, logger: logger}
}

// Aggregate builds the report. modern holds the PackageReference projects and
// legacy the packages.config projects; a project belongs to exactly one.
func (a *Aggregator) Aggregate(h *buildconfig.Hierarchy, modern []ProjectReferences, legacy []LegacyManifest) *Report {
	central := a.central.Analyze(h, modern)

	report := &Report{
		CentralEnabled:  central.Enabled,
		CentralFiles:    central.CentralFiles,
		Versions:        central.Versions,
		References:      modern,
		LegacyManifests: legacy,
		Diagnostics:     central.Diagnostics,
		Summary: Summary{
			TotalProjects:   len(modern) + len(legacy),
			LegacyProjects:  len(legacy),
			ModernProjects:  len(modern),
			CentralPackages: len(central.Versions),
		},
	}
	if central.Enabled {
		report.Summary.CentrallyManagedProjects = central.GovernedProjects
	}

	report.Transitional = report.Summary.LegacyProjects > 0 && report.Summary.ModernProjects > 0
	switch {
	case report.Transitional:
		report.Mode = ModeMixed
		report.Diagnostics = append(report.Diagnostics, Diagnostic{
			Severity: SeverityInfo,
			Message: fmt.Sprintf(
				"Solution mixes %s using packages.config with %s using PackageReference; this usually indicates an in-progress migration from .NET Framework to modern .NET.",
				plural(report.Summary.LegacyProjects, "legacy project"),
				plural(report.Summary.ModernProjects, "SDK-style project")),
		})
	case report.Summary.LegacyProjects > 0:
		report.Mode = ModeLocal
	default:
		report.Mode = central.Mode
	}

	for _, d := range report.Diagnostics {
		switch d.Severity {
		case SeverityError:
			report.Summary.Errors++
		case SeverityWarning:
			report.Summary.Warnings++
		case SeverityInfo:
			report.Summary.Infos++
		}
		observability.RecordDiagnostic(d.Severity.String())
	}

	a.logger.Debug("Package management mode {Mode} with {Count} diagnostics", report.Mode, len(report.Diagnostics))
	return report
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
