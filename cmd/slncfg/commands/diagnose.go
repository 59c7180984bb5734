package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/willibrandon/slncfg/cmd/slncfg/cli"
	"github.com/willibrandon/slncfg/cmd/slncfg/output"
	"github.com/willibrandon/slncfg/packages"
)

type diagnoseOptions struct {
	failOn string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand(console *output.Console) *cobra.Command {
	opts := &diagnoseOptions{failOn: "none"}

	cmd := &cobra.Command{
		Use:   "diagnose [solution]",
		Short: "Diagnose package version management",
		Long: `Report how the solution manages package versions: central package
management through Directory.Packages.props, PackageReference versions in
project files, or legacy packages.config. Pinned versions that conflict
with central declarations are reported as warnings.

Diagnostics do not fail the command unless --fail-on is given.

Examples:
  slncfg diagnose
  slncfg diagnose App.sln --fail-on warning`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagnose(cmd, console, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.failOn, "fail-on", "none", "Exit with an error when a diagnostic at this severity or worse is reported: none, warning or error")

	return cmd
}

// failThreshold maps --fail-on to the least severe failing severity.
func failThreshold(name string) (packages.Severity, bool, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return 0, false, nil
	case "error":
		return packages.SeverityError, true, nil
	case "warning":
		return packages.SeverityWarning, true, nil
	default:
		return 0, false, fmt.Errorf("invalid --fail-on value %q: must be none, warning or error", name)
	}
}

func runDiagnose(cmd *cobra.Command, console *output.Console, opts *diagnoseOptions, args []string) error {
	threshold, failing, err := failThreshold(opts.failOn)
	if err != nil {
		return err
	}

	start := time.Now()
	svc := cli.NewService()
	path, err := resolveSolution(cmd.Context(), svc, args)
	if err != nil {
		return err
	}

	report, err := svc.PackageManagement(cmd.Context(), path)
	if err != nil {
		return err
	}
	base := dirOf(path)

	err = render(console, "diagnose", path, start, report,
		func(w io.Writer) {
			rows := make([][]any, 0, len(report.Diagnostics))
			for _, d := range report.Diagnostics {
				rows = append(rows, []any{d.Severity.String(), d.PackageName, relativeTo(base, d.ProjectPath), d.Message})
			}
			output.RenderTable(w, []string{"Severity", "Package", "Project", "Message"}, rows)
		},
		func() { printReport(console, base, report) })
	if err != nil || !failing {
		return err
	}

	count := 0
	for _, d := range report.Diagnostics {
		if d.Severity <= threshold {
			count++
		}
	}
	if count > 0 {
		return fmt.Errorf("%s at %s level or above", plural(count, "diagnostic"), strings.ToLower(threshold.String()))
	}
	return nil
}

func printReport(console *output.Console, base string, report *packages.Report) {
	s := report.Summary
	console.Header("Package management: %s", report.Mode)
	console.Info("%s (%d PackageReference, %d packages.config), %s declared centrally",
		plural(s.TotalProjects, "project"), s.ModernProjects, s.LegacyProjects,
		plural(s.CentralPackages, "package"))
	if report.CentralEnabled {
		console.Info("%d of %d PackageReference projects fully centrally managed", s.CentrallyManagedProjects, s.ModernProjects)
		for _, f := range report.CentralFiles {
			console.Detail("  %s", relativeTo(base, f))
		}
	}
	if report.Transitional {
		console.Info("Transitional solution: packages.config and PackageReference coexist")
	}

	if len(report.Diagnostics) == 0 {
		console.Success("No package management issues found")
		return
	}

	console.Println()
	for _, d := range report.Diagnostics {
		col := output.ColorInfo
		switch d.Severity {
		case packages.SeverityError:
			col = output.ColorError
		case packages.SeverityWarning:
			col = output.ColorWarning
		}
		console.Styled(col, "%s", d.String())
	}
	console.Println()
	console.Info("%s, %s, %s", plural(s.Errors, "error"), plural(s.Warnings, "warning"), plural(s.Infos, "info"))
}
