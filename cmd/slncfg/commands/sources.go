package commands

import (
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/willibrandon/slncfg/cmd/slncfg/cli"
	"github.com/willibrandon/slncfg/cmd/slncfg/output"
	"github.com/willibrandon/slncfg/sources"
)

type sourcesOptions struct {
	packageID string
}

// PackageRouting is the JSON result of "sources --package".
type PackageRouting struct {
	Package        string              `json:"package"`
	AllowedSources []string            `json:"allowedSources"`
	Resolution     *sources.Resolution `json:"resolution"`
}

// NewSourcesCommand creates the sources command
func NewSourcesCommand(console *output.Console) *cobra.Command {
	opts := &sourcesOptions{}

	cmd := &cobra.Command{
		Use:   "sources [solution]",
		Short: "Show the NuGet package sources in effect for a solution",
		Long: `Merge the machine-wide, user-profile and solution-local NuGet.Config
files and list the enabled package sources in priority order. With
--package, show which sources package source mapping allows for a package.

Examples:
  slncfg sources
  slncfg sources App.sln --package Contoso.Core
  slncfg sources --nuget-user-config ./ci/NuGet.Config --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSources(cmd, console, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.packageID, "package", "", "Package ID to route through package source mapping")

	return cmd
}

func runSources(cmd *cobra.Command, console *output.Console, opts *sourcesOptions, args []string) error {
	start := time.Now()
	svc := cli.NewService()
	path, err := resolveSolution(cmd.Context(), svc, args)
	if err != nil {
		return err
	}

	res, err := svc.PackageSources(cmd.Context(), path)
	if err != nil {
		return err
	}

	var result any = res
	var allowed []string
	if opts.packageID != "" {
		allowed = res.AllowedSources(opts.packageID)
		result = &PackageRouting{Package: opts.packageID, AllowedSources: allowed, Resolution: res}
	}

	return render(console, "sources", path, start, result,
		func(w io.Writer) {
			rows := make([][]any, 0, len(res.Sources))
			for _, s := range res.Sources {
				if opts.packageID != "" && !res.CanUseSource(opts.packageID, s.Name) {
					continue
				}
				rows = append(rows, []any{s.Name, s.URL, s.Scope.String(), s.FeedType(), s.Priority})
			}
			output.RenderTable(w, []string{"Name", "URL", "Scope", "Feed", "Priority"}, rows)
		},
		func() {
			if opts.packageID != "" {
				printRouting(console, opts.packageID, allowed)
				return
			}
			printSources(console, res)
		})
}

func printSources(console *output.Console, res *sources.Resolution) {
	files := res.ConfigFiles
	console.Header("Configuration files")
	if files.MachineWide != "" {
		console.Info("  machine: %s", files.MachineWide)
	}
	if files.UserProfile != "" {
		console.Info("  user:    %s", files.UserProfile)
	}
	for _, f := range files.SolutionLocal {
		console.Info("  local:   %s", f)
	}

	console.Println()
	if len(res.Sources) == 0 {
		console.Warning("No enabled package sources")
	} else {
		console.Header("Package sources")
		for i, s := range res.Sources {
			console.Printf("  %d.  %s [%s, %s]\n", i+1, s.Name, s.Scope, s.FeedType())
			console.Printf("      %s\n", s.URL)
			console.Detail("      from %s", s.ConfigPath)
		}
		if private := res.PrivateSources(); len(private) > 0 {
			names := make([]string, 0, len(private))
			for _, s := range private {
				names = append(names, s.Name)
			}
			console.Info("%s outside nuget.org: %s", plural(len(private), "source"), strings.Join(names, ", "))
		}
	}

	if len(res.Mappings) > 0 {
		console.Println()
		console.Header("Package source mapping")
		for _, m := range res.Mappings {
			console.Printf("  %s -> %s\n", m.Pattern, strings.Join(m.SourceNames, ", "))
		}
	}
}

func printRouting(console *output.Console, packageID string, allowed []string) {
	if len(allowed) == 0 {
		console.Styled(output.ColorWarning, "No source may serve %s", packageID)
		return
	}
	console.Printf("%s may be restored from: %s\n", packageID, strings.Join(allowed, ", "))
}
