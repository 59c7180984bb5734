package commands

import (
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/willibrandon/slncfg/analysis"
	"github.com/willibrandon/slncfg/buildconfig"
	"github.com/willibrandon/slncfg/cmd/slncfg/cli"
	"github.com/willibrandon/slncfg/cmd/slncfg/output"
)

type buildConfigOptions struct {
	properties bool
}

// NewBuildConfigCommand creates the build-config command
func NewBuildConfigCommand(console *output.Console) *cobra.Command {
	opts := &buildConfigOptions{}

	cmd := &cobra.Command{
		Use:   "build-config [solution]",
		Short: "Show the Directory.Build and Directory.Packages files of a workspace",
		Long: `Discover Directory.Build.props, Directory.Build.targets and
Directory.Packages.props files under the workspace root, link each file to
its nearest ancestor of the same kind and list the projects each file
applies to.

Examples:
  slncfg build-config
  slncfg build-config App.sln --properties
  slncfg build-config --workspace ../.. --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuildConfig(cmd, console, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.properties, "properties", false, "Show the effective properties of each file")

	return cmd
}

func runBuildConfig(cmd *cobra.Command, console *output.Console, opts *buildConfigOptions, args []string) error {
	start := time.Now()
	svc := cli.NewService()
	path, err := resolveSolution(cmd.Context(), svc, args)
	if err != nil {
		return err
	}

	bc, err := svc.BuildConfiguration(cmd.Context(), path)
	if err != nil {
		return err
	}

	return render(console, "build-config", path, start, bc,
		func(w io.Writer) {
			rows := make([][]any, 0, len(bc.Files))
			for _, f := range bc.Files {
				rows = append(rows, []any{
					f.Kind.String(),
					relativeTo(bc.Root, f.Path),
					bc.Summary.Depths[f.Path],
					relativeTo(bc.Root, f.ParentPath),
					f.Properties.Len(),
					len(f.AffectedProjects),
				})
			}
			output.RenderTable(w, []string{"Kind", "Path", "Depth", "Parent", "Properties", "Projects"}, rows)
		},
		func() { printBuildConfig(console, bc, opts) })
}

func printBuildConfig(console *output.Console, bc *analysis.BuildConfiguration, opts *buildConfigOptions) {
	console.Header("Build configuration under %s", bc.Root)
	console.Info("%s, %s, %s (max depth %d)",
		plural(bc.Summary.BuildPropsFiles, "Directory.Build.props file"),
		plural(bc.Summary.BuildTargetsFiles, "Directory.Build.targets file"),
		plural(bc.Summary.PackagesPropsFiles, "Directory.Packages.props file"),
		bc.Summary.MaxDepth)

	for _, kind := range []buildconfig.Kind{buildconfig.KindBuildProps, buildconfig.KindBuildTargets, buildconfig.KindPackagesProps} {
		var files []*buildconfig.ConfigFile
		for _, f := range bc.Files {
			if f.Kind == kind {
				files = append(files, f)
			}
		}
		if len(files) == 0 {
			continue
		}

		console.Println()
		console.Styled(output.ColorInfo, "%s", kind.FileName())
		for _, f := range files {
			line := "  " + relativeTo(bc.Root, f.Path)
			if f.ParentPath != "" {
				line += "  (parent: " + relativeTo(bc.Root, f.ParentPath)
				if f.ImportsParent {
					line += ", imported"
				}
				line += ")"
			}
			console.Println(line)
			console.Detail("    applies to %s", plural(len(f.AffectedProjects), "project"))

			if opts.properties {
				bc.Effective[f.Path].Each(func(name, value string) {
					console.Printf("    %s = %s\n", name, value)
				})
			}
		}
	}

	if len(bc.Projects) > 0 {
		console.Println()
		console.Styled(output.ColorInfo, "Projects")
		for _, p := range bc.Projects {
			console.Println("  " + relativeTo(bc.Root, p.ProjectPath))
			printNearest(console, bc.Root, "props", p.BuildProps)
			printNearest(console, bc.Root, "targets", p.BuildTargets)
			printNearest(console, bc.Root, "packages", p.PackagesProps)
		}
	}
}

func printNearest(console *output.Console, root, label, path string) {
	if path == "" {
		return
	}
	console.Printf("    %-8s %s\n", label+":", relativeTo(root, path))
}
