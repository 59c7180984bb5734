package commands

import (
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/willibrandon/slncfg/cmd/slncfg/cli"
	"github.com/willibrandon/slncfg/cmd/slncfg/output"
	"github.com/willibrandon/slncfg/project"
)

// NewFrameworksCommand creates the frameworks command
func NewFrameworksCommand(console *output.Console) *cobra.Command {
	return &cobra.Command{
		Use:   "frameworks [solution]",
		Short: "Resolve the target frameworks of every project",
		Long: `Resolve each project's target frameworks. A declaration in the project
file wins over Directory.Build.targets, which wins over
Directory.Build.props. $(Property) references are substituted from the
applicable files.

Examples:
  slncfg frameworks
  slncfg frameworks App.sln --format table`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFrameworks(cmd, console, args)
		},
	}
}

func runFrameworks(cmd *cobra.Command, console *output.Console, args []string) error {
	start := time.Now()
	svc := cli.NewService()
	path, err := resolveSolution(cmd.Context(), svc, args)
	if err != nil {
		return err
	}

	result, err := svc.ProjectFrameworks(cmd.Context(), path)
	if err != nil {
		return err
	}
	base := dirOf(path)

	return render(console, "frameworks", path, start, result,
		func(w io.Writer) {
			rows := make([][]any, 0, len(result))
			for _, fw := range result {
				rows = append(rows, []any{
					fw.ProjectName,
					string(fw.Style),
					strings.Join(fw.TargetFrameworks, ";"),
					fw.Primary,
					fw.PrimaryFamily(),
					string(fw.Source),
				})
			}
			output.RenderTable(w, []string{"Project", "Style", "Frameworks", "Primary", "Family", "Source"}, rows)
		},
		func() {
			if len(result) == 0 {
				console.Info("No projects found in %s", path)
				return
			}
			for _, fw := range result {
				if fw.Source == project.SourceNotFound {
					console.Styled(output.ColorWarning, "%s: %s (%s)", fw.ProjectName, fw.Primary, fw.Source)
					continue
				}
				frameworks := strings.Join(fw.TargetFrameworks, ", ")
				console.Printf("%s: %s (%s)\n", fw.ProjectName, frameworks, fw.Source)
				if fw.SourcePath != "" {
					console.Detail("  declared in %s", relativeTo(base, fw.SourcePath))
				}
				console.Detail("  %s project %s", fw.Style, relativeTo(base, fw.ProjectPath))
				if fw.NetFramework {
					console.Detail("  targets .NET Framework")
				}
			}
		})
}
