package commands

import (
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/willibrandon/slncfg/analysis"
	"github.com/willibrandon/slncfg/cmd/slncfg/cli"
	"github.com/willibrandon/slncfg/cmd/slncfg/output"
)

// NewStructureCommand creates the structure command
func NewStructureCommand(console *output.Console) *cobra.Command {
	return &cobra.Command{
		Use:   "structure [solution]",
		Short: "Show the folder and project tree of a solution",
		Long: `Show the solution folders and projects as a tree, together with the
global.json SDK pin and whether central package management applies.

The argument is a .sln or .slnx file, or a directory holding exactly one.

Examples:
  slncfg structure
  slncfg structure App.slnx --format table`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStructure(cmd, console, args)
		},
	}
}

func runStructure(cmd *cobra.Command, console *output.Console, args []string) error {
	start := time.Now()
	svc := cli.NewService()
	path, err := resolveSolution(cmd.Context(), svc, args)
	if err != nil {
		return err
	}

	st, err := svc.SolutionStructure(cmd.Context(), path)
	if err != nil {
		return err
	}

	return render(console, "structure", path, start, st,
		func(w io.Writer) {
			var rows [][]any
			walkNodes(st.Roots, 0, func(n analysis.Node, depth int) {
				rows = append(rows, []any{strings.Repeat("  ", depth) + n.Name, n.Kind, relativeTo(dirOf(st.Path), n.Path)})
			})
			output.RenderTable(w, []string{"Name", "Kind", "Path"}, rows)
		},
		func() { printStructure(console, st) })
}

func printStructure(console *output.Console, st *analysis.Structure) {
	console.Header("%s (%s)", st.Name, st.Format)
	if st.VisualStudioVersion != "" {
		console.Detail("Visual Studio %s", st.VisualStudioVersion)
	}
	console.Info("%s, %s", plural(st.ProjectCount, "project"), plural(st.FolderCount, "folder"))

	walkNodes(st.Roots, 0, func(n analysis.Node, depth int) {
		indent := strings.Repeat("  ", depth+1)
		if n.Kind == "folder" {
			console.Styled(output.ColorInfo, "%s%s/", indent, n.Name)
			for _, f := range n.Files {
				console.Detail("%s  %s", indent, f)
			}
			return
		}
		console.Printf("%s%s  %s\n", indent, n.Name, relativeTo(dirOf(st.Path), n.Path))
	})

	if st.CentrallyManaged {
		console.Info("Central package management: enabled (%s)", st.PackagesPropsPath)
	} else {
		console.Info("Central package management: not enabled")
	}
	if st.GlobalJSON != nil && st.GlobalJSON.SDK.Version != "" {
		sdk := st.GlobalJSON.SDK.Version
		if st.GlobalJSON.SDK.RollForward != "" {
			sdk += " (rollForward: " + st.GlobalJSON.SDK.RollForward + ")"
		}
		console.Info("SDK: %s", sdk)
	}
}

func walkNodes(nodes []analysis.Node, depth int, fn func(n analysis.Node, depth int)) {
	for _, n := range nodes {
		fn(n, depth)
		walkNodes(n.Children, depth+1, fn)
	}
}
