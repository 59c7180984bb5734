package commands

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/willibrandon/slncfg/cmd/slncfg/cli"
	"github.com/willibrandon/slncfg/cmd/slncfg/output"
	"github.com/willibrandon/slncfg/solution"
)

// NewSolutionsCommand creates the solutions command
func NewSolutionsCommand(console *output.Console) *cobra.Command {
	return &cobra.Command{
		Use:   "solutions [directory]",
		Short: "Find solution files",
		Long: `Find .sln and .slnx files below a directory (default: the current
directory), skipping bin, obj and other excluded directories.

Examples:
  slncfg solutions
  slncfg solutions ./repo --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runSolutions(cmd, console, dir)
		},
	}
}

func runSolutions(cmd *cobra.Command, console *output.Console, dir string) error {
	start := time.Now()
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		return err
	}

	found, err := cli.NewService().FindSolutions(cmd.Context(), abs)
	if err != nil {
		return err
	}
	if found == nil {
		found = []solution.Detected{}
	}

	return render(console, "solutions", abs, start, found,
		func(w io.Writer) {
			rows := make([][]any, 0, len(found))
			for _, d := range found {
				rows = append(rows, []any{d.Name, d.Format, d.Valid, relativeTo(abs, d.Path)})
			}
			output.RenderTable(w, []string{"Name", "Format", "Valid", "Path"}, rows)
		},
		func() {
			if len(found) == 0 {
				console.Info("No solution files found in %s", abs)
				return
			}
			console.Info("Found %s in %s:", plural(len(found), "solution"), abs)
			for _, d := range found {
				line := "  " + d.Name + " (" + string(d.Format) + ")  " + relativeTo(abs, d.Path)
				if d.Valid {
					console.Println(line)
				} else {
					console.Styled(output.ColorWarning, "%s  [invalid]", line)
				}
			}
		})
}
