package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/willibrandon/slncfg/analysis"
	"github.com/willibrandon/slncfg/cmd/slncfg/cli"
	"github.com/willibrandon/slncfg/cmd/slncfg/output"
	"github.com/willibrandon/slncfg/cmd/slncfg/settings"
)

// resolveSolution picks the solution a command analyzes. A file argument is
// used as given. A directory argument, or the working directory when there
// is none, must hold exactly one solution; solutions directly in it are
// preferred over nested ones.
func resolveSolution(ctx context.Context, svc *analysis.Service, args []string) (string, error) {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", target, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cannot access %s: %w", target, err)
	}
	if !info.IsDir() {
		return abs, nil
	}

	found, err := svc.FindSolutions(ctx, abs)
	if err != nil {
		return "", err
	}

	var top []string
	var all []string
	for _, d := range found {
		all = append(all, d.Path)
		if filepath.Dir(d.Path) == abs {
			top = append(top, d.Path)
		}
	}
	candidates := top
	if len(candidates) == 0 {
		candidates = all
	}

	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("no solution file found in %s", abs)
	case 1:
		return candidates[0], nil
	default:
		return "", fmt.Errorf("multiple solution files found in %s; specify one of: %s", abs, strings.Join(candidates, ", "))
	}
}

// render writes result in the active format. JSON wraps it in an envelope;
// table and console output are produced by the callbacks.
func render(console *output.Console, command, target string, start time.Time, result any, table func(w io.Writer), text func()) error {
	switch cli.Settings().Format {
	case settings.FormatJSON:
		return output.WriteJSON(console.Out(), output.NewEnvelope(command, target, result, start))
	case settings.FormatTable:
		table(console.Out())
	default:
		text()
	}
	return nil
}

// relativeTo shortens path for display when it lies under base.
func relativeTo(base, path string) string {
	if base == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func dirOf(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Dir(path)
}
