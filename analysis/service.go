// Package analysis answers solution-level questions by building a fresh
// configuration model for every request: solution structure, hierarchical
// build files, target frameworks, package management and package sources.
package analysis

import (
	"context"
	"errors"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/willibrandon/slncfg/buildconfig"
	"github.com/willibrandon/slncfg/observability"
	"github.com/willibrandon/slncfg/project"
	"github.com/willibrandon/slncfg/solution"
	"github.com/willibrandon/slncfg/sources"
	"github.com/willibrandon/slncfg/workspace"
)

// DefaultJobs bounds how many project files are parsed at once.
const DefaultJobs = 8

// Options configures a Service.
type Options struct {
	// WorkspaceRoot is searched for hierarchical build files and bounds the
	// search. When empty, the solution's directory is searched and the
	// directories above it and above each project are checked too.
	WorkspaceRoot string

	// Exclude lists directory names skipped while listing files.
	Exclude []string

	// Jobs bounds parallel project parsing.
	Jobs int

	// Locations overrides the machine-wide and user-profile NuGet.Config paths.
	Locations *sources.Locations
}

// Service runs analysis requests. It keeps no state between calls.
type Service struct {
	fsys   workspace.FileSystem
	opts   Options
	logger observability.Logger
}

// NewService creates a service reading through fsys.
func NewService(fsys workspace.FileSystem, opts Options, logger observability.Logger) *Service {
	if logger == nil {
		logger = observability.NewNullLogger()
	}
	logger = logger.ForContext("Component", "analysis")
	if opts.Exclude == nil {
		opts.Exclude = workspace.DefaultExcludes
	}
	if opts.Jobs <= 0 {
		opts.Jobs = DefaultJobs
	}
	return &Service{fsys: fsys, opts: opts, logger: logger}
}

// model is the per-request snapshot shared by the operations.
type model struct {
	solution  *solution.Solution
	root      string
	hierarchy *buildconfig.Hierarchy

	// projects holds one slot per solution project path; nil when the file
	// could not be read or parsed.
	paths    []string
	projects []*project.File
}

// loadSolution parses the solution. A malformed container is logged and
// yields an empty solution; an unsupported extension is returned.
func (s *Service) loadSolution(path string) (*solution.Solution, error) {
	sol, err := solution.ParseSolution(s.fsys, path)
	if err == nil {
		return sol, nil
	}

	var unsupported *solution.UnsupportedFormatError
	if errors.As(err, &unsupported) {
		return nil, err
	}

	s.logger.Warn("Failed to parse solution {Path}: {Error}", path, err)
	abs, absErr := filepath.Abs(path)
	if absErr != nil {
		abs = path
	}
	return solution.Empty(abs), nil
}

// load builds the full model for solutionPath.
func (s *Service) load(ctx context.Context, solutionPath string, withProjects bool) (*model, error) {
	sol, err := s.loadSolution(solutionPath)
	if err != nil {
		return nil, err
	}

	m := &model{solution: sol, root: s.opts.WorkspaceRoot, paths: sol.ProjectPaths()}
	var h *buildconfig.Hierarchy
	if m.root != "" {
		h, err = buildconfig.Discover(ctx, s.fsys, m.root, s.opts.Exclude)
	} else {
		m.root = sol.Dir
		anchors := make([]string, 0, len(m.paths))
		for _, p := range m.paths {
			anchors = append(anchors, filepath.Dir(p))
		}
		h, err = buildconfig.DiscoverWithAncestors(ctx, s.fsys, m.root, s.opts.Exclude, anchors)
	}
	if err != nil {
		return nil, err
	}
	h.Load(s.fsys, s.logger)
	h.MapAffectedProjects(m.paths)
	m.hierarchy = h
	observability.SetAttributes(ctx,
		observability.AttrWorkspaceRoot.String(m.root),
		observability.AttrProjectCount.Int(len(m.paths)),
		observability.AttrConfigFiles.Int(len(h.Files())),
	)

	if withProjects {
		m.projects = s.parseProjects(ctx, m.paths)
	}
	return m, nil
}

// parseProjects parses every project concurrently into its own slot. A
// failure affects only that slot.
func (s *Service) parseProjects(ctx context.Context, paths []string) []*project.File {
	files := make([]*project.File, len(paths))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Jobs)
	for i, path := range paths {
		g.Go(func() error {
			f, err := project.Load(s.fsys, path)
			if err != nil {
				s.logger.Warn("Skipping project {Path}: {Error}", path, err)
				observability.RecordFileParse("project", observability.ResultParseError)
				return nil
			}
			observability.RecordFileParse("project", observability.ResultParsed)
			files[i] = f
			return nil
		})
	}
	_ = g.Wait()

	return files
}
