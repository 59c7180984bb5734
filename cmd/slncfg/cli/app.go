package cli

import (
	"context"
	"os"
	"sync"

	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/willibrandon/slncfg/analysis"
	"github.com/willibrandon/slncfg/cmd/slncfg/output"
	"github.com/willibrandon/slncfg/cmd/slncfg/settings"
	"github.com/willibrandon/slncfg/observability"
	"github.com/willibrandon/slncfg/workspace"
)

var rootCmd = &cobra.Command{
	Use:   "slncfg",
	Short: ".NET solution configuration inspector",
	Long: `slncfg explains how a .NET solution is configured: its project tree,
the Directory.Build.props/.targets and Directory.Packages.props files that
apply to each project, resolved target frameworks, package management
diagnostics and the NuGet package sources in effect.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Console is the global console for CLI commands
var Console *output.Console

var (
	mu       sync.Mutex
	current  *settings.Settings
	logger   observability.Logger
	provider *sdktrace.TracerProvider
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	Console = output.DefaultConsole()
	settings.RegisterFlags(rootCmd.PersistentFlags())
}

// SetupVersion configures version information after variables are set
func SetupVersion() {
	rootCmd.SetVersionTemplate(GetFullVersion() + "\n")
	rootCmd.Version = GetVersion()
}

// AddCommand adds a command to the root command
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

func setup(cmd *cobra.Command, _ []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cwd, err := os.Getwd()
	if err != nil {
		cwd = ""
	}

	s, err := settings.Load(configFile, cwd, cmd.Flags())
	if err != nil {
		return err
	}
	Configure(s)

	log := Logger()
	if s.File != "" {
		log.Debug("Loaded settings from {Path}", s.File)
	}

	if s.Trace.Exporter != "none" {
		tp, err := observability.SetupTracing(cmd.Context(), s.TracerConfig(Version))
		if err != nil {
			return err
		}
		mu.Lock()
		provider = tp
		mu.Unlock()
	}

	if s.MetricsAddr != "" {
		go func(addr string) {
			if err := observability.StartMetricsServer(addr); err != nil {
				log.Warn("Metrics server on {Address} stopped: {Error}", addr, err)
			}
		}(s.MetricsAddr)
	}
	return nil
}

func teardown(cmd *cobra.Command, _ []string) error {
	mu.Lock()
	tp := provider
	provider = nil
	mu.Unlock()

	if tp == nil {
		return nil
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return observability.ShutdownTracing(ctx, tp)
}

// Configure installs s as the active settings and rebuilds the logger and
// console verbosity from it. Logs go to stderr.
func Configure(s *settings.Settings) {
	level, err := observability.ParseLogLevel(s.Verbosity)
	if err != nil {
		level = observability.WarnLevel
	}

	mu.Lock()
	defer mu.Unlock()
	current = s
	logger = observability.NewLogger(os.Stderr, level)
	Console.SetVerbosity(output.ParseVerbosity(s.Verbosity))
}

// Settings returns the active settings, or the defaults before Configure.
func Settings() *settings.Settings {
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		return settings.Default()
	}
	return current
}

// Logger returns the CLI logger, or a null logger before Configure.
func Logger() observability.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		return observability.NewNullLogger()
	}
	return logger
}

// NewService creates an analysis service reading the local file system with
// the active settings.
func NewService() *analysis.Service {
	return analysis.NewService(workspace.NewOSFileSystem(), Settings().AnalysisOptions(), Logger())
}
