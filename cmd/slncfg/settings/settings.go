// Package settings loads slncfg CLI configuration from defaults, a
// .slncfg.yaml file, SLNCFG_* environment variables and command-line flags.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/willibrandon/slncfg/analysis"
	"github.com/willibrandon/slncfg/observability"
	"github.com/willibrandon/slncfg/sources"
	"github.com/willibrandon/slncfg/workspace"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SLNCFG_"

// maxUpwardSearchLevels limits how far up the directory tree Load looks for a settings file.
const maxUpwardSearchLevels = 10

// FileNames are the settings file names looked up in each directory.
var FileNames = []string{".slncfg.yaml", ".slncfg.yml"}

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
	FormatTable   = "table"
)

// Settings holds every CLI option after all sources are merged.
type Settings struct {
	Workspace   string        `koanf:"workspace"`
	Exclude     []string      `koanf:"exclude"`
	Jobs        int           `koanf:"jobs"`
	Format      string        `koanf:"format"`
	Verbosity   string        `koanf:"verbosity"`
	MetricsAddr string        `koanf:"metrics_addr"`
	NuGet       NuGetSettings `koanf:"nuget"`
	Trace       TraceSettings `koanf:"trace"`

	// File is the settings file that was loaded, if any.
	File string `koanf:"-"`
}

// NuGetSettings overrides the machine-wide and user-profile NuGet.Config paths.
type NuGetSettings struct {
	MachineConfig string `koanf:"machine_config"`
	UserConfig    string `koanf:"user_config"`
}

// TraceSettings selects the OpenTelemetry exporter.
type TraceSettings struct {
	Exporter string `koanf:"exporter"`
	Endpoint string `koanf:"endpoint"`
}

// flagKeys maps flags whose name does not follow the kebab to snake rule.
var flagKeys = map[string]string{
	"nuget-machine-config": "nuget.machine_config",
	"nuget-user-config":    "nuget.user_config",
	"trace":                "trace.exporter",
	"trace-endpoint":       "trace.endpoint",
}

// sections are the nested keys an environment variable can address.
var sections = []string{"nuget", "trace"}

// Default returns the settings used when nothing overrides them.
func Default() *Settings {
	return &Settings{
		Exclude:   append([]string(nil), workspace.DefaultExcludes...),
		Jobs:      analysis.DefaultJobs,
		Format:    FormatConsole,
		Verbosity: "normal",
		Trace:     TraceSettings{Exporter: "none", Endpoint: "localhost:4317"},
	}
}

func defaults() map[string]any {
	d := Default()
	return map[string]any{
		"workspace":      d.Workspace,
		"exclude":        d.Exclude,
		"jobs":           d.Jobs,
		"format":         d.Format,
		"verbosity":      d.Verbosity,
		"metrics_addr":   d.MetricsAddr,
		"trace.exporter": d.Trace.Exporter,
		"trace.endpoint": d.Trace.Endpoint,
	}
}

// Load merges, lowest to highest precedence: defaults, the settings file,
// SLNCFG_* environment variables and flags the user changed. explicit names
// the settings file; when empty, startDir and its ancestors are searched.
// An empty startDir skips the search.
func Load(explicit, startDir string, flags *pflag.FlagSet) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path := explicit
	if path == "" && startDir != "" {
		path = FindFile(startDir)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading settings file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			if key, ok := flagKeys[f.Name]; ok {
				return key, posflag.FlagVal(flags, f)
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}
	s.File = path

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// envKey turns SLNCFG_NUGET_USER_CONFIG into nuget.user_config. A comma
// separated SLNCFG_EXCLUDE becomes a list.
func envKey(name, value string) (string, any) {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	for _, section := range sections {
		if strings.HasPrefix(key, section+"_") {
			key = section + "." + strings.TrimPrefix(key, section+"_")
			break
		}
	}
	if key == "exclude" {
		return key, splitList(value)
	}
	return key, value
}

func splitList(value string) []string {
	items := []string{}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// FindFile searches dir and up to ten ancestors for a settings file.
func FindFile(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	for i := 0; i < maxUpwardSearchLevels; i++ {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// Validate rejects unknown formats, exporters and verbosities.
func (s *Settings) Validate() error {
	switch s.Format {
	case FormatConsole, FormatJSON, FormatTable:
	default:
		return fmt.Errorf("invalid format %q: must be console, json or table", s.Format)
	}
	switch s.Trace.Exporter {
	case "none", "stdout", "otlp":
	default:
		return fmt.Errorf("invalid trace exporter %q: must be none, stdout or otlp", s.Trace.Exporter)
	}
	if _, err := observability.ParseLogLevel(s.Verbosity); err != nil {
		return fmt.Errorf("invalid verbosity: %w", err)
	}
	if s.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", s.Jobs)
	}
	return nil
}

// AnalysisOptions converts the settings into service options. Empty NuGet
// overrides fall back to the platform's default locations.
func (s *Settings) AnalysisOptions() analysis.Options {
	opts := analysis.Options{
		WorkspaceRoot: s.Workspace,
		Exclude:       s.Exclude,
		Jobs:          s.Jobs,
	}
	if opts.WorkspaceRoot != "" {
		if abs, err := filepath.Abs(opts.WorkspaceRoot); err == nil {
			opts.WorkspaceRoot = abs
		}
	}
	if s.NuGet.MachineConfig != "" || s.NuGet.UserConfig != "" {
		locations := sources.DefaultLocations()
		if s.NuGet.MachineConfig != "" {
			locations.MachineWide = s.NuGet.MachineConfig
		}
		if s.NuGet.UserConfig != "" {
			locations.UserProfile = s.NuGet.UserConfig
		}
		opts.Locations = &locations
	}
	return opts
}

// TracerConfig builds the tracer configuration for version.
func (s *Settings) TracerConfig(version string) observability.TracerConfig {
	cfg := observability.DefaultTracerConfig()
	cfg.ServiceVersion = version
	cfg.ExporterType = s.Trace.Exporter
	if s.Trace.Endpoint != "" {
		cfg.OTLPEndpoint = s.Trace.Endpoint
	}
	return cfg
}

// RegisterFlags declares the flags Load reads on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("config", "", "Settings file (default: .slncfg.yaml in the current directory or a parent)")
	fs.String("workspace", "", "Root searched for Directory.Build.* and Directory.Packages.props files (default: the solution directory)")
	fs.StringSlice("exclude", d.Exclude, "Directory names skipped while searching")
	fs.IntP("jobs", "j", d.Jobs, "Maximum number of project files parsed in parallel")
	fs.StringP("format", "f", d.Format, "Output format: console, json or table")
	fs.StringP("verbosity", "v", d.Verbosity, "Log verbosity: quiet, minimal, normal, detailed or diagnostic")
	fs.String("metrics-addr", "", "Serve Prometheus metrics on this address while the command runs")
	fs.String("nuget-machine-config", "", "Machine-wide NuGet.Config to use instead of the platform default")
	fs.String("nuget-user-config", "", "User-profile NuGet.Config to use instead of the platform default")
	fs.String("trace", d.Trace.Exporter, "Trace exporter: none, stdout or otlp")
	fs.String("trace-endpoint", d.Trace.Endpoint, "OTLP collector endpoint")
}
