package sources

import (
	"bytes"
	"sort"
	"strings"

	"github.com/willibrandon/slncfg/observability"
	"github.com/willibrandon/slncfg/workspace"
)

// ConfigFiles lists the config files that took part in a resolution.
type ConfigFiles struct {
	MachineWide string `json:"machineWide,omitempty"`
	UserProfile string `json:"userProfile,omitempty"`

	// SolutionLocal is ordered closest first.
	SolutionLocal []string `json:"solutionLocal"`
}

// Resolution is the effective package source configuration of a solution.
type Resolution struct {
	// Sources holds the enabled sources ordered by priority, then by scope
	// closeness.
	Sources []PackageSource `json:"sources"`

	// Declared holds every parsed source per scope before merging.
	Declared map[Scope][]PackageSource `json:"declared"`

	Mappings    []*Mapping  `json:"mappings"`
	ConfigFiles ConfigFiles `json:"configFiles"`
}

// Resolver merges NuGet.Config files across scopes.
type Resolver struct {
	reader    workspace.FileReader
	locations Locations
	logger    observability.Logger
}

// NewResolver creates a resolver reading machine and user configs from
// locations.
func NewResolver(r workspace.FileReader, locations Locations, logger observability.Logger) *Resolver {
	if logger == nil {
		logger = observability.NewNullLogger()
	}
	return &Resolver{reader: r, locations: locations, logger: logger}
}

// layer is one config file in merge order.
type layer struct {
	path   string
	scope  Scope
	config *Config
}

// Resolve merges the configs that apply to solutionDir. Each scope fully
// replaces same-named sources from lower scopes; among solution-local files
// the closest one wins. Missing or malformed files contribute nothing.
func (r *Resolver) Resolve(solutionDir string) *Resolution {
	res := &Resolution{
		Sources:  []PackageSource{},
		Declared: map[Scope][]PackageSource{},
		Mappings: []*Mapping{},
		ConfigFiles: ConfigFiles{
			SolutionLocal: []string{},
		},
	}

	var layers []layer
	if c := r.load(r.locations.MachineWide); c != nil {
		res.ConfigFiles.MachineWide = r.locations.MachineWide
		layers = append(layers, layer{r.locations.MachineWide, ScopeMachineWide, c})
	}
	if c := r.load(r.locations.UserProfile); c != nil {
		res.ConfigFiles.UserProfile = r.locations.UserProfile
		layers = append(layers, layer{r.locations.UserProfile, ScopeUserProfile, c})
	}

	local := FindSolutionLocalConfigs(r.reader, solutionDir)
	var localLayers []layer
	for _, path := range local {
		if c := r.load(path); c != nil {
			res.ConfigFiles.SolutionLocal = append(res.ConfigFiles.SolutionLocal, path)
			localLayers = append(localLayers, layer{path, ScopeSolutionLocal, c})
		}
	}
	// Farthest first so that closer files override.
	for i := len(localLayers) - 1; i >= 0; i-- {
		layers = append(layers, localLayers[i])
	}

	res.Sources = r.merge(layers, res.Declared)

	for _, l := range localLayers {
		for _, m := range l.config.Mappings() {
			for _, name := range m.SourceNames {
				res.Mappings = addMapping(res.Mappings, m.Pattern, name)
			}
			if len(m.SourceNames) == 0 {
				res.Mappings = addMapping(res.Mappings, m.Pattern, "")
			}
		}
	}

	r.logger.Debug("Resolved {Count} package sources from {Files} config files", len(res.Sources), len(layers))
	return res
}

func (r *Resolver) merge(layers []layer, declared map[Scope][]PackageSource) []PackageSource {
	var order []string
	byName := make(map[string]PackageSource)
	disabled := make(map[string]bool)

	for _, l := range layers {
		if l.config.Clears() {
			order = nil
			byName = make(map[string]PackageSource)
			disabled = make(map[string]bool)
		}

		for _, src := range l.config.Sources(l.scope, l.path) {
			declared[l.scope] = append(declared[l.scope], src)
			key := strings.ToLower(src.Name)
			if _, seen := byName[key]; !seen {
				order = append(order, key)
			}
			byName[key] = src
			delete(disabled, key)
		}

		for _, name := range l.config.DisabledSources() {
			disabled[strings.ToLower(name)] = true
		}
	}

	merged := make([]PackageSource, 0, len(order))
	for _, key := range order {
		src := byName[key]
		if disabled[key] || !src.Enabled {
			continue
		}
		merged = append(merged, src)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Priority != merged[j].Priority {
			return merged[i].Priority < merged[j].Priority
		}
		return merged[i].Scope.closeness() < merged[j].Scope.closeness()
	})
	return merged
}

func (r *Resolver) load(path string) *Config {
	if path == "" || !r.reader.Exists(path) {
		return nil
	}

	data, err := r.reader.ReadFile(path)
	if err != nil {
		r.logger.Warn("Cannot read {Path}: {Error}", path, err)
		observability.RecordFileParse("NuGet.Config", observability.ResultReadError)
		return nil
	}

	config, err := ParseConfig(bytes.NewReader(data))
	if err != nil {
		r.logger.Warn("Ignoring malformed {Path}: {Error}", path, err)
		observability.RecordFileParse("NuGet.Config", observability.ResultParseError)
		return nil
	}

	observability.RecordFileParse("NuGet.Config", observability.ResultParsed)
	return config
}

// Source returns the merged source named name, compared case-insensitively.
func (res *Resolution) Source(name string) (PackageSource, bool) {
	for _, s := range res.Sources {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return PackageSource{}, false
}

// HasSource reports whether name is among the merged sources.
func (res *Resolution) HasSource(name string) bool {
	_, ok := res.Source(name)
	return ok
}

// PrivateSources returns the merged sources not hosted on nuget.org.
func (res *Resolution) PrivateSources() []PackageSource {
	var private []PackageSource
	for _, s := range res.Sources {
		if s.IsPrivate() {
			private = append(private, s)
		}
	}
	return private
}

// AllowedSources returns the source names packageID may be restored from.
// Without mapping rules every merged source is allowed. With rules, only the
// sources of matching rules are allowed, and none when no rule matches.
func (res *Resolution) AllowedSources(packageID string) []string {
	if len(res.Mappings) == 0 {
		names := make([]string, 0, len(res.Sources))
		for _, s := range res.Sources {
			names = append(names, s.Name)
		}
		return names
	}

	allowed := []string{}
	for _, m := range res.Mappings {
		if !m.Matches(packageID) {
			continue
		}
		for _, name := range m.SourceNames {
			if !containsFold(allowed, name) {
				allowed = append(allowed, name)
			}
		}
	}
	return allowed
}

// CanUseSource reports whether packageID may come from source.
func (res *Resolution) CanUseSource(packageID, source string) bool {
	return containsFold(res.AllowedSources(packageID), source)
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
