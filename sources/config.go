// Package sources resolves the NuGet package sources that apply to a
// solution by merging machine-wide, user-profile and solution-local
// NuGet.Config files, and evaluates package source mapping rules.
package sources

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/willibrandon/slncfg/workspace"
)

// Config is a parsed NuGet.Config file.
type Config struct {
	XMLName                xml.Name                `xml:"configuration"`
	PackageSources         *packageSources         `xml:"packageSources"`
	DisabledPackageSources *disabledPackageSources `xml:"disabledPackageSources"`
	PackageSourceMapping   *packageSourceMapping   `xml:"packageSourceMapping"`
}

// packageSources keeps <add> and <clear> children in document order.
type packageSources struct {
	Entries []sourceEntry `xml:",any"`
}

type sourceEntry struct {
	XMLName         xml.Name
	Key             string `xml:"key,attr"`
	Value           string `xml:"value,attr"`
	ProtocolVersion string `xml:"protocolVersion,attr"`
	Enabled         string `xml:"enabled,attr"`
	Priority        string `xml:"priority,attr"`
}

type disabledPackageSources struct {
	Add []disabledAdd `xml:"add"`
}

type disabledAdd struct {
	Key   string `xml:"key,attr"`
	Value string `xml:"value,attr"`
}

type packageSourceMapping struct {
	PackageSources []mappedSource `xml:"packageSource"`
}

type mappedSource struct {
	Key      string           `xml:"key,attr"`
	Packages []mappedPackages `xml:"package"`
}

type mappedPackages struct {
	Pattern string `xml:"pattern,attr"`
}

// ParseConfig parses NuGet.Config XML from a reader.
func ParseConfig(r io.Reader) (*Config, error) {
	var config Config
	if err := workspace.NewXMLDecoder(r).Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config XML: %w", err)
	}
	return &config, nil
}

// Clears reports whether packageSources contains a <clear />.
func (c *Config) Clears() bool {
	if c.PackageSources == nil {
		return false
	}
	for _, e := range c.PackageSources.Entries {
		if strings.EqualFold(e.XMLName.Local, "clear") {
			return true
		}
	}
	return false
}

// Sources returns the <add> entries of packageSources that follow the last
// <clear />, tagged with the scope and path they were declared in. Entries
// without a key or value are skipped.
func (c *Config) Sources(scope Scope, configPath string) []PackageSource {
	if c.PackageSources == nil {
		return nil
	}

	var sources []PackageSource
	for _, add := range c.PackageSources.Entries {
		switch strings.ToLower(add.XMLName.Local) {
		case "clear":
			sources = nil
			continue
		case "add":
		default:
			continue
		}
		name := strings.TrimSpace(add.Key)
		url := strings.TrimSpace(add.Value)
		if name == "" || url == "" {
			continue
		}
		priority, err := strconv.Atoi(strings.TrimSpace(add.Priority))
		if err != nil {
			priority = 0
		}
		sources = append(sources, PackageSource{
			Name:            name,
			URL:             url,
			Enabled:         !strings.EqualFold(strings.TrimSpace(add.Enabled), "false"),
			Scope:           scope,
			ConfigPath:      configPath,
			Priority:        priority,
			ProtocolVersion: strings.TrimSpace(add.ProtocolVersion),
		})
	}
	return sources
}

// DisabledSources returns the keys listed with value "true" under
// disabledPackageSources.
func (c *Config) DisabledSources() []string {
	if c.DisabledPackageSources == nil {
		return nil
	}

	var keys []string
	for _, add := range c.DisabledPackageSources.Add {
		key := strings.TrimSpace(add.Key)
		if key != "" && strings.EqualFold(strings.TrimSpace(add.Value), "true") {
			keys = append(keys, key)
		}
	}
	return keys
}

// Mappings returns the packageSourceMapping rules, one per distinct pattern,
// in first-seen order.
func (c *Config) Mappings() []*Mapping {
	if c.PackageSourceMapping == nil {
		return nil
	}

	var mappings []*Mapping
	for _, src := range c.PackageSourceMapping.PackageSources {
		for _, pkg := range src.Packages {
			mappings = addMapping(mappings, pkg.Pattern, src.Key)
		}
	}
	return mappings
}
