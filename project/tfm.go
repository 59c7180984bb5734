package project

import (
	"fmt"
	"strconv"
	"strings"
)

// Framework families reported for a target framework moniker.
const (
	FamilyNet          = ".NET"
	FamilyNetCoreApp   = ".NETCoreApp"
	FamilyNetStandard  = ".NETStandard"
	FamilyNetFramework = ".NETFramework"
	FamilyUnknown      = "Unknown"
)

// Moniker is a parsed target framework moniker such as "net8.0-windows".
type Moniker struct {
	Original string `json:"original"`
	Family   string `json:"family"`
	Version  string `json:"version,omitempty"`
	Platform string `json:"platform,omitempty"`
}

// IsLegacy reports a .NET Framework moniker.
func (m Moniker) IsLegacy() bool {
	return m.Family == FamilyNetFramework
}

// ParseMoniker classifies tfm. Unrecognized monikers yield FamilyUnknown and
// an error; the original string is always kept.
func ParseMoniker(tfm string) (Moniker, error) {
	tfm = strings.TrimSpace(tfm)
	m := Moniker{Original: tfm, Family: FamilyUnknown}
	if tfm == "" {
		return m, fmt.Errorf("framework string cannot be empty")
	}

	lower := strings.ToLower(tfm)
	frameworkPart, platform, _ := strings.Cut(lower, "-")
	m.Platform = platform

	switch {
	case strings.HasPrefix(frameworkPart, "netstandard"):
		m.Family = FamilyNetStandard
		m.Version = strings.TrimPrefix(frameworkPart, "netstandard")
	case strings.HasPrefix(frameworkPart, "netcoreapp"):
		m.Family = FamilyNetCoreApp
		m.Version = strings.TrimPrefix(frameworkPart, "netcoreapp")
	case strings.HasPrefix(frameworkPart, "net"):
		v := strings.TrimPrefix(frameworkPart, "net")
		if strings.Contains(v, ".") {
			major, err := strconv.Atoi(strings.SplitN(v, ".", 2)[0])
			if err != nil {
				return m, fmt.Errorf("invalid framework version: %s", v)
			}
			m.Family = FamilyNet
			if major < 5 {
				m.Family = FamilyNetCoreApp
			}
			m.Version = v
			break
		}
		// Compact .NET Framework versions: "48" = 4.8, "472" = 4.7.2.
		if len(v) < 2 || len(v) > 3 {
			return m, fmt.Errorf("invalid framework version: %s", v)
		}
		if _, err := strconv.Atoi(v); err != nil {
			return m, fmt.Errorf("invalid framework version: %s", v)
		}
		m.Family = FamilyNetFramework
		m.Version = strings.Join(strings.Split(v, ""), ".")
	default:
		return m, fmt.Errorf("unrecognized framework: %s", tfm)
	}

	if m.Version == "" {
		m.Family = FamilyUnknown
		return m, fmt.Errorf("missing framework version: %s", tfm)
	}
	return m, nil
}

// FromFrameworkVersion maps a legacy TargetFrameworkVersion such as "v4.8.1"
// to its moniker "net481".
func FromFrameworkVersion(version string) (string, bool) {
	v := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(version), "v"), "V")
	if v == "" {
		return "", false
	}
	parts := strings.Split(v, ".")
	for _, p := range parts {
		if _, err := strconv.Atoi(p); err != nil {
			return "", false
		}
	}
	if len(parts) == 1 {
		parts = append(parts, "0")
	}
	return "net" + strings.Join(parts, ""), true
}
