package sources

import (
	"fmt"
	"strings"
)

// Scope is the level a NuGet.Config file applies at.
type Scope int

const (
	ScopeMachineWide Scope = iota
	ScopeUserProfile
	ScopeSolutionLocal
)

// String implements fmt.Stringer.
func (s Scope) String() string {
	switch s {
	case ScopeMachineWide:
		return "MachineWide"
	case ScopeUserProfile:
		return "UserProfile"
	case ScopeSolutionLocal:
		return "SolutionLocal"
	default:
		return fmt.Sprintf("Scope(%d)", int(s))
	}
}

// MarshalText renders the scope name.
func (s Scope) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// closeness ranks scopes for ordering: lower is closer to the solution.
func (s Scope) closeness() int {
	return int(ScopeSolutionLocal - s)
}

// Feed types derived from a source URL.
const (
	FeedNuGetOrg       = "nuget.org"
	FeedAzureArtifacts = "azure-artifacts"
	FeedBaGet          = "baget"
	FeedPrivate        = "private"
	FeedLocal          = "local"
)

// PackageSource is a package source declared in a NuGet.Config file.
type PackageSource struct {
	Name            string `json:"name"`
	URL             string `json:"url"`
	Enabled         bool   `json:"enabled"`
	Scope           Scope  `json:"scope"`
	ConfigPath      string `json:"configPath"`
	Priority        int    `json:"priority"`
	ProtocolVersion string `json:"protocolVersion,omitempty"`
}

// IsLocal reports a folder or file share source.
func (s PackageSource) IsLocal() bool {
	u := strings.ToLower(s.URL)
	return !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://")
}

// IsPrivate reports any source not hosted on nuget.org.
func (s PackageSource) IsPrivate() bool {
	return !strings.Contains(strings.ToLower(s.URL), "nuget.org")
}

// IsAzureArtifacts reports an Azure Artifacts feed.
func (s PackageSource) IsAzureArtifacts() bool {
	u := strings.ToLower(s.URL)
	return strings.Contains(u, "pkgs.visualstudio.com") ||
		strings.Contains(u, "pkgs.dev.azure.com") ||
		strings.Contains(u, "azure.com/_packaging")
}

// IsSelfHosted reports a private V3 feed such as BaGet.
func (s PackageSource) IsSelfHosted() bool {
	return s.IsPrivate() && !s.IsLocal() && !s.IsAzureArtifacts() &&
		strings.Contains(strings.ToLower(s.URL), "/v3/index.json")
}

// FeedType classifies the source by URL.
func (s PackageSource) FeedType() string {
	switch {
	case !s.IsPrivate():
		return FeedNuGetOrg
	case s.IsLocal():
		return FeedLocal
	case s.IsAzureArtifacts():
		return FeedAzureArtifacts
	case s.IsSelfHosted():
		return FeedBaGet
	default:
		return FeedPrivate
	}
}

// Identifier is "name@scope".
func (s PackageSource) Identifier() string {
	return s.Name + "@" + s.Scope.String()
}
