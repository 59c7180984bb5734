package sources

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/willibrandon/slncfg/workspace"
)

// ConfigFileNames are the accepted spellings of a solution-local config file.
var ConfigFileNames = []string{"NuGet.Config", "NuGet.config", "nuget.config"}

// Locations names the machine-wide and user-profile config files. An empty
// path disables that scope.
type Locations struct {
	MachineWide string `json:"machineWide,omitempty"`
	UserProfile string `json:"userProfile,omitempty"`
}

// DefaultLocations returns the platform's standard config file paths.
func DefaultLocations() Locations {
	var loc Locations

	switch runtime.GOOS {
	case "windows":
		programData := os.Getenv("ProgramData")
		if programData == "" {
			programData = `C:\ProgramData`
		}
		loc.MachineWide = filepath.Join(programData, "NuGet", "NuGet.Config")
	case "darwin":
		loc.MachineWide = "/Library/Application Support/NuGet/NuGet.Config"
	default:
		loc.MachineWide = "/etc/opt/NuGet/NuGet.Config"
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			loc.UserProfile = filepath.Join(appData, "NuGet", "NuGet.Config")
			return loc
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		loc.UserProfile = filepath.Join(home, ".nuget", "NuGet", "NuGet.Config")
	}
	return loc
}

// FindSolutionLocalConfigs walks from dir up to the filesystem root and
// returns every config file found, closest first.
func FindSolutionLocalConfigs(r workspace.FileReader, dir string) []string {
	var found []string
	for _, d := range workspace.Ancestors(dir) {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(d, name)
			if r.Exists(candidate) {
				found = append(found, candidate)
				break
			}
		}
	}
	return found
}
