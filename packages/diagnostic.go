package packages

import "fmt"

// Severity grades a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

// String implements fmt.Stringer.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "Error"
	case SeverityWarning:
		return "Warning"
	case SeverityInfo:
		return "Info"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// MarshalText renders the severity name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Diagnostic is one finding about package management. It is a value; copies
// are independent.
type Diagnostic struct {
	Severity    Severity `json:"severity"`
	Message     string   `json:"message"`
	PackageName string   `json:"packageName,omitempty"`
	ProjectPath string   `json:"projectPath,omitempty"`
	FilePath    string   `json:"filePath,omitempty"`
}

// String renders "Severity: message".
func (d Diagnostic) String() string {
	return d.Severity.String() + ": " + d.Message
}

// ManagementMode describes how package versions are governed.
type ManagementMode string

const (
	// ModeLocal means versions live on each reference or in packages.config.
	ModeLocal ManagementMode = "Local"
	// ModeCentral means every reference takes its version from Directory.Packages.props.
	ModeCentral ManagementMode = "Central"
	// ModeMixed means both styles are in use.
	ModeMixed ManagementMode = "Mixed"
)
