package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Verbosity levels
type Verbosity int

const (
	// VerbosityQuiet shows results and errors only
	VerbosityQuiet Verbosity = iota
	// VerbosityMinimal adds warnings
	VerbosityMinimal
	// VerbosityNormal adds informational messages (default)
	VerbosityNormal
	// VerbosityDetailed adds per-file details
	VerbosityDetailed
	// VerbosityDiagnostic adds debug messages
	VerbosityDiagnostic
)

// ParseVerbosity maps a dotnet-style verbosity name to a Verbosity.
// Unknown names map to VerbosityNormal.
func ParseVerbosity(name string) Verbosity {
	switch strings.ToLower(name) {
	case "quiet", "q":
		return VerbosityQuiet
	case "minimal", "m":
		return VerbosityMinimal
	case "detailed", "d":
		return VerbosityDetailed
	case "diagnostic", "diag":
		return VerbosityDiagnostic
	default:
		return VerbosityNormal
	}
}

// Console writes results to out and errors to err. Results are always
// written; messages are filtered by verbosity.
type Console struct {
	out       io.Writer
	err       io.Writer
	verbosity Verbosity
	mu        sync.Mutex
	colors    bool
}

// NewConsole creates a new console. Colors follow the terminal only when out
// is os.Stdout.
func NewConsole(out, err io.Writer, verbosity Verbosity) *Console {
	c := &Console{
		out:       out,
		err:       err,
		verbosity: verbosity,
		colors:    out == os.Stdout && IsColorEnabled(),
	}

	if !c.colors {
		DisableColors()
	}

	return c
}

// DefaultConsole creates a console with stdout/stderr and normal verbosity
func DefaultConsole() *Console {
	return NewConsole(os.Stdout, os.Stderr, VerbosityNormal)
}

// Out returns the result writer.
func (c *Console) Out() io.Writer {
	return c.out
}

// Err returns the message writer used for errors.
func (c *Console) Err() io.Writer {
	return c.err
}

// SetVerbosity sets the verbosity level
func (c *Console) SetVerbosity(v Verbosity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.verbosity = v
}

// GetVerbosity returns the current verbosity level
func (c *Console) GetVerbosity() Verbosity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.verbosity
}

// Colors reports whether color output is enabled.
func (c *Console) Colors() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.colors
}

// SetColors enables or disables color output
func (c *Console) SetColors(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.colors = enabled
	if enabled {
		EnableColors()
	} else {
		DisableColors()
	}
}

// Println writes line to output
func (c *Console) Println(a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.out, a...)
}

// Printf writes formatted output
func (c *Console) Printf(format string, a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.out, format, a...)
}

// Header writes a bold section heading.
func (c *Console) Header(format string, a ...any) {
	c.styled(c.out, ColorHeader, format+"\n", a...)
}

// Success writes success message (green)
func (c *Console) Success(format string, a ...any) {
	if c.GetVerbosity() >= VerbosityNormal {
		c.styled(c.out, ColorSuccess, format+"\n", a...)
	}
}

// Error writes error message (red)
func (c *Console) Error(format string, a ...any) {
	c.styled(c.err, ColorError, "Error: "+format+"\n", a...)
}

// Warning writes warning message (yellow)
func (c *Console) Warning(format string, a ...any) {
	if c.GetVerbosity() >= VerbosityMinimal {
		c.styled(c.err, ColorWarning, "Warning: "+format+"\n", a...)
	}
}

// Info writes info message (cyan)
func (c *Console) Info(format string, a ...any) {
	if c.GetVerbosity() >= VerbosityNormal {
		c.styled(c.out, ColorInfo, format+"\n", a...)
	}
}

// Detail writes detailed message
func (c *Console) Detail(format string, a ...any) {
	if c.GetVerbosity() >= VerbosityDetailed {
		c.styled(c.out, ColorMuted, format+"\n", a...)
	}
}

// Debug writes debug message (white)
func (c *Console) Debug(format string, a ...any) {
	if c.GetVerbosity() >= VerbosityDiagnostic {
		c.styled(c.err, ColorDebug, "[DEBUG] "+format+"\n", a...)
	}
}

// Styled writes a result line in color when colors are enabled.
func (c *Console) Styled(col *color.Color, format string, a ...any) {
	c.styled(c.out, col, format+"\n", a...)
}

func (c *Console) styled(w io.Writer, col *color.Color, format string, a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.colors {
		_, _ = col.Fprintf(w, format, a...)
		return
	}
	_, _ = fmt.Fprintf(w, format, a...)
}
