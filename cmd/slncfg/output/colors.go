// Package output provides console, JSON and table rendering for slncfg.
package output

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color schemes
var (
	ColorSuccess = color.New(color.FgGreen)
	ColorError   = color.New(color.FgRed)
	ColorWarning = color.New(color.FgYellow)
	ColorInfo    = color.New(color.FgCyan)
	ColorDebug   = color.New(color.FgWhite)
	ColorHeader  = color.New(color.Bold, color.FgWhite)
	ColorMuted   = color.New(color.Faint)
)

// IsColorEnabled reports whether stdout is a color-capable terminal and
// NO_COLOR is unset.
func IsColorEnabled() bool {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	switch os.Getenv("TERM") {
	case "", "dumb":
		return false
	}
	return true
}

// DisableColors disables all color output
func DisableColors() {
	color.NoColor = true
}

// EnableColors enables color output
func EnableColors() {
	color.NoColor = false
}
