package solution

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/willibrandon/slncfg/workspace"
)

// Parser reads one solution container format.
type Parser interface {
	// Parse reads a solution document; path is its absolute location.
	Parse(r io.Reader, path string) (*Solution, error)

	// CanParse checks if this parser supports the given file
	CanParse(path string) bool
}

// GetParser returns the parser for the file's extension or an
// *UnsupportedFormatError.
func GetParser(path string) (Parser, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".sln":
		return NewSlnParser(), nil
	case ".slnx":
		return NewSlnxParser(), nil
	default:
		return nil, &UnsupportedFormatError{Path: path, Extension: ext}
	}
}

// ParseSolution selects a parser by extension, reads the file through r and
// parses it. Read failures are reported as *ParseError.
func ParseSolution(r workspace.FileReader, path string) (*Solution, error) {
	parser, err := GetParser(path)
	if err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	data, err := r.ReadFile(absPath)
	if err != nil {
		return nil, &ParseError{
			FilePath: absPath,
			Message:  fmt.Sprintf("cannot open file: %v", err),
		}
	}

	return parser.Parse(bytes.NewReader(data), absPath)
}

// Empty returns a solution with no nodes for path, in the format implied by
// its extension. It stands in for a container that could not be parsed.
func Empty(path string) *Solution {
	format := FormatSln
	if strings.EqualFold(filepath.Ext(path), ".slnx") {
		format = FormatSlnx
	}
	sol := newSolution(path, format)
	sol.Roots = []Item{}
	return sol
}
