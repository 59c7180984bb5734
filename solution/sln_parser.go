package solution

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	formatVersionRegex = regexp.MustCompile(`^Microsoft Visual Studio Solution File, Format Version (\S+)`)
	vsVersionRegex     = regexp.MustCompile(`^VisualStudioVersion\s*=\s*(\S+)`)
	minVSVersionRegex  = regexp.MustCompile(`^MinimumVisualStudioVersion\s*=\s*(\S+)`)

	// Project("{TYPE}") = "Name", "Path", "{GUID}"
	projectRegex = regexp.MustCompile(
		`^Project\("(\{[^}]+\})"\)\s*=\s*"([^"]+)"\s*,\s*"([^"]+)"\s*,\s*"(\{[^}]+\})"`,
	)

	// {CHILD} = {PARENT}
	nestedProjectRegex = regexp.MustCompile(`^(\{[^}]+\})\s*=\s*(\{[^}]+\})`)
)

// SlnParser parses text-based .sln files
type SlnParser struct{}

// NewSlnParser creates a new .sln file parser
func NewSlnParser() *SlnParser {
	return &SlnParser{}
}

// CanParse checks if this parser supports the given file
func (p *SlnParser) CanParse(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".sln"
}

// Parse reads a .sln document. path is the absolute solution path used to
// resolve project locations.
func (p *SlnParser) Parse(r io.Reader, path string) (*Solution, error) {
	sol := newSolution(path, FormatSln)

	scanner := bufio.NewScanner(r)
	lineNum := 0
	inGlobal := false
	inNested := false
	inSolutionItems := false
	var currentProject *Project
	var currentFolder *Folder
	nesting := make(map[ItemID]ItemID)

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if inSolutionItems {
			if strings.HasPrefix(line, "EndProjectSection") {
				inSolutionItems = false
				continue
			}
			// README.md = README.md
			if item, _, _ := strings.Cut(line, "="); strings.TrimSpace(item) != "" {
				currentFolder.Files = append(currentFolder.Files, NormalizePath(strings.TrimSpace(item)))
			}
			continue
		}

		if matches := formatVersionRegex.FindStringSubmatch(line); matches != nil {
			sol.FormatVersion = matches[1]
			continue
		}
		if matches := vsVersionRegex.FindStringSubmatch(line); matches != nil {
			sol.VisualStudioVersion = matches[1]
			continue
		}
		if matches := minVSVersionRegex.FindStringSubmatch(line); matches != nil {
			sol.MinimumVisualStudioVersion = matches[1]
			continue
		}

		if matches := projectRegex.FindStringSubmatch(line); matches != nil {
			if currentProject != nil || currentFolder != nil {
				return nil, &ParseError{FilePath: path, Line: lineNum, Message: "nested Project without EndProject"}
			}

			typeGUID := canonicalGUID(matches[1])
			id := GUIDItemID(matches[4])
			if typeGUID == ProjectTypeSolutionFolder {
				currentFolder = &Folder{ID: id, Name: matches[2]}
			} else {
				rel := NormalizePath(matches[3])
				currentProject = &Project{
					ID:           id,
					Name:         matches[2],
					RelativePath: rel,
					Path:         ResolveProjectPath(sol.Dir, rel),
					TypeID:       typeGUID,
				}
			}
			continue
		}

		if line == "EndProject" {
			switch {
			case currentProject != nil:
				sol.Projects = append(sol.Projects, currentProject)
				currentProject = nil
			case currentFolder != nil:
				sol.Folders = append(sol.Folders, currentFolder)
				currentFolder = nil
			}
			continue
		}

		if currentFolder != nil && strings.HasPrefix(line, "ProjectSection(SolutionItems)") {
			inSolutionItems = true
			continue
		}

		switch {
		case line == "Global":
			inGlobal = true
		case line == "EndGlobal":
			inGlobal = false
		case inGlobal && strings.HasPrefix(line, "GlobalSection(NestedProjects)"):
			inNested = true
		case inGlobal && strings.HasPrefix(line, "EndGlobalSection"):
			inNested = false
		case inNested:
			if matches := nestedProjectRegex.FindStringSubmatch(line); matches != nil {
				nesting[GUIDItemID(matches[1])] = GUIDItemID(matches[2])
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, &ParseError{
			FilePath: path,
			Message:  fmt.Sprintf("error reading file: %v", err),
		}
	}

	if currentProject != nil || currentFolder != nil {
		return nil, &ParseError{
			FilePath: path,
			Line:     lineNum,
			Message:  "unexpected end of file: missing EndProject",
		}
	}

	for _, f := range sol.Folders {
		f.ParentID = nesting[f.ID]
	}
	for _, proj := range sol.Projects {
		proj.ParentID = nesting[proj.ID]
	}
	sol.link()

	return sol, nil
}

func newSolution(path string, format Format) *Solution {
	return &Solution{
		FilePath: path,
		Dir:      filepath.Dir(path),
		Name:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Format:   format,
		Projects: []*Project{},
		Folders:  []*Folder{},
	}
}
