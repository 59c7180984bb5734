package solution

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/willibrandon/slncfg/workspace"
)

// SlnxParser parses XML-based .slnx files
type SlnxParser struct{}

// NewSlnxParser creates a new .slnx file parser
func NewSlnxParser() *SlnxParser {
	return &SlnxParser{}
}

// CanParse checks if this parser supports the given file
func (p *SlnxParser) CanParse(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".slnx"
}

type slnxDocument struct {
	XMLName  xml.Name      `xml:"Solution"`
	Folders  []slnxFolder  `xml:"Folder"`
	Projects []slnxProject `xml:"Project"`
}

type slnxFolder struct {
	Name     string        `xml:"Name,attr"`
	Projects []slnxProject `xml:"Project"`
	Folders  []slnxFolder  `xml:"Folder"`
	Files    []slnxFile    `xml:"File"`
}

type slnxProject struct {
	Path string `xml:"Path,attr"`
	Type string `xml:"Type,attr"`
}

type slnxFile struct {
	Path string `xml:"Path,attr"`
}

// Parse reads a .slnx document. Project identity is the normalized relative
// path; folder identity is the parent folder ID joined with the folder name.
func (p *SlnxParser) Parse(r io.Reader, path string) (*Solution, error) {
	var doc slnxDocument
	if err := workspace.NewXMLDecoder(r).Decode(&doc); err != nil {
		var syntaxErr *xml.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, &ParseError{
				FilePath: path,
				Line:     syntaxErr.Line,
				Message:  fmt.Sprintf("XML syntax error: %v", syntaxErr.Msg),
			}
		}
		return nil, &ParseError{
			FilePath: path,
			Message:  fmt.Sprintf("failed to parse XML: %v", err),
		}
	}

	sol := newSolution(path, FormatSlnx)
	for i := range doc.Folders {
		p.processFolder(&doc.Folders[i], sol, ItemID{})
	}
	for _, proj := range doc.Projects {
		p.addProject(proj, sol, ItemID{})
	}
	sol.link()

	return sol, nil
}

func (p *SlnxParser) processFolder(folder *slnxFolder, sol *Solution, parentID ItemID) {
	id := ItemID{value: folder.Name}
	if !parentID.IsZero() {
		id = ItemID{value: parentID.value + "/" + folder.Name}
	}

	f := &Folder{ID: id, Name: folder.Name, ParentID: parentID}
	for _, file := range folder.Files {
		f.Files = append(f.Files, NormalizePath(file.Path))
	}
	sol.Folders = append(sol.Folders, f)

	for _, proj := range folder.Projects {
		p.addProject(proj, sol, id)
	}
	for i := range folder.Folders {
		p.processFolder(&folder.Folders[i], sol, id)
	}
}

func (p *SlnxParser) addProject(proj slnxProject, sol *Solution, parentID ItemID) {
	rel := NormalizePath(proj.Path)
	sol.Projects = append(sol.Projects, &Project{
		ID:           PathItemID(rel),
		Name:         projectName(rel),
		RelativePath: rel,
		Path:         ResolveProjectPath(sol.Dir, rel),
		TypeID:       proj.Type,
		ParentID:     parentID,
	})
}
