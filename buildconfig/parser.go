package buildconfig

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/willibrandon/slncfg/workspace"
)

// PropertyFile is the parsed content of a hierarchical property file.
type PropertyFile struct {
	// Properties holds every PropertyGroup child in document order.
	// Conditions are not evaluated; a later declaration overrides an earlier one.
	Properties *Properties

	// Imports lists the Project attribute of each Import element.
	Imports []string

	// ImportsParent is set when an import matches a known idiom for pulling
	// in the same-named file from a parent directory.
	ImportsParent bool
}

// propertyDocument mirrors the subset of an MSBuild file read here.
type propertyDocument struct {
	XMLName        xml.Name        `xml:"Project"`
	PropertyGroups []propertyGroup `xml:"PropertyGroup"`
	Imports        []importElement `xml:"Import"`
	ImportGroups   []importGroup   `xml:"ImportGroup"`
}

type propertyGroup struct {
	Condition  string            `xml:"Condition,attr"`
	Properties []propertyElement `xml:",any"`
}

type propertyElement struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type importElement struct {
	Project   string `xml:"Project,attr"`
	Condition string `xml:"Condition,attr"`
}

type importGroup struct {
	Imports []importElement `xml:"Import"`
}

// parentImportIdioms are the import spellings that chain to an ancestor file.
var parentImportIdioms = []string{
	"$(MSBuildThisFileDirectory)",
	"GetDirectoryNameOfFileAbove",
	"GetPathOfFileAbove",
	`..\Directory.Build.props`,
	"../Directory.Build.props",
	`..\Directory.Build.targets`,
	"../Directory.Build.targets",
}

// ParsePropertyFile reads the properties and imports of an MSBuild property file.
func ParsePropertyFile(r io.Reader) (*PropertyFile, error) {
	var doc propertyDocument
	if err := workspace.NewXMLDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse property file: %w", err)
	}

	pf := &PropertyFile{Properties: NewProperties()}
	for _, group := range doc.PropertyGroups {
		for _, prop := range group.Properties {
			pf.Properties.Set(prop.XMLName.Local, strings.TrimSpace(prop.Value))
		}
	}

	imports := doc.Imports
	for _, group := range doc.ImportGroups {
		imports = append(imports, group.Imports...)
	}
	for _, imp := range imports {
		if imp.Project == "" {
			continue
		}
		pf.Imports = append(pf.Imports, imp.Project)
		if importsParent(imp.Project) {
			pf.ImportsParent = true
		}
	}

	return pf, nil
}

func importsParent(project string) bool {
	lower := strings.ToLower(project)
	for _, idiom := range parentImportIdioms {
		if strings.Contains(lower, strings.ToLower(idiom)) {
			return true
		}
	}
	return false
}
