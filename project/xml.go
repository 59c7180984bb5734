package project

import "encoding/xml"

// projectElement represents the root <Project> element of a project file.
type projectElement struct {
	XMLName        xml.Name        `xml:"Project"`
	Sdk            string          `xml:"Sdk,attr"`
	ToolsVersion   string          `xml:"ToolsVersion,attr"`
	DefaultTargets string          `xml:"DefaultTargets,attr"`
	Sdks           []sdkElement    `xml:"Sdk"`
	Imports        []importElement `xml:"Import"`
	PropertyGroups []propertyGroup `xml:"PropertyGroup"`
	ItemGroups     []itemGroup     `xml:"ItemGroup"`
}

// sdkElement represents a <Sdk Name="..."/> child.
type sdkElement struct {
	Name    string `xml:"Name,attr"`
	Version string `xml:"Version,attr"`
}

// importElement represents an <Import Project="..." Sdk="..."/> element.
type importElement struct {
	Project string `xml:"Project,attr"`
	Sdk     string `xml:"Sdk,attr"`
}

// propertyGroup represents a <PropertyGroup> element. Every child element is a property.
type propertyGroup struct {
	Condition  string            `xml:"Condition,attr"`
	Properties []propertyElement `xml:",any"`
}

type propertyElement struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// itemGroup represents an <ItemGroup> element.
type itemGroup struct {
	Condition         string                    `xml:"Condition,attr"`
	PackageReferences []packageReferenceElement `xml:"PackageReference"`
}

// packageReferenceElement represents a <PackageReference> element. The
// version may be given as an attribute or as a child element.
type packageReferenceElement struct {
	Include        string  `xml:"Include,attr"`
	Update         string  `xml:"Update,attr"`
	Version        *string `xml:"Version,attr"`
	VersionElement *string `xml:"Version"`
}
