package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/slncfg/workspace"
)

func TestParse_SdkStyle(t *testing.T) {
	content := `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <TargetFramework>net8.0</TargetFramework>
    <OutputType>Exe</OutputType>
  </PropertyGroup>
  <ItemGroup>
    <PackageReference Include="Serilog" />
    <PackageReference Include="Newtonsoft.Json" Version="13.0.3" />
    <PackageReference Include="Polly">
      <Version>8.2.0</Version>
    </PackageReference>
    <PackageReference Update="Ignored" Version="1.0.0" />
  </ItemGroup>
</Project>`

	f, err := Parse(strings.NewReader(content), "/repo/src/App/App.csproj")
	require.NoError(t, err)

	assert.Equal(t, StyleSDK, f.Style)
	assert.Equal(t, "Microsoft.NET.Sdk", f.Sdk)
	assert.Equal(t, "net8.0", f.TargetFramework)
	assert.Equal(t, "Exe", f.Properties.Value("OutputType"))
	assert.Equal(t, "App", f.Name())

	require.Len(t, f.PackageReferences, 3)
	assert.False(t, f.PackageReferences[0].HasPinnedVersion)
	assert.Empty(t, f.PackageReferences[0].Version)
	assert.True(t, f.PackageReferences[1].HasPinnedVersion)
	assert.Equal(t, "13.0.3", f.PackageReferences[1].Version)
	assert.True(t, f.PackageReferences[2].HasPinnedVersion)
	assert.Equal(t, "8.2.0", f.PackageReferences[2].Version)
	assert.Equal(t, "/repo/src/App/App.csproj", f.PackageReferences[0].ProjectPath)

	ref, ok := f.FindPackageReference("serilog")
	require.True(t, ok)
	assert.Equal(t, "Serilog", ref.Name)
	_, ok = f.FindPackageReference("Missing")
	assert.False(t, ok)

	refs := f.References()
	assert.Equal(t, f.Path, refs.ProjectPath)
	assert.Equal(t, 2, refs.PinnedCount())
}

func TestParse_Styles(t *testing.T) {
	tests := []struct {
		name    string
		content string
		style   SdkStyle
		sdk     string
	}{
		{"sdk attribute", `<Project Sdk="Microsoft.NET.Sdk.Web"></Project>`, StyleSDK, "Microsoft.NET.Sdk.Web"},
		{"sdk element", `<Project><Sdk Name="Microsoft.NET.Sdk" /></Project>`, StyleSDK, "Microsoft.NET.Sdk"},
		{"sdk import", `<Project><Import Project="Sdk.props" Sdk="Microsoft.NET.Sdk" /></Project>`, StyleSDK, "Microsoft.NET.Sdk"},
		{"tools version", `<Project ToolsVersion="15.0"></Project>`, StyleLegacy, ""},
		{"default targets", `<Project DefaultTargets="Build"></Project>`, StyleLegacy, ""},
		{"bare", `<Project></Project>`, StyleUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(strings.NewReader(tt.content), "/p/A.csproj")
			require.NoError(t, err)
			assert.Equal(t, tt.style, f.Style)
			assert.Equal(t, tt.sdk, f.Sdk)
		})
	}
}

func TestParse_FrameworkDeclaration(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		declared []string
	}{
		{
			name:     "multi targeting",
			content:  `<Project><PropertyGroup><TargetFrameworks>net8.0; net6.0 ;netstandard2.0;</TargetFrameworks></PropertyGroup></Project>`,
			declared: []string{"net8.0", "net6.0", "netstandard2.0"},
		},
		{
			name:     "plural beats singular",
			content:  `<Project><PropertyGroup><TargetFramework>net6.0</TargetFramework><TargetFrameworks>net8.0;net9.0</TargetFrameworks></PropertyGroup></Project>`,
			declared: []string{"net8.0", "net9.0"},
		},
		{
			name: "unconditional beats conditional",
			content: `<Project>
  <PropertyGroup Condition="'$(Configuration)' == 'Debug'"><TargetFramework>net6.0</TargetFramework></PropertyGroup>
  <PropertyGroup><TargetFramework>net8.0</TargetFramework></PropertyGroup>
</Project>`,
			declared: []string{"net8.0"},
		},
		{
			name: "first conditional when no unconditional",
			content: `<Project>
  <PropertyGroup Condition="'$(OS)' == 'Windows_NT'"><TargetFramework>net8.0-windows</TargetFramework></PropertyGroup>
  <PropertyGroup Condition="'$(OS)' != 'Windows_NT'"><TargetFramework>net8.0</TargetFramework></PropertyGroup>
</Project>`,
			declared: []string{"net8.0-windows"},
		},
		{
			name:     "property names ignore case",
			content:  `<Project Sdk="Microsoft.NET.Sdk"><PropertyGroup><targetframework>net8.0</targetframework></PropertyGroup></Project>`,
			declared: []string{"net8.0"},
		},
		{
			name: "conditional plural ignores case",
			content: `<Project>
  <PropertyGroup Condition="'$(CI)' == 'true'"><TARGETFRAMEWORKS>net8.0;net9.0</TARGETFRAMEWORKS></PropertyGroup>
</Project>`,
			declared: []string{"net8.0", "net9.0"},
		},
		{
			name:     "legacy framework version",
			content:  `<Project ToolsVersion="15.0"><PropertyGroup><TargetFrameworkVersion>v4.8.1</TargetFrameworkVersion></PropertyGroup></Project>`,
			declared: []string{"net481"},
		},
		{
			name:     "none",
			content:  `<Project Sdk="Microsoft.NET.Sdk"><PropertyGroup><OutputType>Library</OutputType></PropertyGroup></Project>`,
			declared: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(strings.NewReader(tt.content), "/p/A.csproj")
			require.NoError(t, err)
			assert.Equal(t, tt.declared, f.DeclaredFrameworks())
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse(strings.NewReader(`<Project><PropertyGroup>`), "/p/A.csproj")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse project XML")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Lib.fsproj")
	require.NoError(t, os.WriteFile(path, []byte("\xEF\xBB\xBF<Project Sdk=\"Microsoft.NET.Sdk\"><PropertyGroup><TargetFramework>net8.0</TargetFramework></PropertyGroup></Project>"), 0644))

	f, err := Load(workspace.NewOSFileSystem(), path)
	require.NoError(t, err)
	assert.Equal(t, "net8.0", f.TargetFramework)

	_, err = Load(workspace.NewOSFileSystem(), filepath.Join(dir, "Missing.csproj"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read project file")
}

func TestSplitFrameworks(t *testing.T) {
	assert.Equal(t, []string{"net8.0", "net6.0"}, SplitFrameworks(" net8.0 ;; net6.0;"))
	assert.Nil(t, SplitFrameworks(""))
	assert.Nil(t, SplitFrameworks(" ; "))
}
