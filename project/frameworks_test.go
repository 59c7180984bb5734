package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/slncfg/buildconfig"
	"github.com/willibrandon/slncfg/workspace"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func newResolver(t *testing.T, root string) *Resolver {
	t.Helper()
	fsys := workspace.NewOSFileSystem()
	h, err := buildconfig.Discover(context.Background(), fsys, root, workspace.DefaultExcludes)
	require.NoError(t, err)
	h.Load(fsys, nil)
	return NewResolver(h, fsys, nil)
}

const sdkProjectWithoutFramework = `<Project Sdk="Microsoft.NET.Sdk"><PropertyGroup><Nullable>enable</Nullable></PropertyGroup></Project>`

func TestResolve_TargetsBeatsProps(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"Directory.Build.props":       `<Project><PropertyGroup><TargetFramework>net6.0</TargetFramework></PropertyGroup></Project>`,
		"src/Directory.Build.targets": `<Project><PropertyGroup><TargetFramework>net8.0</TargetFramework></PropertyGroup></Project>`,
		"src/Api/Api.csproj":          sdkProjectWithoutFramework,
	})

	fw, err := newResolver(t, root).Resolve(filepath.Join(root, "src", "Api", "Api.csproj"))
	require.NoError(t, err)

	assert.Equal(t, []string{"net8.0"}, fw.TargetFrameworks)
	assert.Equal(t, "net8.0", fw.Primary)
	assert.False(t, fw.MultiTargeting)
	assert.Equal(t, SourceBuildTargets, fw.Source)
	assert.Equal(t, filepath.Join(root, "src", "Directory.Build.targets"), fw.SourcePath)
	assert.Equal(t, StyleSDK, fw.Style)
	assert.Equal(t, "Microsoft.NET.Sdk", fw.Sdk)
	assert.Equal(t, "Api", fw.ProjectName)
}

func TestResolve_ProjectFileWins(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"Directory.Build.props":   `<Project><PropertyGroup><TargetFramework>net6.0</TargetFramework></PropertyGroup></Project>`,
		"Directory.Build.targets": `<Project><PropertyGroup><TargetFramework>net7.0</TargetFramework></PropertyGroup></Project>`,
		"App/App.csproj":          `<Project Sdk="Microsoft.NET.Sdk"><PropertyGroup><TargetFrameworks>net8.0;net9.0</TargetFrameworks></PropertyGroup></Project>`,
	})

	fw, err := newResolver(t, root).Resolve(filepath.Join(root, "App", "App.csproj"))
	require.NoError(t, err)

	assert.Equal(t, []string{"net8.0", "net9.0"}, fw.TargetFrameworks)
	assert.Equal(t, "net8.0", fw.Primary)
	assert.True(t, fw.MultiTargeting)
	assert.Equal(t, SourceProjectFile, fw.Source)
	assert.Equal(t, filepath.Join(root, "App", "App.csproj"), fw.SourcePath)
}

func TestResolve_PropsOnly(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"Directory.Build.props": `<Project><PropertyGroup><TargetFrameworks>net8.0;netstandard2.0</TargetFrameworks></PropertyGroup></Project>`,
		"Lib/Lib.csproj":        sdkProjectWithoutFramework,
	})

	fw, err := newResolver(t, root).Resolve(filepath.Join(root, "Lib", "Lib.csproj"))
	require.NoError(t, err)
	assert.Equal(t, SourceBuildProps, fw.Source)
	assert.Equal(t, []string{"net8.0", "netstandard2.0"}, fw.TargetFrameworks)
	assert.True(t, fw.MultiTargeting)
}

func TestResolve_TargetsWithoutFrameworkFallsBackToProps(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"Directory.Build.props":   `<Project><PropertyGroup><TargetFramework>net6.0</TargetFramework></PropertyGroup></Project>`,
		"Directory.Build.targets": `<Project><PropertyGroup><Deterministic>true</Deterministic></PropertyGroup></Project>`,
		"Lib/Lib.csproj":          sdkProjectWithoutFramework,
	})

	fw, err := newResolver(t, root).Resolve(filepath.Join(root, "Lib", "Lib.csproj"))
	require.NoError(t, err)
	assert.Equal(t, SourceBuildProps, fw.Source)
	assert.Equal(t, "net6.0", fw.Primary)
}

func TestResolve_NotFound(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"Lib/Lib.csproj": sdkProjectWithoutFramework,
	})

	fw, err := newResolver(t, root).Resolve(filepath.Join(root, "Lib", "Lib.csproj"))
	require.NoError(t, err)
	assert.Equal(t, SourceNotFound, fw.Source)
	assert.Equal(t, UnknownFramework, fw.Primary)
	assert.Empty(t, fw.TargetFrameworks)
	assert.Empty(t, fw.SourcePath)
	assert.Equal(t, StyleSDK, fw.Style)
}

func TestResolve_PropertySubstitution(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"Directory.Build.props": `<Project><PropertyGroup>
  <NetCurrent>net8.0</NetCurrent>
  <LibraryFrameworks>$(NetCurrent);netstandard2.0</LibraryFrameworks>
</PropertyGroup></Project>`,
		"src/Directory.Build.props": `<Project>
  <Import Project="$([MSBuild]::GetPathOfFileAbove('Directory.Build.props', '$(MSBuildThisFileDirectory)../'))" />
  <PropertyGroup><TargetFrameworks>$(LibraryFrameworks)</TargetFrameworks></PropertyGroup>
</Project>`,
		"src/Lib/Lib.csproj": sdkProjectWithoutFramework,
		"src/App/App.csproj": `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <AppFramework>$(NetCurrent)-windows</AppFramework>
    <TargetFramework>$(AppFramework)</TargetFramework>
  </PropertyGroup>
</Project>`,
		"src/Tool/Tool.csproj": `<Project Sdk="Microsoft.NET.Sdk"><PropertyGroup><TargetFramework>$(Undefined)</TargetFramework></PropertyGroup></Project>`,
	})
	r := newResolver(t, root)

	t.Run("config file chain", func(t *testing.T) {
		fw, err := r.Resolve(filepath.Join(root, "src", "Lib", "Lib.csproj"))
		require.NoError(t, err)
		assert.Equal(t, []string{"net8.0", "netstandard2.0"}, fw.TargetFrameworks)
		assert.Equal(t, filepath.Join(root, "src", "Directory.Build.props"), fw.SourcePath)
	})

	t.Run("project properties", func(t *testing.T) {
		fw, err := r.Resolve(filepath.Join(root, "src", "App", "App.csproj"))
		require.NoError(t, err)
		assert.Equal(t, []string{"net8.0-windows"}, fw.TargetFrameworks)
		assert.Equal(t, SourceProjectFile, fw.Source)
	})

	t.Run("unresolved reference stays verbatim", func(t *testing.T) {
		fw, err := r.Resolve(filepath.Join(root, "src", "Tool", "Tool.csproj"))
		require.NoError(t, err)
		assert.Equal(t, []string{"$(Undefined)"}, fw.TargetFrameworks)
	})
}

func TestResolveAll_IsolatesFailures(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"Good/Good.csproj": `<Project Sdk="Microsoft.NET.Sdk"><PropertyGroup><TargetFramework>net8.0</TargetFramework></PropertyGroup></Project>`,
		"Bad/Bad.csproj":   `<Project><PropertyGroup>`,
	})

	results := newResolver(t, root).ResolveAll([]string{
		filepath.Join(root, "Bad", "Bad.csproj"),
		filepath.Join(root, "Missing", "Missing.csproj"),
		filepath.Join(root, "Good", "Good.csproj"),
	})

	require.Len(t, results, 3)
	assert.Equal(t, SourceNotFound, results[0].Source)
	assert.Equal(t, StyleUnknown, results[0].Style)
	assert.Equal(t, "Bad", results[0].ProjectName)
	assert.Equal(t, SourceNotFound, results[1].Source)
	assert.Equal(t, "net8.0", results[2].Primary)
}

func TestResolve_LegacyProject(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"Legacy/Legacy.csproj": `<?xml version="1.0" encoding="utf-8"?>
<Project ToolsVersion="15.0" DefaultTargets="Build" xmlns="http://schemas.microsoft.com/developer/msbuild/2003">
  <PropertyGroup>
    <TargetFrameworkVersion>v4.8.1</TargetFrameworkVersion>
  </PropertyGroup>
</Project>`,
	})

	fw, err := newResolver(t, root).Resolve(filepath.Join(root, "Legacy", "Legacy.csproj"))
	require.NoError(t, err)
	assert.Equal(t, StyleLegacy, fw.Style)
	assert.Equal(t, "net481", fw.Primary)
	assert.Equal(t, SourceProjectFile, fw.Source)
	assert.True(t, fw.NetFramework)
	assert.Equal(t, FamilyNetFramework, fw.PrimaryFamily())
	require.Len(t, fw.Monikers, 1)
	assert.Equal(t, "4.8.1", fw.Monikers[0].Version)
}

func TestResolve_ClassifiesMonikers(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"Lib/Lib.csproj": `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup><TargetFrameworks>netstandard2.0;net8.0-windows;net48</TargetFrameworks></PropertyGroup>
</Project>`,
	})

	fw, err := newResolver(t, root).Resolve(filepath.Join(root, "Lib", "Lib.csproj"))
	require.NoError(t, err)
	require.Len(t, fw.Monikers, 3)
	assert.Equal(t, FamilyNetStandard, fw.PrimaryFamily())
	assert.Equal(t, FamilyNet, fw.Monikers[1].Family)
	assert.Equal(t, "windows", fw.Monikers[1].Platform)
	assert.True(t, fw.Monikers[2].IsLegacy())
	assert.True(t, fw.NetFramework)

	missing := NotFound(filepath.Join(root, "Gone", "Gone.csproj"))
	assert.Empty(t, missing.Monikers)
	assert.False(t, missing.NetFramework)
	assert.Equal(t, FamilyUnknown, missing.PrimaryFamily())
}
