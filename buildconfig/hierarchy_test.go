package buildconfig

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/slncfg/workspace"
)

func p(parts ...string) string {
	return filepath.Join(append([]string{string(filepath.Separator)}, parts...)...)
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestNewHierarchy_LinksSameKindAncestors(t *testing.T) {
	h := NewHierarchy([]string{
		p("repo", "Directory.Build.props"),
		p("repo", "src", "Directory.Build.props"),
		p("repo", "src", "Api", "Directory.Build.props"),
		p("repo", "src", "Directory.Build.targets"),
		p("repo", "src", "Api", "Directory.Build.targets"),
		p("repo", "Directory.Packages.props"),
		p("repo", "src", "Api", "Api.csproj"),
	})

	require.Len(t, h.Files(), 6)

	apiProps, ok := h.Lookup(p("repo", "src", "Api", "Directory.Build.props"))
	require.True(t, ok)
	assert.Equal(t, p("repo", "src", "Directory.Build.props"), apiProps.ParentPath)
	assert.Equal(t, 2, h.Depth(apiProps))

	srcProps := h.Parent(apiProps)
	require.NotNil(t, srcProps)
	assert.Equal(t, []string{apiProps.Path}, srcProps.ChildPaths)

	// Kinds form independent forests
	apiTargets, ok := h.Lookup(p("repo", "src", "Api", "Directory.Build.targets"))
	require.True(t, ok)
	assert.Equal(t, p("repo", "src", "Directory.Build.targets"), apiTargets.ParentPath)
	srcTargets := h.Parent(apiTargets)
	assert.False(t, srcTargets.HasParent())

	roots := h.Roots()
	var rootPaths []string
	for _, f := range roots {
		rootPaths = append(rootPaths, f.Path)
	}
	assert.ElementsMatch(t, []string{
		p("repo", "Directory.Build.props"),
		p("repo", "src", "Directory.Build.targets"),
		p("repo", "Directory.Packages.props"),
	}, rootPaths)
}

func TestNewHierarchy_SkipsGapsInDirectoryChain(t *testing.T) {
	h := NewHierarchy([]string{
		p("repo", "Directory.Build.props"),
		p("repo", "a", "b", "c", "Directory.Build.props"),
	})

	deep, _ := h.Lookup(p("repo", "a", "b", "c", "Directory.Build.props"))
	assert.Equal(t, p("repo", "Directory.Build.props"), deep.ParentPath)
}

func TestNewHierarchy_Deterministic(t *testing.T) {
	paths := []string{
		p("repo", "src", "Directory.Build.props"),
		p("repo", "Directory.Build.props"),
		p("repo", "src", "lib", "Directory.Build.props"),
	}

	first := NewHierarchy(paths)
	second := NewHierarchy(paths)
	for _, f := range first.Files() {
		other, ok := second.Lookup(f.Path)
		require.True(t, ok)
		assert.Equal(t, f.ParentPath, other.ParentPath)
		assert.Equal(t, f.ChildPaths, other.ChildPaths)
	}

	// Discovery order does not change parent assignment
	lib, _ := first.Lookup(p("repo", "src", "lib", "Directory.Build.props"))
	assert.Equal(t, p("repo", "src", "Directory.Build.props"), lib.ParentPath)
}

func TestNewHierarchy_DuplicateKindInDirectoryFirstWins(t *testing.T) {
	h := NewHierarchy([]string{
		p("repo", "Directory.Build.props"),
		p("repo", "directory.build.props"),
	})

	require.Len(t, h.Files(), 1)
	assert.Equal(t, p("repo", "Directory.Build.props"), h.Files()[0].Path)
}

func TestNearest(t *testing.T) {
	h := NewHierarchy([]string{
		p("repo", "Directory.Build.props"),
		p("repo", "src", "Api", "Directory.Build.props"),
		p("repo", "Directory.Packages.props"),
	})

	t.Run("depth zero", func(t *testing.T) {
		f := h.Nearest(p("repo", "src", "Api", "Api.csproj"), KindBuildProps)
		require.NotNil(t, f)
		assert.Equal(t, p("repo", "src", "Api", "Directory.Build.props"), f.Path)
	})

	t.Run("ancestor", func(t *testing.T) {
		f := h.Nearest(p("repo", "src", "Core", "Core.csproj"), KindBuildProps)
		require.NotNil(t, f)
		assert.Equal(t, p("repo", "Directory.Build.props"), f.Path)
	})

	t.Run("none", func(t *testing.T) {
		assert.Nil(t, h.Nearest(p("repo", "src", "Api", "Api.csproj"), KindBuildTargets))
		assert.Nil(t, h.Nearest(p("elsewhere", "X.csproj"), KindBuildProps))
	})
}

func TestMapAffectedProjects(t *testing.T) {
	h := NewHierarchy([]string{
		p("repo", "Directory.Build.props"),
		p("repo", "src", "Api", "Directory.Build.props"),
		p("repo", "Directory.Packages.props"),
	})

	api := p("repo", "src", "Api", "Api.csproj")
	core := p("repo", "src", "Core", "Core.csproj")
	h.MapAffectedProjects([]string{api, core, api})

	rootProps, _ := h.Lookup(p("repo", "Directory.Build.props"))
	apiProps, _ := h.Lookup(p("repo", "src", "Api", "Directory.Build.props"))
	central, _ := h.Lookup(p("repo", "Directory.Packages.props"))

	assert.Equal(t, []string{core}, rootProps.AffectedProjects)
	assert.Equal(t, []string{api}, apiProps.AffectedProjects)
	assert.Equal(t, []string{api, core}, central.AffectedProjects)
}

func TestAllProperties(t *testing.T) {
	h := NewHierarchy([]string{
		p("repo", "Directory.Build.props"),
		p("repo", "src", "Directory.Build.props"),
		p("repo", "src", "Api", "Directory.Build.props"),
	})
	root, _ := h.Lookup(p("repo", "Directory.Build.props"))
	mid, _ := h.Lookup(p("repo", "src", "Directory.Build.props"))
	leaf, _ := h.Lookup(p("repo", "src", "Api", "Directory.Build.props"))

	root.Properties.Set("Company", "Contoso")
	root.Properties.Set("LangVersion", "10")
	mid.Properties.Set("LangVersion", "12")
	mid.Properties.Set("Nullable", "enable")
	leaf.Properties.Set("Nullable", "disable")

	t.Run("root returns own properties", func(t *testing.T) {
		all := h.AllProperties(root)
		assert.Equal(t, []string{"Company", "LangVersion"}, all.Names())
		assert.Equal(t, "10", all.Value("LangVersion"))
	})

	t.Run("chain unions keys and leaf wins", func(t *testing.T) {
		all := h.AllProperties(leaf)
		assert.ElementsMatch(t, []string{"Company", "LangVersion", "Nullable"}, all.Names())
		assert.Equal(t, "Contoso", all.Value("Company"))
		assert.Equal(t, "12", all.Value("LangVersion"))
		assert.Equal(t, "disable", all.Value("Nullable"))
	})

	t.Run("merge does not mutate files", func(t *testing.T) {
		_ = h.AllProperties(leaf)
		assert.Equal(t, "10", root.Properties.Value("LangVersion"))
	})

	t.Run("nil file", func(t *testing.T) {
		assert.Equal(t, 0, h.AllProperties(nil).Len())
	})
}

func TestDiscoverAndLoad(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"Directory.Build.props": `<Project>
  <PropertyGroup>
    <TargetFramework>net8.0</TargetFramework>
  </PropertyGroup>
</Project>`,
		"src/Directory.Build.props": `<Project>
  <Import Project="$([MSBuild]::GetPathOfFileAbove('Directory.Build.props', '$(MSBuildThisFileDirectory)../'))" />
  <PropertyGroup><Nullable>enable</Nullable></PropertyGroup>
</Project>`,
		"src/Broken/Directory.Build.props": `<Project><PropertyGroup>`,
		"Directory.Packages.props":         `<Project><PropertyGroup><ManagePackageVersionsCentrally>true</ManagePackageVersionsCentrally></PropertyGroup></Project>`,
		"src/bin/Directory.Build.props":    `<Project/>`,
	})

	fsys := workspace.NewOSFileSystem()
	h, err := Discover(context.Background(), fsys, root, workspace.DefaultExcludes)
	require.NoError(t, err)
	h.Load(fsys, nil)

	assert.Len(t, h.FilesOfKind(KindBuildProps), 3)
	assert.True(t, h.HasKind(KindPackagesProps))
	assert.False(t, h.HasKind(KindBuildTargets))

	src, ok := h.Lookup(filepath.Join(root, "src", "Directory.Build.props"))
	require.True(t, ok)
	assert.True(t, src.ImportsParent)
	assert.Equal(t, "net8.0", h.AllProperties(src).Value("TargetFramework"))

	broken, ok := h.Lookup(filepath.Join(root, "src", "Broken", "Directory.Build.props"))
	require.True(t, ok)
	assert.Equal(t, 0, broken.Properties.Len())
	assert.Equal(t, "enable", h.AllProperties(broken).Value("Nullable"))
}

func TestSummary(t *testing.T) {
	h := NewHierarchy([]string{
		p("repo", "Directory.Build.props"),
		p("repo", "src", "Directory.Build.props"),
		p("repo", "src", "Api", "Directory.Build.props"),
		p("repo", "Directory.Build.targets"),
		p("repo", "Directory.Packages.props"),
	})

	s := h.Summary()
	assert.Equal(t, 3, s.BuildPropsFiles)
	assert.Equal(t, 1, s.BuildTargetsFiles)
	assert.Equal(t, 1, s.PackagesPropsFiles)
	assert.Equal(t, 2, s.MaxDepth)
	assert.Len(t, s.Roots, 3)
	assert.Equal(t, 1, s.Depths[p("repo", "src", "Directory.Build.props")])
	assert.Equal(t, []string{
		p("repo", "src", "Api", "Directory.Build.props"),
		p("repo", "Directory.Build.targets"),
		p("repo", "Directory.Packages.props"),
	}, s.Leaves)

	root, _ := h.Lookup(p("repo", "Directory.Build.props"))
	children := h.Children(root)
	require.Len(t, children, 1)
	assert.Equal(t, p("repo", "src", "Directory.Build.props"), children[0].Path)
}

func TestDiscoverWithAncestors(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"Directory.Build.props":         `<Project><PropertyGroup><TargetFramework>net8.0</TargetFramework></PropertyGroup></Project>`,
		"Directory.Packages.props":      `<Project/>`,
		"src/Directory.Build.props":     `<Project/>`,
		"src/bin/Directory.Build.props": `<Project/>`,
		"tools/Directory.Build.targets": `<Project/>`,
		"other/Directory.Build.targets": `<Project/>`,
	})
	src := filepath.Join(root, "src")
	fsys := workspace.NewOSFileSystem()

	h, err := DiscoverWithAncestors(context.Background(), fsys, src, workspace.DefaultExcludes,
		[]string{filepath.Join(src, "bin"), filepath.Join(root, "tools", "Gen")})
	require.NoError(t, err)

	var paths []string
	for _, f := range h.Files() {
		paths = append(paths, f.Path)
	}
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "Directory.Build.props"),
		filepath.Join(root, "Directory.Packages.props"),
		filepath.Join(root, "tools", "Directory.Build.targets"),
		filepath.Join(src, "Directory.Build.props"),
	}, paths)

	inner, ok := h.Lookup(filepath.Join(src, "Directory.Build.props"))
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "Directory.Build.props"), inner.ParentPath)

	api := filepath.Join(src, "Api", "Api.csproj")
	assert.Equal(t, filepath.Join(root, "Directory.Packages.props"), h.Nearest(api, KindPackagesProps).Path)

	plain, err := Discover(context.Background(), fsys, src, workspace.DefaultExcludes)
	require.NoError(t, err)
	assert.Len(t, plain.Files(), 1)
}

func TestAncestorFiles_OrderedFromTop(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"Directory.Build.props":     `<Project/>`,
		"a/Directory.Build.props":   `<Project/>`,
		"a/b/Directory.Build.props": `<Project/>`,
	})

	found := AncestorFiles(workspace.NewOSFileSystem(), filepath.Join(root, "a", "b", "c"), nil)
	assert.Equal(t, []string{
		filepath.Join(root, "Directory.Build.props"),
		filepath.Join(root, "a", "Directory.Build.props"),
		filepath.Join(root, "a", "b", "Directory.Build.props"),
	}, found)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		path string
		kind Kind
		ok   bool
	}{
		{p("r", "Directory.Build.props"), KindBuildProps, true},
		{p("r", "DIRECTORY.BUILD.TARGETS"), KindBuildTargets, true},
		{p("r", "Directory.Packages.props"), KindPackagesProps, true},
		{p("r", "Api.csproj"), 0, false},
	}
	for _, tt := range tests {
		kind, ok := KindOf(tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		if tt.ok {
			assert.Equal(t, tt.kind, kind, tt.path)
		}
	}
}
