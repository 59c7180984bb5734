package solution

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/slncfg/workspace"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDetector_FindSolutions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Zeta.sln"), "Microsoft Visual Studio Solution File, Format Version 12.00\n")
	writeFile(t, filepath.Join(root, "Alpha.slnx"), "<Solution />")
	writeFile(t, filepath.Join(root, "broken", "Broken.sln"), "not a solution")
	writeFile(t, filepath.Join(root, "bin", "Copied.sln"), "Microsoft Visual Studio Solution File")

	found, err := NewDetector(workspace.NewOSFileSystem(), root, workspace.DefaultExcludes).FindSolutions(context.Background())
	require.NoError(t, err)
	require.Len(t, found, 3)

	assert.Equal(t, "Alpha", found[0].Name)
	assert.Equal(t, FormatSlnx, found[0].Format)
	assert.True(t, found[0].Valid)

	assert.Equal(t, "Broken", found[1].Name)
	assert.False(t, found[1].Valid)

	assert.Equal(t, "Zeta", found[2].Name)
	assert.True(t, found[2].Valid)
}

func TestGetParser(t *testing.T) {
	p, err := GetParser("App.SLN")
	require.NoError(t, err)
	assert.IsType(t, &SlnParser{}, p)

	p, err = GetParser("App.slnx")
	require.NoError(t, err)
	assert.True(t, p.CanParse("other.slnx"))

	_, err = GetParser("App.slnf")
	var unsupported *UnsupportedFormatError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, ".slnf", unsupported.Extension)
	assert.Contains(t, err.Error(), "unsupported solution format")

	_, err = GetParser("")
	assert.Error(t, err)
}

func TestParseSolution(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "App.slnx")
	writeFile(t, path, `<Solution><Project Path="App/App.csproj" /></Solution>`)

	sol, err := ParseSolution(workspace.NewOSFileSystem(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "App", "App.csproj")}, sol.ProjectPaths())

	_, err = ParseSolution(workspace.NewOSFileSystem(), filepath.Join(root, "Missing.sln"))
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)

	_, err = ParseSolution(workspace.NewOSFileSystem(), filepath.Join(root, "App.txt"))
	var unsupported *UnsupportedFormatError
	assert.ErrorAs(t, err, &unsupported)
}

func TestFindGlobalJSON(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "global.json"), `{"sdk": {"version": "8.0.100", "rollForward": "latestFeature"}}`)
	nested := filepath.Join(root, "src", "App")
	require.NoError(t, os.MkdirAll(nested, 0755))

	fsys := workspace.NewOSFileSystem()
	g, err := FindGlobalJSON(fsys, nested)
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, "8.0.100", g.SDK.Version)
	assert.Equal(t, "latestFeature", g.SDK.RollForward)
	assert.Nil(t, g.SDK.AllowPrerelease)

	writeFile(t, filepath.Join(nested, "global.json"), `{"sdk": `)
	_, err = FindGlobalJSON(fsys, nested)
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}
