package solution_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/willibrandon/slncfg/solution"
	"github.com/willibrandon/slncfg/workspace"
)

// ExampleParseSolution parses an XML solution and prints its tree.
func ExampleParseSolution() {
	tempDir, err := os.MkdirTemp("", "solution-example-*")
	if err != nil {
		panic(err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	slnxPath := filepath.Join(tempDir, "Example.slnx")
	slnxContent := `<Solution>
  <Folder Name="src">
    <Project Path="src/Api/Api.csproj" />
  </Folder>
  <Project Path="tests/Api.Tests/Api.Tests.csproj" />
</Solution>`
	if err := os.WriteFile(slnxPath, []byte(slnxContent), 0644); err != nil {
		panic(err)
	}

	sol, err := solution.ParseSolution(workspace.NewOSFileSystem(), slnxPath)
	if err != nil {
		panic(err)
	}

	sol.Walk(func(item solution.Item, depth int) {
		switch item.Kind {
		case solution.ItemFolder:
			fmt.Printf("%*s[%s]\n", depth*2, "", item.Folder.Name)
		case solution.ItemProject:
			fmt.Printf("%*s%s\n", depth*2, "", item.Project.Name)
		}
	})

	// Output:
	// [src]
	//   Api
	// Api.Tests
}
