package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/willibrandon/slncfg/cmd/slncfg/cli"
	"github.com/willibrandon/slncfg/cmd/slncfg/commands"
)

// Version information (set via ldflags during build)
var (
	version = "0.0.0-dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date
	cli.BuiltBy = builtBy
	cli.SetupVersion()

	cli.AddCommand(commands.NewVersionCommand(cli.Console))
	cli.AddCommand(commands.NewSolutionsCommand(cli.Console))
	cli.AddCommand(commands.NewStructureCommand(cli.Console))
	cli.AddCommand(commands.NewBuildConfigCommand(cli.Console))
	cli.AddCommand(commands.NewFrameworksCommand(cli.Console))
	cli.AddCommand(commands.NewDiagnoseCommand(cli.Console))
	cli.AddCommand(commands.NewSourcesCommand(cli.Console))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		os.Exit(130) // 128 + SIGINT
	}()

	if err := cli.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
