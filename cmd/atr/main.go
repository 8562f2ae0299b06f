package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"atr/internal/cli"
	"atr/internal/cli/commands"
	"atr/internal/config"
	"atr/internal/registry"
	"atr/internal/samples"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:           "atr",
		Short:         "API test runner",
		Long:          `Discovers API test classes from manifests, runs each test with its pre- and post-test hooks against a live HTTP API, and reports a pass/fail/not-run outcome per test.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Register test classes compiled into the binary
	reg := registry.New()
	reg.RegisterModules(samples.Module{})

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg, reg)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	// Execute root command
	if err != nil {
		if !errors.Is(err, commands.ErrTestsFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
