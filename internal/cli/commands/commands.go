package commands

import (
	"errors"

	"atr/internal/cli"
	"atr/internal/config"
	"atr/internal/discovery"
	"atr/internal/migration"
	"atr/internal/registry"
	"atr/internal/samples"
	"atr/internal/ui"

	"github.com/spf13/cobra"
)

// ErrTestsFailed is returned by the run command when any unit failed or did not run.
var ErrTestsFailed = errors.New("tests failed")

// Commands holds all CLI commands
type Commands struct {
	Run      *RunCommand
	List     *ListCommand
	Migrate  *MigrateCommand
	Failures *FailuresCommand
	Serve    *ServeCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config, reg *registry.Registry) *Commands {
	scanner := discovery.NewScanner(reg, cfg.PathsToIgnore)
	formatter := ui.NewFormatter(cfg)
	dbManager := migration.NewDatabaseManager(cfg)
	migrator := migration.NewSchemaMigrator(cfg, dbManager)

	return &Commands{
		Run:      NewRunCommand(cfg, reg, scanner, formatter),
		List:     NewListCommand(cfg, reg, scanner, formatter),
		Migrate:  NewMigrateCommand(cfg, migrator),
		Failures: NewFailuresCommand(cfg, formatter),
		Serve:    NewServeCommand(samples.DefaultAddr),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	// applyFlags copies parsed flags and the directory argument into the config
	applyFlags := func(cmd *cobra.Command, args []string) error {
		dir, assignments, err := cli.ParseDirectoryArg(args)
		if err != nil {
			return err
		}
		flags.Directory = dir
		flags.ArgVars = assignments
		flags.TimeoutSet = cmd.Flags().Changed("timeout")
		cfg.Apply(flags.ToConfigFlags())
		return nil
	}

	// Run command
	runCmd := &cobra.Command{
		Use:     "run [directory=<path>] [name=value...]",
		Short:   "Discover and run API tests",
		Long:    "Scan a directory for test manifests, run every discovered test against the live API and report the outcome of each",
		RunE:    c.Run.Execute,
		PreRunE: applyFlags,
	}
	runCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Filter manifests by name pattern (supports wildcards, e.g., '*Samples*')")
	runCmd.Flags().StringArrayVar(&flags.Vars, "var", nil, "Set a variable used in request URIs (name=value, repeatable)")
	runCmd.Flags().StringArrayVar(&flags.VarsFiles, "vars-file", nil, "Load variables from a dotenv-style file (repeatable)")
	runCmd.Flags().DurationVar(&flags.Timeout, "timeout", config.DefaultUnitTimeout, "Time limit for one test unit including its hooks (0 disables)")
	runCmd.Flags().StringVar(&flags.LaunchMode, "launch-mode", config.DefaultLaunchMode, "Hook launch mode: sequential or concurrent")
	runCmd.Flags().BoolVar(&flags.AllRegistered, "all-registered", false, "Run every registered test class instead of scanning for manifests")
	runCmd.Flags().StringVar(&flags.Storage, "storage", "", "Result store: json or mysql")
	runCmd.Flags().BoolVar(&flags.Progress, "progress", false, "Show a progress bar while tests run")
	runCmd.Flags().BoolVar(&flags.Debug, "debug", false, "Log requests and print captured unit output")
	runCmd.Flags().BoolVar(&flags.OpenFailures, "open-failures", false, "Open the failures viewer when the run finishes with failures")
	runCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop on first test failure")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list [directory=<path>]",
		Short:   "List discovered tests",
		Long:    "Scan and list all test classes, hooks and tests without executing them",
		RunE:    c.List.Execute,
		PreRunE: applyFlags,
	}
	listCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Filter manifests by name pattern (supports wildcards, e.g., '*Samples*')")
	listCmd.Flags().BoolVar(&flags.AllRegistered, "all-registered", false, "List every registered test class instead of scanning for manifests")
	listCmd.Flags().StringVar(&flags.Storage, "storage", "", "Result store used to mark failed tests: json or mysql")
	rootCmd.AddCommand(listCmd)

	// Migrate command
	migrateCmd := &cobra.Command{
		Use:     "migrate [directory=<path>]",
		Short:   "Create the mysql result store",
		Long:    "Create the result store database and its tables using the DB_* settings of the environment or .env file",
		RunE:    c.Migrate.Execute,
		PreRunE: applyFlags,
	}
	rootCmd.AddCommand(migrateCmd)

	// Failures command
	failuresCmd := &cobra.Command{
		Use:     "failures",
		Short:   "View test failures interactively",
		Long:    "Display test failures from the last test run in an interactive viewer",
		RunE:    c.Failures.Execute,
		PreRunE: applyFlags,
	}
	failuresCmd.Flags().StringVar(&flags.Storage, "storage", "", "Result store: json or mysql")
	failuresCmd.Flags().BoolVar(&c.Failures.summaryOnly, "summary", false, "Print the stored results table and statistics instead of opening the viewer")
	rootCmd.AddCommand(failuresCmd)

	// Serve command
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the sample API",
		Long:  "Serve the sample items API that the bundled sample tests call",
		RunE:  c.Serve.Execute,
	}
	serveCmd.Flags().StringVar(&c.Serve.addr, "addr", c.Serve.addr, "Address to listen on")
	rootCmd.AddCommand(serveCmd)
}
