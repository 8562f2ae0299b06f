package commands

import (
	"fmt"
	"log"
	"os"
	"time"

	"atr/internal/catalog"
	"atr/internal/config"
	"atr/internal/discovery"
	"atr/internal/domain"
	"atr/internal/execution"
	"atr/internal/logging"
	"atr/internal/registry"
	"atr/internal/storage"
	"atr/internal/summary"
	"atr/internal/ui"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// RunCommand handles the run command
type RunCommand struct {
	config    *config.Config
	registry  *registry.Registry
	scanner   *discovery.Scanner
	formatter *ui.Formatter
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	reg *registry.Registry,
	scanner *discovery.Scanner,
	formatter *ui.Formatter,
) *RunCommand {
	return &RunCommand{
		config:    cfg,
		registry:  reg,
		scanner:   scanner,
		formatter: formatter,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	if err := rc.config.LoadEnv(); err != nil {
		return err
	}
	vars, err := rc.config.Variables()
	if err != nil {
		return err
	}
	mode, err := execution.ParseLaunchMode(rc.config.LaunchMode)
	if err != nil {
		return err
	}
	st, err := storage.New(rc.config)
	if err != nil {
		return err
	}

	// Discover tests
	cat, warnings, err := loadCatalog(rc.config, rc.registry, rc.scanner)
	if err != nil {
		return err
	}
	rc.formatter.PrintWarnings(warnings)

	if cat.IsEmpty() {
		color.Yellow("No tests to execute")
		return nil
	}

	var progressBar *ui.ProgressBar
	var testLogger execution.TestLogger
	if rc.config.Flags.Progress {
		progressBar = ui.NewProgressBar(cat.TotalTests())
		testLogger = progressBar
	}

	debugLogger := logging.NullLogger()
	if rc.config.Flags.Debug {
		debugLogger = log.New(os.Stderr, "[atr] ", log.LstdFlags)
	}

	engine := execution.NewEngine(execution.Options{
		Mode:        mode,
		UnitTimeout: rc.config.UnitTimeout,
		FailFast:    rc.config.Flags.FailFast,
		DebugLogger: debugLogger,
	}, testLogger)

	// Execute tests
	results, duration, runErr := engine.Run(cmd.Context(), cat, vars)
	if progressBar != nil {
		progressBar.Finish()
	}

	s := summary.Aggregate(results)
	rc.formatter.PrintReport(s)
	if rc.config.Flags.Debug {
		rc.formatter.PrintUnitOutput(s)
	}

	// Save results
	meta := newMeta(rc.config, mode, duration, warnings)
	if err := st.Save(s, meta); err != nil {
		return fmt.Errorf("failed to save test results: %w", err)
	}

	if rc.config.Flags.OpenFailures && !s.OK() {
		output, err := st.Load()
		if err != nil {
			return err
		}
		if err := ui.NewErrorViewer(st).View(output); err != nil {
			return err
		}
	}

	if runErr != nil {
		return runErr
	}
	if !s.OK() {
		return ErrTestsFailed
	}
	return nil
}

// loadCatalog returns the registered catalog or scans the configured directory.
func loadCatalog(cfg *config.Config, reg *registry.Registry, scanner *discovery.Scanner) (*catalog.Catalog, []error, error) {
	if cfg.Flags.AllRegistered {
		return reg.Catalog(), nil, nil
	}
	return scanner.Scan(cfg.GetDirectory(), cfg.Flags.Filter)
}

func newMeta(cfg *config.Config, mode execution.LaunchMode, duration time.Duration, warnings []error) domain.TestResultsMeta {
	meta := domain.TestResultsMeta{
		RunID:           uuid.NewString(),
		Directory:       cfg.GetDirectory(),
		Duration:        duration.Round(time.Millisecond).String(),
		DurationSeconds: duration.Seconds(),
		LaunchMode:      string(mode),
		Timestamp:       time.Now().Format(time.RFC3339),
	}
	if cfg.Flags.AllRegistered {
		meta.Directory = ""
	}
	for _, w := range warnings {
		meta.Warnings = append(meta.Warnings, w.Error())
	}
	return meta
}
