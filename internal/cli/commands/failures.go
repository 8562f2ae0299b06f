package commands

import (
	"fmt"

	"atr/internal/config"
	"atr/internal/storage"
	"atr/internal/ui"

	"github.com/spf13/cobra"
)

// FailuresCommand handles the failures command
type FailuresCommand struct {
	config      *config.Config
	formatter   *ui.Formatter
	summaryOnly bool
}

// NewFailuresCommand creates a new FailuresCommand
func NewFailuresCommand(cfg *config.Config, formatter *ui.Formatter) *FailuresCommand {
	return &FailuresCommand{
		config:    cfg,
		formatter: formatter,
	}
}

// Execute runs the command
func (fc *FailuresCommand) Execute(cmd *cobra.Command, args []string) error {
	if err := fc.config.LoadEnv(); err != nil {
		return err
	}
	st, err := storage.New(fc.config)
	if err != nil {
		return err
	}
	output, err := st.Load()
	if err != nil {
		return fmt.Errorf("failed to load test results: %w", err)
	}

	if fc.summaryOnly {
		fc.formatter.PrintResultsTable(output)
		fc.formatter.PrintMetaStats(output)
		return nil
	}

	var viewer ui.Viewer = ui.NewErrorViewer(st)
	return viewer.View(output)
}
