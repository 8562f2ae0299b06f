package commands

import (
	"atr/internal/config"
	"atr/internal/discovery"
	"atr/internal/domain"
	"atr/internal/registry"
	"atr/internal/storage"
	"atr/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	registry  *registry.Registry
	scanner   *discovery.Scanner
	formatter *ui.Formatter
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	reg *registry.Registry,
	scanner *discovery.Scanner,
	formatter *ui.Formatter,
) *ListCommand {
	return &ListCommand{
		config:    cfg,
		registry:  reg,
		scanner:   scanner,
		formatter: formatter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	cat, warnings, err := loadCatalog(lc.config, lc.registry, lc.scanner)
	if err != nil {
		return err
	}
	lc.formatter.PrintWarnings(warnings)

	if cat.IsEmpty() {
		color.Yellow("No tests found")
		return nil
	}

	lc.formatter.PrintCatalog(cat, lc.lastFailed())
	return nil
}

// lastFailed returns the units that did not pass in the last stored run. A missing or
// unreadable store marks nothing.
func (lc *ListCommand) lastFailed() map[domain.UnitID]struct{} {
	failed := map[domain.UnitID]struct{}{}
	st, err := storage.New(lc.config)
	if err != nil {
		return failed
	}
	output, err := st.Load()
	if err != nil {
		return failed
	}
	for _, d := range output.Details {
		if !d.Resolved {
			failed[domain.UnitID{ClassName: d.ClassName, TestName: d.TestName}] = struct{}{}
		}
	}
	return failed
}
