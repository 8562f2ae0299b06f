package commands

import (
	"atr/internal/config"
	"atr/internal/migration"

	"github.com/spf13/cobra"
)

// MigrateCommand handles the migrate command
type MigrateCommand struct {
	config   *config.Config
	migrator migration.Migrator
}

// NewMigrateCommand creates a new MigrateCommand
func NewMigrateCommand(cfg *config.Config, migrator migration.Migrator) *MigrateCommand {
	return &MigrateCommand{
		config:   cfg,
		migrator: migrator,
	}
}

// Execute runs the command
func (mc *MigrateCommand) Execute(cmd *cobra.Command, args []string) error {
	if err := mc.config.LoadEnv(); err != nil {
		return err
	}
	_, err := mc.migrator.Run(cmd.Context())
	return err
}
