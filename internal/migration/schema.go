package migration

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"atr/internal/config"
	"atr/internal/domain"
	"atr/internal/storage"
)

// SchemaMigrator implements Migrator for the mysql result store
type SchemaMigrator struct {
	config          *config.Config
	databaseManager *DatabaseManager
	statements      []storage.SchemaStatement
	out             io.Writer
}

// NewSchemaMigrator creates a new SchemaMigrator applying the result store schema
func NewSchemaMigrator(cfg *config.Config, dbManager *DatabaseManager) *SchemaMigrator {
	return &SchemaMigrator{
		config:          cfg,
		databaseManager: dbManager,
		statements:      storage.Schema,
		out:             os.Stderr,
	}
}

// Run creates the database and every missing table
func (sm *SchemaMigrator) Run(ctx context.Context) ([]domain.MigrationResult, error) {
	color.Cyan("\n╔════════════════════════════════════════════════════════════╗")
	color.Cyan("║               Preparing Result Store                       ║")
	color.Cyan("╚════════════════════════════════════════════════════════════╝\n")

	created, err := sm.databaseManager.CheckAndCreateDatabase(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check database: %w", err)
	}
	results := []domain.MigrationResult{{Name: sm.config.GetDatabaseName(), Created: created}}

	db, err := sm.databaseManager.Open(ctx, true)
	if err != nil {
		return results, err
	}
	defer db.Close()

	color.White("Database: %s | Tables: %d\n\n", sm.config.GetDatabaseName(), len(sm.statements))

	bar := progressbar.NewOptions(len(sm.statements),
		progressbar.OptionSetDescription(color.CyanString("Migrating: ")),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(sm.out),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(sm.out, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	startTime := time.Now()
	var failed []domain.MigrationResult
	for _, s := range sm.statements {
		result := domain.MigrationResult{Name: s.Name}

		exists, err := tableExists(ctx, db, sm.config.GetDatabaseName(), s.Name)
		if err == nil && !exists {
			_, err = db.ExecContext(ctx, s.Statement)
			result.Created = err == nil
		}
		result.Error = err
		if err != nil {
			failed = append(failed, result)
		}
		results = append(results, result)
		bar.Add(1)
	}
	bar.Finish()

	fmt.Print("\n")
	if len(failed) > 0 {
		color.Red("✗ Migration failed for %d table(s)\n", len(failed))
		for _, result := range failed {
			color.Red("  %s: %v\n", result.Name, result.Error)
		}
		return results, fmt.Errorf("migration failed for %d table(s)", len(failed))
	}

	color.Green("✓ Result store ready\n")
	for _, result := range results {
		state := "exists"
		if result.Created {
			state = "created"
		}
		color.White("  %s: %s\n", result.Name, state)
	}
	color.White("Duration: %s\n", time.Since(startTime).Round(time.Millisecond))
	return results, nil
}
