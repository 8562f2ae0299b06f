package migration

import (
	"context"

	"atr/internal/domain"
)

// Migrator prepares the result store
type Migrator interface {
	Run(ctx context.Context) ([]domain.MigrationResult, error)
}
