package execution

import (
	"context"
	"time"

	"atr/internal/catalog"
	"atr/internal/domain"
	"atr/internal/variables"
)

// Executor executes a catalog and returns one result per discovered unit
type Executor interface {
	Run(ctx context.Context, cat *catalog.Catalog, vars variables.Context) ([]domain.ExecutionResult, time.Duration, error)
}
