package storage

import (
	"fmt"

	"atr/internal/config"
	"atr/internal/domain"
)

// Storage persists and loads run results (e.g. for the failures viewer).
type Storage interface {
	Save(summary domain.RunSummary, meta domain.TestResultsMeta) error
	Load() (*domain.TestResultsOutput, error)
	// SaveOutput writes the full output (e.g. after failures are marked resolved).
	SaveOutput(output *domain.TestResultsOutput) error
}

// JSONStorage stores results in a JSON file under the configured output path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}

// New returns the result store selected by the config's storage driver.
func New(cfg *config.Config) (Storage, error) {
	switch cfg.StorageDriver {
	case "", "json":
		return NewJSONStorage(cfg), nil
	case "mysql":
		return NewMySQLStorage(cfg), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q (expected json or mysql)", cfg.StorageDriver)
	}
}
