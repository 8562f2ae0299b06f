package ui

import "atr/internal/domain"

// Viewer displays stored failures in an interactive TUI
type Viewer interface {
	View(results *domain.TestResultsOutput) error
}
