// Package summary reduces execution results into a run summary.
package summary

import "atr/internal/domain"

// Aggregate counts the outcomes of results. The results slice is kept as given, so the
// summary lists units in discovery order.
func Aggregate(results []domain.ExecutionResult) domain.RunSummary {
	s := domain.RunSummary{
		TotalTests: len(results),
		Results:    results,
	}
	for _, r := range results {
		switch r.Outcome {
		case domain.Pass:
			s.TestsPassed++
		case domain.Fail:
			s.TestsFailed++
		default:
			s.TestsNotRun++
		}
	}
	return s
}
