package storage

import "atr/internal/domain"

// BuildOutput converts a run summary into its stored form. Meta counts are taken from the
// summary; every unit that did not pass gets a detail entry.
func BuildOutput(summary domain.RunSummary, meta domain.TestResultsMeta) *domain.TestResultsOutput {
	meta.TotalTests = summary.TotalTests
	meta.PassedTests = summary.TestsPassed
	meta.FailedTests = summary.TestsFailed
	meta.NotRunTests = summary.TestsNotRun

	output := &domain.TestResultsOutput{
		Meta:    meta,
		Results: make([]domain.TestRecord, 0, len(summary.Results)),
		Details: []domain.TestFailure{},
	}
	for _, r := range summary.Results {
		output.Results = append(output.Results, domain.TestRecord{
			ClassName: r.ClassName,
			TestName:  r.TestName,
			Outcome:   r.Outcome,
			Seconds:   r.Duration.Seconds(),
		})
		if r.Outcome == domain.Pass {
			continue
		}
		failure := domain.TestFailure{
			ClassName: r.ClassName,
			TestName:  r.TestName,
			Outcome:   r.Outcome,
			Output:    r.Output,
		}
		if r.Error != nil {
			failure.Kind = r.Error.Kind
			failure.Invocation = r.Error.Invocation
			failure.Message = r.Error.Message
		}
		output.Details = append(output.Details, failure)
	}
	return output
}
