package domain

import "time"

// Outcome is the terminal state of a test unit.
type Outcome string

const (
	Pass   Outcome = "Pass"
	Fail   Outcome = "Fail"
	NotRun Outcome = "NotRun"
)

// ExecutionResult is the result of running one test unit
type ExecutionResult struct {
	ClassName string
	TestName  string
	Outcome   Outcome
	Error     *UnitError    // nil for a clean pass
	Duration  time.Duration // Time taken by all invocations of the unit
	Output    string        // Debug output captured while the unit ran
}

// ID returns the unit identity of the result.
func (r ExecutionResult) ID() UnitID {
	return UnitID{ClassName: r.ClassName, TestName: r.TestName}
}

// RunSummary aggregates the outcomes of a run. TestsPassed, TestsFailed and TestsNotRun
// always sum to TotalTests.
type RunSummary struct {
	TotalTests  int
	TestsPassed int
	TestsFailed int
	TestsNotRun int
	Results     []ExecutionResult // discovery order
}

// OK reports whether every discovered unit ran and passed.
func (s RunSummary) OK() bool {
	return s.TestsFailed == 0 && s.TestsNotRun == 0
}

// Failures returns the results that did not pass, in discovery order.
func (s RunSummary) Failures() []ExecutionResult {
	var failures []ExecutionResult
	for _, r := range s.Results {
		if r.Outcome != Pass {
			failures = append(failures, r)
		}
	}
	return failures
}

// TestResultsMeta contains metadata about a stored run
type TestResultsMeta struct {
	RunID           string   `json:"run_id"`
	Directory       string   `json:"directory"`
	TotalTests      int      `json:"total_tests"`
	PassedTests     int      `json:"passed_tests"`
	FailedTests     int      `json:"failed_tests"`
	NotRunTests     int      `json:"not_run_tests"`
	Duration        string   `json:"duration"`
	DurationSeconds float64  `json:"duration_seconds"`
	LaunchMode      string   `json:"launch_mode"`
	Timestamp       string   `json:"timestamp"`
	Warnings        []string `json:"warnings,omitempty"`
}

// TestRecord is the stored form of one ExecutionResult
type TestRecord struct {
	ClassName string  `json:"class_name"`
	TestName  string  `json:"test_name"`
	Outcome   Outcome `json:"outcome"`
	Seconds   float64 `json:"seconds"`
}

// TestResultsOutput is the complete output structure for a stored run
type TestResultsOutput struct {
	Meta    TestResultsMeta `json:"meta"`
	Results []TestRecord    `json:"results"`
	Details []TestFailure   `json:"details"`
}
