package summary

import (
	"testing"

	"atr/internal/domain"
)

func result(class, test string, outcome domain.Outcome) domain.ExecutionResult {
	return domain.ExecutionResult{ClassName: class, TestName: test, Outcome: outcome}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name    string
		results []domain.ExecutionResult
		total   int
		passed  int
		failed  int
		notRun  int
		ok      bool
	}{
		{
			name:  "no results",
			total: 0,
			ok:    true,
		},
		{
			name: "two passing classes and one failure",
			results: []domain.ExecutionResult{
				result("ClassA", "First", domain.Pass),
				result("ClassA", "Second", domain.Pass),
				result("ClassB", "Only", domain.Fail),
			},
			total:  3,
			passed: 2,
			failed: 1,
		},
		{
			name: "not run units",
			results: []domain.ExecutionResult{
				result("ClassA", "First", domain.NotRun),
				result("ClassA", "Second", domain.NotRun),
				result("ClassB", "Only", domain.Pass),
			},
			total:  3,
			passed: 1,
			notRun: 2,
		},
		{
			name: "all passing",
			results: []domain.ExecutionResult{
				result("ClassA", "First", domain.Pass),
			},
			total:  1,
			passed: 1,
			ok:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Aggregate(tt.results)
			if s.TotalTests != tt.total || s.TestsPassed != tt.passed || s.TestsFailed != tt.failed || s.TestsNotRun != tt.notRun {
				t.Errorf("expected %d/%d/%d/%d, got %d/%d/%d/%d",
					tt.total, tt.passed, tt.failed, tt.notRun,
					s.TotalTests, s.TestsPassed, s.TestsFailed, s.TestsNotRun)
			}
			if s.TestsPassed+s.TestsFailed+s.TestsNotRun != s.TotalTests {
				t.Error("outcome counts do not add up to the total")
			}
			if s.OK() != tt.ok {
				t.Errorf("expected OK() = %v", tt.ok)
			}
			if len(s.Results) != len(tt.results) {
				t.Fatalf("expected %d results, got %d", len(tt.results), len(s.Results))
			}
			for i := range tt.results {
				if s.Results[i].ID() != tt.results[i].ID() {
					t.Errorf("result %d out of order: %s", i, s.Results[i].ID())
				}
			}
		})
	}
}

func TestRunSummary_Failures(t *testing.T) {
	s := Aggregate([]domain.ExecutionResult{
		result("ClassA", "First", domain.Fail),
		result("ClassA", "Second", domain.Pass),
		result("ClassB", "Only", domain.NotRun),
	})

	failures := s.Failures()
	if len(failures) != 2 {
		t.Fatalf("expected 2 failures, got %d", len(failures))
	}
	if failures[0].TestName != "First" || failures[1].TestName != "Only" {
		t.Errorf("unexpected failures: %v", failures)
	}
}
