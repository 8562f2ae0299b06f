package ui

import (
	"errors"
	"io"
	"testing"

	"atr/internal/domain"
	"atr/internal/execution"
)

var _ execution.TestLogger = (*ProgressBar)(nil)

func TestProgressBar_CountsEvents(t *testing.T) {
	p := NewProgressBarTo(4, io.Discard)

	id := domain.UnitID{ClassName: "A", TestName: "B"}
	p.TestStarted(id)
	p.TestFinished(id, domain.ExecutionResult{Outcome: domain.Pass})
	p.TestStarted(id)
	p.TestError(id, domain.NewUnitError(domain.InvocationTest, errors.New("bad")))
	p.TestFinished(id, domain.ExecutionResult{Outcome: domain.Fail})
	p.TestNotRun(id, nil)
	p.TestNotRun(id, nil)
	p.Finish()

	passed, failed, notRun := p.Counts()
	if passed != 1 || failed != 1 || notRun != 2 {
		t.Errorf("expected 1/1/2, got %d/%d/%d", passed, failed, notRun)
	}
}
