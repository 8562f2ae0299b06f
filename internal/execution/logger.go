package execution

import "atr/internal/domain"

// TestLogger receives progress events from the engine. Implementations are called from the
// goroutine running Engine.Run.
type TestLogger interface {
	TestStarted(id domain.UnitID)
	TestError(id domain.UnitID, err *domain.UnitError)
	TestFinished(id domain.UnitID, result domain.ExecutionResult)
	TestNotRun(id domain.UnitID, reason *domain.UnitError)
}

type nullTestLogger struct{}

func (nullTestLogger) TestStarted(domain.UnitID) {}
func (nullTestLogger) TestError(domain.UnitID, *domain.UnitError) {}
func (nullTestLogger) TestFinished(domain.UnitID, domain.ExecutionResult) {}
func (nullTestLogger) TestNotRun(domain.UnitID, *domain.UnitError) {}

// NullTestLogger returns a TestLogger that ignores every event.
func NullTestLogger() TestLogger { return nullTestLogger{} }
