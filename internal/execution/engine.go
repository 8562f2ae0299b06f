package execution

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"atr/internal/catalog"
	"atr/internal/domain"
	"atr/internal/logging"
	"atr/internal/restcall"
	"atr/internal/variables"
)

// DefaultUnitTimeout bounds a single unit unless Options.UnitTimeout says otherwise.
const DefaultUnitTimeout = 2 * time.Minute

// Options configures an Engine.
type Options struct {
	Mode        LaunchMode
	UnitTimeout time.Duration // 0 disables the limit
	FailFast    bool          // stop after the first failing unit
	HTTPClient  *http.Client  // nil means http.DefaultClient
	DebugLogger logging.Logger
}

// Engine runs the units of a catalog class by class, in discovery order.
type Engine struct {
	opts       Options
	runner     *Runner
	testLogger TestLogger
}

// NewEngine creates a new Engine. A nil testLogger discards progress events.
func NewEngine(opts Options, testLogger TestLogger) *Engine {
	if opts.DebugLogger == nil {
		opts.DebugLogger = logging.NullLogger()
	}
	if testLogger == nil {
		testLogger = NullTestLogger()
	}
	return &Engine{
		opts:       opts,
		runner:     NewRunner(NewScheduler(opts.Mode), opts.UnitTimeout),
		testLogger: testLogger,
	}
}

// Run executes every unit of cat and returns one result per unit, in discovery order. A
// class that cannot be constructed reports all of its units as NotRun. When ctx is cancelled
// the remaining units are reported as NotRun and the context error is returned with the
// complete results.
func (e *Engine) Run(ctx context.Context, cat *catalog.Catalog, vars variables.Context) ([]domain.ExecutionResult, time.Duration, error) {
	if cat == nil {
		return nil, 0, errors.New("no test catalog to run")
	}

	opts := []restcall.Option{restcall.WithDebugLogger(e.opts.DebugLogger)}
	if e.opts.HTTPClient != nil {
		opts = append(opts, restcall.WithHTTPClient(e.opts.HTTPClient))
	}
	client := restcall.New(vars, opts...)

	startTime := time.Now()
	results := make([]domain.ExecutionResult, 0, cat.TotalTests())
	var stopReason string

	for _, d := range cat.Classes {
		if stopReason == "" && ctx.Err() != nil {
			stopReason = fmt.Sprintf("run cancelled: %v", ctx.Err())
		}
		if stopReason != "" {
			results = append(results, e.notRun(d.Units(), domain.NewUnitError(domain.InvocationTest, &domain.SkippedError{Reason: stopReason}))...)
			continue
		}

		instance, err := construct(d)
		if err != nil {
			e.opts.DebugLogger.Printf("%s: %v", d.Name(), err)
			reason := domain.NewUnitError(domain.InvocationConstruct, &domain.ConstructionError{Class: d.Name(), Err: err})
			results = append(results, e.notRun(d.Units(), reason)...)
			continue
		}

		for _, test := range d.Tests {
			id := domain.UnitID{ClassName: d.Name(), TestName: test.Name}
			if stopReason == "" && ctx.Err() != nil {
				stopReason = fmt.Sprintf("run cancelled: %v", ctx.Err())
			}
			if stopReason != "" {
				results = append(results, e.notRun([]domain.UnitID{id}, domain.NewUnitError(domain.InvocationTest, &domain.SkippedError{Reason: stopReason}))...)
				continue
			}

			e.testLogger.TestStarted(id)
			result := e.runner.Run(ctx, d, instance, test, client)
			if result.Error != nil {
				e.testLogger.TestError(id, result.Error)
			}
			e.testLogger.TestFinished(id, result)
			results = append(results, result)

			if e.opts.FailFast && result.Outcome == domain.Fail {
				stopReason = fmt.Sprintf("stopped after %s failed", id)
			}
		}
	}

	elapsed := time.Since(startTime)
	if err := ctx.Err(); err != nil {
		return results, elapsed, fmt.Errorf("run interrupted: %w", err)
	}
	return results, elapsed, nil
}

func (e *Engine) notRun(units []domain.UnitID, reason *domain.UnitError) []domain.ExecutionResult {
	results := make([]domain.ExecutionResult, 0, len(units))
	for _, id := range units {
		e.testLogger.TestNotRun(id, reason)
		results = append(results, domain.ExecutionResult{
			ClassName: id.ClassName,
			TestName:  id.TestName,
			Outcome:   domain.NotRun,
			Error:     reason,
		})
	}
	return results
}

// construct creates an instance of the class, turning a panic into an error.
func construct(d catalog.ClassDescriptor) (instance interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected panic: %v", r)
		}
	}()
	if d.Type.New == nil {
		return nil, errors.New("no constructor")
	}
	return d.Type.New()
}
