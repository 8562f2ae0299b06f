package execution

import (
	"context"
	"fmt"
	"time"

	"atr/internal/catalog"
	"atr/internal/domain"
	"atr/internal/logging"
	"atr/internal/restcall"
)

// Runner executes a single test unit against an existing instance of its class
type Runner struct {
	scheduler Scheduler
	timeout   time.Duration
}

// NewRunner creates a new Runner. A zero timeout disables the per-unit time limit.
func NewRunner(scheduler Scheduler, timeout time.Duration) *Runner {
	return &Runner{scheduler: scheduler, timeout: timeout}
}

// Run executes the pre-test hook, the test body and the post-test hook of one unit. Output
// logged through the client while the unit runs is captured on the result.
func (r *Runner) Run(ctx context.Context, d catalog.ClassDescriptor, instance interface{}, test catalog.MethodHandle, client *restcall.Client) domain.ExecutionResult {
	capture := logging.NewUnitCapture()
	unitClient := client.WithLogger(logging.Tee(capture, client.Logger()))

	call := func(h catalog.MethodHandle) func(context.Context) error {
		return func(ctx context.Context) error {
			return h.Invoke(ctx, instance, unitClient)
		}
	}

	var steps []Step
	if d.PreTest != nil {
		steps = append(steps, Step{Invocation: domain.InvocationPreTest, Call: call(*d.PreTest)})
	}
	steps = append(steps, Step{Invocation: domain.InvocationTest, Call: call(test)})
	if d.PostTest != nil {
		steps = append(steps, Step{Invocation: domain.InvocationPostTest, Call: call(*d.PostTest)})
	}

	start := time.Now()
	unitErr := r.launch(ctx, steps)

	result := domain.ExecutionResult{
		ClassName: d.Name(),
		TestName:  test.Name,
		Outcome:   domain.Pass,
		Duration:  time.Since(start),
		Output:    capture.Entries().String(),
	}
	if unitErr != nil {
		result.Outcome = domain.Fail
		result.Error = unitErr
	}
	return result
}

func (r *Runner) launch(ctx context.Context, steps []Step) *domain.UnitError {
	if r.timeout <= 0 {
		return r.scheduler.Launch(ctx, steps)
	}

	unitCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	done := make(chan *domain.UnitError, 1)
	go func() {
		done <- r.scheduler.Launch(unitCtx, steps)
	}()

	select {
	case unitErr := <-done:
		return unitErr
	case <-unitCtx.Done():
		if err := ctx.Err(); err != nil {
			return domain.NewUnitError(domain.InvocationTest, fmt.Errorf("unit interrupted: %w", err))
		}
		return domain.NewUnitError(domain.InvocationTest, &domain.TimeoutError{Invocation: domain.InvocationTest, After: r.timeout})
	}
}
