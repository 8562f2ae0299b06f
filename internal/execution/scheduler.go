package execution

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"atr/internal/domain"
)

// LaunchMode selects how the invocations of one unit are launched.
type LaunchMode string

const (
	// Sequential awaits the pre-test hook, then the test body, then the post-test hook.
	Sequential LaunchMode = "sequential"
	// Concurrent launches all invocations of a unit together and joins them.
	Concurrent LaunchMode = "concurrent"
)

// ParseLaunchMode parses a launch mode name. The empty string means Sequential.
func ParseLaunchMode(s string) (LaunchMode, error) {
	switch LaunchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", Sequential:
		return Sequential, nil
	case Concurrent:
		return Concurrent, nil
	default:
		return "", fmt.Errorf("unknown launch mode %q (expected %s or %s)", s, Sequential, Concurrent)
	}
}

// Step is one invocation of a unit.
type Step struct {
	Invocation domain.Invocation
	Call       func(ctx context.Context) error
}

// Scheduler launches the steps of one unit and returns the first error, or nil when every
// launched step succeeded.
type Scheduler interface {
	Launch(ctx context.Context, steps []Step) *domain.UnitError
}

// NewScheduler returns the scheduler for a launch mode.
func NewScheduler(mode LaunchMode) Scheduler {
	if mode == Concurrent {
		return NewConcurrentScheduler()
	}
	return NewSequentialScheduler()
}

// SequentialScheduler runs steps one after the other. A failing pre-test hook skips the
// test body; the post-test hook runs unless the unit's context is already done.
type SequentialScheduler struct{}

// NewSequentialScheduler creates a new SequentialScheduler
func NewSequentialScheduler() *SequentialScheduler {
	return &SequentialScheduler{}
}

// Launch runs the steps in order. The first error wins. Once ctx is done no further step is
// started, so a unit that timed out stops touching the shared class instance.
func (s *SequentialScheduler) Launch(ctx context.Context, steps []Step) *domain.UnitError {
	var first *domain.UnitError
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			if first == nil {
				first = domain.NewUnitError(step.Invocation, fmt.Errorf("not started: %w", err))
			}
			break
		}
		if first != nil && step.Invocation == domain.InvocationTest {
			continue
		}
		if err := invoke(ctx, step); err != nil && first == nil {
			first = domain.NewUnitError(step.Invocation, err)
		}
	}
	return first
}

// ConcurrentScheduler starts every step at once and waits for all of them.
type ConcurrentScheduler struct{}

// NewConcurrentScheduler creates a new ConcurrentScheduler
func NewConcurrentScheduler() *ConcurrentScheduler {
	return &ConcurrentScheduler{}
}

// Launch starts all steps and joins them. The first error to complete wins.
func (s *ConcurrentScheduler) Launch(ctx context.Context, steps []Step) *domain.UnitError {
	var g errgroup.Group
	for _, step := range steps {
		step := step
		g.Go(func() error {
			if err := invoke(ctx, step); err != nil {
				return domain.NewUnitError(step.Invocation, err)
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		return nil
	}
	var unitErr *domain.UnitError
	if errors.As(err, &unitErr) {
		return unitErr
	}
	return domain.NewUnitError(domain.InvocationTest, err)
}

// invoke calls a step, turning a panic into an error.
func invoke(ctx context.Context, step Step) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected panic in %s: %v", step.Invocation, r)
		}
	}()
	return step.Call(ctx)
}
