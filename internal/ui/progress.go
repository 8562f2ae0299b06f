package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"atr/internal/domain"
)

// ProgressBar shows run progress. It receives the engine's test events.
type ProgressBar struct {
	bar *progressbar.ProgressBar

	mu                     sync.Mutex
	passed, failed, notRun int
}

// NewProgressBar creates a new progress bar for count units, drawn on stderr
func NewProgressBar(count int) *ProgressBar {
	return NewProgressBarTo(count, os.Stderr)
}

// NewProgressBarTo creates a new progress bar for count units, drawn on w
func NewProgressBarTo(count int, w io.Writer) *ProgressBar {
	bar := progressbar.NewOptions(count,
		progressbar.OptionSetDescription(describe(0, 0, 0)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(w),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ProgressBar{bar: bar}
}

func describe(passed, failed, notRun int) string {
	return color.CyanString("Running tests: ") +
		color.GreenString("[passed: %d", passed) +
		" | " +
		color.RedString("failed: %d", failed) +
		" | " +
		color.YellowString("not run: %d]", notRun)
}

// Update updates the progress bar with the outcome counts
func (p *ProgressBar) Update(passed, failed, notRun int) {
	p.bar.Set(passed + failed + notRun)
	p.bar.Describe(describe(passed, failed, notRun))
}

// Counts returns the outcome counts seen so far
func (p *ProgressBar) Counts() (passed, failed, notRun int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.passed, p.failed, p.notRun
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	p.bar.Finish()
}

func (p *ProgressBar) TestStarted(domain.UnitID) {}

func (p *ProgressBar) TestError(domain.UnitID, *domain.UnitError) {}

func (p *ProgressBar) TestFinished(_ domain.UnitID, result domain.ExecutionResult) {
	p.mu.Lock()
	if result.Outcome == domain.Pass {
		p.passed++
	} else {
		p.failed++
	}
	passed, failed, notRun := p.passed, p.failed, p.notRun
	p.mu.Unlock()
	p.Update(passed, failed, notRun)
}

func (p *ProgressBar) TestNotRun(domain.UnitID, *domain.UnitError) {
	p.mu.Lock()
	p.notRun++
	passed, failed, notRun := p.passed, p.failed, p.notRun
	p.mu.Unlock()
	p.Update(passed, failed, notRun)
}
