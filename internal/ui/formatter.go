package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"

	"atr/internal/catalog"
	"atr/internal/config"
	"atr/internal/domain"
)

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
	out    io.Writer

	cyan, green, red, yellow, white *color.Color
}

// NewFormatter creates a new Formatter writing to stdout
func NewFormatter(cfg *config.Config) *Formatter {
	return NewFormatterTo(cfg, os.Stdout)
}

// NewFormatterTo creates a new Formatter writing to out
func NewFormatterTo(cfg *config.Config, out io.Writer) *Formatter {
	return &Formatter{
		config: cfg,
		out:    out,
		cyan:   color.New(color.FgCyan),
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		white:  color.New(color.FgWhite),
	}
}

func (f *Formatter) outcomeColor(o domain.Outcome) *color.Color {
	switch o {
	case domain.Fail:
		return f.red
	case domain.NotRun:
		return f.yellow
	default:
		return f.green
	}
}

// PrintReport prints the run counts, one line per unit and the message of every failure
func (f *Formatter) PrintReport(s domain.RunSummary) {
	fmt.Fprintf(f.out, "%d tests run\n", s.TotalTests)
	fmt.Fprintf(f.out, "%d tests failed\n", s.TestsFailed)
	fmt.Fprintf(f.out, "%d tests passed\n", s.TestsPassed)
	fmt.Fprintf(f.out, "%d tests not run\n", s.TestsNotRun)

	for _, r := range s.Results {
		fmt.Fprintf(f.out, "%s:%s: ", r.ClassName, r.TestName)
		f.outcomeColor(r.Outcome).Fprintln(f.out, string(r.Outcome))
		if r.Outcome == domain.Fail && r.Error != nil {
			fmt.Fprintf(f.out, "%s:%s\n", r.TestName, r.Error.Message)
		}
	}
}

// PrintUnitOutput prints the captured debug output of every unit that did not pass
func (f *Formatter) PrintUnitOutput(s domain.RunSummary) {
	for _, r := range s.Failures() {
		if r.Output == "" {
			continue
		}
		f.cyan.Fprintf(f.out, "\n%s output:\n", r.ID())
		fmt.Fprint(f.out, indent(r.Output, "  "))
	}
}

// PrintWarnings prints scan warnings
func (f *Formatter) PrintWarnings(warnings []error) {
	for _, w := range warnings {
		f.yellow.Fprintf(f.out, "warning: %v\n", w)
	}
}

// PrintMetaStats displays the statistics of a stored run
func (f *Formatter) PrintMetaStats(output *domain.TestResultsOutput) {
	meta := output.Meta

	fmt.Fprint(f.out, "\n")
	f.cyan.Fprintln(f.out, "╔═══════════════════════════════════════════════════════════════╗")
	f.cyan.Fprintln(f.out, "║                    Test Execution Statistics                  ║")
	f.cyan.Fprintln(f.out, "╚═══════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(f.out)

	rows := []struct {
		label string
		value string
		c     *color.Color
	}{
		{"Total Tests", fmt.Sprint(meta.TotalTests), f.white},
		{"Passed Tests", fmt.Sprint(meta.PassedTests), f.green},
		{"Failed Tests", fmt.Sprint(meta.FailedTests), f.red},
		{"Not Run Tests", fmt.Sprint(meta.NotRunTests), f.yellow},
		{"Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds), f.white},
		{"Launch Mode", meta.LaunchMode, f.white},
		{"Timestamp", meta.Timestamp, f.white},
	}

	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	for i, row := range rows {
		fmt.Fprintf(f.out, "│ %-31s │ ", row.label)
		row.c.Fprintf(f.out, "%-27s", row.value)
		fmt.Fprintln(f.out, " │")
		if i < len(rows)-1 {
			fmt.Fprintln(f.out, "├─────────────────────────────────┼─────────────────────────────┤")
		}
	}
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")

	fmt.Fprintln(f.out)
	if meta.FailedTests == 0 && meta.NotRunTests == 0 {
		f.green.Fprintln(f.out, "✓ All tests passed!")
		return
	}
	f.red.Fprintf(f.out, "✗ %d test(s) failed, %d test(s) not run\n", meta.FailedTests, meta.NotRunTests)
	fmt.Fprintln(f.out)
	f.PrintFailedTestsTree(output.Details)
}

// PrintFailedTestsTree prints the failures grouped by class
func (f *Formatter) PrintFailedTestsTree(failures []domain.TestFailure) {
	if len(failures) == 0 {
		return
	}

	byClass := make(map[string][]domain.TestFailure)
	for _, failure := range failures {
		byClass[failure.ClassName] = append(byClass[failure.ClassName], failure)
	}
	classes := make([]string, 0, len(byClass))
	for class := range byClass {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	for i, class := range classes {
		isLastClass := i == len(classes)-1
		f.yellow.Fprintf(f.out, "%s%s\n", branch(isLastClass), class)

		cases := byClass[class]
		for j, failure := range cases {
			prefix := childPrefix(isLastClass) + branch(j == len(cases)-1)
			f.outcomeColor(failure.Outcome).Fprintf(f.out, "%s%s", prefix, failure.TestName)
			if failure.Resolved {
				fmt.Fprint(f.out, " (resolved)")
			}
			fmt.Fprintln(f.out)
		}
	}
}

// PrintCatalog prints the discovered classes and their units as a tree. Units that did not
// pass in the last stored run are marked with [F].
func (f *Formatter) PrintCatalog(cat *catalog.Catalog, failed map[domain.UnitID]struct{}) {
	f.green.Fprintf(f.out, "Found %d test(s) in %d class(es):\n\n", cat.TotalTests(), len(cat.Classes))

	for i, d := range cat.Classes {
		isLastClass := i == len(cat.Classes)-1
		f.cyan.Fprintf(f.out, "%s%s", branch(isLastClass), d.Name())
		fmt.Fprintf(f.out, " (%s)\n", f.relativeModule(d.Module))

		var entries []string
		if d.PreTest != nil {
			entries = append(entries, "pre-test: "+d.PreTest.Name)
		}
		if d.PostTest != nil {
			entries = append(entries, "post-test: "+d.PostTest.Name)
		}
		for _, test := range d.Tests {
			entry := f.yellow.Sprint(test.Name)
			if _, ok := failed[domain.UnitID{ClassName: d.Name(), TestName: test.Name}]; ok {
				entry += " " + f.red.Sprint("[F]")
			}
			entries = append(entries, entry)
		}
		if len(d.Tests) == 0 {
			entries = append(entries, f.red.Sprint("(no tests found)"))
		}

		for j, entry := range entries {
			fmt.Fprintf(f.out, "%s%s%s\n", childPrefix(isLastClass), branch(j == len(entries)-1), entry)
		}
	}
}

// relativeModule shortens module paths below the test directory for display.
func (f *Formatter) relativeModule(module string) string {
	if !filepath.IsAbs(module) && !strings.Contains(module, string(filepath.Separator)) {
		return module
	}
	dir := f.config.GetDirectory()
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	if rel, err := filepath.Rel(dir, module); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return module
}

func branch(last bool) string {
	if last {
		return "└── "
	}
	return "├── "
}

func childPrefix(parentIsLast bool) string {
	if parentIsLast {
		return "    "
	}
	return "│   "
}

func indent(s, prefix string) string {
	lines := strings.SplitAfter(s, "\n")
	var b strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		b.WriteString(prefix)
		b.WriteString(line)
	}
	if !strings.HasSuffix(s, "\n") && s != "" {
		b.WriteString("\n")
	}
	return b.String()
}
