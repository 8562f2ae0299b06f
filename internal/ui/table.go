package ui

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"atr/internal/domain"
)

// PrintResultsTable prints one row per stored unit result, grouped by class, with a totals footer.
func (f *Formatter) PrintResultsTable(output *domain.TestResultsOutput) {
	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetTitle(fmt.Sprintf("Test Results (%s)", output.Meta.Duration))

	t.AppendHeader(table.Row{"Class", "Test", "Outcome", "Seconds"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Class", AutoMerge: true},
		{Name: "Test", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Seconds", Align: text.AlignRight},
	})

	for _, r := range output.Results {
		t.AppendRow(table.Row{r.ClassName, r.TestName, r.Outcome, fmt.Sprintf("%.3f", r.Seconds)})
	}

	meta := output.Meta
	t.AppendFooter(table.Row{
		"TOTAL",
		meta.TotalTests,
		fmt.Sprintf("%d passed, %d failed, %d not run", meta.PassedTests, meta.FailedTests, meta.NotRunTests),
		fmt.Sprintf("%.3f", meta.DurationSeconds),
	})

	switch {
	case color.NoColor:
		t.SetStyle(table.StyleLight)
	case meta.FailedTests > 0:
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	case meta.NotRunTests > 0:
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	default:
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	}

	t.Render()
}
