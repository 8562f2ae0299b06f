package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"atr/internal/domain"
	"atr/internal/storage"
)

// ErrorViewer displays stored failures in an interactive TUI
type ErrorViewer struct {
	storage storage.Storage
}

// NewErrorViewer creates a new ErrorViewer saving resolved marks through st
func NewErrorViewer(st storage.Storage) *ErrorViewer {
	return &ErrorViewer{storage: st}
}

// View displays the failures of results until the user exits
func (ev *ErrorViewer) View(results *domain.TestResultsOutput) error {
	if len(results.Details) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}

	var saveErr error

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	for i := range results.Details {
		list.AddItem(listItemText(results.Details[i], i), "", 0, nil)
	}

	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan).
		SetSecondaryTextColor(tview.Styles.SecondaryTextColor)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetWordWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	updateHeader := func() {
		headerView.SetText(fmt.Sprintf(" Test Failures (%d total, %d unresolved) | Use ↑↓ to navigate, [yellow]R[white] to mark resolved, → to view details, ← to go back, Ctrl+C to exit ",
			len(results.Details), countUnresolved(results.Details)))
	}
	updateHeader()

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(results.Details) {
			failure := results.Details[index]
			statsView.SetText(formatFailureStats(failure, index+1))
			detailsView.SetText(formatFailureDetails(failure))
		}
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyUp, tcell.KeyDown:
			return event
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				index := list.GetCurrentItem()
				if index >= 0 && index < len(results.Details) {
					toggleResolved(results, index)
					list.SetItemText(index, listItemText(results.Details[index], index), "")
					updateHeader()
					updateDetails()
					saveErr = ev.storage.SaveOutput(results)
				}
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(index int, mainText string, secondaryText string, shortcut rune) {
		updateDetails()
	})

	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if saveErr != nil {
		return fmt.Errorf("failed to save resolved marks: %w", saveErr)
	}
	return nil
}

func toggleResolved(results *domain.TestResultsOutput, index int) {
	results.Details[index].Resolved = !results.Details[index].Resolved
}

func countUnresolved(failures []domain.TestFailure) int {
	count := 0
	for _, f := range failures {
		if !f.Resolved {
			count++
		}
	}
	return count
}

func listItemText(failure domain.TestFailure, index int) string {
	name := failure.TestName
	if name == "" {
		name = fmt.Sprintf("Test %d", index+1)
	}
	if failure.Resolved {
		return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", index+1, tview.Escape(name))
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", index+1, tview.Escape(name))
}

// formatFailureDetails formats a failure for display using tview color tags
func formatFailureDetails(failure domain.TestFailure) string {
	var b strings.Builder

	label := "✗ Test"
	tag := "red"
	if failure.Outcome == domain.NotRun {
		label = "○ Not run"
		tag = "yellow"
	}
	fmt.Fprintf(&b, "[%s]%s: %s[white]\n\n", tag, label, tview.Escape(failure.TestName))
	fmt.Fprintf(&b, "[cyan]Class: %s[white]\n", tview.Escape(failure.ClassName))
	if failure.Kind != "" {
		fmt.Fprintf(&b, "[yellow]Kind: %s in %s[white]\n", failure.Kind, failure.Invocation)
	}
	fmt.Fprintf(&b, "\n")

	if failure.Message != "" {
		fmt.Fprintf(&b, "[yellow]Message:[white]\n%s\n\n", tview.Escape(failure.Message))
	}

	if failure.Output != "" {
		lines := strings.Split(strings.TrimRight(failure.Output, "\n"), "\n")
		fmt.Fprintf(&b, "[yellow]Output:[white]\n")
		for i, line := range lines {
			if i == 20 {
				fmt.Fprintf(&b, "  [gray]... and %d more lines[white]\n", len(lines)-20)
				break
			}
			fmt.Fprintf(&b, "  %s\n", tview.Escape(line))
		}
	}

	return b.String()
}

// formatFailureStats formats the header line of a failure
func formatFailureStats(failure domain.TestFailure, number int) string {
	class := failure.ClassName
	if class == "" {
		class = "Unknown class"
	}
	test := failure.TestName
	if test == "" {
		test = fmt.Sprintf("Test %d", number)
	}
	return fmt.Sprintf("[cyan]unit:[white] [yellow]%s[white]:[yellow]%s[white]\n", tview.Escape(class), tview.Escape(test))
}
