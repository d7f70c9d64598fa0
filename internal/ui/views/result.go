package views

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/audi70r/gitlogreport/internal/git"
	"github.com/audi70r/gitlogreport/internal/pipeline"
	"github.com/audi70r/gitlogreport/internal/stats"
	"github.com/audi70r/gitlogreport/internal/ui/components"
)

const sparkWidth = 60

// ResultView shows the outcome of a finished run
type ResultView struct {
	root     *tview.Flex
	header   *tview.TextView
	activity *tview.TextView
	hours    *tview.TextView
	table    *tview.Table
	onBack   func()
	onQuit   func()
	onOpen   func(path string) error

	reportPath string
}

// NewResultView creates a new result view. onOpen hands the written report
// to the desktop; it may be nil.
func NewResultView(onBack, onQuit func(), onOpen func(path string) error) *ResultView {
	r := &ResultView{onBack: onBack, onQuit: onQuit, onOpen: onOpen}
	r.setup()
	return r
}

func (r *ResultView) setup() {
	title := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetText("[::b]Extraction Finished[-:-:-]")
	title.SetBackgroundColor(tcell.ColorDarkBlue)

	r.header = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	r.activity = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	r.activity.SetBorder(true).SetTitle(" Commits per Day ")

	r.hours = tview.NewTextView().
		SetDynamicColors(true)
	r.hours.SetBorder(true).SetTitle(" Work Hours ")

	charts := tview.NewFlex().
		AddItem(r.activity, 0, 1, false).
		AddItem(r.hours, 34, 0, false)

	r.table = tview.NewTable().
		SetBorders(false).
		SetSelectable(true, false).
		SetFixed(1, 0)
	r.table.SetBorder(true).SetTitle(" Repositories ")

	help := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetText("[yellow]↑↓[-] Navigate  [yellow]o[-] Open report  [yellow]b[-] Back to settings  [yellow]q[-] Quit")
	help.SetBackgroundColor(tcell.ColorDarkBlue)

	r.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(title, 1, 0, false).
		AddItem(r.header, 4, 0, false).
		AddItem(charts, 11, 0, false).
		AddItem(r.table, 0, 1, true).
		AddItem(help, 1, 0, false)

	r.root.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc {
			call(r.onBack)()
			return nil
		}
		switch event.Rune() {
		case 'b', 'B':
			call(r.onBack)()
			return nil
		case 'o', 'O':
			r.openReport()
			return nil
		case 'q', 'Q':
			call(r.onQuit)()
			return nil
		}
		return event
	})
}

// SetData renders the outcome. err is the run error, if any.
func (r *ResultView) SetData(outcome *pipeline.Outcome, err error) {
	r.table.Clear()
	r.activity.Clear()
	r.hours.Clear()
	r.reportPath = ""

	var lines []string
	switch {
	case outcome == nil || outcome.Summary == nil:
		lines = append(lines, fmt.Sprintf("[red]Extraction failed: %s[-]", tview.Escape(errText(err))))
		r.header.SetText(strings.Join(lines, "\n"))
		return
	case err != nil:
		lines = append(lines, fmt.Sprintf("[red]Could not write report: %s[-]", tview.Escape(err.Error())))
	case outcome.Written():
		r.reportPath = outcome.ReportPath
		lines = append(lines, "[green]"+tview.Escape(outcome.Status())+"[-]")
		if outcome.XLSXPath != "" {
			lines = append(lines, "Spreadsheet: "+tview.Escape(outcome.XLSXPath))
		}
	default:
		lines = append(lines, "[yellow]"+tview.Escape(outcome.Status())+"[-]")
	}

	summary := outcome.Summary
	lines = append(lines, fmt.Sprintf("[yellow]%d[-] repositories  [yellow]%d[-] commits  [yellow]%d[-] messages  [red]%d[-] failed  [yellow]%d[-] with warnings",
		len(summary.Repos), summary.TotalCommits, summary.TotalMessages, summary.Failed, summary.Degraded))
	r.header.SetText(strings.Join(lines, "\n"))

	r.renderActivity(summary)
	r.renderHours(summary)
	r.renderTable(summary)
}

func (r *ResultView) renderActivity(summary *stats.Summary) {
	timeline := summary.Timeline()
	if len(timeline.Values) == 0 {
		return
	}
	spark := components.RenderSparklineWithWidth(timeline.Values, sparkWidth)
	fmt.Fprintf(r.activity, "[green]%s[-]\n%s .. %s",
		spark, timeline.Labels[0], timeline.Labels[len(timeline.Labels)-1])
}

func (r *ResultView) renderHours(summary *stats.Summary) {
	hours := summary.Hours
	fmt.Fprint(r.hours, components.RenderHeatmap(hours.Matrix, hours.Max))
	if peak := components.PeakLabel(hours.Peak()); peak != "" {
		fmt.Fprintf(r.hours, "\n[cyan]%s[-]", peak)
	}
}

func (r *ResultView) renderTable(summary *stats.Summary) {
	headers := []string{"Repository", "Branch", "Commits", "Messages", "Status"}
	for col, h := range headers {
		r.table.SetCell(0, col, tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false).
			SetExpansion(1))
	}

	for i, repo := range summary.Repos {
		row := i + 1
		status := repo.Status.String()
		if repo.Reason != "" {
			status += ": " + repo.Reason
		}

		color := tcell.ColorWhite
		switch repo.Status {
		case git.StatusFailed:
			color = tcell.ColorRed
		case git.StatusDegraded:
			color = tcell.ColorYellow
		}

		r.table.SetCell(row, 0, tview.NewTableCell(tview.Escape(repo.Name)).SetTextColor(tcell.ColorAqua))
		r.table.SetCell(row, 1, tview.NewTableCell(tview.Escape(repo.Branch)))
		r.table.SetCell(row, 2, tview.NewTableCell(fmt.Sprintf("%d", repo.Commits)).SetAlign(tview.AlignRight))
		r.table.SetCell(row, 3, tview.NewTableCell(fmt.Sprintf("%d", repo.Messages)).SetAlign(tview.AlignRight))
		r.table.SetCell(row, 4, tview.NewTableCell(tview.Escape(status)).SetTextColor(color))
	}

	r.table.ScrollToBeginning()
	if len(summary.Repos) > 0 {
		r.table.Select(1, 0)
	}
}

// openReport opens the written report, if there is one
func (r *ResultView) openReport() {
	if r.reportPath == "" || r.onOpen == nil {
		return
	}
	if err := r.onOpen(r.reportPath); err != nil {
		fmt.Fprintf(r.header, "\n[red]Could not open report: %s[-]", tview.Escape(err.Error()))
	}
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

// Root returns the root primitive
func (r *ResultView) Root() tview.Primitive {
	return r.root
}

// GetFocusable returns the focusable component
func (r *ResultView) GetFocusable() tview.Primitive {
	return r.table
}
