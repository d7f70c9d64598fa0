package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/audi70r/gitlogreport/internal/git"
	"github.com/audi70r/gitlogreport/internal/pipeline"
)

// ProgressView displays extraction progress and a running log
type ProgressView struct {
	root        *tview.Flex
	progressBar *tview.TextView
	statusText  *tview.TextView
	countText   *tview.TextView
	logView     *tview.TextView
	total       int
	current     int
	now         func() time.Time
}

// NewProgressView creates a new progress view
func NewProgressView() *ProgressView {
	p := &ProgressView{now: time.Now}
	p.setup()
	return p
}

func (p *ProgressView) setup() {
	// Title
	title := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetText("[::b]Extracting Commits[-:-:-]")
	title.SetBackgroundColor(tcell.ColorDarkBlue)

	// Progress bar container
	p.progressBar = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	// Status text
	p.statusText = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	// Count text
	p.countText = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	p.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	p.logView.SetBorder(true).SetTitle(" Log ")

	// Progress container
	progressContainer := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(p.statusText, 2, 0, false).
		AddItem(p.progressBar, 2, 0, false).
		AddItem(p.countText, 1, 0, false)

	// Center the progress area
	centered := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(progressContainer, 60, 0, false).
		AddItem(nil, 0, 1, false)

	help := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetText("[yellow]Esc[-] Cancel")
	help.SetBackgroundColor(tcell.ColorDarkBlue)

	p.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(title, 1, 0, false).
		AddItem(nil, 1, 0, false).
		AddItem(centered, 5, 0, false).
		AddItem(p.logView, 0, 1, false).
		AddItem(help, 1, 0, false)

	p.SetProgress(0, 0)
}

// Reset clears the view for a new run
func (p *ProgressView) Reset() {
	p.total = 0
	p.logView.Clear()
	p.SetStatus("Searching for repositories...")
	p.SetProgress(0, 0)
}

// SetProgress updates the progress display
func (p *ProgressView) SetProgress(current, total int) {
	p.current = current
	if total > 0 {
		p.total = total
	}

	// Calculate percentage
	var pct float64
	if p.total > 0 {
		pct = float64(current) / float64(p.total) * 100
	}

	// Build progress bar
	barWidth := 50
	filled := int(pct / 100 * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	p.progressBar.SetText(fmt.Sprintf("[green]%s[-]\n%.1f%%", bar, pct))

	if p.total > 0 {
		p.countText.SetText(fmt.Sprintf("[yellow]%d[-] / [yellow]%d[-] repositories processed", current, p.total))
	} else {
		p.countText.SetText(fmt.Sprintf("[yellow]%d[-] repositories processed", current))
	}
}

// SetStatus updates the status message
func (p *ProgressView) SetStatus(status string) {
	p.statusText.SetText("[white]" + tview.Escape(status) + "[-]")
}

// Log appends a timestamped line to the log pane
func (p *ProgressView) Log(msg string) {
	p.logLine("white", msg)
}

func (p *ProgressView) logLine(color, msg string) {
	fmt.Fprintf(p.logView, "[gray]%s[-] [%s]%s[-]\n", p.now().Format("15:04:05"), color, tview.Escape(msg))
	p.logView.ScrollToEnd()
}

// Apply renders one pipeline event
func (p *ProgressView) Apply(e pipeline.Event) {
	color := "white"
	switch e.Stage {
	case pipeline.StageLocated:
		p.SetProgress(0, e.Total)
		p.SetStatus(e.Message)
	case pipeline.StageRepoStarted:
		p.SetStatus(e.Message)
		return
	case pipeline.StageRepoDone:
		p.SetProgress(e.Index, e.Total)
		if e.Result != nil {
			color = statusColor(e.Result.Status)
		}
	case pipeline.StageWritten:
		p.SetStatus(e.Message)
		color = "green"
	}
	p.logLine(color, e.Message)
}

func statusColor(s git.Status) string {
	switch s {
	case git.StatusFailed:
		return "red"
	case git.StatusDegraded:
		return "yellow"
	}
	return "white"
}

// Root returns the root primitive
func (p *ProgressView) Root() tview.Primitive {
	return p.root
}
