package views

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/audi70r/gitlogreport/internal/config"
	"github.com/audi70r/gitlogreport/internal/git"
	"github.com/audi70r/gitlogreport/internal/report"
)

var backends = []string{config.BackendCLI, config.BackendGoGit}

// SetupHandlers are invoked by the setup form buttons
type SetupHandlers struct {
	OnSave    func()
	OnReload  func()
	OnExtract func()
	OnQuit    func()
}

// SetupView collects the run configuration
type SetupView struct {
	root     *tview.Pages
	mainFlex *tview.Flex
	form     *tview.Form
	app      *tview.Application
	handlers SetupHandlers

	rootInput     *tview.InputField
	authorInput   *tview.InputField
	outputInput   *tview.InputField
	sinceInput    *tview.InputField
	untilInput    *tview.InputField
	depthInput    *tview.InputField
	workersInput  *tview.InputField
	backendSelect *tview.DropDown

	detailedBox *tview.Checkbox
	showBox     *tview.Checkbox
	pullBox     *tview.Checkbox
	allBox      *tview.Checkbox
	xlsxBox     *tview.Checkbox

	namesArea  *tview.TextArea
	statusText *tview.TextView

	// Fields the form does not edit are carried over on Collect
	base config.Config
}

// NewSetupView creates a new setup view populated from cfg
func NewSetupView(cfg *config.Config, app *tview.Application, handlers SetupHandlers) *SetupView {
	s := &SetupView{
		app:      app,
		handlers: handlers,
	}
	s.setup()
	s.Load(cfg)
	return s
}

func (s *SetupView) setup() {
	// Title
	title := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetText("[::b]Git Commit Log Report[-:-:-]")
	title.SetBackgroundColor(tcell.ColorDarkBlue)

	s.rootInput = tview.NewInputField().SetLabel("Root directory").SetFieldWidth(50)
	s.authorInput = tview.NewInputField().SetLabel("Author").SetFieldWidth(30)
	s.outputInput = tview.NewInputField().SetLabel("Output directory").SetFieldWidth(50)
	s.sinceInput = tview.NewInputField().SetLabel("Start date").SetFieldWidth(12).SetPlaceholder("today")
	s.untilInput = tview.NewInputField().SetLabel("End date").SetFieldWidth(12).SetPlaceholder("today")
	s.depthInput = tview.NewInputField().SetLabel("Max depth").SetFieldWidth(4).
		SetAcceptanceFunc(tview.InputFieldInteger)
	s.workersInput = tview.NewInputField().SetLabel("Parallel repositories").SetFieldWidth(4).
		SetAcceptanceFunc(tview.InputFieldInteger)
	s.backendSelect = tview.NewDropDown().SetLabel("Backend").SetOptions(backends, nil)

	s.detailedBox = tview.NewCheckbox().SetLabel("Detailed output")
	s.showBox = tview.NewCheckbox().SetLabel("Show project and branch")
	s.pullBox = tview.NewCheckbox().SetLabel("Pull latest code first")
	s.allBox = tview.NewCheckbox().SetLabel("Extract all branches")
	s.xlsxBox = tview.NewCheckbox().SetLabel("Also write xlsx")

	s.namesArea = tview.NewTextArea().
		SetLabel("Project names").
		SetPlaceholder("my-project(master) -> My Project-\nmy-project(*) -> My Project-").
		SetSize(5, 0)

	s.form = tview.NewForm().
		AddFormItem(s.rootInput).
		AddFormItem(s.authorInput).
		AddFormItem(s.outputInput).
		AddFormItem(s.sinceInput).
		AddFormItem(s.untilInput).
		AddFormItem(s.depthInput).
		AddFormItem(s.workersInput).
		AddFormItem(s.backendSelect).
		AddFormItem(s.detailedBox).
		AddFormItem(s.showBox).
		AddFormItem(s.pullBox).
		AddFormItem(s.allBox).
		AddFormItem(s.xlsxBox).
		AddFormItem(s.namesArea)
	s.form.SetButtonsAlign(tview.AlignCenter)
	s.form.AddButton("Browse Root", func() { s.showDirBrowser(s.rootInput) })
	s.form.AddButton("Browse Output", func() { s.showDirBrowser(s.outputInput) })
	s.form.AddButton("Save", call(s.handlers.OnSave))
	s.form.AddButton("Reload", call(s.handlers.OnReload))
	s.form.AddButton("Extract", call(s.handlers.OnExtract))
	s.form.AddButton("Quit", call(s.handlers.OnQuit))
	s.form.SetBorder(true).SetTitle(" Settings ")

	s.statusText = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	// Help text
	help := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetText("[yellow]Tab[-] Next field  [yellow]Ctrl-S[-] Save  [yellow]Ctrl-R[-] Extract  [yellow]Ctrl-Q[-] Quit  Dates are YYYY-MM-DD")
	help.SetBackgroundColor(tcell.ColorDarkBlue)

	s.mainFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(title, 1, 0, false).
		AddItem(s.form, 0, 1, true).
		AddItem(s.statusText, 2, 0, false).
		AddItem(help, 1, 0, false)

	s.mainFlex.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlS:
			call(s.handlers.OnSave)()
			return nil
		case tcell.KeyCtrlR:
			call(s.handlers.OnExtract)()
			return nil
		case tcell.KeyCtrlQ:
			call(s.handlers.OnQuit)()
			return nil
		}
		return event
	})

	// Use Pages as root to allow modal overlays
	s.root = tview.NewPages()
	s.root.AddPage("main", s.mainFlex, true, true)
}

func call(fn func()) func() {
	return func() {
		if fn != nil {
			fn()
		}
	}
}

// Load fills the form from cfg
func (s *SetupView) Load(cfg *config.Config) {
	s.base = *cfg

	s.rootInput.SetText(cfg.RootDirectory)
	s.authorInput.SetText(cfg.Author)
	s.outputInput.SetText(cfg.OutputDirectory)
	s.sinceInput.SetText(cfg.StartDate)
	s.untilInput.SetText(cfg.EndDate)
	s.depthInput.SetText(positive(cfg.MaxDepth))

	s.workersInput.SetText(positive(cfg.Workers))

	backend := 0
	for i, name := range backends {
		if name == cfg.Backend {
			backend = i
		}
	}
	s.backendSelect.SetCurrentOption(backend)

	s.detailedBox.SetChecked(cfg.DetailedOutput)
	s.showBox.SetChecked(cfg.ShowProjectAndBranch)
	s.pullBox.SetChecked(cfg.PullLatestCode)
	s.allBox.SetChecked(cfg.ExtractAllBranches)
	s.xlsxBox.SetChecked(cfg.XLSXOutput)

	s.namesArea.SetText(report.NameOverrides(cfg.ProjectNames).Format(), false)
}

// positive renders n, leaving the field empty for the unset value
func positive(n int) string {
	if n > 0 {
		return strconv.Itoa(n)
	}
	return ""
}

// Collect returns the configuration currently shown in the form
func (s *SetupView) Collect() *config.Config {
	cfg := s.base
	cfg.RootDirectory = strings.TrimSpace(s.rootInput.GetText())
	cfg.Author = strings.TrimSpace(s.authorInput.GetText())
	cfg.OutputDirectory = strings.TrimSpace(s.outputInput.GetText())
	cfg.StartDate = strings.TrimSpace(s.sinceInput.GetText())
	cfg.EndDate = strings.TrimSpace(s.untilInput.GetText())
	// unparsable numbers are reported by Validate
	cfg.MaxDepth, _ = intField(s.depthInput)
	cfg.Workers, _ = intField(s.workersInput)
	_, cfg.Backend = s.backendSelect.GetCurrentOption()

	cfg.DetailedOutput = s.detailedBox.IsChecked()
	cfg.ShowProjectAndBranch = s.showBox.IsChecked()
	cfg.PullLatestCode = s.pullBox.IsChecked()
	cfg.ExtractAllBranches = s.allBox.IsChecked()
	cfg.XLSXOutput = s.xlsxBox.IsChecked()

	cfg.ProjectNames = report.ParseOverrides(s.namesArea.GetText())
	return &cfg
}

// Validate checks the form the way a run needs it: numbers that parse,
// required fields, and directories that exist
func (s *SetupView) Validate(cfg *config.Config) error {
	for _, field := range []*tview.InputField{s.depthInput, s.workersInput} {
		if _, err := intField(field); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !isDir(report.ExpandHome(cfg.RootDirectory)) {
		return fmt.Errorf("root directory does not exist: %s", cfg.RootDirectory)
	}
	if !isDir(report.ExpandHome(cfg.OutputDirectory)) {
		return fmt.Errorf("output directory does not exist: %s", cfg.OutputDirectory)
	}
	return nil
}

// intField parses a numeric input, treating an empty field as 0
func intField(field *tview.InputField) (int, error) {
	text := strings.TrimSpace(field.GetText())
	if text == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number, got %q", field.GetLabel(), text)
	}
	return n, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ShowError displays an error message
func (s *SetupView) ShowError(msg string) {
	s.statusText.SetText("[red]" + tview.Escape(msg) + "[-]")
}

// ShowInfo displays a status message
func (s *SetupView) ShowInfo(msg string) {
	s.statusText.SetText("[green]" + tview.Escape(msg) + "[-]")
}

// showDirBrowser opens a modal directory picker writing into target
func (s *SetupView) showDirBrowser(target *tview.InputField) {
	dirList := tview.NewList().
		ShowSecondaryText(true).
		SetHighlightFullLine(true).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)
	dirList.SetBorder(true)

	browserHelp := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetText("[yellow]Enter[-] Open folder  [yellow]Space[-] Choose current  [yellow]Esc[-] Close")
	browserHelp.SetBackgroundColor(tcell.ColorDarkBlue)

	currentPath := target.GetText()
	if !isDir(currentPath) {
		currentPath, _ = os.Getwd()
	}
	if abs, err := filepath.Abs(currentPath); err == nil {
		currentPath = abs
	}

	var dirNames []string

	var populateList func(path string)
	populateList = func(path string) {
		dirList.Clear()
		dirNames = nil
		dirList.SetTitle(fmt.Sprintf(" %s ", path))
		currentPath = path

		dirList.AddItem("..", "Go up one directory", 0, nil)
		dirNames = append(dirNames, "..")

		entries, err := os.ReadDir(path)
		if err != nil {
			return
		}

		for _, entry := range entries {
			if !entry.IsDir() || isHiddenDir(entry.Name()) {
				continue
			}
			if git.IsRepository(filepath.Join(path, entry.Name())) {
				dirList.AddItem("[cyan]"+entry.Name()+"[-]", "git repository", 0, nil)
			} else {
				dirList.AddItem("   "+entry.Name(), "Directory", 0, nil)
			}
			dirNames = append(dirNames, entry.Name())
		}
	}

	populateList(currentPath)

	browserBox := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(dirList, 0, 1, true).
		AddItem(browserHelp, 1, 0, false)
	browserBox.SetBorder(true).SetTitle(" Select Directory ")

	// Modal centered layout
	modal := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(browserBox, 24, 0, true).
			AddItem(nil, 0, 1, false), 80, 0, true).
		AddItem(nil, 0, 1, false)

	dirList.SetSelectedFunc(func(idx int, main, secondary string, shortcut rune) {
		if idx < 0 || idx >= len(dirNames) {
			return
		}
		if dirNames[idx] == ".." {
			populateList(filepath.Dir(currentPath))
			return
		}
		populateList(filepath.Join(currentPath, dirNames[idx]))
	})

	closeModal := func() {
		s.root.RemovePage("browser")
		s.root.SwitchToPage("main")
		if s.app != nil {
			s.app.SetFocus(target)
		}
	}

	dirList.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEsc:
			closeModal()
			return nil
		case tcell.KeyRune:
			if event.Rune() == ' ' {
				target.SetText(currentPath)
				closeModal()
				return nil
			}
		}
		return event
	})

	s.root.AddPage("browser", modal, true, true)
	if s.app != nil {
		s.app.SetFocus(dirList)
	}
}

func isHiddenDir(name string) bool {
	return len(name) > 0 && name[0] == '.'
}

// Root returns the root primitive
func (s *SetupView) Root() tview.Primitive {
	return s.root
}

// Focus gives the form keyboard focus
func (s *SetupView) Focus() {
	if s.app != nil {
		s.app.SetFocus(s.form)
	}
}
