package ui

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/browser"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"github.com/audi70r/gitlogreport/internal/config"
	"github.com/audi70r/gitlogreport/internal/pipeline"
	"github.com/audi70r/gitlogreport/internal/ui/views"
)

const (
	pageSetup    = "setup"
	pageProgress = "progress"
	pageResult   = "result"
)

// App represents the main application
type App struct {
	tview      *tview.Application
	pages      *tview.Pages
	configPath string
	logger     *zap.SugaredLogger

	// UI components
	setupView    *views.SetupView
	progressView *views.ProgressView
	resultView   *views.ResultView

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
}

// NewApp creates a new application instance editing the config at configPath
func NewApp(cfg *config.Config, configPath string, logger *zap.SugaredLogger) *App {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if cfg == nil {
		cfg = config.Default()
	}

	app := &App{
		tview:      tview.NewApplication(),
		pages:      tview.NewPages(),
		configPath: configPath,
		logger:     logger,
	}

	app.setupViews(cfg)
	return app
}

func (a *App) setupViews(cfg *config.Config) {
	a.setupView = views.NewSetupView(cfg, a.tview, views.SetupHandlers{
		OnSave:    a.onSave,
		OnReload:  a.onReload,
		OnExtract: a.onExtract,
		OnQuit:    a.tview.Stop,
	})
	a.progressView = views.NewProgressView()
	a.resultView = views.NewResultView(a.onBack, a.tview.Stop, a.onOpen)

	a.pages.AddPage(pageSetup, a.setupView.Root(), true, true)
	a.pages.AddPage(pageProgress, a.progressView.Root(), true, false)
	a.pages.AddPage(pageResult, a.resultView.Root(), true, false)

	a.pages.SetInputCapture(a.captureCancel)
	a.tview.SetRoot(a.pages, true)
}

func (a *App) onSave() {
	if err := config.Save(a.configPath, a.setupView.Collect()); err != nil {
		a.logger.Errorw("failed to save config", "path", a.configPath, "err", err)
		a.setupView.ShowError(err.Error())
		return
	}
	a.logger.Infow("config saved", "path", a.configPath)
	a.setupView.ShowInfo("Configuration saved to " + a.configPath)
}

func (a *App) onReload() {
	cfg, err := config.Load(a.configPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		a.logger.Errorw("failed to load config", "path", a.configPath, "err", err)
		a.setupView.ShowError(err.Error())
		return
	}
	a.setupView.Load(cfg)
	if err != nil {
		a.setupView.ShowInfo("No configuration at " + a.configPath + ", defaults loaded")
		return
	}
	a.setupView.ShowInfo("Configuration reloaded from " + a.configPath)
}

func (a *App) onExtract() {
	cfg := a.setupView.Collect()
	if err := a.setupView.Validate(cfg); err != nil {
		a.setupView.ShowError(err.Error())
		return
	}

	q, err := cfg.Query(time.Now())
	if err != nil {
		a.setupView.ShowError(err.Error())
		return
	}

	// A run persists the settings it was started with
	if err := config.Save(a.configPath, cfg); err != nil {
		a.logger.Warnw("failed to save config", "path", a.configPath, "err", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		cancel()
		return
	}
	a.running = true
	a.cancel = cancel
	a.mu.Unlock()

	a.progressView.Reset()
	a.pages.SwitchToPage(pageProgress)

	go a.extract(ctx, pipeline.NewRunner(cfg.NewBackend(), a.logger), q)
}

func (a *App) extract(ctx context.Context, runner *pipeline.Runner, q pipeline.Query) {
	outcome, err := runner.Run(ctx, q, func(e pipeline.Event) {
		a.tview.QueueUpdateDraw(func() {
			a.progressView.Apply(e)
		})
	})

	a.mu.Lock()
	a.cancel()
	a.running = false
	a.mu.Unlock()

	if errors.Is(err, context.Canceled) {
		a.tview.QueueUpdateDraw(func() {
			a.setupView.ShowInfo("Extraction cancelled")
			a.onBack()
		})
		return
	}

	if err != nil {
		a.logger.Errorw("extraction failed", "err", err)
	}

	// Switch to the result page
	a.tview.QueueUpdateDraw(func() {
		a.resultView.SetData(outcome, err)
		a.pages.SwitchToPage(pageResult)
		a.tview.SetFocus(a.resultView.GetFocusable())
	})
}

func (a *App) captureCancel(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() != tcell.KeyEsc {
		return event
	}
	if name, _ := a.pages.GetFrontPage(); name != pageProgress {
		return event
	}
	a.mu.Lock()
	if a.running && a.cancel != nil {
		a.cancel()
	}
	a.mu.Unlock()
	return nil
}

func (a *App) onOpen(path string) error {
	// the opener's own output would draw over the screen
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	if err := browser.OpenFile(path); err != nil {
		a.logger.Warnw("failed to open report", "path", path, "err", err)
		return err
	}
	return nil
}

func (a *App) onBack() {
	a.pages.SwitchToPage(pageSetup)
	a.setupView.Focus()
}

// Run starts the application
func (a *App) Run() error {
	return a.tview.Run()
}
