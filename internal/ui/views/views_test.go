package views

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audi70r/gitlogreport/internal/config"
	"github.com/audi70r/gitlogreport/internal/git"
	"github.com/audi70r/gitlogreport/internal/pipeline"
	"github.com/audi70r/gitlogreport/internal/stats"
)

func sampleConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.RootDirectory = t.TempDir()
	cfg.OutputDirectory = t.TempDir()
	cfg.Author = "alice"
	cfg.StartDate = "2024-10-01"
	cfg.EndDate = "2024-10-20"
	cfg.MaxDepth = 3
	cfg.Workers = 2
	cfg.Backend = config.BackendGoGit
	cfg.PullLatestCode = true
	cfg.XLSXOutput = true
	cfg.Exclude = []string{"vendor"}
	cfg.ProjectNames = map[string]string{"web(*)": "Web-", "api(main)": "API-"}
	return cfg
}

func TestSetupViewRoundTrip(t *testing.T) {
	cfg := sampleConfig(t)
	s := NewSetupView(cfg, nil, SetupHandlers{})

	assert.Equal(t, cfg, s.Collect())
}

func TestSetupViewCollectsEdits(t *testing.T) {
	s := NewSetupView(sampleConfig(t), nil, SetupHandlers{})

	s.authorInput.SetText("  bob ")
	s.depthInput.SetText("")
	s.detailedBox.SetChecked(false)
	s.backendSelect.SetCurrentOption(0)
	s.namesArea.SetText("svc(dev) -> Service-\nnot a rule", false)

	cfg := s.Collect()
	assert.Equal(t, "bob", cfg.Author)
	assert.Equal(t, 0, cfg.MaxDepth)
	assert.False(t, cfg.DetailedOutput)
	assert.Equal(t, config.BackendCLI, cfg.Backend)
	assert.Equal(t, map[string]string{"svc(dev)": "Service-"}, cfg.ProjectNames)
	// not editable in the form
	assert.Equal(t, []string{"vendor"}, cfg.Exclude)
}

func TestSetupViewValidate(t *testing.T) {
	s := NewSetupView(config.Default(), nil, SetupHandlers{})

	cfg := sampleConfig(t)
	assert.NoError(t, s.Validate(cfg))

	cfg.Author = ""
	assert.ErrorIs(t, s.Validate(cfg), config.ErrMissingAuthor)

	cfg = sampleConfig(t)
	cfg.RootDirectory = filepath.Join(cfg.RootDirectory, "missing")
	err := s.Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "root directory does not exist")

	cfg = sampleConfig(t)
	cfg.OutputDirectory = filepath.Join(cfg.OutputDirectory, "missing")
	err = s.Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output directory does not exist")
}

func TestSetupViewRejectsPartialNumber(t *testing.T) {
	s := NewSetupView(sampleConfig(t), nil, SetupHandlers{})
	s.workersInput.SetText("-")

	cfg := s.Collect()
	assert.Equal(t, 0, cfg.Workers)

	err := s.Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `Parallel repositories must be a whole number, got "-"`)

	s.workersInput.SetText("")
	assert.NoError(t, s.Validate(s.Collect()))
}

func TestSetupViewButtons(t *testing.T) {
	var pressed []string
	s := NewSetupView(config.Default(), nil, SetupHandlers{
		OnSave:    func() { pressed = append(pressed, "save") },
		OnExtract: func() { pressed = append(pressed, "extract") },
	})

	// Browse Root, Browse Output, Save, Reload, Extract, Quit
	require.Equal(t, 6, s.form.GetButtonCount())
	assert.Equal(t, "Save", s.form.GetButton(2).GetLabel())

	// handlers left nil are ignored
	call(s.handlers.OnReload)()
	call(s.handlers.OnSave)()
	call(s.handlers.OnExtract)()
	assert.Equal(t, []string{"save", "extract"}, pressed)
}

func TestProgressViewApply(t *testing.T) {
	p := NewProgressView()
	p.now = func() time.Time { return time.Date(2024, 10, 20, 9, 5, 7, 0, time.UTC) }

	p.Apply(pipeline.Event{Stage: pipeline.StageLocated, Total: 2, Message: "found 2 git repositories"})
	p.Apply(pipeline.Event{Stage: pipeline.StageRepoStarted, Index: 1, Total: 2, Message: "processing 1/2: web"})
	p.Apply(pipeline.Event{Stage: pipeline.StageRepoDone, Index: 1, Total: 2, Message: "web: query failed: boom",
		Result: &git.Result{Status: git.StatusFailed}})

	assert.Equal(t, 1, p.current)
	assert.Equal(t, 2, p.total)

	log := p.logView.GetText(true)
	assert.Contains(t, log, "09:05:07 found 2 git repositories")
	assert.Contains(t, log, "09:05:07 web: query failed: boom")
	assert.NotContains(t, log, "processing 1/2")
	assert.Contains(t, p.countText.GetText(true), "1 / 2 repositories processed")

	p.Reset()
	assert.Empty(t, p.logView.GetText(true))
	assert.Equal(t, 0, p.total)
}

func TestResultViewSetData(t *testing.T) {
	day := time.Date(2024, 10, 20, 0, 0, 0, 0, time.UTC)
	agg := stats.NewAggregator(stats.DateRange{Since: day, Until: day}, time.UTC)
	web := git.Repository{Path: "/work/web", Branch: "main"}
	agg.Add(git.Result{Repo: web, Commits: []git.Commit{{Repo: web, When: day.Add(10 * time.Hour)}}})
	agg.Add(git.Result{Repo: git.Repository{Path: "/work/api", Branch: git.UnknownBranch},
		Status: git.StatusFailed, Err: errors.New("exit status 128")})

	outcome := &pipeline.Outcome{Summary: agg.Finalize(), ReportPath: "/out/git_commits_2024-10-20.txt"}

	var opened []string
	r := NewResultView(nil, nil, func(path string) error {
		opened = append(opened, path)
		return errors.New("no opener")
	})
	r.SetData(outcome, nil)

	header := r.header.GetText(true)
	assert.Contains(t, header, "1 records written to /out/git_commits_2024-10-20.txt")
	assert.Contains(t, header, "2 repositories")
	assert.Equal(t, 3, r.table.GetRowCount())
	assert.Equal(t, "web", r.table.GetCell(1, 0).Text)
	assert.Equal(t, "failed: exit status 128", r.table.GetCell(2, 4).Text)
	assert.Contains(t, r.hours.GetText(true), "Peak: Sun 10:00 (1 commits)")

	r.openReport()
	assert.Equal(t, []string{"/out/git_commits_2024-10-20.txt"}, opened)
	assert.Contains(t, r.header.GetText(true), "Could not open report: no opener")

	r.SetData(nil, errors.New("cancelled"))
	assert.Contains(t, r.header.GetText(true), "Extraction failed: cancelled")
	assert.Equal(t, 0, r.table.GetRowCount())

	// nothing written, nothing to open
	r.openReport()
	assert.Len(t, opened, 1)
}
