package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audi70r/gitlogreport/internal/config"
	"github.com/audi70r/gitlogreport/internal/git"
	"github.com/audi70r/gitlogreport/internal/git/gittest"
	"github.com/audi70r/gitlogreport/internal/pipeline"
)

func TestApplyFlag(t *testing.T) {
	cfg := config.Default()
	cfg.Author = "alice"
	cfg.MaxDepth = 4

	set := config.Config{Author: "bob", MaxDepth: 0, Backend: config.BackendGoGit}
	applyFlag(cfg, &set, "author", "")
	applyFlag(cfg, &set, "show-project", "")
	applyFlag(cfg, &set, "max-depth", "")
	applyFlag(cfg, &set, "exclude", " vendor, ,build/** ")

	assert.Equal(t, "bob", cfg.Author)
	assert.Equal(t, 0, cfg.MaxDepth)
	assert.Equal(t, []string{"vendor", "build/**"}, cfg.Exclude)
	assert.False(t, cfg.ShowProjectAndBranch)
	// flags that were not visited keep the loaded value
	assert.Equal(t, config.BackendCLI, cfg.Backend)
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger(true, false, "")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	path := filepath.Join(t.TempDir(), "run.log")
	logger, err = newLogger(true, false, path)
	require.NoError(t, err)
	logger.Infow("located repositories", "count", 2)
	require.NoError(t, logger.Sync())
	assert.FileExists(t, path)
}

func TestRunConsole(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	day := time.Date(2024, 10, 20, 0, 0, 0, 0, time.Local)
	gittest.InitRepo(t, filepath.Join(root, "web"),
		gittest.Commit{Author: "alice", Message: "feat: login\n", When: day.Add(9 * time.Hour)},
	)

	q := pipeline.Query{
		Root:      root,
		Extract:   git.Query{Author: "alice", Since: day, Until: day},
		OutputDir: out,
		Today:     day,
	}
	require.NoError(t, run(context.Background(), pipeline.NewRunner(git.NewGoGitBackend(), nil), q))
	assert.FileExists(t, filepath.Join(out, "git_commits_2024-10-20.txt"))
}
