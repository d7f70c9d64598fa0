package git

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// Extractor reads matching commits from one repository at a time
type Extractor struct {
	backend Backend
	logger  *zap.SugaredLogger
}

// NewExtractor creates an extractor over backend
func NewExtractor(backend Backend, logger *zap.SugaredLogger) *Extractor {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Extractor{backend: backend, logger: logger}
}

// Extract lists commits in repoPath matching q. It never returns an error:
// a failed refresh or branch lookup degrades the result, a failed history
// query marks it failed with zero records.
func (e *Extractor) Extract(ctx context.Context, repoPath string, q Query) Result {
	if abs, err := filepath.Abs(repoPath); err == nil {
		repoPath = abs
	}

	var warnings *multierror.Error

	if q.Refresh {
		if err := e.backend.Refresh(ctx, repoPath); err != nil {
			e.logger.Warnw("refresh failed, reading local history", "repo", repoPath, "err", err)
			warnings = multierror.Append(warnings, fmt.Errorf("refresh: %w", err))
		}
	}

	branch, err := e.backend.CurrentBranch(ctx, repoPath)
	if err != nil {
		e.logger.Warnw("cannot determine current branch", "repo", repoPath, "err", err)
		warnings = multierror.Append(warnings, fmt.Errorf("current branch: %w", err))
		branch = UnknownBranch
	}

	repo := Repository{Path: repoPath, Branch: branch}
	result := Result{Repo: repo, Warnings: warnings}

	raw, err := e.backend.Log(ctx, repoPath, q)
	if err != nil {
		e.logger.Errorw("history query failed", "repo", repoPath, "err", err)
		result.Status = StatusFailed
		result.Err = err
		return result
	}

	result.Commits, result.Messages = ParseLog(repo, raw)
	if warnings != nil {
		result.Status = StatusDegraded
	}

	e.logger.Debugw("extracted", "repo", repoPath, "branch", branch,
		"commits", len(result.Commits), "messages", len(result.Messages))
	return result
}
