// Package pipeline runs one extraction: locate repositories, extract each
// in turn, and write the combined report.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gammazero/workerpool"
	"go.uber.org/zap"

	"github.com/audi70r/gitlogreport/internal/git"
	"github.com/audi70r/gitlogreport/internal/report"
	"github.com/audi70r/gitlogreport/internal/stats"
)

const (
	textExt = ".txt"
	xlsxExt = ".xlsx"
)

// Query holds every parameter of one run
type Query struct {
	Root      string
	Locate    git.LocateOptions
	Extract   git.Query
	Report    report.Options
	OutputDir string
	Today     time.Time // picks the report file name form
	XLSX      bool

	// Workers > 1 extracts that many repositories at once. Events, results
	// and report lines keep the located order regardless.
	Workers int
}

// Stage identifies what an Event reports
type Stage int

const (
	StageLocated Stage = iota
	StageRepoStarted
	StageRepoDone
	StageWritten
)

// Event is one progress notification of a run
type Event struct {
	Stage   Stage
	Index   int // 1-based repository position, for repo stages
	Total   int // repositories found
	Repo    string
	Result  *git.Result // set for StageRepoDone
	Path    string      // set for StageWritten
	Message string
}

// Outcome is the terminal result of a run
type Outcome struct {
	Summary    *stats.Summary
	Results    []git.Result
	ReportPath string // empty when nothing matched
	XLSXPath   string
}

// Written reports whether a report file was produced
func (o *Outcome) Written() bool {
	return o.ReportPath != ""
}

// Status renders the one-line result shown to the user
func (o *Outcome) Status() string {
	if !o.Written() {
		r := o.Summary.DateRange
		return fmt.Sprintf("no matching commits found for %s to %s",
			r.Since.Format("2006-01-02"), r.Until.Format("2006-01-02"))
	}
	return fmt.Sprintf("%d records written to %s", o.Summary.TotalCommits, o.ReportPath)
}

// Runner drives the pipeline. Repositories are processed one at a time.
type Runner struct {
	extractor *git.Extractor
	logger    *zap.SugaredLogger
}

// NewRunner creates a runner extracting through backend
func NewRunner(backend git.Backend, logger *zap.SugaredLogger) *Runner {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Runner{
		extractor: git.NewExtractor(backend, logger),
		logger:    logger,
	}
}

// Run executes q, calling onEvent (if non-nil) from the calling goroutine as
// work progresses. Per-repository failures are part of the outcome; the
// returned error is limited to cancellation and report write failures.
func (r *Runner) Run(ctx context.Context, q Query, onEvent func(Event)) (*Outcome, error) {
	emit := func(e Event) {
		if onEvent != nil {
			onEvent(e)
		}
	}

	repos, err := git.Locate(ctx, q.Root, q.Locate)
	if err != nil {
		return nil, err
	}
	r.logger.Infow("located repositories", "root", q.Root, "count", len(repos))
	emit(Event{Stage: StageLocated, Total: len(repos), Message: fmt.Sprintf("found %d git repositories", len(repos))})

	agg := stats.NewAggregator(stats.DateRange{Since: q.Extract.Since, Until: q.Extract.Until}, q.Extract.Since.Location())
	outcome := &Outcome{}

	slots, stop := r.schedule(ctx, repos, q)
	defer stop()

	var commits []git.Commit
	var messages []git.Message
	for i, path := range repos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		emit(Event{Stage: StageRepoStarted, Index: i + 1, Total: len(repos), Repo: path,
			Message: fmt.Sprintf("processing %d/%d: %s", i+1, len(repos), git.Repository{Path: path}.Name())})

		result := slots[i]()
		agg.Add(result)
		outcome.Results = append(outcome.Results, result)
		commits = append(commits, result.Commits...)
		messages = append(messages, result.Messages...)

		done := result
		emit(Event{Stage: StageRepoDone, Index: i + 1, Total: len(repos), Repo: path,
			Result: &done, Message: describe(result)})
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	outcome.Summary = agg.Finalize()

	if len(commits) == 0 {
		r.logger.Infow("no matching commits", "since", q.Extract.SinceArg(), "until", q.Extract.UntilArg())
		return outcome, nil
	}

	since, until := q.Extract.Since, q.Extract.Until
	textPath := report.FilePath(q.OutputDir, since, until, q.Today, textExt)
	if err := report.WriteFile(textPath, commits, messages, q.Report); err != nil {
		r.logger.Errorw("failed to write report", "path", textPath, "err", err)
		return outcome, err
	}
	outcome.ReportPath = textPath
	r.logger.Infow("report written", "path", textPath, "commits", len(commits), "messages", len(messages))
	emit(Event{Stage: StageWritten, Path: textPath, Message: "report saved to " + textPath})

	if q.XLSX {
		xlsxPath := report.FilePath(q.OutputDir, since, until, q.Today, xlsxExt)
		if err := report.WriteXLSX(xlsxPath, commits, q.Report); err != nil {
			r.logger.Errorw("failed to write spreadsheet", "path", xlsxPath, "err", err)
			_ = os.Remove(xlsxPath)
			return outcome, err
		}
		outcome.XLSXPath = xlsxPath
		emit(Event{Stage: StageWritten, Path: xlsxPath, Message: "spreadsheet saved to " + xlsxPath})
	}

	return outcome, nil
}

// schedule returns one result getter per repository. Sequential runs extract
// on the getter call; pooled runs extract ahead and the getter waits.
func (r *Runner) schedule(ctx context.Context, repos []string, q Query) ([]func() git.Result, func()) {
	slots := make([]func() git.Result, len(repos))

	if q.Workers <= 1 {
		for i, path := range repos {
			slots[i] = func() git.Result {
				return r.extractor.Extract(ctx, path, q.Extract)
			}
		}
		return slots, func() {}
	}

	wp := workerpool.New(q.Workers)
	for i, path := range repos {
		ch := make(chan git.Result, 1)
		wp.Submit(func() {
			defer func() {
				if rec := recover(); rec != nil {
					r.logger.Errorw("recovered from panic", "repo", path, "panic", rec)
					ch <- git.Result{
						Repo:   git.Repository{Path: path, Branch: git.UnknownBranch},
						Status: git.StatusFailed,
						Err:    fmt.Errorf("panic: %v", rec),
					}
				}
			}()
			ch <- r.extractor.Extract(ctx, path, q.Extract)
		})
		slots[i] = func() git.Result {
			select {
			case res := <-ch:
				return res
			case <-ctx.Done():
				return git.Result{
					Repo:   git.Repository{Path: path, Branch: git.UnknownBranch},
					Status: git.StatusFailed,
					Err:    ctx.Err(),
				}
			}
		}
	}
	// Stop abandons queued work
	return slots, wp.Stop
}

// Stream runs q on its own goroutine. Events arrive on the first channel,
// which is closed before the single terminal value is sent on the second.
// Callers must drain events until it is closed.
func (r *Runner) Stream(ctx context.Context, q Query) (<-chan Event, <-chan StreamResult) {
	events := make(chan Event, 16)
	done := make(chan StreamResult, 1)

	go func() {
		outcome, err := r.Run(ctx, q, func(e Event) {
			select {
			case events <- e:
			case <-ctx.Done():
			}
		})
		close(events)
		done <- StreamResult{Outcome: outcome, Err: err}
		close(done)
	}()

	return events, done
}

// StreamResult carries the terminal value of Stream
type StreamResult struct {
	Outcome *Outcome
	Err     error
}

func describe(result git.Result) string {
	switch result.Status {
	case git.StatusFailed:
		return fmt.Sprintf("%s: query failed: %v", result.Repo.Name(), result.Err)
	case git.StatusDegraded:
		return fmt.Sprintf("%s (%s): %d commits, with warnings: %s",
			result.Repo.Name(), result.Repo.Branch, len(result.Commits), result.WarningText())
	}
	if len(result.Commits) == 0 {
		return fmt.Sprintf("%s (%s): no commits", result.Repo.Name(), result.Repo.Branch)
	}
	return fmt.Sprintf("%s (%s): %d commits", result.Repo.Name(), result.Repo.Branch, len(result.Commits))
}
