package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Backend answers the three questions the extractor asks of a repository.
// Every call names the repository explicitly; nothing depends on the
// process working directory.
type Backend interface {
	// CurrentBranch returns the short name of the checked out branch.
	CurrentBranch(ctx context.Context, repoPath string) (string, error)
	// Refresh brings the local history up to date with its remote.
	Refresh(ctx context.Context, repoPath string) error
	// Log returns history for the query, formatted with LogFormat.
	Log(ctx context.Context, repoPath string, q Query) (string, error)
}

// Runner executes the git binary against a repository
type Runner interface {
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)
}

// ExecRunner runs the git executable found on PATH
type ExecRunner struct {
	// Binary defaults to "git".
	Binary string
}

// Run executes git -C repoPath args... and returns stdout. On failure the
// error carries git's trimmed stderr.
func (r ExecRunner) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	binary := r.Binary
	if binary == "" {
		binary = "git"
	}

	cmd := exec.CommandContext(ctx, binary, append([]string{"-C", repoPath}, args...)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("git %s: %s: %w", args[0], msg, err)
		}
		return nil, fmt.Errorf("git %s: %w", args[0], err)
	}
	return output, nil
}

// CLIBackend drives the git executable
type CLIBackend struct {
	runner Runner
}

// NewCLIBackend creates a backend using runner, or ExecRunner if nil
func NewCLIBackend(runner Runner) *CLIBackend {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &CLIBackend{runner: runner}
}

// CurrentBranch implements Backend
func (b *CLIBackend) CurrentBranch(ctx context.Context, repoPath string) (string, error) {
	output, err := b.runner.Run(ctx, repoPath, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	branch := strings.TrimSpace(string(output))
	if branch == "" {
		return "", fmt.Errorf("git rev-parse: empty branch name")
	}
	return branch, nil
}

// Refresh implements Backend with a fast-forward only pull
func (b *CLIBackend) Refresh(ctx context.Context, repoPath string) error {
	_, err := b.runner.Run(ctx, repoPath, "pull", "--ff-only")
	return err
}

// Log implements Backend
func (b *CLIBackend) Log(ctx context.Context, repoPath string, q Query) (string, error) {
	output, err := b.runner.Run(ctx, repoPath, LogArgs(q)...)
	if err != nil {
		return "", err
	}
	return string(output), nil
}

// LogArgs builds the git log arguments for q
func LogArgs(q Query) []string {
	args := []string{
		"log",
		"--no-color",
		"--since=" + q.SinceArg(),
		"--until=" + q.UntilArg(),
		"--author=" + q.Author,
		"--pretty=" + LogFormat,
		"--date=iso",
	}
	if q.AllBranches {
		args = append(args, "--all")
	}
	return args
}
