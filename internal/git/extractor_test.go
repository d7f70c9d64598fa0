package git

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	branch     string
	branchErr  error
	refreshErr error
	log        string
	logErr     error

	refreshed bool
	queries   []Query
}

func (f *fakeBackend) CurrentBranch(ctx context.Context, repoPath string) (string, error) {
	return f.branch, f.branchErr
}

func (f *fakeBackend) Refresh(ctx context.Context, repoPath string) error {
	f.refreshed = true
	return f.refreshErr
}

func (f *fakeBackend) Log(ctx context.Context, repoPath string, q Query) (string, error) {
	f.queries = append(f.queries, q)
	return f.log, f.logErr
}

const twoCommits = "Hash: aaa111\nAuthor: alice\nDate: 2024-10-20 10:11:12 +0800\nMessage: feat: one\n\n\n" +
	"Hash: bbb222\nAuthor: alice\nDate: 2024-10-20 11:11:12 +0800\nMessage: fix: two\n"

func testQuery() Query {
	day := time.Date(2024, 10, 20, 0, 0, 0, 0, time.Local)
	return Query{Author: "alice", Since: day, Until: day}
}

func TestExtractOK(t *testing.T) {
	backend := &fakeBackend{branch: "main", log: twoCommits}
	result := NewExtractor(backend, nil).Extract(context.Background(), "/work/proj", testQuery())

	assert.Equal(t, StatusOK, result.Status)
	assert.Nil(t, result.Warnings)
	assert.NoError(t, result.Err)
	assert.Equal(t, Repository{Path: "/work/proj", Branch: "main"}, result.Repo)
	require.Len(t, result.Commits, 2)
	require.Len(t, result.Messages, 2)
	assert.Equal(t, "main", result.Messages[0].Repo.Branch)
	assert.False(t, backend.refreshed)
}

func TestExtractRefreshFailureIsSoft(t *testing.T) {
	backend := &fakeBackend{branch: "main", log: twoCommits, refreshErr: errors.New("no upstream")}
	q := testQuery()
	q.Refresh = true

	result := NewExtractor(backend, nil).Extract(context.Background(), "/work/proj", q)

	assert.True(t, backend.refreshed)
	assert.Equal(t, StatusDegraded, result.Status)
	require.NotNil(t, result.Warnings)
	assert.Len(t, result.Warnings.Errors, 1)
	assert.Contains(t, result.Warnings.Error(), "no upstream")
	assert.Len(t, result.Commits, 2)
}

func TestExtractBranchFailureUsesSentinel(t *testing.T) {
	backend := &fakeBackend{branchErr: errors.New("detached"), log: twoCommits}
	result := NewExtractor(backend, nil).Extract(context.Background(), "/work/proj", testQuery())

	assert.Equal(t, StatusDegraded, result.Status)
	assert.Equal(t, UnknownBranch, result.Repo.Branch)
	assert.Equal(t, UnknownBranch, result.Messages[1].Repo.Branch)
}

func TestExtractQueryFailure(t *testing.T) {
	backend := &fakeBackend{branch: "main", logErr: errors.New("exit status 128")}
	result := NewExtractor(backend, nil).Extract(context.Background(), "/work/proj", testQuery())

	assert.Equal(t, StatusFailed, result.Status)
	assert.EqualError(t, result.Err, "exit status 128")
	assert.Empty(t, result.Commits)
	assert.Empty(t, result.Messages)
}

func TestExtractPassesQuery(t *testing.T) {
	backend := &fakeBackend{branch: "main"}
	q := testQuery()
	q.AllBranches = true

	result := NewExtractor(backend, nil).Extract(context.Background(), "/work/proj", q)
	assert.Equal(t, StatusOK, result.Status)
	assert.Empty(t, result.Commits)
	require.Len(t, backend.queries, 1)
	assert.Equal(t, q, backend.queries[0])
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "ok", StatusOK.String())
	assert.Equal(t, "degraded", StatusDegraded.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "unknown", Status(42).String())
}
