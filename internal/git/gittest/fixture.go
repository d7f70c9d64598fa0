// Package gittest builds throwaway repositories for tests.
package gittest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// Commit describes one fixture commit
type Commit struct {
	Author  string
	Message string
	When    time.Time
}

// InitRepo creates a repository at dir and records commits in order, each
// touching its own file. It returns the commit hashes.
func InitRepo(t testing.TB, dir string, commits ...Commit) []string {
	t.Helper()

	require.NoError(t, os.MkdirAll(dir, 0o755))
	r, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := r.Worktree()
	require.NoError(t, err)

	hashes := make([]string, 0, len(commits))
	for i, c := range commits {
		name := fmt.Sprintf("change-%03d.txt", i)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(c.Message), 0o644))
		_, err = wt.Add(name)
		require.NoError(t, err)

		hash, err := wt.Commit(c.Message, &gogit.CommitOptions{
			Author: &object.Signature{
				Name:  c.Author,
				Email: c.Author + "@example.com",
				When:  c.When,
			},
		})
		require.NoError(t, err)
		hashes = append(hashes, hash.String())
	}

	return hashes
}

// FakeRepo creates dir with an empty metadata directory, enough for the
// locator but not for any backend.
func FakeRepo(t testing.TB, dir string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
}
