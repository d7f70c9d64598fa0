package git

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLog(t *testing.T) {
	repo := Repository{Path: "/work/proj", Branch: "main"}
	raw := "Hash: aaa111\nAuthor: alice\nDate: 2024-10-20 10:11:12 +0800\nMessage: feat: add api\n\n\n" +
		"Hash: bbb222\nAuthor: alice\nDate: 2024-10-21 09:00:00 +0000\nMessage: fix: crash on empty input\n\n"

	commits, messages := ParseLog(repo, raw)
	require.Len(t, commits, 2)
	require.Len(t, messages, 2)

	assert.Equal(t, "aaa111", commits[0].Hash)
	assert.Equal(t, "alice", commits[0].Author)
	assert.Equal(t, "2024-10-20 10:11:12 +0800", commits[0].Date)
	assert.True(t, commits[0].When.Equal(time.Date(2024, 10, 20, 2, 11, 12, 0, time.UTC)))
	assert.Equal(t, "feat: add api", commits[0].Message)
	assert.Equal(t, repo, commits[0].Repo)
	assert.True(t, commits[0].HasMessage)

	assert.Equal(t, Message{Repo: repo, Text: "fix: crash on empty input"}, messages[1])
}

func TestParseLogBlockWithoutMessage(t *testing.T) {
	repo := Repository{Path: "/work/proj", Branch: "main"}
	raw := "Hash: aaa111\nAuthor: alice\nDate: 2024-10-20 10:11:12 +0800\n\n" +
		"Hash: bbb222\nAuthor: alice\nDate: 2024-10-21 09:00:00 +0000\nMessage: docs: readme\n"

	commits, messages := ParseLog(repo, raw)
	require.Len(t, commits, 2)
	require.Len(t, messages, 1)

	assert.Equal(t, "aaa111", commits[0].Hash)
	assert.False(t, commits[0].HasMessage)
	assert.Empty(t, commits[0].Message)
	assert.Equal(t, "docs: readme", messages[0].Text)
}

func TestParseLogMultiParagraphMessage(t *testing.T) {
	repo := Repository{Path: "/work/proj"}
	raw := "Hash: aaa111\nAuthor: alice\nDate: 2024-10-20 10:11:12 +0800\nMessage: feat: add api\n\nLonger explanation\nacross lines.\n\n\n" +
		"Hash: bbb222\nAuthor: alice\nDate: 2024-10-21 09:00:00 +0000\nMessage: chore: bump\n"

	commits, messages := ParseLog(repo, raw)
	require.Len(t, commits, 2)
	require.Len(t, messages, 2)

	assert.Equal(t, "feat: add api\n\nLonger explanation\nacross lines.", commits[0].Message)
	assert.Contains(t, commits[0].Raw, "Longer explanation")
	assert.Equal(t, "chore: bump", messages[1].Text)
}

func TestParseLogEmpty(t *testing.T) {
	commits, messages := ParseLog(Repository{Path: "/work/proj"}, "\n\n  \n")
	assert.Empty(t, commits)
	assert.Empty(t, messages)
}

func TestParseLogWindowsLineEndings(t *testing.T) {
	raw := "Hash: aaa111\r\nAuthor: alice\r\nDate: 2024-10-20 10:11:12 +0800\r\nMessage: test: cover parser\r\n\r\n"

	commits, messages := ParseLog(Repository{Path: "/work/proj"}, raw)
	require.Len(t, commits, 1)
	require.Len(t, messages, 1)
	assert.Equal(t, "aaa111", commits[0].Hash)
	assert.Equal(t, "test: cover parser", messages[0].Text)
}

func TestQueryArgs(t *testing.T) {
	q := Query{
		Author: "alice",
		Since:  time.Date(2024, 10, 20, 0, 0, 0, 0, time.Local),
		Until:  time.Date(2024, 10, 22, 0, 0, 0, 0, time.Local),
	}

	assert.Equal(t, "2024-10-20 00:00:00", q.SinceArg())
	assert.Equal(t, "2024-10-22 23:59:59", q.UntilArg())

	start, end := q.Window()
	assert.Equal(t, time.Date(2024, 10, 20, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2024, 10, 22, 23, 59, 59, 0, time.Local), end)

	args := LogArgs(q)
	assert.Contains(t, args, "--since=2024-10-20 00:00:00")
	assert.Contains(t, args, "--until=2024-10-22 23:59:59")
	assert.Contains(t, args, "--author=alice")
	assert.Contains(t, args, "--date=iso")
	assert.NotContains(t, args, "--all")

	q.AllBranches = true
	assert.Contains(t, LogArgs(q), "--all")
}

func TestParseLogQuotedHashInBody(t *testing.T) {
	repo := Repository{Path: "/work/proj"}
	raw := "Hash: aaa111\nAuthor: alice\nDate: 2024-10-20 10:11:12 +0800\nMessage: revert: add api\n\n" +
		"Hash: bbb222 was reverted\n\n\n" +
		"Hash: ccc333\nAuthor: alice\nDate: 2024-10-21 09:00:00 +0000\nMessage: chore: bump\n"

	commits, messages := ParseLog(repo, raw)
	require.Len(t, commits, 2)
	require.Len(t, messages, 2)

	assert.Equal(t, "revert: add api\n\nHash: bbb222 was reverted", commits[0].Message)
	assert.Equal(t, "ccc333", commits[1].Hash)
}
