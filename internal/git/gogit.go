package git

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GoGitBackend reads repositories in-process with go-git. Its log output
// mirrors what CLIBackend gets from git log --pretty=LogFormat --date=iso.
type GoGitBackend struct{}

// NewGoGitBackend creates a go-git backed Backend
func NewGoGitBackend() *GoGitBackend {
	return &GoGitBackend{}
}

// CurrentBranch implements Backend. A detached HEAD reports "HEAD", as git
// rev-parse --abbrev-ref does.
func (b *GoGitBackend) CurrentBranch(ctx context.Context, repoPath string) (string, error) {
	r, err := gogit.PlainOpen(repoPath)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", repoPath, err)
	}
	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	if head.Name().IsBranch() {
		return head.Name().Short(), nil
	}
	return "HEAD", nil
}

// Refresh implements Backend by pulling origin into the worktree
func (b *GoGitBackend) Refresh(ctx context.Context, repoPath string) error {
	r, err := gogit.PlainOpen(repoPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", repoPath, err)
	}
	wt, err := r.Worktree()
	if err != nil {
		return fmt.Errorf("worktree: %w", err)
	}
	err = wt.PullContext(ctx, &gogit.PullOptions{RemoteName: gogit.DefaultRemoteName})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return fmt.Errorf("pull: %w", err)
	}
	return nil
}

// Log implements Backend
func (b *GoGitBackend) Log(ctx context.Context, repoPath string, q Query) (string, error) {
	r, err := gogit.PlainOpen(repoPath)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", repoPath, err)
	}

	since, until := q.Window()
	iter, err := r.Log(&gogit.LogOptions{
		Order: gogit.LogOrderCommitterTime,
		All:   q.AllBranches,
		Since: &since,
		Until: &until,
	})
	if err != nil {
		return "", fmt.Errorf("log: %w", err)
	}
	defer iter.Close()

	matches := authorMatcher(q.Author)

	var sb strings.Builder
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !matches(c.Author) {
			return nil
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		writeRecord(&sb, c)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walk history: %w", err)
	}

	return sb.String(), nil
}

// authorMatcher follows git log --author: a regular expression matched
// against "Name <email>". Patterns that do not compile match literally.
func authorMatcher(pattern string) func(object.Signature) bool {
	if pattern == "" {
		return func(object.Signature) bool { return true }
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return func(sig object.Signature) bool {
			return strings.Contains(sig.Name+" <"+sig.Email+">", pattern)
		}
	}
	return func(sig object.Signature) bool {
		return re.MatchString(sig.Name + " <" + sig.Email + ">")
	}
}

func writeRecord(sb *strings.Builder, c *object.Commit) {
	fmt.Fprintf(sb, "%s %s\n", labelHash, c.Hash.String())
	fmt.Fprintf(sb, "%s %s\n", labelAuthor, c.Author.Name)
	fmt.Fprintf(sb, "%s %s\n", labelDate, c.Author.When.Format(isoLayout))
	sb.WriteString(labelMessage + " " + c.Message)
	if !strings.HasSuffix(c.Message, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}
