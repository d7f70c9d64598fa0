package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/audi70r/gitlogreport/internal/git"
)

const (
	// SummaryHeader separates detailed records from the condensed summary
	SummaryHeader = "Summary of all commit messages:"

	ruleWidth  = 40
	dateLayout = "2006-01-02"
	filePrefix = "git_commits_"
)

// Options controls the shape of a report
type Options struct {
	Detailed             bool
	ShowProjectAndBranch bool
	Overrides            NameOverrides
}

// SummaryLine renders one condensed line for m from its subject, without a
// line break
func SummaryLine(m git.Message, opts Options) string {
	name := m.Repo.Name()
	label := opts.Overrides.Resolve(name, m.Repo.Branch)
	text := label + CleanMessage(Subject(m.Text))
	if opts.ShowProjectAndBranch {
		return Key(name, m.Repo.Branch) + " - " + text
	}
	return text
}

// Render writes the report body to w. The output depends only on its
// inputs, so identical runs produce identical files.
func Render(w io.Writer, commits []git.Commit, messages []git.Message, opts Options) error {
	bw := bufio.NewWriter(w)

	if opts.Detailed {
		rule := strings.Repeat("=", ruleWidth)
		for _, c := range commits {
			fmt.Fprintf(bw, "Repository: %s\n%s\n\n", c.Repo.Path, c.Raw)
			fmt.Fprintf(bw, "%s\n", rule)
		}
		fmt.Fprintf(bw, "\n%s\n\n", SummaryHeader)
	}

	for _, m := range messages {
		fmt.Fprintln(bw, SummaryLine(m, opts))
	}

	return bw.Flush()
}

// WriteFile renders the report into path, creating or truncating it. Any
// failure is returned; a partially written file may remain.
func WriteFile(path string, commits []git.Commit, messages []git.Message, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}

	if err := Render(f, commits, messages, opts); err != nil {
		_ = f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	return nil
}

// FileName returns the report name for the window. A window of exactly
// today uses the single day form, anything else the range form.
func FileName(since, until, today time.Time, ext string) string {
	start, end, now := since.Format(dateLayout), until.Format(dateLayout), today.Format(dateLayout)
	if start == now && end == now {
		return filePrefix + now + ext
	}
	return filePrefix + start + "_to_" + end + ext
}

// FilePath joins dir and FileName, expanding a leading ~
func FilePath(dir string, since, until, today time.Time, ext string) string {
	return filepath.Join(ExpandHome(dir), FileName(since, until, today, ext))
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
