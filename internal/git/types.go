package git

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

// UnknownBranch is substituted when the current branch cannot be determined
const UnknownBranch = "unknown branch"

// Repository identifies a working copy found by the locator
type Repository struct {
	Path   string
	Branch string
}

// Name returns the directory name used as the project name in reports
func (r Repository) Name() string {
	return filepath.Base(r.Path)
}

// Commit represents one parsed block of git log output
type Commit struct {
	Repo    Repository
	Hash    string
	Author  string
	Date    string    // as printed by git, --date=iso
	When    time.Time // zero if Date did not parse
	Message string
	Raw     string // the block as printed, used for detailed listings

	// HasMessage is false when the block carried no message label.
	HasMessage bool
}

// Message is the projection of a commit used in the condensed summary
type Message struct {
	Repo Repository
	Text string
}

// Query holds the extraction parameters shared by every repository in a run
type Query struct {
	Author      string
	Since       time.Time // date only, window starts at 00:00:00
	Until       time.Time // date only, window ends at 23:59:59
	Refresh     bool
	AllBranches bool
}

const (
	dateLayout  = "2006-01-02"
	isoLayout   = "2006-01-02 15:04:05 -0700"
	windowStart = " 00:00:00"
	windowEnd   = " 23:59:59"
)

// SinceArg returns the inclusive lower bound in the form git accepts
func (q Query) SinceArg() string {
	return q.Since.Format(dateLayout) + windowStart
}

// UntilArg returns the inclusive upper bound in the form git accepts
func (q Query) UntilArg() string {
	return q.Until.Format(dateLayout) + windowEnd
}

// Window returns the inclusive time bounds in the location of Since and Until
func (q Query) Window() (time.Time, time.Time) {
	y, m, d := q.Since.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, q.Since.Location())
	y, m, d = q.Until.Date()
	end := time.Date(y, m, d, 23, 59, 59, 0, q.Until.Location())
	return start, end
}

// Status classifies the outcome of extracting one repository
type Status int

const (
	// StatusOK means history was read and no step failed.
	StatusOK Status = iota
	// StatusDegraded means history was read but a soft step (refresh, branch lookup) failed.
	StatusDegraded
	// StatusFailed means the history query failed and no records were produced.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusDegraded:
		return "degraded"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Result is the outcome of extracting one repository
type Result struct {
	Repo     Repository
	Commits  []Commit
	Messages []Message
	Status   Status
	Err      error             // set when Status is StatusFailed
	Warnings *multierror.Error // soft failures, nil if none
}

// WarningText joins the soft failures on one line, empty if there were none
func (r Result) WarningText() string {
	if r.Warnings == nil {
		return ""
	}
	parts := make([]string, 0, len(r.Warnings.Errors))
	for _, err := range r.Warnings.Errors {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "; ")
}
