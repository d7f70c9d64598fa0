package stats

import (
	"time"

	"github.com/audi70r/gitlogreport/internal/git"
)

// DateRange represents the inclusive window of a run
type DateRange struct {
	Since time.Time
	Until time.Time
}

// Summary holds the totals of one run
type Summary struct {
	DateRange     DateRange
	TotalCommits  int
	TotalMessages int

	// Per repository, in processing order
	Repos []*RepoStats

	// Outcome counts
	Failed   int
	Degraded int

	// Time-based data
	DailyActivity map[string]int // "2024-01-15" -> count
	Hours         WorkHours
}

// NewSummary creates an empty Summary for the window
func NewSummary(dateRange DateRange) *Summary {
	return &Summary{
		DateRange:     dateRange,
		DailyActivity: make(map[string]int),
	}
}

// RepoStats holds the outcome of one repository
type RepoStats struct {
	Path     string
	Name     string
	Branch   string
	Commits  int
	Messages int
	Status   git.Status
	Reason   string // failure or warning text, empty when ok
}

// WorkHours counts commits by weekday (Monday first) and hour
type WorkHours struct {
	Matrix [7][24]int
	Max    int
}

// Peak returns the busiest weekday and hour
func (w WorkHours) Peak() (day, hour, count int) {
	for d := 0; d < 7; d++ {
		for h := 0; h < 24; h++ {
			if w.Matrix[d][h] > count {
				day, hour, count = d, h, w.Matrix[d][h]
			}
		}
	}
	return
}

// TimelineData holds per-day commit counts across the window
type TimelineData struct {
	Labels []string
	Values []int
}
