package stats

import (
	"sort"
	"time"

	"github.com/audi70r/gitlogreport/internal/git"
)

const dayLayout = "2006-01-02"

// Aggregator collects extraction results into a Summary
type Aggregator struct {
	summary  *Summary
	timezone *time.Location
}

// NewAggregator creates a new summary aggregator
func NewAggregator(dateRange DateRange, tz *time.Location) *Aggregator {
	if tz == nil {
		tz = time.Local
	}
	return &Aggregator{
		summary:  NewSummary(dateRange),
		timezone: tz,
	}
}

// Add records the outcome of one repository
func (a *Aggregator) Add(result git.Result) {
	rs := &RepoStats{
		Path:     result.Repo.Path,
		Name:     result.Repo.Name(),
		Branch:   result.Repo.Branch,
		Commits:  len(result.Commits),
		Messages: len(result.Messages),
		Status:   result.Status,
	}

	switch result.Status {
	case git.StatusFailed:
		a.summary.Failed++
		if result.Err != nil {
			rs.Reason = result.Err.Error()
		}
	case git.StatusDegraded:
		a.summary.Degraded++
		rs.Reason = result.WarningText()
	}

	a.summary.Repos = append(a.summary.Repos, rs)
	a.summary.TotalCommits += rs.Commits
	a.summary.TotalMessages += rs.Messages

	for _, c := range result.Commits {
		if c.When.IsZero() {
			continue
		}
		local := c.When.In(a.timezone)
		a.summary.DailyActivity[local.Format(dayLayout)]++
		a.addHour(local)
	}
}

func (a *Aggregator) addHour(t time.Time) {
	// Monday first
	day := (int(t.Weekday()) + 6) % 7
	hours := &a.summary.Hours
	hours.Matrix[day][t.Hour()]++
	if hours.Matrix[day][t.Hour()] > hours.Max {
		hours.Max = hours.Matrix[day][t.Hour()]
	}
}

// Finalize returns the collected summary
func (a *Aggregator) Finalize() *Summary {
	return a.summary
}

// ActiveRepos returns repositories that produced at least one commit,
// most commits first
func (s *Summary) ActiveRepos() []*RepoStats {
	var active []*RepoStats
	for _, r := range s.Repos {
		if r.Commits > 0 {
			active = append(active, r)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Commits > active[j].Commits
	})
	return active
}

// Timeline returns one value per day of the window, zero filled
func (s *Summary) Timeline() *TimelineData {
	start := truncateDay(s.DateRange.Since)
	end := truncateDay(s.DateRange.Until)
	if start.IsZero() || end.Before(start) {
		return &TimelineData{}
	}

	var labels []string
	var values []int
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format(dayLayout)
		labels = append(labels, dateStr)
		values = append(values, s.DailyActivity[dateStr])
	}

	return &TimelineData{
		Labels: labels,
		Values: values,
	}
}

func truncateDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
