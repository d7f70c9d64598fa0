package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env"
	"gopkg.in/yaml.v3"

	"github.com/audi70r/gitlogreport/internal/git"
	"github.com/audi70r/gitlogreport/internal/pipeline"
	"github.com/audi70r/gitlogreport/internal/report"
)

// DefaultPath is where the form and the console run look for settings
const DefaultPath = "config.yaml"

const dateLayout = "2006-01-02"

// Backend names accepted in the backend key
const (
	BackendCLI   = "cli"
	BackendGoGit = "go-git"
)

var (
	ErrMissingRoot   = errors.New("root_directory is required")
	ErrMissingAuthor = errors.New("author is required")
	ErrMissingOutput = errors.New("output_directory is required")
	ErrInvalidDate   = errors.New("dates must be YYYY-MM-DD")
	ErrDateOrder     = errors.New("end_date is before start_date")
	ErrBackend       = errors.New("backend must be cli or go-git")
	ErrNegative      = errors.New("max_depth and workers must not be negative")
)

// Config holds application configuration
type Config struct {
	// Search settings
	RootDirectory string   `yaml:"root_directory" env:"GITLOGREPORT_ROOT_DIRECTORY"`
	MaxDepth      int      `yaml:"max_depth,omitempty" env:"GITLOGREPORT_MAX_DEPTH"`
	Exclude       []string `yaml:"exclude,omitempty" env:"GITLOGREPORT_EXCLUDE" envSeparator:","`

	// Query settings
	Author             string `yaml:"author" env:"GITLOGREPORT_AUTHOR"`
	StartDate          string `yaml:"start_date" env:"GITLOGREPORT_START_DATE"`
	EndDate            string `yaml:"end_date" env:"GITLOGREPORT_END_DATE"`
	PullLatestCode     bool   `yaml:"pull_latest_code" env:"GITLOGREPORT_PULL_LATEST_CODE"`
	ExtractAllBranches bool   `yaml:"extract_all_branches" env:"GITLOGREPORT_EXTRACT_ALL_BRANCHES"`
	Backend            string `yaml:"backend,omitempty" env:"GITLOGREPORT_BACKEND"`
	Workers            int    `yaml:"workers,omitempty" env:"GITLOGREPORT_WORKERS"`

	// Output settings
	OutputDirectory      string            `yaml:"output_directory" env:"GITLOGREPORT_OUTPUT_DIRECTORY"`
	DetailedOutput       bool              `yaml:"detailed_output" env:"GITLOGREPORT_DETAILED_OUTPUT"`
	ShowProjectAndBranch bool              `yaml:"show_project_and_branch" env:"GITLOGREPORT_SHOW_PROJECT_AND_BRANCH"`
	XLSXOutput           bool              `yaml:"xlsx_output,omitempty" env:"GITLOGREPORT_XLSX_OUTPUT"`
	ProjectNames         map[string]string `yaml:"project_names"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		DetailedOutput:       true,
		ShowProjectAndBranch: true,
		Backend:              BackendCLI,
		ProjectNames:         map[string]string{},
	}
}

// Load reads path over the defaults and then applies GITLOGREPORT_*
// environment variables. When the file does not exist the returned error
// wraps os.ErrNotExist and cfg still holds defaults plus the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, readErr := os.ReadFile(path)
	if readErr == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return Default(), fmt.Errorf("parse %s: %w", path, err)
		}
		if cfg.ProjectNames == nil {
			cfg.ProjectNames = map[string]string{}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return cfg, fmt.Errorf("environment: %w", err)
	}

	if readErr != nil {
		return cfg, fmt.Errorf("read %s: %w", path, readErr)
	}
	return cfg, nil
}

// Save writes cfg to path in the same schema Load reads
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Validate checks the fields a run cannot do without
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.RootDirectory) == "":
		return ErrMissingRoot
	case strings.TrimSpace(c.Author) == "":
		return ErrMissingAuthor
	case strings.TrimSpace(c.OutputDirectory) == "":
		return ErrMissingOutput
	}
	switch c.Backend {
	case "", BackendCLI, BackendGoGit:
	default:
		return fmt.Errorf("%w, got %q", ErrBackend, c.Backend)
	}
	if c.Workers < 0 || c.MaxDepth < 0 {
		return ErrNegative
	}
	return nil
}

// Dates resolves the window, taking today for empty dates
func (c *Config) Dates(today time.Time) (time.Time, time.Time, error) {
	since, err := parseDate(c.StartDate, today)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date %q: %w", c.StartDate, ErrInvalidDate)
	}
	until, err := parseDate(c.EndDate, today)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end_date %q: %w", c.EndDate, ErrInvalidDate)
	}
	if until.Before(since) {
		return time.Time{}, time.Time{}, ErrDateOrder
	}
	return since, until, nil
}

// Query builds the pipeline query for a run started at today
func (c *Config) Query(today time.Time) (pipeline.Query, error) {
	if err := c.Validate(); err != nil {
		return pipeline.Query{}, err
	}
	since, until, err := c.Dates(today)
	if err != nil {
		return pipeline.Query{}, err
	}

	overrides := make(report.NameOverrides, len(c.ProjectNames))
	for k, v := range c.ProjectNames {
		overrides[k] = v
	}

	return pipeline.Query{
		Root: report.ExpandHome(c.RootDirectory),
		Locate: git.LocateOptions{
			MaxDepth: c.MaxDepth,
			Exclude:  append([]string(nil), c.Exclude...),
		},
		Extract: git.Query{
			Author:      c.Author,
			Since:       since,
			Until:       until,
			Refresh:     c.PullLatestCode,
			AllBranches: c.ExtractAllBranches,
		},
		Report: report.Options{
			Detailed:             c.DetailedOutput,
			ShowProjectAndBranch: c.ShowProjectAndBranch,
			Overrides:            overrides,
		},
		OutputDir: c.OutputDirectory,
		Today:     today,
		XLSX:      c.XLSXOutput,
		Workers:   c.Workers,
	}, nil
}

// NewBackend returns the history backend named in the config
func (c *Config) NewBackend() git.Backend {
	if c.Backend == BackendGoGit {
		return git.NewGoGitBackend()
	}
	return git.NewCLIBackend(nil)
}

func parseDate(value string, today time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		y, m, d := today.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, today.Location()), nil
	}
	return time.ParseInLocation(dateLayout, value, today.Location())
}
