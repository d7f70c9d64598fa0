package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/audi70r/gitlogreport/internal/config"
	"github.com/audi70r/gitlogreport/internal/git"
	"github.com/audi70r/gitlogreport/internal/pipeline"
	"github.com/audi70r/gitlogreport/internal/ui"
	"github.com/audi70r/gitlogreport/internal/ui/components"
)

func main() {
	var (
		configPath string
		tui        bool
		debug      bool
		logFile    string
		exclude    string

		overrides = config.Config{}
	)

	flag.StringVar(&configPath, "config", config.DefaultPath, "Path to the YAML configuration file.")
	flag.BoolVar(&tui, "tui", false, "Open the terminal form instead of running once.")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging.")
	flag.StringVar(&logFile, "log-file", "", "Write logs to this file (the terminal form logs nowhere without it).")
	flag.StringVar(&overrides.RootDirectory, "root", "", "Directory searched for git repositories.")
	flag.StringVar(&overrides.Author, "author", "", "Author pattern passed to the history query.")
	flag.StringVar(&overrides.StartDate, "since", "", "First day of the window, YYYY-MM-DD (default today).")
	flag.StringVar(&overrides.EndDate, "until", "", "Last day of the window, YYYY-MM-DD (default today).")
	flag.StringVar(&overrides.OutputDirectory, "output", "", "Directory the report is written to.")
	flag.BoolVar(&overrides.ExtractAllBranches, "all-branches", false, "Query every branch instead of the current one.")
	flag.BoolVar(&overrides.PullLatestCode, "pull", false, "Fast-forward each repository before querying it.")
	flag.BoolVar(&overrides.DetailedOutput, "detailed", false, "Include the raw commit blocks in the report.")
	flag.BoolVar(&overrides.ShowProjectAndBranch, "show-project", false, "Prefix summary lines with project(branch).")
	flag.IntVar(&overrides.MaxDepth, "max-depth", 0, "Deepest directory level searched below the root, 0 for unlimited.")
	flag.StringVar(&exclude, "exclude", "", "Comma separated glob patterns the search skips.")
	flag.StringVar(&overrides.Backend, "backend", "", "History backend: cli or go-git.")
	flag.IntVar(&overrides.Workers, "workers", 0, "Repositories extracted at once.")
	flag.BoolVar(&overrides.XLSXOutput, "xlsx", false, "Also write an xlsx spreadsheet.")
	flag.Parse()

	logger, err := newLogger(tui, debug, logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := config.Load(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Infow("no config file, using defaults", "path", configPath)
	case err != nil:
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	flag.Visit(func(f *flag.Flag) {
		applyFlag(cfg, &overrides, f.Name, exclude)
	})

	if tui {
		if err := ui.NewApp(cfg, configPath, logger).Run(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	q, err := cfg.Query(time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, pipeline.NewRunner(cfg.NewBackend(), logger), q); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// applyFlag copies one explicitly set flag onto the loaded configuration
func applyFlag(cfg, set *config.Config, name, exclude string) {
	switch name {
	case "root":
		cfg.RootDirectory = set.RootDirectory
	case "author":
		cfg.Author = set.Author
	case "since":
		cfg.StartDate = set.StartDate
	case "until":
		cfg.EndDate = set.EndDate
	case "output":
		cfg.OutputDirectory = set.OutputDirectory
	case "all-branches":
		cfg.ExtractAllBranches = set.ExtractAllBranches
	case "pull":
		cfg.PullLatestCode = set.PullLatestCode
	case "detailed":
		cfg.DetailedOutput = set.DetailedOutput
	case "show-project":
		cfg.ShowProjectAndBranch = set.ShowProjectAndBranch
	case "max-depth":
		cfg.MaxDepth = set.MaxDepth
	case "exclude":
		cfg.Exclude = nil
		for _, pattern := range strings.Split(exclude, ",") {
			if pattern = strings.TrimSpace(pattern); pattern != "" {
				cfg.Exclude = append(cfg.Exclude, pattern)
			}
		}
	case "backend":
		cfg.Backend = set.Backend
	case "workers":
		cfg.Workers = set.Workers
	case "xlsx":
		cfg.XLSXOutput = set.XLSXOutput
	}
}

func run(ctx context.Context, runner *pipeline.Runner, q pipeline.Query) error {
	events, done := runner.Stream(ctx, q)
	for e := range events {
		switch e.Stage {
		case pipeline.StageRepoDone:
			mark := " "
			if e.Result != nil && e.Result.Status != git.StatusOK {
				mark = "!"
			}
			fmt.Printf("%s %s\n", mark, e.Message)
		default:
			fmt.Println(e.Message)
		}
	}

	result := <-done
	if result.Err != nil {
		return result.Err
	}

	outcome := result.Outcome
	if spark := components.RenderSparklineWithWidth(outcome.Summary.Timeline().Values, 60); spark != "" && outcome.Written() {
		fmt.Printf("Activity: %s\n", spark)
	}
	if outcome.Summary.Failed > 0 {
		fmt.Printf("%d repositories could not be queried\n", outcome.Summary.Failed)
	}
	fmt.Println(outcome.Status())
	return nil
}

// newLogger logs to stderr for console runs. The terminal form owns the
// screen, so it logs only to logFile.
func newLogger(tui, debug bool, logFile string) (*zap.SugaredLogger, error) {
	if tui && logFile == "" {
		return zap.NewNop().Sugar(), nil
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if logFile != "" {
		cfg.OutputPaths = []string{logFile}
		cfg.ErrorOutputPaths = []string{logFile}
		if !debug {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
