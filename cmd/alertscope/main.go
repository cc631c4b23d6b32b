package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/alertscope/pkg/config"
	"github.com/umputun/alertscope/pkg/feed"
	"github.com/umputun/alertscope/pkg/poller"
	"github.com/umputun/alertscope/pkg/repository"
	"github.com/umputun/alertscope/pkg/scheduler"
	"github.com/umputun/alertscope/pkg/sentiment"
	"github.com/umputun/alertscope/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"config.yml" description:"configuration file"`
	Listen string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides server.listen"`
	DSN    string `long:"dsn" env:"DSN" description:"database connection string, overrides database.dsn"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if opts.NoColor {
		color.NoColor = true
	}
	SetupLog(opts.Debug)

	lgr.Printf("[INFO] starting alertscope version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		lgr.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()

	if err != nil {
		lgr.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	lgr.Print("[INFO] shutdown complete")
}

// run loads configuration, wires all components and blocks until ctx is canceled
func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}
	if opts.DSN != "" {
		cfg.Database.DSN = opts.DSN
	}
	if cfg.Sentiment.APIKey != "" {
		SetupLog(opts.Debug, cfg.Sentiment.APIKey)
	}

	repos, err := repository.NewRepositories(ctx, repositoryConfig(cfg.Database))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			lgr.Printf("[WARN] failed to close database: %v", err)
		}
	}()

	fetcher := feed.NewHTTPFetcher(feed.FetcherParams{
		Timeout:    cfg.Fetch.Timeout,
		UserAgent:  cfg.Fetch.UserAgent,
		Attempts:   cfg.Fetch.Attempts,
		RetryDelay: cfg.Fetch.RetryDelay,
		MaxSize:    cfg.Fetch.MaxSize,
	})

	var classifier poller.SentimentClassifier
	if cfg.Sentiment.Enabled {
		classifier = sentiment.NewClassifier(cfg.GetSentimentConfig())
		lgr.Printf("[INFO] sentiment tagging enabled, model %s", cfg.Sentiment.Model)
	}

	watches := make([]scheduler.Watch, 0, len(cfg.Watches))
	for _, w := range cfg.GetWatches() {
		watches = append(watches, scheduler.Watch{
			URL:         w.URL,
			Keyword:     w.Keyword,
			AutoRefresh: w.IsAutoRefresh(),
			Interval:    w.Interval,
		})
	}

	sched, err := scheduler.NewScheduler(scheduler.Params{
		Fetcher:    fetcher,
		Store:      repos.Alert,
		Classifier: classifier,
		Watches:    watches,
		MaxWorkers: cfg.Poller.MaxWorkers,
	})
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	sched.Start(ctx)
	defer sched.Stop()

	srv := server.New(cfg, repos.Alert, sched, revision, opts.Debug)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// repositoryConfig converts database section, conn_max_lifetime is in seconds
func repositoryConfig(db config.DatabaseConfig) repository.Config {
	return repository.Config{
		DSN:             db.DSN,
		MaxOpenConns:    db.MaxOpenConns,
		MaxIdleConns:    db.MaxIdleConns,
		ConnMaxLifetime: time.Duration(db.ConnMaxLifetime) * time.Second,
	}
}

// SetupLog configures lgr and the std logger, secrets are masked in output
func SetupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}

