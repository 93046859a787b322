package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/feedrelay/feedrelay/pkg/config"
	"github.com/feedrelay/feedrelay/pkg/cursor"
	"github.com/feedrelay/feedrelay/pkg/dispatch"
	"github.com/feedrelay/feedrelay/pkg/feed"
	"github.com/feedrelay/feedrelay/pkg/novelty"
	"github.com/feedrelay/feedrelay/pkg/quarantine"
	"github.com/feedrelay/feedrelay/pkg/scheduler"
	"github.com/feedrelay/feedrelay/pkg/telegram"
	"github.com/feedrelay/feedrelay/server"
)

// Opts with all CLI options
type Opts struct {
	Config  string `short:"c" long:"config" env:"CONFIG" default:"config.yml" description:"config file path"`
	Sources string `short:"s" long:"sources" env:"SOURCES" default:"feeds.txt" description:"sources file path"`
	Dry     bool   `long:"dry" description:"dry run, log instead of sending"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	if opts.NoColor {
		color.NoColor = true
	}
	setupLog(opts.Debug, cfg.Telegram.Token)

	log.Printf("[INFO] starting feedrelay version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	if err := run(ctx, cfg, opts); err != nil {
		log.Printf("[ERROR] feedrelay failed: %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

// run wires the pipeline and blocks until the context is canceled
func run(ctx context.Context, cfg *config.Config, opts Opts) error {
	sources, err := config.LoadSources(opts.Sources)
	if err != nil {
		return fmt.Errorf("load sources: %w", err)
	}
	log.Printf("[INFO] loaded %d sources from %s", len(sources), opts.Sources)

	store, err := makeStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open cursor store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("[WARN] failed to close cursor store: %v", err)
		}
	}()

	fetcher := feed.NewFetcher(cfg.Fetch.Timeout, cfg.Fetch.UserAgent)
	detector := novelty.NewDetector(novelty.Policy(cfg.Novelty.ColdStart), cfg.Novelty.Window)

	sink := telegram.NewClient(cfg.Telegram.Token, cfg.Telegram.ChatID, cfg.Telegram.Timeout,
		telegram.WithDry(opts.Dry))

	dispatcher := dispatch.NewDispatcher(sink, store, dispatch.Config{
		DelayMin:     cfg.Dispatch.DelayMin,
		DelayMax:     cfg.Dispatch.DelayMax,
		PerSourceCap: cfg.Dispatch.PerSourceCap,
		GlobalCap:    cfg.Dispatch.GlobalCap,
		SendRetries:  cfg.Dispatch.SendRetries,
	})

	sched := scheduler.NewScheduler(scheduler.Params{
		Sources:        sources,
		Fetcher:        fetcher,
		Detector:       detector,
		Dispatcher:     dispatcher,
		Store:          store,
		Quarantine:     quarantine.NewManager(store, cfg.Quarantine.Threshold),
		CycleInterval:  cfg.Schedule.CycleInterval,
		SourcePauseMin: cfg.Schedule.SourcePauseMin,
		SourcePauseMax: cfg.Schedule.SourcePauseMax,
		MaxWorkers:     cfg.Schedule.MaxWorkers,
	})

	sched.Start(ctx)
	defer sched.Stop()

	if cfg.Server.Enabled {
		listen, timeout := cfg.GetServerConfig()
		srv := server.New(sched, listen, timeout, revision, opts.Debug)
		return srv.Run(ctx)
	}

	<-ctx.Done()
	return nil
}

// makeStore builds the configured cursor store backend
func makeStore(ctx context.Context, cfg *config.Config) (cursor.Store, error) {
	switch cfg.State.Backend {
	case "sqlite":
		return cursor.NewSQLiteStore(ctx, cfg.State.DSN)
	default:
		return cursor.NewFileStore(cfg.State.Path)
	}
}

func setupLog(dbg bool, secs ...string) {
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

	var secrets []string
	for _, s := range secs {
		if s != "" {
			secrets = append(secrets, s)
		}
	}
	if len(secrets) > 0 {
		logOpts = append(logOpts, lgr.Secret(secrets...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
