package app

import (
	"context"
	"fmt"
	"log/slog"

	"wesum/internal/classify"
	"wesum/internal/config"
	"wesum/internal/infrastructure/feed"
	"wesum/internal/infrastructure/llm"
	"wesum/internal/infrastructure/push"
	"wesum/internal/infrastructure/scheduler"
	"wesum/internal/infrastructure/storage"
	"wesum/internal/logging"
	"wesum/internal/ports"
	"wesum/internal/summarize"
	"wesum/internal/usecase"
)

// Options tune one Application instance beyond the config document.
type Options struct {
	Daemon bool
	DryRun bool
}

// Application wires config to use cases and owns closable resources.
type Application struct {
	cfg      config.Config
	opts     Options
	logger   *slog.Logger
	store    *storage.SQLiteRepository
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance.
func New(cfg config.Config, opts Options, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open seen store: %w", err)
	}

	source := feed.NewRSSSource(cfg.Feed.URL, store, nil, baseLogger.With("component", "feed"))

	generator := llm.NewDashScopeClient(cfg.AI)
	dispatcher := summarize.New(generator, cfg.AI.MaxTokens, baseLogger.With("component", "summarize"))

	var notifier ports.Notifier
	if !opts.DryRun {
		notifier = push.NewNotifier(cfg.Push.SendKey)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:      source,
		Classifier:  classify.New(nil),
		Dispatcher:  dispatcher,
		Notifier:    notifier,
		TitlePrefix: cfg.Push.TitlePrefix,
		MaxArticles: cfg.Filters.MaxArticlesPerRun,
		MaxHours:    cfg.Filters.MaxHours,
		DryRun:      opts.DryRun,
		Logger:      baseLogger.With("component", "pipeline"),
	})

	return &Application{
		cfg:      cfg,
		opts:     opts,
		logger:   baseLogger,
		store:    store,
		pipeline: pipeline,
	}, nil
}

// Run executes once, or keeps rerunning on the configured interval in
// daemon mode until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if !a.opts.Daemon {
		return a.pipeline.Run(ctx)
	}

	driver := scheduler.NewIntervalScheduler(a.cfg.Scheduler.Interval())
	runner := usecase.NewScheduler(driver, a.pipeline, a.logger.With("component", "scheduler"))
	if err := runner.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	return runner.Stop(context.Background())
}

// Close releases resources held across runs.
func (a *Application) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
