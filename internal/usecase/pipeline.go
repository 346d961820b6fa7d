package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"wesum/internal/classify"
	"wesum/internal/digest"
	"wesum/internal/ports"
	"wesum/internal/summarize"
)

// PipelineDeps wires the classifier, dispatcher, and driven adapters into
// the orchestration pipeline.
type PipelineDeps struct {
	Source      ports.FeedSource
	Classifier  *classify.Classifier
	Dispatcher  *summarize.Dispatcher
	Notifier    ports.Notifier
	TitlePrefix string
	MaxArticles int
	MaxHours    int
	DryRun      bool
	Logger      *slog.Logger
	Now         func() time.Time
}

// Pipeline runs one fetch → classify → summarize → format → deliver pass.
// Stages never overlap and articles keep their fetch order throughout.
type Pipeline struct {
	source      ports.FeedSource
	classifier  *classify.Classifier
	dispatcher  *summarize.Dispatcher
	notifier    ports.Notifier
	titlePrefix string
	maxArticles int
	maxHours    int
	dryRun      bool
	logger      *slog.Logger
	now         func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Pipeline{
		source:      deps.Source,
		classifier:  deps.Classifier,
		dispatcher:  deps.Dispatcher,
		notifier:    deps.Notifier,
		titlePrefix: deps.TitlePrefix,
		maxArticles: deps.MaxArticles,
		maxHours:    deps.MaxHours,
		dryRun:      deps.DryRun,
		logger:      deps.Logger,
		now:         deps.Now,
	}
}

// Run executes a single pass. A failed generation call degrades that one
// article's summary and the run continues; an empty fetch ends the run
// successfully with no delivery; a failed delivery is reported once, with
// no retry, after the completion log.
func (p *Pipeline) Run(ctx context.Context) error {
	articles, err := p.source.Fetch(ctx, p.maxArticles, p.maxHours)
	if err != nil {
		return fmt.Errorf("fetch articles: %w", err)
	}
	if len(articles) == 0 {
		p.logger.Info("no new articles")
		return nil
	}
	p.logger.Info("fetched articles", "count", len(articles))

	for i := range articles {
		verdict := p.classifier.Classify(articles[i].Title, articles[i].Content)
		verdict.Apply(&articles[i])
		if verdict.IsNoise {
			p.logger.Info("classified as noise",
				"title", articles[i].Title,
				"noise_type", verdict.NoiseType,
				"noise_level", verdict.NoiseLevel,
				"confidence", verdict.Confidence)
		}
	}

	for i := range articles {
		result, err := p.dispatcher.Summarize(ctx, articles[i])
		if err != nil {
			return fmt.Errorf("summarize %s: %w", articles[i].Link, err)
		}
		articles[i].Summary = result.Summary
		articles[i].Categories = result.Categories
		if summarize.IsFailure(result.Summary) {
			p.logger.Warn("summary degraded", "title", articles[i].Title)
		}
	}

	msg, err := digest.FormatBatch(articles, p.titlePrefix, p.now())
	if err != nil {
		return fmt.Errorf("format digest: %w", err)
	}

	var deliveryErr error
	switch {
	case p.dryRun:
		p.logger.Info("dry run, digest not delivered", "title", msg.Title, "body", msg.Body)
	default:
		if err := p.notifier.Send(ctx, msg); err != nil {
			deliveryErr = fmt.Errorf("deliver digest: %w", err)
			p.logger.Error("delivery failed", "error", err)
		} else {
			p.logger.Info("digest delivered", "title", msg.Title)
		}
	}

	p.logger.Info("run complete", "articles", len(articles))
	return deliveryErr
}
