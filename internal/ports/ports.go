package ports

import (
	"context"
	"time"

	"wesum/internal/domain"
)

// FeedSource pulls fresh, not-yet-seen articles from the configured feed.
// A maxCount or maxHours of zero means unbounded.
type FeedSource interface {
	Fetch(ctx context.Context, maxCount, maxHours int) ([]domain.Article, error)
}

// SeenStore persists article identifiers across runs for deduplication.
type SeenStore interface {
	AlreadySeen(ctx context.Context, ids []string) (map[string]bool, error)
	MarkSeen(ctx context.Context, articles []domain.Article) error
}

// Generator produces summary text from a prompt under an output budget.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Notifier delivers one rendered digest to the push endpoint.
type Notifier interface {
	Send(ctx context.Context, msg domain.Message) error
}

// Scheduler drives recurring pipeline executions in daemon mode.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
