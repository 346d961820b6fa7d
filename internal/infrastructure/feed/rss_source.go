package feed

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"wesum/internal/domain"
	"wesum/internal/ports"
)

// RSSSource fetches a WeChat official-account RSS feed and returns only
// articles the seen store has not recorded yet, in feed order.
type RSSSource struct {
	url    string
	client *http.Client
	parser *gofeed.Parser
	store  ports.SeenStore
	logger *slog.Logger
}

var _ ports.FeedSource = (*RSSSource)(nil)

// NewRSSSource wires the feed URL and dedup store; a nil client gets a
// bounded default.
func NewRSSSource(url string, store ports.SeenStore, client *http.Client, logger *slog.Logger) *RSSSource {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RSSSource{
		url:    url,
		client: client,
		parser: gofeed.NewParser(),
		store:  store,
		logger: logger,
	}
}

// Fetch downloads and parses the feed, drops items older than maxHours,
// skips already-seen items, caps the batch at maxCount, and records the
// returned batch as seen. Zero limits mean unbounded.
func (s *RSSSource) Fetch(ctx context.Context, maxCount, maxHours int) ([]domain.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed error: %s", resp.Status)
	}

	parsed, err := s.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	var cutoff time.Time
	if maxHours > 0 {
		cutoff = time.Now().Add(-time.Duration(maxHours) * time.Hour)
	}

	candidates := make([]domain.Article, 0, len(parsed.Items))
	ids := make([]string, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil || item.Link == "" {
			continue
		}
		if !cutoff.IsZero() {
			published := itemTime(item)
			if published.IsZero() || published.Before(cutoff) {
				continue
			}
		}
		article := toArticle(item)
		candidates = append(candidates, article)
		ids = append(ids, article.ID)
	}

	seen := map[string]bool{}
	if s.store != nil && len(ids) > 0 {
		if seen, err = s.store.AlreadySeen(ctx, ids); err != nil {
			return nil, fmt.Errorf("load seen articles: %w", err)
		}
	}

	fresh := make([]domain.Article, 0, len(candidates))
	for _, article := range candidates {
		if seen[article.ID] {
			continue
		}
		fresh = append(fresh, article)
		if maxCount > 0 && len(fresh) == maxCount {
			break
		}
	}

	if s.store != nil && len(fresh) > 0 {
		if err := s.store.MarkSeen(ctx, fresh); err != nil {
			return nil, fmt.Errorf("mark seen: %w", err)
		}
	}

	s.logger.Debug("feed fetched",
		"items", len(parsed.Items),
		"candidates", len(candidates),
		"fresh", len(fresh))
	return fresh, nil
}

func toArticle(item *gofeed.Item) domain.Article {
	content := item.Content
	if content == "" {
		content = item.Description
	}

	return domain.Article{
		ID:         cmp.Or(item.GUID, item.Link),
		Title:      strings.TrimSpace(item.Title),
		Content:    plainText(content),
		Link:       item.Link,
		Author:     author(item),
		Categories: []string{},
	}
}

func author(item *gofeed.Item) string {
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		if name := strings.TrimSpace(item.Authors[0].Name); name != "" {
			return name
		}
	}
	if item.Author != nil {
		if name := strings.TrimSpace(item.Author.Name); name != "" {
			return name
		}
	}
	return domain.UnknownAuthor
}

// plainText strips markup so keyword scanning and prompt windows operate
// on readable text. Non-HTML content passes through untouched.
func plainText(content string) string {
	if !strings.Contains(content, "<") {
		return strings.TrimSpace(content)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return strings.TrimSpace(content)
	}
	return strings.TrimSpace(doc.Text())
}

func itemTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Time{}
}
