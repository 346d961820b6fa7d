package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"wesum/internal/domain"
	"wesum/internal/ports"
)

// failurePrefix is the reserved marker: a summary starting with it is a
// degraded diagnostic, not generated content.
const failurePrefix = "生成摘要失败"

// Dispatcher routes each classified article to a prompt strategy and
// obtains summary text from the generation backend. It holds the backend
// as instance state; there is no shared client.
type Dispatcher struct {
	generator ports.Generator
	maxTokens int
	logger    *slog.Logger
}

// New wires the generation backend; maxTokens bounds full-mode output,
// compact mode uses its own fixed budget.
func New(generator ports.Generator, maxTokens int, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{generator: generator, maxTokens: maxTokens, logger: logger}
}

// Summarize picks compact or full mode from the article's verdict. A
// failed generation call degrades to an inline diagnostic summary so the
// batch keeps flowing; the returned error is reserved for a missing
// backend.
func (d *Dispatcher) Summarize(ctx context.Context, a domain.Article) (domain.SummaryResult, error) {
	if d.generator == nil {
		return domain.SummaryResult{}, fmt.Errorf("summary dispatcher has no generator")
	}

	if a.IsNoise && a.Reduced() {
		return d.compact(ctx, a), nil
	}
	return d.full(ctx, a), nil
}

// compact extracts 3-5 key points from a reduced input window. The
// classifier's categories stay untouched.
func (d *Dispatcher) compact(ctx context.Context, a domain.Article) domain.SummaryResult {
	text, err := d.generator.Generate(ctx, compactPrompt(a), compactMaxTokens)
	if err != nil {
		d.logger.Warn("compact generation failed", "title", a.Title, "noise_type", a.NoiseType, "error", err)
		return domain.SummaryResult{Summary: diagnostic(err), Categories: a.Categories}
	}
	return domain.SummaryResult{Summary: strings.TrimSpace(text), Categories: a.Categories}
}

// full requests the structured 500-character summary. Tags the model emits
// on the trailing 标签： line replace the keyword categories; without that
// line the classifier's categories survive.
func (d *Dispatcher) full(ctx context.Context, a domain.Article) domain.SummaryResult {
	text, err := d.generator.Generate(ctx, fullPrompt(a), d.maxTokens)
	if err != nil {
		d.logger.Warn("full generation failed", "title", a.Title, "error", err)
		return domain.SummaryResult{Summary: diagnostic(err), Categories: a.Categories}
	}

	summary, tags := splitTagLine(strings.TrimSpace(text))
	categories := a.Categories
	if len(tags) > 0 {
		categories = tags
	}
	return domain.SummaryResult{Summary: summary, Categories: categories}
}

// splitTagLine strips a trailing 标签： line and returns its entries.
func splitTagLine(text string) (string, []string) {
	idx := strings.LastIndex(text, "\n")
	last := strings.TrimSpace(text[idx+1:])
	if !strings.HasPrefix(last, tagLinePrefix) {
		return text, nil
	}

	var tags []string
	for _, tag := range strings.Split(strings.TrimPrefix(last, tagLinePrefix), "、") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return text, nil
	}
	if idx < 0 {
		return "", tags
	}
	return strings.TrimRight(text[:idx], "\n "), tags
}

func diagnostic(err error) string {
	return fmt.Sprintf("%s: %v", failurePrefix, err)
}

// IsFailure reports whether a summary is a degraded diagnostic string.
func IsFailure(summary string) bool {
	return strings.HasPrefix(summary, failurePrefix)
}
