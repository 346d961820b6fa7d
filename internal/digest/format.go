package digest

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"wesum/internal/domain"
)

// ErrNoArticles signals an empty batch; nothing should be sent.
var ErrNoArticles = errors.New("no articles to format")

const (
	separator         = "━━━━━━━━━━━━━━━━━━━━━━"
	missingSummary    = "无总结"
	categoryDelimiter = "、"
)

// displayNames maps internal noise types to reader-facing labels for the
// warning line. PR-level types render verbatim.
var displayNames = map[string]string{
	"招聘":   "招聘广告",
	"带货":   "产品推广",
	"广告":   "商业广告",
	"课程":   "付费课程",
	"社群":   "社群推广",
	"活动推广": "活动推广",
}

// FormatBatch renders one consolidated digest for the whole run, keeping
// the original article order.
func FormatBatch(articles []domain.Article, titlePrefix string, now time.Time) (domain.Message, error) {
	if len(articles) == 0 {
		return domain.Message{}, ErrNoArticles
	}

	normal := 0
	for _, a := range articles {
		if !a.Reduced() {
			normal++
		}
	}
	reduced := len(articles) - normal

	var b strings.Builder
	fmt.Fprintf(&b, "📰 本次更新：共 %d 篇文章\n", len(articles))
	fmt.Fprintf(&b, "🕐 更新时间：%s\n\n", now.Format("2006-01-02 15:04"))
	b.WriteString(separator + "\n\n")

	for i, a := range articles {
		fmt.Fprintf(&b, "### %d. %s\n", i+1, headline(a))
		writeBody(&b, a)
		b.WriteString(separator + "\n\n")
	}

	b.WriteString("📊 数据统计：\n")
	fmt.Fprintf(&b, "• 正常文章：%d 篇\n", normal)
	fmt.Fprintf(&b, "• 简化摘要：%d 篇\n", reduced)

	title := fmt.Sprintf("%s 公众号摘要汇总（%d篇）", titlePrefix, len(articles))
	return domain.Message{Title: strings.TrimSpace(title), Body: b.String()}, nil
}

// FormatSingle renders one article for the non-batch delivery path. The
// title comes from author/title instead of a batch count.
func FormatSingle(a domain.Article, titlePrefix string) domain.Message {
	var title string
	if hasAuthor(a) {
		title = fmt.Sprintf("【%s】%s", a.Author, a.Title)
	} else {
		title = strings.TrimSpace(titlePrefix + " " + a.Title)
	}

	var b strings.Builder
	writeBody(&b, a)
	return domain.Message{Title: title, Body: strings.TrimRight(b.String(), "\n")}
}

func writeBody(b *strings.Builder, a domain.Article) {
	if len(a.Categories) > 0 {
		fmt.Fprintf(b, "🏷️ %s\n\n", strings.Join(a.Categories, categoryDelimiter))
	}

	switch a.NoiseLevel {
	case domain.LevelNoise:
		fmt.Fprintf(b, "⚠️ 本文识别为【%s】类型，仅推送关键要点：\n\n", displayName(a.NoiseType))
	case domain.LevelPR:
		fmt.Fprintf(b, "⚠️ 本文识别为【%s】类型，仅推送关键要点：\n\n", a.NoiseType)
	}

	summary := a.Summary
	if summary == "" {
		summary = missingSummary
	}
	b.WriteString(summary + "\n\n")
	fmt.Fprintf(b, "🔗 [查看原文](%s)\n\n", a.Link)
}

func headline(a domain.Article) string {
	if hasAuthor(a) {
		return fmt.Sprintf("【%s】%s", a.Author, a.Title)
	}
	return a.Title
}

func hasAuthor(a domain.Article) bool {
	return a.Author != "" && a.Author != domain.UnknownAuthor
}

func displayName(noiseType string) string {
	if name, ok := displayNames[noiseType]; ok {
		return name
	}
	return noiseType
}
