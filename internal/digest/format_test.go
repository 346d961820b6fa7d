package digest

import (
	"errors"
	"strings"
	"testing"
	"time"

	"wesum/internal/domain"
)

var testTime = time.Date(2025, time.January, 8, 9, 30, 0, 0, time.UTC)

func TestFormatBatchEmpty(t *testing.T) {
	t.Parallel()

	_, err := FormatBatch(nil, "【WeSum】", testTime)
	if !errors.Is(err, ErrNoArticles) {
		t.Fatalf("expected ErrNoArticles, got %v", err)
	}
}

func TestFormatBatchTitleAndFooter(t *testing.T) {
	t.Parallel()

	articles := []domain.Article{
		{Title: "正常文章一", Link: "https://example.com/1", Summary: "总结一"},
		{Title: "正常文章二", Link: "https://example.com/2", Summary: "总结二", NoiseLevel: domain.LevelLight},
		{Title: "招聘帖", Link: "https://example.com/3", Summary: "- 要点", IsNoise: true, NoiseType: "招聘", NoiseLevel: domain.LevelNoise},
	}

	msg, err := FormatBatch(articles, "【WeSum】", testTime)
	if err != nil {
		t.Fatalf("FormatBatch error: %v", err)
	}

	if msg.Title != "【WeSum】 公众号摘要汇总（3篇）" {
		t.Fatalf("unexpected title: %q", msg.Title)
	}
	if !strings.Contains(msg.Body, "正常文章：2 篇") {
		t.Fatalf("footer missing normal count:\n%s", msg.Body)
	}
	if !strings.Contains(msg.Body, "简化摘要：1 篇") {
		t.Fatalf("footer missing reduced count:\n%s", msg.Body)
	}
	if !strings.Contains(msg.Body, "共 3 篇文章") {
		t.Fatalf("header missing total count:\n%s", msg.Body)
	}
	if !strings.Contains(msg.Body, "2025-01-08 09:30") {
		t.Fatalf("header missing timestamp:\n%s", msg.Body)
	}
}

func TestFormatBatchOrderPreserved(t *testing.T) {
	t.Parallel()

	articles := []domain.Article{
		{Title: "第一篇", Link: "https://example.com/1", Summary: "a"},
		{Title: "第二篇", Link: "https://example.com/2", Summary: "b"},
	}

	msg, err := FormatBatch(articles, "", testTime)
	if err != nil {
		t.Fatalf("FormatBatch error: %v", err)
	}

	first := strings.Index(msg.Body, "### 1. 第一篇")
	second := strings.Index(msg.Body, "### 2. 第二篇")
	if first < 0 || second < 0 || second < first {
		t.Fatalf("articles out of order:\n%s", msg.Body)
	}
}

func TestFormatBatchNoiseWarningUsesDisplayName(t *testing.T) {
	t.Parallel()

	articles := []domain.Article{
		{Title: "卖货", Link: "https://example.com/1", Summary: "- 要点", IsNoise: true, NoiseType: "带货", NoiseLevel: domain.LevelNoise},
	}

	msg, err := FormatBatch(articles, "", testTime)
	if err != nil {
		t.Fatalf("FormatBatch error: %v", err)
	}
	if !strings.Contains(msg.Body, "本文识别为【产品推广】类型") {
		t.Fatalf("noise warning should use display name:\n%s", msg.Body)
	}
}

func TestFormatBatchPRWarningUsesInternalName(t *testing.T) {
	t.Parallel()

	articles := []domain.Article{
		{Title: "融资新闻", Link: "https://example.com/1", Summary: "- 要点", IsNoise: true, NoiseType: "融资", NoiseLevel: domain.LevelPR},
	}

	msg, err := FormatBatch(articles, "", testTime)
	if err != nil {
		t.Fatalf("FormatBatch error: %v", err)
	}
	if !strings.Contains(msg.Body, "本文识别为【融资】类型") {
		t.Fatalf("pr warning should use the internal type verbatim:\n%s", msg.Body)
	}
}

func TestFormatBatchUnknownNoiseTypeFallsBack(t *testing.T) {
	t.Parallel()

	articles := []domain.Article{
		{Title: "x", Link: "https://example.com/1", Summary: "s", IsNoise: true, NoiseType: "新类型", NoiseLevel: domain.LevelNoise},
	}

	msg, err := FormatBatch(articles, "", testTime)
	if err != nil {
		t.Fatalf("FormatBatch error: %v", err)
	}
	if !strings.Contains(msg.Body, "本文识别为【新类型】类型") {
		t.Fatalf("unregistered type should render verbatim:\n%s", msg.Body)
	}
}

func TestFormatBatchAuthorHeadline(t *testing.T) {
	t.Parallel()

	articles := []domain.Article{
		{Title: "有作者", Author: "机器之心", Link: "https://example.com/1", Summary: "a"},
		{Title: "无作者", Author: domain.UnknownAuthor, Link: "https://example.com/2", Summary: "b"},
	}

	msg, err := FormatBatch(articles, "", testTime)
	if err != nil {
		t.Fatalf("FormatBatch error: %v", err)
	}
	if !strings.Contains(msg.Body, "### 1. 【机器之心】有作者") {
		t.Fatalf("author headline missing:\n%s", msg.Body)
	}
	if !strings.Contains(msg.Body, "### 2. 无作者\n") {
		t.Fatalf("Unknown author must be suppressed:\n%s", msg.Body)
	}
}

func TestFormatBatchMissingSummaryPlaceholder(t *testing.T) {
	t.Parallel()

	articles := []domain.Article{
		{Title: "空总结", Link: "https://example.com/1"},
	}

	msg, err := FormatBatch(articles, "", testTime)
	if err != nil {
		t.Fatalf("FormatBatch error: %v", err)
	}
	if !strings.Contains(msg.Body, "无总结") {
		t.Fatalf("missing summary placeholder absent:\n%s", msg.Body)
	}
}

func TestFormatBatchRendersDiagnosticSummary(t *testing.T) {
	t.Parallel()

	diag := "生成摘要失败: API 错误: Throttled - too many requests"
	articles := []domain.Article{
		{Title: "好文章", Link: "https://example.com/1", Summary: "正常总结"},
		{Title: "失败文章", Link: "https://example.com/2", Summary: diag},
	}

	msg, err := FormatBatch(articles, "", testTime)
	if err != nil {
		t.Fatalf("batch must not abort on a degraded summary: %v", err)
	}
	if !strings.Contains(msg.Body, diag) {
		t.Fatalf("diagnostic summary should render inside its block:\n%s", msg.Body)
	}
}

func TestFormatBatchCategoriesLine(t *testing.T) {
	t.Parallel()

	articles := []domain.Article{
		{Title: "带标签", Link: "https://example.com/1", Summary: "s", Categories: []string{"AI", "芯片"}},
		{Title: "无标签", Link: "https://example.com/2", Summary: "s", Categories: []string{}},
	}

	msg, err := FormatBatch(articles, "", testTime)
	if err != nil {
		t.Fatalf("FormatBatch error: %v", err)
	}
	if !strings.Contains(msg.Body, "🏷️ AI、芯片") {
		t.Fatalf("tag line missing:\n%s", msg.Body)
	}
	if strings.Count(msg.Body, "🏷️") != 1 {
		t.Fatalf("empty categories must not render a tag line:\n%s", msg.Body)
	}
}

func TestFormatSingle(t *testing.T) {
	t.Parallel()

	withAuthor := domain.Article{Title: "文章", Author: "量子位", Link: "https://example.com/1", Summary: "s"}
	msg := FormatSingle(withAuthor, "【WeSum】")
	if msg.Title != "【量子位】文章" {
		t.Fatalf("unexpected title: %q", msg.Title)
	}

	noAuthor := domain.Article{Title: "文章", Author: domain.UnknownAuthor, Link: "https://example.com/1", Summary: "s"}
	msg = FormatSingle(noAuthor, "【WeSum】")
	if msg.Title != "【WeSum】 文章" {
		t.Fatalf("unexpected fallback title: %q", msg.Title)
	}
	if !strings.Contains(msg.Body, "[查看原文](https://example.com/1)") {
		t.Fatalf("link line missing:\n%s", msg.Body)
	}
}
