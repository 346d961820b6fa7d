package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"wesum/internal/classify"
	"wesum/internal/domain"
	"wesum/internal/summarize"
)

type fakeSource struct {
	articles []domain.Article
	err      error
}

func (f *fakeSource) Fetch(_ context.Context, _, _ int) ([]domain.Article, error) {
	return f.articles, f.err
}

type fakeNotifier struct {
	msg   domain.Message
	calls int
	err   error
}

func (f *fakeNotifier) Send(_ context.Context, msg domain.Message) error {
	f.msg = msg
	f.calls++
	return f.err
}

type fakeGenerator struct {
	text    string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string, _ int) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

func testPipeline(source *fakeSource, gen *fakeGenerator, notifier *fakeNotifier) *Pipeline {
	return NewPipeline(PipelineDeps{
		Source:      source,
		Classifier:  classify.New(nil),
		Dispatcher:  summarize.New(gen, 1000, nil),
		Notifier:    notifier,
		TitlePrefix: "【WeSum】",
		Now:         func() time.Time { return time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC) },
	})
}

func TestRunEmptyFetchSkipsDelivery(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{}
	p := testPipeline(&fakeSource{}, &fakeGenerator{text: "总结"}, notifier)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("empty fetch should succeed, got %v", err)
	}
	if notifier.calls != 0 {
		t.Fatalf("nothing should be delivered, got %d sends", notifier.calls)
	}
}

func TestRunFetchErrorEscalates(t *testing.T) {
	t.Parallel()

	p := testPipeline(&fakeSource{err: errors.New("boom")}, &fakeGenerator{}, &fakeNotifier{})
	if err := p.Run(context.Background()); err == nil {
		t.Fatal("fetch errors must escalate")
	}
}

func TestRunEndToEnd(t *testing.T) {
	t.Parallel()

	source := &fakeSource{articles: []domain.Article{
		{ID: "1", Title: "深度好文", Content: "关于量子计算的长文", Link: "https://example.com/1", Author: "机器之心", Categories: []string{}},
		{ID: "2", Title: "急聘工程师", Content: "招聘 诚聘 猎头 职位 JD 简历 应聘 面试 购买 下单 优惠 限时 折扣 促销 购买链接 立即抢 赞助 广告 品牌推广 商业合作 课程 训练营 扫码 立减 报名 学习 知识星球 付费社群 会员 加入社群 社群 会议报名 展会报名 早鸟票 活动报名 立即报名 报名开启 融资 轮融资 估值 投资方 募资 发布 新品发布 隆重推出 盛大发布 战略合作 签署协议 获奖", Link: "https://example.com/2", Categories: []string{}},
	}}
	gen := &fakeGenerator{text: "生成的总结"}
	notifier := &fakeNotifier{}

	p := testPipeline(source, gen, notifier)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if notifier.calls != 1 {
		t.Fatalf("digest must be delivered exactly once, got %d", notifier.calls)
	}
	if notifier.msg.Title != "【WeSum】 公众号摘要汇总（2篇）" {
		t.Fatalf("unexpected digest title: %q", notifier.msg.Title)
	}
	if !strings.Contains(notifier.msg.Body, "正常文章：1 篇") || !strings.Contains(notifier.msg.Body, "简化摘要：1 篇") {
		t.Fatalf("footer counts wrong:\n%s", notifier.msg.Body)
	}

	if len(gen.prompts) != 2 {
		t.Fatalf("expected one generation per article, got %d", len(gen.prompts))
	}
	if !strings.Contains(gen.prompts[0], "请生成总结") {
		t.Fatalf("first article should take full mode: %s", gen.prompts[0])
	}
	if !strings.Contains(gen.prompts[1], "关键要点") {
		t.Fatalf("keyword-dense article should take compact mode: %s", gen.prompts[1])
	}

	first := strings.Index(notifier.msg.Body, "深度好文")
	second := strings.Index(notifier.msg.Body, "急聘工程师")
	if first < 0 || second < 0 || second < first {
		t.Fatalf("fetch order must be preserved:\n%s", notifier.msg.Body)
	}
}

func TestRunGenerationFailureDoesNotAbort(t *testing.T) {
	t.Parallel()

	source := &fakeSource{articles: []domain.Article{
		{ID: "1", Title: "文章", Content: "内容", Link: "https://example.com/1", Categories: []string{}},
	}}
	gen := &fakeGenerator{err: errors.New("connection refused")}
	notifier := &fakeNotifier{}

	p := testPipeline(source, gen, notifier)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("a degraded summary must not fail the run: %v", err)
	}
	if notifier.calls != 1 {
		t.Fatal("digest with degraded summary must still be delivered")
	}
	if !strings.Contains(notifier.msg.Body, "生成摘要失败") {
		t.Fatalf("diagnostic missing from digest:\n%s", notifier.msg.Body)
	}
}

func TestRunDeliveryFailureReported(t *testing.T) {
	t.Parallel()

	source := &fakeSource{articles: []domain.Article{
		{ID: "1", Title: "文章", Content: "内容", Link: "https://example.com/1", Categories: []string{}},
	}}
	notifier := &fakeNotifier{err: errors.New("push rejected")}

	p := testPipeline(source, &fakeGenerator{text: "总结"}, notifier)
	err := p.Run(context.Background())
	if err == nil {
		t.Fatal("delivery failure must be reported")
	}
	if notifier.calls != 1 {
		t.Fatalf("delivery must be attempted exactly once, got %d", notifier.calls)
	}
}

func TestRunDryRunSkipsDelivery(t *testing.T) {
	t.Parallel()

	source := &fakeSource{articles: []domain.Article{
		{ID: "1", Title: "文章", Content: "内容", Link: "https://example.com/1", Categories: []string{}},
	}}
	notifier := &fakeNotifier{}

	p := NewPipeline(PipelineDeps{
		Source:     source,
		Classifier: classify.New(nil),
		Dispatcher: summarize.New(&fakeGenerator{text: "总结"}, 1000, nil),
		Notifier:   notifier,
		DryRun:     true,
	})

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("dry run should succeed: %v", err)
	}
	if notifier.calls != 0 {
		t.Fatalf("dry run must not deliver, got %d sends", notifier.calls)
	}
}
