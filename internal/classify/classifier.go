package classify

import (
	"strings"

	"wesum/internal/domain"
)

// noiseThreshold is the pooled-ratio cutoff; only strictly above it does
// the keyword signal decide the article on its own.
const noiseThreshold = 0.8

// Category pairs a noise type with its trigger keywords. Table order is
// part of the contract: matched categories are reported in it and the
// first match becomes the article's noise type.
type Category struct {
	Name     string
	Keywords []string
}

// DefaultTable is the built-in vocabulary for WeChat official-account
// noise content.
func DefaultTable() []Category {
	return []Category{
		{Name: "招聘", Keywords: []string{"招聘", "诚聘", "猎头", "职位", "JD", "简历", "应聘", "面试"}},
		{Name: "带货", Keywords: []string{"购买", "下单", "优惠", "限时", "折扣", "促销", "购买链接", "立即抢"}},
		{Name: "广告", Keywords: []string{"赞助", "广告", "品牌推广", "商业合作"}},
		{Name: "课程", Keywords: []string{"课程", "训练营", "扫码", "立减", "报名", "学习"}},
		{Name: "社群", Keywords: []string{"知识星球", "付费社群", "会员", "加入社群", "社群"}},
		{Name: "活动推广", Keywords: []string{"会议报名", "展会报名", "早鸟票", "活动报名", "立即报名", "报名开启"}},
		{Name: "融资", Keywords: []string{"融资", "轮融资", "估值", "投资方", "募资"}},
		{Name: "公关", Keywords: []string{"发布", "新品发布", "隆重推出", "盛大发布", "战略合作", "签署协议", "获奖"}},
	}
}

// Classifier labels articles via keyword-confidence scoring.
type Classifier struct {
	table []Category
}

// New builds a classifier; a nil table selects the default vocabulary.
func New(table []Category) *Classifier {
	if table == nil {
		table = DefaultTable()
	}
	return &Classifier{table: table}
}

// Classify is a pure function of title and content and never fails. Each
// keyword counts once when it occurs as a case-sensitive substring of
// title+content; confidence is the matched share of the entire table, not
// of any single category. Text below the cutoff yields the neutral
// verdict and substantive tagging is deferred to the summarizer.
func (c *Classifier) Classify(title, content string) domain.Verdict {
	text := title + content

	matched := make([]string, 0, len(c.table))
	total := 0
	hits := 0
	for _, cat := range c.table {
		catHits := 0
		for _, kw := range cat.Keywords {
			total++
			if strings.Contains(text, kw) {
				hits++
				catHits++
			}
		}
		if catHits > 0 {
			matched = append(matched, cat.Name)
		}
	}

	confidence := 0.0
	if total > 0 {
		confidence = float64(hits) / float64(total)
	}

	if confidence > noiseThreshold && len(matched) > 0 {
		noiseType := matched[0]
		return domain.Verdict{
			Categories: matched,
			Confidence: confidence,
			IsNoise:    true,
			NoiseType:  noiseType,
			NoiseLevel: LevelFor(noiseType),
		}
	}

	return domain.Verdict{Categories: []string{}, Confidence: confidence}
}

// LevelFor maps a noise type to its severity bucket.
func LevelFor(noiseType string) domain.NoiseLevel {
	switch noiseType {
	case "招聘", "带货", "广告", "课程", "社群", "活动推广":
		return domain.LevelNoise
	case "融资", "公关":
		return domain.LevelPR
	default:
		return domain.LevelLight
	}
}
