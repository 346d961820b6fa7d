package summarize

import (
	"fmt"

	"wesum/internal/domain"
)

const (
	fullContentLimit    = 4000
	compactContentLimit = 2000
	compactMaxTokens    = 300
)

// tagLinePrefix marks the trailing category line full-mode prompts ask for.
const tagLinePrefix = "标签："

// checklists lists the required fields per noise type for compact mode.
var checklists = map[string]string{
	"招聘":   "- 招聘公司\n- 招聘岗位\n- 薪资范围\n- 工作地点\n- 岗位要求",
	"带货":   "- 产品名称\n- 产品价格\n- 优惠信息\n- 购买方式\n- 活动时间",
	"广告":   "- 品牌/产品\n- 核心信息\n- 推广内容",
	"课程":   "- 课程名称\n- 讲师/机构\n- 课程价格\n- 课程时长\n- 报名方式",
	"社群":   "- 社群名称\n- 社群类型\n- 加入方式\n- 费用信息",
	"活动推广": "- 活动名称\n- 活动时间\n- 活动地点\n- 票价信息\n- 报名方式",
	"融资":   "- 融资公司\n- 融资轮次\n- 融资金额\n- 投资方\n- 公司估值",
	"公关":   "- 公司/品牌\n- 核心信息\n- 发布时间\n- 相关数据",
}

const defaultChecklist = "- 要点1\n- 要点2\n- 要点3"

const fullPromptFormat = `请将以下公众号文章生成总结，要求：

1. 结构化输出：使用 Emoji 图标作为段落标记（如🎯、🔄、🤖等）
2. 分段清晰：每个大段有明确的主题标题
3. 深度解析：不是简单摘要点，而是保留关键信息和数据的深度解析
4. 格式规范：
   - 使用分级标题（一、二、三）
   - 关键数据用加粗标记
   - 包含具体案例和细节
5. 内容长度：控制在500字以内
6. 补充细节：最后补充关键细节和背景信息
7. 分类标签：在最后单独一行以「标签：」开头，给出3-5个分类标签，用、分隔

文章标题：%s

文章内容：
%s

请生成总结：`

const compactPromptFormat = `请将以下公众号文章提取为关键要点，要求：

1. 提炼3-5个关键要点
2. 每个要点不超过15字
3. 严格控制在100字以内
4. 必须包含以下信息：
%s

文章标题：%s

文章内容：
%s

请生成关键要点（列表格式）：`

func fullPrompt(a domain.Article) string {
	return fmt.Sprintf(fullPromptFormat, a.Title, truncateRunes(a.Content, fullContentLimit))
}

func compactPrompt(a domain.Article) string {
	checklist, ok := checklists[a.NoiseType]
	if !ok {
		checklist = defaultChecklist
	}
	return fmt.Sprintf(compactPromptFormat, checklist, a.Title, truncateRunes(a.Content, compactContentLimit))
}

// truncateRunes bounds the prompt's content window. Rune-based so Chinese
// text is never cut mid-character.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
