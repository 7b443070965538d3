package processor

import "time"

// Category 固定的主题枚举，值即对外 ID
type Category string

const (
	CategoryAIApplication   Category = "ai-application"
	CategorySmartChip       Category = "smart-chip"
	CategoryEmbodiedAI      Category = "embodied-ai"
	CategoryComputingPolicy Category = "computing-policy"
	CategoryUSChipPolicy    Category = "us-chip-policy"
	CategoryExpertOpinion   Category = "expert-opinion"
	CategoryResearchReport  Category = "research-report"
)

var categoryNames = map[Category]string{
	CategoryAIApplication:   "AI应用",
	CategorySmartChip:       "智能芯片",
	CategoryEmbodiedAI:      "具身智能",
	CategoryComputingPolicy: "算力政策",
	CategoryUSChipPolicy:    "美国芯片政策",
	CategoryExpertOpinion:   "专家观点",
	CategoryResearchReport:  "研究报告",
}

// AllCategories 按分类优先级返回全部主题
func AllCategories() []Category {
	return []Category{
		CategoryAIApplication,
		CategorySmartChip,
		CategoryEmbodiedAI,
		CategoryComputingPolicy,
		CategoryUSChipPolicy,
		CategoryExpertOpinion,
		CategoryResearchReport,
	}
}

// Name 中文展示名
func (c Category) Name() string {
	return categoryNames[c]
}

func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// Article 规范化后的统一文章结构；分类、打分之后除 HotScore 外不再修改
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Language    string    `json:"language"`
	Category    Category  `json:"category"`
	PublishTime time.Time `json:"publishTime"`
	Summary     string    `json:"summary"`
	Content     string    `json:"content"`
	HotScore    int       `json:"hotScore"`
	// ContentHash 由规范化标题计算，跨次运行稳定；目前仅供下游参考，不参与跨次去重
	ContentHash string `json:"contentHash"`
}
