package collector

import "context"

const (
	KindHTML = "html"
	KindFeed = "feed"

	LangZH = "zh"
	LangEN = "en"
)

// Source 描述一个抓取目标：列表页 + 选择器规则，或 RSS/Atom 订阅地址
type Source struct {
	Name    string `yaml:"name" json:"name"`
	URL     string `yaml:"url" json:"url"`
	BaseURL string `yaml:"baseUrl" json:"baseUrl"`
	Kind    string `yaml:"kind" json:"kind"`
	// Selector 匹配列表页中的条目元素；元素自身为 <a> 时直接取 href，否则取其内第一个 a[href]
	Selector string `yaml:"selector" json:"selector"`
	// TitleSelector 可选，条目元素内的标题节点；为空时使用元素全部文本
	TitleSelector string `yaml:"titleSelector" json:"titleSelector,omitempty"`
	// Language 由注册表静态指定，不做内容识别
	Language string `yaml:"language" json:"language"`
}

// RawItem 抓取阶段得到的原始片段，尚未规范化
type RawItem struct {
	Title  string
	Href   string
	Source Source
}

// Fetcher 抽象一种抓取方式；实现需在 ctx 结束或超时后返回
type Fetcher interface {
	Fetch(ctx context.Context, src Source) ([]RawItem, error)
}
