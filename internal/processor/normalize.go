package processor

import (
	"fmt"
	"math/rand/v2"
	"net/url"
	"strings"
	"time"

	"github.com/LJTian/AIPulse/internal/collector"
)

// Rand 伪随机源，测试中可注入固定实现
type Rand interface {
	IntN(n int) int
}

const defaultMaxAge = 24 * time.Hour

var (
	zhSummaryTemplates = []string{
		"%s：行业最新动态速览",
		"%s —— 本周值得关注的进展",
		"关注｜%s",
		"%s，相关进展持续引发业内讨论",
	}
	enSummaryTemplates = []string{
		"%s — a quick look at the latest development",
		"Worth watching: %s",
		"%s, and why the industry is paying attention",
		"In brief: %s",
	}
	// 正文模板避免包含打分关键词，保证不同模板不会影响热度排序
	zhContentTemplates = []string{
		"%s。以上内容来自%s的最新报道，更多细节请查看原文。",
		"%s。%s对此进行了跟踪，完整信息以原文为准。",
		"%s。据%s消息，后续进展我们将持续关注。",
	}
	enContentTemplates = []string{
		"%s. Reported by %s; see the original article for full details.",
		"%s. %s is following the story, refer to the source for the complete text.",
		"%s. According to %s, more details are expected soon.",
	}
)

// Normalizer 将原始片段转换为 Article（不分配 ID，ID 在去重之后分配）
type Normalizer struct {
	Now    func() time.Time
	Rand   Rand
	MaxAge time.Duration
}

func NewNormalizer(r Rand) *Normalizer {
	if r == nil {
		r = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15))
	}
	return &Normalizer{Now: time.Now, Rand: r, MaxAge: defaultMaxAge}
}

// Normalize 返回 false 表示该条目不合法（空标题、缺链接或链接无法解析）
func (n *Normalizer) Normalize(item collector.RawItem) (Article, bool) {
	title := strings.TrimSpace(item.Title)
	href := strings.TrimSpace(item.Href)
	if title == "" || href == "" {
		return Article{}, false
	}

	link, ok := resolveURL(href, item.Source)
	if !ok {
		return Article{}, false
	}

	lang := item.Source.Language
	if lang != collector.LangEN {
		lang = collector.LangZH
	}

	published := n.publishTime()
	summary, content := n.synthesize(title, item.Source.Name, lang)
	return Article{
		Title:       title,
		URL:         link,
		Source:      item.Source.Name,
		Language:    lang,
		PublishTime: published,
		Summary:     summary,
		Content:     content,
	}, true
}

func (n *Normalizer) NormalizeAll(items []collector.RawItem) []Article {
	out := make([]Article, 0, len(items))
	for _, it := range items {
		if a, ok := n.Normalize(it); ok {
			out = append(out, a)
		}
	}
	return out
}

func (n *Normalizer) publishTime() time.Time {
	now := n.Now()
	maxAge := n.MaxAge
	if maxAge <= 0 {
		maxAge = defaultMaxAge
	}
	minutes := int(maxAge / time.Minute)
	if minutes <= 0 {
		return now
	}
	return now.Add(-time.Duration(n.Rand.IntN(minutes)) * time.Minute)
}

func (n *Normalizer) synthesize(title, source, lang string) (string, string) {
	summaries, contents := zhSummaryTemplates, zhContentTemplates
	if lang == collector.LangEN {
		summaries, contents = enSummaryTemplates, enContentTemplates
	}
	summary := fmt.Sprintf(summaries[n.Rand.IntN(len(summaries))], title)
	content := fmt.Sprintf(contents[n.Rand.IntN(len(contents))], title, source)
	return summary, content
}

// resolveURL 对没有 scheme 的链接按数据源 baseUrl 补全；只接受 http/https
func resolveURL(href string, src collector.Source) (string, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if !ref.IsAbs() {
		base := src.BaseURL
		if base == "" {
			base = src.URL
		}
		baseURL, err := url.Parse(base)
		if err != nil || baseURL.Scheme == "" {
			return "", false
		}
		ref = baseURL.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return "", false
	}
	return ref.String(), true
}
