package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

const defaultUserAgent = "AIPulseBot/1.0"

// HTMLFetcher 用 colly 访问列表页，按选择器规则抽取标题与链接
type HTMLFetcher struct {
	Timeout   time.Duration
	MaxItems  int
	UserAgent string
}

func (h *HTMLFetcher) Fetch(ctx context.Context, src Source) ([]RawItem, error) {
	if src.Selector == "" {
		return nil, fmt.Errorf("%s: empty selector", src.Name)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ua := h.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	c := colly.NewCollector(colly.UserAgent(ua))
	timeout := h.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); timeout <= 0 || left < timeout {
			timeout = left
		}
	}
	if timeout > 0 {
		c.SetRequestTimeout(timeout)
	}

	results := make([]RawItem, 0, h.MaxItems)
	c.OnHTML(src.Selector, func(e *colly.HTMLElement) {
		if h.MaxItems > 0 && len(results) >= h.MaxItems {
			return
		}
		title, href := extractEntry(e.DOM, src.TitleSelector)
		if title == "" && href == "" {
			return
		}
		results = append(results, RawItem{Title: title, Href: href, Source: src})
	})

	if err := c.Visit(src.URL); err != nil {
		return nil, fmt.Errorf("%s: visit %s: %w", src.Name, src.URL, err)
	}
	return results, nil
}

// extractEntry 从一个条目节点中取出标题文本和原始 href（不做绝对化）
func extractEntry(sel *goquery.Selection, titleSelector string) (string, string) {
	titleSel := sel
	if titleSelector != "" {
		if t := sel.Find(titleSelector).First(); t.Length() > 0 {
			titleSel = t
		}
	}
	title := collapseSpace(titleSel.Text())

	href, ok := sel.Attr("href")
	if !ok {
		href, _ = sel.Find("a[href]").First().Attr("href")
	}
	if href == "" {
		// 标题链接在条目外层（例如 <a><h3>..</h3></a>）
		href, _ = sel.Closest("a[href]").Attr("href")
	}
	return title, strings.TrimSpace(href)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
