package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/LJTian/AIPulse/internal/processor"
	"github.com/rs/zerolog/log"
)

const (
	defaultMaxChars    = 2000
	defaultConcurrency = 3
	summaryRunes       = 120
)

// Request / Response 与 browser-scraper 的 /extract 接口一致
type Request struct {
	URL      string `json:"url"`
	MaxChars int    `json:"maxChars"`
}

type Response struct {
	OK    bool   `json:"ok"`
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// Client 调用 headless 浏览器服务抽取正文
type Client struct {
	BaseURL     string
	HTTP        *http.Client
	MaxChars    int
	Concurrency int
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		HTTP:        &http.Client{Timeout: 30 * time.Second},
		MaxChars:    defaultMaxChars,
		Concurrency: defaultConcurrency,
	}
}

func (c *Client) Extract(ctx context.Context, pageURL string) (string, error) {
	body, err := json.Marshal(Request{URL: pageURL, MaxChars: c.MaxChars})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/extract", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode extract response: %w (status %d)", err, resp.StatusCode)
	}
	if !out.OK {
		if out.Error == "" {
			out.Error = resp.Status
		}
		return "", errors.New(out.Error)
	}
	return out.Text, nil
}

// Enrich 并发抽取正文，成功则替换 Content 与 Summary，失败保留模板文本
func (c *Client) Enrich(ctx context.Context, items []processor.Article) {
	limit := c.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}
	sem := make(chan struct{}, limit)

	var wg sync.WaitGroup
	var mu sync.Mutex
	enriched := 0
	for i := range items {
		wg.Add(1)
		go func(a *processor.Article) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			text, err := c.Extract(ctx, a.URL)
			if err != nil {
				log.Debug().Err(err).Str("url", a.URL).Msg("extract failed")
				return
			}
			text = strings.TrimSpace(text)
			if text == "" {
				return
			}
			a.Content = text
			a.Summary = summarize(text)
			mu.Lock()
			enriched++
			mu.Unlock()
		}(&items[i])
	}
	wg.Wait()
	log.Info().Int("enriched", enriched).Int("total", len(items)).Msg("content enrichment done")
}

// summarize 取正文首段并按 rune 截断
func summarize(text string) string {
	first := text
	if i := strings.Index(first, "\n"); i > 0 {
		first = first[:i]
	}
	first = strings.TrimSpace(first)
	rs := []rune(first)
	if len(rs) > summaryRunes {
		return string(rs[:summaryRunes]) + "…"
	}
	return first
}
