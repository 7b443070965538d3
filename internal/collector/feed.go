package collector

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// FeedFetcher 解析 RSS/Atom 订阅源
type FeedFetcher struct {
	Timeout   time.Duration
	MaxItems  int
	UserAgent string
}

func (f *FeedFetcher) Fetch(ctx context.Context, src Source) ([]RawItem, error) {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: f.Timeout}
	if f.UserAgent != "" {
		parser.UserAgent = f.UserAgent
	} else {
		parser.UserAgent = defaultUserAgent
	}

	feed, err := parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: parse feed %s: %w", src.Name, src.URL, err)
	}

	results := make([]RawItem, 0, f.MaxItems)
	for _, it := range feed.Items {
		if f.MaxItems > 0 && len(results) >= f.MaxItems {
			break
		}
		if it == nil {
			continue
		}
		results = append(results, RawItem{
			Title:  collapseSpace(it.Title),
			Href:   strings.TrimSpace(it.Link),
			Source: src,
		})
	}
	return results, nil
}
