package collector

import (
	"context"
	"sync"
	"time"

	"github.com/LJTian/AIPulse/internal/metrics"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTimeout      = 10 * time.Second
	DefaultMaxPerSource = 10
)

// Collector 并发抓取全部数据源。
// 每个源独立超时、独立失败；所有任务结束后才返回。
// 返回顺序取决于各源完成的先后，跨次运行不保证一致。
type Collector struct {
	HTML         Fetcher
	Feed         Fetcher
	Timeout      time.Duration
	MaxPerSource int
}

func NewCollector(timeout time.Duration, maxPerSource int) *Collector {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxPerSource <= 0 {
		maxPerSource = DefaultMaxPerSource
	}
	return &Collector{
		HTML:         &HTMLFetcher{Timeout: timeout, MaxItems: maxPerSource},
		Feed:         &FeedFetcher{Timeout: timeout, MaxItems: maxPerSource},
		Timeout:      timeout,
		MaxPerSource: maxPerSource,
	}
}

func (c *Collector) Collect(ctx context.Context, sources []Source) []RawItem {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make([]RawItem, 0, len(sources)*c.MaxPerSource)
	)

	for _, s := range sources {
		src := s
		wg.Add(1)
		go func() {
			defer wg.Done()
			items := c.fetchOne(ctx, src)
			if len(items) == 0 {
				return
			}
			mu.Lock()
			results = append(results, items...)
			mu.Unlock()
		}()
	}

	wg.Wait()
	return results
}

func (c *Collector) fetchOne(ctx context.Context, src Source) []RawItem {
	fetcher := c.fetcherFor(src)
	if fetcher == nil {
		log.Warn().Str("source", src.Name).Str("kind", src.Kind).Msg("skip source: unknown kind")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	start := time.Now()
	items, err := fetcher.Fetch(ctx, src)
	metrics.ObserveSourceFetch(src.Name, start, err)
	if err != nil {
		log.Warn().Err(err).Str("source", src.Name).Dur("elapsed", time.Since(start)).Msg("fetch source failed")
		return nil
	}
	if c.MaxPerSource > 0 && len(items) > c.MaxPerSource {
		items = items[:c.MaxPerSource]
	}
	if len(items) == 0 {
		log.Info().Str("source", src.Name).Msg("fetch source got 0 items")
	} else {
		log.Debug().Str("source", src.Name).Int("items", len(items)).Msg("fetch source done")
	}
	return items
}

func (c *Collector) fetcherFor(src Source) Fetcher {
	switch src.Kind {
	case "", KindHTML:
		return c.HTML
	case KindFeed:
		return c.Feed
	default:
		return nil
	}
}
