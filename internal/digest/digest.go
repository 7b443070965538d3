package digest

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/LJTian/AIPulse/internal/processor"
	"github.com/LJTian/AIPulse/internal/storage"
)

const DefaultSize = 10

// ErrEmptySnapshot 快照为空时不生成要闻
var ErrEmptySnapshot = errors.New("digest: snapshot is empty")

var shanghai = loadShanghai()

func loadShanghai() *time.Location {
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		return time.FixedZone("CST", 8*3600)
	}
	return loc
}

// Build 从快照派生每周要闻：按热度降序取前 n 条，再按主题优先级分组。
// 快照本身不会被修改。
func Build(snap *storage.Snapshot, n int, now time.Time) (*storage.Digest, error) {
	if snap == nil || len(snap.Articles) == 0 {
		return nil, ErrEmptySnapshot
	}
	if n <= 0 {
		n = DefaultSize
	}

	ranked := make([]processor.Article, len(snap.Articles))
	copy(ranked, snap.Articles)
	// 同分保持快照中的原始顺序
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].HotScore > ranked[j].HotScore
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	groups, present := group(ranked)
	top := topCategory(ranked)
	avg := averageScore(ranked)

	return &storage.Digest{
		Period:            Period(now),
		GeneratedAt:       now,
		Summary:           summaryText(len(snap.Articles), len(ranked), top, avg),
		TopArticles:       ranked,
		CategoriesPresent: present,
		Groups:            groups,
		Stats: storage.DigestStats{
			TotalArticles:   len(snap.Articles),
			DigestSize:      len(ranked),
			TopCategory:     top,
			AverageHotScore: avg,
		},
	}, nil
}

// Period 以上海时区的 ISO 周表示，如 2026-W42
func Period(t time.Time) string {
	year, week := t.In(shanghai).ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func group(items []processor.Article) ([]storage.DigestGroup, []processor.Category) {
	byCat := make(map[processor.Category][]processor.Article)
	for _, a := range items {
		byCat[a.Category] = append(byCat[a.Category], a)
	}

	var groups []storage.DigestGroup
	var present []processor.Category
	for _, c := range processor.AllCategories() {
		list, ok := byCat[c]
		if !ok {
			continue
		}
		groups = append(groups, storage.DigestGroup{Category: c, Name: c.Name(), Articles: list})
		present = append(present, c)
	}
	return groups, present
}

// topCategory 取出现次数最多的主题，次数相同按分类优先级
func topCategory(items []processor.Article) processor.Category {
	counts := make(map[processor.Category]int)
	for _, a := range items {
		counts[a.Category]++
	}
	var best processor.Category
	bestCount := 0
	for _, c := range processor.AllCategories() {
		if counts[c] > bestCount {
			best, bestCount = c, counts[c]
		}
	}
	return best
}

func averageScore(items []processor.Article) float64 {
	if len(items) == 0 {
		return 0
	}
	sum := 0
	for _, a := range items {
		sum += a.HotScore
	}
	return math.Round(float64(sum)/float64(len(items))*10) / 10
}

func summaryText(total, size int, top processor.Category, avg float64) string {
	return fmt.Sprintf("本周共收录 %d 条 AI 资讯，精选热度最高的 %d 条。%s 领域最受关注，入选要闻平均热度 %.1f。",
		total, size, top.Name(), avg)
}
