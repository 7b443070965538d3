package digest

import (
	"errors"
	"testing"
	"time"

	"github.com/LJTian/AIPulse/internal/processor"
	"github.com/LJTian/AIPulse/internal/storage"
)

func art(id string, cat processor.Category, score int) processor.Article {
	return processor.Article{ID: id, Title: "t" + id, Category: cat, HotScore: score}
}

func TestBuildRanksAndGroups(t *testing.T) {
	snap := &storage.Snapshot{Articles: []processor.Article{
		art("a", processor.CategoryResearchReport, 12),
		art("b", processor.CategorySmartChip, 40),
		art("c", processor.CategoryAIApplication, 25),
		art("d", processor.CategorySmartChip, 25),
		art("e", processor.CategoryExpertOpinion, 3),
	}}
	now := time.Date(2026, 10, 15, 2, 0, 0, 0, time.UTC)

	d, err := Build(snap, 4, now)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	wantOrder := []string{"b", "c", "d", "a"}
	if len(d.TopArticles) != len(wantOrder) {
		t.Fatalf("expected %d top articles, got %d", len(wantOrder), len(d.TopArticles))
	}
	for i, id := range wantOrder {
		if d.TopArticles[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, d.TopArticles[i].ID)
		}
	}

	wantCats := []processor.Category{processor.CategoryAIApplication, processor.CategorySmartChip, processor.CategoryResearchReport}
	if len(d.CategoriesPresent) != len(wantCats) {
		t.Fatalf("unexpected categories: %v", d.CategoriesPresent)
	}
	for i, c := range wantCats {
		if d.CategoriesPresent[i] != c || d.Groups[i].Category != c || len(d.Groups[i].Articles) == 0 {
			t.Fatalf("group %d mismatch: %+v", i, d.Groups[i])
		}
	}

	if d.Stats.TotalArticles != 5 || d.Stats.DigestSize != 4 {
		t.Fatalf("unexpected stats: %+v", d.Stats)
	}
	if d.Stats.TopCategory != processor.CategorySmartChip {
		t.Fatalf("expected smart-chip as top category, got %s", d.Stats.TopCategory)
	}
	// (40+25+25+12)/4 = 25.5
	if d.Stats.AverageHotScore != 25.5 {
		t.Fatalf("expected average 25.5, got %v", d.Stats.AverageHotScore)
	}
	if d.Period != "2026-W42" || d.Summary == "" {
		t.Fatalf("unexpected period/summary: %q %q", d.Period, d.Summary)
	}
	if snap.Articles[0].ID != "a" {
		t.Fatalf("snapshot must not be reordered")
	}
}

func TestBuildEveryPresentCategoryHasArticles(t *testing.T) {
	var items []processor.Article
	cats := processor.AllCategories()
	for i := 0; i < 30; i++ {
		items = append(items, art(string(rune('A'+i)), cats[i%len(cats)], (i*37)%50))
	}
	d, err := Build(&storage.Snapshot{Articles: items}, 10, time.Now())
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if len(d.TopArticles) != 10 {
		t.Fatalf("expected 10 top articles, got %d", len(d.TopArticles))
	}
	for i := 1; i < len(d.TopArticles); i++ {
		if d.TopArticles[i-1].HotScore < d.TopArticles[i].HotScore {
			t.Fatalf("top articles not sorted at %d", i)
		}
	}
	inTop := map[processor.Category]bool{}
	for _, a := range d.TopArticles {
		inTop[a.Category] = true
	}
	for _, c := range d.CategoriesPresent {
		if !inTop[c] {
			t.Fatalf("category %s listed without articles", c)
		}
	}
}

func TestBuildTopCategoryTieUsesPriority(t *testing.T) {
	snap := &storage.Snapshot{Articles: []processor.Article{
		art("1", processor.CategoryResearchReport, 50),
		art("2", processor.CategoryEmbodiedAI, 40),
	}}
	d, err := Build(snap, 10, time.Now())
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if d.Stats.TopCategory != processor.CategoryEmbodiedAI {
		t.Fatalf("expected embodied-ai on tie, got %s", d.Stats.TopCategory)
	}
}

func TestBuildEmptySnapshot(t *testing.T) {
	if _, err := Build(&storage.Snapshot{}, 10, time.Now()); !errors.Is(err, ErrEmptySnapshot) {
		t.Fatalf("expected ErrEmptySnapshot, got %v", err)
	}
	if _, err := Build(nil, 10, time.Now()); !errors.Is(err, ErrEmptySnapshot) {
		t.Fatalf("expected ErrEmptySnapshot for nil, got %v", err)
	}
}

func TestPeriodUsesShanghaiWeek(t *testing.T) {
	// 周日 20:00 UTC 已是上海的周一
	sunday := time.Date(2026, 10, 18, 20, 0, 0, 0, time.UTC)
	if got := Period(sunday); got != "2026-W43" {
		t.Fatalf("expected 2026-W43, got %s", got)
	}
}
