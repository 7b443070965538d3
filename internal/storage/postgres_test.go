package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/LJTian/AIPulse/internal/processor"
)

func TestBuildPolicySearch(t *testing.T) {
	query, args, err := buildPolicySearch(" 出口_管制 ")
	if err != nil {
		t.Fatalf("buildPolicySearch error: %v", err)
	}
	for _, part := range []string{"FROM chip_policies", "title ILIKE ?", "summary ILIKE ?", "keywords::text ILIKE ?", "ORDER BY date DESC"} {
		if !strings.Contains(query, part) {
			t.Fatalf("query missing %q: %s", part, query)
		}
	}
	if len(args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(args))
	}
	for _, a := range args {
		if a != `%出口\_管制%` {
			t.Fatalf("unexpected arg %v", a)
		}
	}
}

func TestArticleRowConversion(t *testing.T) {
	now := time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)
	a := processor.Article{
		ID: "x", Title: "标题\xff", URL: "https://e.com", Source: "量子位", Language: "zh",
		Category: processor.CategoryResearchReport, PublishTime: now, Summary: strings.Repeat("长", 700),
		HotScore: 42, ContentHash: "abc",
	}
	row := toArticleRow(3, a)
	if row.Position != 3 || row.Category != "research-report" {
		t.Fatalf("unexpected row: %+v", row)
	}
	if len([]rune(row.Summary)) != 600 {
		t.Fatalf("summary should be truncated to 600 runes, got %d", len([]rune(row.Summary)))
	}
	if row.Title != "标题\uFFFD" {
		t.Fatalf("invalid utf-8 should be replaced: %q", row.Title)
	}
	back := fromArticleRow(row)
	if back.Category != processor.CategoryResearchReport || back.HotScore != 42 || !back.PublishTime.Equal(now) {
		t.Fatalf("unexpected round trip: %+v", back)
	}
}

func TestPolicyRowConversion(t *testing.T) {
	row, err := toPolicyRow(ChipPolicy{ID: "p", Keywords: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("toPolicyRow error: %v", err)
	}
	out := fromPolicyRows([]policyRow{row})
	if len(out) != 1 || len(out[0].Keywords) != 2 || out[0].Keywords[1] != "b" {
		t.Fatalf("unexpected policies: %+v", out)
	}
}
