package processor

import (
	"testing"
	"time"
)

func newTestScorer(now time.Time) *Scorer {
	s := NewScorer()
	s.Now = func() time.Time { return now }
	return s
}

func TestScoreRecencyBonus(t *testing.T) {
	now := time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)
	s := newTestScorer(now)
	base := Article{Title: "英伟达发布新一代GPU", Content: "内容", Source: "机器之心"}

	fresh, old := base, base
	fresh.PublishTime = now.Add(-1 * time.Hour)
	old.PublishTime = now.Add(-48 * time.Hour)

	if s.Score(fresh) <= s.Score(old) {
		t.Fatalf("1h-old article should score higher: %d vs %d", s.Score(fresh), s.Score(old))
	}
	// 1 小时：9.75；48 小时：0，四舍五入后相差 10
	if diff := s.Score(fresh) - s.Score(old); diff != 10 {
		t.Fatalf("unexpected recency diff %d", diff)
	}
}

func TestScoreExactValue(t *testing.T) {
	now := time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)
	s := newTestScorer(now)
	a := Article{Title: "Nvidia", Source: "Unknown Blog", PublishTime: now.Add(-8 * time.Hour)}
	// nvidia(9) + 默认来源(1) + (10 - 8/4)=8
	if got := s.Score(a); got != 18 {
		t.Fatalf("Score = %d, want 18", got)
	}

	a.Source = "Reuters"
	// 来源权重 4
	if got := s.Score(a); got != 21 {
		t.Fatalf("Score with authority = %d, want 21", got)
	}
}

func TestScoreKeywordsMatchWholeWords(t *testing.T) {
	now := time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)
	s := newTestScorer(now)
	// 40 小时后时效加分为 0，只剩关键词与默认来源权重 1
	pub := now.Add(-40 * time.Hour)
	cases := map[string]int{
		"A quiet day":            1,
		"Managing engineers":     1,
		"Magic tricks":           1,
		"Pineapple recorded":     1,
		"Metal prices":           1,
		"New computer":           1,
		"AGI breakthrough":       19,
		"Nvidia ships new chips": 16,
		"Apple unveils":          11,
		"英伟达芯片出口":                16,
	}
	for title, want := range cases {
		a := Article{Title: title, Source: "Unknown Blog", PublishTime: pub}
		if got := s.Score(a); got != want {
			t.Fatalf("Score(%q) = %d, want %d", title, got, want)
		}
	}
}

func TestContainsWord(t *testing.T) {
	cases := []struct {
		text, word string
		want       bool
	}{
		{"gpt-4o 发布", "gpt", true},
		{"chatgpt", "gpt", false},
		{"openai launches agents", "launch", true},
		{"ai agents", "agent", true},
		{"data-center gpus", "gpu", true},
		{"华为ai芯片amd对比", "amd", true},
		{"12nm process", "2nm", false},
		{"nvidia's earnings", "nvidia", true},
		{"the record-breaking run", "record", true},
		{"recorded talk", "record", false},
	}
	for _, c := range cases {
		if got := containsWord(c.text, c.word); got != c.want {
			t.Fatalf("containsWord(%q, %q) = %v, want %v", c.text, c.word, got, c.want)
		}
	}
}

func TestScoreMonotonicInKeywords(t *testing.T) {
	now := time.Now()
	s := newTestScorer(now)
	pub := now.Add(-3 * time.Hour)
	titles := []string{"新品发布会", "Weekly roundup", "华为推出新款AI芯片", "A quiet day"}
	for _, title := range titles {
		without := Article{Title: title, Source: "量子位", PublishTime: pub}
		with := without
		with.Title = title + " 出口管制"
		if s.Score(with) < s.Score(without) {
			t.Fatalf("adding a keyword decreased score for %q", title)
		}
		if s.Score(with) <= s.Score(without) {
			t.Fatalf("adding an unseen high-weight keyword should increase score for %q", title)
		}
	}
}

func TestScoreNonNegativeAndFutureClamp(t *testing.T) {
	now := time.Now()
	s := newTestScorer(now)
	a := Article{Title: "x", Source: "", PublishTime: now.Add(5 * time.Hour)}
	// 未来时间按 0 小时计：1 + 10
	if got := s.Score(a); got != 11 {
		t.Fatalf("Score = %d, want 11", got)
	}
	a.PublishTime = now.Add(-1000 * time.Hour)
	if got := s.Score(a); got < 0 {
		t.Fatalf("score must be non-negative, got %d", got)
	}
}

func TestScoreAll(t *testing.T) {
	now := time.Now()
	s := newTestScorer(now)
	items := []Article{
		{Title: "OpenAI", PublishTime: now},
		{Title: "plain", PublishTime: now},
	}
	s.ScoreAll(items)
	if items[0].HotScore <= items[1].HotScore {
		t.Fatalf("ScoreAll should set scores: %d vs %d", items[0].HotScore, items[1].HotScore)
	}
}
