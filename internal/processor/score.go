package processor

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// Scorer 计算热度分：关键词权重之和 + 来源权重 + 时效加分，最后统一四舍五入
type Scorer struct {
	Now       func() time.Time
	weights   []keywordMatcher
	authority map[string]int
}

func NewScorer() *Scorer {
	return &Scorer{Now: time.Now, weights: keywordMatchers, authority: sourceAuthority}
}

// keywordMatcher 纯 ASCII 关键词按词边界匹配，中文关键词按子串匹配
type keywordMatcher struct {
	keywordWeight
	ascii bool
}

var keywordMatchers = compileKeywords(keywordWeights)

func compileKeywords(ws []keywordWeight) []keywordMatcher {
	out := make([]keywordMatcher, len(ws))
	for i, w := range ws {
		out[i] = keywordMatcher{keywordWeight: w, ascii: isASCII(w.Keyword)}
	}
	return out
}

func (m keywordMatcher) match(text string) bool {
	if !m.ascii {
		return strings.Contains(text, m.Keyword)
	}
	return containsWord(text, m.Keyword)
}

// containsWord 要求左侧是边界，右侧是边界或复数后缀 s/es 加边界。
// text 已转小写；多字节字符（中文等）视为边界。
func containsWord(text, word string) bool {
	for from := 0; from < len(text); {
		i := strings.Index(text[from:], word)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(word)
		if (start == 0 || !isWordByte(text[start-1])) && wordEnds(text[end:]) {
			return true
		}
		from = start + 1
	}
	return false
}

func wordEnds(rest string) bool {
	switch {
	case atBoundary(rest):
		return true
	case strings.HasPrefix(rest, "es") && atBoundary(rest[2:]):
		return true
	case strings.HasPrefix(rest, "s") && atBoundary(rest[1:]):
		return true
	}
	return false
}

func atBoundary(s string) bool {
	return s == "" || !isWordByte(s[0])
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func (s *Scorer) Score(a Article) int {
	text := strings.ToLower(a.Title + " " + a.Content + " " + a.Source)

	total := 0.0
	for _, kw := range s.weights {
		if kw.match(text) {
			total += float64(kw.Weight)
		}
	}
	total += float64(s.sourceWeight(a.Source))
	total += recencyBonus(s.Now().Sub(a.PublishTime))

	return int(math.Round(total))
}

func (s *Scorer) ScoreAll(items []Article) {
	for i := range items {
		items[i].HotScore = s.Score(items[i])
	}
}

func (s *Scorer) sourceWeight(source string) int {
	if w, ok := s.authority[strings.ToLower(strings.TrimSpace(source))]; ok {
		return w
	}
	return defaultSourceAuthority
}

// recencyBonus = max(0, 10 - 小时数/4)；发布时间在未来时按 0 小时计
func recencyBonus(age time.Duration) float64 {
	hours := age.Hours()
	if hours < 0 {
		hours = 0
	}
	return math.Max(0, 10-hours/4)
}
