package processor

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// TitleKey 计算用于去重的规范化标题：转小写，只保留字母、数字和空白，空白折叠为单个空格
func TitleKey(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Deduplicator 在整批（以及多轮抓取之间）维护已见过的标题键，先到者保留。
// 并发抓取的完成顺序决定哪个来源“拥有”重复条目，这一点跨次运行不确定。
type Deduplicator struct {
	seen map[string]struct{}
}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]struct{})}
}

// Add 返回本批中首次出现的文章，并记录其标题键
func (d *Deduplicator) Add(items []Article) []Article {
	out := make([]Article, 0, len(items))
	for _, it := range items {
		key := TitleKey(it.Title)
		if _, ok := d.seen[key]; ok {
			continue
		}
		d.seen[key] = struct{}{}
		out = append(out, it)
	}
	return out
}

// Len 已记录的唯一标题数
func (d *Deduplicator) Len() int {
	return len(d.seen)
}

// AssignIDs 在去重之后为每篇文章分配唯一 ID，并写入跨次稳定的内容哈希
func AssignIDs(items []Article) {
	for i := range items {
		items[i].ID = uuid.NewString()
		items[i].ContentHash = hashKey(TitleKey(items[i].Title))
	}
}

func hashKey(key string) string {
	h := sha1.New()
	h.Write([]byte(key))
	return hex.EncodeToString(h.Sum(nil))
}
