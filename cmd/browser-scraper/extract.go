package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// minArticleChars 正文容器的文本少于该长度时视为没找到，改用段落兜底
const minArticleChars = 200

// articleSelectors 数据源站点的正文容器，按站点排列，通用选择器放最后
var articleSelectors = []string{
	"div.article__content",                      // 机器之心
	"div.article-content",                       // 量子位
	"div.common-width.content",                  // 36氪
	"div.lph-article-comView",                   // 雷锋网
	"div#paragraph",                             // IT之家
	"div.inner",                                 // 钛媒体
	"div.entry-content",                         // TechCrunch
	"div.duet--article--article-body-component", // The Verge
	"div#content--body",                         // MIT Technology Review
	"div.article-body",                          // VentureBeat
	"div.body-description",                      // IEEE Spectrum
	"div#article-body",                          // Tom's Hardware
	"div[class*='article-body']",                // Reuters
	"article",
	"main",
}

var articleScript = extractScript(articleSelectors, minArticleChars)

// extractScript 生成在页面内执行的提取脚本：
// 每个选择器取文本最长的节点，达到 minLen 即返回；都不够时拼接全页较长段落。
func extractScript(selectors []string, minLen int) string {
	list, _ := json.Marshal(dedupeSelectors(selectors))
	return fmt.Sprintf(`(function (selectors, minLen) {
  var best = "";
  for (var i = 0; i < selectors.length; i++) {
    var nodes = document.querySelectorAll(selectors[i]);
    for (var j = 0; j < nodes.length; j++) {
      var t = (nodes[j].innerText || "").trim();
      if (t.length > best.length) best = t;
    }
    if (best.length >= minLen) return best;
  }
  var pieces = [];
  var size = 0;
  var paras = document.querySelectorAll("p");
  for (var k = 0; k < paras.length && size < 4000; k++) {
    var p = (paras[k].innerText || "").trim();
    if (p.length >= 40) {
      pieces.push(p);
      size += p.length;
    }
  }
  return pieces.length ? pieces.join("\n\n") : best;
})(%s, %d);`, list, minLen)
}

func dedupeSelectors(selectors []string) []string {
	seen := make(map[string]bool, len(selectors))
	out := make([]string, 0, len(selectors))
	for _, sel := range selectors {
		if !seen[sel] {
			seen[sel] = true
			out = append(out, sel)
		}
	}
	return out
}

// trimWhitespace 统一换行符，去掉行尾空白，连续空行压成一行
func trimWhitespace(s string) string {
	s = strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(s)

	var b strings.Builder
	blank := false
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return strings.TrimSpace(b.String())
}

// truncateRunes 按字符截断，超出时追加省略号
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i] + "…"
		}
		n++
	}
	return s
}
