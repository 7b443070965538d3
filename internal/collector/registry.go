package collector

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultSources 内置的数据源注册表，可通过 SOURCES_FILE 指定 YAML 覆盖
func DefaultSources() []Source {
	return []Source{
		{Name: "机器之心", URL: "https://www.jiqizhixin.com/", BaseURL: "https://www.jiqizhixin.com", Kind: KindHTML, Selector: "a.article-item__title", Language: LangZH},
		{Name: "量子位", URL: "https://www.qbitai.com/", BaseURL: "https://www.qbitai.com", Kind: KindHTML, Selector: "div.text_box h4 a", Language: LangZH},
		{Name: "36氪", URL: "https://36kr.com/information/AI/", BaseURL: "https://36kr.com", Kind: KindHTML, Selector: "a.article-item-title", Language: LangZH},
		{Name: "雷锋网", URL: "https://www.leiphone.com/category/ai", BaseURL: "https://www.leiphone.com", Kind: KindHTML, Selector: "div.word h3 a", Language: LangZH},
		{Name: "IT之家", URL: "https://www.ithome.com/tag/ai/", BaseURL: "https://www.ithome.com", Kind: KindHTML, Selector: "div.c h2 a", Language: LangZH},
		{Name: "钛媒体", URL: "https://www.tmtpost.com/", BaseURL: "https://www.tmtpost.com", Kind: KindHTML, Selector: "li.part_post h3 a", Language: LangZH},
		{Name: "TechCrunch", URL: "https://techcrunch.com/category/artificial-intelligence/feed/", Kind: KindFeed, Language: LangEN},
		{Name: "The Verge", URL: "https://www.theverge.com/rss/ai-artificial-intelligence/index.xml", Kind: KindFeed, Language: LangEN},
		{Name: "MIT Technology Review", URL: "https://www.technologyreview.com/topic/artificial-intelligence/feed", Kind: KindFeed, Language: LangEN},
		{Name: "VentureBeat", URL: "https://venturebeat.com/category/ai/feed/", Kind: KindFeed, Language: LangEN},
		{Name: "IEEE Spectrum", URL: "https://spectrum.ieee.org/feeds/topic/artificial-intelligence.rss", Kind: KindFeed, Language: LangEN},
		{Name: "Tom's Hardware", URL: "https://www.tomshardware.com/feeds/all", Kind: KindFeed, Language: LangEN},
		{Name: "Reuters", URL: "https://www.reuters.com/technology/", BaseURL: "https://www.reuters.com", Kind: KindHTML, Selector: "a[data-testid='Heading']", Language: LangEN},
	}
}

type registryFile struct {
	Sources []Source `yaml:"sources"`
}

// LoadRegistry 读取 YAML 注册表；path 为空时返回内置列表
func LoadRegistry(path string) ([]Source, error) {
	if path == "" {
		return DefaultSources(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}
	var f registryFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse sources file %s: %w", path, err)
	}
	if len(f.Sources) == 0 {
		return nil, errors.New("sources file contains no sources")
	}
	out := make([]Source, 0, len(f.Sources))
	for i, s := range f.Sources {
		s, err := normalizeSource(s)
		if err != nil {
			return nil, fmt.Errorf("source #%d: %w", i+1, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func normalizeSource(s Source) (Source, error) {
	s.Name = strings.TrimSpace(s.Name)
	s.URL = strings.TrimSpace(s.URL)
	s.Kind = strings.ToLower(strings.TrimSpace(s.Kind))
	s.Language = strings.ToLower(strings.TrimSpace(s.Language))

	if s.Name == "" {
		return s, errors.New("name is required")
	}
	u, err := url.Parse(s.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return s, fmt.Errorf("%s: url must be absolute", s.Name)
	}
	if s.Kind == "" {
		s.Kind = KindHTML
	}
	if s.Kind != KindHTML && s.Kind != KindFeed {
		return s, fmt.Errorf("%s: unknown kind %q", s.Name, s.Kind)
	}
	if s.Kind == KindHTML && s.Selector == "" {
		return s, fmt.Errorf("%s: html source needs a selector", s.Name)
	}
	if s.Language != LangZH && s.Language != LangEN {
		return s, fmt.Errorf("%s: language must be zh or en", s.Name)
	}
	if s.BaseURL == "" {
		s.BaseURL = u.Scheme + "://" + u.Host
	}
	return s, nil
}
