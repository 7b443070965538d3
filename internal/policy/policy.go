package policy

import (
	"context"
	"errors"
	"strings"

	"github.com/LJTian/AIPulse/internal/storage"
	"github.com/rs/zerolog/log"
)

var ErrEmptyKeyword = errors.New("policy: keyword is empty")

// Service 芯片政策的只读视图，检索优先交给存储后端
type Service struct {
	store storage.Store
}

func NewService(store storage.Store) *Service {
	return &Service{store: store}
}

// EnsureSeeded 库中没有任何政策时写入内置数据
func (s *Service) EnsureSeeded(ctx context.Context) error {
	list, err := s.store.ListPolicies(ctx)
	if err != nil {
		return err
	}
	if len(list) > 0 {
		return nil
	}
	seed := Seed()
	if err := s.store.SavePolicies(ctx, seed); err != nil {
		return err
	}
	log.Info().Int("count", len(seed)).Msg("chip policies seeded")
	return nil
}

func (s *Service) List(ctx context.Context) ([]storage.ChipPolicy, error) {
	list, err := s.store.ListPolicies(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []storage.ChipPolicy{}
	}
	return list, nil
}

// Search 在标题、摘要和关键词中做不区分大小写的子串匹配
func (s *Service) Search(ctx context.Context, keyword string) ([]storage.ChipPolicy, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}

	if searcher, ok := s.store.(storage.PolicySearcher); ok {
		res, err := searcher.SearchPolicies(ctx, keyword)
		if err == nil {
			if res == nil {
				res = []storage.ChipPolicy{}
			}
			return res, nil
		}
		if !errors.Is(err, storage.ErrSearchUnsupported) {
			return nil, err
		}
	}

	list, err := s.store.ListPolicies(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(list, keyword), nil
}

// Filter 内存检索，供没有原生检索能力的后端使用
func Filter(list []storage.ChipPolicy, keyword string) []storage.ChipPolicy {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	out := []storage.ChipPolicy{}
	for _, p := range list {
		if matches(p, kw) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p storage.ChipPolicy, kw string) bool {
	if strings.Contains(strings.ToLower(p.Title), kw) || strings.Contains(strings.ToLower(p.Summary), kw) {
		return true
	}
	for _, k := range p.Keywords {
		if strings.Contains(strings.ToLower(k), kw) {
			return true
		}
	}
	return false
}
