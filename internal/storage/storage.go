package storage

import (
	"context"
	"errors"
	"time"

	"github.com/LJTian/AIPulse/internal/processor"
)

var (
	ErrNotFound = errors.New("storage: not found")
	// ErrSearchUnsupported 后端没有原生检索能力，调用方应退回内存过滤
	ErrSearchUnsupported = errors.New("storage: search unsupported")
)

// Snapshot 一次成功运行产出的完整数据集，每次整体替换
type Snapshot struct {
	LastUpdate time.Time           `json:"lastUpdate"`
	TotalCount int                 `json:"totalCount"`
	IsRealData bool                `json:"isRealData"`
	Articles   []processor.Article `json:"articles"`
}

type DigestStats struct {
	TotalArticles   int                `json:"totalArticles"`
	DigestSize      int                `json:"digestSize"`
	TopCategory     processor.Category `json:"topCategory"`
	AverageHotScore float64            `json:"averageHotScore"`
}

type DigestGroup struct {
	Category processor.Category  `json:"category"`
	Name     string              `json:"name"`
	Articles []processor.Article `json:"articles"`
}

// Digest 每周要闻：从快照派生，可随时重算
type Digest struct {
	Period            string               `json:"period"`
	GeneratedAt       time.Time            `json:"generatedAt"`
	Summary           string               `json:"summary"`
	TopArticles       []processor.Article  `json:"topArticles"`
	CategoriesPresent []processor.Category `json:"categoriesPresent"`
	Groups            []DigestGroup        `json:"groups"`
	Stats             DigestStats          `json:"stats"`
}

// ChipPolicy 芯片政策参考数据，静态种子，只读
type ChipPolicy struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Date     string   `json:"date"`
	Summary  string   `json:"summary"`
	Keywords []string `json:"keywords"`
	Content  string   `json:"content"`
	Impact   string   `json:"impact"`
	Category string   `json:"category"`
}

// Store 三类持久化记录：快照、要闻、政策列表，均为整体替换写入
type Store interface {
	SaveSnapshot(ctx context.Context, s *Snapshot) error
	LoadSnapshot(ctx context.Context) (*Snapshot, error)
	SaveDigest(ctx context.Context, d *Digest) error
	LoadDigest(ctx context.Context) (*Digest, error)
	SavePolicies(ctx context.Context, policies []ChipPolicy) error
	ListPolicies(ctx context.Context) ([]ChipPolicy, error)
	Close() error
}

// PolicySearcher 由具备原生检索能力的后端实现
type PolicySearcher interface {
	SearchPolicies(ctx context.Context, keyword string) ([]ChipPolicy, error)
}
