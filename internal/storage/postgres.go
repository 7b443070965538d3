package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LJTian/AIPulse/internal/processor"
	sq "github.com/Masterminds/squirrel"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type articleRow struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Position    int       `gorm:"index"`
	Title       string    `gorm:"size:512"`
	URL         string    `gorm:"size:1024"`
	Source      string    `gorm:"size:128;index"`
	Language    string    `gorm:"size:8"`
	Category    string    `gorm:"size:32;index"`
	PublishTime time.Time `gorm:"index"`
	Summary     string    `gorm:"size:600"`
	Content     string    `gorm:"type:text"`
	HotScore    int       `gorm:"index"`
	ContentHash string    `gorm:"size:40;index"`
}

func (articleRow) TableName() string { return "articles" }

// snapshotMeta 单行表，ID 固定为 1
type snapshotMeta struct {
	ID         uint `gorm:"primaryKey"`
	LastUpdate time.Time
	TotalCount int
	IsRealData bool
}

func (snapshotMeta) TableName() string { return "snapshot_meta" }

type digestRow struct {
	ID          uint `gorm:"primaryKey"`
	Period      string
	GeneratedAt time.Time
	Data        datatypes.JSON `gorm:"type:jsonb"`
}

func (digestRow) TableName() string { return "weekly_digests" }

type policyRow struct {
	ID       string         `gorm:"primaryKey;size:64"`
	Title    string         `gorm:"size:512"`
	Date     string         `gorm:"size:10;index"`
	Summary  string         `gorm:"type:text"`
	Keywords datatypes.JSON `gorm:"type:jsonb"`
	Content  string         `gorm:"type:text"`
	Impact   string         `gorm:"type:text"`
	Category string         `gorm:"size:64"`
}

func (policyRow) TableName() string { return "chip_policies" }

// DBStore 基于 gorm + PostgreSQL；整体替换在单个事务内完成，失败时旧数据保持不变
type DBStore struct {
	DB *gorm.DB
}

func NewDBStore(dsn string) (*DBStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&articleRow{}, &snapshotMeta{}, &digestRow{}, &policyRow{}); err != nil {
		return nil, err
	}
	return &DBStore{DB: db}, nil
}

func (s *DBStore) SaveSnapshot(ctx context.Context, snap *Snapshot) error {
	rows := make([]articleRow, 0, len(snap.Articles))
	for i, a := range snap.Articles {
		rows = append(rows, toArticleRow(i, a))
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&articleRow{}).Error; err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := tx.CreateInBatches(rows, 100).Error; err != nil {
				return err
			}
		}
		return tx.Save(&snapshotMeta{
			ID:         1,
			LastUpdate: snap.LastUpdate,
			TotalCount: snap.TotalCount,
			IsRealData: snap.IsRealData,
		}).Error
	})
}

func (s *DBStore) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	db := s.DB.WithContext(ctx)
	var meta snapshotMeta
	if err := db.First(&meta, 1).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var rows []articleRow
	if err := db.Order("position ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	snap := &Snapshot{
		LastUpdate: meta.LastUpdate,
		TotalCount: meta.TotalCount,
		IsRealData: meta.IsRealData,
		Articles:   make([]processor.Article, 0, len(rows)),
	}
	for _, r := range rows {
		snap.Articles = append(snap.Articles, fromArticleRow(r))
	}
	return snap, nil
}

func (s *DBStore) SaveDigest(ctx context.Context, d *Digest) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode digest: %w", err)
	}
	return s.DB.WithContext(ctx).Save(&digestRow{
		ID:          1,
		Period:      d.Period,
		GeneratedAt: d.GeneratedAt,
		Data:        datatypes.JSON(data),
	}).Error
}

func (s *DBStore) LoadDigest(ctx context.Context) (*Digest, error) {
	var row digestRow
	if err := s.DB.WithContext(ctx).First(&row, 1).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var d Digest
	if err := json.Unmarshal(row.Data, &d); err != nil {
		return nil, fmt.Errorf("decode digest: %w", err)
	}
	return &d, nil
}

func (s *DBStore) SavePolicies(ctx context.Context, policies []ChipPolicy) error {
	rows := make([]policyRow, 0, len(policies))
	for _, p := range policies {
		r, err := toPolicyRow(p)
		if err != nil {
			return err
		}
		rows = append(rows, r)
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&policyRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (s *DBStore) ListPolicies(ctx context.Context) ([]ChipPolicy, error) {
	var rows []policyRow
	if err := s.DB.WithContext(ctx).Order("date DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return fromPolicyRows(rows), nil
}

// SearchPolicies 在标题、摘要与关键词上做不区分大小写的子串匹配
func (s *DBStore) SearchPolicies(ctx context.Context, keyword string) ([]ChipPolicy, error) {
	query, args, err := buildPolicySearch(keyword)
	if err != nil {
		return nil, err
	}
	var rows []policyRow
	if err := s.DB.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return fromPolicyRows(rows), nil
}

func (s *DBStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// buildPolicySearch 生成 ? 占位符的 SQL，由 gorm 按方言改写为 $n
func buildPolicySearch(keyword string) (string, []any, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(keyword)) + "%"
	return sq.Select("id", "title", "date", "summary", "keywords", "content", "impact", "category").
		From("chip_policies").
		Where(sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"summary": pattern},
			sq.Expr("keywords::text ILIKE ?", pattern),
		}).
		OrderBy("date DESC").
		ToSql()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}

// toValidUTF8 将字符串规范为合法 UTF-8，避免 PostgreSQL invalid byte sequence 错误（部分中文站点含 GBK 混编）
func toValidUTF8(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}

// truncateRunesDB 按 rune 数截断，保证不超过 varchar 长度
func truncateRunesDB(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.TrimSpace(s)
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit])
}

func toArticleRow(pos int, a processor.Article) articleRow {
	return articleRow{
		ID:          a.ID,
		Position:    pos,
		Title:       truncateRunesDB(toValidUTF8(a.Title), 512),
		URL:         a.URL,
		Source:      a.Source,
		Language:    a.Language,
		Category:    string(a.Category),
		PublishTime: a.PublishTime,
		Summary:     truncateRunesDB(toValidUTF8(a.Summary), 600),
		Content:     toValidUTF8(a.Content),
		HotScore:    a.HotScore,
		ContentHash: a.ContentHash,
	}
}

func fromArticleRow(r articleRow) processor.Article {
	return processor.Article{
		ID:          r.ID,
		Title:       r.Title,
		URL:         r.URL,
		Source:      r.Source,
		Language:    r.Language,
		Category:    processor.Category(r.Category),
		PublishTime: r.PublishTime,
		Summary:     r.Summary,
		Content:     r.Content,
		HotScore:    r.HotScore,
		ContentHash: r.ContentHash,
	}
}

func toPolicyRow(p ChipPolicy) (policyRow, error) {
	kws, err := json.Marshal(p.Keywords)
	if err != nil {
		return policyRow{}, fmt.Errorf("encode keywords of %s: %w", p.ID, err)
	}
	return policyRow{
		ID:       p.ID,
		Title:    p.Title,
		Date:     p.Date,
		Summary:  p.Summary,
		Keywords: datatypes.JSON(kws),
		Content:  p.Content,
		Impact:   p.Impact,
		Category: p.Category,
	}, nil
}

func fromPolicyRows(rows []policyRow) []ChipPolicy {
	out := make([]ChipPolicy, 0, len(rows))
	for _, r := range rows {
		var kws []string
		_ = json.Unmarshal(r.Keywords, &kws)
		out = append(out, ChipPolicy{
			ID:       r.ID,
			Title:    r.Title,
			Date:     r.Date,
			Summary:  r.Summary,
			Keywords: kws,
			Content:  r.Content,
			Impact:   r.Impact,
			Category: r.Category,
		})
	}
	return out
}
