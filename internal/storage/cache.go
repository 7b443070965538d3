package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	snapshotCacheKey = "aipulse:snapshot"
	digestCacheKey   = "aipulse:digest"
	defaultCacheTTL  = 5 * time.Minute
)

// versionKey 每次写入底层存储后递增，回填事务 WATCH 该键
func versionKey(key string) string { return key + ":version" }

// CachedStore 在任意 Store 前加一层 Redis 读缓存。
// 写入成功后递增版本并删除缓存键；未命中时的回填在 WATCH 事务中执行，
// 读取期间发生过写入则放弃回填。Redis 不可用时直接回落到底层存储。
type CachedStore struct {
	Store
	Redis *redis.Client
	TTL   time.Duration
}

func NewCachedStore(inner Store, rdb *redis.Client, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedStore{Store: inner, Redis: rdb, TTL: ttl}
}

func (c *CachedStore) SaveSnapshot(ctx context.Context, snap *Snapshot) error {
	if err := c.Store.SaveSnapshot(ctx, snap); err != nil {
		return err
	}
	c.invalidate(ctx, snapshotCacheKey)
	return nil
}

func (c *CachedStore) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	return loadThrough(ctx, c, snapshotCacheKey, c.Store.LoadSnapshot)
}

func (c *CachedStore) SaveDigest(ctx context.Context, d *Digest) error {
	if err := c.Store.SaveDigest(ctx, d); err != nil {
		return err
	}
	c.invalidate(ctx, digestCacheKey)
	return nil
}

func (c *CachedStore) LoadDigest(ctx context.Context) (*Digest, error) {
	return loadThrough(ctx, c, digestCacheKey, c.Store.LoadDigest)
}

func (c *CachedStore) SearchPolicies(ctx context.Context, keyword string) ([]ChipPolicy, error) {
	if s, ok := c.Store.(PolicySearcher); ok {
		return s.SearchPolicies(ctx, keyword)
	}
	return nil, ErrSearchUnsupported
}

func (c *CachedStore) Close() error {
	err := c.Store.Close()
	if c.Redis != nil {
		err = errors.Join(err, c.Redis.Close())
	}
	return err
}

func loadThrough[T any](ctx context.Context, c *CachedStore, key string, load func(context.Context) (*T, error)) (*T, error) {
	if c.Redis == nil {
		return load(ctx)
	}
	var cached T
	if c.get(ctx, key, &cached) {
		return &cached, nil
	}

	var (
		loaded  *T
		loadErr error
	)
	err := c.Redis.Watch(ctx, func(tx *redis.Tx) error {
		loaded, loadErr = load(ctx)
		if loadErr != nil {
			return loadErr
		}
		body, err := json.Marshal(loaded)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, body, c.TTL)
			return nil
		})
		return err
	}, versionKey(key))

	if loadErr != nil {
		return nil, loadErr
	}
	switch {
	case err == nil:
	case errors.Is(err, redis.TxFailedErr):
		log.Debug().Str("key", key).Msg("cache fill skipped: store written during load")
	default:
		log.Debug().Err(err).Str("key", key).Msg("cache fill failed")
	}
	if loaded == nil {
		// WATCH 本身失败，回调未执行
		return load(ctx)
	}
	return loaded, nil
}

func (c *CachedStore) get(ctx context.Context, key string, v any) bool {
	bs, err := c.Redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Debug().Err(err).Str("key", key).Msg("redis get failed")
		}
		return false
	}
	return json.Unmarshal(bs, v) == nil
}

// invalidate 先递增版本使进行中的回填失效，再删除已缓存的旧值
func (c *CachedStore) invalidate(ctx context.Context, key string) {
	if c.Redis == nil {
		return
	}
	_, err := c.Redis.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, versionKey(key))
		p.Del(ctx, key)
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("redis invalidate failed")
	}
}
