package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/LJTian/AIPulse/internal/collector"
	"github.com/LJTian/AIPulse/internal/config"
	"github.com/LJTian/AIPulse/internal/extractor"
	"github.com/LJTian/AIPulse/internal/notify"
	"github.com/LJTian/AIPulse/internal/pipeline"
	"github.com/LJTian/AIPulse/internal/policy"
	"github.com/LJTian/AIPulse/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// App cmd/api 与 cmd/collect 共用的组件
type App struct {
	Store     storage.Store
	Policies  *policy.Service
	Runner    *pipeline.Runner
	Publisher notify.Publisher
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed, cache disabled")
			_ = rdb.Close()
			rdb = nil
		}
	}

	store, err := newStore(cfg, rdb)
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return nil, err
	}

	policies := policy.NewService(store)
	if err := policies.EnsureSeeded(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("seed chip policies: %w", err)
	}

	sources := collector.DefaultSources()
	if cfg.SourcesFile != "" {
		sources, err = collector.LoadRegistry(cfg.SourcesFile)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("load sources: %w", err)
		}
	}
	log.Info().Int("sources", len(sources)).Msg("source registry loaded")

	runner := pipeline.NewRunner(
		collector.NewCollector(cfg.FetchTimeout, cfg.MaxPerSource),
		sources,
		store,
		pipeline.Options{
			MinArticles: cfg.MinArticles,
			MaxRounds:   cfg.MaxRounds,
			Backoff:     cfg.RetryBackoff,
			DigestSize:  cfg.DigestSize,
		},
	)
	if cfg.BrowserScraperURL != "" {
		runner.Enricher = extractor.NewClient(cfg.BrowserScraperURL)
		log.Info().Str("url", cfg.BrowserScraperURL).Msg("content enrichment enabled")
	}
	runner.Publisher = newPublisher(cfg, rdb)

	return &App{Store: store, Policies: policies, Runner: runner, Publisher: runner.Publisher}, nil
}

func (a *App) Close() error {
	return errors.Join(a.Publisher.Close(), a.Store.Close())
}

func newStore(cfg *config.Config, rdb *redis.Client) (storage.Store, error) {
	var (
		store storage.Store
		err   error
	)
	switch cfg.StorageDriver {
	case "postgres":
		store, err = storage.NewDBStore(cfg.PostgresDSN)
	case "file", "":
		store, err = storage.NewFileStore(cfg.DataDir)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s store: %w", cfg.StorageDriver, err)
	}
	if rdb != nil {
		return storage.NewCachedStore(store, rdb, 0), nil
	}
	return store, nil
}

// newPublisher 优先 AMQP，其次 Redis Pub/Sub
func newPublisher(cfg *config.Config, rdb *redis.Client) notify.Publisher {
	if cfg.AMQPURL != "" {
		p, err := notify.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err == nil {
			return p
		}
		log.Warn().Err(err).Msg("amqp publisher unavailable")
	}
	if rdb != nil {
		return notify.NewRedisPublisher(rdb, cfg.EventsTopic)
	}
	return notify.Nop{}
}
