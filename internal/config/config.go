package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv  string `envconfig:"APP_ENV" default:"dev"`
	AppPort string `envconfig:"APP_PORT" default:"9000"`

	// file: 本地 JSON 快照（默认）；postgres: gorm + PostgreSQL
	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"file"`
	DataDir       string `envconfig:"DATA_DIR" default:"data"`
	PostgresDSN   string `envconfig:"POSTGRES_DSN" default:"host=localhost user=aipulse password=aipulse dbname=aipulse port=5432 sslmode=disable TimeZone=UTC"`
	RedisAddr     string `envconfig:"REDIS_ADDR"`

	// 快照更新事件：优先 AMQP，其次 Redis Pub/Sub，均未配置则不发布
	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"aipulse.events"`
	EventsTopic  string `envconfig:"EVENTS_TOPIC" default:"aipulse.snapshot.updated"`

	// 每周一、周三早上 9 点（东八区）
	CronSpec     string        `envconfig:"CRON_SPEC" default:"0 9 * * 1,3"`
	CronTZ       string        `envconfig:"CRON_TZ" default:"Asia/Shanghai"`
	StartupDelay time.Duration `envconfig:"STARTUP_DELAY" default:"15s"`

	MinArticles  int           `envconfig:"MIN_ARTICLES" default:"50"`
	MaxRounds    int           `envconfig:"MAX_ROUNDS" default:"3"`
	RetryBackoff time.Duration `envconfig:"RETRY_BACKOFF" default:"5s"`
	FetchTimeout time.Duration `envconfig:"FETCH_TIMEOUT" default:"10s"`
	MaxPerSource int           `envconfig:"MAX_PER_SOURCE" default:"10"`
	DigestSize   int           `envconfig:"DIGEST_SIZE" default:"10"`

	SourcesFile       string `envconfig:"SOURCES_FILE"`
	BrowserScraperURL string `envconfig:"BROWSER_SCRAPER_URL"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
}

func Load() *Config {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		log.Fatal().Err(err).Msg("load config failed")
	}
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))

	log.Info().
		Str("port", cfg.AppPort).
		Str("storage", cfg.StorageDriver).
		Str("cron", cfg.CronSpec).
		Str("tz", cfg.CronTZ).
		Msg("config loaded")
	return cfg
}

// Location 解析定时任务时区，系统缺少 tzdata 时回退到固定 UTC+8
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.CronTZ)
	if err != nil || c.CronTZ == "" {
		return time.FixedZone("CST", 8*60*60)
	}
	return loc
}
