package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/LJTian/AIPulse/internal/app"
	"github.com/LJTian/AIPulse/internal/config"
	"github.com/LJTian/AIPulse/internal/logging"
	"github.com/LJTian/AIPulse/internal/scheduler"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// 一个仅执行一次采集任务的命令行入口：适合手动触发采集
func main() {
	_ = godotenv.Load()
	logging.New(os.Getenv("APP_ENV"))
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init app failed")
	}

	s, err := scheduler.New(ctx, cfg.CronSpec, cfg.Location(), a.Runner, -1)
	if err != nil {
		log.Fatal().Err(err).Msg("init scheduler failed")
	}
	res, err := s.RunOnce()
	if cerr := a.Close(); cerr != nil {
		log.Warn().Err(cerr).Msg("close app")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("collect failed")
	}
	log.Info().
		Str("status", string(res.Status)).
		Int("count", res.Count).
		Int("rounds", res.Rounds).
		Msg("collect done")
}
