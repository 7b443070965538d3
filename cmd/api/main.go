package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LJTian/AIPulse/internal/api"
	"github.com/LJTian/AIPulse/internal/app"
	"github.com/LJTian/AIPulse/internal/config"
	"github.com/LJTian/AIPulse/internal/logging"
	"github.com/LJTian/AIPulse/internal/metrics"
	"github.com/LJTian/AIPulse/internal/scheduler"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func main() {
	// .env 不存在时忽略，以环境变量为准
	_ = godotenv.Load()

	logging.New(os.Getenv("APP_ENV"))
	cfg := config.Load()
	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init app failed")
	}
	defer a.Close()

	s, err := scheduler.New(ctx, cfg.CronSpec, cfg.Location(), a.Runner, cfg.StartupDelay)
	if err != nil {
		log.Fatal().Err(err).Msg("init scheduler failed")
	}
	s.Start()
	defer s.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiServer := api.NewServer(a.Store, a.Runner, a.Policies, cfg.DigestSize)
	apiServer.RegisterRoutes(r)

	srv := &http.Server{Addr: ":" + cfg.AppPort, Handler: r}
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting api server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exit")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
