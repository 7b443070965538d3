package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/LJTian/AIPulse/internal/extractor"
	"github.com/LJTian/AIPulse/internal/logging"
	"github.com/chromedp/chromedp"
	"github.com/gin-gonic/gin"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type scraperConfig struct {
	Port           string        `envconfig:"PORT" default:"4000"`
	DefaultChars   int           `envconfig:"EXTRACT_DEFAULT_CHARS" default:"2000"`
	MaxChars       int           `envconfig:"EXTRACT_MAX_CHARS" default:"8000"`
	RequestTimeout time.Duration `envconfig:"EXTRACT_TIMEOUT" default:"20s"`
}

// scraper 整个进程复用一个 headless 浏览器实例，每个请求开一个新标签页
type scraper struct {
	browserCtx context.Context
	cfg        scraperConfig
}

func main() {
	logging.New(os.Getenv("APP_ENV"))

	var cfg scraperConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal().Err(err).Msg("load config failed")
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// 预热浏览器，避免首个请求耗时过长
	if err := chromedp.Run(browserCtx); err != nil {
		log.Warn().Err(err).Msg("warmup chromedp failed")
	}

	s := &scraper{browserCtx: browserCtx, cfg: cfg}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.POST("/extract", s.handleExtract)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("browser-scraper listening")
	if err := r.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("http server error")
	}
}

func (s *scraper) handleExtract(c *gin.Context) {
	var req extractor.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, extractor.Response{OK: false, Error: "invalid json"})
		return
	}
	if req.URL == "" {
		c.JSON(http.StatusBadRequest, extractor.Response{OK: false, Error: "url is required"})
		return
	}
	if req.MaxChars <= 0 || req.MaxChars > s.cfg.MaxChars {
		req.MaxChars = s.cfg.DefaultChars
	}

	text, err := s.extract(req.URL)
	if err != nil {
		log.Warn().Err(err).Str("url", req.URL).Msg("extract failed")
		c.JSON(http.StatusOK, extractor.Response{OK: false, Error: err.Error()})
		return
	}

	text = trimWhitespace(text)
	if text == "" {
		c.JSON(http.StatusOK, extractor.Response{OK: false, Error: "empty content"})
		return
	}
	c.JSON(http.StatusOK, extractor.Response{OK: true, Text: truncateRunes(text, req.MaxChars)})
}

func (s *scraper) extract(pageURL string) (string, error) {
	tabCtx, cancelTab := chromedp.NewContext(s.browserCtx)
	defer cancelTab()
	ctx, cancel := context.WithTimeout(tabCtx, s.cfg.RequestTimeout)
	defer cancel()

	var text string
	err := chromedp.Run(ctx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(articleScript, &text),
	)
	return text, err
}
