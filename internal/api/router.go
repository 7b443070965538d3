package api

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/LJTian/AIPulse/internal/digest"
	"github.com/LJTian/AIPulse/internal/pipeline"
	"github.com/LJTian/AIPulse/internal/policy"
	"github.com/LJTian/AIPulse/internal/processor"
	"github.com/LJTian/AIPulse/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Runner 触发一次完整流水线
type Runner interface {
	Run(ctx context.Context) (*pipeline.Result, error)
}

type Server struct {
	store      storage.Store
	runner     Runner
	policies   *policy.Service
	digestSize int
	now        func() time.Time
}

func NewServer(store storage.Store, runner Runner, policies *policy.Service, digestSize int) *Server {
	if digestSize <= 0 {
		digestSize = digest.DefaultSize
	}
	return &Server{store: store, runner: runner, policies: policies, digestSize: digestSize, now: time.Now}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)

	g := r.Group("/api")
	{
		g.GET("/news", s.listNews)
		g.POST("/fetch-news", s.fetchNews)
		g.GET("/stats", s.stats)
		g.GET("/categories", s.categories)
		g.GET("/weekly-summary", s.weeklySummary)
		g.POST("/generate-weekly-summary", s.generateWeeklySummary)
		g.GET("/chip-policies", s.listPolicies)
		g.GET("/chip-policies/search", s.searchPolicies)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// loadSnapshot 没有快照时返回空快照
func (s *Server) loadSnapshot(ctx context.Context) (*storage.Snapshot, error) {
	snap, err := s.store.LoadSnapshot(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return &storage.Snapshot{Articles: []processor.Article{}}, nil
	}
	return snap, err
}

// listNews 支持 category 过滤、sort=hot|latest 排序和 limit 截断；都不传时原样返回快照
func (s *Server) listNews(c *gin.Context) {
	snap, err := s.loadSnapshot(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("load snapshot failed")
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	items := snap.Articles
	if cat := processor.Category(c.Query("category")); cat != "" {
		filtered := make([]processor.Article, 0, len(items))
		for _, a := range items {
			if a.Category == cat {
				filtered = append(filtered, a)
			}
		}
		items = filtered
	}

	switch c.Query("sort") {
	case "hot":
		items = sortedCopy(items, func(a, b processor.Article) bool { return a.HotScore > b.HotScore })
	case "latest":
		items = sortedCopy(items, func(a, b processor.Article) bool { return a.PublishTime.After(b.PublishTime) })
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit < len(items) {
			items = items[:limit]
		}
	}
	if items == nil {
		items = []processor.Article{}
	}

	var lastUpdate *time.Time
	if !snap.LastUpdate.IsZero() {
		lastUpdate = &snap.LastUpdate
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       items,
		"total":      len(items),
		"lastUpdate": lastUpdate,
	})
}

func sortedCopy(items []processor.Article, less func(a, b processor.Article) bool) []processor.Article {
	out := make([]processor.Article, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// fetchNews 同步执行一次流水线；客户端断开不会中断运行
func (s *Server) fetchNews(c *gin.Context) {
	res, err := s.runner.Run(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		if errors.Is(err, pipeline.ErrAlreadyRunning) {
			fail(c, http.StatusConflict, "采集任务正在进行中，请稍后再试")
			return
		}
		log.Error().Err(err).Msg("manual pipeline run failed")
		fail(c, http.StatusInternalServerError, "采集失败: "+err.Error())
		return
	}

	msg := "成功获取 " + strconv.Itoa(res.Count) + " 条资讯"
	if res.Partial() {
		msg += "（未达到目标数量）"
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msg,
		"data":    res.Articles,
		"partial": res.Partial(),
		"rounds":  res.Rounds,
	})
}

func countByCategory(items []processor.Article) map[processor.Category]int {
	counts := make(map[processor.Category]int, len(processor.AllCategories()))
	for _, cat := range processor.AllCategories() {
		counts[cat] = 0
	}
	for _, a := range items {
		counts[a.Category]++
	}
	return counts
}

func (s *Server) stats(c *gin.Context) {
	ctx := c.Request.Context()
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		log.Error().Err(err).Msg("load snapshot failed")
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}
	policies, err := s.policies.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("list policies failed")
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	var lastUpdate *time.Time
	if !snap.LastUpdate.IsZero() {
		lastUpdate = &snap.LastUpdate
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"totalNews":     len(snap.Articles),
			"totalPolicies": len(policies),
			"categories":    countByCategory(snap.Articles),
			"lastUpdate":    lastUpdate,
			"isRealData":    snap.IsRealData,
		},
	})
}

type categoryView struct {
	ID    processor.Category `json:"id"`
	Name  string             `json:"name"`
	Count int                `json:"count"`
}

func (s *Server) categories(c *gin.Context) {
	snap, err := s.loadSnapshot(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("load snapshot failed")
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}
	counts := countByCategory(snap.Articles)
	out := make([]categoryView, 0, len(counts))
	for _, cat := range processor.AllCategories() {
		out = append(out, categoryView{ID: cat, Name: cat.Name(), Count: counts[cat]})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": out})
}

func (s *Server) weeklySummary(c *gin.Context) {
	d, err := s.store.LoadDigest(c.Request.Context())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fail(c, http.StatusNotFound, "暂无周报，请先生成")
			return
		}
		log.Error().Err(err).Msg("load digest failed")
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": d})
}

// generateWeeklySummary 基于当前快照重算要闻，不重新抓取
func (s *Server) generateWeeklySummary(c *gin.Context) {
	ctx := c.Request.Context()
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		log.Error().Err(err).Msg("load snapshot failed")
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}
	d, err := digest.Build(snap, s.digestSize, s.now())
	if err != nil {
		if errors.Is(err, digest.ErrEmptySnapshot) {
			fail(c, http.StatusBadRequest, "暂无资讯数据，无法生成周报")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.store.SaveDigest(ctx, d); err != nil {
		log.Error().Err(err).Msg("save digest failed")
		fail(c, http.StatusInternalServerError, "保存周报失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "周报生成成功", "data": d})
}

func (s *Server) listPolicies(c *gin.Context) {
	list, err := s.policies.List(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("list policies failed")
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": list})
}

func (s *Server) searchPolicies(c *gin.Context) {
	list, err := s.policies.Search(c.Request.Context(), c.Query("keyword"))
	if err != nil {
		if errors.Is(err, policy.ErrEmptyKeyword) {
			fail(c, http.StatusBadRequest, "请提供搜索关键词")
			return
		}
		log.Error().Err(err).Msg("search policies failed")
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": list})
}
