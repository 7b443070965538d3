package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LJTian/AIPulse/internal/pipeline"
	"github.com/LJTian/AIPulse/internal/policy"
	"github.com/LJTian/AIPulse/internal/processor"
	"github.com/LJTian/AIPulse/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

type fakeRunner struct {
	res *pipeline.Result
	err error
}

func (f *fakeRunner) Run(context.Context) (*pipeline.Result, error) {
	return f.res, f.err
}

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Total      int             `json:"total"`
	Partial    bool            `json:"partial"`
	LastUpdate *time.Time      `json:"lastUpdate"`
}

var testNow = time.Date(2026, 10, 14, 1, 0, 0, 0, time.UTC)

func testArticles() []processor.Article {
	return []processor.Article{
		{ID: "1", Title: "华为推出新款AI芯片", Category: processor.CategorySmartChip, HotScore: 30, PublishTime: testNow.Add(-3 * time.Hour)},
		{ID: "2", Title: "OpenAI Launches GPT-5", Category: processor.CategoryAIApplication, HotScore: 45, PublishTime: testNow.Add(-5 * time.Hour)},
		{ID: "3", Title: "Figure 人形机器人量产", Category: processor.CategoryEmbodiedAI, HotScore: 12, PublishTime: testNow.Add(-1 * time.Hour)},
	}
}

func newTestServer(t *testing.T, runner Runner, withSnapshot bool) (*gin.Engine, *storage.FileStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	fs, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	svc := policy.NewService(fs)
	if err := svc.EnsureSeeded(context.Background()); err != nil {
		t.Fatalf("EnsureSeeded error: %v", err)
	}
	if withSnapshot {
		arts := testArticles()
		snap := &storage.Snapshot{LastUpdate: testNow, TotalCount: len(arts), IsRealData: true, Articles: arts}
		if err := fs.SaveSnapshot(context.Background(), snap); err != nil {
			t.Fatalf("SaveSnapshot error: %v", err)
		}
	}

	srv := NewServer(fs, runner, svc, 2)
	srv.now = func() time.Time { return testNow }
	r := gin.New()
	srv.RegisterRoutes(r)
	return r, fs
}

func do(r *gin.Engine, method, path string) (*httptest.ResponseRecorder, envelope) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestHealth(t *testing.T) {
	r, _ := newTestServer(t, &fakeRunner{}, false)
	w, _ := do(r, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListNewsEmpty(t *testing.T) {
	r, _ := newTestServer(t, &fakeRunner{}, false)
	w, env := do(r, http.MethodGet, "/api/news")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, env.Success)
	assert.Equal(t, 0, env.Total)
	assert.Equal(t, "[]", string(env.Data))
	assert.Equal(t, true, env.LastUpdate == nil)
}

func TestListNewsFilterSortLimit(t *testing.T) {
	r, _ := newTestServer(t, &fakeRunner{}, true)

	_, env := do(r, http.MethodGet, "/api/news")
	assert.Equal(t, 3, env.Total)
	assert.Equal(t, true, env.LastUpdate.Equal(testNow))

	_, env = do(r, http.MethodGet, "/api/news?sort=hot&limit=2")
	var items []processor.Article
	_ = json.Unmarshal(env.Data, &items)
	assert.Equal(t, 2, len(items))
	assert.Equal(t, "2", items[0].ID)
	assert.Equal(t, "1", items[1].ID)

	_, env = do(r, http.MethodGet, "/api/news?sort=latest")
	_ = json.Unmarshal(env.Data, &items)
	assert.Equal(t, "3", items[0].ID)

	_, env = do(r, http.MethodGet, "/api/news?category=smart-chip")
	_ = json.Unmarshal(env.Data, &items)
	assert.Equal(t, 1, len(items))
	assert.Equal(t, processor.CategorySmartChip, items[0].Category)
}

func TestFetchNews(t *testing.T) {
	res := &pipeline.Result{Status: pipeline.StateDonePartial, Count: 3, Rounds: 3, Articles: testArticles()}
	r, _ := newTestServer(t, &fakeRunner{res: res}, false)

	w, env := do(r, http.MethodPost, "/api/fetch-news")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, env.Success)
	assert.Equal(t, true, env.Partial)
	var items []processor.Article
	_ = json.Unmarshal(env.Data, &items)
	assert.Equal(t, 3, len(items))
}

func TestFetchNewsAlreadyRunning(t *testing.T) {
	r, _ := newTestServer(t, &fakeRunner{err: pipeline.ErrAlreadyRunning}, false)
	w, env := do(r, http.MethodPost, "/api/fetch-news")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, false, env.Success)
}

func TestFetchNewsFailure(t *testing.T) {
	r, _ := newTestServer(t, &fakeRunner{err: errors.New("save snapshot: disk full")}, false)
	w, env := do(r, http.MethodPost, "/api/fetch-news")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, env.Success)
	assert.NotEqual(t, "", env.Message)
}

func TestStats(t *testing.T) {
	r, _ := newTestServer(t, &fakeRunner{}, true)
	w, env := do(r, http.MethodGet, "/api/stats")
	assert.Equal(t, http.StatusOK, w.Code)

	var data struct {
		TotalNews     int                        `json:"totalNews"`
		TotalPolicies int                        `json:"totalPolicies"`
		Categories    map[processor.Category]int `json:"categories"`
		IsRealData    bool                       `json:"isRealData"`
	}
	_ = json.Unmarshal(env.Data, &data)
	assert.Equal(t, 3, data.TotalNews)
	assert.Equal(t, len(policy.Seed()), data.TotalPolicies)
	assert.Equal(t, 7, len(data.Categories))
	assert.Equal(t, 1, data.Categories[processor.CategorySmartChip])
	assert.Equal(t, 0, data.Categories[processor.CategoryResearchReport])
	assert.Equal(t, true, data.IsRealData)
}

func TestCategories(t *testing.T) {
	r, _ := newTestServer(t, &fakeRunner{}, true)
	_, env := do(r, http.MethodGet, "/api/categories")
	var cats []categoryView
	_ = json.Unmarshal(env.Data, &cats)
	assert.Equal(t, 7, len(cats))
	assert.Equal(t, processor.CategoryAIApplication, cats[0].ID)
	assert.Equal(t, "AI应用", cats[0].Name)
	assert.Equal(t, 1, cats[0].Count)
}

func TestWeeklySummaryLifecycle(t *testing.T) {
	r, fs := newTestServer(t, &fakeRunner{}, true)

	w, _ := do(r, http.MethodGet, "/api/weekly-summary")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env := do(r, http.MethodPost, "/api/generate-weekly-summary")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, env.Success)

	var d storage.Digest
	_ = json.Unmarshal(env.Data, &d)
	assert.Equal(t, 2, len(d.TopArticles))
	assert.Equal(t, "2", d.TopArticles[0].ID)
	assert.Equal(t, "2026-W42", d.Period)

	saved, err := fs.LoadDigest(context.Background())
	assert.Equal(t, nil, err)
	assert.Equal(t, d.Period, saved.Period)

	w, _ = do(r, http.MethodGet, "/api/weekly-summary")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGenerateWeeklySummaryWithoutData(t *testing.T) {
	r, _ := newTestServer(t, &fakeRunner{}, false)
	w, env := do(r, http.MethodPost, "/api/generate-weekly-summary")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, env.Success)
}

func TestChipPolicies(t *testing.T) {
	r, _ := newTestServer(t, &fakeRunner{}, false)

	_, env := do(r, http.MethodGet, "/api/chip-policies")
	var list []storage.ChipPolicy
	_ = json.Unmarshal(env.Data, &list)
	assert.Equal(t, len(policy.Seed()), len(list))

	w, env := do(r, http.MethodGet, "/api/chip-policies/search?keyword=HBM")
	assert.Equal(t, http.StatusOK, w.Code)
	_ = json.Unmarshal(env.Data, &list)
	assert.Equal(t, 1, len(list))

	w, _ = do(r, http.MethodGet, "/api/chip-policies/search?keyword=")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
