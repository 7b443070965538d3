package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/LJTian/AIPulse/internal/collector"
	"github.com/LJTian/AIPulse/internal/digest"
	"github.com/LJTian/AIPulse/internal/metrics"
	"github.com/LJTian/AIPulse/internal/notify"
	"github.com/LJTian/AIPulse/internal/processor"
	"github.com/LJTian/AIPulse/internal/storage"
	"github.com/rs/zerolog/log"
)

var (
	ErrAlreadyRunning = errors.New("pipeline: run already in progress")
	// ErrNoArticles 所有轮次都没有拿到任何文章，保留旧快照
	ErrNoArticles = errors.New("pipeline: no articles collected")
)

type State string

const (
	StateIdle        State = "IDLE"
	StateFetching    State = "FETCHING"
	StateEnriching   State = "ENRICHING"
	StateClassifying State = "CLASSIFYING"
	StateScoring     State = "SCORING"
	StatePersisting  State = "PERSISTING"
	StateDigesting   State = "DIGESTING"
	StateDone        State = "DONE"
	StateDonePartial State = "DONE_PARTIAL"
	StateFailed      State = "FAILED"
)

// Collector 并发抓取一轮全部数据源
type Collector interface {
	Collect(ctx context.Context, sources []collector.Source) []collector.RawItem
}

// Enricher 可选的正文抽取步骤
type Enricher interface {
	Enrich(ctx context.Context, items []processor.Article)
}

type Options struct {
	MinArticles int
	MaxRounds   int
	Backoff     time.Duration
	DigestSize  int
}

func DefaultOptions() Options {
	return Options{MinArticles: 50, MaxRounds: 3, Backoff: 5 * time.Second, DigestSize: digest.DefaultSize}
}

type Result struct {
	Status   State               `json:"status"`
	Count    int                 `json:"count"`
	Rounds   int                 `json:"rounds"`
	Articles []processor.Article `json:"-"`
	Digest   *storage.Digest     `json:"-"`
}

func (r *Result) Partial() bool { return r.Status == StateDonePartial }

// Runner 驱动一次完整的采集流水线。同一时刻只允许一个运行实例，
// 并发触发直接返回 ErrAlreadyRunning，不排队。
type Runner struct {
	Collector  Collector
	Sources    []collector.Source
	Store      storage.Store
	Enricher   Enricher
	Publisher  notify.Publisher
	Normalizer *processor.Normalizer
	Classifier *processor.Classifier
	Scorer     *processor.Scorer
	Opts       Options

	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error

	run   sync.Mutex
	mu    sync.RWMutex
	state State
}

func NewRunner(c Collector, sources []collector.Source, store storage.Store, opts Options) *Runner {
	def := DefaultOptions()
	if opts.MinArticles <= 0 {
		opts.MinArticles = def.MinArticles
	}
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = def.MaxRounds
	}
	if opts.Backoff < 0 {
		opts.Backoff = def.Backoff
	}
	if opts.DigestSize <= 0 {
		opts.DigestSize = def.DigestSize
	}
	return &Runner{
		Collector:  c,
		Sources:    sources,
		Store:      store,
		Publisher:  notify.Nop{},
		Normalizer: processor.NewNormalizer(nil),
		Classifier: processor.NewClassifier(),
		Scorer:     processor.NewScorer(),
		Opts:       opts,
		Now:        time.Now,
		Sleep:      sleepContext,
		state:      StateIdle,
	}
}

func (r *Runner) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

func (r *Runner) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
	log.Debug().Str("state", string(s)).Msg("pipeline state")
}

// Run 执行一次完整流水线：抓取（含重试）→ 分类 → 打分 → 持久化 → 生成要闻
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if !r.run.TryLock() {
		return nil, ErrAlreadyRunning
	}
	defer r.run.Unlock()

	start := time.Now()
	log.Info().Int("sources", len(r.Sources)).Msg("pipeline run started")

	res, err := r.execute(ctx)
	if err != nil {
		r.setState(StateFailed)
		rounds := 0
		if res != nil {
			rounds = res.Rounds
		}
		metrics.ObservePipelineRun(string(StateFailed), rounds, start)
		log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("pipeline run failed")
		return nil, err
	}

	r.setState(res.Status)
	metrics.ObservePipelineRun(string(res.Status), res.Rounds, start)
	metrics.SnapshotArticles.Set(float64(res.Count))
	log.Info().
		Str("status", string(res.Status)).
		Int("count", res.Count).
		Int("rounds", res.Rounds).
		Dur("elapsed", time.Since(start)).
		Msg("pipeline run done")

	r.publish(ctx, res)
	return res, nil
}

func (r *Runner) execute(ctx context.Context) (*Result, error) {
	res := &Result{}

	articles, rounds, err := r.fetchRounds(ctx)
	res.Rounds = rounds
	if err != nil {
		return res, err
	}
	if len(articles) == 0 {
		return res, ErrNoArticles
	}
	processor.AssignIDs(articles)

	if r.Enricher != nil {
		r.setState(StateEnriching)
		r.Enricher.Enrich(ctx, articles)
	}

	r.setState(StateClassifying)
	r.Classifier.ClassifyAll(articles)

	r.setState(StateScoring)
	r.Scorer.ScoreAll(articles)

	r.setState(StatePersisting)
	now := r.Now()
	snap := &storage.Snapshot{
		LastUpdate: now,
		TotalCount: len(articles),
		IsRealData: true,
		Articles:   articles,
	}
	if err := r.Store.SaveSnapshot(ctx, snap); err != nil {
		return res, fmt.Errorf("save snapshot: %w", err)
	}

	r.setState(StateDigesting)
	d, err := digest.Build(snap, r.Opts.DigestSize, now)
	if err != nil {
		return res, fmt.Errorf("build digest: %w", err)
	}
	if err := r.Store.SaveDigest(ctx, d); err != nil {
		return res, fmt.Errorf("save digest: %w", err)
	}

	res.Count = len(articles)
	res.Articles = articles
	res.Digest = d
	res.Status = StateDone
	if res.Count < r.Opts.MinArticles {
		res.Status = StateDonePartial
	}
	return res, nil
}

// fetchRounds 重复抓取直到去重后数量达到下限或轮数用尽；每轮只追加新出现的文章
func (r *Runner) fetchRounds(ctx context.Context) ([]processor.Article, int, error) {
	dedup := processor.NewDeduplicator()
	var merged []processor.Article

	round := 0
	for round < r.Opts.MaxRounds {
		round++
		r.setState(StateFetching)

		raw := r.Collector.Collect(ctx, r.Sources)
		fresh := dedup.Add(r.Normalizer.NormalizeAll(raw))
		merged = append(merged, fresh...)
		log.Info().
			Int("round", round).
			Int("raw", len(raw)).
			Int("new", len(fresh)).
			Int("total", dedup.Len()).
			Msg("fetch round done")

		if dedup.Len() >= r.Opts.MinArticles || round == r.Opts.MaxRounds {
			break
		}
		if err := r.Sleep(ctx, r.Opts.Backoff); err != nil {
			return merged, round, err
		}
	}
	return merged, round, nil
}

func (r *Runner) publish(ctx context.Context, res *Result) {
	if r.Publisher == nil {
		return
	}
	period := ""
	if res.Digest != nil {
		period = res.Digest.Period
	}
	ev := notify.NewSnapshotEvent(res.Count, res.Rounds, res.Partial(), period, r.Now())
	if err := r.Publisher.Publish(ctx, ev); err != nil {
		log.Warn().Err(err).Msg("publish snapshot event failed")
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
