package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/LJTian/AIPulse/internal/pipeline"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const DefaultStartupDelay = 15 * time.Second

// Runner 由 pipeline.Runner 实现
type Runner interface {
	Run(ctx context.Context) (*pipeline.Result, error)
}

type Scheduler struct {
	cron         *cron.Cron
	runner       Runner
	startupDelay time.Duration
	ctx          context.Context
	cancel       context.CancelFunc

	// 启动延迟任务，Stop 需要等待它结束
	startup *time.Timer
	wg      sync.WaitGroup
}

// New 按 cron 表达式在指定时区触发流水线，loc 为空时使用本地时区。
// 流水线运行在 parent 派生的 context 中，parent 取消或 Stop 都会中断正在执行的任务。
func New(parent context.Context, spec string, loc *time.Location, runner Runner, startupDelay time.Duration) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	c := cron.New(cron.WithLocation(loc))
	ctx, cancel := context.WithCancel(parent)

	s := &Scheduler{
		cron:         c,
		runner:       runner,
		startupDelay: startupDelay,
		ctx:          ctx,
		cancel:       cancel,
	}

	if _, err := c.AddFunc(spec, s.runOnce); err != nil {
		cancel()
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	// 延迟执行首轮采集，避免与服务启动争抢资源
	if s.startupDelay < 0 {
		return
	}
	s.wg.Add(1)
	s.startup = time.AfterFunc(s.startupDelay, func() {
		defer s.wg.Done()
		s.runOnce()
	})
}

// Stop 停止定时触发并取消正在执行的流水线，等待 cron 任务和首轮采集退出
func (s *Scheduler) Stop() {
	s.cancel()
	if s.startup != nil && s.startup.Stop() {
		// 尚未触发，回调不会再执行
		s.wg.Done()
	}
	<-s.cron.Stop().Done()
	s.wg.Wait()
}

// RunOnce 对外暴露的单次执行入口，方便手动触发采集
func (s *Scheduler) RunOnce() (*pipeline.Result, error) {
	return s.runner.Run(s.ctx)
}

func (s *Scheduler) runOnce() {
	log.Info().Msg("scheduled collect job start")
	res, err := s.runner.Run(s.ctx)
	if err != nil {
		if errors.Is(err, pipeline.ErrAlreadyRunning) {
			log.Info().Msg("scheduled collect job skipped: run already in progress")
			return
		}
		log.Error().Err(err).Msg("scheduled collect job failed")
		return
	}
	log.Info().Str("status", string(res.Status)).Int("count", res.Count).Int("rounds", res.Rounds).Msg("scheduled collect job done")
}
