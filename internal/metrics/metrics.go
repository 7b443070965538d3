package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	SourceFetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "aipulse_source_fetch_duration_seconds",
		Help:    "单个数据源抓取耗时",
		Buckets: []float64{.1, .25, .5, 1, 2, 5, 10, 15},
	}, []string{"source", "status"})

	SourceFetchErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aipulse_source_fetch_errors_total",
		Help: "数据源抓取失败次数（超时、非 2xx、解析失败）",
	}, []string{"source"})

	PipelineRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aipulse_pipeline_runs_total",
		Help: "采集流水线执行次数，按结果区分",
	}, []string{"status"})

	PipelineDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "aipulse_pipeline_duration_seconds",
		Help:    "一次完整流水线执行耗时",
		Buckets: []float64{1, 5, 10, 20, 30, 60, 120},
	})

	PipelineRounds = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "aipulse_pipeline_last_rounds",
		Help: "最近一次流水线的抓取轮数",
	})

	SnapshotArticles = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "aipulse_snapshot_articles",
		Help: "当前快照中的文章数",
	})
)

// MustRegister 注册所有指标
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		SourceFetchDuration,
		SourceFetchErrors,
		PipelineRuns,
		PipelineDuration,
		PipelineRounds,
		SnapshotArticles,
	)
}

// ObserveSourceFetch 记录一次数据源抓取的耗时与结果
func ObserveSourceFetch(source string, start time.Time, err error) {
	if source == "" {
		source = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
		SourceFetchErrors.WithLabelValues(source).Inc()
	}
	SourceFetchDuration.WithLabelValues(source, status).Observe(time.Since(start).Seconds())
}

// ObservePipelineRun 记录一次流水线执行
func ObservePipelineRun(status string, rounds int, start time.Time) {
	PipelineRuns.WithLabelValues(status).Inc()
	PipelineRounds.Set(float64(rounds))
	PipelineDuration.Observe(time.Since(start).Seconds())
}
