package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector 指标收集器
// 所有方法对 nil 接收者安全，测试中可以不注入
type MetricsCollector struct {
	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// 业务指标
	contentPublished *prometheus.CounterVec
	commentsTotal    *prometheus.CounterVec
	reactionsTotal   *prometheus.CounterVec
	generatorCalls   *prometheus.CounterVec
	sseClients       prometheus.Gauge
}

// NewMetricsCollector 创建指标收集器并注册到 reg
func NewMetricsCollector(reg prometheus.Registerer) *MetricsCollector {
	factory := promauto.With(reg)
	return &MetricsCollector{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		contentPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feed_content_published_total",
				Help: "Content items added to the feed",
			},
			[]string{"category"},
		),

		commentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feed_comments_total",
				Help: "Comment submissions by outcome",
			},
			[]string{"outcome"},
		),

		reactionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feed_reactions_total",
				Help: "Reaction changes by kind",
			},
			[]string{"kind"},
		),

		generatorCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feed_generator_calls_total",
				Help: "Text generation calls by result",
			},
			[]string{"operation", "result"},
		),

		sseClients: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "feed_stream_clients",
				Help: "Connected event stream clients",
			},
		),
	}
}

// RecordHTTPRequest 记录 HTTP 请求
func (mc *MetricsCollector) RecordHTTPRequest(method, endpoint, status string, duration time.Duration) {
	if mc == nil {
		return
	}
	mc.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	mc.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordContentPublished 记录新内容
func (mc *MetricsCollector) RecordContentPublished(category string) {
	if mc == nil {
		return
	}
	mc.contentPublished.WithLabelValues(category).Inc()
}

// RecordComment outcome 为 accepted 或拒绝原因
func (mc *MetricsCollector) RecordComment(outcome string) {
	if mc == nil {
		return
	}
	mc.commentsTotal.WithLabelValues(outcome).Inc()
}

// RecordReaction 记录表情切换
func (mc *MetricsCollector) RecordReaction(kind string) {
	if mc == nil {
		return
	}
	mc.reactionsTotal.WithLabelValues(kind).Inc()
}

// RecordGeneratorCall result 为 ok、fallback 或 error
func (mc *MetricsCollector) RecordGeneratorCall(operation, result string) {
	if mc == nil {
		return
	}
	mc.generatorCalls.WithLabelValues(operation, result).Inc()
}

// StreamClientConnected / StreamClientDisconnected 维护 SSE 连接数
func (mc *MetricsCollector) StreamClientConnected() {
	if mc == nil {
		return
	}
	mc.sseClients.Inc()
}

func (mc *MetricsCollector) StreamClientDisconnected() {
	if mc == nil {
		return
	}
	mc.sseClients.Dec()
}

var (
	globalCollector *MetricsCollector
	once            sync.Once
)

// GetGlobalCollector 获取注册在默认 Registerer 上的收集器
func GetGlobalCollector() *MetricsCollector {
	once.Do(func() {
		globalCollector = NewMetricsCollector(prometheus.DefaultRegisterer)
	})
	return globalCollector
}
