package web

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/EgorLis/lobbybot/internal/schema"
)

// Metrics — счётчики дашборда и бота. Регистрируются в своём реестре,
// чтобы несколько серверов (и тесты) не конфликтовали.
type Metrics struct {
	HTTPRequests     *prometheus.CounterVec
	HTTPLatency      *prometheus.HistogramVec
	ValidationIssues *prometheus.CounterVec
	CatalogRefreshes *prometheus.CounterVec
	Commands         *prometheus.CounterVec
	Events           *prometheus.CounterVec

	registry *prometheus.Registry
}

func NewMetrics() *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "lobbybot_http_requests_total", Help: "HTTP requests by path, method and status"},
			[]string{"path", "method", "status"},
		),
		HTTPLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "lobbybot_http_request_duration_seconds", Help: "HTTP request latency", Buckets: prometheus.DefBuckets},
			[]string{"path", "method"},
		),
		ValidationIssues: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "lobbybot_validation_issues_total", Help: "Config validation issues by document and kind"},
			[]string{"document", "kind"},
		),
		CatalogRefreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "lobbybot_catalog_refreshes_total", Help: "Catalog refresh attempts"},
			[]string{"kind", "lang", "result"},
		),
		Commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "lobbybot_commands_total", Help: "Executed chat commands"},
			[]string{"command"},
		),
		Events: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "lobbybot_events_total", Help: "Bot events by type"},
			[]string{"type"},
		),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(m.HTTPRequests, m.HTTPLatency, m.ValidationIssues,
		m.CatalogRefreshes, m.Commands, m.Events)
	return m
}

// Registry — для метрик процесса и внешних коллекторов.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveReport считает проблемы отчёта по видам.
func (m *Metrics) ObserveReport(document string, r *schema.Report) {
	if r == nil {
		return
	}
	for _, is := range r.Issues {
		m.ValidationIssues.WithLabelValues(document, is.Kind.String()).Inc()
	}
}

// ObserveRefresh подходит для catalog.Updater.OnRefresh.
func (m *Metrics) ObserveRefresh(kind, lang string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.CatalogRefreshes.WithLabelValues(kind, lang, result).Inc()
}

// handler считает запросы и их длительность.
func (m *Metrics) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		dur := time.Since(start).Seconds()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.HTTPLatency.WithLabelValues(path, c.Request.Method).Observe(dur)
		m.HTTPRequests.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

func (m *Metrics) exposer() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
