package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swimtrack/swimtrack/internal/views"
)

// Metrics holds the view server's Prometheus collectors.
type Metrics struct {
	reg *prometheus.Registry

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Parses          *prometheus.CounterVec
	DraftSaves      *prometheus.CounterVec
	APIErrors       *prometheus.CounterVec
}

// NewMetrics registers the collectors on a fresh registry. openDrafts, when
// set, is exported as a gauge.
func NewMetrics(openDrafts func() int) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	m := &Metrics{
		reg: reg,
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swimtrack",
			Name:      "http_requests_total",
			Help:      "Requests served, by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "swimtrack",
			Name:      "http_request_duration_seconds",
			Help:      "Request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		Parses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swimtrack",
			Name:      "series_render_total",
			Help:      "Training descriptions rendered, as series blocks or as text.",
		}, []string{"as"}),
		DraftSaves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swimtrack",
			Name:      "draft_saves_total",
			Help:      "Draft save attempts by result.",
		}, []string{"result"}),
		APIErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swimtrack",
			Name:      "remote_api_errors_total",
			Help:      "Errors returned by the Remote Data Service, by status (0 = unreachable).",
		}, []string{"status"}),
	}
	if openDrafts != nil {
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "swimtrack",
			Name:      "drafts_open",
			Help:      "Edit sessions currently open.",
		}, func() float64 { return float64(openDrafts()) })
	}
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func (m *Metrics) observeViews(list []views.TrainView) {
	for _, v := range list {
		m.observeRender(v)
	}
}

func (m *Metrics) observeRender(v views.TrainView) {
	as := "text"
	if v.Structured {
		as = "blocks"
	}
	m.Parses.WithLabelValues(as).Inc()
}
