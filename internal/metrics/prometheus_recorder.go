package metrics

import (
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	requestDuration    *prom.HistogramVec
	upsertOutcomes     *prom.CounterVec
	droppedChildren    prom.Counter
	formatterFallbacks *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the service metrics on the
// given registry (a fresh one when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		requestDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "notionbridge",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   prom.DefBuckets,
		}, []string{"path", "status"}),
		upsertOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "notionbridge",
			Name:      "upsert_outcomes_total",
			Help:      "Upsert outcomes by result mode",
		}, []string{"mode"}),
		droppedChildren: prom.NewCounter(prom.CounterOpts{
			Namespace: "notionbridge",
			Name:      "dropped_children_total",
			Help:      "Request children dropped as malformed",
		}),
		formatterFallbacks: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "notionbridge",
			Name:      "formatter_fallbacks_total",
			Help:      "Code formatter fallbacks to the light path",
		}, []string{"kind"}),
	}
	reg.MustRegister(pr.requestDuration, pr.upsertOutcomes, pr.droppedChildren, pr.formatterFallbacks)
	return pr
}

func (pr *PrometheusRecorder) ObserveRequestDuration(path string, status int, d time.Duration) {
	pr.requestDuration.WithLabelValues(path, strconv.Itoa(status)).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncUpsertOutcome(mode string) {
	pr.upsertOutcomes.WithLabelValues(mode).Inc()
}

func (pr *PrometheusRecorder) AddDroppedChildren(n int) {
	if n > 0 {
		pr.droppedChildren.Add(float64(n))
	}
}

func (pr *PrometheusRecorder) IncFormatterFallback(kind string) {
	pr.formatterFallbacks.WithLabelValues(kind).Inc()
}

// HTTPHandler returns an http.Handler serving the exposition format for the
// provided registry.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
