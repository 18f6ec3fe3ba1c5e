package metrics

import (
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/blogadmin/pkg/core"
)

const namespace = "blogadmin"

// PrometheusRecorder implements core.Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once        sync.Once
	reg         *prom.Registry
	opDuration  *prom.HistogramVec
	opResults   *prom.CounterVec
	issues      prom.Gauge
	migratedDoc prom.Counter
}

// NewPrometheusRecorder constructs and registers the metrics on reg. A nil
// reg gets a fresh registry with the Go and process collectors.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
		reg.MustRegister(promcollect.NewGoCollector(), promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}))
	}
	pr := &PrometheusRecorder{reg: reg}
	pr.once.Do(func() {
		pr.opDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of service operations",
			Buckets:   prom.DefBuckets,
		}, []string{"operation"})
		pr.opResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Service operations by outcome",
		}, []string{"operation", "outcome"})
		pr.issues = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "consistency_issues",
			Help:      "Issues found by the most recent consistency report",
		})
		pr.migratedDoc = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "migrated_documents_total",
			Help:      "Documents rewritten by category deletions",
		})
		reg.MustRegister(pr.opDuration, pr.opResults, pr.issues, pr.migratedDoc)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveOperation(op, outcome string, d time.Duration) {
	if p == nil || p.opDuration == nil {
		return
	}
	p.opDuration.WithLabelValues(op).Observe(d.Seconds())
	p.opResults.WithLabelValues(op, outcome).Inc()
}

func (p *PrometheusRecorder) SetReportIssues(n int) {
	if p == nil || p.issues == nil {
		return
	}
	p.issues.Set(float64(n))
}

func (p *PrometheusRecorder) AddMigratedDocuments(n int) {
	if p == nil || p.migratedDoc == nil || n <= 0 {
		return
	}
	p.migratedDoc.Add(float64(n))
}

// Registry returns the registry the metrics live in.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return HTTPHandler(p.reg)
}

// HTTPHandler returns an http.Handler that serves Prometheus metrics for the provided registry.
func HTTPHandler(reg *prom.Registry) http.Handler {
	if reg == nil {
		reg = prom.DefaultRegisterer.(*prom.Registry)
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

var _ core.Recorder = (*PrometheusRecorder)(nil)
