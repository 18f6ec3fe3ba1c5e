package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveOperation("report", OutcomeOK, 150*time.Millisecond)
	pr.ObserveOperation("category.delete", "validation", 10*time.Millisecond)
	pr.ObserveOperation("category.delete", OutcomeOK, 20*time.Millisecond)
	pr.SetReportIssues(3)
	pr.AddMigratedDocuments(4)
	pr.AddMigratedDocuments(0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, l := range m.GetLabel() {
				key += "," + l.GetValue()
			}
			switch {
			case m.GetCounter() != nil:
				values[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[key] = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				values[key] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	assert.Equal(t, 1.0, values["blogadmin_operations_total,category.delete,validation"])
	assert.Equal(t, 2.0, values["blogadmin_operation_duration_seconds,category.delete"])
	assert.Equal(t, 3.0, values["blogadmin_consistency_issues"])
	assert.Equal(t, 4.0, values["blogadmin_migrated_documents_total"])
}

func TestPrometheusHandler(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.SetReportIssues(2)

	rec := httptest.NewRecorder()
	pr.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(string(body), "blogadmin_consistency_issues 2"))
	assert.True(t, strings.Contains(string(body), "go_goroutines"))
}

func TestNilRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveOperation("report", OutcomeOK, time.Second)
		pr.SetReportIssues(1)
		pr.AddMigratedDocuments(1)
	})
	assert.NotPanics(t, func() {
		NoopRecorder{}.ObserveOperation("report", OutcomeOK, time.Second)
	})
}
