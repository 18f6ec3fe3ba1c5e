// Package metrics records service operation metrics. The Prometheus
// recorder backs the /metrics endpoint; NoopRecorder is the default.
package metrics

import (
	"time"

	"github.com/aretw0/blogadmin/pkg/core"
)

// Outcome labels used besides the error kinds of core.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// NoopRecorder is a core.Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveOperation(string, string, time.Duration) {}
func (NoopRecorder) SetReportIssues(int)                            {}
func (NoopRecorder) AddMigratedDocuments(int)                       {}

var _ core.Recorder = NoopRecorder{}
