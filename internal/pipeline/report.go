package pipeline

import (
	"sync"
	"time"

	"github.com/briefwire/briefwire/internal/models"
)

// outcome is the terminal bucket an article resolves into.
type outcome string

const (
	outcomeProcessed outcome = "processed"
	outcomeSkipped   outcome = "skipped"
	outcomeFailed    outcome = "failed"
)

// reportAccumulator collects per-article run records from concurrent workers
// into one BatchReport.
type reportAccumulator struct {
	mu     sync.Mutex
	report models.BatchReport
}

func newReportAccumulator(batchID string) *reportAccumulator {
	return &reportAccumulator{
		report: models.BatchReport{
			BatchID:   batchID,
			StartedAt: time.Now().UTC(),
		},
	}
}

// record resolves one article into the report. Every article entering the
// pipeline ends up here exactly once.
func (a *reportAccumulator) record(run models.PipelineRun, result outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch result {
	case outcomeProcessed:
		a.report.Processed++
	case outcomeSkipped:
		a.report.Skipped++
	case outcomeFailed:
		a.report.Failed++
	}

	a.report.Runs = append(a.report.Runs, run)
}

// finish stamps the report and returns it.
func (a *reportAccumulator) finish() models.BatchReport {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.report.FinishedAt = time.Now().UTC()
	return a.report
}
