package models

import (
	"time"
)

// Stage is the furthest point an article reached in its pipeline.
type Stage string

const (
	StageFetched    Stage = "fetched"
	StageSkipped    Stage = "skipped"
	StageSummarized Stage = "summarized"
	StageFormatted  Stage = "formatted"
	StagePersisted  Stage = "persisted"
	StageFailed     Stage = "failed"
)

// PipelineRun tracks the progress of a single article through the pipeline.
// It is owned and mutated exclusively by the orchestrator.
type PipelineRun struct {
	BatchID            string    `json:"batch_id"`
	ArticleFingerprint string    `json:"article_fingerprint"`
	Title              string    `json:"title"`
	SourceURL          string    `json:"source_url"`
	Stage              Stage     `json:"stage"`
	ErrorDetail        string    `json:"error_detail,omitempty"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Advance moves the run to the given stage.
func (r *PipelineRun) Advance(stage Stage) {
	r.Stage = stage
	r.UpdatedAt = time.Now().UTC()
}

// Fail moves the run to the absorbing failed state with a reason.
func (r *PipelineRun) Fail(detail string) {
	r.Stage = StageFailed
	r.ErrorDetail = detail
	r.UpdatedAt = time.Now().UTC()
}

// BatchReport summarizes one pipeline execution over a set of sources.
// Every input article resolves to exactly one of processed, skipped, failed.
type BatchReport struct {
	BatchID    string        `json:"batch_id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Processed  int           `json:"processed"`
	Skipped    int           `json:"skipped"`
	Failed     int           `json:"failed"`
	Runs       []PipelineRun `json:"runs"`
}

// Total returns the number of articles the batch resolved.
func (r BatchReport) Total() int {
	return r.Processed + r.Skipped + r.Failed
}

// Failures returns the runs that ended in the failed state.
func (r BatchReport) Failures() []PipelineRun {
	var failed []PipelineRun
	for _, run := range r.Runs {
		if run.Stage == StageFailed {
			failed = append(failed, run)
		}
	}
	return failed
}
