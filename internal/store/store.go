package store

import (
	"context"
	"sync"

	"github.com/briefwire/briefwire/internal/models"
)

// Record bundles everything persisted for one article fingerprint.
type Record struct {
	Summary models.Summary
	Outputs []models.FormattedOutput
}

// Complete reports whether the record carries a summary and at least one
// ready output, i.e. a prior run finished the article's pipeline.
func (r *Record) Complete() bool {
	if r == nil || r.Summary.ArticleFingerprint == "" {
		return false
	}
	for _, out := range r.Outputs {
		if out.Ready() {
			return true
		}
	}
	return false
}

// Store is the narrow read/write contract the pipeline holds on the result
// backend. The backend itself (database, file, spreadsheet) is irrelevant to
// pipeline logic.
type Store interface {
	// WriteSummary persists one summary, replacing any prior summary for
	// the same fingerprint (last writer wins).
	WriteSummary(ctx context.Context, summary models.Summary) error

	// WriteOutput persists one formatted output, replacing any prior
	// output for the same (fingerprint, platform) pair.
	WriteOutput(ctx context.Context, output models.FormattedOutput) error

	// ReadExisting returns what a prior run persisted for the
	// fingerprint, or nil when nothing exists. Used to resume
	// partially-completed batches.
	ReadExisting(ctx context.Context, fingerprint string) (*Record, error)
}

// Memory implements an in-memory result store for tests and dry runs.
type Memory struct {
	mu        sync.RWMutex
	summaries map[string]models.Summary
	outputs   map[string]map[models.Platform]models.FormattedOutput
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		summaries: make(map[string]models.Summary),
		outputs:   make(map[string]map[models.Platform]models.FormattedOutput),
	}
}

// WriteSummary stores the summary.
func (m *Memory) WriteSummary(ctx context.Context, summary models.Summary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries[summary.ArticleFingerprint] = summary
	return nil
}

// WriteOutput stores the output keyed by (fingerprint, platform).
func (m *Memory) WriteOutput(ctx context.Context, output models.FormattedOutput) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	byPlatform, ok := m.outputs[output.SummaryFingerprint]
	if !ok {
		byPlatform = make(map[models.Platform]models.FormattedOutput)
		m.outputs[output.SummaryFingerprint] = byPlatform
	}
	byPlatform[output.Platform] = output
	return nil
}

// ReadExisting returns the record for the fingerprint, or nil when absent.
func (m *Memory) ReadExisting(ctx context.Context, fingerprint string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summary, ok := m.summaries[fingerprint]
	if !ok {
		return nil, nil
	}

	record := &Record{Summary: summary}
	for _, platform := range models.AllPlatforms() {
		if out, ok := m.outputs[fingerprint][platform]; ok {
			record.Outputs = append(record.Outputs, out)
		}
	}

	return record, nil
}

// SummaryCount returns the number of stored summaries.
func (m *Memory) SummaryCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.summaries)
}

// OutputCount returns the number of stored outputs across all fingerprints.
func (m *Memory) OutputCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, byPlatform := range m.outputs {
		count += len(byPlatform)
	}
	return count
}
