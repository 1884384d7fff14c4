package dedupe

import (
	"context"
	"sync"
	"time"
)

// Index is the persisted set of fingerprints that completed the pipeline.
// The orchestrator calls MarkSeen only after an article's outputs are fully
// persisted; a crash mid-pipeline leaves the fingerprint absent so the
// article is retried on the next run.
type Index interface {
	// IsNew reports whether the fingerprint has not been marked seen.
	IsNew(ctx context.Context, fingerprint string) (bool, error)

	// MarkSeen records a fingerprint. Marking the same fingerprint twice
	// is harmless.
	MarkSeen(ctx context.Context, fingerprint string) error
}

// MemoryIndex implements an in-process fingerprint index for tests and
// single-shot runs.
type MemoryIndex struct {
	mu   sync.RWMutex
	seen map[string]time.Time
}

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		seen: make(map[string]time.Time),
	}
}

// IsNew reports whether the fingerprint is absent from the index.
func (i *MemoryIndex) IsNew(ctx context.Context, fingerprint string) (bool, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	_, exists := i.seen[fingerprint]
	return !exists, nil
}

// MarkSeen records the fingerprint with the current time.
func (i *MemoryIndex) MarkSeen(ctx context.Context, fingerprint string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.seen[fingerprint] = time.Now()
	return nil
}

// Size returns the number of fingerprints in the index.
func (i *MemoryIndex) Size() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.seen)
}
