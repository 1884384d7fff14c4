package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/briefwire/briefwire/internal/format"
	"github.com/briefwire/briefwire/internal/metrics"
	"github.com/briefwire/briefwire/internal/models"
	"github.com/briefwire/briefwire/internal/store"
)

// Reader produces the finite article stream for one batch.
type Reader interface {
	Fetch(ctx context.Context, sources []models.SourceDescriptor) <-chan models.Article
}

// Index is the persisted fingerprint set gating reprocessing.
type Index interface {
	IsNew(ctx context.Context, fingerprint string) (bool, error)
	MarkSeen(ctx context.Context, fingerprint string) error
}

// Summarizer compresses one article into a summary.
type Summarizer interface {
	Summarize(ctx context.Context, article models.Article) (models.Summary, error)
}

// Store is the result persistence contract (see store.Store).
type Store interface {
	WriteSummary(ctx context.Context, summary models.Summary) error
	WriteOutput(ctx context.Context, output models.FormattedOutput) error
	ReadExisting(ctx context.Context, fingerprint string) (*store.Record, error)
}

// Config tunes one pipeline instance.
type Config struct {
	// Workers bounds concurrent article pipelines.
	Workers int

	// MaxConcurrentSummaries bounds in-flight completion service calls,
	// independent of Workers, to respect external rate limits.
	MaxConcurrentSummaries int

	// Platforms to render each summary into.
	Platforms []models.Platform
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:                4,
		MaxConcurrentSummaries: 2,
		Platforms:              models.AllPlatforms(),
	}
}

// Pipeline orchestrates fetch, dedup, summarize, format and persist per
// article, isolating per-article failures so one bad article never halts the
// batch.
type Pipeline struct {
	reader     Reader
	index      Index
	summarizer Summarizer
	store      Store
	logger     *slog.Logger
	collector  *metrics.PipelineCollector
	cfg        Config
}

// New creates a pipeline from its collaborators.
func New(reader Reader, index Index, summarizer Summarizer, st Store, logger *slog.Logger, collector *metrics.PipelineCollector, cfg Config) *Pipeline {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.MaxConcurrentSummaries < 1 {
		cfg.MaxConcurrentSummaries = 1
	}
	if len(cfg.Platforms) == 0 {
		cfg.Platforms = models.AllPlatforms()
	}

	return &Pipeline{
		reader:     reader,
		index:      index,
		summarizer: summarizer,
		store:      st,
		logger:     logger,
		collector:  collector,
		cfg:        cfg,
	}
}

// Run executes one batch over the given sources and reports how every article
// resolved. Cancellation is cooperative: workers stop picking up articles
// once ctx is done, and abandoned articles are recorded as failed without
// being marked seen.
func (p *Pipeline) Run(ctx context.Context, sources []models.SourceDescriptor) (models.BatchReport, error) {
	batchID := uuid.NewString()
	acc := newReportAccumulator(batchID)

	p.logger.Info("starting batch",
		"batch_id", batchID,
		"sources", len(sources),
		"workers", p.cfg.Workers,
		"max_concurrent_summaries", p.cfg.MaxConcurrentSummaries,
	)

	articles := p.reader.Fetch(ctx, sources)

	var wg sync.WaitGroup
	workers := make(chan struct{}, p.cfg.Workers)
	summarySlots := make(chan struct{}, p.cfg.MaxConcurrentSummaries)

	for article := range articles {
		if ctx.Err() != nil {
			run := p.newRun(batchID, article)
			run.Fail(fmt.Sprintf("batch cancelled: %v", ctx.Err()))
			acc.record(run, outcomeFailed)
			continue
		}

		wg.Add(1)
		workers <- struct{}{}

		go func(a models.Article) {
			defer wg.Done()
			defer func() { <-workers }()
			p.processArticle(ctx, batchID, a, summarySlots, acc)
		}(article)
	}

	wg.Wait()

	report := acc.finish()
	p.logger.Info("batch finished",
		"batch_id", batchID,
		"processed", report.Processed,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"duration", report.FinishedAt.Sub(report.StartedAt),
	)

	return report, nil
}

func (p *Pipeline) newRun(batchID string, article models.Article) models.PipelineRun {
	run := models.PipelineRun{
		BatchID:            batchID,
		ArticleFingerprint: article.Fingerprint,
		Title:              article.Title,
		SourceURL:          article.SourceURL,
	}
	run.Advance(models.StageFetched)
	return run
}

// processArticle drives one article through the state machine inside its own
// failure boundary: panics and errors resolve this article only.
func (p *Pipeline) processArticle(ctx context.Context, batchID string, article models.Article, summarySlots chan struct{}, acc *reportAccumulator) {
	run := p.newRun(batchID, article)

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("article pipeline panicked",
				"fingerprint", article.Fingerprint,
				"panic", r,
			)
			run.Fail(fmt.Sprintf("panic: %v", r))
			p.resolve(run, outcomeFailed, acc)
		}
	}()

	// Dedup gate: already-seen fingerprints skip with no further work.
	fresh, err := p.index.IsNew(ctx, article.Fingerprint)
	if err != nil {
		run.Fail(fmt.Sprintf("fingerprint lookup: %v", err))
		p.resolve(run, outcomeFailed, acc)
		return
	}
	if !fresh {
		p.logger.Debug("article already processed, skipping",
			"fingerprint", article.Fingerprint,
			"title", article.Title,
		)
		run.Advance(models.StageSkipped)
		p.resolve(run, outcomeSkipped, acc)
		return
	}

	// Resume: a prior run may have persisted everything and crashed before
	// marking the fingerprint. Finish the bookkeeping instead of paying
	// for a duplicate summary (last writer already won).
	if existing, err := p.store.ReadExisting(ctx, article.Fingerprint); err == nil && existing.Complete() {
		p.logger.Info("resuming persisted article, marking seen",
			"fingerprint", article.Fingerprint,
		)
		run.Advance(models.StagePersisted)
		if err := p.index.MarkSeen(ctx, article.Fingerprint); err != nil {
			p.logger.Warn("mark seen failed after resume", "fingerprint", article.Fingerprint, "error", err)
		}
		p.resolve(run, outcomeProcessed, acc)
		return
	}

	// Summarize under the concurrency bound.
	select {
	case summarySlots <- struct{}{}:
	case <-ctx.Done():
		run.Fail(fmt.Sprintf("batch cancelled: %v", ctx.Err()))
		p.resolve(run, outcomeFailed, acc)
		return
	}
	summary, err := p.summarizer.Summarize(ctx, article)
	<-summarySlots

	if err != nil {
		run.Fail(err.Error())
		p.resolve(run, outcomeFailed, acc)
		return
	}
	run.Advance(models.StageSummarized)

	// Transform for every platform; one failed platform never blocks its
	// siblings. The article needs at least one ready output to proceed.
	outputs := format.TransformAll(summary, p.cfg.Platforms)
	ready := 0
	for _, out := range outputs {
		p.collector.TransformObserved(string(out.Platform), string(out.Status))
		if out.Ready() {
			ready++
		} else {
			p.logger.Warn("platform transform failed",
				"fingerprint", article.Fingerprint,
				"platform", out.Platform,
				"reason", out.Reason,
			)
		}
	}
	if ready == 0 {
		run.Fail("all platform transforms failed")
		p.resolve(run, outcomeFailed, acc)
		return
	}
	run.Advance(models.StageFormatted)

	// Persist. Any write failure is fatal to this article: the
	// fingerprint stays unmarked so the next run retries it.
	if err := p.store.WriteSummary(ctx, summary); err != nil {
		run.Fail(fmt.Sprintf("persist summary: %v", err))
		p.resolve(run, outcomeFailed, acc)
		return
	}
	for _, out := range outputs {
		if err := p.store.WriteOutput(ctx, out); err != nil {
			run.Fail(fmt.Sprintf("persist output for %s: %v", out.Platform, err))
			p.resolve(run, outcomeFailed, acc)
			return
		}
	}
	run.Advance(models.StagePersisted)

	// Only now is the fingerprint marked: a crash anywhere above leaves it
	// absent, giving at-least-once semantics. A failed mark is logged but
	// the article still counts as processed; the worst case is wasted
	// duplicate work next run, never corruption.
	if err := p.index.MarkSeen(ctx, article.Fingerprint); err != nil {
		p.logger.Warn("mark seen failed, article will be reprocessed next run",
			"fingerprint", article.Fingerprint,
			"error", err,
		)
	}

	p.logger.Info("article processed",
		"fingerprint", article.Fingerprint,
		"title", article.Title,
		"ready_platforms", ready,
		"model", summary.ModelUsed,
	)
	p.resolve(run, outcomeProcessed, acc)
}

func (p *Pipeline) resolve(run models.PipelineRun, result outcome, acc *reportAccumulator) {
	p.collector.ArticleResolved(string(result))
	acc.record(run, result)
}
