package summarize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/briefwire/briefwire/internal/metrics"
	"github.com/briefwire/briefwire/internal/models"
)

// Options tune one summarizer instance.
type Options struct {
	MaxTokens       int
	MaxSummaryChars int
	CallTimeout     time.Duration
	Retry           RetryPolicy
}

// Summarizer compresses articles into bounded summaries via a text-generation
// service, retrying transient failures with exponential backoff.
type Summarizer struct {
	completer Completer
	logger    *slog.Logger
	collector *metrics.PipelineCollector
	opts      Options
}

// New creates a summarizer over the given completion service.
func New(completer Completer, logger *slog.Logger, collector *metrics.PipelineCollector, opts Options) *Summarizer {
	if opts.MaxSummaryChars <= 0 {
		opts.MaxSummaryChars = 1200
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 60 * time.Second
	}
	if opts.Retry.MaxAttempts < 1 {
		opts.Retry = DefaultRetryPolicy()
	}

	return &Summarizer{
		completer: completer,
		logger:    logger,
		collector: collector,
		opts:      opts,
	}
}

// Summarize produces one summary for the article. Transient service failures
// are retried within the policy bounds; permanent ones fail immediately. The
// returned text never exceeds MaxSummaryChars.
func (s *Summarizer) Summarize(ctx context.Context, article models.Article) (models.Summary, error) {
	prompt := buildPrompt(article.Title, article.SourceURL, article.BodyText, article.PublishedAt, s.opts.MaxSummaryChars)

	var text string
	attempt := 0

	err := Retry(ctx, s.opts.Retry, func() error {
		attempt++
		if attempt > 1 {
			s.collector.SummarizeRetried()
		}

		// The per-call timeout is independent of the backoff ceiling.
		callCtx, cancel := context.WithTimeout(ctx, s.opts.CallTimeout)
		defer cancel()

		start := time.Now()
		out, err := s.completer.Complete(callCtx, CompletionRequest{
			System:    systemInstruction,
			Prompt:    prompt,
			MaxTokens: s.opts.MaxTokens,
		})
		s.collector.SummarizeObserved(time.Since(start), err)
		if err != nil {
			s.logger.Warn("completion call failed",
				"fingerprint", article.Fingerprint,
				"attempt", attempt,
				"duration", time.Since(start),
				"error", err,
			)
			return ClassifyError(err)
		}

		if strings.TrimSpace(out) == "" {
			return Permanent(errors.New("empty completion"))
		}

		text = out
		return nil
	})
	if err != nil {
		return models.Summary{}, fmt.Errorf("summarize %q: %w", article.DisplayName(), err)
	}

	truncated := Truncate(strings.TrimSpace(text), s.opts.MaxSummaryChars)
	if len(truncated) < len(strings.TrimSpace(text)) {
		s.logger.Debug("summary truncated to bound",
			"fingerprint", article.Fingerprint,
			"returned_chars", len(text),
			"bound", s.opts.MaxSummaryChars,
		)
	}

	return models.Summary{
		ArticleFingerprint: article.Fingerprint,
		Text:               truncated,
		ModelUsed:          s.completer.Model(),
		GeneratedAt:        time.Now().UTC(),
	}, nil
}

// Truncate cuts text to at most max bytes, preferring a sentence boundary and
// falling back to a word boundary with an ellipsis.
func Truncate(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}

	cut := text[:max]

	// Prefer ending on a complete sentence when one ends past the halfway
	// point of the budget.
	if idx := lastSentenceEnd(cut); idx > max/2 {
		return strings.TrimSpace(cut[:idx+1])
	}

	const ellipsis = "…"
	budget := max - len(ellipsis)
	if budget < 1 {
		return cut
	}

	cut = cut[:budget]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}

	return strings.TrimRight(cut, " ,;:-") + ellipsis
}

func lastSentenceEnd(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case '.', '!', '?':
			return i
		}
	}
	return -1
}
