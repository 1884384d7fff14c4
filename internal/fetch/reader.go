package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/briefwire/briefwire/internal/dedupe"
	"github.com/briefwire/briefwire/internal/metrics"
	"github.com/briefwire/briefwire/internal/models"
)

const (
	// minFeedBodyChars is the threshold below which a feed description is
	// considered too thin and the full page is fetched instead.
	minFeedBodyChars = 200

	userAgent = "Mozilla/5.0 (compatible; briefwire/1.0; +https://github.com/briefwire/briefwire)"
)

// FetchError reports a failure to fetch or parse one source. It is non-fatal
// to the batch: the source is skipped with a logged reason.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Reader fetches and normalizes raw articles from syndication feeds and web
// pages into uniform article records.
type Reader struct {
	logger    *slog.Logger
	collector *metrics.PipelineCollector
	client    *http.Client
	parser    *gofeed.Parser
}

// NewReader creates a source reader with the given per-request timeout.
func NewReader(logger *slog.Logger, collector *metrics.PipelineCollector, timeout time.Duration) *Reader {
	client := &http.Client{Timeout: timeout}

	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = userAgent

	return &Reader{
		logger:    logger,
		collector: collector,
		client:    client,
		parser:    parser,
	}
}

// Fetch produces a finite, non-restartable stream of normalized articles.
// Every emitted article has a non-empty body and a computed fingerprint;
// items that fail this bar are dropped here, and per-source failures are
// logged and skipped without aborting the batch.
func (r *Reader) Fetch(ctx context.Context, sources []models.SourceDescriptor) <-chan models.Article {
	out := make(chan models.Article)

	go func() {
		defer close(out)

		for _, src := range sources {
			if ctx.Err() != nil {
				return
			}

			if err := r.fetchSource(ctx, src, out); err != nil {
				r.logger.Error("source skipped",
					"source", src.Name,
					"url", src.URL,
					"error", err,
				)
				r.collector.FetchSourceError(src.Name)
			}
		}
	}()

	return out
}

func (r *Reader) fetchSource(ctx context.Context, src models.SourceDescriptor, out chan<- models.Article) error {
	start := time.Now()

	var (
		articles []models.Article
		err      error
	)

	switch src.Type {
	case models.SourceTypeRSS:
		articles, err = r.fetchFeed(ctx, src)
	case models.SourceTypeWebpage:
		articles, err = r.fetchWebpage(ctx, src)
	default:
		err = fmt.Errorf("unsupported source type: %q", src.Type)
	}

	if err != nil {
		return &FetchError{Source: src.Name, Err: err}
	}

	emitted := 0
	for _, article := range articles {
		if !matchesKeywords(article, src.Keywords) {
			r.logger.Debug("article filtered by keywords",
				"source", src.Name,
				"title", article.Title,
			)
			continue
		}

		if window := src.MaxAge(); window > 0 && !article.IsRecent(window) {
			r.logger.Debug("article older than source freshness window",
				"source", src.Name,
				"title", article.Title,
				"published_at", article.PublishedAt,
			)
			continue
		}

		select {
		case out <- article:
			emitted++
		case <-ctx.Done():
			return nil
		}
	}

	r.logger.Info("source fetched",
		"source", src.Name,
		"articles", emitted,
		"duration", time.Since(start),
	)

	return nil
}

// normalize builds the uniform article record, returning false when the item
// does not meet the minimum bar (empty body or no usable URL).
func (r *Reader) normalize(src models.SourceDescriptor, title, link, body string, published time.Time) (models.Article, bool) {
	body = strings.TrimSpace(body)
	link = strings.TrimSpace(link)

	if body == "" || link == "" {
		r.logger.Debug("dropping article below minimum bar",
			"source", src.Name,
			"title", title,
			"body_chars", len(body),
		)
		return models.Article{}, false
	}

	if published.IsZero() {
		published = time.Now().UTC()
	}

	return models.Article{
		SourceURL:   link,
		Title:       strings.TrimSpace(title),
		BodyText:    body,
		PublishedAt: published,
		RetrievedAt: time.Now().UTC(),
		Fingerprint: dedupe.Fingerprint(title, link),
	}, true
}

// matchesKeywords reports whether the article passes the per-source keyword
// filter. An empty filter passes everything.
func matchesKeywords(article models.Article, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}

	haystack := strings.ToLower(article.Title + " " + article.BodyText)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
