package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/briefwire/briefwire/internal/models"
)

// fetchFeed parses one RSS/Atom feed and normalizes its items. Items whose
// feed description is too thin get their body from the full page instead.
func (r *Reader) fetchFeed(ctx context.Context, src models.SourceDescriptor) ([]models.Article, error) {
	feed, err := r.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	limit := src.Limit
	if limit <= 0 || limit > len(feed.Items) {
		limit = len(feed.Items)
	}

	articles := make([]models.Article, 0, limit)
	for _, item := range feed.Items[:limit] {
		if ctx.Err() != nil {
			break
		}

		body := stripMarkup(item.Description)
		if body == "" {
			body = stripMarkup(item.Content)
		}

		// Thin feed entries carry only a teaser; pull the page itself.
		if len(body) < minFeedBodyChars && item.Link != "" {
			if _, text, err := r.fetchPage(ctx, item.Link); err != nil {
				r.logger.Debug("full-text fetch failed, keeping feed description",
					"url", item.Link,
					"error", err,
				)
			} else if len(text) > len(body) {
				body = text
			}
		}

		article, ok := r.normalize(src, item.Title, item.Link, body, itemPublished(item))
		if !ok {
			continue
		}
		articles = append(articles, article)
	}

	return articles, nil
}

func itemPublished(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Time{}
}
