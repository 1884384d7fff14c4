package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/briefwire/briefwire/internal/models"
)

// fetchWebpage treats a single web page as a one-article source.
func (r *Reader) fetchWebpage(ctx context.Context, src models.SourceDescriptor) ([]models.Article, error) {
	title, text, err := r.fetchPage(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	if title == "" {
		title = src.Name
	}

	article, ok := r.normalize(src, title, src.URL, text, time.Time{})
	if !ok {
		return nil, fmt.Errorf("page yielded no readable content")
	}

	return []models.Article{article}, nil
}

// fetchPage downloads a page and extracts its readable title and plain text.
func (r *Reader) fetchPage(ctx context.Context, pageURL string) (title, text string, err error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", "", fmt.Errorf("parse page url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("get page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	page, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return "", "", fmt.Errorf("extract readable content: %w", err)
	}

	return page.Title, collapseWhitespace(page.TextContent), nil
}
