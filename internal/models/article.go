package models

import (
	"time"
)

// Article is a normalized news article produced by the source reader.
// It is immutable once fetched; downstream stages only read it.
type Article struct {
	SourceURL   string    `json:"source_url"`
	Title       string    `json:"title"`
	BodyText    string    `json:"body_text"`
	PublishedAt time.Time `json:"published_at"`
	RetrievedAt time.Time `json:"retrieved_at"`
	Fingerprint string    `json:"fingerprint"` // SHA-256 over normalized title + canonical URL
}

// SourceType categorizes how a source descriptor should be fetched.
type SourceType string

const (
	SourceTypeRSS     SourceType = "rss"
	SourceTypeWebpage SourceType = "webpage"
)

// SourceDescriptor identifies a single upstream source. The list of
// descriptors is supplied by configuration, never generated by the pipeline.
type SourceDescriptor struct {
	Name        string     `yaml:"name" json:"name"`
	Type        SourceType `yaml:"type" json:"type"`
	URL         string     `yaml:"url" json:"url"`
	Keywords    []string   `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Limit       int        `yaml:"limit,omitempty" json:"limit,omitempty"`
	MaxAgeHours int        `yaml:"maxAgeHours,omitempty" json:"max_age_hours,omitempty"`
}

// MaxAge returns the source's freshness window; zero means unlimited.
func (s SourceDescriptor) MaxAge() time.Duration {
	return time.Duration(s.MaxAgeHours) * time.Hour
}

// DisplayName returns a human-readable identifier for logging.
func (a *Article) DisplayName() string {
	if a.Title != "" {
		return a.Title
	}
	return a.SourceURL
}

// IsRecent returns true if the article was published within the given window.
func (a *Article) IsRecent(window time.Duration) bool {
	return time.Since(a.PublishedAt) <= window
}
