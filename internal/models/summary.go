package models

import (
	"time"
)

// Summary is the condensed form of one article. One summary exists per
// article per successful run; it is immutable after creation.
type Summary struct {
	ArticleFingerprint string    `json:"article_fingerprint"`
	Text               string    `json:"text"`
	ModelUsed          string    `json:"model_used"`
	GeneratedAt        time.Time `json:"generated_at"`
}
