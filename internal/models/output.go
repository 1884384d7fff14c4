package models

import (
	"fmt"
)

// Platform is one of the supported publish formats.
type Platform string

const (
	PlatformSocialPost  Platform = "social_post"
	PlatformVideoScript Platform = "video_script"
	PlatformNewsletter  Platform = "newsletter"
)

// AllPlatforms lists every supported platform in a stable order.
func AllPlatforms() []Platform {
	return []Platform{PlatformSocialPost, PlatformVideoScript, PlatformNewsletter}
}

// ParsePlatform validates a platform name from configuration.
func ParsePlatform(raw string) (Platform, error) {
	switch Platform(raw) {
	case PlatformSocialPost, PlatformVideoScript, PlatformNewsletter:
		return Platform(raw), nil
	default:
		return "", fmt.Errorf("unknown platform: %q", raw)
	}
}

// OutputStatus indicates whether a platform transform produced usable content.
type OutputStatus string

const (
	OutputStatusReady  OutputStatus = "ready"
	OutputStatusFailed OutputStatus = "failed"
)

// FormattedOutput is one platform-specific rendering of a summary.
// A failed transform for one platform never invalidates its siblings.
type FormattedOutput struct {
	SummaryFingerprint string       `json:"summary_fingerprint"`
	Platform           Platform     `json:"platform"`
	Content            string       `json:"content,omitempty"`
	Status             OutputStatus `json:"status"`
	Reason             string       `json:"reason,omitempty"` // set when Status is failed
}

// Ready reports whether the output can be persisted and published.
func (o FormattedOutput) Ready() bool {
	return o.Status == OutputStatusReady
}
