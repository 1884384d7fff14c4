package format

import (
	"strings"

	"github.com/briefwire/briefwire/internal/models"
	"github.com/briefwire/briefwire/internal/summarize"
)

const (
	// maxSocialPostChars is the hard cap on a social post including the
	// call-to-action line.
	maxSocialPostChars = 280

	socialCallToAction = "Follow for the full story and daily tech briefs."

	// minSocialSummaryChars is the shortest summary that still yields a
	// meaningful post above the CTA.
	minSocialSummaryChars = 40
)

// renderSocialPost builds a short post: a summary excerpt plus a fixed
// call-to-action line, capped at maxSocialPostChars.
func renderSocialPost(summary models.Summary) (string, error) {
	text := strings.TrimSpace(summary.Text)
	if len(text) < minSocialSummaryChars {
		return "", &TransformError{
			Platform: models.PlatformSocialPost,
			Reason:   "summary too short for a social post",
		}
	}

	budget := maxSocialPostChars - len(socialCallToAction) - len("\n\n")
	excerpt := summarize.Truncate(text, budget)

	return excerpt + "\n\n" + socialCallToAction, nil
}
