package format

import (
	"strings"

	"github.com/briefwire/briefwire/internal/models"
	"github.com/briefwire/briefwire/internal/summarize"
)

const maxNewsletterHeadingChars = 80

// renderNewsletter builds a Markdown section: heading derived from the first
// sentence, followed by the full summary body.
func renderNewsletter(summary models.Summary) (string, error) {
	body := strings.TrimSpace(summary.Text)
	if body == "" {
		return "", &TransformError{
			Platform: models.PlatformNewsletter,
			Reason:   "summary is empty",
		}
	}

	parts := sentences(body)
	heading := strings.TrimRight(parts[0], ".!? ")
	heading = summarize.Truncate(heading, maxNewsletterHeadingChars)
	if heading == "" {
		return "", &TransformError{
			Platform: models.PlatformNewsletter,
			Reason:   "could not derive a heading from the summary",
		}
	}

	return "## " + heading + "\n\n" + body, nil
}
