package summarize

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const systemInstruction = "You are an editorial assistant that condenses news " +
	"articles into short, neutral summaries. Capture the main development, the " +
	"essential context and any stated implications. Write plain prose with no " +
	"headings, no bullet points and no citation brackets."

// maxPromptBodyChars caps how much article body is sent to the service so
// that very long pages do not blow the prompt budget.
const maxPromptBodyChars = 8000

// buildPrompt renders the user prompt for one article.
func buildPrompt(title, sourceURL, body string, published time.Time, maxSummaryChars int) string {
	if len(body) > maxPromptBodyChars {
		body = body[:maxPromptBodyChars]
		for len(body) > 0 && !utf8.ValidString(body) {
			body = body[:len(body)-1]
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Summarize the following news article in at most %d characters.\n\n", maxSummaryChars)
	fmt.Fprintf(&sb, "Title: %s\n", title)
	fmt.Fprintf(&sb, "Source: %s\n", sourceURL)
	if !published.IsZero() {
		fmt.Fprintf(&sb, "Published: %s\n", published.Format("2006-01-02 15:04"))
	}
	sb.WriteString("\nArticle:\n")
	sb.WriteString(body)

	return sb.String()
}
