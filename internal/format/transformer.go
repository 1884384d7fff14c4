package format

import (
	"fmt"
	"strings"

	"github.com/briefwire/briefwire/internal/models"
)

// TransformError reports why one platform transform failed. It is scoped to
// that platform only; sibling transforms of the same summary are unaffected.
type TransformError struct {
	Platform models.Platform
	Reason   string
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform for %s failed: %s", e.Platform, e.Reason)
}

// renderer builds platform content from summary text. Renderers are pure:
// they never call the completion service.
type renderer func(summary models.Summary) (string, error)

var renderers = map[models.Platform]renderer{
	models.PlatformSocialPost:  renderSocialPost,
	models.PlatformVideoScript: renderVideoScript,
	models.PlatformNewsletter:  renderNewsletter,
}

// Transform maps one summary onto one platform's template. A rule violation
// yields a failed output with a reason instead of an error, so the caller can
// always persist the result.
func Transform(summary models.Summary, platform models.Platform) models.FormattedOutput {
	out := models.FormattedOutput{
		SummaryFingerprint: summary.ArticleFingerprint,
		Platform:           platform,
	}

	render, ok := renderers[platform]
	if !ok {
		out.Status = models.OutputStatusFailed
		out.Reason = fmt.Sprintf("unknown platform: %q", platform)
		return out
	}

	content, err := render(summary)
	if err != nil {
		out.Status = models.OutputStatusFailed
		out.Reason = err.Error()
		return out
	}

	out.Status = models.OutputStatusReady
	out.Content = content
	return out
}

// TransformAll renders the summary for every requested platform. Failures are
// isolated per platform.
func TransformAll(summary models.Summary, platforms []models.Platform) []models.FormattedOutput {
	outputs := make([]models.FormattedOutput, 0, len(platforms))
	for _, platform := range platforms {
		outputs = append(outputs, Transform(summary, platform))
	}
	return outputs
}

// sentences splits text into trimmed sentences on terminal punctuation.
func sentences(text string) []string {
	var out []string
	var sb strings.Builder

	for _, r := range text {
		sb.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(sb.String()); s != "" {
				out = append(out, s)
			}
			sb.Reset()
		}
	}
	if s := strings.TrimSpace(sb.String()); s != "" {
		out = append(out, s)
	}

	return out
}
