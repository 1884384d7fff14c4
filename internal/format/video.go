package format

import (
	"fmt"
	"strings"

	"github.com/briefwire/briefwire/internal/models"
)

const (
	// minVideoSentences is the minimum summary sentence count needed to
	// fill the hook and at least one body scene.
	minVideoSentences = 2

	// maxVideoBodyScenes bounds the script length for short-form video.
	maxVideoBodyScenes = 4

	videoOutro = "That's the story for now. Follow for tomorrow's brief."
)

// renderVideoScript builds an ordered list of scene/voiceover pairs: a hook,
// body scenes carrying the summary, and a fixed outro.
func renderVideoScript(summary models.Summary) (string, error) {
	parts := sentences(summary.Text)
	if len(parts) < minVideoSentences {
		return "", &TransformError{
			Platform: models.PlatformVideoScript,
			Reason:   fmt.Sprintf("summary has %d sentence(s), need at least %d for a script", len(parts), minVideoSentences),
		}
	}

	hook := parts[0]
	body := parts[1:]
	if len(body) > maxVideoBodyScenes {
		body = body[:maxVideoBodyScenes]
	}

	var sb strings.Builder
	scene := 1

	writeScene := func(visual, voiceover string) {
		fmt.Fprintf(&sb, "Scene %d [%s]\nVO: %s\n\n", scene, visual, voiceover)
		scene++
	}

	writeScene("headline card", hook)
	for _, voiceover := range body {
		writeScene("b-roll", voiceover)
	}
	writeScene("outro card", videoOutro)

	return strings.TrimSpace(sb.String()), nil
}
