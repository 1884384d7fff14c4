package format

import (
	"strings"
	"testing"

	"github.com/briefwire/briefwire/internal/models"
)

func multiSentenceSummary() models.Summary {
	return models.Summary{
		ArticleFingerprint: "fp-1",
		Text: "Regulators approved the merger after a year of review. " +
			"The combined company will serve forty million customers. " +
			"Analysts expect modest price increases within a year. " +
			"Rivals have already filed objections with the court.",
		ModelUsed: "stub-model",
	}
}

func TestTransformSocialPost(t *testing.T) {
	out := Transform(multiSentenceSummary(), models.PlatformSocialPost)

	if !out.Ready() {
		t.Fatalf("transform failed: %s", out.Reason)
	}
	if out.SummaryFingerprint != "fp-1" {
		t.Errorf("SummaryFingerprint = %q, want fp-1", out.SummaryFingerprint)
	}
	if len(out.Content) > maxSocialPostChars {
		t.Errorf("len(Content) = %d, want <= %d", len(out.Content), maxSocialPostChars)
	}
	if !strings.HasSuffix(out.Content, socialCallToAction) {
		t.Errorf("post should end with the call to action, got %q", out.Content)
	}
}

func TestTransformSocialPostCapsLongSummary(t *testing.T) {
	summary := models.Summary{
		ArticleFingerprint: "fp-long",
		Text:               strings.Repeat("A very detailed development occurred today. ", 30),
	}

	out := Transform(summary, models.PlatformSocialPost)
	if !out.Ready() {
		t.Fatalf("transform failed: %s", out.Reason)
	}
	if len(out.Content) > maxSocialPostChars {
		t.Errorf("len(Content) = %d, want <= %d", len(out.Content), maxSocialPostChars)
	}
}

func TestTransformSocialPostRejectsTinySummary(t *testing.T) {
	out := Transform(models.Summary{Text: "Too short."}, models.PlatformSocialPost)
	if out.Ready() {
		t.Fatal("expected failed output")
	}
	if out.Reason == "" {
		t.Error("failed output should carry a reason")
	}
	if out.Content != "" {
		t.Errorf("failed output should have empty content, got %q", out.Content)
	}
}

func TestTransformVideoScript(t *testing.T) {
	out := Transform(multiSentenceSummary(), models.PlatformVideoScript)

	if !out.Ready() {
		t.Fatalf("transform failed: %s", out.Reason)
	}

	// hook + three body scenes + outro
	if got := strings.Count(out.Content, "Scene "); got != 5 {
		t.Errorf("scene count = %d, want 5", got)
	}
	if !strings.HasPrefix(out.Content, "Scene 1 [headline card]") {
		t.Errorf("script should open on the headline card, got %q", out.Content)
	}
	if !strings.Contains(out.Content, "[outro card]") {
		t.Error("script should close on the outro card")
	}
	if !strings.Contains(out.Content, "Regulators approved the merger after a year of review.") {
		t.Error("hook should carry the first summary sentence")
	}
}

func TestTransformVideoScriptCapsBodyScenes(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 10; i++ {
		sb.WriteString("Another fact emerged in the case. ")
	}

	out := Transform(models.Summary{Text: sb.String()}, models.PlatformVideoScript)
	if !out.Ready() {
		t.Fatalf("transform failed: %s", out.Reason)
	}
	// hook + maxVideoBodyScenes + outro
	if got := strings.Count(out.Content, "Scene "); got != maxVideoBodyScenes+2 {
		t.Errorf("scene count = %d, want %d", got, maxVideoBodyScenes+2)
	}
}

func TestTransformVideoScriptNeedsTwoSentences(t *testing.T) {
	out := Transform(models.Summary{Text: "Only one sentence happened today."}, models.PlatformVideoScript)
	if out.Ready() {
		t.Fatal("expected failed output for a one-sentence summary")
	}
	if !strings.Contains(out.Reason, "sentence") {
		t.Errorf("reason should mention the sentence requirement, got %q", out.Reason)
	}
}

func TestTransformNewsletter(t *testing.T) {
	out := Transform(multiSentenceSummary(), models.PlatformNewsletter)

	if !out.Ready() {
		t.Fatalf("transform failed: %s", out.Reason)
	}
	if !strings.HasPrefix(out.Content, "## Regulators approved the merger after a year of review\n\n") {
		t.Errorf("unexpected heading, got %q", out.Content)
	}
	if !strings.Contains(out.Content, "Rivals have already filed objections with the court.") {
		t.Error("body should carry the full summary")
	}
}

func TestTransformNewsletterHeadingCapped(t *testing.T) {
	summary := models.Summary{
		Text: strings.Repeat("word ", 40) + "ends here. Second sentence for the body.",
	}

	out := Transform(summary, models.PlatformNewsletter)
	if !out.Ready() {
		t.Fatalf("transform failed: %s", out.Reason)
	}

	heading := strings.SplitN(out.Content, "\n", 2)[0]
	if len(heading) > len("## ")+maxNewsletterHeadingChars {
		t.Errorf("heading too long: %d bytes", len(heading))
	}
}

func TestTransformNewsletterRejectsEmpty(t *testing.T) {
	out := Transform(models.Summary{Text: "   "}, models.PlatformNewsletter)
	if out.Ready() {
		t.Fatal("expected failed output for empty summary")
	}
}

func TestTransformUnknownPlatform(t *testing.T) {
	out := Transform(multiSentenceSummary(), models.Platform("carrier_pigeon"))
	if out.Ready() {
		t.Fatal("expected failed output for unknown platform")
	}
	if !strings.Contains(out.Reason, "carrier_pigeon") {
		t.Errorf("reason should name the platform, got %q", out.Reason)
	}
}

func TestTransformAllIsolatesPlatformFailures(t *testing.T) {
	// One sentence: long enough for a social post and a newsletter section,
	// too short for a video script.
	summary := models.Summary{
		ArticleFingerprint: "fp-partial",
		Text:               "A single long sentence describing the entire development in detail today.",
	}

	outputs := TransformAll(summary, models.AllPlatforms())
	if len(outputs) != 3 {
		t.Fatalf("len(outputs) = %d, want 3", len(outputs))
	}

	byPlatform := make(map[models.Platform]models.FormattedOutput, len(outputs))
	for _, out := range outputs {
		byPlatform[out.Platform] = out
	}

	if !byPlatform[models.PlatformSocialPost].Ready() {
		t.Errorf("social post should succeed: %s", byPlatform[models.PlatformSocialPost].Reason)
	}
	if !byPlatform[models.PlatformNewsletter].Ready() {
		t.Errorf("newsletter should succeed: %s", byPlatform[models.PlatformNewsletter].Reason)
	}
	if byPlatform[models.PlatformVideoScript].Ready() {
		t.Error("video script should fail on a one-sentence summary")
	}
}

func TestSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "terminal punctuation variants",
			in:   "First. Second! Third?",
			want: []string{"First.", "Second!", "Third?"},
		},
		{
			name: "trailing fragment kept",
			in:   "Complete sentence. trailing fragment",
			want: []string{"Complete sentence.", "trailing fragment"},
		},
		{
			name: "empty input",
			in:   "   ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sentences(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("sentences(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("sentence %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
