package summarize

import (
	"context"
)

// CompletionRequest is one prompt sent to a text-generation service.
type CompletionRequest struct {
	System    string
	Prompt    string
	MaxTokens int
}

// Completer is the capability "text-generation service". Two variants exist
// (OpenAI-compatible and Anthropic), selected by configuration; neither is
// referenced by the orchestrator.
type Completer interface {
	// Complete returns the generated text for the request. Failures are
	// classified as transient or permanent (see Error).
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// Model identifies the underlying model for attribution.
	Model() string
}
