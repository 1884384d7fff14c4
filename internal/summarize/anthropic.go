package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient talks to the Anthropic messages API.
type AnthropicClient struct {
	client      anthropic.Client
	model       string
	temperature float64
}

// AnthropicConfig configures the Anthropic completion client.
type AnthropicConfig struct {
	APIKey      string
	Model       string
	Temperature float64
}

// NewAnthropicClient creates a completion client for the Anthropic API.
func NewAnthropicClient(cfg AnthropicConfig) *AnthropicClient {
	return &AnthropicClient{
		client:      anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}
}

// Complete sends one message request.
func (c *AnthropicClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(c.temperature),
		System: []anthropic.TextBlockParam{
			{Text: req.System},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	})
	if err != nil {
		return "", ClassifyError(fmt.Errorf("anthropic api error: %w", err))
	}

	if len(message.Content) == 0 {
		return "", Permanent(fmt.Errorf("no response from anthropic"))
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	return sb.String(), nil
}

// Model identifies the configured model.
func (c *AnthropicClient) Model() string {
	return c.model
}
