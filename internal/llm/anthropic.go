package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/BVStecnologia/youtube-monitor/internal/model"
)

type AnthropicClient struct {
	client *anthropic.Client
	model  anthropic.Model
}

// NewAnthropicClient builds the scoring client. modelName may be empty to use
// the default model.
func NewAnthropicClient(apiKey, modelName string) *AnthropicClient {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	m := anthropic.ModelClaudeSonnet4_0
	if modelName != "" {
		m = anthropic.Model(modelName)
	}
	return &AnthropicClient{client: &client, model: m}
}

// Analyze submits the relevance prompt and parses the single JSON object the
// model must reply with. A non-parseable reply fails only this video.
func (c *AnthropicClient) Analyze(ctx context.Context, in AnalysisInput) (*model.AnalysisResult, error) {
	prompt := buildPrompt(in)

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 4096,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: anthropic call: %v", model.ErrTransient, err)
	}
	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("%w: empty reply from anthropic", model.ErrParse)
	}

	return parseAnalysis(resp.Content[0].Text)
}
