package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

// AnthropicGenerator implements poster.Generator over the Anthropic Messages
// API with the web-search tool granted, so the model can pull in live news
// before writing the post.
type AnthropicGenerator struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	log       *zap.Logger
}

// NewAnthropicGenerator creates a generator for the given model. maxTokens
// should be generous: web-search tool calls consume output tokens before the
// final text reply.
func NewAnthropicGenerator(apiKey, model string, maxTokens int, log *zap.Logger) *AnthropicGenerator {
	return &AnthropicGenerator{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		maxTokens: int64(maxTokens),
		log:       log,
	}
}

// Generate issues one generation request and concatenates the plain-text
// segments of the response, ignoring tool-use and search-result blocks.
func (g *AnthropicGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	message, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: g.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Tools: []anthropic.ToolUnionParam{
			{OfWebSearchTool20250305: &anthropic.WebSearchTool20250305Param{}},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	g.log.Info("Generation finished",
		zap.String("model", g.model),
		zap.String("stop_reason", string(message.StopReason)))

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	return strings.TrimSpace(sb.String()), nil
}
