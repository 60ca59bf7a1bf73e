package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Assistant answers messages no keyword rule matched. Optional; the
// router's canned fallback covers the unconfigured case, so classification
// itself stays deterministic.
type Assistant struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

func NewAssistant(apiKey, model string, maxTokens int, temperature float64, logger *zap.Logger) *Assistant {
	return &Assistant{
		client:      openai.NewClient(apiKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

// Suggest asks the model for a short, campus-scoped suggestion.
func (a *Assistant) Suggest(ctx context.Context, message string) (string, error) {
	a.logger.Debug("Falling back to assistant", zap.String("message", message))

	prompt := fmt.Sprintf(`You are a campus activity assistant. A student sent a message that
didn't match any known request. Reply in one or two sentences, steering
them toward finding events, planning their week, or budgeting.

Message: %s`, message)

	resp, err := a.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: a.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   a.maxTokens,
			Temperature: float32(a.temperature),
		},
	)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
