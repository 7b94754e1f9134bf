package ollama

import (
	"context"

	"github.com/guidechat/backend/pkg/ai"
	"github.com/guidechat/backend/pkg/logger"

	"github.com/ollama/ollama/api"
	"github.com/pkoukk/tiktoken-go"
)

const (
	defaultContextTokens = 4096
	contextHeadroom      = 512
)

// GenerateCompletion sends a single-turn prompt and returns assistant text.
// Knowledge tables make prompts large, so the context window grows with the
// estimated prompt size.
func (c *ChatOllamaClient) GenerateCompletion(
	ctx context.Context,
	prompt string,
	opts ...ai.GenerateOption,
) (string, error) {
	options := ai.ApplyOptions(ai.GenerateOptions{
		Model:       c.model,
		Temperature: 0.7,
	}, opts...)

	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer c.reqLock.Release(1)

	messages := make([]api.Message, 0, len(options.SystemPrompts)+1)
	for _, sp := range options.SystemPrompts {
		messages = append(messages, api.Message{Role: "system", Content: sp})
	}
	messages = append(messages, api.Message{Role: "user", Content: prompt})

	stream := false
	req := &api.ChatRequest{
		Model:    options.Model,
		Messages: messages,
		Stream:   &stream,
		Options:  map[string]any{"temperature": options.Temperature},
	}

	tokens := estimateTokens(prompt)
	if tokens+contextHeadroom > defaultContextTokens {
		req.Options["num_ctx"] = tokens + contextHeadroom
	}

	var final api.ChatResponse
	if err := c.Client.Chat(ctx, req, func(cr api.ChatResponse) error {
		final.Message.Content += cr.Message.Content
		if cr.Done {
			final.Done = true
			final.Metrics = cr.Metrics
		}
		return nil
	}); err != nil {
		return "", classifyError(err)
	}

	metrics := ai.ModelMetrics{
		Requests:     1,
		InputTokens:  final.Metrics.PromptEvalCount,
		OutputTokens: final.Metrics.EvalCount,
		TotalTokens:  final.Metrics.PromptEvalCount + final.Metrics.EvalCount,
		DurationMs:   final.Metrics.TotalDuration.Milliseconds(),
	}
	c.modifyMetrics(metrics)
	logger.Debug(
		"Completion received",
		"model", options.Model,
		"input_tokens", metrics.InputTokens,
		"output_tokens", metrics.OutputTokens,
		"duration_ms", metrics.DurationMs,
	)

	if final.Message.Content == "" {
		return "", ai.ErrEmptyCompletion
	}
	return final.Message.Content, nil
}

// estimateTokens counts prompt tokens with o200k_base. The encoding is
// fetched on first use; without it a four-bytes-per-token guess is used.
func estimateTokens(prompt string) int {
	enc, err := tiktoken.GetEncoding("o200k_base")
	if err != nil {
		logger.Debug("Token encoding unavailable, estimating", "err", err)
		return len(prompt)/4 + 1
	}
	return len(enc.Encode(prompt, nil, nil))
}
