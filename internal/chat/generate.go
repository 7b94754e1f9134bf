package chat

import (
	"context"
	"time"

	"github.com/guidechat/backend/internal/util"
	"github.com/guidechat/backend/pkg/ai"
	"github.com/guidechat/backend/pkg/logger"
)

// DefaultBackoff retries an overloaded model three times in total, waiting
// 1s and then 2s.
func DefaultBackoff() util.BackoffPolicy {
	return util.BackoffPolicy{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		Multiplier:   2,
	}
}

// Generator calls the model, retrying while it reports an overload.
type Generator struct {
	client ai.CompletionClient
	policy util.BackoffPolicy
	opts   []ai.GenerateOption
}

func NewGenerator(client ai.CompletionClient, policy util.BackoffPolicy, opts ...ai.GenerateOption) *Generator {
	return &Generator{
		client: client,
		policy: policy,
		opts:   opts,
	}
}

// Generate returns the completion for prompt. Errors other than an overload
// are returned after the first attempt; an overload that outlasts all
// attempts returns the last provider error.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	policy := g.policy
	maxAttempts := max(policy.MaxAttempts, 1)
	policy.OnRetry = func(attempt int, delay time.Duration, err error) {
		logger.Warn(
			"AI model is overloaded, retrying",
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"delay", delay,
		)
	}

	text, err := util.RetryWithBackoff(ctx, policy, ai.IsOverloaded, func(ctx context.Context) (string, error) {
		return g.client.GenerateCompletion(ctx, prompt, g.opts...)
	})
	if err != nil && ai.IsOverloaded(err) {
		logger.Error("AI model is still overloaded, giving up", "attempts", maxAttempts)
	}
	return text, err
}
