package ai

import (
	"context"
	"errors"
	"math"
)

// ErrOverloaded marks a provider error that means "try again later",
// the equivalent of an HTTP 503 from the model endpoint.
var ErrOverloaded = errors.New("model is overloaded")

// ErrEmptyCompletion is returned when the provider answers without any text.
var ErrEmptyCompletion = errors.New("model returned an empty completion")

// IsOverloaded reports whether err is a transient overload signal.
func IsOverloaded(err error) bool {
	return errors.Is(err, ErrOverloaded)
}

// ModelMetrics is the token usage and model time accumulated by a client.
type ModelMetrics struct {
	Requests       int     `json:"requests"`
	InputTokens    int     `json:"input_tokens"`
	OutputTokens   int     `json:"output_tokens"`
	TotalTokens    int     `json:"total_tokens"`
	DurationMs     int64   `json:"duration_ms"`
	TokenPerSecond float32 `json:"tokens_per_second"`
}

// Add accumulates m into the receiver and updates the throughput.
func (a *ModelMetrics) Add(m ModelMetrics) {
	a.Requests += m.Requests
	a.InputTokens += m.InputTokens
	a.OutputTokens += m.OutputTokens
	a.TotalTokens += m.TotalTokens
	a.DurationMs += m.DurationMs

	if a.DurationMs > 0 {
		tokensPerSecond := (float64(a.TotalTokens) * 1000.0) / float64(a.DurationMs)
		a.TokenPerSecond = float32(math.Round(tokensPerSecond*100) / 100)
	}
}

// GenerateOptions holds configuration for AI generation requests.
type GenerateOptions struct {
	Model         string   // Model identifier to use for generation
	SystemPrompts []string // System prompts prepended to the request
	Temperature   float64  // Sampling temperature (0.0-2.0)
}

// GenerateOption is a functional option for configuring AI generation requests.
type GenerateOption func(*GenerateOptions)

// WithModel returns a GenerateOption that sets the model to use for generation.
func WithModel(model string) GenerateOption {
	return func(o *GenerateOptions) {
		o.Model = model
	}
}

// WithSystemPrompts returns a GenerateOption that sets the system prompts
// to prepend to the generation request.
func WithSystemPrompts(prompts ...string) GenerateOption {
	return func(o *GenerateOptions) {
		o.SystemPrompts = prompts
	}
}

// WithTemperature returns a GenerateOption that sets the sampling temperature.
func WithTemperature(temp float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = temp
	}
}

// ApplyOptions resolves opts on top of defaults.
func ApplyOptions(defaults GenerateOptions, opts ...GenerateOption) GenerateOptions {
	options := defaults
	for _, o := range opts {
		o(&options)
	}
	return options
}

// CompletionClient turns a prompt into a text completion.
//
// Implementations wrap provider errors that signal a temporary overload with
// ErrOverloaded so callers can decide to retry.
type CompletionClient interface {
	GenerateCompletion(
		ctx context.Context,
		prompt string,
		opts ...GenerateOption,
	) (string, error)
}

// MetricsReporter is implemented by clients that track their usage.
type MetricsReporter interface {
	GetMetrics() ModelMetrics
	ResetMetrics()
}
