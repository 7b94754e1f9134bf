// Package chat runs the retrieval, augmentation, generation and backlink
// steps for one question.
package chat

import (
	"context"
	"fmt"

	"github.com/guidechat/backend/pkg/backlink"
	"github.com/guidechat/backend/pkg/knowledge"
	"github.com/guidechat/backend/pkg/logger"
	"github.com/guidechat/backend/pkg/prompt"
)

// Response is the answer returned to the client.
type Response struct {
	Text    string            `json:"text"`
	Sources []backlink.Source `json:"sources"`
}

// KnowledgeLoader loads the template and table of a category.
type KnowledgeLoader interface {
	Load(ctx context.Context, category string) (knowledge.Knowledge, error)
}

// TextGenerator produces the model's answer for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service is stateless across requests and safe for concurrent use.
type Service struct {
	knowledge KnowledgeLoader
	generator TextGenerator
	matcher   backlink.Matcher
}

// NewServiceParams configures a Service. A nil Matcher means
// backlink.ContainsMatcher.
type NewServiceParams struct {
	Knowledge KnowledgeLoader
	Generator TextGenerator
	Matcher   backlink.Matcher
}

func NewService(params NewServiceParams) *Service {
	matcher := params.Matcher
	if matcher == nil {
		matcher = backlink.ContainsMatcher{}
	}
	return &Service{
		knowledge: params.Knowledge,
		generator: params.Generator,
		matcher:   matcher,
	}
}

// Handle answers query using the knowledge of category. Either the whole
// pipeline succeeds or a *StageError is returned; there are no partial
// answers. Failures are logged here.
func (s *Service) Handle(ctx context.Context, category, query string) (resp Response, err error) {
	stage := StageLoad
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected failure: %v", r)
		}
		if err != nil {
			resp = Response{}
			err = s.fail(ctx, stage, category, err)
		}
	}()

	logger.Info("Received chat message", "request_id", RequestID(ctx), "category", category)
	logger.Debug("Chat query", "request_id", RequestID(ctx), "query", query)

	k, err := s.knowledge.Load(ctx, category)
	if err != nil {
		return Response{}, err
	}
	logger.Info("Loaded knowledge", "request_id", RequestID(ctx), "category", category, "rows", len(k.Table.Rows))

	stage = StageAugment
	fullPrompt, err := prompt.Augment(k.Template, k.Table, query)
	if err != nil {
		return Response{}, err
	}

	stage = StageGenerate
	text, err := s.generator.Generate(ctx, fullPrompt)
	if err != nil {
		return Response{}, err
	}
	logger.Debug("AI response received", "request_id", RequestID(ctx), "text", text)

	stage = StageExtract
	sources := backlink.Extract(text, k.Table.Rows, s.matcher)
	logger.Info("Found relevant links", "request_id", RequestID(ctx), "category", category, "count", len(sources))

	return Response{Text: text, Sources: sources}, nil
}

func (s *Service) fail(ctx context.Context, stage Stage, category string, err error) error {
	logger.Error(
		"Chat request failed",
		"request_id", RequestID(ctx),
		"category", category,
		"stage", string(stage),
		"err", err,
	)
	return &StageError{Stage: stage, Category: category, Err: err}
}

type requestIDKey struct{}

// WithRequestID attaches a request id used in log lines.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id set by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
