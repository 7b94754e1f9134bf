package openai

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/guidechat/backend/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	// DefaultBaseURL is Gemini's OpenAI compatible endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultModel   = "gemini-2.5-flash-preview-09-2025"
)

// ChatOpenAIClient generates completions through any OpenAI compatible
// chat completion API.
//
// A ChatOpenAIClient should be created using NewChatOpenAIClient.
type ChatOpenAIClient struct {
	model   string
	chatURL string

	metrics     ai.ModelMetrics
	metricsLock sync.Mutex

	ChatClient *openai.Client
}

// NewChatOpenAIClientParams defines the configuration parameters for creating
// a new ChatOpenAIClient.
//
// ChatURL and ChatKey configure the chat/completion API endpoint. An empty
// ChatURL selects DefaultBaseURL and an empty Model selects DefaultModel.
type NewChatOpenAIClientParams struct {
	Model   string
	ChatURL string
	ChatKey string

	// RequestOptions are appended to the client options, mainly for tests.
	RequestOptions []option.RequestOption
}

// NewChatOpenAIClient creates a client for the configured endpoint. The SDK's
// own retries are disabled; overload retries happen one layer up.
//
// Example:
//
//	client, err := openai.NewChatOpenAIClient(openai.NewChatOpenAIClientParams{
//		ChatKey: os.Getenv("GEMINI_API_KEY"),
//	})
func NewChatOpenAIClient(params NewChatOpenAIClientParams) (*ChatOpenAIClient, error) {
	if params.ChatKey == "" {
		return nil, errors.New("openai: missing API key")
	}
	chatURL := params.ChatURL
	if chatURL == "" {
		chatURL = DefaultBaseURL
	}
	model := params.Model
	if model == "" {
		model = DefaultModel
	}

	options := []option.RequestOption{
		option.WithAPIKey(params.ChatKey),
		option.WithBaseURL(chatURL),
		option.WithMaxRetries(0),
	}
	options = append(options, params.RequestOptions...)

	client := openai.NewClient(options...)

	return &ChatOpenAIClient{
		model:      model,
		chatURL:    chatURL,
		ChatClient: &client,
	}, nil
}

// classifyError marks 503 responses as ai.ErrOverloaded.
func classifyError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusServiceUnavailable {
		return fmt.Errorf("%w: %w", ai.ErrOverloaded, err)
	}
	return err
}

var _ ai.CompletionClient = (*ChatOpenAIClient)(nil)
