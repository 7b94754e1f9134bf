package ollama

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/guidechat/backend/pkg/ai"

	"github.com/ollama/ollama/api"
	"golang.org/x/sync/semaphore"
)

// ChatOllamaClient implements ai.CompletionClient using a locally hosted Ollama model.
type ChatOllamaClient struct {
	model string

	metrics     ai.ModelMetrics
	metricsLock sync.Mutex

	reqLock *semaphore.Weighted

	baseURL    *url.URL
	httpClient *http.Client

	Client *api.Client
}

// NewChatOllamaClientParams contains configuration options for creating a new ChatOllamaClient.
type NewChatOllamaClientParams struct {
	Model string

	BaseURL string
	ApiKey  string

	MaxConcurrentRequests int64
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so original request isn't modified
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// NewChatOllamaClient connects to the Ollama server at BaseURL, or the
// default local address if empty.
func NewChatOllamaClient(
	params NewChatOllamaClientParams,
) (*ChatOllamaClient, error) {
	if params.Model == "" {
		return nil, errors.New("ollama: missing model")
	}

	u := &url.URL{Scheme: "http", Host: "127.0.0.1:11434"}
	if params.BaseURL != "" {
		parsed, err := url.Parse(params.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("ollama: invalid base url: %w", err)
		}
		u = parsed
	}

	headers := map[string]string{}
	if params.ApiKey != "" {
		headers["Authorization"] = "Bearer " + params.ApiKey
	}
	httpClient := &http.Client{
		Transport: &headerTransport{
			headers: headers,
			rt:      http.DefaultTransport,
		},
	}

	maxRequests := params.MaxConcurrentRequests
	if maxRequests <= 0 {
		maxRequests = 1
	}

	return &ChatOllamaClient{
		model:      params.Model,
		reqLock:    semaphore.NewWeighted(maxRequests),
		baseURL:    u,
		httpClient: httpClient,
		Client:     api.NewClient(u, httpClient),
	}, nil
}

// classifyError marks 503 responses as ai.ErrOverloaded.
func classifyError(err error) error {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusServiceUnavailable {
		return fmt.Errorf("%w: %w", ai.ErrOverloaded, err)
	}
	return err
}

var _ ai.CompletionClient = (*ChatOllamaClient)(nil)
