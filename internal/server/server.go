package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guidechat/backend/internal/chat"
	mid "github.com/guidechat/backend/internal/server/middleware"
	"github.com/guidechat/backend/pkg/ai"
	oai "github.com/guidechat/backend/pkg/ai/ollama"
	gai "github.com/guidechat/backend/pkg/ai/openai"
	"github.com/guidechat/backend/pkg/backlink"
	"github.com/guidechat/backend/pkg/knowledge"
	"github.com/guidechat/backend/pkg/loader"
	"github.com/guidechat/backend/pkg/loader/cache"
	"github.com/guidechat/backend/pkg/loader/io"
	"github.com/guidechat/backend/pkg/loader/s3"
	"github.com/guidechat/backend/pkg/logger"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

// NewEcho builds the HTTP server with all middleware and routes registered.
func NewEcho(app *mid.App) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1M"))

	RegisterRoutes(e)
	return e
}

// NewApp wires the chat pipeline described by settings.
func NewApp(ctx context.Context, settings Settings) (*mid.App, error) {
	client, err := newCompletionClient(settings)
	if err != nil {
		return nil, err
	}

	source, err := newKnowledgeSource(ctx, settings)
	if err != nil {
		return nil, err
	}

	app := &mid.App{RequestTimeout: settings.RequestTimeout}
	if reporter, ok := client.(ai.MetricsReporter); ok {
		app.Metrics = reporter
	}
	if settings.KnowledgeCache {
		cached := cache.New(source)
		source = cached
		app.Cache = cached
	}

	knowledgeLoader := knowledge.NewLoader(knowledge.NewLoaderParams{
		Source:       source,
		PriceColumns: settings.PriceColumns,
	})

	app.Categories = knowledgeLoader
	app.Chat = chat.NewService(chat.NewServiceParams{
		Knowledge: knowledgeLoader,
		Generator: chat.NewGenerator(client, chat.DefaultBackoff()),
		Matcher:   backlink.MatcherByName(settings.Matcher),
	})
	return app, nil
}

func newCompletionClient(settings Settings) (ai.CompletionClient, error) {
	switch settings.AIAdapter {
	case "ollama":
		client, err := oai.NewChatOllamaClient(oai.NewChatOllamaClientParams{
			Model:                 settings.AIModel,
			BaseURL:               settings.AIURL,
			ApiKey:                settings.AIKey,
			MaxConcurrentRequests: settings.AIParallelRequests,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Ollama client: %w", err)
		}
		return client, nil
	default:
		client, err := gai.NewChatOpenAIClient(gai.NewChatOpenAIClientParams{
			Model:   settings.AIModel,
			ChatURL: settings.AIURL,
			ChatKey: settings.AIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
		}
		return client, nil
	}
}

func newKnowledgeSource(ctx context.Context, settings Settings) (loader.Source, error) {
	switch settings.KnowledgeSource {
	case "s3":
		source, err := s3.NewObjectSource(ctx, settings.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 source: %w", err)
		}
		return source, nil
	default:
		return io.NewFileSource(settings.DataDir), nil
	}
}

func Init() {
	settings, err := LoadSettings()
	if err != nil {
		logger.Fatal("Invalid configuration", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, settings)
	if err != nil {
		logger.Fatal("Failed to initialize", "err", err)
	}

	e := NewEcho(app)

	go func() {
		logger.Info(
			"Starting server",
			"port", settings.Port,
			"adapter", settings.AIAdapter,
			"knowledge", settings.KnowledgeSource,
			"cache", settings.KnowledgeCache,
		)
		if err := e.Start(":" + settings.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
