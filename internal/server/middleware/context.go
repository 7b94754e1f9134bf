package middleware

import (
	"context"
	"time"

	"github.com/guidechat/backend/internal/chat"
	"github.com/guidechat/backend/pkg/ai"

	"github.com/labstack/echo/v4"
)

// ChatService answers one question for a category.
type ChatService interface {
	Handle(ctx context.Context, category, query string) (chat.Response, error)
}

// CategoryLister reports the categories currently available.
type CategoryLister interface {
	Categories(ctx context.Context) ([]string, error)
}

// CacheInvalidator drops cached knowledge files.
type CacheInvalidator interface {
	Invalidate(names ...string)
	InvalidateAll()
}

type App struct {
	Chat       ChatService
	Categories CategoryLister
	// Cache is nil when knowledge caching is disabled.
	Cache CacheInvalidator
	// Metrics is nil when the model client does not track usage.
	Metrics        ai.MetricsReporter
	RequestTimeout time.Duration
}

type AppContext struct {
	echo.Context
	App *App
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
