package server

import (
	"github.com/guidechat/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	e.POST("/chat", routes.ChatHandler)
	e.GET("/categories", routes.GetCategoriesHandler)

	// Model usage routes
	e.GET("/metrics", routes.GetMetricsHandler)
	e.DELETE("/metrics", routes.DeleteMetricsHandler)

	// Knowledge cache routes
	e.DELETE("/cache", routes.DeleteCacheHandler)
	e.DELETE("/cache/:category", routes.DeleteCategoryCacheHandler)
}
