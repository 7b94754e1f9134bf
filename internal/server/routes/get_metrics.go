package routes

import (
	"net/http"

	"github.com/guidechat/backend/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

func GetMetricsHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	if app.Metrics == nil {
		return c.JSON(http.StatusNotImplemented, map[string]string{"error": "Model metrics are not available"})
	}

	return c.JSON(http.StatusOK, app.Metrics.GetMetrics())
}

func DeleteMetricsHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	if app.Metrics == nil {
		return c.JSON(http.StatusNotImplemented, map[string]string{"error": "Model metrics are not available"})
	}

	app.Metrics.ResetMetrics()
	return c.NoContent(http.StatusNoContent)
}
