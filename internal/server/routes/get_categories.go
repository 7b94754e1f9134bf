package routes

import (
	"errors"
	"net/http"

	"github.com/guidechat/backend/internal/server/middleware"
	"github.com/guidechat/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

func GetCategoriesHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	keys, err := app.Categories.Categories(ctx)
	if errors.Is(err, errors.ErrUnsupported) {
		return c.JSON(http.StatusNotImplemented, map[string]string{"error": "Listing categories is not supported"})
	}
	if err != nil {
		logger.Error("Failed to list categories", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, map[string][]string{"categories": keys})
}
