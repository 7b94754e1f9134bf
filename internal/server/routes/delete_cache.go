package routes

import (
	"net/http"

	"github.com/guidechat/backend/internal/server/middleware"
	"github.com/guidechat/backend/pkg/knowledge"
	"github.com/guidechat/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

func DeleteCacheHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	if app.Cache == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Knowledge cache is disabled"})
	}

	app.Cache.InvalidateAll()
	logger.Info("Knowledge cache cleared")

	return c.NoContent(http.StatusNoContent)
}

func DeleteCategoryCacheHandler(c echo.Context) error {
	type deleteCategoryCacheParams struct {
		Category string `param:"category" validate:"required"`
	}

	params := new(deleteCategoryCacheParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	app := c.(*middleware.AppContext).App
	if app.Cache == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Knowledge cache is disabled"})
	}

	category, err := knowledge.ResolveCategory(params.Category)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid category"})
	}

	app.Cache.Invalidate(category.TemplatePath, category.TablePath)
	logger.Info("Knowledge cache cleared", "category", category.Key)

	return c.NoContent(http.StatusNoContent)
}
