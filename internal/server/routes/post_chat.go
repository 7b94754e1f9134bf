package routes

import (
	"context"
	"errors"
	"net/http"

	"github.com/guidechat/backend/internal/chat"
	"github.com/guidechat/backend/internal/server/middleware"
	"github.com/guidechat/backend/pkg/logger"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Query may be empty but must be present.
type postChatParams struct {
	Query    *string `json:"query"`
	Category string  `json:"category" validate:"required"`
}

var errInvalidChatRequest = errors.New("invalid request: query and category are required")

func ChatHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App

	requestID, err := gonanoid.New()
	if err != nil {
		requestID = "unknown"
	}
	ctx := chat.WithRequestID(c.Request().Context(), requestID)
	c.Response().Header().Set(echo.HeaderXRequestID, requestID)

	params := new(postChatParams)
	if err := c.Bind(params); err != nil {
		logger.Warn("Invalid chat request", "request_id", requestID, "err", err)
		return c.JSON(http.StatusBadRequest, chat.FallbackResponse(err))
	}
	if err := c.Validate(params); err != nil || params.Query == nil {
		logger.Warn("Invalid chat request", "request_id", requestID, "err", err)
		return c.JSON(http.StatusBadRequest, chat.FallbackResponse(errInvalidChatRequest))
	}

	if app.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, app.RequestTimeout)
		defer cancel()
	}

	res, err := app.Chat.Handle(ctx, params.Category, *params.Query)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, chat.FallbackResponse(err))
	}

	return c.JSON(http.StatusOK, res)
}
