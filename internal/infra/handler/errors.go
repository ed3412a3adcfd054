package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-chat-reminder/internal/app"
)

func handleError(c *gin.Context, err error) {
	var validationErr *app.ValidationError
	if errors.As(err, &validationErr) {
		slog.WarnContext(c.Request.Context(), "request rejected",
			"field", validationErr.Field,
			"message", validationErr.Message,
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: validationErr.Message,
			Field:   validationErr.Field,
		})

		return
	}

	if errors.Is(err, app.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "resource not found",
		})

		return
	}

	if errors.Is(err, app.ErrUpstream) {
		slog.ErrorContext(c.Request.Context(), "upstream failure",
			"error", err,
			"path", c.Request.URL.Path,
		)
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "upstream_error",
			Message: "an upstream service failed",
		})

		return
	}

	slog.ErrorContext(c.Request.Context(), "internal failure",
		"error", err,
		"path", c.Request.URL.Path,
	)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "an internal error occurred",
	})
}

func bindError(c *gin.Context, err error) {
	slog.WarnContext(c.Request.Context(), "request validation failed",
		"error", err,
		"path", c.Request.URL.Path,
	)
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}
