package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/velora/shipping-engine/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"success": false, "error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	var maxDist *domain.MaxDistanceError
	switch {
	case errors.Is(err, domain.ErrConfigNotFound):
		return http.StatusNotFound, "vendor has no active shipping configuration"
	case errors.Is(err, domain.ErrOutOfServiceArea):
		return http.StatusUnprocessableEntity, "destination outside service area"
	case errors.As(err, &maxDist):
		return http.StatusUnprocessableEntity, maxDist.Error()
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrDistanceProvider):
		// Deliberately generic: the provider failure details stay internal.
		return http.StatusBadGateway, "failed to calculate distance, try again"
	}

	// Unexpected error (persistence included): log the real cause, return a
	// generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
