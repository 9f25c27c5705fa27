package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/securevote/voting-wizard/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Redirect
// is set when the voter asked for a step it cannot enter yet.
type errorResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "redirect": "<route>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Step gating errors carry the route the client should go back to.
	var stepErr *domain.StepError
	if errors.As(err, &stepErr) {
		return http.StatusConflict, errorResponse{Error: stepErr.Err.Error(), Redirect: stepErr.Redirect()}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, errorResponse{Error: "not authenticated", Redirect: domain.StepLoggedOut.Route()}
	case errors.Is(err, domain.ErrInvalidOTP):
		return http.StatusUnauthorized, errorResponse{Error: "invalid OTP"}
	case errors.Is(err, domain.ErrMissingIdentification),
		errors.Is(err, domain.ErrMissingPhone):
		return http.StatusUnprocessableEntity, errorResponse{Error: rootMessage(err)}
	case errors.Is(err, domain.ErrCameraPermissionDenied):
		return http.StatusForbidden, errorResponse{Error: "camera access denied"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	case errors.Is(err, domain.ErrMissingPrerequisite),
		errors.Is(err, domain.ErrStepLocked):
		return http.StatusConflict, errorResponse{Error: rootMessage(err)}
	case errors.Is(err, domain.ErrCandidateNotFound):
		return http.StatusNotFound, errorResponse{Error: "candidate not found"}
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout, errorResponse{Error: "request cancelled"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

// rootMessage drops the "op:" prefixes services add while wrapping.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
