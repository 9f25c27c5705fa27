package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/securevote/voting-wizard/internal/core/domain"
)

// Context keys set by the Auth middleware.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRole     = "role"
)

// ctxUserID extracts the voter id injected by the Auth middleware. An empty
// id means the middleware did not run or the token had no subject.
func ctxUserID(c echo.Context) (string, error) {
	id, _ := c.Get(CtxUserID).(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}

// bindAndValidate decodes the request body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if c.Echo().Validator == nil {
		return nil
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}

// redirectOf returns the route a step error points the client to.
func redirectOf(err error) string {
	var stepErr *domain.StepError
	if errors.As(err, &stepErr) {
		return stepErr.Redirect()
	}
	return ""
}
