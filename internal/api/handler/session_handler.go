package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/securevote/voting-wizard/internal/core/ports"
)

// SessionHandler exposes the voter's wizard progress.
type SessionHandler struct {
	wizard ports.WizardService
}

func NewSessionHandler(wizard ports.WizardService) *SessionHandler {
	return &SessionHandler{wizard: wizard}
}

func toStateResponse(st *ports.WizardState) stateResponse {
	return stateResponse{
		User:    st.User,
		Session: st.Session,
		Current: st.Current,
		Next:    st.Next,
		Route:   st.Route,
	}
}

// State returns the stored session and the step the voter is on.
//
// @Summary      Wizard state
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  stateResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/session [get]
func (h *SessionHandler) State(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	st, err := h.wizard.State(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStateResponse(st))
}

// Reset discards the voter's wizard data but keeps the login.
//
// @Summary      Reset wizard data
// @Tags         session
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /v1/session [delete]
func (h *SessionHandler) Reset(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	if err := h.wizard.Reset(c.Request().Context(), userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Route tells the client whether it may render path, and where to go if not.
//
// @Summary      Route guard
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Param        path  query     string  true  "Client route, e.g. /voting"
// @Success      200   {object}  routeResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/session/route [get]
func (h *SessionHandler) Route(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	path := c.QueryParam("path")
	if path == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "path is required")
	}
	d, err := h.wizard.RouteFor(c.Request().Context(), userID, path)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, routeResponse{Allowed: d.Allowed, Step: d.Step, Redirect: d.Redirect})
}
