package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/securevote/voting-wizard/internal/core/domain"
	"github.com/securevote/voting-wizard/internal/core/ports"
)

// AuditHandler lists wizard events for administrators.
type AuditHandler struct {
	audit ports.AuditService
}

func NewAuditHandler(audit ports.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List handles GET /v1/admin/audit.
//
// @Summary      List audit events
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  query     string  false  "Voter id"
// @Param        step     query     string  false  "Wizard step"
// @Param        since    query     string  false  "RFC 3339 lower bound"
// @Param        limit    query     int     false  "Max events (default 100)"
// @Success      200      {array}   domain.WizardEvent
// @Failure      400      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Router       /v1/admin/audit [get]
func (h *AuditHandler) List(c echo.Context) error {
	filter := ports.AuditFilter{UserID: c.QueryParam("user_id")}

	if s := c.QueryParam("step"); s != "" {
		step := domain.Step(s)
		if !step.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown step")
		}
		filter.Step = step
	}
	if s := c.QueryParam("since"); s != "" {
		since, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "since must be RFC 3339")
		}
		filter.Since = since
	}
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		filter.Limit = n
	}

	events, err := h.audit.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}
