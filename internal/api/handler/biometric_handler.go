package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/securevote/voting-wizard/internal/core/ports"
)

// BiometricHandler serves camera permission, the two scans and the privacy
// check.
type BiometricHandler struct {
	wizard ports.WizardService
}

func NewBiometricHandler(wizard ports.WizardService) *BiometricHandler {
	return &BiometricHandler{wizard: wizard}
}

// Permission records whether the voter allowed camera access.
//
// @Summary      Camera permission
// @Tags         biometric
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      permissionRequest  true  "Permission decision"
// @Success      200   {object}  stateResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/biometric/permission [post]
func (h *BiometricHandler) Permission(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req permissionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Granted == nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "granted is required")
	}

	st, err := h.wizard.SetCameraPermission(c.Request().Context(), userID, *req.Granted)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStateResponse(st))
}

// FaceScan runs the simulated face scan.
//
// @Summary      Face scan
// @Description  With stream=true the response is text/event-stream: "progress" events, then one "result" or "error" event.
// @Tags         biometric
// @Produce      json
// @Security     BearerAuth
// @Param        stream  query     bool  false  "Stream progress as server-sent events"
// @Success      200     {object}  scanResponse
// @Failure      409     {object}  errorResponse
// @Router       /v1/biometric/face-scan [post]
func (h *BiometricHandler) FaceScan(c echo.Context) error {
	return h.scan(c, h.wizard.FaceScan)
}

// RetinaScan runs the simulated retina scan.
//
// @Summary      Retina scan
// @Description  With stream=true the response is text/event-stream: "progress" events, then one "result" or "error" event.
// @Tags         biometric
// @Produce      json
// @Security     BearerAuth
// @Param        stream  query     bool  false  "Stream progress as server-sent events"
// @Success      200     {object}  scanResponse
// @Failure      409     {object}  errorResponse
// @Router       /v1/biometric/retina-scan [post]
func (h *BiometricHandler) RetinaScan(c echo.Context) error {
	return h.scan(c, h.wizard.RetinaScan)
}

func (h *BiometricHandler) scan(
	c echo.Context,
	run func(ctx context.Context, userID string, progress ports.ProgressFunc) (*ports.ScanResult, error),
) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	stream, _ := strconv.ParseBool(c.QueryParam("stream"))
	if !stream {
		res, err := run(c.Request().Context(), userID, nil)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, toScanResponse(res))
	}

	// Headers are sent with the first event, so a request rejected before
	// scanning starts still gets a normal error status.
	w := c.Response()
	start := func() {
		if w.Committed {
			return
		}
		w.Header().Set(echo.HeaderContentType, "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
	}

	res, err := run(c.Request().Context(), userID, func(p int) {
		start()
		writeEvent(w, "progress", progressEvent{Progress: p})
	})
	if err != nil {
		if !w.Committed {
			return err
		}
		writeEvent(w, "error", errorResponse{Error: err.Error(), Redirect: redirectOf(err)})
		return nil
	}
	start()
	writeEvent(w, "result", toScanResponse(res))
	return nil
}

// PrivacyCheck confirms the voter is alone in the booth.
//
// @Summary      Privacy check
// @Tags         biometric
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.PrivacyResult
// @Failure      409  {object}  errorResponse
// @Router       /v1/biometric/privacy-check [post]
func (h *BiometricHandler) PrivacyCheck(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	res, err := h.wizard.CheckPrivacy(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func toScanResponse(r *ports.ScanResult) scanResponse {
	return scanResponse{
		Success:    true,
		ScanID:     r.ScanID,
		MatchScore: r.MatchScore,
		Confidence: r.Confidence,
		Points:     r.FeaturePoints,
		Progress:   r.Progress,
	}
}

// writeEvent writes one server-sent event and flushes it to the client.
func writeEvent(w *echo.Response, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	w.Flush()
}
