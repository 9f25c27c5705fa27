package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/securevote/voting-wizard/internal/core/ports"
)

// VoterHandler serves identity and OTP verification.
type VoterHandler struct {
	wizard ports.WizardService
}

func NewVoterHandler(wizard ports.WizardService) *VoterHandler {
	return &VoterHandler{wizard: wizard}
}

// VerifyIdentity checks the submitted identification numbers.
//
// @Summary      Verify voter identity
// @Description  At least one of aadharNumber, panNumber or voterIdNumber must be set.
// @Tags         voter
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      identityRequest  true  "Identification numbers"
// @Success      200   {object}  stateResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/voter/verify [post]
func (h *VoterHandler) VerifyIdentity(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req identityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	st, err := h.wizard.SubmitIdentity(c.Request().Context(), userID, ports.IdentityInput{
		AadharNumber:  req.AadharNumber,
		PANNumber:     req.PANNumber,
		VoterIDNumber: req.VoterIDNumber,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStateResponse(st))
}

// SendOTP sends the demo one-time password to the voter's phone.
//
// @Summary      Send OTP
// @Tags         voter
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sendOTPRequest  true  "Phone number"
// @Success      202   {object}  messageResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/otp/send [post]
func (h *VoterHandler) SendOTP(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req sendOTPRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.wizard.SendOTP(c.Request().Context(), userID, req.PhoneNumber); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, messageResponse{Message: "OTP sent"})
}

// VerifyOTP completes voter verification.
//
// @Summary      Verify OTP
// @Tags         voter
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      verifyOTPRequest  true  "OTP"
// @Success      200   {object}  stateResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/otp/verify [post]
func (h *VoterHandler) VerifyOTP(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req verifyOTPRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	st, err := h.wizard.VerifyOTP(c.Request().Context(), userID, ports.OTPInput{
		PhoneNumber: req.PhoneNumber,
		OTP:         req.OTP,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStateResponse(st))
}
