package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/securevote/voting-wizard/internal/core/ports"
)

// VotingHandler serves the ballot, vote casting, confirmation and receipt.
type VotingHandler struct {
	wizard ports.WizardService
}

func NewVotingHandler(wizard ports.WizardService) *VotingHandler {
	return &VotingHandler{wizard: wizard}
}

// Candidates lists the ballot.
//
// @Summary      List candidates
// @Tags         voting
// @Produce      json
// @Success      200  {array}  domain.Candidate
// @Router       /v1/voting/candidates [get]
func (h *VotingHandler) Candidates(c echo.Context) error {
	return c.JSON(http.StatusOK, h.wizard.Candidates())
}

// Cast records the voter's choice. It stays changeable until confirmed.
//
// @Summary      Cast vote
// @Tags         voting
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      castVoteRequest  true  "Chosen candidate"
// @Success      201   {object}  domain.Vote
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/voting/cast [post]
func (h *VotingHandler) Cast(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req castVoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	vote, err := h.wizard.CastVote(c.Request().Context(), userID, req.CandidateID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, vote)
}

// Confirm seals the cast vote on the simulated ledger.
//
// @Summary      Confirm vote
// @Tags         voting
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Vote
// @Failure      409  {object}  errorResponse
// @Router       /v1/voting/confirm [post]
func (h *VotingHandler) Confirm(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	vote, err := h.wizard.ConfirmVote(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vote)
}

// Receipt returns the proof of a confirmed vote.
//
// @Summary      Vote receipt
// @Tags         voting
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Receipt
// @Failure      409  {object}  errorResponse
// @Router       /v1/voting/receipt [get]
func (h *VotingHandler) Receipt(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	receipt, err := h.wizard.Receipt(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, receipt)
}

// Finish closes the wizard from the receipt page and logs the booth out.
//
// @Summary      Finish
// @Tags         voting
// @Security     BearerAuth
// @Success      200  {object}  routeResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/voting/finish [post]
func (h *VotingHandler) Finish(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	if err := h.wizard.Finish(c.Request().Context(), userID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, routeResponse{Allowed: true, Step: "logged_out", Redirect: "/"})
}
