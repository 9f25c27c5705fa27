package ports

import (
	"context"

	"github.com/securevote/voting-wizard/internal/core/domain"
)

// WizardState is the read model of one voter's progress.
type WizardState struct {
	User    *domain.AuthSession
	Session *domain.VoterSession
	Current domain.Step
	Next    domain.Step
	Route   string
}

// RouteDecision answers whether a client route may be shown.
type RouteDecision struct {
	Allowed  bool
	Step     domain.Step
	Redirect string
}

// OTPInput carries the second half of voter verification.
type OTPInput struct {
	PhoneNumber string
	OTP         string
}

// WizardService drives a voter through the wizard. Each call checks that the
// voter may work on its step and writes its result only on success.
type WizardService interface {
	State(ctx context.Context, userID string) (*WizardState, error)
	RouteFor(ctx context.Context, userID, route string) (*RouteDecision, error)

	SubmitIdentity(ctx context.Context, userID string, in IdentityInput) (*WizardState, error)
	SendOTP(ctx context.Context, userID, phoneNumber string) error
	VerifyOTP(ctx context.Context, userID string, in OTPInput) (*WizardState, error)

	SetCameraPermission(ctx context.Context, userID string, granted bool) (*WizardState, error)
	FaceScan(ctx context.Context, userID string, progress ProgressFunc) (*ScanResult, error)
	RetinaScan(ctx context.Context, userID string, progress ProgressFunc) (*ScanResult, error)
	CheckPrivacy(ctx context.Context, userID string) (*domain.PrivacyResult, error)

	Candidates() []domain.Candidate
	CastVote(ctx context.Context, userID, candidateID string) (*domain.Vote, error)
	ConfirmVote(ctx context.Context, userID string) (*domain.Vote, error)
	Receipt(ctx context.Context, userID string) (*domain.Receipt, error)
	Finish(ctx context.Context, userID string) error
	Reset(ctx context.Context, userID string) error
}
