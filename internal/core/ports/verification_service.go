package ports

import (
	"context"
)

// ProgressFunc receives the synthetic completion percentage of a scan.
type ProgressFunc func(percent int)

// IdentityInput carries the identification numbers a voter submitted.
type IdentityInput struct {
	AadharNumber  string
	PANNumber     string
	VoterIDNumber string
}

// ScanResult is what a simulated biometric scanner reports.
type ScanResult struct {
	ScanID     string
	MatchScore float64
	Confidence string
	// FeaturePoints is landmarks for a face scan and vessel points for a retina scan.
	FeaturePoints int
	Progress      []int
}

// PrivacyResult is what the simulated privacy check reports.
type PrivacyResult struct {
	PersonsDetected int
	IsAlone         bool
	CameraAccess    bool
	Verified        bool
}

// VoteConfirmation is the simulated ledger receipt for a vote.
type VoteConfirmation struct {
	BlockchainHash string
	BlockNumber    int64
}

// VerificationService simulates the backend checks of the wizard. Every
// operation waits a fixed latency before answering.
type VerificationService interface {
	// VerifyLogin returns the role of the matching demo account.
	VerifyLogin(ctx context.Context, username, password string) (role string, ok bool, err error)
	VerifyIdentity(ctx context.Context, in IdentityInput) error
	SendOTP(ctx context.Context, phoneNumber string) error
	VerifyOTP(ctx context.Context, otp string) error
	ScanFace(ctx context.Context, progress ProgressFunc) (*ScanResult, error)
	ScanRetina(ctx context.Context, progress ProgressFunc) (*ScanResult, error)
	CheckPrivacy(ctx context.Context) (*PrivacyResult, error)
	CastVote(ctx context.Context, candidateID string) (voteID string, err error)
	ConfirmVote(ctx context.Context, voteID string) (*VoteConfirmation, error)
}
