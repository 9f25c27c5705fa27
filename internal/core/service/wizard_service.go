package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/securevote/voting-wizard/internal/api/metrics"
	"github.com/securevote/voting-wizard/internal/core/domain"
	"github.com/securevote/voting-wizard/internal/core/ports"
)

const receiptStatusConfirmed = "Confirmed"

// WizardService moves a voter through the wizard. Each operation loads the
// voter's data, checks the step against the sequencer, runs the simulated
// backend call and only then writes its result.
type WizardService struct {
	users    ports.AuthStore
	sessions ports.SessionStore
	verifier ports.VerificationService
	audit    ports.AuditRecorder
	log      zerolog.Logger
	now      func() time.Time
}

func NewWizardService(
	users ports.AuthStore,
	sessions ports.SessionStore,
	verifier ports.VerificationService,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *WizardService {
	return &WizardService{
		users:    users,
		sessions: sessions,
		verifier: verifier,
		audit:    audit,
		log:      log.With().Str("component", "wizard").Logger(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// load returns the voter's stored data. A logged-out user gets a nil auth
// session and no error.
func (s *WizardService) load(ctx context.Context, userID string) (*domain.AuthSession, *domain.VoterSession, error) {
	user, err := s.users.FindUser(ctx, userID)
	if errors.Is(err, domain.ErrNotAuthenticated) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	sess, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, sess, nil
}

// enter loads the voter and checks that step may be worked on.
func (s *WizardService) enter(ctx context.Context, userID string, step domain.Step) (*domain.VoterSession, error) {
	user, sess, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanEnter(user, sess, step); err != nil {
		return nil, err
	}
	return sess, nil
}

// fail records a rejected operation and wraps err with the action name.
func (s *WizardService) fail(userID string, step domain.Step, action string, err error) error {
	metrics.VerificationFailuresTotal.WithLabelValues(failureReason(err)).Inc()
	record(s.audit, userID, step, action, err)
	s.log.Info().Err(err).Str("user_id", userID).Str("step", string(step)).Msg(action + " rejected")
	return fmt.Errorf("%s: %w", action, err)
}

// commit persists partial and records the completed step.
func (s *WizardService) commit(ctx context.Context, userID string, step domain.Step, action string, partial domain.VoterSession) error {
	if err := s.sessions.Set(ctx, userID, partial); err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	metrics.StepsCompletedTotal.WithLabelValues(string(step)).Inc()
	record(s.audit, userID, step, action, nil)
	s.log.Info().Str("user_id", userID).Str("step", string(step)).Msg(action + " completed")
	return nil
}

func (s *WizardService) State(ctx context.Context, userID string) (*ports.WizardState, error) {
	user, sess, err := s.load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("wizard state: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("wizard state: %w", domain.ErrNotAuthenticated)
	}
	current := domain.Progress(user, sess)
	return &ports.WizardState{
		User:    user,
		Session: sess,
		Current: current,
		Next:    current.Next(),
		Route:   current.Route(),
	}, nil
}

// RouteFor answers whether route may be rendered. When the voter's current
// step lives on route it wins; otherwise the first reachable step on route is
// used. Anything else redirects to the current step's route.
func (s *WizardService) RouteFor(ctx context.Context, userID, route string) (*ports.RouteDecision, error) {
	user, sess, err := s.load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("route guard: %w", err)
	}
	current := domain.Progress(user, sess)
	if current.Route() == route {
		return &ports.RouteDecision{Allowed: true, Step: current}, nil
	}
	for _, step := range domain.Steps() {
		if step.Route() != route || step == domain.StepLoggedOut {
			continue
		}
		if domain.CanEnter(user, sess, step) == nil {
			return &ports.RouteDecision{Allowed: true, Step: step}, nil
		}
	}
	return &ports.RouteDecision{Allowed: false, Step: current, Redirect: current.Route()}, nil
}

func (s *WizardService) SubmitIdentity(ctx context.Context, userID string, in ports.IdentityInput) (*ports.WizardState, error) {
	const step, action = domain.StepIDVerification, "submit_identity"
	if _, err := s.enter(ctx, userID, step); err != nil {
		return nil, s.fail(userID, step, action, err)
	}
	if err := s.verifier.VerifyIdentity(ctx, in); err != nil {
		return nil, s.fail(userID, step, action, err)
	}

	voter := domain.VoterIdentity{
		AadharNumber:  in.AadharNumber,
		PANNumber:     in.PANNumber,
		VoterIDNumber: in.VoterIDNumber,
		IsVerified:    true,
	}
	if err := s.commit(ctx, userID, step, action, domain.VoterSession{VoterData: &voter}); err != nil {
		return nil, err
	}
	return s.State(ctx, userID)
}

// SendOTP triggers the simulated SMS. It writes nothing.
func (s *WizardService) SendOTP(ctx context.Context, userID, phoneNumber string) error {
	const step, action = domain.StepOTPVerification, "send_otp"
	if _, err := s.enter(ctx, userID, step); err != nil {
		return s.fail(userID, step, action, err)
	}
	if err := s.verifier.SendOTP(ctx, phoneNumber); err != nil {
		return s.fail(userID, step, action, err)
	}
	record(s.audit, userID, step, action, nil)
	return nil
}

func (s *WizardService) VerifyOTP(ctx context.Context, userID string, in ports.OTPInput) (*ports.WizardState, error) {
	const step, action = domain.StepOTPVerification, "verify_otp"
	sess, err := s.enter(ctx, userID, step)
	if err != nil {
		return nil, s.fail(userID, step, action, err)
	}
	if err := s.verifier.VerifyOTP(ctx, in.OTP); err != nil {
		return nil, s.fail(userID, step, action, err)
	}

	voter := *sess.VoterData
	voter.OTPVerified = true
	if in.PhoneNumber != "" {
		voter.PhoneNumber = in.PhoneNumber
	}
	if err := s.commit(ctx, userID, step, action, domain.VoterSession{VoterData: &voter}); err != nil {
		return nil, err
	}
	return s.State(ctx, userID)
}

// SetCameraPermission records the client's camera decision. A denial writes
// nothing and leaves the voter on the permission step.
func (s *WizardService) SetCameraPermission(ctx context.Context, userID string, granted bool) (*ports.WizardState, error) {
	const step, action = domain.StepBiometricPermission, "camera_permission"
	sess, err := s.enter(ctx, userID, step)
	if err != nil {
		return nil, s.fail(userID, step, action, err)
	}
	if !granted {
		return nil, s.fail(userID, step, action, domain.ErrCameraPermissionDenied)
	}

	bio := biometricOf(sess)
	bio.CameraAccess = true
	bio.Timestamp = s.now()
	if err := s.commit(ctx, userID, step, action, domain.VoterSession{BiometricData: &bio}); err != nil {
		return nil, err
	}
	return s.State(ctx, userID)
}

func (s *WizardService) FaceScan(ctx context.Context, userID string, progress ports.ProgressFunc) (*ports.ScanResult, error) {
	const step, action = domain.StepFaceScan, "face_scan"
	if _, err := s.enter(ctx, userID, step); err != nil {
		return nil, s.fail(userID, step, action, err)
	}
	res, err := s.verifier.ScanFace(ctx, progress)
	if err != nil {
		return nil, s.fail(userID, step, action, err)
	}

	// Reload: the scan can run for seconds.
	sess, err := s.enter(ctx, userID, step)
	if err != nil {
		return nil, s.fail(userID, step, action, err)
	}
	bio := biometricOf(sess)
	bio.FaceVerified = true
	bio.Timestamp = s.now()
	if err := s.commit(ctx, userID, step, action, domain.VoterSession{BiometricData: &bio}); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *WizardService) RetinaScan(ctx context.Context, userID string, progress ports.ProgressFunc) (*ports.ScanResult, error) {
	const step, action = domain.StepRetinaScan, "retina_scan"
	if _, err := s.enter(ctx, userID, step); err != nil {
		return nil, s.fail(userID, step, action, err)
	}
	res, err := s.verifier.ScanRetina(ctx, progress)
	if err != nil {
		return nil, s.fail(userID, step, action, err)
	}

	sess, err := s.enter(ctx, userID, step)
	if err != nil {
		return nil, s.fail(userID, step, action, err)
	}
	bio := biometricOf(sess)
	bio.RetinaVerified = true
	bio.Timestamp = s.now()
	if err := s.commit(ctx, userID, step, action, domain.VoterSession{BiometricData: &bio}); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *WizardService) CheckPrivacy(ctx context.Context, userID string) (*domain.PrivacyResult, error) {
	const step, action = domain.StepPrivacyCheck, "privacy_check"
	if _, err := s.enter(ctx, userID, step); err != nil {
		return nil, s.fail(userID, step, action, err)
	}
	res, err := s.verifier.CheckPrivacy(ctx)
	if err != nil {
		return nil, s.fail(userID, step, action, err)
	}

	privacy := domain.PrivacyResult{IsAlone: res.IsAlone, CameraAccess: res.CameraAccess, Verified: res.Verified}
	if err := s.commit(ctx, userID, step, action, domain.VoterSession{PrivacyCheck: &privacy}); err != nil {
		return nil, err
	}
	return &privacy, nil
}

func (s *WizardService) Candidates() []domain.Candidate {
	return domain.Candidates()
}

// CastVote records an unconfirmed vote. Casting again before confirmation
// replaces the earlier choice.
func (s *WizardService) CastVote(ctx context.Context, userID, candidateID string) (*domain.Vote, error) {
	const step, action = domain.StepCandidateSelection, "cast_vote"
	if _, err := s.enter(ctx, userID, step); err != nil {
		return nil, s.fail(userID, step, action, err)
	}
	if _, ok := domain.FindCandidate(candidateID); !ok {
		return nil, s.fail(userID, step, action, domain.ErrCandidateNotFound)
	}
	voteID, err := s.verifier.CastVote(ctx, candidateID)
	if err != nil {
		return nil, s.fail(userID, step, action, err)
	}

	vote := domain.Vote{CandidateID: candidateID, VoteID: voteID, Timestamp: s.now()}
	if err := s.commit(ctx, userID, step, action, domain.VoterSession{Vote: &vote}); err != nil {
		return nil, err
	}
	metrics.VotesCastTotal.WithLabelValues(candidateID).Inc()
	return &vote, nil
}

// ConfirmVote seals the cast vote. Progress only reaches the confirmation
// step when face and retina are both verified.
func (s *WizardService) ConfirmVote(ctx context.Context, userID string) (*domain.Vote, error) {
	const step, action = domain.StepConfirmation, "confirm_vote"
	sess, err := s.enter(ctx, userID, step)
	if err != nil {
		return nil, s.fail(userID, step, action, err)
	}
	if !sess.BiometricData.Complete() {
		return nil, s.fail(userID, step, action, &domain.StepError{
			Requested: step, Current: domain.StepFaceScan, Err: domain.ErrMissingPrerequisite,
		})
	}
	conf, err := s.verifier.ConfirmVote(ctx, sess.Vote.VoteID)
	if err != nil {
		return nil, s.fail(userID, step, action, err)
	}

	vote := *sess.Vote
	vote.IsConfirmed = true
	vote.BlockchainHash = conf.BlockchainHash
	vote.BlockNumber = conf.BlockNumber
	if err := s.commit(ctx, userID, step, action, domain.VoterSession{Vote: &vote}); err != nil {
		return nil, err
	}
	metrics.VotesConfirmedTotal.Inc()
	return &vote, nil
}

func (s *WizardService) Receipt(ctx context.Context, userID string) (*domain.Receipt, error) {
	sess, err := s.enter(ctx, userID, domain.StepReceipt)
	if err != nil {
		return nil, fmt.Errorf("receipt: %w", err)
	}
	vote := sess.Vote
	c, ok := domain.FindCandidate(vote.CandidateID)
	if !ok {
		return nil, fmt.Errorf("receipt: %w", domain.ErrCandidateNotFound)
	}
	return &domain.Receipt{
		VoteID:         vote.VoteID,
		Candidate:      c.Name,
		Party:          c.Party,
		Symbol:         c.Symbol,
		Timestamp:      vote.Timestamp,
		BlockchainHash: vote.BlockchainHash,
		BlockNumber:    vote.BlockNumber,
		Status:         receiptStatusConfirmed,
	}, nil
}

// Finish closes the wizard after the receipt and logs the booth out.
func (s *WizardService) Finish(ctx context.Context, userID string) error {
	const step, action = domain.StepReceipt, "finish"
	if _, err := s.enter(ctx, userID, step); err != nil {
		return s.fail(userID, step, action, err)
	}
	if err := s.sessions.Clear(ctx, userID); err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	record(s.audit, userID, step, action, nil)
	return nil
}

// Reset discards all wizard data but keeps the voter logged in.
func (s *WizardService) Reset(ctx context.Context, userID string) error {
	user, _, err := s.load(ctx, userID)
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	if user == nil {
		return fmt.Errorf("reset: %w", domain.ErrNotAuthenticated)
	}
	if err := s.sessions.Clear(ctx, userID); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	record(s.audit, userID, domain.StepIDVerification, "reset", nil)
	return nil
}

func biometricOf(sess *domain.VoterSession) domain.BiometricResult {
	if sess == nil || sess.BiometricData == nil {
		return domain.BiometricResult{}
	}
	return *sess.BiometricData
}

// failureReason maps an error to a low-cardinality metric label.
func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		return "not_authenticated"
	case errors.Is(err, domain.ErrMissingPrerequisite):
		return "missing_prerequisite"
	case errors.Is(err, domain.ErrStepLocked):
		return "step_locked"
	case errors.Is(err, domain.ErrMissingIdentification):
		return "missing_identification"
	case errors.Is(err, domain.ErrMissingPhone):
		return "missing_phone"
	case errors.Is(err, domain.ErrInvalidOTP):
		return "invalid_otp"
	case errors.Is(err, domain.ErrCameraPermissionDenied):
		return "camera_denied"
	case errors.Is(err, domain.ErrCandidateNotFound):
		return "candidate_not_found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "internal"
	}
}
