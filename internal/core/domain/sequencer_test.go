package domain

import (
	"errors"
	"testing"
)

var authed = &AuthSession{UserID: "u1", Username: "admin", Role: RoleAdmin, Authenticated: true}

// sessionAt builds the stored data a voter has when standing on step.
func sessionAt(step Step) *VoterSession {
	s := &VoterSession{}
	idx := step.Index()
	if idx > StepIDVerification.Index() {
		s.VoterData = &VoterIdentity{AadharNumber: "1", IsVerified: true}
	}
	if idx > StepOTPVerification.Index() {
		s.VoterData.OTPVerified = true
	}
	if idx > StepBiometricPermission.Index() {
		s.BiometricData = &BiometricResult{CameraAccess: true}
	}
	if idx > StepFaceScan.Index() {
		s.BiometricData.FaceVerified = true
	}
	if idx > StepRetinaScan.Index() {
		s.BiometricData.RetinaVerified = true
	}
	if idx > StepPrivacyCheck.Index() {
		s.PrivacyCheck = &PrivacyResult{IsAlone: true, CameraAccess: true, Verified: true}
	}
	if idx > StepCandidateSelection.Index() {
		s.Vote = &Vote{CandidateID: "2", VoteID: "VT12345678"}
	}
	if idx > StepConfirmation.Index() {
		s.Vote.IsConfirmed = true
	}
	return s
}

func TestProgress(t *testing.T) {
	if got := Progress(nil, sessionAt(StepReceipt)); got != StepLoggedOut {
		t.Fatalf("no auth should be logged_out, got %s", got)
	}
	if got := Progress(&AuthSession{}, nil); got != StepLoggedOut {
		t.Fatalf("unauthenticated session should be logged_out, got %s", got)
	}
	if got := Progress(authed, nil); got != StepIDVerification {
		t.Fatalf("nil voter session should be id_verification, got %s", got)
	}
	for _, step := range Steps()[1:] {
		if got := Progress(authed, sessionAt(step)); got != step {
			t.Errorf("sessionAt(%s) progressed to %s", step, got)
		}
	}
}

func TestProgress_HoleInChainPullsBack(t *testing.T) {
	s := sessionAt(StepConfirmation)
	s.VoterData.OTPVerified = false

	if got := Progress(authed, s); got != StepOTPVerification {
		t.Fatalf("expected otp_verification, got %s", got)
	}
}

func TestCanEnter(t *testing.T) {
	tests := []struct {
		name    string
		auth    *AuthSession
		at      Step
		enter   Step
		wantErr error
	}{
		{"logged out can always go home", nil, StepLoggedOut, StepLoggedOut, nil},
		{"logged out cannot start", nil, StepLoggedOut, StepIDVerification, ErrNotAuthenticated},
		{"current step", authed, StepFaceScan, StepFaceScan, nil},
		{"back before voting", authed, StepPrivacyCheck, StepFaceScan, nil},
		{"skip ahead", authed, StepFaceScan, StepCandidateSelection, ErrMissingPrerequisite},
		{"unknown step", authed, StepFaceScan, Step("warp"), ErrMissingPrerequisite},
		{"verification locked after vote", authed, StepConfirmation, StepRetinaScan, ErrStepLocked},
		{"change choice before confirmation", authed, StepConfirmation, StepCandidateSelection, nil},
		{"only receipt after confirmation", authed, StepReceipt, StepConfirmation, ErrStepLocked},
		{"receipt after confirmation", authed, StepReceipt, StepReceipt, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := CanEnter(tc.auth, sessionAt(tc.at), tc.enter)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCanEnter_StepErrorCarriesRedirect(t *testing.T) {
	err := CanEnter(authed, sessionAt(StepOTPVerification), StepConfirmation)

	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected *StepError, got %T", err)
	}
	if stepErr.Requested != StepConfirmation || stepErr.Current != StepOTPVerification {
		t.Fatalf("unexpected step error %+v", stepErr)
	}
	if stepErr.Redirect() != "/voter-login" {
		t.Fatalf("expected redirect /voter-login, got %s", stepErr.Redirect())
	}
}
