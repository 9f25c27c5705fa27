package domain

// Progress derives the furthest step the stored data allows. Every earlier
// step's data is checked on each call, so a hole anywhere in the chain pulls
// the voter back to the step that fills it.
func Progress(auth *AuthSession, s *VoterSession) Step {
	if auth == nil || !auth.Authenticated {
		return StepLoggedOut
	}
	if s == nil {
		return StepIDVerification
	}
	switch {
	case s.VoterData == nil || !s.VoterData.IsVerified:
		return StepIDVerification
	case !s.VoterData.OTPVerified:
		return StepOTPVerification
	case s.BiometricData == nil || !s.BiometricData.CameraAccess:
		return StepBiometricPermission
	case !s.BiometricData.FaceVerified:
		return StepFaceScan
	case !s.BiometricData.RetinaVerified:
		return StepRetinaScan
	case s.PrivacyCheck == nil || !s.PrivacyCheck.Verified:
		return StepPrivacyCheck
	case s.Vote == nil:
		return StepCandidateSelection
	case !s.Vote.IsConfirmed:
		return StepConfirmation
	default:
		return StepReceipt
	}
}

// CanEnter reports whether the voter may work on step. A step is reachable
// when its prerequisites hold. Going back is allowed until a vote exists;
// after that the verification steps are locked, and after confirmation only
// the receipt stays open.
func CanEnter(auth *AuthSession, s *VoterSession, step Step) error {
	if step == StepLoggedOut {
		return nil
	}
	current := Progress(auth, s)
	if current == StepLoggedOut {
		return ErrNotAuthenticated
	}
	if !step.Valid() || step.Index() > current.Index() {
		return &StepError{Requested: step, Current: current, Err: ErrMissingPrerequisite}
	}
	if s != nil && s.Vote != nil {
		locked := step.Index() < StepCandidateSelection.Index()
		if s.Vote.IsConfirmed {
			locked = step != StepReceipt
		}
		if locked {
			return &StepError{Requested: step, Current: current, Err: ErrStepLocked}
		}
	}
	return nil
}
