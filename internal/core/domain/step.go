package domain

// Step is one screen of the linear voting wizard.
type Step string

const (
	StepLoggedOut           Step = "logged_out"
	StepIDVerification      Step = "id_verification"
	StepOTPVerification     Step = "otp_verification"
	StepBiometricPermission Step = "biometric_permission"
	StepFaceScan            Step = "face_scan"
	StepRetinaScan          Step = "retina_scan"
	StepPrivacyCheck        Step = "privacy_check"
	StepCandidateSelection  Step = "candidate_selection"
	StepConfirmation        Step = "confirmation"
	StepReceipt             Step = "receipt"
)

// stepOrder is the only path through the wizard. Receipt wraps to LoggedOut.
var stepOrder = []Step{
	StepLoggedOut,
	StepIDVerification,
	StepOTPVerification,
	StepBiometricPermission,
	StepFaceScan,
	StepRetinaScan,
	StepPrivacyCheck,
	StepCandidateSelection,
	StepConfirmation,
	StepReceipt,
}

var stepRoutes = map[Step]string{
	StepLoggedOut:           "/",
	StepIDVerification:      "/voter-login",
	StepOTPVerification:     "/voter-login",
	StepBiometricPermission: "/biometric-scan",
	StepFaceScan:            "/biometric-scan",
	StepRetinaScan:          "/biometric-scan",
	StepPrivacyCheck:        "/voting",
	StepCandidateSelection:  "/voting",
	StepConfirmation:        "/confirmation",
	StepReceipt:             "/receipt",
}

// Steps returns the wizard steps in order.
func Steps() []Step {
	out := make([]Step, len(stepOrder))
	copy(out, stepOrder)
	return out
}

// Index is the position of s in the wizard, or -1 for an unknown step.
func (s Step) Index() int {
	for i, step := range stepOrder {
		if step == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is a known step.
func (s Step) Valid() bool { return s.Index() >= 0 }

// Next returns the successor of s. The receipt step resets to logged_out.
func (s Step) Next() Step {
	i := s.Index()
	if i < 0 || i == len(stepOrder)-1 {
		return StepLoggedOut
	}
	return stepOrder[i+1]
}

// Route is the client route that renders s.
func (s Step) Route() string {
	if r, ok := stepRoutes[s]; ok {
		return r
	}
	return "/"
}

// FirstStepForRoute maps a client route back to the earliest step it renders.
func FirstStepForRoute(route string) (Step, bool) {
	for _, step := range stepOrder {
		if stepRoutes[step] == route {
			return step, true
		}
	}
	return "", false
}
