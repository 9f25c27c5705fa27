package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrNotAuthenticated       = errors.New("not authenticated")
	ErrForbidden              = errors.New("access forbidden")
	ErrInvalidOTP             = errors.New("invalid OTP")
	ErrMissingPhone           = errors.New("phone number is required")
	ErrMissingIdentification  = errors.New("at least one identification number is required")
	ErrCameraPermissionDenied = errors.New("camera access denied")
	ErrCandidateNotFound      = errors.New("candidate not found")
	ErrMissingPrerequisite    = errors.New("missing prerequisite session data")
	ErrStepLocked             = errors.New("step is locked")
)

// StepError reports a request for a step the session cannot enter.
// Current is the step the voter should be sent to instead.
type StepError struct {
	Requested Step
	Current   Step
	Err       error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%v: cannot enter %s from %s", e.Err, e.Requested, e.Current)
}

func (e *StepError) Unwrap() error { return e.Err }

// Redirect is the route of the step the voter is currently on.
func (e *StepError) Redirect() string { return e.Current.Route() }
