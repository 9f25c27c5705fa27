package domain

import "time"

// VoterIdentity is written by the identity step and completed by the OTP step.
type VoterIdentity struct {
	AadharNumber  string `json:"aadharNumber,omitempty"`
	PANNumber     string `json:"panNumber,omitempty"`
	VoterIDNumber string `json:"voterIdNumber,omitempty"`
	PhoneNumber   string `json:"phoneNumber,omitempty"`
	IsVerified    bool   `json:"isVerified"`
	OTPVerified   bool   `json:"otpVerified"`
}

// BiometricResult accumulates camera permission, face scan and retina scan.
type BiometricResult struct {
	CameraAccess   bool      `json:"cameraAccess"`
	FaceVerified   bool      `json:"faceVerified"`
	RetinaVerified bool      `json:"retinaVerified"`
	Timestamp      time.Time `json:"timestamp,omitempty"`
}

// Complete reports whether both biometric checks passed.
func (b *BiometricResult) Complete() bool {
	return b != nil && b.FaceVerified && b.RetinaVerified
}

type PrivacyResult struct {
	IsAlone      bool `json:"isAlone"`
	CameraAccess bool `json:"cameraAccess"`
	Verified     bool `json:"verified"`
}

type Vote struct {
	CandidateID    string    `json:"candidateId"`
	VoteID         string    `json:"voteId"`
	Timestamp      time.Time `json:"timestamp"`
	IsConfirmed    bool      `json:"isConfirmed"`
	BlockchainHash string    `json:"blockchainHash,omitempty"`
	BlockNumber    int64     `json:"blockNumber,omitempty"`
}

// VoterSession is the in-progress wizard state of one voter. A nil field has
// not been written yet.
type VoterSession struct {
	VoterData     *VoterIdentity   `json:"voterData,omitempty"`
	BiometricData *BiometricResult `json:"biometricData,omitempty"`
	PrivacyCheck  *PrivacyResult   `json:"privacyCheck,omitempty"`
	Vote          *Vote            `json:"vote,omitempty"`
}

// Merge overwrites every field that is set in partial and leaves the rest.
func (s *VoterSession) Merge(partial VoterSession) {
	if partial.VoterData != nil {
		v := *partial.VoterData
		s.VoterData = &v
	}
	if partial.BiometricData != nil {
		b := *partial.BiometricData
		s.BiometricData = &b
	}
	if partial.PrivacyCheck != nil {
		p := *partial.PrivacyCheck
		s.PrivacyCheck = &p
	}
	if partial.Vote != nil {
		v := *partial.Vote
		s.Vote = &v
	}
}

// IsEmpty reports whether no wizard step has written anything.
func (s *VoterSession) IsEmpty() bool {
	return s == nil || (s.VoterData == nil && s.BiometricData == nil && s.PrivacyCheck == nil && s.Vote == nil)
}
