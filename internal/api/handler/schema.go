package handler

import (
	"github.com/securevote/voting-wizard/internal/core/domain"
)

// errorResponse mirrors the envelope written by the central error handler.
type errorResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// ── auth ──────────────────────────────────────────────────────────────────────

type loginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=72"`
}

type authResponse struct {
	Token string              `json:"token"`
	User  *domain.AuthSession `json:"user"`
	Next  domain.Step         `json:"next"`
	Route string              `json:"route"`
}

// ── session ───────────────────────────────────────────────────────────────────

type stateResponse struct {
	User    *domain.AuthSession  `json:"user"`
	Session *domain.VoterSession `json:"session"`
	Current domain.Step          `json:"current"`
	Next    domain.Step          `json:"next"`
	Route   string               `json:"route"`
}

type routeResponse struct {
	Allowed  bool        `json:"allowed"`
	Step     domain.Step `json:"step"`
	Redirect string      `json:"redirect,omitempty"`
}

// ── voter verification ────────────────────────────────────────────────────────

// identityRequest carries up to three identification numbers. The service
// rejects a request where all of them are empty; nothing else is checked.
type identityRequest struct {
	AadharNumber  string `json:"aadharNumber"`
	PANNumber     string `json:"panNumber"`
	VoterIDNumber string `json:"voterIdNumber"`
}

type sendOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

type verifyOTPRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	OTP         string `json:"otp"         validate:"max=16"`
}

// ── biometrics ────────────────────────────────────────────────────────────────

type permissionRequest struct {
	Granted *bool `json:"granted" validate:"required"`
}

type scanResponse struct {
	Success    bool    `json:"success"`
	ScanID     string  `json:"scanId"`
	MatchScore float64 `json:"matchScore"`
	Confidence string  `json:"confidence"`
	Points     int     `json:"featurePoints"`
	Progress   []int   `json:"progress"`
}

type progressEvent struct {
	Progress int `json:"progress"`
}

// ── voting ────────────────────────────────────────────────────────────────────

type castVoteRequest struct {
	CandidateID string `json:"candidateId" validate:"required,max=8"`
}

// ── language ──────────────────────────────────────────────────────────────────

type languageRequest struct {
	Code string `json:"code" validate:"required,max=16"`
}

type i18nResponse struct {
	Language  domain.Language   `json:"language"`
	Available []domain.Language `json:"available"`
	Strings   map[string]string `json:"strings"`
}
