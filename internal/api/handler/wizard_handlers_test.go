package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/securevote/voting-wizard/internal/core/domain"
	"github.com/securevote/voting-wizard/internal/core/ports"
)

func stateAt(step domain.Step) *ports.WizardState {
	return &ports.WizardState{
		User:    &domain.AuthSession{UserID: testUserID, Authenticated: true},
		Session: &domain.VoterSession{},
		Current: step,
		Next:    step.Next(),
		Route:   step.Route(),
	}
}

// ---- session ----

func TestSessionHandler_State(t *testing.T) {
	wizard := &stubWizard{
		stateFn: func(ctx context.Context, userID string) (*ports.WizardState, error) {
			return stateAt(domain.StepFaceScan), nil
		},
	}
	c, rec := newContext(http.MethodGet, "/v1/session", "")
	if err := NewSessionHandler(wizard).State(authed(c)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp stateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Current != domain.StepFaceScan || resp.Route != "/biometric-scan" || resp.Next != domain.StepRetinaScan {
		t.Fatalf("unexpected state: %+v", resp)
	}
}

func TestSessionHandler_Reset(t *testing.T) {
	called := false
	wizard := &stubWizard{
		resetFn: func(ctx context.Context, userID string) error {
			called = userID == testUserID
			return nil
		},
	}
	c, rec := newContext(http.MethodDelete, "/v1/session", "")
	if err := NewSessionHandler(wizard).Reset(authed(c)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || !called {
		t.Fatalf("expected 204 and a reset call, got %d %v", rec.Code, called)
	}
}

func TestSessionHandler_Route(t *testing.T) {
	wizard := &stubWizard{
		routeForFn: func(ctx context.Context, userID, route string) (*ports.RouteDecision, error) {
			if route != "/voting" {
				t.Fatalf("unexpected route %q", route)
			}
			return &ports.RouteDecision{Allowed: false, Step: domain.StepOTPVerification, Redirect: "/voter-login"}, nil
		},
	}
	h := NewSessionHandler(wizard)

	c, rec := newContext(http.MethodGet, "/v1/session/route?path=/voting", "")
	if err := h.Route(authed(c)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp routeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Allowed || resp.Redirect != "/voter-login" {
		t.Fatalf("expected redirect to /voter-login, got %+v", resp)
	}

	c, _ = newContext(http.MethodGet, "/v1/session/route", "")
	if got := httpCode(t, h.Route(authed(c))); got != http.StatusBadRequest {
		t.Fatalf("expected 400 without path, got %d", got)
	}
}

// ---- voter verification ----

func TestVoterHandler_VerifyIdentity(t *testing.T) {
	wizard := &stubWizard{
		identityFn: func(ctx context.Context, userID string, in ports.IdentityInput) (*ports.WizardState, error) {
			if in.PANNumber != "ABCDE1234F" {
				t.Fatalf("unexpected input %+v", in)
			}
			return stateAt(domain.StepOTPVerification), nil
		},
	}
	c, rec := newContext(http.MethodPost, "/v1/voter/identity", `{"panNumber":"ABCDE1234F"}`)
	if err := NewVoterHandler(wizard).VerifyIdentity(authed(c)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestVoterHandler_VerifyIdentity_AnyContentPasses(t *testing.T) {
	long := strings.Repeat("V", 40)
	for _, body := range []string{
		`{"voterIdNumber":"` + long + `"}`,
		`{"panNumber":"   "}`,
		`{"aadharNumber":"!!??"}`,
	} {
		var got ports.IdentityInput
		wizard := &stubWizard{
			identityFn: func(ctx context.Context, userID string, in ports.IdentityInput) (*ports.WizardState, error) {
				got = in
				return stateAt(domain.StepOTPVerification), nil
			},
		}
		c, rec := newContext(http.MethodPost, "/v1/voter/verify", body)
		if err := NewVoterHandler(wizard).VerifyIdentity(authed(c)); err != nil {
			t.Fatalf("%s: handler error: %v", body, err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", body, rec.Code)
		}
		if got.VoterIDNumber+got.PANNumber+got.AadharNumber == "" {
			t.Fatalf("%s: identification not passed through", body)
		}
	}
}

func TestVoterHandler_SendOTP(t *testing.T) {
	var phone string
	wizard := &stubWizard{
		sendOTPFn: func(ctx context.Context, userID, p string) error {
			phone = p
			return nil
		},
	}
	h := NewVoterHandler(wizard)

	c, rec := newContext(http.MethodPost, "/v1/voter/otp/send", `{"phoneNumber":"+91 98765 43210"}`)
	if err := h.SendOTP(authed(c)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted || phone != "+91 98765 43210" {
		t.Fatalf("expected 202 for the phone, got %d %q", rec.Code, phone)
	}

	// Only presence is checked, not format.
	c, rec = newContext(http.MethodPost, "/v1/voter/otp/send", `{"phoneNumber":"call me"}`)
	if err := h.SendOTP(authed(c)); err != nil || rec.Code != http.StatusAccepted || phone != "call me" {
		t.Fatalf("expected 202 for any non-empty phone, got %d (%v)", rec.Code, err)
	}

	c, _ = newContext(http.MethodPost, "/v1/voter/otp/send", `{"phoneNumber":""}`)
	if got := httpCode(t, h.SendOTP(authed(c))); got != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for a missing phone, got %d", got)
	}
}

func TestVoterHandler_VerifyOTP_WrongCode(t *testing.T) {
	wizard := &stubWizard{
		verifyOTPFn: func(ctx context.Context, userID string, in ports.OTPInput) (*ports.WizardState, error) {
			return nil, domain.ErrInvalidOTP
		},
	}
	c, _ := newContext(http.MethodPost, "/v1/voter/otp/verify", `{"otp":"000000"}`)
	if err := NewVoterHandler(wizard).VerifyOTP(authed(c)); !errors.Is(err, domain.ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP, got %v", err)
	}
}

// ---- biometrics ----

func TestBiometricHandler_Permission(t *testing.T) {
	var granted *bool
	wizard := &stubWizard{
		permissionFn: func(ctx context.Context, userID string, g bool) (*ports.WizardState, error) {
			granted = &g
			if !g {
				return nil, domain.ErrCameraPermissionDenied
			}
			return stateAt(domain.StepFaceScan), nil
		},
	}
	h := NewBiometricHandler(wizard)

	c, rec := newContext(http.MethodPost, "/v1/biometric/permission", `{"granted":true}`)
	if err := h.Permission(authed(c)); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", rec.Code, err)
	}

	c, _ = newContext(http.MethodPost, "/v1/biometric/permission", `{"granted":false}`)
	if err := h.Permission(authed(c)); !errors.Is(err, domain.ErrCameraPermissionDenied) {
		t.Fatalf("expected ErrCameraPermissionDenied, got %v", err)
	}

	granted = nil
	c, _ = newContext(http.MethodPost, "/v1/biometric/permission", `{}`)
	if got := httpCode(t, h.Permission(authed(c))); got != http.StatusUnprocessableEntity || granted != nil {
		t.Fatalf("expected 422 without a decision, got %d", got)
	}
}

func faceResult() *ports.ScanResult {
	return &ports.ScanResult{ScanID: "face_01abc", MatchScore: 0.9847, Confidence: "HIGH", FeaturePoints: 68, Progress: []int{0, 50, 100}}
}

func TestBiometricHandler_FaceScan_JSON(t *testing.T) {
	wizard := &stubWizard{
		faceScanFn: func(ctx context.Context, userID string, progress ports.ProgressFunc) (*ports.ScanResult, error) {
			if progress != nil {
				t.Fatalf("plain requests should not stream progress")
			}
			return faceResult(), nil
		},
	}
	c, rec := newContext(http.MethodPost, "/v1/biometric/face-scan", "")
	if err := NewBiometricHandler(wizard).FaceScan(authed(c)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp scanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success || resp.Points != 68 || len(resp.Progress) != 3 {
		t.Fatalf("unexpected scan response: %+v", resp)
	}
}

func TestBiometricHandler_FaceScan_Stream(t *testing.T) {
	wizard := &stubWizard{
		faceScanFn: func(ctx context.Context, userID string, progress ports.ProgressFunc) (*ports.ScanResult, error) {
			for _, p := range []int{0, 50, 100} {
				progress(p)
			}
			return faceResult(), nil
		},
	}
	c, rec := newContext(http.MethodPost, "/v1/biometric/face-scan?stream=true", "")
	if err := NewBiometricHandler(wizard).FaceScan(authed(c)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected event stream, got %q", ct)
	}
	body := rec.Body.String()
	if strings.Count(body, "event: progress\n") != 3 {
		t.Fatalf("expected three progress events, got:\n%s", body)
	}
	if !strings.Contains(body, "data: {\"progress\":50}\n\n") {
		t.Fatalf("missing progress payload:\n%s", body)
	}
	if !strings.Contains(body, "event: result\ndata: {\"success\":true,\"scanId\":\"face_01abc\"") {
		t.Fatalf("missing result event:\n%s", body)
	}
}

func TestBiometricHandler_Stream_RejectedBeforeStart(t *testing.T) {
	stepErr := &domain.StepError{Requested: domain.StepRetinaScan, Current: domain.StepFaceScan, Err: domain.ErrMissingPrerequisite}
	wizard := &stubWizard{
		retinaScanFn: func(ctx context.Context, userID string, progress ports.ProgressFunc) (*ports.ScanResult, error) {
			return nil, stepErr
		},
	}
	c, rec := newContext(http.MethodPost, "/v1/biometric/retina-scan?stream=1", "")
	err := NewBiometricHandler(wizard).RetinaScan(authed(c))
	if !errors.Is(err, domain.ErrMissingPrerequisite) {
		t.Fatalf("expected the step error to reach the error handler, got %v", err)
	}
	if c.Response().Committed || rec.Body.Len() != 0 {
		t.Fatalf("nothing should be written before the scan starts")
	}
}

func TestBiometricHandler_Stream_FailureAfterStart(t *testing.T) {
	wizard := &stubWizard{
		retinaScanFn: func(ctx context.Context, userID string, progress ports.ProgressFunc) (*ports.ScanResult, error) {
			progress(0)
			return nil, &domain.StepError{Requested: domain.StepRetinaScan, Current: domain.StepBiometricPermission, Err: domain.ErrStepLocked}
		},
	}
	c, rec := newContext(http.MethodPost, "/v1/biometric/retina-scan?stream=true", "")
	if err := NewBiometricHandler(wizard).RetinaScan(authed(c)); err != nil {
		t.Fatalf("errors after the stream started should be sent as events, got %v", err)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "event: error\n") || !strings.Contains(body, `"redirect":"/biometric-scan"`) {
		t.Fatalf("missing error event:\n%s", body)
	}
}

// ---- voting ----

func TestVotingHandler_Candidates(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/v1/voting/candidates", "")
	if err := NewVotingHandler(&stubWizard{}).Candidates(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var got []domain.Candidate
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got) != 4 || got[1].Name != "Ms. Priya Sharma" {
		t.Fatalf("unexpected ballot: %+v", got)
	}
}

func TestVotingHandler_Cast(t *testing.T) {
	wizard := &stubWizard{
		castVoteFn: func(ctx context.Context, userID, candidateID string) (*domain.Vote, error) {
			if candidateID == "9" {
				return nil, domain.ErrCandidateNotFound
			}
			return &domain.Vote{CandidateID: candidateID, VoteID: "VT00123456"}, nil
		},
	}
	h := NewVotingHandler(wizard)

	c, rec := newContext(http.MethodPost, "/v1/voting/cast", `{"candidateId":"2"}`)
	if err := h.Cast(authed(c)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated || !strings.Contains(rec.Body.String(), `"voteId":"VT00123456"`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}

	c, _ = newContext(http.MethodPost, "/v1/voting/cast", `{"candidateId":"9"}`)
	if err := h.Cast(authed(c)); !errors.Is(err, domain.ErrCandidateNotFound) {
		t.Fatalf("expected ErrCandidateNotFound, got %v", err)
	}

	c, _ = newContext(http.MethodPost, "/v1/voting/cast", `{}`)
	if got := httpCode(t, h.Cast(authed(c))); got != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", got)
	}
}

func TestVotingHandler_ConfirmAndReceipt(t *testing.T) {
	wizard := &stubWizard{
		confirmVoteFn: func(ctx context.Context, userID string) (*domain.Vote, error) {
			return &domain.Vote{VoteID: "VT1", IsConfirmed: true, BlockNumber: 18_000_001}, nil
		},
		receiptFn: func(ctx context.Context, userID string) (*domain.Receipt, error) {
			return &domain.Receipt{VoteID: "VT1", Candidate: "Ms. Priya Sharma", Status: "Confirmed"}, nil
		},
	}
	h := NewVotingHandler(wizard)

	c, rec := newContext(http.MethodPost, "/v1/voting/confirm", "")
	if err := h.Confirm(authed(c)); err != nil || !strings.Contains(rec.Body.String(), `"isConfirmed":true`) {
		t.Fatalf("unexpected confirm response %s (%v)", rec.Body.String(), err)
	}

	c, rec = newContext(http.MethodGet, "/v1/voting/receipt", "")
	if err := h.Receipt(authed(c)); err != nil || !strings.Contains(rec.Body.String(), `"status":"Confirmed"`) {
		t.Fatalf("unexpected receipt response %s (%v)", rec.Body.String(), err)
	}
}

func TestVotingHandler_Finish(t *testing.T) {
	wizard := &stubWizard{
		finishFn: func(ctx context.Context, userID string) error { return nil },
	}
	c, rec := newContext(http.MethodPost, "/v1/voting/finish", "")
	if err := NewVotingHandler(wizard).Finish(authed(c)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp routeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Step != domain.StepLoggedOut || resp.Redirect != "/" {
		t.Fatalf("expected to be sent to the landing page, got %+v", resp)
	}
}
