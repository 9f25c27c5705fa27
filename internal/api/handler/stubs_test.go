package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/securevote/voting-wizard/internal/core/domain"
	"github.com/securevote/voting-wizard/internal/core/ports"
)

const testUserID = "7d0c8c1e-4a43-4c8e-a0a4-3a8f0e1d2b55"

// newContext builds an echo context with the production validator installed.
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// authed marks c as coming from an authenticated voter.
func authed(c echo.Context) echo.Context {
	c.Set(CtxUserID, testUserID)
	c.Set(CtxUsername, "voter1")
	c.Set(CtxRole, domain.RoleVoter)
	return c
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	return he.Code
}

// ---- stub wizard service ----

type stubWizard struct {
	stateFn       func(ctx context.Context, userID string) (*ports.WizardState, error)
	routeForFn    func(ctx context.Context, userID, route string) (*ports.RouteDecision, error)
	identityFn    func(ctx context.Context, userID string, in ports.IdentityInput) (*ports.WizardState, error)
	sendOTPFn     func(ctx context.Context, userID, phone string) error
	verifyOTPFn   func(ctx context.Context, userID string, in ports.OTPInput) (*ports.WizardState, error)
	permissionFn  func(ctx context.Context, userID string, granted bool) (*ports.WizardState, error)
	faceScanFn    func(ctx context.Context, userID string, progress ports.ProgressFunc) (*ports.ScanResult, error)
	retinaScanFn  func(ctx context.Context, userID string, progress ports.ProgressFunc) (*ports.ScanResult, error)
	privacyFn     func(ctx context.Context, userID string) (*domain.PrivacyResult, error)
	castVoteFn    func(ctx context.Context, userID, candidateID string) (*domain.Vote, error)
	confirmVoteFn func(ctx context.Context, userID string) (*domain.Vote, error)
	receiptFn     func(ctx context.Context, userID string) (*domain.Receipt, error)
	finishFn      func(ctx context.Context, userID string) error
	resetFn       func(ctx context.Context, userID string) error
}

func (s *stubWizard) State(ctx context.Context, userID string) (*ports.WizardState, error) {
	return s.stateFn(ctx, userID)
}

func (s *stubWizard) RouteFor(ctx context.Context, userID, route string) (*ports.RouteDecision, error) {
	return s.routeForFn(ctx, userID, route)
}

func (s *stubWizard) SubmitIdentity(ctx context.Context, userID string, in ports.IdentityInput) (*ports.WizardState, error) {
	return s.identityFn(ctx, userID, in)
}

func (s *stubWizard) SendOTP(ctx context.Context, userID, phone string) error {
	return s.sendOTPFn(ctx, userID, phone)
}

func (s *stubWizard) VerifyOTP(ctx context.Context, userID string, in ports.OTPInput) (*ports.WizardState, error) {
	return s.verifyOTPFn(ctx, userID, in)
}

func (s *stubWizard) SetCameraPermission(ctx context.Context, userID string, granted bool) (*ports.WizardState, error) {
	return s.permissionFn(ctx, userID, granted)
}

func (s *stubWizard) FaceScan(ctx context.Context, userID string, progress ports.ProgressFunc) (*ports.ScanResult, error) {
	return s.faceScanFn(ctx, userID, progress)
}

func (s *stubWizard) RetinaScan(ctx context.Context, userID string, progress ports.ProgressFunc) (*ports.ScanResult, error) {
	return s.retinaScanFn(ctx, userID, progress)
}

func (s *stubWizard) CheckPrivacy(ctx context.Context, userID string) (*domain.PrivacyResult, error) {
	return s.privacyFn(ctx, userID)
}

func (s *stubWizard) Candidates() []domain.Candidate { return domain.Candidates() }

func (s *stubWizard) CastVote(ctx context.Context, userID, candidateID string) (*domain.Vote, error) {
	return s.castVoteFn(ctx, userID, candidateID)
}

func (s *stubWizard) ConfirmVote(ctx context.Context, userID string) (*domain.Vote, error) {
	return s.confirmVoteFn(ctx, userID)
}

func (s *stubWizard) Receipt(ctx context.Context, userID string) (*domain.Receipt, error) {
	return s.receiptFn(ctx, userID)
}

func (s *stubWizard) Finish(ctx context.Context, userID string) error {
	return s.finishFn(ctx, userID)
}

func (s *stubWizard) Reset(ctx context.Context, userID string) error {
	return s.resetFn(ctx, userID)
}

// ---- stub auth service ----

type stubAuthService struct {
	loginFn   func(ctx context.Context, username, password string) (string, *domain.AuthSession, error)
	logoutFn  func(ctx context.Context, userID string) error
	currentFn func(ctx context.Context, userID string) (*domain.AuthSession, error)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.AuthSession, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Logout(ctx context.Context, userID string) error {
	return s.logoutFn(ctx, userID)
}

func (s *stubAuthService) Current(ctx context.Context, userID string) (*domain.AuthSession, error) {
	return s.currentFn(ctx, userID)
}

// ---- stub language service ----

type stubLanguages struct {
	stored  domain.Language
	setFn   func(ctx context.Context, userID, code string) (domain.Language, error)
	resolve func(query, acceptLanguage string) domain.Language
}

func (s *stubLanguages) Get(_ context.Context, _ string) (domain.Language, error) {
	return s.stored, nil
}

func (s *stubLanguages) Set(ctx context.Context, userID, code string) (domain.Language, error) {
	return s.setFn(ctx, userID, code)
}

func (s *stubLanguages) Resolve(query, acceptLanguage string) domain.Language {
	return s.resolve(query, acceptLanguage)
}

func (s *stubLanguages) Translate(code, key string) string { return domain.Translate(code, key) }

func (s *stubLanguages) Translations(code string) map[string]string {
	return domain.Translations(code)
}

// ---- stub audit service ----

type stubAudit struct {
	got    ports.AuditFilter
	events []domain.WizardEvent
}

func (s *stubAudit) Process(_ context.Context, _ domain.WizardEvent) error { return nil }

func (s *stubAudit) List(_ context.Context, f ports.AuditFilter) ([]domain.WizardEvent, error) {
	s.got = f
	return s.events, nil
}
