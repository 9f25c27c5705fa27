package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/securevote/voting-wizard/internal/api/metrics"
	"github.com/securevote/voting-wizard/internal/core/domain"
	"github.com/securevote/voting-wizard/internal/core/ports"
)

// AuthService logs booth operators in against the demo accounts.
type AuthService struct {
	verifier  ports.VerificationService
	users     ports.AuthStore
	sessions  ports.SessionStore
	audit     ports.AuditRecorder
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(
	verifier ports.VerificationService,
	users ports.AuthStore,
	sessions ports.SessionStore,
	audit ports.AuditRecorder,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		verifier:  verifier,
		users:     users,
		sessions:  sessions,
		audit:     audit,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// Login returns a signed token and the new AuthSession. Nothing is stored
// when the credentials do not match.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.AuthSession, error) {
	if username == "" || password == "" {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	role, ok, err := s.verifier.VerifyLogin(ctx, username, password)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}
	if !ok {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		s.log.Info().Str("username", username).Msg("login rejected")
		return "", nil, domain.ErrInvalidCredentials
	}

	user := &domain.AuthSession{
		UserID:        uuid.NewString(),
		Username:      username,
		Role:          role,
		Authenticated: true,
		CreatedAt:     time.Now().UTC(),
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("login: sign token: %w", err)
	}
	if err := s.users.SaveUser(ctx, user); err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	record(s.audit, user.UserID, domain.StepLoggedOut, "login", nil)
	s.log.Info().Str("user_id", user.UserID).Str("username", username).Str("role", role).Msg("login succeeded")
	return token, user, nil
}

// Logout removes the AuthSession and every piece of wizard data.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.sessions.Clear(ctx, userID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	record(s.audit, userID, domain.StepLoggedOut, "logout", nil)
	return nil
}

func (s *AuthService) Current(ctx context.Context, userID string) (*domain.AuthSession, error) {
	user, err := s.users.FindUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	return user, nil
}

func (s *AuthService) generateToken(user *domain.AuthSession) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.UserID,
		"username": user.Username,
		"role":     user.Role,
		"iat":      user.CreatedAt.Unix(),
		"exp":      user.CreatedAt.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
