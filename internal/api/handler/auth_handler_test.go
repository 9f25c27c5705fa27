package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/securevote/voting-wizard/internal/core/domain"
)

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.AuthSession, error) {
			if username != "voter1" || password != "vote123" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return "token123", &domain.AuthSession{UserID: testUserID, Username: username, Role: domain.RoleVoter, Authenticated: true}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newContext(http.MethodPost, "/v1/auth/login", `{"username":"voter1","password":"vote123"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "token123" || resp.User.Username != "voter1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp.Next != domain.StepIDVerification || resp.Route != "/voter-login" {
		t.Fatalf("expected to be sent to id verification, got %s %s", resp.Next, resp.Route)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.AuthSession, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newContext(http.MethodPost, "/v1/auth/login", `{"username":"admin","password":"nope"}`)
	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_Rejected(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.AuthSession, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"not json", "not-json", http.StatusBadRequest},
		{"missing password", `{"username":"admin"}`, http.StatusUnprocessableEntity},
		{"missing username", `{"password":"admin123"}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newContext(http.MethodPost, "/v1/auth/login", tc.body)
			if got := httpCode(t, handler.Login(c)); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	var loggedOut string
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, userID string) error {
			loggedOut = userID
			return nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newContext(http.MethodPost, "/v1/auth/logout", "")
	if err := handler.Logout(authed(c)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || loggedOut != testUserID {
		t.Fatalf("expected logout of %s, got code %d user %q", testUserID, rec.Code, loggedOut)
	}
}

func TestAuthHandler_Me_MissingClaims(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{})

	c, _ := newContext(http.MethodGet, "/v1/auth/me", "")
	if got := httpCode(t, handler.Me(c)); got != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", got)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	stub := &stubAuthService{
		currentFn: func(ctx context.Context, userID string) (*domain.AuthSession, error) {
			return &domain.AuthSession{UserID: userID, Username: "voter1", Role: domain.RoleVoter, Authenticated: true}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newContext(http.MethodGet, "/v1/auth/me", "")
	if err := handler.Me(authed(c)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var user domain.AuthSession
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if user.UserID != testUserID || !user.Authenticated {
		t.Fatalf("unexpected user: %+v", user)
	}
}
