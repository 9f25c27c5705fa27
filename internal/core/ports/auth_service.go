package ports

import (
	"context"

	"github.com/securevote/voting-wizard/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *domain.AuthSession, error)
	Logout(ctx context.Context, userID string) error
	Current(ctx context.Context, userID string) (*domain.AuthSession, error)
}
