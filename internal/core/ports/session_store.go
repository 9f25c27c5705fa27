package ports

import (
	"context"

	"github.com/securevote/voting-wizard/internal/core/domain"
)

// SessionStore persists each voter's wizard progress. It performs no
// validation; step order is the sequencer's job.
type SessionStore interface {
	// Get returns the stored session, or an empty one when nothing is stored.
	Get(ctx context.Context, userID string) (*domain.VoterSession, error)
	// Set merges partial into the stored session and persists the result.
	Set(ctx context.Context, userID string, partial domain.VoterSession) error
	// Clear removes the persisted session.
	Clear(ctx context.Context, userID string) error
}

// AuthStore persists logged-in booth sessions.
type AuthStore interface {
	SaveUser(ctx context.Context, user *domain.AuthSession) error
	// FindUser returns domain.ErrNotAuthenticated when no session is stored.
	FindUser(ctx context.Context, userID string) (*domain.AuthSession, error)
	DeleteUser(ctx context.Context, userID string) error
}

// PreferenceStore persists the display language of a voter.
type PreferenceStore interface {
	// GetLanguage returns domain.DefaultLanguage when nothing is stored.
	GetLanguage(ctx context.Context, userID string) (domain.Language, error)
	SetLanguage(ctx context.Context, userID string, lang domain.Language) error
}

// Store is implemented by every storage backend.
type Store interface {
	SessionStore
	AuthStore
	PreferenceStore
}
