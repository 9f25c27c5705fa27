// Package file stores booth sessions as one JSON document per voter, shaped
// like the browser's local storage.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/securevote/voting-wizard/internal/core/domain"
	"github.com/securevote/voting-wizard/internal/core/ports"
)

var _ ports.Store = (*Store)(nil)

type document struct {
	User      *domain.AuthSession  `json:"voting_user,omitempty"`
	Data      *domain.VoterSession `json:"voting_data,omitempty"`
	Language  *domain.Language     `json:"voting_language,omitempty"`
	UpdatedAt time.Time            `json:"updated_at"`
}

func (d *document) empty() bool {
	return d.User == nil && d.Data == nil && d.Language == nil
}

// Store persists each voter in <dir>/<user id>.json. Writes go to a temp
// file first and are renamed into place, so a crash never leaves a torn
// document behind.
type Store struct {
	dir string
	ttl time.Duration
	mu  sync.Mutex
	now func() time.Time
}

// NewStore creates dir if needed. Documents untouched for longer than ttl
// are treated as absent; zero keeps them forever.
func NewStore(dir string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &Store{dir: dir, ttl: ttl, now: time.Now}, nil
}

func (s *Store) path(userID string) (string, error) {
	// ids become file names; only accept what the auth service issues.
	if err := uuid.Validate(userID); err != nil {
		return "", fmt.Errorf("invalid user id %q: %w", userID, err)
	}
	return filepath.Join(s.dir, userID+".json"), nil
}

func (s *Store) load(userID string) (*document, error) {
	path, err := s.path(userID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &document{}, nil
	}
	if err != nil {
		return nil, err
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	if s.ttl > 0 && s.now().Sub(doc.UpdatedAt) > s.ttl {
		return &document{}, nil
	}
	return &doc, nil
}

func (s *Store) save(userID string, doc *document) error {
	path, err := s.path(userID)
	if err != nil {
		return err
	}
	if doc.empty() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	doc.UpdatedAt = s.now().UTC()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// update runs fn on the voter's document under the store lock and saves it.
func (s *Store) update(userID string, fn func(*document)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load(userID)
	if err != nil {
		return err
	}
	fn(doc)
	return s.save(userID, doc)
}

func (s *Store) read(userID string) (*document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(userID)
}

func (s *Store) Get(ctx context.Context, userID string) (*domain.VoterSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := s.read(userID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if doc.Data == nil {
		return &domain.VoterSession{}, nil
	}
	return doc.Data, nil
}

func (s *Store) Set(ctx context.Context, userID string, partial domain.VoterSession) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.update(userID, func(doc *document) {
		if doc.Data == nil {
			doc.Data = &domain.VoterSession{}
		}
		doc.Data.Merge(partial)
	})
	if err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.update(userID, func(doc *document) { doc.Data = nil }); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Store) SaveUser(ctx context.Context, user *domain.AuthSession) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u := *user
	if err := s.update(user.UserID, func(doc *document) { doc.User = &u }); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *Store) FindUser(ctx context.Context, userID string) (*domain.AuthSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if uuid.Validate(userID) != nil {
		return nil, domain.ErrNotAuthenticated
	}
	doc, err := s.read(userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if doc.User == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return doc.User, nil
}

func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.update(userID, func(doc *document) {
		doc.User = nil
		doc.Language = nil
	})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *Store) GetLanguage(ctx context.Context, userID string) (domain.Language, error) {
	if err := ctx.Err(); err != nil {
		return domain.Language{}, err
	}
	doc, err := s.read(userID)
	if err != nil {
		return domain.Language{}, fmt.Errorf("get language: %w", err)
	}
	if doc.Language == nil {
		return domain.DefaultLanguage, nil
	}
	return *doc.Language, nil
}

func (s *Store) SetLanguage(ctx context.Context, userID string, lang domain.Language) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.update(userID, func(doc *document) { doc.Language = &lang }); err != nil {
		return fmt.Errorf("set language: %w", err)
	}
	return nil
}

// Ping reports whether the store directory is still usable.
func (s *Store) Ping(context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	return nil
}
