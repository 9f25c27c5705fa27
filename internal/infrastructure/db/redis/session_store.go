package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/securevote/voting-wizard/internal/core/domain"
	"github.com/securevote/voting-wizard/internal/core/ports"
)

const maxMergeRetries = 5

var _ ports.Store = (*Store)(nil)

// Store keeps booth sessions in Redis under the same names the browser used
// for local storage:
//
//	voting_user:<id>      AuthSession
//	voting_data:<id>      VoterSession
//	voting_language:<id>  Language
//
// Every key expires after ttl of inactivity.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore wraps client. A ttl of zero keeps keys forever.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func userKey(id string) string     { return "voting_user:" + id }
func dataKey(id string) string     { return "voting_data:" + id }
func languageKey(id string) string { return "voting_language:" + id }

func (s *Store) Get(ctx context.Context, userID string) (*domain.VoterSession, error) {
	sess := &domain.VoterSession{}
	if err := s.getJSON(ctx, dataKey(userID), sess); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// Set merges partial into the stored session inside a WATCH transaction so
// concurrent writers for the same voter never lose a field.
func (s *Store) Set(ctx context.Context, userID string, partial domain.VoterSession) error {
	key := dataKey(userID)
	merge := func(tx *redis.Tx) error {
		current := domain.VoterSession{}
		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			if err := json.Unmarshal(raw, &current); err != nil {
				return fmt.Errorf("decode session: %w", err)
			}
		}
		current.Merge(partial)
		data, err := json.Marshal(current)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, data, s.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxMergeRetries; i++ {
		err := s.client.Watch(ctx, merge, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("set session: %w", err)
		}
		return nil
	}
	return fmt.Errorf("set session: %w", redis.TxFailedErr)
}

func (s *Store) Clear(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, dataKey(userID)).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Store) SaveUser(ctx context.Context, user *domain.AuthSession) error {
	if err := s.setJSON(ctx, userKey(user.UserID), user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// FindUser also refreshes the expiry of the voter's keys.
func (s *Store) FindUser(ctx context.Context, userID string) (*domain.AuthSession, error) {
	var user domain.AuthSession
	err := s.getJSON(ctx, userKey(userID), &user)
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotAuthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if s.ttl > 0 {
		_, err = s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
			p.Expire(ctx, userKey(userID), s.ttl)
			p.Expire(ctx, dataKey(userID), s.ttl)
			p.Expire(ctx, languageKey(userID), s.ttl)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("find user: refresh ttl: %w", err)
		}
	}
	return &user, nil
}

func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, userKey(userID), languageKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *Store) GetLanguage(ctx context.Context, userID string) (domain.Language, error) {
	var lang domain.Language
	err := s.getJSON(ctx, languageKey(userID), &lang)
	if errors.Is(err, redis.Nil) {
		return domain.DefaultLanguage, nil
	}
	if err != nil {
		return domain.Language{}, fmt.Errorf("get language: %w", err)
	}
	return lang, nil
}

func (s *Store) SetLanguage(ctx context.Context, userID string, lang domain.Language) error {
	if err := s.setJSON(ctx, languageKey(userID), lang); err != nil {
		return fmt.Errorf("set language: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) getJSON(ctx context.Context, key string, v any) error {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

func (s *Store) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, s.ttl).Err()
}
