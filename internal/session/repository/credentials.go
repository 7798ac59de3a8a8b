package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/prabhakarsharma95/Nexus-Frontend/internal/session/domain"
	userdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/user/domain"
)

// CredentialStore keeps the bearer token and the serialized user record in a Repository.
// The API client reads the token from it; the session store writes and clears it.
type CredentialStore struct {
	repo Repository
}

// NewCredentialStore wraps repo.
func NewCredentialStore(repo Repository) *CredentialStore {
	return &CredentialStore{repo: repo}
}

// Token returns the persisted token, or "" if none.
func (s *CredentialStore) Token(ctx context.Context) (string, error) {
	v, _, ok, err := s.repo.Get(ctx, KeyToken)
	if err != nil || !ok {
		return "", err
	}
	return v, nil
}

// Load returns whatever is persisted. A user record that cannot be decoded is treated as absent.
func (s *CredentialStore) Load(ctx context.Context) (*domain.Credentials, error) {
	token, tokenAt, _, err := s.repo.Get(ctx, KeyToken)
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	raw, _, ok, err := s.repo.Get(ctx, KeyUser)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	c := &domain.Credentials{Token: token, UpdatedAt: tokenAt}
	if ok && raw != "" {
		var u userdomain.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			log.Printf("session: discarding unreadable user record: %v", err)
		} else {
			c.User = &u
		}
	}
	return c, nil
}

// Save persists token and user together.
func (s *CredentialStore) Save(ctx context.Context, token string, u *userdomain.User) error {
	if err := s.repo.Set(ctx, KeyToken, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return s.SaveUser(ctx, u)
}

// SaveUser replaces the persisted user record, keeping the token.
func (s *CredentialStore) SaveUser(ctx context.Context, u *userdomain.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if err := s.repo.Set(ctx, KeyUser, string(raw)); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// Clear removes both token and user.
func (s *CredentialStore) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, KeyToken, KeyUser)
}
