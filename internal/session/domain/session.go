package domain

import (
	"time"

	userdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/user/domain"
)

// State is a snapshot of the process-wide session.
// IsAuthenticated implies CurrentUser != nil; Loading is true only during rehydration or an in-flight login/signup.
type State struct {
	CurrentUser     *userdomain.User
	IsAuthenticated bool
	Loading         bool
	LastError       string // empty when there is nothing to show
}

// Role returns the current user's role, or "" when signed out.
func (s State) Role() userdomain.Role {
	if s.CurrentUser == nil {
		return ""
	}
	return s.CurrentUser.Role
}

// Credentials is the durable token + user pair kept between runs.
type Credentials struct {
	Token     string
	User      *userdomain.User
	UpdatedAt time.Time
}

// Complete reports whether both halves are present; rehydration needs both.
func (c *Credentials) Complete() bool {
	return c != nil && c.Token != "" && c.User != nil
}
