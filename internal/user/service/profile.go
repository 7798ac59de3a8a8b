// Package service implements the profile view: reading and updating the profile and changing the password.
package service

import (
	"context"
	"log"

	"github.com/prabhakarsharma95/Nexus-Frontend/internal/apiclient"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/forms"
	userdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/user/domain"
)

// API is the subset of the backend client the profile view needs.
type API interface {
	Profile(ctx context.Context) (*userdomain.User, error)
	UpdateProfile(ctx context.Context, in apiclient.ProfileUpdate) (*userdomain.User, error)
	ChangePassword(ctx context.Context, in apiclient.PasswordChange) error
}

// Session refreshes the signed-in user after the profile changes.
type Session interface {
	RefreshUser(ctx context.Context) error
}

// ProfileService runs profile operations.
type ProfileService struct {
	api     API
	session Session
}

// NewProfileService returns a profile service.
func NewProfileService(api API, session Session) *ProfileService {
	return &ProfileService{api: api, session: session}
}

// Profile returns the full profile of the signed-in user.
func (s *ProfileService) Profile(ctx context.Context) (*userdomain.User, error) {
	return s.api.Profile(ctx)
}

// Update validates and saves the form, then refreshes the session's user record.
// When the backend does not echo the user, the profile is fetched again.
func (s *ProfileService) Update(ctx context.Context, form forms.ProfileForm) (*userdomain.User, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	u, err := s.api.UpdateProfile(ctx, form.Input())
	if err != nil {
		return nil, err
	}
	if err := s.session.RefreshUser(ctx); err != nil {
		log.Printf("user: refresh session after profile update: %v", err)
	}
	if u != nil {
		return u, nil
	}
	return s.api.Profile(ctx)
}

// ChangePassword validates the form and changes the password.
func (s *ProfileService) ChangePassword(ctx context.Context, form forms.ChangePasswordForm) error {
	if err := form.Validate(); err != nil {
		return err
	}
	return s.api.ChangePassword(ctx, form.Request())
}
