package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prabhakarsharma95/Nexus-Frontend/internal/apiclient"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/forms"
	userdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/user/domain"
)

type memAPI struct {
	user      *userdomain.User
	echo      bool
	passwords []apiclient.PasswordChange
	updates   int
}

func (m *memAPI) Profile(ctx context.Context) (*userdomain.User, error) {
	cp := *m.user
	return &cp, nil
}

func (m *memAPI) UpdateProfile(ctx context.Context, in apiclient.ProfileUpdate) (*userdomain.User, error) {
	m.updates++
	m.user.FirstName = in.FirstName
	m.user.LastName = in.LastName
	m.user.Email = in.Email
	m.user.Bio = in.Bio
	if !m.echo {
		return nil, nil
	}
	cp := *m.user
	return &cp, nil
}

func (m *memAPI) ChangePassword(ctx context.Context, in apiclient.PasswordChange) error {
	m.passwords = append(m.passwords, in)
	return nil
}

type memSession struct {
	refreshed int
	err       error
}

func (m *memSession) RefreshUser(ctx context.Context) error {
	m.refreshed++
	return m.err
}

func TestUpdate_RefreshesSession(t *testing.T) {
	for _, echo := range []bool{true, false} {
		api := &memAPI{user: &userdomain.User{ID: "u1", FirstName: "Ada", LastName: "L", Email: "ada@example.com"}, echo: echo}
		sess := &memSession{}
		s := NewProfileService(api, sess)

		f := forms.ProfileFormFrom(api.user)
		f.Bio = "Engineer"
		u, err := s.Update(context.Background(), f)
		if err != nil {
			t.Fatalf("echo=%v Update: %v", echo, err)
		}
		if u.Bio != "Engineer" {
			t.Errorf("echo=%v Bio = %q", echo, u.Bio)
		}
		if sess.refreshed != 1 {
			t.Errorf("echo=%v refreshed = %d, want 1", echo, sess.refreshed)
		}
	}
}

func TestUpdate_RefreshFailureIsNotFatal(t *testing.T) {
	api := &memAPI{user: &userdomain.User{ID: "u1", FirstName: "Ada", LastName: "L", Email: "ada@example.com"}, echo: true}
	s := NewProfileService(api, &memSession{err: errors.New("offline")})
	if _, err := s.Update(context.Background(), forms.ProfileFormFrom(api.user)); err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func TestUpdate_InvalidFormNotSent(t *testing.T) {
	api := &memAPI{user: &userdomain.User{ID: "u1"}}
	s := NewProfileService(api, &memSession{})
	if _, err := s.Update(context.Background(), forms.ProfileForm{}); err == nil {
		t.Fatal("expected validation error")
	}
	if api.updates != 0 {
		t.Errorf("updates = %d, want 0", api.updates)
	}
}

func TestChangePassword(t *testing.T) {
	api := &memAPI{user: &userdomain.User{}}
	s := NewProfileService(api, &memSession{})
	err := s.ChangePassword(context.Background(), forms.ChangePasswordForm{CurrentPassword: "old", NewPassword: "short", ConfirmPassword: "short"})
	if fe, ok := forms.AsFieldErrors(err); !ok || fe["newPassword"] != forms.MsgPasswordLength {
		t.Errorf("err = %v", err)
	}
	err = s.ChangePassword(context.Background(), forms.ChangePasswordForm{CurrentPassword: "old", NewPassword: "longenough", ConfirmPassword: "longenough"})
	if err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if len(api.passwords) != 1 || api.passwords[0].NewPassword != "longenough" {
		t.Errorf("passwords = %+v", api.passwords)
	}
}
