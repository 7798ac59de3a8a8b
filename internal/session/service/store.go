package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/prabhakarsharma95/Nexus-Frontend/internal/apiclient"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/security"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/session/domain"
	userdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/user/domain"
)

// Banner messages used when the server gives no reason.
const (
	MsgLoginFailed    = "Invalid email or password"
	MsgSignupFailed   = "Failed to create account"
	MsgInvalidRole    = "Please choose a valid account type"
	MsgSessionUnsaved = "Signed in, but the session could not be saved on this device"
)

// ErrNotAuthenticated is returned by operations that need a signed-in user.
var ErrNotAuthenticated = errors.New("not authenticated")

// AuthAPI is the subset of the backend client the session store needs.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*apiclient.AuthResponse, error)
	Register(ctx context.Context, req apiclient.SignupRequest) (*apiclient.AuthResponse, error)
	Me(ctx context.Context, opts ...apiclient.RequestOption) (*userdomain.User, error)
	Logout(ctx context.Context) error
}

// CredentialRepo persists the token and user between runs.
type CredentialRepo interface {
	Load(ctx context.Context) (*domain.Credentials, error)
	Save(ctx context.Context, token string, u *userdomain.User) error
	SaveUser(ctx context.Context, u *userdomain.User) error
	Clear(ctx context.Context) error
}

// Store is the process-wide session. Views read snapshots through State; only Store mutates it.
type Store struct {
	api   AuthAPI
	creds CredentialRepo
	nowF  func() time.Time

	mu    sync.RWMutex
	state domain.State
}

// NewStore returns a store in the loading state. Call Rehydrate once at startup.
func NewStore(api AuthAPI, creds CredentialRepo) *Store {
	return &Store{
		api:   api,
		creds: creds,
		nowF:  time.Now,
		state: domain.State{Loading: true},
	}
}

// State returns a snapshot. The user record is copied so callers cannot mutate the store.
func (s *Store) State() domain.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	if st.CurrentUser != nil {
		u := *st.CurrentUser
		st.CurrentUser = &u
	}
	return st
}

func (s *Store) update(fn func(st *domain.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

func (s *Store) signedIn(u *userdomain.User) {
	s.update(func(st *domain.State) {
		st.CurrentUser = u
		st.IsAuthenticated = true
		st.Loading = false
		st.LastError = ""
	})
}

func (s *Store) failed(msg string) {
	s.update(func(st *domain.State) {
		st.Loading = false
		st.LastError = msg
	})
}

// Login authenticates and persists the session. On failure LastError carries the server message or MsgLoginFailed.
func (s *Store) Login(ctx context.Context, email, password string) bool {
	s.update(func(st *domain.State) {
		st.Loading = true
		st.LastError = ""
	})
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		log.Printf("session: login: %v", err)
		s.failed(apiclient.MessageOr(err, MsgLoginFailed))
		return false
	}
	return s.establish(ctx, res)
}

// Signup registers and signs in. Field validation is the caller's job; only the role is checked here.
func (s *Store) Signup(ctx context.Context, req apiclient.SignupRequest) bool {
	if req.Role != userdomain.RoleJobSeeker && req.Role != userdomain.RoleEmployer {
		s.failed(MsgInvalidRole)
		return false
	}
	s.update(func(st *domain.State) {
		st.Loading = true
		st.LastError = ""
	})
	res, err := s.api.Register(ctx, req)
	if err != nil {
		log.Printf("session: signup: %v", err)
		s.failed(apiclient.MessageOr(err, MsgSignupFailed))
		return false
	}
	return s.establish(ctx, res)
}

func (s *Store) establish(ctx context.Context, res *apiclient.AuthResponse) bool {
	if err := s.creds.Save(ctx, res.Token, res.User); err != nil {
		log.Printf("session: persist credentials: %v", err)
		_ = s.creds.Clear(context.WithoutCancel(ctx))
		s.failed(MsgSessionUnsaved)
		return false
	}
	s.signedIn(res.User)
	return true
}

// Logout tells the backend (best effort) and always clears the local session.
func (s *Store) Logout(ctx context.Context) {
	if err := s.api.Logout(ctx); err != nil {
		log.Printf("session: server logout: %v", err)
	}
	if err := s.creds.Clear(context.WithoutCancel(ctx)); err != nil {
		log.Printf("session: clear credentials: %v", err)
	}
	s.Reset()
}

// Reset drops the in-memory session. It does not touch persisted credentials.
// Registered as the API client's 401 hook.
func (s *Store) Reset() {
	s.update(func(st *domain.State) {
		*st = domain.State{}
	})
}

// Rehydrate restores the session from persisted credentials, validating the token with /auth/me.
// Any failure leaves the session signed out and the persisted state cleared, without a user-visible error.
// Loading is false when it returns.
func (s *Store) Rehydrate(ctx context.Context) {
	defer s.update(func(st *domain.State) { st.Loading = false })

	creds, err := s.creds.Load(ctx)
	if err != nil {
		log.Printf("session: rehydrate: %v", err)
		s.discard(ctx)
		return
	}
	if !creds.Complete() {
		if creds.Token != "" || creds.User != nil {
			s.discard(ctx)
		}
		return
	}
	if security.Expired(creds.Token, s.nowF()) {
		log.Printf("session: rehydrate: persisted token expired")
		s.discard(ctx)
		return
	}
	u, err := s.api.Me(ctx, apiclient.Silent())
	if err != nil {
		log.Printf("session: rehydrate: %v", err)
		s.discard(ctx)
		return
	}
	if err := s.creds.SaveUser(ctx, u); err != nil {
		log.Printf("session: refresh persisted user: %v", err)
	}
	s.signedIn(u)
}

func (s *Store) discard(ctx context.Context) {
	if err := s.creds.Clear(context.WithoutCancel(ctx)); err != nil {
		log.Printf("session: clear credentials: %v", err)
	}
	s.Reset()
}

// RefreshUser reloads the current user from /auth/me, e.g. after a profile update.
func (s *Store) RefreshUser(ctx context.Context) error {
	if !s.State().IsAuthenticated {
		return ErrNotAuthenticated
	}
	u, err := s.api.Me(ctx)
	if err != nil {
		return err
	}
	if err := s.creds.SaveUser(ctx, u); err != nil {
		log.Printf("session: refresh persisted user: %v", err)
	}
	s.update(func(st *domain.State) {
		if st.IsAuthenticated {
			st.CurrentUser = u
		}
	})
	return nil
}

// ClearError dismisses the banner.
func (s *Store) ClearError() {
	s.update(func(st *domain.State) { st.LastError = "" })
}
