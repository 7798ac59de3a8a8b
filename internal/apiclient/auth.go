package apiclient

import (
	"context"
	"errors"
	"net/http"

	userdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/user/domain"
)

// ErrMissingUser is returned when an auth endpoint answers 2xx without a user record.
var ErrMissingUser = errors.New("apiclient: response has no user")

// SignupRequest is the body of POST /auth/register.
type SignupRequest struct {
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	Email       string          `json:"email"`
	Password    string          `json:"password"`
	Role        userdomain.Role `json:"role"`
	CompanyCode string          `json:"companyCode,omitempty"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token string           `json:"token"`
	User  *userdomain.User `json:"user"`
}

// Login exchanges credentials for a token and user.
// It is sent anonymously: a 401 for a wrong password is not a session expiry.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var out AuthResponse
	if err := c.Do(ctx, http.MethodPost, "/auth/login", body, nil, &out, Anonymous()); err != nil {
		return nil, err
	}
	if out.User == nil || out.Token == "" {
		return nil, ErrMissingUser
	}
	return &out, nil
}

// Register creates an account and returns its token and user. Like Login it is sent anonymously.
func (c *Client) Register(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.Do(ctx, http.MethodPost, "/auth/register", req, nil, &out, Anonymous()); err != nil {
		return nil, err
	}
	if out.User == nil || out.Token == "" {
		return nil, ErrMissingUser
	}
	return &out, nil
}

// Me returns the user the current token belongs to.
func (c *Client) Me(ctx context.Context, opts ...RequestOption) (*userdomain.User, error) {
	var out struct {
		User *userdomain.User `json:"user"`
	}
	if err := c.Do(ctx, http.MethodGet, "/auth/me", nil, nil, &out, opts...); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, ErrMissingUser
	}
	return out.User, nil
}

// Logout notifies the backend that the token is no longer in use.
func (c *Client) Logout(ctx context.Context) error {
	return c.Do(ctx, http.MethodGet, "/auth/logout", nil, nil, nil)
}
