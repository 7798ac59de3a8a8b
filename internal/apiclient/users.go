package apiclient

import (
	"context"
	"net/http"
	"net/url"

	jobdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/job/domain"
	userdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/user/domain"
)

// ProfileUpdate is the body of PUT /users/profile.
type ProfileUpdate struct {
	FirstName string   `json:"firstName,omitempty"`
	LastName  string   `json:"lastName,omitempty"`
	Email     string   `json:"email,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Location  string   `json:"location,omitempty"`
	Bio       string   `json:"bio,omitempty"`
	Company   string   `json:"company,omitempty"`
	Skills    []string `json:"skills,omitempty"`
}

// PasswordChange is the body of PUT /users/change-password.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type userEnvelope struct {
	User *userdomain.User `json:"user"`
}

func savePath(jobID string) string {
	return "/users/jobs/" + url.PathEscape(jobID) + "/save"
}

// Profile returns the full profile of the current user.
func (c *Client) Profile(ctx context.Context) (*userdomain.User, error) {
	var out userEnvelope
	if err := c.Do(ctx, http.MethodGet, "/users/profile", nil, nil, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, ErrMissingUser
	}
	return out.User, nil
}

// UpdateProfile saves profile changes and returns the updated user when the backend echoes it.
func (c *Client) UpdateProfile(ctx context.Context, in ProfileUpdate) (*userdomain.User, error) {
	var out userEnvelope
	if err := c.Do(ctx, http.MethodPut, "/users/profile", in, nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// ChangePassword replaces the current user's password.
func (c *Client) ChangePassword(ctx context.Context, in PasswordChange) error {
	return c.Do(ctx, http.MethodPut, "/users/change-password", in, nil, nil)
}

// SaveJob bookmarks a job for the current user.
func (c *Client) SaveJob(ctx context.Context, jobID string) error {
	return c.Do(ctx, http.MethodPost, savePath(jobID), nil, nil, nil)
}

// UnsaveJob removes a bookmark.
func (c *Client) UnsaveJob(ctx context.Context, jobID string) error {
	return c.Do(ctx, http.MethodDelete, savePath(jobID), nil, nil, nil)
}

// SavedJobs lists the current user's bookmarked jobs.
func (c *Client) SavedJobs(ctx context.Context) ([]jobdomain.Job, error) {
	var out struct {
		SavedJobs []jobdomain.Job `json:"savedJobs"`
	}
	if err := c.Do(ctx, http.MethodGet, "/users/saved-jobs", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.SavedJobs, nil
}

// Applications lists the current user's applications.
func (c *Client) Applications(ctx context.Context) ([]jobdomain.Application, error) {
	var out struct {
		Applications []jobdomain.Application `json:"applications"`
	}
	if err := c.Do(ctx, http.MethodGet, "/users/applications", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Applications, nil
}
