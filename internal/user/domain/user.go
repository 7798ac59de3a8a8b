package domain

import (
	"encoding/json"
	"errors"
	"strings"
)

// Role is the account role assigned by the backend.
type Role string

const (
	RoleJobSeeker Role = "job-seeker"
	RoleEmployer  Role = "employer"
	RoleAdmin     Role = "admin"
)

// SignupRoles are the roles a user may pick when creating an account.
var SignupRoles = []Role{RoleJobSeeker, RoleEmployer}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleJobSeeker, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

// Label returns a display label ("Job Seeker", "Employer", "Admin").
func (r Role) Label() string {
	switch r {
	case RoleJobSeeker:
		return "Job Seeker"
	case RoleEmployer:
		return "Employer"
	case RoleAdmin:
		return "Admin"
	}
	return string(r)
}

// User is the authenticated account as returned by the backend.
// The backend sends the identifier as "id" on auth endpoints and "_id" on profile endpoints.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`

	// Profile fields; present on /users/profile only.
	Phone    string   `json:"phone,omitempty"`
	Location string   `json:"location,omitempty"`
	Bio      string   `json:"bio,omitempty"`
	Skills   []string `json:"skills,omitempty"`
	Company  string   `json:"company,omitempty"`
}

// UnmarshalJSON accepts both "id" and "_id".
func (u *User) UnmarshalJSON(b []byte) error {
	type plain User
	var aux struct {
		plain
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*u = User(aux.plain)
	if u.ID == "" {
		u.ID = aux.MongoID
	}
	return nil
}

// FullName returns "First Last", trimmed.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Validate checks the fields every persisted user record must carry.
func (u *User) Validate() error {
	if u.ID == "" {
		return errors.New("user id is required")
	}
	if u.Email == "" {
		return errors.New("email is required")
	}
	if !u.Role.Valid() {
		return errors.New("unknown role " + string(u.Role))
	}
	return nil
}
