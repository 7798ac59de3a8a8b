package forms

import (
	"github.com/go-playground/validator/v10"

	"github.com/prabhakarsharma95/Nexus-Frontend/internal/apiclient"
	userdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/user/domain"
)

// Messages shared with the views.
const (
	MsgRequired         = "Please fill in all required fields"
	MsgPasswordMismatch = "Passwords do not match"
	MsgPasswordLength   = "Password must be at least 8 characters long"
	MsgCompanyCode      = "Company invitation code is required for employer accounts"
	MsgTerms            = "You must agree to the Terms of Service and Privacy Policy"
	MsgEmail            = "Please enter a valid email address"
	MsgRole             = "Please choose a valid account type"
)

// LoginForm is the sign-in form.
type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate checks the form.
func (f *LoginForm) Validate() error {
	trim(&f.Email)
	return check(f, func(fe validator.FieldError) string {
		if fe.Tag() == "email" {
			return MsgEmail
		}
		return MsgRequired
	})
}

// SignupForm is the create-account form.
type SignupForm struct {
	FirstName       string          `json:"firstName" validate:"required"`
	LastName        string          `json:"lastName" validate:"required"`
	Email           string          `json:"email" validate:"required,email"`
	Password        string          `json:"password" validate:"required,min=8"`
	ConfirmPassword string          `json:"confirmPassword" validate:"required,eqfield=Password"`
	Role            userdomain.Role `json:"role" validate:"oneof=job-seeker employer"`
	CompanyCode     string          `json:"companyCode" validate:"required_if=Role employer"`
	AgreeTerms      bool            `json:"agreeTerms" validate:"eq=true"`
}

// Validate checks the form. Missing fields are reported before password rules, which come before the
// employer code and the terms checkbox; every failing field gets its own message.
func (f *SignupForm) Validate() error {
	trim(&f.FirstName, &f.LastName, &f.Email, &f.CompanyCode)
	if f.Role == "" {
		f.Role = userdomain.RoleJobSeeker
	}
	return check(f, func(fe validator.FieldError) string {
		switch fe.Field() {
		case "confirmPassword":
			if fe.Tag() == "eqfield" {
				return MsgPasswordMismatch
			}
		case "password":
			if fe.Tag() == "min" {
				return MsgPasswordLength
			}
		case "email":
			if fe.Tag() == "email" {
				return MsgEmail
			}
		case "companyCode":
			return MsgCompanyCode
		case "agreeTerms":
			return MsgTerms
		case "role":
			return MsgRole
		}
		return MsgRequired
	})
}

// Request converts a validated form into the register payload. The company code is sent only for employers.
func (f *SignupForm) Request() apiclient.SignupRequest {
	req := apiclient.SignupRequest{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Password:  f.Password,
		Role:      f.Role,
	}
	if f.Role == userdomain.RoleEmployer {
		req.CompanyCode = f.CompanyCode
	}
	return req
}

// ChangePasswordForm is the change-password form on the profile view.
type ChangePasswordForm struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// Validate checks the form.
func (f *ChangePasswordForm) Validate() error {
	return check(f, func(fe validator.FieldError) string {
		switch {
		case fe.Tag() == "eqfield":
			return MsgPasswordMismatch
		case fe.Tag() == "min":
			return MsgPasswordLength
		}
		return MsgRequired
	})
}

// Request converts a validated form into the payload.
func (f *ChangePasswordForm) Request() apiclient.PasswordChange {
	return apiclient.PasswordChange{CurrentPassword: f.CurrentPassword, NewPassword: f.NewPassword}
}
