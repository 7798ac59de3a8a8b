package forms

import (
	"github.com/go-playground/validator/v10"

	"github.com/prabhakarsharma95/Nexus-Frontend/internal/apiclient"
	userdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/user/domain"
)

// ProfileForm is the profile edit form.
type ProfileForm struct {
	FirstName string   `json:"firstName" validate:"required"`
	LastName  string   `json:"lastName" validate:"required"`
	Email     string   `json:"email" validate:"required,email"`
	Phone     string   `json:"phone"`
	Location  string   `json:"location"`
	Bio       string   `json:"bio" validate:"max=1000"`
	Company   string   `json:"company"`
	Skills    []string `json:"skills"`
}

// ProfileFormFrom fills a form from the user's current profile.
func ProfileFormFrom(u *userdomain.User) ProfileForm {
	return ProfileForm{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Location:  u.Location,
		Bio:       u.Bio,
		Company:   u.Company,
		Skills:    append([]string(nil), u.Skills...),
	}
}

// Validate trims and checks the form.
func (f *ProfileForm) Validate() error {
	trim(&f.FirstName, &f.LastName, &f.Email, &f.Phone, &f.Location, &f.Bio, &f.Company)
	f.Skills = dedupe(f.Skills)
	return check(f, func(fe validator.FieldError) string {
		switch {
		case fe.Tag() == "email":
			return MsgEmail
		case fe.Field() == "bio":
			return "Bio must be at most 1000 characters"
		}
		return MsgRequired
	})
}

// Input converts a validated form into the request body.
func (f *ProfileForm) Input() apiclient.ProfileUpdate {
	return apiclient.ProfileUpdate{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Phone:     f.Phone,
		Location:  f.Location,
		Bio:       f.Bio,
		Company:   f.Company,
		Skills:    f.Skills,
	}
}
