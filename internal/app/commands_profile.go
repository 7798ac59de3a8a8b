package app

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/prabhakarsharma95/Nexus-Frontend/internal/forms"
	userdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/user/domain"
)

const (
	msgProfileFailed  = "Failed to load profile"
	msgUpdateFailed   = "Failed to update profile"
	msgPasswordFailed = "Failed to change password"
)

func (a *App) profileCmd(_ *pflag.FlagSet) func(context.Context, []string) error {
	return func(ctx context.Context, _ []string) error {
		u, err := a.Profile.Profile(ctx)
		if err != nil {
			return failed(err, msgProfileFailed)
		}
		return a.output(u, func(tw *tabwriter.Writer) { renderProfile(tw, u) })
	}
}

func renderProfile(tw *tabwriter.Writer, u *userdomain.User) {
	fmt.Fprintf(tw, "Name\t%s\n", u.FullName())
	fmt.Fprintf(tw, "Email\t%s\n", u.Email)
	fmt.Fprintf(tw, "Account\t%s\n", u.Role.Label())
	fmt.Fprintf(tw, "Phone\t%s\n", orDash(u.Phone))
	fmt.Fprintf(tw, "Location\t%s\n", orDash(u.Location))
	if u.Role == userdomain.RoleEmployer {
		fmt.Fprintf(tw, "Company\t%s\n", orDash(u.Company))
	}
	if len(u.Skills) > 0 {
		fmt.Fprintf(tw, "Skills\t%s\n", strings.Join(u.Skills, ", "))
	}
	if u.Bio != "" {
		fmt.Fprintf(tw, "\nAbout\n%s\n", u.Bio)
	}
}

var profileStringFlags = []struct {
	name, usage string
	field       func(*forms.ProfileForm) *string
}{
	{"first-name", "first name", func(f *forms.ProfileForm) *string { return &f.FirstName }},
	{"last-name", "last name", func(f *forms.ProfileForm) *string { return &f.LastName }},
	{"email", "email", func(f *forms.ProfileForm) *string { return &f.Email }},
	{"phone", "phone number", func(f *forms.ProfileForm) *string { return &f.Phone }},
	{"location", "location", func(f *forms.ProfileForm) *string { return &f.Location }},
	{"bio", "about you, at most 1000 characters", func(f *forms.ProfileForm) *string { return &f.Bio }},
	{"company", "company", func(f *forms.ProfileForm) *string { return &f.Company }},
}

func (a *App) updateProfileCmd(fs *pflag.FlagSet) func(context.Context, []string) error {
	var (
		staged forms.ProfileForm
		skills []string
	)
	for _, pf := range profileStringFlags {
		fs.StringVar(pf.field(&staged), pf.name, "", pf.usage)
	}
	fs.StringSliceVar(&skills, "skill", nil, "skill (repeatable or comma separated); replaces the current list")
	return func(ctx context.Context, _ []string) error {
		u, err := a.Profile.Profile(ctx)
		if err != nil {
			return failed(err, msgProfileFailed)
		}
		f := forms.ProfileFormFrom(u)
		for _, pf := range profileStringFlags {
			if fs.Changed(pf.name) {
				*pf.field(&f) = *pf.field(&staged)
			}
		}
		if fs.Changed("skill") {
			f.Skills = skills
		}
		updated, err := a.Profile.Update(ctx, f)
		if err != nil {
			return failed(err, msgUpdateFailed)
		}
		fmt.Fprintln(a.Out, "Profile updated.")
		return a.output(updated, func(tw *tabwriter.Writer) { renderProfile(tw, updated) })
	}
}

func (a *App) changePasswordCmd(fs *pflag.FlagSet) func(context.Context, []string) error {
	var f forms.ChangePasswordForm
	fs.StringVar(&f.CurrentPassword, "current", "", "current password (prompted when omitted)")
	fs.StringVar(&f.NewPassword, "new", "", "new password, at least 8 characters (prompted when omitted)")
	fs.StringVar(&f.ConfirmPassword, "confirm", "", "repeat the new password (prompted when omitted)")
	return func(ctx context.Context, _ []string) error {
		a.prompt(&f.CurrentPassword, "Current password")
		a.prompt(&f.NewPassword, "New password")
		if !fs.Changed("confirm") {
			a.prompt(&f.ConfirmPassword, "Confirm new password")
		}
		if err := a.Profile.ChangePassword(ctx, f); err != nil {
			return failed(err, msgPasswordFailed)
		}
		fmt.Fprintln(a.Out, "Password changed.")
		return nil
	}
}
