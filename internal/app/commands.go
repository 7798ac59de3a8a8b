package app

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/prabhakarsharma95/Nexus-Frontend/internal/forms"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/health"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/nav"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/security"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/telemetry"
	userdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/user/domain"
)

func (a *App) commandTable() []*command {
	seeker, employer := userdomain.RoleJobSeeker, userdomain.RoleEmployer
	jobRoute := func(args []string) string { return nav.JobDetail(argAt(args, 0)) }
	applicantsRoute := func(args []string) string { return nav.JobApplicants(argAt(args, 0)) }
	editRoute := func(args []string) string { return nav.EditJob(argAt(args, 0)) }

	return []*command{
		{name: "login", summary: "Sign in", flags: a.loginCmd},
		{name: "signup", summary: "Create an account", flags: a.signupCmd},
		{name: "logout", summary: "Sign out and forget the saved session", flags: a.logoutCmd},
		{name: "whoami", summary: "Show the signed-in user", flags: a.whoamiCmd},
		{name: "doctor", summary: "Check the session store, access policy and backend", flags: a.doctorCmd},

		{name: "jobs", summary: "Search job listings", route: fixed(nav.Jobs), flags: a.jobsCmd},
		{name: "browse", summary: "Browse job listings interactively", route: fixed(nav.Jobs), flags: a.browseCmd},
		{name: "job", args: "<id>", summary: "Show a job", route: jobRoute, flags: a.jobCmd},
		{name: "apply", args: "<id>", summary: "Apply to a job", route: jobRoute, flags: a.applyCmd},
		{name: "save", args: "<id>", summary: "Save a job", route: jobRoute, flags: a.saveCmd(true)},
		{name: "unsave", args: "<id>", summary: "Remove a job from your saved jobs", route: jobRoute, flags: a.saveCmd(false)},

		{name: "dashboard", summary: "Job-seeker dashboard", guarded: true, role: seeker, route: fixed(nav.SeekerDashboard), flags: a.dashboardCmd},
		{name: "saved", summary: "List your saved jobs", guarded: true, role: seeker, route: fixed(nav.SeekerDashboard), flags: a.savedCmd},
		{name: "applications", summary: "List your applications", guarded: true, role: seeker, route: fixed(nav.Applications), flags: a.applicationsCmd},

		{name: "employer", summary: "Employer dashboard", guarded: true, role: employer, route: fixed(nav.EmployerDashboard), flags: a.employerCmd},
		{name: "post-job", summary: "Post a job", guarded: true, role: employer, route: fixed(nav.PostJob), flags: a.postJobCmd},
		{name: "update-job", args: "<id>", summary: "Edit one of your jobs", guarded: true, role: employer, route: editRoute, flags: a.updateJobCmd},
		{name: "delete-job", args: "<id>", summary: "Delete one of your jobs", guarded: true, role: employer, route: editRoute, flags: a.deleteJobCmd},
		{name: "applicants", args: "<job-id>", summary: "List a job's applicants", guarded: true, role: employer, route: applicantsRoute, flags: a.applicantsCmd},
		{name: "set-status", args: "<job-id> <applicant-id> <status>", summary: "Change an applicant's status", guarded: true, role: employer, route: applicantsRoute, flags: a.setStatusCmd},

		{name: "profile", summary: "Show your profile", guarded: true, route: fixed(nav.Profile), flags: a.profileCmd},
		{name: "update-profile", summary: "Edit your profile", guarded: true, route: fixed(nav.Profile), flags: a.updateProfileCmd},
		{name: "change-password", summary: "Change your password", guarded: true, route: fixed(nav.Profile), flags: a.changePasswordCmd},
	}
}

// prompt reads one line from In when value is empty.
func (a *App) prompt(value *string, label string) {
	if *value != "" || a.In == nil {
		return
	}
	fmt.Fprintf(a.Err, "%s: ", label)
	line, _ := a.reader().ReadString('\n')
	*value = strings.TrimRight(line, "\r\n")
}

func (a *App) loginCmd(fs *pflag.FlagSet) func(context.Context, []string) error {
	var f forms.LoginForm
	fs.StringVar(&f.Email, "email", "", "account email")
	fs.StringVar(&f.Password, "password", "", "password (prompted when omitted)")
	from := fs.String("from", "", "route to open after signing in")
	return func(ctx context.Context, _ []string) error {
		a.prompt(&f.Password, "Password")
		if err := f.Validate(); err != nil {
			return err
		}
		a.Session.ClearError()
		if !a.Session.Login(ctx, f.Email, f.Password) {
			return &sessionError{msg: a.Session.State().LastError}
		}
		u := a.Session.State().CurrentUser
		a.emit(ctx, telemetry.EventLogin, "", nil)
		fmt.Fprintf(a.Out, "Welcome back, %s.\n", u.FullName())
		a.afterSignIn(*from)
		return nil
	}
}

// afterSignIn opens from, or the dashboard; the guard sends employers on to theirs.
func (a *App) afterSignIn(from string) {
	if from == "" {
		from = nav.SeekerDashboard
	}
	a.Nav.Navigate(from, "")
}

func (a *App) signupCmd(fs *pflag.FlagSet) func(context.Context, []string) error {
	var (
		f    forms.SignupForm
		role string
	)
	fs.StringVar(&f.FirstName, "first-name", "", "first name")
	fs.StringVar(&f.LastName, "last-name", "", "last name")
	fs.StringVar(&f.Email, "email", "", "account email")
	fs.StringVar(&f.Password, "password", "", "password, at least 8 characters (prompted when omitted)")
	fs.StringVar(&f.ConfirmPassword, "confirm-password", "", "repeat the password (defaults to --password)")
	fs.StringVar(&role, "role", string(userdomain.RoleJobSeeker), "job-seeker or employer")
	fs.StringVar(&f.CompanyCode, "company-code", "", "company invitation code, required for employers")
	fs.BoolVar(&f.AgreeTerms, "agree-terms", false, "agree to the Terms of Service and Privacy Policy")
	return func(ctx context.Context, _ []string) error {
		a.prompt(&f.Password, "Password")
		if !fs.Changed("confirm-password") {
			f.ConfirmPassword = f.Password
		}
		f.Role = userdomain.Role(role)
		if err := f.Validate(); err != nil {
			return err
		}
		a.Session.ClearError()
		if !a.Session.Signup(ctx, f.Request()) {
			return &sessionError{msg: a.Session.State().LastError}
		}
		u := a.Session.State().CurrentUser
		a.emit(ctx, telemetry.EventSignup, "", map[string]string{"role": string(u.Role)})
		fmt.Fprintf(a.Out, "Welcome to Nexus, %s. You are signed up as %s.\n", u.FullName(), u.Role.Label())
		a.afterSignIn("")
		return nil
	}
}

func (a *App) logoutCmd(_ *pflag.FlagSet) func(context.Context, []string) error {
	return func(ctx context.Context, _ []string) error {
		a.emit(ctx, telemetry.EventLogout, "", nil)
		a.Session.Logout(ctx)
		fmt.Fprintln(a.Out, "Signed out.")
		return nil
	}
}

type whoami struct {
	SignedIn  bool             `json:"signedIn"`
	User      *userdomain.User `json:"user,omitempty"`
	ExpiresAt *time.Time       `json:"expiresAt,omitempty"`
}

func (a *App) whoamiCmd(_ *pflag.FlagSet) func(context.Context, []string) error {
	return func(ctx context.Context, _ []string) error {
		st := a.Session.State()
		w := whoami{SignedIn: st.IsAuthenticated, User: st.CurrentUser}
		if st.IsAuthenticated && a.Token != nil {
			if tok, err := a.Token(ctx); err == nil && tok != "" {
				if info, err := security.Inspect(tok); err == nil && !info.ExpiresAt.IsZero() {
					exp := info.ExpiresAt
					w.ExpiresAt = &exp
				}
			}
		}
		return a.output(w, func(tw *tabwriter.Writer) {
			if !w.SignedIn {
				fmt.Fprintln(tw, "Not signed in.")
				return
			}
			fmt.Fprintf(tw, "Name\t%s\n", w.User.FullName())
			fmt.Fprintf(tw, "Email\t%s\n", w.User.Email)
			fmt.Fprintf(tw, "Role\t%s\n", w.User.Role.Label())
			if w.ExpiresAt != nil {
				fmt.Fprintf(tw, "Session expires\t%s\n", w.ExpiresAt.Local().Format(time.RFC1123))
			}
		})
	}
}

type doctorResult struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
	Elapsed string `json:"elapsed"`
}

func (a *App) doctorCmd(_ *pflag.FlagSet) func(context.Context, []string) error {
	return func(ctx context.Context, _ []string) error {
		if a.Health == nil {
			return fmt.Errorf("doctor: no checks configured")
		}
		rep := a.Health.Check(ctx)
		out := struct {
			Status string         `json:"status"`
			Checks []doctorResult `json:"checks"`
		}{Status: string(rep.Status)}
		for _, r := range rep.Results {
			dr := doctorResult{Name: r.Name, OK: r.Err == nil, Elapsed: r.Elapsed.Round(time.Millisecond).String()}
			if r.Err != nil {
				dr.Error = r.Err.Error()
			}
			out.Checks = append(out.Checks, dr)
		}
		if err := a.output(out, func(tw *tabwriter.Writer) {
			for _, c := range out.Checks {
				state := "ok"
				if !c.OK {
					state = "FAIL: " + c.Error
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, state, c.Elapsed)
			}
			fmt.Fprintf(tw, "status\t%s\t\n", out.Status)
		}); err != nil {
			return err
		}
		if rep.Status != health.StatusServing {
			return errSilent
		}
		return nil
	}
}
