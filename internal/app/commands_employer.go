package app

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/prabhakarsharma95/Nexus-Frontend/internal/apiclient"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/application/status"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/dashboard"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/forms"
	jobdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/job/domain"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/telemetry"
	userdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/user/domain"
)

const (
	msgPostFailed       = "Failed to post job. Please try again."
	msgUpdateJobFailed  = "Failed to update job"
	msgDeleteFailed     = "Failed to delete job"
	msgApplicantsFailed = "Failed to load applicants"
	msgStatusFailed     = "Failed to update applicant status. Please try again."
)

func (a *App) employerCmd(_ *pflag.FlagSet) func(context.Context, []string) error {
	return func(ctx context.Context, _ []string) error {
		d := dashboard.LoadEmployer(ctx, a.API)
		if err := d.Unauthorized(); err != nil {
			return err
		}
		out := struct {
			Profile         sectionOut[*userdomain.User] `json:"profile"`
			Jobs            sectionOut[[]jobdomain.Job]  `json:"jobs"`
			Stats           map[status.Status]int        `json:"stats"`
			TotalApplicants int                          `json:"totalApplicants"`
			Recent          []dashboard.RecentApplicant  `json:"recentApplicants"`
		}{section(d.Profile), section(d.Jobs), d.Stats, d.Total, d.Recent}
		if err := a.output(out, func(tw *tabwriter.Writer) { renderEmployer(tw, d) }); err != nil {
			return err
		}
		if d.Err() != nil {
			return errSilent
		}
		return nil
	}
}

func renderEmployer(tw *tabwriter.Writer, d *dashboard.Employer) {
	if d.Profile.OK() && d.Profile.Data != nil {
		fmt.Fprintf(tw, "Welcome back, %s!\n", d.Profile.Data.FullName())
		if d.Profile.Data.Company != "" {
			fmt.Fprintln(tw, d.Profile.Data.Company)
		}
		fmt.Fprintln(tw)
	} else {
		fmt.Fprintf(tw, "Profile: %s\n\n", apiclient.MessageOr(d.Profile.Err, dashboard.MsgFetchFailed))
	}
	if !d.Jobs.OK() {
		fmt.Fprintf(tw, "Jobs: %s\n", apiclient.MessageOr(d.Jobs.Err, dashboard.MsgFetchFailed))
		return
	}

	fmt.Fprintf(tw, "Posted jobs\t%d\n", len(d.Jobs.Data))
	fmt.Fprintf(tw, "Total applicants\t%d\n", d.Total)
	for _, s := range status.All {
		fmt.Fprintf(tw, "%s\t%d\n", status.Label(s), d.Stats[s])
	}

	fmt.Fprintln(tw, "\nRecent Applications")
	if len(d.Recent) == 0 {
		fmt.Fprintln(tw, "No applications received yet.")
	} else {
		fmt.Fprintln(tw, "APPLICANT\tJOB\tSTATUS\tAPPLIED")
		for _, r := range d.Recent {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Name(), truncate(r.JobTitle, 40), badge(r.Status), formatDate(r.AppliedAt))
		}
	}

	fmt.Fprintln(tw, "\nYour Jobs")
	if len(d.Jobs.Data) == 0 {
		fmt.Fprintln(tw, "You haven't posted any jobs yet. Post one with: nexus post-job")
		return
	}
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tAPPLICANTS\tPOSTED")
	for _, j := range d.Jobs.Data {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", j.ID, truncate(j.Title, 40), orDash(j.Status), len(j.Applicants), formatDate(j.CreatedAt))
	}
}

// jobFlags binds the job form fields to flags on a staging form.
type jobFlags struct {
	f        forms.JobForm
	skills   []string
	benefits []string
}

var jobStringFlags = []struct {
	name, usage string
	field       func(*forms.JobForm) *string
}{
	{"title", "job title", func(f *forms.JobForm) *string { return &f.Title }},
	{"company", "company name", func(f *forms.JobForm) *string { return &f.Company }},
	{"location", "location", func(f *forms.JobForm) *string { return &f.Location }},
	{"type", "job type", func(f *forms.JobForm) *string { return &f.Type }},
	{"category", "category", func(f *forms.JobForm) *string { return &f.Category }},
	{"description", "job description", func(f *forms.JobForm) *string { return &f.Description }},
	{"requirements", "requirements", func(f *forms.JobForm) *string { return &f.Requirements }},
	{"responsibilities", "responsibilities", func(f *forms.JobForm) *string { return &f.Responsibilities }},
	{"salary-min", "minimum salary", func(f *forms.JobForm) *string { return &f.SalaryMin }},
	{"salary-max", "maximum salary", func(f *forms.JobForm) *string { return &f.SalaryMax }},
	{"currency", "salary currency", func(f *forms.JobForm) *string { return &f.Currency }},
	{"experience", "experience level", func(f *forms.JobForm) *string { return &f.Experience }},
	{"education", "education level", func(f *forms.JobForm) *string { return &f.Education }},
	{"deadline", "application deadline (YYYY-MM-DD)", func(f *forms.JobForm) *string { return &f.ApplicationDeadline }},
	{"status", "active, closed or draft", func(f *forms.JobForm) *string { return &f.Status }},
}

func bindJobForm(fs *pflag.FlagSet) *jobFlags {
	j := &jobFlags{f: forms.NewJobForm()}
	for _, sf := range jobStringFlags {
		p := sf.field(&j.f)
		fs.StringVar(p, sf.name, *p, sf.usage)
	}
	fs.StringSliceVar(&j.skills, "skill", nil, "required skill (repeatable or comma separated)")
	fs.StringSliceVar(&j.benefits, "benefit", nil, "benefit (repeatable or comma separated)")
	return j
}

// applyTo copies every flag that was set onto dst.
func (j *jobFlags) applyTo(fs *pflag.FlagSet, dst *forms.JobForm) {
	for _, sf := range jobStringFlags {
		if fs.Changed(sf.name) {
			*sf.field(dst) = *sf.field(&j.f)
		}
	}
	if fs.Changed("skill") {
		dst.Skills = j.skills
	}
	if fs.Changed("benefit") {
		dst.Benefits = j.benefits
	}
}

func (a *App) postJobCmd(fs *pflag.FlagSet) func(context.Context, []string) error {
	j := bindJobForm(fs)
	return func(ctx context.Context, _ []string) error {
		f := j.f
		f.Skills, f.Benefits = j.skills, j.benefits
		job, err := a.Jobs.Post(ctx, f)
		if err != nil {
			return failed(err, msgPostFailed)
		}
		a.emit(ctx, telemetry.EventJobPosted, "/employer/post-job", map[string]string{"job_id": job.ID})
		fmt.Fprintln(a.Out, "Job posted successfully!")
		fmt.Fprintf(a.Out, "Job ID: %s\n", job.ID)
		return nil
	}
}

func (a *App) updateJobCmd(fs *pflag.FlagSet) func(context.Context, []string) error {
	j := bindJobForm(fs)
	return func(ctx context.Context, args []string) error {
		if err := needArgs(args, 1, "job id"); err != nil {
			return err
		}
		id := args[0]
		st := a.Session.State()
		job, err := a.Jobs.Manageable(ctx, st, id)
		if err != nil {
			return failed(err, msgJobFailed)
		}
		f := forms.JobFormFrom(job)
		j.applyTo(fs, &f)
		updated, err := a.Jobs.Update(ctx, st, id, f)
		if err != nil {
			return failed(err, msgUpdateJobFailed)
		}
		a.emit(ctx, telemetry.EventJobUpdated, "/employer/edit-job/"+id, map[string]string{"job_id": id})
		fmt.Fprintf(a.Out, "Job updated: %s\n", updated.Title)
		return nil
	}
}

func (a *App) deleteJobCmd(fs *pflag.FlagSet) func(context.Context, []string) error {
	yes := fs.BoolP("yes", "y", false, "do not ask for confirmation")
	return func(ctx context.Context, args []string) error {
		if err := needArgs(args, 1, "job id"); err != nil {
			return err
		}
		id := args[0]
		if !*yes {
			var answer string
			a.prompt(&answer, "Are you sure you want to delete this job? [y/N]")
			if ans := strings.ToLower(strings.TrimSpace(answer)); ans != "y" && ans != "yes" {
				fmt.Fprintln(a.Out, "Cancelled.")
				return nil
			}
		}
		if err := a.Jobs.Delete(ctx, a.Session.State(), id); err != nil {
			return failed(err, msgDeleteFailed)
		}
		a.emit(ctx, telemetry.EventJobDeleted, "/employer/edit-job/"+id, map[string]string{"job_id": id})
		fmt.Fprintln(a.Out, "Job deleted.")
		return nil
	}
}

type applicantsView struct {
	Job        *jobdomain.Job        `json:"job"`
	Counts     map[status.Status]int `json:"counts"`
	Filter     status.Status         `json:"filter,omitempty"`
	Applicants []jobdomain.Applicant `json:"applicants"`
}

func (a *App) applicantsCmd(fs *pflag.FlagSet) func(context.Context, []string) error {
	filter := fs.String("status", "", "show only applicants with this status")
	show := fs.String("show", "", "show one applicant's full application")
	return func(ctx context.Context, args []string) error {
		if err := needArgs(args, 1, "job id"); err != nil {
			return err
		}
		var f status.Status
		if *filter != "" && *filter != "all" {
			s, ok := status.Parse(*filter)
			if !ok {
				return usagef("--status must be one of: all, pending, reviewing, shortlisted, interview, selected, rejected")
			}
			f = s
		}
		ap, err := a.Jobs.Applicants(ctx, a.Session.State(), args[0])
		if err != nil {
			return failed(err, msgApplicantsFailed)
		}
		if *show != "" {
			one, ok := ap.Find(*show)
			if !ok {
				return failed(fmt.Errorf("applicant %s not found on job %s", *show, args[0]), "Applicant not found")
			}
			return a.output(one, func(tw *tabwriter.Writer) { renderApplicant(tw, one) })
		}
		v := applicantsView{Job: ap.Job, Counts: ap.Counts(), Filter: f, Applicants: ap.Filter(f)}
		return a.output(v, func(tw *tabwriter.Writer) {
			fmt.Fprintf(tw, "Applicants for %s\n", ap.Job.Title)
			fmt.Fprintf(tw, "%s - %s - Posted on %s\n", orDash(ap.Job.Company), orDash(ap.Job.Location), formatDate(ap.Job.CreatedAt))
			fmt.Fprintln(tw, statusTabs(v.Counts, f))
			fmt.Fprintln(tw)
			if len(v.Applicants) == 0 {
				fmt.Fprintln(tw, "No applicants found with the selected filter.")
				return
			}
			fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tSTATUS\tAPPLIED")
			for _, p := range v.Applicants {
				email := "-"
				if p.User != nil {
					email = orDash(p.User.Email)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name(), email, badge(p.Status), formatDate(p.AppliedAt))
			}
		})
	}
}

func renderApplicant(tw *tabwriter.Writer, p *jobdomain.Applicant) {
	fmt.Fprintf(tw, "%s\t%s\n", p.Name(), badge(p.Status))
	if p.User != nil {
		fmt.Fprintf(tw, "Email\t%s\n", orDash(p.User.Email))
		fmt.Fprintf(tw, "Location\t%s\n", orDash(p.User.Location))
	}
	fmt.Fprintf(tw, "Applied on\t%s\n", formatDate(p.AppliedAt))
	fmt.Fprintf(tw, "Phone\t%s\n", orDash(p.Phone))
	fmt.Fprintf(tw, "Resume\t%s\n", orDash(p.Resume))
	fmt.Fprintf(tw, "Experience\t%s\n", orDash(p.Experience))
	fmt.Fprintf(tw, "Education\t%s\n", orDash(p.Education))
	fmt.Fprintf(tw, "Current company\t%s\n", orDash(p.CurrentCompany))
	fmt.Fprintf(tw, "Current position\t%s\n", orDash(p.CurrentPosition))
	fmt.Fprintf(tw, "Expected salary\t%s\n", orDash(p.ExpectedSalary))
	fmt.Fprintf(tw, "Available from\t%s\n", orDash(p.AvailableStartDate))
	fmt.Fprintf(tw, "Reference\t%s\n", orDash(p.ReferenceContact))
	if p.CoverLetter != "" {
		fmt.Fprintf(tw, "\nCover Letter\n%s\n", p.CoverLetter)
	}
	if p.AdditionalInfo != "" {
		fmt.Fprintf(tw, "\nAdditional Information\n%s\n", p.AdditionalInfo)
	}
}

func (a *App) setStatusCmd(_ *pflag.FlagSet) func(context.Context, []string) error {
	return func(ctx context.Context, args []string) error {
		if err := needArgs(args, 3, "job id, applicant id or status"); err != nil {
			return err
		}
		jobID, applicantID := args[0], args[1]
		st, err := a.Jobs.SetStatus(ctx, a.Session.State(), jobID, applicantID, args[2])
		if err != nil {
			return failed(err, msgStatusFailed)
		}
		a.emit(ctx, telemetry.EventStatusChanged, "/job/"+jobID+"/applicants",
			map[string]string{"job_id": jobID, "applicant_id": applicantID, "status": string(st)})
		fmt.Fprintf(a.Out, "Applicant %s is now %s.\n", applicantID, status.Label(st))
		return nil
	}
}
