package app

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/prabhakarsharma95/Nexus-Frontend/internal/apiclient"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/application/status"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/dashboard"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/forms"
	jobdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/job/domain"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/job/query"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/telemetry"
	userdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/user/domain"
)

// View fallbacks when the backend sends no message.
const (
	msgJobsFailed         = "Failed to load jobs. Please try again later."
	msgJobFailed          = "Failed to load job details"
	msgApplyFailed        = "Failed to submit application"
	msgApplicationsFailed = "Failed to load your applications. Please try again later."
	msgSaveFailed         = "Failed to update saved jobs"
)

type listingFlags struct {
	search, category, jobType, location, experience, salary, sort, link string
	page, limit                                                        int
}

func bindListing(fs *pflag.FlagSet) *listingFlags {
	l := &listingFlags{}
	fs.StringVarP(&l.search, "search", "q", "", "keywords")
	fs.StringVar(&l.category, "category", "", "category, e.g. \"IT & Software\"")
	fs.StringVar(&l.jobType, "type", "", "job type: "+strings.Join(query.JobTypes, ", "))
	fs.StringVar(&l.location, "location", "", "location")
	fs.StringVar(&l.experience, "experience", "", "experience level, e.g. \"2-4 years\"")
	fs.StringVar(&l.salary, "salary", "", "salary range as min-max, e.g. 40000-80000 or 200000-")
	fs.StringVar(&l.sort, "sort", string(query.SortNewest), "sort order")
	fs.IntVar(&l.page, "page", 1, "page number")
	fs.IntVar(&l.limit, "limit", 0, "jobs per page")
	fs.StringVar(&l.link, "link", "", "start from a search link such as /jobs?q=go&type=Remote")
	return l
}

func checkOption(flag, v string, options []string) error {
	if v == "" || query.Contains(options, v) {
		return nil
	}
	return usagef("--%s must be one of: %s", flag, strings.Join(options, ", "))
}

func salaryValues() []string {
	out := make([]string, len(query.SalaryBuckets))
	for i, b := range query.SalaryBuckets {
		out[i] = b.Value
	}
	return out
}

// query builds the listing query from the link and the flags that were set.
func (l *listingFlags) query(fs *pflag.FlagSet, limit int) (query.Query, error) {
	q := query.New(limit)
	if l.link != "" {
		raw := l.link
		if i := strings.IndexByte(raw, '?'); i >= 0 {
			raw = raw[i+1:]
		}
		v, err := url.ParseQuery(raw)
		if err != nil {
			return q, usagef("--link: %v", err)
		}
		q = query.FromSearchParams(v, limit)
	}
	for _, c := range []struct {
		flag, v string
		opts    []string
	}{
		{"category", l.category, query.Categories},
		{"type", l.jobType, query.JobTypes},
		{"experience", l.experience, query.ExperienceLevels},
		{"salary", l.salary, salaryValues()},
	} {
		if err := checkOption(c.flag, c.v, c.opts); err != nil {
			return q, err
		}
	}

	u := query.FilterUpdate{Page: &q.Page}
	str := func(name string, v *string) *string {
		if fs.Changed(name) {
			return v
		}
		return nil
	}
	u.Search = str("search", &l.search)
	u.Category = str("category", &l.category)
	u.Type = str("type", &l.jobType)
	u.Location = str("location", &l.location)
	u.Experience = str("experience", &l.experience)
	u.Salary = str("salary", &l.salary)
	if fs.Changed("sort") {
		s, ok := query.ParseSort(l.sort)
		if !ok {
			return q, usagef("--sort must be one of: newest, oldest, salary-high-to-low, salary-low-to-high")
		}
		u.Sort = &s
	}
	if fs.Changed("limit") {
		u.Limit = &l.limit
	}
	if fs.Changed("page") {
		u.Page = &l.page
	}
	q.Update(u)
	return q, nil
}

type listing struct {
	Query url.Values             `json:"query"`
	Page  *jobdomain.ListingPage `json:"page"`
}

func (a *App) jobsCmd(fs *pflag.FlagSet) func(context.Context, []string) error {
	l := bindListing(fs)
	return func(ctx context.Context, _ []string) error {
		q, err := l.query(fs, a.PageLimit)
		if err != nil {
			return err
		}
		page, err := a.Jobs.Search(ctx, q)
		if err != nil {
			return failed(err, msgJobsFailed)
		}
		return a.output(listing{Query: q.Params(), Page: page}, func(tw *tabwriter.Writer) {
			renderListing(tw, q, page)
		})
	}
}

func renderListing(tw *tabwriter.Writer, q query.Query, page *jobdomain.ListingPage) {
	if len(page.Jobs) == 0 {
		fmt.Fprintln(tw, "No jobs found")
		if q.Active() {
			fmt.Fprintln(tw, "Try adjusting your search or filters.")
		}
		return
	}
	fmt.Fprintf(tw, "%d jobs found\n\n", page.TotalJobs)
	renderJobRows(tw, page.Jobs)
	fmt.Fprintf(tw, "\nPage %d of %d\t%s\n", page.CurrentPage, page.TotalPages, pageBar(query.Pagination(page.CurrentPage, page.TotalPages)))
}

func renderJobRows(tw *tabwriter.Writer, jobs []jobdomain.Job) {
	fmt.Fprintln(tw, "ID\tTITLE\tCOMPANY\tLOCATION\tTYPE\tSALARY\tPOSTED")
	for _, j := range jobs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			j.ID, truncate(j.Title, 40), orDash(j.Company), orDash(j.Location), orDash(j.Type), salaryRange(j.Salary), formatDate(j.CreatedAt))
	}
}

type jobView struct {
	Job     *jobdomain.Job `json:"job"`
	Saved   bool           `json:"saved"`
	Applied bool           `json:"applied"`
}

func (a *App) jobCmd(_ *pflag.FlagSet) func(context.Context, []string) error {
	return func(ctx context.Context, args []string) error {
		if err := needArgs(args, 1, "job id"); err != nil {
			return err
		}
		d, err := a.Jobs.Detail(ctx, a.Session.State(), args[0])
		if err != nil {
			if apiclient.IsNotFound(err) {
				return failed(err, "Job Not Found")
			}
			return failed(err, msgJobFailed)
		}
		return a.output(jobView{Job: d.Job, Saved: d.Saved, Applied: d.Applied}, func(tw *tabwriter.Writer) {
			renderJob(tw, d.Job)
			switch {
			case d.Applied:
				fmt.Fprintln(tw, "\nYou have applied to this job. See: nexus applications")
			case a.Session.State().IsAuthenticated:
				fmt.Fprintf(tw, "\nApply with: nexus apply %s\n", d.Job.ID)
			default:
				fmt.Fprintln(tw, "\nSign in to apply: nexus login")
			}
			if d.Saved {
				fmt.Fprintln(tw, "Saved.")
			}
		})
	}
}

func renderJob(tw *tabwriter.Writer, j *jobdomain.Job) {
	fmt.Fprintf(tw, "%s\n%s - %s\n\n", j.Title, orDash(j.Company), orDash(j.Location))
	fmt.Fprintf(tw, "Type\t%s\n", orDash(j.Type))
	fmt.Fprintf(tw, "Category\t%s\n", orDash(j.Category))
	fmt.Fprintf(tw, "Salary\t%s\n", salaryRange(j.Salary))
	fmt.Fprintf(tw, "Experience\t%s\n", orDash(j.Experience))
	fmt.Fprintf(tw, "Education\t%s\n", orDash(j.Education))
	fmt.Fprintf(tw, "Posted on\t%s\n", formatDate(j.CreatedAt))
	fmt.Fprintf(tw, "Deadline\t%s\n", formatDatePtr(j.ApplicationDeadline))
	if len(j.Skills) > 0 {
		fmt.Fprintf(tw, "Skills\t%s\n", strings.Join(j.Skills, ", "))
	}
	if len(j.Benefits) > 0 {
		fmt.Fprintf(tw, "Benefits\t%s\n", strings.Join(j.Benefits, ", "))
	}
	for _, s := range []struct{ title, body string }{
		{"Job Description", j.Description},
		{"Requirements", j.Requirements},
		{"Responsibilities", j.Responsibilities},
	} {
		if strings.TrimSpace(s.body) != "" {
			fmt.Fprintf(tw, "\n%s\n%s\n", s.title, s.body)
		}
	}
}

func (a *App) applyCmd(fs *pflag.FlagSet) func(context.Context, []string) error {
	var f forms.ApplicationForm
	fs.StringVar(&f.CoverLetter, "cover-letter", "", "cover letter")
	fs.StringVar(&f.Resume, "resume", "", "link to your resume")
	fs.StringVar(&f.Phone, "phone", "", "phone number")
	fs.StringVar(&f.Experience, "experience", "", "relevant experience")
	fs.StringVar(&f.Education, "education", "", "education")
	fs.StringVar(&f.CurrentCompany, "current-company", "", "current company")
	fs.StringVar(&f.CurrentPosition, "current-position", "", "current position")
	fs.StringVar(&f.ExpectedSalary, "expected-salary", "", "expected salary")
	fs.StringVar(&f.AvailableStartDate, "start-date", "", "available start date (YYYY-MM-DD)")
	fs.StringVar(&f.ReferenceContact, "reference", "", "reference contact")
	fs.StringVar(&f.AdditionalInfo, "additional-info", "", "anything else the employer should know")
	return func(ctx context.Context, args []string) error {
		if err := needArgs(args, 1, "job id"); err != nil {
			return err
		}
		st := a.Session.State()
		d, err := a.Jobs.Detail(ctx, st, args[0])
		if err != nil {
			return failed(err, msgJobFailed)
		}
		if err := a.Jobs.Apply(ctx, st, d, f); err != nil {
			return failed(err, msgApplyFailed)
		}
		a.emit(ctx, telemetry.EventJobApplied, "/jobs/"+d.Job.ID, map[string]string{"job_id": d.Job.ID})
		fmt.Fprintln(a.Out, "Your application has been submitted successfully!")
		return nil
	}
}

func (a *App) saveCmd(save bool) func(*pflag.FlagSet) func(context.Context, []string) error {
	return func(_ *pflag.FlagSet) func(context.Context, []string) error {
		return func(ctx context.Context, args []string) error {
			if err := needArgs(args, 1, "job id"); err != nil {
				return err
			}
			saved, err := a.Jobs.SetSaved(ctx, a.Session.State(), args[0], save)
			if err != nil {
				return failed(err, msgSaveFailed)
			}
			ev := telemetry.EventJobUnsaved
			if saved {
				ev = telemetry.EventJobSaved
				fmt.Fprintln(a.Out, "Job saved.")
			} else {
				fmt.Fprintln(a.Out, "Job removed from saved jobs.")
			}
			a.emit(ctx, ev, "/jobs/"+args[0], map[string]string{"job_id": args[0]})
			return nil
		}
	}
}

func (a *App) savedCmd(_ *pflag.FlagSet) func(context.Context, []string) error {
	return func(ctx context.Context, _ []string) error {
		jobs, err := a.API.SavedJobs(ctx)
		if err != nil {
			return failed(err, dashboard.MsgFetchFailed)
		}
		return a.output(jobs, func(tw *tabwriter.Writer) {
			if len(jobs) == 0 {
				fmt.Fprintln(tw, "You haven't saved any jobs yet.")
				return
			}
			renderJobRows(tw, jobs)
		})
	}
}

func (a *App) applicationsCmd(fs *pflag.FlagSet) func(context.Context, []string) error {
	filter := fs.String("status", "", "show only applications with this status")
	withTimeline := fs.Bool("timeline", false, "show each application's progress")
	return func(ctx context.Context, _ []string) error {
		var f status.Status
		if *filter != "" && *filter != "all" {
			s, ok := status.Parse(*filter)
			if !ok {
				return usagef("--status must be one of: all, pending, reviewing, shortlisted, interview, selected, rejected")
			}
			f = s
		}
		return a.applications(ctx, f, *withTimeline)
	}
}

type applicationsView struct {
	Counts       map[status.Status]int   `json:"counts"`
	Filter       status.Status           `json:"filter,omitempty"`
	Applications []jobdomain.Application `json:"applications"`
}

func (a *App) applications(ctx context.Context, filter status.Status, withTimeline bool) error {
	apps, err := a.API.Applications(ctx)
	if err != nil {
		return failed(err, msgApplicationsFailed)
	}
	ss := make([]status.Status, len(apps))
	for i := range apps {
		ss[i] = apps[i].Status
	}
	v := applicationsView{Counts: status.Counts(ss), Filter: filter}
	v.Counts[""] = len(apps)
	for _, ap := range apps {
		if status.Matches(ap.Status, filter) {
			v.Applications = append(v.Applications, ap)
		}
	}
	return a.output(v, func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "My Applications")
		fmt.Fprintln(tw, statusTabs(v.Counts, filter))
		fmt.Fprintln(tw)
		if len(apps) == 0 {
			fmt.Fprintln(tw, "You haven't applied to any jobs yet. Browse jobs with: nexus jobs")
			return
		}
		if len(v.Applications) == 0 {
			fmt.Fprintln(tw, "No applications found with the selected filter.")
			return
		}
		fmt.Fprintln(tw, "JOB\tCOMPANY\tSTATUS\tAPPLIED")
		for _, ap := range v.Applications {
			title, company := "Job no longer available", "-"
			if ap.Job != nil {
				title, company = truncate(ap.Job.Title, 40), orDash(ap.Job.Company)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\tApplied on %s\n", title, company, badge(ap.Status), formatDate(ap.AppliedAt))
			if withTimeline {
				fmt.Fprintf(tw, "  %s\t\t\t\n", timeline(ap.Status))
				fmt.Fprintf(tw, "  %s\t\t\t\n", status.Description(ap.Status))
			}
		}
	})
}

type sectionOut[T any] struct {
	Data  T      `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

func section[T any](s dashboard.Section[T]) sectionOut[T] {
	out := sectionOut[T]{Data: s.Data}
	if s.Err != nil {
		out.Error = apiclient.MessageOr(s.Err, dashboard.MsgFetchFailed)
	}
	return out
}

func (a *App) dashboardCmd(_ *pflag.FlagSet) func(context.Context, []string) error {
	return func(ctx context.Context, _ []string) error {
		d := dashboard.LoadSeeker(ctx, a.API)
		if err := d.Unauthorized(); err != nil {
			return err
		}
		out := struct {
			Profile      sectionOut[*userdomain.User]        `json:"profile"`
			SavedJobs    sectionOut[[]jobdomain.Job]         `json:"savedJobs"`
			Applications sectionOut[[]jobdomain.Application] `json:"applications"`
			Counts       map[status.Status]int               `json:"counts"`
		}{
			Profile:      section(d.Profile),
			SavedJobs:    section(d.SavedJobs),
			Applications: section(d.Applications),
			Counts:       d.ApplicationCounts(),
		}
		if err := a.output(out, func(tw *tabwriter.Writer) { renderSeeker(tw, d) }); err != nil {
			return err
		}
		if d.Err() != nil {
			return errSilent
		}
		return nil
	}
}

func renderSeeker(tw *tabwriter.Writer, d *dashboard.Seeker) {
	if d.Profile.OK() && d.Profile.Data != nil {
		fmt.Fprintf(tw, "Welcome back, %s!\n\n", d.Profile.Data.FullName())
	} else {
		fmt.Fprintf(tw, "Profile: %s\n\n", apiclient.MessageOr(d.Profile.Err, dashboard.MsgFetchFailed))
	}

	fmt.Fprintln(tw, "Recent Applications")
	switch {
	case !d.Applications.OK():
		fmt.Fprintf(tw, "  %s\n", apiclient.MessageOr(d.Applications.Err, dashboard.MsgFetchFailed))
	case len(d.Applications.Data) == 0:
		fmt.Fprintln(tw, "  You haven't applied to any jobs yet.")
	default:
		counts := d.ApplicationCounts()
		for _, s := range status.All {
			fmt.Fprintf(tw, "  %s\t%d\n", status.Label(s), counts[s])
		}
		fmt.Fprintln(tw)
		apps := d.Applications.Data
		if len(apps) > dashboard.RecentLimit {
			apps = apps[:dashboard.RecentLimit]
		}
		for _, ap := range apps {
			title := "Job no longer available"
			if ap.Job != nil {
				title = ap.Job.Title
			}
			fmt.Fprintf(tw, "  %s\t%s\tApplied on %s\n", truncate(title, 40), badge(ap.Status), formatDate(ap.AppliedAt))
		}
	}

	fmt.Fprintln(tw, "\nSaved Jobs")
	switch {
	case !d.SavedJobs.OK():
		fmt.Fprintf(tw, "  %s\n", apiclient.MessageOr(d.SavedJobs.Err, dashboard.MsgFetchFailed))
	case len(d.SavedJobs.Data) == 0:
		fmt.Fprintln(tw, "  You haven't saved any jobs yet.")
	default:
		for _, j := range d.SavedJobs.Data {
			fmt.Fprintf(tw, "  %s\t%s\t%s\tPosted on %s\n", j.ID, truncate(j.Title, 40), orDash(j.Company), formatDate(j.CreatedAt))
		}
	}
}
