// Package dashboard loads the job-seeker and employer dashboards. Sections are fetched concurrently
// and fail independently.
package dashboard

import (
	"context"
	"log"
	"sort"

	"github.com/sourcegraph/conc"

	"github.com/prabhakarsharma95/Nexus-Frontend/internal/apiclient"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/application/status"
	jobdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/job/domain"
	userdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/user/domain"
)

// MsgFetchFailed is shown for a section whose request failed without a server message.
const MsgFetchFailed = "Failed to fetch dashboard data"

// RecentLimit is how many recent applicants the employer dashboard shows.
const RecentLimit = 5

// API is the subset of the backend client the dashboards need.
type API interface {
	Profile(ctx context.Context) (*userdomain.User, error)
	SavedJobs(ctx context.Context) ([]jobdomain.Job, error)
	Applications(ctx context.Context) ([]jobdomain.Application, error)
	EmployerJobs(ctx context.Context) ([]jobdomain.Job, error)
}

// Section is one independently loaded part of a dashboard.
type Section[T any] struct {
	Data T
	Err  error
}

// OK reports whether the section loaded.
func (s Section[T]) OK() bool { return s.Err == nil }

// Seeker is the job-seeker dashboard.
type Seeker struct {
	Profile      Section[*userdomain.User]
	SavedJobs    Section[[]jobdomain.Job]
	Applications Section[[]jobdomain.Application]
}

// Err returns the first section error, or nil.
func (d *Seeker) Err() error {
	for _, err := range []error{d.Profile.Err, d.SavedJobs.Err, d.Applications.Err} {
		if err != nil {
			return err
		}
	}
	return nil
}

// Unauthorized returns the first 401 among the sections, or nil. A 401 is a session expiry, not a section failure.
func (d *Seeker) Unauthorized() error {
	return firstUnauthorized(d.Profile.Err, d.SavedJobs.Err, d.Applications.Err)
}

func firstUnauthorized(errs ...error) error {
	for _, err := range errs {
		if apiclient.IsUnauthorized(err) {
			return err
		}
	}
	return nil
}

// ApplicationCounts tallies the seeker's applications by status.
func (d *Seeker) ApplicationCounts() map[status.Status]int {
	ss := make([]status.Status, len(d.Applications.Data))
	for i, a := range d.Applications.Data {
		ss[i] = a.Status
	}
	return status.Counts(ss)
}

// LoadSeeker fetches the profile, saved jobs and applications concurrently.
func LoadSeeker(ctx context.Context, api API) *Seeker {
	d := &Seeker{}
	var wg conc.WaitGroup
	wg.Go(func() {
		d.Profile.Data, d.Profile.Err = api.Profile(ctx)
	})
	wg.Go(func() {
		d.SavedJobs.Data, d.SavedJobs.Err = api.SavedJobs(ctx)
	})
	wg.Go(func() {
		d.Applications.Data, d.Applications.Err = api.Applications(ctx)
	})
	wg.Wait()
	if err := d.Err(); err != nil {
		log.Printf("dashboard: seeker: %v", err)
	}
	return d
}

// RecentApplicant is an applicant with the job they applied to.
type RecentApplicant struct {
	jobdomain.Applicant
	JobID    string
	JobTitle string
}

// Employer is the employer dashboard.
type Employer struct {
	Profile Section[*userdomain.User]
	Jobs    Section[[]jobdomain.Job]
	// Stats counts applicants across all posted jobs by status.
	Stats map[status.Status]int
	// Total is the number of applicants across all posted jobs.
	Total  int
	Recent []RecentApplicant
}

// Err returns the first section error, or nil.
func (d *Employer) Err() error {
	if d.Profile.Err != nil {
		return d.Profile.Err
	}
	return d.Jobs.Err
}

// Unauthorized returns the first 401 among the sections, or nil.
func (d *Employer) Unauthorized() error {
	return firstUnauthorized(d.Profile.Err, d.Jobs.Err)
}

// LoadEmployer fetches the profile and posted jobs concurrently and derives applicant statistics.
func LoadEmployer(ctx context.Context, api API) *Employer {
	d := &Employer{}
	var wg conc.WaitGroup
	wg.Go(func() {
		d.Profile.Data, d.Profile.Err = api.Profile(ctx)
	})
	wg.Go(func() {
		d.Jobs.Data, d.Jobs.Err = api.EmployerJobs(ctx)
	})
	wg.Wait()
	if err := d.Err(); err != nil {
		log.Printf("dashboard: employer: %v", err)
	}
	d.Stats, d.Total, d.Recent = applicantStats(d.Jobs.Data, RecentLimit)
	return d
}

func applicantStats(jobs []jobdomain.Job, recent int) (map[status.Status]int, int, []RecentApplicant) {
	var (
		all []RecentApplicant
		ss  []status.Status
	)
	for _, j := range jobs {
		for _, a := range j.Applicants {
			all = append(all, RecentApplicant{Applicant: a, JobID: j.ID, JobTitle: j.Title})
			ss = append(ss, a.Status)
		}
	}
	sort.SliceStable(all, func(i, k int) bool {
		return all[i].AppliedAt.After(all[k].AppliedAt)
	})
	if len(all) > recent {
		all = all[:recent]
	}
	return status.Counts(ss), len(ss), all
}
