// Package service implements the job views' behavior on top of the backend client:
// listing, detail with saved/applied detection, applying, saving, and employer job management.
package service

import (
	"context"
	"errors"
	"log"
	"net/url"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/prabhakarsharma95/Nexus-Frontend/internal/apiclient"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/application/status"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/forms"
	jobdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/job/domain"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/job/query"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/nav"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/policy/engine"
	sessiondomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/session/domain"
)

// Sentinel errors; views map them to messages.
var (
	ErrNotAuthenticated = errors.New("sign in to continue")
	ErrAlreadyApplied   = errors.New("you have already applied to this job")
	ErrForbidden        = errors.New("you do not have access to this job")
	ErrInvalidStatus    = errors.New("invalid application status")
	ErrMissingID        = errors.New("job id is required")
)

// API is the subset of the backend client the job views need.
type API interface {
	SearchJobs(ctx context.Context, params url.Values) (*jobdomain.ListingPage, error)
	GetJob(ctx context.Context, id string) (*jobdomain.Job, error)
	CreateJob(ctx context.Context, in apiclient.JobInput) (*jobdomain.Job, error)
	UpdateJob(ctx context.Context, id string, in apiclient.JobInput) (*jobdomain.Job, error)
	DeleteJob(ctx context.Context, id string) error
	ApplyToJob(ctx context.Context, id string, in apiclient.ApplicationInput) error
	JobApplicants(ctx context.Context, id string) ([]jobdomain.Applicant, error)
	UpdateApplicantStatus(ctx context.Context, jobID, applicantID string, s status.Status) error
	SaveJob(ctx context.Context, jobID string) error
	UnsaveJob(ctx context.Context, jobID string) error
	SavedJobs(ctx context.Context) ([]jobdomain.Job, error)
	Applications(ctx context.Context) ([]jobdomain.Application, error)
}

// Service runs job view operations. Navigation side effects go through the Navigator.
type Service struct {
	api    API
	access engine.Evaluator
	nav    nav.Navigator
	nowF   func() time.Time
}

// New returns a job service.
func New(api API, access engine.Evaluator, n nav.Navigator) *Service {
	return &Service{api: api, access: access, nav: n, nowF: time.Now}
}

// Search fetches one listing page for q.
func (s *Service) Search(ctx context.Context, q query.Query) (*jobdomain.ListingPage, error) {
	return s.api.SearchJobs(ctx, q.Params())
}

// Detail is a job plus the signed-in user's relationship to it.
type Detail struct {
	Job     *jobdomain.Job
	Saved   bool
	Applied bool
}

// Detail loads a job. For a signed-in user it also checks saved jobs and applications concurrently;
// failures of those checks are logged and leave the flags false, except a 401, which is returned.
func (s *Service) Detail(ctx context.Context, state sessiondomain.State, id string) (*Detail, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	job, err := s.api.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &Detail{Job: job}
	if !state.IsAuthenticated {
		return d, nil
	}
	var (
		wg                   conc.WaitGroup
		savedErr, appliedErr error
	)
	wg.Go(func() {
		var saved []jobdomain.Job
		if saved, savedErr = s.api.SavedJobs(ctx); savedErr != nil {
			log.Printf("job: saved jobs for %s: %v", id, savedErr)
			return
		}
		d.Saved = containsJob(saved, id)
	})
	wg.Go(func() {
		var apps []jobdomain.Application
		if apps, appliedErr = s.api.Applications(ctx); appliedErr != nil {
			log.Printf("job: applications for %s: %v", id, appliedErr)
			return
		}
		d.Applied = hasApplied(apps, id)
	})
	wg.Wait()
	for _, err := range []error{savedErr, appliedErr} {
		if apiclient.IsUnauthorized(err) {
			return nil, err
		}
	}
	return d, nil
}

func containsJob(jobs []jobdomain.Job, id string) bool {
	for i := range jobs {
		if jobs[i].ID == id {
			return true
		}
	}
	return false
}

func hasApplied(apps []jobdomain.Application, id string) bool {
	for _, a := range apps {
		if a.Job != nil && a.Job.ID == id {
			return true
		}
	}
	return false
}

// SetSaved saves or unsaves a job and returns the new saved state.
func (s *Service) SetSaved(ctx context.Context, state sessiondomain.State, id string, save bool) (bool, error) {
	if !state.IsAuthenticated {
		s.nav.Navigate(nav.Landing, nav.JobDetail(id))
		return false, ErrNotAuthenticated
	}
	if id == "" {
		return false, ErrMissingID
	}
	if save {
		if err := s.api.SaveJob(ctx, id); err != nil {
			return false, err
		}
		return true, nil
	}
	if err := s.api.UnsaveJob(ctx, id); err != nil {
		return true, err
	}
	return false, nil
}

// Apply submits an application. Signed-out users are sent to the landing page with this job as the
// redirect-back target; users who already applied are sent to their applications.
func (s *Service) Apply(ctx context.Context, state sessiondomain.State, d *Detail, form forms.ApplicationForm) error {
	if !state.IsAuthenticated || state.CurrentUser == nil {
		s.nav.Navigate(nav.Landing, nav.JobDetail(d.Job.ID))
		return ErrNotAuthenticated
	}
	if d.Applied {
		s.nav.Navigate(nav.Applications, "")
		return ErrAlreadyApplied
	}
	if err := form.Validate(); err != nil {
		return err
	}
	in := form.Input(state.CurrentUser.ID, d.Job.ID, s.nowF())
	if err := s.api.ApplyToJob(ctx, d.Job.ID, in); err != nil {
		return err
	}
	d.Applied = true
	return nil
}

// Post validates the form and creates a job.
func (s *Service) Post(ctx context.Context, form forms.JobForm) (*jobdomain.Job, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	return s.api.CreateJob(ctx, form.Input())
}

// Manageable loads a job the signed-in user may edit or delete.
func (s *Service) Manageable(ctx context.Context, state sessiondomain.State, id string) (*jobdomain.Job, error) {
	job, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	acc, err := s.access.JobAccess(ctx, state.CurrentUser, job)
	if err != nil {
		return nil, err
	}
	if !acc.ManageJob {
		s.nav.Navigate(nav.EmployerDashboard, nav.EditJob(id))
		return nil, ErrForbidden
	}
	return job, nil
}

// Update validates the form and saves it over job id.
func (s *Service) Update(ctx context.Context, state sessiondomain.State, id string, form forms.JobForm) (*jobdomain.Job, error) {
	if _, err := s.Manageable(ctx, state, id); err != nil {
		return nil, err
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}
	return s.api.UpdateJob(ctx, id, form.Input())
}

// Delete removes job id.
func (s *Service) Delete(ctx context.Context, state sessiondomain.State, id string) error {
	if _, err := s.Manageable(ctx, state, id); err != nil {
		return err
	}
	return s.api.DeleteJob(ctx, id)
}

// Applicants is the applicants view of one job.
type Applicants struct {
	Job        *jobdomain.Job
	Applicants []jobdomain.Applicant
}

// Counts returns applicants per status, plus the total under "".
func (a *Applicants) Counts() map[status.Status]int {
	ss := make([]status.Status, len(a.Applicants))
	for i := range a.Applicants {
		ss[i] = a.Applicants[i].Status
	}
	c := status.Counts(ss)
	c[""] = len(ss)
	return c
}

// Filter returns applicants whose status matches filter; "" means all.
func (a *Applicants) Filter(filter status.Status) []jobdomain.Applicant {
	var out []jobdomain.Applicant
	for _, ap := range a.Applicants {
		if status.Matches(ap.Status, filter) {
			out = append(out, ap)
		}
	}
	return out
}

// Find returns the applicant with id.
func (a *Applicants) Find(id string) (*jobdomain.Applicant, bool) {
	for i := range a.Applicants {
		if a.Applicants[i].ID == id {
			return &a.Applicants[i], true
		}
	}
	return nil, false
}

// Applicants loads a job's applicants. Users the access policy rejects are sent to /dashboard.
func (s *Service) Applicants(ctx context.Context, state sessiondomain.State, id string) (*Applicants, error) {
	job, err := s.authorizeApplicants(ctx, state, id)
	if err != nil {
		return nil, err
	}
	list, err := s.api.JobApplicants(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Applicants{Job: job, Applicants: list}, nil
}

// SetStatus changes an applicant's status. raw must be one of the six statuses.
func (s *Service) SetStatus(ctx context.Context, state sessiondomain.State, jobID, applicantID, raw string) (status.Status, error) {
	st, ok := status.Parse(raw)
	if !ok {
		return "", ErrInvalidStatus
	}
	if _, err := s.authorizeApplicants(ctx, state, jobID); err != nil {
		return "", err
	}
	if err := s.api.UpdateApplicantStatus(ctx, jobID, applicantID, st); err != nil {
		return "", err
	}
	return st, nil
}

func (s *Service) authorizeApplicants(ctx context.Context, state sessiondomain.State, id string) (*jobdomain.Job, error) {
	job, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	acc, err := s.access.JobAccess(ctx, state.CurrentUser, job)
	if err != nil {
		return nil, err
	}
	if !acc.ViewApplicants {
		s.nav.Navigate(nav.SeekerDashboard, nav.JobApplicants(id))
		return nil, ErrForbidden
	}
	return job, nil
}

func (s *Service) load(ctx context.Context, id string) (*jobdomain.Job, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	return s.api.GetJob(ctx, id)
}
