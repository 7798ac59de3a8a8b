package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/prabhakarsharma95/Nexus-Frontend/internal/application/status"
	jobdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/job/domain"
)

// JobInput is the body of POST /jobs and PUT /jobs/:id.
type JobInput struct {
	Title               string           `json:"title"`
	Company             string           `json:"company"`
	Location            string           `json:"location"`
	Type                string           `json:"type"`
	Category            string           `json:"category"`
	Description         string           `json:"description"`
	Requirements        string           `json:"requirements"`
	Responsibilities    string           `json:"responsibilities"`
	Salary              jobdomain.Salary `json:"salary"`
	Experience          string           `json:"experience"`
	Education           string           `json:"education"`
	Skills              []string         `json:"skills"`
	Benefits            []string         `json:"benefits"`
	ApplicationDeadline string           `json:"applicationDeadline"`
	Status              string           `json:"status"`
}

// ApplicationInput is the body of POST /jobs/:id/apply.
type ApplicationInput struct {
	UserID             string    `json:"userId"`
	JobID              string    `json:"jobId"`
	CoverLetter        string    `json:"coverLetter"`
	Resume             string    `json:"resume"`
	Phone              string    `json:"phone"`
	Experience         string    `json:"experience"`
	Education          string    `json:"education"`
	CurrentCompany     string    `json:"currentCompany"`
	CurrentPosition    string    `json:"currentPosition"`
	ExpectedSalary     string    `json:"expectedSalary"`
	AvailableStartDate string    `json:"availableStartDate"`
	ReferenceContact   string    `json:"referenceContact"`
	AdditionalInfo     string    `json:"additionalInfo"`
	AppliedAt          time.Time `json:"appliedAt"`
}

type jobEnvelope struct {
	Job *jobdomain.Job `json:"job"`
}

type jobsEnvelope struct {
	Jobs []jobdomain.Job `json:"jobs"`
}

func jobPath(id string, rest ...string) string {
	p := "/jobs/" + url.PathEscape(id)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}

// SearchJobs runs a listing query. params usually come from query.Query.Params.
func (c *Client) SearchJobs(ctx context.Context, params url.Values) (*jobdomain.ListingPage, error) {
	var out jobdomain.ListingPage
	if err := c.Do(ctx, http.MethodGet, "/jobs", nil, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetJob returns a single posting.
func (c *Client) GetJob(ctx context.Context, id string) (*jobdomain.Job, error) {
	var out jobEnvelope
	if err := c.Do(ctx, http.MethodGet, jobPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	if out.Job == nil {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: "Job not found"}
	}
	return out.Job, nil
}

// CreateJob posts a new job and returns it as stored.
func (c *Client) CreateJob(ctx context.Context, in JobInput) (*jobdomain.Job, error) {
	var out jobEnvelope
	if err := c.Do(ctx, http.MethodPost, "/jobs", in, nil, &out); err != nil {
		return nil, err
	}
	return out.Job, nil
}

// UpdateJob replaces the editable fields of job id.
func (c *Client) UpdateJob(ctx context.Context, id string, in JobInput) (*jobdomain.Job, error) {
	var out jobEnvelope
	if err := c.Do(ctx, http.MethodPut, jobPath(id), in, nil, &out); err != nil {
		return nil, err
	}
	return out.Job, nil
}

// DeleteJob removes job id.
func (c *Client) DeleteJob(ctx context.Context, id string) error {
	return c.Do(ctx, http.MethodDelete, jobPath(id), nil, nil, nil)
}

// ApplyToJob submits an application for job id.
func (c *Client) ApplyToJob(ctx context.Context, id string, in ApplicationInput) error {
	return c.Do(ctx, http.MethodPost, jobPath(id, "apply"), in, nil, nil)
}

// EmployerJobs lists the jobs posted by the current user.
func (c *Client) EmployerJobs(ctx context.Context) ([]jobdomain.Job, error) {
	var out jobsEnvelope
	if err := c.Do(ctx, http.MethodGet, "/jobs/employer/jobs", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Jobs, nil
}

// JobApplicants lists applications to job id.
func (c *Client) JobApplicants(ctx context.Context, id string) ([]jobdomain.Applicant, error) {
	var out struct {
		Applicants []jobdomain.Applicant `json:"applicants"`
	}
	if err := c.Do(ctx, http.MethodGet, jobPath(id, "applicants"), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Applicants, nil
}

// UpdateApplicantStatus sets the status of one application to job id.
func (c *Client) UpdateApplicantStatus(ctx context.Context, jobID, applicantID string, s status.Status) error {
	body := map[string]status.Status{"status": s}
	return c.Do(ctx, http.MethodPut, jobPath(jobID, "applicants", url.PathEscape(applicantID)), body, nil, nil)
}

// Ping requests one listing entry, without credentials, to check that the backend answers.
func (c *Client) Ping(ctx context.Context) error {
	return c.Do(ctx, http.MethodGet, "/jobs", nil, url.Values{"limit": {"1"}}, nil, Anonymous())
}
