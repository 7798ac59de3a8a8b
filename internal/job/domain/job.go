package domain

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/prabhakarsharma95/Nexus-Frontend/internal/application/status"
)

// Salary is the advertised salary range.
type Salary struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

// EmployerRef is the job's poster. The backend sends either a populated object or a bare id string.
type EmployerRef struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Company   string `json:"company,omitempty"`
}

// UnmarshalJSON accepts an object or a string id.
func (e *EmployerRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &e.ID)
	}
	type plain EmployerRef
	return json.Unmarshal(b, (*plain)(e))
}

// Job is a posting as returned by /jobs and /jobs/:id.
type Job struct {
	ID                  string       `json:"_id"`
	Title               string       `json:"title"`
	Company             string       `json:"company"`
	Location            string       `json:"location"`
	Type                string       `json:"type"`
	Category            string       `json:"category"`
	Description         string       `json:"description"`
	Requirements        string       `json:"requirements"`
	Responsibilities    string       `json:"responsibilities"`
	Salary              Salary       `json:"salary"`
	Experience          string       `json:"experience"`
	Education           string       `json:"education"`
	Skills              []string     `json:"skills"`
	Benefits            []string     `json:"benefits"`
	ApplicationDeadline *time.Time   `json:"applicationDeadline,omitempty"`
	Status              string       `json:"status"`
	Employer            *EmployerRef `json:"employer,omitempty"`
	Applicants          []Applicant  `json:"applicants,omitempty"`
	CreatedAt           time.Time    `json:"createdAt"`
}

// EmployerID returns the poster's id, or "" if unknown.
func (j *Job) EmployerID() string {
	if j.Employer == nil {
		return ""
	}
	return j.Employer.ID
}

// ListingPage is one page of search results.
type ListingPage struct {
	Jobs        []Job `json:"jobs"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalJobs   int   `json:"totalJobs"`
}

// Application is the job seeker's view of one of their applications.
// Job is nil when the backend could not resolve the posting (e.g. it was deleted).
type Application struct {
	ID        string        `json:"_id"`
	Job       *Job          `json:"job"`
	Status    status.Status `json:"status"`
	AppliedAt time.Time     `json:"appliedAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// ApplicantUser is the applicant's account summary as shown to employers.
type ApplicantUser struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Location  string `json:"location,omitempty"`
}

// Applicant is an application as seen by the job's employer, including the application form fields.
type Applicant struct {
	ID                 string         `json:"_id"`
	User               *ApplicantUser `json:"user,omitempty"`
	Status             status.Status  `json:"status"`
	AppliedAt          time.Time      `json:"appliedAt"`
	Phone              string         `json:"phone,omitempty"`
	CoverLetter        string         `json:"coverLetter,omitempty"`
	Resume             string         `json:"resume,omitempty"`
	Experience         string         `json:"experience,omitempty"`
	Education          string         `json:"education,omitempty"`
	CurrentCompany     string         `json:"currentCompany,omitempty"`
	CurrentPosition    string         `json:"currentPosition,omitempty"`
	ExpectedSalary     string         `json:"expectedSalary,omitempty"`
	AvailableStartDate string         `json:"availableStartDate,omitempty"`
	ReferenceContact   string         `json:"referenceContact,omitempty"`
	AdditionalInfo     string         `json:"additionalInfo,omitempty"`
}

// Name returns the applicant's display name, falling back to "Anonymous".
func (a *Applicant) Name() string {
	if a.User == nil {
		return "Anonymous"
	}
	n := a.User.FirstName
	if a.User.LastName != "" {
		if n != "" {
			n += " "
		}
		n += a.User.LastName
	}
	if n == "" {
		return "Anonymous"
	}
	return n
}
