package forms

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/prabhakarsharma95/Nexus-Frontend/internal/apiclient"
	jobdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/job/domain"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/job/query"
)

func optionRule(options []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return query.Contains(options, fl.Field().String())
	}
}

// registerOptionRules adds the tags that restrict a field to one of the select options.
func registerOptionRules(val *validator.Validate) {
	_ = val.RegisterValidation("jobtype", optionRule(query.JobTypes))
	_ = val.RegisterValidation("jobcategory", optionRule(query.Categories))
	_ = val.RegisterValidation("experience", optionRule(query.ExperienceLevels))
	_ = val.RegisterValidation("education", optionRule(query.EducationLevels))
}

// JobForm is the post-job and edit-job form. Salary bounds are kept as typed text until validated.
type JobForm struct {
	Title               string   `json:"title" validate:"required"`
	Company             string   `json:"company" validate:"required"`
	Location            string   `json:"location" validate:"required"`
	Type                string   `json:"type" validate:"jobtype"`
	Category            string   `json:"category" validate:"jobcategory"`
	Description         string   `json:"description" validate:"required"`
	Requirements        string   `json:"requirements" validate:"required"`
	Responsibilities    string   `json:"responsibilities" validate:"required"`
	SalaryMin           string   `json:"salaryMin" validate:"required,numeric"`
	SalaryMax           string   `json:"salaryMax" validate:"required,numeric"`
	Currency            string   `json:"currency" validate:"required,len=3"`
	Experience          string   `json:"experience" validate:"experience"`
	Education           string   `json:"education" validate:"education"`
	Skills              []string `json:"skills" validate:"min=1,dive,required"`
	Benefits            []string `json:"benefits" validate:"dive,required"`
	ApplicationDeadline string   `json:"applicationDeadline" validate:"required,datetime=2006-01-02"`
	Status              string   `json:"status" validate:"oneof=active closed draft"`
}

// NewJobForm returns a form with the defaults of a fresh posting.
func NewJobForm() JobForm {
	return JobForm{
		Type:       "Full-time",
		Category:   "IT & Software",
		Currency:   "USD",
		Experience: "0-1 years",
		Education:  "Bachelor's Degree",
		Status:     "active",
	}
}

// JobFormFrom fills a form from an existing job, for editing.
func JobFormFrom(j *jobdomain.Job) JobForm {
	f := JobForm{
		Title:            j.Title,
		Company:          j.Company,
		Location:         j.Location,
		Type:             j.Type,
		Category:         j.Category,
		Description:      j.Description,
		Requirements:     j.Requirements,
		Responsibilities: j.Responsibilities,
		SalaryMin:        strconv.FormatFloat(j.Salary.Min, 'f', -1, 64),
		SalaryMax:        strconv.FormatFloat(j.Salary.Max, 'f', -1, 64),
		Currency:         j.Salary.Currency,
		Experience:       j.Experience,
		Education:        j.Education,
		Skills:           append([]string(nil), j.Skills...),
		Benefits:         append([]string(nil), j.Benefits...),
		Status:           j.Status,
	}
	if j.ApplicationDeadline != nil {
		f.ApplicationDeadline = j.ApplicationDeadline.Format(time.DateOnly)
	}
	return f
}

var jobMessages = map[string]string{
	"title":               "Job title is required",
	"company":             "Company name is required",
	"location":            "Location is required",
	"type":                "Please choose a valid job type",
	"category":            "Please choose a valid category",
	"description":         "Description is required",
	"requirements":        "Requirements are required",
	"responsibilities":    "Responsibilities are required",
	"salaryMin":           "Valid minimum salary is required",
	"salaryMax":           "Valid maximum salary is required",
	"currency":            "Currency must be a 3-letter code",
	"experience":          "Please choose a valid experience level",
	"education":           "Please choose a valid education level",
	"skills":              "At least one skill is required",
	"benefits":            "Benefits cannot be empty",
	"applicationDeadline": "Deadline is required",
	"status":              "Status must be active, closed or draft",
}

// Validate trims text, drops duplicate skills and benefits, and checks the form.
func (f *JobForm) Validate() error {
	trim(&f.Title, &f.Company, &f.Location, &f.Description, &f.Requirements, &f.Responsibilities,
		&f.SalaryMin, &f.SalaryMax, &f.ApplicationDeadline)
	f.Currency = strings.ToUpper(strings.TrimSpace(f.Currency))
	f.Skills = dedupe(f.Skills)
	f.Benefits = dedupe(f.Benefits)

	err := check(f, func(fe validator.FieldError) string {
		if m, ok := jobMessages[fe.Field()]; ok {
			return m
		}
		return MsgRequired
	})
	fe, _ := AsFieldErrors(err)
	if err != nil && fe == nil {
		return err
	}
	if fe == nil {
		fe = FieldErrors{}
	}
	if _, bad := fe["salaryMax"]; !bad {
		lo, errLo := strconv.ParseFloat(f.SalaryMin, 64)
		hi, errHi := strconv.ParseFloat(f.SalaryMax, 64)
		if errLo == nil && errHi == nil && hi < lo {
			fe["salaryMax"] = "Maximum salary must not be below the minimum"
		}
	}
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// Input converts a validated form into the request body.
func (f *JobForm) Input() apiclient.JobInput {
	lo, _ := strconv.ParseFloat(f.SalaryMin, 64)
	hi, _ := strconv.ParseFloat(f.SalaryMax, 64)
	return apiclient.JobInput{
		Title:               f.Title,
		Company:             f.Company,
		Location:            f.Location,
		Type:                f.Type,
		Category:            f.Category,
		Description:         f.Description,
		Requirements:        f.Requirements,
		Responsibilities:    f.Responsibilities,
		Salary:              jobdomain.Salary{Min: lo, Max: hi, Currency: f.Currency},
		Experience:          f.Experience,
		Education:           f.Education,
		Skills:              nonNil(f.Skills),
		Benefits:            nonNil(f.Benefits),
		ApplicationDeadline: f.ApplicationDeadline,
		Status:              f.Status,
	}
}

// ApplicationForm is the apply-to-job form. All fields are optional except what the backend enforces.
type ApplicationForm struct {
	CoverLetter        string `json:"coverLetter"`
	Resume             string `json:"resume" validate:"omitempty,url"`
	Phone              string `json:"phone" validate:"omitempty,e164|numeric"`
	Experience         string `json:"experience"`
	Education          string `json:"education"`
	CurrentCompany     string `json:"currentCompany"`
	CurrentPosition    string `json:"currentPosition"`
	ExpectedSalary     string `json:"expectedSalary"`
	AvailableStartDate string `json:"availableStartDate" validate:"omitempty,datetime=2006-01-02"`
	ReferenceContact   string `json:"referenceContact"`
	AdditionalInfo     string `json:"additionalInfo"`
}

var applicationMessages = map[string]string{
	"resume":             "Resume must be a link (https://...)",
	"phone":              "Please enter a valid phone number",
	"availableStartDate": "Start date must be YYYY-MM-DD",
}

// Validate trims and checks the form.
func (f *ApplicationForm) Validate() error {
	trim(&f.CoverLetter, &f.Resume, &f.Phone, &f.Experience, &f.Education, &f.CurrentCompany,
		&f.CurrentPosition, &f.ExpectedSalary, &f.AvailableStartDate, &f.ReferenceContact, &f.AdditionalInfo)
	f.Phone = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(f.Phone)
	return check(f, func(fe validator.FieldError) string {
		return applicationMessages[fe.Field()]
	})
}

// Input converts a validated form into the request body for userID applying to jobID at now.
func (f *ApplicationForm) Input(userID, jobID string, now time.Time) apiclient.ApplicationInput {
	return apiclient.ApplicationInput{
		UserID:             userID,
		JobID:              jobID,
		CoverLetter:        f.CoverLetter,
		Resume:             f.Resume,
		Phone:              f.Phone,
		Experience:         f.Experience,
		Education:          f.Education,
		CurrentCompany:     f.CurrentCompany,
		CurrentPosition:    f.CurrentPosition,
		ExpectedSalary:     f.ExpectedSalary,
		AvailableStartDate: f.AvailableStartDate,
		ReferenceContact:   f.ReferenceContact,
		AdditionalInfo:     f.AdditionalInfo,
		AppliedAt:          now.UTC(),
	}
}

func dedupe(in []string) []string {
	var out []string
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
