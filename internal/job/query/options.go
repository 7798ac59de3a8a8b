package query

// Filter choices offered by the listing view. Values are sent to the backend verbatim.
var (
	Categories = []string{
		"IT & Software",
		"Finance & Accounting",
		"Marketing & Sales",
		"Healthcare & Medical",
		"Engineering & Construction",
		"Administrative & Clerical",
		"Human Resources",
		"Education & Training",
		"Legal",
		"Other",
	}

	JobTypes = []string{"Full-time", "Part-time", "Contract", "Remote", "Internship"}

	ExperienceLevels = []string{
		"0-1 years",
		"1-2 years",
		"2-4 years",
		"3-5 years",
		"5+ years",
		"7+ years",
		"10+ years",
	}

	EducationLevels = []string{
		"High School",
		"Associate Degree",
		"Bachelor's Degree",
		"Master's Degree",
		"PhD",
		"Other",
	}
)

// SalaryBucket is a selectable salary range. Value is the "min-max" string sent as the salary param.
type SalaryBucket struct {
	Label string
	Value string
}

// SalaryBuckets are the selectable ranges; the last one has no upper bound.
var SalaryBuckets = []SalaryBucket{
	{"$0 - $40,000", "0-40000"},
	{"$40,000 - $80,000", "40000-80000"},
	{"$80,000 - $120,000", "80000-120000"},
	{"$120,000 - $160,000", "120000-160000"},
	{"$160,000 - $200,000", "160000-200000"},
	{"$200,000+", "200000-"},
}

// Contains reports whether v is one of options.
func Contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
