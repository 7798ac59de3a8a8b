package app

import (
	"errors"
	"testing"

	"github.com/prabhakarsharma95/Nexus-Frontend/internal/application/status"
	jobdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/job/domain"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/job/query"
)

func TestPageBar(t *testing.T) {
	tests := []struct {
		current, total int
		want           string
	}{
		{1, 1, ""},
		{1, 3, "  [1] 2 3 >"},
		{5, 9, "< 1 ... 4 [5] 6 ... 9 >"},
		{9, 9, "< 1 ... 8 [9]"},
	}
	for _, tt := range tests {
		if got := pageBar(query.Pagination(tt.current, tt.total)); got != tt.want {
			t.Errorf("pageBar(%d of %d) = %q, want %q", tt.current, tt.total, got, tt.want)
		}
	}
}

func TestSalaryRange(t *testing.T) {
	tests := []struct {
		s    jobdomain.Salary
		want string
	}{
		{jobdomain.Salary{}, "Not specified"},
		{jobdomain.Salary{Min: 50000, Max: 75000, Currency: "USD"}, "USD50,000 - USD75,000"},
		{jobdomain.Salary{Min: 12.5, Max: 20, Currency: "EUR"}, "EUR12.50 - EUR20"},
	}
	for _, tt := range tests {
		if got := salaryRange(tt.s); got != tt.want {
			t.Errorf("salaryRange(%+v) = %q, want %q", tt.s, got, tt.want)
		}
	}
}

func TestTimeline(t *testing.T) {
	want := "(x) Applied > ( ) Reviewing > ( ) Shortlisted > ( ) Interview > ( ) Selected"
	if got := timeline(status.Rejected); got != want {
		t.Errorf("timeline(rejected) = %q, want %q", got, want)
	}
}

func TestStatusTabs(t *testing.T) {
	counts := status.Counts([]status.Status{status.Pending, status.Selected})
	counts[""] = 2
	want := "All (2)  Pending (1)  Reviewing (0)  Shortlisted (0)  Interview (0)  *Selected (1)  Rejected (0)"
	if got := statusTabs(counts, status.Selected); got != want {
		t.Errorf("statusTabs = %q, want %q", got, want)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Senior Engineer", 6); got != "Senio…" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("Go", 6); got != "Go" {
		t.Errorf("truncate = %q", got)
	}
}

func TestFailedKeepsFirstFallback(t *testing.T) {
	base := errors.New("boom")
	err := failed(failed(base, "Failed to load jobs"), "Something else")
	var ve *viewError
	if !errors.As(err, &ve) || ve.fallback != "Failed to load jobs" {
		t.Errorf("fallback = %v, want the first one", err)
	}
	if !errors.Is(err, base) {
		t.Error("failed should wrap the cause")
	}
	if failed(nil, "x") != nil {
		t.Error("failed(nil) should be nil")
	}
}
