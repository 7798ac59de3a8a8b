package query

import (
	"net/url"
	"testing"
)

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func TestClearThenParams_OnlyPaging(t *testing.T) {
	q := Default()
	q.Update(FilterUpdate{Search: strp("go"), Category: strp("Legal"), Page: intp(4)})
	q.Clear()

	got := q.Params()
	want := url.Values{"page": {"1"}, "limit": {"10"}, "sort": {"newest"}}
	if got.Encode() != want.Encode() {
		t.Errorf("Params() = %v, want %v", got, want)
	}
}

func TestUpdate_FilterChangeResetsPage(t *testing.T) {
	q := Default()
	q.Page = 3
	q.Update(FilterUpdate{Category: strp("IT & Software")})
	if q.Page != 1 {
		t.Errorf("Page = %d, want 1", q.Page)
	}
	if q.Category != "IT & Software" {
		t.Errorf("Category = %q", q.Category)
	}
}

func TestUpdate_ExplicitPage(t *testing.T) {
	q := Default()
	q.Update(FilterUpdate{Page: intp(5)})
	if q.Page != 5 {
		t.Errorf("Page = %d, want 5", q.Page)
	}
	q.Update(FilterUpdate{Page: intp(0)})
	if q.Page != 1 {
		t.Errorf("Page after page 0 = %d, want 1", q.Page)
	}
}

func TestUpdate_MergesAndKeepsOthers(t *testing.T) {
	q := Default()
	q.Update(FilterUpdate{Search: strp("  engineer "), Location: strp("Berlin")})
	hi := SortSalaryHighToLow
	q.Update(FilterUpdate{Sort: &hi})
	if q.Search != "engineer" || q.Location != "Berlin" {
		t.Errorf("filters lost: %+v", q)
	}
	if q.Sort != SortSalaryHighToLow {
		t.Errorf("Sort = %q", q.Sort)
	}
	q.Update(FilterUpdate{Location: strp("")})
	if q.Location != "" {
		t.Errorf("Location = %q, want cleared", q.Location)
	}
}

func TestUpdate_LimitOverrideSurvivesClear(t *testing.T) {
	q := Default()
	q.Update(FilterUpdate{Limit: intp(25)})
	q.Clear()
	if q.Limit != 25 {
		t.Errorf("Limit = %d, want 25", q.Limit)
	}
}

func TestParams_OmitsEmptyAndPassesSalaryVerbatim(t *testing.T) {
	q := Default()
	q.Update(FilterUpdate{Salary: strp("200000-"), Type: strp("Remote")})
	p := q.Params()
	if p.Get("salary") != "200000-" {
		t.Errorf("salary = %q, want 200000-", p.Get("salary"))
	}
	if p.Get("type") != "Remote" {
		t.Errorf("type = %q", p.Get("type"))
	}
	for _, k := range []string{"search", "category", "location", "experience"} {
		if _, ok := p[k]; ok {
			t.Errorf("%s should be omitted when empty", k)
		}
	}
}

func TestGoToPage(t *testing.T) {
	q := Default()
	if !q.GoToPage(3, 5) || q.Page != 3 {
		t.Errorf("GoToPage(3,5): Page = %d", q.Page)
	}
	if q.GoToPage(0, 5) || q.GoToPage(6, 5) {
		t.Error("out-of-range pages should be ignored")
	}
	if q.Page != 3 {
		t.Errorf("Page = %d, want unchanged 3", q.Page)
	}
}

func TestFromSearchParams(t *testing.T) {
	v := url.Values{"q": {"designer"}, "location": {"Remote"}, "sort": {"bogus"}, "page": {"2"}}
	q := FromSearchParams(v, 0)
	if q.Search != "designer" || q.Location != "Remote" {
		t.Errorf("query = %+v", q)
	}
	if q.Sort != SortNewest {
		t.Errorf("Sort = %q, want newest for unknown sort", q.Sort)
	}
	if q.Page != 2 || q.Limit != DefaultLimit {
		t.Errorf("Page = %d Limit = %d", q.Page, q.Limit)
	}
	if !q.Active() {
		t.Error("Active should be true")
	}
	if Default().Active() {
		t.Error("default query should not be active")
	}
}

func TestParseSort(t *testing.T) {
	for _, s := range Sorts {
		if got, ok := ParseSort(string(s)); !ok || got != s {
			t.Errorf("ParseSort(%q) = %q, %v", s, got, ok)
		}
	}
	if _, ok := ParseSort("price"); ok {
		t.Error("ParseSort(price) should fail")
	}
}
