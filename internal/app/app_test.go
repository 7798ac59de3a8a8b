package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prabhakarsharma95/Nexus-Frontend/internal/apiclient"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/application/status"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/forms"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/health"
	jobdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/job/domain"
	jobservice "github.com/prabhakarsharma95/Nexus-Frontend/internal/job/service"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/nav"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/policy/engine"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/security"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/session/repository"
	sessionservice "github.com/prabhakarsharma95/Nexus-Frontend/internal/session/service"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/telemetry"
	userdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/user/domain"
	userservice "github.com/prabhakarsharma95/Nexus-Frontend/internal/user/service"
)

// backend is an in-memory job board speaking the REST API under /api.
type backend struct {
	mu         sync.Mutex
	accounts   map[string]account // by email
	sessions   map[string]*userdomain.User
	jobs       map[string]*jobdomain.Job
	order      []string
	saved      map[string]map[string]bool
	apps       map[string][]jobdomain.Application
	applicants map[string][]jobdomain.Applicant

	logins    int
	registers int
	searches  []url.Values
	applied   []apiclient.ApplicationInput
	updates   map[string]apiclient.JobInput
	deleted   []string
	statuses  []string

	// badLoginStatus is the status a wrong password gets; 400 when zero.
	badLoginStatus int
}

type account struct {
	password string
	user     *userdomain.User
}

var (
	sam  = &userdomain.User{ID: "u1", FirstName: "Sam", LastName: "Lee", Email: "sam@example.com", Role: userdomain.RoleJobSeeker}
	erin = &userdomain.User{ID: "e1", FirstName: "Erin", LastName: "Hale", Email: "erin@acme.test", Role: userdomain.RoleEmployer, Company: "Acme"}
	eli  = &userdomain.User{ID: "e2", FirstName: "Eli", LastName: "Park", Email: "eli@globex.test", Role: userdomain.RoleEmployer}
)

func newBackend() *backend {
	b := &backend{
		accounts:   map[string]account{},
		sessions:   map[string]*userdomain.User{},
		jobs:       map[string]*jobdomain.Job{},
		saved:      map[string]map[string]bool{},
		apps:       map[string][]jobdomain.Application{},
		applicants: map[string][]jobdomain.Applicant{},
		updates:    map[string]apiclient.JobInput{},
	}
	deadline := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	for _, u := range []*userdomain.User{sam, erin, eli} {
		b.accounts[u.Email] = account{password: "password1", user: u}
	}
	b.addJob(jobdomain.Job{ID: "j1", Title: "Backend Engineer", Company: "Acme", Location: "Remote", Type: "Full-time",
		Category: "IT & Software", Description: "Build APIs", Requirements: "Go", Responsibilities: "Ship",
		Salary: jobdomain.Salary{Min: 90000, Max: 120000, Currency: "USD"}, Experience: "2-4 years",
		Education: "Bachelor's Degree", Skills: []string{"Go"}, Status: "active", ApplicationDeadline: &deadline,
		Employer: &jobdomain.EmployerRef{ID: "e1"}})
	b.addJob(jobdomain.Job{ID: "j2", Title: "Designer", Company: "Acme", Location: "Berlin", Type: "Contract",
		Employer: &jobdomain.EmployerRef{ID: "e1"}})
	b.applicants["j1"] = []jobdomain.Applicant{
		{ID: "a1", User: &jobdomain.ApplicantUser{FirstName: "Ann", LastName: "Doe", Email: "ann@example.com"}, Status: status.Pending,
			AppliedAt: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "a2", Status: status.Interview, AppliedAt: time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)},
	}
	return b
}

func (b *backend) addJob(j jobdomain.Job) {
	b.jobs[j.ID] = &j
	b.order = append(b.order, j.ID)
}

// tokenFor opens a backend session for u and returns its token.
func (b *backend) tokenFor(u *userdomain.User) string {
	tok := security.SignTestToken(u.ID, string(u.Role), time.Now().Add(time.Hour))
	b.mu.Lock()
	b.sessions[tok] = u
	b.mu.Unlock()
	return tok
}

func (b *backend) revokeAll() {
	b.mu.Lock()
	b.sessions = map[string]*userdomain.User{}
	b.mu.Unlock()
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *backend) authed(fn func(w http.ResponseWriter, r *http.Request, u *userdomain.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		u := b.sessions[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]
		b.mu.Unlock()
		if u == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authorized"})
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		fn(w, r, u)
	}
}

func (b *backend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.mu.Lock()
		b.logins++
		acc, ok := b.accounts[in.Email]
		b.mu.Unlock()
		if !ok || acc.password != in.Password {
			code := http.StatusBadRequest
			if b.badLoginStatus != 0 {
				code = b.badLoginStatus
			}
			writeJSON(w, code, map[string]string{"message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"token": b.tokenFor(acc.user), "user": acc.user})
	})
	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var in apiclient.SignupRequest
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.mu.Lock()
		b.registers++
		b.mu.Unlock()
		if in.Role == userdomain.RoleEmployer && in.CompanyCode != "NEXUS" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid company code"})
			return
		}
		u := &userdomain.User{ID: "new-" + in.Email, FirstName: in.FirstName, LastName: in.LastName, Email: in.Email, Role: in.Role}
		writeJSON(w, http.StatusCreated, map[string]any{"token": b.tokenFor(u), "user": u})
	})
	mux.HandleFunc("GET /api/auth/me", b.authed(func(w http.ResponseWriter, _ *http.Request, u *userdomain.User) {
		writeJSON(w, http.StatusOK, map[string]any{"user": u})
	}))
	mux.HandleFunc("GET /api/auth/logout", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	})

	mux.HandleFunc("GET /api/jobs", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.searches = append(b.searches, r.URL.Query())
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		var jobs []jobdomain.Job
		for _, id := range b.order {
			jobs = append(jobs, *b.jobs[id])
		}
		if r.URL.Query().Get("search") == "nothing" {
			jobs = nil
		}
		writeJSON(w, http.StatusOK, jobdomain.ListingPage{Jobs: jobs, CurrentPage: page, TotalPages: 3, TotalJobs: 25})
	})
	mux.HandleFunc("POST /api/jobs", b.authed(func(w http.ResponseWriter, r *http.Request, u *userdomain.User) {
		var in apiclient.JobInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		j := jobdomain.Job{ID: "j" + strconv.Itoa(len(b.order)+1), Title: in.Title, Company: in.Company, Employer: &jobdomain.EmployerRef{ID: u.ID}}
		b.addJob(j)
		writeJSON(w, http.StatusCreated, map[string]any{"job": j})
	}))
	mux.HandleFunc("GET /api/jobs/employer/jobs", b.authed(func(w http.ResponseWriter, _ *http.Request, u *userdomain.User) {
		var jobs []jobdomain.Job
		for _, id := range b.order {
			if j := *b.jobs[id]; j.EmployerID() == u.ID {
				j.Applicants = b.applicants[id]
				jobs = append(jobs, j)
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
	}))
	mux.HandleFunc("GET /api/jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		j, ok := b.jobs[r.PathValue("id")]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Job not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"job": j})
	})
	mux.HandleFunc("PUT /api/jobs/{id}", b.authed(func(w http.ResponseWriter, r *http.Request, _ *userdomain.User) {
		var in apiclient.JobInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		id := r.PathValue("id")
		b.updates[id] = in
		j := b.jobs[id]
		j.Title, j.Company = in.Title, in.Company
		writeJSON(w, http.StatusOK, map[string]any{"job": j})
	}))
	mux.HandleFunc("DELETE /api/jobs/{id}", b.authed(func(w http.ResponseWriter, r *http.Request, _ *userdomain.User) {
		b.deleted = append(b.deleted, r.PathValue("id"))
		writeJSON(w, http.StatusOK, map[string]any{})
	}))
	mux.HandleFunc("POST /api/jobs/{id}/apply", b.authed(func(w http.ResponseWriter, r *http.Request, u *userdomain.User) {
		var in apiclient.ApplicationInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.applied = append(b.applied, in)
		b.apps[u.ID] = append(b.apps[u.ID], jobdomain.Application{ID: "app" + in.JobID, Job: b.jobs[in.JobID], Status: status.Pending, AppliedAt: in.AppliedAt})
		writeJSON(w, http.StatusCreated, map[string]any{})
	}))
	mux.HandleFunc("GET /api/jobs/{id}/applicants", b.authed(func(w http.ResponseWriter, r *http.Request, _ *userdomain.User) {
		writeJSON(w, http.StatusOK, map[string]any{"applicants": b.applicants[r.PathValue("id")]})
	}))
	mux.HandleFunc("PUT /api/jobs/{id}/applicants/{aid}", b.authed(func(w http.ResponseWriter, r *http.Request, _ *userdomain.User) {
		var in struct{ Status string }
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.statuses = append(b.statuses, r.PathValue("aid")+"="+in.Status)
		writeJSON(w, http.StatusOK, map[string]any{})
	}))

	mux.HandleFunc("GET /api/users/profile", b.authed(func(w http.ResponseWriter, _ *http.Request, u *userdomain.User) {
		writeJSON(w, http.StatusOK, map[string]any{"user": u})
	}))
	mux.HandleFunc("PUT /api/users/profile", b.authed(func(w http.ResponseWriter, r *http.Request, u *userdomain.User) {
		var in apiclient.ProfileUpdate
		_ = json.NewDecoder(r.Body).Decode(&in)
		cp := *u
		cp.FirstName, cp.LastName, cp.Email, cp.Location, cp.Skills = in.FirstName, in.LastName, in.Email, in.Location, in.Skills
		writeJSON(w, http.StatusOK, map[string]any{"user": cp})
	}))
	mux.HandleFunc("PUT /api/users/change-password", b.authed(func(w http.ResponseWriter, r *http.Request, u *userdomain.User) {
		var in apiclient.PasswordChange
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.CurrentPassword != b.accounts[u.Email].password {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Current password is incorrect"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{})
	}))
	mux.HandleFunc("POST /api/users/jobs/{id}/save", b.authed(func(w http.ResponseWriter, r *http.Request, u *userdomain.User) {
		if b.saved[u.ID] == nil {
			b.saved[u.ID] = map[string]bool{}
		}
		b.saved[u.ID][r.PathValue("id")] = true
		writeJSON(w, http.StatusOK, map[string]any{})
	}))
	mux.HandleFunc("DELETE /api/users/jobs/{id}/save", b.authed(func(w http.ResponseWriter, r *http.Request, u *userdomain.User) {
		delete(b.saved[u.ID], r.PathValue("id"))
		writeJSON(w, http.StatusOK, map[string]any{})
	}))
	mux.HandleFunc("GET /api/users/saved-jobs", b.authed(func(w http.ResponseWriter, _ *http.Request, u *userdomain.User) {
		var jobs []jobdomain.Job
		for _, id := range b.order {
			if b.saved[u.ID][id] {
				jobs = append(jobs, *b.jobs[id])
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"savedJobs": jobs})
	}))
	mux.HandleFunc("GET /api/users/applications", b.authed(func(w http.ResponseWriter, _ *http.Request, u *userdomain.User) {
		writeJSON(w, http.StatusOK, map[string]any{"applications": b.apps[u.ID]})
	}))
	return mux
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []telemetry.Event
}

func (r *recordingEmitter) Emit(_ context.Context, ev *telemetry.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *ev)
	return nil
}

func (r *recordingEmitter) types() []string {
	telemetry.Drain(time.Second)
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type harness struct {
	t       *testing.T
	backend *backend
	creds   *repository.CredentialStore
	store   *sessionservice.Store
	nav     *nav.Recorder
	events  *recordingEmitter
	out     bytes.Buffer
	err     bytes.Buffer
	in      string

	// afterRehydrate runs between session rehydration and the command.
	afterRehydrate func()
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{t: t, backend: newBackend(), nav: nav.NewRecorder(), events: &recordingEmitter{}}
	h.creds = repository.NewCredentialStore(repository.NewMemoryRepository())
	return h
}

// signIn persists a session for u the way a previous run would have left it.
func (h *harness) signIn(u *userdomain.User) {
	h.t.Helper()
	if err := h.creds.Save(context.Background(), h.backend.tokenFor(u), u); err != nil {
		h.t.Fatalf("Save: %v", err)
	}
}

// run builds the app as a fresh process would, rehydrates and runs args.
func (h *harness) run(args ...string) int {
	h.t.Helper()
	server := httptest.NewServer(h.backend.handler())
	defer server.Close()

	ctx := context.Background()
	client := apiclient.New(server.URL+"/api", h.creds, 5*time.Second)
	h.store = sessionservice.NewStore(client, h.creds)
	client.OnUnauthorized(h.store.Reset)
	client.OnUnauthorized(func() { h.nav.Navigate(nav.Landing, "") })
	access, err := engine.NewOPAEvaluator("")
	if err != nil {
		h.t.Fatalf("NewOPAEvaluator: %v", err)
	}
	h.store.Rehydrate(ctx)
	if h.afterRehydrate != nil {
		h.afterRehydrate()
	}
	h.out.Reset()
	h.err.Reset()

	a := New(Deps{
		Session: h.store,
		API:     client,
		Jobs:    jobservice.New(client, access, h.nav),
		Profile: userservice.NewProfileService(client, h.store),
		Nav:     h.nav,
		Events:  h.events,
		Health:  health.NewChecker(nil, access, client),
		Token:   h.creds.Token,
		In:      strings.NewReader(h.in),
		Out:     &h.out,
		Err:     &h.err,
	})
	return a.Run(ctx, args)
}

func (h *harness) wantCode(got, want int) {
	h.t.Helper()
	if got != want {
		h.t.Fatalf("exit code = %d, want %d\nstdout:\n%s\nstderr:\n%s", got, want, h.out.String(), h.err.String())
	}
}

func (h *harness) wantOut(substr ...string) {
	h.t.Helper()
	for _, s := range substr {
		if !strings.Contains(h.out.String(), s) {
			h.t.Errorf("stdout missing %q:\n%s", s, h.out.String())
		}
	}
}

func (h *harness) wantErr(substr ...string) {
	h.t.Helper()
	for _, s := range substr {
		if !strings.Contains(h.err.String(), s) {
			h.t.Errorf("stderr missing %q:\n%s", s, h.err.String())
		}
	}
}

func (h *harness) wantNavigated(target, from string) {
	h.t.Helper()
	for _, n := range h.nav.History() {
		if n.Target == target && n.From == from {
			return
		}
	}
	h.t.Errorf("no navigation to %s from %q; history = %+v", target, from, h.nav.History())
}

func TestRun_HelpAndUnknownCommand(t *testing.T) {
	h := newHarness(t)
	h.wantCode(h.run(), ExitOK)
	h.wantErr("usage: nexus", "applicants", "set-status")

	h.wantCode(h.run("frobnicate"), ExitUsage)
	h.wantErr(`unknown command "frobnicate"`)

	h.wantCode(h.run("jobs", "--no-such-flag"), ExitUsage)
}

func TestJobs_FiltersReachBackend(t *testing.T) {
	h := newHarness(t)
	h.wantCode(h.run("jobs", "-q", "go", "--type", "Remote", "--sort", "oldest", "--page", "2"), ExitOK)

	got := h.backend.searches[len(h.backend.searches)-1]
	want := map[string]string{"search": "go", "type": "Remote", "sort": "oldest", "page": "2", "limit": "10"}
	for k, v := range want {
		if got.Get(k) != v {
			t.Errorf("param %s = %q, want %q", k, got.Get(k), v)
		}
	}
	if got.Has("category") {
		t.Errorf("unset filter sent: %v", got)
	}
	h.wantOut("25 jobs found", "Backend Engineer", "USD90,000 - USD120,000", "Page 2 of 3", "< 1 [2] 3 >")
}

func TestJobs_LinkAndFlagsCombine(t *testing.T) {
	h := newHarness(t)
	h.wantCode(h.run("jobs", "--link", "/jobs?q=design&category=Legal&page=3", "--location", "Berlin"), ExitOK)
	got := h.backend.searches[0]
	if got.Get("search") != "design" || got.Get("category") != "Legal" || got.Get("location") != "Berlin" {
		t.Errorf("params = %v", got)
	}
	if got.Get("page") != "3" {
		t.Errorf("page = %q, want the linked page 3", got.Get("page"))
	}
}

func TestJobs_InvalidOptionIsUsageError(t *testing.T) {
	h := newHarness(t)
	h.wantCode(h.run("jobs", "--type", "Gig"), ExitUsage)
	h.wantErr("--type must be one of")
	if len(h.backend.searches) != 0 {
		t.Error("invalid filter should not reach the backend")
	}
}

func TestJobs_EmptyResultAndJSON(t *testing.T) {
	h := newHarness(t)
	h.wantCode(h.run("jobs", "-q", "nothing"), ExitOK)
	h.wantOut("No jobs found", "Try adjusting your search or filters.")

	h.wantCode(h.run("--json", "jobs"), ExitOK)
	var v struct {
		Query url.Values            `json:"query"`
		Page  jobdomain.ListingPage `json:"page"`
	}
	if err := json.Unmarshal(h.out.Bytes(), &v); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, h.out.String())
	}
	if len(v.Page.Jobs) != 2 || v.Query.Get("sort") != "newest" {
		t.Errorf("json = %+v", v)
	}
}

func TestGuard_SignedOutGoesToLanding(t *testing.T) {
	h := newHarness(t)
	h.wantCode(h.run("dashboard"), ExitError)
	h.wantNavigated(nav.Landing, nav.SeekerDashboard)
	h.wantOut("Sign in to continue to /dashboard")
}

func TestGuard_WrongRoleGetsOwnDashboard(t *testing.T) {
	h := newHarness(t)
	h.signIn(erin)
	h.wantCode(h.run("applications"), ExitError)
	h.wantNavigated(nav.EmployerDashboard, nav.Applications)
	h.wantOut("Welcome back, Erin Hale!", "Total applicants", "Your Jobs")
}

func TestLogin_RendersDashboardForRole(t *testing.T) {
	h := newHarness(t)
	h.wantCode(h.run("login", "--email", "sam@example.com", "--password", "password1"), ExitOK)
	h.wantOut("Welcome back, Sam.", "Recent Applications", "You haven't applied to any jobs yet.")
	if tok, _ := h.creds.Token(context.Background()); tok == "" {
		t.Error("token should be persisted")
	}

	h2 := newHarness(t)
	h2.wantCode(h2.run("login", "--email", "erin@acme.test", "--password", "password1"), ExitOK)
	h2.wantNavigated(nav.EmployerDashboard, nav.SeekerDashboard)
	h2.wantOut("Your Jobs", "Backend Engineer")
}

func TestLogin_Failures(t *testing.T) {
	h := newHarness(t)
	h.wantCode(h.run("login", "--email", "sam@example.com", "--password", "wrong"), ExitError)
	h.wantErr("Invalid credentials")

	h.wantCode(h.run("login", "--email", "not-an-email", "--password", "x"), ExitError)
	h.wantErr(forms.MsgEmail)
	if h.backend.logins != 1 {
		t.Errorf("logins = %d, want 1 (invalid form must not reach the network)", h.backend.logins)
	}
}

func TestLogin_PromptsForPassword(t *testing.T) {
	h := newHarness(t)
	h.in = "password1\n"
	h.wantCode(h.run("login", "--email", "sam@example.com", "--from", "/jobs/j1"), ExitOK)
	h.wantErr("Password: ")
	h.wantNavigated(nav.JobDetail("j1"), "")
	h.wantOut("Backend Engineer", "Apply with: nexus apply j1")
}

func TestLogin_WrongPasswordIsNotASessionExpiry(t *testing.T) {
	h := newHarness(t)
	h.backend.badLoginStatus = http.StatusUnauthorized
	h.signIn(sam)
	h.wantCode(h.run("login", "--email", "sam@example.com", "--password", "wrong"), ExitError)
	h.wantErr("Invalid credentials")
	if strings.Contains(h.err.String(), "session has expired") || strings.Contains(h.out.String(), "Nexus - find your next job.") {
		t.Errorf("wrong password treated as expiry:\nstdout:\n%s\nstderr:\n%s", h.out.String(), h.err.String())
	}
	if tok, _ := h.creds.Token(context.Background()); tok == "" {
		t.Error("existing session should survive a failed login")
	}
}

func TestSignup(t *testing.T) {
	h := newHarness(t)
	base := []string{"signup", "--first-name", "Kim", "--last-name", "Ng", "--email", "kim@example.com", "--password", "longenough", "--agree-terms"}

	h.wantCode(h.run(append(base, "--role", "employer")...), ExitError)
	h.wantErr(forms.MsgCompanyCode)
	if h.backend.registers != 0 {
		t.Errorf("registers = %d, want 0 (missing company code must not reach the network)", h.backend.registers)
	}

	h.wantCode(h.run(append(base, "--role", "employer", "--company-code", "WRONG")...), ExitError)
	h.wantErr("Invalid company code")

	h.wantCode(h.run(append(base, "--role", "employer", "--company-code", "NEXUS")...), ExitOK)
	h.wantOut("You are signed up as Employer.")
	if r := h.store.State().Role(); r != userdomain.RoleEmployer {
		t.Errorf("role = %q, want employer", r)
	}
	if got := h.events.types(); !contains(got, telemetry.EventSignup) {
		t.Errorf("events = %v, want %s", got, telemetry.EventSignup)
	}
}

func TestLogoutAndWhoami(t *testing.T) {
	h := newHarness(t)
	h.signIn(sam)
	h.wantCode(h.run("--json", "whoami"), ExitOK)
	var w struct {
		SignedIn  bool             `json:"signedIn"`
		User      *userdomain.User `json:"user"`
		ExpiresAt *time.Time       `json:"expiresAt"`
	}
	if err := json.Unmarshal(h.out.Bytes(), &w); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !w.SignedIn || w.User == nil || w.User.ID != "u1" || w.ExpiresAt == nil {
		t.Errorf("whoami = %+v", w)
	}

	h.wantCode(h.run("logout"), ExitOK)
	h.wantCode(h.run("whoami"), ExitOK)
	h.wantOut("Not signed in.")
}

func TestJobDetail(t *testing.T) {
	h := newHarness(t)
	h.wantCode(h.run("job", "j1"), ExitOK)
	h.wantOut("Backend Engineer", "Acme - Remote", "Job Description", "Sign in to apply")

	h.wantCode(h.run("job", "missing"), ExitError)
	h.wantErr("Job not found")

	h.wantCode(h.run("job"), ExitUsage)
}

func TestApply_SignedOutRedirectsWithReturnPath(t *testing.T) {
	h := newHarness(t)
	h.wantCode(h.run("apply", "j1"), ExitError)
	h.wantNavigated(nav.Landing, "/jobs/j1")
	h.wantOut("Sign in to continue to /jobs/j1")
	if len(h.backend.applied) != 0 {
		t.Error("signed-out apply reached the backend")
	}
}

func TestApply_ThenAlreadyApplied(t *testing.T) {
	h := newHarness(t)
	h.signIn(sam)
	h.wantCode(h.run("apply", "j1", "--cover-letter", "Hello", "--phone", "(555) 123-4567"), ExitOK)
	h.wantOut("Your application has been submitted successfully!")
	if len(h.backend.applied) != 1 || h.backend.applied[0].UserID != "u1" || h.backend.applied[0].Phone != "5551234567" {
		t.Fatalf("applied = %+v", h.backend.applied)
	}

	h.wantCode(h.run("apply", "j1"), ExitError)
	h.wantErr("You have already applied to this job")
	h.wantNavigated(nav.Applications, "")
	h.wantOut("My Applications", "Backend Engineer", "[Pending]")

	h.wantCode(h.run("job", "j1"), ExitOK)
	h.wantOut("You have applied to this job.")
}

func TestApply_InvalidFormStaysLocal(t *testing.T) {
	h := newHarness(t)
	h.signIn(sam)
	h.wantCode(h.run("apply", "j1", "--resume", "not a link"), ExitError)
	h.wantErr("resume: Resume must be a link")
	if len(h.backend.applied) != 0 {
		t.Error("invalid application reached the backend")
	}
}

func TestSaveUnsaveAndSaved(t *testing.T) {
	h := newHarness(t)
	h.signIn(sam)
	h.wantCode(h.run("save", "j2"), ExitOK)
	h.wantOut("Job saved.")
	h.wantCode(h.run("saved"), ExitOK)
	h.wantOut("Designer")
	h.wantCode(h.run("unsave", "j2"), ExitOK)
	h.wantCode(h.run("saved"), ExitOK)
	h.wantOut("You haven't saved any jobs yet.")

	if got := h.events.types(); !contains(got, telemetry.EventJobSaved) || !contains(got, telemetry.EventJobUnsaved) {
		t.Errorf("events = %v", got)
	}
}

func TestSave_SignedOut(t *testing.T) {
	h := newHarness(t)
	h.wantCode(h.run("save", "j2"), ExitError)
	h.wantNavigated(nav.Landing, "/jobs/j2")
}

func TestApplications_FilterAndTimeline(t *testing.T) {
	h := newHarness(t)
	h.backend.apps["u1"] = []jobdomain.Application{
		{ID: "x1", Job: h.backend.jobs["j1"], Status: status.Reviewing},
		{ID: "x2", Job: nil, Status: "mystery"},
	}
	h.signIn(sam)
	h.wantCode(h.run("applications", "--status", "reviewing", "--timeline"), ExitOK)
	h.wantOut("All (2)", "*Reviewing (1)", "Pending (1)", "(x) Applied > (x) Reviewing > ( ) Shortlisted",
		"The employer is currently reviewing your application.")
	if strings.Contains(h.out.String(), "Job no longer available") {
		t.Error("filtered-out application was listed")
	}

	h.wantCode(h.run("applications", "--status", "pending"), ExitOK)
	h.wantOut("Job no longer available", "[Pending]")

	h.wantCode(h.run("applications", "--status", "hired"), ExitUsage)
}

func TestSeekerDashboard(t *testing.T) {
	h := newHarness(t)
	h.signIn(sam)
	h.backend.saved["u1"] = map[string]bool{"j1": true}
	h.wantCode(h.run("dashboard"), ExitOK)
	h.wantOut("Welcome back, Sam Lee!", "Saved Jobs", "Backend Engineer")
}

func TestApplicants_OwnerSeesTabsAndDetail(t *testing.T) {
	h := newHarness(t)
	h.signIn(erin)
	h.wantCode(h.run("applicants", "j1"), ExitOK)
	h.wantOut("Applicants for Backend Engineer", "*All (2)", "Interview (1)", "Ann Doe", "Anonymous")

	h.wantCode(h.run("applicants", "j1", "--status", "interview"), ExitOK)
	if strings.Contains(h.out.String(), "Ann Doe") {
		t.Error("filter should hide the pending applicant")
	}

	h.wantCode(h.run("applicants", "j1", "--show", "a1"), ExitOK)
	h.wantOut("Ann Doe", "ann@example.com", "Applied on")

	h.wantCode(h.run("applicants", "j1", "--show", "zz"), ExitError)
	h.wantErr("Applicant not found")
}

func TestApplicants_NonOwnerIsRedirected(t *testing.T) {
	h := newHarness(t)
	h.signIn(eli)
	h.wantCode(h.run("applicants", "j1"), ExitError)
	h.wantErr("You do not have access to this job")
	h.wantNavigated(nav.SeekerDashboard, "/job/j1/applicants")
	// The job-seeker dashboard guard then sends the employer on to their own dashboard.
	h.wantNavigated(nav.EmployerDashboard, nav.SeekerDashboard)
	h.wantOut("Welcome back, Eli Park!")
}

func TestSetStatus(t *testing.T) {
	h := newHarness(t)
	h.signIn(erin)
	h.wantCode(h.run("set-status", "j1", "a1", "Shortlisted"), ExitOK)
	h.wantOut("Applicant a1 is now Shortlisted.")
	if len(h.backend.statuses) != 1 || h.backend.statuses[0] != "a1=shortlisted" {
		t.Errorf("statuses = %v", h.backend.statuses)
	}

	h.wantCode(h.run("set-status", "j1", "a1", "hired"), ExitError)
	h.wantErr("Invalid application status")
	if len(h.backend.statuses) != 1 {
		t.Error("invalid status reached the backend")
	}

	h.wantCode(h.run("set-status", "j1", "a1"), ExitUsage)
}

func TestEmployerJobManagement(t *testing.T) {
	h := newHarness(t)
	h.signIn(erin)

	h.wantCode(h.run("post-job", "--title", "SRE"), ExitError)
	h.wantErr("company: Company name is required")

	h.wantCode(h.run("post-job", "--title", "SRE", "--company", "Acme", "--location", "Remote", "--description", "Run prod",
		"--requirements", "Linux", "--responsibilities", "On-call", "--salary-min", "100000", "--salary-max", "150000",
		"--skill", "Go,Kubernetes", "--deadline", "2026-12-31"), ExitOK)
	h.wantOut("Job posted successfully!", "Job ID: j3")

	h.wantCode(h.run("update-job", "j1", "--title", "Staff Backend Engineer"), ExitOK)
	in := h.backend.updates["j1"]
	if in.Title != "Staff Backend Engineer" || in.Company != "Acme" || in.Salary.Min != 90000 {
		t.Errorf("update body = %+v", in)
	}

	h.in = "n\n"
	h.wantCode(h.run("delete-job", "j2"), ExitOK)
	h.wantOut("Cancelled.")
	h.wantCode(h.run("delete-job", "j2", "--yes"), ExitOK)
	if len(h.backend.deleted) != 1 || h.backend.deleted[0] != "j2" {
		t.Errorf("deleted = %v", h.backend.deleted)
	}
}

func TestUpdateJob_NonOwner(t *testing.T) {
	h := newHarness(t)
	h.signIn(eli)
	h.wantCode(h.run("update-job", "j1", "--title", "Mine now"), ExitError)
	h.wantNavigated(nav.EmployerDashboard, "/employer/edit-job/j1")
	if len(h.backend.updates) != 0 {
		t.Error("non-owner update reached the backend")
	}
}

func TestProfileCommands(t *testing.T) {
	h := newHarness(t)
	h.signIn(sam)
	h.wantCode(h.run("profile"), ExitOK)
	h.wantOut("Sam Lee", "Job Seeker")

	h.wantCode(h.run("update-profile", "--location", "Lisbon", "--skill", "Go,SQL"), ExitOK)
	h.wantOut("Profile updated.", "Lisbon", "Go, SQL")

	h.wantCode(h.run("change-password", "--current", "wrong", "--new", "newpassword", "--confirm", "newpassword"), ExitError)
	h.wantErr("Current password is incorrect")
	h.wantCode(h.run("change-password", "--current", "password1", "--new", "short", "--confirm", "short"), ExitError)
	h.wantErr(forms.MsgPasswordLength)
	h.wantCode(h.run("change-password", "--current", "password1", "--new", "newpassword", "--confirm", "newpassword"), ExitOK)
}

func TestSessionExpiry_ResetsAndShowsLanding(t *testing.T) {
	h := newHarness(t)
	h.signIn(sam)
	// Rehydration sees a valid session; the backend forgets it before the view fetches.
	h.afterRehydrate = h.backend.revokeAll
	h.wantCode(h.run("saved"), ExitError)
	h.wantErr("Your session has expired. Please sign in again.")
	h.wantOut("Nexus - find your next job.")
	if h.store.State().IsAuthenticated {
		t.Error("session should be reset after a 401")
	}
	if tok, _ := h.creds.Token(context.Background()); tok != "" {
		t.Errorf("token = %q, want cleared", tok)
	}
}

func TestSessionExpiry_Dashboard(t *testing.T) {
	tests := []struct {
		name string
		user *userdomain.User
		cmd  string
	}{
		{"seeker", sam, "dashboard"},
		{"employer", erin, "employer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.signIn(tt.user)
			h.afterRehydrate = h.backend.revokeAll
			h.wantCode(h.run(tt.cmd), ExitError)
			h.wantErr("Your session has expired. Please sign in again.")
			h.wantOut("Nexus - find your next job.")
			if strings.Contains(h.out.String(), "Not authorized") {
				t.Errorf("sections rendered the 401:\n%s", h.out.String())
			}
			if h.store.State().IsAuthenticated {
				t.Error("session should be reset after a 401")
			}
		})
	}
}

func TestSessionExpiry_JobDetail(t *testing.T) {
	h := newHarness(t)
	h.signIn(sam)
	h.afterRehydrate = h.backend.revokeAll
	h.wantCode(h.run("job", "j1"), ExitError)
	h.wantErr("Your session has expired. Please sign in again.")
	if strings.Contains(h.out.String(), "Backend Engineer") {
		t.Errorf("job rendered after session expiry:\n%s", h.out.String())
	}
}

func TestBrowse(t *testing.T) {
	h := newHarness(t)
	h.in = "next\nset type=Remote\nset type=Gig\nbogus\npage 9\nopen j2\nquit\n"
	h.wantCode(h.run("browse"), ExitOK)

	if n := len(h.backend.searches); n != 3 {
		t.Fatalf("searches = %d, want 3", n)
	}
	if got := h.backend.searches[1].Get("page"); got != "2" {
		t.Errorf("next page = %q, want 2", got)
	}
	last := h.backend.searches[2]
	if last.Get("type") != "Remote" || last.Get("page") != "1" {
		t.Errorf("after set: %v", last)
	}
	h.wantErr(`Unknown command "bogus"`, "type must be one of", "Choose a page between 1 and 3.")
	h.wantOut("Designer\nAcme - Berlin")
}

func TestDoctor(t *testing.T) {
	h := newHarness(t)
	h.wantCode(h.run("doctor"), ExitOK)
	h.wantOut("access policy", "backend", "status", "SERVING")
}
