// Package nav holds the client's route table and the navigator that applies redirects.
package nav

import (
	"strings"
	"sync"
)

// Routes.
const (
	Landing           = "/"
	Jobs              = "/jobs"
	SeekerDashboard   = "/dashboard"
	EmployerDashboard = "/employer/dashboard"
	Applications      = "/applications"
	Profile           = "/profile"
	PostJob           = "/employer/post-job"

	JobDetailPattern     = "/jobs/:id"
	JobApplicantsPattern = "/job/:id/applicants"
	EditJobPattern       = "/employer/edit-job/:id"
)

// JobDetail returns /jobs/:id.
func JobDetail(id string) string { return Jobs + "/" + id }

// JobApplicants returns /job/:id/applicants.
func JobApplicants(id string) string { return "/job/" + id + "/applicants" }

// EditJob returns /employer/edit-job/:id.
func EditJob(id string) string { return "/employer/edit-job/" + id }

// Navigation is a recorded redirect. From is the originally requested path, for redirect-back.
type Navigation struct {
	Target string
	From   string
}

// Navigator performs navigation side effects.
type Navigator interface {
	Navigate(target, from string)
}

// Recorder is a Navigator that remembers the most recent navigation until it is taken.
// Safe for concurrent use; the 401 hook may fire from any fetch goroutine.
type Recorder struct {
	mu      sync.Mutex
	pending *Navigation
	history []Navigation
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Navigate records target, replacing any pending navigation.
func (r *Recorder) Navigate(target, from string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := Navigation{Target: target, From: from}
	r.pending = &n
	r.history = append(r.history, n)
}

// Take returns and clears the pending navigation.
func (r *Recorder) Take() (Navigation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending == nil {
		return Navigation{}, false
	}
	n := *r.pending
	r.pending = nil
	return n, true
}

// History returns every navigation recorded so far.
func (r *Recorder) History() []Navigation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Navigation(nil), r.history...)
}

// Match reports whether path matches pattern, where pattern segments starting with ':' match any single
// non-empty segment. params holds the matched segments in order.
func Match(pattern, path string) (params []string, ok bool) {
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	xs := strings.Split(strings.Trim(path, "/"), "/")
	if len(ps) != len(xs) {
		return nil, false
	}
	for i := range ps {
		if strings.HasPrefix(ps[i], ":") {
			if xs[i] == "" {
				return nil, false
			}
			params = append(params, xs[i])
			continue
		}
		if ps[i] != xs[i] {
			return nil, false
		}
	}
	return params, true
}
