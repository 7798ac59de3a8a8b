// Package health reports whether the client can work: the local session store, the access policy
// and the backend are each checked once.
package health

import (
	"context"
	"time"
)

// Status is the overall outcome.
type Status string

const (
	StatusServing    Status = "SERVING"
	StatusNotServing Status = "NOT_SERVING"
)

// Pinger checks the local session store (e.g. *sql.DB).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PolicyChecker checks that the access policy evaluates (e.g. the OPA evaluator).
type PolicyChecker interface {
	HealthCheck(ctx context.Context) error
}

// BackendProber checks that the job-board backend answers.
type BackendProber interface {
	Ping(ctx context.Context) error
}

// Result is one check.
type Result struct {
	Name    string
	Err     error
	Elapsed time.Duration
}

// Report is the outcome of Check.
type Report struct {
	Status  Status
	Results []Result
}

// Checker runs the configured checks. Nil dependencies are skipped.
type Checker struct {
	store   Pinger
	policy  PolicyChecker
	backend BackendProber
	nowF    func() time.Time
}

// NewChecker returns a checker. Any argument may be nil.
func NewChecker(store Pinger, policy PolicyChecker, backend BackendProber) *Checker {
	return &Checker{store: store, policy: policy, backend: backend, nowF: time.Now}
}

// Check runs every configured check in order. The status is NOT_SERVING if any of them failed.
func (c *Checker) Check(ctx context.Context) Report {
	r := Report{Status: StatusServing}
	run := func(name string, fn func(context.Context) error) {
		start := c.nowF()
		err := fn(ctx)
		r.Results = append(r.Results, Result{Name: name, Err: err, Elapsed: c.nowF().Sub(start)})
		if err != nil {
			r.Status = StatusNotServing
		}
	}
	if c.store != nil {
		run("session store", c.store.PingContext)
	}
	if c.policy != nil {
		run("access policy", c.policy.HealthCheck)
	}
	if c.backend != nil {
		run("backend", c.backend.Ping)
	}
	return r
}
