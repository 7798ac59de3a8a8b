// Package telemetry defines client usage events and emits them best-effort.
package telemetry

import (
	"context"
	"errors"
	"time"
)

// Event types.
const (
	EventLogin          = "session.login"
	EventSignup         = "session.signup"
	EventLogout         = "session.logout"
	EventSessionExpired = "session.expired"
	EventRedirect       = "view.redirect"
	EventJobApplied     = "job.applied"
	EventJobSaved       = "job.saved"
	EventJobUnsaved     = "job.unsaved"
	EventJobPosted      = "job.posted"
	EventJobUpdated     = "job.updated"
	EventJobDeleted     = "job.deleted"
	EventStatusChanged  = "applicant.status_changed"
)

// Event is one client usage event. Empty fields are omitted downstream.
type Event struct {
	Type   string `json:"type"`
	UserID string `json:"userId,omitempty"`
	Role   string `json:"role,omitempty"`
	// Route is the view the event happened on.
	Route    string            `json:"route,omitempty"`
	Source   string            `json:"source,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
	// CreatedAt defaults to the emit time when zero.
	CreatedAt time.Time `json:"createdAt"`
}

// Stamped returns a copy of e with CreatedAt set to now when it is zero.
func (e Event) Stamped(now time.Time) Event {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now.UTC()
	}
	return e
}

// EventEmitter emits events (e.g. to OTel Logs). Best-effort; callers log and ignore errors.
type EventEmitter interface {
	Emit(ctx context.Context, event *Event) error
}

// Multi fans one event out to every emitter, skipping nil ones. All emitters run; their errors are joined.
func Multi(emitters ...EventEmitter) EventEmitter {
	var out multi
	for _, e := range emitters {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

type multi []EventEmitter

func (m multi) Emit(ctx context.Context, event *Event) error {
	var errs []error
	for _, e := range m {
		if err := e.Emit(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
