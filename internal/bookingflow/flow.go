// Package bookingflow drives a booking form from empty to submitted: a
// small state machine over a per-product draft, the derived total, and a
// single guarded submission.
package bookingflow

import (
	"context"
	"errors"

	"travelbook/pkg/client"
	"travelbook/pkg/model"
	"travelbook/pkg/session"
)

type State int

const (
	// StateIdle is the closed/unmounted form.
	StateIdle State = iota
	// StateEditing is an open form accepting input.
	StateEditing
	// StateSubmitting has one request in flight; further submits are
	// rejected until it resolves.
	StateSubmitting
	// StateFailed is Editing with an error attached; every entered field
	// value is preserved and the form accepts a retry.
	StateFailed
	// StateSucceeded is a closed form with a one-time confirmation notice.
	StateSucceeded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateFailed:
		return "failed"
	case StateSucceeded:
		return "succeeded"
	default:
		return "unknown"
	}
}

var (
	// ErrNotLoggedIn is distinct from field validation: the draft may be
	// perfectly valid and still unsendable without a session.
	ErrNotLoggedIn = errors.New("must be logged in to book")
	// ErrInvalidDraft blocks submission while any required field is
	// empty or out of range.
	ErrInvalidDraft = errors.New("please fill all required fields")
	// ErrSubmitInFlight rejects a second confirm while one is pending.
	ErrSubmitInFlight = errors.New("a submission is already in flight")
	// ErrNotOpen rejects submits against a closed or completed form.
	ErrNotOpen = errors.New("booking form is not open")
)

const genericFailure = "Booking failed, please try again."
const confirmationNotice = "Booking successful!"

// Submitter sends the create-booking request. *client.BookingClient is the
// production implementation.
type Submitter interface {
	Create(ctx context.Context, req model.BookingRequest) (*model.Booking, error)
}

// Flow is one mounted booking form. It is driven from a single UI
// goroutine; the generation counter only guards against a late network
// response landing after the form was closed or rebound.
type Flow struct {
	session *session.Store
	submit  Submitter

	state   State
	draft   Draft
	lastErr string
	notice  string
	booking *model.Booking
	gen     int
}

func New(sess *session.Store, submit Submitter) *Flow {
	return &Flow{
		session: sess,
		submit:  submit,
		state:   StateIdle,
	}
}

// Open mounts the form with a fresh draft and enters Editing.
func (f *Flow) Open(d Draft) {
	f.gen++
	f.state = StateEditing
	f.draft = d
	f.lastErr = ""
	f.notice = ""
	f.booking = nil
}

// Rebind replaces the bound product while the form is mounted. The draft
// is fully reset to the new product's defaults; nothing stale survives.
func (f *Flow) Rebind(d Draft) {
	f.Open(d)
}

// Close unmounts the form and discards the draft. A submission still in
// flight is ignored when it lands.
func (f *Flow) Close() {
	f.gen++
	f.state = StateIdle
	f.draft = nil
	f.lastErr = ""
	f.notice = ""
}

func (f *Flow) State() State { return f.state }

// Draft exposes the mounted draft for field edits; nil when closed.
func (f *Flow) Draft() Draft { return f.draft }

// LastError is the message shown inline; the server's message verbatim
// when it provided one.
func (f *Flow) LastError() string { return f.lastErr }

// Notice is the one-time confirmation surfaced on success.
func (f *Flow) Notice() string { return f.notice }

// Booking is the created record after a successful submit.
func (f *Flow) Booking() *model.Booking { return f.booking }

// CanSubmit reports whether the confirm control is enabled: an open form
// whose draft satisfies every constraint, with no request in flight.
func (f *Flow) CanSubmit() bool {
	if f.state != StateEditing && f.state != StateFailed {
		return false
	}
	return f.draft.CanSubmit()
}

// Submit sends the draft with its derived total and the session's bearer
// token. ctx aborts the request when the caller tears the form down.
// On failure the form returns to an editable state with all entered
// values intact; there are no automatic retries.
func (f *Flow) Submit(ctx context.Context) error {
	switch f.state {
	case StateSubmitting:
		return ErrSubmitInFlight
	case StateEditing, StateFailed:
	default:
		return ErrNotOpen
	}

	if f.session.Current() == nil {
		f.state = StateFailed
		f.lastErr = ErrNotLoggedIn.Error()
		return ErrNotLoggedIn
	}
	if !f.draft.CanSubmit() {
		f.state = StateFailed
		f.lastErr = ErrInvalidDraft.Error()
		return ErrInvalidDraft
	}

	f.state = StateSubmitting
	f.lastErr = ""
	gen := f.gen

	booking, err := f.submit.Create(ctx, f.draft.Request())

	if f.gen != gen {
		// The form was closed or rebound while the request was in
		// flight; the late response must not corrupt the new state.
		return nil
	}

	if err != nil {
		f.state = StateFailed
		f.lastErr = failureMessage(err)
		return err
	}

	f.state = StateSucceeded
	f.booking = booking
	f.notice = confirmationNotice
	f.draft = nil
	return nil
}

// failureMessage prefers the server-provided message verbatim and falls
// back to a generic string for transport-level failures.
func failureMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return genericFailure
}
