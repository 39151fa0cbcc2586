package bookingflow

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"travelbook/pkg/client"
	"travelbook/pkg/model"
	"travelbook/pkg/session"
)

type mockSubmitter struct {
	createFn func(ctx context.Context, req model.BookingRequest) (*model.Booking, error)
}

func (m *mockSubmitter) Create(ctx context.Context, req model.BookingRequest) (*model.Booking, error) {
	return m.createFn(ctx, req)
}

func anonymousSession(t *testing.T) *session.Store {
	t.Helper()
	return session.Open(filepath.Join(t.TempDir(), "session.json"))
}

func loggedInSession(t *testing.T) *session.Store {
	t.Helper()
	s := session.Open(filepath.Join(t.TempDir(), "session.json"))
	if err := s.Login(session.User{
		ID:    "507f1f77bcf86cd799439011",
		Name:  "Asha Nair",
		Phone: "+919876543210",
		Role:  "user",
		Token: "test-token",
	}); err != nil {
		t.Fatalf("login: %v", err)
	}
	return s
}

func futureDate() string {
	return time.Now().AddDate(0, 0, 7).Format(dateLayout)
}

func validTourDraft() *TourDraft {
	return &TourDraft{
		Tour:           model.Tour{ID: "t1", Price: 5000},
		FullName:       "Asha Nair",
		Phone:          "+919876543210",
		Passengers:     3,
		Date:           futureDate(),
		PickupLocation: "Kochi",
	}
}

func TestSubmitRequiresLogin(t *testing.T) {
	flow := New(anonymousSession(t), &mockSubmitter{
		createFn: func(ctx context.Context, req model.BookingRequest) (*model.Booking, error) {
			t.Fatal("submitter must not be called without a session")
			return nil, nil
		},
	})

	flow.Open(validTourDraft())
	err := flow.Submit(context.Background())

	if !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
	if flow.State() != StateFailed {
		t.Errorf("state = %s, want failed", flow.State())
	}
	if flow.LastError() != ErrNotLoggedIn.Error() {
		t.Errorf("LastError = %q", flow.LastError())
	}
}

func TestSubmitBlockedByInvalidDraft(t *testing.T) {
	flow := New(loggedInSession(t), &mockSubmitter{
		createFn: func(ctx context.Context, req model.BookingRequest) (*model.Booking, error) {
			t.Fatal("submitter must not be called with an invalid draft")
			return nil, nil
		},
	})

	draft := validTourDraft()
	draft.PickupLocation = "   "
	flow.Open(draft)

	if flow.CanSubmit() {
		t.Error("CanSubmit should be false with a blank pickup location")
	}
	if err := flow.Submit(context.Background()); !errors.Is(err, ErrInvalidDraft) {
		t.Fatalf("expected ErrInvalidDraft, got %v", err)
	}
	if flow.State() != StateFailed {
		t.Errorf("state = %s, want failed", flow.State())
	}
}

func TestClearedPassengerCountBlocksSubmit(t *testing.T) {
	flow := New(loggedInSession(t), &mockSubmitter{
		createFn: func(ctx context.Context, req model.BookingRequest) (*model.Booking, error) {
			t.Fatal("submitter must not be called")
			return nil, nil
		},
	})

	draft := validTourDraft()
	flow.Open(draft)
	draft.SetPassengers(0)

	if flow.CanSubmit() {
		t.Error("clearing the passenger field must disable submission")
	}
	if err := flow.Submit(context.Background()); !errors.Is(err, ErrInvalidDraft) {
		t.Fatalf("expected ErrInvalidDraft, got %v", err)
	}
}

func TestSubmitSuccess(t *testing.T) {
	var sent model.BookingRequest
	flow := New(loggedInSession(t), &mockSubmitter{
		createFn: func(ctx context.Context, req model.BookingRequest) (*model.Booking, error) {
			sent = req
			return &model.Booking{ID: "b1", Status: model.BookingStatusPending}, nil
		},
	})

	flow.Open(validTourDraft())
	if err := flow.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if sent.TotalPrice != 15000 {
		t.Errorf("derived total = %d, want 15000", sent.TotalPrice)
	}
	if flow.State() != StateSucceeded {
		t.Errorf("state = %s, want succeeded", flow.State())
	}
	if flow.Notice() != confirmationNotice {
		t.Errorf("notice = %q", flow.Notice())
	}
	if flow.Booking() == nil || flow.Booking().ID != "b1" {
		t.Error("expected the created booking to be retained")
	}
	if flow.Draft() != nil {
		t.Error("draft should be discarded after success")
	}
}

func TestSecondSubmitRejectedWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	flow := New(loggedInSession(t), &mockSubmitter{
		createFn: func(ctx context.Context, req model.BookingRequest) (*model.Booking, error) {
			close(started)
			<-release
			return &model.Booking{ID: "b1"}, nil
		},
	})

	flow.Open(validTourDraft())

	done := make(chan error, 1)
	go func() { done <- flow.Submit(context.Background()) }()
	<-started

	if err := flow.Submit(context.Background()); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("expected ErrSubmitInFlight, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
}

func TestFailedSubmitPreservesDraftAndServerMessage(t *testing.T) {
	serverMsg := "Total price does not match the current product price"
	calls := 0
	flow := New(loggedInSession(t), &mockSubmitter{
		createFn: func(ctx context.Context, req model.BookingRequest) (*model.Booking, error) {
			calls++
			if calls == 1 {
				return nil, &client.APIError{Status: 422, Message: serverMsg}
			}
			return &model.Booking{ID: "b1"}, nil
		},
	})

	draft := validTourDraft()
	draft.Message = "window seats please"
	flow.Open(draft)

	if err := flow.Submit(context.Background()); err == nil {
		t.Fatal("expected the first submit to fail")
	}
	if flow.State() != StateFailed {
		t.Errorf("state = %s, want failed", flow.State())
	}
	if flow.LastError() != serverMsg {
		t.Errorf("expected server message verbatim, got %q", flow.LastError())
	}

	kept, ok := flow.Draft().(*TourDraft)
	if !ok {
		t.Fatal("draft lost after failure")
	}
	if kept.Message != "window seats please" || kept.Passengers != 3 {
		t.Error("entered values must survive a failed submission")
	}

	if err := flow.Submit(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if flow.State() != StateSucceeded {
		t.Errorf("state after retry = %s, want succeeded", flow.State())
	}
}

func TestTransportFailureShowsGenericMessage(t *testing.T) {
	flow := New(loggedInSession(t), &mockSubmitter{
		createFn: func(ctx context.Context, req model.BookingRequest) (*model.Booking, error) {
			return nil, context.DeadlineExceeded
		},
	})

	flow.Open(validTourDraft())
	if err := flow.Submit(context.Background()); err == nil {
		t.Fatal("expected submit to fail")
	}
	if flow.LastError() != genericFailure {
		t.Errorf("expected generic failure message, got %q", flow.LastError())
	}
}

func TestRebindResetsDraft(t *testing.T) {
	sess := loggedInSession(t)
	flow := New(sess, &mockSubmitter{
		createFn: func(ctx context.Context, req model.BookingRequest) (*model.Booking, error) {
			return &model.Booking{ID: "b1"}, nil
		},
	})

	first := NewTourDraft(model.Tour{ID: "t1", Price: 5000}, sess.Current(), TourDefaults{})
	flow.Open(first)
	first.PickupLocation = "Kochi"
	first.SetPassengers(5)

	second := NewTourDraft(model.Tour{ID: "t2", Price: 9000}, sess.Current(), TourDefaults{})
	flow.Rebind(second)

	got, ok := flow.Draft().(*TourDraft)
	if !ok {
		t.Fatal("expected a tour draft after rebind")
	}
	if got.Tour.ID != "t2" {
		t.Errorf("bound tour = %s, want t2", got.Tour.ID)
	}
	if got.PickupLocation != "" || got.Passengers != 1 {
		t.Error("rebind must reset the draft to the new product's defaults")
	}
	if got.FullName != "Asha Nair" || got.Phone != "+919876543210" {
		t.Error("rebind should still prefill from the session user")
	}
}

func TestLateResponseIgnoredAfterClose(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	flow := New(loggedInSession(t), &mockSubmitter{
		createFn: func(ctx context.Context, req model.BookingRequest) (*model.Booking, error) {
			close(started)
			<-release
			return &model.Booking{ID: "stale"}, nil
		},
	})

	flow.Open(validTourDraft())

	done := make(chan error, 1)
	go func() { done <- flow.Submit(context.Background()) }()
	<-started

	flow.Close()
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("late response should be dropped silently, got %v", err)
	}

	if flow.State() != StateIdle {
		t.Errorf("state = %s, want idle", flow.State())
	}
	if flow.Booking() != nil {
		t.Error("late booking must not land on a closed flow")
	}
}

func TestLateResponseIgnoredAfterRebind(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	flow := New(loggedInSession(t), &mockSubmitter{
		createFn: func(ctx context.Context, req model.BookingRequest) (*model.Booking, error) {
			close(started)
			<-release
			return nil, &client.APIError{Status: 500, Message: "boom"}
		},
	})

	flow.Open(validTourDraft())

	done := make(chan error, 1)
	go func() { done <- flow.Submit(context.Background()) }()
	<-started

	fresh := validTourDraft()
	fresh.Tour.ID = "t2"
	flow.Rebind(fresh)
	close(release)
	<-done

	if flow.State() != StateEditing {
		t.Errorf("state = %s, want editing", flow.State())
	}
	if flow.LastError() != "" {
		t.Errorf("stale failure must not surface on the rebound form, got %q", flow.LastError())
	}
}

func TestSubmitAgainstClosedFlow(t *testing.T) {
	flow := New(loggedInSession(t), &mockSubmitter{
		createFn: func(ctx context.Context, req model.BookingRequest) (*model.Booking, error) {
			return nil, nil
		},
	})

	if err := flow.Submit(context.Background()); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("expected ErrNotOpen, got %v", err)
	}
}
