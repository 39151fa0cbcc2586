package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"travelbook/internal/bookings/validator"
	"travelbook/internal/events"
	"travelbook/pkg/config"
	mongotx "travelbook/pkg/db/mongo"
	apperrors "travelbook/pkg/errors"
	"travelbook/pkg/logger"
	"travelbook/pkg/model"
)

const (
	testUserID  = "507f1f77bcf86cd799439001"
	otherUserID = "507f1f77bcf86cd799439002"
	testTourID  = "507f1f77bcf86cd799439011"
	testCarID   = "507f1f77bcf86cd799439012"
	testOfferID = "507f1f77bcf86cd799439013"
)

type mockBookingRepository struct {
	createFn       func(ctx context.Context, booking *model.Booking) error
	findByIDFn     func(ctx context.Context, id string) (*model.Booking, error)
	updateStatusFn func(ctx context.Context, id, status string) (*mongo.UpdateResult, error)
	created        *model.Booking
	transactions   int
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	m.created = booking
	if m.createFn != nil {
		return m.createFn(ctx, booking)
	}
	booking.ID = "507f1f77bcf86cd799439099"
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockBookingRepository) FindAll(ctx context.Context, page, limit int) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) FindByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id, status string) (*mongo.UpdateResult, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockBookingRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	m.transactions++
	return fn(mongo.NewSessionContext(ctx, nil))
}

type stubTours struct {
	tour *model.Tour
	err  error
}

func (s *stubTours) GetByID(ctx context.Context, id string) (*model.Tour, error) {
	return s.tour, s.err
}

type stubCars struct {
	car *model.Car
	err error
}

func (s *stubCars) GetByID(ctx context.Context, id string) (*model.Car, error) {
	return s.car, s.err
}

type stubOffers struct {
	offer *model.Offer
	err   error
}

func (s *stubOffers) GetByID(ctx context.Context, id string) (*model.Offer, error) {
	return s.offer, s.err
}

type recordingPublisher struct {
	created []string
	changed []string
}

func (p *recordingPublisher) BookingCreated(ctx context.Context, b *model.Booking) {
	p.created = append(p.created, b.ID)
}

func (p *recordingPublisher) BookingStatusChanged(ctx context.Context, b *model.Booking) {
	p.changed = append(p.changed, b.Status)
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
}

func newTestService(
	repo *mockBookingRepository,
	tours TourFinder,
	cars CarFinder,
	offers OfferFinder,
	pub events.Publisher,
) BookingService {
	cfg := testConfig()
	if pub == nil {
		pub = events.NewNoopPublisher()
	}
	return NewBookingService(repo, tours, cars, offers, validator.NewBookingValidator(cfg.Log), pub, cfg)
}

func futureDateString() string {
	return time.Now().AddDate(0, 0, 7).Format(dateLayout)
}

func validTourRequest() *model.BookingRequest {
	return &model.BookingRequest{
		TourID:         testTourID,
		Travelers:      3,
		Date:           futureDateString(),
		PickupLocation: "Kochi",
		Phone:          "+919876543210",
		TotalPrice:     15000,
	}
}

func TestCreateTourBooking(t *testing.T) {
	repo := &mockBookingRepository{}
	pub := &recordingPublisher{}
	svc := newTestService(repo,
		&stubTours{tour: &model.Tour{ID: testTourID, Price: 5000, MaxGroupSize: 10}},
		nil, nil, pub)

	booking, err := svc.Create(context.Background(), testUserID, validTourRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if booking.TotalPrice != 15000 {
		t.Errorf("TotalPrice = %d, want 15000", booking.TotalPrice)
	}
	if booking.Status != model.BookingStatusPending {
		t.Errorf("Status = %q, want pending", booking.Status)
	}
	if booking.Phone != "+919876543210" {
		t.Errorf("Phone = %q, want normalized E164", booking.Phone)
	}
	if len(pub.created) != 1 {
		t.Errorf("expected one created event, got %d", len(pub.created))
	}
}

func TestCreateRunsInsideTransaction(t *testing.T) {
	insertedInSession := false
	repo := &mockBookingRepository{
		createFn: func(ctx context.Context, booking *model.Booking) error {
			_, insertedInSession = ctx.(mongo.SessionContext)
			booking.ID = "507f1f77bcf86cd799439099"
			return nil
		},
	}
	svc := newTestService(repo,
		&stubTours{tour: &model.Tour{ID: testTourID, Price: 5000, MaxGroupSize: 10}},
		nil, nil, nil)

	if _, err := svc.Create(context.Background(), testUserID, validTourRequest()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if repo.transactions != 1 {
		t.Errorf("transactions = %d, want the price check and insert in one transaction", repo.transactions)
	}
	if !insertedInSession {
		t.Error("insert must run on the transaction session context")
	}
}

func TestCreateRejectsTamperedTotal(t *testing.T) {
	repo := &mockBookingRepository{}
	svc := newTestService(repo,
		&stubTours{tour: &model.Tour{ID: testTourID, Price: 5000, MaxGroupSize: 10}},
		nil, nil, nil)

	req := validTourRequest()
	req.TotalPrice = 1

	_, err := svc.Create(context.Background(), testUserID, req)
	if err == nil {
		t.Fatal("expected a tampered total to be rejected")
	}

	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != 422 {
		t.Errorf("status = %d, want 422", appErr.StatusCode())
	}
	if appErr.Message != "Total price does not match the current product price" {
		t.Errorf("message = %q", appErr.Message)
	}
	if appErr.Details["expected"] != int64(15000) {
		t.Errorf("expected detail = %v, want 15000", appErr.Details["expected"])
	}
	if repo.created != nil {
		t.Error("tampered booking must not reach the repository")
	}
}

func TestCreateOfferBookingRecomputesFee(t *testing.T) {
	repo := &mockBookingRepository{}
	svc := newTestService(repo, nil, nil,
		&stubOffers{offer: &model.Offer{ID: testOfferID, OfferPrice: 2000}}, nil)

	req := &model.BookingRequest{
		OfferID:        testOfferID,
		Travelers:      2,
		Date:           futureDateString(),
		PickupLocation: "Hotel",
		Phone:          "+919876543210",
		TotalPrice:     4320, // 4000 + round(4000*0.08)
	}

	booking, err := svc.Create(context.Background(), testUserID, req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if booking.TotalPrice != 4320 {
		t.Errorf("TotalPrice = %d, want 4320", booking.TotalPrice)
	}
}

func TestCreateCarBookingChargesPerDay(t *testing.T) {
	repo := &mockBookingRepository{}
	svc := newTestService(repo, nil,
		&stubCars{car: &model.Car{ID: testCarID, Price: 1500, Available: true}},
		nil, nil)

	req := &model.BookingRequest{
		CarID:          testCarID,
		Travelers:      3, // rental days
		Date:           futureDateString(),
		PickupLocation: "Airport",
		Phone:          "+919876543210",
		TotalPrice:     4950, // 4500 + round(4500*0.10)
	}

	booking, err := svc.Create(context.Background(), testUserID, req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if booking.TotalPrice != 4950 {
		t.Errorf("TotalPrice = %d, want 4950", booking.TotalPrice)
	}
}

func TestCreateRejectsUnavailableCar(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, nil,
		&stubCars{car: &model.Car{ID: testCarID, Price: 1500, Available: false}},
		nil, nil)

	req := &model.BookingRequest{
		CarID:          testCarID,
		Travelers:      3,
		Date:           futureDateString(),
		PickupLocation: "Airport",
		Phone:          "+919876543210",
		TotalPrice:     4950,
	}

	_, err := svc.Create(context.Background(), testUserID, req)
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != 409 {
		t.Fatalf("status = %d, want 409", appErr.StatusCode())
	}
}

func TestCreateRejectsExpiredOffer(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, nil, nil,
		&stubOffers{offer: &model.Offer{
			ID:         testOfferID,
			OfferPrice: 2000,
			ExpiresAt:  time.Now().Add(-24 * time.Hour),
		}}, nil)

	req := &model.BookingRequest{
		OfferID:        testOfferID,
		Travelers:      2,
		Date:           futureDateString(),
		PickupLocation: "Hotel",
		Phone:          "+919876543210",
		TotalPrice:     4320,
	}

	_, err := svc.Create(context.Background(), testUserID, req)
	if err == nil {
		t.Fatal("expected an expired offer to be rejected")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCreateRejectsAnonymousUser(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), "", validTourRequest())
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != 401 {
		t.Fatalf("status = %d, want 401", appErr.StatusCode())
	}
}

func TestCreateRejectsAmbiguousProduct(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, nil, nil, nil, nil)

	req := validTourRequest()
	req.CarID = testCarID

	_, err := svc.Create(context.Background(), testUserID, req)
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != 422 {
		t.Fatalf("status = %d, want 422", appErr.StatusCode())
	}
}

func TestCreateRejectsPastDate(t *testing.T) {
	svc := newTestService(&mockBookingRepository{},
		&stubTours{tour: &model.Tour{ID: testTourID, Price: 5000}},
		nil, nil, nil)

	req := validTourRequest()
	req.Date = time.Now().AddDate(0, 0, -2).Format(dateLayout)

	_, err := svc.Create(context.Background(), testUserID, req)
	if err == nil {
		t.Fatal("expected a past date to be rejected")
	}
	if !strings.Contains(err.Error(), "past") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCreateRejectsOversizedGroup(t *testing.T) {
	svc := newTestService(&mockBookingRepository{},
		&stubTours{tour: &model.Tour{ID: testTourID, Price: 5000, MaxGroupSize: 2}},
		nil, nil, nil)

	req := validTourRequest()
	_, err := svc.Create(context.Background(), testUserID, req)
	if err == nil {
		t.Fatal("expected the group size cap to apply")
	}
}

func TestCancelByOwner(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{ID: id, UserID: testUserID, Status: model.BookingStatusPending}, nil
		},
	}
	pub := &recordingPublisher{}
	svc := newTestService(repo, nil, nil, nil, pub)

	booking, err := svc.Cancel(context.Background(), testUserID, model.RoleUser, "507f1f77bcf86cd799439099")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if booking.Status != model.BookingStatusCancelled {
		t.Errorf("Status = %q, want cancelled", booking.Status)
	}
	if len(pub.changed) != 1 {
		t.Errorf("expected one status event, got %d", len(pub.changed))
	}
}

func TestCancelRejectsOtherUsers(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{ID: id, UserID: otherUserID, Status: model.BookingStatusPending}, nil
		},
	}
	svc := newTestService(repo, nil, nil, nil, nil)

	_, err := svc.Cancel(context.Background(), testUserID, model.RoleUser, "507f1f77bcf86cd799439099")
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != 403 {
		t.Fatalf("status = %d, want 403", appErr.StatusCode())
	}
}

func TestCancelAllowedForAdmin(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{ID: id, UserID: otherUserID, Status: model.BookingStatusPending}, nil
		},
	}
	svc := newTestService(repo, nil, nil, nil, nil)

	if _, err := svc.Cancel(context.Background(), testUserID, model.RoleAdmin, "507f1f77bcf86cd799439099"); err != nil {
		t.Fatalf("admin cancel: %v", err)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	updates := 0
	repo := &mockBookingRepository{
		findByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{ID: id, UserID: testUserID, Status: model.BookingStatusCancelled}, nil
		},
		updateStatusFn: func(ctx context.Context, id, status string) (*mongo.UpdateResult, error) {
			updates++
			return &mongo.UpdateResult{MatchedCount: 1}, nil
		},
	}
	svc := newTestService(repo, nil, nil, nil, nil)

	booking, err := svc.Cancel(context.Background(), testUserID, model.RoleUser, "507f1f77bcf86cd799439099")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if booking.Status != model.BookingStatusCancelled {
		t.Errorf("Status = %q", booking.Status)
	}
	if updates != 0 {
		t.Error("cancelling a cancelled booking must not hit the repository")
	}
}
