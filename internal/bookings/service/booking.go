package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "travelbook/internal/bookings/errors"
	"travelbook/internal/bookings/repository"
	"travelbook/internal/bookings/validator"
	"travelbook/internal/events"
	"travelbook/internal/pricing"
	"travelbook/pkg/config"
	apperrors "travelbook/pkg/errors"
	"travelbook/pkg/metrics"
	"travelbook/pkg/model"
	"travelbook/pkg/sanitizer"
)

const dateLayout = "2006-01-02"

type BookingService interface {
	Create(ctx context.Context, userID string, req *model.BookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	List(ctx context.Context, page, limit int) ([]*model.Booking, int64, error)
	Mine(ctx context.Context, userID string) ([]*model.Booking, error)
	UpdateStatus(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error)
	Cancel(ctx context.Context, userID, role, id string) (*model.Booking, error)
}

// Product lookups come from the catalog services so a booking can only
// reference products that exist.
type TourFinder interface {
	GetByID(ctx context.Context, id string) (*model.Tour, error)
}

type CarFinder interface {
	GetByID(ctx context.Context, id string) (*model.Car, error)
}

type OfferFinder interface {
	GetByID(ctx context.Context, id string) (*model.Offer, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	tours     TourFinder
	cars      CarFinder
	offers    OfferFinder
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	tours TourFinder,
	cars CarFinder,
	offers OfferFinder,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		tours:     tours,
		cars:      cars,
		offers:    offers,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Create validates the request, recomputes the total from the stored
// product price, and rejects totals that do not match. The client's
// totalPrice is never trusted.
func (s *bookingService) Create(ctx context.Context, userID string, req *model.BookingRequest) (*model.Booking, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("must be logged in to book")
	}

	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Booking request validation failed", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, apperrors.InvalidInput("date must be in YYYY-MM-DD format")
	}
	today, _ := time.Parse(dateLayout, time.Now().Format(dateLayout))
	if date.Before(today) {
		return nil, apperrors.Validation("Booking date cannot be in the past", nil)
	}

	phone := sanitizer.NormalizePhone(req.Phone)
	if phone == "" {
		return nil, apperrors.Validation("Invalid phone number", nil)
	}

	// The price check and the insert run in one transaction so the
	// product cannot change between recomputing the total and storing
	// the booking.
	var kind string
	var booking *model.Booking
	txErr := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		var expected int64
		var err error
		kind, expected, err = s.expectedTotal(sessCtx, req)
		if err != nil {
			return err
		}
		if req.TotalPrice != expected {
			s.cfg.Log.Warn("Booking total mismatch",
				"user_id", userID,
				"kind", kind,
				"claimed", req.TotalPrice,
				"expected", expected,
			)
			return apperrors.Validation("Total price does not match the current product price", map[string]any{
				"expected": expected,
			})
		}

		booking = &model.Booking{
			UserID:          userID,
			TourID:          req.TourID,
			CarID:           req.CarID,
			OfferID:         req.OfferID,
			Travelers:       req.Travelers,
			Date:            date,
			PickupLocation:  sanitizer.NormalizeLocation(req.PickupLocation),
			Phone:           phone,
			SpecialRequests: sanitizer.NormalizeFreeText(req.SpecialRequests),
			TotalPrice:      expected,
			Status:          model.BookingStatusPending,
		}
		return s.repo.Create(sessCtx, booking)
	})
	if txErr != nil {
		if apperrors.IsAppError(txErr) {
			return nil, txErr
		}
		s.cfg.Log.Error("Failed to create booking", "error", txErr)
		return nil, apperrors.Internal("Failed to create booking", txErr)
	}

	metrics.IncBookingCreated(kind)
	s.publisher.BookingCreated(ctx, booking)

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"user_id", userID,
		"kind", kind,
		"total_price", booking.TotalPrice,
	)
	return booking, nil
}

// expectedTotal resolves the referenced product and derives the
// authoritative total. Tours charge per passenger with no fee, offers
// add an 8% fee, car rentals add 10% with travelers carrying the day
// count.
func (s *bookingService) expectedTotal(ctx context.Context, req *model.BookingRequest) (string, int64, error) {
	switch {
	case req.TourID != "":
		tour, err := s.tours.GetByID(ctx, req.TourID)
		if err != nil {
			return "", 0, err
		}
		if tour.MaxGroupSize > 0 && req.Travelers > tour.MaxGroupSize {
			return "", 0, apperrors.Validation("Passenger count exceeds the tour group size", map[string]any{
				"maxGroupSize": tour.MaxGroupSize,
			})
		}
		return "tour", pricing.TourTotal(tour.Price, req.Travelers), nil

	case req.CarID != "":
		car, err := s.cars.GetByID(ctx, req.CarID)
		if err != nil {
			return "", 0, err
		}
		if !car.Available {
			return "", 0, apperrors.Conflict("This car is not available for rental")
		}
		return "car", pricing.CarTotalForDays(car.Price, req.Travelers), nil

	default:
		offer, err := s.offers.GetByID(ctx, req.OfferID)
		if err != nil {
			return "", 0, err
		}
		if !offer.ExpiresAt.IsZero() && offer.ExpiresAt.Before(time.Now()) {
			return "", 0, apperrors.Validation("This offer has expired", nil)
		}
		return "offer", pricing.OfferTotal(offer.OfferPrice, req.Travelers), nil
	}
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) List(ctx context.Context, page, limit int) ([]*model.Booking, int64, error) {
	page = config.NormalizePage(page)
	limit = config.NormalizePaginationLimit(limit)

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, page, limit)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) Mine(ctx context.Context, userID string) ([]*model.Booking, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("must be logged in to book")
	}

	bookings, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to list user bookings", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return bookings, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}
	if updates.Status == "" {
		return nil, apperrors.InvalidInput("status is required")
	}

	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.UpdateStatus(ctx, id, updates.Status); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to update booking status", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update booking", err)
	}

	booking.Status = updates.Status
	s.publisher.BookingStatusChanged(ctx, booking)

	s.cfg.Log.Info("Booking status updated", "id", id, "status", updates.Status)
	return booking, nil
}

// Cancel lets the owner cancel their own booking. Admins can cancel
// anything.
func (s *bookingService) Cancel(ctx context.Context, userID, role, id string) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.UserID != userID && role != model.RoleAdmin {
		return nil, apperrors.Forbidden("You can only cancel your own bookings")
	}
	if booking.Status == model.BookingStatusCancelled {
		return booking, nil
	}

	if _, err := s.repo.UpdateStatus(ctx, id, model.BookingStatusCancelled); err != nil {
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to cancel booking", err)
	}

	booking.Status = model.BookingStatusCancelled
	s.publisher.BookingStatusChanged(ctx, booking)

	s.cfg.Log.Info("Booking cancelled", "id", id, "user_id", userID)
	return booking, nil
}
