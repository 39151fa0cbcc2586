package service

import (
	"context"
	"testing"

	reviewserrors "travelbook/internal/reviews/errors"
	"travelbook/pkg/config"
	apperrors "travelbook/pkg/errors"
	"travelbook/pkg/logger"
	"travelbook/pkg/model"
)

const (
	reviewUserID = "507f1f77bcf86cd799439001"
	reviewTourID = "507f1f77bcf86cd799439011"
	reviewID     = "507f1f77bcf86cd799439021"
)

type mockReviewRepository struct {
	createFn        func(ctx context.Context, review *model.Review) error
	findByIDFn      func(ctx context.Context, id string) (*model.Review, error)
	findByTourFn    func(ctx context.Context, tourID string) ([]*model.Review, error)
	deleteFn        func(ctx context.Context, id string) error
	averageRatingFn func(ctx context.Context, tourID string) (float64, error)
	created         *model.Review
}

func (m *mockReviewRepository) Create(ctx context.Context, review *model.Review) error {
	m.created = review
	if m.createFn != nil {
		return m.createFn(ctx, review)
	}
	review.ID = reviewID
	return nil
}

func (m *mockReviewRepository) FindByID(ctx context.Context, id string) (*model.Review, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, reviewserrors.ErrNotFound
}

func (m *mockReviewRepository) FindByTour(ctx context.Context, tourID string) ([]*model.Review, error) {
	if m.findByTourFn != nil {
		return m.findByTourFn(ctx, tourID)
	}
	return nil, nil
}

func (m *mockReviewRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockReviewRepository) AverageRating(ctx context.Context, tourID string) (float64, error) {
	if m.averageRatingFn != nil {
		return m.averageRatingFn(ctx, tourID)
	}
	return 0, nil
}

type stubTourCatalog struct {
	tour       *model.Tour
	getErr     error
	setErr     error
	ratings    []float64
	ratedTours []string
}

func (s *stubTourCatalog) GetByID(ctx context.Context, id string) (*model.Tour, error) {
	return s.tour, s.getErr
}

func (s *stubTourCatalog) SetRating(ctx context.Context, id string, rating float64) error {
	s.ratedTours = append(s.ratedTours, id)
	s.ratings = append(s.ratings, rating)
	return s.setErr
}

func newReviewService(repo *mockReviewRepository, tours TourChecker) ReviewService {
	cfg := &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
	return NewReviewService(repo, tours, cfg)
}

func validReview() *model.Review {
	return &model.Review{
		TourID:  reviewTourID,
		UserID:  reviewUserID,
		Author:  "Asha Nair",
		Rating:  5,
		Comment: "Wonderful backwater cruise.",
	}
}

func TestCreateReviewRefreshesTourRating(t *testing.T) {
	repo := &mockReviewRepository{
		averageRatingFn: func(ctx context.Context, tourID string) (float64, error) {
			return 4.5, nil
		},
	}
	tours := &stubTourCatalog{tour: &model.Tour{ID: reviewTourID}}
	svc := newReviewService(repo, tours)

	if err := svc.Create(context.Background(), validReview()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if len(tours.ratings) != 1 {
		t.Fatalf("expected one rating update, got %d", len(tours.ratings))
	}
	if tours.ratedTours[0] != reviewTourID || tours.ratings[0] != 4.5 {
		t.Errorf("rating update = (%s, %v), want (%s, 4.5)", tours.ratedTours[0], tours.ratings[0], reviewTourID)
	}
}

func TestCreateReviewUnknownTour(t *testing.T) {
	repo := &mockReviewRepository{}
	tours := &stubTourCatalog{getErr: apperrors.NotFoundWithID("Tour", reviewTourID)}
	svc := newReviewService(repo, tours)

	err := svc.Create(context.Background(), validReview())
	if appErr := apperrors.AsAppError(err); appErr.StatusCode() != 404 {
		t.Errorf("status = %d, want 404", appErr.StatusCode())
	}
	if repo.created != nil {
		t.Error("a review for a missing tour must not be stored")
	}
	if len(tours.ratings) != 0 {
		t.Error("a failed create must not touch the tour rating")
	}
}

func TestCreateReviewSanitizesAndValidates(t *testing.T) {
	repo := &mockReviewRepository{}
	tours := &stubTourCatalog{tour: &model.Tour{ID: reviewTourID}}
	svc := newReviewService(repo, tours)

	review := validReview()
	review.Author = "  Asha   Nair  "

	if err := svc.Create(context.Background(), review); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if review.Author != "Asha Nair" {
		t.Errorf("Author = %q, want collapsed whitespace", review.Author)
	}

	bad := validReview()
	bad.Rating = 6
	if err := svc.Create(context.Background(), bad); err == nil {
		t.Fatal("expected an out-of-range rating to be rejected")
	}
}

func TestDeleteReviewRefreshesTourRating(t *testing.T) {
	existing := validReview()
	existing.ID = reviewID
	repo := &mockReviewRepository{
		findByIDFn: func(ctx context.Context, id string) (*model.Review, error) {
			return existing, nil
		},
		averageRatingFn: func(ctx context.Context, tourID string) (float64, error) {
			return 3.0, nil
		},
	}
	tours := &stubTourCatalog{tour: &model.Tour{ID: reviewTourID}}
	svc := newReviewService(repo, tours)

	if err := svc.Delete(context.Background(), reviewUserID, model.RoleUser, reviewID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if len(tours.ratings) != 1 || tours.ratings[0] != 3.0 {
		t.Errorf("rating updates = %v, want one update of 3.0", tours.ratings)
	}
}

func TestDeleteReviewOwnerOnly(t *testing.T) {
	existing := validReview()
	existing.ID = reviewID
	repo := &mockReviewRepository{
		findByIDFn: func(ctx context.Context, id string) (*model.Review, error) {
			return existing, nil
		},
	}
	tours := &stubTourCatalog{tour: &model.Tour{ID: reviewTourID}}
	svc := newReviewService(repo, tours)

	err := svc.Delete(context.Background(), "507f1f77bcf86cd799439002", model.RoleUser, reviewID)
	if appErr := apperrors.AsAppError(err); appErr.StatusCode() != 403 {
		t.Errorf("status = %d, want 403", appErr.StatusCode())
	}

	if err := svc.Delete(context.Background(), "507f1f77bcf86cd799439002", model.RoleAdmin, reviewID); err != nil {
		t.Errorf("admin delete: %v", err)
	}
}

func TestCreateReviewToleratesRatingFailure(t *testing.T) {
	repo := &mockReviewRepository{
		averageRatingFn: func(ctx context.Context, tourID string) (float64, error) {
			return 0, context.DeadlineExceeded
		},
	}
	tours := &stubTourCatalog{tour: &model.Tour{ID: reviewTourID}}
	svc := newReviewService(repo, tours)

	if err := svc.Create(context.Background(), validReview()); err != nil {
		t.Fatalf("a rating refresh failure must not fail the create: %v", err)
	}
	if len(tours.ratings) != 0 {
		t.Error("a failed aggregate must not be stored")
	}
}
