package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	reviewserrors "travelbook/internal/reviews/errors"
	"travelbook/internal/reviews/repository"
	"travelbook/pkg/config"
	apperrors "travelbook/pkg/errors"
	"travelbook/pkg/model"
	"travelbook/pkg/sanitizer"
)

type ReviewService interface {
	Create(ctx context.Context, review *model.Review) error
	ListByTour(ctx context.Context, tourID string) ([]*model.Review, error)
	Delete(ctx context.Context, userID, role, id string) error
}

// TourChecker confirms the reviewed tour exists before accepting the
// review and receives the recomputed aggregate rating after every
// create and delete.
type TourChecker interface {
	GetByID(ctx context.Context, id string) (*model.Tour, error)
	SetRating(ctx context.Context, id string, rating float64) error
}

type reviewService struct {
	repo     repository.ReviewRepository
	tours    TourChecker
	validate *validator.Validate
	cfg      *config.Config
}

func NewReviewService(repo repository.ReviewRepository, tours TourChecker, cfg *config.Config) ReviewService {
	return &reviewService{
		repo:     repo,
		tours:    tours,
		validate: validator.New(),
		cfg:      cfg,
	}
}

func (s *reviewService) Create(ctx context.Context, review *model.Review) error {
	review.Author = sanitizer.NormalizeName(review.Author)
	review.Comment = sanitizer.NormalizeFreeText(review.Comment)

	if err := s.validate.Struct(review); err != nil {
		s.cfg.Log.Warn("Review validation failed", "error", err)
		return apperrors.Validation("Review validation failed", map[string]any{"error": err.Error()})
	}

	if _, err := s.tours.GetByID(ctx, review.TourID); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, review); err != nil {
		s.cfg.Log.Error("Failed to create review", "error", err)
		return apperrors.Internal("Failed to create review", err)
	}

	s.refreshTourRating(ctx, review.TourID)

	s.cfg.Log.Info("Review created", "id", review.ID, "tour_id", review.TourID, "rating", review.Rating)
	return nil
}

// refreshTourRating pushes the recomputed average onto the tour. A
// stale rating is tolerable, so failures only log.
func (s *reviewService) refreshTourRating(ctx context.Context, tourID string) {
	avg, err := s.repo.AverageRating(ctx, tourID)
	if err != nil {
		s.cfg.Log.Warn("Failed to recompute tour rating", "tour_id", tourID, "error", err)
		return
	}
	if err := s.tours.SetRating(ctx, tourID, avg); err != nil {
		s.cfg.Log.Warn("Failed to store tour rating", "tour_id", tourID, "error", err)
	}
}

func (s *reviewService) ListByTour(ctx context.Context, tourID string) ([]*model.Review, error) {
	if tourID == "" {
		return nil, apperrors.InvalidInput("Tour ID cannot be empty")
	}

	reviews, err := s.repo.FindByTour(ctx, tourID)
	if err != nil {
		s.cfg.Log.Error("Failed to list reviews", "tour_id", tourID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve reviews", err)
	}

	return reviews, nil
}

// Delete removes a review. The author can delete their own, admins can
// delete any.
func (s *reviewService) Delete(ctx context.Context, userID, role, id string) error {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reviewserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Review", id)
		}
		if errors.Is(err, reviewserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid review ID format")
		}
		return apperrors.Internal("Failed to retrieve review", err)
	}

	if review.UserID != userID && role != model.RoleAdmin {
		return apperrors.Forbidden("You can only delete your own reviews")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, reviewserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Review", id)
		}
		return apperrors.Internal("Failed to delete review", err)
	}

	s.refreshTourRating(ctx, review.TourID)

	s.cfg.Log.Info("Review deleted", "id", id, "user_id", userID)
	return nil
}
