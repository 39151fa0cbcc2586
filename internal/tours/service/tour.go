package service

import (
	"context"
	"errors"
	"sync"

	tourserrors "travelbook/internal/tours/errors"
	"travelbook/internal/tours/repository"
	"travelbook/internal/tours/validator"
	"travelbook/pkg/config"
	apperrors "travelbook/pkg/errors"
	"travelbook/pkg/model"
	"travelbook/pkg/sanitizer"
)

type TourService interface {
	Create(ctx context.Context, tour *model.Tour) error
	GetByID(ctx context.Context, id string) (*model.Tour, error)
	List(ctx context.Context, query *model.TourQuery) ([]*model.Tour, int64, error)
	Update(ctx context.Context, id string, updates *model.TourUpdate) (*model.Tour, error)
	SetRating(ctx context.Context, id string, rating float64) error
	Delete(ctx context.Context, id string) error
}

type tourService struct {
	repo      repository.TourRepository
	validator *validator.TourValidator
	cfg       *config.Config
}

func NewTourService(repo repository.TourRepository, validator *validator.TourValidator, cfg *config.Config) TourService {
	return &tourService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *tourService) Create(ctx context.Context, tour *model.Tour) error {
	s.sanitize(tour)
	if err := s.validate(tour); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, tour); err != nil {
		s.cfg.Log.Error("Failed to create tour", "error", err)
		return apperrors.Internal("Failed to create tour", err)
	}

	s.cfg.Log.Info("Tour created successfully", "id", tour.ID, "title", tour.Title)
	return nil
}

func (s *tourService) GetByID(ctx context.Context, id string) (*model.Tour, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Tour ID cannot be empty")
	}

	tour, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, tourserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Tour", id)
		}
		if errors.Is(err, tourserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid tour ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve tour", err)
	}

	return tour, nil
}

func (s *tourService) List(ctx context.Context, query *model.TourQuery) ([]*model.Tour, int64, error) {
	query.Page = config.NormalizePage(query.Page)
	query.Limit = config.NormalizePaginationLimit(query.Limit)

	var count int64
	var tours []*model.Tour
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, query)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count tours", "error", errCount)
			errCount = apperrors.Internal("Failed to count tours", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		tours, errFind = s.repo.Find(ctx, query)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list tours", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve tours", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return tours, count, nil
}

func (s *tourService) Update(ctx context.Context, id string, updates *model.TourUpdate) (*model.Tour, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Tour ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Tour update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, tourserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Tour", id)
		}
		s.cfg.Log.Error("Failed to update tour", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update tour", err)
	}

	s.cfg.Log.Info("Tour updated successfully", "id", id)
	return merged, nil
}

// SetRating stores the aggregate review rating on the tour. Reviews
// call this after every create and delete.
func (s *tourService) SetRating(ctx context.Context, id string, rating float64) error {
	if id == "" {
		return apperrors.InvalidInput("Tour ID cannot be empty")
	}

	if err := s.repo.UpdateRating(ctx, id, rating); err != nil {
		if errors.Is(err, tourserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Tour", id)
		}
		if errors.Is(err, tourserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid tour ID format")
		}
		s.cfg.Log.Error("Failed to update tour rating", "id", id, "error", err)
		return apperrors.Internal("Failed to update tour rating", err)
	}

	return nil
}

func (s *tourService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Tour ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, tourserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Tour", id)
		}
		if errors.Is(err, tourserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid tour ID format")
		}
		return apperrors.Internal("Failed to delete tour", err)
	}

	s.cfg.Log.Info("Tour deleted successfully", "id", id)
	return nil
}

func (s *tourService) sanitize(t *model.Tour) {
	t.Title = sanitizer.TrimAndNormalize(t.Title)
	t.Location = sanitizer.NormalizeLocation(t.Location)
	t.Description = sanitizer.NormalizeFreeText(t.Description)
}

func (s *tourService) mergeUpdates(existing *model.Tour, updates *model.TourUpdate) *model.Tour {
	merged := *existing

	if updates.Title != "" {
		merged.Title = updates.Title
	}
	if updates.Description != "" {
		merged.Description = updates.Description
	}
	if updates.Location != "" {
		merged.Location = updates.Location
	}
	if updates.Type != "" {
		merged.Type = updates.Type
	}
	if updates.Price != nil {
		merged.Price = *updates.Price
	}
	if updates.MaxGroupSize != nil {
		merged.MaxGroupSize = *updates.MaxGroupSize
	}
	if updates.ImageURL != "" {
		merged.ImageURL = updates.ImageURL
	}
	if updates.Rating != nil {
		merged.Rating = *updates.Rating
	}

	return &merged
}

func (s *tourService) validate(tour *model.Tour) error {
	if err := s.validator.Validate(tour); err != nil {
		s.cfg.Log.Warn("Tour validation failed", "error", err)
		return apperrors.Validation("Tour validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}
