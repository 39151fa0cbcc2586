package service

import (
	"context"
	"errors"
	"sync"

	offerserrors "travelbook/internal/offers/errors"
	"travelbook/internal/offers/repository"
	"travelbook/internal/offers/validator"
	"travelbook/pkg/config"
	apperrors "travelbook/pkg/errors"
	"travelbook/pkg/model"
	"travelbook/pkg/sanitizer"
)

type OfferService interface {
	Create(ctx context.Context, offer *model.Offer) error
	GetByID(ctx context.Context, id string) (*model.Offer, error)
	List(ctx context.Context, query *model.OfferQuery) ([]*model.Offer, int64, error)
	Update(ctx context.Context, id string, updates *model.OfferUpdate) (*model.Offer, error)
	Delete(ctx context.Context, id string) error
}

type offerService struct {
	repo      repository.OfferRepository
	validator *validator.OfferValidator
	cfg       *config.Config
}

func NewOfferService(repo repository.OfferRepository, validator *validator.OfferValidator, cfg *config.Config) OfferService {
	return &offerService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *offerService) Create(ctx context.Context, offer *model.Offer) error {
	s.sanitize(offer)
	if err := s.validate(offer); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, offer); err != nil {
		s.cfg.Log.Error("Failed to create offer", "error", err)
		return apperrors.Internal("Failed to create offer", err)
	}

	s.cfg.Log.Info("Offer created successfully", "id", offer.ID, "title", offer.Title)
	return nil
}

func (s *offerService) GetByID(ctx context.Context, id string) (*model.Offer, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Offer ID cannot be empty")
	}

	offer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, offerserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Offer", id)
		}
		if errors.Is(err, offerserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid offer ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve offer", err)
	}

	return offer, nil
}

func (s *offerService) List(ctx context.Context, query *model.OfferQuery) ([]*model.Offer, int64, error) {
	query.Page = config.NormalizePage(query.Page)
	query.Limit = config.NormalizePaginationLimit(query.Limit)

	var count int64
	var offers []*model.Offer
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, query)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count offers", "error", errCount)
			errCount = apperrors.Internal("Failed to count offers", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		offers, errFind = s.repo.Find(ctx, query)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list offers", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve offers", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return offers, count, nil
}

func (s *offerService) Update(ctx context.Context, id string, updates *model.OfferUpdate) (*model.Offer, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Offer ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Offer update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, offerserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Offer", id)
		}
		s.cfg.Log.Error("Failed to update offer", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update offer", err)
	}

	s.cfg.Log.Info("Offer updated successfully", "id", id)
	return merged, nil
}

func (s *offerService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Offer ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, offerserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Offer", id)
		}
		if errors.Is(err, offerserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid offer ID format")
		}
		return apperrors.Internal("Failed to delete offer", err)
	}

	s.cfg.Log.Info("Offer deleted successfully", "id", id)
	return nil
}

func (s *offerService) sanitize(o *model.Offer) {
	o.Title = sanitizer.TrimAndNormalize(o.Title)
	o.Description = sanitizer.NormalizeFreeText(o.Description)
}

func (s *offerService) mergeUpdates(existing *model.Offer, updates *model.OfferUpdate) *model.Offer {
	merged := *existing

	if updates.Title != "" {
		merged.Title = updates.Title
	}
	if updates.Description != "" {
		merged.Description = updates.Description
	}
	if updates.OfferPrice != nil {
		merged.OfferPrice = *updates.OfferPrice
	}
	if updates.OriginalPrice != nil {
		merged.OriginalPrice = *updates.OriginalPrice
	}
	if updates.ImageURL != "" {
		merged.ImageURL = updates.ImageURL
	}
	if updates.ExpiresAt != nil {
		merged.ExpiresAt = *updates.ExpiresAt
	}

	return &merged
}

func (s *offerService) validate(offer *model.Offer) error {
	if err := s.validator.Validate(offer); err != nil {
		s.cfg.Log.Warn("Offer validation failed", "error", err)
		return apperrors.Validation("Offer validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}
