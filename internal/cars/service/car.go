package service

import (
	"context"
	"errors"
	"sync"

	carserrors "travelbook/internal/cars/errors"
	"travelbook/internal/cars/repository"
	"travelbook/internal/cars/validator"
	"travelbook/pkg/config"
	apperrors "travelbook/pkg/errors"
	"travelbook/pkg/model"
	"travelbook/pkg/sanitizer"
)

type CarService interface {
	Create(ctx context.Context, car *model.Car) error
	GetByID(ctx context.Context, id string) (*model.Car, error)
	List(ctx context.Context, query *model.CarQuery) ([]*model.Car, int64, error)
	Update(ctx context.Context, id string, updates *model.CarUpdate) (*model.Car, error)
	Delete(ctx context.Context, id string) error
}

type carService struct {
	repo      repository.CarRepository
	validator *validator.CarValidator
	cfg       *config.Config
}

func NewCarService(repo repository.CarRepository, validator *validator.CarValidator, cfg *config.Config) CarService {
	return &carService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *carService) Create(ctx context.Context, car *model.Car) error {
	s.sanitize(car)
	if err := s.validate(car); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, car); err != nil {
		s.cfg.Log.Error("Failed to create car", "error", err)
		return apperrors.Internal("Failed to create car", err)
	}

	s.cfg.Log.Info("Car created successfully", "id", car.ID, "name", car.Name)
	return nil
}

func (s *carService) GetByID(ctx context.Context, id string) (*model.Car, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Car ID cannot be empty")
	}

	car, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, carserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Car", id)
		}
		if errors.Is(err, carserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid car ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve car", err)
	}

	return car, nil
}

func (s *carService) List(ctx context.Context, query *model.CarQuery) ([]*model.Car, int64, error) {
	query.Page = config.NormalizePage(query.Page)
	query.Limit = config.NormalizePaginationLimit(query.Limit)

	var count int64
	var cars []*model.Car
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, query)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count cars", "error", errCount)
			errCount = apperrors.Internal("Failed to count cars", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		cars, errFind = s.repo.Find(ctx, query)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list cars", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve cars", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return cars, count, nil
}

func (s *carService) Update(ctx context.Context, id string, updates *model.CarUpdate) (*model.Car, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Car ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Car update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, carserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Car", id)
		}
		s.cfg.Log.Error("Failed to update car", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update car", err)
	}

	s.cfg.Log.Info("Car updated successfully", "id", id)
	return merged, nil
}

func (s *carService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Car ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, carserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Car", id)
		}
		if errors.Is(err, carserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid car ID format")
		}
		return apperrors.Internal("Failed to delete car", err)
	}

	s.cfg.Log.Info("Car deleted successfully", "id", id)
	return nil
}

func (s *carService) sanitize(c *model.Car) {
	c.Name = sanitizer.TrimAndNormalize(c.Name)
	c.Brand = sanitizer.TrimAndNormalize(c.Brand)
}

func (s *carService) mergeUpdates(existing *model.Car, updates *model.CarUpdate) *model.Car {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Brand != "" {
		merged.Brand = updates.Brand
	}
	if updates.CarType != "" {
		merged.CarType = updates.CarType
	}
	if updates.EngineType != "" {
		merged.EngineType = updates.EngineType
	}
	if updates.SeatCapacity != nil {
		merged.SeatCapacity = *updates.SeatCapacity
	}
	if updates.Price != nil {
		merged.Price = *updates.Price
	}
	if updates.Available != nil {
		merged.Available = *updates.Available
	}
	if updates.ImageURL != "" {
		merged.ImageURL = updates.ImageURL
	}

	return &merged
}

func (s *carService) validate(car *model.Car) error {
	if err := s.validator.Validate(car); err != nil {
		s.cfg.Log.Warn("Car validation failed", "error", err)
		return apperrors.Validation("Car validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}
