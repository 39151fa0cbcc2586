package service

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	tourserrors "travelbook/internal/tours/errors"
	"travelbook/internal/tours/validator"
	"travelbook/pkg/config"
	apperrors "travelbook/pkg/errors"
	"travelbook/pkg/logger"
	"travelbook/pkg/model"
)

type mockTourRepository struct {
	createFn       func(ctx context.Context, tour *model.Tour) error
	findByIDFn     func(ctx context.Context, id string) (*model.Tour, error)
	findFn         func(ctx context.Context, query *model.TourQuery) ([]*model.Tour, error)
	countFn        func(ctx context.Context, query *model.TourQuery) (int64, error)
	updateFn       func(ctx context.Context, id string, tour *model.Tour) (*mongo.UpdateResult, error)
	updateRatingFn func(ctx context.Context, id string, rating float64) error
	deleteFn       func(ctx context.Context, id string) error
	created        *model.Tour
}

func (m *mockTourRepository) Create(ctx context.Context, tour *model.Tour) error {
	m.created = tour
	if m.createFn != nil {
		return m.createFn(ctx, tour)
	}
	return nil
}

func (m *mockTourRepository) FindByID(ctx context.Context, id string) (*model.Tour, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, tourserrors.ErrNotFound
}

func (m *mockTourRepository) Find(ctx context.Context, query *model.TourQuery) ([]*model.Tour, error) {
	if m.findFn != nil {
		return m.findFn(ctx, query)
	}
	return nil, nil
}

func (m *mockTourRepository) Count(ctx context.Context, query *model.TourQuery) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx, query)
	}
	return 0, nil
}

func (m *mockTourRepository) Update(ctx context.Context, id string, tour *model.Tour) (*mongo.UpdateResult, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, tour)
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockTourRepository) UpdateRating(ctx context.Context, id string, rating float64) error {
	if m.updateRatingFn != nil {
		return m.updateRatingFn(ctx, id, rating)
	}
	return nil
}

func (m *mockTourRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func newTourService(repo *mockTourRepository) TourService {
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	cfg := &config.Config{Log: log}
	return NewTourService(repo, validator.NewTourValidator(log), cfg)
}

func validTour() *model.Tour {
	return &model.Tour{
		Title:        "Kerala Backwaters",
		Description:  "Houseboat through the canals of Alleppey.",
		Location:     "Alleppey",
		Type:         "cultural",
		Price:        5000,
		MaxGroupSize: 12,
	}
}

func TestCreateSanitizesFields(t *testing.T) {
	repo := &mockTourRepository{}
	svc := newTourService(repo)

	tour := validTour()
	tour.Title = "  Kerala   Backwaters  "
	tour.Location = " Alleppey  Beach "

	if err := svc.Create(context.Background(), tour); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if repo.created.Title != "Kerala Backwaters" {
		t.Errorf("Title = %q, want whitespace collapsed", repo.created.Title)
	}
	if repo.created.Location != "Alleppey Beach" {
		t.Errorf("Location = %q, want whitespace collapsed", repo.created.Location)
	}
}

func TestCreateRejectsInvalidTour(t *testing.T) {
	repo := &mockTourRepository{}
	svc := newTourService(repo)

	tour := validTour()
	tour.Type = "luxury"

	err := svc.Create(context.Background(), tour)
	if err == nil {
		t.Fatal("expected an unknown tour type to be rejected")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != 422 {
		t.Errorf("status = %d, want 422", appErr.StatusCode())
	}
}

func TestListRunsCountAndFindTogether(t *testing.T) {
	repo := &mockTourRepository{
		countFn: func(ctx context.Context, query *model.TourQuery) (int64, error) {
			return 42, nil
		},
		findFn: func(ctx context.Context, query *model.TourQuery) ([]*model.Tour, error) {
			if query.Page != 1 {
				t.Errorf("Page = %d, want normalized to 1", query.Page)
			}
			if query.Limit < 1 {
				t.Errorf("Limit = %d, want a positive default", query.Limit)
			}
			return []*model.Tour{{ID: "t1"}, {ID: "t2"}}, nil
		},
	}
	svc := newTourService(repo)

	tours, total, err := svc.List(context.Background(), &model.TourQuery{Page: -3, Limit: 0})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 42 {
		t.Errorf("total = %d, want 42", total)
	}
	if len(tours) != 2 {
		t.Errorf("len(tours) = %d, want 2", len(tours))
	}
}

func TestUpdateMergesOntoExisting(t *testing.T) {
	existing := validTour()
	existing.ID = "507f1f77bcf86cd799439011"

	var written *model.Tour
	repo := &mockTourRepository{
		findByIDFn: func(ctx context.Context, id string) (*model.Tour, error) {
			return existing, nil
		},
		updateFn: func(ctx context.Context, id string, tour *model.Tour) (*mongo.UpdateResult, error) {
			written = tour
			return &mongo.UpdateResult{MatchedCount: 1}, nil
		},
	}
	svc := newTourService(repo)

	newPrice := int64(6500)
	updated, err := svc.Update(context.Background(), existing.ID, &model.TourUpdate{
		Title: "Kerala Backwaters Deluxe",
		Price: &newPrice,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Title != "Kerala Backwaters Deluxe" || updated.Price != 6500 {
		t.Errorf("updated = %+v", updated)
	}
	if updated.Location != "Alleppey" || updated.Type != "cultural" {
		t.Error("untouched fields must survive the merge")
	}
	if written == nil || written.Price != 6500 {
		t.Error("merged tour should be written to the repository")
	}
	if existing.Title != "Kerala Backwaters" {
		t.Error("merge must not mutate the loaded record")
	}
}

func TestUpdateMissingTour(t *testing.T) {
	svc := newTourService(&mockTourRepository{})

	_, err := svc.Update(context.Background(), "507f1f77bcf86cd799439011", &model.TourUpdate{Title: "X1"})
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != 404 {
		t.Fatalf("status = %d, want 404", appErr.StatusCode())
	}
}

func TestDeleteMapsSentinelErrors(t *testing.T) {
	tests := []struct {
		name       string
		repoErr    error
		wantStatus int
	}{
		{"not found", tourserrors.ErrNotFound, 404},
		{"invalid id", tourserrors.ErrInvalidID, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockTourRepository{
				deleteFn: func(ctx context.Context, id string) error {
					return tt.repoErr
				},
			}
			svc := newTourService(repo)

			err := svc.Delete(context.Background(), "507f1f77bcf86cd799439011")
			appErr := apperrors.AsAppError(err)
			if appErr.StatusCode() != tt.wantStatus {
				t.Errorf("status = %d, want %d", appErr.StatusCode(), tt.wantStatus)
			}
		})
	}
}

func TestSetRatingStoresAggregate(t *testing.T) {
	var gotID string
	var gotRating float64
	repo := &mockTourRepository{
		updateRatingFn: func(ctx context.Context, id string, rating float64) error {
			gotID, gotRating = id, rating
			return nil
		},
	}
	svc := newTourService(repo)

	if err := svc.SetRating(context.Background(), "507f1f77bcf86cd799439011", 4.5); err != nil {
		t.Fatalf("SetRating: %v", err)
	}
	if gotID != "507f1f77bcf86cd799439011" || gotRating != 4.5 {
		t.Errorf("UpdateRating called with (%s, %v)", gotID, gotRating)
	}
}

func TestSetRatingMapsSentinelErrors(t *testing.T) {
	repo := &mockTourRepository{
		updateRatingFn: func(ctx context.Context, id string, rating float64) error {
			return tourserrors.ErrNotFound
		},
	}
	svc := newTourService(repo)

	err := svc.SetRating(context.Background(), "507f1f77bcf86cd799439011", 4.5)
	if appErr := apperrors.AsAppError(err); appErr.StatusCode() != 404 {
		t.Errorf("status = %d, want 404", appErr.StatusCode())
	}
}

func TestGetByIDEmptyID(t *testing.T) {
	svc := newTourService(&mockTourRepository{})
	if _, err := svc.GetByID(context.Background(), ""); err == nil {
		t.Fatal("expected an empty ID to be rejected")
	}
}
