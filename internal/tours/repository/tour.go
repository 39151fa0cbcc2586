package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	tourserrors "travelbook/internal/tours/errors"
	"travelbook/pkg/config"
	"travelbook/pkg/model"
)

const (
	CollectionName = "Tours"
)

type mongoTourRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

type TourRepository interface {
	Create(ctx context.Context, tour *model.Tour) error
	FindByID(ctx context.Context, id string) (*model.Tour, error)
	Find(ctx context.Context, query *model.TourQuery) ([]*model.Tour, error)
	Count(ctx context.Context, query *model.TourQuery) (int64, error)
	Update(ctx context.Context, id string, tour *model.Tour) (*mongo.UpdateResult, error)
	UpdateRating(ctx context.Context, id string, rating float64) error
	Delete(ctx context.Context, id string) error
}

func NewMongoTourRepository(cfg *config.Config) TourRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTourRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout bounds a single repository call. SessionContexts pass
// through untouched so transactions keep their own deadline.
func (r *mongoTourRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoTourRepository) Create(ctx context.Context, tour *model.Tour) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	tour.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, tour)
	if err != nil {
		return fmt.Errorf("failed to create tour: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		tour.ID = oid.Hex()
	}
	return nil
}

func (r *mongoTourRepository) FindByID(ctx context.Context, id string) (*model.Tour, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", tourserrors.ErrInvalidID, id)
	}

	var tour model.Tour
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&tour)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, tourserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tour: %w", err)
	}

	return &tour, nil
}

func buildTourFilter(query *model.TourQuery) bson.M {
	filter := bson.M{}
	if query.Search != "" {
		filter["$or"] = bson.A{
			bson.M{"title": bson.M{"$regex": query.Search, "$options": "i"}},
			bson.M{"location": bson.M{"$regex": query.Search, "$options": "i"}},
		}
	}
	if query.Type != "" {
		filter["type"] = query.Type
	}
	if query.MaxPrice > 0 {
		filter["price"] = bson.M{"$lte": query.MaxPrice}
	}
	return filter
}

func tourSort(sortBy string) bson.D {
	switch sortBy {
	case "price_asc":
		return bson.D{{Key: "price", Value: 1}}
	case "price_desc":
		return bson.D{{Key: "price", Value: -1}}
	case "rating":
		return bson.D{{Key: "rating", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}

func (r *mongoTourRepository) Find(ctx context.Context, query *model.TourQuery) ([]*model.Tour, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(tourSort(query.SortBy)).
		SetLimit(int64(query.Limit)).
		SetSkip(int64((query.Page - 1) * query.Limit))

	cursor, err := r.collection.Find(ctx, buildTourFilter(query), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find tours: %w", err)
	}
	defer cursor.Close(ctx)

	tours := []*model.Tour{}
	if err = cursor.All(ctx, &tours); err != nil {
		return nil, fmt.Errorf("failed to decode tours: %w", err)
	}

	return tours, nil
}

func (r *mongoTourRepository) Count(ctx context.Context, query *model.TourQuery) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildTourFilter(query))
	if err != nil {
		return 0, fmt.Errorf("failed to count tours: %w", err)
	}
	return count, nil
}

func (r *mongoTourRepository) Update(ctx context.Context, id string, tour *model.Tour) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", tourserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"title":          tour.Title,
			"description":    tour.Description,
			"location":       tour.Location,
			"type":           tour.Type,
			"price":          tour.Price,
			"max_group_size": tour.MaxGroupSize,
			"image_url":      tour.ImageURL,
			"rating":         tour.Rating,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update tour: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, tourserrors.ErrNotFound
	}

	return result, nil
}

func (r *mongoTourRepository) UpdateRating(ctx context.Context, id string, rating float64) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", tourserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"rating": rating}},
	)
	if err != nil {
		return fmt.Errorf("failed to update tour rating: %w", err)
	}
	if result.MatchedCount == 0 {
		return tourserrors.ErrNotFound
	}

	return nil
}

func (r *mongoTourRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", tourserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete tour: %w", err)
	}
	if result.DeletedCount == 0 {
		return tourserrors.ErrNotFound
	}

	return nil
}
