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

	offerserrors "travelbook/internal/offers/errors"
	"travelbook/pkg/config"
	"travelbook/pkg/model"
)

const (
	CollectionName = "Offers"
)

type mongoOfferRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

type OfferRepository interface {
	Create(ctx context.Context, offer *model.Offer) error
	FindByID(ctx context.Context, id string) (*model.Offer, error)
	Find(ctx context.Context, query *model.OfferQuery) ([]*model.Offer, error)
	Count(ctx context.Context, query *model.OfferQuery) (int64, error)
	Update(ctx context.Context, id string, offer *model.Offer) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
}

func NewMongoOfferRepository(cfg *config.Config) OfferRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoOfferRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoOfferRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoOfferRepository) Create(ctx context.Context, offer *model.Offer) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	offer.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, offer)
	if err != nil {
		return fmt.Errorf("failed to create offer: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		offer.ID = oid.Hex()
	}
	return nil
}

func (r *mongoOfferRepository) FindByID(ctx context.Context, id string) (*model.Offer, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", offerserrors.ErrInvalidID, id)
	}

	var offer model.Offer
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&offer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, offerserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find offer: %w", err)
	}

	return &offer, nil
}

func buildOfferFilter(query *model.OfferQuery) bson.M {
	filter := bson.M{}
	if query.Search != "" {
		filter["title"] = bson.M{"$regex": query.Search, "$options": "i"}
	}
	return filter
}

func (r *mongoOfferRepository) Find(ctx context.Context, query *model.OfferQuery) ([]*model.Offer, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(query.Limit)).
		SetSkip(int64((query.Page - 1) * query.Limit))

	cursor, err := r.collection.Find(ctx, buildOfferFilter(query), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find offers: %w", err)
	}
	defer cursor.Close(ctx)

	offers := []*model.Offer{}
	if err = cursor.All(ctx, &offers); err != nil {
		return nil, fmt.Errorf("failed to decode offers: %w", err)
	}

	return offers, nil
}

func (r *mongoOfferRepository) Count(ctx context.Context, query *model.OfferQuery) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildOfferFilter(query))
	if err != nil {
		return 0, fmt.Errorf("failed to count offers: %w", err)
	}
	return count, nil
}

func (r *mongoOfferRepository) Update(ctx context.Context, id string, offer *model.Offer) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", offerserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"title":          offer.Title,
			"description":    offer.Description,
			"offer_price":    offer.OfferPrice,
			"original_price": offer.OriginalPrice,
			"image_url":      offer.ImageURL,
			"expires_at":     offer.ExpiresAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update offer: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, offerserrors.ErrNotFound
	}

	return result, nil
}

func (r *mongoOfferRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", offerserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete offer: %w", err)
	}
	if result.DeletedCount == 0 {
		return offerserrors.ErrNotFound
	}

	return nil
}
