package reviewRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pijatku/database"
	"pijatku/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type MongoReviewRepo struct {
	coll *mongo.Collection
}

// NewMongoReviewRepo wires the "reviews" collection. The unique bookingId index
// is what enforces one review per booking.
func NewMongoReviewRepo(db *mongo.Database, logger *zap.Logger) ReviewRepository {
	repo := &MongoReviewRepo{coll: db.Collection("reviews")}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "bookingId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "therapistId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		logger.Warn("review indexes not created", zap.Error(err))
	}
	return repo
}

func (m *MongoReviewRepo) Create(ctx context.Context, r *models.Review) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := m.coll.InsertOne(ctx, r); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("review for booking %s: %w", r.BookingID, database.ErrDuplicate)
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (m *MongoReviewRepo) GetByBooking(ctx context.Context, bookingID string) (*models.Review, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var r models.Review
	if err := m.coll.FindOne(ctx, bson.M{"bookingId": bookingID}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("review for booking %s: %w", bookingID, database.ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching review: %w", err)
	}
	return &r, nil
}

func (m *MongoReviewRepo) ListByTherapist(ctx context.Context, therapistID string) ([]models.Review, error) {
	return m.find(ctx, bson.M{"therapistId": therapistID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (m *MongoReviewRepo) ListAll(ctx context.Context) ([]models.Review, error) {
	return m.find(ctx, bson.M{}, options.Find())
}

func (m *MongoReviewRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Review, error) {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	cursor, err := m.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching reviews: %w", err)
	}
	defer cursor.Close(ctx)
	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("error decoding reviews: %w", err)
	}
	return reviews, nil
}
