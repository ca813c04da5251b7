package payoutRepo

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

type MongoPayoutRepo struct {
	coll *mongo.Collection
}

func NewMongoPayoutRepo(db *mongo.Database, logger *zap.Logger) PayoutRepository {
	repo := &MongoPayoutRepo{coll: db.Collection("payouts")}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "therapistId", Value: 1}, {Key: "requestedAt", Value: -1}}},
	})
	if err != nil {
		logger.Warn("payout indexes not created", zap.Error(err))
	}
	return repo
}

func (r *MongoPayoutRepo) Create(ctx context.Context, p *models.PayoutRequest) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("payout %s: %w", p.ID, database.ErrDuplicate)
		}
		return fmt.Errorf("failed to create payout request: %w", err)
	}
	return nil
}

func (r *MongoPayoutRepo) GetByID(ctx context.Context, id string) (*models.PayoutRequest, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var p models.PayoutRequest
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("payout %s: %w", id, database.ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching payout %s: %w", id, err)
	}
	return &p, nil
}

func (r *MongoPayoutRepo) ListByTherapist(ctx context.Context, therapistID string) ([]models.PayoutRequest, error) {
	return r.find(ctx, bson.M{"therapistId": therapistID}, options.Find().SetSort(bson.D{{Key: "requestedAt", Value: -1}}))
}

func (r *MongoPayoutRepo) ListAll(ctx context.Context) ([]models.PayoutRequest, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "requestedAt", Value: 1}}))
}

func (r *MongoPayoutRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.PayoutRequest, error) {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching payouts: %w", err)
	}
	defer cursor.Close(ctx)
	out := []models.PayoutRequest{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("error decoding payouts: %w", err)
	}
	return out, nil
}

func (r *MongoPayoutRepo) UpdateStatus(ctx context.Context, id string, expected, next models.PayoutStatus, processedAt *time.Time) (*models.PayoutRequest, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	set := bson.M{"status": next}
	if processedAt != nil {
		set["processedAt"] = *processedAt
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.PayoutRequest
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id, "status": expected}, bson.M{"$set": set}, opts).Decode(&p)
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to update payout %s: %w", id, err)
	}
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, fmt.Errorf("payout %s left %s: %w", id, expected, database.ErrConflict)
}
