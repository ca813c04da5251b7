package paymentRepo

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

// MongoPaymentRepo implements PaymentRepository using MongoDB.
type MongoPaymentRepo struct {
	coll *mongo.Collection
}

func NewMongoPaymentRepo(db *mongo.Database, logger *zap.Logger) PaymentRepository {
	repo := &MongoPaymentRepo{coll: db.Collection("payments")}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "bookingId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "refundPending", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	if err != nil {
		logger.Warn("payment indexes not created", zap.Error(err))
	}
	return repo
}

func (r *MongoPaymentRepo) Create(ctx context.Context, p *models.Payment) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("payment for booking %s: %w", p.BookingID, database.ErrDuplicate)
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *MongoPaymentRepo) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	return r.findOne(ctx, bson.M{"id": id}, "payment "+id)
}

func (r *MongoPaymentRepo) GetByBooking(ctx context.Context, bookingID string) (*models.Payment, error) {
	return r.findOne(ctx, bson.M{"bookingId": bookingID}, "payment for booking "+bookingID)
}

func (r *MongoPaymentRepo) findOne(ctx context.Context, filter bson.M, what string) (*models.Payment, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var p models.Payment
	if err := r.coll.FindOne(ctx, filter).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", what, database.ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching %s: %w", what, err)
	}
	return &p, nil
}

func (r *MongoPaymentRepo) UpdateStatus(ctx context.Context, id string, expected, next models.PaymentStatus, transactionID string) (*models.Payment, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	set := bson.M{"status": next}
	if transactionID != "" {
		set["transactionId"] = transactionID
	}
	if next == models.PaymentRefunded {
		set["refundPending"] = true
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Payment
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id, "status": expected}, bson.M{"$set": set}, opts).Decode(&p)
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to update payment %s: %w", id, err)
	}
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, fmt.Errorf("payment %s left %s: %w", id, expected, database.ErrConflict)
}

func (r *MongoPaymentRepo) ClearRefundPending(ctx context.Context, id string) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$unset": bson.M{"refundPending": ""}})
	if err != nil {
		return fmt.Errorf("failed to clear refund flag of %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("payment %s: %w", id, database.ErrNotFound)
	}
	return nil
}

func (r *MongoPaymentRepo) ListRefundPending(ctx context.Context) ([]models.Payment, error) {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	filter := bson.M{"status": models.PaymentRefunded, "refundPending": true}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list pending refunds: %w", err)
	}
	defer cursor.Close(ctx)
	out := []models.Payment{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode pending refunds: %w", err)
	}
	return out, nil
}
