package messageRepo

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

type MongoMessageRepo struct {
	coll *mongo.Collection
}

func NewMongoMessageRepo(db *mongo.Database, logger *zap.Logger) MessageRepository {
	repo := &MongoMessageRepo{coll: db.Collection("messages")}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "senderId", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "receiverId", Value: 1}, {Key: "timestamp", Value: -1}}},
	})
	if err != nil {
		logger.Warn("message indexes not created", zap.Error(err))
	}
	return repo
}

func (r *MongoMessageRepo) Create(ctx context.Context, m *models.ChatMessage) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := r.coll.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("failed to store message: %w", err)
	}
	return nil
}

func (r *MongoMessageRepo) GetByID(ctx context.Context, id string) (*models.ChatMessage, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var m models.ChatMessage
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("message %s: %w", id, database.ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching message %s: %w", id, err)
	}
	return &m, nil
}

func (r *MongoMessageRepo) MarkRead(ctx context.Context, id, readerID string) (*models.ChatMessage, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var m models.ChatMessage
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"id": id, "receiverId": readerID},
		bson.M{"$set": bson.M{"read": true}},
		opts,
	).Decode(&m)
	if err == nil {
		return &m, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to mark message %s read: %w", id, err)
	}
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, fmt.Errorf("message %s reader %s: %w", id, readerID, database.ErrConflict)
}

func (r *MongoMessageRepo) ListBetween(ctx context.Context, userA, userB string) ([]models.ChatMessage, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"senderId": userA, "receiverId": userB},
		bson.M{"senderId": userB, "receiverId": userA},
	}}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
}

func (r *MongoMessageRepo) ListForUser(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	filter := bson.M{"$or": bson.A{bson.M{"senderId": userID}, bson.M{"receiverId": userID}}}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
}

func (r *MongoMessageRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.ChatMessage, error) {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching messages: %w", err)
	}
	defer cursor.Close(ctx)
	msgs := []models.ChatMessage{}
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, fmt.Errorf("error decoding messages: %w", err)
	}
	return msgs, nil
}
