package userRepo

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

// MongoUserRepo implements UserRepository using MongoDB. Every variant lives in
// the "users" collection with a "role" discriminator.
type MongoUserRepo struct {
	coll *mongo.Collection
}

type clientDoc struct {
	models.Client `bson:",inline"`
	Role          models.Role `bson:"role"`
}

type therapistDoc struct {
	models.Therapist `bson:",inline"`
	Role             models.Role `bson:"role"`
}

type adminDoc struct {
	models.Admin `bson:",inline"`
	Role         models.Role `bson:"role"`
}

// NewMongoUserRepo creates a new instance of UserRepository using MongoDB.
func NewMongoUserRepo(db *mongo.Database, logger *zap.Logger) UserRepository {
	repo := &MongoUserRepo{coll: db.Collection("users")}
	if err := repo.ensureIndexes(); err != nil {
		logger.Warn("user indexes not created", zap.Error(err))
	}
	return repo
}

func toDocument(acc models.Account) (any, error) {
	switch v := acc.(type) {
	case *models.Client:
		return clientDoc{Client: *v, Role: models.RoleClient}, nil
	case *models.Therapist:
		return therapistDoc{Therapist: *v, Role: models.RoleTherapist}, nil
	case *models.Admin:
		return adminDoc{Admin: *v, Role: models.RoleAdmin}, nil
	}
	return nil, fmt.Errorf("unsupported account type %T", acc)
}

func fromRaw(raw bson.Raw) (models.Account, error) {
	roleVal, err := raw.LookupErr("role")
	if err != nil {
		return nil, fmt.Errorf("user document without role: %w", err)
	}
	switch models.Role(roleVal.StringValue()) {
	case models.RoleClient:
		var d clientDoc
		if err := bson.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return &d.Client, nil
	case models.RoleTherapist:
		var d therapistDoc
		if err := bson.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return &d.Therapist, nil
	case models.RoleAdmin:
		var d adminDoc
		if err := bson.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return &d.Admin, nil
	}
	return nil, fmt.Errorf("unknown role %q", roleVal.StringValue())
}

func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (models.Account, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	raw, err := r.coll.FindOne(ctx, bson.M{"id": id}).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", id, database.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch user with id %s: %w", id, err)
	}
	return fromRaw(raw)
}

func (r *MongoUserRepo) GetTherapist(ctx context.Context, id string) (*models.Therapist, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var d therapistDoc
	err := r.coll.FindOne(ctx, bson.M{"id": id, "role": models.RoleTherapist}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("therapist %s: %w", id, database.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch therapist %s: %w", id, err)
	}
	return &d.Therapist, nil
}

func (r *MongoUserRepo) GetClient(ctx context.Context, id string) (*models.Client, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var d clientDoc
	err := r.coll.FindOne(ctx, bson.M{"id": id, "role": models.RoleClient}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("client %s: %w", id, database.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch client %s: %w", id, err)
	}
	return &d.Client, nil
}

func (r *MongoUserRepo) ListTherapists(ctx context.Context) ([]models.Therapist, error) {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"role": models.RoleTherapist}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve therapists: %w", err)
	}
	defer cursor.Close(ctx)

	out := []models.Therapist{}
	for cursor.Next(ctx) {
		var d therapistDoc
		if err := cursor.Decode(&d); err != nil {
			return nil, fmt.Errorf("failed to decode therapist: %w", err)
		}
		out = append(out, d.Therapist)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return out, nil
}

func (r *MongoUserRepo) ListClients(ctx context.Context) ([]models.Client, error) {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"role": models.RoleClient}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve clients: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []clientDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode clients: %w", err)
	}
	out := make([]models.Client, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Client)
	}
	return out, nil
}

func (r *MongoUserRepo) Create(ctx context.Context, acc models.Account) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	doc, err := toDocument(acc)
	if err != nil {
		return err
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user %s: %w", acc.Identity().ID, database.ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *MongoUserRepo) Replace(ctx context.Context, acc models.Account) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	doc, err := toDocument(acc)
	if err != nil {
		return err
	}
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": acc.Identity().ID}, doc)
	if err != nil {
		return fmt.Errorf("failed to replace user %s: %w", acc.Identity().ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", acc.Identity().ID, database.ErrNotFound)
	}
	return nil
}

// profileFields lists the fields UpdateProfile may write for acc.
func profileFields(acc models.Account) bson.M {
	u := acc.Identity()
	set := bson.M{"name": u.Name, "phone": u.Phone, "avatar": u.Avatar}
	switch v := acc.(type) {
	case *models.Client:
		set["address"] = v.Address
		set["city"] = v.City
		set["preferredGender"] = v.PreferredGender
	case *models.Therapist:
		set["gender"] = v.Gender
		set["bio"] = v.Bio
		set["photos"] = v.Photos
		set["services"] = v.Services
		set["location"] = v.Location
		set["isAvailable"] = v.IsAvailable
		set["hourlyRate"] = v.HourlyRate
		set["experience"] = v.Experience
		set["certifications"] = v.Certifications
		set["languages"] = v.Languages
	}
	return set
}

func (r *MongoUserRepo) UpdateProfile(ctx context.Context, acc models.Account) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	id := acc.Identity().ID
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id, "role": acc.Role()}, bson.M{"$set": profileFields(acc)})
	if err != nil {
		return fmt.Errorf("failed to update profile %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("user %s changed role: %w", id, database.ErrConflict)
	}
	return nil
}

func (r *MongoUserRepo) CreditEarnings(ctx context.Context, therapistID, bookingID string, amount models.Rupiah) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	filter := bson.M{"id": therapistID, "role": models.RoleTherapist, "creditedBookings": bson.M{"$ne": bookingID}}
	update := bson.M{
		"$inc":  bson.M{"totalEarnings": int64(amount), "pendingPayout": int64(amount)},
		"$push": bson.M{"creditedBookings": bookingID},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to credit %s for booking %s: %w", therapistID, bookingID, err)
	}
	if res.MatchedCount == 0 {
		// Either already credited or not a therapist.
		if _, err := r.GetTherapist(ctx, therapistID); err != nil {
			return err
		}
	}
	return nil
}

func (r *MongoUserRepo) AdjustPayoutBalance(ctx context.Context, therapistID string, pending, reserved models.Rupiah) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	nextPending := bson.D{{Key: "$add", Value: bson.A{"$pendingPayout", int64(pending)}}}
	nextReserved := bson.D{{Key: "$add", Value: bson.A{
		bson.D{{Key: "$ifNull", Value: bson.A{"$reservedPayout", 0}}}, int64(reserved),
	}}}
	filter := bson.M{
		"id":   therapistID,
		"role": models.RoleTherapist,
		"$expr": bson.D{{Key: "$and", Value: bson.A{
			bson.D{{Key: "$gte", Value: bson.A{nextReserved, 0}}},
			bson.D{{Key: "$lte", Value: bson.A{nextReserved, nextPending}}},
		}}},
	}
	update := bson.M{"$inc": bson.M{"pendingPayout": int64(pending), "reservedPayout": int64(reserved)}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to adjust payout balance for %s: %w", therapistID, err)
	}
	if res.MatchedCount == 0 {
		if _, err := r.GetTherapist(ctx, therapistID); err != nil {
			return err
		}
		return fmt.Errorf("therapist %s payout balance: %w", therapistID, database.ErrConflict)
	}
	return nil
}

func (r *MongoUserRepo) ApplyReview(ctx context.Context, therapistID string, rating int) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	// Both fields read the pre-update document inside a single $set stage.
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "rating", Value: bson.D{{Key: "$divide", Value: bson.A{
				bson.D{{Key: "$add", Value: bson.A{
					bson.D{{Key: "$multiply", Value: bson.A{"$rating", "$reviewCount"}}},
					rating,
				}}},
				bson.D{{Key: "$add", Value: bson.A{"$reviewCount", 1}}},
			}}}},
			{Key: "reviewCount", Value: bson.D{{Key: "$add", Value: bson.A{"$reviewCount", 1}}}},
		}}},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": therapistID, "role": models.RoleTherapist}, pipeline)
	if err != nil {
		return fmt.Errorf("failed to apply review to %s: %w", therapistID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("therapist %s: %w", therapistID, database.ErrNotFound)
	}
	return nil
}
