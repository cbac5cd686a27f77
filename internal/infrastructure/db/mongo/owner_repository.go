package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pawhaven/canine-care/internal/core/domain"
)

const ownersCollection = "owners"

// OwnerRepository persists authenticated actors.
type OwnerRepository struct {
	coll *mongo.Collection
}

func NewOwnerRepository(db *mongo.Database) *OwnerRepository {
	return &OwnerRepository{coll: db.Collection(ownersCollection)}
}

func (r *OwnerRepository) Create(ctx context.Context, owner *domain.Owner) (*domain.Owner, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if owner.ID == "" {
		owner.ID = uuid.NewString()
	}
	if _, err := r.coll.InsertOne(ctx, owner); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrOwnerExists
		}
		return nil, fmt.Errorf("insert owner: %w", err)
	}
	return owner, nil
}

func (r *OwnerRepository) FindByUsername(ctx context.Context, username string) (*domain.Owner, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *OwnerRepository) FindByID(ctx context.Context, id string) (*domain.Owner, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *OwnerRepository) findOne(ctx context.Context, filter bson.M) (*domain.Owner, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var owner domain.Owner
	if err := r.coll.FindOne(ctx, filter).Decode(&owner); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find owner: %w", err)
	}
	return &owner, nil
}

func (r *OwnerRepository) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"password_hash": passwordHash, "updated_at": updatedAt},
	})
	if err != nil {
		return fmt.Errorf("update owner password: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// EnsureOwnerIndexes makes usernames unique.
func EnsureOwnerIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := db.Collection(ownersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
