package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/koma-shop/account-service/internal/domain"
)

// MongoRepository stores each user as one document in the users collection.
// Save replaces the whole document: last-writer-wins by default, or a
// version-checked replace when constructed with casEnabled.
type MongoRepository struct {
	collection *mongo.Collection
	casEnabled bool
}

func NewMongoRepository(db *mongo.Database, casEnabled bool) *MongoRepository {
	return &MongoRepository{
		collection: db.Collection("users"),
		casEnabled: casEnabled,
	}
}

func (m *MongoRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	var user domain.User
	err = m.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (m *MongoRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := m.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &user, nil
}

func (m *MongoRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	user.Version = 1

	res, err := m.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return user, nil
}

func (m *MongoRepository) Save(ctx context.Context, user *domain.User) error {
	if !m.casEnabled {
		res, err := m.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
		if err != nil {
			// The unique username index also fires on renames.
			if mongo.IsDuplicateKeyError(err) {
				return ErrUsernameTaken
			}
			return fmt.Errorf("failed to save user: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrUserNotFound
		}
		return nil
	}

	loaded := user.Version
	user.Version = loaded + 1

	filter := bson.M{"_id": user.ID, "version": loaded}
	res, err := m.collection.ReplaceOne(ctx, filter, user)
	if err != nil {
		user.Version = loaded
		if mongo.IsDuplicateKeyError(err) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	if res.MatchedCount == 0 {
		user.Version = loaded
		count, err := m.collection.CountDocuments(ctx, bson.M{"_id": user.ID})
		if err != nil {
			return fmt.Errorf("failed to check user after save conflict: %w", err)
		}
		if count == 0 {
			return ErrUserNotFound
		}
		return ErrVersionConflict
	}
	return nil
}

func (m *MongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
