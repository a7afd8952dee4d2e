package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aidana-b/moodiary/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProfileRepository handles database operations on user profiles.
type ProfileRepository struct {
	collection *mongo.Collection
}

// NewProfileRepository creates a new instance of ProfileRepository.
func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{
		collection: db.Collection("profiles"),
	}
}

// CreateProfile inserts a new profile.
func (r *ProfileRepository) CreateProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, profile)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert profile")
		return nil, fmt.Errorf("failed to create profile: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	profile.ID = insertedID

	return profile, nil
}

// GetProfileByID fetches a profile by its document id.
func (r *ProfileRepository) GetProfileByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error) {
	var profile models.Profile
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&profile)
	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %v", err)
	}
	return &profile, nil
}

// GetProfileByOwner fetches the profile owned by a user account.
func (r *ProfileRepository) GetProfileByOwner(ctx context.Context, ownerUserID primitive.ObjectID) (*models.Profile, error) {
	var profile models.Profile
	err := r.collection.FindOne(ctx, bson.M{"owner_user_id": ownerUserID}).Decode(&profile)
	if err != nil {
		return nil, fmt.Errorf("failed to find profile by owner: %v", err)
	}
	return &profile, nil
}

// GetProfileByHandle fetches a profile by its public handle.
func (r *ProfileRepository) GetProfileByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	var profile models.Profile
	err := r.collection.FindOne(ctx, bson.M{"handle": handle}).Decode(&profile)
	if err != nil {
		return nil, fmt.Errorf("failed to find profile by handle: %v", err)
	}
	return &profile, nil
}

// DeleteProfile removes a profile document.
func (r *ProfileRepository) DeleteProfile(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"profileID": id.Hex(),
			"error":     err,
		}).Error("Failed to delete profile")
		return fmt.Errorf("failed to delete profile: %v", err)
	}
	return nil
}

// UpdateProfile applies a partial update to a profile document.
func (r *ProfileRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updated_at"] = time.Now()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"profileID": id.Hex(),
			"error":     err,
		}).Error("Failed to update profile")
		return fmt.Errorf("failed to update profile: %v", err)
	}
	return nil
}
