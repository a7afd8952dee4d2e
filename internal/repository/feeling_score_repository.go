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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FeelingScoreRepository handles database operations on feeling scores.
// A score document shares its _id with the diary entry it belongs to.
type FeelingScoreRepository struct {
	collection *mongo.Collection
}

// NewFeelingScoreRepository creates a new instance of FeelingScoreRepository.
func NewFeelingScoreRepository(db *mongo.Database) *FeelingScoreRepository {
	return &FeelingScoreRepository{
		collection: db.Collection("feeling_scores"),
	}
}

// CreateScore inserts a score record. The caller sets the ID to the
// paired diary entry's ID before calling.
func (r *FeelingScoreRepository) CreateScore(ctx context.Context, score *models.FeelingScoreEntry) error {
	score.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, score)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert feeling score")
		return fmt.Errorf("failed to create feeling score: %v", err)
	}
	return nil
}

// UpdateScore rewrites the score and date for one entry.
func (r *FeelingScoreRepository) UpdateScore(ctx context.Context, id primitive.ObjectID, feelingScore int, diaryDate time.Time) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"feeling_score": feelingScore,
			"diary_date":    diaryDate,
			"updated_at":    time.Now(),
		}},
	)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"scoreID": id.Hex(),
			"error":   err,
		}).Error("Failed to update feeling score")
		return fmt.Errorf("failed to update feeling score: %v", err)
	}
	return nil
}

// DeleteScore removes the score paired with a diary entry.
func (r *FeelingScoreRepository) DeleteScore(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete feeling score: %v", err)
	}
	return nil
}

// GetScoresInRange returns a user's scores whose diary date falls within
// [from, to], ordered oldest to newest.
func (r *FeelingScoreRepository) GetScoresInRange(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]models.FeelingScoreEntry, error) {
	filter := bson.M{
		"user_id":    userID,
		"diary_date": bson.M{"$gte": from, "$lte": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "diary_date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feeling scores: %v", err)
	}
	defer cursor.Close(ctx)

	var scores []models.FeelingScoreEntry
	for cursor.Next(ctx) {
		var score models.FeelingScoreEntry
		if err := cursor.Decode(&score); err != nil {
			return nil, fmt.Errorf("failed to decode feeling score: %v", err)
		}
		scores = append(scores, score)
	}

	return scores, nil
}
