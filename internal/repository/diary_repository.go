package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aidana-b/moodiary/internal/models"
	"github.com/aidana-b/moodiary/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DiaryRepository handles database operations related to diary entries.
type DiaryRepository struct {
	collection *mongo.Collection
}

// NewDiaryRepository creates a new instance of DiaryRepository.
func NewDiaryRepository(db *mongo.Database) *DiaryRepository {
	return &DiaryRepository{
		collection: db.Collection("diary_entries"),
	}
}

// CreateEntry inserts a new diary entry.
func (r *DiaryRepository) CreateEntry(ctx context.Context, entry *models.DiaryEntry) (*models.DiaryEntry, error) {
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert diary entry")
		return nil, fmt.Errorf("failed to create diary entry: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	entry.ID = insertedID

	logger.Log.WithField("entry_id", entry.ID.Hex()).Info("Diary entry created successfully")
	return entry, nil
}

// GetEntryByID fetches a diary entry by its ID.
func (r *DiaryRepository) GetEntryByID(ctx context.Context, id primitive.ObjectID) (*models.DiaryEntry, error) {
	var entry models.DiaryEntry
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err != nil {
		return nil, fmt.Errorf("failed to find diary entry: %v", err)
	}
	return &entry, nil
}

// GetEntryByUserAndDate fetches the entry a user wrote for one calendar
// day, if any. Used as the existence check before creation.
func (r *DiaryRepository) GetEntryByUserAndDate(ctx context.Context, userID primitive.ObjectID, day time.Time) (*models.DiaryEntry, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var entry models.DiaryEntry
	err := r.collection.FindOne(ctx, bson.M{
		"user_id":    userID,
		"diary_date": bson.M{"$gte": start, "$lt": end},
	}).Decode(&entry)
	if err != nil {
		return nil, fmt.Errorf("failed to find diary entry by date: %v", err)
	}
	return &entry, nil
}

// GetEntriesByUser returns a user's diary entries, newest first.
func (r *DiaryRepository) GetEntriesByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.DiaryEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "diary_date", Value: -1}}).SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch diary entries: %v", err)
	}
	defer cursor.Close(ctx)

	var entries []models.DiaryEntry
	for cursor.Next(ctx) {
		var entry models.DiaryEntry
		if err := cursor.Decode(&entry); err != nil {
			return nil, fmt.Errorf("failed to decode diary entry: %v", err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// UpdateEntry applies a partial update to a diary entry.
func (r *DiaryRepository) UpdateEntry(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updated_at"] = time.Now()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		logger.Log.WithError(err).WithField("entry_id", id.Hex()).Error("Failed to update diary entry")
		return fmt.Errorf("failed to update diary entry: %v", err)
	}
	return nil
}

// DeleteEntry removes a diary entry.
func (r *DiaryRepository) DeleteEntry(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("entry_id", id.Hex()).Error("Failed to delete diary entry")
		return fmt.Errorf("failed to delete diary entry: %v", err)
	}
	return nil
}
