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

// FriendEdgeRepository handles database operations on friend edges.
// Each edge is a single document; there are no multi-document
// transactions here, callers sequence their own writes.
type FriendEdgeRepository struct {
	collection *mongo.Collection
}

// NewFriendEdgeRepository creates a new instance of FriendEdgeRepository.
func NewFriendEdgeRepository(db *mongo.Database) *FriendEdgeRepository {
	return &FriendEdgeRepository{
		collection: db.Collection("friend_edges"),
	}
}

// CreateEdge inserts a new friend edge.
func (r *FriendEdgeRepository) CreateEdge(ctx context.Context, edge *models.FriendEdge) (*models.FriendEdge, error) {
	edge.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, edge)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert friend edge")
		return nil, fmt.Errorf("failed to create friend edge: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	edge.ID = insertedID

	return edge, nil
}

// GetEdgeByID fetches a single edge, scoped to its owner.
func (r *FriendEdgeRepository) GetEdgeByID(ctx context.Context, ownerID, edgeID primitive.ObjectID) (*models.FriendEdge, error) {
	var edge models.FriendEdge
	err := r.collection.FindOne(ctx, bson.M{"_id": edgeID, "owner_user_id": ownerID}).Decode(&edge)
	if err != nil {
		return nil, fmt.Errorf("failed to find friend edge: %v", err)
	}
	return &edge, nil
}

// GetEdgesByOwner returns all edges owned by a user, in store order.
func (r *FriendEdgeRepository) GetEdgesByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.FriendEdge, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"owner_user_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch friend edges: %v", err)
	}
	defer cursor.Close(ctx)

	var edges []models.FriendEdge
	for cursor.Next(ctx) {
		var edge models.FriendEdge
		if err := cursor.Decode(&edge); err != nil {
			return nil, fmt.Errorf("failed to decode friend edge: %v", err)
		}
		edges = append(edges, edge)
	}

	return edges, nil
}

// GetEdgesTowardProfile returns edges from any owner that reference the
// given profile. Used to find who follows a diary author.
func (r *FriendEdgeRepository) GetEdgesTowardProfile(ctx context.Context, profileID primitive.ObjectID) ([]models.FriendEdge, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"friend_profile_id": profileID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch edges toward profile: %v", err)
	}
	defer cursor.Close(ctx)

	var edges []models.FriendEdge
	for cursor.Next(ctx) {
		var edge models.FriendEdge
		if err := cursor.Decode(&edge); err != nil {
			return nil, fmt.Errorf("failed to decode friend edge: %v", err)
		}
		edges = append(edges, edge)
	}

	return edges, nil
}

// UpdateEdge applies a partial update to one edge document.
func (r *FriendEdgeRepository) UpdateEdge(ctx context.Context, ownerID, edgeID primitive.ObjectID, fields bson.M) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": edgeID, "owner_user_id": ownerID},
		bson.M{"$set": fields},
	)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"edgeID": edgeID.Hex(),
			"error":  err,
		}).Error("Failed to update friend edge")
		return fmt.Errorf("failed to update friend edge: %v", err)
	}
	return nil
}

// DeleteEdge removes one edge document.
func (r *FriendEdgeRepository) DeleteEdge(ctx context.Context, ownerID, edgeID primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": edgeID, "owner_user_id": ownerID})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"edgeID": edgeID.Hex(),
			"error":  err,
		}).Error("Failed to delete friend edge")
		return fmt.Errorf("failed to delete friend edge: %v", err)
	}
	return nil
}
