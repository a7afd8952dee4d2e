package services

import (
	"context"
	"time"

	"github.com/aidana-b/moodiary/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store interfaces consumed by the core services, implemented by the
// repository package. Kept narrow so tests can swap map-backed fakes.

// FriendEdgeStore is the document-store surface for friend edges.
type FriendEdgeStore interface {
	CreateEdge(ctx context.Context, edge *models.FriendEdge) (*models.FriendEdge, error)
	GetEdgeByID(ctx context.Context, ownerID, edgeID primitive.ObjectID) (*models.FriendEdge, error)
	GetEdgesByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.FriendEdge, error)
	GetEdgesTowardProfile(ctx context.Context, profileID primitive.ObjectID) ([]models.FriendEdge, error)
	UpdateEdge(ctx context.Context, ownerID, edgeID primitive.ObjectID, fields bson.M) error
	DeleteEdge(ctx context.Context, ownerID, edgeID primitive.ObjectID) error
}

// ProfileStore resolves profile records.
type ProfileStore interface {
	GetProfileByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error)
	GetProfileByOwner(ctx context.Context, ownerUserID primitive.ObjectID) (*models.Profile, error)
}

// FeelingScoreStore is the document-store surface for feeling scores.
type FeelingScoreStore interface {
	CreateScore(ctx context.Context, score *models.FeelingScoreEntry) error
	UpdateScore(ctx context.Context, id primitive.ObjectID, feelingScore int, diaryDate time.Time) error
	DeleteScore(ctx context.Context, id primitive.ObjectID) error
	GetScoresInRange(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]models.FeelingScoreEntry, error)
}

// DiaryStore is the document-store surface for diary entries.
type DiaryStore interface {
	CreateEntry(ctx context.Context, entry *models.DiaryEntry) (*models.DiaryEntry, error)
	GetEntryByID(ctx context.Context, id primitive.ObjectID) (*models.DiaryEntry, error)
	GetEntryByUserAndDate(ctx context.Context, userID primitive.ObjectID, day time.Time) (*models.DiaryEntry, error)
	GetEntriesByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.DiaryEntry, error)
	UpdateEntry(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	DeleteEntry(ctx context.Context, id primitive.ObjectID) error
}

// NotificationStore is the document-store surface for notifications.
// Read/mutate operations are scoped to the owning user.
type NotificationStore interface {
	CreateNotification(ctx context.Context, notif *models.Notification) error
	GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, userID, notifID primitive.ObjectID) error
	DeleteNotification(ctx context.Context, userID, notifID primitive.ObjectID) error
}

// EdgeChangeNotifier receives a signal after friend-edge mutations so
// subscribed friend lists can be re-projected and pushed out. Every
// notification means "recompute from the current store state".
type EdgeChangeNotifier interface {
	EdgesChanged(userIDs ...primitive.ObjectID)
}
