package services

import (
	"context"
	"fmt"

	"github.com/aidana-b/moodiary/internal/models"
	"github.com/aidana-b/moodiary/pkg/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DiaryNotifier is the notification surface the diary flow needs.
type DiaryNotifier interface {
	CreateNotification(ctx context.Context, userID primitive.ObjectID, notifType, title, message string, targetID *primitive.ObjectID) error
}

// DiaryService handles diary entries and their paired feeling scores.
// A diary entry and its score are written as two sequential
// single-document operations sharing one id; like the friend-edge
// writes, there is no rollback when the second write fails.
type DiaryService struct {
	entries  DiaryStore
	scores   FeelingScoreStore
	edges    FriendEdgeStore
	profiles ProfileStore
	trend    *MoodTrendService
	notifier DiaryNotifier
}

// NewDiaryService creates a new DiaryService.
func NewDiaryService(entries DiaryStore, scores FeelingScoreStore, edges FriendEdgeStore, profiles ProfileStore, trend *MoodTrendService, notifier DiaryNotifier) *DiaryService {
	return &DiaryService{
		entries:  entries,
		scores:   scores,
		edges:    edges,
		profiles: profiles,
		trend:    trend,
		notifier: notifier,
	}
}

// CreateEntry saves a new diary entry plus its feeling score, then runs
// the mood-trend evaluation. The trend result is returned for the UI
// prompt; trend or notification failures never fail the save itself.
func (s *DiaryService) CreateEntry(ctx context.Context, entry *models.DiaryEntry) (*models.DiaryEntry, *TrendResult, error) {
	if entry.UserID.IsZero() || entry.DiaryDate.IsZero() {
		return nil, nil, fmt.Errorf("missing required diary fields")
	}

	score, err := models.ScoreForMood(entry.Mood)
	if err != nil {
		return nil, nil, err
	}

	// Best-effort one-entry-per-day check; not safe against concurrent
	// writers, the store has no unique constraint on (user, day).
	if existing, err := s.entries.GetEntryByUserAndDate(ctx, entry.UserID, entry.DiaryDate); err == nil && existing != nil {
		return nil, nil, fmt.Errorf("an entry for this date already exists")
	}

	created, err := s.entries.CreateEntry(ctx, entry)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create diary entry: %v", err)
	}

	scoreEntry := &models.FeelingScoreEntry{
		ID:           created.ID,
		UserID:       created.UserID,
		FeelingScore: score,
		DiaryDate:    created.DiaryDate,
	}
	if err := s.scores.CreateScore(ctx, scoreEntry); err != nil {
		// Entry is saved but its score is missing; surfaced to the
		// caller, no compensating delete.
		logger.Log.WithError(err).Error("Score write failed after diary write")
		return created, nil, fmt.Errorf("failed to save feeling score: %v", err)
	}

	trend := s.trend.EvaluateRecentTrend(ctx, created.UserID, created.DiaryDate)

	if trend.Alert {
		err := s.notifier.CreateNotification(ctx, created.UserID,
			"mental_health_check",
			"How are you doing?",
			"Your mood has been low for a few days. Would you like to take a quick mental-health check?",
			&created.ID,
		)
		if err != nil {
			logrus.WithError(err).Warn("Failed to record mental health check nudge")
		}
	}

	s.notifyFriends(ctx, created)

	return created, &trend, nil
}

// notifyFriends tells friends who opted in that the author posted.
func (s *DiaryService) notifyFriends(ctx context.Context, entry *models.DiaryEntry) {
	profile, err := s.profiles.GetProfileByOwner(ctx, entry.UserID)
	if err != nil {
		logrus.WithError(err).Warn("Could not resolve author profile for diary notifications")
		return
	}

	edges, err := s.edges.GetEdgesTowardProfile(ctx, profile.ID)
	if err != nil {
		logrus.WithError(err).Warn("Could not fetch follower edges for diary notifications")
		return
	}

	for _, edge := range edges {
		if edge.Status != models.EdgeStatusApproval || !edge.NotifyOnDiary {
			continue
		}
		err := s.notifier.CreateNotification(ctx, edge.OwnerUserID,
			"friend_diary_posted",
			"New diary entry",
			fmt.Sprintf("%s posted a new diary entry.", profile.DisplayName),
			&entry.ID,
		)
		if err != nil {
			logrus.WithError(err).Warn("Failed to notify friend of diary post")
		}
	}
}

// GetEntry fetches one diary entry, restricted to its author.
func (s *DiaryService) GetEntry(ctx context.Context, userID, entryID primitive.ObjectID) (*models.DiaryEntry, error) {
	entry, err := s.entries.GetEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get diary entry: %v", err)
	}
	if entry.UserID != userID {
		return nil, fmt.Errorf("diary entry does not belong to user")
	}
	return entry, nil
}

// GetEntries returns the user's own entries, newest first.
func (s *DiaryService) GetEntries(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.DiaryEntry, error) {
	entries, err := s.entries.GetEntriesByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch diary entries: %v", err)
	}
	return entries, nil
}

// GetFriendEntries returns a friend's diary feed, gated on the viewer's
// own edge toward that friend: the relationship must be approved and
// the viewer must not have hidden the friend's diary.
func (s *DiaryService) GetFriendEntries(ctx context.Context, viewerID, friendProfileID primitive.ObjectID, limit int64) ([]models.DiaryEntry, error) {
	edges, err := s.edges.GetEdgesByOwner(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch viewer edges: %v", err)
	}

	var viewerEdge *models.FriendEdge
	for i := range edges {
		if edges[i].FriendProfileID == friendProfileID {
			viewerEdge = &edges[i]
			break
		}
	}
	if viewerEdge == nil || viewerEdge.Status != models.EdgeStatusApproval || !viewerEdge.ShowDiary {
		return nil, fmt.Errorf("friend diary is not visible")
	}

	profile, err := s.profiles.GetProfileByID(ctx, friendProfileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve friend profile: %v", err)
	}

	entries, err := s.entries.GetEntriesByUser(ctx, profile.OwnerUserID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch friend diary entries: %v", err)
	}
	return entries, nil
}

// UpdateEntry edits a diary entry and rewrites its paired score, diary
// document first.
func (s *DiaryService) UpdateEntry(ctx context.Context, userID, entryID primitive.ObjectID, title, body, mood string) (*models.DiaryEntry, error) {
	entry, err := s.GetEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	score, err := models.ScoreForMood(mood)
	if err != nil {
		return nil, err
	}

	fields := bson.M{
		"title": title,
		"body":  body,
		"mood":  mood,
	}
	if err := s.entries.UpdateEntry(ctx, entryID, fields); err != nil {
		return nil, fmt.Errorf("failed to update diary entry: %v", err)
	}

	if err := s.scores.UpdateScore(ctx, entryID, score, entry.DiaryDate); err != nil {
		logger.Log.WithError(err).Error("Score update failed after diary update")
		return nil, fmt.Errorf("failed to update feeling score: %v", err)
	}

	entry.Title = title
	entry.Body = body
	entry.Mood = mood
	return entry, nil
}

// DeleteEntry removes a diary entry and then its paired score.
func (s *DiaryService) DeleteEntry(ctx context.Context, userID, entryID primitive.ObjectID) error {
	if _, err := s.GetEntry(ctx, userID, entryID); err != nil {
		return err
	}

	if err := s.entries.DeleteEntry(ctx, entryID); err != nil {
		return fmt.Errorf("failed to delete diary entry: %v", err)
	}

	if err := s.scores.DeleteScore(ctx, entryID); err != nil {
		logger.Log.WithError(err).Error("Score delete failed after diary delete")
		return fmt.Errorf("failed to delete feeling score: %v", err)
	}

	return nil
}
