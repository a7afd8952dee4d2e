package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aidana-b/moodiary/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory store fakes backing the service tests. Insertion order is
// preserved so projection-order assertions are meaningful.

type fakeEdgeStore struct {
	edges []*models.FriendEdge

	failCreateAfter int                // fail the Nth create (1-based), 0 = never
	createCalls     int
	failUpdateEdge  primitive.ObjectID // UpdateEdge on this id fails
	failDeleteEdge  primitive.ObjectID // DeleteEdge on this id fails
	failReads       bool
}

func (f *fakeEdgeStore) CreateEdge(ctx context.Context, edge *models.FriendEdge) (*models.FriendEdge, error) {
	f.createCalls++
	if f.failCreateAfter > 0 && f.createCalls >= f.failCreateAfter {
		return nil, fmt.Errorf("store write failed")
	}
	stored := *edge
	stored.ID = primitive.NewObjectID()
	stored.CreatedAt = time.Now()
	f.edges = append(f.edges, &stored)
	edge.ID = stored.ID
	return &stored, nil
}

func (f *fakeEdgeStore) GetEdgeByID(ctx context.Context, ownerID, edgeID primitive.ObjectID) (*models.FriendEdge, error) {
	if f.failReads {
		return nil, fmt.Errorf("store read failed")
	}
	for _, edge := range f.edges {
		if edge.ID == edgeID && edge.OwnerUserID == ownerID {
			copied := *edge
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("edge not found")
}

func (f *fakeEdgeStore) GetEdgesByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.FriendEdge, error) {
	if f.failReads {
		return nil, fmt.Errorf("store read failed")
	}
	var result []models.FriendEdge
	for _, edge := range f.edges {
		if edge.OwnerUserID == ownerID {
			result = append(result, *edge)
		}
	}
	return result, nil
}

func (f *fakeEdgeStore) GetEdgesTowardProfile(ctx context.Context, profileID primitive.ObjectID) ([]models.FriendEdge, error) {
	if f.failReads {
		return nil, fmt.Errorf("store read failed")
	}
	var result []models.FriendEdge
	for _, edge := range f.edges {
		if edge.FriendProfileID == profileID {
			result = append(result, *edge)
		}
	}
	return result, nil
}

func (f *fakeEdgeStore) UpdateEdge(ctx context.Context, ownerID, edgeID primitive.ObjectID, fields bson.M) error {
	if edgeID == f.failUpdateEdge {
		return fmt.Errorf("store write failed")
	}
	for _, edge := range f.edges {
		if edge.ID != edgeID || edge.OwnerUserID != ownerID {
			continue
		}
		for key, value := range fields {
			switch key {
			case "status":
				edge.Status = value.(string)
			case "blocked":
				edge.Blocked = value.(bool)
			case "notify_on_diary":
				edge.NotifyOnDiary = value.(bool)
			case "show_diary":
				edge.ShowDiary = value.(bool)
			}
		}
		return nil
	}
	return fmt.Errorf("edge not found")
}

func (f *fakeEdgeStore) DeleteEdge(ctx context.Context, ownerID, edgeID primitive.ObjectID) error {
	if edgeID == f.failDeleteEdge {
		return fmt.Errorf("store write failed")
	}
	for i, edge := range f.edges {
		if edge.ID == edgeID && edge.OwnerUserID == ownerID {
			f.edges = append(f.edges[:i], f.edges[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("edge not found")
}

func (f *fakeEdgeStore) edgeByOwner(ownerID primitive.ObjectID) *models.FriendEdge {
	for _, edge := range f.edges {
		if edge.OwnerUserID == ownerID {
			return edge
		}
	}
	return nil
}

type fakeProfileStore struct {
	profiles []*models.Profile
}

func (f *fakeProfileStore) add(ownerUserID primitive.ObjectID, handle, displayName string) *models.Profile {
	profile := &models.Profile{
		ID:          primitive.NewObjectID(),
		OwnerUserID: ownerUserID,
		Handle:      handle,
		DisplayName: displayName,
	}
	f.profiles = append(f.profiles, profile)
	return profile
}

func (f *fakeProfileStore) GetProfileByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error) {
	for _, profile := range f.profiles {
		if profile.ID == id {
			copied := *profile
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("profile not found")
}

func (f *fakeProfileStore) GetProfileByOwner(ctx context.Context, ownerUserID primitive.ObjectID) (*models.Profile, error) {
	for _, profile := range f.profiles {
		if profile.OwnerUserID == ownerUserID {
			copied := *profile
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("profile not found")
}

type fakeScoreStore struct {
	scores []models.FeelingScoreEntry

	rangeErr  error
	createErr error
	updateErr error
	deleteErr error
}

func (f *fakeScoreStore) CreateScore(ctx context.Context, score *models.FeelingScoreEntry) error {
	if f.createErr != nil {
		return f.createErr
	}
	score.UpdatedAt = time.Now()
	f.scores = append(f.scores, *score)
	return nil
}

func (f *fakeScoreStore) UpdateScore(ctx context.Context, id primitive.ObjectID, feelingScore int, diaryDate time.Time) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	for i := range f.scores {
		if f.scores[i].ID == id {
			f.scores[i].FeelingScore = feelingScore
			f.scores[i].DiaryDate = diaryDate
			f.scores[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return fmt.Errorf("score not found")
}

func (f *fakeScoreStore) DeleteScore(ctx context.Context, id primitive.ObjectID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.scores {
		if f.scores[i].ID == id {
			f.scores = append(f.scores[:i], f.scores[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("score not found")
}

func (f *fakeScoreStore) GetScoresInRange(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]models.FeelingScoreEntry, error) {
	if f.rangeErr != nil {
		return nil, f.rangeErr
	}
	var result []models.FeelingScoreEntry
	for _, score := range f.scores {
		if score.UserID == userID && !score.DiaryDate.Before(from) && !score.DiaryDate.After(to) {
			result = append(result, score)
		}
	}
	return result, nil
}

type fakeDiaryStore struct {
	entries []*models.DiaryEntry

	createErr error
	updateErr error
	deleteErr error
}

func (f *fakeDiaryStore) CreateEntry(ctx context.Context, entry *models.DiaryEntry) (*models.DiaryEntry, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	stored := *entry
	stored.ID = primitive.NewObjectID()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.entries = append(f.entries, &stored)
	return &stored, nil
}

func (f *fakeDiaryStore) GetEntryByID(ctx context.Context, id primitive.ObjectID) (*models.DiaryEntry, error) {
	for _, entry := range f.entries {
		if entry.ID == id {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("entry not found")
}

func (f *fakeDiaryStore) GetEntryByUserAndDate(ctx context.Context, userID primitive.ObjectID, day time.Time) (*models.DiaryEntry, error) {
	for _, entry := range f.entries {
		if entry.UserID == userID &&
			entry.DiaryDate.Year() == day.Year() &&
			entry.DiaryDate.YearDay() == day.YearDay() {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("entry not found")
}

func (f *fakeDiaryStore) GetEntriesByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.DiaryEntry, error) {
	var result []models.DiaryEntry
	for _, entry := range f.entries {
		if entry.UserID == userID {
			result = append(result, *entry)
		}
		if int64(len(result)) == limit {
			break
		}
	}
	return result, nil
}

func (f *fakeDiaryStore) UpdateEntry(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	for _, entry := range f.entries {
		if entry.ID != id {
			continue
		}
		for key, value := range fields {
			switch key {
			case "title":
				entry.Title = value.(string)
			case "body":
				entry.Body = value.(string)
			case "mood":
				entry.Mood = value.(string)
			}
		}
		entry.UpdatedAt = time.Now()
		return nil
	}
	return fmt.Errorf("entry not found")
}

func (f *fakeDiaryStore) DeleteEntry(ctx context.Context, id primitive.ObjectID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, entry := range f.entries {
		if entry.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("entry not found")
}

type recordedNotification struct {
	UserID   primitive.ObjectID
	Type     string
	TargetID *primitive.ObjectID
}

type fakeNotifier struct {
	created []recordedNotification
	err     error
}

func (f *fakeNotifier) CreateNotification(ctx context.Context, userID primitive.ObjectID, notifType, title, message string, targetID *primitive.ObjectID) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, recordedNotification{UserID: userID, Type: notifType, TargetID: targetID})
	return nil
}

type fakeChangeNotifier struct {
	notified [][]primitive.ObjectID
}

func (f *fakeChangeNotifier) EdgesChanged(userIDs ...primitive.ObjectID) {
	f.notified = append(f.notified, userIDs)
}
