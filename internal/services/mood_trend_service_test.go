package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aidana-b/moodiary/internal/models"
	"github.com/aidana-b/moodiary/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	logger.InitLogger()
}

var trendToday = time.Date(2024, 5, 20, 15, 30, 0, 0, time.UTC)

func newTrendService(store *fakeScoreStore) *MoodTrendService {
	svc := NewMoodTrendService(store)
	svc.now = func() time.Time { return trendToday }
	return svc
}

// addScore records a score for N days before today.
func addScore(store *fakeScoreStore, userID primitive.ObjectID, daysAgo, score int) {
	store.scores = append(store.scores, models.FeelingScoreEntry{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		FeelingScore: score,
		DiaryDate:    trendToday.AddDate(0, 0, -daysAgo),
	})
}

func TestEvaluateRecentTrend_AlwaysSevenSlots(t *testing.T) {
	userID := primitive.NewObjectID()

	empty := newTrendService(&fakeScoreStore{})
	result := empty.EvaluateRecentTrend(context.Background(), userID, trendToday)
	assert.Len(t, result.Slots, 7)
	assert.False(t, result.Alert)

	store := &fakeScoreStore{}
	for day := 0; day < 10; day++ {
		addScore(store, userID, day, 5)
	}
	full := newTrendService(store)
	result = full.EvaluateRecentTrend(context.Background(), userID, trendToday)
	assert.Len(t, result.Slots, 7)
}

func TestEvaluateRecentTrend_SlotOrdering(t *testing.T) {
	userID := primitive.NewObjectID()
	store := &fakeScoreStore{}
	addScore(store, userID, 6, -10) // oldest day of the window
	addScore(store, userID, 0, 5)  // today

	svc := newTrendService(store)
	result := svc.EvaluateRecentTrend(context.Background(), userID, trendToday)

	require.NotNil(t, result.Slots[0])
	assert.Equal(t, -10, *result.Slots[0])
	require.NotNil(t, result.Slots[6])
	assert.Equal(t, 5, *result.Slots[6])
	for i := 1; i < 6; i++ {
		assert.Nil(t, result.Slots[i])
	}
}

func TestEvaluateRecentTrend_ThresholdBoundary(t *testing.T) {
	tests := []struct {
		name   string
		scores []int // one per day, starting 6 days ago
		alert  bool
	}{
		{"four days at exactly -25", []int{-10, -8, -4, -3}, true},
		{"four days at -24", []int{-10, -8, -4, -2}, false},
		{"three days far below", []int{-40, -30, -30}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID := primitive.NewObjectID()
			store := &fakeScoreStore{}
			for i, score := range tt.scores {
				addScore(store, userID, 6-i, score)
			}

			svc := newTrendService(store)
			result := svc.EvaluateRecentTrend(context.Background(), userID, trendToday)
			assert.Equal(t, tt.alert, result.Alert)
		})
	}
}

func TestEvaluateRecentTrend_ExampleWindows(t *testing.T) {
	userID := primitive.NewObjectID()
	store := &fakeScoreStore{}
	// Oldest to newest: -10, -8, -7, -5, then three empty days.
	addScore(store, userID, 6, -10)
	addScore(store, userID, 5, -8)
	addScore(store, userID, 4, -7)
	addScore(store, userID, 3, -5)

	svc := newTrendService(store)
	result := svc.EvaluateRecentTrend(context.Background(), userID, trendToday)
	assert.True(t, result.Alert, "four scored days summing to -30 should alert")

	flat := &fakeScoreStore{}
	addScore(flat, userID, 6, -5)
	addScore(flat, userID, 5, -5)
	addScore(flat, userID, 4, -5)
	addScore(flat, userID, 3, -5)

	svc = newTrendService(flat)
	result = svc.EvaluateRecentTrend(context.Background(), userID, trendToday)
	assert.False(t, result.Alert, "sum of -20 should not alert")
}

func TestEvaluateRecentTrend_DateGuard(t *testing.T) {
	userID := primitive.NewObjectID()
	store := &fakeScoreStore{}
	for day := 0; day < 5; day++ {
		addScore(store, userID, day, -10)
	}

	svc := newTrendService(store)

	yesterday := trendToday.AddDate(0, 0, -1)
	result := svc.EvaluateRecentTrend(context.Background(), userID, yesterday)
	assert.False(t, result.Alert, "backfilled entries must never alert")

	result = svc.EvaluateRecentTrend(context.Background(), userID, trendToday)
	assert.True(t, result.Alert, "same data saved today should alert")
}

func TestEvaluateRecentTrend_ReadFailure(t *testing.T) {
	userID := primitive.NewObjectID()
	store := &fakeScoreStore{rangeErr: fmt.Errorf("store unavailable")}

	svc := newTrendService(store)
	result := svc.EvaluateRecentTrend(context.Background(), userID, trendToday)

	assert.False(t, result.Alert)
	require.Len(t, result.Slots, 7)
	for _, slot := range result.Slots {
		assert.Nil(t, slot)
	}
}

func TestEvaluateRecentTrend_IgnoresEntriesOutsideWindow(t *testing.T) {
	userID := primitive.NewObjectID()
	store := &fakeScoreStore{}
	addScore(store, userID, 20, -10) // well before the window

	svc := newTrendService(store)
	result := svc.EvaluateRecentTrend(context.Background(), userID, trendToday)

	for _, slot := range result.Slots {
		assert.Nil(t, slot)
	}
}

func TestEvaluateRecentTrend_NonUTCServerClock(t *testing.T) {
	userID := primitive.NewObjectID()
	store := &fakeScoreStore{}
	for day := 0; day < 5; day++ {
		addScore(store, userID, day, -10)
	}

	// Server clock in UTC-5, diary dates stored as UTC midnight. The
	// calendar-day comparison must not depend on the server's zone.
	svc := NewMoodTrendService(store)
	loc := time.FixedZone("UTC-5", -5*60*60)
	svc.now = func() time.Time {
		return time.Date(trendToday.Year(), trendToday.Month(), trendToday.Day(), 10, 0, 0, 0, loc)
	}

	entryDate := time.Date(trendToday.Year(), trendToday.Month(), trendToday.Day(), 0, 0, 0, 0, time.UTC)
	result := svc.EvaluateRecentTrend(context.Background(), userID, entryDate)

	assert.True(t, result.Alert, "an entry saved for today's calendar date must alert regardless of server zone")
	require.NotNil(t, result.Slots[6], "today's score lands in the newest slot")
	assert.Equal(t, -10, *result.Slots[6])
}
