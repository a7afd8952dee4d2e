package services

import (
	"context"
	"time"

	"github.com/aidana-b/moodiary/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// trendWindowDays is the trailing calendar window evaluated after
	// every diary save, anchored on the current date.
	trendWindowDays = 7

	// minScoredDays is how many days in the window need a score before
	// an alert can fire, so one very bad day alone never triggers it.
	minScoredDays = 4

	// alertScoreSum fires the alert when the window's total score is at
	// or below it.
	alertScoreSum = -25
)

// TrendResult is the outcome of one mood-trend evaluation: one slot per
// day of the window (oldest to newest, nil where no entry exists) and
// whether the mental-health-check prompt should be shown.
type TrendResult struct {
	Slots []*int `json:"slots"`
	Alert bool   `json:"alert"`
}

// MoodTrendService evaluates a user's recent mood trend right after a
// diary entry is saved. Evaluation is best-effort: it never returns an
// error, because it must never block or fail the diary save that
// triggered it.
type MoodTrendService struct {
	scores FeelingScoreStore
	now    func() time.Time
}

// NewMoodTrendService creates a new MoodTrendService.
func NewMoodTrendService(scores FeelingScoreStore) *MoodTrendService {
	return &MoodTrendService{
		scores: scores,
		now:    time.Now,
	}
}

// EvaluateRecentTrend reads the user's feeling scores over the trailing
// window ending today and decides whether to alert. The alert fires only
// when enough days carry a score, the total is low enough, and the entry
// that triggered evaluation is for today's calendar date (so backfilling
// or editing history never alerts).
func (s *MoodTrendService) EvaluateRecentTrend(ctx context.Context, userID primitive.ObjectID, justSavedEntryDate time.Time) TrendResult {
	result := TrendResult{
		Slots: make([]*int, trendWindowDays),
	}

	// All calendar-day math happens in UTC: diary dates arrive as UTC
	// midnight, while the server clock may sit in any zone.
	today := truncateToDay(s.now().UTC())
	from := today.AddDate(0, 0, -(trendWindowDays - 1))
	to := today.AddDate(0, 0, 1).Add(-time.Nanosecond)

	entries, err := s.scores.GetScoresInRange(ctx, userID, from, to)
	if err != nil {
		logger.Log.WithError(err).WithField("userID", userID.Hex()).Warn("Mood trend read failed, skipping evaluation")
		return result
	}

	for _, entry := range entries {
		day := truncateToDay(entry.DiaryDate.UTC())
		offset := int(day.Sub(from).Hours() / 24)
		if offset < 0 || offset >= trendWindowDays {
			continue
		}
		score := entry.FeelingScore
		result.Slots[offset] = &score
	}

	nonNull := 0
	total := 0
	for _, slot := range result.Slots {
		if slot != nil {
			nonNull++
			total += *slot
		}
	}

	savedToday := truncateToDay(justSavedEntryDate.UTC()).Equal(today)
	result.Alert = nonNull >= minScoredDays && total <= alertScoreSum && savedToday

	if result.Alert {
		logger.Log.WithFields(map[string]interface{}{
			"userID":     userID.Hex(),
			"scoredDays": nonNull,
			"total":      total,
		}).Info("Mood trend alert triggered")
	}

	return result
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
