package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mood labels a diary entry can carry, and the feeling score each maps to.
const (
	MoodGreat = "great"
	MoodGood  = "good"
	MoodOkay  = "okay"
	MoodBad   = "bad"
	MoodAwful = "awful"
)

var moodScores = map[string]int{
	MoodGreat: 10,
	MoodGood:  5,
	MoodOkay:  0,
	MoodBad:   -5,
	MoodAwful: -10,
}

// ScoreForMood maps a mood label to its feeling score.
func ScoreForMood(mood string) (int, error) {
	score, ok := moodScores[mood]
	if !ok {
		return 0, fmt.Errorf("unknown mood label %q", mood)
	}
	return score, nil
}

// DiaryEntry is one diary post. DiaryDate is the calendar date the entry
// is for, which may differ from when it was written.
type DiaryEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Title     string             `bson:"title" json:"title"`
	Body      string             `bson:"body" json:"body"`
	Mood      string             `bson:"mood" json:"mood"`
	DiaryDate time.Time          `bson:"diary_date" json:"diary_date"`
	ImageURL  string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// FeelingScoreEntry is the numeric mood value paired with one diary entry.
// It shares the diary entry's ObjectID: one score per entry, no separate
// id allocation.
type FeelingScoreEntry struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	FeelingScore int                `bson:"feeling_score" json:"feeling_score"`
	DiaryDate    time.Time          `bson:"diary_date" json:"diary_date"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}
