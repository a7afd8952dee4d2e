package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/aidana-b/moodiary/internal/models"
	"github.com/aidana-b/moodiary/internal/services"
	"github.com/aidana-b/moodiary/pkg/logger"
	"github.com/aidana-b/moodiary/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const defaultFeedLimit = 50

// DiaryHandler manages HTTP endpoints for diary entries.
type DiaryHandler struct {
	Service *services.DiaryService
}

// NewDiaryHandler initializes a new DiaryHandler.
func NewDiaryHandler(service *services.DiaryService) *DiaryHandler {
	return &DiaryHandler{Service: service}
}

// CreateEntryHandler saves a new diary entry. The response carries the
// mood-trend result so the client can show the mental-health-check
// prompt when the alert fired.
func (h *DiaryHandler) CreateEntryHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		logger.Log.Warn("Unauthorized attempt to create diary entry")
		return
	}

	var body struct {
		Title     string `json:"title"`
		Body      string `json:"body"`
		Mood      string `json:"mood"`
		DiaryDate string `json:"diary_date"` // YYYY-MM-DD
		ImageURL  string `json:"image_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	diaryDate, err := time.Parse("2006-01-02", body.DiaryDate)
	if err != nil {
		http.Error(w, "Invalid diary date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	entry := &models.DiaryEntry{
		UserID:    userID,
		Title:     body.Title,
		Body:      body.Body,
		Mood:      body.Mood,
		DiaryDate: diaryDate,
		ImageURL:  body.ImageURL,
	}

	created, trend, err := h.Service.CreateEntry(r.Context(), entry)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		logger.Log.Warnf("Failed to create diary entry: %v", err)
		return
	}

	logger.Log.Infof("User %s created diary entry %s", claims.UserID, created.ID.Hex())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"entry": created,
		"trend": trend,
	})
}

// GetEntriesHandler returns the caller's own diary feed.
func (h *DiaryHandler) GetEntriesHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	limit := int64(defaultFeedLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := h.Service.GetEntries(r.Context(), userID, limit)
	if err != nil {
		http.Error(w, "Failed to fetch diary entries", http.StatusInternalServerError)
		logger.Log.Errorf("Failed to fetch diary entries: %v", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// GetEntryHandler fetches one of the caller's entries.
func (h *DiaryHandler) GetEntryHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	entryID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid entry ID", http.StatusBadRequest)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	entry, err := h.Service.GetEntry(r.Context(), userID, entryID)
	if err != nil {
		http.Error(w, "Diary entry not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entry)
}

// GetFriendEntriesHandler returns a friend's diary feed when visible.
func (h *DiaryHandler) GetFriendEntriesHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	profileID, err := primitive.ObjectIDFromHex(vars["profileId"])
	if err != nil {
		http.Error(w, "Invalid profile ID", http.StatusBadRequest)
		return
	}

	viewerID, _ := primitive.ObjectIDFromHex(claims.UserID)

	entries, err := h.Service.GetFriendEntries(r.Context(), viewerID, profileID, defaultFeedLimit)
	if err != nil {
		http.Error(w, "Friend diary is not visible", http.StatusForbidden)
		logger.Log.Warnf("Friend diary fetch rejected: %v", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// UpdateEntryHandler edits an entry and its paired score.
func (h *DiaryHandler) UpdateEntryHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	entryID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid entry ID", http.StatusBadRequest)
		return
	}

	var body struct {
		Title string `json:"title"`
		Body  string `json:"body"`
		Mood  string `json:"mood"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	entry, err := h.Service.UpdateEntry(r.Context(), userID, entryID, body.Title, body.Body, body.Mood)
	if err != nil {
		http.Error(w, "Failed to update diary entry", http.StatusInternalServerError)
		logger.Log.Errorf("Failed to update diary entry: %v", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entry)
}

// DeleteEntryHandler removes an entry and its paired score.
func (h *DiaryHandler) DeleteEntryHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	entryID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid entry ID", http.StatusBadRequest)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	if err := h.Service.DeleteEntry(r.Context(), userID, entryID); err != nil {
		http.Error(w, "Failed to delete diary entry", http.StatusInternalServerError)
		logger.Log.Errorf("Failed to delete diary entry: %v", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Diary entry deleted"})
}
