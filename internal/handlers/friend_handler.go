package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aidana-b/moodiary/internal/services"
	"github.com/aidana-b/moodiary/pkg/logger"
	"github.com/aidana-b/moodiary/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendHandler manages HTTP endpoints for the friend-edge state machine.
type FriendHandler struct {
	Relationships *services.RelationshipService
	FriendList    *services.FriendListService
	Users         *services.UserService
}

// NewFriendHandler initializes a new FriendHandler.
func NewFriendHandler(relationships *services.RelationshipService, friendList *services.FriendListService, users *services.UserService) *FriendHandler {
	return &FriendHandler{
		Relationships: relationships,
		FriendList:    friendList,
		Users:         users,
	}
}

// SendFriendRequestHandler creates the edge pair for a new friend request.
func (h *FriendHandler) SendFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		logger.Log.Warn("Unauthorized attempt to send friend request")
		return
	}

	var body struct {
		TargetProfileID string `json:"target_profile_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	targetProfileID, err := primitive.ObjectIDFromHex(body.TargetProfileID)
	if err != nil {
		http.Error(w, "Invalid profile ID", http.StatusBadRequest)
		logger.Log.Warnf("Invalid target profile ID: %v", err)
		return
	}

	requesterID, _ := primitive.ObjectIDFromHex(claims.UserID)

	requesterProfile, err := h.Users.GetProfileByOwner(r.Context(), requesterID)
	if err != nil {
		http.Error(w, "Failed to resolve own profile", http.StatusInternalServerError)
		logger.Log.Errorf("Failed to resolve requester profile: %v", err)
		return
	}

	target, err := h.Users.GetProfile(r.Context(), targetProfileID)
	if err != nil {
		http.Error(w, "Failed to resolve target profile", http.StatusNotFound)
		logger.Log.Warnf("Failed to resolve target profile: %v", err)
		return
	}

	if err := h.Relationships.Create(r.Context(), requesterID, targetProfileID, requesterProfile.Handle, target.Handle); err != nil {
		http.Error(w, "Failed to send friend request", http.StatusInternalServerError)
		logger.Log.Errorf("Failed to send friend request: %v", err)
		return
	}

	logger.Log.Infof("User %s sent a friend request to profile %s", claims.UserID, body.TargetProfileID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Friend request sent"})
}

// ApproveFriendRequestHandler accepts a request awaiting the caller's approval.
func (h *FriendHandler) ApproveFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		logger.Log.Warn("Unauthorized attempt to approve friend request")
		return
	}

	vars := mux.Vars(r)
	edgeID, err := primitive.ObjectIDFromHex(vars["edgeId"])
	if err != nil {
		http.Error(w, "Invalid edge ID", http.StatusBadRequest)
		return
	}

	ownerID, _ := primitive.ObjectIDFromHex(claims.UserID)

	counterpartUserID, counterpartEdgeID, err := h.Relationships.ResolveCounterpartEdge(r.Context(), ownerID, edgeID)
	if err != nil {
		http.Error(w, "Failed to resolve counterpart edge", http.StatusNotFound)
		logger.Log.Warnf("Failed to resolve counterpart edge: %v", err)
		return
	}

	if err := h.Relationships.Approve(r.Context(), ownerID, edgeID, counterpartUserID, counterpartEdgeID); err != nil {
		http.Error(w, "Failed to update status", http.StatusInternalServerError)
		logger.Log.Errorf("Failed to approve friend request: %v", err)
		return
	}

	logger.Log.Infof("User %s approved friend edge %s", claims.UserID, vars["edgeId"])
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Friend request approved"})
}

// UpdateBlockStatusHandler toggles the block state of a relationship.
func (h *FriendHandler) UpdateBlockStatusHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		logger.Log.Warn("Unauthorized attempt to update block status")
		return
	}

	vars := mux.Vars(r)
	edgeID, err := primitive.ObjectIDFromHex(vars["edgeId"])
	if err != nil {
		http.Error(w, "Invalid edge ID", http.StatusBadRequest)
		return
	}

	var body struct {
		CurrentlyBlocked bool `json:"currently_blocked"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	ownerID, _ := primitive.ObjectIDFromHex(claims.UserID)

	counterpartUserID, counterpartEdgeID, err := h.Relationships.ResolveCounterpartEdge(r.Context(), ownerID, edgeID)
	if err != nil {
		http.Error(w, "Failed to resolve counterpart edge", http.StatusNotFound)
		logger.Log.Warnf("Failed to resolve counterpart edge: %v", err)
		return
	}

	if err := h.Relationships.UpdateBlockStatus(r.Context(), ownerID, edgeID, counterpartUserID, counterpartEdgeID, body.CurrentlyBlocked); err != nil {
		http.Error(w, "Failed to update status", http.StatusInternalServerError)
		logger.Log.Errorf("Failed to update block status: %v", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Block status updated"})
}

// RemoveFriendHandler deletes both sides of a relationship.
func (h *FriendHandler) RemoveFriendHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		logger.Log.Warn("Unauthorized attempt to remove friend")
		return
	}

	vars := mux.Vars(r)
	edgeID, err := primitive.ObjectIDFromHex(vars["edgeId"])
	if err != nil {
		http.Error(w, "Invalid edge ID", http.StatusBadRequest)
		return
	}

	ownerID, _ := primitive.ObjectIDFromHex(claims.UserID)

	counterpartUserID, counterpartEdgeID, err := h.Relationships.ResolveCounterpartEdge(r.Context(), ownerID, edgeID)
	if err != nil {
		http.Error(w, "Failed to resolve counterpart edge", http.StatusNotFound)
		logger.Log.Warnf("Failed to resolve counterpart edge: %v", err)
		return
	}

	if err := h.Relationships.Remove(r.Context(), ownerID, edgeID, counterpartUserID, counterpartEdgeID); err != nil {
		http.Error(w, "Failed to remove friend", http.StatusInternalServerError)
		logger.Log.Errorf("Failed to remove friend: %v", err)
		return
	}

	logger.Log.Infof("User %s removed friend edge %s", claims.UserID, vars["edgeId"])
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Friend removed"})
}

// GetFriendsHandler returns the caller's projected friend list.
func (h *FriendHandler) GetFriendsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		logger.Log.Warn("Unauthorized attempt to get friends")
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	friends, err := h.FriendList.Project(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to get friends", http.StatusInternalServerError)
		logger.Log.Errorf("Failed to project friend list for user %s: %v", claims.UserID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(friends)
}

// GetPendingApprovalsHandler shows requests awaiting the caller's approval.
func (h *FriendHandler) GetPendingApprovalsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		logger.Log.Warn("Unauthorized attempt to get pending requests")
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	pending, err := h.Relationships.GetPendingApprovals(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to get requests", http.StatusInternalServerError)
		logger.Log.Errorf("Failed to get pending approvals: %v", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pending)
}
