package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/aidana-b/moodiary/internal/services"
	jwtutil "github.com/aidana-b/moodiary/pkg/jwt"
	"github.com/aidana-b/moodiary/pkg/logger"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// FriendListHub pushes full friend-list snapshots to connected clients.
// Every edge mutation triggers a complete re-projection from the store;
// the client always receives the whole current list, never a diff.
type FriendListHub struct {
	FriendList *services.FriendListService
	JWTSecret  string

	clientsMu sync.Mutex
	clients   map[string]*websocket.Conn
}

// NewFriendListHub creates a new FriendListHub.
func NewFriendListHub(friendList *services.FriendListService, jwtSecret string) *FriendListHub {
	return &FriendListHub{
		FriendList: friendList,
		JWTSecret:  jwtSecret,
		clients:    make(map[string]*websocket.Conn),
	}
}

// ServeWS upgrades the connection and registers the user for snapshots.
// The first snapshot is pushed immediately after connect.
func (h *FriendListHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}
	claims, err := jwtutil.ValidateToken(token, h.JWTSecret)
	if err != nil {
		logger.Log.WithError(err).Warn("WebSocket auth failed")
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}
	userID := claims.UserID

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	h.clientsMu.Lock()
	if old, ok := h.clients[userID]; ok {
		old.Close()
	}
	h.clients[userID] = conn
	h.clientsMu.Unlock()

	logger.Log.WithField("userID", userID).Info("Friend list subscription opened")

	h.pushSnapshot(userID)

	// Reads are only used to detect disconnect; unsubscribing cancels
	// future snapshots, not writes already in flight elsewhere.
	go func() {
		defer func() {
			h.clientsMu.Lock()
			if h.clients[userID] == conn {
				delete(h.clients, userID)
			}
			h.clientsMu.Unlock()
			conn.Close()
			logger.Log.WithField("userID", userID).Info("Friend list subscription closed")
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// EdgesChanged re-projects and pushes the friend list of every affected
// user that currently holds a subscription. Implements
// services.EdgeChangeNotifier.
func (h *FriendListHub) EdgesChanged(userIDs ...primitive.ObjectID) {
	for _, userID := range userIDs {
		h.pushSnapshot(userID.Hex())
	}
}

func (h *FriendListHub) pushSnapshot(userID string) {
	h.clientsMu.Lock()
	_, ok := h.clients[userID]
	h.clientsMu.Unlock()
	if !ok {
		return
	}

	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entries, err := h.FriendList.Project(ctx, objID)
	if err != nil {
		logger.Log.WithError(err).WithField("userID", userID).Warn("Friend list projection failed, skipping push")
		return
	}

	// The mutex stays held for the write itself: the websocket library
	// supports only one concurrent writer per connection.
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	conn, ok := h.clients[userID]
	if !ok {
		return
	}

	if err := conn.WriteJSON(map[string]interface{}{
		"type":    "friend_list",
		"friends": entries,
	}); err != nil {
		logger.Log.WithError(err).WithField("userID", userID).Warn("Failed to push friend list snapshot")
	}
}
