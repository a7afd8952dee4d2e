package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aidana-b/moodiary/internal/models"
	"github.com/aidana-b/moodiary/internal/services"
	jwtutil "github.com/aidana-b/moodiary/pkg/jwt"
	"github.com/aidana-b/moodiary/pkg/logger"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	logger.InitLogger()
}

type staticEdgeStore struct {
	edges []models.FriendEdge
}

func (s *staticEdgeStore) CreateEdge(ctx context.Context, edge *models.FriendEdge) (*models.FriendEdge, error) {
	return edge, nil
}

func (s *staticEdgeStore) GetEdgeByID(ctx context.Context, ownerID, edgeID primitive.ObjectID) (*models.FriendEdge, error) {
	return nil, fmt.Errorf("edge not found")
}

func (s *staticEdgeStore) GetEdgesByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.FriendEdge, error) {
	var result []models.FriendEdge
	for _, edge := range s.edges {
		if edge.OwnerUserID == ownerID {
			result = append(result, edge)
		}
	}
	return result, nil
}

func (s *staticEdgeStore) GetEdgesTowardProfile(ctx context.Context, profileID primitive.ObjectID) ([]models.FriendEdge, error) {
	return nil, nil
}

func (s *staticEdgeStore) UpdateEdge(ctx context.Context, ownerID, edgeID primitive.ObjectID, fields bson.M) error {
	return nil
}

func (s *staticEdgeStore) DeleteEdge(ctx context.Context, ownerID, edgeID primitive.ObjectID) error {
	return nil
}

type staticProfileStore struct {
	profiles []*models.Profile
}

func (s *staticProfileStore) GetProfileByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error) {
	for _, profile := range s.profiles {
		if profile.ID == id {
			return profile, nil
		}
	}
	return nil, fmt.Errorf("profile not found")
}

func (s *staticProfileStore) GetProfileByOwner(ctx context.Context, ownerUserID primitive.ObjectID) (*models.Profile, error) {
	for _, profile := range s.profiles {
		if profile.OwnerUserID == ownerUserID {
			return profile, nil
		}
	}
	return nil, fmt.Errorf("profile not found")
}

func TestFriendListHub_ConcurrentPushes(t *testing.T) {
	owner := primitive.NewObjectID()
	friend := &models.Profile{
		ID:          primitive.NewObjectID(),
		OwnerUserID: primitive.NewObjectID(),
		Handle:      "h2",
		DisplayName: "Bekzat",
	}
	edges := &staticEdgeStore{edges: []models.FriendEdge{{
		ID:              primitive.NewObjectID(),
		OwnerUserID:     owner,
		FriendProfileID: friend.ID,
		Status:          models.EdgeStatusApproval,
		ShowDiary:       true,
	}}}
	profiles := &staticProfileStore{profiles: []*models.Profile{friend}}

	hub := NewFriendListHub(services.NewFriendListService(edges, profiles), "secret")

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	token, err := jwtutil.GenerateToken(owner.Hex(), "a@example.com", "user", "secret", time.Hour)
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Many mutations for the same user at once; every snapshot write on
	// the shared connection must be serialized.
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.EdgesChanged(owner)
		}()
	}
	wg.Wait()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Type    string                   `json:"type"`
		Friends []models.FriendListEntry `json:"friends"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "friend_list", msg.Type)
	require.Len(t, msg.Friends, 1)
	assert.Equal(t, "h2", msg.Friends[0].Handle)
}

func TestServeWS_RejectsBadToken(t *testing.T) {
	hub := NewFriendListHub(services.NewFriendListService(&staticEdgeStore{}, &staticProfileStore{}), "secret")

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?token=not-a-token"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
