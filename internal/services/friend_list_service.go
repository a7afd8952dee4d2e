package services

import (
	"context"
	"fmt"

	"github.com/aidana-b/moodiary/internal/models"
	"github.com/aidana-b/moodiary/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendListService projects a user's friend edges into display-ready
// list entries by joining each edge against the counterpart's profile.
// The projection is recomputed in full on every change notification; no
// profile data is cached between runs, which is fine at the tens-of-
// friends scale this app targets.
type FriendListService struct {
	edges    FriendEdgeStore
	profiles ProfileStore
}

// NewFriendListService creates a new FriendListService.
func NewFriendListService(edges FriendEdgeStore, profiles ProfileStore) *FriendListService {
	return &FriendListService{
		edges:    edges,
		profiles: profiles,
	}
}

// Project reads all of the owner's edges in store order and resolves
// each counterpart profile. An edge whose profile cannot be resolved is
// dropped from the result, not reported as an error.
func (s *FriendListService) Project(ctx context.Context, ownerID primitive.ObjectID) ([]models.FriendListEntry, error) {
	edges, err := s.edges.GetEdgesByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch friend edges: %v", err)
	}

	entries := make([]models.FriendListEntry, 0, len(edges))
	for _, edge := range edges {
		profile, err := s.profiles.GetProfileByID(ctx, edge.FriendProfileID)
		if err != nil {
			logger.Log.WithFields(map[string]interface{}{
				"edgeID":    edge.ID.Hex(),
				"profileID": edge.FriendProfileID.Hex(),
			}).Warn("Dropping edge with unresolvable profile from projection")
			continue
		}

		entries = append(entries, models.FriendListEntry{
			EdgeID:          edge.ID,
			FriendProfileID: profile.ID,
			FriendUserID:    profile.OwnerUserID,
			Handle:          profile.Handle,
			DisplayName:     profile.DisplayName,
			AvatarURL:       profile.AvatarURL,
			Status:          edge.Status,
			Blocked:         edge.Blocked,
			NotifyOnDiary:   edge.NotifyOnDiary,
			ShowDiary:       edge.ShowDiary,
			NeedsApproval:   edge.Status == models.EdgeStatusAwaitingApproval,
		})
	}

	return entries, nil
}
