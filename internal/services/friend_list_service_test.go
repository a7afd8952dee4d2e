package services

import (
	"context"
	"testing"

	"github.com/aidana-b/moodiary/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProject_JoinsEdgesWithProfiles(t *testing.T) {
	edges := &fakeEdgeStore{}
	profiles := &fakeProfileStore{}
	owner := primitive.NewObjectID()

	first := profiles.add(primitive.NewObjectID(), "h2", "Bekzat")
	second := profiles.add(primitive.NewObjectID(), "h3", "Carol")

	edges.edges = append(edges.edges,
		&models.FriendEdge{
			ID:              primitive.NewObjectID(),
			OwnerUserID:     owner,
			FriendProfileID: first.ID,
			Status:          models.EdgeStatusApproval,
			ShowDiary:       true,
		},
		&models.FriendEdge{
			ID:              primitive.NewObjectID(),
			OwnerUserID:     owner,
			FriendProfileID: second.ID,
			Status:          models.EdgeStatusPending,
		},
	)

	svc := NewFriendListService(edges, profiles)
	entries, err := svc.Project(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Store read order is preserved.
	assert.Equal(t, "Bekzat", entries[0].DisplayName)
	assert.Equal(t, "h2", entries[0].Handle)
	assert.Equal(t, first.OwnerUserID, entries[0].FriendUserID)
	assert.Equal(t, models.EdgeStatusApproval, entries[0].Status)
	assert.True(t, entries[0].ShowDiary)

	assert.Equal(t, "Carol", entries[1].DisplayName)
	assert.Equal(t, models.EdgeStatusPending, entries[1].Status)
}

func TestProject_DropsUnresolvableProfiles(t *testing.T) {
	edges := &fakeEdgeStore{}
	profiles := &fakeProfileStore{}
	owner := primitive.NewObjectID()

	known := profiles.add(primitive.NewObjectID(), "h2", "Bekzat")

	edges.edges = append(edges.edges,
		&models.FriendEdge{
			ID:              primitive.NewObjectID(),
			OwnerUserID:     owner,
			FriendProfileID: primitive.NewObjectID(), // no such profile
			Status:          models.EdgeStatusApproval,
		},
		&models.FriendEdge{
			ID:              primitive.NewObjectID(),
			OwnerUserID:     owner,
			FriendProfileID: known.ID,
			Status:          models.EdgeStatusApproval,
		},
	)

	svc := NewFriendListService(edges, profiles)
	entries, err := svc.Project(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, entries, 1, "edge with missing profile is dropped, not an error")
	assert.Equal(t, "Bekzat", entries[0].DisplayName)
}

func TestProject_Idempotent(t *testing.T) {
	edges := &fakeEdgeStore{}
	profiles := &fakeProfileStore{}
	owner := primitive.NewObjectID()

	friend := profiles.add(primitive.NewObjectID(), "h2", "Bekzat")
	edges.edges = append(edges.edges, &models.FriendEdge{
		ID:              primitive.NewObjectID(),
		OwnerUserID:     owner,
		FriendProfileID: friend.ID,
		Status:          models.EdgeStatusApproval,
	})

	svc := NewFriendListService(edges, profiles)

	first, err := svc.Project(context.Background(), owner)
	require.NoError(t, err)
	second, err := svc.Project(context.Background(), owner)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestProject_FlagsEdgesAwaitingApproval(t *testing.T) {
	edges := &fakeEdgeStore{}
	profiles := &fakeProfileStore{}
	owner := primitive.NewObjectID()

	requester := profiles.add(primitive.NewObjectID(), "h2", "Bekzat")
	edges.edges = append(edges.edges, &models.FriendEdge{
		ID:              primitive.NewObjectID(),
		OwnerUserID:     owner,
		FriendProfileID: requester.ID,
		Status:          models.EdgeStatusAwaitingApproval,
	})

	svc := NewFriendListService(edges, profiles)
	entries, err := svc.Project(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].NeedsApproval)
}

func TestProject_EmptyListForNoEdges(t *testing.T) {
	svc := NewFriendListService(&fakeEdgeStore{}, &fakeProfileStore{})

	entries, err := svc.Project(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
