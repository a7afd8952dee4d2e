package services

import (
	"context"
	"fmt"

	"github.com/aidana-b/moodiary/internal/models"
	"github.com/aidana-b/moodiary/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RelationshipService owns the friend-edge pair state machine. Every
// operation that touches both sides of a relationship issues two
// sequential single-document writes, owner's edge first. The second
// write only runs after the first succeeds, and there is no rollback:
// a failed second write leaves the pair half-applied and the error is
// reported to the caller.
type RelationshipService struct {
	edges    FriendEdgeStore
	profiles ProfileStore
	notifier EdgeChangeNotifier
}

// NewRelationshipService creates a new RelationshipService.
func NewRelationshipService(edges FriendEdgeStore, profiles ProfileStore, notifier EdgeChangeNotifier) *RelationshipService {
	return &RelationshipService{
		edges:    edges,
		profiles: profiles,
		notifier: notifier,
	}
}

func (s *RelationshipService) edgesChanged(userIDs ...primitive.ObjectID) {
	if s.notifier != nil {
		s.notifier.EdgesChanged(userIDs...)
	}
}

// Create sends a friend request from requester to the owner of the
// target profile. It writes the requester's edge (pending) and then the
// target's edge (awaitingApproval). Missing arguments, self-friending
// and duplicate handles are silent no-ops.
func (s *RelationshipService) Create(ctx context.Context, requesterID, targetProfileID primitive.ObjectID, requesterHandle, targetHandle string) error {
	if requesterID.IsZero() || targetProfileID.IsZero() || requesterHandle == "" || targetHandle == "" {
		logger.Log.Warn("Friend request with missing arguments ignored")
		return nil
	}

	targetProfile, err := s.profiles.GetProfileByID(ctx, targetProfileID)
	if err != nil {
		return fmt.Errorf("failed to resolve target profile: %v", err)
	}

	// Self-friending is rejected at creation.
	if targetProfile.OwnerUserID == requesterID {
		logger.Log.WithField("userID", requesterID.Hex()).Warn("Self friend request ignored")
		return nil
	}

	existing, err := s.edges.GetEdgesByOwner(ctx, requesterID)
	if err != nil {
		return fmt.Errorf("failed to check existing edges: %v", err)
	}
	for _, edge := range existing {
		if edge.FriendAccountHandle == targetHandle {
			logger.Log.WithFields(map[string]interface{}{
				"userID": requesterID.Hex(),
				"handle": targetHandle,
			}).Warn("Duplicate friend request ignored")
			return nil
		}
	}

	requesterProfile, err := s.profiles.GetProfileByOwner(ctx, requesterID)
	if err != nil {
		return fmt.Errorf("failed to resolve requester profile: %v", err)
	}

	requesterEdge := &models.FriendEdge{
		OwnerUserID:         requesterID,
		FriendProfileID:     targetProfileID,
		FriendAccountHandle: targetHandle,
		Status:              models.EdgeStatusPending,
		NotifyOnDiary:       true,
		ShowDiary:           true,
	}
	if _, err := s.edges.CreateEdge(ctx, requesterEdge); err != nil {
		return fmt.Errorf("failed to create requester edge: %v", err)
	}

	targetEdge := &models.FriendEdge{
		OwnerUserID:         targetProfile.OwnerUserID,
		FriendProfileID:     requesterProfile.ID,
		FriendAccountHandle: requesterHandle,
		Status:              models.EdgeStatusAwaitingApproval,
		NotifyOnDiary:       true,
		ShowDiary:           true,
	}
	if _, err := s.edges.CreateEdge(ctx, targetEdge); err != nil {
		// The requester's edge is already written; the pair is left
		// one-sided and the failure is surfaced to the caller.
		logger.Log.WithError(err).Error("Second edge write failed, relationship left one-sided")
		return fmt.Errorf("failed to create target edge: %v", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"requester": requesterID.Hex(),
		"target":    targetProfile.OwnerUserID.Hex(),
	}).Info("Friend request created")

	s.edgesChanged(requesterID, targetProfile.OwnerUserID)
	return nil
}

// Approve accepts a pending friend request. The approving side's edge
// moves awaitingApproval -> approval, then the requester's edge moves
// pending -> approval.
func (s *RelationshipService) Approve(ctx context.Context, ownerID, ownerEdgeID, counterpartUserID, counterpartEdgeID primitive.ObjectID) error {
	if ownerID.IsZero() || ownerEdgeID.IsZero() || counterpartUserID.IsZero() || counterpartEdgeID.IsZero() {
		logger.Log.Warn("Approve with missing arguments ignored")
		return nil
	}

	ownerEdge, err := s.edges.GetEdgeByID(ctx, ownerID, ownerEdgeID)
	if err != nil {
		return fmt.Errorf("failed to find own edge: %v", err)
	}
	// Only an edge still awaiting approval may be approved; a repeated
	// approve on a blocked or already-approved pair changes nothing.
	if ownerEdge.Status != models.EdgeStatusAwaitingApproval {
		logger.Log.WithFields(map[string]interface{}{
			"edgeID": ownerEdgeID.Hex(),
			"status": ownerEdge.Status,
		}).Warn("Approve on an edge not awaiting approval ignored")
		return nil
	}

	if err := s.edges.UpdateEdge(ctx, ownerID, ownerEdgeID, bson.M{"status": models.EdgeStatusApproval}); err != nil {
		return fmt.Errorf("failed to approve own edge: %v", err)
	}

	if err := s.edges.UpdateEdge(ctx, counterpartUserID, counterpartEdgeID, bson.M{"status": models.EdgeStatusApproval}); err != nil {
		logger.Log.WithError(err).Error("Counterpart approve write failed, pair left inconsistent")
		return fmt.Errorf("failed to approve counterpart edge: %v", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"owner":       ownerID.Hex(),
		"counterpart": counterpartUserID.Hex(),
	}).Info("Friend request approved")

	s.edgesChanged(ownerID, counterpartUserID)
	return nil
}

// UpdateBlockStatus toggles the block state of a relationship. The
// owner's edge gets status "block", the counterpart's "unavailable"
// (or both back to "approval" on unblock). NotifyOnDiary and ShowDiary
// on both edges always reflect the new blocked state.
func (s *RelationshipService) UpdateBlockStatus(ctx context.Context, ownerID, ownerEdgeID, counterpartUserID, counterpartEdgeID primitive.ObjectID, currentlyBlocked bool) error {
	if ownerID.IsZero() || ownerEdgeID.IsZero() || counterpartUserID.IsZero() || counterpartEdgeID.IsZero() {
		logger.Log.Warn("Block update with missing arguments ignored")
		return nil
	}

	blocked := !currentlyBlocked

	ownerStatus := models.EdgeStatusApproval
	counterpartStatus := models.EdgeStatusApproval
	if blocked {
		ownerStatus = models.EdgeStatusBlock
		counterpartStatus = models.EdgeStatusUnavailable
	}

	ownerFields := bson.M{
		"status":          ownerStatus,
		"blocked":         blocked,
		"notify_on_diary": !blocked,
		"show_diary":      !blocked,
	}
	if err := s.edges.UpdateEdge(ctx, ownerID, ownerEdgeID, ownerFields); err != nil {
		return fmt.Errorf("failed to update own edge block status: %v", err)
	}

	counterpartFields := bson.M{
		"status":          counterpartStatus,
		"blocked":         blocked,
		"notify_on_diary": !blocked,
		"show_diary":      !blocked,
	}
	if err := s.edges.UpdateEdge(ctx, counterpartUserID, counterpartEdgeID, counterpartFields); err != nil {
		logger.Log.WithError(err).Error("Counterpart block write failed, pair left inconsistent")
		return fmt.Errorf("failed to update counterpart edge block status: %v", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"owner":       ownerID.Hex(),
		"counterpart": counterpartUserID.Hex(),
		"blocked":     blocked,
	}).Info("Block status updated")

	s.edgesChanged(ownerID, counterpartUserID)
	return nil
}

// Remove deletes both edges of a relationship, owner's side first. A
// failed second delete leaves the relationship half-deleted.
func (s *RelationshipService) Remove(ctx context.Context, ownerID, ownerEdgeID, counterpartUserID, counterpartEdgeID primitive.ObjectID) error {
	if ownerID.IsZero() || ownerEdgeID.IsZero() || counterpartUserID.IsZero() || counterpartEdgeID.IsZero() {
		logger.Log.Warn("Friend removal with missing arguments ignored")
		return nil
	}

	if err := s.edges.DeleteEdge(ctx, ownerID, ownerEdgeID); err != nil {
		return fmt.Errorf("failed to delete own edge: %v", err)
	}

	if err := s.edges.DeleteEdge(ctx, counterpartUserID, counterpartEdgeID); err != nil {
		logger.Log.WithError(err).Error("Counterpart delete failed, relationship half-deleted")
		return fmt.Errorf("failed to delete counterpart edge: %v", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"owner":       ownerID.Hex(),
		"counterpart": counterpartUserID.Hex(),
	}).Info("Friendship removed")

	s.edgesChanged(ownerID, counterpartUserID)
	return nil
}

// ResolveCounterpartEdge finds the mirror edge of one of the owner's
// edges: the record the other user owns that points back at the owner's
// profile. Returns an error when the pair is half-applied and no mirror
// exists.
func (s *RelationshipService) ResolveCounterpartEdge(ctx context.Context, ownerID, ownerEdgeID primitive.ObjectID) (primitive.ObjectID, primitive.ObjectID, error) {
	ownerEdge, err := s.edges.GetEdgeByID(ctx, ownerID, ownerEdgeID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, fmt.Errorf("failed to find own edge: %v", err)
	}

	counterpartProfile, err := s.profiles.GetProfileByID(ctx, ownerEdge.FriendProfileID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, fmt.Errorf("failed to resolve counterpart profile: %v", err)
	}

	ownerProfile, err := s.profiles.GetProfileByOwner(ctx, ownerID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, fmt.Errorf("failed to resolve own profile: %v", err)
	}

	counterpartEdges, err := s.edges.GetEdgesByOwner(ctx, counterpartProfile.OwnerUserID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, fmt.Errorf("failed to fetch counterpart edges: %v", err)
	}

	for _, edge := range counterpartEdges {
		if edge.FriendProfileID == ownerProfile.ID {
			return counterpartProfile.OwnerUserID, edge.ID, nil
		}
	}

	return primitive.NilObjectID, primitive.NilObjectID, fmt.Errorf("counterpart edge not found")
}

// GetPendingApprovals returns the owner's edges still awaiting their
// approval, for the confirmation prompt. The prompt is derived from
// edge state on every read, so it shows until acted upon.
func (s *RelationshipService) GetPendingApprovals(ctx context.Context, ownerID primitive.ObjectID) ([]models.FriendEdge, error) {
	edges, err := s.edges.GetEdgesByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch edges: %v", err)
	}

	var pending []models.FriendEdge
	for _, edge := range edges {
		if edge.Status == models.EdgeStatusAwaitingApproval {
			pending = append(pending, edge)
		}
	}
	return pending, nil
}
