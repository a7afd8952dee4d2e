package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Friend edge statuses. A relationship between two users is a pair of
// edges, one owned by each side, whose statuses move together:
//
//	request:  requester pending / target awaitingApproval
//	approve:  both approval
//	block:    blocker block / blocked side unavailable
//	unblock:  both back to approval
const (
	EdgeStatusPending          = "pending"
	EdgeStatusAwaitingApproval = "awaitingApproval"
	EdgeStatusApproval         = "approval"
	EdgeStatusBlock            = "block"
	EdgeStatusUnavailable      = "unavailable"
)

// FriendEdge is one user's one-directional record of a relationship.
type FriendEdge struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerUserID         primitive.ObjectID `bson:"owner_user_id" json:"owner_user_id"`
	FriendProfileID     primitive.ObjectID `bson:"friend_profile_id" json:"friend_profile_id"`
	FriendAccountHandle string             `bson:"friend_account_handle" json:"friend_account_handle"`
	Status              string             `bson:"status" json:"status"`
	Blocked             bool               `bson:"blocked" json:"blocked"` // legacy denormalization of Status
	NotifyOnDiary       bool               `bson:"notify_on_diary" json:"notify_on_diary"`
	ShowDiary           bool               `bson:"show_diary" json:"show_diary"`
	CreatedAt           time.Time          `bson:"created_at" json:"created_at"`
}

// FriendListEntry is a friend edge joined with the counterpart's profile,
// as delivered to friend-list screens.
type FriendListEntry struct {
	EdgeID          primitive.ObjectID `json:"edge_id"`
	FriendProfileID primitive.ObjectID `json:"friend_profile_id"`
	FriendUserID    primitive.ObjectID `json:"friend_user_id"`
	Handle          string             `json:"handle"`
	DisplayName     string             `json:"display_name"`
	AvatarURL       string             `json:"avatar_url,omitempty"`
	Status          string             `json:"status"`
	Blocked         bool               `json:"blocked"`
	NotifyOnDiary   bool               `json:"notify_on_diary"`
	ShowDiary       bool               `json:"show_diary"`
	NeedsApproval   bool               `json:"needs_approval"` // edge still in awaitingApproval
}
