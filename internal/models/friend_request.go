package models

// FriendRequestStatus is the lifecycle state of a FriendRequest.
type FriendRequestStatus string

const (
	FriendRequestPending   FriendRequestStatus = "pending"
	FriendRequestAccepted  FriendRequestStatus = "accepted"
	FriendRequestCancelled FriendRequestStatus = "cancelled"
)

// FriendRequest is an invitation from one stable user to another to meet
// again in a dedicated session. The requester fields are a snapshot taken
// when the request was sent.
type FriendRequest struct {
	ID                string              `json:"id"`
	FromUserID        string              `json:"fromUserId"`
	FromUserName      string              `json:"fromUserName"`
	FromUserAge       int                 `json:"fromUserAge"`
	FromUserInterests []string            `json:"fromUserInterests"`
	ToUserID          string              `json:"toUserId"`
	ToUserName        string              `json:"toUserName,omitempty"`
	ToUserAge         int                 `json:"toUserAge,omitempty"`
	Timestamp         int64               `json:"timestamp"`
	Status            FriendRequestStatus `json:"status"`
}

// BlockedPair is a directed (requester, recipient) record created when a
// request is cancelled. Lookups check both directions.
type BlockedPair struct {
	FromUserID string
	ToUserID   string
}

// Reverse returns the pair with its direction flipped.
func (p BlockedPair) Reverse() BlockedPair {
	return BlockedPair{FromUserID: p.ToUserID, ToUserID: p.FromUserID}
}
