package chathub

import (
	"time"

	"videomatch/backend/internal/models"

	"github.com/google/uuid"
)

// FriendBroker keeps pending friend requests, the block list and the
// stable-id to connection map. Keys are stable user ids, never connection
// ids, so a request survives its sender reconnecting.
type FriendBroker struct {
	requests   map[string]*models.FriendRequest
	blocked    map[models.BlockedPair]struct{}
	identities map[string]string
	stored     map[string]models.Profile

	now   func() time.Time
	newID func() string
}

func NewFriendBroker(now func() time.Time) *FriendBroker {
	if now == nil {
		now = time.Now
	}
	return &FriendBroker{
		requests:   make(map[string]*models.FriendRequest),
		blocked:    make(map[models.BlockedPair]struct{}),
		identities: make(map[string]string),
		stored:     make(map[string]models.Profile),
		now:        now,
		newID:      func() string { return uuid.New().String() },
	}
}

// Bind points userID at connID. A stored profile, when given, becomes the
// requester snapshot used while the user has no registered participant.
func (b *FriendBroker) Bind(userID, connID string, stored *models.Profile) {
	b.identities[userID] = connID
	if stored != nil {
		b.stored[userID] = *stored
	}
}

// Release forgets every binding that still points at connID.
func (b *FriendBroker) Release(connID string) {
	for userID, bound := range b.identities {
		if bound == connID {
			delete(b.identities, userID)
		}
	}
}

// ConnFor resolves a stable id to its current connection.
func (b *FriendBroker) ConnFor(userID string) (string, bool) {
	connID, ok := b.identities[userID]
	return connID, ok
}

// StoredProfile returns the profile loaded for userID when it bound.
func (b *FriendBroker) StoredProfile(userID string) (models.Profile, bool) {
	p, ok := b.stored[userID]
	return p, ok
}

// IsBlocked checks the pair in both directions.
func (b *FriendBroker) IsBlocked(a, c string) bool {
	pair := models.BlockedPair{FromUserID: a, ToUserID: c}
	if _, ok := b.blocked[pair]; ok {
		return true
	}
	_, ok := b.blocked[pair.Reverse()]
	return ok
}

// Send stores a pending request from one stable id to another.
func (b *FriendBroker) Send(in models.SendFriendRequestPayload, requester models.Profile) (*models.FriendRequest, error) {
	if in.FromUserID == "" || in.ToUserID == "" || in.FromUserID == in.ToUserID {
		return nil, ErrInvalidInput
	}
	if b.IsBlocked(in.FromUserID, in.ToUserID) {
		return nil, ErrBlockedPairing
	}

	interests := requester.Interests
	if interests == nil {
		interests = []string{}
	}
	req := &models.FriendRequest{
		ID:                "req_" + b.newID(),
		FromUserID:        in.FromUserID,
		FromUserName:      requester.Name,
		FromUserAge:       requester.Age,
		FromUserInterests: interests,
		ToUserID:          in.ToUserID,
		ToUserName:        in.ToUserName,
		ToUserAge:         in.ToUserAge,
		Timestamp:         b.now().UnixMilli(),
		Status:            models.FriendRequestPending,
	}
	b.requests[req.ID] = req
	return req, nil
}

// Accept resolves a pending request and allocates the room both sides should
// move to. The request is gone afterwards; no block is recorded.
func (b *FriendBroker) Accept(requestID string) (*models.FriendRequest, string, error) {
	req, ok := b.requests[requestID]
	if !ok {
		return nil, "", ErrNotFound
	}
	delete(b.requests, requestID)

	req.Status = models.FriendRequestAccepted
	return req, "room_" + b.newID(), nil
}

// Cancel resolves a pending request and blocks the pair permanently.
func (b *FriendBroker) Cancel(requestID string) (*models.FriendRequest, error) {
	req, ok := b.requests[requestID]
	if !ok {
		return nil, ErrNotFound
	}
	delete(b.requests, requestID)

	req.Status = models.FriendRequestCancelled
	b.blocked[models.BlockedPair{FromUserID: req.FromUserID, ToUserID: req.ToUserID}] = struct{}{}
	return req, nil
}

// Pending reports the number of unresolved requests.
func (b *FriendBroker) Pending() int {
	return len(b.requests)
}
