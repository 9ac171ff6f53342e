package chathub

import (
	"encoding/json"

	"videomatch/backend/internal/models"
)

func (m *ManagerService) bindIdentity(in models.Inbound) error {
	var p models.FriendSystemPayload
	if len(in.Data) > 0 {
		if err := decode(in.Data, &p); err != nil && in.Identity == nil {
			return err
		}
	}

	userID := p.UserID
	var stored *models.Profile
	if in.Identity != nil {
		if in.Identity.UserID != "" {
			userID = in.Identity.UserID
		}
		stored = in.Identity.Stored
	}
	if userID == "" {
		return ErrInvalidInput
	}

	m.friends.Bind(userID, in.ConnID, stored)
	m.log.Info("friend system registered", "user", userID, "conn", in.ConnID)
	return nil
}

// requesterSnapshot prefers the live participant behind userID and falls
// back to the profile stored when the user bound.
func (m *ManagerService) requesterSnapshot(userID string) (models.Profile, error) {
	if connID, ok := m.friends.ConnFor(userID); ok {
		if p, err := m.registry.Get(connID); err == nil {
			return p.Profile, nil
		}
	}
	if p, ok := m.friends.StoredProfile(userID); ok {
		return p, nil
	}
	return models.Profile{}, ErrNotFound
}

func (m *ManagerService) sendFriendRequest(connID string, data json.RawMessage) error {
	var p models.SendFriendRequestPayload
	if err := decode(data, &p); err != nil {
		return err
	}
	if m.friends.IsBlocked(p.FromUserID, p.ToUserID) {
		return ErrBlockedPairing
	}
	requester, err := m.requesterSnapshot(p.FromUserID)
	if err != nil {
		return err
	}
	req, err := m.friends.Send(p, requester)
	if err != nil {
		return err
	}

	recipient, ok := m.friends.ConnFor(p.ToUserID)
	if !ok || !m.send(recipient, models.EventFriendRequestReceived, *req) {
		// Undelivered requests stay pending; nothing re-delivers them.
		m.log.Debug("friend request stored undelivered", "request", req.ID, "to", p.ToUserID)
		return nil
	}
	m.log.Info("friend request sent", "request", req.ID, "from", p.FromUserID, "to", p.ToUserID, "conn", connID)
	return nil
}

func (m *ManagerService) acceptFriendRequest(connID string, data json.RawMessage) error {
	var ref models.FriendRequestRef
	if err := decode(data, &ref); err != nil {
		return err
	}
	req, roomID, err := m.friends.Accept(ref.RequestID)
	if err != nil {
		return err
	}

	payload := models.FriendRequestAcceptedPayload{RequestID: req.ID, RoomID: roomID}
	if requester, ok := m.friends.ConnFor(req.FromUserID); ok && requester != connID {
		m.send(requester, models.EventFriendRequestAccepted, payload)
	}
	m.send(connID, models.EventFriendRequestAccepted, payload)
	m.log.Info("friend request accepted", "request", req.ID, "room", roomID)
	return nil
}

func (m *ManagerService) cancelFriendRequest(connID string, data json.RawMessage) error {
	var ref models.FriendRequestRef
	if err := decode(data, &ref); err != nil {
		return err
	}
	req, err := m.friends.Cancel(ref.RequestID)
	if err != nil {
		return err
	}

	if requester, ok := m.friends.ConnFor(req.FromUserID); ok {
		m.send(requester, models.EventFriendRequestCancelled,
			models.FriendRequestCancelledPayload{RequestID: req.ID, UserID: req.ToUserID})
	}
	m.log.Info("friend request cancelled, pair blocked", "request", req.ID, "by", connID)
	return nil
}
