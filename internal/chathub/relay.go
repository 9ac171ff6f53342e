package chathub

import (
	"encoding/json"

	"videomatch/backend/internal/models"
)

// relay forwards a signaling or chat payload to the sender's partner.
// Negotiation blobs stay opaque; only the envelope is read to stamp the
// sender. Without a session the message is dropped with ErrNotFound, which
// is the normal outcome for traffic racing a teardown.
func (m *ManagerService) relay(connID, kind string, data json.RawMessage) error {
	sess, err := m.sessions.Get(connID)
	if err != nil {
		return err
	}

	var payload any
	switch kind {
	case models.EventChatMessage:
		sender, err := m.registry.Get(connID)
		if err != nil {
			return err
		}
		payload = models.ChatPayload{
			Message:   data,
			From:      sender.Profile.Name,
			Timestamp: m.now().UnixMilli(),
		}
	default:
		var signal models.SignalPayload
		if err := decode(data, &signal); err != nil {
			return err
		}
		signal.From = connID
		payload = signal
	}

	if !m.send(sess.PartnerID, kind, payload) {
		return ErrNotFound
	}
	return nil
}
