package chathub

import "videomatch/backend/internal/models"

// onStop ends connID's current session and puts it straight back into the
// pool. The abandoned partner is told and re-queued after the grace interval.
func (m *ManagerService) onStop(connID string) {
	if sess, err := m.sessions.Get(connID); err == nil {
		m.send(sess.PartnerID, models.EventPartnerDisconnected, nil)
		m.scheduleRequeue(sess.PartnerID)
		m.sessions.Destroy(connID)
		m.log.Info("participant stopped", "conn", connID, "partner", sess.PartnerID)
	}

	m.enterMatchmaking(connID)
}

// onDisconnect purges every trace of a closed connection. Its partner, if
// any, is told and re-queued after the grace interval.
func (m *ManagerService) onDisconnect(connID string) {
	if sess, err := m.sessions.Get(connID); err == nil {
		m.send(sess.PartnerID, models.EventPartnerDisconnected, nil)
		m.sessions.Destroy(connID)
		m.scheduleRequeue(sess.PartnerID)
		m.log.Info("participant disconnected mid-session", "conn", connID, "partner", sess.PartnerID)
	}

	m.sessions.Destroy(connID)
	m.matcher.Leave(connID)
	m.registry.Remove(connID)
	m.friends.Release(connID)
}

func (m *ManagerService) scheduleRequeue(partnerID string) {
	m.scheduler.After(m.grace, func() { m.requeueAfterGrace(partnerID) })
}

// requeueAfterGrace runs on the hub loop once the grace interval is over.
// State may have moved on since the timer was armed, so everything is
// checked again here.
func (m *ManagerService) requeueAfterGrace(connID string) {
	if _, live := m.clients[connID]; !live {
		m.log.Debug("grace re-queue skipped, connection gone", "conn", connID)
		return
	}
	if m.sessions.Has(connID) || m.matcher.Position(connID) > 0 {
		m.log.Debug("grace re-queue skipped, already paired or waiting", "conn", connID)
		return
	}
	m.enterMatchmaking(connID)
}
