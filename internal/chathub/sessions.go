package chathub

import (
	"time"

	"videomatch/backend/internal/models"
)

// SessionTable stores every active pairing as two mirrored records.
// Access goes through Get and Destroy so the mirror is kept structurally.
type SessionTable struct {
	records map[string]models.Session
	now     func() time.Time
}

func NewSessionTable(now func() time.Time) *SessionTable {
	if now == nil {
		now = time.Now
	}
	return &SessionTable{
		records: make(map[string]models.Session),
		now:     now,
	}
}

// Create pairs initiator with answerer. Any session either side was still
// part of is torn down first, so no half-session survives.
func (t *SessionTable) Create(initiator, answerer string) (models.Session, models.Session, error) {
	if initiator == "" || answerer == "" || initiator == answerer {
		return models.Session{}, models.Session{}, ErrInvalidInput
	}

	t.Destroy(initiator)
	t.Destroy(answerer)

	started := t.now()
	a := models.Session{ConnID: initiator, PartnerID: answerer, Initiator: true, StartedAt: started}
	b := models.Session{ConnID: answerer, PartnerID: initiator, Initiator: false, StartedAt: started}
	t.records[initiator] = a
	t.records[answerer] = b
	return a, b, nil
}

// Get returns the session for connID. A record whose partner does not point
// back is corrupted: it is removed and reported as ErrNotFound.
func (t *SessionTable) Get(connID string) (models.Session, error) {
	rec, ok := t.records[connID]
	if !ok {
		return models.Session{}, ErrNotFound
	}
	mirror, ok := t.records[rec.PartnerID]
	if !ok || mirror.PartnerID != connID {
		delete(t.records, connID)
		return models.Session{}, ErrNotFound
	}
	return rec, nil
}

// Destroy removes connID's record and its partner's mirror, if the mirror
// still names connID. It returns the partner the record pointed at.
func (t *SessionTable) Destroy(connID string) (partnerID string, ok bool) {
	rec, ok := t.records[connID]
	if !ok {
		return "", false
	}
	delete(t.records, connID)

	if mirror, found := t.records[rec.PartnerID]; found && mirror.PartnerID == connID {
		delete(t.records, rec.PartnerID)
	}
	return rec.PartnerID, true
}

func (t *SessionTable) Has(connID string) bool {
	_, err := t.Get(connID)
	return err == nil
}

// Count is the number of active pairings.
func (t *SessionTable) Count() int {
	return len(t.records) / 2
}
