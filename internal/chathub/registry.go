package chathub

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"videomatch/backend/internal/config"
	"videomatch/backend/internal/models"
)

// Registry maps connection ids to participants. It is owned by the hub loop
// and is not safe for concurrent use.
type Registry struct {
	participants map[string]*models.Participant
	now          func() time.Time
}

func NewRegistry(now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		participants: make(map[string]*models.Participant),
		now:          now,
	}
}

// RegisterBrowsing inserts or overwrites a browsing participant, filling in
// defaults for anything the client left out.
func (r *Registry) RegisterBrowsing(connID string, p models.Profile) *models.Participant {
	if p.Age <= 0 {
		p.Age = config.DefaultAge
	}
	if p.Gender == "" {
		p.Gender = config.DefaultGender
	}
	if p.Bio == "" {
		p.Bio = fmt.Sprintf("Hi, I'm %s!", p.Name)
	}
	if p.Country == "" {
		p.Country = config.DefaultCountry
	}
	if p.Flag == "" {
		p.Flag = config.DefaultFlag
	}
	if p.Mode == "" {
		p.Mode = config.DefaultMode
	}

	participant := &models.Participant{
		ConnID:   connID,
		Profile:  p,
		Status:   models.StatusBrowsing,
		LastSeen: r.now(),
	}
	r.participants[connID] = participant
	return participant
}

// RegisterSession validates the join fields and replaces whatever entry the
// connection had with an in-session participant. On ErrInvalidInput nothing
// changes.
func (r *Registry) RegisterSession(connID string, p models.Profile) (*models.Participant, error) {
	if strings.TrimSpace(p.Name) == "" || p.Age <= 0 || strings.TrimSpace(p.Gender) == "" {
		return nil, ErrInvalidInput
	}

	p.Gender = strings.ToLower(p.Gender)
	if p.Country == "" {
		p.Country = config.DefaultCountry
	}
	if p.Flag == "" {
		p.Flag = config.DefaultFlag
	}
	if p.Mode == "" {
		p.Mode = config.DefaultMode
	}

	participant := &models.Participant{
		ConnID:   connID,
		Profile:  p,
		Status:   models.StatusInSession,
		LastSeen: r.now(),
	}
	r.participants[connID] = participant
	return participant, nil
}

func (r *Registry) Remove(connID string) {
	delete(r.participants, connID)
}

func (r *Registry) Get(connID string) (*models.Participant, error) {
	p, ok := r.participants[connID]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

// InSession reports whether connID joined matchmaking.
func (r *Registry) InSession(connID string) bool {
	p, ok := r.participants[connID]
	return ok && p.Status == models.StatusInSession
}

func (r *Registry) Counts() (browsing, inSession int) {
	for _, p := range r.participants {
		if p.Status == models.StatusBrowsing {
			browsing++
		} else {
			inSession++
		}
	}
	return browsing, inSession
}

// Snapshot copies every participant, browsing first, then by connection id.
func (r *Registry) Snapshot() []models.Participant {
	out := make([]models.Participant, 0, len(r.participants))
	for _, p := range r.participants {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Status != out[j].Status {
			return out[i].Status == models.StatusBrowsing
		}
		return out[i].ConnID < out[j].ConnID
	})
	return out
}
