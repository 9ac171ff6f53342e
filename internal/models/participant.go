package models

import "time"

// ParticipantStatus distinguishes idle directory visitors from participants
// that asked to be paired.
type ParticipantStatus string

const (
	StatusBrowsing  ParticipantStatus = "browsing"
	StatusInSession ParticipantStatus = "in-session"
)

// Profile holds the self-described attributes a participant announces when
// registering presence or joining matchmaking.
type Profile struct {
	Name            string   `json:"name"`
	Age             int      `json:"age,omitempty"`
	Gender          string   `json:"gender,omitempty"`
	Interests       []string `json:"interests,omitempty"`
	Values          []string `json:"values,omitempty"`
	PersonalityTags []string `json:"personalityTags,omitempty"`
	Bio             string   `json:"bio,omitempty"`
	Country         string   `json:"country,omitempty"`
	Flag            string   `json:"flag,omitempty"`
	Mode            string   `json:"mode,omitempty"`
}

// Participant is one live connection known to the hub.
type Participant struct {
	ConnID   string            `json:"id"`
	Profile  Profile           `json:"profile"`
	Status   ParticipantStatus `json:"status"`
	LastSeen time.Time         `json:"lastSeen"`
}

// Session is one side of an active 1:1 pairing. Every session is stored
// twice, once per participant, and both records name each other.
type Session struct {
	ConnID    string
	PartnerID string
	Initiator bool
	StartedAt time.Time
}
