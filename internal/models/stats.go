package models

import "time"

// Stats is a point-in-time view of the hub's counters.
type Stats struct {
	BrowsingUsers  int       `json:"browsingUsers"`
	VideoChatUsers int       `json:"videoChatUsers"`
	ActiveMatches  int       `json:"activeMatches"`
	WaitingQueue   int       `json:"waitingQueue"`
	PendingFriend  int       `json:"pendingFriendRequests"`
	Timestamp      time.Time `json:"timestamp"`
}

// TotalUsers counts every registered participant.
func (s Stats) TotalUsers() int {
	return s.BrowsingUsers + s.VideoChatUsers
}

// Snapshot is what the hub hands to the read-only status surface.
type Snapshot struct {
	Stats        Stats
	Participants []Participant
}
