package handler

import (
	"net/http"
	"time"

	"videomatch/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// DirectoryEntry is one row of GET /api/users.
type DirectoryEntry struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Age             int      `json:"age"`
	Gender          string   `json:"gender"`
	Online          bool     `json:"online"`
	Interests       []string `json:"interests"`
	Values          []string `json:"values"`
	PersonalityTags []string `json:"personalityTags"`
	Bio             string   `json:"bio"`
	Country         string   `json:"country"`
	Flag            string   `json:"flag"`
	Mode            string   `json:"mode"`
	Status          string   `json:"status"`
}

func (h *Handler) Health(c *gin.Context) {
	snap, err := h.Hub.Snapshot(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	s := snap.Stats
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"activeUsers":   s.VideoChatUsers,
		"browsingUsers": s.BrowsingUsers,
		"totalUsers":    s.TotalUsers(),
		"activeMatches": s.ActiveMatches,
		"waitingQueue":  s.WaitingQueue,
		"timestamp":     s.Timestamp.UTC().Format(time.RFC3339Nano),
	})
}

func (h *Handler) Stats(c *gin.Context) {
	snap, err := h.Hub.Snapshot(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	s := snap.Stats
	c.JSON(http.StatusOK, gin.H{
		"totalUsers":     s.TotalUsers(),
		"videoChatUsers": s.VideoChatUsers,
		"browsingUsers":  s.BrowsingUsers,
		"activeMatches":  s.ActiveMatches,
		"waitingQueue":   s.WaitingQueue,
	})
}

// Users lists every registered participant, browsing ones first.
func (h *Handler) Users(c *gin.Context) {
	snap, err := h.Hub.Snapshot(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	out := make([]DirectoryEntry, 0, len(snap.Participants))
	for _, p := range snap.Participants {
		out = append(out, directoryEntry(p))
	}
	c.JSON(http.StatusOK, out)
}

func directoryEntry(p models.Participant) DirectoryEntry {
	status := "browsing"
	if p.Status == models.StatusInSession {
		status = "in-chat"
	}
	return DirectoryEntry{
		ID:              p.ConnID,
		Name:            p.Profile.Name,
		Age:             p.Profile.Age,
		Gender:          p.Profile.Gender,
		Online:          true,
		Interests:       orEmpty(p.Profile.Interests),
		Values:          orEmpty(p.Profile.Values),
		PersonalityTags: orEmpty(p.Profile.PersonalityTags),
		Bio:             p.Profile.Bio,
		Country:         p.Profile.Country,
		Flag:            p.Profile.Flag,
		Mode:            p.Profile.Mode,
		Status:          status,
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
