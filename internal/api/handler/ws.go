package handler

import (
	"net/http"

	"videomatch/backend/internal/chathub"
	"videomatch/backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// ServeWebSocket upgrades the request and hands the connection to the hub.
// Connections are anonymous; stable ids arrive later via
// register-friend-system.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response.
		logger.Debug("websocket upgrade failed", "remote", c.ClientIP(), "err", err)
		return
	}

	var resolver chathub.IdentityResolver
	if h.Identity != nil {
		resolver = h.Identity
	}
	client := chathub.NewWebSocketClient(conn, h.Hub, resolver, h.SendBuffer)

	if !h.Hub.Register(client) {
		_ = conn.Close()
		return
	}
	logger.Info("websocket connected", "conn", client.ConnID, "remote", c.ClientIP())
	client.Run()
}

// originChecker accepts same-origin requests, listed origins, or anything
// when "*" is listed.
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set["*"] || set[origin]
	}
}
