package handler

import (
	"net/http"

	"videomatch/backend/internal/apperrors"
	"videomatch/backend/internal/chathub"
	"videomatch/backend/internal/identity"
	"videomatch/backend/internal/logger"
	"videomatch/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Handler holds everything the HTTP layer needs: the hub, the identity
// service and the profile store.
type Handler struct {
	Hub        *chathub.ManagerService
	Identity   *identity.Service
	Storage    storage.Storage
	SendBuffer int

	upgrader websocket.Upgrader
}

func NewHandler(hub *chathub.ManagerService, ids *identity.Service, store storage.Storage, allowedOrigins []string) *Handler {
	h := &Handler{
		Hub:      hub,
		Identity: ids,
		Storage:  store,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

// fail logs err and writes the mapped status and message.
func fail(c *gin.Context, err error) {
	mapped := apperrors.Map(err)
	if mapped.Status >= http.StatusInternalServerError {
		logger.Error("request failed", "path", c.FullPath(), "err", err)
	} else {
		logger.Debug("request rejected", "path", c.FullPath(), "status", mapped.Status, "err", err)
	}
	c.AbortWithStatusJSON(mapped.Status, gin.H{"error": mapped.Message})
}
